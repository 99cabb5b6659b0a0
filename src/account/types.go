package account

import (
	"time"

	"retinascan/src/models"
)

// 注册成功后页面跳转的位置和延迟
const (
	SignupRedirect        = "/"
	SignupRedirectAfterMs = 3000
)

// SignupRequest 注册表单
type SignupRequest struct {
	FirstName       string `json:"firstName" binding:"required,max=100"`
	LastName        string `json:"lastName" binding:"required,max=100"`
	Email           string `json:"email" binding:"required,email,max=255"`
	Password        string `json:"password" binding:"required,min=8,max=72"`
	ConfirmPassword string `json:"confirmPassword" binding:"required,eqfield=Password"`
	MedicalID       string `json:"medicalId" binding:"max=100"`
	Specialty       string `json:"specialty" binding:"max=100"`
	Terms           bool   `json:"terms" binding:"required"`
}

// SigninRequest 登录表单
type SigninRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UserView 返回给前端的用户信息
type UserView struct {
	ID        uint      `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"`
	MedicalID string    `json:"medicalId,omitempty"`
	Specialty string    `json:"specialty,omitempty"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// AuthResponse 注册/登录响应
type AuthResponse struct {
	Success         bool      `json:"success"`
	Token           string    `json:"token"`
	ExpiresAt       time.Time `json:"expiresAt"`
	User            UserView  `json:"user"`
	Redirect        string    `json:"redirect,omitempty"`
	RedirectAfterMs int       `json:"redirect_after_ms,omitempty"`
}

// SessionResponse 会话状态，字段名与页面原来使用的 isSignedIn 一致
type SessionResponse struct {
	IsSignedIn bool      `json:"isSignedIn"`
	User       *UserView `json:"user,omitempty"`
}

// ErrorResponse 账号接口错误响应
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func newUserView(u *models.User) UserView {
	return UserView{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		MedicalID: u.MedicalID,
		Specialty: u.Specialty,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}
