package account

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"retinascan/src/core/auth"
	"retinascan/src/core/middleware"
	"retinascan/src/core/utils"
	"retinascan/src/models"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
)

type DefaultAccountService struct {
	logger    *utils.TaggedLogger
	store     UserStore
	authToken *auth.AuthToken
	now       func() time.Time
}

// NewDefaultAccountService 构造函数
func NewDefaultAccountService(store UserStore, authToken *auth.AuthToken, logger *utils.Logger) *DefaultAccountService {
	return &DefaultAccountService{
		logger:    logger.WithTag("account"),
		store:     store,
		authToken: authToken,
		now:       time.Now,
	}
}

// Start 实现 AccountService 接口，注册注册/登录/会话路由
func (s *DefaultAccountService) Start(ctx context.Context, engine *gin.Engine, apiGroup *gin.RouterGroup) error {
	apiGroup.POST("/signup", s.handleSignup)
	apiGroup.POST("/signin", s.handleSignin)
	apiGroup.GET("/session", s.handleSession)
	apiGroup.OPTIONS("/signup", s.handleOptions)
	apiGroup.OPTIONS("/signin", s.handleOptions)
	apiGroup.OPTIONS("/session", s.handleOptions)

	s.logger.Info("账号服务路由注册完成")
	return nil
}

func (s *DefaultAccountService) handleOptions(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// handleSignup 创建账号并签发会话令牌
func (s *DefaultAccountService) handleSignup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, bindingMessage(err))
		return
	}
	if len(req.Password) > 72 {
		s.respondError(c, http.StatusBadRequest, "password must be at most 72 bytes")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error(fmt.Sprintf("密码哈希失败: %v", err))
		s.respondError(c, http.StatusInternalServerError, "could not create account")
		return
	}

	user := &models.User{
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Email:        normalizeEmail(req.Email),
		PasswordHash: string(hash),
		MedicalID:    strings.TrimSpace(req.MedicalID),
		Specialty:    strings.TrimSpace(req.Specialty),
		Role:         models.RoleClinician,
		Profile:      datatypes.NewJSONType(models.UserProfile{TermsAcceptedAt: s.now().UTC()}),
	}

	if err := s.store.Create(c.Request.Context(), user); err != nil {
		if errors.Is(err, ErrEmailTaken) {
			s.respondError(c, http.StatusConflict, "an account with this email already exists")
			return
		}
		s.logger.Error(fmt.Sprintf("创建账号失败: %v", err))
		s.respondError(c, http.StatusInternalServerError, "could not create account")
		return
	}

	resp, err := s.issue(user)
	if err != nil {
		s.logger.Error(fmt.Sprintf("签发令牌失败: %v", err))
		s.respondError(c, http.StatusInternalServerError, "could not create session")
		return
	}
	resp.Redirect = SignupRedirect
	resp.RedirectAfterMs = SignupRedirectAfterMs

	s.logger.Info(fmt.Sprintf("新用户注册成功, id=%d", user.ID))
	c.JSON(http.StatusCreated, resp)
}

// handleSignin 校验密码并签发会话令牌
func (s *DefaultAccountService) handleSignin(c *gin.Context) {
	var req SigninRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, bindingMessage(err))
		return
	}

	user, err := s.store.FindByEmail(c.Request.Context(), normalizeEmail(req.Email))
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		s.logger.Error(fmt.Sprintf("查询用户失败: %v", err))
		s.respondError(c, http.StatusInternalServerError, "could not sign in")
		return
	}
	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		s.logger.Warn("登录失败: 邮箱或密码错误")
		s.respondError(c, http.StatusUnauthorized, "invalid email or password")
		return
	}

	resp, err := s.issue(user)
	if err != nil {
		s.logger.Error(fmt.Sprintf("签发令牌失败: %v", err))
		s.respondError(c, http.StatusInternalServerError, "could not create session")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// handleSession 返回当前会话状态，无效令牌视为未登录
func (s *DefaultAccountService) handleSession(c *gin.Context) {
	token, ok := middleware.BearerToken(c)
	if !ok {
		c.JSON(http.StatusOK, SessionResponse{IsSignedIn: false})
		return
	}

	claims, err := s.authToken.VerifyToken(token)
	if err != nil {
		s.logger.Debug(fmt.Sprintf("会话令牌无效: %v", err))
		c.JSON(http.StatusOK, SessionResponse{IsSignedIn: false})
		return
	}

	user, err := s.store.FindByID(c.Request.Context(), claims.UserID)
	if err != nil {
		if !errors.Is(err, ErrUserNotFound) {
			s.logger.Error(fmt.Sprintf("查询用户失败: %v", err))
		}
		c.JSON(http.StatusOK, SessionResponse{IsSignedIn: false})
		return
	}

	view := newUserView(user)
	c.JSON(http.StatusOK, SessionResponse{IsSignedIn: true, User: &view})
}

func (s *DefaultAccountService) issue(user *models.User) (AuthResponse, error) {
	token, err := s.authToken.GenerateToken(user.ID, user.Email)
	if err != nil {
		return AuthResponse{}, err
	}
	return AuthResponse{
		Success:   true,
		Token:     token,
		ExpiresAt: s.now().Add(s.authToken.TTL()).UTC(),
		User:      newUserView(user),
	}, nil
}

func (s *DefaultAccountService) respondError(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, ErrorResponse{Success: false, Message: message})
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// bindingMessage 把校验错误转成前端可读的提示
func bindingMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "invalid request body"
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := fe.Field()
		switch fe.Tag() {
		case "required":
			if field == "Terms" {
				msgs = append(msgs, "terms must be accepted")
			} else {
				msgs = append(msgs, field+" is required")
			}
		case "email":
			msgs = append(msgs, field+" must be a valid email address")
		case "eqfield":
			msgs = append(msgs, "passwords do not match")
		case "min":
			msgs = append(msgs, fmt.Sprintf("%s must be at least %s characters", field, fe.Param()))
		case "max":
			msgs = append(msgs, fmt.Sprintf("%s must be at most %s characters", field, fe.Param()))
		default:
			msgs = append(msgs, field+" is invalid")
		}
	}
	return strings.Join(msgs, "; ")
}
