package models

import (
	"time"

	"gorm.io/datatypes"
)

// RoleClinician 注册用户的默认角色
const RoleClinician = "clinician"

// UserProfile 注册表单中的其他信息
type UserProfile struct {
	TermsAcceptedAt time.Time `json:"terms_accepted_at"`
}

// User 筛查平台注册用户
type User struct {
	ID           uint   `gorm:"primaryKey"`
	FirstName    string `gorm:"size:100;not null"`
	LastName     string `gorm:"size:100;not null"`
	Email        string `gorm:"size:255;uniqueIndex;not null"`
	PasswordHash string `gorm:"size:255;not null"`
	MedicalID    string `gorm:"size:100"`
	Specialty    string `gorm:"size:100"`
	Role         string `gorm:"size:32"`
	Profile      datatypes.JSONType[UserProfile]
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// All 需要自动迁移的模型
func All() []interface{} {
	return []interface{}{&User{}}
}
