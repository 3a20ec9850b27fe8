package model

import (
	"time"
)

// TokenScope 発行するトークンの種別
type TokenScope string

const (
	ScopeUser  TokenScope = "user"  // 一般ユーザー用トークン
	ScopeAdmin TokenScope = "admin" // 管理者用トークン
)

// User 一般ユーザーアカウント。選書リストを所有する。
// 注文フローの Customer とは独立した識別体系(後者はゲスト注文用)。
type User struct {
	ID           uint       `gorm:"primarykey" json:"id"`
	Username     string     `gorm:"uniqueIndex;not null" json:"username"`
	Email        string     `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string     `gorm:"not null" json:"-"`
	FullName     string     `json:"full_name"`
	Organization string     `json:"organization"` // 所属(学校・図書館名など)
	Phone        string     `json:"phone"`
	IsActive     bool       `gorm:"default:true" json:"is_active"`
	CreatedAt    time.Time  `json:"created_at"`
	LastLogin    *time.Time `json:"last_login"`

	SelectionLists []SelectionList `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"selection_lists,omitempty"`
}

func (User) TableName() string {
	return "users"
}

// Admin 管理者アカウント。独立したトークンスコープを持つ。
type Admin struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	Username     string    `gorm:"uniqueIndex;not null" json:"username"`
	PasswordHash string    `gorm:"not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

func (Admin) TableName() string {
	return "admins"
}
