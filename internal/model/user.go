package model

import "time"

// Role: роль пользователя.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid проверяет, что роль из известного набора.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// User: учётная запись участника организации.
type User struct {
	ID       int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Login    string `gorm:"uniqueIndex;not null;size:100" json:"username"`
	Password string `gorm:"not null" json:"-"` // bcrypt-хеш
	Name     string `gorm:"not null" json:"name"`
	Role     Role   `gorm:"not null;size:16" json:"role"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
