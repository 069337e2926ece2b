// Package domain 定义了应用程序的核心数据模型。
package domain

import "time"

// User 表示注册用户。
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(191);not null" json:"name"`
	Email     string    `gorm:"type:varchar(191);uniqueIndex:idx_email;not null" json:"email"`
	Password  string    `gorm:"type:text;not null" json:"-"` // bcrypt 哈希，绝不序列化
	Image     string    `gorm:"type:varchar(512)" json:"image,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"-"`
}
