package model

import "time"

// 配送先・集荷元住所。ユーザーごとにデフォルトは最大1件で、
// 最初に登録した住所は自動的にデフォルトになる。
type ShippingAddress struct {
	ID       int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID   int64  `gorm:"not null;index" json:"user_id"`
	FullName string `gorm:"type:varchar(255);not null" json:"full_name"`
	Phone    string `gorm:"type:varchar(20);not null" json:"phone"`

	// 省/県
	Province string `gorm:"type:varchar(100);not null" json:"province"`

	// 郡/区
	District string `gorm:"type:varchar(100);not null" json:"district"`

	// 坊/社（任意）
	Ward string `gorm:"type:varchar(100)" json:"ward"`

	// 番地・通り名
	AddressLine string `gorm:"type:varchar(500);not null" json:"address_line"`

	IsDefault bool      `gorm:"not null;default:false" json:"is_default"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
