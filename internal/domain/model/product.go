package model

import (
	"time"

	"gorm.io/gorm"
)

type ProductStatus string

const (
	ProductStatusAvailable ProductStatus = "AVAILABLE"
	ProductStatusSold      ProductStatus = "SOLD"
	ProductStatusHidden    ProductStatus = "HIDDEN"
)

type Product struct {
	ID          int64         `gorm:"primaryKey;autoIncrement" json:"id"`
	Title       string        `gorm:"type:varchar(200);not null" json:"title"`
	Description string        `gorm:"type:text" json:"description"`
	Price       int64         `gorm:"not null" json:"price"`
	ImageURL    string        `gorm:"type:varchar(500)" json:"image_url"`
	Status      ProductStatus `gorm:"type:varchar(20);not null" json:"status"`
	SellerID    int64         `gorm:"not null;index" json:"seller_id"`

	// 配送料計算用の重量(kg)
	WeightKg float64 `gorm:"not null;default:1" json:"weight_kg"`

	CreatedAt time.Time      `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
