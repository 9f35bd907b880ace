package model

import "time"

// 注文明細。商品名・画像・単価は注文時点のスナップショットで、
// 後から商品が編集されても変わらない。
type OrderItem struct {
	ID              int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID         int64     `gorm:"not null;index" json:"order_id"`
	ProductID       int64     `gorm:"not null;index" json:"product_id"`
	ProductName     string    `gorm:"type:varchar(255);not null" json:"product_name"`
	ProductImageURL string    `gorm:"type:varchar(500)" json:"product_image_url"`
	Quantity        int64     `gorm:"not null" json:"quantity"`
	Price           int64     `gorm:"not null" json:"price"`
	Subtotal        int64     `gorm:"not null" json:"subtotal"`
	CreatedAt       time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
