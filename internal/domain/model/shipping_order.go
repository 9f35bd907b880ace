package model

import "time"

type ShippingStatus string

const (
	ShippingStatusPending   ShippingStatus = "PENDING"
	ShippingStatusPickedUp  ShippingStatus = "PICKED_UP"
	ShippingStatusInTransit ShippingStatus = "IN_TRANSIT"
	ShippingStatusDelivered ShippingStatus = "DELIVERED"
	ShippingStatusFailed    ShippingStatus = "FAILED"
	ShippingStatusCancelled ShippingStatus = "CANCELLED"
)

// 配送業者側の伝票。Orderとは別に1個口の荷物を追跡する。
// 削除フラグは購入者・出品者それぞれ独立で、片方が消しても
// もう片方からは見え続ける。
type ShippingOrder struct {
	ID        int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID int64  `gorm:"not null;index" json:"product_id"`
	SellerID  int64  `gorm:"not null;index" json:"seller_id"`
	BuyerID   int64  `gorm:"not null;index" json:"buyer_id"`
	Provider  string `gorm:"type:varchar(20);not null" json:"provider"`

	// 配送業者が発行する追跡番号
	TrackingNumber string `gorm:"type:varchar(100);index" json:"tracking_number"`

	// 整形済み住所のスナップショット
	PickupAddress   string `gorm:"type:varchar(1000);not null" json:"pickup_address"`
	DeliveryAddress string `gorm:"type:varchar(1000);not null" json:"delivery_address"`

	ShippingFee int64          `gorm:"not null" json:"shipping_fee"`
	Status      ShippingStatus `gorm:"type:varchar(20);not null" json:"status"`

	EstimatedDelivery *time.Time `json:"estimated_delivery,omitempty"`
	ActualDelivery    *time.Time `json:"actual_delivery,omitempty"`

	IsDeletedByBuyer  bool `gorm:"not null;default:false" json:"-"`
	IsDeletedBySeller bool `gorm:"not null;default:false" json:"-"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
