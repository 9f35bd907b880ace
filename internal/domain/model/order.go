package model

import "time"

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "PENDING"    // 確認待ち
	OrderStatusConfirmed  OrderStatus = "CONFIRMED"  // 出品者が確認済み
	OrderStatusProcessing OrderStatus = "PROCESSING" // 梱包中
	OrderStatusShipping   OrderStatus = "SHIPPING"   // 配送中
	OrderStatusDelivered  OrderStatus = "DELIVERED"  // 配達済み
	OrderStatusCompleted  OrderStatus = "COMPLETED"  // 購入者が受取確認済み
	OrderStatusCancelled  OrderStatus = "CANCELLED"
	OrderStatusRefunded   OrderStatus = "REFUNDED"
)

type PaymentMethod string

const (
	PaymentMethodCOD          PaymentMethod = "COD"
	PaymentMethodVNPay        PaymentMethod = "VNPAY"
	PaymentMethodMoMo         PaymentMethod = "MOMO"
	PaymentMethodBankTransfer PaymentMethod = "BANK_TRANSFER"
)

type PaymentStatus string

const (
	PaymentStatusUnpaid   PaymentStatus = "UNPAID"
	PaymentStatusPaid     PaymentStatus = "PAID"
	PaymentStatusRefunded PaymentStatus = "REFUNDED"
	PaymentStatusFailed   PaymentStatus = "FAILED"
)

// 1つの注文は (購入者, 出品者) 1組に対応する。
// カートに複数出品者の商品がある場合は出品者ごとに分割して作成される。
// 金額はVNDの整数。final_amount = total_amount + shipping_fee。
type Order struct {
	ID          int64       `gorm:"primaryKey;autoIncrement" json:"id"`
	BuyerID     int64       `gorm:"not null;index" json:"buyer_id"`
	SellerID    int64       `gorm:"not null;index" json:"seller_id"`
	TotalAmount int64       `gorm:"not null" json:"total_amount"`
	ShippingFee int64       `gorm:"not null" json:"shipping_fee"`
	FinalAmount int64       `gorm:"not null" json:"final_amount"`
	OrderDate   time.Time   `gorm:"not null" json:"order_date"`
	Status      OrderStatus `gorm:"type:varchar(20);not null;index" json:"status"`

	PaymentMethod PaymentMethod `gorm:"type:varchar(20);not null" json:"payment_method"`
	PaymentStatus PaymentStatus `gorm:"type:varchar(20);not null" json:"payment_status"`

	ShippingAddressID int64  `gorm:"not null" json:"shipping_address_id"`
	ShippingProvider  string `gorm:"type:varchar(100)" json:"shipping_provider"`
	TrackingNumber    string `gorm:"type:varchar(100)" json:"tracking_number"`
	Note              string `gorm:"type:varchar(500)" json:"note"`

	ShippedDate        *time.Time `json:"shipped_date,omitempty"`
	DeliveredDate      *time.Time `json:"delivered_date,omitempty"`
	CancelledDate      *time.Time `json:"cancelled_date,omitempty"`
	CancellationReason string     `gorm:"type:varchar(500)" json:"cancellation_reason,omitempty"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
