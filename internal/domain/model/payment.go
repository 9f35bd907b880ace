package model

import "time"

// 支払い記録。1注文に複数レコードが残り得る（失敗→成功など）。
// amount は記録時点の注文 final_amount と一致する。
type Payment struct {
	ID            int64         `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID       int64         `gorm:"not null;index" json:"order_id"`
	Method        PaymentMethod `gorm:"type:varchar(20);not null" json:"method"`
	Amount        int64         `gorm:"not null" json:"amount"`
	Status        PaymentStatus `gorm:"type:varchar(20);not null" json:"status"`
	TransactionID string        `gorm:"type:varchar(200)" json:"transaction_id,omitempty"`
	ResponseData  string        `gorm:"type:varchar(500)" json:"-"`
	PaymentDate   *time.Time    `json:"payment_date,omitempty"`
	CreatedAt     time.Time     `gorm:"not null;autoCreateTime" json:"created_at"`
}
