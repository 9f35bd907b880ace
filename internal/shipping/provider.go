package shipping

import (
	"context"
	"time"

	"app/internal/domain/model"
)

// 配送業者1社ぶんのストラテジ。料金見積もり・伝票作成・追跡を行う。
type Provider interface {
	Name() string

	//区間と重量(kg)から配送料(VND)を見積もる
	CalculateFee(ctx context.Context, fromProvince, fromDistrict, toProvince, toDistrict string, weightKg float64) (int64, error)

	//業者側に伝票を作成して追跡番号を返す
	CreateOrder(ctx context.Context, order model.ShippingOrder, pickup, delivery model.ShippingAddress) (string, error)

	TrackOrder(ctx context.Context, trackingNumber string) (TrackingInfo, error)
}

type TrackingInfo struct {
	TrackingNumber    string          `json:"tracking_number"`
	Status            string          `json:"status"`
	CurrentLocation   string          `json:"current_location"`
	EstimatedDelivery *time.Time      `json:"estimated_delivery,omitempty"`
	ActualDelivery    *time.Time      `json:"actual_delivery,omitempty"`
	Events            []TrackingEvent `json:"events"`
}

type TrackingEvent struct {
	Timestamp   time.Time `json:"timestamp"`
	Status      string    `json:"status"`
	Location    string    `json:"location"`
	Description string    `json:"description"`
}
