package shipping

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"app/internal/domain/model"
)

// 開発・テスト用のモック業者。料率は固定ルールで再現可能。
type MockProvider struct{}

func NewMockProvider() *MockProvider {
	return &MockProvider{}
}

func (p *MockProvider) Name() string { return "Mock" }

// 基本料15,000。省をまたぐと+20,000。1kg超は1kgごとに+5,000。
func (p *MockProvider) CalculateFee(ctx context.Context, fromProvince, fromDistrict, toProvince, toDistrict string, weightKg float64) (int64, error) {
	var fee int64 = 15000

	if fromProvince != toProvince {
		fee += 20000
	}

	if weightKg > 1 {
		fee += int64((weightKg - 1) * 5000)
	}

	return fee, nil
}

func (p *MockProvider) CreateOrder(ctx context.Context, order model.ShippingOrder, pickup, delivery model.ShippingAddress) (string, error) {
	trackingNumber := fmt.Sprintf("MOCK%s%04d", time.Now().Format("20060102150405"), rand.Intn(9000)+1000)
	return trackingNumber, nil
}

func (p *MockProvider) TrackOrder(ctx context.Context, trackingNumber string) (TrackingInfo, error) {
	now := time.Now()
	est := now.AddDate(0, 0, 2)

	return TrackingInfo{
		TrackingNumber:    trackingNumber,
		Status:            string(model.ShippingStatusInTransit),
		CurrentLocation:   "Kho trung chuyển HCM",
		EstimatedDelivery: &est,
		Events: []TrackingEvent{
			{
				Timestamp:   now.Add(-2 * time.Hour),
				Status:      string(model.ShippingStatusPickedUp),
				Location:    "Kho lấy hàng",
				Description: "Đã lấy hàng thành công",
			},
			{
				Timestamp:   now.Add(-30 * time.Minute),
				Status:      string(model.ShippingStatusInTransit),
				Location:    "Kho trung chuyển HCM",
				Description: "Đang vận chuyển",
			},
		},
	}, nil
}
