package shipping

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"app/internal/config"
	"app/internal/domain/model"

	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker/v2"
)

// GHN (Giao Hàng Nhanh) 連携。
// APIキーが未設定のときはモック料率にフォールバックする。
// 実API呼び出しはサーキットブレーカ越しに行い、落ちている間は即失敗する。
type GHNProvider struct {
	apiKey   string
	baseURL  string
	client   *http.Client
	breaker  *gobreaker.CircuitBreaker[[]byte]
	fallback *MockProvider
}

func NewGHNProvider(cfg config.ShippingConfig) *GHNProvider {
	var st gobreaker.Settings
	st.Name = "ghn"
	st.ReadyToTrip = func(counts gobreaker.Counts) bool {
		failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
		return counts.Requests >= 3 && failureRatio >= 0.6
	}

	return &GHNProvider{
		apiKey:   cfg.GHNAPIKey,
		baseURL:  cfg.GHNBaseURL,
		client:   &http.Client{Timeout: 10 * time.Second},
		breaker:  gobreaker.NewCircuitBreaker[[]byte](st),
		fallback: NewMockProvider(),
	}
}

func (p *GHNProvider) Name() string { return "GHN" }

func (p *GHNProvider) CalculateFee(ctx context.Context, fromProvince, fromDistrict, toProvince, toDistrict string, weightKg float64) (int64, error) {
	if p.apiKey == "" {
		//未設定ならモック料率
		return p.fallback.CalculateFee(ctx, fromProvince, fromDistrict, toProvince, toDistrict, weightKg)
	}

	body, err := p.post(ctx, "/shipping-order/fee", map[string]any{
		"from_province": fromProvince,
		"from_district": fromDistrict,
		"to_province":   toProvince,
		"to_district":   toDistrict,
		"weight":        int64(weightKg * 1000), // GHN APIはグラム
	})
	if err != nil {
		return 0, err
	}

	var resp struct {
		Data struct {
			Total int64 `json:"total"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return 0, fmt.Errorf("ghn fee response: %w", err)
	}

	return resp.Data.Total, nil
}

func (p *GHNProvider) CreateOrder(ctx context.Context, order model.ShippingOrder, pickup, delivery model.ShippingAddress) (string, error) {
	if p.apiKey == "" {
		return p.fallback.CreateOrder(ctx, order, pickup, delivery)
	}

	body, err := p.post(ctx, "/shipping-order/create", map[string]any{
		"from_name":     pickup.FullName,
		"from_phone":    pickup.Phone,
		"from_address":  pickup.AddressLine,
		"from_province": pickup.Province,
		"from_district": pickup.District,
		"to_name":       delivery.FullName,
		"to_phone":      delivery.Phone,
		"to_address":    delivery.AddressLine,
		"to_province":   delivery.Province,
		"to_district":   delivery.District,
		"cod_amount":    0,
	})
	if err != nil {
		return "", err
	}

	var resp struct {
		Data struct {
			OrderCode string `json:"order_code"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("ghn create response: %w", err)
	}
	if resp.Data.OrderCode == "" {
		return "", fmt.Errorf("ghn create: empty order code")
	}

	return resp.Data.OrderCode, nil
}

func (p *GHNProvider) TrackOrder(ctx context.Context, trackingNumber string) (TrackingInfo, error) {
	if p.apiKey == "" {
		return p.fallback.TrackOrder(ctx, trackingNumber)
	}

	body, err := p.post(ctx, "/shipping-order/detail", map[string]any{
		"order_code": trackingNumber,
	})
	if err != nil {
		return TrackingInfo{}, err
	}

	var resp struct {
		Data struct {
			Status          string `json:"status"`
			CurrentLocation string `json:"current_warehouse"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return TrackingInfo{}, fmt.Errorf("ghn detail response: %w", err)
	}

	return TrackingInfo{
		TrackingNumber:  trackingNumber,
		Status:          resp.Data.Status,
		CurrentLocation: resp.Data.CurrentLocation,
	}, nil
}

func (p *GHNProvider) post(ctx context.Context, path string, payload map[string]any) ([]byte, error) {
	return p.breaker.Execute(func() ([]byte, error) {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+path, bytes.NewReader(raw))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Token", p.apiKey)

		res, err := p.client.Do(req)
		if err != nil {
			log.Warn().Err(err).Str("path", path).Msg("ghn request failed")
			return nil, err
		}
		defer res.Body.Close()

		body, err := io.ReadAll(res.Body)
		if err != nil {
			return nil, err
		}
		if res.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("ghn status %d", res.StatusCode)
		}

		return body, nil
	})
}
