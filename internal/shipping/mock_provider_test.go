package shipping

import (
	"context"
	"strings"
	"testing"

	"app/internal/domain/model"

	"github.com/stretchr/testify/assert"
)

func TestMockProvider_CalculateFee_SameProvince(t *testing.T) {
	p := NewMockProvider()

	fee, err := p.CalculateFee(context.Background(), "TP. Hồ Chí Minh", "Quận 1", "TP. Hồ Chí Minh", "Quận 7", 1)
	assert.NoError(t, err)
	assert.Equal(t, int64(15000), fee)
}

func TestMockProvider_CalculateFee_CrossProvince(t *testing.T) {
	p := NewMockProvider()

	fee, err := p.CalculateFee(context.Background(), "TP. Hồ Chí Minh", "Quận 1", "Hà Nội", "Ba Đình", 1)
	assert.NoError(t, err)
	assert.Equal(t, int64(35000), fee)
}

// 1kg超は1kgごとに5,000加算
func TestMockProvider_CalculateFee_WeightSurcharge(t *testing.T) {
	p := NewMockProvider()

	fee, err := p.CalculateFee(context.Background(), "Hà Nội", "Ba Đình", "Hà Nội", "Hoàn Kiếm", 3)
	assert.NoError(t, err)
	assert.Equal(t, int64(25000), fee)

	//1kg以下は加算なし
	fee, err = p.CalculateFee(context.Background(), "Hà Nội", "Ba Đình", "Hà Nội", "Hoàn Kiếm", 0.5)
	assert.NoError(t, err)
	assert.Equal(t, int64(15000), fee)
}

func TestMockProvider_CreateOrder_TrackingNumberFormat(t *testing.T) {
	p := NewMockProvider()

	tn, err := p.CreateOrder(context.Background(), model.ShippingOrder{}, model.ShippingAddress{}, model.ShippingAddress{})
	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(tn, "MOCK"))
	assert.Equal(t, len("MOCK")+14+4, len(tn))
}

func TestMockProvider_TrackOrder_ReturnsEvents(t *testing.T) {
	p := NewMockProvider()

	info, err := p.TrackOrder(context.Background(), "MOCK1")
	assert.NoError(t, err)
	assert.Equal(t, "MOCK1", info.TrackingNumber)
	assert.Equal(t, string(model.ShippingStatusInTransit), info.Status)
	assert.Equal(t, 2, len(info.Events))
}
