package shipping

import (
	"context"
	"testing"

	"app/internal/domain/model"

	"github.com/stretchr/testify/assert"
)

type namedProvider struct {
	name string
}

func (p *namedProvider) Name() string { return p.name }

func (p *namedProvider) CalculateFee(ctx context.Context, fromProvince, fromDistrict, toProvince, toDistrict string, weightKg float64) (int64, error) {
	return 0, nil
}

func (p *namedProvider) CreateOrder(ctx context.Context, order model.ShippingOrder, pickup, delivery model.ShippingAddress) (string, error) {
	return "", nil
}

func (p *namedProvider) TrackOrder(ctx context.Context, trackingNumber string) (TrackingInfo, error) {
	return TrackingInfo{}, nil
}

func TestFactory_GetProvider_CaseInsensitive(t *testing.T) {
	ghn := &namedProvider{name: "GHN"}
	f := NewFactory(ghn, &namedProvider{name: "GHTK"})

	for _, name := range []string{"GHN", "ghn", "Ghn"} {
		p, err := f.GetProvider(name)
		assert.NoError(t, err)
		assert.Same(t, ghn, p)
	}
}

func TestFactory_GetProvider_Unknown(t *testing.T) {
	f := NewFactory(&namedProvider{name: "GHN"})

	_, err := f.GetProvider("DHL")
	assert.ErrorIs(t, err, ErrUnknownProvider)
}

// 一覧は登録順のまま
func TestFactory_AvailableProviders_StableOrder(t *testing.T) {
	f := NewFactory(
		&namedProvider{name: "GHN"},
		&namedProvider{name: "GHTK"},
		&namedProvider{name: "ViettelPost"},
	)

	assert.Equal(t, []string{"GHN", "GHTK", "ViettelPost"}, f.AvailableProviders())
}

// 同名（大小文字違い含む）の登録は最初の1件だけ残る
func TestFactory_DuplicateNamesIgnored(t *testing.T) {
	first := &namedProvider{name: "GHN"}
	f := NewFactory(first, &namedProvider{name: "ghn"})

	assert.Equal(t, []string{"GHN"}, f.AvailableProviders())
	p, err := f.GetProvider("GHN")
	assert.NoError(t, err)
	assert.Same(t, first, p)
}
