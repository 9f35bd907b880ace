package usecase_test

import (
	"context"
	"errors"
	"testing"

	"app/internal/config"
	"app/internal/domain/model"
	repo "app/internal/repository"
	"app/internal/shipping"
	"app/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// 固定料金を返すスタブ業者
type stubProvider struct {
	name     string
	fee      int64
	feeErr   error
	tracking string
	orderErr error
}

func (p *stubProvider) Name() string { return p.name }

func (p *stubProvider) CalculateFee(ctx context.Context, fromProvince, fromDistrict, toProvince, toDistrict string, weightKg float64) (int64, error) {
	return p.fee, p.feeErr
}

func (p *stubProvider) CreateOrder(ctx context.Context, order model.ShippingOrder, pickup, delivery model.ShippingAddress) (string, error) {
	return p.tracking, p.orderErr
}

func (p *stubProvider) TrackOrder(ctx context.Context, trackingNumber string) (shipping.TrackingInfo, error) {
	return shipping.TrackingInfo{TrackingNumber: trackingNumber}, nil
}

var testShippingCfg = config.ShippingConfig{
	DefaultPickupProvince: "TP. Hồ Chí Minh",
	DefaultPickupDistrict: "Quận 1",
}

func newShippingUsecaseForTest(providers ...shipping.Provider) (*usecase.ShippingUsecase, *AddressRepoMock, *ShippingOrderRepoMock, *ProductRepoMock) {
	addrRepo := new(AddressRepoMock)
	soRepo := new(ShippingOrderRepoMock)
	productRepo := new(ProductRepoMock)
	uc := usecase.NewShippingUsecase(addrRepo, soRepo, productRepo, shipping.NewFactory(providers...), testShippingCfg)
	return uc, addrRepo, soRepo, productRepo
}

// 最初の住所は自動でデフォルトになる
func TestShippingUsecase_AddAddress_FirstBecomesDefault(t *testing.T) {
	uc, addrRepo, _, _ := newShippingUsecaseForTest()

	addrRepo.On("CountByUserID", mock.Anything, int64(10)).Return(int64(0), nil)
	addrRepo.On("ClearDefaults", mock.Anything, int64(10)).Return(nil)
	addrRepo.On("Create", mock.Anything, mock.MatchedBy(func(a model.ShippingAddress) bool {
		return a.IsDefault
	})).Return(model.ShippingAddress{ID: 1, IsDefault: true}, nil)

	out, err := uc.AddAddress(context.Background(), 10, usecase.AddressCreateRequest{
		FullName: "Nguyễn Văn A", Phone: "0901234567",
		Province: "Hà Nội", District: "Ba Đình", AddressLine: "1 Phố Huế",
	})
	assert.NoError(t, err)
	assert.True(t, out.IsDefault)
	addrRepo.AssertExpectations(t)
}

func TestShippingUsecase_AddAddress_SecondStaysNonDefault(t *testing.T) {
	uc, addrRepo, _, _ := newShippingUsecaseForTest()

	addrRepo.On("CountByUserID", mock.Anything, int64(10)).Return(int64(1), nil)
	addrRepo.On("Create", mock.Anything, mock.MatchedBy(func(a model.ShippingAddress) bool {
		return !a.IsDefault
	})).Return(model.ShippingAddress{ID: 2}, nil)

	_, err := uc.AddAddress(context.Background(), 10, usecase.AddressCreateRequest{
		FullName: "B", Phone: "09", Province: "Hà Nội", District: "Ba Đình", AddressLine: "2",
	})
	assert.NoError(t, err)
	addrRepo.AssertNotCalled(t, "ClearDefaults", mock.Anything, mock.Anything)
}

// 既にデフォルトの住所を再指定しても結果は変わらない
func TestShippingUsecase_SetDefaultAddress_Idempotent(t *testing.T) {
	uc, addrRepo, _, _ := newShippingUsecaseForTest()

	addrRepo.On("IsOwnedByUser", mock.Anything, int64(3), int64(10)).Return(true, nil)
	addrRepo.On("SetDefault", mock.Anything, int64(10), int64(3)).Return(nil).Twice()

	assert.NoError(t, uc.SetDefaultAddress(context.Background(), 10, 3))
	assert.NoError(t, uc.SetDefaultAddress(context.Background(), 10, 3))
	addrRepo.AssertExpectations(t)
}

func TestShippingUsecase_SetDefaultAddress_NotOwned(t *testing.T) {
	uc, addrRepo, _, _ := newShippingUsecaseForTest()

	addrRepo.On("IsOwnedByUser", mock.Anything, int64(3), int64(10)).Return(false, nil)

	err := uc.SetDefaultAddress(context.Background(), 10, 3)
	assertErrContains(t, err, "not found")
	addrRepo.AssertNotCalled(t, "SetDefault", mock.Anything, mock.Anything, mock.Anything)
}

// 全業者見積もりは安い順。失敗した業者は黙って外れる
func TestShippingUsecase_CalculateAllProviders_SortedAndDropsFailures(t *testing.T) {
	uc, addrRepo, _, productRepo := newShippingUsecaseForTest(
		&stubProvider{name: "GHN", fee: 30000},
		&stubProvider{name: "GHTK", fee: 20000},
		&stubProvider{name: "ViettelPost", feeErr: errors.New("timeout")},
	)

	productRepo.On("FindByID", mock.Anything, int64(1)).Return(model.Product{ID: 1, SellerID: 2, WeightKg: 1}, nil)
	addrRepo.On("FindByID", mock.Anything, int64(5)).Return(model.ShippingAddress{ID: 5, Province: "Hà Nội", District: "Ba Đình"}, nil)
	addrRepo.On("FindDefaultByUserID", mock.Anything, int64(2)).Return(model.ShippingAddress{}, repo.ErrNotFound)

	fees, err := uc.CalculateAllProviders(context.Background(), 1, 5)
	assert.NoError(t, err)
	assert.Equal(t, 2, len(fees))
	assert.Equal(t, "GHTK", fees[0].Provider)
	assert.Equal(t, int64(20000), fees[0].Fee)
	assert.Equal(t, "GHN", fees[1].Provider)
}

// 業者名の大小文字は区別しない。見つからなければ0
func TestShippingUsecase_CalculateFee_CaseInsensitive(t *testing.T) {
	uc, addrRepo, _, productRepo := newShippingUsecaseForTest(
		&stubProvider{name: "GHN", fee: 30000},
	)

	productRepo.On("FindByID", mock.Anything, int64(1)).Return(model.Product{ID: 1, SellerID: 2}, nil)
	addrRepo.On("FindByID", mock.Anything, int64(5)).Return(model.ShippingAddress{ID: 5}, nil)
	addrRepo.On("FindDefaultByUserID", mock.Anything, int64(2)).Return(model.ShippingAddress{}, repo.ErrNotFound)

	fee, err := uc.CalculateFee(context.Background(), 1, 5, "ghn")
	assert.NoError(t, err)
	assert.Equal(t, int64(30000), fee)

	fee, err = uc.CalculateFee(context.Background(), 1, 5, "GHTK")
	assert.NoError(t, err)
	assert.Equal(t, int64(0), fee)
}

// 業者側の伝票作成に失敗したら行は残らない
func TestShippingUsecase_CreateShippingOrder_ProviderFailureLeavesNoRow(t *testing.T) {
	uc, addrRepo, soRepo, productRepo := newShippingUsecaseForTest(
		&stubProvider{name: "GHN", fee: 30000, orderErr: errors.New("api down")},
	)

	productRepo.On("FindByID", mock.Anything, int64(1)).Return(model.Product{ID: 1, SellerID: 2}, nil)
	addrRepo.On("FindByID", mock.Anything, int64(7)).Return(model.ShippingAddress{ID: 7, UserID: 2}, nil)
	addrRepo.On("FindByID", mock.Anything, int64(5)).Return(model.ShippingAddress{ID: 5, UserID: 10}, nil)

	_, err := uc.CreateShippingOrder(context.Background(), usecase.CreateShippingOrderInput{
		ProductID: 1, PickupAddressID: 7, DeliveryAddressID: 5, BuyerID: 10, Provider: "GHN", ShippingFee: 30000,
	})
	assertErrContains(t, err, "shipping provider error")
	soRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestShippingUsecase_CreateShippingOrder_Success(t *testing.T) {
	uc, addrRepo, soRepo, productRepo := newShippingUsecaseForTest(
		&stubProvider{name: "GHN", fee: 30000, tracking: "GHN123456"},
	)

	productRepo.On("FindByID", mock.Anything, int64(1)).Return(model.Product{ID: 1, SellerID: 2}, nil)
	addrRepo.On("FindByID", mock.Anything, int64(7)).Return(model.ShippingAddress{ID: 7, UserID: 2, Province: "Hà Nội"}, nil)
	addrRepo.On("FindByID", mock.Anything, int64(5)).Return(model.ShippingAddress{ID: 5, UserID: 10, Province: "Đà Nẵng"}, nil)
	soRepo.On("Create", mock.Anything, mock.MatchedBy(func(o model.ShippingOrder) bool {
		return o.TrackingNumber == "GHN123456" &&
			o.SellerID == 2 && o.BuyerID == 10 &&
			o.Status == model.ShippingStatusPending &&
			o.EstimatedDelivery != nil
	})).Return(model.ShippingOrder{ID: 9, TrackingNumber: "GHN123456"}, nil)

	out, err := uc.CreateShippingOrder(context.Background(), usecase.CreateShippingOrderInput{
		ProductID: 1, PickupAddressID: 7, DeliveryAddressID: 5, BuyerID: 10, Provider: "GHN", ShippingFee: 30000,
	})
	assert.NoError(t, err)
	assert.Equal(t, int64(9), out.ID)
	soRepo.AssertExpectations(t)
}

// 集荷住所未指定なら出品者のデフォルト→最初の住所の順で補完する
func TestShippingUsecase_CreateShippingOrder_PickupFallback(t *testing.T) {
	uc, addrRepo, soRepo, productRepo := newShippingUsecaseForTest(
		&stubProvider{name: "GHN", fee: 30000, tracking: "GHN1"},
	)

	productRepo.On("FindByID", mock.Anything, int64(1)).Return(model.Product{ID: 1, SellerID: 2}, nil)
	addrRepo.On("FindDefaultByUserID", mock.Anything, int64(2)).Return(model.ShippingAddress{}, repo.ErrNotFound)
	addrRepo.On("FindFirstByUserID", mock.Anything, int64(2)).Return(model.ShippingAddress{ID: 8, UserID: 2, Province: "Huế"}, nil)
	addrRepo.On("FindByID", mock.Anything, int64(5)).Return(model.ShippingAddress{ID: 5, UserID: 10}, nil)
	soRepo.On("Create", mock.Anything, mock.Anything).Return(model.ShippingOrder{ID: 1}, nil)

	_, err := uc.CreateShippingOrder(context.Background(), usecase.CreateShippingOrderInput{
		ProductID: 1, DeliveryAddressID: 5, BuyerID: 10, Provider: "GHN", ShippingFee: 30000,
	})
	assert.NoError(t, err)
	addrRepo.AssertExpectations(t)
}

func TestShippingUsecase_CreateShippingOrder_NoPickupAddressAnywhere(t *testing.T) {
	uc, addrRepo, soRepo, productRepo := newShippingUsecaseForTest(
		&stubProvider{name: "GHN", fee: 30000},
	)

	productRepo.On("FindByID", mock.Anything, int64(1)).Return(model.Product{ID: 1, SellerID: 2}, nil)
	addrRepo.On("FindDefaultByUserID", mock.Anything, int64(2)).Return(model.ShippingAddress{}, repo.ErrNotFound)
	addrRepo.On("FindFirstByUserID", mock.Anything, int64(2)).Return(model.ShippingAddress{}, repo.ErrNotFound)

	_, err := uc.CreateShippingOrder(context.Background(), usecase.CreateShippingOrderInput{
		ProductID: 1, DeliveryAddressID: 5, BuyerID: 10, Provider: "GHN", ShippingFee: 30000,
	})
	assertErrContains(t, err, "invalid pickup address")
	soRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

// 当事者ごとの非表示。購入者が消しても出品者側のフラグには触らない
func TestShippingUsecase_DeleteOrder_PerPartyFlags(t *testing.T) {
	uc, _, soRepo, _ := newShippingUsecaseForTest()

	soRepo.On("FindByID", mock.Anything, int64(1)).Return(model.ShippingOrder{ID: 1, BuyerID: 10, SellerID: 20}, nil)
	soRepo.On("Update", mock.Anything, mock.MatchedBy(func(o model.ShippingOrder) bool {
		return o.IsDeletedByBuyer && !o.IsDeletedBySeller
	})).Return(nil)

	assert.NoError(t, uc.DeleteOrder(context.Background(), 1, 10))
	soRepo.AssertExpectations(t)
}

func TestShippingUsecase_DeleteOrder_StrangerForbidden(t *testing.T) {
	uc, _, soRepo, _ := newShippingUsecaseForTest()

	soRepo.On("FindByID", mock.Anything, int64(1)).Return(model.ShippingOrder{ID: 1, BuyerID: 10, SellerID: 20}, nil)

	err := uc.DeleteOrder(context.Background(), 1, 99)
	assertErrContains(t, err, "forbidden")
	soRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}
