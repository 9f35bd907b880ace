package usecase

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"app/internal/config"
	"app/internal/domain/model"
	repo "app/internal/repository"
	"app/internal/shipping"

	"github.com/rs/zerolog/log"
)

// ShippingUsecase は住所帳・配送料比較・伝票作成/追跡の業務ロジック。
type ShippingUsecase struct {
	addresses      repo.ShippingAddressRepository
	shippingOrders repo.ShippingOrderRepository
	products       repo.ProductRepository
	factory        *shipping.Factory
	cfg            config.ShippingConfig
}

func NewShippingUsecase(
	addresses repo.ShippingAddressRepository,
	shippingOrders repo.ShippingOrderRepository,
	products repo.ProductRepository,
	factory *shipping.Factory,
	cfg config.ShippingConfig,
) *ShippingUsecase {
	return &ShippingUsecase{
		addresses:      addresses,
		shippingOrders: shippingOrders,
		products:       products,
		factory:        factory,
		cfg:            cfg,
	}
}

type AddressCreateRequest struct {
	FullName    string `json:"full_name"`
	Phone       string `json:"phone"`
	Province    string `json:"province"`
	District    string `json:"district"`
	Ward        string `json:"ward"`
	AddressLine string `json:"address_line"`
	IsDefault   bool   `json:"is_default"`
}

type ShippingFeeDTO struct {
	Provider          string    `json:"provider"`
	Fee               int64     `json:"fee"`
	EstimatedDelivery time.Time `json:"estimated_delivery"`
}

type CreateShippingOrderInput struct {
	ProductID         int64
	PickupAddressID   int64
	DeliveryAddressID int64
	BuyerID           int64
	Provider          string
	ShippingFee       int64
}

// AddAddress は住所を追加する。最初の1件は自動でデフォルトになる。
func (u *ShippingUsecase) AddAddress(ctx context.Context, userID int64, req AddressCreateRequest) (model.ShippingAddress, error) {
	if userID <= 0 {
		return model.ShippingAddress{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if req.FullName == "" || req.Phone == "" || req.Province == "" || req.District == "" || req.AddressLine == "" {
		return model.ShippingAddress{}, NewHTTPError(http.StatusBadRequest, "invalid address")
	}

	count, err := u.addresses.CountByUserID(ctx, userID)
	if err != nil {
		return model.ShippingAddress{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	a := model.ShippingAddress{
		UserID:      userID,
		FullName:    req.FullName,
		Phone:       req.Phone,
		Province:    req.Province,
		District:    req.District,
		Ward:        req.Ward,
		AddressLine: req.AddressLine,
		IsDefault:   req.IsDefault || count == 0,
		CreatedAt:   time.Now(),
	}

	//デフォルトにするなら他を外す
	if a.IsDefault {
		if err := u.addresses.ClearDefaults(ctx, userID); err != nil {
			return model.ShippingAddress{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
	}

	created, err := u.addresses.Create(ctx, a)
	if err != nil {
		return model.ShippingAddress{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return created, nil
}

func (u *ShippingUsecase) ListAddresses(ctx context.Context, userID int64) ([]model.ShippingAddress, error) {
	if userID <= 0 {
		return nil, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	list, err := u.addresses.ListByUserID(ctx, userID)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return list, nil
}

// SetDefaultAddress は冪等。既にデフォルトの住所を指定しても
// デフォルトは1件のまま変わらない。
func (u *ShippingUsecase) SetDefaultAddress(ctx context.Context, userID, addressID int64) error {
	if userID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if addressID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	owned, err := u.addresses.IsOwnedByUser(ctx, addressID, userID)
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !owned {
		return NewHTTPError(http.StatusNotFound, "address not found")
	}

	if err := u.addresses.SetDefault(ctx, userID, addressID); err != nil {
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "address not found")
		}
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

func (u *ShippingUsecase) DeleteAddress(ctx context.Context, userID, addressID int64) error {
	if userID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if addressID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	owned, err := u.addresses.IsOwnedByUser(ctx, addressID, userID)
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !owned {
		return NewHTTPError(http.StatusNotFound, "address not found")
	}

	if err := u.addresses.Delete(ctx, addressID); err != nil {
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "address not found")
		}
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

// CalculateAllProviders は登録済みの全業者に見積もりを取り、安い順で返す。
// 失敗した業者は結果から除くだけでエラーにはしない。
func (u *ShippingUsecase) CalculateAllProviders(ctx context.Context, productID, deliveryAddressID int64) ([]ShippingFeeDTO, error) {
	product, err := u.products.FindByID(ctx, productID)
	if err == repo.ErrNotFound {
		return nil, NewHTTPError(http.StatusNotFound, "product not found")
	}
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	delivery, err := u.addresses.FindByID(ctx, deliveryAddressID)
	if err == repo.ErrNotFound {
		return nil, NewHTTPError(http.StatusNotFound, "delivery address not found")
	}
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	pickupProvince, pickupDistrict := u.resolvePickupOrigin(ctx, product.SellerID)

	fees := make([]ShippingFeeDTO, 0, len(u.factory.AvailableProviders()))
	for _, name := range u.factory.AvailableProviders() {
		provider, err := u.factory.GetProvider(name)
		if err != nil {
			continue
		}

		fee, err := provider.CalculateFee(ctx, pickupProvince, pickupDistrict, delivery.Province, delivery.District, product.WeightKg)
		if err != nil {
			//落ちている業者は候補から外す
			log.Warn().Err(err).Str("provider", name).Msg("fee quote failed")
			continue
		}

		fees = append(fees, ShippingFeeDTO{
			Provider:          name,
			Fee:               fee,
			EstimatedDelivery: time.Now().AddDate(0, 0, 3),
		})
	}

	sort.Slice(fees, func(i, j int) bool { return fees[i].Fee < fees[j].Fee })
	return fees, nil
}

// CalculateFee は指定業者の見積もりを返す。業者が見積もりに失敗していれば0。
func (u *ShippingUsecase) CalculateFee(ctx context.Context, productID, deliveryAddressID int64, providerName string) (int64, error) {
	fees, err := u.CalculateAllProviders(ctx, productID, deliveryAddressID)
	if err != nil {
		return 0, err
	}

	for _, f := range fees {
		if strings.EqualFold(f.Provider, providerName) {
			return f.Fee, nil
		}
	}
	return 0, nil
}

// CreateShippingOrder は業者に伝票を作らせてから1回のINSERTで保存する。
// 集荷元は 指定住所 → 出品者のデフォルト → 出品者の最初の住所 の順で解決する。
func (u *ShippingUsecase) CreateShippingOrder(ctx context.Context, in CreateShippingOrderInput) (model.ShippingOrder, error) {
	product, err := u.products.FindByID(ctx, in.ProductID)
	if err == repo.ErrNotFound {
		return model.ShippingOrder{}, NewHTTPError(http.StatusNotFound, "product not found")
	}
	if err != nil {
		return model.ShippingOrder{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	pickup, err := u.resolvePickupAddress(ctx, in.PickupAddressID, product.SellerID)
	if err != nil {
		return model.ShippingOrder{}, err
	}

	delivery, err := u.addresses.FindByID(ctx, in.DeliveryAddressID)
	if err == repo.ErrNotFound {
		return model.ShippingOrder{}, NewHTTPError(http.StatusBadRequest, "invalid delivery address")
	}
	if err != nil {
		return model.ShippingOrder{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	fee := in.ShippingFee
	if fee <= 0 {
		fee, err = u.CalculateFee(ctx, in.ProductID, in.DeliveryAddressID, in.Provider)
		if err != nil {
			return model.ShippingOrder{}, err
		}
	}

	provider, err := u.factory.GetProvider(in.Provider)
	if err != nil {
		return model.ShippingOrder{}, NewHTTPError(http.StatusBadRequest, "unknown shipping provider")
	}

	order := model.ShippingOrder{
		ProductID:       in.ProductID,
		SellerID:        product.SellerID,
		BuyerID:         in.BuyerID,
		Provider:        in.Provider,
		PickupAddress:   formatAddress(pickup),
		DeliveryAddress: formatAddress(delivery),
		ShippingFee:     fee,
		Status:          model.ShippingStatusPending,
		CreatedAt:       time.Now(),
	}

	//先に業者側で伝票を作る。失敗したら行は残さない
	trackingNumber, err := provider.CreateOrder(ctx, order, pickup, delivery)
	if err != nil {
		return model.ShippingOrder{}, NewHTTPError(http.StatusBadGateway, "shipping provider error")
	}

	order.TrackingNumber = trackingNumber
	est := time.Now().AddDate(0, 0, 3)
	order.EstimatedDelivery = &est

	created, err := u.shippingOrders.Create(ctx, order)
	if err != nil {
		return model.ShippingOrder{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return created, nil
}

func (u *ShippingUsecase) TrackOrder(ctx context.Context, trackingNumber string) (shipping.TrackingInfo, error) {
	order, err := u.shippingOrders.FindByTrackingNumber(ctx, trackingNumber)
	if err == repo.ErrNotFound {
		return shipping.TrackingInfo{}, NewHTTPError(http.StatusNotFound, "shipping order not found")
	}
	if err != nil {
		return shipping.TrackingInfo{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	provider, err := u.factory.GetProvider(order.Provider)
	if err != nil {
		return shipping.TrackingInfo{}, NewHTTPError(http.StatusBadRequest, "unknown shipping provider")
	}

	info, err := provider.TrackOrder(ctx, trackingNumber)
	if err != nil {
		return shipping.TrackingInfo{}, NewHTTPError(http.StatusBadGateway, "shipping provider error")
	}
	return info, nil
}

func (u *ShippingUsecase) ListUserOrders(ctx context.Context, userID int64) ([]model.ShippingOrder, error) {
	if userID <= 0 {
		return nil, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	list, err := u.shippingOrders.ListVisibleToUser(ctx, userID)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return list, nil
}

// DeleteOrder は当事者ごとの非表示。購入者が消しても出品者側には残る。
func (u *ShippingUsecase) DeleteOrder(ctx context.Context, orderID, userID int64) error {
	order, err := u.shippingOrders.FindByID(ctx, orderID)
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "shipping order not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	switch userID {
	case order.BuyerID:
		order.IsDeletedByBuyer = true
	case order.SellerID:
		order.IsDeletedBySeller = true
	default:
		return NewHTTPError(http.StatusForbidden, "forbidden")
	}
	order.UpdatedAt = time.Now()

	if err := u.shippingOrders.Update(ctx, order); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

// 集荷元住所の解決。指定→出品者デフォルト→出品者の最初の住所
func (u *ShippingUsecase) resolvePickupAddress(ctx context.Context, pickupAddressID, sellerID int64) (model.ShippingAddress, error) {
	if pickupAddressID > 0 {
		a, err := u.addresses.FindByID(ctx, pickupAddressID)
		if err == nil {
			return a, nil
		}
		if err != repo.ErrNotFound {
			return model.ShippingAddress{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
	}

	a, err := u.addresses.FindDefaultByUserID(ctx, sellerID)
	if err == nil {
		return a, nil
	}
	if err != repo.ErrNotFound {
		return model.ShippingAddress{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	a, err = u.addresses.FindFirstByUserID(ctx, sellerID)
	if err == nil {
		return a, nil
	}
	if err != repo.ErrNotFound {
		return model.ShippingAddress{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return model.ShippingAddress{}, NewHTTPError(http.StatusBadRequest, "invalid pickup address")
}

// 見積もり用の集荷元。出品者のデフォルト住所があればそれ、無ければ設定値
func (u *ShippingUsecase) resolvePickupOrigin(ctx context.Context, sellerID int64) (string, string) {
	a, err := u.addresses.FindDefaultByUserID(ctx, sellerID)
	if err == nil {
		return a.Province, a.District
	}
	return u.cfg.DefaultPickupProvince, u.cfg.DefaultPickupDistrict
}

func formatAddress(a model.ShippingAddress) string {
	return fmt.Sprintf("%s, %s, %s, %s", a.AddressLine, a.Ward, a.District, a.Province)
}
