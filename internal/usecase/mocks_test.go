package usecase_test

import (
	"context"
	"strings"
	"testing"

	"app/internal/domain/model"
	repo "app/internal/repository"
	"app/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// =====================
// Mocks
// =====================

type OrderRepoMock struct{ mock.Mock }

func (m *OrderRepoMock) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	args := m.Called(ctx, orderID)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepoMock) ListByBuyerID(ctx context.Context, buyerID int64, page, limit int) ([]model.Order, int64, error) {
	args := m.Called(ctx, buyerID, page, limit)
	items, _ := args.Get(0).([]model.Order)
	return items, args.Get(1).(int64), args.Error(2)
}

func (m *OrderRepoMock) ListBySellerID(ctx context.Context, sellerID int64, f repo.SellerOrderListFilter) ([]model.Order, int64, error) {
	args := m.Called(ctx, sellerID, f)
	items, _ := args.Get(0).([]model.Order)
	return items, args.Get(1).(int64), args.Error(2)
}

func (m *OrderRepoMock) ListAllBySellerID(ctx context.Context, sellerID int64) ([]model.Order, error) {
	args := m.Called(ctx, sellerID)
	items, _ := args.Get(0).([]model.Order)
	return items, args.Error(1)
}

func (m *OrderRepoMock) Create(ctx context.Context, order model.Order) (int64, error) {
	args := m.Called(ctx, order)
	return args.Get(0).(int64), args.Error(1)
}

func (m *OrderRepoMock) Update(ctx context.Context, order model.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

type OrderItemRepoMock struct{ mock.Mock }

func (m *OrderItemRepoMock) CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) error {
	args := m.Called(ctx, orderID, items)
	return args.Error(0)
}

func (m *OrderItemRepoMock) ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error) {
	args := m.Called(ctx, orderID)
	items, _ := args.Get(0).([]model.OrderItem)
	return items, args.Error(1)
}

type PaymentRepoMock struct{ mock.Mock }

func (m *PaymentRepoMock) Create(ctx context.Context, payment model.Payment) (model.Payment, error) {
	args := m.Called(ctx, payment)
	p, _ := args.Get(0).(model.Payment)
	return p, args.Error(1)
}

func (m *PaymentRepoMock) FindByOrderID(ctx context.Context, orderID int64) (model.Payment, error) {
	args := m.Called(ctx, orderID)
	p, _ := args.Get(0).(model.Payment)
	return p, args.Error(1)
}

func (m *PaymentRepoMock) UpdateStatus(ctx context.Context, paymentID int64, status model.PaymentStatus) error {
	args := m.Called(ctx, paymentID, status)
	return args.Error(0)
}

type CartItemRepoMock struct{ mock.Mock }

func (m *CartItemRepoMock) ListByUserID(ctx context.Context, userID int64) ([]model.CartItem, error) {
	args := m.Called(ctx, userID)
	items, _ := args.Get(0).([]model.CartItem)
	return items, args.Error(1)
}

func (m *CartItemRepoMock) UpsertByUserAndProduct(ctx context.Context, userID, productID, addQty int64) (model.CartItem, error) {
	args := m.Called(ctx, userID, productID, addQty)
	ci, _ := args.Get(0).(model.CartItem)
	return ci, args.Error(1)
}

func (m *CartItemRepoMock) FindByID(ctx context.Context, cartItemID int64) (model.CartItem, error) {
	args := m.Called(ctx, cartItemID)
	ci, _ := args.Get(0).(model.CartItem)
	return ci, args.Error(1)
}

func (m *CartItemRepoMock) IsOwnedByUser(ctx context.Context, cartItemID, userID int64) (bool, error) {
	args := m.Called(ctx, cartItemID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *CartItemRepoMock) DeleteByID(ctx context.Context, cartItemID int64) error {
	args := m.Called(ctx, cartItemID)
	return args.Error(0)
}

func (m *CartItemRepoMock) DeleteByUserID(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *CartItemRepoMock) CountByUserID(ctx context.Context, userID int64) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

type ProductRepoMock struct{ mock.Mock }

func (m *ProductRepoMock) FindByID(ctx context.Context, productID int64) (model.Product, error) {
	args := m.Called(ctx, productID)
	p, _ := args.Get(0).(model.Product)
	return p, args.Error(1)
}

type AddressRepoMock struct{ mock.Mock }

func (m *AddressRepoMock) Create(ctx context.Context, address model.ShippingAddress) (model.ShippingAddress, error) {
	args := m.Called(ctx, address)
	a, _ := args.Get(0).(model.ShippingAddress)
	return a, args.Error(1)
}

func (m *AddressRepoMock) ListByUserID(ctx context.Context, userID int64) ([]model.ShippingAddress, error) {
	args := m.Called(ctx, userID)
	items, _ := args.Get(0).([]model.ShippingAddress)
	return items, args.Error(1)
}

func (m *AddressRepoMock) FindByID(ctx context.Context, addressID int64) (model.ShippingAddress, error) {
	args := m.Called(ctx, addressID)
	a, _ := args.Get(0).(model.ShippingAddress)
	return a, args.Error(1)
}

func (m *AddressRepoMock) FindDefaultByUserID(ctx context.Context, userID int64) (model.ShippingAddress, error) {
	args := m.Called(ctx, userID)
	a, _ := args.Get(0).(model.ShippingAddress)
	return a, args.Error(1)
}

func (m *AddressRepoMock) FindFirstByUserID(ctx context.Context, userID int64) (model.ShippingAddress, error) {
	args := m.Called(ctx, userID)
	a, _ := args.Get(0).(model.ShippingAddress)
	return a, args.Error(1)
}

func (m *AddressRepoMock) CountByUserID(ctx context.Context, userID int64) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *AddressRepoMock) ClearDefaults(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *AddressRepoMock) SetDefault(ctx context.Context, userID, addressID int64) error {
	args := m.Called(ctx, userID, addressID)
	return args.Error(0)
}

func (m *AddressRepoMock) Delete(ctx context.Context, addressID int64) error {
	args := m.Called(ctx, addressID)
	return args.Error(0)
}

func (m *AddressRepoMock) IsOwnedByUser(ctx context.Context, addressID, userID int64) (bool, error) {
	args := m.Called(ctx, addressID, userID)
	return args.Bool(0), args.Error(1)
}

type ShippingOrderRepoMock struct{ mock.Mock }

func (m *ShippingOrderRepoMock) Create(ctx context.Context, order model.ShippingOrder) (model.ShippingOrder, error) {
	args := m.Called(ctx, order)
	so, _ := args.Get(0).(model.ShippingOrder)
	return so, args.Error(1)
}

func (m *ShippingOrderRepoMock) FindByID(ctx context.Context, orderID int64) (model.ShippingOrder, error) {
	args := m.Called(ctx, orderID)
	so, _ := args.Get(0).(model.ShippingOrder)
	return so, args.Error(1)
}

func (m *ShippingOrderRepoMock) FindByTrackingNumber(ctx context.Context, trackingNumber string) (model.ShippingOrder, error) {
	args := m.Called(ctx, trackingNumber)
	so, _ := args.Get(0).(model.ShippingOrder)
	return so, args.Error(1)
}

func (m *ShippingOrderRepoMock) ListVisibleToUser(ctx context.Context, userID int64) ([]model.ShippingOrder, error) {
	args := m.Called(ctx, userID)
	items, _ := args.Get(0).([]model.ShippingOrder)
	return items, args.Error(1)
}

func (m *ShippingOrderRepoMock) Update(ctx context.Context, order model.ShippingOrder) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

type NotificationRepoMock struct{ mock.Mock }

func (m *NotificationRepoMock) Create(ctx context.Context, n model.Notification) (model.Notification, error) {
	args := m.Called(ctx, n)
	created, _ := args.Get(0).(model.Notification)
	return created, args.Error(1)
}

func (m *NotificationRepoMock) ListByUserID(ctx context.Context, userID int64, limit int) ([]model.Notification, error) {
	args := m.Called(ctx, userID, limit)
	items, _ := args.Get(0).([]model.Notification)
	return items, args.Error(1)
}

func (m *NotificationRepoMock) MarkRead(ctx context.Context, notificationID int64) error {
	args := m.Called(ctx, notificationID)
	return args.Error(0)
}

func (m *NotificationRepoMock) MarkAllRead(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *NotificationRepoMock) CountUnread(ctx context.Context, userID int64) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

type UserRepoMock struct{ mock.Mock }

func (m *UserRepoMock) FindByID(ctx context.Context, userID int64) (model.User, error) {
	args := m.Called(ctx, userID)
	u, _ := args.Get(0).(model.User)
	return u, args.Error(1)
}

type ShippingServiceMock struct{ mock.Mock }

func (m *ShippingServiceMock) CalculateFee(ctx context.Context, productID, deliveryAddressID int64, provider string) (int64, error) {
	args := m.Called(ctx, productID, deliveryAddressID, provider)
	return args.Get(0).(int64), args.Error(1)
}

func (m *ShippingServiceMock) CreateShippingOrder(ctx context.Context, in usecase.CreateShippingOrderInput) (model.ShippingOrder, error) {
	args := m.Called(ctx, in)
	so, _ := args.Get(0).(model.ShippingOrder)
	return so, args.Error(1)
}

// =====================
// Txの偽実装
// =====================

// WithinTxで渡したリポジトリをそのまま返すだけ
type txReposStub struct {
	orders         *OrderRepoMock
	orderItems     *OrderItemRepoMock
	payments       *PaymentRepoMock
	cartItems      *CartItemRepoMock
	products       *ProductRepoMock
	shippingOrders *ShippingOrderRepoMock
	addresses      *AddressRepoMock
	notifications  *NotificationRepoMock
}

func (s *txReposStub) Orders() repo.OrderRepository { return s.orders }

func (s *txReposStub) OrderItems() repo.OrderItemRepository { return s.orderItems }

func (s *txReposStub) Payments() repo.PaymentRepository { return s.payments }

func (s *txReposStub) CartItems() repo.CartItemRepository { return s.cartItems }

func (s *txReposStub) Products() repo.ProductRepository { return s.products }

func (s *txReposStub) ShippingOrders() repo.ShippingOrderRepository { return s.shippingOrders }

func (s *txReposStub) ShippingAddresses() repo.ShippingAddressRepository { return s.addresses }

func (s *txReposStub) Notifications() repo.NotificationRepository { return s.notifications }

type txManagerStub struct {
	repos *txReposStub
	err   error
}

func (m *txManagerStub) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	if m.err != nil {
		return m.err
	}
	return fn(m.repos)
}

func assertErrContains(t *testing.T, err error, msg string) {
	t.Helper()
	assert.Error(t, err)
	if err != nil {
		assert.True(t, strings.Contains(err.Error(), msg), "error %q should contain %q", err.Error(), msg)
	}
}
