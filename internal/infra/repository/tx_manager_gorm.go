package repository

import (
	"context"

	repo "app/internal/repository"

	"gorm.io/gorm"
)

type txReposGorm struct {
	orders            repo.OrderRepository
	orderItems        repo.OrderItemRepository
	payments          repo.PaymentRepository
	cartItems         repo.CartItemRepository
	products          repo.ProductRepository
	shippingOrders    repo.ShippingOrderRepository
	shippingAddresses repo.ShippingAddressRepository
	notifications     repo.NotificationRepository
}

func (r *txReposGorm) Orders() repo.OrderRepository { return r.orders }

func (r *txReposGorm) OrderItems() repo.OrderItemRepository { return r.orderItems }

func (r *txReposGorm) Payments() repo.PaymentRepository { return r.payments }

func (r *txReposGorm) CartItems() repo.CartItemRepository { return r.cartItems }

func (r *txReposGorm) Products() repo.ProductRepository { return r.products }

func (r *txReposGorm) ShippingOrders() repo.ShippingOrderRepository { return r.shippingOrders }

func (r *txReposGorm) ShippingAddresses() repo.ShippingAddressRepository { return r.shippingAddresses }

func (r *txReposGorm) Notifications() repo.NotificationRepository { return r.notifications }

type TxManagerGorm struct {
	db *gorm.DB
}

func NewTxManagerGorm(db *gorm.DB) *TxManagerGorm {
	return &TxManagerGorm{db: db}
}

func (tm *TxManagerGorm) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return tm.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		//repoはtxを持ったDBで作り直す
		r := &txReposGorm{
			orders:            NewOrderGormRepository(tx),
			orderItems:        NewOrderItemGormRepository(tx),
			payments:          NewPaymentGormRepository(tx),
			cartItems:         NewCartItemGormRepository(tx),
			products:          NewProductGormRepository(tx),
			shippingOrders:    NewShippingOrderGormRepository(tx),
			shippingAddresses: NewShippingAddressGormRepository(tx),
			notifications:     NewNotificationGormRepository(tx),
		}
		return fn(r)
	})
}
