package repository

import "context"

// トランザクション内で使う約束
type TxRepos interface {
	Orders() OrderRepository
	OrderItems() OrderItemRepository
	Payments() PaymentRepository
	CartItems() CartItemRepository
	Products() ProductRepository
	ShippingOrders() ShippingOrderRepository
	ShippingAddresses() ShippingAddressRepository
	Notifications() NotificationRepository
}

// UsecaseからTxの開始/commit/rollbackを隠す。
type TransactionManager interface {
	WithinTx(ctx context.Context, fn func(r TxRepos) error) error
}
