package usecase

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/rs/zerolog/log"
)

// 注文コアが配送サービスに求める最小限の窓口
type ShippingService interface {
	CalculateFee(ctx context.Context, productID, deliveryAddressID int64, provider string) (int64, error)
	CreateShippingOrder(ctx context.Context, in CreateShippingOrderInput) (model.ShippingOrder, error)
}

type OrderUsecase struct {
	tx            repo.TransactionManager
	cartItems     repo.CartItemRepository
	products      repo.ProductRepository
	orders        repo.OrderRepository
	orderItems    repo.OrderItemRepository
	users         repo.UserRepository
	notifications repo.NotificationRepository
	shipping      ShippingService
}

func NewOrderUsecase(
	tx repo.TransactionManager,
	cartItems repo.CartItemRepository,
	products repo.ProductRepository,
	orders repo.OrderRepository,
	orderItems repo.OrderItemRepository,
	users repo.UserRepository,
	notifications repo.NotificationRepository,
	shipping ShippingService,
) *OrderUsecase {
	return &OrderUsecase{
		tx:            tx,
		cartItems:     cartItems,
		products:      products,
		orders:        orders,
		orderItems:    orderItems,
		users:         users,
		notifications: notifications,
		shipping:      shipping,
	}
}

type CreateOrderInput struct {
	AddressID     int64
	PaymentMethod model.PaymentMethod
	Provider      string
	ShippingFee   int64
	Note          string
}

type OrderItemOutput struct {
	ProductID       int64  `json:"product_id"`
	ProductName     string `json:"product_name"`
	ProductImageURL string `json:"product_image_url"`
	Price           int64  `json:"price"`
	Quantity        int64  `json:"quantity"`
	Subtotal        int64  `json:"subtotal"`
}

type OrderOutput struct {
	ID               int64             `json:"id"`
	BuyerID          int64             `json:"buyer_id"`
	SellerID         int64             `json:"seller_id"`
	Status           string            `json:"status"`
	TotalAmount      int64             `json:"total_amount"`
	ShippingFee      int64             `json:"shipping_fee"`
	FinalAmount      int64             `json:"final_amount"`
	PaymentMethod    string            `json:"payment_method"`
	PaymentStatus    string            `json:"payment_status"`
	ShippingProvider string            `json:"shipping_provider"`
	TrackingNumber   string            `json:"tracking_number"`
	Note             string            `json:"note,omitempty"`
	OrderDate        time.Time         `json:"order_date"`
	Items            []OrderItemOutput `json:"items"`
}

// カートの出品者ごとのまとまり
type sellerGroup struct {
	sellerID int64
	items    []model.CartItem
	products map[int64]model.Product
}

// CreateOrderFromCart はカートを出品者ごとに分割して注文を作る。
// 出品者グループごとに独立したトランザクションで確定するため、
// 途中で失敗すると先行グループの注文は残る（カートは消えない）。
func (u *OrderUsecase) CreateOrderFromCart(ctx context.Context, buyerID int64, in CreateOrderInput) (OrderOutput, error) {
	if buyerID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if in.AddressID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid address_id")
	}

	cartItems, err := u.cartItems.ListByUserID(ctx, buyerID)
	if err != nil {
		return OrderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if len(cartItems) == 0 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "cart is empty")
	}

	groups, err := u.groupBySeller(ctx, cartItems)
	if err != nil {
		return OrderOutput{}, err
	}

	providerName := in.Provider
	if providerName == "" {
		providerName = "GHN"
	}

	outs := make([]OrderOutput, 0, len(groups))

	for _, g := range groups {
		out, err := u.createSellerOrder(ctx, buyerID, in, providerName, g)
		if err != nil {
			return OrderOutput{}, err
		}
		outs = append(outs, out)
	}

	//全グループ確定後にカートを一括クリア
	if err := u.cartItems.DeleteByUserID(ctx, buyerID); err != nil {
		return OrderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//複数注文になった場合も先頭の注文を代表として返す
	return outs[0], nil
}

func (u *OrderUsecase) groupBySeller(ctx context.Context, cartItems []model.CartItem) ([]sellerGroup, error) {
	groups := make([]sellerGroup, 0, 2)
	index := make(map[int64]int)

	for _, ci := range cartItems {
		p, err := u.products.FindByID(ctx, ci.ProductID)
		if err == repo.ErrNotFound {
			return nil, NewHTTPError(http.StatusBadRequest, "product not found")
		}
		if err != nil {
			return nil, NewHTTPError(http.StatusInternalServerError, "db error")
		}

		i, ok := index[p.SellerID]
		if !ok {
			i = len(groups)
			index[p.SellerID] = i
			groups = append(groups, sellerGroup{
				sellerID: p.SellerID,
				products: make(map[int64]model.Product),
			})
		}
		groups[i].items = append(groups[i].items, ci)
		groups[i].products[p.ID] = p
	}

	return groups, nil
}

func (u *OrderUsecase) createSellerOrder(ctx context.Context, buyerID int64, in CreateOrderInput, providerName string, g sellerGroup) (OrderOutput, error) {
	var totalAmount int64 = 0
	for _, ci := range g.items {
		totalAmount += g.products[ci.ProductID].Price * ci.Quantity
	}

	//呼び出し側が正の送料を渡していればそれを使う。無ければ見積もり
	fee := in.ShippingFee
	if fee <= 0 {
		firstProduct := g.items[0].ProductID
		quoted, err := u.shipping.CalculateFee(ctx, firstProduct, in.AddressID, providerName)
		if err != nil {
			return OrderOutput{}, err
		}
		fee = quoted
	}

	now := time.Now()
	order := model.Order{
		BuyerID:           buyerID,
		SellerID:          g.sellerID,
		TotalAmount:       totalAmount,
		ShippingFee:       fee,
		FinalAmount:       totalAmount + fee,
		OrderDate:         now,
		Status:            model.OrderStatusPending,
		PaymentMethod:     in.PaymentMethod,
		PaymentStatus:     model.PaymentStatusUnpaid,
		ShippingAddressID: in.AddressID,
		ShippingProvider:  providerName,
		Note:              in.Note,
		//簡易追跡番号。配送業者が発行する正式な番号とは別物
		TrackingNumber: newTrackingNumber(providerName, now),
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	orderItems := make([]model.OrderItem, 0, len(g.items))
	for _, ci := range g.items {
		p := g.products[ci.ProductID]
		orderItems = append(orderItems, model.OrderItem{
			ProductID:       ci.ProductID,
			ProductName:     p.Title,
			ProductImageURL: p.ImageURL,
			Quantity:        ci.Quantity,
			Price:           p.Price,
			Subtotal:        p.Price * ci.Quantity,
			CreatedAt:       now,
		})
	}

	var orderID int64

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		id, err := r.Orders().Create(ctx, order)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if err := r.OrderItems().CreateBulk(ctx, id, orderItems); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		orderID = id
		return nil
	})
	if err != nil {
		return OrderOutput{}, err
	}
	order.ID = orderID

	//伝票作成はベストエフォート。失敗してもチェックアウトは続行する
	if _, err := u.shipping.CreateShippingOrder(ctx, CreateShippingOrderInput{
		ProductID:         g.items[0].ProductID,
		DeliveryAddressID: in.AddressID,
		BuyerID:           buyerID,
		Provider:          providerName,
		ShippingFee:       fee,
	}); err != nil {
		log.Warn().Err(err).Int64("order_id", orderID).Msg("shipping order registration failed")
	}

	u.notify(ctx, g.sellerID, "new_order",
		fmt.Sprintf("Bạn có đơn hàng mới #%d", orderID),
		fmt.Sprintf("/Order/SellerOrders/%d", orderID))

	return toOrderOutput(order, orderItems), nil
}

// GetOrderDetails は当事者（購入者か出品者）だけに注文を返す。
// 他人の注文は存在しない扱いにする。
func (u *OrderUsecase) GetOrderDetails(ctx context.Context, orderID, userID int64) (OrderOutput, error) {
	if orderID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	o, err := u.orders.FindByID(ctx, orderID)
	if err == repo.ErrNotFound {
		return OrderOutput{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return OrderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if o.BuyerID != userID && o.SellerID != userID {
		return OrderOutput{}, NewHTTPError(http.StatusNotFound, "not found")
	}

	items, err := u.orderItems.ListByOrderID(ctx, orderID)
	if err != nil {
		return OrderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return toOrderOutput(o, items), nil
}

type PagedOrders struct {
	Orders []OrderOutput `json:"orders"`
	Total  int64         `json:"total"`
	Page   int           `json:"page"`
	Limit  int           `json:"limit"`
}

func (u *OrderUsecase) ListBuyerOrders(ctx context.Context, buyerID int64, page, limit int) (PagedOrders, error) {
	if buyerID <= 0 {
		return PagedOrders{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if page <= 0 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = 10
	}

	orders, total, err := u.orders.ListByBuyerID(ctx, buyerID, page, limit)
	if err != nil {
		return PagedOrders{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	outs, err := u.withItems(ctx, orders)
	if err != nil {
		return PagedOrders{}, err
	}

	return PagedOrders{Orders: outs, Total: total, Page: page, Limit: limit}, nil
}

type SellerOrderView struct {
	OrderOutput
	BuyerName string `json:"buyer_name"`
}

type PagedSellerOrders struct {
	Orders []SellerOrderView `json:"orders"`
	Total  int64             `json:"total"`
	Page   int               `json:"page"`
	Limit  int               `json:"limit"`
}

func (u *OrderUsecase) ListSellerOrders(ctx context.Context, sellerID int64, page, limit int, statuses []model.OrderStatus) (PagedSellerOrders, error) {
	if sellerID <= 0 {
		return PagedSellerOrders{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	orders, total, err := u.orders.ListBySellerID(ctx, sellerID, repo.SellerOrderListFilter{
		Page:     page,
		Limit:    limit,
		Statuses: statuses,
	})
	if err != nil {
		return PagedSellerOrders{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	outs := make([]SellerOrderView, 0, len(orders))
	for _, o := range orders {
		items, err := u.orderItems.ListByOrderID(ctx, o.ID)
		if err != nil {
			return PagedSellerOrders{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}

		buyerName := "Khách lẻ"
		if buyer, err := u.users.FindByID(ctx, o.BuyerID); err == nil {
			if buyer.FullName != "" {
				buyerName = buyer.FullName
			} else if buyer.Username != "" {
				buyerName = buyer.Username
			}
		}

		outs = append(outs, SellerOrderView{
			OrderOutput: toOrderOutput(o, items),
			BuyerName:   buyerName,
		})
	}

	return PagedSellerOrders{Orders: outs, Total: total, Page: page, Limit: limit}, nil
}

// 出品者が進められる状態。順序は検証しない（既知の挙動として温存）
var sellerUpdatableStatuses = map[model.OrderStatus]bool{
	model.OrderStatusConfirmed:  true,
	model.OrderStatusProcessing: true,
	model.OrderStatusShipping:   true,
	model.OrderStatusDelivered:  true,
}

// UpdateOrderStatus は出品者専用の状態更新。キャンセルはCancelOrderを使う。
func (u *OrderUsecase) UpdateOrderStatus(ctx context.Context, orderID, userID int64, newStatus model.OrderStatus) error {
	if !sellerUpdatableStatuses[newStatus] {
		return NewHTTPError(http.StatusBadRequest, "invalid status")
	}

	o, err := u.orders.FindByID(ctx, orderID)
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if o.SellerID != userID {
		return NewHTTPError(http.StatusForbidden, "only the seller can update order status")
	}

	now := time.Now()
	o.Status = newStatus
	o.UpdatedAt = now

	var title, message string
	switch newStatus {
	case model.OrderStatusShipping:
		o.ShippedDate = &now
		title, message = "order_shipped", fmt.Sprintf("Đơn hàng #%d đang được vận chuyển", o.ID)
	case model.OrderStatusDelivered:
		o.DeliveredDate = &now
		title, message = "order_delivered", fmt.Sprintf("Đơn hàng #%d đã được giao", o.ID)
	case model.OrderStatusConfirmed:
		title, message = "order_confirmed", fmt.Sprintf("Đơn hàng #%d đã được xác nhận", o.ID)
	}

	if err := u.orders.Update(ctx, o); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if title != "" {
		u.notify(ctx, o.BuyerID, title, message, fmt.Sprintf("/Order/Details/%d", o.ID))
	}
	return nil
}

// CancelOrder は購入者・出品者のどちらでもよいが、
// Pending/Confirmed のあいだしか取り消せない。
func (u *OrderUsecase) CancelOrder(ctx context.Context, orderID, userID int64, reason string) error {
	o, err := u.orders.FindByID(ctx, orderID)
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if o.BuyerID != userID && o.SellerID != userID {
		return NewHTTPError(http.StatusForbidden, "forbidden")
	}
	if o.Status != model.OrderStatusPending && o.Status != model.OrderStatusConfirmed {
		return NewHTTPError(http.StatusBadRequest, "cannot cancel an order that is already being shipped")
	}

	now := time.Now()
	o.Status = model.OrderStatusCancelled
	o.CancelledDate = &now
	o.CancellationReason = reason
	o.UpdatedAt = now

	if err := u.orders.Update(ctx, o); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//相手側に通知
	notifyUserID := o.SellerID
	if o.BuyerID != userID {
		notifyUserID = o.BuyerID
	}
	u.notify(ctx, notifyUserID, "order_cancelled",
		fmt.Sprintf("Đơn hàng #%d đã bị hủy", o.ID),
		fmt.Sprintf("/Order/Details/%d", o.ID))

	return nil
}

// ConfirmDelivery は購入者の受取確認。Delivered のときだけ Completed に進む。
// 2回目の呼び出しは状態が変わっているので失敗する。
func (u *OrderUsecase) ConfirmDelivery(ctx context.Context, orderID, buyerID int64) error {
	o, err := u.orders.FindByID(ctx, orderID)
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if o.BuyerID != buyerID {
		return NewHTTPError(http.StatusForbidden, "only the buyer can confirm delivery")
	}
	if o.Status != model.OrderStatusDelivered {
		return NewHTTPError(http.StatusBadRequest, "order is not delivered yet")
	}

	o.Status = model.OrderStatusCompleted
	o.UpdatedAt = time.Now()

	if err := u.orders.Update(ctx, o); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	u.notify(ctx, o.SellerID, "order_completed",
		fmt.Sprintf("Đơn hàng #%d đã hoàn thành", o.ID),
		fmt.Sprintf("/Seller/Orders/%d", o.ID))

	return nil
}

// SimulateDelivery はデモ用。出品者が Shipping の注文を Delivered に進める。
func (u *OrderUsecase) SimulateDelivery(ctx context.Context, orderID, sellerID int64) error {
	o, err := u.orders.FindByID(ctx, orderID)
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if o.SellerID != sellerID {
		return NewHTTPError(http.StatusForbidden, "only the seller can simulate delivery")
	}
	if o.Status != model.OrderStatusShipping {
		return NewHTTPError(http.StatusBadRequest, "order is not shipping")
	}

	now := time.Now()
	o.Status = model.OrderStatusDelivered
	o.DeliveredDate = &now
	o.UpdatedAt = now

	if err := u.orders.Update(ctx, o); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	u.notify(ctx, o.BuyerID, "order_delivered",
		fmt.Sprintf("Đơn hàng #%d đã giao hàng thành công (Mô phỏng)", o.ID),
		fmt.Sprintf("/Order/Details/%d", o.ID))

	return nil
}

// 通知はベストエフォート。失敗してもログだけ残して呼び出し元は止めない
func (u *OrderUsecase) notify(ctx context.Context, userID int64, title, message, targetURL string) {
	if _, err := u.notifications.Create(ctx, model.Notification{
		UserID:    userID,
		Title:     title,
		Message:   message,
		TargetURL: targetURL,
		CreatedAt: time.Now(),
	}); err != nil {
		log.Warn().Err(err).Int64("user_id", userID).Str("title", title).Msg("notification failed")
	}
}

func (u *OrderUsecase) withItems(ctx context.Context, orders []model.Order) ([]OrderOutput, error) {
	outs := make([]OrderOutput, 0, len(orders))
	for _, o := range orders {
		items, err := u.orderItems.ListByOrderID(ctx, o.ID)
		if err != nil {
			return nil, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		outs = append(outs, toOrderOutput(o, items))
	}
	return outs, nil
}

func newTrackingNumber(provider string, now time.Time) string {
	return fmt.Sprintf("%s%s%04d", strings.ToUpper(provider), now.Format("060102"), rand.Intn(9000)+1000)
}

func toOrderOutput(o model.Order, items []model.OrderItem) OrderOutput {
	outItems := make([]OrderItemOutput, 0, len(items))
	for _, it := range items {
		outItems = append(outItems, OrderItemOutput{
			ProductID:       it.ProductID,
			ProductName:     it.ProductName,
			ProductImageURL: it.ProductImageURL,
			Price:           it.Price,
			Quantity:        it.Quantity,
			Subtotal:        it.Subtotal,
		})
	}

	return OrderOutput{
		ID:               o.ID,
		BuyerID:          o.BuyerID,
		SellerID:         o.SellerID,
		Status:           string(o.Status),
		TotalAmount:      o.TotalAmount,
		ShippingFee:      o.ShippingFee,
		FinalAmount:      o.FinalAmount,
		PaymentMethod:    string(o.PaymentMethod),
		PaymentStatus:    string(o.PaymentStatus),
		ShippingProvider: o.ShippingProvider,
		TrackingNumber:   o.TrackingNumber,
		Note:             o.Note,
		OrderDate:        o.OrderDate,
		Items:            outItems,
	}
}
