package repository

import (
	"context"

	"app/internal/domain/model"
)

type SellerOrderListFilter struct {
	Page     int
	Limit    int
	Statuses []model.OrderStatus
}

type OrderRepository interface {
	FindByID(ctx context.Context, orderID int64) (model.Order, error)

	//購入者の注文一覧（新しい順）
	ListByBuyerID(ctx context.Context, buyerID int64, page int, limit int) ([]model.Order, int64, error)

	//出品者の注文一覧。Statusesを渡すとその状態だけに絞る
	ListBySellerID(ctx context.Context, sellerID int64, f SellerOrderListFilter) ([]model.Order, int64, error)

	//ダッシュボード集計用。ページングなしで出品者の全注文を返す
	ListAllBySellerID(ctx context.Context, sellerID int64) ([]model.Order, error)

	Create(ctx context.Context, order model.Order) (int64, error)

	//状態・各種日付・支払い状態などの可変フィールドを更新する
	Update(ctx context.Context, order model.Order) error
}
