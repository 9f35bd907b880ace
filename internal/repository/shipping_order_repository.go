package repository

import (
	"context"

	"app/internal/domain/model"
)

type ShippingOrderRepository interface {
	Create(ctx context.Context, order model.ShippingOrder) (model.ShippingOrder, error)

	FindByID(ctx context.Context, orderID int64) (model.ShippingOrder, error)

	FindByTrackingNumber(ctx context.Context, trackingNumber string) (model.ShippingOrder, error)

	//当事者ごとの削除フラグを見て、そのユーザーにまだ見える伝票だけ返す
	ListVisibleToUser(ctx context.Context, userID int64) ([]model.ShippingOrder, error)

	//状態・配達日時・削除フラグを更新する
	Update(ctx context.Context, order model.ShippingOrder) error
}
