package repository

import (
	"context"

	"app/internal/domain/model"
)

type CartItemRepository interface {
	ListByUserID(ctx context.Context, userID int64) ([]model.CartItem, error)
	// 同一商品は数量を加算
	UpsertByUserAndProduct(ctx context.Context, userID int64, productID int64, addQty int64) (model.CartItem, error)
	FindByID(ctx context.Context, cartItemID int64) (model.CartItem, error)
	IsOwnedByUser(ctx context.Context, cartItemID int64, userID int64) (bool, error)
	DeleteByID(ctx context.Context, cartItemID int64) error
	// チェックアウト後のカート一括削除
	DeleteByUserID(ctx context.Context, userID int64) error
	CountByUserID(ctx context.Context, userID int64) (int64, error)
}
