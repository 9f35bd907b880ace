package repository

import (
	"context"

	"app/internal/domain/model"
)

// 配送先住所(ShippingAddress)を保存・取得する窓口
type ShippingAddressRepository interface {
	//作成後はaddress（IDなどが埋まったもの）を返す
	Create(ctx context.Context, address model.ShippingAddress) (model.ShippingAddress, error)

	//デフォルトを先頭に、新しい順で返す
	ListByUserID(ctx context.Context, userID int64) ([]model.ShippingAddress, error)

	FindByID(ctx context.Context, addressID int64) (model.ShippingAddress, error)

	//ユーザーのデフォルト住所を1件返す
	FindDefaultByUserID(ctx context.Context, userID int64) (model.ShippingAddress, error)

	//ユーザーの最初の住所を1件返す（集荷元フォールバック用）
	FindFirstByUserID(ctx context.Context, userID int64) (model.ShippingAddress, error)

	CountByUserID(ctx context.Context, userID int64) (int64, error)

	//ユーザーのデフォルトフラグを全て外す
	ClearDefaults(ctx context.Context, userID int64) error

	//user内でdefaultは1つ（外してから立てる）
	SetDefault(ctx context.Context, userID, addressID int64) error

	Delete(ctx context.Context, addressID int64) error

	IsOwnedByUser(ctx context.Context, addressID, userID int64) (bool, error)
}
