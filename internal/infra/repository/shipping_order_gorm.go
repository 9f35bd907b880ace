package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type ShippingOrderGormRepository struct {
	db *gorm.DB
}

func NewShippingOrderGormRepository(db *gorm.DB) *ShippingOrderGormRepository {
	return &ShippingOrderGormRepository{db: db}
}

func (r *ShippingOrderGormRepository) Create(ctx context.Context, order model.ShippingOrder) (model.ShippingOrder, error) {
	if err := r.db.WithContext(ctx).Create(&order).Error; err != nil {
		return model.ShippingOrder{}, err
	}
	return order, nil
}

func (r *ShippingOrderGormRepository) FindByID(ctx context.Context, orderID int64) (model.ShippingOrder, error) {
	var o model.ShippingOrder
	err := r.db.WithContext(ctx).Where("id = ?", orderID).First(&o).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.ShippingOrder{}, repo.ErrNotFound
	}
	if err != nil {
		return model.ShippingOrder{}, err
	}
	return o, nil
}

func (r *ShippingOrderGormRepository) FindByTrackingNumber(ctx context.Context, trackingNumber string) (model.ShippingOrder, error) {
	var o model.ShippingOrder
	err := r.db.WithContext(ctx).
		Where("tracking_number = ?", trackingNumber).
		First(&o).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.ShippingOrder{}, repo.ErrNotFound
	}
	if err != nil {
		return model.ShippingOrder{}, err
	}
	return o, nil
}

// 当事者ごとの可視性はクエリ側で明示する。
// 購入者として消していない伝票と、出品者として消していない伝票が見える。
func (r *ShippingOrderGormRepository) ListVisibleToUser(ctx context.Context, userID int64) ([]model.ShippingOrder, error) {
	var items []model.ShippingOrder
	err := r.db.WithContext(ctx).
		Where(
			"(buyer_id = ? AND is_deleted_by_buyer = FALSE) OR (seller_id = ? AND is_deleted_by_seller = FALSE)",
			userID, userID,
		).
		Order("created_at desc").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *ShippingOrderGormRepository) Update(ctx context.Context, order model.ShippingOrder) error {
	res := r.db.WithContext(ctx).Model(&model.ShippingOrder{}).
		Where("id = ?", order.ID).
		Select(
			"status",
			"estimated_delivery",
			"actual_delivery",
			"is_deleted_by_buyer",
			"is_deleted_by_seller",
			"updated_at",
		).
		Updates(order)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
