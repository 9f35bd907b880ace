package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type shippingAddressGormRepository struct {
	db *gorm.DB
}

// DI
func NewShippingAddressGormRepository(db *gorm.DB) repo.ShippingAddressRepository {
	return &shippingAddressGormRepository{db: db}
}

// 住所を作成
func (r *shippingAddressGormRepository) Create(ctx context.Context, address model.ShippingAddress) (model.ShippingAddress, error) {
	if err := r.db.WithContext(ctx).Create(&address).Error; err != nil {
		return model.ShippingAddress{}, err
	}
	return address, nil
}

// ユーザーの住所一覧（デフォルトを先頭に、新しい順）
func (r *shippingAddressGormRepository) ListByUserID(ctx context.Context, userID int64) ([]model.ShippingAddress, error) {
	var list []model.ShippingAddress
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("is_default DESC, created_at DESC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *shippingAddressGormRepository) FindByID(ctx context.Context, addressID int64) (model.ShippingAddress, error) {
	var a model.ShippingAddress
	err := r.db.WithContext(ctx).Where("id = ?", addressID).First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.ShippingAddress{}, repo.ErrNotFound
	}
	if err != nil {
		return model.ShippingAddress{}, err
	}
	return a, nil
}

func (r *shippingAddressGormRepository) FindDefaultByUserID(ctx context.Context, userID int64) (model.ShippingAddress, error) {
	var a model.ShippingAddress
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_default = TRUE", userID).
		First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.ShippingAddress{}, repo.ErrNotFound
	}
	if err != nil {
		return model.ShippingAddress{}, err
	}
	return a, nil
}

func (r *shippingAddressGormRepository) FindFirstByUserID(ctx context.Context, userID int64) (model.ShippingAddress, error) {
	var a model.ShippingAddress
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id asc").
		First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.ShippingAddress{}, repo.ErrNotFound
	}
	if err != nil {
		return model.ShippingAddress{}, err
	}
	return a, nil
}

func (r *shippingAddressGormRepository) CountByUserID(ctx context.Context, userID int64) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&model.ShippingAddress{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *shippingAddressGormRepository) ClearDefaults(ctx context.Context, userID int64) error {
	return r.db.WithContext(ctx).
		Model(&model.ShippingAddress{}).
		Where("user_id = ? AND is_default = TRUE", userID).
		Update("is_default", false).Error
}

// デフォルト住所を切り替える
func (r *shippingAddressGormRepository) SetDefault(ctx context.Context, userID, addressID int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		//指定住所がこのユーザーのものか確認
		var count int64
		if err := tx.Model(&model.ShippingAddress{}).
			Where("id = ? AND user_id = ?", addressID, userID).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return repo.ErrNotFound
		}

		//そのユーザーのdefaultを全て false
		if err := tx.Model(&model.ShippingAddress{}).
			Where("user_id = ? AND is_default = TRUE", userID).
			Update("is_default", false).Error; err != nil {
			return err
		}

		//指定住所だけ true
		result := tx.Model(&model.ShippingAddress{}).
			Where("id = ? AND user_id = ?", addressID, userID).
			Update("is_default", true)

		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return repo.ErrNotFound
		}
		return nil
	})
}

func (r *shippingAddressGormRepository) Delete(ctx context.Context, addressID int64) error {
	result := r.db.WithContext(ctx).
		Where("id = ?", addressID).
		Delete(&model.ShippingAddress{})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *shippingAddressGormRepository) IsOwnedByUser(ctx context.Context, addressID, userID int64) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&model.ShippingAddress{}).
		Where("id = ? AND user_id = ?", addressID, userID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count == 1, nil
}
