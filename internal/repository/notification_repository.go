package repository

import (
	"context"

	"app/internal/domain/model"
)

type NotificationRepository interface {
	Create(ctx context.Context, n model.Notification) (model.Notification, error)
	ListByUserID(ctx context.Context, userID int64, limit int) ([]model.Notification, error)
	MarkRead(ctx context.Context, notificationID int64) error
	MarkAllRead(ctx context.Context, userID int64) error
	CountUnread(ctx context.Context, userID int64) (int64, error)
}
