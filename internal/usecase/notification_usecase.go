package usecase

import (
	"context"
	"net/http"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

type NotificationUsecase struct {
	notifications repo.NotificationRepository
}

func NewNotificationUsecase(notifications repo.NotificationRepository) *NotificationUsecase {
	return &NotificationUsecase{notifications: notifications}
}

func (u *NotificationUsecase) Create(ctx context.Context, userID int64, title, message, targetURL string) (model.Notification, error) {
	if userID <= 0 {
		return model.Notification{}, NewHTTPError(http.StatusBadRequest, "invalid user_id")
	}
	if title == "" || message == "" {
		return model.Notification{}, NewHTTPError(http.StatusBadRequest, "title and message are required")
	}

	n, err := u.notifications.Create(ctx, model.Notification{
		UserID:    userID,
		Title:     title,
		Message:   message,
		TargetURL: targetURL,
		CreatedAt: time.Now(),
	})
	if err != nil {
		return model.Notification{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return n, nil
}

// List は新しい順に最大limit件返す。
func (u *NotificationUsecase) List(ctx context.Context, userID int64, limit int) ([]model.Notification, error) {
	if userID <= 0 {
		return nil, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	ns, err := u.notifications.ListByUserID(ctx, userID, limit)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return ns, nil
}

func (u *NotificationUsecase) MarkRead(ctx context.Context, notificationID int64) error {
	if err := u.notifications.MarkRead(ctx, notificationID); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

func (u *NotificationUsecase) MarkAllRead(ctx context.Context, userID int64) error {
	if userID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if err := u.notifications.MarkAllRead(ctx, userID); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

func (u *NotificationUsecase) CountUnread(ctx context.Context, userID int64) (int64, error) {
	if userID <= 0 {
		return 0, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	n, err := u.notifications.CountUnread(ctx, userID)
	if err != nil {
		return 0, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return n, nil
}
