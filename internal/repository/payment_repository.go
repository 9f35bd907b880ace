package repository

import (
	"context"

	"app/internal/domain/model"
)

type PaymentRepository interface {
	Create(ctx context.Context, payment model.Payment) (model.Payment, error)

	//注文に紐づく最初の支払い記録を返す
	FindByOrderID(ctx context.Context, orderID int64) (model.Payment, error)

	UpdateStatus(ctx context.Context, paymentID int64, status model.PaymentStatus) error
}
