package usecase

import (
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"app/internal/config"
	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/rs/zerolog/log"
)

type PaymentUsecase struct {
	tx       repo.TransactionManager
	orders   repo.OrderRepository
	payments repo.PaymentRepository
	vnpay    config.VNPayConfig
}

func NewPaymentUsecase(tx repo.TransactionManager, orders repo.OrderRepository, payments repo.PaymentRepository, vnpay config.VNPayConfig) *PaymentUsecase {
	return &PaymentUsecase{tx: tx, orders: orders, payments: payments, vnpay: vnpay}
}

// ProcessCOD は代引き注文の未払い記録を残す。
func (u *PaymentUsecase) ProcessCOD(ctx context.Context, orderID int64) (model.Payment, error) {
	o, err := u.orders.FindByID(ctx, orderID)
	if err == repo.ErrNotFound {
		return model.Payment{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.Payment{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	p, err := u.payments.Create(ctx, model.Payment{
		OrderID:   o.ID,
		Method:    model.PaymentMethodCOD,
		Amount:    o.FinalAmount,
		Status:    model.PaymentStatusUnpaid,
		CreatedAt: time.Now(),
	})
	if err != nil {
		return model.Payment{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return p, nil
}

// CreatePaymentURL はVNPay向けの署名付きリダイレクトURLを組み立てる。
// 署名対象はエスケープ前の k=v を & で連結した文字列、
// クエリ側は値をエスケープする。両者の並びは同じキー昇順。
func (u *PaymentUsecase) CreatePaymentURL(ctx context.Context, orderID int64, returnURL string) (string, error) {
	o, err := u.orders.FindByID(ctx, orderID)
	if err == repo.ErrNotFound {
		return "", NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return "", NewHTTPError(http.StatusInternalServerError, "db error")
	}

	params := map[string]string{
		"vnp_Version":    "2.1.0",
		"vnp_Command":    "pay",
		"vnp_TmnCode":    u.vnpay.TmnCode,
		"vnp_Amount":     strconv.FormatInt(o.FinalAmount*100, 10),
		"vnp_CreateDate": time.Now().Format("20060102150405"),
		"vnp_CurrCode":   "VND",
		"vnp_IpAddr":     "127.0.0.1",
		"vnp_Locale":     "vn",
		"vnp_OrderInfo":  "Thanh toan don hang #" + strconv.FormatInt(o.ID, 10),
		"vnp_OrderType":  "other",
		"vnp_ReturnUrl":  returnURL,
		"vnp_TxnRef":     strconv.FormatInt(o.ID, 10),
	}

	signData, query := buildSignedQuery(params)
	secureHash := hmacSHA512(u.vnpay.HashSecret, signData)

	return u.vnpay.URL + "?" + query + "&vnp_SecureHash=" + secureHash, nil
}

// ValidateCallback はゲートウェイからのコールバックを検証する。
// 署名不一致・応答コード不正・注文不明はすべて false を返し、
// その場合DBには一切書き込まない。
func (u *PaymentUsecase) ValidateCallback(ctx context.Context, params map[string]string) (bool, error) {
	received := params["vnp_SecureHash"]
	if received == "" {
		return false, nil
	}

	//署名対象から署名自身は除く
	toSign := make(map[string]string, len(params))
	for k, v := range params {
		if k == "vnp_SecureHash" || k == "vnp_SecureHashType" {
			continue
		}
		toSign[k] = v
	}

	signData, _ := buildSignedQuery(toSign)
	expected := hmacSHA512(u.vnpay.HashSecret, signData)
	if !hmac.Equal([]byte(expected), []byte(strings.ToLower(received))) {
		log.Warn().Str("txn_ref", params["vnp_TxnRef"]).Msg("vnpay callback signature mismatch")
		return false, nil
	}

	if params["vnp_ResponseCode"] != "00" {
		return false, nil
	}

	orderID, err := strconv.ParseInt(params["vnp_TxnRef"], 10, 64)
	if err != nil || orderID <= 0 {
		return false, nil
	}

	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if err != nil {
			return err
		}

		now := time.Now()
		if _, err := r.Payments().Create(ctx, model.Payment{
			OrderID:       o.ID,
			Method:        model.PaymentMethodVNPay,
			Amount:        o.FinalAmount,
			Status:        model.PaymentStatusPaid,
			TransactionID: params["vnp_TransactionNo"],
			ResponseData:  signData,
			PaymentDate:   &now,
			CreatedAt:     now,
		}); err != nil {
			return err
		}

		o.PaymentStatus = model.PaymentStatusPaid
		o.UpdatedAt = now
		return r.Orders().Update(ctx, o)
	})
	if err != nil {
		log.Error().Err(err).Int64("order_id", orderID).Msg("vnpay callback persist failed")
		return false, nil
	}

	return true, nil
}

// RecordPayment は支払い記録を直接残す（COD回収時など）。
func (u *PaymentUsecase) RecordPayment(ctx context.Context, orderID int64, method model.PaymentMethod, status model.PaymentStatus, transactionID string) (model.Payment, error) {
	o, err := u.orders.FindByID(ctx, orderID)
	if err == repo.ErrNotFound {
		return model.Payment{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.Payment{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	now := time.Now()
	p := model.Payment{
		OrderID:       o.ID,
		Method:        method,
		Amount:        o.FinalAmount,
		Status:        status,
		TransactionID: transactionID,
		CreatedAt:     now,
	}
	if status == model.PaymentStatusPaid {
		p.PaymentDate = &now
	}

	var created model.Payment
	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		created, err = r.Payments().Create(ctx, p)
		if err != nil {
			return err
		}
		o.PaymentStatus = status
		o.UpdatedAt = now
		return r.Orders().Update(ctx, o)
	})
	if err != nil {
		return model.Payment{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return created, nil
}

// UpdatePaymentStatus は支払い状態を変え、注文側にも反映する。
func (u *PaymentUsecase) UpdatePaymentStatus(ctx context.Context, orderID int64, status model.PaymentStatus) error {
	p, err := u.payments.FindByOrderID(ctx, orderID)
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if err := r.Payments().UpdateStatus(ctx, p.ID, status); err != nil {
			return err
		}
		o, err := r.Orders().FindByID(ctx, orderID)
		if err != nil {
			return err
		}
		o.PaymentStatus = status
		o.UpdatedAt = time.Now()
		return r.Orders().Update(ctx, o)
	})
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

func (u *PaymentUsecase) GetPaymentByOrderID(ctx context.Context, orderID int64) (model.Payment, error) {
	p, err := u.payments.FindByOrderID(ctx, orderID)
	if err == repo.ErrNotFound {
		return model.Payment{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.Payment{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return p, nil
}

// buildSignedQuery はキー昇順で署名文字列とクエリ文字列を作る。
func buildSignedQuery(params map[string]string) (signData string, query string) {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sign, q strings.Builder
	for i, k := range keys {
		if i > 0 {
			sign.WriteByte('&')
			q.WriteByte('&')
		}
		sign.WriteString(k)
		sign.WriteByte('=')
		sign.WriteString(params[k])

		q.WriteString(k)
		q.WriteByte('=')
		q.WriteString(url.QueryEscape(params[k]))
	}
	return sign.String(), q.String()
}

func hmacSHA512(secret, data string) string {
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write([]byte(data))
	return hex.EncodeToString(mac.Sum(nil))
}
