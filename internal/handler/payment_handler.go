package handler

import (
	"net/http"
	"strconv"

	"app/internal/config"
	"app/internal/middleware"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /paymentsのHTTP
type PaymentHandler struct {
	uc *usecase.PaymentUsecase
}

// DI
func NewPaymentHandler(uc *usecase.PaymentUsecase) *PaymentHandler {
	return &PaymentHandler{uc: uc}
}

type PaymentURLRequest struct {
	ReturnURL string `json:"return_url"`
}

type PaymentURLResponse struct {
	PaymentURL string `json:"payment_url"`
}

type CallbackResponse struct {
	Success bool `json:"success"`
}

func (h *PaymentHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	//ゲートウェイからのコールバックは認証なし
	e.GET("/payments/vnpay/callback", h.vnpayCallback)

	g := e.Group("/payments")
	g.Use(middleware.AuthJWT(cfg))

	g.POST("/cod/:orderId", h.processCOD)
	g.POST("/vnpay/:orderId", h.createVNPayURL)
	g.GET("/order/:orderId", h.getByOrder)
}

func (h *PaymentHandler) processCOD(c echo.Context) error {
	if _, ok := getUserIDFromContext(c); !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	orderID, err := strconv.ParseInt(c.Param("orderId"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	out, err := h.uc.ProcessCOD(c.Request().Context(), orderID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *PaymentHandler) createVNPayURL(c echo.Context) error {
	if _, ok := getUserIDFromContext(c); !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	orderID, err := strconv.ParseInt(c.Param("orderId"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req PaymentURLRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if req.ReturnURL == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "return_url is required"})
	}

	u, err := h.uc.CreatePaymentURL(c.Request().Context(), orderID, req.ReturnURL)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, PaymentURLResponse{PaymentURL: u})
}

func (h *PaymentHandler) vnpayCallback(c echo.Context) error {
	//クエリ全体をそのまま検証に回す
	params := make(map[string]string)
	for k, vs := range c.QueryParams() {
		if len(vs) > 0 {
			params[k] = vs[0]
		}
	}

	ok, err := h.uc.ValidateCallback(c.Request().Context(), params)
	if err != nil {
		return writeError(c, err)
	}
	if !ok {
		return c.JSON(http.StatusBadRequest, CallbackResponse{Success: false})
	}
	return c.JSON(http.StatusOK, CallbackResponse{Success: true})
}

func (h *PaymentHandler) getByOrder(c echo.Context) error {
	if _, ok := getUserIDFromContext(c); !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	orderID, err := strconv.ParseInt(c.Param("orderId"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	out, err := h.uc.GetPaymentByOrderID(c.Request().Context(), orderID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
