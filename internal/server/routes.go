package server

import (
	"app/internal/config"
	"app/internal/handler"

	"github.com/labstack/echo/v4"
)

type Handlers struct {
	Order        *handler.OrderHandler
	Payment      *handler.PaymentHandler
	Shipping     *handler.ShippingHandler
	Cart         *handler.CartHandler
	Notification *handler.NotificationHandler
}

func RegisterRoutes(e *echo.Echo, cfg config.Config, h Handlers) {
	h.Order.RegisterRoutes(e, cfg)
	h.Payment.RegisterRoutes(e, cfg)
	h.Shipping.RegisterRoutes(e, cfg)
	h.Cart.RegisterRoutes(e, cfg)
	h.Notification.RegisterRoutes(e, cfg)
}
