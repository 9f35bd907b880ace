package handler

import (
	"net/http"
	"strconv"

	"app/internal/config"
	"app/internal/middleware"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /shippingのHTTP
type ShippingHandler struct {
	uc *usecase.ShippingUsecase
}

// DI
func NewShippingHandler(uc *usecase.ShippingUsecase) *ShippingHandler {
	return &ShippingHandler{uc: uc}
}

type ShippingOrderCreateRequest struct {
	ProductID         int64  `json:"product_id"`
	PickupAddressID   int64  `json:"pickup_address_id"`
	DeliveryAddressID int64  `json:"delivery_address_id"`
	Provider          string `json:"provider"`
	ShippingFee       int64  `json:"shipping_fee"`
}

func (h *ShippingHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/shipping")
	g.Use(middleware.AuthJWT(cfg))

	g.POST("/addresses", h.addAddress)
	g.GET("/addresses", h.listAddresses)
	g.PATCH("/addresses/:id/default", h.setDefaultAddress)
	g.DELETE("/addresses/:id", h.deleteAddress)

	g.GET("/fees", h.calculateFees)

	g.POST("/orders", h.createOrder)
	g.GET("/orders", h.listOrders)
	g.DELETE("/orders/:id", h.deleteOrder)

	g.GET("/track/:trackingNumber", h.track)
}

func (h *ShippingHandler) addAddress(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req usecase.AddressCreateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.AddAddress(c.Request().Context(), userID, req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *ShippingHandler) listAddresses(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.uc.ListAddresses(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ShippingHandler) setDefaultAddress(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	if err := h.uc.SetDefaultAddress(c.Request().Context(), userID, id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *ShippingHandler) deleteAddress(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	if err := h.uc.DeleteAddress(c.Request().Context(), userID, id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// GET /shipping/fees?product_id=1&address_id=2
// 全業者の見積もりを安い順で返す
func (h *ShippingHandler) calculateFees(c echo.Context) error {
	if _, ok := getUserIDFromContext(c); !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	productID, err := strconv.ParseInt(c.QueryParam("product_id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid product_id"})
	}
	addressID, err := strconv.ParseInt(c.QueryParam("address_id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid address_id"})
	}

	out, err := h.uc.CalculateAllProviders(c.Request().Context(), productID, addressID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ShippingHandler) createOrder(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req ShippingOrderCreateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.CreateShippingOrder(c.Request().Context(), usecase.CreateShippingOrderInput{
		ProductID:         req.ProductID,
		PickupAddressID:   req.PickupAddressID,
		DeliveryAddressID: req.DeliveryAddressID,
		BuyerID:           userID,
		Provider:          req.Provider,
		ShippingFee:       req.ShippingFee,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *ShippingHandler) listOrders(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.uc.ListUserOrders(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ShippingHandler) deleteOrder(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	if err := h.uc.DeleteOrder(c.Request().Context(), id, userID); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *ShippingHandler) track(c echo.Context) error {
	if _, ok := getUserIDFromContext(c); !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	trackingNumber := c.Param("trackingNumber")
	if trackingNumber == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid tracking number"})
	}

	out, err := h.uc.TrackOrder(c.Request().Context(), trackingNumber)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
