package usecase

import (
	"context"
	"net/http"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

type CartUsecase struct {
	cartItems repo.CartItemRepository
	products  repo.ProductRepository
}

func NewCartUsecase(cartItems repo.CartItemRepository, products repo.ProductRepository) *CartUsecase {
	return &CartUsecase{cartItems: cartItems, products: products}
}

type CartItemView struct {
	ID           int64  `json:"id"`
	ProductID    int64  `json:"product_id"`
	ProductName  string `json:"product_name"`
	ProductImage string `json:"product_image"`
	Price        int64  `json:"price"`
	Quantity     int64  `json:"quantity"`
	Subtotal     int64  `json:"subtotal"`
	SellerID     int64  `json:"seller_id"`
}

type CartView struct {
	Items []CartItemView `json:"items"`
	Total int64          `json:"total"`
}

// ListCart はカートの中身に商品情報を合流させて返す。
// 削除済み商品の明細はスキップする。
func (u *CartUsecase) ListCart(ctx context.Context, userID int64) (CartView, error) {
	if userID <= 0 {
		return CartView{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	items, err := u.cartItems.ListByUserID(ctx, userID)
	if err != nil {
		return CartView{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	view := CartView{Items: make([]CartItemView, 0, len(items))}
	for _, ci := range items {
		p, err := u.products.FindByID(ctx, ci.ProductID)
		if err == repo.ErrNotFound {
			continue
		}
		if err != nil {
			return CartView{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}

		subtotal := p.Price * ci.Quantity
		view.Items = append(view.Items, CartItemView{
			ID:           ci.ID,
			ProductID:    p.ID,
			ProductName:  p.Title,
			ProductImage: p.ImageURL,
			Price:        p.Price,
			Quantity:     ci.Quantity,
			Subtotal:     subtotal,
			SellerID:     p.SellerID,
		})
		view.Total += subtotal
	}

	return view, nil
}

// AddToCart は商品をカートに入れる。既にあれば数量を加算する。
func (u *CartUsecase) AddToCart(ctx context.Context, userID, productID, quantity int64) (model.CartItem, error) {
	if userID <= 0 {
		return model.CartItem{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if quantity <= 0 {
		return model.CartItem{}, NewHTTPError(http.StatusBadRequest, "quantity must be positive")
	}

	p, err := u.products.FindByID(ctx, productID)
	if err == repo.ErrNotFound {
		return model.CartItem{}, NewHTTPError(http.StatusNotFound, "product not found")
	}
	if err != nil {
		return model.CartItem{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if p.Status != model.ProductStatusAvailable {
		return model.CartItem{}, NewHTTPError(http.StatusBadRequest, "product is not available")
	}
	//自分の出品はカートに入れられない
	if p.SellerID == userID {
		return model.CartItem{}, NewHTTPError(http.StatusBadRequest, "cannot buy your own product")
	}

	ci, err := u.cartItems.UpsertByUserAndProduct(ctx, userID, productID, quantity)
	if err != nil {
		return model.CartItem{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return ci, nil
}

// RemoveFromCart は自分のカート明細だけ削除できる。
func (u *CartUsecase) RemoveFromCart(ctx context.Context, userID, cartItemID int64) error {
	owned, err := u.cartItems.IsOwnedByUser(ctx, cartItemID, userID)
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !owned {
		return NewHTTPError(http.StatusNotFound, "not found")
	}

	if err := u.cartItems.DeleteByID(ctx, cartItemID); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

func (u *CartUsecase) ClearCart(ctx context.Context, userID int64) error {
	if userID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if err := u.cartItems.DeleteByUserID(ctx, userID); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

// CountItems はヘッダーのバッジ用の明細数。
func (u *CartUsecase) CountItems(ctx context.Context, userID int64) (int64, error) {
	if userID <= 0 {
		return 0, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	n, err := u.cartItems.CountByUserID(ctx, userID)
	if err != nil {
		return 0, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return n, nil
}
