package usecase_test

import (
	"context"
	"testing"

	"app/internal/domain/model"
	repo "app/internal/repository"
	"app/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newCartUsecaseForTest() (*usecase.CartUsecase, *CartItemRepoMock, *ProductRepoMock) {
	cartRepo := new(CartItemRepoMock)
	productRepo := new(ProductRepoMock)
	return usecase.NewCartUsecase(cartRepo, productRepo), cartRepo, productRepo
}

func TestCartUsecase_ListCart_JoinsProductInfo(t *testing.T) {
	uc, cartRepo, productRepo := newCartUsecaseForTest()

	cartRepo.On("ListByUserID", mock.Anything, int64(10)).Return([]model.CartItem{
		{ID: 1, UserID: 10, ProductID: 100, Quantity: 2},
		{ID: 2, UserID: 10, ProductID: 200, Quantity: 1},
	}, nil)
	productRepo.On("FindByID", mock.Anything, int64(100)).Return(model.Product{ID: 100, Title: "A", Price: 100, SellerID: 1}, nil)
	//削除済み商品はスキップされる
	productRepo.On("FindByID", mock.Anything, int64(200)).Return(model.Product{}, repo.ErrNotFound)

	out, err := uc.ListCart(context.Background(), 10)
	assert.NoError(t, err)
	assert.Equal(t, 1, len(out.Items))
	assert.Equal(t, "A", out.Items[0].ProductName)
	assert.Equal(t, int64(200), out.Items[0].Subtotal)
	assert.Equal(t, int64(200), out.Total)
}

func TestCartUsecase_AddToCart_MergesQuantity(t *testing.T) {
	uc, cartRepo, productRepo := newCartUsecaseForTest()

	productRepo.On("FindByID", mock.Anything, int64(100)).Return(model.Product{
		ID: 100, SellerID: 1, Status: model.ProductStatusAvailable,
	}, nil)
	cartRepo.On("UpsertByUserAndProduct", mock.Anything, int64(10), int64(100), int64(2)).
		Return(model.CartItem{ID: 1, UserID: 10, ProductID: 100, Quantity: 5}, nil)

	out, err := uc.AddToCart(context.Background(), 10, 100, 2)
	assert.NoError(t, err)
	assert.Equal(t, int64(5), out.Quantity)
	cartRepo.AssertExpectations(t)
}

func TestCartUsecase_AddToCart_RejectsOwnProduct(t *testing.T) {
	uc, cartRepo, productRepo := newCartUsecaseForTest()

	productRepo.On("FindByID", mock.Anything, int64(100)).Return(model.Product{
		ID: 100, SellerID: 10, Status: model.ProductStatusAvailable,
	}, nil)

	_, err := uc.AddToCart(context.Background(), 10, 100, 1)
	assertErrContains(t, err, "own product")
	cartRepo.AssertNotCalled(t, "UpsertByUserAndProduct", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCartUsecase_AddToCart_RejectsUnavailableProduct(t *testing.T) {
	uc, _, productRepo := newCartUsecaseForTest()

	productRepo.On("FindByID", mock.Anything, int64(100)).Return(model.Product{
		ID: 100, SellerID: 1, Status: model.ProductStatusSold,
	}, nil)

	_, err := uc.AddToCart(context.Background(), 10, 100, 1)
	assertErrContains(t, err, "not available")
}

func TestCartUsecase_AddToCart_InvalidQuantity(t *testing.T) {
	uc, _, _ := newCartUsecaseForTest()

	_, err := uc.AddToCart(context.Background(), 10, 100, 0)
	assertErrContains(t, err, "quantity")
}

func TestCartUsecase_RemoveFromCart_OwnItemOnly(t *testing.T) {
	uc, cartRepo, _ := newCartUsecaseForTest()

	cartRepo.On("IsOwnedByUser", mock.Anything, int64(1), int64(10)).Return(false, nil)

	err := uc.RemoveFromCart(context.Background(), 10, 1)
	assertErrContains(t, err, "not found")
	cartRepo.AssertNotCalled(t, "DeleteByID", mock.Anything, mock.Anything)
}

func TestCartUsecase_RemoveFromCart_Success(t *testing.T) {
	uc, cartRepo, _ := newCartUsecaseForTest()

	cartRepo.On("IsOwnedByUser", mock.Anything, int64(1), int64(10)).Return(true, nil)
	cartRepo.On("DeleteByID", mock.Anything, int64(1)).Return(nil)

	assert.NoError(t, uc.RemoveFromCart(context.Background(), 10, 1))
	cartRepo.AssertExpectations(t)
}
