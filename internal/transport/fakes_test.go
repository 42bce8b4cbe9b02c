package transport

import (
	"context"

	"catalog-api/internal/domain"
	"catalog-api/internal/service"
)

// Fake services for handler tests
type fakeCategoryService struct {
	listFn   func(ctx context.Context) ([]*domain.Category, error)
	createFn func(ctx context.Context, name string) (*domain.Category, error)
	deleteFn func(ctx context.Context, id string) error
}

func (f *fakeCategoryService) List(ctx context.Context) ([]*domain.Category, error) {
	return f.listFn(ctx)
}

func (f *fakeCategoryService) Create(ctx context.Context, name string) (*domain.Category, error) {
	return f.createFn(ctx, name)
}

func (f *fakeCategoryService) Delete(ctx context.Context, id string) error {
	return f.deleteFn(ctx, id)
}

type fakeProductService struct {
	listFn   func(ctx context.Context, filter service.ProductFilter) (*service.ProductPage, error)
	showFn   func(ctx context.Context, id string) (*domain.Product, error)
	storeFn  func(ctx context.Context, input service.StoreProductInput) (*domain.Product, error)
	updateFn func(ctx context.Context, id string, input service.UpdateProductInput) (*domain.Product, error)
	deleteFn func(ctx context.Context, id string) error
}

func (f *fakeProductService) List(ctx context.Context, filter service.ProductFilter) (*service.ProductPage, error) {
	return f.listFn(ctx, filter)
}

func (f *fakeProductService) Show(ctx context.Context, id string) (*domain.Product, error) {
	return f.showFn(ctx, id)
}

func (f *fakeProductService) Store(ctx context.Context, input service.StoreProductInput) (*domain.Product, error) {
	return f.storeFn(ctx, input)
}

func (f *fakeProductService) Update(ctx context.Context, id string, input service.UpdateProductInput) (*domain.Product, error) {
	return f.updateFn(ctx, id, input)
}

func (f *fakeProductService) Delete(ctx context.Context, id string) error {
	return f.deleteFn(ctx, id)
}
