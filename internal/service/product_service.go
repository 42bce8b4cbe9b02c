package service

import (
	"context"
	"fmt"
	"math"

	"catalog-api/internal/domain"
	"catalog-api/internal/repository"

	"github.com/google/uuid"
)

// PageSize is the fixed number of products per listing page
const PageSize = 10

// maxPage keeps the listing offset within int
const maxPage = math.MaxInt / PageSize

const (
	OrderByMaxPrice = "maxPrice"
	OrderByMinPrice = "minPrice"
)

// ProductFilter carries the listing query parameters
type ProductFilter struct {
	Search   string
	Page     int
	OrderBy  string
	Category string
}

// ProductPage is one page of a product listing plus the filtered total
type ProductPage struct {
	Products []*domain.Product `json:"products"`
	Count    int               `json:"count"`
}

// StoreProductInput holds a fully specified new product
type StoreProductInput struct {
	Title        string
	Description  string
	Price        float64
	UnitsInStock int
	Images       []string
	Category     string
}

// UpdateProductInput holds a partial product; nil fields are left unchanged.
// A non-nil Images replaces the whole image set, an empty slice clears it.
type UpdateProductInput struct {
	Title        *string
	Description  *string
	Price        *float64
	UnitsInStock *int
	Images       []string
	Category     *string
}

// ProductService defines the interface for product business logic
type ProductService interface {
	List(ctx context.Context, filter ProductFilter) (*ProductPage, error)
	Show(ctx context.Context, id string) (*domain.Product, error)
	Store(ctx context.Context, input StoreProductInput) (*domain.Product, error)
	Update(ctx context.Context, id string, input UpdateProductInput) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
}

type productService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	imageRepo    repository.ImageRepository
	trManager    TxManager
}

// NewProductService creates a new instance of ProductService
func NewProductService(
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	imageRepo repository.ImageRepository,
	trManager TxManager,
) ProductService {
	return &productService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		imageRepo:    imageRepo,
		trManager:    trManager,
	}
}

// buildQuery translates listing parameters into a repository query
func buildQuery(filter ProductFilter) (repository.ProductQuery, error) {
	page := filter.Page
	if page < 1 {
		page = 1
	}
	if page > maxPage {
		page = maxPage
	}

	q := repository.ProductQuery{
		Search:   filter.Search,
		Category: filter.Category,
		Limit:    PageSize,
		Offset:   (page - 1) * PageSize,
	}

	switch {
	case filter.OrderBy == "":
	case filter.OrderBy == OrderByMaxPrice:
		q.SortBy, q.SortOrder = "price", repository.SortOrderDesc
	case filter.OrderBy == OrderByMinPrice:
		q.SortBy, q.SortOrder = "price", repository.SortOrderAsc
	case repository.IsSortableField(filter.OrderBy):
		q.SortBy, q.SortOrder = filter.OrderBy, repository.SortOrderAsc
	default:
		return q, fmt.Errorf("%w: %s", ErrInvalidOrderBy, filter.OrderBy)
	}

	return q, nil
}

// List returns one page of products with their images and the filtered total
func (s *productService) List(ctx context.Context, filter ProductFilter) (*ProductPage, error) {
	q, err := buildQuery(filter)
	if err != nil {
		return nil, err
	}

	page := &ProductPage{}
	err = s.trManager.DoWithSettings(ctx, snapshotSettings(), func(ctx context.Context) error {
		total, err := s.productRepo.Count(ctx, q)
		if err != nil {
			return err
		}

		products, err := s.productRepo.List(ctx, q)
		if err != nil {
			return err
		}

		if err := s.attachImages(ctx, products); err != nil {
			return err
		}

		page.Products = products
		page.Count = total
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	return page, nil
}

// Show returns a product with its images and category
func (s *productService) Show(ctx context.Context, rawID string) (*domain.Product, error) {
	id, err := parseID(rawID)
	if err != nil {
		return nil, err
	}

	product, err := s.productRepo.FindDetailByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.attachImages(ctx, []*domain.Product{product}); err != nil {
		return nil, fmt.Errorf("failed to load product images: %w", err)
	}

	return product, nil
}

// Store creates a product, resolving its category by name and creating it when missing
func (s *productService) Store(ctx context.Context, input StoreProductInput) (*domain.Product, error) {
	product := &domain.Product{
		ID:           uuid.New(),
		Title:        input.Title,
		Description:  input.Description,
		Price:        input.Price,
		UnitsInStock: input.UnitsInStock,
	}

	err := s.trManager.Do(ctx, func(ctx context.Context) error {
		category, err := s.categoryRepo.FindOrCreateByName(ctx, input.Category)
		if err != nil {
			return err
		}
		product.CategoryID = category.ID
		product.Category = category

		if err := s.productRepo.Create(ctx, product); err != nil {
			return err
		}

		images, err := s.imageRepo.CreateMany(ctx, product.ID, input.Images)
		if err != nil {
			return err
		}
		product.Images = images

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to store product: %w", err)
	}

	return product, nil
}

// Update merges the supplied fields onto an existing product
func (s *productService) Update(ctx context.Context, rawID string, input UpdateProductInput) (*domain.Product, error) {
	id, err := parseID(rawID)
	if err != nil {
		return nil, err
	}

	var product *domain.Product
	err = s.trManager.Do(ctx, func(ctx context.Context) error {
		found, err := s.productRepo.FindDetailByID(ctx, id)
		if err != nil {
			return err
		}
		product = found

		applyUpdate(product, input)

		if input.Category != nil {
			category, err := s.categoryRepo.FindOrCreateByName(ctx, *input.Category)
			if err != nil {
				return err
			}
			product.CategoryID = category.ID
			product.Category = category
		}

		if err := s.productRepo.Update(ctx, product); err != nil {
			return err
		}

		if input.Images == nil {
			return s.attachImages(ctx, []*domain.Product{product})
		}

		if err := s.imageRepo.DeleteByProduct(ctx, product.ID); err != nil {
			return err
		}

		images, err := s.imageRepo.CreateMany(ctx, product.ID, input.Images)
		if err != nil {
			return err
		}
		product.Images = images

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	return product, nil
}

// Delete removes a product along with its images
func (s *productService) Delete(ctx context.Context, rawID string) error {
	id, err := parseID(rawID)
	if err != nil {
		return err
	}

	return s.productRepo.Delete(ctx, id)
}

func applyUpdate(product *domain.Product, input UpdateProductInput) {
	if input.Title != nil {
		product.Title = *input.Title
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.Price != nil {
		product.Price = *input.Price
	}
	if input.UnitsInStock != nil {
		product.UnitsInStock = *input.UnitsInStock
	}
}

// attachImages loads the images of all products in one query
func (s *productService) attachImages(ctx context.Context, products []*domain.Product) error {
	if len(products) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, 0, len(products))
	for _, p := range products {
		ids = append(ids, p.ID)
	}

	images, err := s.imageRepo.ListByProducts(ctx, ids)
	if err != nil {
		return err
	}

	for _, p := range products {
		p.Images = images[p.ID]
		if p.Images == nil {
			p.Images = []domain.Image{}
		}
	}

	return nil
}
