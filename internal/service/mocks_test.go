package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"catalog-api/internal/domain"
	"catalog-api/internal/repository"

	"github.com/avito-tech/go-transaction-manager/trm/v2"
	"github.com/google/uuid"
)

// Mock repositories for testing
type mockCategoryRepository struct {
	categories map[uuid.UUID]*domain.Category
	products   *mockProductRepository
}

func newMockCategoryRepository() *mockCategoryRepository {
	return &mockCategoryRepository{categories: make(map[uuid.UUID]*domain.Category)}
}

func (m *mockCategoryRepository) List(ctx context.Context) ([]*domain.Category, error) {
	categories := []*domain.Category{}
	for _, c := range m.categories {
		categories = append(categories, c)
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i].Name < categories[j].Name })
	return categories, nil
}

func (m *mockCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	category, ok := m.categories[id]
	if !ok {
		return nil, repository.ErrCategoryNotFound
	}
	return category, nil
}

func (m *mockCategoryRepository) FindByName(ctx context.Context, name string) (*domain.Category, error) {
	for _, c := range m.categories {
		if c.Name == name {
			return c, nil
		}
	}
	return nil, repository.ErrCategoryNotFound
}

func (m *mockCategoryRepository) Create(ctx context.Context, category *domain.Category) error {
	if _, err := m.FindByName(ctx, category.Name); err == nil {
		return repository.ErrCategoryAlreadyExists
	}
	m.categories[category.ID] = category
	return nil
}

func (m *mockCategoryRepository) FindOrCreateByName(ctx context.Context, name string) (*domain.Category, error) {
	if c, err := m.FindByName(ctx, name); err == nil {
		return c, nil
	}
	category := &domain.Category{ID: uuid.New(), Name: name, CreatedAt: time.Now()}
	m.categories[category.ID] = category
	return category, nil
}

func (m *mockCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.categories[id]; !ok {
		return repository.ErrCategoryNotFound
	}
	delete(m.categories, id)
	return nil
}

func (m *mockCategoryRepository) CountProducts(ctx context.Context, id uuid.UUID) (int, error) {
	if m.products == nil {
		return 0, nil
	}
	count := 0
	for _, p := range m.products.products {
		if p.CategoryID == id {
			count++
		}
	}
	return count, nil
}

type mockProductRepository struct {
	products   map[uuid.UUID]*domain.Product
	categories *mockCategoryRepository
	lastQuery  repository.ProductQuery
}

func newMockProductRepository(categories *mockCategoryRepository) *mockProductRepository {
	m := &mockProductRepository{products: make(map[uuid.UUID]*domain.Product), categories: categories}
	categories.products = m
	return m
}

func (m *mockProductRepository) matching(q repository.ProductQuery) []*domain.Product {
	result := []*domain.Product{}
	for _, p := range m.products {
		if q.Search != "" && !strings.Contains(strings.ToLower(p.Title), strings.ToLower(q.Search)) {
			continue
		}
		if q.Category != "" {
			c, ok := m.categories.categories[p.CategoryID]
			if !ok || !strings.EqualFold(c.Name, q.Category) {
				continue
			}
		}
		copied := *p
		copied.Category = nil
		result = append(result, &copied)
	}
	sort.Slice(result, func(i, j int) bool {
		if q.SortBy == "price" && q.SortOrder == repository.SortOrderDesc {
			return result[i].Price > result[j].Price
		}
		if q.SortBy == "price" {
			return result[i].Price < result[j].Price
		}
		return result[i].ID.String() < result[j].ID.String()
	})
	return result
}

func (m *mockProductRepository) Count(ctx context.Context, q repository.ProductQuery) (int, error) {
	return len(m.matching(q)), nil
}

func (m *mockProductRepository) List(ctx context.Context, q repository.ProductQuery) ([]*domain.Product, error) {
	m.lastQuery = q
	all := m.matching(q)
	if q.Offset >= len(all) {
		return []*domain.Product{}, nil
	}
	end := q.Offset + q.Limit
	if end > len(all) {
		end = len(all)
	}
	return all[q.Offset:end], nil
}

func (m *mockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	p, ok := m.products[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	copied := *p
	return &copied, nil
}

func (m *mockProductRepository) FindDetailByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	p, err := m.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Category = m.categories.categories[p.CategoryID]
	return p, nil
}

func (m *mockProductRepository) Create(ctx context.Context, product *domain.Product) error {
	now := time.Now()
	product.CreatedAt, product.UpdatedAt = now, now
	copied := *product
	m.products[product.ID] = &copied
	return nil
}

func (m *mockProductRepository) Update(ctx context.Context, product *domain.Product) error {
	if _, ok := m.products[product.ID]; !ok {
		return repository.ErrProductNotFound
	}
	product.UpdatedAt = time.Now()
	copied := *product
	m.products[product.ID] = &copied
	return nil
}

func (m *mockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.products[id]; !ok {
		return repository.ErrProductNotFound
	}
	delete(m.products, id)
	return nil
}

type mockImageRepository struct {
	images map[uuid.UUID][]domain.Image
}

func newMockImageRepository() *mockImageRepository {
	return &mockImageRepository{images: make(map[uuid.UUID][]domain.Image)}
}

func (m *mockImageRepository) CreateMany(ctx context.Context, productID uuid.UUID, paths []string) ([]domain.Image, error) {
	created := make([]domain.Image, 0, len(paths))
	for _, path := range paths {
		created = append(created, domain.Image{ID: uuid.New(), Path: path, ProductID: productID})
	}
	m.images[productID] = append(m.images[productID], created...)
	return created, nil
}

func (m *mockImageRepository) DeleteByProduct(ctx context.Context, productID uuid.UUID) error {
	delete(m.images, productID)
	return nil
}

func (m *mockImageRepository) ListByProducts(ctx context.Context, productIDs []uuid.UUID) (map[uuid.UUID][]domain.Image, error) {
	result := make(map[uuid.UUID][]domain.Image)
	for _, id := range productIDs {
		if images, ok := m.images[id]; ok {
			result[id] = images
		}
	}
	return result, nil
}

// mockTxManager runs the callback inline and records how it was invoked
type mockTxManager struct {
	calls         int
	settingsCalls int
}

func (m *mockTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls++
	return fn(ctx)
}

func (m *mockTxManager) DoWithSettings(ctx context.Context, s trm.Settings, fn func(ctx context.Context) error) error {
	m.settingsCalls++
	return fn(ctx)
}

type testDeps struct {
	categories *mockCategoryRepository
	products   *mockProductRepository
	images     *mockImageRepository
	tx         *mockTxManager
}

func newTestDeps() *testDeps {
	categories := newMockCategoryRepository()
	return &testDeps{
		categories: categories,
		products:   newMockProductRepository(categories),
		images:     newMockImageRepository(),
		tx:         &mockTxManager{},
	}
}

func (d *testDeps) productService() ProductService {
	return NewProductService(d.products, d.categories, d.images, d.tx)
}

func (d *testDeps) categoryService() CategoryService {
	return NewCategoryService(d.categories, d.tx)
}
