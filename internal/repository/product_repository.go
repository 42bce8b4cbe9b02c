package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"catalog-api/internal/domain"

	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrProductNotFound = errors.New("product not found")
)

// SortOrder represents the sort direction
type SortOrder string

const (
	SortOrderAsc  SortOrder = "ASC"
	SortOrderDesc SortOrder = "DESC"
)

// sortColumns maps the sortable JSON field names to their columns
var sortColumns = map[string]string{
	"title":        "p.title",
	"description":  "p.description",
	"price":        "p.price",
	"unitsInStock": "p.units_in_stock",
	"createdAt":    "p.created_at",
	"updatedAt":    "p.updated_at",
}

// IsSortableField reports whether products can be ordered by the given field
func IsSortableField(field string) bool {
	_, ok := sortColumns[field]
	return ok
}

// ProductQuery narrows and orders a product listing.
// Search matches title substrings and Category matches the category name, both case-insensitively.
type ProductQuery struct {
	Search    string
	Category  string
	SortBy    string
	SortOrder SortOrder
	Limit     int
	Offset    int
}

// ProductRepository defines the interface for product data access
type ProductRepository interface {
	Count(ctx context.Context, q ProductQuery) (int, error)
	List(ctx context.Context, q ProductQuery) ([]*domain.Product, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	FindDetailByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	Create(ctx context.Context, product *domain.Product) error
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type productRepository struct {
	pool   *pgxpool.Pool
	getter *trmpgx.CtxGetter
}

// NewProductRepository creates a new instance of ProductRepository
func NewProductRepository(pool *pgxpool.Pool) ProductRepository {
	return &productRepository{pool: pool, getter: trmpgx.DefaultCtxGetter}
}

func (r *productRepository) conn(ctx context.Context) trmpgx.Tr {
	return r.getter.DefaultTrOrDB(ctx, r.pool)
}

// buildWhere renders the filter part shared by Count and List
func buildWhere(q ProductQuery) (string, []any) {
	conditions := []string{}
	args := []any{}

	if q.Search != "" {
		args = append(args, "%"+q.Search+"%")
		conditions = append(conditions, fmt.Sprintf("p.title ILIKE $%d", len(args)))
	}

	if q.Category != "" {
		args = append(args, q.Category)
		conditions = append(conditions, fmt.Sprintf("LOWER(c.name) = LOWER($%d)", len(args)))
	}

	if len(conditions) == 0 {
		return "", args
	}

	return "WHERE " + strings.Join(conditions, " AND "), args
}

// Count returns the number of products matching the query filters
func (r *productRepository) Count(ctx context.Context, q ProductQuery) (int, error) {
	whereClause, args := buildWhere(q)

	query := fmt.Sprintf(`
		SELECT COUNT(*)
		FROM products p
		JOIN categories c ON c.id = p.category_id
		%s
	`, whereClause)

	var total int
	if err := r.conn(ctx).QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}

	return total, nil
}

// List retrieves one page of products matching the query. Relations are not loaded.
func (r *productRepository) List(ctx context.Context, q ProductQuery) ([]*domain.Product, error) {
	whereClause, args := buildWhere(q)

	// Validate sort field to prevent SQL injection
	orderClause := "p.created_at DESC, p.id"
	if column, ok := sortColumns[q.SortBy]; ok {
		order := q.SortOrder
		if order != SortOrderAsc && order != SortOrderDesc {
			order = SortOrderAsc
		}
		orderClause = fmt.Sprintf("%s %s, p.id", column, order)
	}

	args = append(args, q.Limit, q.Offset)

	query := fmt.Sprintf(`
		SELECT p.id, p.title, p.description, p.price, p.units_in_stock, p.category_id, p.created_at, p.updated_at
		FROM products p
		JOIN categories c ON c.id = p.category_id
		%s
		ORDER BY %s
		LIMIT $%d OFFSET $%d
	`, whereClause, orderClause, len(args)-1, len(args))

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := []*domain.Product{}
	for rows.Next() {
		product := &domain.Product{}
		err := rows.Scan(
			&product.ID,
			&product.Title,
			&product.Description,
			&product.Price,
			&product.UnitsInStock,
			&product.CategoryID,
			&product.CreatedAt,
			&product.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, product)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

// FindByID retrieves a product by ID without relations
func (r *productRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	query := `
		SELECT id, title, description, price, units_in_stock, category_id, created_at, updated_at
		FROM products
		WHERE id = $1
	`

	product := &domain.Product{}
	err := r.conn(ctx).QueryRow(ctx, query, id).Scan(
		&product.ID,
		&product.Title,
		&product.Description,
		&product.Price,
		&product.UnitsInStock,
		&product.CategoryID,
		&product.CreatedAt,
		&product.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}

	return product, nil
}

// FindDetailByID retrieves a product together with its category
func (r *productRepository) FindDetailByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	query := `
		SELECT p.id, p.title, p.description, p.price, p.units_in_stock, p.category_id, p.created_at, p.updated_at,
		       c.id, c.name, c.created_at
		FROM products p
		JOIN categories c ON c.id = p.category_id
		WHERE p.id = $1
	`

	product := &domain.Product{Category: &domain.Category{}}
	err := r.conn(ctx).QueryRow(ctx, query, id).Scan(
		&product.ID,
		&product.Title,
		&product.Description,
		&product.Price,
		&product.UnitsInStock,
		&product.CategoryID,
		&product.CreatedAt,
		&product.UpdatedAt,
		&product.Category.ID,
		&product.Category.Name,
		&product.Category.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product detail by ID: %w", err)
	}

	return product, nil
}

// Create inserts a new product; the stored price and timestamps are read back
func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	query := `
		INSERT INTO products (id, title, description, price, units_in_stock, category_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING price, created_at, updated_at
	`

	err := r.conn(ctx).QueryRow(
		ctx,
		query,
		product.ID,
		product.Title,
		product.Description,
		product.Price,
		product.UnitsInStock,
		product.CategoryID,
	).Scan(&product.Price, &product.CreatedAt, &product.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}

	return nil
}

// Update overwrites the scalar fields and category link of an existing product
func (r *productRepository) Update(ctx context.Context, product *domain.Product) error {
	query := `
		UPDATE products
		SET title = $2, description = $3, price = $4, units_in_stock = $5, category_id = $6
		WHERE id = $1
		RETURNING price, updated_at
	`

	err := r.conn(ctx).QueryRow(
		ctx,
		query,
		product.ID,
		product.Title,
		product.Description,
		product.Price,
		product.UnitsInStock,
		product.CategoryID,
	).Scan(&product.Price, &product.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrProductNotFound
		}
		return fmt.Errorf("failed to update product: %w", err)
	}

	return nil
}

// Delete removes a product; its images go with it
func (r *productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrProductNotFound
	}

	return nil
}
