package repository

import (
	"context"
	"fmt"

	"catalog-api/internal/domain"

	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ImageRepository defines the interface for product image data access
type ImageRepository interface {
	CreateMany(ctx context.Context, productID uuid.UUID, paths []string) ([]domain.Image, error)
	DeleteByProduct(ctx context.Context, productID uuid.UUID) error
	ListByProducts(ctx context.Context, productIDs []uuid.UUID) (map[uuid.UUID][]domain.Image, error)
}

type imageRepository struct {
	pool   *pgxpool.Pool
	getter *trmpgx.CtxGetter
}

// NewImageRepository creates a new instance of ImageRepository
func NewImageRepository(pool *pgxpool.Pool) ImageRepository {
	return &imageRepository{pool: pool, getter: trmpgx.DefaultCtxGetter}
}

func (r *imageRepository) conn(ctx context.Context) trmpgx.Tr {
	return r.getter.DefaultTrOrDB(ctx, r.pool)
}

// CreateMany bulk-inserts one image per path, preserving the given order
func (r *imageRepository) CreateMany(ctx context.Context, productID uuid.UUID, paths []string) ([]domain.Image, error) {
	images := make([]domain.Image, 0, len(paths))
	if len(paths) == 0 {
		return images, nil
	}

	rows := make([][]any, 0, len(paths))
	for i, path := range paths {
		images = append(images, domain.Image{ID: uuid.New(), Path: path, ProductID: productID})
		rows = append(rows, []any{images[i].ID, path, productID, i})
	}

	_, err := r.conn(ctx).CopyFrom(
		ctx,
		pgx.Identifier{"images"},
		[]string{"id", "path", "product_id", "position"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create images: %w", err)
	}

	return images, nil
}

// DeleteByProduct removes every image of a product
func (r *imageRepository) DeleteByProduct(ctx context.Context, productID uuid.UUID) error {
	if _, err := r.conn(ctx).Exec(ctx, `DELETE FROM images WHERE product_id = $1`, productID); err != nil {
		return fmt.Errorf("failed to delete images: %w", err)
	}

	return nil
}

// ListByProducts loads the images of several products in one query, keyed by product
func (r *imageRepository) ListByProducts(ctx context.Context, productIDs []uuid.UUID) (map[uuid.UUID][]domain.Image, error) {
	result := make(map[uuid.UUID][]domain.Image, len(productIDs))
	if len(productIDs) == 0 {
		return result, nil
	}

	ids := make([]string, 0, len(productIDs))
	for _, id := range productIDs {
		ids = append(ids, id.String())
	}

	query := `
		SELECT id, path, product_id
		FROM images
		WHERE product_id = ANY($1::uuid[])
		ORDER BY product_id, position
	`

	rows, err := r.conn(ctx).Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to list images: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var image domain.Image
		if err := rows.Scan(&image.ID, &image.Path, &image.ProductID); err != nil {
			return nil, fmt.Errorf("failed to scan image: %w", err)
		}
		result[image.ProductID] = append(result[image.ProductID], image)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating images: %w", err)
	}

	return result, nil
}
