package service

import (
	"context"
	"errors"

	"catalog-api/internal/repository"

	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/avito-tech/go-transaction-manager/trm/v2"
	"github.com/avito-tech/go-transaction-manager/trm/v2/settings"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var (
	ErrInvalidID      = errors.New("invalid id")
	ErrInvalidOrderBy = errors.New("invalid orderBy field")
	ErrCategoryInUse  = errors.New("category still has products")
)

// TxManager runs fn inside a transaction that repositories pick up from ctx
type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoWithSettings(ctx context.Context, s trm.Settings, fn func(ctx context.Context) error) error
}

// snapshotSettings makes every read inside the transaction observe the same snapshot
func snapshotSettings() trm.Settings {
	return trmpgx.MustSettings(
		settings.Must(),
		trmpgx.WithTxOptions(pgx.TxOptions{
			IsoLevel:   pgx.RepeatableRead,
			AccessMode: pgx.ReadOnly,
		}),
	)
}

func parseID(raw string) (uuid.UUID, error) {
	if !repository.IsValidID(raw) {
		return uuid.Nil, ErrInvalidID
	}
	return uuid.MustParse(raw), nil
}
