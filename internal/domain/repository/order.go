package repository

import (
	"context"

	"github.com/caovinhphuc/mia-logistics-manager-sub000/internal/domain/model"
)

// OrderStore describes the external tabular store holding the order sheet.
// Push overwrites the whole sheet; there is no row-level upsert.
type OrderStore interface {
	Pull(ctx context.Context) ([]model.RawRow, error)
	Push(ctx context.Context, rows []model.RawRow) error
}
