// Package storage selects the order store backend from configuration.
package storage

import (
	"context"
	"fmt"
	"log/slog"

	"go.uber.org/fx"

	"github.com/caovinhphuc/mia-logistics-manager-sub000/internal/adapter/sheets"
	"github.com/caovinhphuc/mia-logistics-manager-sub000/internal/config"
	"github.com/caovinhphuc/mia-logistics-manager-sub000/internal/domain/repository"
	"github.com/caovinhphuc/mia-logistics-manager-sub000/internal/storage/postgres"
)

// Module provides the configured repository.OrderStore.
var Module = fx.Provide(newOrderStore)

type storeParams struct {
	fx.In

	Ctx       context.Context
	Lifecycle fx.Lifecycle
	Config    *config.Config
	Logger    *slog.Logger
}

var openPostgres = func(ctx context.Context, dsn, sheet string, logger *slog.Logger) (*postgres.Storage, error) {
	return postgres.New(ctx, dsn, sheet, logger)
}

func newOrderStore(p storeParams) (repository.OrderStore, error) {
	logger := p.Logger.With(slog.String("store", p.Config.StoreDriver))

	switch p.Config.StoreDriver {
	case config.StoreDriverPostgres:
		st, err := openPostgres(p.Ctx, p.Config.DatabaseURI, p.Config.SheetName, logger)
		if err != nil {
			return nil, err
		}
		p.Lifecycle.Append(fx.Hook{
			OnStop: func(context.Context) error {
				st.Close()
				return nil
			},
		})
		return st, nil
	case config.StoreDriverSheets:
		client, err := sheets.NewHTTPClient(p.Config.SheetsAddress, p.Config.SheetName, p.Config.StoreTimeout, logger)
		if err != nil {
			return nil, err
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", p.Config.StoreDriver)
	}
}
