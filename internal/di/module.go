package di

import (
	"go.uber.org/fx"

	"github.com/caovinhphuc/mia-logistics-manager-sub000/internal/app"
	"github.com/caovinhphuc/mia-logistics-manager-sub000/internal/config"
	"github.com/caovinhphuc/mia-logistics-manager-sub000/internal/logger"
	"github.com/caovinhphuc/mia-logistics-manager-sub000/internal/server/http/handlers"
	"github.com/caovinhphuc/mia-logistics-manager-sub000/internal/server/http/router"
	"github.com/caovinhphuc/mia-logistics-manager-sub000/internal/storage"
	"github.com/caovinhphuc/mia-logistics-manager-sub000/internal/usecase"
)

// Module composes the application graph. Extra options are appended last so
// callers can replace any provided value.
func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		storage.Module,
		usecase.Module,
		fx.Provide(func(f *app.DashboardFacade) handlers.Facade { return f }),
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
