package di

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/caovinhphuc/mia-logistics-manager-sub000/internal/app"
	"github.com/caovinhphuc/mia-logistics-manager-sub000/internal/config"
	"github.com/caovinhphuc/mia-logistics-manager-sub000/internal/domain/repository"
	"github.com/caovinhphuc/mia-logistics-manager-sub000/internal/test"
)

func TestModuleComposesGraphWithReplacements(t *testing.T) {
	cfg := &config.Config{
		RunAddress:       ":0",
		StoreDriver:      config.StoreDriverSheets,
		SheetsAddress:    "http://localhost",
		SheetName:        "Orders",
		StoreTimeout:     time.Second,
		MonitorInterval:  time.Minute,
		RefreshInterval:  time.Minute,
		ShutdownTimeout:  time.Millisecond,
		DefaultActor:     "system",
		Location:         time.UTC,
		SyncErrorHistory: 10,
		AlertHistory:     10,
	}
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	store := test.NewOrderStoreStub()

	var facade *app.DashboardFacade
	var engine *gin.Engine
	fxApp := fx.New(
		fx.NopLogger,
		fx.Supply(fx.Annotate(context.Background(), fx.As(new(context.Context)))),
		Module(
			fx.Replace(cfg),
			fx.Replace(logger),
			fx.Replace(repository.OrderStore(store)),
		),
		fx.Populate(&facade, &engine),
	)

	if err := fxApp.Err(); err != nil {
		t.Fatalf("fx app returned error: %v", err)
	}
	t.Cleanup(func() { _ = fxApp.Stop(context.Background()) })
	if facade == nil || engine == nil {
		t.Fatal("expected dashboard facade and router instances")
	}
}
