package app

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/caovinhphuc/mia-logistics-manager-sub000/internal/adapter/broker"
	"github.com/caovinhphuc/mia-logistics-manager-sub000/internal/config"
	"github.com/caovinhphuc/mia-logistics-manager-sub000/internal/notify"
	"github.com/caovinhphuc/mia-logistics-manager-sub000/internal/worker"
)

// Module wires application services, runtime components, and lifecycle hooks.
var Module = fx.Options(
	fx.Provide(
		NewDashboardFacade,
		newAlertHub,
		newNotifier,
		newHTTPServer,
		newMonitor,
		newRefresher,
	),
	fx.Invoke(registerLifecycle),
)

type serverParams struct {
	fx.In

	Config *config.Config
	Router *gin.Engine
}

// newHTTPServer cancels request contexts on shutdown so alert streams end.
func newHTTPServer(p serverParams) *http.Server {
	baseCtx, cancel := context.WithCancel(context.Background())
	server := &http.Server{
		Addr:        p.Config.RunAddress,
		Handler:     p.Router,
		BaseContext: func(net.Listener) context.Context { return baseCtx },
	}
	server.RegisterOnShutdown(cancel)
	return server
}

func newAlertHub(cfg *config.Config, logger *slog.Logger) *notify.Hub {
	return notify.NewHub(cfg.AlertHistory, logger)
}

type notifierParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Config    *config.Config
	Logger    *slog.Logger
	Hub       *notify.Hub
}

var dialBroker = broker.Dial

// newNotifier delivers alerts to the hub and the log, and to the broker when
// one is configured. An unreachable broker is logged and skipped.
func newNotifier(p notifierParams) notify.Notifier {
	targets := notify.Multi{p.Hub, notify.LogNotifier{Logger: p.Logger}}
	if p.Config.AMQPURL == "" {
		return targets
	}

	publisher, err := dialBroker(p.Config.AMQPURL, p.Config.AlertExchange, p.Logger)
	if err != nil {
		p.Logger.Error("alert broker unavailable, publishing disabled", slog.String("error", err.Error()))
		return targets
	}
	p.Lifecycle.Append(fx.Hook{
		OnStop: func(context.Context) error {
			publisher.Close()
			return nil
		},
	})
	return append(targets, publisher)
}

type workerParams struct {
	fx.In

	Facade   *DashboardFacade
	Notifier notify.Notifier
	Config   *config.Config
	Logger   *slog.Logger
}

func newMonitor(p workerParams) *worker.Monitor {
	return worker.NewMonitor(p.Facade, p.Notifier, p.Config.MonitorInterval, p.Logger.With(slog.String("worker", "sla_monitor")))
}

func newRefresher(p workerParams) *worker.Refresher {
	return worker.NewRefresher(p.Facade, p.Config.RefreshInterval, p.Logger.With(slog.String("worker", "refresher")))
}

type lifecycleParams struct {
	fx.In

	Lifecycle  fx.Lifecycle
	Shutdowner fx.Shutdowner
	Logger     *slog.Logger
	Server     *http.Server
	Facade     *DashboardFacade
	Monitor    *worker.Monitor
	Refresher  *worker.Refresher
	Config     *config.Config
}

func registerLifecycle(p lifecycleParams) {
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			p.Logger.Info("starting slatracker", slog.String("addr", p.Server.Addr), slog.String("store", p.Config.StoreDriver))
			if err := p.Facade.Load(ctx); err != nil {
				p.Logger.Error("initial load failed, starting empty", slog.String("error", err.Error()))
			}
			p.Refresher.Start(ctx)
			p.Monitor.Start(ctx)
			go func() {
				if err := p.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					p.Logger.Error("http server terminated", slog.String("error", err.Error()))
					_ = p.Shutdowner.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			p.Monitor.Stop()
			p.Refresher.Stop()

			shutdownCtx := ctx
			cancel := func() {}
			if _, ok := ctx.Deadline(); !ok {
				shutdownCtx, cancel = context.WithTimeout(ctx, p.Config.ShutdownTimeout)
			}
			defer cancel()

			if err := p.Server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			p.Logger.Info("slatracker stopped")
			return nil
		},
	})
}
