package bootstrap

import (
	"context"

	"tourtable/internal/infra/repository"
	"tourtable/internal/notify"
	"tourtable/internal/pkg/clock"
	"tourtable/internal/pkg/config"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var NotifyModule = fx.Module("notify",
	fx.Provide(
		NewSender,
		NewDispatcher,
	),
	fx.Invoke(StartDispatcher),
)

func NewSender(cfg config.Config) notify.Sender {
	return notify.NewSMTPSender(cfg.SMTP)
}

func NewDispatcher(jobs *repository.NotificationRepository, sender notify.Sender, pool *pgxpool.Pool, clk clock.Clock, cfg config.Config) *notify.Dispatcher {
	return notify.NewDispatcher(jobs, sender, pool, clk, cfg.SMTP)
}

func StartDispatcher(lc fx.Lifecycle, dispatcher *notify.Dispatcher) {
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			dispatcher.Start()
			return nil
		},
		OnStop: func(_ context.Context) error {
			dispatcher.Stop()
			return nil
		},
	})
}
