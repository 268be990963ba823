package components

import (
	"tourtable/internal/infra/readstore"
	"tourtable/internal/infra/repository"
	"tourtable/internal/usecase"
	"tourtable/internal/usecase/commands"
	"tourtable/internal/usecase/queries"

	"go.uber.org/fx"
)

var PersistenceModule = fx.Module("persistence",
	readstoreModule,
	repositoryModule,
)

var readstoreModule = fx.Module("persistence/readstore",
	fx.Provide(
		fx.Annotate(
			readstore.NewRestaurantReadStore,
			fx.As(new(queries.RestaurantReadStore)),
			fx.As(new(commands.RestaurantRepository)),
		),
		fx.Annotate(
			readstore.NewReservationReadStore,
			fx.As(new(queries.ReservationReadStore)),
		),
		fx.Annotate(
			readstore.NewUserStore,
			fx.As(new(usecase.UserStore)),
		),
	),
)

var repositoryModule = fx.Module("persistence/repository",
	fx.Provide(
		fx.Annotate(
			repository.NewScheduleRepository,
			fx.As(new(queries.ScheduleStore)),
			fx.As(new(commands.ScheduleRepository)),
		),
		fx.Annotate(
			repository.NewReservationRepository,
			fx.As(new(queries.OccupancyStore)),
			fx.As(new(commands.ReservationRepository)),
		),
		// The concrete type is also provided directly; the notification
		// dispatcher drains jobs through it.
		repository.NewNotificationRepository,
		fx.Annotate(
			func(r *repository.NotificationRepository) *repository.NotificationRepository { return r },
			fx.As(new(commands.NotificationRepository)),
		),
	),
)
