package components

import (
	"tourtable/internal/pkg/clock"
	"tourtable/internal/usecase"
	"tourtable/internal/usecase/commands"
	"tourtable/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	fx.Provide(
		clock.System,

		queries.NewAvailabilityQueries,
		queries.NewReservationQueries,

		commands.NewBookingCommands,
		commands.NewReservationCommands,
		commands.NewScheduleCommands,

		usecase.NewAuthUseCase,
		usecase.NewTokenValidator,
	),
)
