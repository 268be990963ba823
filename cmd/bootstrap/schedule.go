package bootstrap

import (
	"tourtable/internal/domain/availability"
	"tourtable/internal/pkg/config"

	"go.uber.org/fx"
)

var ScheduleModule = fx.Module("schedule",
	fx.Provide(
		NewDayTemplate,
	),
)

// NewDayTemplate builds the configured default day shape; with the default
// config that is twelve hourly slots from 09:00 to 21:00, capacity one.
func NewDayTemplate(cfg config.Config) (*availability.DayTemplate, error) {
	return availability.NewDayTemplate(
		cfg.Schedule.DayStart,
		cfg.Schedule.DayEnd,
		cfg.Schedule.SlotMinutes,
		cfg.Schedule.SlotCapacity,
	)
}
