package api

import (
	"github.com/terraincognita07/tandem/internal/db"
	"github.com/terraincognita07/tandem/internal/services"
	"gorm.io/gorm"
)

func (handler *Handler) withDependencies(database *gorm.DB) *Handler {
	handler.repositories = db.NewRepositories(database)
	handler.routineService = services.NewRoutineService(
		handler.repositories.Routines,
		handler.repositories.Occurrences,
		handler.repositories.Users,
		handler.clock,
		handler.location,
	)
	handler.occurrenceService = services.NewOccurrenceService(
		handler.repositories.Routines,
		handler.repositories.Occurrences,
		handler.clock,
		handler.location,
	)
	handler.statsService = services.NewRoutineStatsService(
		handler.repositories.Routines,
		handler.repositories.Occurrences,
		handler.clock,
		handler.location,
	)
	return handler
}
