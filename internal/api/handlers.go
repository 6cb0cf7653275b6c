package api

import (
	"errors"
	"strings"
	"time"

	"github.com/terraincognita07/tandem/internal/services"
	"gorm.io/gorm"
)

func NewHandler(database *gorm.DB, secret string, location *time.Location, clock services.Clock) (*Handler, error) {
	if database == nil {
		return nil, errors.New("database is required")
	}
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("secret key is required")
	}
	if location == nil {
		location = time.Local
	}
	if clock == nil {
		clock = services.SystemClock{}
	}

	handler := &Handler{
		db:        database,
		secretKey: []byte(secret),
		location:  location,
		clock:     clock,
	}
	return handler.withDependencies(database), nil
}

// RoutineService exposes the handler's routine service so the generator job
// shares its stores and clock.
func (handler *Handler) RoutineService() *services.RoutineService {
	return handler.routineService
}
