package services

import (
	"context"
	"fmt"
	"time"

	"github.com/terraincognita07/tandem/internal/models"
)

type OccurrenceStateStore interface {
	ListByRoutineRange(ctx context.Context, coupleID uint, routineID uint, fromStart *time.Time, toEnd *time.Time) ([]models.RoutineOccurrence, error)
	FindByID(ctx context.Context, coupleID uint, occurrenceID uint) (models.RoutineOccurrence, error)
	UpdateState(ctx context.Context, coupleID uint, occurrenceID uint, updates map[string]any) error
}

// OccurrenceService moves occurrences between pending, completed and skipped.
// Completing clears skipped and skipping clears the completion, so no
// transition leaves both set.
type OccurrenceService struct {
	routines    MaterializerRoutineReader
	occurrences OccurrenceStateStore
	clock       Clock
	location    *time.Location
}

func NewOccurrenceService(routines MaterializerRoutineReader, occurrences OccurrenceStateStore, clock Clock, location *time.Location) *OccurrenceService {
	if clock == nil {
		clock = SystemClock{}
	}
	if location == nil {
		location = time.UTC
	}
	return &OccurrenceService{
		routines:    routines,
		occurrences: occurrences,
		clock:       clock,
		location:    location,
	}
}

func (service *OccurrenceService) GetOccurrences(ctx context.Context, coupleID uint, routineID uint, from *time.Time, to *time.Time) ([]models.RoutineOccurrence, error) {
	if _, err := service.routines.FindByID(ctx, coupleID, routineID); err != nil {
		if isRecordNotFound(err) {
			return nil, ErrRoutineNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrRoutineLoadFailed, err)
	}

	var fromStart *time.Time
	var toEnd *time.Time
	if from != nil {
		start, _ := DayRange(*from)
		fromStart = &start
	}
	if to != nil {
		_, end := DayRange(*to)
		toEnd = &end
	}

	occurrences, err := service.occurrences.ListByRoutineRange(ctx, coupleID, routineID, fromStart, toEnd)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOccurrenceLoadFailed, err)
	}
	return occurrences, nil
}

func (service *OccurrenceService) CompleteOccurrence(ctx context.Context, coupleID uint, occurrenceID uint, userID uint) (models.RoutineOccurrence, error) {
	now := service.clock.Now().In(service.location)
	return service.transition(ctx, coupleID, occurrenceID, map[string]any{
		"completed_at":    now,
		"completed_by_id": userID,
		"skipped":         false,
	})
}

func (service *OccurrenceService) UncompleteOccurrence(ctx context.Context, coupleID uint, occurrenceID uint) (models.RoutineOccurrence, error) {
	return service.transition(ctx, coupleID, occurrenceID, map[string]any{
		"completed_at":    nil,
		"completed_by_id": nil,
	})
}

func (service *OccurrenceService) SkipOccurrence(ctx context.Context, coupleID uint, occurrenceID uint) (models.RoutineOccurrence, error) {
	return service.transition(ctx, coupleID, occurrenceID, map[string]any{
		"skipped":         true,
		"completed_at":    nil,
		"completed_by_id": nil,
	})
}

func (service *OccurrenceService) transition(ctx context.Context, coupleID uint, occurrenceID uint, updates map[string]any) (models.RoutineOccurrence, error) {
	if err := service.occurrences.UpdateState(ctx, coupleID, occurrenceID, updates); err != nil {
		if isRecordNotFound(err) {
			return models.RoutineOccurrence{}, ErrOccurrenceNotFound
		}
		return models.RoutineOccurrence{}, fmt.Errorf("%w: %v", ErrOccurrenceUpdateFailed, err)
	}

	occurrence, err := service.occurrences.FindByID(ctx, coupleID, occurrenceID)
	if err != nil {
		if isRecordNotFound(err) {
			return models.RoutineOccurrence{}, ErrOccurrenceNotFound
		}
		return models.RoutineOccurrence{}, fmt.Errorf("%w: %v", ErrOccurrenceLoadFailed, err)
	}
	return occurrence, nil
}
