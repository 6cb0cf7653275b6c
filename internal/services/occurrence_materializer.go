package services

import (
	"context"
	"fmt"
	"time"

	"github.com/terraincognita07/tandem/internal/models"
)

type MaterializerRoutineReader interface {
	FindByID(ctx context.Context, coupleID uint, routineID uint) (models.Routine, error)
}

type MaterializerOccurrenceStore interface {
	ListDatesByRoutineRange(ctx context.Context, coupleID uint, routineID uint, dayStart time.Time, dayEnd time.Time) ([]time.Time, error)
	InsertBatch(ctx context.Context, occurrences []models.RoutineOccurrence) (int64, error)
}

// OccurrenceMaterializer only ever adds occurrences. Existing rows, whatever
// their state, are left alone.
type OccurrenceMaterializer struct {
	routines    MaterializerRoutineReader
	occurrences MaterializerOccurrenceStore
}

func NewOccurrenceMaterializer(routines MaterializerRoutineReader, occurrences MaterializerOccurrenceStore) *OccurrenceMaterializer {
	return &OccurrenceMaterializer{
		routines:    routines,
		occurrences: occurrences,
	}
}

// Materialize fills the calendar days [start, end], read by their wall-clock
// date. It returns zero without error when the routine is missing,
// belongs to another couple, or is inactive.
func (materializer *OccurrenceMaterializer) Materialize(ctx context.Context, coupleID uint, routineID uint, start time.Time, end time.Time) (int, error) {
	routine, err := materializer.routines.FindByID(ctx, coupleID, routineID)
	if err != nil {
		if isRecordNotFound(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("%w: %v", ErrRoutineLoadFailed, err)
	}
	return materializer.MaterializeRoutine(ctx, routine, start, end)
}

func (materializer *OccurrenceMaterializer) MaterializeRoutine(ctx context.Context, routine models.Routine, start time.Time, end time.Time) (int, error) {
	if !routine.IsActive {
		return 0, nil
	}

	dates, err := ExpandSchedule(routine.Schedule, start, end)
	if err != nil {
		return 0, err
	}
	if len(dates) == 0 {
		return 0, nil
	}

	windowStart := DateOnly(start)
	_, windowEnd := DayRange(end)
	existing, err := materializer.occurrences.ListDatesByRoutineRange(ctx, routine.CoupleID, routine.ID, windowStart, windowEnd)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrMaterializeFailed, err)
	}

	existingDays := make(map[string]struct{}, len(existing))
	for _, date := range existing {
		existingDays[DayKey(date)] = struct{}{}
	}

	missing := make([]models.RoutineOccurrence, 0, len(dates))
	for _, date := range dates {
		if _, ok := existingDays[DayKey(date)]; ok {
			continue
		}
		missing = append(missing, models.RoutineOccurrence{
			RoutineID:     routine.ID,
			CoupleID:      routine.CoupleID,
			ScheduledDate: date,
		})
	}
	if len(missing) == 0 {
		return 0, nil
	}

	inserted, err := materializer.occurrences.InsertBatch(ctx, missing)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrMaterializeFailed, err)
	}
	return int(inserted), nil
}
