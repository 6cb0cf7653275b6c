package services

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/terraincognita07/tandem/internal/models"
	"gorm.io/gorm"
)

type fixedClock struct {
	now time.Time
}

func (clock fixedClock) Now() time.Time {
	return clock.now
}

func (clock fixedClock) After(time.Duration) <-chan time.Time {
	return make(chan time.Time)
}

func mustParseServiceDay(raw string) time.Time {
	parsed, err := time.ParseInLocation("2006-01-02", raw, time.UTC)
	if err != nil {
		panic(err)
	}
	return parsed
}

type routineStoreStub struct {
	routines      map[uint]models.Routine
	nextID        uint
	createErr     error
	updateErr     error
	rescheduleErr error
	listActiveErr error
	findErr       error
	// occurrences receives the purge and insert of Reschedule.
	occurrences *occurrenceStoreStub
}

func newRoutineStoreStub() *routineStoreStub {
	return &routineStoreStub{
		routines: make(map[uint]models.Routine),
		nextID:   1,
	}
}

func (stub *routineStoreStub) FindByID(_ context.Context, coupleID uint, routineID uint) (models.Routine, error) {
	if stub.findErr != nil {
		return models.Routine{}, stub.findErr
	}
	routine, ok := stub.routines[routineID]
	if !ok || routine.CoupleID != coupleID {
		return models.Routine{}, gorm.ErrRecordNotFound
	}
	return routine, nil
}

func (stub *routineStoreStub) ListByCouple(_ context.Context, coupleID uint) ([]models.Routine, error) {
	routines := make([]models.Routine, 0)
	for _, routine := range stub.routines {
		if routine.CoupleID == coupleID {
			routines = append(routines, routine)
		}
	}
	sort.Slice(routines, func(i, j int) bool { return routines[i].ID < routines[j].ID })
	return routines, nil
}

func (stub *routineStoreStub) ListActive(context.Context) ([]models.Routine, error) {
	if stub.listActiveErr != nil {
		return nil, stub.listActiveErr
	}
	routines := make([]models.Routine, 0)
	for _, routine := range stub.routines {
		if routine.IsActive {
			routines = append(routines, routine)
		}
	}
	sort.Slice(routines, func(i, j int) bool { return routines[i].ID < routines[j].ID })
	return routines, nil
}

func (stub *routineStoreStub) Create(_ context.Context, routine *models.Routine) error {
	if stub.createErr != nil {
		return stub.createErr
	}
	if routine.ID == 0 {
		routine.ID = stub.nextID
		stub.nextID++
	}
	stub.routines[routine.ID] = *routine
	return nil
}

func (stub *routineStoreStub) UpdateByID(_ context.Context, coupleID uint, routineID uint, updates map[string]any) error {
	if stub.updateErr != nil {
		return stub.updateErr
	}
	routine, ok := stub.routines[routineID]
	if !ok || routine.CoupleID != coupleID {
		return gorm.ErrRecordNotFound
	}
	for key, value := range updates {
		switch key {
		case "name":
			routine.Name = value.(string)
		case "description":
			routine.Description = value.(string)
		case "is_active":
			routine.IsActive = value.(bool)
		case "schedule":
			routine.Schedule = value.(models.Schedule)
		case "assigned_to_id":
			if value == nil {
				routine.AssignedToID = nil
			} else {
				assignee := value.(uint)
				routine.AssignedToID = &assignee
			}
		}
	}
	stub.routines[routineID] = routine
	return nil
}

func (stub *routineStoreStub) Reschedule(ctx context.Context, coupleID uint, routineID uint, updates map[string]any, purgeFrom time.Time, occurrences []models.RoutineOccurrence) (int64, int64, error) {
	if stub.rescheduleErr != nil {
		return 0, 0, stub.rescheduleErr
	}
	if err := stub.UpdateByID(ctx, coupleID, routineID, updates); err != nil {
		return 0, 0, err
	}
	purged := stub.occurrences.deleteUnskippedFrom(coupleID, routineID, purgeFrom)
	inserted, err := stub.occurrences.InsertBatch(ctx, occurrences)
	if err != nil {
		return 0, 0, err
	}
	return purged, inserted, nil
}

func (stub *routineStoreStub) Delete(_ context.Context, coupleID uint, routineID uint) error {
	routine, ok := stub.routines[routineID]
	if !ok || routine.CoupleID != coupleID {
		return gorm.ErrRecordNotFound
	}
	delete(stub.routines, routineID)
	return nil
}

type occurrenceStoreStub struct {
	occurrences      map[uint]models.RoutineOccurrence
	nextID           uint
	insertErrRoutine map[uint]error
	insertCalls      int
}

func newOccurrenceStoreStub() *occurrenceStoreStub {
	return &occurrenceStoreStub{
		occurrences:      make(map[uint]models.RoutineOccurrence),
		nextID:           1,
		insertErrRoutine: make(map[uint]error),
	}
}

func (stub *occurrenceStoreStub) add(occurrence models.RoutineOccurrence) models.RoutineOccurrence {
	occurrence.ID = stub.nextID
	stub.nextID++
	stub.occurrences[occurrence.ID] = occurrence
	return occurrence
}

func (stub *occurrenceStoreStub) forRoutine(routineID uint) []models.RoutineOccurrence {
	occurrences := make([]models.RoutineOccurrence, 0)
	for _, occurrence := range stub.occurrences {
		if occurrence.RoutineID == routineID {
			occurrences = append(occurrences, occurrence)
		}
	}
	sort.Slice(occurrences, func(i, j int) bool {
		return occurrences[i].ScheduledDate.Before(occurrences[j].ScheduledDate)
	})
	return occurrences
}

func (stub *occurrenceStoreStub) byDay(routineID uint, day string) (models.RoutineOccurrence, bool) {
	for _, occurrence := range stub.occurrences {
		if occurrence.RoutineID == routineID && occurrence.ScheduledDate.Format("2006-01-02") == day {
			return occurrence, true
		}
	}
	return models.RoutineOccurrence{}, false
}

func (stub *occurrenceStoreStub) ListDatesByRoutineRange(_ context.Context, coupleID uint, routineID uint, dayStart time.Time, dayEnd time.Time) ([]time.Time, error) {
	dates := make([]time.Time, 0)
	for _, occurrence := range stub.forRoutine(routineID) {
		if occurrence.CoupleID != coupleID {
			continue
		}
		if occurrence.ScheduledDate.Before(dayStart) || !occurrence.ScheduledDate.Before(dayEnd) {
			continue
		}
		dates = append(dates, occurrence.ScheduledDate)
	}
	return dates, nil
}

func (stub *occurrenceStoreStub) InsertBatch(_ context.Context, occurrences []models.RoutineOccurrence) (int64, error) {
	stub.insertCalls++
	inserted := int64(0)
	for _, occurrence := range occurrences {
		if err, ok := stub.insertErrRoutine[occurrence.RoutineID]; ok {
			return 0, err
		}
		if _, exists := stub.byDay(occurrence.RoutineID, occurrence.ScheduledDate.Format("2006-01-02")); exists {
			continue
		}
		stub.add(occurrence)
		inserted++
	}
	return inserted, nil
}

func (stub *occurrenceStoreStub) ListByRoutineRange(_ context.Context, coupleID uint, routineID uint, fromStart *time.Time, toEnd *time.Time) ([]models.RoutineOccurrence, error) {
	occurrences := make([]models.RoutineOccurrence, 0)
	for _, occurrence := range stub.forRoutine(routineID) {
		if occurrence.CoupleID != coupleID {
			continue
		}
		if fromStart != nil && occurrence.ScheduledDate.Before(*fromStart) {
			continue
		}
		if toEnd != nil && !occurrence.ScheduledDate.Before(*toEnd) {
			continue
		}
		occurrences = append(occurrences, occurrence)
	}
	return occurrences, nil
}

func (stub *occurrenceStoreStub) deleteUnskippedFrom(coupleID uint, routineID uint, fromStart time.Time) int64 {
	deleted := int64(0)
	for id, occurrence := range stub.occurrences {
		if occurrence.RoutineID != routineID || occurrence.CoupleID != coupleID {
			continue
		}
		if occurrence.ScheduledDate.Before(fromStart) || occurrence.Skipped {
			continue
		}
		delete(stub.occurrences, id)
		deleted++
	}
	return deleted
}

func (stub *occurrenceStoreStub) FindByID(_ context.Context, coupleID uint, occurrenceID uint) (models.RoutineOccurrence, error) {
	occurrence, ok := stub.occurrences[occurrenceID]
	if !ok || occurrence.CoupleID != coupleID {
		return models.RoutineOccurrence{}, gorm.ErrRecordNotFound
	}
	return occurrence, nil
}

func (stub *occurrenceStoreStub) UpdateState(_ context.Context, coupleID uint, occurrenceID uint, updates map[string]any) error {
	occurrence, ok := stub.occurrences[occurrenceID]
	if !ok || occurrence.CoupleID != coupleID {
		return gorm.ErrRecordNotFound
	}
	for key, value := range updates {
		switch key {
		case "completed_at":
			if value == nil {
				occurrence.CompletedAt = nil
			} else {
				completedAt := value.(time.Time)
				occurrence.CompletedAt = &completedAt
			}
		case "completed_by_id":
			if value == nil {
				occurrence.CompletedByID = nil
			} else {
				userID := value.(uint)
				occurrence.CompletedByID = &userID
			}
		case "skipped":
			occurrence.Skipped = value.(bool)
		}
	}
	stub.occurrences[occurrenceID] = occurrence
	return nil
}

type memberDirectoryStub struct {
	coupleByUser map[uint]uint
	err          error
}

func (stub *memberDirectoryStub) IsMember(_ context.Context, coupleID uint, userID uint) (bool, error) {
	if stub.err != nil {
		return false, stub.err
	}
	return stub.coupleByUser[userID] == coupleID, nil
}

var errStoreUnavailable = errors.New("store unavailable")
