package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/terraincognita07/tandem/internal/logger"
	"github.com/terraincognita07/tandem/internal/models"
)

const (
	MaterializationWindowDays = 30
	RoutineGenerationTimeout  = 10 * time.Second
	maxRoutineNameLength      = 120
)

type RoutineStore interface {
	MaterializerRoutineReader
	ListByCouple(ctx context.Context, coupleID uint) ([]models.Routine, error)
	ListActive(ctx context.Context) ([]models.Routine, error)
	Create(ctx context.Context, routine *models.Routine) error
	UpdateByID(ctx context.Context, coupleID uint, routineID uint, updates map[string]any) error
	Reschedule(ctx context.Context, coupleID uint, routineID uint, updates map[string]any, purgeFrom time.Time, occurrences []models.RoutineOccurrence) (int64, int64, error)
	Delete(ctx context.Context, coupleID uint, routineID uint) error
}

type RoutineOccurrenceStore interface {
	MaterializerOccurrenceStore
	ListByRoutineRange(ctx context.Context, coupleID uint, routineID uint, fromStart *time.Time, toEnd *time.Time) ([]models.RoutineOccurrence, error)
}

type MemberDirectory interface {
	IsMember(ctx context.Context, coupleID uint, userID uint) (bool, error)
}

type RoutineInput struct {
	Name         string
	Description  string
	Schedule     models.Schedule
	AssignedToID *uint
}

// RoutinePatch carries only the fields being changed. ClearAssignee wins
// over AssignedToID.
type RoutinePatch struct {
	Name          *string
	Description   *string
	Schedule      *models.Schedule
	AssignedToID  *uint
	ClearAssignee bool
	IsActive      *bool
}

type GenerationResult struct {
	RoutinesProcessed    int `json:"routines_processed"`
	OccurrencesGenerated int `json:"occurrences_generated"`
	RoutinesFailed       int `json:"routines_failed"`
}

type RoutineService struct {
	routines       RoutineStore
	occurrences    RoutineOccurrenceStore
	members        MemberDirectory
	materializer   *OccurrenceMaterializer
	clock          Clock
	location       *time.Location
	routineTimeout time.Duration
}

func NewRoutineService(routines RoutineStore, occurrences RoutineOccurrenceStore, members MemberDirectory, clock Clock, location *time.Location) *RoutineService {
	if clock == nil {
		clock = SystemClock{}
	}
	if location == nil {
		location = time.UTC
	}
	return &RoutineService{
		routines:       routines,
		occurrences:    occurrences,
		members:        members,
		materializer:   NewOccurrenceMaterializer(routines, occurrences),
		clock:          clock,
		location:       location,
		routineTimeout: RoutineGenerationTimeout,
	}
}

func (service *RoutineService) Materializer() *OccurrenceMaterializer {
	return service.materializer
}

func (service *RoutineService) today() time.Time {
	return CalendarDay(service.clock.Now(), service.location)
}

func (service *RoutineService) GetRoutine(ctx context.Context, coupleID uint, routineID uint) (models.Routine, error) {
	routine, err := service.routines.FindByID(ctx, coupleID, routineID)
	if err != nil {
		if isRecordNotFound(err) {
			return models.Routine{}, ErrRoutineNotFound
		}
		return models.Routine{}, fmt.Errorf("%w: %v", ErrRoutineLoadFailed, err)
	}
	return routine, nil
}

func (service *RoutineService) ListRoutines(ctx context.Context, coupleID uint) ([]models.Routine, error) {
	routines, err := service.routines.ListByCouple(ctx, coupleID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRoutineLoadFailed, err)
	}
	return routines, nil
}

func (service *RoutineService) CreateRoutine(ctx context.Context, coupleID uint, creatorID uint, input RoutineInput) (models.Routine, error) {
	name, err := normalizeRoutineName(input.Name)
	if err != nil {
		return models.Routine{}, err
	}
	if err := ValidateSchedule(input.Schedule); err != nil {
		return models.Routine{}, err
	}
	if input.AssignedToID != nil {
		if err := service.ensureMember(ctx, coupleID, *input.AssignedToID); err != nil {
			return models.Routine{}, err
		}
	}

	routine := models.Routine{
		CoupleID:     coupleID,
		Name:         name,
		Description:  strings.TrimSpace(input.Description),
		Schedule:     NormalizeSchedule(input.Schedule),
		AssignedToID: input.AssignedToID,
		IsActive:     true,
		CreatedByID:  creatorID,
	}
	if err := service.routines.Create(ctx, &routine); err != nil {
		return models.Routine{}, fmt.Errorf("%w: %v", ErrRoutineCreateFailed, err)
	}

	if _, err := service.materializeWindow(ctx, routine, MaterializationWindowDays); err != nil {
		return routine, err
	}
	return routine, nil
}

// UpdateRoutine applies patch. A schedule in the patch purges every occurrence
// from today on that is not skipped, completed ones included, and regenerates
// the window under the new schedule. The update, purge and regeneration
// commit together or not at all.
func (service *RoutineService) UpdateRoutine(ctx context.Context, coupleID uint, routineID uint, patch RoutinePatch) (models.Routine, error) {
	current, err := service.GetRoutine(ctx, coupleID, routineID)
	if err != nil {
		return models.Routine{}, err
	}

	updates := make(map[string]any)
	if patch.Name != nil {
		name, err := normalizeRoutineName(*patch.Name)
		if err != nil {
			return models.Routine{}, err
		}
		updates["name"] = name
	}
	if patch.Description != nil {
		updates["description"] = strings.TrimSpace(*patch.Description)
	}
	if patch.ClearAssignee {
		updates["assigned_to_id"] = nil
	} else if patch.AssignedToID != nil {
		if err := service.ensureMember(ctx, coupleID, *patch.AssignedToID); err != nil {
			return models.Routine{}, err
		}
		updates["assigned_to_id"] = *patch.AssignedToID
	}
	if patch.IsActive != nil {
		updates["is_active"] = *patch.IsActive
	}
	if patch.Schedule != nil {
		if err := ValidateSchedule(*patch.Schedule); err != nil {
			return models.Routine{}, err
		}
		schedule := NormalizeSchedule(*patch.Schedule)
		updates["schedule"] = schedule
		return service.reschedule(ctx, current, updates, schedule)
	}

	if len(updates) > 0 {
		if err := service.routines.UpdateByID(ctx, coupleID, routineID, updates); err != nil {
			if isRecordNotFound(err) {
				return models.Routine{}, ErrRoutineNotFound
			}
			return models.Routine{}, fmt.Errorf("%w: %v", ErrRoutineUpdateFailed, err)
		}
	}

	updated, err := service.GetRoutine(ctx, coupleID, routineID)
	if err != nil {
		return models.Routine{}, err
	}
	if !current.IsActive && updated.IsActive {
		if _, err := service.materializeWindow(ctx, updated, MaterializationWindowDays); err != nil {
			return updated, err
		}
	}
	return updated, nil
}

func (service *RoutineService) reschedule(ctx context.Context, current models.Routine, updates map[string]any, schedule models.Schedule) (models.Routine, error) {
	today := service.today()
	active := current.IsActive
	if value, ok := updates["is_active"].(bool); ok {
		active = value
	}

	var occurrences []models.RoutineOccurrence
	if active {
		dates, err := ExpandSchedule(schedule, today, today.AddDate(0, 0, MaterializationWindowDays))
		if err != nil {
			return models.Routine{}, err
		}
		occurrences = make([]models.RoutineOccurrence, 0, len(dates))
		for _, date := range dates {
			occurrences = append(occurrences, models.RoutineOccurrence{
				RoutineID:     current.ID,
				CoupleID:      current.CoupleID,
				ScheduledDate: date,
			})
		}
	}

	purged, inserted, err := service.routines.Reschedule(ctx, current.CoupleID, current.ID, updates, today, occurrences)
	if err != nil {
		if isRecordNotFound(err) {
			return models.Routine{}, ErrRoutineNotFound
		}
		return models.Routine{}, fmt.Errorf("%w: %v", ErrRoutineUpdateFailed, err)
	}
	logger.Debug("routine rescheduled",
		"routine_id", current.ID,
		"couple_id", current.CoupleID,
		"purged", purged,
		"generated", inserted,
	)
	return service.GetRoutine(ctx, current.CoupleID, current.ID)
}

func (service *RoutineService) DeleteRoutine(ctx context.Context, coupleID uint, routineID uint) error {
	if err := service.routines.Delete(ctx, coupleID, routineID); err != nil {
		if isRecordNotFound(err) {
			return ErrRoutineNotFound
		}
		return fmt.Errorf("%w: %v", ErrRoutineDeleteFailed, err)
	}
	return nil
}

// GenerateForAllActiveRoutines extends every active routine, across couples,
// to today+windowDays. A failing routine is logged and skipped; only failing
// to list routines aborts the run.
func (service *RoutineService) GenerateForAllActiveRoutines(ctx context.Context, windowDays int) (GenerationResult, error) {
	if windowDays <= 0 {
		windowDays = MaterializationWindowDays
	}

	routines, err := service.routines.ListActive(ctx)
	if err != nil {
		return GenerationResult{}, fmt.Errorf("list active routines: %w", err)
	}

	result := GenerationResult{}
	for _, routine := range routines {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		generated, err := service.generateForRoutine(ctx, routine, windowDays)
		if err != nil {
			result.RoutinesFailed++
			logger.Warn("routine generation failed",
				"routine_id", routine.ID,
				"couple_id", routine.CoupleID,
				"err", err,
			)
			continue
		}
		result.RoutinesProcessed++
		result.OccurrencesGenerated += generated
	}
	return result, nil
}

func (service *RoutineService) generateForRoutine(ctx context.Context, routine models.Routine, windowDays int) (int, error) {
	routineCtx, cancel := context.WithTimeout(ctx, service.routineTimeout)
	defer cancel()
	return service.materializeWindow(routineCtx, routine, windowDays)
}

func (service *RoutineService) materializeWindow(ctx context.Context, routine models.Routine, windowDays int) (int, error) {
	start := service.today()
	end := start.AddDate(0, 0, windowDays)
	return service.materializer.MaterializeRoutine(ctx, routine, start, end)
}

func (service *RoutineService) ensureMember(ctx context.Context, coupleID uint, userID uint) error {
	member, err := service.members.IsMember(ctx, coupleID, userID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMemberLookupFailed, err)
	}
	if !member {
		return ErrAssigneeNotMember
	}
	return nil
}

func normalizeRoutineName(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" || len([]rune(name)) > maxRoutineNameLength {
		return "", ErrInvalidRoutineName
	}
	return name, nil
}
