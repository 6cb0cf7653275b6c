package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/terraincognita07/tandem/internal/models"
)

type RoutineStats struct {
	Total           int        `json:"total"`
	Completed       int        `json:"completed"`
	Skipped         int        `json:"skipped"`
	CompletionRate  int        `json:"completion_rate"`
	CurrentStreak   int        `json:"current_streak"`
	LongestStreak   int        `json:"longest_streak"`
	LastCompletedAt *time.Time `json:"last_completed_at,omitempty"`
}

// ComputeRoutineStats derives counters and streaks from a routine's full
// occurrence history. Streaks only look at occurrences scheduled on or before
// the calendar day of today: a completed one extends the streak, a skipped one is passed over, and a
// pending one ends it.
func ComputeRoutineStats(occurrences []models.RoutineOccurrence, today time.Time) RoutineStats {
	today = DateOnly(today)
	stats := RoutineStats{Total: len(occurrences)}
	past := make([]models.RoutineOccurrence, 0, len(occurrences))
	for _, occurrence := range occurrences {
		if occurrence.CompletedAt != nil {
			stats.Completed++
			if stats.LastCompletedAt == nil || occurrence.CompletedAt.After(*stats.LastCompletedAt) {
				completedAt := *occurrence.CompletedAt
				stats.LastCompletedAt = &completedAt
			}
		}
		if occurrence.Skipped {
			stats.Skipped++
		}
		if !DateOnly(occurrence.ScheduledDate).After(today) {
			past = append(past, occurrence)
		}
	}

	if stats.Total > 0 {
		stats.CompletionRate = int(math.Round(100 * float64(stats.Completed) / float64(stats.Total)))
	}

	sort.SliceStable(past, func(i, j int) bool {
		if past[i].ScheduledDate.Equal(past[j].ScheduledDate) {
			return past[i].ID > past[j].ID
		}
		return past[i].ScheduledDate.After(past[j].ScheduledDate)
	})
	stats.CurrentStreak = currentStreak(past)
	stats.LongestStreak = longestStreak(past)
	return stats
}

// currentStreak expects occurrences newest first.
func currentStreak(occurrences []models.RoutineOccurrence) int {
	streak := 0
	for _, occurrence := range occurrences {
		switch occurrence.Status() {
		case models.OccurrenceCompleted:
			streak++
		case models.OccurrenceSkipped:
			continue
		default:
			return streak
		}
	}
	return streak
}

// longestStreak expects occurrences newest first.
func longestStreak(occurrences []models.RoutineOccurrence) int {
	longest := 0
	run := 0
	for _, occurrence := range occurrences {
		switch occurrence.Status() {
		case models.OccurrenceCompleted:
			run++
			if run > longest {
				longest = run
			}
		case models.OccurrenceSkipped:
		default:
			run = 0
		}
	}
	return longest
}

type StatsRoutineReader interface {
	FindByID(ctx context.Context, coupleID uint, routineID uint) (models.Routine, error)
}

type StatsOccurrenceReader interface {
	ListByRoutineRange(ctx context.Context, coupleID uint, routineID uint, fromStart *time.Time, toEnd *time.Time) ([]models.RoutineOccurrence, error)
}

type RoutineStatsService struct {
	routines    StatsRoutineReader
	occurrences StatsOccurrenceReader
	clock       Clock
	location    *time.Location
}

func NewRoutineStatsService(routines StatsRoutineReader, occurrences StatsOccurrenceReader, clock Clock, location *time.Location) *RoutineStatsService {
	if clock == nil {
		clock = SystemClock{}
	}
	if location == nil {
		location = time.UTC
	}
	return &RoutineStatsService{
		routines:    routines,
		occurrences: occurrences,
		clock:       clock,
		location:    location,
	}
}

func (service *RoutineStatsService) GetStats(ctx context.Context, coupleID uint, routineID uint) (RoutineStats, error) {
	if _, err := service.routines.FindByID(ctx, coupleID, routineID); err != nil {
		if isRecordNotFound(err) {
			return RoutineStats{}, ErrRoutineNotFound
		}
		return RoutineStats{}, fmt.Errorf("%w: %v", ErrRoutineLoadFailed, err)
	}

	occurrences, err := service.occurrences.ListByRoutineRange(ctx, coupleID, routineID, nil, nil)
	if err != nil {
		return RoutineStats{}, fmt.Errorf("%w: %v", ErrOccurrenceLoadFailed, err)
	}
	return ComputeRoutineStats(occurrences, CalendarDay(service.clock.Now(), service.location)), nil
}
