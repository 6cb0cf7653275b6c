package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/terraincognita07/tandem/internal/models"
)

const timeOfDayLayout = "15:04"

// ScheduleRule is the resolved form of a models.Schedule. The only
// implementations are DailyRule, WeeklyRule and MonthlyRule.
type ScheduleRule interface {
	Matches(day time.Time) bool
	isScheduleRule()
}

type DailyRule struct{}

type WeeklyRule struct {
	Days [7]bool
}

type MonthlyRule struct {
	Day int
}

func (DailyRule) Matches(time.Time) bool { return true }

func (rule WeeklyRule) Matches(day time.Time) bool {
	return rule.Days[day.Weekday()]
}

// A month without rule.Day produces nothing; there is no clamping to month end.
func (rule MonthlyRule) Matches(day time.Time) bool {
	return day.Day() == rule.Day
}

func (DailyRule) isScheduleRule()   {}
func (WeeklyRule) isScheduleRule()  {}
func (MonthlyRule) isScheduleRule() {}

func ResolveScheduleRule(schedule models.Schedule) (ScheduleRule, error) {
	switch models.Frequency(strings.ToLower(strings.TrimSpace(string(schedule.Frequency)))) {
	case models.FrequencyDaily:
		return DailyRule{}, nil
	case models.FrequencyWeekly:
		rule := WeeklyRule{}
		for _, weekday := range schedule.DaysOfWeek {
			if weekday < 0 || weekday > 6 {
				return nil, fmt.Errorf("%w: weekday %d out of range 0-6", ErrInvalidSchedule, weekday)
			}
			rule.Days[weekday] = true
		}
		return rule, nil
	case models.FrequencyMonthly:
		if schedule.DayOfMonth < 1 || schedule.DayOfMonth > 31 {
			return nil, fmt.Errorf("%w: day of month %d out of range 1-31", ErrInvalidSchedule, schedule.DayOfMonth)
		}
		return MonthlyRule{Day: schedule.DayOfMonth}, nil
	default:
		return nil, fmt.Errorf("%w: unknown frequency %q", ErrInvalidSchedule, schedule.Frequency)
	}
}

// ValidateSchedule is the boundary check applied before a schedule is stored.
func ValidateSchedule(schedule models.Schedule) error {
	rule, err := ResolveScheduleRule(schedule)
	if err != nil {
		return err
	}
	if _, weekly := rule.(WeeklyRule); weekly && len(schedule.DaysOfWeek) == 0 {
		return fmt.Errorf("%w: weekly schedule needs at least one weekday", ErrInvalidSchedule)
	}
	if raw := strings.TrimSpace(schedule.TimeOfDay); raw != "" {
		if _, err := time.Parse(timeOfDayLayout, raw); err != nil {
			return fmt.Errorf("%w: time of day %q is not HH:MM", ErrInvalidSchedule, raw)
		}
	}
	if raw := strings.TrimSpace(schedule.EndDate); raw != "" {
		if _, err := time.Parse(dayKeyLayout, raw); err != nil {
			return fmt.Errorf("%w: end date %q is not YYYY-MM-DD", ErrInvalidSchedule, raw)
		}
	}
	return nil
}

// NormalizeSchedule lower-cases the frequency and drops fields the frequency
// does not use, so the stored blob only carries what the rule reads.
func NormalizeSchedule(schedule models.Schedule) models.Schedule {
	normalized := models.Schedule{
		Frequency: models.Frequency(strings.ToLower(strings.TrimSpace(string(schedule.Frequency)))),
		TimeOfDay: strings.TrimSpace(schedule.TimeOfDay),
		EndDate:   strings.TrimSpace(schedule.EndDate),
	}
	switch normalized.Frequency {
	case models.FrequencyWeekly:
		seen := [7]bool{}
		for _, weekday := range schedule.DaysOfWeek {
			if weekday >= 0 && weekday <= 6 {
				seen[weekday] = true
			}
		}
		normalized.DaysOfWeek = sortedWeekdays(seen)
	case models.FrequencyMonthly:
		normalized.DayOfMonth = schedule.DayOfMonth
	}
	return normalized
}

func sortedWeekdays(set [7]bool) []int {
	days := make([]int, 0, 7)
	for weekday, present := range set {
		if present {
			days = append(days, weekday)
		}
	}
	return days
}

// ExpandSchedule lists every calendar day in [start, end] (both inclusive) on
// which the schedule occurs. start and end are read by their wall-clock date
// and the result is date-only.
func ExpandSchedule(schedule models.Schedule, start time.Time, end time.Time) ([]time.Time, error) {
	rule, err := ResolveScheduleRule(schedule)
	if err != nil {
		return nil, err
	}

	first := DateOnly(start)
	last := DateOnly(end)
	if raw := strings.TrimSpace(schedule.EndDate); raw != "" {
		endDate, err := time.ParseInLocation(dayKeyLayout, raw, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("%w: end date %q is not YYYY-MM-DD", ErrInvalidSchedule, raw)
		}
		if endDate.Before(last) {
			last = endDate
		}
	}

	dates := make([]time.Time, 0)
	for cursor := first; !cursor.After(last); cursor = cursor.AddDate(0, 0, 1) {
		if rule.Matches(cursor) {
			dates = append(dates, cursor)
		}
	}
	return dates, nil
}
