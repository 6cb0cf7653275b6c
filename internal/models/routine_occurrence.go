package models

import "time"

const (
	OccurrencePending   = "pending"
	OccurrenceCompleted = "completed"
	OccurrenceSkipped   = "skipped"
)

type RoutineOccurrence struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	RoutineID     uint       `gorm:"not null;uniqueIndex:uidx_routine_date" json:"routine_id"`
	CoupleID      uint       `gorm:"not null;index" json:"couple_id"`
	ScheduledDate time.Time  `gorm:"type:date;not null;uniqueIndex:uidx_routine_date" json:"scheduled_date"`
	CompletedAt   *time.Time `json:"completed_at"`
	CompletedByID *uint      `json:"completed_by_id"`
	Skipped       bool       `gorm:"not null;default:false" json:"skipped"`
	CreatedAt     time.Time  `json:"created_at"`
}

func (occurrence RoutineOccurrence) Status() string {
	switch {
	case occurrence.CompletedAt != nil:
		return OccurrenceCompleted
	case occurrence.Skipped:
		return OccurrenceSkipped
	default:
		return OccurrencePending
	}
}
