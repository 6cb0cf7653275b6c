package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
)

// Schedule is persisted as a JSON blob on the routine row.
type Schedule struct {
	Frequency  Frequency `json:"frequency"`
	DaysOfWeek []int     `json:"days_of_week,omitempty"`
	DayOfMonth int       `json:"day_of_month,omitempty"`
	TimeOfDay  string    `json:"time_of_day,omitempty"`
	EndDate    string    `json:"end_date,omitempty"`
}

type Routine struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	CoupleID     uint      `gorm:"not null;index" json:"couple_id"`
	Name         string    `gorm:"not null" json:"name"`
	Description  string    `json:"description,omitempty"`
	Schedule     Schedule  `gorm:"type:text;not null" json:"schedule"`
	AssignedToID *uint     `json:"assigned_to_id"`
	IsActive     bool      `gorm:"not null" json:"is_active"`
	CreatedByID  uint      `gorm:"not null" json:"created_by_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (schedule Schedule) Value() (driver.Value, error) {
	encoded, err := json.Marshal(schedule)
	if err != nil {
		return nil, err
	}
	return string(encoded), nil
}

func (schedule *Schedule) Scan(value any) error {
	var raw []byte
	switch typed := value.(type) {
	case nil:
		*schedule = Schedule{}
		return nil
	case []byte:
		raw = typed
	case string:
		raw = []byte(typed)
	default:
		return fmt.Errorf("scan schedule: unsupported type %T", value)
	}
	return json.Unmarshal(raw, schedule)
}
