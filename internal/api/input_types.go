package api

import (
	"encoding/json"

	"github.com/terraincognita07/tandem/internal/models"
)

type routinePayload struct {
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Schedule     models.Schedule `json:"schedule"`
	AssignedToID *uint           `json:"assigned_to_id"`
}

// routinePatchPayload keeps raw fields so an explicit null can be told apart
// from a missing key.
type routinePatchPayload struct {
	Name         json.RawMessage `json:"name"`
	Description  json.RawMessage `json:"description"`
	Schedule     json.RawMessage `json:"schedule"`
	AssignedToID json.RawMessage `json:"assigned_to_id"`
	IsActive     json.RawMessage `json:"is_active"`
}

type occurrenceView struct {
	models.RoutineOccurrence
	Status string `json:"status"`
}

func newOccurrenceView(occurrence models.RoutineOccurrence) occurrenceView {
	return occurrenceView{RoutineOccurrence: occurrence, Status: occurrence.Status()}
}

func newOccurrenceViews(occurrences []models.RoutineOccurrence) []occurrenceView {
	views := make([]occurrenceView, 0, len(occurrences))
	for _, occurrence := range occurrences {
		views = append(views, newOccurrenceView(occurrence))
	}
	return views
}
