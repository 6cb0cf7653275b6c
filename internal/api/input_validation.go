package api

import (
	"bytes"
	"encoding/json"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/tandem/internal/models"
	"github.com/terraincognita07/tandem/internal/services"
)

var (
	errInvalidID      = errors.New("invalid id")
	errInvalidPayload = errors.New("invalid payload")
	errEmptyPatch     = errors.New("empty patch")
)

var jsonNull = []byte("null")

func parseRoutinePayload(c *fiber.Ctx) (services.RoutineInput, error) {
	payload := routinePayload{}
	if err := c.BodyParser(&payload); err != nil {
		return services.RoutineInput{}, errInvalidPayload
	}
	return services.RoutineInput{
		Name:         payload.Name,
		Description:  payload.Description,
		Schedule:     payload.Schedule,
		AssignedToID: payload.AssignedToID,
	}, nil
}

func parseRoutinePatch(body []byte) (services.RoutinePatch, error) {
	payload := routinePatchPayload{}
	if err := json.Unmarshal(body, &payload); err != nil {
		return services.RoutinePatch{}, errInvalidPayload
	}

	patch := services.RoutinePatch{}
	touched := false

	if present(payload.Name) {
		var name string
		if err := json.Unmarshal(payload.Name, &name); err != nil {
			return services.RoutinePatch{}, errInvalidPayload
		}
		patch.Name = &name
		touched = true
	}
	if payload.Description != nil {
		description := ""
		if present(payload.Description) {
			if err := json.Unmarshal(payload.Description, &description); err != nil {
				return services.RoutinePatch{}, errInvalidPayload
			}
		}
		patch.Description = &description
		touched = true
	}
	if present(payload.Schedule) {
		var schedule models.Schedule
		if err := json.Unmarshal(payload.Schedule, &schedule); err != nil {
			return services.RoutinePatch{}, errInvalidPayload
		}
		patch.Schedule = &schedule
		touched = true
	}
	if payload.AssignedToID != nil {
		if present(payload.AssignedToID) {
			var assignee uint
			if err := json.Unmarshal(payload.AssignedToID, &assignee); err != nil || assignee == 0 {
				return services.RoutinePatch{}, errInvalidPayload
			}
			patch.AssignedToID = &assignee
		} else {
			patch.ClearAssignee = true
		}
		touched = true
	}
	if present(payload.IsActive) {
		var active bool
		if err := json.Unmarshal(payload.IsActive, &active); err != nil {
			return services.RoutinePatch{}, errInvalidPayload
		}
		patch.IsActive = &active
		touched = true
	}

	if !touched {
		return services.RoutinePatch{}, errEmptyPatch
	}
	return patch, nil
}

// present reports whether a key was sent with a non-null value.
func present(raw json.RawMessage) bool {
	return raw != nil && !bytes.Equal(bytes.TrimSpace(raw), jsonNull)
}
