package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/tandem/internal/logger"
	"github.com/terraincognita07/tandem/internal/services"
)

func routineAPIError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrRoutineNotFound):
		return apiError(c, fiber.StatusNotFound, "routine not found")
	case errors.Is(err, services.ErrOccurrenceNotFound):
		return apiError(c, fiber.StatusNotFound, "occurrence not found")
	case errors.Is(err, services.ErrInvalidSchedule):
		return apiError(c, fiber.StatusBadRequest, "invalid schedule")
	case errors.Is(err, services.ErrInvalidRoutineName):
		return apiError(c, fiber.StatusBadRequest, "invalid routine name")
	case errors.Is(err, services.ErrAssigneeNotMember):
		return apiError(c, fiber.StatusBadRequest, "assignee is not a member of this couple")
	}

	logger.Error("request failed", "method", c.Method(), "path", c.Path(), "err", err)
	switch {
	case errors.Is(err, services.ErrMaterializeFailed):
		return apiError(c, fiber.StatusInternalServerError, "failed to generate occurrences")
	case errors.Is(err, services.ErrRoutineCreateFailed):
		return apiError(c, fiber.StatusInternalServerError, "failed to create routine")
	case errors.Is(err, services.ErrRoutineUpdateFailed):
		return apiError(c, fiber.StatusInternalServerError, "failed to update routine")
	case errors.Is(err, services.ErrRoutineDeleteFailed):
		return apiError(c, fiber.StatusInternalServerError, "failed to delete routine")
	case errors.Is(err, services.ErrOccurrenceUpdateFailed):
		return apiError(c, fiber.StatusInternalServerError, "failed to update occurrence")
	case errors.Is(err, services.ErrOccurrenceLoadFailed):
		return apiError(c, fiber.StatusInternalServerError, "failed to load occurrences")
	default:
		return apiError(c, fiber.StatusInternalServerError, "failed to load routine")
	}
}
