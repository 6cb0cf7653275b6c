package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

func (handler *Handler) ListRoutines(c *fiber.Ctx) error {
	_, coupleID, ok := requestScope(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	routines, err := handler.routineService.ListRoutines(c.UserContext(), coupleID)
	if err != nil {
		return routineAPIError(c, err)
	}
	return c.JSON(routines)
}

func (handler *Handler) GetRoutine(c *fiber.Ctx) error {
	_, coupleID, ok := requestScope(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	routineID, err := parseIDParam(c)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid routine id")
	}

	routine, err := handler.routineService.GetRoutine(c.UserContext(), coupleID, routineID)
	if err != nil {
		return routineAPIError(c, err)
	}
	return c.JSON(routine)
}

func (handler *Handler) CreateRoutine(c *fiber.Ctx) error {
	member, coupleID, ok := requestScope(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	input, err := parseRoutinePayload(c)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid payload")
	}

	routine, err := handler.routineService.CreateRoutine(c.UserContext(), coupleID, member.ID, input)
	if err != nil {
		return routineAPIError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(routine)
}

func (handler *Handler) UpdateRoutine(c *fiber.Ctx) error {
	_, coupleID, ok := requestScope(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	routineID, err := parseIDParam(c)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid routine id")
	}

	patch, err := parseRoutinePatch(c.Body())
	if err != nil {
		if errors.Is(err, errEmptyPatch) {
			return apiError(c, fiber.StatusBadRequest, "nothing to update")
		}
		return apiError(c, fiber.StatusBadRequest, "invalid payload")
	}

	routine, err := handler.routineService.UpdateRoutine(c.UserContext(), coupleID, routineID, patch)
	if err != nil {
		return routineAPIError(c, err)
	}
	return c.JSON(routine)
}

func (handler *Handler) DeleteRoutine(c *fiber.Ctx) error {
	_, coupleID, ok := requestScope(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	routineID, err := parseIDParam(c)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid routine id")
	}

	if err := handler.routineService.DeleteRoutine(c.UserContext(), coupleID, routineID); err != nil {
		return routineAPIError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
