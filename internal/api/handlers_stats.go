package api

import "github.com/gofiber/fiber/v2"

func (handler *Handler) GetRoutineStats(c *fiber.Ctx) error {
	_, coupleID, ok := requestScope(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	routineID, err := parseIDParam(c)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid routine id")
	}

	stats, err := handler.statsService.GetStats(c.UserContext(), coupleID, routineID)
	if err != nil {
		return routineAPIError(c, err)
	}
	return c.JSON(stats)
}
