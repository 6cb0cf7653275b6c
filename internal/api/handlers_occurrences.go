package api

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/tandem/internal/models"
)

func (handler *Handler) GetOccurrences(c *fiber.Ctx) error {
	_, coupleID, ok := requestScope(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	routineID, err := parseIDParam(c)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid routine id")
	}

	from, err := parseOptionalDay(c.Query("from"))
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid from date")
	}
	to, err := parseOptionalDay(c.Query("to"))
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid to date")
	}
	if from != nil && to != nil && to.Before(*from) {
		return apiError(c, fiber.StatusBadRequest, "invalid range")
	}

	occurrences, err := handler.occurrenceService.GetOccurrences(c.UserContext(), coupleID, routineID, from, to)
	if err != nil {
		return routineAPIError(c, err)
	}
	return c.JSON(newOccurrenceViews(occurrences))
}

func (handler *Handler) CompleteOccurrence(c *fiber.Ctx) error {
	return handler.transitionOccurrence(c, func(ctx context.Context, coupleID uint, occurrenceID uint, member *models.User) (models.RoutineOccurrence, error) {
		return handler.occurrenceService.CompleteOccurrence(ctx, coupleID, occurrenceID, member.ID)
	})
}

func (handler *Handler) UncompleteOccurrence(c *fiber.Ctx) error {
	return handler.transitionOccurrence(c, func(ctx context.Context, coupleID uint, occurrenceID uint, _ *models.User) (models.RoutineOccurrence, error) {
		return handler.occurrenceService.UncompleteOccurrence(ctx, coupleID, occurrenceID)
	})
}

func (handler *Handler) SkipOccurrence(c *fiber.Ctx) error {
	return handler.transitionOccurrence(c, func(ctx context.Context, coupleID uint, occurrenceID uint, _ *models.User) (models.RoutineOccurrence, error) {
		return handler.occurrenceService.SkipOccurrence(ctx, coupleID, occurrenceID)
	})
}

type occurrenceTransition func(ctx context.Context, coupleID uint, occurrenceID uint, member *models.User) (models.RoutineOccurrence, error)

func (handler *Handler) transitionOccurrence(c *fiber.Ctx, apply occurrenceTransition) error {
	member, coupleID, ok := requestScope(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	occurrenceID, err := parseIDParam(c)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid occurrence id")
	}

	occurrence, err := apply(c.UserContext(), coupleID, occurrenceID, member)
	if err != nil {
		return routineAPIError(c, err)
	}
	return c.JSON(newOccurrenceView(occurrence))
}
