package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/tandem/internal/logger"
)

func (handler *Handler) AuthRequired(c *fiber.Ctx) error {
	member, coupleID, err := handler.authenticateRequest(c)
	if err != nil {
		logger.Debug("request rejected", "path", c.Path(), "reason", err)
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	c.Locals(contextMemberKey, member)
	c.Locals(contextCoupleKey, coupleID)
	return c.Next()
}
