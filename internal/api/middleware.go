package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/tandem/internal/models"
)

const (
	authCookieName   = "tandem_auth"
	contextMemberKey = "current_member"
	contextCoupleKey = "current_couple"
)

func currentMember(c *fiber.Ctx) (*models.User, bool) {
	member, ok := c.Locals(contextMemberKey).(*models.User)
	return member, ok
}

func currentCoupleID(c *fiber.Ctx) (uint, bool) {
	coupleID, ok := c.Locals(contextCoupleKey).(uint)
	return coupleID, ok && coupleID != 0
}

// requestScope returns the authenticated member and couple, or false when
// AuthRequired did not run.
func requestScope(c *fiber.Ctx) (*models.User, uint, bool) {
	member, ok := currentMember(c)
	if !ok {
		return nil, 0, false
	}
	coupleID, ok := currentCoupleID(c)
	if !ok {
		return nil, 0, false
	}
	return member, coupleID, true
}
