package api

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(app *fiber.App, handler *Handler) {
	app.Get("/healthz", handler.Health)
	app.Get("/favicon.ico", sendNoContent)
	registerAPIRoutes(app, handler)
	app.Use(handler.NotFound)
}

func registerAPIRoutes(app *fiber.App, handler *Handler) {
	api := app.Group("/api", handler.AuthRequired)

	routines := api.Group("/routines")
	routines.Get("", handler.ListRoutines)
	routines.Post("", handler.CreateRoutine)
	routines.Get("/:id", handler.GetRoutine)
	routines.Patch("/:id", handler.UpdateRoutine)
	routines.Delete("/:id", handler.DeleteRoutine)
	routines.Get("/:id/occurrences", handler.GetOccurrences)
	routines.Get("/:id/stats", handler.GetRoutineStats)

	occurrences := api.Group("/occurrences")
	occurrences.Post("/:id/complete", handler.CompleteOccurrence)
	occurrences.Post("/:id/uncomplete", handler.UncompleteOccurrence)
	occurrences.Post("/:id/skip", handler.SkipOccurrence)
}

func sendNoContent(c *fiber.Ctx) error {
	return c.SendStatus(fiber.StatusNoContent)
}
