// handlers/routes.go
package handlers

import (
	"trash-detect-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupRoutes(app *fiber.App, userService *services.UserService, classifyService *services.ClassifyService) {
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("Welcome to the Gamified Trash Detector!")
	})

	app.Post("/register", userService.Register)
	app.Post("/classify", classifyService.Classify)
	app.Get("/leaderboard", userService.Leaderboard)
	app.Get("/health", classifyService.Health)
}
