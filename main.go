package main

import (
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/seatwiselabs/seatwise/internal/pkg/database"
	"github.com/seatwiselabs/seatwise/internal/pkg/env"
	"github.com/seatwiselabs/seatwise/internal/pkg/router"
)

func main() {
	app := NewApplication()
	err := app.Listen(fmt.Sprintf("%s:%s", env.GetEnv("APP_HOST", "localhost"), env.GetEnv("APP_PORT", "4000")))
	log.Fatal(err)
}

func NewApplication() *fiber.App {
	env.SetupEnvFile()
	database.SetupDatabase()

	app := fiber.New(fiber.Config{
		AppName: "seatwise",
	})

	app.Use(recover.New(), logger.New())

	router.InstallRouter(app)

	return app
}
