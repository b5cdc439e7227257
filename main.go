package main

import (
	"udoy/config"
	"udoy/database"
	authRoutes "udoy/routers/authRoutes"
	courseRoutes "udoy/routers/courseRoutes"
	creditRoutes "udoy/routers/creditRoutes"
	dashboardRoutes "udoy/routers/dashboardRoutes"
	enrollmentRoutes "udoy/routers/enrollmentRoutes"
	notificationRoutes "udoy/routers/notificationRoutes"
	userProfileRoutes "udoy/routers/userRoutes"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"log"
)

func main() {
	config.LoadConfig()

	db, err := database.Connect(config.AppConfig)
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}

	if err := database.EnsureSeedAdmin(db, config.AppConfig); err != nil {
		log.Fatalf("Seeding admin account failed: %v", err)
	}

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE",        // Allowed HTTP methods
		AllowHeaders: "Content-Type,Authorization", // Allowed headers
	}))

	// Enable the built-in logger middleware to log all requests
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	authRoutes.SetupAuthRoutes(app, db)
	userProfileRoutes.SetupUserRoutes(app, db)
	courseRoutes.SetupCourseRoutes(app, db)
	enrollmentRoutes.SetupEnrollmentRoutes(app, db)
	creditRoutes.SetupCreditRoutes(app, db)
	notificationRoutes.SetupNotificationRoutes(app, db)
	dashboardRoutes.SetupDashboardRoutes(app, db)

	log.Printf("Server is running on port %s", config.AppConfig.Port)
	log.Fatal(app.Listen(":" + config.AppConfig.Port))
}
