package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"skillpath/backend/config"
	"skillpath/backend/controllers"
	"skillpath/backend/middleware"
	"skillpath/backend/services"
	"skillpath/backend/store"
)

// SetupRoutes wires services and controllers onto the app.
func SetupRoutes(app *fiber.App, db *gorm.DB, st store.Store, cfg *config.Config, clock services.Clock) {
	progressSvc := services.NewProgressService(st, clock)
	gamificationSvc := services.NewGamificationService(st, clock)
	enrollmentSvc := services.NewEnrollmentService(st, gamificationSvc, clock)

	// Auth routes
	authController := controllers.NewAuthController(db, cfg)
	app.Post("/api/auth/register", authController.Register)
	app.Post("/api/auth/login", authController.Login)

	authMiddleware := middleware.AuthMiddleware(cfg)

	// Progress routes
	progressController := controllers.NewProgressController(progressSvc)
	progress := app.Group("/api/progress", authMiddleware)
	progress.Get("/:courseId", progressController.GetProgress)
	progress.Post("/:courseId/complete", progressController.MarkCompleted)
	progress.Post("/:courseId/visit", progressController.RecordVisit)
	progress.Post("/:courseId/modules", progressController.ModuleBreakdown)

	// Gamification routes
	gamificationController := controllers.NewGamificationController(gamificationSvc, st)
	gamification := app.Group("/api/gamification", authMiddleware)
	gamification.Get("/", gamificationController.GetProfile)
	gamification.Get("/levels", gamificationController.GetLevels)
	gamification.Get("/watch", gamificationController.Watch)
	gamification.Post("/xp", gamificationController.AwardXP)
	gamification.Post("/streak", gamificationController.UpdateStreak)
	gamification.Post("/achievements", gamificationController.UnlockAchievement)
	gamification.Post("/study-time", gamificationController.AddStudyTime)

	// Enrollment routes
	enrollmentController := controllers.NewEnrollmentController(enrollmentSvc)
	enrollments := app.Group("/api/enrollments", authMiddleware)
	enrollments.Post("/live-classes", enrollmentController.Enroll)
	enrollments.Get("/live-classes", enrollmentController.Status)
}
