package main

import (
	"github.com/gin-gonic/gin"
	"github.com/oguzatay/project-tracker-api/internal/config"
	"github.com/oguzatay/project-tracker-api/internal/database"
	"github.com/oguzatay/project-tracker-api/internal/handlers"
	"github.com/oguzatay/project-tracker-api/internal/logger"
	"github.com/oguzatay/project-tracker-api/internal/middleware"
	"github.com/oguzatay/project-tracker-api/internal/repository"
	"github.com/oguzatay/project-tracker-api/internal/services"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set up logging and Gin mode
	logger.Init(cfg.GinMode)
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}
	if err := database.AddIndexes(database.GetDB()); err != nil {
		log.Fatal().Err(err).Msg("failed to add indexes")
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(database.GetDB())
	projectRepo := repository.NewProjectRepository(database.GetDB())
	taskRepo := repository.NewTaskRepository(database.GetDB())

	// Initialize services
	authService := services.NewAuthService(userRepo)
	projectService := services.NewProjectService(projectRepo, userRepo)
	taskService := services.NewTaskService(taskRepo, projectRepo)
	profileService := services.NewProfileService(projectRepo, taskRepo)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, cfg)
	projectHandler := handlers.NewProjectHandler(projectService)
	taskHandler := handlers.NewTaskHandler(taskService)
	profileHandler := handlers.NewProfileHandler(profileService)

	// Initialize Gin router
	r := gin.Default()

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Project Tracker API is running",
		})
	})

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
		}

		// Profile routes (protected)
		users := api.Group("/users")
		users.Use(middleware.RequireAuth(cfg))
		{
			users.GET("/me", authHandler.GetCurrentUser)
			users.PUT("/me", authHandler.UpdateProfile)
			users.PUT("/me/password", authHandler.ChangePassword)
			users.GET("/me/stats", profileHandler.GetStats)
			users.GET("/me/activity", profileHandler.GetActivity)
		}

		// Project routes (protected)
		projects := api.Group("/projects")
		projects.Use(middleware.RequireAuth(cfg))
		{
			projects.POST("", projectHandler.CreateProject)
			projects.GET("", projectHandler.ListProjects)
			projects.GET("/:id", projectHandler.GetProject)
			projects.PUT("/:id", projectHandler.UpdateProject)
			projects.PUT("/:id/archive", projectHandler.ArchiveProject)
			projects.POST("/:id/members", projectHandler.AddMember)
			projects.DELETE("/:id/members", projectHandler.RemoveMember)
			projects.DELETE("/:id", projectHandler.DeleteProject)
		}

		// Task routes (protected)
		tasks := api.Group("/tasks")
		tasks.Use(middleware.RequireAuth(cfg))
		{
			tasks.GET("", taskHandler.ListTasks)
			tasks.POST("", taskHandler.CreateTask)
			tasks.GET("/:id", taskHandler.GetTask)
			tasks.PATCH("/:id", taskHandler.UpdateTask)
			tasks.DELETE("/:id", taskHandler.DeleteTask)
			tasks.POST("/:id/assign", taskHandler.AssignTask)
			tasks.POST("/:id/unassign", taskHandler.UnassignTask)
		}
	}

	// Start server
	log.Info().Str("port", cfg.Port).Msg("server starting")
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("failed to start server")
	}
}
