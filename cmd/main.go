package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"gorm.io/gorm"

	"github.com/ankit-karki-11/smarttest/config"
	"github.com/ankit-karki-11/smarttest/database"
	_ "github.com/ankit-karki-11/smarttest/docs" // Swagger docs - auto-generated
	adminctrl "github.com/ankit-karki-11/smarttest/internal/controller/admin"
	userctrl "github.com/ankit-karki-11/smarttest/internal/controller/user"
	"github.com/ankit-karki-11/smarttest/internal/logger"
	"github.com/ankit-karki-11/smarttest/internal/middleware"
	"github.com/ankit-karki-11/smarttest/internal/model"
	"github.com/ankit-karki-11/smarttest/internal/repository"
	"github.com/ankit-karki-11/smarttest/internal/service"
)

// @title SmartTest Attempt Engine API
// @version 1.0
// @description Timed assessment attempts with server-side deadlines, idempotent submission, AI-graded free-text answers and practice pool selection.
// @contact.name API Support
// @contact.email support@example.com
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	logger.Init()

	app := fx.New(
		fx.Provide(
			config.NewConfig,
			database.NewDatabase,
			NewGinEngine,
		),

		fx.Provide(
			repository.NewTopicRepository,
			repository.NewTestRepository,
			repository.NewQuestionRepository,
			repository.NewAttemptRepository,
			repository.NewAnswerRepository,
		),

		fx.Provide(
			service.NewQuestionSelectorService,
			service.NewGeminiGraderService,
			// The scoring engine only needs the grading half of the AI
			// collaborator.
			func(g service.GradingService) service.AnswerGrader { return g },
			service.NewScoringService,
			service.NewAttemptLocks,
			service.NewAttemptService,
			service.NewAnswerService,
			service.NewUserTestService,
			service.NewAdminService,
		),

		fx.Provide(
			userctrl.NewTestController,
			userctrl.NewAttemptController,
			adminctrl.NewAdminController,
		),

		fx.Invoke(AutoMigrateDB),
		fx.Invoke(RegisterRoutesAndStartServer),
		fx.Invoke(StartDeadlineSweeper),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to start application")
	}

	<-app.Done()
	log.Info().Msg("Application shutting down gracefully...")
}

func NewGinEngine() *gin.Engine {
	r := gin.New()

	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		log.Info().
			Str("client_ip", param.ClientIP).
			Str("method", param.Method).
			Str("path", param.Path).
			Int("status_code", param.StatusCode).
			Dur("latency", param.Latency).
			Str("error_message", param.ErrorMessage).
			Msg("gin_request")
		return ""
	}))
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

// RegisterRoutesAndStartServer configures API routes and manages the server
// lifecycle.
func RegisterRoutesAndStartServer(
	lc fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	testCtrl *userctrl.TestController,
	attemptCtrl *userctrl.AttemptController,
	adminCtrl *adminctrl.AdminController,
) {
	api := router.Group("/api/v1", middleware.RequireAuth(cfg))
	{
		api.GET("/tests", testCtrl.GetAllTests)
		api.GET("/tests/:test_id", testCtrl.GetTestDetails)
		api.GET("/tests/:test_id/my-attempts", attemptCtrl.ListMyAttempts)

		api.POST("/attempts", attemptCtrl.CreateAttempt)
		api.GET("/attempts/:attempt_id", attemptCtrl.GetAttempt)
		api.POST("/attempts/:attempt_id/answers", attemptCtrl.RecordAnswer)
		api.POST("/attempts/:attempt_id/submit", attemptCtrl.SubmitAttempt)
		api.GET("/attempts/:attempt_id/results", attemptCtrl.GetResults)
	}

	adminAPI := router.Group("/api/v1/admin", middleware.RequireAuth(cfg), middleware.RequireAdmin())
	{
		adminAPI.POST("/topics", adminCtrl.CreateTopic)
		adminAPI.GET("/topics", adminCtrl.ListTopics)
		adminAPI.POST("/topics/:topic_id/generate-questions", adminCtrl.GenerateQuestions)
		adminAPI.POST("/tests", adminCtrl.CreateTest)
		adminAPI.POST("/questions", adminCtrl.CreatePoolQuestion)
	}

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("SmartTest attempt engine starting on port %s", cfg.Server.Port)
			log.Info().Msgf("Swagger UI available at http://localhost:%s/swagger/index.html", cfg.Server.Port)
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal().Err(err).Msg("Server ListenAndServe failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Server shutting down...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	})
}

// StartDeadlineSweeper runs the overdue-attempt sweep on a fixed interval.
// The grace window is applied inside ExpireOverdue, so a freshly expired
// attempt gets a chance to arrive as a client submit first.
func StartDeadlineSweeper(lc fx.Lifecycle, attemptService service.AttemptService, cfg *config.Config) {
	interval := time.Duration(cfg.Engine.SweepIntervalSeconds) * time.Second
	stop := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ticker := time.NewTicker(interval)
			log.Info().Dur("interval", interval).Msg("Deadline sweeper started")
			go func() {
				defer ticker.Stop()
				for {
					select {
					case <-ticker.C:
						if _, err := attemptService.ExpireOverdue(); err != nil {
							log.Error().Err(err).Msg("Deadline sweep failed")
						}
					case <-stop:
						return
					}
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			close(stop)
			log.Info().Msg("Deadline sweeper stopped")
			return nil
		},
	})
}

func AutoMigrateDB(db *gorm.DB) error {
	log.Info().Msg("Running database migrations...")
	err := db.AutoMigrate(
		&model.Topic{},
		&model.Question{},
		&model.Option{},
		&model.Test{},
		&model.Attempt{},
		&model.Answer{},
	)
	if err != nil {
		log.Error().Err(err).Msg("Database migration failed")
		return err
	}
	log.Info().Msg("Database migration completed successfully.")
	return nil
}
