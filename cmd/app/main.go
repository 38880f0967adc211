package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"fitfunnel/cmd/fx/analysis_fx"
	"fitfunnel/cmd/fx/config_fx"
	"fitfunnel/cmd/fx/controllers_fx"
	"fitfunnel/cmd/fx/db_fx"
	"fitfunnel/cmd/fx/logger_fx"
	"fitfunnel/cmd/fx/mail_fx"
	"fitfunnel/cmd/fx/memcache_fx"
	"fitfunnel/cmd/fx/quiz_fx"
	"fitfunnel/internal/api/controllers"
	"fitfunnel/internal/config"
	"fitfunnel/pkg/middleware"
)

func main() {
	app := fx.New(
		fx.WithLogger(func(logger *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: logger.Named("fx")}
		}),
		config_fx.Module,
		logger_fx.Module,
		memcache_fx.Module,
		db_fx.Module,
		analysis_fx.Module,
		mail_fx.Module,
		quiz_fx.Module,
		controllers_fx.Module,

		fx.Provide(ProvideRouter),
		fx.Invoke(StartServer),
	)

	app.Run()
}

func StartServer(lc fx.Lifecycle, cfg config.Config, engine *gin.Engine, logger *zap.Logger) {
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				logger.Info("starting HTTP server", zap.String("addr", srv.Addr))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Fatal("HTTP server failed", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("stopping HTTP server")
			return srv.Shutdown(ctx)
		},
	})
}

type Controllers struct {
	fx.In

	Quiz     *controllers.QuizController
	Analysis *controllers.AnalysisController
	Metrics  *controllers.MetricsController
	Plans    *controllers.PlansController
	Snapshot *controllers.SnapshotController
	Health   *controllers.HealthController
}

func ProvideRouter(cfg config.Config, logger *zap.Logger, ctrl Controllers) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.TraceIDMiddleware())
	r.Use(middleware.ZapLogger(logger.Named("http")))
	r.Use(middleware.CORSMiddleware(cfg.CORSOrigins))

	RegisterRoutes(r, ctrl)

	return r
}

func RegisterRoutes(r *gin.Engine, ctrl Controllers) {
	r.GET("/health", ctrl.Health.Health)

	api := r.Group("/api")
	api.POST("/analysis", ctrl.Analysis.Analyze)
	api.POST("/metrics", ctrl.Metrics.Calculate)
	api.GET("/plans", ctrl.Plans.ListPlans)
	api.GET("/plans/:id", ctrl.Plans.GetPlan)
	api.GET("/clients/:clientId/snapshot", ctrl.Snapshot.GetSnapshot)

	quizGroup := api.Group("/quiz")
	quizGroup.GET("/questions", ctrl.Quiz.GetQuestions)
	quizGroup.POST("/start", ctrl.Quiz.StartQuiz)
	quizGroup.GET("/:id", ctrl.Quiz.GetState)
	quizGroup.DELETE("/:id", ctrl.Quiz.Exit)
	quizGroup.POST("/:id/answer", ctrl.Quiz.AnswerQuestion)
	quizGroup.POST("/:id/toggle", ctrl.Quiz.ToggleOption)
	quizGroup.POST("/:id/next", ctrl.Quiz.Next)
	quizGroup.POST("/:id/prev", ctrl.Quiz.Prev)
	quizGroup.POST("/:id/goto", ctrl.Quiz.GoTo)
	quizGroup.POST("/:id/discount/ack", ctrl.Quiz.AcknowledgeDiscount)
	quizGroup.POST("/:id/restart", ctrl.Quiz.Restart)
}
