package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/devcatalyst/intake-service/internal/metrics"
	"github.com/devcatalyst/intake-service/internal/models"
	"github.com/devcatalyst/intake-service/internal/services"
	"github.com/devcatalyst/intake-service/internal/utils"
	"github.com/devcatalyst/intake-service/internal/validator"
)

// Pinger reports backing-store health. The tabular store satisfies it.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HandlerManager struct {
	formHandler       *FormHandler
	intakeHandler     *IntakeHandler
	authHandler       *AuthHandler
	responsesHandler  *ResponsesHandler
	evaluationHandler *EvaluationHandler

	sessions services.SessionService
	metrics  *metrics.Metrics
	store    Pinger
	logger   utils.Logger
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	validator *validator.Validator,
	m *metrics.Metrics,
	store Pinger,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		formHandler:       NewFormHandler(serviceManager.Intake().Form(), logger),
		intakeHandler:     NewIntakeHandler(serviceManager.Intake(), validator, logger),
		authHandler:       NewAuthHandler(serviceManager.Session(), validator, logger),
		responsesHandler:  NewResponsesHandler(serviceManager.Aggregation(), logger),
		evaluationHandler: NewEvaluationHandler(serviceManager.Evaluation(), validator, logger),
		sessions:          serviceManager.Session(),
		metrics:           m,
		store:             store,
		logger:            logger,
	}
}

// NewRouter builds the engine with the standard middleware chain and all routes.
func (hm *HandlerManager) NewRouter() *gin.Engine {
	router := gin.New()
	router.Use(
		gin.Recovery(),
		RequestID(),
		utils.LoggerMiddleware(hm.logger),
		utils.ContextLogger(hm.logger),
		hm.metrics.Middleware(),
	)
	hm.SetupRoutes(router)
	return router
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.GET("/health", hm.HealthCheck)
	router.GET("/metrics", gin.WrapH(hm.metrics.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/form", hm.formHandler.GetForm)
		v1.POST("/submit", hm.intakeHandler.Submit)
		v1.POST("/check-roll-number", hm.intakeHandler.CheckRollNumber)

		auth := v1.Group("/auth")
		{
			auth.POST("/check", hm.authHandler.CheckDashboard)
			auth.POST("/evaluation", hm.authHandler.CheckEvaluation)
			auth.POST("/logout", hm.authHandler.Logout)
		}

		responses := v1.Group("/responses", NoStore(), RequireSession(hm.sessions, models.ScopeDashboard, hm.logger))
		{
			responses.GET("", hm.responsesHandler.ListResponses)
			responses.GET("/export", hm.responsesHandler.ExportResponses)
		}

		evaluations := v1.Group("/evaluations", RequireSession(hm.sessions, models.ScopeEvaluation, hm.logger))
		{
			evaluations.POST("", hm.evaluationHandler.RecordEvaluation)
		}
	}
}

// HealthCheck reports liveness and, when configured, store reachability.
func (hm *HandlerManager) HealthCheck(c *gin.Context) {
	status := http.StatusOK
	store := "unconfigured"
	if hm.store != nil {
		store = "ok"
		if err := hm.store.Ping(c.Request.Context()); err != nil {
			utils.GetLoggerFromContext(c, hm.logger).LogError(err, "Store health check failed")
			store = "unreachable"
			status = http.StatusServiceUnavailable
		}
	}

	c.JSON(status, gin.H{
		"status":  http.StatusText(status),
		"service": "intake-service",
		"store":   store,
	})
}
