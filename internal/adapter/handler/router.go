package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"

	httpmw "github.com/tuandm-dev/meeting-scribe/internal/infrastructure/http/middleware"
	"github.com/tuandm-dev/meeting-scribe/pkg/config"
	"github.com/tuandm-dev/meeting-scribe/pkg/jwt"
)

// Router holds all handlers
type Router struct {
	cfg               *config.Config
	jwtManager        *jwt.Manager
	authHandler       *Auth
	meetingHandler    *Meeting
	actionItemHandler *ActionItem
	summarizeHandler  *Summarize
	webhookHandler    *Webhook
}

// NewRouter creates a new router with all handlers
func NewRouter(
	cfg *config.Config,
	jwtManager *jwt.Manager,
	authHandler *Auth,
	meetingHandler *Meeting,
	actionItemHandler *ActionItem,
	summarizeHandler *Summarize,
	webhookHandler *Webhook,
) *Router {
	return &Router{
		cfg:               cfg,
		jwtManager:        jwtManager,
		authHandler:       authHandler,
		meetingHandler:    meetingHandler,
		actionItemHandler: actionItemHandler,
		summarizeHandler:  summarizeHandler,
		webhookHandler:    webhookHandler,
	}
}

// Setup configures all application routes
func (rt *Router) Setup(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", rt.healthCheck)

	// Prometheus metrics
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Swagger UI stays off in production
	if !rt.cfg.IsProduction() {
		e.GET("/swagger/*", echoSwagger.WrapHandler)
	}

	// API v1 group
	v1 := e.Group("/v1")

	// Public routes
	rt.setupAuthRoutes(v1)
	rt.setupWebhookRoutes(v1)

	// Everything below requires a valid access token
	protected := v1.Group("", httpmw.EchoAuth(rt.jwtManager))
	rt.setupMeetingRoutes(protected)
	rt.setupActionItemRoutes(protected)
	rt.setupSummarizeRoutes(protected)
}

// setupAuthRoutes configures authentication routes
func (rt *Router) setupAuthRoutes(g *echo.Group) {
	authGroup := g.Group("/auth")

	authGroup.POST("/token", rt.authHandler.Token)
	authGroup.POST("/refresh", rt.authHandler.Refresh)
}

// setupWebhookRoutes configures provider callback routes
func (rt *Router) setupWebhookRoutes(g *echo.Group) {
	webhookGroup := g.Group("/webhooks")

	webhookGroup.POST("/assemblyai", rt.webhookHandler.AssemblyAI)
}

// setupMeetingRoutes configures meeting management routes
func (rt *Router) setupMeetingRoutes(g *echo.Group) {
	meetingGroup := g.Group("/meetings")

	meetingGroup.POST("", rt.meetingHandler.CreateMeeting)
	meetingGroup.GET("", rt.meetingHandler.ListMeetings)
	meetingGroup.GET("/:id", rt.meetingHandler.GetMeeting)
	meetingGroup.PATCH("/:id", rt.meetingHandler.UpdateMeeting)
	meetingGroup.DELETE("/:id", rt.meetingHandler.DeleteMeeting)
	meetingGroup.POST("/:id/recording", rt.meetingHandler.UploadRecording)
	meetingGroup.POST("/:id/process", rt.meetingHandler.Process)
	meetingGroup.GET("/:id/status", rt.meetingHandler.Status)
	meetingGroup.GET("/:id/export", rt.meetingHandler.Export)
}

// setupActionItemRoutes configures action item routes
func (rt *Router) setupActionItemRoutes(g *echo.Group) {
	itemGroup := g.Group("/action-items")

	itemGroup.GET("", rt.actionItemHandler.List)
	itemGroup.GET("/:id", rt.actionItemHandler.Get)
	itemGroup.PATCH("/:id", rt.actionItemHandler.Update)
}

// setupSummarizeRoutes configures ad-hoc summarization routes
func (rt *Router) setupSummarizeRoutes(g *echo.Group) {
	g.POST("/summarize", rt.summarizeHandler.Summarize)
	g.POST("/summarize/title", rt.summarizeHandler.Title)
}

// healthCheck returns health status
func (rt *Router) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":      "ok",
		"environment": rt.cfg.Server.Environment,
	})
}
