package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"synthdata-wizard-api/internal/handler"
	"synthdata-wizard-api/internal/metrics"
	"synthdata-wizard-api/internal/middleware"
	"synthdata-wizard-api/internal/service"
)

// Config holds the engine dependencies
type Config struct {
	DB            *gorm.DB
	Redis         *redis.Client
	Logger        *zap.Logger
	Metrics       *metrics.Metrics
	BasePath      string
	JWTSecret     string
	CORSOrigins   []string
	WizardService service.WizardService
	ProfileStore  service.ProfileStore
	Hub           *handler.EventHub
	// MaxUploadBytes caps multipart uploads; zero means unlimited
	MaxUploadBytes int64
}

// Setup builds the gin engine with every route of the wizard API
func Setup(cfg Config) *gin.Engine {
	r := gin.New()

	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.Metrics(cfg.Metrics))

	healthHandler := handler.NewHealthHandler(cfg.DB, cfg.Redis)
	metricsHandler := gin.WrapH(promhttp.Handler())

	// Health endpoints (no auth)
	r.GET("/health", healthHandler.Health)
	r.GET("/ready", healthHandler.Ready)
	r.GET("/metrics", metricsHandler)

	api := r.Group(cfg.BasePath)
	if cfg.BasePath != "" && cfg.BasePath != "/" {
		api.GET("/health", healthHandler.Health)
		api.GET("/ready", healthHandler.Ready)
		api.GET("/metrics", metricsHandler)
	}

	catalogHandler := handler.NewCatalogHandler()
	api.GET("/catalog/use-cases", catalogHandler.GetUseCases)
	api.GET("/catalog/types/:type", catalogHandler.GetType)
	api.GET("/catalog/name-sources", catalogHandler.GetNameSources)
	api.GET("/catalog/distributions", catalogHandler.GetDistributions)

	if cfg.WizardService == nil {
		return r
	}

	sessionHandler := handler.NewSessionHandler(cfg.WizardService)
	detectionHandler := handler.NewDetectionHandler(cfg.WizardService)

	// Browsers cannot set headers on a websocket handshake; the session ID
	// is the capability here.
	if cfg.Hub != nil {
		eventsHandler := handler.NewEventsHandler(cfg.WizardService, cfg.Hub, cfg.Logger)
		api.GET("/sessions/:sessionId/events", eventsHandler.Subscribe)
	}

	authenticated := api.Group("")
	authenticated.Use(middleware.Auth(cfg.JWTSecret))
	{
		sessions := authenticated.Group("/sessions")
		sessions.POST("", sessionHandler.CreateSession)
		sessions.GET("/:sessionId", sessionHandler.GetSession)
		sessions.DELETE("/:sessionId", sessionHandler.CloseSession)

		fields := sessions.Group("/:sessionId/fields")
		fields.POST("", sessionHandler.AddField)
		fields.PATCH("/:fieldId", sessionHandler.PatchField)
		fields.DELETE("/:fieldId", sessionHandler.RemoveField)
		fields.PUT("/:fieldId/position", sessionHandler.MoveField)
		fields.GET("/:fieldId/mode", sessionHandler.GetMode)
		fields.PUT("/:fieldId/mode", sessionHandler.EnterMode)
		fields.DELETE("/:fieldId/mode", sessionHandler.ResetMode)
		fields.PUT("/:fieldId/distribution", sessionHandler.SaveDistribution)
		fields.GET("/:fieldId/dependency", sessionHandler.OpenDependency)
		fields.POST("/:fieldId/dependency", sessionHandler.ApplyDependency)
		fields.GET("/:fieldId/values", sessionHandler.GetValues)
		fields.PUT("/:fieldId/values", sessionHandler.SaveValues)
		fields.PUT("/:fieldId/use-case-values", sessionHandler.SaveUseCaseValues)
		fields.POST("/:fieldId/detection", limitBody(cfg.MaxUploadBytes), sessionHandler.DetectField)
		fields.POST("/:fieldId/curve", sessionHandler.FitFieldCurve)

		sessions.PATCH("/:sessionId/options", sessionHandler.UpdateOptions)
		sessions.GET("/:sessionId/field-names", sessionHandler.GetFieldNames)

		sheets := sessions.Group("/:sessionId/sheets")
		sheets.POST("", sessionHandler.AddSheet)
		sheets.PATCH("/:sheetId", sessionHandler.RenameSheet)
		sheets.DELETE("/:sheetId", sessionHandler.RemoveSheet)
		sheets.POST("/:sheetId/toggle", sessionHandler.ToggleSheetField)
		sheets.POST("/:sheetId/select-all", sessionHandler.SelectAllSheetFields)
		sheets.POST("/:sheetId/select-none", sessionHandler.SelectNoSheetFields)

		sessions.GET("/:sessionId/export-spec", sessionHandler.GetExportSpec)
		sessions.POST("/:sessionId/export", sessionHandler.Export)

		authenticated.POST("/detect-distribution", limitBody(cfg.MaxUploadBytes), detectionHandler.DetectColumns)
		authenticated.POST("/detect-distribution/column", limitBody(cfg.MaxUploadBytes), detectionHandler.DetectColumn)
		authenticated.POST("/fit-distribution", detectionHandler.FitCurve)

		if cfg.ProfileStore != nil {
			profileHandler := handler.NewProfileHandler(cfg.ProfileStore)
			authenticated.GET("/profiles", profileHandler.ListProfiles)
			authenticated.POST("/profiles", profileHandler.CreateProfile)
			authenticated.DELETE("/profiles/:id", profileHandler.DeleteProfile)
			authenticated.GET("/profiles/:id/data", profileHandler.GetProfileData)
			authenticated.POST("/profiles/:id/data", profileHandler.SaveProfileData)
		}
	}

	return r
}

// limitBody caps the request body; reads past the limit fail and surface as 400
func limitBody(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if n > 0 {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		}
		c.Next()
	}
}
