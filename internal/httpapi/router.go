package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"staffing/internal/domain"
	"staffing/internal/logger"
	"staffing/internal/service"
)

const (
	maxSnapshotBodyBytes int64 = 8 << 20
	requestIDHeader            = "X-Request-ID"
)

// StaffingService is the application surface the handlers depend on.
type StaffingService interface {
	Availability(ctx context.Context, request service.AvailabilityRequest) ([]domain.PersonAvailability, error)
	Forecast(ctx context.Context, weeks *int) ([]domain.CapacityForecastWeek, error)
	ForecastSummary(ctx context.Context, weeks *int) (domain.ForecastSummary, error)
	ImportSnapshot(ctx context.Context, raw []byte) error
	ExportSnapshot(ctx context.Context) ([]byte, error)
}

var _ StaffingService = (*service.Service)(nil)

type RouterConfig struct {
	CORSAllowedOrigins []string
	Logger             logger.Logger
	// MetricsHandler is mounted at /metrics when set.
	MetricsHandler http.Handler
}

type API struct {
	service StaffingService
	log     logger.Logger
}

func NewRouter(svc StaffingService, cfg RouterConfig) *gin.Engine {
	log := cfg.Logger
	if log == nil {
		log = logger.NopLogger{}
	}
	api := &API{service: svc, log: log}

	router := gin.New()
	router.Use(gin.Recovery(), requestID(), accessLog(log), cors(newCORSPolicy(cfg.CORSAllowedOrigins)))

	router.GET("/healthz", healthz)
	if cfg.MetricsHandler != nil {
		router.GET("/metrics", gin.WrapH(cfg.MetricsHandler))
	}

	apiGroup := router.Group("/api")
	{
		AvailabilityRouter(apiGroup, api)
		ForecastRouter(apiGroup.Group("/capacity"), api)
		SnapshotRouter(apiGroup.Group("/snapshot"), api)
	}

	router.NoRoute(func(c *gin.Context) {
		writeError(c, http.StatusNotFound, "not found")
	})
	return router
}

func AvailabilityRouter(rg *gin.RouterGroup, api *API) {
	rg.GET("/availability", api.handleAvailability)
}

func ForecastRouter(rg *gin.RouterGroup, api *API) {
	rg.GET("/forecast", api.handleForecast)
	rg.GET("/forecast/summary", api.handleForecastSummary)
}

func SnapshotRouter(rg *gin.RouterGroup, api *API) {
	rg.GET("", api.handleExportSnapshot)
	rg.POST("", api.handleImportSnapshot)
}

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDHeader, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func accessLog(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		started := time.Now()
		c.Next()
		log.Infow("http request", map[string]any{
			"method":     c.Request.Method,
			"path":       c.FullPath(),
			"status":     c.Writer.Status(),
			"elapsed_ms": time.Since(started).Milliseconds(),
			"request_id": c.GetString(requestIDHeader),
		})
	}
}

func healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
