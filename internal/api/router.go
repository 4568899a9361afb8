package api

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/sanjeevkumarraob/adaptive-summarizer/internal/logger"
)

// RouterConfig holds the transport settings of the router
type RouterConfig struct {
	AllowedOrigins []string
	MaxUploadBytes int64
	// ServiceName enables otelgin spans when set
	ServiceName string
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"Content-Length", "Content-Disposition"},
		MaxAge:        12 * time.Hour,
	}
	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}

// NewRouter sets up the API router
func NewRouter(handler *Handler, cfg RouterConfig, log *logger.Logger) *gin.Engine {
	if log == nil {
		log = logger.Nop()
	}
	router := gin.New()
	if cfg.MaxUploadBytes > 0 {
		router.MaxMultipartMemory = cfg.MaxUploadBytes
	}

	router.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		router.Use(otelgin.Middleware(cfg.ServiceName))
	}
	router.Use(LoggerMiddleware(log))
	router.Use(cors.New(corsConfig(cfg.AllowedOrigins)))

	// Public routes
	router.GET("/", handler.HealthCheck)
	router.POST("/auth/token", handler.IssueToken)

	public := router.Group("/api")
	{
		public.POST("/documents/upload", handler.UploadDocument)
		public.POST("/documents/url", handler.ProcessURL)
		public.POST("/documents/batch", handler.ProcessBatch)
		public.POST("/documents/discover", handler.Discover)
		public.GET("/documents", handler.ListDocuments)
		public.GET("/documents/:id", handler.GetDocument)
		public.GET("/documents/:id/export", handler.ExportDocument)
		public.POST("/documents/:id/summaries", handler.CreateSummary)
		public.GET("/documents/:id/summaries", handler.ListSummaries)

		public.GET("/summaries/:id", handler.GetSummary)
		public.GET("/summaries/:id/export", handler.ExportSummary)
		public.POST("/summaries/:id/feedback", handler.SubmitFeedback)

		public.POST("/quality/analyze", handler.AnalyzeQuality)
	}

	admin := router.Group("/api/admin")
	admin.Use(AdminMiddleware(handler.jwt))
	{
		admin.GET("/learning/state", handler.LearningState)
		admin.GET("/learning/history", handler.LearningHistory)
		admin.POST("/learning/cycle", handler.TriggerCycle)
		admin.GET("/metrics", handler.LearningMetrics)
		admin.GET("/stats", handler.Stats)
	}

	return router
}
