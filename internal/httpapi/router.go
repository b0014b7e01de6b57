package httpapi

import (
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/alexanderramin/sharpen/internal/catalog"
	"github.com/alexanderramin/sharpen/internal/domain"
	"github.com/alexanderramin/sharpen/internal/service"
)

// Deps is everything the router serves from.
type Deps struct {
	Sessions service.SessionManager
	Progress service.ProgressService
	Catalog  catalog.Catalog
	Entitled service.EntitlementFunc
	UserID   string
	Gatherer prometheus.Gatherer
	Logger   *slog.Logger
}

var (
	registerOnce sync.Once
	registerErr  error
)

// RegisterValidators adds the custom binding tags used by request contracts.
// Without them every request bound to a contract would fail validation, so
// the error is fatal to router construction.
func RegisterValidators() error {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			registerErr = fmt.Errorf("registering validators: unexpected binding engine %T", binding.Validator.Engine())
			return
		}
		if err := v.RegisterValidation("session_kind", validateSessionKind); err != nil {
			registerErr = fmt.Errorf("registering session_kind validator: %w", err)
		}
	})
	return registerErr
}

func validateSessionKind(fl validator.FieldLevel) bool {
	_, err := domain.ParseSessionKind(fl.Field().String())
	return err == nil
}

// NewRouter builds the gin engine with every API route.
func NewRouter(d Deps) (*gin.Engine, error) {
	if err := RegisterValidators(); err != nil {
		return nil, err
	}
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.Entitled == nil {
		d.Entitled = service.StaticEntitlement(false)
	}

	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(d.Logger))

	router.GET("/health", HealthCheck)
	if d.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))
	}

	v1 := router.Group("/v1")
	{
		sessions := v1.Group("/sessions")
		{
			sessions.POST("", StartSession(d.Sessions))
			sessions.GET("", ActiveSession(d.Sessions))
			sessions.GET("/:id", GetSession(d.Sessions))
			sessions.DELETE("/:id", AbandonSession(d.Sessions))
			sessions.POST("/:id/submissions", SubmitArtifact(d.Sessions))
			sessions.POST("/:id/pause", PauseSession(d.Sessions))
			sessions.POST("/:id/resume", ResumeSession(d.Sessions))
			sessions.POST("/:id/complete", CompleteSession(d.Sessions))
		}
		interrupted := v1.Group("/interrupted")
		{
			interrupted.GET("", ListInterrupted(d.Sessions))
			interrupted.POST("/:id/finalize", FinalizeInterrupted(d.Sessions))
			interrupted.DELETE("/:id", DiscardInterrupted(d.Sessions))
		}
		v1.GET("/history", ListHistory(d.Progress))
		v1.GET("/progress", GetProgress(d.Progress))
		v1.GET("/access/:feature", CheckFeature(d.Progress))
		v1.GET("/recommendation", GetRecommendation(d.Progress))
		v1.GET("/catalog", ListCatalog(d.Catalog, d.Entitled, d.UserID))
	}
	return router, nil
}

// NewServer wraps the router in an http.Server with conservative timeouts.
func NewServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("http request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
}
