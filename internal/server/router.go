package server

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/grade-horaria-api/internal/handler"
	"github.com/noah-isme/grade-horaria-api/internal/middleware"
	"github.com/noah-isme/grade-horaria-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/grade-horaria-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/grade-horaria-api/pkg/middleware/requestid"
)

// Handlers groups every HTTP handler mounted by NewRouter.
type Handlers struct {
	Health     *handler.HealthHandler
	Units      *handler.UnitHandler
	Users      *handler.UserHandler
	Professors *handler.ProfessorHandler
}

// Options configures the router middleware chain.
type Options struct {
	Logger         *zap.Logger
	AllowedOrigins []string
	Tokens         middleware.TokenValidator
	Metrics        middleware.RequestObserver
	ExposeMetrics  bool
}

// NewRouter builds the gin engine with the full middleware chain and every route.
func NewRouter(h Handlers, opts Options) *gin.Engine {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(opts.Logger))
	r.Use(corsmiddleware.New(opts.AllowedOrigins))
	if opts.Metrics != nil {
		r.Use(middleware.Metrics(opts.Metrics))
	}

	r.GET("/health", h.Health.Health)
	r.GET("/ready", h.Health.Ready)
	if opts.ExposeMetrics {
		r.GET("/metrics", h.Health.Prometheus)
	}

	units := r.Group("/unidades")
	units.GET("", h.Units.List)
	units.POST("", h.Units.Create)
	units.GET("/:codigo", h.Units.Get)
	units.DELETE("/:codigo", h.Units.Delete)

	users := r.Group("/usuarios")
	users.POST("", h.Users.Create)
	users.POST("/login", h.Users.Login)
	users.GET("/me", middleware.JWT(opts.Tokens), h.Users.Me)
	users.GET("/:email", h.Users.Get)
	users.DELETE("/:email", h.Users.Delete)

	professors := r.Group("/professores")
	professors.GET("", h.Professors.List)
	professors.POST("", h.Professors.Create)
	professors.POST("/importacao-massa", h.Professors.Import)
	professors.GET("/exportar", h.Professors.Export)
	professors.GET("/:matricula", h.Professors.Get)
	professors.DELETE("/:matricula", h.Professors.Delete)

	return r
}
