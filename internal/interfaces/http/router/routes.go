package router

import (
	"github.com/gin-gonic/gin"
	"github.com/optica/backend/internal/domain/identity"
	"github.com/optica/backend/internal/infrastructure/auth"
	"github.com/optica/backend/internal/infrastructure/logger"
	"github.com/optica/backend/internal/interfaces/http/handler"
	"github.com/optica/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// Handlers groups every HTTP handler the API exposes
type Handlers struct {
	Auth      *handler.AuthHandler
	Products  *handler.ProductHandler
	Suppliers *handler.SupplierHandler
	Clients   *handler.ClientHandler
	Sales     *handler.SaleHandler
	Purchases *handler.PurchaseHandler
	Users     *handler.UserHandler
	Dashboard *handler.DashboardHandler
	System    *handler.SystemHandler
}

// Config carries what the middleware stack needs
type Config struct {
	Logger         *zap.Logger
	JWTService     *auth.JWTService
	TokenBlacklist auth.TokenBlacklist
	CORS           middleware.CORSConfig
	MaxBodySize    int64
	Tracing        middleware.TracingConfig
	Profiling      middleware.ProfilingConfig
}

// paths reachable without a token
var publicPaths = []string{
	"/api/v1/auth/login",
	"/api/v1/auth/refresh",
}

// New builds the gin engine with the full middleware stack and every route
func New(cfg Config, h Handlers) *gin.Engine {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	middleware.SetupValidator()

	engine := gin.New()
	engine.Use(
		middleware.RequestID(),
		middleware.Tracing(cfg.Tracing),
		logger.GinMiddleware(log),
		logger.Recovery(log),
		middleware.Secure(),
		middleware.CORSWithConfig(cfg.CORS),
		middleware.BodyLimit(cfg.MaxBodySize),
	)

	engine.GET("/health", h.System.Health)
	engine.GET("/health/ready", h.System.Ready)

	r := NewRouter(engine, WithGroupMiddleware(
		middleware.JWTAuthMiddleware(middleware.JWTMiddlewareConfig{
			JWTService:     cfg.JWTService,
			TokenBlacklist: cfg.TokenBlacklist,
			SkipPaths:      publicPaths,
			Logger:         log,
		}),
		middleware.TracingAttributeInjector(),
		middleware.Profiling(cfg.Profiling),
	))
	admin := middleware.RequireRole(identity.RoleAdministrator)
	anyStaff := middleware.RequireRole(identity.RoleAdministrator, identity.RoleSeller)

	r.Register(NewDomainGroup("/auth").
		POST("/login", h.Auth.Login).
		POST("/refresh", h.Auth.Refresh).
		POST("/logout", h.Auth.Logout).
		GET("/me", h.Auth.Me))

	r.Register(NewDomainGroup("/products").
		GET("", anyStaff, h.Products.List).
		GET("/:id", anyStaff, h.Products.Get).
		POST("", admin, h.Products.Create).
		PATCH("/:id", admin, h.Products.Update).
		DELETE("/:id", admin, h.Products.Delete).
		POST("/:id/restore", admin, h.Products.Restore))

	r.Register(NewDomainGroup("/clients").Use(anyStaff).
		GET("", h.Clients.List).
		GET("/:id", h.Clients.Get).
		POST("", h.Clients.Create))

	r.Register(NewDomainGroup("/sales").Use(anyStaff).
		GET("", h.Sales.List).
		POST("", h.Sales.Register).
		GET("/:id", h.Sales.Get).
		GET("/:id/receipt", h.Sales.Receipt))

	r.Register(NewDomainGroup("/suppliers").Use(admin).
		GET("", h.Suppliers.List).
		POST("", h.Suppliers.Create).
		GET("/:id", h.Suppliers.Get).
		PATCH("/:id", h.Suppliers.Update).
		DELETE("/:id", h.Suppliers.Delete))

	r.Register(NewDomainGroup("/purchases").Use(admin).
		GET("", h.Purchases.List).
		POST("", h.Purchases.Create).
		GET("/:id", h.Purchases.Get))

	r.Register(NewDomainGroup("/users").Use(admin).
		GET("", h.Users.List).
		POST("", h.Users.Register).
		GET("/:id", h.Users.Get).
		PATCH("/:id", h.Users.Update).
		DELETE("/:id", h.Users.Delete))

	r.Register(NewDomainGroup("/dashboard").Use(admin).
		GET("", h.Dashboard.Summary))

	r.Setup()
	return engine
}
