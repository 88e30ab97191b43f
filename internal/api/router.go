package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/storefront/catalog-service/docs"
	"github.com/storefront/catalog-service/internal/api/handler"
	"github.com/storefront/catalog-service/internal/api/middleware"
	"github.com/storefront/catalog-service/internal/core/domain"
	"github.com/storefront/catalog-service/internal/core/ports"
	"github.com/storefront/catalog-service/internal/infrastructure/config"
)

// publicPaths are reachable without a session token.
var publicPaths = []string{
	"/api/auth/signin",
	"/api/auth/signup",
	"/api/auth/signout",
	"/api/public/*",
	"/images/*",
	"/health*",
	"/metrics",
	"/swagger/*",
}

// Deps carries everything the router wires into handlers.
type Deps struct {
	Config    *config.Config
	Logger    zerolog.Logger
	Auth      ports.AuthService
	Tokens    ports.TokenIssuer
	Query     ports.CatalogQueryService
	Mutations ports.CatalogMutationService
	Images    handler.ImageURLs
	// Health maps dependency names to readiness probes.
	Health map[string]handler.PingFunc
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	cfg := d.Config

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Logger))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem: "http",
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))
	e.Use(middleware.Auth(middleware.AuthConfig{
		Tokens:      d.Tokens,
		Principals:  d.Auth,
		Transport:   cfg.Auth.TokenTransport,
		CookieName:  cfg.Auth.CookieName,
		PublicPaths: publicPaths,
		Secure:      cfg.IsProduction(),
		Logger:      d.Logger,
	}))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(d.Auth, cfg.Auth.CookieName, cfg.IsProduction())
	categoryHandler := handler.NewCategoryHandler(d.Query, d.Mutations)
	productHandler := handler.NewProductHandler(d.Query, d.Mutations, d.Images)
	healthHandler := handler.NewHealthHandler(d.Health)

	// --- Auth routes ---
	auth := e.Group("/api/auth")
	auth.POST("/signin", authHandler.SignIn)
	auth.POST("/signup", authHandler.SignUp)
	auth.POST("/signout", authHandler.SignOut)
	auth.GET("/user", authHandler.User)
	auth.GET("/username", authHandler.Username)

	// --- Public catalog ---
	public := e.Group("/api/public")
	public.GET("/categories", categoryHandler.List)
	public.GET("/categories/:categoryId/products", productHandler.ListByCategory)
	public.GET("/products", productHandler.List)
	public.GET("/products/keyword/:keyword", productHandler.Search)

	// --- Catalog administration ---
	admin := e.Group("/api/admin", middleware.RequirePermission(domain.PermCatalogWrite))
	admin.POST("/categories", categoryHandler.Create)
	admin.PUT("/categories/:categoryId", categoryHandler.Update)
	admin.DELETE("/categories/:categoryId", categoryHandler.Delete)
	admin.POST("/categories/:categoryId/product", productHandler.Create)
	admin.PUT("/products/:productId", productHandler.Update)
	admin.DELETE("/products/:productId", productHandler.Delete)
	admin.PUT("/products/:productId/image", productHandler.UpdateImage)

	// --- Static files, docs and probes (no auth required) ---
	e.Static("/images", cfg.Images.Dir)
	e.GET("/swagger/*", echoSwagger.WrapHandler)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/health", healthHandler.Liveness)        // liveness  – is the process alive?
	e.GET("/health/ready", healthHandler.Readiness) // readiness – are dependencies up?

	return e
}

// requestLogger writes one zerolog event per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
