package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/ecomarket/storefront-api/internal/api/handler"
	"github.com/ecomarket/storefront-api/internal/api/middleware"
	"github.com/ecomarket/storefront-api/internal/core/domain"
	"github.com/ecomarket/storefront-api/internal/core/ports"
	"github.com/ecomarket/storefront-api/internal/core/service"
	mongodb "github.com/ecomarket/storefront-api/internal/infrastructure/db/mongo"
	redisdb "github.com/ecomarket/storefront-api/internal/infrastructure/db/redis"
)

// Deps carries the externally constructed collaborators the router needs.
type Deps struct {
	Mongo     *mongo.Database
	Redis     *redis.Client
	Gateway   ports.PaymentGateway
	Notifier  ports.NotificationDispatcher
	JWTSecret string
	Logger    zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("storefront"))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(deps.Mongo)
	productRepo := mongodb.NewProductRepository(deps.Mongo)
	categoryRepo := mongodb.NewCategoryRepository(deps.Mongo)
	orderRepo := mongodb.NewOrderRepository(deps.Mongo)
	guard := redisdb.NewPaymentGuard(deps.Redis)

	authService := service.NewAuthService(userRepo, deps.JWTSecret, 24*time.Hour)
	catalogService := service.NewCatalogService(productRepo, categoryRepo, deps.Logger)
	orderService := service.NewOrderService(orderRepo, deps.Logger)
	checkoutService := service.NewCheckoutService(orderRepo, userRepo, deps.Gateway, guard, deps.Notifier, deps.Logger)

	authHandler := handler.NewAuthHandler(authService)
	productHandler := handler.NewProductHandler(catalogService)
	categoryHandler := handler.NewCategoryHandler(catalogService)
	orderHandler := handler.NewOrderHandler(orderService)
	checkoutHandler := handler.NewCheckoutHandler(checkoutService)

	auth := middleware.Auth(deps.JWTSecret)
	adminOnly := middleware.RBAC(domain.RoleAdmin)

	v1 := e.Group("/api/v1")

	// --- Auth routes ---
	v1.POST("/auth/register", authHandler.Register)
	v1.POST("/auth/login", authHandler.Login)
	v1.POST("/auth/forgot-password", authHandler.ForgotPassword)
	v1.PUT("/auth/profile", authHandler.UpdateProfile, auth)

	// --- Catalog routes ---
	v1.GET("/product", productHandler.List)
	v1.GET("/product/product-photo/:id", productHandler.Photo)
	v1.GET("/product/:slug", productHandler.Get)
	v1.POST("/product", productHandler.Create, auth, adminOnly)
	v1.PUT("/product/:id", productHandler.Update, auth, adminOnly)
	v1.DELETE("/product/:id", productHandler.Delete, auth, adminOnly)

	v1.GET("/category", categoryHandler.List)
	v1.POST("/category", categoryHandler.Create, auth, adminOnly)
	v1.PUT("/category/:id", categoryHandler.Update, auth, adminOnly)
	v1.DELETE("/category/:id", categoryHandler.Delete, auth, adminOnly)

	// --- Checkout routes ---
	v1.GET("/product/braintree/token", checkoutHandler.ClientToken)
	v1.POST("/product/braintree/payment", checkoutHandler.SubmitPayment, auth)

	// --- Order routes ---
	v1.GET("/order/orders", orderHandler.ListOwn, auth)
	v1.GET("/order/all-orders", orderHandler.ListAll, auth, adminOnly)
	v1.PUT("/order/order-status/:orderId", orderHandler.UpdateStatus, auth, adminOnly)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.Mongo, deps.Redis)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
