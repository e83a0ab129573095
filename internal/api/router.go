package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/oxfordpsn/school-portal/internal/api/handler"
	"github.com/oxfordpsn/school-portal/internal/api/middleware"
	"github.com/oxfordpsn/school-portal/internal/core/domain"
	"github.com/oxfordpsn/school-portal/internal/core/service"
	"github.com/oxfordpsn/school-portal/internal/infrastructure/config"
	mongodb "github.com/oxfordpsn/school-portal/internal/infrastructure/db/mongo"
	redisdb "github.com/oxfordpsn/school-portal/internal/infrastructure/db/redis"
)

// NewRouter builds and returns the Echo instance with all routes registered.
// The audit dispatcher is constructed and started by the caller so its
// worker lifecycle is tied to the process context.
func NewRouter(db *mongo.Database, rdb *redis.Client, auditor service.Auditor, cfg *config.Config, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("portal"))

	// --- Dependencies ---
	users := mongodb.NewUserRepository(db)
	counters := mongodb.NewCounterRepository(db)
	throttle := redisdb.NewLoginThrottle(rdb)

	tokens := service.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	authService := service.NewAuthService(users, tokens, throttle, auditor, log)
	enrollmentService := service.NewEnrollmentService(users, counters, auditor, log)

	authHandler := handler.NewAuthHandler(authService)
	studentHandler := handler.NewStudentHandler(enrollmentService)

	authenticated := middleware.Auth(tokens)
	adminOnly := middleware.RBAC(domain.RoleAdmin)

	// --- Public routes ---
	e.POST("/login", authHandler.Login)
	e.POST("/reset-password", authHandler.ResetPassword)

	// --- Admin routes ---
	e.POST("/signup", authHandler.Signup, authenticated, adminOnly)
	e.GET("/users", authHandler.ListUsers, authenticated, adminOnly)
	e.POST("/students", studentHandler.Enroll, authenticated, adminOnly)
	e.POST("/students/bulk", studentHandler.BulkEnroll, authenticated, adminOnly)
	e.GET("/students/:studentId", studentHandler.GetStudent, authenticated, adminOnly)

	// --- Probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)           // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
