package handler

import (
	"bank-card-api/internal/adapter/http/middleware"
	redisStore "bank-card-api/internal/adapter/storage/redis"
	"bank-card-api/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	AuthSvc         ports.AuthService
	UserSvc         ports.UserService
	CardSvc         ports.CardService
	TransactionSvc  ports.TransactionService
	BlockRequestSvc ports.BlockRequestService
	TokenSvc        ports.TokenService
	RateLimitStore  *redisStore.RateLimitStore // nil = rate limiting disabled
	HealthCheckers  []ports.HealthChecker
	Logger          zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(1 << 20)) // 1 MB request body limit

	// Health check (deep — verifies PostgreSQL + Redis)
	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	// Rate limit rules
	rules := middleware.DefaultRateLimitRules()

	// Helper: return rate limiter middleware if store is available, else noop.
	rl := func(group string) gin.HandlerFunc {
		if deps.RateLimitStore == nil {
			return func(c *gin.Context) { c.Next() }
		}
		rule, ok := rules[group]
		if !ok {
			return func(c *gin.Context) { c.Next() }
		}
		return middleware.RateLimiter(deps.RateLimitStore, group, rule, deps.Logger)
	}

	// API v1 routes
	v1 := r.Group("/api/v1")

	// --- Public routes (no auth) ---
	authHandler := NewAuthHandler(deps.AuthSvc)
	auth := v1.Group("/auth")
	{
		auth.POST("/register", rl("auth_register"), authHandler.Register)
		auth.POST("/login", rl("auth_login"), authHandler.Login)
	}

	jwtAuth := middleware.JWTAuth(deps.TokenSvc, deps.Logger)
	adminOnly := middleware.RequireAdmin()

	// --- User management (admin only) ---
	userHandler := NewUserHandler(deps.UserSvc)
	users := v1.Group("/users", jwtAuth, adminOnly)
	{
		users.POST("", rl("admin"), userHandler.Create)
		users.GET("", rl("admin"), userHandler.List)
		users.GET("/:id", rl("admin"), userHandler.GetByID)
		users.PUT("/:id", rl("admin"), userHandler.Update)
		users.DELETE("/:id", rl("admin"), userHandler.Delete)
	}

	// --- Cards ---
	cardHandler := NewCardHandler(deps.CardSvc)
	cards := v1.Group("/cards", jwtAuth)
	{
		cards.POST("", adminOnly, rl("admin"), cardHandler.Create)
		cards.GET("", rl("api"), cardHandler.List)
		cards.GET("/:number", rl("api"), cardHandler.GetByNumber)
		cards.PUT("/:number", adminOnly, rl("admin"), cardHandler.Update)
		cards.DELETE("/:number", adminOnly, rl("admin"), cardHandler.Delete)
	}

	// --- Transfers ---
	txHandler := NewTransactionHandler(deps.TransactionSvc)
	transactions := v1.Group("/transactions", jwtAuth)
	{
		transactions.POST("", rl("transfers"), txHandler.Create)
		transactions.GET("", rl("api"), txHandler.List)
		transactions.GET("/:id", rl("api"), txHandler.GetByID)
	}

	// --- Block requests ---
	blockHandler := NewBlockRequestHandler(deps.BlockRequestSvc)
	blockRequests := v1.Group("/block-requests", jwtAuth)
	{
		blockRequests.POST("", rl("api"), blockHandler.Create)
		blockRequests.GET("", rl("api"), blockHandler.List)
		blockRequests.GET("/:id", rl("api"), blockHandler.GetByID)
		blockRequests.POST("/:id/approve", adminOnly, rl("admin"), blockHandler.Approve)
		blockRequests.POST("/:id/reject", adminOnly, rl("admin"), blockHandler.Reject)
	}

	return r
}
