package router

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"tugasku/backend/internal/cache"
	"tugasku/backend/internal/config"
	"tugasku/backend/internal/handlers"
	"tugasku/backend/internal/middleware"
	"tugasku/backend/internal/services"
)

// New assembles the gin engine: middleware chain, public auth routes, and the
// protected API behind the auth gate.
func New(db *gorm.DB, redisCache *cache.RedisCache, cfg *config.Config, log *zap.Logger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(log))
	router.Use(middleware.RecoveryWithLog(log))
	router.Use(middleware.RateLimit(cfg.RateLimit))
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORS.Origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	tokens := services.NewTokenService(cfg.Auth.JWTSecret, cfg.TokenExpiry())

	registerHandler := handlers.NewRegisterHandler(db, services.NewRegisterService(cfg.Auth.BCryptCost), tokens, log)
	authHandler := handlers.NewAuthHandler(db, services.NewAuthService(), tokens, log)
	taskHandler := handlers.NewTaskHandler(db, services.NewTaskService(), cfg.Pagination, log)
	categoryHandler := handlers.NewCategoryHandler(db, services.NewCategoryService(), redisCache, log)
	dashboardHandler := handlers.NewDashboardHandler(db, services.NewDashboardService(), log)
	healthHandler := handlers.NewHealthHandler(db)

	router.GET("/", healthHandler.Root)

	api := router.Group("/api")
	{
		api.GET("", healthHandler.Root)
		api.GET("/health", healthHandler.Health)
		api.POST("/auth/register", registerHandler.Register)
		api.POST("/auth/login", authHandler.Login)
	}

	protected := api.Group("")
	protected.Use(middleware.Auth(db, tokens))
	{
		protected.GET("/auth/profile", authHandler.Profile)

		protected.GET("/tasks", taskHandler.ListTasks)
		protected.POST("/tasks", taskHandler.CreateTask)
		protected.GET("/tasks/:id", taskHandler.GetTask)
		protected.PUT("/tasks/:id", taskHandler.UpdateTask)
		protected.DELETE("/tasks/:id", taskHandler.DeleteTask)

		protected.GET("/categories", categoryHandler.ListCategories)
		protected.POST("/categories", categoryHandler.CreateCategory)
		protected.PUT("/categories/:id", categoryHandler.UpdateCategory)
		protected.DELETE("/categories/:id", categoryHandler.DeleteCategory)

		protected.GET("/dashboard", dashboardHandler.GetDashboard)
	}

	return router
}
