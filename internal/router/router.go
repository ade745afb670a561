package router

import (
	"time"

	"github.com/Lisura123/AXG-Photo-sub001/internal/config"
	"github.com/Lisura123/AXG-Photo-sub001/internal/handler"
	"github.com/Lisura123/AXG-Photo-sub001/internal/middleware"
	"github.com/Lisura123/AXG-Photo-sub001/internal/repository"
	"github.com/Lisura123/AXG-Photo-sub001/internal/service"
	"github.com/Lisura123/AXG-Photo-sub001/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, dispatcher *worker.Dispatcher) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	userRepo := repository.NewUserRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	productRepo := repository.NewProductRepository(db)
	reviewRepo := repository.NewReviewRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(userRepo, cfg, dispatcher)
	categorySvc := service.NewCategoryService(categoryRepo)
	productSvc := service.NewProductService(productRepo, categorySvc, rdb)
	aggregator := service.NewRatingAggregator(reviewRepo, productRepo, rdb)
	reviewSvc := service.NewReviewService(reviewRepo, productRepo, aggregator, dispatcher, cfg)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usersH := handler.NewUsersHandler(authSvc)
	categoriesH := handler.NewCategoriesHandler(categorySvc)
	productsH := handler.NewProductsHandler(productSvc)
	reviewsH := handler.NewReviewsHandler(reviewSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(map[string]handler.HealthCheck{
		"postgres": handler.DatabasePing(db),
		"redis":    handler.RedisPing(rdb),
	}))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/register", authH.Register)
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Storefront browsing — no auth required
	r.GET("/v1/categories", categoriesH.List)
	r.GET("/v1/categories/tree", categoriesH.Tree)
	r.GET("/v1/categories/:id", categoriesH.Get)
	r.GET("/v1/products", productsH.List)
	r.GET("/v1/products/:id", productsH.Get)
	r.GET("/v1/products/slug/:slug", productsH.GetBySlug)
	r.GET("/v1/products/:id/reviews", reviewsH.ListByProduct)
	r.POST("/v1/reviews/:id/helpful", reviewsH.MarkHelpful)

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		v1.GET("/auth/me", authH.Profile)

		// Reviews — any authenticated user; ownership enforced in the service
		v1.POST("/reviews", middleware.RequireRole(service.RoleCustomer, service.RoleAdmin), reviewsH.Create)
		v1.PUT("/reviews/:id", middleware.RequireRole(service.RoleCustomer, service.RoleAdmin), reviewsH.Update)
		v1.DELETE("/reviews/:id", middleware.RequireRole(service.RoleCustomer, service.RoleAdmin), reviewsH.Delete)

		// Admin panels
		admin := v1.Group("", middleware.RequireRole(service.RoleAdmin))
		{
			admin.POST("/categories", categoriesH.Create)
			admin.PUT("/categories/:id", categoriesH.Update)
			admin.DELETE("/categories/:id", categoriesH.Deactivate)

			admin.POST("/products", productsH.Create)
			admin.PUT("/products/:id", productsH.Update)
			admin.PATCH("/products/:id/stock", productsH.AdjustStock)
			admin.PATCH("/products/:id/reactivate", productsH.Reactivate)
			admin.DELETE("/products/:id", productsH.Deactivate)

			admin.GET("/users", usersH.List)
			admin.PUT("/users/:id", usersH.Update)
			admin.DELETE("/users/:id", usersH.Deactivate)
			admin.PATCH("/users/:id/reactivate", usersH.Reactivate)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
