package router

import (
	"github.com/gin-gonic/gin"
	"github.com/souqkw/marketplace/config"
	"github.com/souqkw/marketplace/internal/handler"
	"github.com/souqkw/marketplace/internal/middleware"
	"github.com/souqkw/marketplace/pkg/store"
)

type Router struct {
	authHandler         *handler.AuthHandler
	subscriptionHandler *handler.SubscriptionHandler
	listingHandler      *handler.ListingHandler
	catalogHandler      *handler.CatalogHandler
	healthHandler       *handler.HealthHandler

	jwtMw  *middleware.JWTMiddleware
	kv     store.KV
	config *config.Config
}

func NewRouter(
	auth *handler.AuthHandler,
	subscription *handler.SubscriptionHandler,
	listing *handler.ListingHandler,
	catalog *handler.CatalogHandler,
	health *handler.HealthHandler,
	jwtMw *middleware.JWTMiddleware,
	kv store.KV,
	cfg *config.Config,
) *Router {
	return &Router{
		authHandler:         auth,
		subscriptionHandler: subscription,
		listingHandler:      listing,
		catalogHandler:      catalog,
		healthHandler:       health,
		jwtMw:               jwtMw,
		kv:                  kv,
		config:              cfg,
	}
}

func (r *Router) SetupRoutes() *gin.Engine {
	router := gin.New()

	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.RecoveryMiddleware())
	router.Use(middleware.CORS())
	router.Use(middleware.ContextMiddleware("api"))

	api := router.Group("/api")
	{
		api.GET("/health", r.healthHandler.HealthCheck)

		v1 := api.Group("/v1")
		{
			r.authRoutes(v1)
			r.subscriptionRoutes(v1)
			r.listingRoutes(v1)
			r.catalogRoutes(v1)
			r.adminRoutes(v1)
		}
	}

	// The web surface shares the listing query but uses its own
	// page-size whitelist.
	web := router.Group("/web")
	{
		web.GET("/ads", r.listingHandler.ListWeb)
	}

	return router
}

func (r *Router) authRoutes(rg *gin.RouterGroup) {
	otpLimit := middleware.RateLimit(r.kv, r.config.RateLimit.Request, r.config.RateLimit.Duration)

	auth := rg.Group("/auth")
	{
		auth.POST("/login", r.authHandler.Login)
		auth.POST("/register", otpLimit, r.authHandler.Register)
		auth.POST("/verify-otp", r.authHandler.VerifyOtp)
		auth.POST("/social", r.authHandler.SocialLogin)
		auth.POST("/social/send-otp", otpLimit, r.authHandler.SendPhoneOtp)
		auth.POST("/social/link-phone", r.authHandler.LinkPhone)

		protected := auth.Group("")
		protected.Use(r.jwtMw.RequireAuth())
		{
			protected.POST("/logout", r.authHandler.Logout)
		}
	}
}

func (r *Router) subscriptionRoutes(rg *gin.RouterGroup) {
	plans := rg.Group("/plans")
	{
		plans.GET("", r.subscriptionHandler.ListPlans)
	}

	subscription := rg.Group("/subscription")
	subscription.Use(r.jwtMw.RequireAuth())
	{
		subscription.GET("", r.subscriptionHandler.ActivePlan)
		subscription.GET("/upgrade/:id/preview", r.subscriptionHandler.PreviewUpgrade)
		subscription.POST("/upgrade", r.subscriptionHandler.Upgrade)
	}
}

func (r *Router) listingRoutes(rg *gin.RouterGroup) {
	ads := rg.Group("/ads")
	{
		ads.GET("", r.listingHandler.List)
		ads.GET("/:id", r.listingHandler.Get)

		protected := ads.Group("")
		protected.Use(r.jwtMw.RequireAuth())
		{
			protected.POST("", r.listingHandler.Create)
		}
	}

	me := rg.Group("/me")
	me.Use(r.jwtMw.RequireAuth())
	{
		me.GET("/ads", r.listingHandler.MyAds)
	}
}

func (r *Router) catalogRoutes(rg *gin.RouterGroup) {
	catalog := rg.Group("/catalog")
	{
		catalog.GET("/categories", r.catalogHandler.ListCategories)
		catalog.GET("/conditions", r.catalogHandler.ListConditions)
		catalog.GET("/price-types", r.catalogHandler.ListPriceTypes)
		catalog.GET("/governorates", r.catalogHandler.ListGovernorates)
		catalog.GET("/banners", r.catalogHandler.ListBanners)
	}
}

func (r *Router) adminRoutes(rg *gin.RouterGroup) {
	admin := rg.Group("/admin")
	admin.Use(middleware.RequireAdminKey(r.config.App.AdminKey))
	{
		admin.POST("/plans", r.subscriptionHandler.CreatePlan)
		admin.PUT("/plans/:id", r.subscriptionHandler.UpdatePlan)
		admin.POST("/categories", r.catalogHandler.CreateCategory)
		admin.PUT("/categories/:id", r.catalogHandler.UpdateCategory)
		admin.POST("/banners", r.catalogHandler.CreateBanner)
	}
}
