package router

import (
	"github.com/gin-gonic/gin"
	"github.com/ktakagi/sensho-backend/config"
	"github.com/ktakagi/sensho-backend/internal/app/controller"
	"github.com/ktakagi/sensho-backend/internal/middleware"
)

type Router struct {
	authController     *controller.AuthController
	bookController     *controller.BookController
	orderController    *controller.OrderController
	listController     *controller.SelectionListController
	wishlistController *controller.WishlistController
	adminController    *controller.AdminController
	authMiddleware     *middleware.AuthMiddleware
	config             *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	bookController *controller.BookController,
	orderController *controller.OrderController,
	listController *controller.SelectionListController,
	wishlistController *controller.WishlistController,
	adminController *controller.AdminController,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:     authController,
		bookController:     bookController,
		orderController:    orderController,
		listController:     listController,
		wishlistController: wishlistController,
		adminController:    adminController,
		authMiddleware:     authMiddleware,
		config:             cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"message": "SENSHO API is running",
		})
	})

	api := router.Group("/api")
	{
		books := api.Group("/books")
		{
			books.POST("/search", r.bookController.Search)
			books.GET("/:isbn", r.bookController.GetByISBN)
		}

		orders := api.Group("/orders")
		{
			orders.POST("", r.orderController.Create)
			orders.GET("", r.orderController.List)
			orders.GET("/:id", r.orderController.Get)
		}

		api.POST("/register", r.authController.Register)
		api.POST("/login", r.authController.Login)
		api.POST("/logout", r.authMiddleware.Authenticate(), r.authController.Logout)

		user := api.Group("/user")
		user.Use(r.authMiddleware.Authenticate())
		{
			user.GET("/profile", r.authController.GetProfile)
			user.PUT("/profile", r.authController.UpdateProfile)
		}

		lists := api.Group("/selection-lists")
		lists.Use(r.authMiddleware.Authenticate())
		{
			lists.GET("", r.listController.List)
			lists.POST("", r.listController.Create)
			lists.GET("/:id", r.listController.Get)
			lists.PUT("/:id", r.listController.Update)
			lists.DELETE("/:id", r.listController.Delete)
			lists.GET("/:id/items", r.listController.ListItems)
			lists.POST("/:id/items", r.listController.AddItem)
			lists.PUT("/:id/items/:item_id", r.listController.UpdateItem)
			lists.DELETE("/:id/items/:item_id", r.listController.RemoveItem)
			lists.GET("/:id/export/:format", r.listController.Export)
		}

		wishlist := api.Group("/customers/:customer_id/wishlist")
		{
			wishlist.GET("", r.wishlistController.List)
			wishlist.POST("", r.wishlistController.Add)
			wishlist.DELETE("/:id", r.wishlistController.Remove)
		}

		admin := api.Group("/admin")
		{
			admin.POST("/login", r.adminController.Login)

			authed := admin.Group("")
			authed.Use(r.authMiddleware.AuthenticateAdmin())
			{
				authed.POST("/logout", r.adminController.Logout)
				authed.GET("/orders", r.adminController.ListOrders)
				authed.GET("/customers", r.adminController.ListCustomers)
				authed.GET("/customers/:id/orders", r.adminController.ListCustomerOrders)
				authed.GET("/export/:format", r.adminController.Export)
			}
		}
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
