package router

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/firegrill/ordering-backend/controllers"
	"github.com/firegrill/ordering-backend/middlewares"
	"github.com/firegrill/ordering-backend/services"
)

// SetupRouter wires the HTTP surface. The publisher may be nil when event
// publishing is disabled.
func SetupRouter(db *gorm.DB, cartStore *services.CartStore, gateway services.PaymentGateway,
	publisher services.OrderPublisher) *gin.Engine {
	r := gin.Default()

	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())

	points := services.NewPointsService(db)

	userCtrl := controllers.NewUserController(db)
	categoryCtrl := controllers.NewCategoryController(db)
	menuCtrl := controllers.NewMenuController(db)
	cartCtrl := controllers.NewCartController(db, cartStore)
	checkoutCtrl := controllers.NewCheckoutController(db, cartStore, gateway, points, publisher)
	orderCtrl := controllers.NewOrderController(db)
	pointsCtrl := controllers.NewPointsController(db)
	adminCtrl := controllers.NewAdminController(db)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// Auth endpoints get the strict limiter.
	public := r.Group("/")
	public.Use(middlewares.NewStrictRateLimiter())
	{
		public.POST("/register", userCtrl.Register)
		public.POST("/login", userCtrl.Login)
	}

	// Browsing and ordering work without an account. A bearer token, when
	// present, attaches the order to the customer.
	r.GET("/categories", categoryCtrl.GetAllCategories)
	r.GET("/categories/:cat_id", categoryCtrl.GetCategoryByID)
	r.GET("/menus", menuCtrl.GetAllMenuItems)
	r.GET("/menus/by-category", menuCtrl.GetMenuItemsByCategory)
	r.GET("/menus/:item_id", menuCtrl.GetMenuItemByID)

	cart := r.Group("/cart")
	cart.Use(middlewares.OptionalAuthMiddleware())
	{
		cart.GET("", cartCtrl.GetCart)
		cart.POST("/lines", cartCtrl.AddLine)
		cart.PATCH("/lines/:line_id", cartCtrl.SetQuantity)
		cart.DELETE("/lines/:line_id", cartCtrl.RemoveLine)
		cart.DELETE("", cartCtrl.ClearCart)
	}

	// Order-success lookup; guest orders are readable by id, customer orders
	// only by their owner.
	r.GET("/orders/:order_id", middlewares.OptionalAuthMiddleware(), orderCtrl.GetOrderByID)

	checkout := r.Group("/checkout")
	checkout.Use(middlewares.OptionalAuthMiddleware())
	{
		checkout.POST("/start", checkoutCtrl.Start)
		checkout.GET("", checkoutCtrl.GetState)
		checkout.POST("/order-type", checkoutCtrl.SelectOrderType)
		checkout.POST("/contact", checkoutCtrl.SubmitContact)
		checkout.POST("/pay/card", checkoutCtrl.PayWithCard)
		checkout.POST("/pay/cash", checkoutCtrl.PayWithCash)
		checkout.POST("/cancel", checkoutCtrl.Cancel)
	}

	auth := r.Group("/")
	auth.Use(middlewares.AuthMiddleware())
	{
		auth.GET("/profile", userCtrl.GetProfile)
		auth.GET("/my-orders", orderCtrl.GetMyOrders)
		auth.GET("/points/balance", pointsCtrl.GetBalance)
		auth.POST("/points/quote", pointsCtrl.QuoteRedemption)
		auth.GET("/points/history", pointsCtrl.GetHistory)
	}

	admin := r.Group("/admin")
	admin.Use(middlewares.AuthMiddleware(), middlewares.RequireRole("admin"))
	{
		admin.GET("/users", userCtrl.GetAllUsers)

		admin.POST("/categories", categoryCtrl.CreateCategory)
		admin.PATCH("/categories/:cat_id", categoryCtrl.UpdateCategory)
		admin.DELETE("/categories/:cat_id", categoryCtrl.DeleteCategory)

		admin.POST("/menus", menuCtrl.CreateMenuItem)
		admin.PATCH("/menus/:item_id", menuCtrl.UpdateMenuItem)
		admin.DELETE("/menus/:item_id", menuCtrl.DeleteMenuItem)
		admin.POST("/menus/:item_id/choices", menuCtrl.AddChoice)
		admin.DELETE("/menus/choices/:choice_id", menuCtrl.DeleteChoice)

		admin.GET("/orders", orderCtrl.GetAllOrders)
		admin.GET("/orders/:order_id", orderCtrl.GetOrderByID)
		admin.PATCH("/orders/:order_id/status", orderCtrl.UpdateOrderStatus)
		admin.PATCH("/orders/:order_id/payment-status", orderCtrl.UpdatePaymentStatus)

		admin.GET("/dashboard/stats", adminCtrl.GetDashboardStats)
		admin.GET("/reports/sales", adminCtrl.GetSalesReport)
		admin.GET("/orders-flow", adminCtrl.GetOrderFlow)
	}

	return r
}
