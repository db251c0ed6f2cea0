package routes

import (
	"canteen-pos/controllers"
	"canteen-pos/middleware"
	"canteen-pos/services"
	"canteen-pos/utils"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type Dependencies struct {
	Sessions *services.SessionService
	Catalog  *services.CatalogService
	Cart     *services.CartService
	Checkout *services.CheckoutService
	History  *services.HistoryService
	Tokens   *utils.TokenIssuer
}

func SetupRoutes(router *gin.Engine, deps Dependencies) {
	sessionCtrl := &controllers.SessionController{Sessions: deps.Sessions, Catalog: deps.Catalog}
	catalogCtrl := &controllers.CatalogController{Catalog: deps.Catalog}
	cartCtrl := &controllers.CartController{Cart: deps.Cart}
	checkoutCtrl := &controllers.CheckoutController{Checkout: deps.Checkout}
	historyCtrl := &controllers.HistoryController{History: deps.History}

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	router.POST("/auth/login", sessionCtrl.Login)
	router.POST("/auth/branch", sessionCtrl.SelectBranch)

	auth := router.Group("/")
	auth.Use(middleware.AuthMiddleware(deps.Tokens, deps.Sessions))
	{
		auth.GET("/auth/session", sessionCtrl.GetSession)
		auth.POST("/auth/logout", sessionCtrl.Logout)

		auth.GET("/catalog", catalogCtrl.GetCatalog)
		auth.GET("/catalog/products", catalogCtrl.GetProducts)

		auth.GET("/cart", cartCtrl.GetCart)
		auth.DELETE("/cart", cartCtrl.ClearCart)
		auth.POST("/cart/items", cartCtrl.AddItem)
		auth.POST("/cart/scan", cartCtrl.ScanBarcode)
		auth.POST("/cart/items/:id/increment", cartCtrl.IncrementItem)
		auth.POST("/cart/items/:id/decrement", cartCtrl.DecrementItem)
		auth.DELETE("/cart/items/:id", cartCtrl.RemoveItem)

		auth.GET("/checkout", checkoutCtrl.GetCheckout)
		auth.DELETE("/checkout", checkoutCtrl.CancelCheckout)
		auth.POST("/checkout/begin", checkoutCtrl.BeginCheckout)
		auth.POST("/checkout/cash", checkoutCtrl.PayCash)
		auth.GET("/checkout/students/:card", checkoutCtrl.LookupStudent)
		auth.POST("/checkout/card", checkoutCtrl.PayCard)

		auth.GET("/transactions", historyCtrl.GetTransactions)
		auth.GET("/transactions/:id", historyCtrl.GetTransaction)
	}
}
