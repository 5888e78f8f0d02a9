package router

import (
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/polkiloo/bookmart/internal/config"
	"github.com/polkiloo/bookmart/internal/domain/model"
	"github.com/polkiloo/bookmart/internal/server/http/handlers"
	"github.com/polkiloo/bookmart/internal/server/http/middleware"
)

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.ShellFacade, cfg *config.Config, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.CORS(cfg.AllowedOrigins))
	engine.Use(middleware.DecompressRequest(0))
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	sessionHandler := handlers.NewSessionHandler(facade)
	catalogHandler := handlers.NewCatalogHandler(facade)
	cartHandler := handlers.NewCartHandler(facade)
	checkoutHandler := handlers.NewCheckoutHandler(facade)
	orderHandler := handlers.NewOrderHandler(facade)
	sellerHandler := handlers.NewSellerHandler(facade)
	notificationHandler := handlers.NewNotificationHandler(facade)

	authRequired := middleware.AuthRequired(facade)
	sellerOnly := middleware.RoleRequired(model.RoleSeller, model.RoleAdmin)

	api := engine.Group("/api")
	api.POST("/session", sessionHandler.Login)
	api.POST("/registration", sessionHandler.BeginRegistration)
	api.POST("/registration/verify", sessionHandler.CompleteRegistration)
	api.POST("/password/forgot", sessionHandler.ForgotPassword)
	api.GET("/books", catalogHandler.List)
	api.GET("/books/:id", catalogHandler.Get)
	api.GET("/books/:id/reviews", catalogHandler.Reviews)
	api.GET("/books/:id/rating", catalogHandler.Rating)
	api.GET("/payments/momo/return", checkoutHandler.PaymentReturn)
	api.GET("/notifications", notificationHandler.List)

	user := api.Group("")
	user.Use(authRequired)
	user.GET("/session", sessionHandler.Current)
	user.DELETE("/session", sessionHandler.Logout)
	user.GET("/session/profile", sessionHandler.Profile)
	user.POST("/books/:id/reviews", catalogHandler.AddReview)

	user.GET("/cart", cartHandler.Get)
	user.POST("/cart/items", cartHandler.AddItem)
	user.DELETE("/cart/items/:bookId", cartHandler.RemoveItem)
	user.GET("/cart/selection", cartHandler.Selection)
	user.PUT("/cart/selection", cartHandler.Select)

	user.GET("/checkout/vouchers", checkoutHandler.Vouchers)
	user.POST("/checkout/voucher", checkoutHandler.ApplyVoucher)
	user.DELETE("/checkout/voucher", checkoutHandler.ClearVoucher)
	user.GET("/checkout/quote", checkoutHandler.Quote)
	user.POST("/checkout", checkoutHandler.Submit)

	user.GET("/orders", orderHandler.List)
	user.GET("/orders/:id", orderHandler.Get)
	user.POST("/orders/:id/cancel", orderHandler.Cancel)
	user.GET("/payments", orderHandler.Payments)

	seller := user.Group("")
	seller.Use(sellerOnly)
	seller.POST("/books/:id/image", sellerHandler.UploadImage)
	seller.GET("/seller/vouchers", sellerHandler.Vouchers)
	seller.POST("/seller/vouchers", sellerHandler.CreateVoucher)
	seller.PUT("/seller/vouchers/:id/books", sellerHandler.AssignBooks)
	seller.DELETE("/seller/vouchers/:id", sellerHandler.DeleteVoucher)

	return engine
}
