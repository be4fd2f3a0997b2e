package http

import (
	"net/http"

	"github.com/Zaheeroo/tejidosyami-sub000/internal/config"
	"github.com/Zaheeroo/tejidosyami-sub000/internal/delivery/http/handlers"
	"github.com/Zaheeroo/tejidosyami-sub000/internal/delivery/http/middleware"
	"github.com/Zaheeroo/tejidosyami-sub000/internal/infrastructure/logger"
	"github.com/Zaheeroo/tejidosyami-sub000/internal/infrastructure/metrics"
	usecase "github.com/Zaheeroo/tejidosyami-sub000/internal/usecase/order"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewRouter(
	cfg *config.OrderConfig,
	orderUsecase usecase.OrderUsecase,
	providers usecase.ProviderRegistry,
	orderMetrics *metrics.OrderMetrics,
) *gin.Engine {
	if cfg.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(logger.RequestLogger(), gin.Recovery())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	checkoutHandler := handlers.NewCheckoutHandler(orderUsecase)
	orderHandler := handlers.NewOrderHandler(orderUsecase)
	webhookHandler := handlers.NewWebhookHandler(orderUsecase, providers, orderMetrics)
	adminHandler := handlers.NewAdminHandler(orderUsecase, providers)

	api := router.Group("/api")
	{
		api.POST("/checkout", checkoutHandler.InitiateCheckout)
		api.POST("/payments/return", checkoutHandler.HandleReturn)
		api.GET("/payments/status", checkoutHandler.CheckStatus)
		api.GET("/orders/:id", orderHandler.GetOrder)

		webhooks := api.Group("/webhooks")
		webhooks.Use(middleware.RateLimit(cfg.Reconciliation.WebhookRPS, cfg.Reconciliation.WebhookBurst))
		webhooks.POST("/:provider", webhookHandler.Handle)

		admin := api.Group("/admin")
		admin.Use(middleware.RequireAdmin(cfg.Admin.JWTSecret))
		{
			admin.GET("/orders", adminHandler.ListOrders)
			admin.POST("/orders/:id/cancel", adminHandler.CancelOrder)
			admin.POST("/orders/:id/refund", adminHandler.RefundOrder)
			admin.POST("/orders/:id/reconcile", adminHandler.ReconcileOrder)
		}
	}

	return router
}
