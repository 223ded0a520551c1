package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/AhnKwangHyuny/faddy-pay-stream/controllers"
	"github.com/AhnKwangHyuny/faddy-pay-stream/middleware"
)

func RegisterRoutes(
	r *gin.Engine,
	orders *controllers.OrderController,
	payments *controllers.PaymentController,
	settlements *controllers.SettlementController,
	internalToken string,
) {
	orderRoutes := r.Group("/orders")
	orderRoutes.Use(middleware.AuthMiddleware())
	orderRoutes.POST("", orders.CreateOrder)
	orderRoutes.GET("", orders.ListOrders)
	orderRoutes.GET("/:order_id", orders.GetOrder)

	paymentRoutes := r.Group("/payments")
	paymentRoutes.Use(middleware.AuthMiddleware())
	paymentRoutes.POST("/confirm", payments.ApprovePayment)
	paymentRoutes.POST("/cancel", payments.CancelPayment)
	paymentRoutes.GET("/:payment_key", payments.GetLatestPayment)
	paymentRoutes.GET("/:payment_key/history", payments.GetPaymentHistory)

	settlementRoutes := r.Group("/settlements")
	settlementRoutes.Use(middleware.InternalOnly(internalToken))
	settlementRoutes.POST("/run", settlements.RunSettlementBatch)
	settlementRoutes.POST("/publish", settlements.RepublishSettlements)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
}
