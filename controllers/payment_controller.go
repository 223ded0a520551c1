package controllers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AhnKwangHyuny/faddy-pay-stream/services"
)

type PaymentController struct {
	Payments *services.PaymentService
	Cancels  *services.CancelService
}

func NewPaymentController(payments *services.PaymentService, cancels *services.CancelService) *PaymentController {
	return &PaymentController{Payments: payments, Cancels: cancels}
}

// ApprovePayment confirms a payment with the gateway after checkout redirects back
func (pc *PaymentController) ApprovePayment(c *gin.Context) {
	var req services.ApprovePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("[ApprovePayment] Invalid payload: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	outcome, err := pc.Payments.ApprovePayment(c.Request.Context(), &req)
	if err != nil {
		log.Printf("❌ [ApprovePayment] payment_key=%s: %v", req.PaymentKey, err)
		respondError(c, err)
		return
	}

	if outcome != services.ApprovalSuccess {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"result": string(outcome)})
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": string(outcome)})
}

// CancelPayment cancels all or part of an approved payment
func (pc *PaymentController) CancelPayment(c *gin.Context) {
	var req services.CancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("[CancelPayment] Invalid payload: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	result := pc.Cancels.Cancel(c.Request.Context(), &req)
	if !result.Success {
		log.Printf("⚠️ [CancelPayment] payment_key=%s rejected: %s", req.PaymentKey, result.Message)
		c.JSON(http.StatusUnprocessableEntity, result)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetPaymentHistory returns every ledger row for a payment key
func (pc *PaymentController) GetPaymentHistory(c *gin.Context) {
	paymentKey := c.Param("payment_key")

	ledgers, err := pc.Payments.GetPaymentHistory(c.Request.Context(), paymentKey)
	if err != nil {
		log.Printf("⚠️ [GetPaymentHistory] payment_key=%s: %v", paymentKey, err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, ledgers)
}

// GetLatestPayment returns the current ledger state for a payment key
func (pc *PaymentController) GetLatestPayment(c *gin.Context) {
	paymentKey := c.Param("payment_key")

	ledger, err := pc.Payments.GetLatestPayment(c.Request.Context(), paymentKey)
	if err != nil {
		log.Printf("⚠️ [GetLatestPayment] payment_key=%s: %v", paymentKey, err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, ledger)
}
