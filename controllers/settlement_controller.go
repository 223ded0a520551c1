package controllers

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/AhnKwangHyuny/faddy-pay-stream/services"
)

type SettlementController struct {
	Settlements *services.SettlementService
}

func NewSettlementController(settlements *services.SettlementService) *SettlementController {
	return &SettlementController{Settlements: settlements}
}

// RunSettlementBatch pulls the trailing settlement window from the gateway,
// persists it, and publishes the batch. Normally invoked by a scheduler.
func (sc *SettlementController) RunSettlementBatch(c *gin.Context) {
	settlements, err := sc.Settlements.FetchAndPersistSettlements(c.Request.Context(), time.Now())
	if err != nil {
		log.Printf("❌ [RunSettlementBatch] Failed: %v", err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "settlement batch completed",
		"count":   len(settlements),
	})
}

// RepublishSettlements resends the trailing window to the settlements topic
// without re-persisting it.
func (sc *SettlementController) RepublishSettlements(c *gin.Context) {
	count, err := sc.Settlements.RepublishSettlements(c.Request.Context(), time.Now())
	if err != nil {
		log.Printf("❌ [RepublishSettlements] Failed: %v", err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "settlement batch republished",
		"count":   count,
	})
}
