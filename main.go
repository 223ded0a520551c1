package main

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/AhnKwangHyuny/faddy-pay-stream/controllers"
	"github.com/AhnKwangHyuny/faddy-pay-stream/database"
	"github.com/AhnKwangHyuny/faddy-pay-stream/gateway"
	"github.com/AhnKwangHyuny/faddy-pay-stream/kafka"
	applogger "github.com/AhnKwangHyuny/faddy-pay-stream/logger"
	"github.com/AhnKwangHyuny/faddy-pay-stream/models"
	"github.com/AhnKwangHyuny/faddy-pay-stream/repository"
	"github.com/AhnKwangHyuny/faddy-pay-stream/routes"
	"github.com/AhnKwangHyuny/faddy-pay-stream/services"
)

func main() {
	cfg := LoadConfig()

	logger, err := applogger.New(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	db, err := database.ConnectPostgres(logger,
		&models.Order{},
		&models.OrderItem{},
		&models.PaymentLedger{},
		&models.CardPayment{},
		&models.PaymentSettlements{},
	)
	if err != nil {
		logger.Fatal("Database connection failed", zap.Error(err))
	}
	database.DB = db
	defer database.Close()

	orderRepo := repository.NewGormOrderRepository(db)
	ledgerRepo := repository.NewGormPaymentLedgerRepository(db)
	settlementRepo := repository.NewGormSettlementRepository(db)
	details := repository.NewDetailRegistry(
		repository.NewCardTransactionRepository(db),
	)

	var processed services.IdempotencyStore
	if cfg.RedisURL != "" {
		client := database.NewRedisClient(cfg.RedisURL)
		processed = services.NewRedisIdempotencyStore(client, 24*time.Hour)
	} else {
		logger.Warn("REDIS_URL not set, using in-memory idempotency store")
		processed = services.NewMemoryIdempotencyStore()
	}

	var pg gateway.PaymentGateway
	switch {
	case cfg.UseMockGateway || cfg.TossSecretKey == "":
		logger.Warn("Using mock payment gateway; no real approvals will happen")
		pg = gateway.NewMockGateway()
	case cfg.TossBaseURL != "":
		pg = gateway.NewTossGatewayWithBaseURL(cfg.TossSecretKey, cfg.TossBaseURL)
	default:
		pg = gateway.NewTossGateway(cfg.TossSecretKey)
	}

	producer := kafka.NewProducer(cfg.KafkaBrokers, cfg.SettlementTopic)
	defer producer.Close()

	orderService := services.NewOrderService(orderRepo, logger)
	paymentService := services.NewPaymentService(pg, orderRepo, ledgerRepo, details, processed, logger)
	cancelService := services.NewCancelService(pg, orderRepo, ledgerRepo, logger)
	settlementService := services.NewSettlementService(pg, settlementRepo, ledgerRepo, producer, logger)

	if cfg.EnableConsumer {
		consumer := services.NewSettlementConsumer(cfg.KafkaBrokers, cfg.SettlementTopic, cfg.ConsumerGroup, settlementRepo)
		defer consumer.Close()
		go consumer.Start()
	}

	r := gin.New()
	r.Use(applogger.RequestLogger(logger), gin.Recovery())

	routes.RegisterRoutes(r,
		controllers.NewOrderController(orderService),
		controllers.NewPaymentController(paymentService, cancelService),
		controllers.NewSettlementController(settlementService),
		cfg.InternalToken,
	)

	logger.Info("Starting payments app", zap.String("port", cfg.Port), zap.String("env", cfg.Env))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Fatal("Server exited", zap.Error(err))
	}
}
