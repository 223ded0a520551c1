package services

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"

	"github.com/segmentio/kafka-go"

	"github.com/AhnKwangHyuny/faddy-pay-stream/models"
	"github.com/AhnKwangHyuny/faddy-pay-stream/repository"
)

// SettlementConsumer tails the settlements topic and records incoming batches
// as settlement rows awaiting reconciliation.
type SettlementConsumer struct {
	reader         *kafka.Reader
	settlementRepo repository.SettlementRepository
	topic          string
	group          string
}

func NewSettlementConsumer(brokers []string, topic, groupID string, settlementRepo repository.SettlementRepository) *SettlementConsumer {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  groupID,
		MinBytes: 1e3,
		MaxBytes: 10e6,
	})
	log.Printf("[PaymentsApp][SettlementConsumer] initialized topic=%s group=%s brokers=%v", topic, groupID, brokers)
	return &SettlementConsumer{reader: r, settlementRepo: settlementRepo, topic: topic, group: groupID}
}

func (sc *SettlementConsumer) Start() {
	log.Printf("[PaymentsApp][SettlementConsumer] listening topic=%s group=%s", sc.topic, sc.group)

	for {
		m, err := sc.reader.ReadMessage(context.Background())
		if err != nil {
			// ReadMessage returns io.EOF once the reader is closed
			if errors.Is(err, io.EOF) {
				log.Printf("[PaymentsApp][SettlementConsumer] reader closed, stopping topic=%s group=%s", sc.topic, sc.group)
				return
			}
			log.Printf("❌ [PaymentsApp][SettlementConsumer] read error: %v", err)
			continue
		}

		var evt models.SettlementBatchEvent
		if err := json.Unmarshal(m.Value, &evt); err != nil {
			log.Printf("❌ [PaymentsApp][SettlementConsumer] invalid JSON: %v payload=%s", err, string(m.Value))
			continue
		}
		if len(evt.Settlements) == 0 {
			log.Printf("⚠️  [PaymentsApp][SettlementConsumer] empty batch, skipping")
			continue
		}

		log.Printf("ℹ️  [PaymentsApp][SettlementConsumer] received batch: count=%d timestamp=%s", len(evt.Settlements), evt.Timestamp)
		sc.recordBatch(context.Background(), evt)
	}
}

// recordBatch stores incoming rows tagged SETTLEMENTS_REQUESTED; malformed
// records are dropped individually so one bad row does not poison the batch.
func (sc *SettlementConsumer) recordBatch(ctx context.Context, evt models.SettlementBatchEvent) {
	rows := make([]models.PaymentSettlements, 0, len(evt.Settlements))
	for _, record := range evt.Settlements {
		row, err := record.ToSettlement(models.SettlementsRequested)
		if err != nil {
			log.Printf("❌ [PaymentsApp][SettlementConsumer] invalid record payment_key=%s: %v", record.PaymentKey, err)
			continue
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return
	}

	if err := sc.settlementRepo.BulkInsert(ctx, rows); err != nil {
		log.Printf("❌ [PaymentsApp][SettlementConsumer] failed to store batch: %v", err)
		return
	}
	log.Printf("✅ [PaymentsApp][SettlementConsumer] stored batch: count=%d", len(rows))
}

func (sc *SettlementConsumer) Close() error {
	log.Printf("[PaymentsApp][SettlementConsumer] closing reader topic=%s group=%s", sc.topic, sc.group)
	return sc.reader.Close()
}
