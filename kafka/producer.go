package kafka

import (
	"context"
	"log"

	"github.com/segmentio/kafka-go"
)

// ProducerAPI is the message-channel producer contract. Publish acknowledges
// the send, not downstream delivery.
type ProducerAPI interface {
	Publish(topic string, message []byte) error
	Close() error
}

type Producer struct {
	writer *kafka.Writer
	topic  string
}

func NewProducer(brokers []string, topic string) *Producer {
	w := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Balancer: &kafka.LeastBytes{},
	}
	log.Printf("[PaymentsApp][KafkaProducer] initialized topic=%s brokers=%v", topic, brokers)
	return &Producer{writer: w, topic: topic}
}

func (p *Producer) Publish(topic string, message []byte) error {
	msg := kafka.Message{
		Topic: topic,
		Value: message,
	}
	return p.writer.WriteMessages(context.Background(), msg)
}

func (p *Producer) Close() error {
	log.Printf("[PaymentsApp][KafkaProducer] closing writer topic=%s", p.topic)
	return p.writer.Close()
}
