package repository

import (
	"context"
	"fmt"

	"VietPulse/internal/domain/models"
	"VietPulse/internal/domain/repository"
	pkgkafka "VietPulse/pkg/kafka"
)

// KafkaPublisher implements Publisher for Kafka. One message per refresh
// cycle, keyed by fetch date so a day's observations land in one partition.
type KafkaPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

// NewKafkaPublisher creates Kafka publisher.
func NewKafkaPublisher(producer *pkgkafka.Producer, topic string) repository.Publisher {
	return &KafkaPublisher{producer: producer, topic: topic}
}

func (p *KafkaPublisher) Publish(ctx context.Context, md *models.MarketData) error {
	if md == nil {
		return fmt.Errorf("market data is nil")
	}
	key := []byte(md.FetchedAt.Format("2006-01-02"))
	return p.producer.Publish(ctx, p.topic, key, md)
}

func (p *KafkaPublisher) Close() error {
	return p.producer.Close()
}
