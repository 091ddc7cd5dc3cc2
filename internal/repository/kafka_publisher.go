package repository

import (
	"context"
	"fmt"

	"SIPScope/internal/domain/models"
	domrepo "SIPScope/internal/domain/repository"
	pkgkafka "SIPScope/pkg/kafka"
)

// KafkaRankingsPublisher broadcasts finished ranking tables, one
// message per grouping dimension, keyed by symbol/dimension so
// consumers get per-key ordering.
type KafkaRankingsPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

// NewKafkaRankingsPublisher creates a Kafka rankings publisher.
func NewKafkaRankingsPublisher(producer *pkgkafka.Producer, topic string) domrepo.Publisher {
	return &KafkaRankingsPublisher{producer: producer, topic: topic}
}

// PublishRankings sends every ranking table of the analysis.
func (p *KafkaRankingsPublisher) PublishRankings(ctx context.Context, a *models.Analysis) error {
	for _, dim := range models.Dimensions {
		t := a.Table(dim)
		if t == nil {
			continue
		}
		key := []byte(a.Symbol + "/" + string(dim))
		msg := map[string]interface{}{
			"symbol":       a.Symbol,
			"dimension":    string(dim),
			"generated_at": a.GeneratedAt,
			"from":         a.From,
			"to":           a.To,
			"buckets":      t.Buckets,
		}
		if err := p.producer.Publish(ctx, p.topic, key, msg); err != nil {
			return fmt.Errorf("publish %s rankings: %w", dim, err)
		}
	}
	return nil
}

// Close flushes and closes the underlying producer.
func (p *KafkaRankingsPublisher) Close() error {
	return p.producer.Close()
}
