package kafka

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/example/cart-state-service/internal/domain"
	"github.com/segmentio/kafka-go"
)

// MarketingPublisher emits cart milestones to a Kafka topic for the marketing
// pipeline. With no brokers configured it is disabled.
type MarketingPublisher struct {
	writer *kafka.Writer
}

func NewMarketingPublisher(brokersCSV, topic string) *MarketingPublisher {
	brokers := []string{}
	for _, b := range strings.Split(brokersCSV, ",") {
		b = strings.TrimSpace(b)
		if b != "" {
			brokers = append(brokers, b)
		}
	}
	if len(brokers) == 0 {
		return &MarketingPublisher{}
	}
	return &MarketingPublisher{writer: &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
	}}
}

func (p *MarketingPublisher) Enabled() bool {
	return p.writer != nil
}

func (p *MarketingPublisher) Notify(ctx context.Context, ev domain.CartEvent) error {
	if p.writer == nil {
		return nil
	}
	value, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	key := ev.Kind
	if ev.Item != nil {
		key = ev.Item.ProductID
	}
	return p.writer.WriteMessages(ctx, kafka.Message{Key: []byte(key), Value: value, Time: ev.OccurredAt})
}

func (p *MarketingPublisher) Close() error {
	if p.writer == nil {
		return nil
	}
	return p.writer.Close()
}

var _ domain.MarketingNotifier = (*MarketingPublisher)(nil)
