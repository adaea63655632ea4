package natsstan

import (
	"context"
	"encoding/json"

	"github.com/example/cart-state-service/internal/domain"
	stan "github.com/nats-io/stan.go"
)

// EventPublisher emits cart analytics events to a STAN subject.
type EventPublisher struct {
	conn    stan.Conn
	subject string
}

func NewEventPublisher(clusterID, clientID, url, subject string) (*EventPublisher, error) {
	sc, err := stan.Connect(clusterID, clientID, stan.NatsURL(url))
	if err != nil {
		return nil, err
	}
	return &EventPublisher{conn: sc, subject: subject}, nil
}

func (p *EventPublisher) Publish(_ context.Context, ev domain.CartEvent) error {
	b, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return p.conn.Publish(p.subject, b)
}

func (p *EventPublisher) Close() error {
	return p.conn.Close()
}

var _ domain.AnalyticsSink = (*EventPublisher)(nil)
