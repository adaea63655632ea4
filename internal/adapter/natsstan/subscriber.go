package natsstan

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/example/cart-state-service/internal/domain"
	stan "github.com/nats-io/stan.go"
)

// locationEvent — wire form of a delivery-location change.
type locationEvent struct {
	Location domain.DeliveryLocation `json:"location"`
	Geo      domain.GeoPoint         `json:"geo"`
}

// LocationSubscriber delivers delivery-location changes from a STAN subject.
type LocationSubscriber struct {
	ClusterID string
	ClientID  string
	URL       string
	Subject   string
	Durable   string
}

func (s *LocationSubscriber) Subscribe(ctx context.Context, handler func(ctx context.Context, loc domain.DeliveryLocation, geo domain.GeoPoint) error) (func(), error) {
	clientID := s.ClientID
	if clientID == "" {
		clientID = fmt.Sprintf("cart-svc-%d", time.Now().UnixNano())
	}
	sc, err := stan.Connect(s.ClusterID, clientID, stan.NatsURL(s.URL))
	if err != nil {
		return nil, err
	}
	go func() {
		<-ctx.Done()
		sc.Close()
	}()
	sub, err := sc.QueueSubscribe(s.Subject, "cart-workers", func(m *stan.Msg) {
		var ev locationEvent
		if err := json.Unmarshal(m.Data, &ev); err != nil {
			log.Printf("invalid location event: %v", err)
			// переотправка не исправит битое сообщение, подтверждаем
			_ = m.Ack()
			return
		}
		hCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := handler(hCtx, ev.Location, ev.Geo); err != nil {
			// не подтверждаем, даём сообщению переотправиться
			log.Printf("location handler error: %v", err)
			return
		}
		if err := m.Ack(); err != nil {
			log.Printf("ack failed: %v", err)
		}
	}, stan.DurableName(s.Durable), stan.SetManualAckMode(), stan.AckWait(10*time.Second), stan.DeliverAllAvailable())
	if err != nil {
		sc.Close()
		return nil, err
	}
	stop := func() {
		// Close, not Unsubscribe: keeps the durable position for the next run.
		if err := sub.Close(); err != nil {
			log.Printf("subscription close: %v", err)
		}
		sc.Close()
	}
	return stop, nil
}

var _ domain.LocationSubscriber = (*LocationSubscriber)(nil)
