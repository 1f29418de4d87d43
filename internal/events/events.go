// Package events publishes domain events after a unit of work commits.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fekuna/omnipos-mrp-service/pkg/broker"
	"github.com/fekuna/omnipos-mrp-service/pkg/logger"
)

const (
	StockAdjusted      = "stock.adjusted"
	WipBatchCreated    = "wip.created"
	WipBatchCompleted  = "wip.completed"
	OrderCreated       = "order.created"
	OrderStatusChanged = "order.status_changed"
	OrderDeleted       = "order.deleted"
)

type Event struct {
	EventID     string    `json:"event_id"`
	EventType   string    `json:"event_type"`
	AggregateID string    `json:"aggregate_id"`
	Payload     any       `json:"payload"`
	Timestamp   time.Time `json:"timestamp"`
}

func New(eventType, aggregateID string, payload any) Event {
	return Event{
		EventID:     uuid.New().String(),
		EventType:   eventType,
		AggregateID: aggregateID,
		Payload:     payload,
		Timestamp:   time.Now().UTC(),
	}
}

type Publisher interface {
	Publish(ctx context.Context, evt Event) error
}

type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, Event) error { return nil }

type KafkaPublisher struct {
	producer *broker.KafkaProducer
}

func NewKafkaPublisher(p *broker.KafkaProducer) *KafkaPublisher {
	return &KafkaPublisher{producer: p}
}

func (k *KafkaPublisher) Publish(ctx context.Context, evt Event) error {
	body, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	return k.producer.Publish(ctx, evt.AggregateID, body, map[string]string{"event-type": evt.EventType})
}

// Emit publishes evt and only logs a failure; the state change it reports
// has already been committed.
func Emit(ctx context.Context, p Publisher, log logger.ZapLogger, evt Event) {
	if p == nil {
		return
	}
	if err := p.Publish(ctx, evt); err != nil {
		log.Warn("failed to publish event",
			zap.String("event_type", evt.EventType),
			zap.String("aggregate_id", evt.AggregateID),
			zap.Error(err),
		)
	}
}
