package broker

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/legaflow/internal/logging"
	"github.com/dmitrijs2005/legaflow/internal/metrics"
	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// AMQPPublisher publishes persistent JSON messages to a single exchange.
// Publisher confirms are not awaited.
type AMQPPublisher struct {
	ch       Channel
	exchange string
	log      logging.Logger
	metrics  *metrics.Metrics
}

func NewPublisher(ch Channel, exchange string, log logging.Logger, m *metrics.Metrics) *AMQPPublisher {
	return &AMQPPublisher{
		ch:       ch,
		exchange: exchange,
		log:      log.With("module", "broker"),
		metrics:  m,
	}
}

func (p *AMQPPublisher) Publish(ctx context.Context, routingKey string, body []byte) error {
	return p.publish(ctx, routingKey, "", body)
}

// Reply publishes body with the correlation id of the request it answers.
func (p *AMQPPublisher) Reply(ctx context.Context, routingKey, correlationID string, body []byte) error {
	return p.publish(ctx, routingKey, correlationID, body)
}

func (p *AMQPPublisher) publish(ctx context.Context, routingKey, correlationID string, body []byte) error {
	msg := amqp.Publishing{
		ContentType:   ContentTypeJSON,
		DeliveryMode:  amqp.Persistent,
		MessageId:     uuid.NewString(),
		CorrelationId: correlationID,
		Timestamp:     time.Now().UTC(),
		Body:          body,
	}

	err := p.ch.PublishWithContext(ctx, p.exchange, routingKey, false, false, msg)
	p.metrics.ObserveMessage("out", err)
	if err != nil {
		return fmt.Errorf("publish to %s/%s: %w", p.exchange, routingKey, err)
	}

	p.log.Debug(ctx, "message published",
		"exchange", p.exchange, "routing_key", routingKey, "message_id", msg.MessageId)
	return nil
}
