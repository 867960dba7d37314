package broker

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/legaflow/internal/logging"
	"github.com/dmitrijs2005/legaflow/internal/metrics"
	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// Handler processes one message body. A non-nil reply is published on the
// consumer's reply routing key. Errors are logged and the message is still
// acknowledged; redelivery is never requested.
type Handler func(ctx context.Context, body []byte) ([]byte, error)

// Consumer reads one queue with a prefetch of one.
type Consumer struct {
	ch       Channel
	queue    string
	replyKey string
	replies  *AMQPPublisher
	log      logging.Logger
	metrics  *metrics.Metrics
}

// NewConsumer returns a consumer of queue. Replies go to exchange under
// replyKey; an empty replyKey disables replies.
func NewConsumer(ch Channel, queue, exchange, replyKey string, log logging.Logger, m *metrics.Metrics) *Consumer {
	return &Consumer{
		ch:       ch,
		queue:    queue,
		replyKey: replyKey,
		replies:  NewPublisher(ch, exchange, log, m),
		log:      log.With("module", "consumer", "queue", queue),
		metrics:  m,
	}
}

// Run consumes until ctx is cancelled (returns nil) or the delivery channel
// closes (returns ErrConsumerClosed). A message being handled when ctx is
// cancelled is finished and acknowledged first.
func (c *Consumer) Run(ctx context.Context, h Handler) error {
	if err := c.ch.Qos(1, 0, false); err != nil {
		return fmt.Errorf("set prefetch: %w", err)
	}

	deliveries, err := c.ch.Consume(c.queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume %s: %w", c.queue, err)
	}

	c.log.Info(ctx, "consuming")

	for {
		select {
		case <-ctx.Done():
			c.log.Info(ctx, "consumer stopping")
			return nil
		case d, ok := <-deliveries:
			if !ok {
				return ErrConsumerClosed
			}
			c.handle(context.WithoutCancel(ctx), d, h)
		}
	}
}

func (c *Consumer) handle(ctx context.Context, d amqp.Delivery, h Handler) {
	corrID := correlationID(d)
	log := c.log.With("delivery_tag", d.DeliveryTag, "correlation_id", corrID)

	reply, err := h(ctx, d.Body)
	c.metrics.ObserveMessage("in", err)
	if err != nil {
		log.Error(ctx, "message handling failed", "error", err)
	}

	if reply != nil && c.replyKey != "" {
		if err := c.replies.Reply(ctx, c.replyKey, corrID, reply); err != nil {
			log.Error(ctx, "reply not published", "error", err)
		}
	}

	if err := d.Ack(false); err != nil {
		log.Error(ctx, "ack failed", "error", err)
	}
}

// correlationID prefers the sender's correlation id, then its message id,
// and mints a fresh one when the sender set neither.
func correlationID(d amqp.Delivery) string {
	switch {
	case d.CorrelationId != "":
		return d.CorrelationId
	case d.MessageId != "":
		return d.MessageId
	}
	return uuid.NewString()
}
