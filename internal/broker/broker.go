// Package broker wraps an AMQP 0-9-1 channel with the two operations the
// services need: publishing JSON messages to an exchange and running a
// prefetch-one consume loop that answers each request on a reply routing key.
package broker

import (
	"context"
	"errors"

	amqp "github.com/rabbitmq/amqp091-go"
)

// ContentTypeJSON is set on every published message.
const ContentTypeJSON = "application/json"

// ErrConsumerClosed is returned by Consumer.Run when the broker closes the
// delivery channel underneath it.
var ErrConsumerClosed = errors.New("broker: delivery channel closed")

// Publisher sends one message body under a routing key.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, body []byte) error
}

// Channel is the subset of *amqp.Channel used here.
type Channel interface {
	Qos(prefetchCount, prefetchSize int, global bool) error
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

var _ Channel = (*amqp.Channel)(nil)
