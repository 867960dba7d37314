package broker

import (
	"errors"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Session owns one connection and the channel opened on it.
type Session struct {
	conn *amqp.Connection
	ch   *amqp.Channel
}

// Dial connects to url and opens a channel.
func Dial(url string) (*Session, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial broker: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	return &Session{conn: conn, ch: ch}, nil
}

func (s *Session) Channel() Channel {
	return s.ch
}

// Close closes the channel, then the connection.
func (s *Session) Close() error {
	var errs []error
	if err := s.ch.Close(); err != nil && !errors.Is(err, amqp.ErrClosed) {
		errs = append(errs, fmt.Errorf("close channel: %w", err))
	}
	if err := s.conn.Close(); err != nil && !errors.Is(err, amqp.ErrClosed) {
		errs = append(errs, fmt.Errorf("close connection: %w", err))
	}
	return errors.Join(errs...)
}

var (
	// ErrConnectionLost is reported by Closed when the broker drops the connection.
	ErrConnectionLost = errors.New("broker: connection lost")
	// ErrChannelLost is reported by Closed when the broker closes the channel
	// with an exception while the connection stays up.
	ErrChannelLost = errors.New("broker: channel lost")
)

// closeNotifier is satisfied by both *amqp.Connection and *amqp.Channel.
type closeNotifier interface {
	NotifyClose(chan *amqp.Error) chan *amqp.Error
}

// Closed returns a channel that receives once when either the channel or the
// connection closes. A graceful Close delivers nil; a broker-side close
// delivers ErrChannelLost or ErrConnectionLost wrapping the reason.
func (s *Session) Closed() <-chan error {
	return watchClose(s.conn, s.ch)
}

func watchClose(conn, ch closeNotifier) <-chan error {
	out := make(chan error, 1)
	connClosed := conn.NotifyClose(make(chan *amqp.Error, 1))
	chClosed := ch.NotifyClose(make(chan *amqp.Error, 1))
	go func() {
		select {
		case reason, ok := <-chClosed:
			if ok && reason != nil {
				out <- fmt.Errorf("%w: %v", ErrChannelLost, reason)
				return
			}
		case reason, ok := <-connClosed:
			if ok && reason != nil {
				out <- fmt.Errorf("%w: %v", ErrConnectionLost, reason)
				return
			}
		}
		out <- nil
	}()
	return out
}
