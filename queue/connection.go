package queue

import (
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

type Connection struct {
	Conn *amqp.Connection
	Ch   *amqp.Channel
}

// NewConnection dials the broker, opens a channel and declares the configured
// exchange on it.
func NewConnection(config ConnectionConfig) (*Connection, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("queue: invalid config: %w", err)
	}

	// Establish a connection to the AMQP server
	conn, err := amqp.Dial(config.URI)
	if err != nil {
		return nil, fmt.Errorf("queue: dial: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("queue: open channel: %w", err)
	}

	kind := config.Exchange.Kind
	if kind == "" {
		kind = ExchangeTopic
	}
	if err := ch.ExchangeDeclare(
		config.Exchange.Name,
		string(kind),
		config.Exchange.Durable,
		config.Exchange.AutoDelete,
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("queue: declare exchange %s: %w", config.Exchange.Name, err)
	}

	return &Connection{conn, ch}, nil
}

func (c *Connection) Close() error {
	return c.Conn.Close()
}
