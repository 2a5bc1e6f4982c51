package queue

import (
	"context"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

type Publisher interface {
	Publish(ctx context.Context, body []byte) error
	Close() error
}

type publisher struct {
	// amqp channels must not be used for publishing from several goroutines
	// at once.
	mu     sync.Mutex
	ch     *amqp.Channel
	config PublishConfig
	now    func() time.Time
}

func NewPublisher(ch *amqp.Channel, config PublishConfig) (Publisher, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if config.ContentType == "" {
		config.ContentType = contentTypeJSON
	}
	return &publisher{ch: ch, config: config, now: time.Now}, nil
}

// Publish publishes a message to the configured exchange and routing key.
func (p *publisher) Publish(ctx context.Context, body []byte) error {
	message := amqp.Publishing{
		ContentType:  p.config.ContentType,
		DeliveryMode: p.config.DeliveryMode,
		Timestamp:    p.now().UTC(),
		Body:         body,
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	return p.ch.PublishWithContext(
		ctx,
		p.config.Exchange,
		p.config.RoutingKey,
		false, // mandatory
		false, // immediate
		message,
	)
}

// Close closes the publisher's channel. The connection stays open.
func (p *publisher) Close() error {
	return p.ch.Close()
}
