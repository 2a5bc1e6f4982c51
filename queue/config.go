package queue

import (
	"github.com/go-playground/validator/v10"
)

type ConnectionConfig struct {
	// URI: The RabbitMQ connection URI, which includes the address, port, and authentication credentials if necessary
	URI string `validate:"required,url"`
	// Exchange: The exchange declared when the connection opens. Session events are published to it.
	Exchange ExchangeConfig `validate:"required"`
}

type ExchangeConfig struct {
	// Name: The name of the exchange.
	Name string `validate:"required"`
	// Kind: The exchange type. Defaults to topic.
	Kind ExchangeKind `validate:"omitempty,oneof=direct topic fanout"`
	// Durable: Indicates whether the exchange survives broker restarts.
	Durable bool
	// AutoDelete: Indicates whether the exchange is deleted once no queue is bound to it.
	AutoDelete bool
}

type PublishConfig struct {
	// Exchange: The name of the exchange to be used for message publishing.
	Exchange string `validate:"required"`
	// RoutingKey: The routing key to be used for message publishing.
	RoutingKey string `validate:"required"`
	// ContentType: The content type of the message to be published.
	// Defaults to "application/json".
	ContentType string
	// DeliveryMode: The delivery mode of the message to be published.
	// 1 = transient
	// 2 = persistent
	DeliveryMode uint8 `validate:"omitempty,oneof=1 2"`
}

func (c *ConnectionConfig) Validate() error {
	return validator.New(validator.WithRequiredStructEnabled()).Struct(c)
}

func (c *PublishConfig) Validate() error {
	return validator.New(validator.WithRequiredStructEnabled()).Struct(c)
}

// See https://www.rabbitmq.com/tutorials/amqp-concepts-tutorial.html
