package queue

import amqp "github.com/rabbitmq/amqp091-go"

type ExchangeKind string

const (
	ExchangeDirect ExchangeKind = amqp.ExchangeDirect
	ExchangeTopic  ExchangeKind = amqp.ExchangeTopic // Default; consumers bind on session.*
	ExchangeFanout ExchangeKind = amqp.ExchangeFanout
)

const contentTypeJSON = "application/json"
