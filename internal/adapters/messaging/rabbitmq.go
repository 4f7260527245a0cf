package messaging

import (
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sony/gobreaker"

	"github.com/escolar/admin-console/internal/config"
	"github.com/escolar/admin-console/internal/core/ports"
)

// AuditExchange is the topic exchange audit events are published to. The
// queue receives every key under "audit.#"; other consumers can bind to a
// narrower pattern such as "audit.materia.*".
const AuditExchange = "console.audit"

// RabbitMQBroker publishes audit events with publisher confirms, so a
// publish only succeeds once the broker has taken the message.
type RabbitMQBroker struct {
	conn      *amqp.Connection
	ch        *amqp.Channel
	exchange  string
	queueName string
	cb        *gobreaker.CircuitBreaker
}

var _ ports.AuditPublisher = (*RabbitMQBroker)(nil)

func NewRabbitMQBroker(amqpURL, queueName string) (*RabbitMQBroker, error) {
	conn, err := amqp.Dial(amqpURL)
	if err != nil {
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}

	if err := declareAuditTopology(ch, queueName); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	if err := ch.Confirm(false); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("enable publisher confirms: %w", err)
	}

	return &RabbitMQBroker{
		conn:      conn,
		ch:        ch,
		exchange:  AuditExchange,
		queueName: queueName,
		cb:        config.NewCircuitBreaker("RabbitMQ-Audit"),
	}, nil
}

// declareAuditTopology declares the exchange, the durable queue and the
// binding between them. All three are idempotent.
func declareAuditTopology(ch *amqp.Channel, queueName string) error {
	if err := ch.ExchangeDeclare(AuditExchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare exchange %s: %w", AuditExchange, err)
	}
	if _, err := ch.QueueDeclare(queueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare queue %s: %w", queueName, err)
	}
	if err := ch.QueueBind(queueName, "audit.#", AuditExchange, false, nil); err != nil {
		return fmt.Errorf("bind queue %s: %w", queueName, err)
	}
	return nil
}

// IsOpen reports whether the broker connection is still usable.
func (rmq *RabbitMQBroker) IsOpen() bool {
	return rmq.conn != nil && !rmq.conn.IsClosed()
}

func (rmq *RabbitMQBroker) Close() error {
	if rmq.ch != nil {
		if err := rmq.ch.Close(); err != nil {
			return err
		}
	}
	if rmq.conn != nil {
		return rmq.conn.Close()
	}
	return nil
}
