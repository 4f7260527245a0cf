package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/escolar/admin-console/internal/core/domain"
)

var ErrPublishNacked = errors.New("broker did not confirm the audit event")

// RoutingKey is "audit.<entity>.<action>", e.g. "audit.alumno.deleted".
func RoutingKey(evt domain.AuditEvent) string {
	return fmt.Sprintf("audit.%s.%s", evt.Entity, evt.Action)
}

func auditMessage(evt domain.AuditEvent) (amqp.Publishing, error) {
	body, err := json.Marshal(evt)
	if err != nil {
		return amqp.Publishing{}, err
	}
	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    evt.ID,
		Timestamp:    evt.At,
		Type:         RoutingKey(evt),
		AppId:        "admin-console",
		Headers: amqp.Table{
			"actor_id":  int64(evt.ActorID),
			"target_id": int64(evt.TargetID),
		},
		Body: body,
	}, nil
}

// PublishAuditEvent publishes evt and waits for the broker's confirmation.
// A nack is an error so the relay leaves the outbox row pending.
func (rmq *RabbitMQBroker) PublishAuditEvent(ctx context.Context, evt domain.AuditEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg, err := auditMessage(evt)
	if err != nil {
		return err
	}

	_, err = rmq.cb.Execute(func() (interface{}, error) {
		confirm, err := rmq.ch.PublishWithDeferredConfirmWithContext(ctx, rmq.exchange, RoutingKey(evt), true, false, msg)
		if err != nil {
			return nil, err
		}
		acked, err := confirm.WaitContext(ctx)
		if err != nil {
			return nil, err
		}
		if !acked {
			return nil, ErrPublishNacked
		}
		return nil, nil
	})
	return err
}
