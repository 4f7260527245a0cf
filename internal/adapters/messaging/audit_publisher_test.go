package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/escolar/admin-console/internal/core/domain"
)

func TestPublishAuditEvent_ExpiredContext(t *testing.T) {
	broker := &RabbitMQBroker{queueName: "console_audit"}

	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()

	err := broker.PublishAuditEvent(ctx, domain.AuditEvent{ID: "evt-1", Entity: domain.EntityStudent, Action: domain.AuditDeleted})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestBroker_ClosedWithoutConnection(t *testing.T) {
	broker := &RabbitMQBroker{}

	if broker.IsOpen() {
		t.Error("broker without connection reported open")
	}
	if err := broker.Close(); err != nil {
		t.Errorf("Close on unconnected broker: %v", err)
	}
}

func TestRoutingKey(t *testing.T) {
	tests := []struct {
		evt  domain.AuditEvent
		want string
	}{
		{domain.AuditEvent{Entity: domain.EntityStudent, Action: domain.AuditDeleted}, "audit.alumno.deleted"},
		{domain.AuditEvent{Entity: domain.EntitySection, Action: domain.AuditCreated}, "audit.materia.created"},
	}
	for _, tt := range tests {
		if got := RoutingKey(tt.evt); got != tt.want {
			t.Errorf("RoutingKey() = %q, want %q", got, tt.want)
		}
	}
}

func TestAuditMessage(t *testing.T) {
	at := time.Date(2025, 2, 3, 10, 0, 0, 0, time.UTC)
	evt := domain.AuditEvent{ID: "evt-9", ActorID: 1, Entity: domain.EntityTeacher, Action: domain.AuditUpdated, TargetID: 7, At: at}

	msg, err := auditMessage(evt)
	if err != nil {
		t.Fatalf("auditMessage: %v", err)
	}
	if msg.MessageId != "evt-9" || msg.Type != "audit.maestro.updated" || !msg.Timestamp.Equal(at) {
		t.Errorf("unexpected properties: id=%q type=%q ts=%v", msg.MessageId, msg.Type, msg.Timestamp)
	}
	if msg.Headers["target_id"] != int64(7) || msg.Headers["actor_id"] != int64(1) {
		t.Errorf("unexpected headers: %v", msg.Headers)
	}

	var decoded domain.AuditEvent
	if err := json.Unmarshal(msg.Body, &decoded); err != nil {
		t.Fatalf("body is not an audit event: %v", err)
	}
	if decoded.TargetID != 7 || decoded.Action != domain.AuditUpdated {
		t.Errorf("unexpected body: %+v", decoded)
	}
}
