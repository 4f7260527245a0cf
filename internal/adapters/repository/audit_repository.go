package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"log"

	"github.com/sony/gobreaker"

	"github.com/escolar/admin-console/internal/config"
	"github.com/escolar/admin-console/internal/core/domain"
	"github.com/escolar/admin-console/internal/core/ports"
)

// Schema creates the outbox table and the trigger that wakes the relay.
const Schema = `
CREATE TABLE IF NOT EXISTS outbox_events (
	id           TEXT PRIMARY KEY,
	event_type   TEXT NOT NULL,
	payload      JSONB NOT NULL,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	processed_at TIMESTAMPTZ
);

CREATE INDEX IF NOT EXISTS outbox_events_pending_idx
	ON outbox_events (created_at) WHERE processed_at IS NULL;

CREATE OR REPLACE FUNCTION notify_outbox_event() RETURNS trigger AS $$
BEGIN
	PERFORM pg_notify('outbox_channel', NEW.id);
	RETURN NEW;
END;
$$ LANGUAGE plpgsql;

DROP TRIGGER IF EXISTS outbox_events_notify ON outbox_events;
CREATE TRIGGER outbox_events_notify
	AFTER INSERT ON outbox_events
	FOR EACH ROW EXECUTE FUNCTION notify_outbox_event();
`

// SQLAuditRepository writes audit events to the outbox table.
type SQLAuditRepository struct {
	db *sql.DB
	cb *gobreaker.CircuitBreaker
}

var _ ports.AuditRecorder = (*SQLAuditRepository)(nil)

func NewSQLAuditRepository(db *sql.DB) *SQLAuditRepository {
	return &SQLAuditRepository{
		db: db,
		cb: config.NewCircuitBreaker("PostgreSQL-Audit"),
	}
}

// EnsureSchema applies Schema; it is safe to run on every start.
func (r *SQLAuditRepository) EnsureSchema(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, Schema)
	return err
}

func (r *SQLAuditRepository) Record(ctx context.Context, evt domain.AuditEvent) error {
	eventType, payload, err := outboxRow(evt)
	if err != nil {
		return err
	}

	_, err = r.cb.Execute(func() (interface{}, error) {
		_, err := r.db.ExecContext(ctx,
			"INSERT INTO outbox_events (id, event_type, payload, created_at) VALUES ($1, $2, $3, $4)",
			evt.ID,
			eventType,
			payload,
			evt.At,
		)
		return nil, err
	})
	return err
}

func (r *SQLAuditRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func outboxRow(evt domain.AuditEvent) (string, []byte, error) {
	payload, err := json.Marshal(evt)
	if err != nil {
		return "", nil, err
	}
	return "audit." + string(evt.Action), payload, nil
}

// LogAuditRecorder writes audit events to the process log. It is used when
// no audit database is configured.
type LogAuditRecorder struct{}

var _ ports.AuditRecorder = LogAuditRecorder{}

func (LogAuditRecorder) Record(ctx context.Context, evt domain.AuditEvent) error {
	log.Printf("audit: %s %s %s id=%d by user %d (%s)",
		evt.ID, evt.Action, evt.Entity, evt.TargetID, evt.ActorID, evt.Role)
	return nil
}
