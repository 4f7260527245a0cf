package outbox

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/lib/pq"
	"github.com/sony/gobreaker"

	"github.com/escolar/admin-console/internal/config"
	"github.com/escolar/admin-console/internal/core/domain"
	"github.com/escolar/admin-console/internal/core/ports"
)

const (
	// PostgreSQL NOTIFY/LISTEN configuration
	listenerMinReconnectInterval = 10 * time.Second
	listenerMaxReconnectInterval = time.Minute
	ChannelName                  = "outbox_channel"

	// EventTypePrefix marks outbox rows that carry console audit events.
	EventTypePrefix = "audit."

	eventProcessTimeout     = 30 * time.Second
	batchProcessTimeout     = 60 * time.Second
	periodicProcessInterval = 90 * time.Second

	healthCheckStaleThreshold = 5 * time.Minute

	maxEventsPerBatch = 100
)

const markProcessed = `UPDATE outbox_events SET processed_at = NOW() WHERE id = $1`

// Relay listens for PostgreSQL NOTIFY signals on the outbox channel and
// publishes pending audit events to the broker.
type Relay struct {
	db        *sql.DB
	publisher ports.AuditPublisher
	listener  *pq.Listener
	dbURL     string
	dbCB      *gobreaker.CircuitBreaker

	mu            sync.RWMutex
	lastProcessed time.Time
	healthy       bool
}

func NewRelay(db *sql.DB, dbURL string, publisher ports.AuditPublisher) *Relay {
	return &Relay{
		db:            db,
		dbURL:         dbURL,
		publisher:     publisher,
		dbCB:          config.NewCircuitBreaker("Relay-PostgreSQL"),
		lastProcessed: time.Now(),
		healthy:       true,
	}
}

// IsHealthy reports whether the relay loop is alive. An open breaker is
// degraded, not dead, so it is not considered here.
func (r *Relay) IsHealthy() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.healthy
}

// IsReady reports whether the relay can currently deliver events.
func (r *Relay) IsReady() bool {
	if r.dbCB.State() == gobreaker.StateOpen {
		return false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	if time.Since(r.lastProcessed) > healthCheckStaleThreshold {
		return false
	}
	return r.healthy
}

func (r *Relay) markHealthy(ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.healthy = ok
	if ok {
		r.lastProcessed = time.Now()
	}
}

// Start blocks until ctx is cancelled, relaying events as notifications
// arrive and sweeping the backlog periodically.
func (r *Relay) Start(ctx context.Context) error {
	reportProblem := func(ev pq.ListenerEventType, err error) {
		if err != nil {
			log.Printf("relay: listener error: %v", err)
		}
	}

	r.listener = pq.NewListener(r.dbURL, listenerMinReconnectInterval, listenerMaxReconnectInterval, reportProblem)
	defer r.listener.Close()

	if err := r.listener.Listen(ChannelName); err != nil {
		return err
	}

	log.Printf("relay: listening on '%s' for notifications...", ChannelName)

	if err := r.processPending(ctx); err != nil {
		log.Printf("relay: error processing startup backlog: %v", err)
	}

	ticker := time.NewTicker(periodicProcessInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("relay: shutting down...")
			return ctx.Err()

		case notification := <-r.listener.Notify:
			if notification == nil {
				log.Println("relay: received nil notification (reconnecting...)")
				r.markHealthy(false)
				continue
			}

			if err := r.processByID(ctx, notification.Extra); err != nil {
				log.Printf("relay: error processing event %s: %v", notification.Extra, err)
				continue
			}
			r.markHealthy(true)

		case <-ticker.C:
			go r.listener.Ping()

			if err := r.processPending(ctx); err != nil {
				log.Printf("relay: error in periodic processing: %v", err)
				continue
			}
			r.markHealthy(true)
		}
	}
}

func (r *Relay) processByID(ctx context.Context, eventID string) error {
	ctx, cancel := context.WithTimeout(ctx, eventProcessTimeout)
	defer cancel()

	_, err := r.dbCB.Execute(func() (interface{}, error) {
		tx, err := r.db.BeginTx(ctx, nil)
		if err != nil {
			return nil, err
		}
		defer tx.Rollback()

		var rec row
		err = tx.QueryRowContext(ctx, `
			SELECT id, event_type, payload
			FROM outbox_events
			WHERE id = $1 AND processed_at IS NULL
			FOR UPDATE SKIP LOCKED`, eventID).Scan(&rec.ID, &rec.EventType, &rec.Payload)
		if err == sql.ErrNoRows {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}

		if err := r.deliver(ctx, rec); err != nil {
			return nil, err
		}
		if _, err := tx.ExecContext(ctx, markProcessed, rec.ID); err != nil {
			return nil, err
		}
		return nil, tx.Commit()
	})
	return err
}

func (r *Relay) processPending(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, batchProcessTimeout)
	defer cancel()

	_, err := r.dbCB.Execute(func() (interface{}, error) {
		tx, err := r.db.BeginTx(ctx, nil)
		if err != nil {
			return nil, err
		}
		defer tx.Rollback()

		rows, err := tx.QueryContext(ctx, `
			SELECT id, event_type, payload
			FROM outbox_events
			WHERE processed_at IS NULL
			ORDER BY created_at
			LIMIT $1
			FOR UPDATE SKIP LOCKED`, maxEventsPerBatch)
		if err != nil {
			return nil, err
		}

		var pending []row
		for rows.Next() {
			var rec row
			if err := rows.Scan(&rec.ID, &rec.EventType, &rec.Payload); err != nil {
				rows.Close()
				return nil, err
			}
			pending = append(pending, rec)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return nil, err
		}

		for _, rec := range pending {
			if err := r.deliver(ctx, rec); err != nil {
				log.Printf("relay: failed to publish event %s: %v", rec.ID, err)
				continue
			}
			if _, err := tx.ExecContext(ctx, markProcessed, rec.ID); err != nil {
				return nil, err
			}
			log.Printf("relay: processed event %s", rec.ID)
		}
		return nil, tx.Commit()
	})
	return err
}

type row struct {
	ID        string
	EventType string
	Payload   []byte
}

// deliver publishes one outbox row. Rows that are not audit events or whose
// payload cannot be decoded return nil so they are marked processed and not
// retried forever.
func (r *Relay) deliver(ctx context.Context, rec row) error {
	evt, ok, err := decode(rec)
	if err != nil {
		log.Printf("relay: invalid payload for event %s: %v", rec.ID, err)
		return nil
	}
	if !ok {
		return nil
	}
	return r.publisher.PublishAuditEvent(ctx, evt)
}

func decode(rec row) (domain.AuditEvent, bool, error) {
	if !strings.HasPrefix(rec.EventType, EventTypePrefix) {
		return domain.AuditEvent{}, false, nil
	}

	var evt domain.AuditEvent
	if err := json.Unmarshal(rec.Payload, &evt); err != nil {
		return domain.AuditEvent{}, false, fmt.Errorf("decode %s: %w", rec.EventType, err)
	}
	if evt.ID == "" {
		evt.ID = rec.ID
	}
	return evt, true, nil
}
