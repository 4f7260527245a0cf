package services

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/escolar/admin-console/internal/core/domain"
	"github.com/escolar/admin-console/internal/core/ports"
)

type auditor struct {
	recorder ports.AuditRecorder
	actor    *domain.Session
}

// record never fails the user action; audit problems are logged.
func (a *auditor) record(ctx context.Context, action domain.AuditAction, entity domain.EntityType, targetID int) {
	if a == nil || a.recorder == nil {
		return
	}

	evt := domain.AuditEvent{
		ID:       uuid.NewString(),
		Action:   action,
		Entity:   entity,
		TargetID: targetID,
		At:       time.Now().UTC(),
	}
	if a.actor != nil {
		evt.ActorID = a.actor.UserID
		evt.Actor = a.actor.FullName()
		evt.Role = a.actor.Role
	}

	if err := a.recorder.Record(ctx, evt); err != nil {
		log.Printf("audit: failed to record %s %s %d: %v", action, entity, targetID, err)
	}
}

type controllerOptions struct {
	audit       *auditor
	deleteGuard func(id int) error
	pageSize    int
	noReload    bool
}

type Option func(*controllerOptions)

// WithAudit records successful writes on behalf of actor.
func WithAudit(recorder ports.AuditRecorder, actor *domain.Session) Option {
	return func(o *controllerOptions) {
		o.audit = &auditor{recorder: recorder, actor: actor}
	}
}

// WithDeleteGuard rejects a delete before the confirmation is shown.
func WithDeleteGuard(guard func(id int) error) Option {
	return func(o *controllerOptions) {
		o.deleteGuard = guard
	}
}

// WithoutReload skips the page 1 reload after a delete, for callers that
// redirect to a fresh list anyway.
func WithoutReload() Option {
	return func(o *controllerOptions) {
		o.noReload = true
	}
}

func WithPageSize(size int) Option {
	return func(o *controllerOptions) {
		o.pageSize = size
	}
}

func applyOptions(opts []Option) controllerOptions {
	o := controllerOptions{pageSize: domain.DefaultPageSize}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
