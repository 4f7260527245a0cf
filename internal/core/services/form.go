package services

import (
	"context"
	"fmt"

	"github.com/escolar/admin-console/internal/core/domain"
	"github.com/escolar/admin-console/internal/core/ports"
	"github.com/escolar/admin-console/internal/core/schema"
)

const MsgPasswordMismatch = "Las contraseñas no coinciden"

// FormController edits one draft record. The mode is fixed when the
// controller is created: edit when an identifier was supplied, create
// otherwise. The draft is always an owned copy of the supplied record.
type FormController[T any] struct {
	schema schema.Schema[T]
	client ports.ResourceClient[T]
	opts   controllerOptions

	mode   domain.FormMode
	id     int
	draft  *T
	errors domain.ValidationErrors
}

func NewFormController[T any](s schema.Schema[T], client ports.ResourceClient[T], id int, record *T, opts ...Option) *FormController[T] {
	c := &FormController[T]{
		schema: s,
		client: client,
		opts:   applyOptions(opts),
		id:     id,
		errors: domain.ValidationErrors{},
	}

	if id != 0 {
		c.mode = domain.ModeEdit
	}

	switch {
	case record != nil:
		c.draft = s.Clone(record)
	default:
		c.draft = s.New()
	}
	return c
}

func (c *FormController[T]) Mode() domain.FormMode {
	return c.mode
}

// Draft returns the record being edited. Mutating it changes the form only.
func (c *FormController[T]) Draft() *T {
	return c.draft
}

func (c *FormController[T]) Errors() domain.ValidationErrors {
	return c.errors
}

// Submit validates the draft and, when it passes, creates or updates it.
// Validation problems abort before any network call. In create mode the two
// password fields must match; on a mismatch both are cleared.
func (c *FormController[T]) Submit(ctx context.Context) (*T, string, error) {
	entity := c.schema.Entity
	label := capitalize(entity.Label)

	c.errors = c.schema.Validate(c.draft, c.mode)
	if !c.errors.Valid() {
		return nil, "", ErrValidation
	}

	if c.mode == domain.ModeCreate {
		if creds := c.credentials(); creds != nil && creds.Password != creds.ConfirmPassword {
			creds.ClearPasswords()
			return nil, "", &UserError{Message: MsgPasswordMismatch, Err: ErrPasswordMismatch}
		}

		saved, err := c.client.Create(ctx, c.draft)
		if err != nil {
			return nil, "", &UserError{
				Message: fmt.Sprintf("Error al registrar %s %s", entity.Article(), entity.Label),
				Err:     err,
			}
		}
		c.opts.audit.record(ctx, domain.AuditCreated, entity.Type, c.savedID(saved))
		return saved, fmt.Sprintf("%s %s exitosamente", label, entity.Agree("registrado")), nil
	}

	saved, err := c.client.Update(ctx, c.draft)
	if err != nil {
		return nil, "", &UserError{
			Message: fmt.Sprintf("No se pudo actualizar %s %s", entity.Article(), entity.Label),
			Err:     err,
		}
	}
	c.opts.audit.record(ctx, domain.AuditUpdated, entity.Type, c.id)
	return saved, fmt.Sprintf("%s %s correctamente", label, entity.Agree("actualizado")), nil
}

func (c *FormController[T]) credentials() *domain.Person {
	if c.schema.Credentials == nil {
		return nil
	}
	return c.schema.Credentials(c.draft)
}

func (c *FormController[T]) savedID(saved *T) int {
	if saved == nil {
		return 0
	}
	return c.schema.ID(saved)
}
