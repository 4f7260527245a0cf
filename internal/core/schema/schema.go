// Package schema binds each entity type to its record constructor, copy,
// identifier and validator so the generic list and form controllers can
// drive any of them.
package schema

import (
	"github.com/escolar/admin-console/internal/core/domain"
	"github.com/escolar/admin-console/internal/core/validator"
)

type Schema[T any] struct {
	Entity   domain.Entity
	New      func() *T
	Clone    func(*T) *T
	ID       func(*T) int
	Validate func(*T, domain.FormMode) domain.ValidationErrors
	// Credentials exposes the password fields; nil for records without them.
	Credentials func(*T) *domain.Person
}

var Students = Schema[domain.Student]{
	Entity: domain.Students,
	New: func() *domain.Student {
		return &domain.Student{Person: domain.Person{Role: domain.RoleStudent}}
	},
	Clone:       (*domain.Student).Clone,
	ID:          func(s *domain.Student) int { return s.ID },
	Validate:    validator.Student,
	Credentials: func(s *domain.Student) *domain.Person { return &s.Person },
}

var Teachers = Schema[domain.Teacher]{
	Entity: domain.Teachers,
	New: func() *domain.Teacher {
		return &domain.Teacher{Person: domain.Person{Role: domain.RoleTeacher}}
	},
	Clone:       (*domain.Teacher).Clone,
	ID:          func(t *domain.Teacher) int { return t.ID },
	Validate:    validator.Teacher,
	Credentials: func(t *domain.Teacher) *domain.Person { return &t.Person },
}

var Admins = Schema[domain.Admin]{
	Entity: domain.Admins,
	New: func() *domain.Admin {
		return &domain.Admin{Person: domain.Person{Role: domain.RoleAdmin}}
	},
	Clone:       (*domain.Admin).Clone,
	ID:          func(a *domain.Admin) int { return a.ID },
	Validate:    validator.Admin,
	Credentials: func(a *domain.Admin) *domain.Person { return &a.Person },
}

var Sections = Schema[domain.Section]{
	Entity: domain.Sections,
	New: func() *domain.Section {
		return &domain.Section{Days: []string{}}
	},
	Clone:    (*domain.Section).Clone,
	ID:       func(s *domain.Section) int { return s.ID },
	Validate: validator.Section,
}
