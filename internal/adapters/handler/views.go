package handler

import (
	"github.com/escolar/admin-console/internal/adapters/session"
	"github.com/escolar/admin-console/internal/core/domain"
)

// Base is embedded by every page view.
type Base struct {
	Title   string
	Session *domain.Session
	Flashes []session.Flash
}

func (b Base) IsAdmin() bool {
	return b.Session.Authenticated() && b.Session.Role == domain.RoleAdmin
}

type ColumnView struct {
	Header  string
	SortURL string
	Active  bool
	Desc    bool
}

type RowView struct {
	ID        int
	Cells     []string
	EditURL   string
	DeleteURL string
}

type PageSizeView struct {
	Size     int
	URL      string
	Selected bool
}

type ListView struct {
	Base
	Heading   string
	Path      string
	NewURL    string
	Search    string
	Sort      string
	Columns   []ColumnView
	Rows      []RowView
	Count     int
	Page      int
	Pages     int
	PageSizes []PageSizeView
	PrevURL   string
	NextURL   string
	CanEdit   bool
}

type OptionView struct {
	Value   string
	Label   string
	Checked bool
}

// FieldView describes one form input. Type "select" renders Options as a
// drop-down, "checkboxes" as a group of check boxes.
type FieldView struct {
	Name    string
	Label   string
	Type    string
	Value   string
	Error   string
	Options []OptionView
}

type FormView struct {
	Base
	Heading     string
	Action      string
	SubmitLabel string
	CancelURL   string
	Fields      []FieldView
}

type ConfirmView struct {
	Base
	Question  string
	Action    string
	Ticket    string
	CancelURL string
}

type LoginView struct {
	Base
	Username string
	Next     string
}

type ErrorView struct {
	Base
	Message string
}
