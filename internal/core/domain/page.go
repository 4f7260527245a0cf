package domain

const (
	DefaultPageSize = 10
	// TeacherOptionsPageSize is large enough to list every teacher in one page.
	TeacherOptionsPageSize = 1000
	// ExportPageSize is the page size used when walking a whole list.
	ExportPageSize = 200
)

var PageSizeOptions = []int{5, 10, 20}

// Page is one page of a server-side list; it is rebuilt on every query.
type Page[T any] struct {
	Count   int `json:"count"`
	Results []T `json:"results"`
}

type ListQuery struct {
	Page     int
	PageSize int
	Ordering string
	Search   string
}

type FormMode int

const (
	ModeCreate FormMode = iota
	ModeEdit
)

func (m FormMode) String() string {
	if m == ModeEdit {
		return "edit"
	}
	return "create"
}
