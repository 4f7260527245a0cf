package handler

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/escolar/admin-console/internal/core/domain"
	"github.com/escolar/admin-console/internal/core/ports"
	"github.com/escolar/admin-console/internal/core/validator"
)

var weekdayOf = map[string]time.Weekday{
	"Lunes":     time.Monday,
	"Martes":    time.Tuesday,
	"Miercoles": time.Wednesday,
	"Jueves":    time.Thursday,
	"Viernes":   time.Friday,
	"Sabado":    time.Saturday,
}

// Term is the teaching period the calendar export repeats over.
type Term struct {
	Start time.Time
	Weeks int
}

type CalendarHandler struct {
	app      *App
	sections ports.ResourceClient[domain.Section]
	term     Term
}

func NewCalendarHandler(app *App, sections ports.ResourceClient[domain.Section], term Term) *CalendarHandler {
	return &CalendarHandler{app: app, sections: sections, term: term}
}

// Export writes every course section as weekly events in iCalendar format.
func (h *CalendarHandler) Export(w http.ResponseWriter, r *http.Request) {
	sections, err := h.allSections(r.Context())
	if err != nil {
		log.Printf("Calendar export failed: %v", err)
		http.Error(w, "No se pudo obtener la lista de materias", http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="materias.ics"`)
	if _, err := fmt.Fprint(w, BuildCalendar(sections, h.term, time.Now())); err != nil {
		log.Printf("Failed to write calendar: %v", err)
	}
}

func (h *CalendarHandler) allSections(ctx context.Context) ([]domain.Section, error) {
	var out []domain.Section
	for page := 1; ; page++ {
		result, err := h.sections.List(ctx, domain.ListQuery{
			Page:     page,
			PageSize: domain.ExportPageSize,
			Ordering: domain.Sections.DefaultSort,
		})
		if err != nil {
			return nil, err
		}
		out = append(out, result.Results...)
		if len(result.Results) == 0 || len(out) >= result.Count {
			return out, nil
		}
	}
}

// BuildCalendar emits one weekly recurring event per section and weekday.
// Sections with unreadable times are skipped.
func BuildCalendar(sections []domain.Section, term Term, stamp time.Time) string {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//Control Escolar//Materias//ES")
	cal.SetXWRCalName("Materias")
	cal.SetXWRTimezone(term.Start.Location().String())

	for _, s := range sections {
		start, err1 := validator.ParseClock(s.StartTime)
		end, err2 := validator.ParseClock(s.EndTime)
		if err1 != nil || err2 != nil {
			log.Printf("Calendar: skipping section %d with times %q-%q", s.ID, s.StartTime, s.EndTime)
			continue
		}

		for _, day := range s.Days {
			wd, ok := weekdayOf[day]
			if !ok {
				continue
			}
			first := firstOn(term.Start, wd)

			event := cal.AddEvent(fmt.Sprintf("materia-%d-%s@control-escolar", s.ID, day))
			event.SetDtStampTime(stamp)
			event.SetStartAt(at(first, start))
			event.SetEndAt(at(first, end))
			event.SetSummary(fmt.Sprintf("%s (NRC %s)", s.Name, s.NRC))
			event.SetLocation(s.Room)
			event.SetDescription(fmt.Sprintf("Sección %s · %s", s.Section, s.Program))
			if term.Weeks > 0 {
				event.AddRrule(fmt.Sprintf("FREQ=WEEKLY;COUNT=%d", term.Weeks))
			}
		}
	}
	return cal.Serialize()
}

// firstOn returns the first date on or after start that falls on wd.
func firstOn(start time.Time, wd time.Weekday) time.Time {
	offset := (int(wd) - int(start.Weekday()) + 7) % 7
	return start.AddDate(0, 0, offset)
}

func at(day, clock time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), clock.Hour(), clock.Minute(), 0, 0, day.Location())
}
