package validator

import (
	"regexp"
	"time"

	"github.com/escolar/admin-console/internal/core/domain"
)

const (
	codeLength = 5

	MsgNRCLength     = "El NRC debe tener exactamente 5 dígitos"
	MsgSectionLength = "La sección debe tener exactamente 5 dígitos"
	MsgNoDays        = "Debes seleccionar al menos un día"
	MsgUnknownDay    = "Día no válido"
	MsgCredits       = "Solo se permiten hasta 2 dígitos numéricos"
	MsgNoTeacher     = "Debes asignar un profesor"
	MsgTimeFormat    = "Formato de hora inválido (HH:MM)"
	MsgStartAfterEnd = "La hora de inicio debe ser menor a la finalización"
	MsgInvalidRange  = "Horario inválido"
)

var creditsPattern = regexp.MustCompile(`^[0-9]{1,2}$`)

var clockLayouts = []string{"15:04", "15:04:05"}

// ParseClock parses a time of day written as HH:MM or HH:MM:SS. The API
// returns stored times with seconds.
func ParseClock(v string) (t time.Time, err error) {
	for _, layout := range clockLayouts {
		if t, err = time.Parse(layout, v); err == nil {
			return t, nil
		}
	}
	return t, err
}

func clock(v string) string {
	if _, err := ParseClock(v); err != nil {
		return MsgTimeFormat
	}
	return ""
}

// Section validates a course section draft. A start time that is not strictly
// before the end time flags both time fields.
func Section(s *domain.Section, _ domain.FormMode) domain.ValidationErrors {
	errs := domain.ValidationErrors{}

	Check(errs, domain.FieldNRC, string(s.NRC), Required, Numeric, Digits(codeLength, MsgNRCLength))
	Check(errs, domain.FieldName, s.Name, Required)
	Check(errs, domain.FieldSection, string(s.Section), Required, Numeric, Digits(codeLength, MsgSectionLength))

	if len(s.Days) == 0 {
		errs[domain.FieldDays] = MsgNoDays
	} else {
		for _, d := range s.Days {
			if !knownDay(d) {
				errs[domain.FieldDays] = MsgUnknownDay
				break
			}
		}
	}

	Check(errs, domain.FieldStartTime, s.StartTime, Required, clock)
	Check(errs, domain.FieldEndTime, s.EndTime, Required, clock)
	Check(errs, domain.FieldRoom, s.Room, Required)
	Check(errs, domain.FieldProgram, s.Program, Required)
	Check(errs, domain.FieldCredits, string(s.Credits), Required, Matches(creditsPattern, MsgCredits))

	if Required(string(s.TeacherID)) != "" {
		errs[domain.FieldTeacher] = MsgNoTeacher
	}

	if !errs.Has(domain.FieldStartTime) && !errs.Has(domain.FieldEndTime) {
		start, _ := ParseClock(s.StartTime)
		end, _ := ParseClock(s.EndTime)
		if !start.Before(end) {
			errs[domain.FieldStartTime] = MsgStartAfterEnd
			errs[domain.FieldEndTime] = MsgInvalidRange
		}
	}

	return errs
}

func knownDay(day string) bool {
	for _, d := range domain.Weekdays {
		if d.Value == day {
			return true
		}
	}
	return false
}
