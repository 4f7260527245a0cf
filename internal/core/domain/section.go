package domain

type Section struct {
	ID        int         `json:"id,omitempty"`
	NRC       NumericText `json:"nrc"`
	Name      string      `json:"nombre"`
	Section   NumericText `json:"seccion"`
	Days      []string    `json:"dias"`
	StartTime string      `json:"hora_inicio"`
	EndTime   string      `json:"hora_fin"`
	Room      string      `json:"salon"`
	Program   string      `json:"programa_educativo"`
	Credits   NumericText `json:"creditos"`
	TeacherID NumericText `json:"profesor"`
}

func (s *Section) Clone() *Section {
	c := *s
	if s.Days != nil {
		c.Days = append([]string(nil), s.Days...)
	}
	return &c
}

// HasDay reports whether the weekday tag is selected.
func (s *Section) HasDay(day string) bool {
	for _, d := range s.Days {
		if d == day {
			return true
		}
	}
	return false
}

type Option struct {
	Value string
	Label string
}

var Weekdays = []Option{
	{Value: "Lunes", Label: "Lunes"},
	{Value: "Martes", Label: "Martes"},
	{Value: "Miercoles", Label: "Miércoles"},
	{Value: "Jueves", Label: "Jueves"},
	{Value: "Viernes", Label: "Viernes"},
	{Value: "Sabado", Label: "Sábado"},
}

var Programs = []Option{
	{Value: "Ingeniería en Ciencias de la Computación", Label: "Ingeniería en Ciencias de la Computación"},
	{Value: "Licenciatura en Ciencias de la Computación", Label: "Licenciatura en Ciencias de la Computación"},
	{Value: "Ingeniería en Tecnologías de la Información", Label: "Ingeniería en Tecnologías de la Información"},
}
