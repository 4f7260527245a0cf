package handler

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/escolar/admin-console/internal/core/domain"
	"github.com/escolar/admin-console/internal/core/schema"
)

type column[T any] struct {
	Key    string
	Header string
	Value  func(*T) string
}

type formOptions struct {
	Teachers []domain.Option
}

// pages binds an entity schema to its URLs, table columns and form fields.
type pages[T any] struct {
	Schema   schema.Schema[T]
	Path     string
	Heading  string
	FormBase string
	Columns  []column[T]
	Fields   func(draft *T, mode domain.FormMode, opts formOptions) []FieldView
	Bind     func(form url.Values, draft *T, mode domain.FormMode)
	SetID    func(draft *T, id int)
	// NeedsTeachers loads the teacher options before rendering the form.
	NeedsTeachers bool
}

func (p pages[T]) formURL(id int) string {
	if id == 0 {
		return p.FormBase
	}
	return p.FormBase + "/" + strconv.Itoa(id)
}

func (p pages[T]) deleteURL(id int) string {
	return p.Path + "/" + strconv.Itoa(id) + "/eliminar"
}

var studentPages = pages[domain.Student]{
	Schema:   schema.Students,
	Path:     "/alumnos",
	Heading:  "Lista de alumnos",
	FormBase: "/registro-usuarios/alumno",
	Columns: []column[domain.Student]{
		{"matricula", "Matrícula", func(s *domain.Student) string { return s.EnrollmentID }},
		{"nombre", "Nombre", func(s *domain.Student) string { return s.FullName() }},
		{"email", "Email", func(s *domain.Student) string { return s.Email }},
		{"curp", "CURP", func(s *domain.Student) string { return s.CURP }},
		{"rfc", "RFC", func(s *domain.Student) string { return s.RFC }},
		{"edad", "Edad", func(s *domain.Student) string { return s.Age.String() }},
		{"telefono", "Teléfono", func(s *domain.Student) string { return s.Phone }},
		{"ocupacion", "Ocupación", func(s *domain.Student) string { return s.Occupation }},
	},
	Fields: func(s *domain.Student, mode domain.FormMode, _ formOptions) []FieldView {
		fields := []FieldView{text(domain.FieldEnrollmentID, "Matrícula", s.EnrollmentID)}
		fields = append(fields, personFields(&s.Person, mode)...)
		return append(fields,
			date(domain.FieldBirthDate, "Fecha de nacimiento", s.BirthDate),
			text(domain.FieldCURP, "CURP", s.CURP),
			text(domain.FieldRFC, "RFC", s.RFC),
			text(domain.FieldAge, "Edad", s.Age.String()),
			text(domain.FieldPhone, "Teléfono", s.Phone),
			text(domain.FieldOccupation, "Ocupación", s.Occupation),
		)
	},
	Bind: func(f url.Values, s *domain.Student, mode domain.FormMode) {
		bindPerson(f, &s.Person, mode)
		s.EnrollmentID = value(f, domain.FieldEnrollmentID)
		s.BirthDate = value(f, domain.FieldBirthDate)
		s.CURP = strings.ToUpper(value(f, domain.FieldCURP))
		s.RFC = strings.ToUpper(value(f, domain.FieldRFC))
		s.Age = domain.NumericText(value(f, domain.FieldAge))
		s.Phone = value(f, domain.FieldPhone)
		s.Occupation = value(f, domain.FieldOccupation)
	},
	SetID: func(s *domain.Student, id int) { s.ID = id },
}

var teacherPages = pages[domain.Teacher]{
	Schema:   schema.Teachers,
	Path:     "/maestros",
	Heading:  "Lista de maestros",
	FormBase: "/registro-usuarios/maestro",
	Columns: []column[domain.Teacher]{
		{"id_trabajador", "ID de trabajador", func(t *domain.Teacher) string { return t.WorkerID }},
		{"nombre", "Nombre", func(t *domain.Teacher) string { return t.FullName() }},
		{"email", "Email", func(t *domain.Teacher) string { return t.Email }},
		{"fecha_nacimiento", "Fecha de nacimiento", func(t *domain.Teacher) string { return t.BirthDate }},
		{"telefono", "Teléfono", func(t *domain.Teacher) string { return t.Phone }},
		{"rfc", "RFC", func(t *domain.Teacher) string { return t.RFC }},
		{"cubiculo", "Cubículo", func(t *domain.Teacher) string { return t.Office.String() }},
	},
	Fields: func(t *domain.Teacher, mode domain.FormMode, _ formOptions) []FieldView {
		fields := []FieldView{text(domain.FieldWorkerID, "ID de trabajador", t.WorkerID)}
		fields = append(fields, personFields(&t.Person, mode)...)
		subjects := make([]domain.Option, len(domain.Subjects))
		for i, s := range domain.Subjects {
			subjects[i] = domain.Option{Value: s, Label: s}
		}
		return append(fields,
			date(domain.FieldBirthDate, "Fecha de nacimiento", t.BirthDate),
			text(domain.FieldPhone, "Teléfono", t.Phone),
			text(domain.FieldRFC, "RFC", t.RFC),
			text(domain.FieldOffice, "Cubículo", t.Office.String()),
			text(domain.FieldResearchArea, "Área de investigación", t.ResearchArea),
			checkboxes(domain.FieldSubjects, "Materias a impartir", subjects, t.Subjects),
		)
	},
	Bind: func(f url.Values, t *domain.Teacher, mode domain.FormMode) {
		bindPerson(f, &t.Person, mode)
		t.WorkerID = value(f, domain.FieldWorkerID)
		t.BirthDate = value(f, domain.FieldBirthDate)
		t.Phone = value(f, domain.FieldPhone)
		t.RFC = strings.ToUpper(value(f, domain.FieldRFC))
		t.Office = domain.NumericText(value(f, domain.FieldOffice))
		t.ResearchArea = value(f, domain.FieldResearchArea)
		t.Subjects = values(f, domain.FieldSubjects)
	},
	SetID: func(t *domain.Teacher, id int) { t.ID = id },
}

var adminPages = pages[domain.Admin]{
	Schema:   schema.Admins,
	Path:     "/administradores",
	Heading:  "Lista de administradores",
	FormBase: "/registro-usuarios/administrador",
	Columns: []column[domain.Admin]{
		{"clave_admin", "Clave", func(a *domain.Admin) string { return a.AdminKey }},
		{"nombre", "Nombre", func(a *domain.Admin) string { return a.FullName() }},
		{"email", "Email", func(a *domain.Admin) string { return a.Email }},
		{"rfc", "RFC", func(a *domain.Admin) string { return a.RFC }},
		{"ocupacion", "Ocupación", func(a *domain.Admin) string { return a.Occupation }},
	},
	Fields: func(a *domain.Admin, mode domain.FormMode, _ formOptions) []FieldView {
		fields := []FieldView{text(domain.FieldAdminKey, "Clave de administrador", a.AdminKey)}
		fields = append(fields, personFields(&a.Person, mode)...)
		return append(fields,
			text(domain.FieldRFC, "RFC", a.RFC),
			text(domain.FieldAge, "Edad", a.Age.String()),
			text(domain.FieldPhone, "Teléfono", a.Phone),
			text(domain.FieldOccupation, "Ocupación", a.Occupation),
		)
	},
	Bind: func(f url.Values, a *domain.Admin, mode domain.FormMode) {
		bindPerson(f, &a.Person, mode)
		a.AdminKey = value(f, domain.FieldAdminKey)
		a.RFC = strings.ToUpper(value(f, domain.FieldRFC))
		a.Age = domain.NumericText(value(f, domain.FieldAge))
		a.Phone = value(f, domain.FieldPhone)
		a.Occupation = value(f, domain.FieldOccupation)
	},
	SetID: func(a *domain.Admin, id int) { a.ID = id },
}

var sectionPages = pages[domain.Section]{
	Schema:   schema.Sections,
	Path:     "/materias",
	Heading:  "Lista de materias",
	FormBase: "/registro-materias",
	Columns: []column[domain.Section]{
		{"nrc", "NRC", func(s *domain.Section) string { return s.NRC.String() }},
		{"nombre", "Nombre", func(s *domain.Section) string { return s.Name }},
		{"seccion", "Sección", func(s *domain.Section) string { return s.Section.String() }},
		{"dias", "Días", func(s *domain.Section) string { return strings.Join(dayLabels(s.Days), ", ") }},
		{"horario", "Horario", func(s *domain.Section) string { return fmt.Sprintf("%s - %s", s.StartTime, s.EndTime) }},
		{"salon", "Salón", func(s *domain.Section) string { return s.Room }},
		{"programa", "Programa educativo", func(s *domain.Section) string { return s.Program }},
	},
	Fields: func(s *domain.Section, _ domain.FormMode, opts formOptions) []FieldView {
		return []FieldView{
			text(domain.FieldNRC, "NRC", s.NRC.String()),
			text(domain.FieldName, "Nombre de la materia", s.Name),
			text(domain.FieldSection, "Sección", s.Section.String()),
			checkboxes(domain.FieldDays, "Días", domain.Weekdays, s.Days),
			{Name: string(domain.FieldStartTime), Label: "Hora de inicio", Type: "time", Value: s.StartTime},
			{Name: string(domain.FieldEndTime), Label: "Hora de fin", Type: "time", Value: s.EndTime},
			text(domain.FieldRoom, "Salón", s.Room),
			selectField(domain.FieldProgram, "Programa educativo", domain.Programs, s.Program),
			selectField(domain.FieldTeacher, "Profesor asignado", opts.Teachers, s.TeacherID.String()),
			text(domain.FieldCredits, "Créditos", s.Credits.String()),
		}
	},
	Bind: func(f url.Values, s *domain.Section, _ domain.FormMode) {
		s.NRC = domain.NumericText(value(f, domain.FieldNRC))
		s.Name = value(f, domain.FieldName)
		s.Section = domain.NumericText(value(f, domain.FieldSection))
		s.Days = values(f, domain.FieldDays)
		s.StartTime = value(f, domain.FieldStartTime)
		s.EndTime = value(f, domain.FieldEndTime)
		s.Room = value(f, domain.FieldRoom)
		s.Program = value(f, domain.FieldProgram)
		s.TeacherID = domain.NumericText(value(f, domain.FieldTeacher))
		s.Credits = domain.NumericText(value(f, domain.FieldCredits))
	},
	SetID:         func(s *domain.Section, id int) { s.ID = id },
	NeedsTeachers: true,
}

func personFields(p *domain.Person, mode domain.FormMode) []FieldView {
	fields := []FieldView{
		text(domain.FieldFirstName, "Nombre(s)", p.FirstName),
		text(domain.FieldLastName, "Apellidos", p.LastName),
		{Name: string(domain.FieldEmail), Label: "Email", Type: "email", Value: p.Email},
	}
	if mode == domain.ModeCreate {
		fields = append(fields,
			FieldView{Name: string(domain.FieldPassword), Label: "Contraseña", Type: "password"},
			FieldView{Name: string(domain.FieldConfirmPassword), Label: "Confirmar contraseña", Type: "password"},
		)
	}
	return fields
}

func bindPerson(f url.Values, p *domain.Person, mode domain.FormMode) {
	p.FirstName = value(f, domain.FieldFirstName)
	p.LastName = value(f, domain.FieldLastName)
	p.Email = value(f, domain.FieldEmail)
	if mode == domain.ModeCreate {
		p.Password = f.Get(string(domain.FieldPassword))
		p.ConfirmPassword = f.Get(string(domain.FieldConfirmPassword))
	}
}

func value(f url.Values, field domain.Field) string {
	return strings.TrimSpace(f.Get(string(field)))
}

func values(f url.Values, field domain.Field) []string {
	out := []string{}
	for _, v := range f[string(field)] {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func text(field domain.Field, label, v string) FieldView {
	return FieldView{Name: string(field), Label: label, Type: "text", Value: v}
}

func date(field domain.Field, label, v string) FieldView {
	return FieldView{Name: string(field), Label: label, Type: "date", Value: v}
}

func checkboxes(field domain.Field, label string, opts []domain.Option, checked []string) FieldView {
	set := make(map[string]bool, len(checked))
	for _, c := range checked {
		set[c] = true
	}
	fv := FieldView{Name: string(field), Label: label, Type: "checkboxes"}
	for _, o := range opts {
		fv.Options = append(fv.Options, OptionView{Value: o.Value, Label: o.Label, Checked: set[o.Value]})
	}
	return fv
}

func selectField(field domain.Field, label string, opts []domain.Option, selected string) FieldView {
	fv := FieldView{Name: string(field), Label: label, Type: "select"}
	for _, o := range opts {
		fv.Options = append(fv.Options, OptionView{Value: o.Value, Label: o.Label, Checked: o.Value == selected})
	}
	return fv
}

func dayLabels(days []string) []string {
	out := make([]string, 0, len(days))
	for _, d := range days {
		label := d
		for _, w := range domain.Weekdays {
			if w.Value == d {
				label = w.Label
				break
			}
		}
		out = append(out, label)
	}
	return out
}
