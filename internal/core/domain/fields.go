package domain

import "sort"

// Field identifies a form field; the values match the JSON names used by the API.
type Field string

const (
	FieldFirstName       Field = "first_name"
	FieldLastName        Field = "last_name"
	FieldEmail           Field = "email"
	FieldPassword        Field = "password"
	FieldConfirmPassword Field = "confirmar_password"
	FieldBirthDate       Field = "fecha_nacimiento"
	FieldRFC             Field = "rfc"
	FieldAge             Field = "edad"
	FieldPhone           Field = "telefono"
	FieldOccupation      Field = "ocupacion"

	FieldEnrollmentID Field = "matricula"
	FieldCURP         Field = "curp"

	FieldWorkerID     Field = "id_trabajador"
	FieldOffice       Field = "cubiculo"
	FieldResearchArea Field = "area_investigacion"
	FieldSubjects     Field = "materias_json"

	FieldAdminKey Field = "clave_admin"

	FieldNRC       Field = "nrc"
	FieldName      Field = "nombre"
	FieldSection   Field = "seccion"
	FieldDays      Field = "dias"
	FieldStartTime Field = "hora_inicio"
	FieldEndTime   Field = "hora_fin"
	FieldRoom      Field = "salon"
	FieldProgram   Field = "programa_educativo"
	FieldCredits   Field = "creditos"
	FieldTeacher   Field = "profesor"
)

// ValidationErrors maps a field to a human-readable message. An empty map
// means the record is valid.
type ValidationErrors map[Field]string

func (e ValidationErrors) Valid() bool {
	return len(e) == 0
}

func (e ValidationErrors) Has(f Field) bool {
	_, ok := e[f]
	return ok
}

// Of returns the message for a field by name; templates use it.
func (e ValidationErrors) Of(name string) string {
	return e[Field(name)]
}

// Fields returns the failing fields in a stable order.
func (e ValidationErrors) Fields() []Field {
	out := make([]Field, 0, len(e))
	for f := range e {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
