package domain

import "strings"

// Person holds the fields shared by every user-backed record. Credentials are
// only sent when the record is created.
type Person struct {
	ID              int    `json:"id,omitempty"`
	Role            Role   `json:"rol,omitempty"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Email           string `json:"email"`
	Password        string `json:"password,omitempty"`
	ConfirmPassword string `json:"confirmar_password,omitempty"`
}

func (p Person) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// ClearPasswords empties both credential fields.
func (p *Person) ClearPasswords() {
	p.Password = ""
	p.ConfirmPassword = ""
}

type Student struct {
	Person
	EnrollmentID string      `json:"matricula"`
	BirthDate    string      `json:"fecha_nacimiento"`
	CURP         string      `json:"curp"`
	RFC          string      `json:"rfc"`
	Age          NumericText `json:"edad"`
	Phone        string      `json:"telefono"`
	Occupation   string      `json:"ocupacion"`
}

func (s *Student) Clone() *Student {
	c := *s
	return &c
}

type Teacher struct {
	Person
	WorkerID     string      `json:"id_trabajador"`
	BirthDate    string      `json:"fecha_nacimiento"`
	Phone        string      `json:"telefono"`
	RFC          string      `json:"rfc"`
	Office       NumericText `json:"cubiculo"`
	ResearchArea string      `json:"area_investigacion"`
	Subjects     []string    `json:"materias_json"`
}

func (t *Teacher) Clone() *Teacher {
	c := *t
	if t.Subjects != nil {
		c.Subjects = append([]string(nil), t.Subjects...)
	}
	return &c
}

type Admin struct {
	Person
	AdminKey   string      `json:"clave_admin"`
	RFC        string      `json:"rfc"`
	Age        NumericText `json:"edad"`
	Phone      string      `json:"telefono"`
	Occupation string      `json:"ocupacion"`
}

func (a *Admin) Clone() *Admin {
	c := *a
	return &c
}

// Subjects is the catalogue a teacher picks materias_json from.
var Subjects = []string{
	"Aplicaciones Web",
	"Programación 1",
	"Bases de datos",
	"Tecnologías Web",
	"Minería de datos",
	"Desarrollo móvil",
	"Estructuras de datos",
	"Administración de redes",
	"Ingeniería de Software",
	"Administración de S.O.",
}
