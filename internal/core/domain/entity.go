package domain

import "strings"

type EntityType string

const (
	EntityStudent EntityType = "alumno"
	EntityTeacher EntityType = "maestro"
	EntityAdmin   EntityType = "administrador"
	EntitySection EntityType = "materia"
)

type Role string

const (
	RoleAdmin   Role = "administrador"
	RoleTeacher Role = "maestro"
	RoleStudent Role = "alumno"
)

// Entity describes how one entity type is addressed on the remote API and
// how its list columns map to backend ordering fields.
type Entity struct {
	Type         EntityType
	Label        string
	Plural       string
	ListEndpoint string
	ItemEndpoint string
	DefaultSort  string
	SortColumns  map[string]string
	Feminine     bool
}

// Article returns the Spanish definite article for the label.
func (e Entity) Article() string {
	if e.Feminine {
		return "la"
	}
	return "el"
}

// Agree adjusts a participle ending in "o" to the label's gender.
func (e Entity) Agree(word string) string {
	if e.Feminine && strings.HasSuffix(word, "o") {
		return strings.TrimSuffix(word, "o") + "a"
	}
	return word
}

// Ordering maps a display column, optionally prefixed with "-" for
// descending order, to the backend ordering field. Unmapped columns fall back
// to the default field.
func (e Entity) Ordering(column string) string {
	desc := strings.HasPrefix(column, "-")
	column = strings.TrimPrefix(column, "-")

	field, ok := e.SortColumns[column]
	if !ok {
		field = e.DefaultSort
	}
	if desc {
		return "-" + field
	}
	return field
}

var (
	Students = Entity{
		Type:         EntityStudent,
		Label:        "alumno",
		Plural:       "alumnos",
		ListEndpoint: "/lista-alumnos/",
		ItemEndpoint: "/alumnos/",
		DefaultSort:  "user__last_name",
		SortColumns: map[string]string{
			"nombre":    "user__first_name",
			"matricula": "matricula",
		},
	}

	Teachers = Entity{
		Type:         EntityTeacher,
		Label:        "maestro",
		Plural:       "maestros",
		ListEndpoint: "/lista-maestros/",
		ItemEndpoint: "/maestros/",
		DefaultSort:  "user__last_name",
		SortColumns: map[string]string{
			"nombre":        "user__first_name",
			"id_trabajador": "id_trabajador",
		},
	}

	Admins = Entity{
		Type:         EntityAdmin,
		Label:        "administrador",
		Plural:       "administradores",
		ListEndpoint: "/lista-admins/",
		ItemEndpoint: "/admin/",
		DefaultSort:  "user__last_name",
		SortColumns: map[string]string{
			"nombre":      "user__first_name",
			"clave_admin": "clave_admin",
		},
	}

	Sections = Entity{
		Type:         EntitySection,
		Label:        "materia",
		Plural:       "materias",
		ListEndpoint: "/lista-materias/",
		ItemEndpoint: "/materias/",
		DefaultSort:  "nombre",
		Feminine:     true,
		SortColumns: map[string]string{
			"nrc":      "nrc",
			"nombre":   "nombre",
			"seccion":  "seccion",
			"salon":    "salon",
			"programa": "programa_educativo",
		},
	}
)

// EntityForRole returns the person entity registered under a role tag.
func EntityForRole(role Role) (Entity, bool) {
	switch role {
	case RoleStudent:
		return Students, true
	case RoleTeacher:
		return Teachers, true
	case RoleAdmin:
		return Admins, true
	}
	return Entity{}, false
}
