package validator

import (
	"reflect"
	"testing"

	"github.com/escolar/admin-console/internal/core/domain"
)

func validStudent() *domain.Student {
	return &domain.Student{
		Person: domain.Person{
			Role:            domain.RoleStudent,
			FirstName:       "Ana",
			LastName:        "López",
			Email:           "ana@alumnos.uni.mx",
			Password:        "secreto1",
			ConfirmPassword: "secreto1",
		},
		EnrollmentID: "202312345",
		BirthDate:    "2001-04-12",
		CURP:         "LOAA010412MPLPNNA1",
		RFC:          "LOAA010412AB",
		Age:          "23",
		Phone:        "2221234567",
		Occupation:   "Estudiante",
	}
}

func TestStudent_Valid(t *testing.T) {
	if errs := Student(validStudent(), domain.ModeCreate); !errs.Valid() {
		t.Errorf("expected no errors, got %v", errs)
	}
}

func TestStudent_FieldErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*domain.Student)
		mode   domain.FormMode
		field  domain.Field
		want   string
	}{
		{"missing_enrollment", func(s *domain.Student) { s.EnrollmentID = "" }, domain.ModeCreate, domain.FieldEnrollmentID, MsgRequired},
		{"email_too_long", func(s *domain.Student) { s.Email = "a123456789012345678901234567890@uni.mx.com" }, domain.ModeCreate, domain.FieldEmail, MsgMax(40)},
		{"email_shape", func(s *domain.Student) { s.Email = "ana-at-uni" }, domain.ModeCreate, domain.FieldEmail, MsgEmail},
		{"password_required_on_create", func(s *domain.Student) { s.Password = "" }, domain.ModeCreate, domain.FieldPassword, MsgRequired},
		{"confirm_required_on_create", func(s *domain.Student) { s.ConfirmPassword = "" }, domain.ModeCreate, domain.FieldConfirmPassword, MsgRequired},
		{"curp_short", func(s *domain.Student) { s.CURP = "LOAA010412" }, domain.ModeCreate, domain.FieldCURP, MsgMin(18)},
		{"curp_long", func(s *domain.Student) { s.CURP = "LOAA010412MPLPNNA12" }, domain.ModeCreate, domain.FieldCURP, MsgMax(18)},
		{"rfc_short", func(s *domain.Student) { s.RFC = "LOAA0104" }, domain.ModeCreate, domain.FieldRFC, MsgMin(12)},
		{"rfc_long", func(s *domain.Student) { s.RFC = "LOAA010412ABCD" }, domain.ModeCreate, domain.FieldRFC, MsgMax(13)},
		{"age_not_numeric", func(s *domain.Student) { s.Age = "veinte" }, domain.ModeCreate, domain.FieldAge, MsgNumeric},
		{"age_minor", func(s *domain.Student) { s.Age = "17" }, domain.ModeCreate, domain.FieldAge, MsgAdult},
		{"phone_blank", func(s *domain.Student) { s.Phone = "  " }, domain.ModeEdit, domain.FieldPhone, MsgRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validStudent()
			tt.mutate(s)

			errs := Student(s, tt.mode)

			if len(errs) != 1 {
				t.Fatalf("expected exactly one error, got %v", errs)
			}
			if errs[tt.field] != tt.want {
				t.Errorf("expected %s error %q, got %q", tt.field, tt.want, errs[tt.field])
			}
		})
	}
}

func TestStudent_EditSkipsCredentials(t *testing.T) {
	s := validStudent()
	s.ClearPasswords()

	if errs := Student(s, domain.ModeEdit); !errs.Valid() {
		t.Errorf("expected edit mode to ignore credentials, got %v", errs)
	}
	if errs := Student(s, domain.ModeCreate); len(errs) != 2 {
		t.Errorf("expected both credential fields in create mode, got %v", errs)
	}
}

func TestStudent_Idempotent(t *testing.T) {
	s := validStudent()
	s.Email = ""
	s.CURP = "123"

	first := Student(s, domain.ModeCreate)
	second := Student(s, domain.ModeCreate)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("expected identical results, got %v and %v", first, second)
	}
}

func TestTeacher(t *testing.T) {
	teacher := &domain.Teacher{
		Person: domain.Person{
			FirstName: "Luis",
			LastName:  "Pérez",
			Email:     "luis@uni.mx",
		},
		WorkerID:     "1024",
		BirthDate:    "1980-01-01",
		Phone:        "2227654321",
		RFC:          "PELU800101AB1",
		Office:       "12",
		ResearchArea: "Bases de datos",
		Subjects:     []string{"Programación"},
	}

	if errs := Teacher(teacher, domain.ModeEdit); !errs.Valid() {
		t.Fatalf("expected valid teacher, got %v", errs)
	}

	teacher.Subjects = nil
	teacher.Office = "A1"
	errs := Teacher(teacher, domain.ModeEdit)
	if errs[domain.FieldSubjects] != MsgNoSubjects {
		t.Errorf("expected subjects error, got %q", errs[domain.FieldSubjects])
	}
	if errs[domain.FieldOffice] != MsgNumeric {
		t.Errorf("expected office numeric error, got %q", errs[domain.FieldOffice])
	}
}

func TestAdmin(t *testing.T) {
	admin := &domain.Admin{
		Person: domain.Person{
			FirstName:       "Marta",
			LastName:        "Ruiz",
			Email:           "marta@uni.mx",
			Password:        "x",
			ConfirmPassword: "x",
		},
		AdminKey:   "ADM-01",
		RFC:        "RUMA750101AB1",
		Age:        "49",
		Phone:      "2220000000",
		Occupation: "Coordinación",
	}

	if errs := Admin(admin, domain.ModeCreate); !errs.Valid() {
		t.Fatalf("expected valid admin, got %v", errs)
	}

	admin.AdminKey = ""
	if errs := Admin(admin, domain.ModeCreate); errs[domain.FieldAdminKey] != MsgRequired {
		t.Errorf("expected clave_admin required, got %v", errs)
	}
}
