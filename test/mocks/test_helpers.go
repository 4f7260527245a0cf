package mocks

import "github.com/escolar/admin-console/internal/core/domain"

// AdminSession returns a signed-in administrator.
func AdminSession() *domain.Session {
	return &domain.Session{
		Token:     "token-admin",
		UserID:    1,
		FirstName: "Marta",
		LastName:  "Ruiz",
		Email:     "marta@uni.mx",
		Role:      domain.RoleAdmin,
	}
}

// TeacherSession returns a signed-in teacher.
func TeacherSession() *domain.Session {
	return &domain.Session{
		Token:     "token-teacher",
		UserID:    7,
		FirstName: "Luis",
		LastName:  "Pérez",
		Email:     "luis@uni.mx",
		Role:      domain.RoleTeacher,
	}
}

// ValidStudent returns a student that passes validation in both modes.
func ValidStudent() *domain.Student {
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

// ValidSection returns a course section that passes validation.
func ValidSection() *domain.Section {
	return &domain.Section{
		NRC:       "12345",
		Name:      "Estructuras de datos",
		Section:   "00101",
		Days:      []string{"Lunes", "Miercoles"},
		StartTime: "09:00",
		EndTime:   "10:30",
		Room:      "CC-204",
		Program:   domain.Programs[0].Value,
		Credits:   "8",
		TeacherID: "7",
	}
}
