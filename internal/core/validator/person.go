package validator

import "github.com/escolar/admin-console/internal/core/domain"

const (
	emailMaxLength = 40
	curpLength     = 18
	rfcMinLength   = 12
	rfcMaxLength   = 13
	adultAge       = 18

	MsgAdult      = "La edad debe ser mayor o igual a 18"
	MsgNoSubjects = "Debes seleccionar al menos una materia"
)

func checkPerson(errs domain.ValidationErrors, p *domain.Person, mode domain.FormMode) {
	Check(errs, domain.FieldFirstName, p.FirstName, Required)
	Check(errs, domain.FieldLastName, p.LastName, Required)
	Check(errs, domain.FieldEmail, p.Email, Required, Max(emailMaxLength), Email)

	if mode == domain.ModeCreate {
		Check(errs, domain.FieldPassword, p.Password, Required)
		Check(errs, domain.FieldConfirmPassword, p.ConfirmPassword, Required)
	}
}

func checkRFC(errs domain.ValidationErrors, rfc string) {
	Check(errs, domain.FieldRFC, rfc, Required, Min(rfcMinLength), Max(rfcMaxLength))
}

func checkAge(errs domain.ValidationErrors, age domain.NumericText) {
	Check(errs, domain.FieldAge, string(age), Required, Numeric, AtLeast(adultAge, MsgAdult))
}

// Student validates a student draft. Credentials are only required in create mode.
func Student(s *domain.Student, mode domain.FormMode) domain.ValidationErrors {
	errs := domain.ValidationErrors{}

	Check(errs, domain.FieldEnrollmentID, s.EnrollmentID, Required)
	checkPerson(errs, &s.Person, mode)
	Check(errs, domain.FieldBirthDate, s.BirthDate, Required)
	Check(errs, domain.FieldCURP, s.CURP, Required, Min(curpLength), Max(curpLength))
	checkRFC(errs, s.RFC)
	checkAge(errs, s.Age)
	Check(errs, domain.FieldPhone, s.Phone, Required)
	Check(errs, domain.FieldOccupation, s.Occupation, Required)

	return errs
}

func Teacher(t *domain.Teacher, mode domain.FormMode) domain.ValidationErrors {
	errs := domain.ValidationErrors{}

	Check(errs, domain.FieldWorkerID, t.WorkerID, Required, Numeric)
	checkPerson(errs, &t.Person, mode)
	Check(errs, domain.FieldBirthDate, t.BirthDate, Required)
	Check(errs, domain.FieldPhone, t.Phone, Required)
	checkRFC(errs, t.RFC)
	Check(errs, domain.FieldOffice, string(t.Office), Required, Numeric)
	Check(errs, domain.FieldResearchArea, t.ResearchArea, Required)
	if len(t.Subjects) == 0 {
		errs[domain.FieldSubjects] = MsgNoSubjects
	}

	return errs
}

func Admin(a *domain.Admin, mode domain.FormMode) domain.ValidationErrors {
	errs := domain.ValidationErrors{}

	Check(errs, domain.FieldAdminKey, a.AdminKey, Required)
	checkPerson(errs, &a.Person, mode)
	checkRFC(errs, a.RFC)
	checkAge(errs, a.Age)
	Check(errs, domain.FieldPhone, a.Phone, Required)
	Check(errs, domain.FieldOccupation, a.Occupation, Required)

	return errs
}
