package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/escolar/admin-console/internal/adapters/metrics"
	"github.com/escolar/admin-console/internal/adapters/middleware"
	"github.com/escolar/admin-console/internal/adapters/session"
	"github.com/escolar/admin-console/internal/core/domain"
	"github.com/escolar/admin-console/internal/core/services"
	"github.com/escolar/admin-console/test/mocks"
)

type testConsole struct {
	handler  http.Handler
	cookies  *session.Cookies
	store    *mocks.MockSessionStore
	gateway  *mocks.MockAuthGateway
	audit    *mocks.MockAuditRecorder
	students *mocks.MockResourceClient[domain.Student]
	teachers *mocks.MockResourceClient[domain.Teacher]
	admins   *mocks.MockResourceClient[domain.Admin]
	sections *mocks.MockResourceClient[domain.Section]
}

type failingPinger struct{}

func (failingPinger) Ping(context.Context) error { return errors.New("connection refused") }

func newTestConsole(t *testing.T, pingers map[string]Pinger) *testConsole {
	t.Helper()

	renderer, err := NewRenderer()
	require.NoError(t, err)

	c := &testConsole{
		cookies:  session.NewCookies([]byte("0123456789abcdef0123456789abcdef"), 3600, false),
		store:    mocks.NewMockSessionStore(),
		gateway:  &mocks.MockAuthGateway{},
		audit:    &mocks.MockAuditRecorder{},
		students: mocks.NewMockResourceClient[domain.Student](),
		teachers: mocks.NewMockResourceClient[domain.Teacher](),
		admins:   mocks.NewMockResourceClient[domain.Admin](),
		sections: mocks.NewMockResourceClient[domain.Section](),
	}

	collector := metrics.NewCollector()
	app := &App{
		Renderer: renderer,
		Cookies:  c.cookies,
		Tickets:  NewTickets([]byte("ticket-secret")),
		Audit:    metrics.CountingRecorder{Next: c.audit, Collector: collector},
		Metrics:  collector,
	}

	limiter := middleware.NewRateLimiter(100)
	t.Cleanup(limiter.Stop)

	c.handler = NewRouter(Deps{
		App:      app,
		Auth:     services.NewAuthService(c.gateway, c.store),
		AuthMW:   middleware.NewAuthMiddleware(c.cookies, c.store),
		Limiter:  limiter,
		Health:   NewHealthHandler(pingers),
		Metrics:  collector.Handler(),
		Term:     Term{Start: time.Date(2025, 1, 13, 0, 0, 0, 0, time.UTC), Weeks: 16},
		Origins:  []string{"*"},
		Students: c.students,
		Teachers: c.teachers,
		Admins:   c.admins,
		Sections: c.sections,
	})
	return c
}

// signIn stores s and returns the cookie that points at it.
func (c *testConsole) signIn(t *testing.T, s *domain.Session) *http.Cookie {
	t.Helper()
	id := "sess-" + string(s.Role)
	c.store.Seed(id, *s)

	rec := httptest.NewRecorder()
	require.NoError(t, c.cookies.SetID(rec, httptest.NewRequest(http.MethodGet, "/", nil), id))
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	return cookies[0]
}

func (c *testConsole) do(method, target string, form url.Values, cookie *http.Cookie, headers ...string) *httptest.ResponseRecorder {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	c.handler.ServeHTTP(rec, req)
	return rec
}

// responseCookie returns the console cookie written by rec, falling back to
// the one the request carried.
func responseCookie(rec *httptest.ResponseRecorder, fallback *http.Cookie) *http.Cookie {
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == "console-session" {
			return ck
		}
	}
	return fallback
}

func parse(t *testing.T, rec *httptest.ResponseRecorder) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(rec.Body)
	require.NoError(t, err)
	return doc
}

func studentRow(id int) domain.Student {
	s := *mocks.ValidStudent()
	s.ID = id
	return s
}

func TestList_RendersRowsAndForwardsQuery(t *testing.T) {
	c := newTestConsole(t, nil)
	c.students.ListResult = domain.Page[domain.Student]{Count: 12, Results: []domain.Student{studentRow(3)}}
	admin := c.signIn(t, mocks.AdminSession())

	rec := c.do(http.MethodGet, "/alumnos?page=2&page_size=5&sort=-nombre&search=+L%C3%B3pez+", nil, admin)
	require.Equal(t, http.StatusOK, rec.Code)

	require.Len(t, c.students.ListCalls, 1)
	assert.Equal(t, domain.ListQuery{Page: 2, PageSize: 5, Ordering: "-user__first_name", Search: "lópez"}, c.students.ListCalls[0])

	doc := parse(t, rec)
	row := doc.Find(`tr[data-id="3"]`)
	require.Equal(t, 1, row.Length())
	assert.Contains(t, row.Text(), "Ana López")
	assert.Equal(t, "/alumnos/3/eliminar", row.Find("a.delete").AttrOr("href", ""))
	assert.Equal(t, "/registro-usuarios/alumno/3", row.Find("a.edit").AttrOr("href", ""))
	assert.Contains(t, doc.Find(".count").Text(), "página 2 de 3")
	assert.Equal(t, 1, doc.Find("a.prev").Length())
	assert.Equal(t, 1, doc.Find("a.next").Length())
}

func TestList_HtmxGetsTableOnly(t *testing.T) {
	c := newTestConsole(t, nil)
	c.students.ListResult = domain.Page[domain.Student]{Count: 1, Results: []domain.Student{studentRow(3)}}
	admin := c.signIn(t, mocks.AdminSession())

	rec := c.do(http.MethodGet, "/alumnos?search=ana", nil, admin, "HX-Request", "true")
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, "<table>")
	assert.NotContains(t, body, "<html")
}

func TestList_FailureShowsAlert(t *testing.T) {
	c := newTestConsole(t, nil)
	c.sections.ListError = errors.New("upstream down")
	teacher := c.signIn(t, mocks.TeacherSession())

	rec := c.do(http.MethodGet, "/materias", nil, teacher)
	require.Equal(t, http.StatusOK, rec.Code)

	doc := parse(t, rec)
	assert.Contains(t, doc.Find(".alert-error").Text(), "materias")
	assert.Contains(t, doc.Find("td.empty").Text(), "No hay registros")
}

func TestList_Access(t *testing.T) {
	c := newTestConsole(t, nil)
	teacher := c.signIn(t, mocks.TeacherSession())

	tests := []struct {
		name         string
		path         string
		cookie       *http.Cookie
		wantStatus   int
		wantLocation string
	}{
		{"anonymous is sent to login", "/alumnos", nil, http.StatusSeeOther, "/login?next=%2Falumnos"},
		{"teacher reads students", "/alumnos", teacher, http.StatusOK, ""},
		{"teacher cannot read admins", "/administradores", teacher, http.StatusForbidden, ""},
		{"teacher cannot open delete dialog", "/alumnos/3/eliminar", teacher, http.StatusForbidden, ""},
		{"teacher cannot edit sections", "/registro-materias/4", teacher, http.StatusForbidden, ""},
		{"anonymous cannot edit people", "/registro-usuarios/alumno/3", nil, http.StatusSeeOther, "/login?next=%2Fregistro-usuarios%2Falumno%2F3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := c.do(http.MethodGet, tt.path, nil, tt.cookie)
			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantLocation != "" {
				assert.Equal(t, tt.wantLocation, rec.Header().Get("Location"))
			}
		})
	}
}

func TestList_TeacherSeesNoEditLinks(t *testing.T) {
	c := newTestConsole(t, nil)
	c.students.ListResult = domain.Page[domain.Student]{Count: 1, Results: []domain.Student{studentRow(3)}}
	teacher := c.signIn(t, mocks.TeacherSession())

	doc := parse(t, c.do(http.MethodGet, "/alumnos", nil, teacher))
	assert.Equal(t, 1, doc.Find(`tr[data-id="3"]`).Length())
	assert.Equal(t, 0, doc.Find("a.edit, a.delete").Length())
}

func ticketFrom(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	require.Equal(t, http.StatusOK, rec.Code)
	ticket := parse(t, rec).Find(`input[name="ticket"]`).AttrOr("value", "")
	require.NotEmpty(t, ticket)
	return ticket
}

func TestDelete_ConfirmedThroughDialog(t *testing.T) {
	c := newTestConsole(t, nil)
	c.students.ListResult = domain.Page[domain.Student]{Count: 0}
	admin := c.signIn(t, mocks.AdminSession())

	ticket := ticketFrom(t, c.do(http.MethodGet, "/alumnos/3/eliminar", nil, admin))

	rec := c.do(http.MethodPost, "/alumnos/3/eliminar", url.Values{"decision": {"si"}, "ticket": {ticket}}, admin)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/alumnos", rec.Header().Get("Location"))
	assert.Equal(t, []int{3}, c.students.DeleteCalls)
	assert.Zero(t, c.students.ListCallCount(), "the redirect reloads the list, not the delete")

	events := c.audit.Recorded()
	require.Len(t, events, 1)
	assert.Equal(t, domain.AuditDeleted, events[0].Action)
	assert.Equal(t, 3, events[0].TargetID)

	doc := parse(t, c.do(http.MethodGet, "/alumnos", nil, responseCookie(rec, admin)))
	assert.Contains(t, doc.Find(".alert-success").Text(), "Alumno eliminado correctamente")
}

func TestDelete_NotConfirmed(t *testing.T) {
	c := newTestConsole(t, nil)
	admin := c.signIn(t, mocks.AdminSession())
	ticket := ticketFrom(t, c.do(http.MethodGet, "/materias/4/eliminar", nil, admin))
	otherTicket := ticketFrom(t, c.do(http.MethodGet, "/materias/5/eliminar", nil, admin))

	tests := []struct {
		name string
		form url.Values
	}{
		{"declined", url.Values{"decision": {"no"}, "ticket": {ticket}}},
		{"missing ticket", url.Values{"decision": {"si"}}},
		{"ticket for another record", url.Values{"decision": {"si"}, "ticket": {otherTicket}}},
		{"forged ticket", url.Values{"decision": {"si"}, "ticket": {ticket + "x"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := c.do(http.MethodPost, "/materias/4/eliminar", tt.form, admin)
			assert.Equal(t, http.StatusSeeOther, rec.Code)
			assert.Equal(t, "/materias", rec.Header().Get("Location"))
		})
	}
	assert.Empty(t, c.sections.DeleteCalls)
	assert.Empty(t, c.audit.Recorded())
}

func TestDelete_AdminCannotDeleteSelf(t *testing.T) {
	c := newTestConsole(t, nil)
	self := mocks.AdminSession()
	admin := c.signIn(t, self)

	rec := c.do(http.MethodGet, "/administradores/1/eliminar", nil, admin)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/administradores", rec.Header().Get("Location"))

	forged, err := NewTickets([]byte("ticket-secret")).Issue(domain.EntityAdmin, self.UserID)
	require.NoError(t, err)
	rec = c.do(http.MethodPost, "/administradores/1/eliminar", url.Values{"decision": {"si"}, "ticket": {forged}}, admin)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Empty(t, c.admins.DeleteCalls)

	ticketFrom(t, c.do(http.MethodGet, "/administradores/2/eliminar", nil, admin))
}

func studentForm(password, confirm string) url.Values {
	s := mocks.ValidStudent()
	return url.Values{
		"matricula":          {s.EnrollmentID},
		"first_name":         {s.FirstName},
		"last_name":          {s.LastName},
		"email":              {s.Email},
		"password":           {password},
		"confirmar_password": {confirm},
		"fecha_nacimiento":   {s.BirthDate},
		"curp":               {s.CURP},
		"rfc":                {s.RFC},
		"edad":               {s.Age.String()},
		"telefono":           {s.Phone},
		"ocupacion":          {s.Occupation},
	}
}

func TestRegister_PasswordMismatch(t *testing.T) {
	c := newTestConsole(t, nil)

	rec := c.do(http.MethodPost, "/registro-usuarios/alumno", studentForm("secreto1", "secreto2"), nil)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	creates, _, _ := c.students.Calls()
	assert.Zero(t, creates)

	doc := parse(t, rec)
	assert.Contains(t, doc.Find(".alert-error").Text(), services.MsgPasswordMismatch)
	assert.Equal(t, "", doc.Find("input#password").AttrOr("value", "missing"))
	assert.Equal(t, "", doc.Find("input#confirmar_password").AttrOr("value", "missing"))
	assert.Equal(t, "Ana", doc.Find("input#first_name").AttrOr("value", ""))
}

func TestRegister_ValidationErrorsShown(t *testing.T) {
	c := newTestConsole(t, nil)
	form := studentForm("secreto1", "secreto1")
	form.Set("first_name", "")
	form.Set("email", "sin-arroba")

	rec := c.do(http.MethodPost, "/registro-usuarios/alumno", form, nil)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	creates, _, _ := c.students.Calls()
	assert.Zero(t, creates)

	doc := parse(t, rec)
	assert.Equal(t, 1, doc.Find(`.field.invalid[data-field="first_name"]`).Length())
	assert.Equal(t, 1, doc.Find(`.field.invalid[data-field="email"]`).Length())
	assert.Equal(t, 0, doc.Find(`.field.invalid[data-field="matricula"]`).Length())
}

func TestRegister_SuccessRedirects(t *testing.T) {
	c := newTestConsole(t, nil)
	admin := c.signIn(t, mocks.AdminSession())

	rec := c.do(http.MethodPost, "/registro-usuarios/alumno", studentForm("secreto1", "secreto1"), nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	rec = c.do(http.MethodPost, "/registro-usuarios/alumno", studentForm("secreto1", "secreto1"), admin)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/alumnos", rec.Header().Get("Location"))

	require.Len(t, c.students.CreateCalls, 2)
	assert.Equal(t, "LOAA010412MPLPNNA1", c.students.CreateCalls[0].CURP)
	assert.Equal(t, domain.RoleStudent, c.students.CreateCalls[0].Role)
}

func TestRegister_RemoteFailureKeepsInput(t *testing.T) {
	c := newTestConsole(t, nil)
	c.students.CreateError = errors.New("409 conflict")

	rec := c.do(http.MethodPost, "/registro-usuarios/alumno", studentForm("secreto1", "secreto1"), nil)
	require.Equal(t, http.StatusBadGateway, rec.Code)

	doc := parse(t, rec)
	assert.Contains(t, doc.Find(".alert-error").Text(), "Error al registrar")
	assert.Equal(t, "ana@alumnos.uni.mx", doc.Find("input#email").AttrOr("value", ""))
}

func TestRegister_UnknownRole(t *testing.T) {
	c := newTestConsole(t, nil)
	rec := c.do(http.MethodGet, "/registro-usuarios/director", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestEditForm_LoadsRecordWithoutCredentials(t *testing.T) {
	c := newTestConsole(t, nil)
	s := studentRow(3)
	c.students.GetResult = &s
	admin := c.signIn(t, mocks.AdminSession())

	rec := c.do(http.MethodGet, "/registro-usuarios/alumno/3", nil, admin)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []int{3}, c.students.GetCalls)

	doc := parse(t, rec)
	assert.Equal(t, "Ana", doc.Find("input#first_name").AttrOr("value", ""))
	assert.Equal(t, 0, doc.Find("input#password").Length())
	assert.Equal(t, "/registro-usuarios/alumno/3", doc.Find("form").AttrOr("action", ""))
	assert.Contains(t, doc.Find("h1").Text(), "Editar")
}

func TestEditForm_SubmitUpdates(t *testing.T) {
	c := newTestConsole(t, nil)
	admin := c.signIn(t, mocks.AdminSession())
	form := studentForm("", "")
	form.Set("telefono", "2229999999")

	rec := c.do(http.MethodPost, "/registro-usuarios/alumno/3", form, admin)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/alumnos", rec.Header().Get("Location"))

	require.Len(t, c.students.UpdateCalls, 1)
	updated := c.students.UpdateCalls[0]
	assert.Equal(t, 3, updated.ID)
	assert.Equal(t, "2229999999", updated.Phone)
	assert.Empty(t, updated.Password)

	events := c.audit.Recorded()
	require.Len(t, events, 1)
	assert.Equal(t, domain.AuditUpdated, events[0].Action)
}

func TestSectionForm_TeacherOptions(t *testing.T) {
	c := newTestConsole(t, nil)
	teacher := domain.Teacher{Person: domain.Person{ID: 7, FirstName: "Luis", LastName: "Pérez"}}
	c.teachers.ListResult = domain.Page[domain.Teacher]{Count: 1, Results: []domain.Teacher{teacher}}
	admin := c.signIn(t, mocks.AdminSession())

	rec := c.do(http.MethodGet, "/registro-materias", nil, admin)
	require.Equal(t, http.StatusOK, rec.Code)

	require.Len(t, c.teachers.ListCalls, 1)
	assert.Equal(t, domain.ListQuery{Page: 1, PageSize: 1000, Ordering: "user__first_name"}, c.teachers.ListCalls[0])

	doc := parse(t, rec)
	opt := doc.Find(`select#profesor option[value="7"]`)
	require.Equal(t, 1, opt.Length())
	assert.Equal(t, "Luis Pérez", strings.TrimSpace(opt.Text()))
	assert.Equal(t, len(domain.Weekdays), doc.Find(`input[name="dias"]`).Length())
}

func TestSectionForm_TeacherListFailureOnlyWarns(t *testing.T) {
	c := newTestConsole(t, nil)
	c.teachers.ListError = errors.New("timeout")
	s := *mocks.ValidSection()
	s.ID = 4
	c.sections.GetResult = &s
	admin := c.signIn(t, mocks.AdminSession())

	rec := c.do(http.MethodGet, "/registro-materias/4", nil, admin)
	require.Equal(t, http.StatusOK, rec.Code)

	doc := parse(t, rec)
	assert.Contains(t, doc.Find(".alert-error").Text(), "No se pudo obtener la lista de maestros")
	assert.Equal(t, "Estructuras de datos", doc.Find("input#nombre").AttrOr("value", ""))
	_, checked := doc.Find(`input[name="dias"][value="Lunes"]`).Attr("checked")
	assert.True(t, checked)
}

func TestSectionForm_MissingRecordGoesBackToList(t *testing.T) {
	c := newTestConsole(t, nil)
	c.sections.GetError = errors.New("404")
	admin := c.signIn(t, mocks.AdminSession())

	rec := c.do(http.MethodGet, "/registro-materias/99", nil, admin)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/materias", rec.Header().Get("Location"))
}

func TestSectionForm_TimeOrderRejected(t *testing.T) {
	c := newTestConsole(t, nil)
	admin := c.signIn(t, mocks.AdminSession())
	s := mocks.ValidSection()
	form := url.Values{
		"nrc":                {s.NRC.String()},
		"nombre":             {s.Name},
		"seccion":            {s.Section.String()},
		"dias":               s.Days,
		"hora_inicio":        {"11:00"},
		"hora_fin":           {"10:00"},
		"salon":              {s.Room},
		"programa_educativo": {s.Program},
		"creditos":           {s.Credits.String()},
		"profesor":           {s.TeacherID.String()},
	}

	rec := c.do(http.MethodPost, "/registro-materias", form, admin)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	doc := parse(t, rec)
	assert.Equal(t, 1, doc.Find(`.field.invalid[data-field="hora_inicio"]`).Length())
	assert.Equal(t, 1, doc.Find(`.field.invalid[data-field="hora_fin"]`).Length())
	creates, _, _ := c.sections.Calls()
	assert.Zero(t, creates)
}

func TestLogin(t *testing.T) {
	c := newTestConsole(t, nil)
	c.gateway.Session = mocks.TeacherSession()

	rec := c.do(http.MethodPost, "/login", url.Values{"username": {"luis"}, "password": {"pw"}}, nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/alumnos", rec.Header().Get("Location"))

	cookie := responseCookie(rec, nil)
	require.NotNil(t, cookie)
	assert.True(t, c.store.Has("session-1"))

	home := c.do(http.MethodGet, "/", nil, cookie)
	assert.Equal(t, http.StatusSeeOther, home.Code)
	assert.Equal(t, "/alumnos", home.Header().Get("Location"))
}

func TestLogin_HonoursNext(t *testing.T) {
	c := newTestConsole(t, nil)
	c.gateway.Session = mocks.AdminSession()

	tests := []struct {
		next string
		want string
	}{
		{"/materias?page=2", "/materias?page=2"},
		{"//evil.example", "/alumnos"},
		{"https://evil.example/x", "/alumnos"},
	}
	for _, tt := range tests {
		t.Run(tt.next, func(t *testing.T) {
			rec := c.do(http.MethodPost, "/login", url.Values{"username": {"marta"}, "password": {"pw"}, "next": {tt.next}}, nil)
			assert.Equal(t, http.StatusSeeOther, rec.Code)
			assert.Equal(t, tt.want, rec.Header().Get("Location"))
		})
	}
}

func TestLogin_Failure(t *testing.T) {
	c := newTestConsole(t, nil)
	c.gateway.LoginError = errors.New("401")

	rec := c.do(http.MethodPost, "/login", url.Values{"username": {"luis"}, "password": {"bad"}}, nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	doc := parse(t, rec)
	assert.Contains(t, doc.Find(".alert-error").Text(), "Usuario o contraseña incorrectos")
	assert.Equal(t, "luis", doc.Find("input#username").AttrOr("value", ""))
}

func TestLogout(t *testing.T) {
	c := newTestConsole(t, nil)
	cookie := c.signIn(t, mocks.TeacherSession())

	rec := c.do(http.MethodPost, "/logout", nil, cookie)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
	assert.False(t, c.store.Has("sess-maestro"))
	assert.Equal(t, []string{"token-teacher"}, c.gateway.LogoutCalls)

	after := responseCookie(rec, cookie)
	assert.Equal(t, http.StatusSeeOther, c.do(http.MethodGet, "/alumnos", nil, after).Code)
}

func TestCalendarExport(t *testing.T) {
	c := newTestConsole(t, nil)
	s := *mocks.ValidSection()
	s.ID = 4
	c.sections.ListResult = domain.Page[domain.Section]{Count: 1, Results: []domain.Section{s}}
	teacher := c.signIn(t, mocks.TeacherSession())

	assert.Equal(t, http.StatusSeeOther, c.do(http.MethodGet, "/materias/calendario.ics", nil, nil).Code)

	rec := c.do(http.MethodGet, "/materias/calendario.ics", nil, teacher)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "text/calendar"))
	assert.Contains(t, rec.Body.String(), "materia-4-Lunes@control-escolar")
}

func TestHealthEndpoints(t *testing.T) {
	c := newTestConsole(t, map[string]Pinger{"redis": failingPinger{}, "audit_db": nil})

	assert.Equal(t, http.StatusOK, c.do(http.MethodGet, "/health", nil, nil).Code)
	assert.Equal(t, http.StatusOK, c.do(http.MethodGet, "/health/live", nil, nil).Code)

	rec := c.do(http.MethodGet, "/health/ready", nil, nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), `"redis":{"status":"DOWN"`)
	assert.NotContains(t, rec.Body.String(), "audit_db")
}

func TestMetricsEndpoint(t *testing.T) {
	c := newTestConsole(t, nil)
	c.do(http.MethodPost, "/registro-usuarios/alumno", studentForm("a1", "b2"), nil)

	rec := c.do(http.MethodGet, "/metrics", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `admin_console_form_rejections_total{entity="alumno",reason="password_mismatch"}`)
}

func TestCalendarExport_WalksEveryPage(t *testing.T) {
	c := newTestConsole(t, nil)
	c.sections.ListFunc = func(_ context.Context, q domain.ListQuery) (domain.Page[domain.Section], error) {
		s := *mocks.ValidSection()
		s.ID = q.Page
		s.Days = []string{"Martes"}
		if q.Page > 2 {
			return domain.Page[domain.Section]{Count: 2}, nil
		}
		return domain.Page[domain.Section]{Count: 2, Results: []domain.Section{s}}, nil
	}
	teacher := c.signIn(t, mocks.TeacherSession())

	rec := c.do(http.MethodGet, "/materias/calendario.ics", nil, teacher)
	require.Equal(t, http.StatusOK, rec.Code)

	require.Len(t, c.sections.ListCalls, 2)
	for i, q := range c.sections.ListCalls {
		assert.Equal(t, i+1, q.Page)
		assert.Equal(t, domain.ExportPageSize, q.PageSize)
	}
	assert.Contains(t, rec.Body.String(), "materia-1-Martes@control-escolar")
	assert.Contains(t, rec.Body.String(), "materia-2-Martes@control-escolar")
}
