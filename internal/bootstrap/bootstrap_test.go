package bootstrap

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/uniportal/internal/app/models"
	"github.com/yigit/uniportal/internal/app/models/dto"
	"github.com/yigit/uniportal/internal/config"
)

const (
	adminEmail    = "admin@uni.edu"
	adminPassword = "Admin12345"
)

type api struct {
	t      *testing.T
	router *gin.Engine
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Server.Mode = "production"
	cfg.Database.Driver = config.DriverMemory
	cfg.JWT.Secret = "integration-secret"
	cfg.JWT.AccessTokenExpiration = "1h"
	cfg.JWT.Issuer = "uniportal-test"
	cfg.Academic.BcryptCost = 4
	cfg.Academic.DefaultMaxCreditHours = 21
	cfg.Academic.DefaultEnrollmentOpen = true
	cfg.Seed.AdminEmail = adminEmail
	cfg.Seed.AdminPassword = adminPassword
	return cfg
}

func newAPI(t *testing.T) *api {
	t.Helper()
	cfg := testConfig()
	lgr := zerolog.Nop()

	storage, err := SetupDatabase(cfg, lgr)
	require.NoError(t, err)
	require.Nil(t, storage.Postgres)

	deps, err := BuildDependencies(cfg, storage, "test", lgr)
	require.NoError(t, err)

	return &api{t: t, router: SetupRouter(cfg, deps, lgr)}
}

func (a *api) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decodeData[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var envelope struct {
		Data T `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope), w.Body.String())
	return envelope.Data
}

func (a *api) login(email, password string) string {
	a.t.Helper()
	w := a.do(http.MethodPost, "/api/v1/auth/login", "", dto.LoginRequest{Email: email, Password: password})
	require.Equal(a.t, http.StatusOK, w.Code, w.Body.String())
	return decodeData[dto.AuthResponse](a.t, w).Token.AccessToken
}

// portal is a populated instance: one active term, one course with section A
// taught by a faculty member and one registered student in that section
type portal struct {
	*api
	admin, faculty, student string
	termID, courseID        int64
	studentID               int64
}

func newPortal(t *testing.T) *portal {
	p := &portal{api: newAPI(t)}
	p.admin = p.login(adminEmail, adminPassword)

	w := p.do(http.MethodPost, "/api/v1/admin/terms", p.admin, map[string]string{
		"name": "Fall 2026", "startDate": "2026-09-01T00:00:00Z", "endDate": "2026-12-20T00:00:00Z",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	p.termID = decodeData[dto.TermResponse](t, w).ID

	w = p.do(http.MethodPost, fmt.Sprintf("/api/v1/admin/terms/%d/activate", p.termID), p.admin, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = p.do(http.MethodPost, "/api/v1/admin/users", p.admin, dto.CreateUserRequest{
		Email: "teacher@uni.edu", Password: "Teach12345", FirstName: "Ada", LastName: "Byron", Role: models.RoleFaculty,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	facultyID := decodeData[dto.UserResponse](t, w).ID

	w = p.do(http.MethodPost, "/api/v1/admin/courses", p.admin, dto.CreateCourseRequest{
		Code: "cs201", Title: "Data Structures", CreditHours: 3, Capacity: 10,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	course := decodeData[dto.CourseResponse](t, w)
	assert.Equal(t, "CS201", course.Code)
	p.courseID = course.ID

	w = p.do(http.MethodPost, fmt.Sprintf("/api/v1/admin/courses/%d/sections", p.courseID), p.admin,
		dto.CreateSectionRequest{Name: "A", InstructorID: &facultyID})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = p.do(http.MethodPost, "/api/v1/auth/register", "", dto.RegisterRequest{
		Email: "student@uni.edu", Password: "Learn12345", FirstName: "Sam", LastName: "Lee", Section: "A",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	registered := decodeData[dto.AuthResponse](t, w)
	p.student = registered.Token.AccessToken
	p.studentID = registered.User.ID

	p.faculty = p.login("teacher@uni.edu", "Teach12345")
	return p
}

func TestPortal_EnrollGradeAndTranscript(t *testing.T) {
	p := newPortal(t)

	w := p.do(http.MethodPost, "/api/v1/student/enrollments", p.student, dto.EnrollRequest{CourseID: p.courseID})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	enrollment := decodeData[dto.EnrollmentResponse](t, w)
	assert.Equal(t, models.EnrollmentEnrolled, enrollment.Status)

	mid, final := 18.0, 70.0
	w = p.do(http.MethodPut, fmt.Sprintf("/api/v1/faculty/enrollments/%d/marks", enrollment.ID), p.faculty,
		dto.MarksRequest{Mid1: &mid, FinalExam: &final})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	mark := decodeData[dto.MarkResponse](t, w)
	require.NotNil(t, mark.Total)
	assert.InDelta(t, 88.0, *mark.Total, 1e-9)

	w = p.do(http.MethodGet, fmt.Sprintf("/api/v1/faculty/courses/%d/gradebook?termId=%d", p.courseID, p.termID), p.faculty, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Len(t, decodeData[dto.GradebookResponse](t, w).Students, 1)

	w = p.do(http.MethodPost, fmt.Sprintf("/api/v1/faculty/courses/%d/finalize", p.courseID), p.faculty,
		dto.FinalizeRequest{TermID: p.termID})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	result := decodeData[dto.FinalizeResponse](t, w)
	assert.Equal(t, 1, result.Processed)
	require.Len(t, result.Results, 1)
	assert.Equal(t, "A", result.Results[0].Grade)

	w = p.do(http.MethodGet, "/api/v1/student/transcript", p.student, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	transcript := decodeData[dto.TranscriptResponse](t, w)
	require.Len(t, transcript.Entries, 1)
	assert.Equal(t, "CS201", transcript.Entries[0].CourseCode)
	require.NotNil(t, transcript.CGPA)
	assert.InDelta(t, 4.0, *transcript.CGPA, 1e-9)
	assert.Equal(t, 3, transcript.TotalCredits)

	w = p.do(http.MethodGet, fmt.Sprintf("/api/v1/student/courses/%d/marks?termId=%d", p.courseID, p.termID), p.student, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	marks := decodeData[dto.StudentMarksResponse](t, w)
	assert.Equal(t, models.EnrollmentCompleted, marks.Status)

	w = p.do(http.MethodGet, "/api/v1/notifications", p.student, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Len(t, decodeData[[]dto.NotificationResponse](t, w), 1)
}

func TestPortal_AttendanceAndFees(t *testing.T) {
	p := newPortal(t)

	w := p.do(http.MethodPost, "/api/v1/student/enrollments", p.student, dto.EnrollRequest{CourseID: p.courseID})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	enrollmentID := decodeData[dto.EnrollmentResponse](t, w).ID

	attendancePath := fmt.Sprintf("/api/v1/faculty/courses/%d/attendance", p.courseID)
	w = p.do(http.MethodPut, attendancePath, p.faculty, dto.AttendanceRequest{
		TermID:  p.termID,
		Date:    "2026-09-07",
		Records: []dto.AttendanceEntry{{EnrollmentID: enrollmentID, Status: models.AttendanceLate}},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, 1, decodeData[dto.AttendanceRecordedResponse](t, w).Recorded)

	w = p.do(http.MethodPut, attendancePath, p.faculty, map[string]interface{}{
		"termId": p.termID, "date": "07/09/2026",
		"records": []map[string]interface{}{{"enrollmentId": enrollmentID, "status": "present"}},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())

	w = p.do(http.MethodGet, fmt.Sprintf("%s?termId=%d", attendancePath, p.termID), p.faculty, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	report := decodeData[dto.AttendanceReport](t, w)
	require.Len(t, report.Students, 1)
	assert.Equal(t, 1, report.Students[0].Summary.Late)

	w = p.do(http.MethodGet, fmt.Sprintf("/api/v1/student/attendance?termId=%d", p.termID), p.student, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	mine := decodeData[dto.StudentAttendanceResponse](t, w)
	require.Len(t, mine.Courses, 1)
	assert.Equal(t, "CS201", mine.Courses[0].CourseCode)

	feesPath := fmt.Sprintf("/api/v1/admin/users/%d/fees", p.studentID)
	w = p.do(http.MethodPost, feesPath, p.admin, dto.FeeEntryRequest{
		TermID: p.termID, Kind: models.FeeCharge, AmountCents: 120000, Description: "Tuition",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = p.do(http.MethodPost, feesPath, p.admin, map[string]interface{}{
		"termId": p.termID, "kind": "refund", "amountCents": 100, "description": "x",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())

	w = p.do(http.MethodPost, feesPath, p.faculty, dto.FeeEntryRequest{
		TermID: p.termID, Kind: models.FeePayment, AmountCents: 100, Description: "Cash",
	})
	assert.Equal(t, http.StatusForbidden, w.Code, w.Body.String())

	w = p.do(http.MethodGet, "/api/v1/student/fees", p.student, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	ledger := decodeData[dto.FeeLedgerResponse](t, w)
	require.Len(t, ledger.Entries, 1)
	assert.Equal(t, int64(120000), ledger.BalanceCents)

	w = p.do(http.MethodGet, feesPath+"?termId=999", p.admin, nil)
	assert.Equal(t, http.StatusNotFound, w.Code, w.Body.String())
}

func TestPortal_RoleGates(t *testing.T) {
	p := newPortal(t)

	cases := []struct {
		name   string
		method string
		path   string
		token  string
		status int
	}{
		{"no token", http.MethodGet, "/api/v1/terms", "", http.StatusUnauthorized},
		{"garbage token", http.MethodGet, "/api/v1/terms", "nope", http.StatusUnauthorized},
		{"student on faculty route", http.MethodGet, "/api/v1/faculty/courses", p.student, http.StatusForbidden},
		{"faculty on admin route", http.MethodGet, "/api/v1/admin/users", p.faculty, http.StatusForbidden},
		{"faculty on student route", http.MethodGet, "/api/v1/student/transcript", p.faculty, http.StatusForbidden},
		{"admin on faculty route", http.MethodGet, "/api/v1/faculty/courses", p.admin, http.StatusOK},
		{"malformed id", http.MethodGet, "/api/v1/courses/abc", p.student, http.StatusBadRequest},
		{"missing course", http.MethodGet, "/api/v1/courses/999", p.student, http.StatusNotFound},
		{"gradebook without term", http.MethodGet, fmt.Sprintf("/api/v1/faculty/courses/%d/gradebook", p.courseID), p.faculty, http.StatusBadRequest},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := p.do(tc.method, tc.path, tc.token, nil)
			assert.Equal(t, tc.status, w.Code, w.Body.String())
		})
	}
}

func TestPortal_LogoutRevokesToken(t *testing.T) {
	p := newPortal(t)

	w := p.do(http.MethodGet, "/api/v1/auth/me", p.student, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "student@uni.edu", decodeData[dto.UserResponse](t, w).Email)

	w = p.do(http.MethodPost, "/api/v1/auth/logout", p.student, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = p.do(http.MethodGet, "/api/v1/auth/me", p.student, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPortal_MaintenanceMode(t *testing.T) {
	p := newPortal(t)

	on := true
	message := "Back at noon"
	w := p.do(http.MethodPut, "/api/v1/admin/settings", p.admin, dto.UpdateSettingsRequest{
		MaintenanceMode: &on, MaintenanceMessage: &message,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = p.do(http.MethodGet, "/api/v1/terms", p.student, nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))

	w = p.do(http.MethodGet, "/api/v1/terms", p.admin, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = p.do(http.MethodGet, "/api/v1/settings/public", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	public := decodeData[dto.PublicSettingsResponse](t, w)
	assert.True(t, public.MaintenanceMode)
	assert.Equal(t, message, public.MaintenanceMessage)
}

func TestPortal_EnrollmentClosed(t *testing.T) {
	p := newPortal(t)

	closed := false
	w := p.do(http.MethodPut, "/api/v1/admin/settings", p.admin, dto.UpdateSettingsRequest{EnrollmentOpen: &closed})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = p.do(http.MethodPost, "/api/v1/student/enrollments", p.student, dto.EnrollRequest{CourseID: p.courseID})
	assert.Equal(t, http.StatusConflict, w.Code, w.Body.String())
}

func TestPortal_HealthAndPing(t *testing.T) {
	a := newAPI(t)

	w := a.do(http.MethodGet, "/api/v1/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "memory", decodeData[map[string]string](t, w)["database"])

	w = a.do(http.MethodGet, "/ping", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
