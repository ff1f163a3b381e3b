package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	authz "github.com/yigit/uniportal/internal/app/auth"
	"github.com/yigit/uniportal/internal/app/models"
	"github.com/yigit/uniportal/internal/app/repositories"
	"github.com/yigit/uniportal/internal/app/repositories/inmem"
	"github.com/yigit/uniportal/internal/pkg/email"
)

type recordingMailer struct {
	mu   sync.Mutex
	sent []email.Message
}

func (m *recordingMailer) Send(_ context.Context, msg email.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return nil
}

func (m *recordingMailer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

type testEnv struct {
	ctx           context.Context
	store         *repositories.Store
	db            *inmem.DB
	mailer        *recordingMailer
	settings      SettingsService
	notifications NotificationService
	gradebook     GradebookService
	enrollments   EnrollmentService
	transcripts   TranscriptService
	attendance    AttendanceService
	fees          FeeService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store, db := inmem.NewStore()
	mailer := &recordingMailer{}
	settings := NewSettingsService(store.Settings, SettingsDefaults{EnrollmentOpen: true, MaxCreditHours: 18})
	notifications := NewNotificationService(store.Notifications, store.Users, mailer)
	authzService := authz.NewAuthorizationService(store.Courses)

	return &testEnv{
		ctx:           context.Background(),
		store:         store,
		db:            db,
		mailer:        mailer,
		settings:      settings,
		notifications: notifications,
		gradebook:     NewGradebookService(store, authzService, notifications),
		enrollments:   NewEnrollmentService(store, settings),
		transcripts:   NewTranscriptService(store.Transcripts),
		attendance:    NewAttendanceService(store, authzService),
		fees:          NewFeeService(store.Fees, store.Users, store.Terms, notifications),
	}
}

func (e *testEnv) user(t *testing.T, email string, role models.RoleType, section string) *models.User {
	t.Helper()
	u := &models.User{
		Email:     email,
		FirstName: email,
		Role:      role,
		Section:   section,
		IsActive:  true,
	}
	require.NoError(t, e.store.Users.Create(e.ctx, u))
	return u
}

func (e *testEnv) activeTerm(t *testing.T, name string) *models.Term {
	t.Helper()
	start := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	term := &models.Term{Name: name, StartDate: start, EndDate: start.AddDate(0, 4, 0)}
	require.NoError(t, e.store.Terms.Create(e.ctx, term))
	require.NoError(t, e.store.Terms.Activate(e.ctx, term.ID))
	term.IsActive = true
	return term
}

func (e *testEnv) course(t *testing.T, code string, credits, capacity int) *models.Course {
	t.Helper()
	c := &models.Course{Code: code, Title: code + " title", CreditHours: credits, Capacity: capacity, IsActive: true}
	require.NoError(t, e.store.Courses.Create(e.ctx, c))
	return c
}

func (e *testEnv) section(t *testing.T, courseID int64, name string, instructor *models.User) {
	t.Helper()
	s := &models.Section{CourseID: courseID, Name: name}
	if instructor != nil {
		s.InstructorID = &instructor.ID
	}
	require.NoError(t, e.store.Courses.CreateSection(e.ctx, s))
}

func (e *testEnv) enroll(t *testing.T, student *models.User, courseID, termID int64) *models.Enrollment {
	t.Helper()
	en := &models.Enrollment{UserID: student.ID, CourseID: courseID, TermID: termID, Status: models.EnrollmentEnrolled}
	require.NoError(t, e.store.Enrollments.Create(e.ctx, en))
	return en
}

func (e *testEnv) mark(t *testing.T, enrollmentID int64, finalExam float64) {
	t.Helper()
	m := &models.StudentMark{EnrollmentID: enrollmentID, FinalExam: &finalExam}
	m.RecomputeTotal()
	require.NoError(t, e.store.Marks.Upsert(e.ctx, m))
}

func fp(v float64) *float64 { return &v }
