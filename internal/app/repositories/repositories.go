package repositories

import (
	"context"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/uniportal/internal/app/models"
	"github.com/yigit/uniportal/internal/db"
)

// IUserRepository defines the interface for user-related database operations
type IUserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	List(ctx context.Context, filter models.UserFilter) ([]*models.User, int, error)
	// ListActive returns every active user, or every active user of role when it is set
	ListActive(ctx context.Context, role *models.RoleType) ([]*models.User, error)
	UpdateLastLogin(ctx context.Context, userID int64, at time.Time) error
	UpdateCGPA(ctx context.Context, userID int64, cgpa *float64) error
}

// ITermRepository defines term persistence
type ITermRepository interface {
	Create(ctx context.Context, term *models.Term) error
	GetByID(ctx context.Context, id int64) (*models.Term, error)
	GetActive(ctx context.Context) (*models.Term, error)
	List(ctx context.Context) ([]*models.Term, error)
	Update(ctx context.Context, term *models.Term) error
	// Activate marks id active and every other term inactive. Run it inside a transaction.
	Activate(ctx context.Context, id int64) error
}

// ICourseRepository defines course and section persistence
type ICourseRepository interface {
	Create(ctx context.Context, course *models.Course) error
	// GetByID returns the course with its sections loaded
	GetByID(ctx context.Context, id int64) (*models.Course, error)
	// GetByIDForUpdate is GetByID holding a row lock for the rest of the transaction
	GetByIDForUpdate(ctx context.Context, id int64) (*models.Course, error)
	Update(ctx context.Context, course *models.Course) error
	List(ctx context.Context, filter models.CourseFilter) ([]*models.Course, int, error)
	ListByInstructor(ctx context.Context, instructorID int64) ([]*models.Course, error)

	CreateSection(ctx context.Context, section *models.Section) error
	GetSectionByID(ctx context.Context, id int64) (*models.Section, error)
	ListSections(ctx context.Context, courseID int64) ([]*models.Section, error)
	UpdateSectionInstructor(ctx context.Context, sectionID int64, instructorID *int64) error
}

// IEnrollmentRepository defines enrollment persistence
type IEnrollmentRepository interface {
	Create(ctx context.Context, enrollment *models.Enrollment) error
	GetByID(ctx context.Context, id int64) (*models.Enrollment, error)
	GetByUserCourseTerm(ctx context.Context, userID, courseID, termID int64) (*models.Enrollment, error)
	UpdateStatus(ctx context.Context, id int64, status models.EnrollmentStatus) error
	List(ctx context.Context, filter models.EnrollmentFilter) ([]*models.Enrollment, error)
	CountByStatus(ctx context.Context, courseID, termID int64, status models.EnrollmentStatus) (int, error)
	// SumCreditHours adds up the credit hours of the user's enrollments in a term having status
	SumCreditHours(ctx context.Context, userID, termID int64, status models.EnrollmentStatus) (int, error)
	// Roster returns the non-dropped enrollments of a course term joined with student and marks
	Roster(ctx context.Context, courseID, termID int64) ([]models.RosterEntry, error)
}

// IMarkRepository defines mark persistence
type IMarkRepository interface {
	GetByEnrollment(ctx context.Context, enrollmentID int64) (*models.StudentMark, error)
	Upsert(ctx context.Context, mark *models.StudentMark) error
}

// ITranscriptRepository defines transcript persistence
type ITranscriptRepository interface {
	Upsert(ctx context.Context, transcript *models.Transcript) error
	ListByUser(ctx context.Context, userID int64) ([]models.TranscriptLine, error)
}

// IAttendanceRepository defines attendance persistence
type IAttendanceRepository interface {
	// Upsert records the status of an enrollment on a session date, replacing
	// an earlier record for the same enrollment and date
	Upsert(ctx context.Context, record *models.AttendanceRecord) error
	// ListByEnrollments returns the records of the given enrollments ordered by session date
	ListByEnrollments(ctx context.Context, enrollmentIDs []int64) ([]models.AttendanceRecord, error)
}

// IFeeRepository defines fee ledger persistence. Entries are append-only.
type IFeeRepository interface {
	Create(ctx context.Context, entry *models.FeeEntry) error
	List(ctx context.Context, filter models.FeeFilter) ([]*models.FeeEntry, error)
}

// ISettingsRepository persists the single settings row
type ISettingsRepository interface {
	Get(ctx context.Context) (*models.Settings, error)
	Save(ctx context.Context, settings *models.Settings) error
}

// INotificationRepository defines notification persistence
type INotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
	ListByUser(ctx context.Context, userID int64, limit int) ([]*models.Notification, error)
	MarkRead(ctx context.Context, id, userID int64) error
}

// ITokenRepository tracks revoked access tokens
type ITokenRepository interface {
	Revoke(ctx context.Context, tokenID string, userID int64, expiresAt time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
	PurgeExpired(ctx context.Context, now time.Time) (int64, error)
}

// Repositories holds all the repository instances
type Repositories struct {
	Users         IUserRepository
	Terms         ITermRepository
	Courses       ICourseRepository
	Enrollments   IEnrollmentRepository
	Marks         IMarkRepository
	Transcripts   ITranscriptRepository
	Attendance    IAttendanceRepository
	Fees          IFeeRepository
	Settings      ISettingsRepository
	Notifications INotificationRepository
	Tokens        ITokenRepository
}

// Transactor runs fn against repositories bound to a single transaction.
// Returning an error from fn rolls every write back.
type Transactor interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context, repos *Repositories) error) error
}

// Store bundles the repositories with the transactor that can scope them
type Store struct {
	*Repositories
	Transactor
}

// NewRepositories initializes all repositories on top of a pool or a transaction
func NewRepositories(conn db.DBTX) *Repositories {
	return &Repositories{
		Users:         NewUserRepository(conn),
		Terms:         NewTermRepository(conn),
		Courses:       NewCourseRepository(conn),
		Enrollments:   NewEnrollmentRepository(conn),
		Marks:         NewMarkRepository(conn),
		Transcripts:   NewTranscriptRepository(conn),
		Attendance:    NewAttendanceRepository(conn),
		Fees:          NewFeeRepository(conn),
		Settings:      NewSettingsRepository(conn),
		Notifications: NewNotificationRepository(conn),
		Tokens:        NewTokenRepository(conn),
	}
}

// NewPostgresStore builds the postgres-backed store
func NewPostgresStore(database *db.PostgresDB) *Store {
	return &Store{
		Repositories: NewRepositories(database.Pool),
		Transactor:   &pgTransactor{db: database},
	}
}

type pgTransactor struct {
	db *db.PostgresDB
}

func (t *pgTransactor) WithTransaction(ctx context.Context, fn func(ctx context.Context, repos *Repositories) error) error {
	return t.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		return fn(ctx, NewRepositories(tx))
	})
}

func newBuilder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}
