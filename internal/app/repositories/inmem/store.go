// Package inmem implements the repository interfaces on process memory. It backs the
// "memory" database driver and the service tests.
package inmem

import (
	"context"
	"sync"
	"time"

	"github.com/yigit/uniportal/internal/app/models"
	"github.com/yigit/uniportal/internal/app/repositories"
)

type revocation struct {
	userID    int64
	expiresAt time.Time
}

type data struct {
	seq           int64
	users         map[int64]models.User
	terms         map[int64]models.Term
	courses       map[int64]models.Course
	sections      map[int64]models.Section
	enrollments   map[int64]models.Enrollment
	marks         map[int64]models.StudentMark // keyed by enrollment id
	transcripts   map[int64]models.Transcript
	attendance    map[int64]models.AttendanceRecord
	fees          map[int64]models.FeeEntry
	settings      *models.Settings
	notifications map[int64]models.Notification
	revoked       map[string]revocation
}

func newData() *data {
	return &data{
		users:         make(map[int64]models.User),
		terms:         make(map[int64]models.Term),
		courses:       make(map[int64]models.Course),
		sections:      make(map[int64]models.Section),
		enrollments:   make(map[int64]models.Enrollment),
		marks:         make(map[int64]models.StudentMark),
		transcripts:   make(map[int64]models.Transcript),
		attendance:    make(map[int64]models.AttendanceRecord),
		fees:          make(map[int64]models.FeeEntry),
		notifications: make(map[int64]models.Notification),
		revoked:       make(map[string]revocation),
	}
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// clone copies every table. Records are stored by value and never mutated in place,
// so a shallow copy of each map is a full snapshot.
func (d *data) clone() *data {
	c := &data{
		seq:           d.seq,
		users:         cloneMap(d.users),
		terms:         cloneMap(d.terms),
		courses:       cloneMap(d.courses),
		sections:      cloneMap(d.sections),
		enrollments:   cloneMap(d.enrollments),
		marks:         cloneMap(d.marks),
		transcripts:   cloneMap(d.transcripts),
		attendance:    cloneMap(d.attendance),
		fees:          cloneMap(d.fees),
		notifications: cloneMap(d.notifications),
		revoked:       cloneMap(d.revoked),
	}
	if d.settings != nil {
		s := *d.settings
		c.settings = &s
	}
	return c
}

func (d *data) nextID() int64 {
	d.seq++
	return d.seq
}

// DB is an in-memory database shared by the repositories it hands out. A DB with a
// parent is the working copy of an open transaction.
type DB struct {
	mu     sync.Mutex
	txMu   sync.Mutex
	d      *data
	now    func() time.Time
	parent *DB

	faultMu sync.Mutex
	faults  map[string]*fault
}

type fault struct {
	remaining int
	err       error
}

// NewDB creates an empty in-memory database
func NewDB() *DB {
	return &DB{
		d:      newData(),
		now:    func() time.Time { return time.Now().UTC() },
		faults: make(map[string]*fault),
	}
}

// NewStore creates an empty database and returns its repositories and transactor
func NewStore() (*repositories.Store, *DB) {
	db := NewDB()
	return &repositories.Store{
		Repositories: db.Repositories(),
		Transactor:   db,
	}, db
}

// Repositories returns repository views over the database
func (db *DB) Repositories() *repositories.Repositories {
	return &repositories.Repositories{
		Users:         &UserRepository{db: db},
		Terms:         &TermRepository{db: db},
		Courses:       &CourseRepository{db: db},
		Enrollments:   &EnrollmentRepository{db: db},
		Marks:         &MarkRepository{db: db},
		Transcripts:   &TranscriptRepository{db: db},
		Attendance:    &AttendanceRepository{db: db},
		Fees:          &FeeRepository{db: db},
		Settings:      &SettingsRepository{db: db},
		Notifications: &NotificationRepository{db: db},
		Tokens:        &TokenRepository{db: db},
	}
}

// WithTransaction serialises transactions. fn works on a private copy of the data
// that replaces the committed state only when fn succeeds. Writes from outside the
// transaction wait until it finishes, so a rollback never discards them.
func (db *DB) WithTransaction(ctx context.Context, fn func(ctx context.Context, repos *repositories.Repositories) error) error {
	db.txMu.Lock()
	defer db.txMu.Unlock()

	db.mu.Lock()
	tx := &DB{d: db.d.clone(), now: db.now, parent: db}
	db.mu.Unlock()

	if err := fn(ctx, tx.Repositories()); err != nil {
		return err
	}

	db.mu.Lock()
	db.d = tx.d
	db.mu.Unlock()
	return nil
}

// FailAfter makes the named operation succeed okCalls more times and then return err.
// Operation names are "<table>.<method>", e.g. "transcripts.upsert".
func (db *DB) FailAfter(op string, okCalls int, err error) {
	db.faultMu.Lock()
	defer db.faultMu.Unlock()
	db.faults[op] = &fault{remaining: okCalls, err: err}
}

func (db *DB) checkFault(op string) error {
	if db.parent != nil {
		return db.parent.checkFault(op)
	}
	db.faultMu.Lock()
	defer db.faultMu.Unlock()
	f, ok := db.faults[op]
	if !ok {
		return nil
	}
	if f.remaining > 0 {
		f.remaining--
		return nil
	}
	return f.err
}

// read runs fn under the lock
func (db *DB) read(fn func(d *data)) {
	db.mu.Lock()
	defer db.mu.Unlock()
	fn(db.d)
}

// write runs fn under the lock after consulting the fault table. Outside a
// transaction it first waits for any open transaction to finish.
func (db *DB) write(op string, fn func(d *data) error) error {
	if db.parent == nil {
		db.txMu.Lock()
		defer db.txMu.Unlock()
	}
	if err := db.checkFault(op); err != nil {
		return err
	}
	db.mu.Lock()
	defer db.mu.Unlock()
	return fn(db.d)
}

func paginate[T any](items []T, offset uint64, limit int) []T {
	if offset >= uint64(len(items)) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

var (
	_ repositories.IUserRepository         = (*UserRepository)(nil)
	_ repositories.ITermRepository         = (*TermRepository)(nil)
	_ repositories.ICourseRepository       = (*CourseRepository)(nil)
	_ repositories.IEnrollmentRepository   = (*EnrollmentRepository)(nil)
	_ repositories.IMarkRepository         = (*MarkRepository)(nil)
	_ repositories.ITranscriptRepository   = (*TranscriptRepository)(nil)
	_ repositories.IAttendanceRepository   = (*AttendanceRepository)(nil)
	_ repositories.IFeeRepository          = (*FeeRepository)(nil)
	_ repositories.ISettingsRepository     = (*SettingsRepository)(nil)
	_ repositories.INotificationRepository = (*NotificationRepository)(nil)
	_ repositories.ITokenRepository        = (*TokenRepository)(nil)
	_ repositories.Transactor              = (*DB)(nil)
)
