package inmem

import (
	"context"
	"sort"
	"time"

	"github.com/yigit/uniportal/internal/app/models"
	"github.com/yigit/uniportal/internal/pkg/apperrors"
)

// EnrollmentRepository is the in-memory IEnrollmentRepository
type EnrollmentRepository struct {
	db *DB
}

func (r *EnrollmentRepository) Create(_ context.Context, enrollment *models.Enrollment) error {
	return r.db.write("enrollments.create", func(d *data) error {
		for _, e := range d.enrollments {
			if e.UserID == enrollment.UserID && e.CourseID == enrollment.CourseID && e.TermID == enrollment.TermID {
				return apperrors.ErrDuplicateEnrollment
			}
		}
		if enrollment.Status == "" {
			enrollment.Status = models.EnrollmentEnrolled
		}
		now := r.db.now()
		enrollment.ID = d.nextID()
		enrollment.EnrolledAt = now
		enrollment.UpdatedAt = now
		d.enrollments[enrollment.ID] = *enrollment
		return nil
	})
}

func (r *EnrollmentRepository) GetByID(_ context.Context, id int64) (*models.Enrollment, error) {
	var (
		e  models.Enrollment
		ok bool
	)
	r.db.read(func(d *data) { e, ok = d.enrollments[id] })
	if !ok {
		return nil, apperrors.ErrEnrollmentNotFound
	}
	return &e, nil
}

func (r *EnrollmentRepository) GetByUserCourseTerm(_ context.Context, userID, courseID, termID int64) (*models.Enrollment, error) {
	var found *models.Enrollment
	r.db.read(func(d *data) {
		for _, e := range d.enrollments {
			if e.UserID == userID && e.CourseID == courseID && e.TermID == termID {
				e := e
				found = &e
				return
			}
		}
	})
	if found == nil {
		return nil, apperrors.ErrEnrollmentNotFound
	}
	return found, nil
}

func (r *EnrollmentRepository) UpdateStatus(_ context.Context, id int64, status models.EnrollmentStatus) error {
	return r.db.write("enrollments.update_status", func(d *data) error {
		e, ok := d.enrollments[id]
		if !ok {
			return apperrors.ErrEnrollmentNotFound
		}
		e.Status = status
		e.UpdatedAt = r.db.now()
		d.enrollments[id] = e
		return nil
	})
}

func (r *EnrollmentRepository) List(_ context.Context, filter models.EnrollmentFilter) ([]*models.Enrollment, error) {
	statuses := make(map[models.EnrollmentStatus]struct{}, len(filter.Statuses))
	for _, s := range filter.Statuses {
		statuses[s] = struct{}{}
	}

	enrollments := make([]*models.Enrollment, 0)
	r.db.read(func(d *data) {
		for _, e := range d.enrollments {
			if filter.UserID != nil && e.UserID != *filter.UserID {
				continue
			}
			if filter.CourseID != nil && e.CourseID != *filter.CourseID {
				continue
			}
			if filter.TermID != nil && e.TermID != *filter.TermID {
				continue
			}
			if len(statuses) > 0 {
				if _, ok := statuses[e.Status]; !ok {
					continue
				}
			}
			e := e
			enrollments = append(enrollments, &e)
		}
	})
	sort.Slice(enrollments, func(i, j int) bool { return enrollments[i].ID > enrollments[j].ID })
	return enrollments, nil
}

func (r *EnrollmentRepository) CountByStatus(_ context.Context, courseID, termID int64, status models.EnrollmentStatus) (int, error) {
	count := 0
	r.db.read(func(d *data) {
		for _, e := range d.enrollments {
			if e.CourseID == courseID && e.TermID == termID && e.Status == status {
				count++
			}
		}
	})
	return count, nil
}

func (r *EnrollmentRepository) SumCreditHours(_ context.Context, userID, termID int64, status models.EnrollmentStatus) (int, error) {
	sum := 0
	r.db.read(func(d *data) {
		for _, e := range d.enrollments {
			if e.UserID == userID && e.TermID == termID && e.Status == status {
				sum += d.courses[e.CourseID].CreditHours
			}
		}
	})
	return sum, nil
}

func (r *EnrollmentRepository) Roster(_ context.Context, courseID, termID int64) ([]models.RosterEntry, error) {
	roster := make([]models.RosterEntry, 0)
	r.db.read(func(d *data) {
		for _, e := range d.enrollments {
			if e.CourseID != courseID || e.TermID != termID || e.Status == models.EnrollmentDropped {
				continue
			}
			student, ok := d.users[e.UserID]
			if !ok {
				continue
			}
			student.Password = ""
			entry := models.RosterEntry{Enrollment: e, Student: student}
			if m, ok := d.marks[e.ID]; ok {
				entry.Mark = &m
			}
			roster = append(roster, entry)
		}
	})
	sort.Slice(roster, func(i, j int) bool {
		a, b := roster[i].Student, roster[j].Student
		if a.LastName != b.LastName {
			return a.LastName < b.LastName
		}
		if a.FirstName != b.FirstName {
			return a.FirstName < b.FirstName
		}
		return roster[i].Enrollment.ID < roster[j].Enrollment.ID
	})
	return roster, nil
}

// MarkRepository is the in-memory IMarkRepository
type MarkRepository struct {
	db *DB
}

func (r *MarkRepository) GetByEnrollment(_ context.Context, enrollmentID int64) (*models.StudentMark, error) {
	var (
		m  models.StudentMark
		ok bool
	)
	r.db.read(func(d *data) { m, ok = d.marks[enrollmentID] })
	if !ok {
		return nil, apperrors.ErrMarkNotFound
	}
	return &m, nil
}

func (r *MarkRepository) Upsert(_ context.Context, mark *models.StudentMark) error {
	return r.db.write("marks.upsert", func(d *data) error {
		if _, ok := d.enrollments[mark.EnrollmentID]; !ok {
			return apperrors.ErrEnrollmentNotFound
		}
		if existing, ok := d.marks[mark.EnrollmentID]; ok {
			mark.ID = existing.ID
		} else {
			mark.ID = d.nextID()
		}
		mark.UpdatedAt = r.db.now()
		d.marks[mark.EnrollmentID] = *mark
		return nil
	})
}

// TranscriptRepository is the in-memory ITranscriptRepository
type TranscriptRepository struct {
	db *DB
}

func (r *TranscriptRepository) Upsert(_ context.Context, t *models.Transcript) error {
	return r.db.write("transcripts.upsert", func(d *data) error {
		if t.Status == "" {
			t.Status = models.TranscriptFinal
		}
		t.FinalizedAt = r.db.now()
		for id, existing := range d.transcripts {
			if existing.UserID == t.UserID && existing.CourseID == t.CourseID &&
				existing.TermID == t.TermID && existing.Status == t.Status {
				t.ID = id
				d.transcripts[id] = *t
				return nil
			}
		}
		t.ID = d.nextID()
		d.transcripts[t.ID] = *t
		return nil
	})
}

func (r *TranscriptRepository) ListByUser(_ context.Context, userID int64) ([]models.TranscriptLine, error) {
	lines := make([]models.TranscriptLine, 0)
	starts := make(map[int64]time.Time)
	r.db.read(func(d *data) {
		for _, t := range d.transcripts {
			if t.UserID != userID || t.Status != models.TranscriptFinal {
				continue
			}
			course := d.courses[t.CourseID]
			term := d.terms[t.TermID]
			starts[t.TermID] = term.StartDate
			lines = append(lines, models.TranscriptLine{
				Transcript:  t,
				CourseCode:  course.Code,
				CourseTitle: course.Title,
				CreditHours: course.CreditHours,
				TermName:    term.Name,
			})
		}
	})
	sort.Slice(lines, func(i, j int) bool {
		si, sj := starts[lines[i].TermID], starts[lines[j].TermID]
		if !si.Equal(sj) {
			return si.Before(sj)
		}
		return lines[i].CourseCode < lines[j].CourseCode
	})
	return lines, nil
}
