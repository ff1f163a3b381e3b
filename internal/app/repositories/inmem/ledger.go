package inmem

import (
	"context"
	"sort"
	"time"

	"github.com/yigit/uniportal/internal/app/models"
	"github.com/yigit/uniportal/internal/pkg/apperrors"
)

// AttendanceRepository is the in-memory IAttendanceRepository
type AttendanceRepository struct {
	db *DB
}

func (r *AttendanceRepository) Upsert(_ context.Context, record *models.AttendanceRecord) error {
	return r.db.write("attendance.upsert", func(d *data) error {
		if _, ok := d.enrollments[record.EnrollmentID]; !ok {
			return apperrors.ErrEnrollmentNotFound
		}
		record.SessionDate = record.SessionDate.UTC().Truncate(24 * time.Hour)
		record.UpdatedAt = r.db.now()
		for id, existing := range d.attendance {
			if existing.EnrollmentID == record.EnrollmentID && existing.SessionDate.Equal(record.SessionDate) {
				record.ID = id
				d.attendance[id] = *record
				return nil
			}
		}
		record.ID = d.nextID()
		d.attendance[record.ID] = *record
		return nil
	})
}

func (r *AttendanceRepository) ListByEnrollments(_ context.Context, enrollmentIDs []int64) ([]models.AttendanceRecord, error) {
	wanted := make(map[int64]struct{}, len(enrollmentIDs))
	for _, id := range enrollmentIDs {
		wanted[id] = struct{}{}
	}

	records := make([]models.AttendanceRecord, 0)
	r.db.read(func(d *data) {
		for _, a := range d.attendance {
			if _, ok := wanted[a.EnrollmentID]; ok {
				records = append(records, a)
			}
		}
	})
	sort.Slice(records, func(i, j int) bool {
		if !records[i].SessionDate.Equal(records[j].SessionDate) {
			return records[i].SessionDate.Before(records[j].SessionDate)
		}
		return records[i].EnrollmentID < records[j].EnrollmentID
	})
	return records, nil
}

// FeeRepository is the in-memory IFeeRepository
type FeeRepository struct {
	db *DB
}

func (r *FeeRepository) Create(_ context.Context, entry *models.FeeEntry) error {
	return r.db.write("fees.create", func(d *data) error {
		_, userOK := d.users[entry.UserID]
		_, termOK := d.terms[entry.TermID]
		if !userOK || !termOK {
			return apperrors.NewResourceNotFoundError("user or term not found")
		}
		if entry.AmountCents <= 0 {
			return apperrors.NewValidationError("invalid fee entry", map[string]interface{}{"amountCents": "must be positive"})
		}
		entry.ID = d.nextID()
		entry.CreatedAt = r.db.now()
		d.fees[entry.ID] = *entry
		return nil
	})
}

func (r *FeeRepository) List(_ context.Context, filter models.FeeFilter) ([]*models.FeeEntry, error) {
	entries := make([]*models.FeeEntry, 0)
	r.db.read(func(d *data) {
		for _, e := range d.fees {
			if e.UserID != filter.UserID || (filter.TermID != nil && e.TermID != *filter.TermID) {
				continue
			}
			e := e
			entries = append(entries, &e)
		}
	})
	// ids grow with every write, so they give the insertion order
	sort.Slice(entries, func(i, j int) bool { return entries[i].ID < entries[j].ID })
	return entries, nil
}
