package attendance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/uniportal/internal/app/models"
)

func records(statuses ...models.AttendanceStatus) []models.AttendanceRecord {
	out := make([]models.AttendanceRecord, 0, len(statuses))
	for i, s := range statuses {
		out = append(out, models.AttendanceRecord{ID: int64(i + 1), EnrollmentID: 1, Status: s})
	}
	return out
}

func TestSummarize(t *testing.T) {
	const (
		p = models.AttendancePresent
		l = models.AttendanceLate
		a = models.AttendanceAbsent
		e = models.AttendanceExcused
	)

	tests := []struct {
		name      string
		records   []models.AttendanceRecord
		sessions  int
		wantPct   *float64
		wantShort bool
	}{
		{"no sessions", nil, 0, nil, false},
		{"only excused", records(e, e), 2, nil, false},
		{"all present", records(p, p, p), 3, ptr(100), false},
		{"late counts as attended", records(p, l, a, a), 4, ptr(50), true},
		{"excused leaves the denominator", records(p, p, p, a, e), 5, ptr(75), false},
		{"rounded to two places", records(p, p, a), 3, ptr(66.67), true},
		{"unknown status is ignored", records(p, "asleep"), 1, ptr(100), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Summarize(tt.records)
			assert.Equal(t, tt.sessions, s.Sessions)
			assert.Equal(t, tt.sessions, s.Present+s.Late+s.Absent+s.Excused)
			if tt.wantPct == nil {
				assert.Nil(t, s.Percentage)
			} else {
				require.NotNil(t, s.Percentage)
				assert.InDelta(t, *tt.wantPct, *s.Percentage, 1e-9)
			}
			assert.Equal(t, tt.wantShort, s.Short)
		})
	}
}

func TestByEnrollment(t *testing.T) {
	grouped := ByEnrollment([]models.AttendanceRecord{
		{EnrollmentID: 1, Status: models.AttendancePresent},
		{EnrollmentID: 2, Status: models.AttendanceAbsent},
		{EnrollmentID: 1, Status: models.AttendanceLate},
	})
	assert.Len(t, grouped[1], 2)
	assert.Len(t, grouped[2], 1)
	assert.Empty(t, grouped[3])
}

func ptr(v float64) *float64 { return &v }
