package inmem

import (
	"context"
	"sort"
	"strings"

	"github.com/yigit/uniportal/internal/app/models"
	"github.com/yigit/uniportal/internal/pkg/apperrors"
	"github.com/yigit/uniportal/internal/pkg/grading"
)

// TermRepository is the in-memory ITermRepository
type TermRepository struct {
	db *DB
}

func (r *TermRepository) Create(_ context.Context, term *models.Term) error {
	return r.db.write("terms.create", func(d *data) error {
		term.ID = d.nextID()
		term.CreatedAt = r.db.now()
		d.terms[term.ID] = *term
		return nil
	})
}

func (r *TermRepository) GetByID(_ context.Context, id int64) (*models.Term, error) {
	var (
		t  models.Term
		ok bool
	)
	r.db.read(func(d *data) { t, ok = d.terms[id] })
	if !ok {
		return nil, apperrors.ErrTermNotFound
	}
	return &t, nil
}

func (r *TermRepository) GetActive(_ context.Context) (*models.Term, error) {
	var active *models.Term
	r.db.read(func(d *data) {
		for _, t := range d.terms {
			if t.IsActive {
				t := t
				active = &t
				return
			}
		}
	})
	if active == nil {
		return nil, apperrors.ErrNoActiveTerm
	}
	return active, nil
}

func (r *TermRepository) List(_ context.Context) ([]*models.Term, error) {
	terms := make([]*models.Term, 0)
	r.db.read(func(d *data) {
		for _, t := range d.terms {
			t := t
			terms = append(terms, &t)
		}
	})
	sort.Slice(terms, func(i, j int) bool {
		if !terms[i].StartDate.Equal(terms[j].StartDate) {
			return terms[i].StartDate.After(terms[j].StartDate)
		}
		return terms[i].ID > terms[j].ID
	})
	return terms, nil
}

func (r *TermRepository) Update(_ context.Context, term *models.Term) error {
	return r.db.write("terms.update", func(d *data) error {
		t, ok := d.terms[term.ID]
		if !ok {
			return apperrors.ErrTermNotFound
		}
		t.Name = term.Name
		t.StartDate = term.StartDate
		t.EndDate = term.EndDate
		d.terms[term.ID] = t
		return nil
	})
}

func (r *TermRepository) Activate(_ context.Context, id int64) error {
	return r.db.write("terms.activate", func(d *data) error {
		if _, ok := d.terms[id]; !ok {
			return apperrors.ErrTermNotFound
		}
		for tid, t := range d.terms {
			t.IsActive = tid == id
			d.terms[tid] = t
		}
		return nil
	})
}

// CourseRepository is the in-memory ICourseRepository
type CourseRepository struct {
	db *DB
}

func (r *CourseRepository) Create(_ context.Context, course *models.Course) error {
	return r.db.write("courses.create", func(d *data) error {
		for _, c := range d.courses {
			if strings.EqualFold(c.Code, course.Code) {
				return apperrors.ErrCourseAlreadyExists
			}
		}
		now := r.db.now()
		course.ID = d.nextID()
		course.CreatedAt = now
		course.UpdatedAt = now
		stored := *course
		stored.Sections = nil
		d.courses[course.ID] = stored
		return nil
	})
}

func sectionsOf(d *data, courseID int64) []*models.Section {
	sections := make([]*models.Section, 0)
	for _, s := range d.sections {
		if s.CourseID == courseID {
			s := s
			sections = append(sections, &s)
		}
	}
	sort.Slice(sections, func(i, j int) bool {
		if sections[i].Name != sections[j].Name {
			return sections[i].Name < sections[j].Name
		}
		return sections[i].ID < sections[j].ID
	})
	return sections
}

func (r *CourseRepository) GetByID(_ context.Context, id int64) (*models.Course, error) {
	var course *models.Course
	r.db.read(func(d *data) {
		c, ok := d.courses[id]
		if !ok {
			return
		}
		c.Sections = sectionsOf(d, id)
		course = &c
	})
	if course == nil {
		return nil, apperrors.ErrCourseNotFound
	}
	return course, nil
}

// GetByIDForUpdate needs no row lock here: transactions already run one at a time.
func (r *CourseRepository) GetByIDForUpdate(ctx context.Context, id int64) (*models.Course, error) {
	return r.GetByID(ctx, id)
}

func (r *CourseRepository) Update(_ context.Context, course *models.Course) error {
	return r.db.write("courses.update", func(d *data) error {
		c, ok := d.courses[course.ID]
		if !ok {
			return apperrors.ErrCourseNotFound
		}
		c.Title = course.Title
		c.CreditHours = course.CreditHours
		c.Capacity = course.Capacity
		c.Department = course.Department
		c.IsActive = course.IsActive
		c.UpdatedAt = r.db.now()
		course.UpdatedAt = c.UpdatedAt
		d.courses[course.ID] = c
		return nil
	})
}

func matchCourse(c models.Course, filter models.CourseFilter) bool {
	if dep := strings.TrimSpace(filter.Department); dep != "" && !strings.EqualFold(c.Department, dep) {
		return false
	}
	if filter.IsActive != nil && c.IsActive != *filter.IsActive {
		return false
	}
	if s := strings.ToLower(strings.TrimSpace(filter.Search)); s != "" {
		if !strings.Contains(strings.ToLower(c.Code), s) && !strings.Contains(strings.ToLower(c.Title), s) {
			return false
		}
	}
	return true
}

func sortCourses(courses []*models.Course) {
	sort.Slice(courses, func(i, j int) bool { return courses[i].Code < courses[j].Code })
}

func (r *CourseRepository) List(_ context.Context, filter models.CourseFilter) ([]*models.Course, int, error) {
	courses := make([]*models.Course, 0)
	r.db.read(func(d *data) {
		for _, c := range d.courses {
			if matchCourse(c, filter) {
				c := c
				courses = append(courses, &c)
			}
		}
	})
	sortCourses(courses)
	return paginate(courses, filter.Offset, filter.Limit), len(courses), nil
}

func (r *CourseRepository) ListByInstructor(_ context.Context, instructorID int64) ([]*models.Course, error) {
	courses := make([]*models.Course, 0)
	r.db.read(func(d *data) {
		owned := make(map[int64]struct{})
		for _, s := range d.sections {
			if s.InstructorID != nil && *s.InstructorID == instructorID {
				owned[s.CourseID] = struct{}{}
			}
		}
		for id := range owned {
			c, ok := d.courses[id]
			if !ok {
				continue
			}
			c.Sections = sectionsOf(d, id)
			courses = append(courses, &c)
		}
	})
	sortCourses(courses)
	return courses, nil
}

func (r *CourseRepository) CreateSection(_ context.Context, section *models.Section) error {
	return r.db.write("sections.create", func(d *data) error {
		if _, ok := d.courses[section.CourseID]; !ok {
			return apperrors.ErrCourseNotFound
		}
		for _, s := range d.sections {
			if s.CourseID == section.CourseID && grading.NormalizeSection(s.Name) == grading.NormalizeSection(section.Name) {
				return apperrors.ErrDuplicateSection
			}
		}
		section.ID = d.nextID()
		section.Name = strings.TrimSpace(section.Name)
		d.sections[section.ID] = *section
		return nil
	})
}

func (r *CourseRepository) GetSectionByID(_ context.Context, id int64) (*models.Section, error) {
	var (
		s  models.Section
		ok bool
	)
	r.db.read(func(d *data) { s, ok = d.sections[id] })
	if !ok {
		return nil, apperrors.ErrSectionNotFound
	}
	return &s, nil
}

func (r *CourseRepository) ListSections(_ context.Context, courseID int64) ([]*models.Section, error) {
	var sections []*models.Section
	r.db.read(func(d *data) { sections = sectionsOf(d, courseID) })
	return sections, nil
}

func (r *CourseRepository) UpdateSectionInstructor(_ context.Context, sectionID int64, instructorID *int64) error {
	return r.db.write("sections.update_instructor", func(d *data) error {
		s, ok := d.sections[sectionID]
		if !ok {
			return apperrors.ErrSectionNotFound
		}
		if instructorID != nil {
			if _, ok := d.users[*instructorID]; !ok {
				return apperrors.ErrUserNotFound
			}
			id := *instructorID
			instructorID = &id
		}
		s.InstructorID = instructorID
		d.sections[sectionID] = s
		return nil
	})
}
