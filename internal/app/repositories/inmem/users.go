package inmem

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/yigit/uniportal/internal/app/models"
	"github.com/yigit/uniportal/internal/pkg/apperrors"
)

// UserRepository is the in-memory IUserRepository
type UserRepository struct {
	db *DB
}

func (r *UserRepository) Create(_ context.Context, user *models.User) error {
	return r.db.write("users.create", func(d *data) error {
		email := strings.ToLower(strings.TrimSpace(user.Email))
		for _, u := range d.users {
			if u.Email == email {
				return apperrors.ErrEmailAlreadyExists
			}
		}
		now := r.db.now()
		user.ID = d.nextID()
		user.Email = email
		user.CreatedAt = now
		user.UpdatedAt = now
		d.users[user.ID] = *user
		return nil
	})
}

func (r *UserRepository) GetByID(_ context.Context, id int64) (*models.User, error) {
	var (
		u  models.User
		ok bool
	)
	r.db.read(func(d *data) { u, ok = d.users[id] })
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return &u, nil
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var found *models.User
	r.db.read(func(d *data) {
		for _, u := range d.users {
			if u.Email == email {
				u := u
				found = &u
				return
			}
		}
	})
	if found == nil {
		return nil, apperrors.ErrUserNotFound
	}
	return found, nil
}

func (r *UserRepository) Update(_ context.Context, user *models.User) error {
	return r.db.write("users.update", func(d *data) error {
		existing, ok := d.users[user.ID]
		if !ok {
			return apperrors.ErrUserNotFound
		}
		existing.FirstName = user.FirstName
		existing.LastName = user.LastName
		existing.Role = user.Role
		existing.Program = user.Program
		existing.Semester = user.Semester
		existing.Section = user.Section
		existing.IsActive = user.IsActive
		existing.UpdatedAt = r.db.now()
		user.UpdatedAt = existing.UpdatedAt
		d.users[user.ID] = existing
		return nil
	})
}

func matchUser(u models.User, filter models.UserFilter) bool {
	if filter.Role != nil && u.Role != *filter.Role {
		return false
	}
	if filter.IsActive != nil && u.IsActive != *filter.IsActive {
		return false
	}
	if s := strings.ToLower(strings.TrimSpace(filter.Search)); s != "" {
		if !strings.Contains(u.Email, s) &&
			!strings.Contains(strings.ToLower(u.FirstName), s) &&
			!strings.Contains(strings.ToLower(u.LastName), s) {
			return false
		}
	}
	return true
}

func (r *UserRepository) filtered(filter models.UserFilter) []*models.User {
	var users []*models.User
	r.db.read(func(d *data) {
		for _, u := range d.users {
			if matchUser(u, filter) {
				u := u
				users = append(users, &u)
			}
		}
	})
	return users
}

func (r *UserRepository) List(_ context.Context, filter models.UserFilter) ([]*models.User, int, error) {
	users := r.filtered(filter)
	sort.Slice(users, func(i, j int) bool {
		a, b := users[i], users[j]
		if a.LastName != b.LastName {
			return a.LastName < b.LastName
		}
		if a.FirstName != b.FirstName {
			return a.FirstName < b.FirstName
		}
		return a.ID < b.ID
	})
	return paginate(users, filter.Offset, filter.Limit), len(users), nil
}

func (r *UserRepository) ListActive(_ context.Context, role *models.RoleType) ([]*models.User, error) {
	active := true
	users := r.filtered(models.UserFilter{Role: role, IsActive: &active})
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (r *UserRepository) UpdateLastLogin(_ context.Context, userID int64, at time.Time) error {
	return r.db.write("users.update_last_login", func(d *data) error {
		u, ok := d.users[userID]
		if !ok {
			return nil
		}
		u.LastLoginAt = &at
		d.users[userID] = u
		return nil
	})
}

func (r *UserRepository) UpdateCGPA(_ context.Context, userID int64, cgpa *float64) error {
	return r.db.write("users.update_cgpa", func(d *data) error {
		u, ok := d.users[userID]
		if !ok {
			return apperrors.ErrUserNotFound
		}
		if cgpa != nil {
			v := *cgpa
			cgpa = &v
		}
		u.CGPA = cgpa
		u.UpdatedAt = r.db.now()
		d.users[userID] = u
		return nil
	})
}
