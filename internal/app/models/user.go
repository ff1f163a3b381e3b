package models

import (
	"time"
)

// User defines the user model based on the 'users' table
type User struct {
	ID          int64      `json:"id" db:"id"`
	Email       string     `json:"email" db:"email"`
	Password    string     `json:"-" db:"password"`
	FirstName   string     `json:"firstName" db:"first_name"`
	LastName    string     `json:"lastName" db:"last_name"`
	Role        RoleType   `json:"role" db:"role"`
	Program     string     `json:"program,omitempty" db:"program"`
	Semester    int        `json:"semester,omitempty" db:"semester"`
	Section     string     `json:"section,omitempty" db:"section"`
	CGPA        *float64   `json:"cgpa,omitempty" db:"cgpa"`
	IsActive    bool       `json:"isActive" db:"is_active"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty" db:"last_login_at"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time  `json:"updatedAt" db:"updated_at"`
}

// FullName joins first and last name
func (u *User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// UserFilter narrows admin user listings
type UserFilter struct {
	Role     *RoleType
	IsActive *bool
	Search   string
	Offset   uint64
	Limit    int
}
