package dto

import "github.com/yigit/uniportal/internal/app/models"

// UserFilterRequest represents user filtering parameters
type UserFilterRequest struct {
	Role   string `form:"role" binding:"omitempty,oneof=student faculty admin"`
	Active *bool  `form:"active"`
	Search string `form:"q"`
	PageQuery
}

// CreateUserRequest is an admin-created account of any role
type CreateUserRequest struct {
	Email     string          `json:"email" binding:"required,email"`
	Password  string          `json:"password" binding:"required,password"`
	FirstName string          `json:"firstName" binding:"required,max=100"`
	LastName  string          `json:"lastName" binding:"required,max=100"`
	Role      models.RoleType `json:"role" binding:"required,oneof=student faculty admin"`
	Program   string          `json:"program" binding:"max=100"`
	Semester  int             `json:"semester" binding:"min=0,max=16"`
	Section   string          `json:"section" binding:"max=50"`
}

// UpdateUserRequest changes academic attributes, role or the active flag.
// Nil fields are left untouched.
type UpdateUserRequest struct {
	FirstName *string          `json:"firstName" binding:"omitempty,max=100"`
	LastName  *string          `json:"lastName" binding:"omitempty,max=100"`
	Role      *models.RoleType `json:"role" binding:"omitempty,oneof=student faculty admin"`
	Program   *string          `json:"program" binding:"omitempty,max=100"`
	Semester  *int             `json:"semester" binding:"omitempty,min=0,max=16"`
	Section   *string          `json:"section" binding:"omitempty,max=50"`
	IsActive  *bool            `json:"isActive"`
}

// UserListResponse represents a list of users with pagination
type UserListResponse struct {
	Users      []UserResponse `json:"users"`
	Pagination PaginationInfo `json:"pagination"`
}
