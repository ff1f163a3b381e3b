package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/yigit/uniportal/internal/app/models"
	"github.com/yigit/uniportal/internal/app/models/dto"
	"github.com/yigit/uniportal/internal/app/repositories"
	"github.com/yigit/uniportal/internal/pkg/auth"
	"github.com/yigit/uniportal/internal/pkg/helpers"
	"github.com/yigit/uniportal/internal/pkg/logger"
)

// UserService is the admin account management
type UserService interface {
	List(ctx context.Context, req *dto.UserFilterRequest) (*dto.UserListResponse, error)
	Create(ctx context.Context, req *dto.CreateUserRequest) (*dto.UserResponse, error)
	Update(ctx context.Context, id int64, req *dto.UpdateUserRequest) (*dto.UserResponse, error)
}

type userServiceImpl struct {
	users  repositories.IUserRepository
	hasher *auth.PasswordHasher
}

// NewUserService creates a new UserService
func NewUserService(users repositories.IUserRepository, hasher *auth.PasswordHasher) UserService {
	return &userServiceImpl{users: users, hasher: hasher}
}

func (s *userServiceImpl) List(ctx context.Context, req *dto.UserFilterRequest) (*dto.UserListResponse, error) {
	offset, limit := pageBounds(req.Page, req.Size)
	filter := models.UserFilter{
		IsActive: req.Active,
		Search:   strings.TrimSpace(req.Search),
		Offset:   offset,
		Limit:    limit,
	}
	if req.Role != "" {
		role := models.RoleType(req.Role)
		filter.Role = &role
	}

	users, total, err := s.users.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("error listing users: %w", err)
	}

	items := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		items = append(items, dto.NewUserResponse(u))
	}
	return &dto.UserListResponse{
		Users:      items,
		Pagination: helpers.NewPaginationInfo(total, req.Page, limit),
	}, nil
}

func (s *userServiceImpl) Create(ctx context.Context, req *dto.CreateUserRequest) (*dto.UserResponse, error) {
	hashed, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
		Password:  hashed,
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Role:      req.Role,
		Program:   strings.TrimSpace(req.Program),
		Semester:  req.Semester,
		Section:   strings.TrimSpace(req.Section),
		IsActive:  true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	logger.Info().Int64("userID", user.ID).Str("role", string(user.Role)).Msg("User created by admin")
	resp := dto.NewUserResponse(user)
	return &resp, nil
}

func (s *userServiceImpl) Update(ctx context.Context, id int64, req *dto.UpdateUserRequest) (*dto.UserResponse, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil {
		user.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		user.LastName = strings.TrimSpace(*req.LastName)
	}
	if req.Role != nil {
		user.Role = *req.Role
	}
	if req.Program != nil {
		user.Program = strings.TrimSpace(*req.Program)
	}
	if req.Semester != nil {
		user.Semester = *req.Semester
	}
	if req.Section != nil {
		user.Section = strings.TrimSpace(*req.Section)
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	resp := dto.NewUserResponse(user)
	return &resp, nil
}
