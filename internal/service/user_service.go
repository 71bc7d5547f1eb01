package service

import (
	"errors"
	"fmt"

	"gestiostock-backend/internal/model"
	"gestiostock-backend/internal/repository"
	"gestiostock-backend/pkg/validator"

	"github.com/google/uuid"
)

var (
	ErrEmailExists    = errors.New("email already exists")
	ErrUsernameExists = errors.New("username already exists")
)

type UserService interface {
	CreateUser(req *CreateUserRequest, creatorID string) (*model.User, error)
	UpdateUser(userID uuid.UUID, req *UpdateUserRequest, updaterID string) (*model.User, error)
	DeleteUser(userID uuid.UUID) error
	UpdateUserPrivileges(userID uuid.UUID, privilegeCodes []string, updaterID string) (*model.User, error)
	GetAllUsers() ([]model.UserResponse, error)
	GetUserByID(id uuid.UUID) (*model.UserResponse, error)
}

type CreateUserRequest struct {
	Username    string `json:"username" validate:"required,min=3"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=6"`
	FullName    string `json:"full_name" validate:"required"`
	PhoneNumber string `json:"phone_number"`
	RoleID      uint   `json:"role_id" validate:"required"`
}

type UpdateUserRequest struct {
	Email       string  `json:"email" validate:"required,email"`
	Password    *string `json:"password,omitempty" validate:"omitempty,min=6"` // Optional
	FullName    string  `json:"full_name" validate:"required"`
	PhoneNumber string  `json:"phone_number"`
	RoleID      uint    `json:"role_id" validate:"required"`
	IsActive    *bool   `json:"is_active"`
}

type userService struct {
	userRepo      repository.UserRepository
	privilegeRepo repository.PrivilegeRepository
	roleRepo      repository.RoleRepository
}

func NewUserService(userRepo repository.UserRepository, privilegeRepo repository.PrivilegeRepository, roleRepo repository.RoleRepository) UserService {
	return &userService{
		userRepo:      userRepo,
		privilegeRepo: privilegeRepo,
		roleRepo:      roleRepo,
	}
}

func (s *userService) CreateUser(req *CreateUserRequest, creatorID string) (*model.User, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return nil, fmt.Errorf("Validation failed: Field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	if existing, _ := s.userRepo.FindByUsername(req.Username); existing != nil {
		return nil, ErrUsernameExists
	}
	if existing, _ := s.userRepo.FindByEmail(req.Email); existing != nil {
		return nil, ErrEmailExists
	}

	role, err := s.roleRepo.FindByID(req.RoleID)
	if err != nil {
		return nil, errors.New("role not found")
	}

	user := &model.User{
		Username:    req.Username,
		Email:       req.Email,
		FullName:    req.FullName,
		PhoneNumber: req.PhoneNumber,
		RoleID:      &req.RoleID,
		IsActive:    true,
	}
	user.CreatedBy = creatorID
	user.UpdatedBy = creatorID

	if err := user.SetPassword(req.Password); err != nil {
		return nil, errors.New("failed to hash password")
	}

	// New users start with the full privilege set of their role.
	user.Privileges = role.Privileges

	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *userService) UpdateUser(userID uuid.UUID, req *UpdateUserRequest, updaterID string) (*model.User, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return nil, fmt.Errorf("Validation failed: Field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	if req.Email != user.Email {
		if existing, _ := s.userRepo.FindByEmail(req.Email); existing != nil {
			return nil, ErrEmailExists
		}
	}

	role, err := s.roleRepo.FindByID(req.RoleID)
	if err != nil {
		return nil, errors.New("role not found")
	}

	user.Email = req.Email
	user.FullName = req.FullName
	user.PhoneNumber = req.PhoneNumber
	user.RoleID = &req.RoleID
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}
	user.UpdatedBy = updaterID

	if req.Password != nil && *req.Password != "" {
		if err := user.SetPassword(*req.Password); err != nil {
			return nil, errors.New("failed to hash password")
		}
	}

	// Changing the role resets privileges to the role's set.
	user.Privileges = role.Privileges

	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}

	return s.userRepo.FindByID(userID)
}

func (s *userService) DeleteUser(userID uuid.UUID) error {
	return s.userRepo.Delete(userID)
}

func (s *userService) UpdateUserPrivileges(userID uuid.UUID, privilegeCodes []string, updaterID string) (*model.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	privileges, err := s.privilegeRepo.FindByCodes(privilegeCodes)
	if err != nil {
		return nil, errors.New("failed to find privileges")
	}

	if err := s.userRepo.UpdatePrivileges(userID, privileges); err != nil {
		return nil, err
	}

	user.UpdatedBy = updaterID
	s.userRepo.Update(user)

	return s.userRepo.FindByID(userID)
}

func (s *userService) GetAllUsers() ([]model.UserResponse, error) {
	users, err := s.userRepo.FindAll()
	if err != nil {
		return nil, err
	}

	responses := make([]model.UserResponse, len(users))
	for i, user := range users {
		responses[i] = user.ToResponse()
	}
	return responses, nil
}

func (s *userService) GetUserByID(id uuid.UUID) (*model.UserResponse, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		return nil, ErrUserNotFound
	}
	response := user.ToResponse()
	return &response, nil
}
