package service

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"gestiostock-backend/internal/model"
	"gestiostock-backend/internal/repository"
	"gestiostock-backend/internal/ws"
	"gestiostock-backend/pkg/jwt"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserInactive       = errors.New("user account is inactive")
	ErrWrongPassword      = errors.New("current password is incorrect")
	ErrSessionTimeout     = errors.New("session expired due to inactivity")
)

type AuthService interface {
	Login(identifier, password string) (*LoginResponse, error)
	ResetPassword(email, oldPassword, newPassword string) error
	ValidateToken(tokenString string) (*TokenValidationResponse, error)
	Heartbeat(userID uuid.UUID) error
}

type LoginResponse struct {
	Token      string             `json:"token"`
	User       model.UserResponse `json:"user"`
	Role       *model.Role        `json:"role"`
	Privileges []string           `json:"privileges"`
}

type TokenValidationResponse struct {
	User       model.UserResponse `json:"user"`
	Role       *model.Role        `json:"role"`
	Privileges []string           `json:"privileges"`
}

type authService struct {
	userRepo repository.UserRepository
	wsHub    *ws.Hub
}

func NewAuthService(userRepo repository.UserRepository, hub *ws.Hub) AuthService {
	return &authService{
		userRepo: userRepo,
		wsHub:    hub,
	}
}

// Login accepts either the username or the email address as identifier.
func (s *authService) Login(identifier, password string) (*LoginResponse, error) {
	user, err := s.userRepo.FindByUsername(identifier)
	if err != nil {
		user, err = s.userRepo.FindByEmail(identifier)
		if err != nil {
			return nil, ErrInvalidCredentials
		}
	}

	if !user.IsActive {
		return nil, ErrUserInactive
	}

	if !user.CheckPassword(password) {
		return nil, ErrInvalidCredentials
	}

	roleCode := ""
	if user.Role != nil {
		roleCode = user.Role.Code
	}

	// Single session: rotating the token version invalidates every token
	// issued before this login.
	newTokenVersion := uuid.New().String()
	now := time.Now()
	user.TokenVersion = newTokenVersion
	user.LastLoginAt = &now
	user.LastSeenAt = &now

	if err := s.userRepo.Update(user); err != nil {
		return nil, errors.New("failed to update session")
	}

	token, err := jwt.GenerateToken(user.ID, user.Email, user.FullName, roleCode, user.GetPrivilegeCodes(), newTokenVersion)
	if err != nil {
		return nil, errors.New("failed to generate token")
	}

	return &LoginResponse{
		Token:      token,
		User:       user.ToResponse(),
		Role:       user.Role,
		Privileges: user.GetPrivilegeCodes(),
	}, nil
}

func (s *authService) ResetPassword(email, oldPassword, newPassword string) error {
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		return ErrUserNotFound
	}

	if !user.CheckPassword(oldPassword) {
		return ErrWrongPassword
	}

	if err := user.SetPassword(newPassword); err != nil {
		return errors.New("failed to hash new password")
	}

	if err := s.userRepo.Update(user); err != nil {
		return err
	}

	// Force every open session to re-authenticate with the new password.
	return s.userRepo.UpdateTokenVersion(user.ID, uuid.New().String())
}

func (s *authService) ValidateToken(tokenString string) (*TokenValidationResponse, error) {
	claims, err := jwt.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(claims.UserID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	if !user.IsActive {
		return nil, ErrUserInactive
	}

	if user.TokenVersion != claims.TokenVersion {
		return nil, errors.New("session expired (logged in on another device)")
	}

	return &TokenValidationResponse{
		User:       user.ToResponse(),
		Role:       user.Role,
		Privileges: user.GetPrivilegeCodes(),
	}, nil
}

func (s *authService) Heartbeat(userID uuid.UUID) error {
	if err := s.userRepo.UpdateLastSeen(userID); err != nil {
		return err
	}

	if s.wsHub != nil {
		go func() {
			payload := map[string]interface{}{
				"type":         "user_status_update",
				"user_id":      userID.String(),
				"status":       "online",
				"last_seen_at": time.Now(),
			}
			msg, _ := json.Marshal(payload)
			s.wsHub.Broadcast <- msg
		}()
	}

	return nil
}
