package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"arroyo_seco_api/internal/common"
	"arroyo_seco_api/internal/common/security"
	"arroyo_seco_api/internal/domain/model"
	"arroyo_seco_api/internal/domain/repository"

	"github.com/google/uuid"
)

const minPasswordLength = 6

type AuthService struct {
	users    repository.UserRepository
	sessions repository.SessionRepository
	issuer   *security.TokenIssuer
}

func NewAuthService(users repository.UserRepository, sessions repository.SessionRepository, issuer *security.TokenIssuer) *AuthService {
	return &AuthService{users: users, sessions: sessions, issuer: issuer}
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	User      *model.User `json:"user"`
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expiresAt"`
}

func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return nil, common.NewValidationError(common.CodeMissingFields, "Name, email and password are required")
	}
	if !validEmail(req.Email) {
		return nil, common.NewValidationError(common.CodeInvalidEmail, "Email address is not valid")
	}
	if len(req.Password) < minPasswordLength {
		return nil, common.NewValidationError(common.CodeWeakPassword,
			fmt.Sprintf("Password must be at least %d characters", minPasswordLength))
	}

	hashedPassword, err := security.HashPassword(req.Password)
	if err != nil {
		return nil, common.NewInternalError("Failed to hash password", err)
	}

	user := &model.User{
		ID:             uuid.NewString(),
		Name:           req.Name,
		Email:          strings.ToLower(req.Email),
		HashedPassword: hashedPassword,
		Status:         model.StatusActive,
		Role:           model.RoleGuest,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}

	// Duplicate emails surface as EMAIL_EXISTS from the repository, even when
	// caught at the database constraint layer.
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	return s.startSession(ctx, user)
}

func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	if req.Email == "" || req.Password == "" {
		return nil, common.NewValidationError(common.CodeMissingFields, "Email and password are required")
	}

	user, err := s.users.FindByEmail(ctx, strings.ToLower(req.Email))
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			// Uniform message: don't leak whether the account exists.
			return nil, common.NewAuthError(common.CodeInvalidCredentials, "Invalid email or password", false)
		}
		return nil, err
	}

	// A provisioned account's existence is already known to its owner, so
	// suspended/inactive get a distinguishing message.
	switch user.Status {
	case model.StatusSuspended:
		return nil, common.NewForbiddenError(common.CodeUserSuspended, "Account is suspended")
	case model.StatusInactive:
		return nil, common.NewForbiddenError(common.CodeUserInactive, "Account is not active")
	}

	if !security.CheckPasswordHash(req.Password, user.HashedPassword) {
		return nil, common.NewAuthError(common.CodeInvalidCredentials, "Invalid email or password", false)
	}

	return s.startSession(ctx, user)
}

// startSession issues a token and persists the matching session row. The row
// is what makes the token revocable before its natural expiry.
func (s *AuthService) startSession(ctx context.Context, user *model.User) (*AuthResponse, error) {
	sessionID := uuid.NewString()
	token, expiresAt, err := s.issuer.Issue(user, sessionID)
	if err != nil {
		return nil, err
	}

	session := &model.Session{
		ID:        sessionID,
		UserID:    user.ID,
		Token:     token,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now(),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to persist session: %w", err)
	}

	user.HashedPassword = "" // Clear before returning
	return &AuthResponse{User: user, Token: token, ExpiresAt: expiresAt}, nil
}

// Logout deletes the session row behind the presented token. A token whose
// session is already gone gets SESSION_NOT_FOUND, not a no-op 200.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.NewNotFoundError(common.CodeSessionNotFound, "Session not found")
		}
		return err
	}
	return nil
}

func (s *AuthService) Me(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.NewNotFoundError(common.CodeUserNotFound, "User not found")
		}
		return nil, err
	}
	user.HashedPassword = ""
	return user, nil
}

// UpdateUserAccess applies an administrative status and/or role change.
func (s *AuthService) UpdateUserAccess(ctx context.Context, userID string, status *model.UserStatus, role *model.Role) (*model.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.NewNotFoundError(common.CodeUserNotFound, "User not found")
		}
		return nil, err
	}

	if status != nil {
		user.Status = *status
	}
	if role != nil {
		user.Role = *role
	}
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	user.HashedPassword = ""
	return user, nil
}

// RevokeUserSessions force-invalidates every outstanding token for the user
// by deleting all their session rows.
func (s *AuthService) RevokeUserSessions(ctx context.Context, userID string) (int64, error) {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return 0, common.NewNotFoundError(common.CodeUserNotFound, "User not found")
		}
		return 0, err
	}
	return s.sessions.DeleteByUserID(ctx, userID)
}

// SweepExpiredSessions garbage-collects rows past their expiry.
func (s *AuthService) SweepExpiredSessions(ctx context.Context) (int64, error) {
	return s.sessions.DeleteExpired(ctx)
}

// validEmail accepts a single-@ address with a dotted, non-empty domain.
func validEmail(email string) bool {
	if strings.Count(email, "@") != 1 {
		return false
	}
	local, domain, _ := strings.Cut(email, "@")
	if local == "" || domain == "" {
		return false
	}
	if !strings.Contains(domain, ".") {
		return false
	}
	if strings.HasPrefix(domain, ".") || strings.HasSuffix(domain, ".") {
		return false
	}
	return !strings.ContainsAny(email, " \t")
}
