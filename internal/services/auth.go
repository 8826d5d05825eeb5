package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"conferenceplanner/internal/domain"
)

// constraintUsername is the unique constraint on users.username.
const constraintUsername = "users_username_key"

type authService struct {
	users       domain.UserRepository
	hasher      domain.PasswordHasher
	issuer      domain.TokenIssuer
	tokenExpiry time.Duration
	email       domain.EmailService
	logger      *slog.Logger
}

// NewAuthService creates an AuthService with the given repository and auth
// ports. email may be nil; the welcome mail is then skipped.
func NewAuthService(
	users domain.UserRepository,
	hasher domain.PasswordHasher,
	issuer domain.TokenIssuer,
	tokenExpiry time.Duration,
	email domain.EmailService,
	logger *slog.Logger,
) domain.AuthService {
	return &authService{
		users:       users,
		hasher:      hasher,
		issuer:      issuer,
		tokenExpiry: tokenExpiry,
		email:       email,
		logger:      logger,
	}
}

func (s *authService) SignUp(ctx context.Context, username, email, password string) (*domain.User, error) {
	username = strings.TrimSpace(username)

	salt, err := s.hasher.GenerateSalt()
	if err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}
	hash, err := s.hasher.Hash(salt, password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := domain.NewUser(username, strings.ToLower(strings.TrimSpace(email)), hash, salt, domain.RoleUser)
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt

	if err := s.users.Create(ctx, user); err != nil {
		var uv *domain.UniqueViolationError
		if errors.As(err, &uv) && uv.Constraint == constraintUsername {
			return nil, domain.ErrDuplicateUsername
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	if s.email != nil && user.Email != "" {
		data := &domain.WelcomeEmailData{Email: user.Email, Username: user.Username}
		if err := s.email.SendWelcome(ctx, data); err != nil {
			s.logger.WarnContext(ctx, "welcome email failed", "user_id", user.ID, "err", err)
		}
	}
	return user, nil
}

func (s *authService) Login(ctx context.Context, username, password string) (string, *domain.User, error) {
	user, err := s.users.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("get user: %w", err)
	}

	if err := s.hasher.Compare(user.PasswordHash, user.PasswordSalt, password); err != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.issuer.Issue(user.ID, user.Username, []string{user.Role}, s.tokenExpiry)
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}
	return token, user, nil
}
