package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"time"

	"github.com/immobarok/mailbox-backend/internal/domain"
	"github.com/immobarok/mailbox-backend/internal/observability"
	"github.com/immobarok/mailbox-backend/internal/repository"
	"github.com/immobarok/mailbox-backend/internal/security"
)

const minPasswordLength = 6

var (
	ErrInvalidInput             = errors.New("invalid input")
	ErrEmailTaken               = errors.New("email already registered")
	ErrInvalidCredentials       = errors.New("invalid credentials")
	ErrInvalidVerificationToken = errors.New("invalid verification token")
	ErrVerificationTokenExpired = errors.New("verification token expired")
	ErrAlreadyVerified          = errors.New("email already verified")
	ErrUserNotFound             = errors.New("user not found")
)

type RegisterResult struct {
	User           domain.UserView
	MailDispatched bool
}

type LoginResult struct {
	Token     string
	ExpiresIn time.Duration
	User      domain.UserView
}

type AuthServiceInterface interface {
	Register(ctx context.Context, email, name, password string) (*RegisterResult, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	VerifyEmail(ctx context.Context, token string) (*domain.UserView, error)
	ResendVerification(ctx context.Context, email string) (bool, error)
}

// AuthService sequences the user store, password hasher, verification token
// issuer and JWT manager into the register/login/verify/resend flows.
type AuthService struct {
	users     repository.UserRepository
	tokens    *security.VerificationTokenIssuer
	jwtMgr    *security.JWTManager
	mailer    Mailer
	logger    *slog.Logger
	accessTTL time.Duration
	now       func() time.Time
}

func NewAuthService(
	users repository.UserRepository,
	tokens *security.VerificationTokenIssuer,
	jwtMgr *security.JWTManager,
	mailer Mailer,
	logger *slog.Logger,
	accessTTL time.Duration,
) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		jwtMgr:    jwtMgr,
		mailer:    mailer,
		logger:    logger,
		accessTTL: accessTTL,
		now:       time.Now,
	}
}

// Register creates an unverified account and dispatches the verification
// mail. Persistence completes before the dispatch attempt; a dispatch
// failure is a degraded success, never a rollback.
func (s *AuthService) Register(ctx context.Context, email, name, password string) (*RegisterResult, error) {
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("%w: enter a valid email", ErrInvalidInput)
	}
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if len(password) < minPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters long", ErrInvalidInput, minPasswordLength)
	}

	hash, err := security.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	token, expiry, err := s.tokens.Issue()
	if err != nil {
		return nil, fmt.Errorf("issue verification token: %w", err)
	}

	u := &domain.User{
		Email:              email,
		Name:               name,
		PasswordHash:       hash,
		Role:               domain.RoleUser,
		IsVerified:         false,
		VerificationToken:  &token,
		VerificationExpiry: &expiry,
	}
	if err := s.users.Create(u); err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			observability.RecordAuthEvent(ctx, "register", "conflict")
			return nil, ErrEmailTaken
		}
		observability.RecordAuthEvent(ctx, "register", "error")
		return nil, err
	}

	dispatched := s.dispatchVerificationMail(ctx, u.Email, token)
	observability.RecordAuthEvent(ctx, "register", "success")
	return &RegisterResult{User: domain.NewUserView(u), MailDispatched: dispatched}, nil
}

// Login authenticates a local credential. Any failure collapses into
// ErrInvalidCredentials so callers cannot enumerate accounts. Unverified
// accounts may log in; verification gates nothing here.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	u, err := s.users.FindByEmail(email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			observability.RecordAuthEvent(ctx, "login", "unknown_email")
			return nil, ErrInvalidCredentials
		}
		observability.RecordAuthEvent(ctx, "login", "error")
		return nil, err
	}
	if !security.VerifyPassword(password, u.PasswordHash) {
		observability.RecordAuthEvent(ctx, "login", "bad_password")
		return nil, ErrInvalidCredentials
	}

	token, err := s.jwtMgr.SignAccessToken(u.ID, u.Email, s.accessTTL)
	if err != nil {
		observability.RecordAuthEvent(ctx, "login", "error")
		return nil, fmt.Errorf("sign access token: %w", err)
	}
	observability.RecordAuthEvent(ctx, "login", "success")
	return &LoginResult{Token: token, ExpiresIn: s.accessTTL, User: domain.NewUserView(u)}, nil
}

// VerifyEmail consumes a verification token. The token is single-use: the
// transition clears it, so a replay fails with ErrInvalidVerificationToken.
func (s *AuthService) VerifyEmail(ctx context.Context, token string) (*domain.UserView, error) {
	if token == "" {
		return nil, ErrInvalidVerificationToken
	}
	u, err := s.users.FindByVerificationToken(token)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			observability.RecordAuthEvent(ctx, "verify_email", "invalid_token")
			return nil, ErrInvalidVerificationToken
		}
		observability.RecordAuthEvent(ctx, "verify_email", "error")
		return nil, err
	}

	switch s.tokens.Validate(u, token, s.now().UTC()) {
	case security.TokenExpired:
		observability.RecordAuthEvent(ctx, "verify_email", "expired_token")
		return nil, ErrVerificationTokenExpired
	case security.TokenMismatch:
		observability.RecordAuthEvent(ctx, "verify_email", "invalid_token")
		return nil, ErrInvalidVerificationToken
	}

	if err := s.users.MarkVerified(u.ID); err != nil {
		observability.RecordAuthEvent(ctx, "verify_email", "error")
		return nil, err
	}
	u.IsVerified = true
	u.VerificationToken = nil
	u.VerificationExpiry = nil

	observability.RecordAuthEvent(ctx, "verify_email", "success")
	view := domain.NewUserView(u)
	return &view, nil
}

// ResendVerification rotates the verification token. The overwrite
// invalidates the previous token even when it has not expired; at most one
// live token exists per account.
func (s *AuthService) ResendVerification(ctx context.Context, email string) (bool, error) {
	u, err := s.users.FindByEmail(email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			observability.RecordAuthEvent(ctx, "resend_verification", "not_found")
			return false, ErrUserNotFound
		}
		observability.RecordAuthEvent(ctx, "resend_verification", "error")
		return false, err
	}
	if u.IsVerified {
		observability.RecordAuthEvent(ctx, "resend_verification", "already_verified")
		return false, ErrAlreadyVerified
	}

	token, expiry, err := s.tokens.Issue()
	if err != nil {
		return false, fmt.Errorf("issue verification token: %w", err)
	}
	if err := s.users.SetVerificationToken(u.ID, token, expiry); err != nil {
		observability.RecordAuthEvent(ctx, "resend_verification", "error")
		return false, err
	}

	dispatched := s.dispatchVerificationMail(ctx, u.Email, token)
	observability.RecordAuthEvent(ctx, "resend_verification", "success")
	return dispatched, nil
}

func (s *AuthService) dispatchVerificationMail(ctx context.Context, email, token string) bool {
	if err := s.mailer.SendVerificationEmail(ctx, email, token); err != nil {
		s.logger.ErrorContext(ctx, "verification mail dispatch failed", "email", email, "error", err)
		observability.RecordMailDispatch(ctx, "failed")
		return false
	}
	observability.RecordMailDispatch(ctx, "sent")
	return true
}
