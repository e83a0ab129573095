package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/oxfordpsn/school-portal/internal/core/domain"
	"github.com/oxfordpsn/school-portal/internal/core/ports"
)

// LoginThrottle abstracts the failed-attempt limiter (Redis). It is
// consulted before credential verification and fed on every failure.
type LoginThrottle interface {
	TooMany(ctx context.Context, username string) (bool, error)
	RecordFailure(ctx context.Context, username string) error
	Reset(ctx context.Context, username string) error
}

// Auditor enqueues audit events for asynchronous persistence.
type Auditor interface {
	Enqueue(event ports.AuditEventInput)
}

// AuthService implements signup, login, user listing, and password reset.
type AuthService struct {
	users    ports.UserRepository
	tokens   ports.TokenIssuer
	throttle LoginThrottle
	audit    Auditor
	log      zerolog.Logger
}

func NewAuthService(users ports.UserRepository, tokens ports.TokenIssuer, throttle LoginThrottle, audit Auditor, log zerolog.Logger) *AuthService {
	return &AuthService{users: users, tokens: tokens, throttle: throttle, audit: audit, log: log}
}

// Signup creates a principal. The role is normalized here, at the single
// point where it enters the system.
func (s *AuthService) Signup(ctx context.Context, in ports.SignupInput) (*domain.User, error) {
	if in.Username == "" || in.Password == "" || in.Email == "" || in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	role, ok := domain.NormalizeRole(in.Role)
	if !ok {
		return nil, domain.ErrInvalidInput
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		Username:     in.Username,
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: string(hash),
		Role:         role,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.record(domain.AuditSignup, user.Username, "role="+role)
	s.log.Info().Str("username", user.Username).Str("role", role).Msg("user created")
	return user, nil
}

// Login verifies credentials and mints a bearer token. The temporary hash
// set by a reset is accepted as a fallback, equally valid until superseded.
// Unknown, inactive, and wrong-password cases all collapse into
// domain.ErrInvalidCredentials so responses do not enumerate accounts.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, *domain.User, error) {
	if username == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	blocked, err := s.throttle.TooMany(ctx, username)
	if err != nil {
		// Throttle outage must not lock everyone out.
		s.log.Warn().Err(err).Str("username", username).Msg("login throttle check failed, proceeding")
	} else if blocked {
		return "", nil, domain.ErrTooManyAttempts
	}

	user, err := s.users.FindActiveByUsername(ctx, username)
	if err != nil {
		s.noteFailure(ctx, username)
		return "", nil, domain.ErrInvalidCredentials
	}

	if !s.passwordMatches(user, password) {
		s.noteFailure(ctx, username)
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Mint(user.Username, user.Role)
	if err != nil {
		return "", nil, err
	}

	if err := s.throttle.Reset(ctx, username); err != nil {
		s.log.Warn().Err(err).Str("username", username).Msg("failed to reset login throttle")
	}
	s.record(domain.AuditLoginSuccess, user.Username, "")
	return token, user, nil
}

// passwordMatches checks the primary hash first, then the temporary hash
// when one is set. Both paths are bcrypt comparisons; plaintext never
// touches storage.
func (s *AuthService) passwordMatches(user *domain.User, password string) bool {
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) == nil {
		return true
	}
	if user.TemporaryPasswordHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(user.TemporaryPasswordHash), []byte(password)) == nil
}

func (s *AuthService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	return s.users.ListActive(ctx)
}

// ResetPassword issues a temporary credential without touching the primary
// password. The plaintext is returned exactly once; only its hash is
// stored. Temporary credentials have no expiry and stay valid until the
// next reset or password change supersedes them.
func (s *AuthService) ResetPassword(ctx context.Context, username string) (string, error) {
	if username == "" {
		return "", domain.ErrInvalidInput
	}

	user, err := s.users.FindActiveByUsername(ctx, username)
	if err != nil {
		return "", err
	}

	password, err := generatePassword(generatedPasswordLength)
	if err != nil {
		return "", err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	if err := s.users.SetTemporaryPassword(ctx, user.Username, string(hash)); err != nil {
		return "", err
	}

	s.record(domain.AuditPasswordReset, user.Username, "")
	s.log.Info().Str("username", user.Username).Msg("temporary password issued")
	return password, nil
}

func (s *AuthService) noteFailure(ctx context.Context, username string) {
	if err := s.throttle.RecordFailure(ctx, username); err != nil {
		s.log.Warn().Err(err).Str("username", username).Msg("failed to record login failure")
	}
	s.record(domain.AuditLoginFailed, username, "")
}

func (s *AuthService) record(action, username, detail string) {
	s.audit.Enqueue(ports.AuditEventInput{
		Username:  username,
		Action:    action,
		Detail:    detail,
		Timestamp: time.Now().UTC(),
	})
}
