package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/storefront/catalog-service/internal/core/domain"
	"github.com/storefront/catalog-service/internal/core/ports"
)

var _ ports.AuthService = (*AuthService)(nil)

// AuthService implements registration, sign-in and principal resolution.
type AuthService struct {
	users   ports.UserRepository
	tokens  ports.TokenIssuer
	limiter ports.SignInLimiter
	logger  zerolog.Logger

	cost      int
	dummyOnce sync.Once
	dummyHash []byte
}

// NewAuthService wires the credential store and token issuer. limiter may be
// nil, in which case sign-in attempts are not throttled. A cost outside the
// bcrypt range falls back to bcrypt.DefaultCost.
func NewAuthService(users ports.UserRepository, tokens ports.TokenIssuer, limiter ports.SignInLimiter, cost int, logger zerolog.Logger) *AuthService {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &AuthService{
		users:   users,
		tokens:  tokens,
		limiter: limiter,
		logger:  logger,
		cost:    cost,
	}
}

// SignUp creates a user with a bcrypt-hashed password. Unknown role names
// map to ROLE_USER and an empty role list yields ROLE_USER alone.
func (s *AuthService) SignUp(ctx context.Context, in ports.SignUpInput) (*domain.User, error) {
	v := &domain.ValidationError{}
	if strings.TrimSpace(in.Username) == "" {
		v.Add("username", "username must not be blank")
	}
	if strings.TrimSpace(in.Email) == "" {
		v.Add("email", "email must not be blank")
	}
	if in.Password == "" {
		v.Add("password", "password must not be blank")
	}
	if err := v.OrNil(); err != nil {
		return nil, err
	}

	taken, err := s.users.ExistsByUsername(ctx, in.Username)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, domain.NewValidationError("username", "username is already taken")
	}
	taken, err = s.users.ExistsByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, domain.NewValidationError("email", "email is already in use")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: string(hash),
		Roles:        domain.ParseRoles(in.Roles),
		CreatedAt:    time.Now().UTC(),
	}

	created, err := s.users.Create(ctx, user)
	if errors.Is(err, domain.ErrUserExists) {
		return nil, domain.NewValidationError("username", "username is already taken")
	}
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("username", created.Username).Strs("roles", domain.NewPrincipal(created).RoleNames()).Msg("user registered")
	return created, nil
}

// Authenticate verifies a username and password. Unknown users and wrong
// passwords both yield domain.ErrBadCredentials, and an unknown user still
// pays for one bcrypt comparison.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*domain.Principal, error) {
	if username == "" || password == "" {
		return nil, domain.ErrBadCredentials
	}

	user, err := s.users.FindByUsername(ctx, username)
	if errors.Is(err, domain.ErrUserNotFound) {
		_ = bcrypt.CompareHashAndPassword(s.dummy(), []byte(password))
		return nil, domain.ErrBadCredentials
	}
	if err != nil {
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrBadCredentials
	}
	return domain.NewPrincipal(user), nil
}

// SignIn authenticates and issues a session token.
func (s *AuthService) SignIn(ctx context.Context, username, password string) (*ports.SignInResult, error) {
	if s.limiter != nil {
		ok, err := s.limiter.Allow(ctx, username)
		if err != nil {
			s.logger.Warn().Err(err).Str("username", username).Msg("sign-in limiter unavailable, allowing attempt")
		} else if !ok {
			return nil, domain.ErrTooManyAttempts
		}
	}

	p, err := s.Authenticate(ctx, username, password)
	if err != nil {
		if errors.Is(err, domain.ErrBadCredentials) {
			s.recordFailure(ctx, username)
		}
		return nil, err
	}

	token, exp, err := s.tokens.Issue(p)
	if err != nil {
		return nil, err
	}

	if s.limiter != nil {
		if err := s.limiter.Reset(ctx, username); err != nil {
			s.logger.Warn().Err(err).Str("username", username).Msg("failed to reset sign-in attempts")
		}
	}
	return &ports.SignInResult{Principal: p, Token: token, ExpiresAt: exp}, nil
}

// Principal reloads the user behind a token subject so role changes and
// deletions take effect on the next request.
func (s *AuthService) Principal(ctx context.Context, username string) (*domain.Principal, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, domain.ErrUnauthenticated
	}
	if err != nil {
		return nil, err
	}
	return domain.NewPrincipal(user), nil
}

func (s *AuthService) CurrentUser(ctx context.Context) (*domain.Principal, error) {
	p, ok := domain.PrincipalFrom(ctx)
	if !ok {
		return nil, domain.ErrUnauthenticated
	}
	return p, nil
}

func (s *AuthService) recordFailure(ctx context.Context, username string) {
	if s.limiter == nil {
		return
	}
	if err := s.limiter.RecordFailure(ctx, username); err != nil {
		s.logger.Warn().Err(err).Str("username", username).Msg("failed to record sign-in failure")
	}
}

func (s *AuthService) dummy() []byte {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), s.cost)
	})
	return s.dummyHash
}
