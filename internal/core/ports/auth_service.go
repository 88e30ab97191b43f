package ports

import (
	"context"
	"time"

	"github.com/storefront/catalog-service/internal/core/domain"
)

// SignUpInput carries a registration request.
type SignUpInput struct {
	Username string
	Email    string
	Password string
	Roles    []string
}

// SignInResult is returned on a successful sign-in.
type SignInResult struct {
	Principal *domain.Principal
	Token     string
	ExpiresAt time.Time
}

// AuthService covers sign-in, sign-up and principal resolution.
type AuthService interface {
	SignIn(ctx context.Context, username, password string) (*SignInResult, error)
	SignUp(ctx context.Context, input SignUpInput) (*domain.User, error)
	Authenticate(ctx context.Context, username, password string) (*domain.Principal, error)
	// Principal loads a fresh principal for a token subject.
	Principal(ctx context.Context, username string) (*domain.Principal, error)
	// CurrentUser returns the principal attached to ctx by the access filter.
	CurrentUser(ctx context.Context) (*domain.Principal, error)
}

// TokenClaims is the decoded content of a valid session token.
type TokenClaims struct {
	Subject   string
	UserID    int64
	Roles     []domain.Role
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenIssuer signs and verifies session tokens.
type TokenIssuer interface {
	Issue(p *domain.Principal) (string, time.Time, error)
	Validate(token string) (*TokenClaims, error)
}

// SignInLimiter throttles repeated sign-in attempts per username.
type SignInLimiter interface {
	Allow(ctx context.Context, username string) (bool, error)
	RecordFailure(ctx context.Context, username string) error
	Reset(ctx context.Context, username string) error
}
