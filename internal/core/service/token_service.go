package service

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/storefront/catalog-service/internal/core/domain"
	"github.com/storefront/catalog-service/internal/core/ports"
)

const defaultTokenTTL = 24 * time.Hour

var _ ports.TokenIssuer = (*TokenService)(nil)

// sessionClaims is the JWT body of a session token.
type sessionClaims struct {
	UserID int64    `json:"uid"`
	Roles  []string `json:"roles"`
	jwt.RegisteredClaims
}

// TokenService issues and validates stateless HS256 session tokens. Rotating
// the secret invalidates every outstanding token.
type TokenService struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
	parser *jwt.Parser
}

func NewTokenService(secret, issuer string, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	s := &TokenService{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}
	s.parser = jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithStrictDecoding(),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(func() time.Time { return s.now() }),
	)
	return s
}

// TTL returns the lifetime of issued tokens.
func (s *TokenService) TTL() time.Duration { return s.ttl }

// Issue signs a token for p that expires after the configured TTL.
func (s *TokenService) Issue(p *domain.Principal) (string, time.Time, error) {
	now := s.now()
	exp := now.Add(s.ttl)
	claims := sessionClaims{
		UserID: p.ID,
		Roles:  p.RoleNames(),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    s.issuer,
			Subject:   p.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// Validate checks the signature first, then decodes and checks the claims.
// Any change to the header or payload therefore surfaces as an invalid
// signature rather than a decoding error.
func (s *TokenService) Validate(token string) (*ports.TokenClaims, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" {
		return nil, domain.ErrTokenMalformed
	}

	sig, err := s.parser.DecodeSegment(parts[2])
	if err != nil {
		return nil, domain.ErrTokenInvalidSignature
	}
	if err := jwt.SigningMethodHS256.Verify(parts[0]+"."+parts[1], sig, s.secret); err != nil {
		return nil, domain.ErrTokenInvalidSignature
	}

	var claims sessionClaims
	_, err = s.parser.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	switch {
	case err == nil:
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, domain.ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return nil, domain.ErrTokenInvalidSignature
	default:
		return nil, domain.ErrTokenMalformed
	}

	if claims.Subject == "" {
		return nil, domain.ErrTokenMalformed
	}

	out := &ports.TokenClaims{
		Subject: claims.Subject,
		UserID:  claims.UserID,
		Roles:   claimRoles(claims.Roles),
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out, nil
}

// claimRoles keeps only the role names this service knows about.
func claimRoles(names []string) []domain.Role {
	roles := make([]domain.Role, 0, len(names))
	for _, n := range names {
		switch r := domain.Role(n); r {
		case domain.RoleUser, domain.RoleAdmin, domain.RoleSeller:
			roles = append(roles, r)
		}
	}
	return roles
}
