package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/storefront/catalog-service/internal/api/metrics"
	"github.com/storefront/catalog-service/internal/core/domain"
	"github.com/storefront/catalog-service/internal/core/ports"
	"github.com/storefront/catalog-service/internal/infrastructure/config"
)

// PrincipalResolver loads the principal named by a token subject.
type PrincipalResolver interface {
	Principal(ctx context.Context, username string) (*domain.Principal, error)
}

// AuthConfig configures the Auth middleware.
type AuthConfig struct {
	Tokens     ports.TokenIssuer
	Principals PrincipalResolver
	// Transport is config.TransportHeader or config.TransportCookie. Both
	// locations are read; the configured one wins.
	Transport  string
	CookieName string
	// PublicPaths may be reached without a token. A trailing "*" matches any
	// suffix.
	PublicPaths []string
	// Secure marks cleared cookies as Secure.
	Secure bool
	Logger zerolog.Logger
}

// Auth validates the session token, if any, and attaches the resolved
// principal to the request context before the handler runs.
func Auth(cfg AuthConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()

			token, fromCookie := extractToken(req, cfg.Transport, cfg.CookieName)
			if token == "" {
				if isPublic(req.URL.Path, cfg.PublicPaths) {
					return next(c)
				}
				return unauthorized(domain.ErrUnauthenticated)
			}

			reject := func(err error) error {
				if fromCookie {
					c.SetCookie(ExpiredCookie(cfg.CookieName, cfg.Secure))
				}
				return unauthorized(err)
			}

			claims, err := cfg.Tokens.Validate(token)
			if err != nil {
				metrics.TokenValidationsTotal.WithLabelValues(validationResult(err)).Inc()
				cfg.Logger.Debug().Err(err).Str("path", req.URL.Path).Msg("rejected session token")
				return reject(err)
			}

			principal, err := cfg.Principals.Principal(req.Context(), claims.Subject)
			if err != nil {
				if errors.Is(err, domain.ErrAuthentication) {
					metrics.TokenValidationsTotal.WithLabelValues("unknown_subject").Inc()
					return reject(err)
				}
				return err
			}
			metrics.TokenValidationsTotal.WithLabelValues("valid").Inc()

			c.SetRequest(req.WithContext(domain.WithPrincipal(req.Context(), principal)))
			return next(c)
		}
	}
}

func unauthorized(err error) error {
	return echo.NewHTTPError(http.StatusUnauthorized, err.Error()).SetInternal(err)
}

// extractToken reads the bearer header and the session cookie, preferring the
// configured transport. fromCookie reports where the returned token came from.
func extractToken(req *http.Request, transport, cookieName string) (token string, fromCookie bool) {
	header := bearerToken(req)
	cookie := ""
	if cookieName != "" {
		if ck, err := req.Cookie(cookieName); err == nil {
			cookie = ck.Value
		}
	}

	if transport == config.TransportCookie {
		if cookie != "" {
			return cookie, true
		}
		return header, false
	}
	if header != "" {
		return header, false
	}
	return cookie, cookie != ""
}

func bearerToken(req *http.Request) string {
	parts := strings.SplitN(req.Header.Get(echo.HeaderAuthorization), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func isPublic(path string, patterns []string) bool {
	for _, p := range patterns {
		if prefix, ok := strings.CutSuffix(p, "*"); ok {
			if strings.HasPrefix(path, prefix) {
				return true
			}
			continue
		}
		if path == p {
			return true
		}
	}
	return false
}

func validationResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrTokenExpired):
		return "expired"
	case errors.Is(err, domain.ErrTokenInvalidSignature):
		return "invalid_signature"
	default:
		return "malformed"
	}
}
