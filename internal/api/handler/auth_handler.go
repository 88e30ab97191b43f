package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/storefront/catalog-service/internal/api/metrics"
	"github.com/storefront/catalog-service/internal/api/middleware"
	"github.com/storefront/catalog-service/internal/core/domain"
	"github.com/storefront/catalog-service/internal/core/ports"
)

type AuthHandler struct {
	authService  ports.AuthService
	cookieName   string
	secureCookie bool
}

func NewAuthHandler(authService ports.AuthService, cookieName string, secureCookie bool) *AuthHandler {
	return &AuthHandler{authService: authService, cookieName: cookieName, secureCookie: secureCookie}
}

type signInRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type signUpRequest struct {
	Username string   `json:"username" validate:"required,min=3,max=20"`
	Email    string   `json:"email" validate:"required,email,max=50"`
	Password string   `json:"password" validate:"required,min=6,max=40"`
	Role     []string `json:"role"`
}

type signInResponse struct {
	ID       int64    `json:"id"`
	Username string   `json:"username"`
	Roles    []string `json:"roles"`
	Token    string   `json:"token"`
}

type userResponse struct {
	ID       int64    `json:"id"`
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Roles    []string `json:"roles"`
}

type usernameResponse struct {
	Username string `json:"username"`
}

type messageResponse struct {
	Message string `json:"message"`
	Success bool   `json:"success"`
}

// SignIn authenticates a user, returns a session token and sets it as a cookie.
//
// @Summary      Sign in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signInRequest  true  "Credentials"
// @Success      200   {object}  signInResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  messageResponse
// @Failure      429   {object}  messageResponse
// @Router       /api/auth/signin [post]
func (h *AuthHandler) SignIn(c echo.Context) error {
	var req signInRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	res, err := h.authService.SignIn(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		metrics.SignInAttemptsTotal.WithLabelValues(signInResult(err)).Inc()
		return err
	}
	metrics.SignInAttemptsTotal.WithLabelValues("success").Inc()

	c.SetCookie(middleware.SessionCookie(h.cookieName, res.Token, res.ExpiresAt, h.secureCookie))
	return c.JSON(http.StatusOK, signInResponse{
		ID:       res.Principal.ID,
		Username: res.Principal.Username,
		Roles:    res.Principal.RoleNames(),
		Token:    res.Token,
	})
}

// SignUp registers a new user account.
//
// @Summary      Sign up
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signUpRequest  true  "Registration details"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  map[string]string
// @Router       /api/auth/signup [post]
func (h *AuthHandler) SignUp(c echo.Context) error {
	var req signUpRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	_, err := h.authService.SignUp(c.Request().Context(), ports.SignUpInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Roles:    req.Role,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "User registered successfully!", Success: true})
}

// SignOut clears the session cookie. Issued tokens stay valid until they expire.
//
// @Summary      Sign out
// @Tags         auth
// @Produce      json
// @Success      200  {object}  messageResponse
// @Router       /api/auth/signout [post]
func (h *AuthHandler) SignOut(c echo.Context) error {
	c.SetCookie(middleware.ExpiredCookie(h.cookieName, h.secureCookie))
	return c.JSON(http.StatusOK, messageResponse{Message: "You've been signed out!", Success: true})
}

// User returns the authenticated user.
//
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  userResponse
// @Failure      401  {object}  messageResponse
// @Router       /api/auth/user [get]
func (h *AuthHandler) User(c echo.Context) error {
	p, err := h.authService.CurrentUser(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userResponse{
		ID:       p.ID,
		Username: p.Username,
		Email:    p.Email,
		Roles:    p.RoleNames(),
	})
}

// Username returns the authenticated user's name.
//
// @Summary      Current username
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  usernameResponse
// @Failure      401  {object}  messageResponse
// @Router       /api/auth/username [get]
func (h *AuthHandler) Username(c echo.Context) error {
	p, err := h.authService.CurrentUser(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, usernameResponse{Username: p.Username})
}

func signInResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrBadCredentials):
		return "bad_credentials"
	case errors.Is(err, domain.ErrRateLimited):
		return "throttled"
	default:
		return "error"
	}
}
