package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/99minutos/employee-portal/internal/api/metrics"
	"github.com/99minutos/employee-portal/internal/core/domain"
	"github.com/99minutos/employee-portal/internal/core/ports"
)

const (
	msgLoginSuccess    = "Login successful!"
	msgRegisterSuccess = "Account created successfully! Welcome to the Employee Management System."
	msgLogoutSuccess   = "Logged out successfully"
	msgUserNotFound    = "User not found. Please check your username or email."
	msgAccountInactive = "Your account has been deactivated. Please contact an administrator."
	msgInvalidPassword = "Invalid password. Please try again."
	msgUsernameTaken   = "Username already exists. Please choose a different username."
	msgEmailTaken      = "Email address already registered. Please use a different email or sign in."
	msgAuthUnavailable = "Authentication service is temporarily unavailable. Please try again later."
	msgAuthFailed      = "An error occurred. Please try again."
)

type AuthHandler struct {
	authService ports.AuthService
	logger      zerolog.Logger
}

func NewAuthHandler(authService ports.AuthService, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, logger: logger}
}

type registerRequest struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	Phone           string `json:"phone,omitempty"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

type loginRequest struct {
	// Username accepts either the username or the email address.
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	Password string `json:"password"`
}

type authResponse struct {
	Success bool             `json:"success"`
	User    *domain.Identity `json:"user,omitempty"`
	Token   string           `json:"token,omitempty"`
	Message string           `json:"message"`
}

type meResponse struct {
	User            domain.Identity `json:"user"`
	Permissions     []string        `json:"permissions"`
	IsAuthenticated bool            `json:"isAuthenticated"`
}

// Register creates a new employee account and signs it in.
//
// @Summary      Register a new account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Account details"
// @Success      201   {object}  authResponse
// @Failure      400   {object}  authResponse
// @Failure      503   {object}  authResponse
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, authResponse{Message: "invalid payload"})
	}

	session, err := h.authService.Register(c.Request().Context(), domain.Registration{
		Username:        req.Username,
		Email:           req.Email,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Phone:           req.Phone,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		status, msg, result := registerFailure(err)
		metrics.RegistrationsTotal.WithLabelValues(result).Inc()
		if status == http.StatusInternalServerError {
			h.logger.Error().Err(err).Str("request_id", requestID(c)).Msg("register failed")
		}
		return c.JSON(status, authResponse{Message: msg})
	}

	metrics.RegistrationsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusCreated, authResponse{
		Success: true,
		User:    &session.Identity,
		Token:   session.Token,
		Message: msgRegisterSuccess,
	})
}

// Login authenticates by username or email and returns a JWT token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  authResponse
// @Failure      401   {object}  authResponse
// @Failure      404   {object}  authResponse
// @Failure      503   {object}  authResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, authResponse{Message: "invalid payload"})
	}
	login := req.Username
	if login == "" {
		login = req.Email
	}

	session, err := h.authService.Login(c.Request().Context(), login, req.Password)
	if err != nil {
		status, msg, result := loginFailure(err)
		metrics.LoginsTotal.WithLabelValues(result).Inc()
		if status == http.StatusInternalServerError {
			h.logger.Error().Err(err).Str("request_id", requestID(c)).Msg("login failed")
		}
		return c.JSON(status, authResponse{Message: msg})
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, authResponse{
		Success: true,
		User:    &session.Identity,
		Token:   session.Token,
		Message: msgLoginSuccess,
	})
}

// Logout ends the caller's session. Repeating it is harmless.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  authResponse
// @Failure      401  {object}  errorResponse
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	if err := h.authService.Logout(c.Request().Context(), p.Identity.ID); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, authResponse{Success: true, Message: msgLogoutSuccess})
}

// Me returns the signed-in identity and its granted permissions.
//
// @Summary      Current identity
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  meResponse
// @Failure      401  {object}  errorResponse
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	perms := make([]string, 0, len(p.Permissions))
	for _, perm := range domain.Permissions {
		if p.Can(perm) {
			perms = append(perms, string(perm))
		}
	}
	return c.JSON(http.StatusOK, meResponse{
		User:            p.Identity,
		Permissions:     perms,
		IsAuthenticated: true,
	})
}

func loginFailure(err error) (status int, msg, result string) {
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, msgUserNotFound, "user_not_found"
	case errors.Is(err, domain.ErrAccountInactive):
		return http.StatusUnauthorized, msgAccountInactive, "inactive"
	case errors.Is(err, domain.ErrInvalidPassword):
		return http.StatusUnauthorized, msgInvalidPassword, "invalid_password"
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, err.Error(), "invalid_input"
	case errors.Is(err, domain.ErrUnavailable):
		return http.StatusServiceUnavailable, msgAuthUnavailable, "error"
	}
	return http.StatusInternalServerError, msgAuthFailed, "error"
}

func registerFailure(err error) (status int, msg, result string) {
	switch {
	case errors.Is(err, domain.ErrUsernameTaken):
		return http.StatusBadRequest, msgUsernameTaken, "duplicate"
	case errors.Is(err, domain.ErrEmailTaken):
		return http.StatusBadRequest, msgEmailTaken, "duplicate"
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, err.Error(), "invalid_input"
	case errors.Is(err, domain.ErrUnavailable):
		return http.StatusServiceUnavailable, msgAuthUnavailable, "error"
	}
	return http.StatusInternalServerError, msgAuthFailed, "error"
}

func requestID(c echo.Context) string {
	return c.Response().Header().Get(echo.HeaderXRequestID)
}
