package handler

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"tradebook/internal/middleware"
	"tradebook/internal/service"
)

// AuthHandler serves the back-office operator sign-in endpoints. Operators
// are shop staff billing on behalf of every firm; customers never log in.
type AuthHandler struct {
	authService         service.AuthService
	registrationService service.RegistrationService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService service.AuthService, registrationService service.RegistrationService) *AuthHandler {
	return &AuthHandler{authService: authService, registrationService: registrationService}
}

// bindBody decodes the request body into dst, answering 400 on failure.
func bindBody(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return false
	}
	return true
}

// Login handles POST /api/v1/auth/login
// @Summary Operator sign-in
// @Description Exchange an operator's email and password for an access and refresh token pair.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Operator credentials"
// @Success 200 {object} Response{data=TokenResponse} "Token pair"
// @Failure 400 {object} ErrorResponseBody "Malformed request"
// @Failure 401 {object} ErrorResponseBody "Wrong email or password"
// @Failure 403 {object} ErrorResponseBody "Operator account disabled"
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var input service.LoginInput
	if !bindBody(c, &input) {
		return
	}

	tokenPair, err := h.authService.Login(c.Request.Context(), input)
	if err != nil {
		HandleError(c, err)
		return
	}

	log.Printf("[%s] auth: operator %s signed in", c.GetString(middleware.ContextKeyRequestID), input.Email)
	RespondOK(c, tokenPair)
}

// RefreshToken handles POST /api/v1/auth/refresh
// @Summary Renew an operator session
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RefreshRequest true "Refresh token"
// @Success 200 {object} Response{data=TokenResponse} "Token pair"
// @Failure 401 {object} ErrorResponseBody "Refresh token invalid or expired"
// @Router /auth/refresh [post]
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var input service.RefreshInput
	if !bindBody(c, &input) {
		return
	}

	tokenPair, err := h.authService.RefreshToken(c.Request.Context(), input.RefreshToken)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, tokenPair)
}

// Register handles POST /api/v1/auth/register
// @Summary Register an operator
// @Description The first operator registered becomes admin. Later sign-ups are staff and can be switched off in config.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "New operator"
// @Success 201 {object} Response{data=service.RegisterOutput} "Operator created and signed in"
// @Failure 403 {object} ErrorResponseBody "Sign-up disabled"
// @Failure 409 {object} ErrorResponseBody "Email already registered"
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var input service.RegisterInput
	if !bindBody(c, &input) {
		return
	}

	output, err := h.registrationService.Register(c.Request.Context(), input)
	if err != nil {
		HandleError(c, err)
		return
	}

	log.Printf("[%s] auth: registered operator %s as %s",
		c.GetString(middleware.ContextKeyRequestID), output.User.Email, output.User.Role)
	RespondCreated(c, output)
}
