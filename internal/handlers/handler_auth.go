package handlers

import (
	"log/slog"
	"net/http"

	"github.com/budgetms/budget_management_app/internal/core/services"
	"github.com/budgetms/budget_management_app/internal/dto"
	"github.com/budgetms/budget_management_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// authHandler handles the public registration and login endpoints.
type authHandler struct {
	authService *services.AuthService
}

func newAuthHandler(as *services.AuthService) *authHandler {
	return &authHandler{authService: as}
}

// Register godoc
// @Summary Register a new profile
// @Description Creates a STAFF profile; role elevation is an operator action
// @Tags auth
// @Accept  json
// @Produce  json
// @Param   credentials body dto.RegisterRequest true "Profile details"
// @Success 201 {object} dto.UserResponse
// @Failure 400 {object} map[string]string "Validation error or email taken"
// @Router /auth/register [post]
func (h *authHandler) Register(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for Register", slog.String("error", err.Error()))
		respondBindError(c, err)
		return
	}

	user, err := h.authService.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToUserResponse(user))
}

// Login godoc
// @Summary Log in with email and password
// @Description Issues a session token carrying the principal id and role
// @Tags auth
// @Accept  json
// @Produce  json
// @Param   credentials body dto.LoginRequest true "Credentials"
// @Success 200 {object} dto.LoginResponse
// @Failure 401 {object} map[string]string "Invalid credentials"
// @Router /auth/login [post]
func (h *authHandler) Login(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for Login", slog.String("error", err.Error()))
		respondBindError(c, err)
		return
	}

	res, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
