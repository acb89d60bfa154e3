package controllers

import (
	"context"
	"net/http"

	"food-order/middleware"
	"food-order/models"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type AuthService interface {
	Register(ctx context.Context, req models.RegisterRequest) (*models.User, string, error)
	Login(ctx context.Context, req models.LoginRequest) (*models.User, string, error)
	Profile(ctx context.Context, caller models.Identity) (*models.User, error)
}

type AuthController struct {
	auth AuthService
	log  zerolog.Logger
}

func NewAuthController(auth AuthService, logger zerolog.Logger) *AuthController {
	return &AuthController{auth: auth, log: logger.With().Str("controller", "auth").Logger()}
}

// Register godoc
// @Summary Register new user
// @Description Create a customer account and return a session token
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body models.RegisterRequest true "Register Request"
// @Success 201 {object} models.AuthResponse
// @Failure 400 {object} models.ErrorResponse
// @Router /auth/register [post]
func (ctrl *AuthController) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Please provide name, email, and password (min 6 characters)")
		return
	}

	user, token, err := ctrl.auth.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, ctrl.log, err)
		return
	}

	c.JSON(http.StatusCreated, models.AuthResponse{
		Success: true,
		Message: "Registration successful",
		Token:   token,
		User:    *user,
	})
}

// Login godoc
// @Summary Login
// @Description Exchange email and password for a session token
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body models.LoginRequest true "Login Request"
// @Success 200 {object} models.AuthResponse
// @Failure 400 {object} models.ErrorResponse
// @Router /auth/login [post]
func (ctrl *AuthController) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Please provide email and password")
		return
	}

	user, token, err := ctrl.auth.Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, ctrl.log, err)
		return
	}

	c.JSON(http.StatusOK, models.AuthResponse{
		Success: true,
		Message: "Login successful",
		Token:   token,
		User:    *user,
	})
}

// GetProfile godoc
// @Summary Get profile
// @Tags Authentication
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.ProfileResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/profile [get]
func (ctrl *AuthController) GetProfile(c *gin.Context) {
	user, err := ctrl.auth.Profile(c.Request.Context(), middleware.Identity(c))
	if err != nil {
		respondError(c, ctrl.log, err)
		return
	}
	c.JSON(http.StatusOK, models.ProfileResponse{Success: true, Profile: *user})
}
