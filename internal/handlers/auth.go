package handlers

import (
	"net/http"

	"agency-desk-backend/internal/models"
	"agency-desk-backend/internal/services"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	users *services.UserService
}

func NewAuthHandler(users *services.UserService) *AuthHandler {
	return &AuthHandler{users: users}
}

// Signup godoc
// @Summary     Register a client
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body models.SignupRequest true "Account details"
// @Success     201 {object} models.AuthResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /auth/signup [post]
func (h *AuthHandler) Signup(c *gin.Context) {
	var req models.SignupRequest
	if !bindJSON(c, &req) {
		return
	}
	resp, err := h.users.Signup(c.Request.Context(), req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Login godoc
// @Summary     Log in with email and password
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body models.LoginRequest true "Credentials"
// @Success     200 {object} models.AuthResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     401 {object} models.ErrorResponse
// @Router      /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if !bindJSON(c, &req) {
		return
	}
	resp, err := h.users.Login(c.Request.Context(), req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GoogleSignup godoc
// @Summary     Register a client with a Google access token
// @Description The token is a Supabase session token from the Google provider.
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body models.GoogleAuthRequest true "Access token and profile"
// @Success     201 {object} models.AuthResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     401 {object} models.ErrorResponse
// @Failure     503 {object} models.ErrorResponse
// @Router      /auth/google-signup [post]
func (h *AuthHandler) GoogleSignup(c *gin.Context) {
	var req models.GoogleAuthRequest
	if !bindJSON(c, &req) {
		return
	}
	resp, err := h.users.GoogleSignup(c.Request.Context(), req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// GoogleLogin godoc
// @Summary     Log in with a Google access token
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body models.GoogleAuthRequest true "Access token"
// @Success     200 {object} models.AuthResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     401 {object} models.ErrorResponse
// @Failure     503 {object} models.ErrorResponse
// @Router      /auth/google-login [post]
func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	var req models.GoogleAuthRequest
	if !bindJSON(c, &req) {
		return
	}
	resp, err := h.users.GoogleLogin(c.Request.Context(), req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
