package handlers

import (
	"net/http"

	"agency-desk-backend/internal/services"
	"github.com/gin-gonic/gin"
)

type UsersHandler struct {
	users *services.UserService
}

func NewUsersHandler(users *services.UserService) *UsersHandler {
	return &UsersHandler{users: users}
}

// ListAdmins godoc
// @Summary     List admins
// @Tags        users
// @Produce     json
// @Security    Bearer
// @Success     200 {array}  models.User
// @Failure     403 {object} models.ErrorResponse
// @Router      /admins [get]
func (h *UsersHandler) ListAdmins(c *gin.Context) {
	admins, err := h.users.ListAdmins(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, admins)
}

// GetAdmin godoc
// @Summary     Get one admin
// @Tags        users
// @Produce     json
// @Security    Bearer
// @Param       id path string true "Admin ID (UUID)"
// @Success     200 {object} models.User
// @Failure     400 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /admins/{id} [get]
func (h *UsersHandler) GetAdmin(c *gin.Context) {
	admin, err := h.users.GetAdmin(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, admin)
}

// ListClients godoc
// @Summary     List clients
// @Tags        users
// @Produce     json
// @Security    Bearer
// @Success     200 {array}  models.User
// @Failure     403 {object} models.ErrorResponse
// @Router      /user/all [get]
func (h *UsersHandler) ListClients(c *gin.Context) {
	clients, err := h.users.ListClients(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, clients)
}
