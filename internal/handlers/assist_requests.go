package handlers

import (
	"net/http"

	"agency-desk-backend/internal/models"
	"agency-desk-backend/internal/services"
	"github.com/gin-gonic/gin"
)

type AssistRequestsHandler struct {
	assist *services.AssistService
}

func NewAssistRequestsHandler(assist *services.AssistService) *AssistRequestsHandler {
	return &AssistRequestsHandler{assist: assist}
}

// Create godoc
// @Summary     File an assist request
// @Description userId defaults to the authenticated user.
// @Tags        assist-requests
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       request body models.CreateAssistRequest true "Assist request"
// @Success     201 {object} models.AssistRequest
// @Failure     400 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /assist-request [post]
func (h *AssistRequestsHandler) Create(c *gin.Context) {
	callerID, ok := currentUser(c)
	if !ok {
		return
	}
	var req models.CreateAssistRequest
	if !bindJSON(c, &req) {
		return
	}
	created, err := h.assist.Create(c.Request.Context(), req, callerID)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// ListByUser godoc
// @Summary     List a user's assist requests
// @Description Only the user themselves or an admin.
// @Tags        assist-requests
// @Produce     json
// @Security    Bearer
// @Param       userId path string true "User ID (UUID)"
// @Success     200 {array}  models.AssistRequest
// @Failure     400 {object} models.ErrorResponse
// @Failure     403 {object} models.ErrorResponse
// @Router      /assist-request/user/{userId} [get]
func (h *AssistRequestsHandler) ListByUser(c *gin.Context) {
	requests, err := h.assist.ListByUser(c.Request.Context(), c.Param("userId"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, requests)
}

// ListAll godoc
// @Summary     List every assist request with its client's name
// @Tags        assist-requests
// @Produce     json
// @Security    Bearer
// @Success     200 {array}  models.AssistRequestWithClient
// @Failure     403 {object} models.ErrorResponse
// @Router      /assist-request [get]
func (h *AssistRequestsHandler) ListAll(c *gin.Context) {
	requests, err := h.assist.ListAll(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, requests)
}

// Update godoc
// @Summary     Update an assist request
// @Description Every provided field is validated before any change is applied.
// @Tags        assist-requests
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       id      path string                     true "Assist request ID (UUID)"
// @Param       request body models.UpdateAssistRequest true "Fields to change"
// @Success     200 {object} models.AssistRequest
// @Failure     400 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /assist-request/{id} [put]
func (h *AssistRequestsHandler) Update(c *gin.Context) {
	var req models.UpdateAssistRequest
	if !bindJSON(c, &req) {
		return
	}
	updated, err := h.assist.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// Pay godoc
// @Summary     Submit a payment reference
// @Description Owner only. Stores the payment type and transaction id. paymentStatus stays Pending until an admin confirms.
// @Tags        assist-requests
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       id      path string                  true "Assist request ID (UUID)"
// @Param       request body models.PayAssistRequest true "Payment"
// @Success     200 {object} models.AssistRequest
// @Failure     400 {object} models.ErrorResponse
// @Failure     403 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /assist-request/pay/{id} [post]
func (h *AssistRequestsHandler) Pay(c *gin.Context) {
	callerID, ok := currentUser(c)
	if !ok {
		return
	}
	var req models.PayAssistRequest
	if !bindJSON(c, &req) {
		return
	}
	paid, err := h.assist.Pay(c.Request.Context(), c.Param("id"), callerID, req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, paid)
}

// SubmitFeedback godoc
// @Summary     Rate a completed assist request
// @Tags        assist-requests
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       id      path string                 true "Assist request ID (UUID)"
// @Param       request body models.FeedbackRequest true "Feedback and rating"
// @Success     200 {object} models.AssistRequest
// @Failure     400 {object} models.ErrorResponse
// @Failure     403 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /assist-request/{id}/feedback [put]
func (h *AssistRequestsHandler) SubmitFeedback(c *gin.Context) {
	callerID, ok := currentUser(c)
	if !ok {
		return
	}
	var req models.FeedbackRequest
	if !bindJSON(c, &req) {
		return
	}
	updated, err := h.assist.SubmitFeedback(c.Request.Context(), c.Param("id"), callerID, req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}
