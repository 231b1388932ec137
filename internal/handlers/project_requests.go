package handlers

import (
	"net/http"

	"agency-desk-backend/internal/models"
	"agency-desk-backend/internal/services"
	"github.com/gin-gonic/gin"
)

type ProjectRequestsHandler struct {
	requests *services.ProjectRequestService
}

func NewProjectRequestsHandler(requests *services.ProjectRequestService) *ProjectRequestsHandler {
	return &ProjectRequestsHandler{requests: requests}
}

// Submit godoc
// @Summary     Submit a project request
// @Tags        project-requests
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       request body models.SubmitProjectRequest true "Project request"
// @Success     201 {object} models.SubmitProjectResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /request [post]
func (h *ProjectRequestsHandler) Submit(c *gin.Context) {
	var req models.SubmitProjectRequest
	if !bindJSON(c, &req) {
		return
	}
	created, err := h.requests.Submit(c.Request.Context(), req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, models.SubmitProjectResponse{
		Message:          "Project request submitted successfully",
		RequestID:        created.ID,
		ProjectStatusURL: created.ProjectStatusURL,
	})
}

// ListByClient godoc
// @Summary     List a client's project requests
// @Description Newest first. Only the client themselves or an admin.
// @Tags        project-requests
// @Produce     json
// @Security    Bearer
// @Param       id path string true "Client ID (UUID)"
// @Success     200 {array}  models.ProjectRequest
// @Failure     400 {object} models.ErrorResponse
// @Failure     403 {object} models.ErrorResponse
// @Router      /request/{id} [get]
func (h *ProjectRequestsHandler) ListByClient(c *gin.Context) {
	requests, err := h.requests.ListByClient(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, requests)
}

// ListAll godoc
// @Summary     List every project request
// @Tags        project-requests
// @Produce     json
// @Security    Bearer
// @Success     200 {array}  models.ProjectRequest
// @Failure     403 {object} models.ErrorResponse
// @Router      /request/requests/admin [get]
func (h *ProjectRequestsHandler) ListAll(c *gin.Context) {
	requests, err := h.requests.ListAll(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, requests)
}

// GetByStatusToken godoc
// @Summary     Look up a project request by its status token
// @Tags        project-requests
// @Produce     json
// @Param       token path string true "projectStatusUrl token"
// @Success     200 {object} models.ProjectRequest
// @Failure     404 {object} models.ErrorResponse
// @Router      /request/status/{token} [get]
func (h *ProjectRequestsHandler) GetByStatusToken(c *gin.Context) {
	req, err := h.requests.GetByStatusToken(c.Request.Context(), c.Param("token"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, req)
}

// Approve godoc
// @Summary     Approve a project request
// @Description Prices the request, assigns developers and creates the project.
// @Tags        project-requests
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       id      path string                       true "Project request ID (UUID)"
// @Param       request body models.ApproveProjectRequest true "Developers and price"
// @Success     200 {object} models.ApproveProjectResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /request/{id}/approve [put]
func (h *ProjectRequestsHandler) Approve(c *gin.Context) {
	var req models.ApproveProjectRequest
	if !bindJSON(c, &req) {
		return
	}
	approved, project, err := h.requests.Approve(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, models.ApproveProjectResponse{
		Message: "Project request approved and project created successfully",
		Request: approved,
		Project: project,
	})
}

// Reject godoc
// @Summary     Reject a pending project request
// @Tags        project-requests
// @Produce     json
// @Security    Bearer
// @Param       id path string true "Project request ID (UUID)"
// @Success     200 {object} models.ProjectRequestResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /request/{id}/reject [put]
func (h *ProjectRequestsHandler) Reject(c *gin.Context) {
	rejected, err := h.requests.Reject(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, models.ProjectRequestResponse{
		Message: "Project request rejected",
		Request: rejected,
	})
}
