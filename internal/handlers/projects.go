package handlers

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"agency-desk-backend/internal/models"
	"agency-desk-backend/internal/services"
	"github.com/gin-gonic/gin"
)

const (
	maxSnapshotForm = 32 << 20
	maxSnapshotSize = 10 << 20
)

type ProjectsHandler struct {
	projects *services.ProjectService
}

func NewProjectsHandler(projects *services.ProjectService) *ProjectsHandler {
	return &ProjectsHandler{projects: projects}
}

// ListProjects godoc
// @Summary     List all projects
// @Tags        projects
// @Produce     json
// @Security    Bearer
// @Success     200 {array}  models.ProjectSummary
// @Failure     500 {object} models.ErrorResponse
// @Router      /project/all [get]
func (h *ProjectsHandler) ListProjects(c *gin.Context) {
	projects, err := h.projects.ListSummaries(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, projects)
}

// GetProject godoc
// @Summary     Get a project
// @Tags        projects
// @Produce     json
// @Security    Bearer
// @Param       id path string true "Project ID (UUID)"
// @Success     200 {object} models.Project
// @Failure     400 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /project/{id} [get]
func (h *ProjectsHandler) GetProject(c *gin.Context) {
	project, err := h.projects.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

// ListAssigned godoc
// @Summary     List projects a developer is assigned to
// @Tags        projects
// @Produce     json
// @Security    Bearer
// @Param       userId path string true "Developer user ID (UUID)"
// @Success     200 {array}  models.Project
// @Failure     400 {object} models.ErrorResponse
// @Router      /project/assigned/{userId} [get]
func (h *ProjectsHandler) ListAssigned(c *gin.Context) {
	projects, err := h.projects.ListAssigned(c.Request.Context(), c.Param("userId"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, projects)
}

// UpdateStatus godoc
// @Summary     Update a project's status, source or payment
// @Tags        projects
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       id      path string                      true "Project ID (UUID)"
// @Param       request body models.UpdateProjectRequest true "Fields to change"
// @Success     200 {object} models.ProjectResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /project/{id}/status [put]
func (h *ProjectsHandler) UpdateStatus(c *gin.Context) {
	var req models.UpdateProjectRequest
	if !bindJSON(c, &req) {
		return
	}
	project, err := h.projects.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, models.ProjectResponse{Message: "Project updated successfully", Project: project})
}

// ReassignDevelopers godoc
// @Summary     Replace a project's developers
// @Tags        projects
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       id      path string                         true "Project ID (UUID)"
// @Param       request body models.AssignDevelopersRequest true "Developer IDs"
// @Success     200 {object} models.ProjectResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /project/{id}/developers [put]
func (h *ProjectsHandler) ReassignDevelopers(c *gin.Context) {
	var req models.AssignDevelopersRequest
	if !bindJSON(c, &req) {
		return
	}
	project, err := h.projects.ReassignDevelopers(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, models.ProjectResponse{Message: "Developers assigned successfully", Project: project})
}

// ListAssignments godoc
// @Summary     List a project's assignment rows
// @Tags        projects
// @Produce     json
// @Security    Bearer
// @Param       id path string true "Project ID (UUID)"
// @Success     200 {object} models.AssignmentsResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /project/{id}/assignments [get]
func (h *ProjectsHandler) ListAssignments(c *gin.Context) {
	resp, err := h.projects.ListAssignments(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// UploadSnapshots godoc
// @Summary     Upload project snapshots
// @Description Stores each image in object storage and appends its public URL to the project.
// @Tags        projects
// @Accept      multipart/form-data
// @Produce     json
// @Security    Bearer
// @Param       id     path     string true "Project ID (UUID)"
// @Param       images formData file   true "Images (multiple files allowed)"
// @Success     200 {object} models.SnapshotsResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Failure     503 {object} models.ErrorResponse
// @Router      /project/{id}/snapshots [post]
func (h *ProjectsHandler) UploadSnapshots(c *gin.Context) {
	if err := c.Request.ParseMultipartForm(maxSnapshotForm); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Message: "failed to parse multipart form",
			Error:   err.Error(),
		})
		return
	}

	headers := c.Request.MultipartForm.File["images"]
	files := make([]services.SnapshotFile, 0, len(headers))
	var readErrors []string
	for _, header := range headers {
		file, err := readSnapshot(header)
		if err != nil {
			readErrors = append(readErrors, fmt.Sprintf("%s: %v", header.Filename, err))
			continue
		}
		files = append(files, file)
	}
	if len(headers) > 0 && len(files) == 0 {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Message: "No readable images were uploaded",
			Error:   fmt.Sprint(readErrors),
		})
		return
	}

	project, uploadErrors, err := h.projects.AddSnapshots(c.Request.Context(), c.Param("id"), files)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, models.SnapshotsResponse{
		ProjectID: project.ID,
		Snapshots: project.Snapshots,
		Errors:    append(readErrors, uploadErrors...),
	})
}

func readSnapshot(header *multipart.FileHeader) (services.SnapshotFile, error) {
	if header.Size > maxSnapshotSize {
		return services.SnapshotFile{}, fmt.Errorf("file exceeds %d bytes", maxSnapshotSize)
	}
	src, err := header.Open()
	if err != nil {
		return services.SnapshotFile{}, fmt.Errorf("failed to open file: %w", err)
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return services.SnapshotFile{}, fmt.Errorf("failed to read file: %w", err)
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}
	return services.SnapshotFile{Filename: header.Filename, ContentType: contentType, Data: data}, nil
}
