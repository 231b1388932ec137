package services

import (
	"context"
	"fmt"
	"strings"

	"agency-desk-backend/internal/models"
	"agency-desk-backend/internal/store"
	"github.com/google/uuid"
)

type ProjectStore interface {
	store.Users
	store.Projects
}

// SnapshotUploader puts one image in object storage and returns its
// public URL.
type SnapshotUploader interface {
	UploadSnapshot(ctx context.Context, projectID uuid.UUID, filename, contentType string, data []byte) (string, error)
}

// SnapshotFile is one uploaded image as read from the request.
type SnapshotFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

type ProjectService struct {
	clock
	store    ProjectStore
	uploader SnapshotUploader
}

// NewProjectService builds the service. uploader may be nil, in which
// case snapshot uploads report the storage as unavailable.
func NewProjectService(s ProjectStore, uploader SnapshotUploader) *ProjectService {
	return &ProjectService{clock: newClock(), store: s, uploader: uploader}
}

func (s *ProjectService) ListSummaries(ctx context.Context) ([]models.ProjectSummary, error) {
	projects, err := s.store.ListProjects(ctx)
	if err != nil {
		return nil, err
	}
	summaries := make([]models.ProjectSummary, len(projects))
	for i, p := range projects {
		summaries[i] = models.ProjectSummary{
			ProjectID:     p.ID,
			ClientName:    p.ClientName,
			ProjectTitle:  p.ProjectTitle,
			Status:        p.ProjectStatus,
			Price:         p.Price,
			PaymentStatus: p.PaymentStatus,
			Developers:    p.Developers,
			CreatedAt:     p.CreatedAt,
		}
	}
	return summaries, nil
}

func (s *ProjectService) Get(ctx context.Context, idStr string) (*models.Project, error) {
	id, err := parseID(idStr, "project id")
	if err != nil {
		return nil, err
	}
	project, err := s.store.GetProject(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Project not found")
	}
	return project, nil
}

func (s *ProjectService) ListAssigned(ctx context.Context, developerIDStr string) ([]models.Project, error) {
	developerID, err := parseID(developerIDStr, "userId")
	if err != nil {
		return nil, err
	}
	return s.store.ListProjectsByDeveloper(ctx, developerID)
}

func (s *ProjectService) Update(ctx context.Context, idStr string, in models.UpdateProjectRequest) (*models.Project, error) {
	id, err := parseID(idStr, "project id")
	if err != nil {
		return nil, err
	}

	var update store.ProjectUpdate
	if in.ProjectStatus != nil {
		status := models.ProjectStatus(*in.ProjectStatus)
		if !status.Valid() {
			return nil, validationError("Invalid projectStatus. Must be one of: Pending, In Progress, Completed, On Hold, Cancelled")
		}
		update.ProjectStatus = &status
	}
	if in.ProjectSource != nil {
		source := strings.TrimSpace(*in.ProjectSource)
		if source != "" && !isValidURL(source) {
			return nil, validationError("projectSource must be a valid URL")
		}
		update.ProjectSource = &source
	}
	if in.PaymentTransactionID != nil {
		txID := strings.TrimSpace(*in.PaymentTransactionID)
		update.PaymentTransactionID = &txID
	}
	update.PaymentStatus = in.PaymentStatus

	if update == (store.ProjectUpdate{}) {
		return nil, validationError("No fields to update")
	}

	project, err := s.store.UpdateProject(ctx, id, update, s.now())
	if err != nil {
		return nil, notFoundOr(err, "Project not found")
	}
	return project, nil
}

// ReassignDevelopers replaces the project's developer list and its
// assignment rows.
func (s *ProjectService) ReassignDevelopers(ctx context.Context, idStr string, in models.AssignDevelopersRequest) (*models.Project, error) {
	id, err := parseID(idStr, "project id")
	if err != nil {
		return nil, err
	}
	if len(in.Developers) == 0 {
		return nil, validationError("At least one developer must be assigned")
	}
	developers, err := parseIDs(in.Developers, "developer id")
	if err != nil {
		return nil, err
	}
	if _, err := s.store.GetProject(ctx, id); err != nil {
		return nil, notFoundOr(err, "Project not found")
	}
	if err := ensureUsersExist(ctx, s.store, developers); err != nil {
		return nil, err
	}

	now := s.now()
	project, err := s.store.ReplaceAssignments(ctx, id, newAssignments(id, developers, now), now)
	if err != nil {
		return nil, notFoundOr(err, "Project not found")
	}
	return project, nil
}

func (s *ProjectService) ListAssignments(ctx context.Context, idStr string) (*models.AssignmentsResponse, error) {
	id, err := parseID(idStr, "project id")
	if err != nil {
		return nil, err
	}
	if _, err := s.store.GetProject(ctx, id); err != nil {
		return nil, notFoundOr(err, "Project not found")
	}
	assignments, err := s.store.ListAssignments(ctx, id)
	if err != nil {
		return nil, err
	}
	return &models.AssignmentsResponse{ProjectID: id, Assignments: assignments}, nil
}

// AddSnapshots uploads each file and appends the URLs that made it.
// Per-file failures are returned alongside the updated project; the call
// only fails outright when nothing could be stored.
func (s *ProjectService) AddSnapshots(ctx context.Context, idStr string, files []SnapshotFile) (*models.Project, []string, error) {
	id, err := parseID(idStr, "project id")
	if err != nil {
		return nil, nil, err
	}
	if len(files) == 0 {
		return nil, nil, validationError("At least one image is required")
	}
	if s.uploader == nil {
		return nil, nil, unavailableError("Snapshot storage is not configured")
	}
	if _, err := s.store.GetProject(ctx, id); err != nil {
		return nil, nil, notFoundOr(err, "Project not found")
	}

	var urls, failures []string
	for _, f := range files {
		if !strings.HasPrefix(f.ContentType, "image/") {
			failures = append(failures, fmt.Sprintf("%s: not an image", f.Filename))
			continue
		}
		url, err := s.uploader.UploadSnapshot(ctx, id, f.Filename, f.ContentType, f.Data)
		if err != nil {
			failures = append(failures, fmt.Sprintf("%s: %v", f.Filename, err))
			continue
		}
		urls = append(urls, url)
	}
	if len(urls) == 0 {
		return nil, failures, validationError("No snapshots were uploaded: %s", strings.Join(failures, "; "))
	}

	project, err := s.store.AppendSnapshots(ctx, id, urls, s.now())
	if err != nil {
		return nil, failures, notFoundOr(err, "Project not found")
	}
	return project, failures, nil
}
