package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"agency-desk-backend/internal/models"
	"agency-desk-backend/internal/store"
	"github.com/google/uuid"
)

type ProjectRequestStore interface {
	store.Users
	store.ProjectRequests
}

// ProjectRequestService runs the Pending → Approved/Rejected workflow.
type ProjectRequestService struct {
	clock
	store ProjectRequestStore
}

func NewProjectRequestService(s ProjectRequestStore) *ProjectRequestService {
	return &ProjectRequestService{clock: newClock(), store: s}
}

// Submit records a new Pending request with a snapshot of the client's
// contact details and a status token.
func (s *ProjectRequestService) Submit(ctx context.Context, in models.SubmitProjectRequest) (*models.ProjectRequest, error) {
	clientID, err := parseID(in.ClientID, "clientId")
	if err != nil {
		return nil, err
	}
	title := strings.TrimSpace(in.ProjectTitle)
	description := strings.TrimSpace(in.ProjectDescription)
	if title == "" || description == "" {
		return nil, validationError("projectTitle and projectDescription are required")
	}

	client, err := s.store.GetUser(ctx, clientID)
	if err != nil {
		return nil, notFoundOr(err, "User not found")
	}

	token, err := uuid.NewV7()
	if err != nil {
		return nil, err
	}

	now := s.now()
	req := &models.ProjectRequest{
		ID:                 uuid.New(),
		ClientID:           client.ID,
		ClientName:         client.Name,
		ClientEmail:        client.Email,
		ClientPhone:        client.Phone,
		ProjectTitle:       title,
		ProjectDescription: description,
		RequestStatus:      models.RequestPending,
		ProjectStatusURL:   token.String(),
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := s.store.CreateProjectRequest(ctx, req); err != nil {
		return nil, notFoundOr(err, "User not found")
	}
	return req, nil
}

func (s *ProjectRequestService) ListByClient(ctx context.Context, clientIDStr string) ([]models.ProjectRequest, error) {
	clientID, err := parseID(clientIDStr, "clientId")
	if err != nil {
		return nil, err
	}
	return s.store.ListProjectRequestsByClient(ctx, clientID)
}

func (s *ProjectRequestService) ListAll(ctx context.Context) ([]models.ProjectRequest, error) {
	return s.store.ListProjectRequests(ctx)
}

func (s *ProjectRequestService) GetByStatusToken(ctx context.Context, token string) (*models.ProjectRequest, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, validationError("Status token is required")
	}
	req, err := s.store.GetProjectRequestByStatusURL(ctx, token)
	if err != nil {
		return nil, notFoundOr(err, "Project request not found")
	}
	return req, nil
}

// Approve prices the request, assigns developers and materializes the
// Project. The status change, the project and its assignments are
// written together by the store.
func (s *ProjectRequestService) Approve(ctx context.Context, requestIDStr string, in models.ApproveProjectRequest) (*models.ProjectRequest, *models.Project, error) {
	requestID, err := parseID(requestIDStr, "request id")
	if err != nil {
		return nil, nil, err
	}
	if in.Price == nil || *in.Price < 0 {
		return nil, nil, validationError("Price must be a non-negative number")
	}
	if len(in.Developers) == 0 {
		return nil, nil, validationError("At least one developer must be assigned")
	}
	developers, err := parseIDs(in.Developers, "developer id")
	if err != nil {
		return nil, nil, err
	}

	req, err := s.store.GetProjectRequest(ctx, requestID)
	if err != nil {
		return nil, nil, notFoundOr(err, "Project request not found")
	}
	client, err := s.store.GetUser(ctx, req.ClientID)
	if err != nil {
		return nil, nil, notFoundOr(err, "Client not found")
	}
	if req.RequestStatus != models.RequestPending {
		return nil, nil, conflictError("Project request has already been %s", strings.ToLower(string(req.RequestStatus)))
	}
	if err := ensureUsersExist(ctx, s.store, developers); err != nil {
		return nil, nil, err
	}

	now := s.now()
	project := &models.Project{
		ID:                 uuid.New(),
		ClientID:           req.ClientID,
		ClientName:         client.Name,
		ProjectTitle:       req.ProjectTitle,
		ProjectDescription: req.ProjectDescription,
		ProjectStatus:      models.ProjectPending,
		Price:              *in.Price,
		Developers:         developers,
		Snapshots:          []string{},
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	approved, err := s.store.ApproveProjectRequest(ctx, store.ApproveParams{
		RequestID:   requestID,
		Price:       *in.Price,
		Developers:  developers,
		Project:     project,
		Assignments: newAssignments(project.ID, developers, now),
		ApprovedAt:  now,
	})
	if errors.Is(err, store.ErrStateChanged) {
		return nil, nil, conflictError("Project request has already been processed")
	}
	if err != nil {
		return nil, nil, notFoundOr(err, "Project request not found")
	}
	return approved, project, nil
}

func (s *ProjectRequestService) Reject(ctx context.Context, requestIDStr string) (*models.ProjectRequest, error) {
	requestID, err := parseID(requestIDStr, "request id")
	if err != nil {
		return nil, err
	}
	rejected, err := s.store.RejectProjectRequest(ctx, requestID, s.now())
	if errors.Is(err, store.ErrStateChanged) {
		return nil, conflictError("Project request has already been processed")
	}
	if err != nil {
		return nil, notFoundOr(err, "Project request not found")
	}
	return rejected, nil
}

func ensureUsersExist(ctx context.Context, users store.Users, ids []uuid.UUID) error {
	for _, id := range ids {
		if _, err := users.GetUser(ctx, id); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return validationError("Developer %s not found", id)
			}
			return err
		}
	}
	return nil
}

func newAssignments(projectID uuid.UUID, developers []uuid.UUID, at time.Time) []models.Assignment {
	assignments := make([]models.Assignment, len(developers))
	for i, developerID := range developers {
		assignments[i] = models.Assignment{
			ID:          uuid.New(),
			ProjectID:   projectID,
			DeveloperID: developerID,
			Status:      models.AssignmentActive,
			AssignedAt:  at,
		}
	}
	return assignments
}

// notFoundOr turns store.ErrNotFound into a 404 with message and passes
// every other error through.
func notFoundOr(err error, message string) error {
	if errors.Is(err, store.ErrNotFound) {
		return notFoundError("%s", message)
	}
	return err
}
