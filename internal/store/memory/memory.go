// Package memory is a process-local store.Store. It backs local runs
// without DATABASE_URL and the handler and service tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"agency-desk-backend/internal/models"
	"agency-desk-backend/internal/store"
	"github.com/google/uuid"
)

type Store struct {
	mu              sync.RWMutex
	users           map[uuid.UUID]models.User
	projectRequests map[uuid.UUID]models.ProjectRequest
	projects        map[uuid.UUID]models.Project
	assignments     map[uuid.UUID][]models.Assignment
	assistRequests  map[uuid.UUID]models.AssistRequest
}

var _ store.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		users:           make(map[uuid.UUID]models.User),
		projectRequests: make(map[uuid.UUID]models.ProjectRequest),
		projects:        make(map[uuid.UUID]models.Project),
		assignments:     make(map[uuid.UUID][]models.Assignment),
		assistRequests:  make(map[uuid.UUID]models.AssistRequest),
	}
}

func (s *Store) Ping(ctx context.Context) error { return ctx.Err() }

func (s *Store) Close() error { return nil }

func notFound(what string) error {
	return fmt.Errorf("%s: %w", what, store.ErrNotFound)
}

// Users

func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if strings.EqualFold(u.Email, user.Email) {
			return fmt.Errorf("failed to create user: %w", store.ErrDuplicate)
		}
		if user.GoogleID != nil && u.GoogleID != nil && *u.GoogleID == *user.GoogleID {
			return fmt.Errorf("failed to create user: %w", store.ErrDuplicate)
		}
	}
	s.users[user.ID] = *user
	return nil
}

func (s *Store) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, notFound("user")
	}
	return &u, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, notFound("user")
}

func (s *Store) ListUsersByRole(ctx context.Context, role models.Role) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := []models.User{}
	for _, u := range s.users {
		if u.Role == role {
			users = append(users, u)
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].CreatedAt.After(users[j].CreatedAt) })
	return users, nil
}

func (s *Store) CountUsersByRole(ctx context.Context, role models.Role) (int, error) {
	users, err := s.ListUsersByRole(ctx, role)
	return len(users), err
}

// Project requests

func (s *Store) CreateProjectRequest(ctx context.Context, req *models.ProjectRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[req.ClientID]; !ok {
		return fmt.Errorf("failed to create project request: client %s: %w", req.ClientID, store.ErrNotFound)
	}
	s.projectRequests[req.ID] = cloneRequest(*req)
	return nil
}

func (s *Store) GetProjectRequest(ctx context.Context, id uuid.UUID) (*models.ProjectRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.projectRequests[id]
	if !ok {
		return nil, notFound("project request")
	}
	r = cloneRequest(r)
	return &r, nil
}

func (s *Store) GetProjectRequestByStatusURL(ctx context.Context, token string) (*models.ProjectRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, r := range s.projectRequests {
		if r.ProjectStatusURL == token {
			r = cloneRequest(r)
			return &r, nil
		}
	}
	return nil, notFound("project request")
}

func (s *Store) ListProjectRequests(ctx context.Context) ([]models.ProjectRequest, error) {
	return s.listProjectRequests(func(models.ProjectRequest) bool { return true }), nil
}

func (s *Store) ListProjectRequestsByClient(ctx context.Context, clientID uuid.UUID) ([]models.ProjectRequest, error) {
	return s.listProjectRequests(func(r models.ProjectRequest) bool { return r.ClientID == clientID }), nil
}

func (s *Store) listProjectRequests(keep func(models.ProjectRequest) bool) []models.ProjectRequest {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.ProjectRequest{}
	for _, r := range s.projectRequests {
		if keep(r) {
			out = append(out, cloneRequest(r))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (s *Store) ApproveProjectRequest(ctx context.Context, params store.ApproveParams) (*models.ProjectRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.pendingRequest(params.RequestID)
	if err != nil {
		return nil, err
	}

	price := params.Price
	projectID := params.Project.ID
	r.RequestStatus = models.RequestApproved
	r.Price = &price
	r.Developers = append([]uuid.UUID(nil), params.Developers...)
	r.RegisteredID = &projectID
	r.UpdatedAt = params.ApprovedAt

	s.projectRequests[r.ID] = r
	s.projects[projectID] = cloneProject(*params.Project)
	s.assignments[projectID] = append([]models.Assignment(nil), params.Assignments...)

	r = cloneRequest(r)
	return &r, nil
}

func (s *Store) RejectProjectRequest(ctx context.Context, id uuid.UUID, at time.Time) (*models.ProjectRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.pendingRequest(id)
	if err != nil {
		return nil, err
	}
	r.RequestStatus = models.RequestRejected
	r.UpdatedAt = at
	s.projectRequests[id] = r

	r = cloneRequest(r)
	return &r, nil
}

// pendingRequest must be called with the write lock held.
func (s *Store) pendingRequest(id uuid.UUID) (models.ProjectRequest, error) {
	r, ok := s.projectRequests[id]
	if !ok {
		return r, notFound("project request")
	}
	if r.RequestStatus != models.RequestPending {
		return r, fmt.Errorf("project request is %s: %w", r.RequestStatus, store.ErrStateChanged)
	}
	return r, nil
}

// Projects

func (s *Store) GetProject(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.projects[id]
	if !ok {
		return nil, notFound("project")
	}
	p = cloneProject(p)
	return &p, nil
}

func (s *Store) ListProjects(ctx context.Context) ([]models.Project, error) {
	return s.listProjects(func(models.Project) bool { return true }), nil
}

func (s *Store) ListProjectsByDeveloper(ctx context.Context, developerID uuid.UUID) ([]models.Project, error) {
	return s.listProjects(func(p models.Project) bool {
		for _, d := range p.Developers {
			if d == developerID {
				return true
			}
		}
		return false
	}), nil
}

func (s *Store) listProjects(keep func(models.Project) bool) []models.Project {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.Project{}
	for _, p := range s.projects {
		if keep(p) {
			out = append(out, cloneProject(p))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (s *Store) UpdateProject(ctx context.Context, id uuid.UUID, update store.ProjectUpdate, at time.Time) (*models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.projects[id]
	if !ok {
		return nil, notFound("project")
	}
	if update.ProjectStatus != nil {
		p.ProjectStatus = *update.ProjectStatus
	}
	if update.ProjectSource != nil {
		p.ProjectSource = *update.ProjectSource
	}
	if update.PaymentStatus != nil {
		p.PaymentStatus = *update.PaymentStatus
	}
	if update.PaymentTransactionID != nil {
		p.PaymentTransactionID = *update.PaymentTransactionID
	}
	p.UpdatedAt = at
	s.projects[id] = p

	p = cloneProject(p)
	return &p, nil
}

func (s *Store) ReplaceAssignments(ctx context.Context, projectID uuid.UUID, assignments []models.Assignment, at time.Time) (*models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.projects[projectID]
	if !ok {
		return nil, notFound("project")
	}
	developers := make([]uuid.UUID, len(assignments))
	for i, a := range assignments {
		developers[i] = a.DeveloperID
	}
	p.Developers = developers
	p.UpdatedAt = at
	s.projects[projectID] = p
	s.assignments[projectID] = append([]models.Assignment(nil), assignments...)

	p = cloneProject(p)
	return &p, nil
}

func (s *Store) ListAssignments(ctx context.Context, projectID uuid.UUID) ([]models.Assignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]models.Assignment{}, s.assignments[projectID]...), nil
}

func (s *Store) AppendSnapshots(ctx context.Context, projectID uuid.UUID, urls []string, at time.Time) (*models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.projects[projectID]
	if !ok {
		return nil, notFound("project")
	}
	p.Snapshots = append(append([]string{}, p.Snapshots...), urls...)
	p.UpdatedAt = at
	s.projects[projectID] = p

	p = cloneProject(p)
	return &p, nil
}

func (s *Store) CountProjects(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.projects), nil
}

func (s *Store) CountUnpaidProjects(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, p := range s.projects {
		if !p.PaymentStatus {
			count++
		}
	}
	return count, nil
}

// Assist requests

func (s *Store) CreateAssistRequest(ctx context.Context, req *models.AssistRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.assistRequests[req.ID] = cloneAssist(*req)
	return nil
}

func (s *Store) GetAssistRequest(ctx context.Context, id uuid.UUID) (*models.AssistRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.assistRequests[id]
	if !ok {
		return nil, notFound("assist request")
	}
	a = cloneAssist(a)
	return &a, nil
}

func (s *Store) ListAssistRequests(ctx context.Context) ([]models.AssistRequestWithClient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.AssistRequestWithClient{}
	for _, a := range s.assistRequests {
		item := models.AssistRequestWithClient{AssistRequest: cloneAssist(a)}
		if u, ok := s.users[a.UserID]; ok {
			item.ClientName = u.Name
		}
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) ListAssistRequestsByUser(ctx context.Context, userID uuid.UUID) ([]models.AssistRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.AssistRequest{}
	for _, a := range s.assistRequests {
		if a.UserID == userID {
			out = append(out, cloneAssist(a))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) UpdateAssistRequest(ctx context.Context, id uuid.UUID, update store.AssistUpdate, at time.Time) (*models.AssistRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.assistRequests[id]
	if !ok {
		return nil, notFound("assist request")
	}
	if update.RequestStatus != nil {
		a.RequestStatus = *update.RequestStatus
	}
	if update.AssistStatus != nil {
		a.AssistStatus = *update.AssistStatus
	}
	if update.Amount != nil {
		a.Amount = ptr(*update.Amount)
	}
	if update.PaymentQRCode != nil {
		a.PaymentQRCode = ptr(*update.PaymentQRCode)
	}
	if update.DeveloperName != nil {
		a.DeveloperName = ptr(*update.DeveloperName)
	}
	if update.DeveloperPhone != nil {
		a.DeveloperPhone = ptr(*update.DeveloperPhone)
	}
	if update.PaymentStatus != nil {
		a.PaymentStatus = *update.PaymentStatus
	}
	a.UpdatedAt = at
	s.assistRequests[id] = a

	a = cloneAssist(a)
	return &a, nil
}

func (s *Store) RecordAssistPayment(ctx context.Context, id uuid.UUID, paymentType models.PaymentType, transactionID string, at time.Time) (*models.AssistRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.assistRequests[id]
	if !ok {
		return nil, notFound("assist request")
	}
	if a.RequestStatus != models.AssistRequestApproved || a.TransactionID != nil {
		return nil, fmt.Errorf("failed to record payment: %w", store.ErrStateChanged)
	}
	a.PaymentType = ptr(paymentType)
	a.TransactionID = ptr(transactionID)
	a.UpdatedAt = at
	s.assistRequests[id] = a

	a = cloneAssist(a)
	return &a, nil
}

func (s *Store) SetAssistFeedback(ctx context.Context, id uuid.UUID, feedback *string, rating *int, at time.Time) (*models.AssistRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.assistRequests[id]
	if !ok {
		return nil, notFound("assist request")
	}
	if a.AssistStatus != models.AssistCompleted || a.Feedback != nil || a.Rating != nil {
		return nil, fmt.Errorf("failed to set feedback: %w", store.ErrStateChanged)
	}
	if feedback != nil {
		a.Feedback = ptr(*feedback)
	}
	if rating != nil {
		a.Rating = ptr(*rating)
	}
	a.UpdatedAt = at
	s.assistRequests[id] = a

	a = cloneAssist(a)
	return &a, nil
}

func ptr[T any](v T) *T { return &v }

func cloneRequest(r models.ProjectRequest) models.ProjectRequest {
	if r.Developers != nil {
		r.Developers = append([]uuid.UUID(nil), r.Developers...)
	}
	return r
}

func cloneProject(p models.Project) models.Project {
	p.Developers = append([]uuid.UUID{}, p.Developers...)
	p.Snapshots = append([]string{}, p.Snapshots...)
	return p
}

func cloneAssist(a models.AssistRequest) models.AssistRequest {
	a.ProjectTechnologies = append([]string{}, a.ProjectTechnologies...)
	return a
}
