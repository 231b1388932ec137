// Package store defines the persistence contract shared by the Postgres
// client and the in-memory store.
package store

import (
	"context"
	"errors"
	"time"

	"agency-desk-backend/internal/models"
	"github.com/google/uuid"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("record already exists")
	// ErrStateChanged is returned by guarded writes whose precondition no
	// longer holds when the row is locked or conditionally updated.
	ErrStateChanged = errors.New("record state changed")
)

// ApproveParams carries everything written by one approval.
type ApproveParams struct {
	RequestID   uuid.UUID
	Price       float64
	Developers  []uuid.UUID
	Project     *models.Project
	Assignments []models.Assignment
	ApprovedAt  time.Time
}

type ProjectUpdate struct {
	ProjectStatus        *models.ProjectStatus
	ProjectSource        *string
	PaymentStatus        *bool
	PaymentTransactionID *string
}

type AssistUpdate struct {
	RequestStatus  *models.AssistRequestStatus
	AssistStatus   *models.AssistStatus
	Amount         *float64
	PaymentQRCode  *string
	DeveloperName  *string
	DeveloperPhone *string
	PaymentStatus  *models.PaymentStatus
}

type Users interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	ListUsersByRole(ctx context.Context, role models.Role) ([]models.User, error)
	CountUsersByRole(ctx context.Context, role models.Role) (int, error)
}

type ProjectRequests interface {
	CreateProjectRequest(ctx context.Context, req *models.ProjectRequest) error
	GetProjectRequest(ctx context.Context, id uuid.UUID) (*models.ProjectRequest, error)
	GetProjectRequestByStatusURL(ctx context.Context, token string) (*models.ProjectRequest, error)
	ListProjectRequests(ctx context.Context) ([]models.ProjectRequest, error)
	ListProjectRequestsByClient(ctx context.Context, clientID uuid.UUID) ([]models.ProjectRequest, error)
	// ApproveProjectRequest marks a Pending request Approved and inserts the
	// project and its assignments as one unit.
	ApproveProjectRequest(ctx context.Context, params ApproveParams) (*models.ProjectRequest, error)
	RejectProjectRequest(ctx context.Context, id uuid.UUID, at time.Time) (*models.ProjectRequest, error)
}

type Projects interface {
	GetProject(ctx context.Context, id uuid.UUID) (*models.Project, error)
	ListProjects(ctx context.Context) ([]models.Project, error)
	ListProjectsByDeveloper(ctx context.Context, developerID uuid.UUID) ([]models.Project, error)
	UpdateProject(ctx context.Context, id uuid.UUID, update ProjectUpdate, at time.Time) (*models.Project, error)
	// ReplaceAssignments swaps the project's developers and assignment rows
	// as one unit.
	ReplaceAssignments(ctx context.Context, projectID uuid.UUID, assignments []models.Assignment, at time.Time) (*models.Project, error)
	ListAssignments(ctx context.Context, projectID uuid.UUID) ([]models.Assignment, error)
	AppendSnapshots(ctx context.Context, projectID uuid.UUID, urls []string, at time.Time) (*models.Project, error)
	CountProjects(ctx context.Context) (int, error)
	CountUnpaidProjects(ctx context.Context) (int, error)
}

type AssistRequests interface {
	CreateAssistRequest(ctx context.Context, req *models.AssistRequest) error
	GetAssistRequest(ctx context.Context, id uuid.UUID) (*models.AssistRequest, error)
	ListAssistRequests(ctx context.Context) ([]models.AssistRequestWithClient, error)
	ListAssistRequestsByUser(ctx context.Context, userID uuid.UUID) ([]models.AssistRequest, error)
	UpdateAssistRequest(ctx context.Context, id uuid.UUID, update AssistUpdate, at time.Time) (*models.AssistRequest, error)
	// RecordAssistPayment stores the payment only while the request is
	// Approved and has no transaction id, otherwise ErrStateChanged.
	RecordAssistPayment(ctx context.Context, id uuid.UUID, paymentType models.PaymentType, transactionID string, at time.Time) (*models.AssistRequest, error)
	// SetAssistFeedback applies the non-nil fields only while the request
	// is Completed and has no feedback or rating yet, otherwise
	// ErrStateChanged.
	SetAssistFeedback(ctx context.Context, id uuid.UUID, feedback *string, rating *int, at time.Time) (*models.AssistRequest, error)
}

type Store interface {
	Users
	ProjectRequests
	Projects
	AssistRequests
	Ping(ctx context.Context) error
	Close() error
}
