package models

import (
	"time"

	"github.com/google/uuid"
)

type ErrorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type AuthResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

type SubmitProjectResponse struct {
	Message          string    `json:"message"`
	RequestID        uuid.UUID `json:"requestId"`
	ProjectStatusURL string    `json:"projectStatusUrl"`
}

type ApproveProjectResponse struct {
	Message string          `json:"message"`
	Request *ProjectRequest `json:"request"`
	Project *Project        `json:"project"`
}

type ProjectRequestResponse struct {
	Message string          `json:"message"`
	Request *ProjectRequest `json:"request"`
}

// ProjectSummary is the listing shape of a project: _id is exposed as
// projectId and projectStatus as status.
type ProjectSummary struct {
	ProjectID     uuid.UUID     `json:"projectId"`
	ClientName    string        `json:"clientName"`
	ProjectTitle  string        `json:"projectTitle"`
	Status        ProjectStatus `json:"status"`
	Price         float64       `json:"price"`
	PaymentStatus bool          `json:"paymentStatus"`
	Developers    []uuid.UUID   `json:"developers"`
	CreatedAt     time.Time     `json:"createdAt"`
}

type ProjectResponse struct {
	Message string   `json:"message"`
	Project *Project `json:"project"`
}

type AssignmentsResponse struct {
	ProjectID   uuid.UUID    `json:"projectId"`
	Assignments []Assignment `json:"assignments"`
}

type SnapshotsResponse struct {
	ProjectID uuid.UUID `json:"projectId"`
	Snapshots []string  `json:"snapshots"`
	Errors    []string  `json:"errors,omitempty"`
}

type DashboardStats struct {
	TotalProjects   int `json:"totalProjects"`
	PendingPayments int `json:"pendingPayments"`
	TotalClients    int `json:"totalClients"`
}

type HealthResponse struct {
	Status string `json:"status"`
}
