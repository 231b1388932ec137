package models

import (
	"time"

	"github.com/google/uuid"
)

type ProjectStatus string

const (
	ProjectPending    ProjectStatus = "Pending"
	ProjectInProgress ProjectStatus = "In Progress"
	ProjectCompleted  ProjectStatus = "Completed"
	ProjectOnHold     ProjectStatus = "On Hold"
	ProjectCancelled  ProjectStatus = "Cancelled"
)

func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectPending, ProjectInProgress, ProjectCompleted, ProjectOnHold, ProjectCancelled:
		return true
	}
	return false
}

// Project is the in-delivery project materialized from an approved
// ProjectRequest. ClientName is a snapshot taken at approval time.
type Project struct {
	ID                   uuid.UUID     `json:"_id"`
	ClientID             uuid.UUID     `json:"clientId"`
	ClientName           string        `json:"clientName"`
	ProjectTitle         string        `json:"projectTitle"`
	ProjectDescription   string        `json:"projectDescription"`
	ProjectStatus        ProjectStatus `json:"projectStatus"`
	ProjectSource        string        `json:"projectSource"`
	Price                float64       `json:"price"`
	PaymentStatus        bool          `json:"paymentStatus"`
	PaymentTransactionID string        `json:"paymentTransactionId"`
	Developers           []uuid.UUID   `json:"developers"`
	Snapshots            []string      `json:"snapshots"`
	CreatedAt            time.Time     `json:"createdAt"`
	UpdatedAt            time.Time     `json:"updatedAt"`
}

type AssignmentStatus string

const (
	AssignmentActive    AssignmentStatus = "active"
	AssignmentCompleted AssignmentStatus = "completed"
	AssignmentOnHold    AssignmentStatus = "on_hold"
)

// Assignment links a project to one developer.
type Assignment struct {
	ID          uuid.UUID        `json:"_id"`
	ProjectID   uuid.UUID        `json:"projectId"`
	DeveloperID uuid.UUID        `json:"developerId"`
	Status      AssignmentStatus `json:"status"`
	AssignedAt  time.Time        `json:"assignedAt"`
}
