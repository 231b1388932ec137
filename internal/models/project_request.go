package models

import (
	"time"

	"github.com/google/uuid"
)

type RequestStatus string

const (
	RequestPending  RequestStatus = "Pending"
	RequestApproved RequestStatus = "Approved"
	RequestRejected RequestStatus = "Rejected"
)

// ProjectRequest is a client's ask for a new project. The client* fields
// are copied from the user at submission and are not kept in sync.
// Price, Developers and RegisteredID stay empty until the request is approved.
type ProjectRequest struct {
	ID                 uuid.UUID     `json:"_id"`
	ClientID           uuid.UUID     `json:"clientId"`
	ClientName         string        `json:"clientName"`
	ClientEmail        string        `json:"clientEmail"`
	ClientPhone        string        `json:"clientPhone"`
	ProjectTitle       string        `json:"projectTitle"`
	ProjectDescription string        `json:"projectDescription"`
	RequestStatus      RequestStatus `json:"requestStatus"`
	ProjectStatusURL   string        `json:"projectStatusUrl"`
	Price              *float64      `json:"price,omitempty"`
	Developers         []uuid.UUID   `json:"developers,omitempty"`
	RegisteredID       *uuid.UUID    `json:"registeredId,omitempty"`
	CreatedAt          time.Time     `json:"createdAt"`
	UpdatedAt          time.Time     `json:"updatedAt"`
}
