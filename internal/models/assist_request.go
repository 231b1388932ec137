package models

import (
	"time"

	"github.com/google/uuid"
)

type ProjectType string

const (
	ProjectTypeMobile  ProjectType = "Mobile"
	ProjectTypeDesktop ProjectType = "Desktop"
	ProjectTypeWeb     ProjectType = "Web"
)

func (t ProjectType) Valid() bool {
	return t == ProjectTypeMobile || t == ProjectTypeDesktop || t == ProjectTypeWeb
}

type AssistRequestStatus string

const (
	AssistRequestPending   AssistRequestStatus = "Pending"
	AssistRequestReviewing AssistRequestStatus = "Reviewing"
	AssistRequestApproved  AssistRequestStatus = "Approved"
	AssistRequestDeclined  AssistRequestStatus = "Declined"
)

func (s AssistRequestStatus) Valid() bool {
	switch s {
	case AssistRequestPending, AssistRequestReviewing, AssistRequestApproved, AssistRequestDeclined:
		return true
	}
	return false
}

type AssistStatus string

const (
	AssistPending    AssistStatus = "Pending"
	AssistInProgress AssistStatus = "In Progress"
	AssistCompleted  AssistStatus = "Completed"
)

func (s AssistStatus) Valid() bool {
	return s == AssistPending || s == AssistInProgress || s == AssistCompleted
}

type PaymentType string

const (
	PaymentGooglePay PaymentType = "Google Pay"
	PaymentRazorpay  PaymentType = "Razorpay"
)

func (t PaymentType) Valid() bool {
	return t == PaymentGooglePay || t == PaymentRazorpay
}

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "Pending"
	PaymentPaid    PaymentStatus = "Paid"
)

func (s PaymentStatus) Valid() bool {
	return s == PaymentPending || s == PaymentPaid
}

// AssistRequest is a request for help with an existing external project.
// RequestStatus and AssistStatus are independent axes. TransactionID is
// written once by the client; PaymentStatus only moves to Paid when an
// admin confirms the payment.
type AssistRequest struct {
	ID                  uuid.UUID           `json:"_id"`
	UserID              uuid.UUID           `json:"userId"`
	ProjectName         string              `json:"projectName"`
	ProjectType         ProjectType         `json:"projectType"`
	ProjectTechnologies []string            `json:"projectTechnologies"`
	RequestStatus       AssistRequestStatus `json:"requestStatus"`
	AssistStatus        AssistStatus        `json:"assistStatus"`
	Amount              *float64            `json:"amount"`
	PaymentQRCode       *string             `json:"paymentQrCode"`
	PaymentType         *PaymentType        `json:"paymentType"`
	PaymentStatus       PaymentStatus       `json:"paymentStatus"`
	TransactionID       *string             `json:"transactionId"`
	Feedback            *string             `json:"feedback"`
	Rating              *int                `json:"rating"`
	DeveloperName       *string             `json:"developerName"`
	DeveloperPhone      *string             `json:"developerPhone"`
	CreatedAt           time.Time           `json:"createdAt"`
	UpdatedAt           time.Time           `json:"updatedAt"`
}

// AssistRequestWithClient is the admin listing row. ClientName is resolved
// from the owning user at read time.
type AssistRequestWithClient struct {
	AssistRequest
	ClientName string `json:"clientName"`
}
