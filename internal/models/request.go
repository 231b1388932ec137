package models

import "encoding/json"

type SignupRequest struct {
	Name       string `json:"name" binding:"required" example:"Jane Doe"`
	Email      string `json:"email" binding:"required,email" example:"jane@example.com"`
	Password   string `json:"password" binding:"required,min=6"`
	Phone      string `json:"phone,omitempty"`
	Occupation string `json:"occupation,omitempty"`
	HowHeard   string `json:"howHeard,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// GoogleAuthRequest carries a Supabase access token issued by the Google
// provider. Profile fields are only used on signup.
type GoogleAuthRequest struct {
	AccessToken string `json:"accessToken" binding:"required"`
	Phone       string `json:"phone,omitempty"`
	Occupation  string `json:"occupation,omitempty"`
	HowHeard    string `json:"howHeard,omitempty"`
}

type SubmitProjectRequest struct {
	ClientID           string `json:"clientId" example:"6f1c2d3e-0000-0000-0000-000000000000"`
	ProjectTitle       string `json:"projectTitle" example:"Inventory app"`
	ProjectDescription string `json:"projectDescription"`
}

type ApproveProjectRequest struct {
	Developers []string `json:"developers"`
	Price      *float64 `json:"price" example:"1500"`
}

type UpdateProjectRequest struct {
	ProjectStatus        *string `json:"projectStatus,omitempty" example:"In Progress"`
	ProjectSource        *string `json:"projectSource,omitempty"`
	PaymentStatus        *bool   `json:"paymentStatus,omitempty"`
	PaymentTransactionID *string `json:"paymentTransactionId,omitempty"`
}

type AssignDevelopersRequest struct {
	Developers []string `json:"developers"`
}

// CreateAssistRequest keeps projectTechnologies raw so that a non-array
// value can be coerced to an empty list instead of failing the bind.
type CreateAssistRequest struct {
	UserID              string          `json:"userId"`
	ProjectName         string          `json:"projectName" example:"Shop"`
	ProjectType         string          `json:"projectType" example:"Web"`
	ProjectTechnologies json.RawMessage `json:"projectTechnologies,omitempty" swaggertype:"array,string"`
}

type UpdateAssistRequest struct {
	RequestStatus  *string  `json:"requestStatus,omitempty" example:"Approved"`
	AssistStatus   *string  `json:"assistStatus,omitempty"`
	Amount         *float64 `json:"amount,omitempty" example:"500"`
	PaymentQRCode  *string  `json:"paymentQrCode,omitempty"`
	DeveloperName  *string  `json:"developerName,omitempty"`
	DeveloperPhone *string  `json:"developerPhone,omitempty" example:"9876543210"`
	PaymentStatus  *string  `json:"paymentStatus,omitempty"`
}

type PayAssistRequest struct {
	PaymentType   string `json:"paymentType" example:"Google Pay"`
	TransactionID string `json:"transactionId" example:"tx123"`
}

type FeedbackRequest struct {
	Feedback *string `json:"feedback,omitempty"`
	Rating   *int    `json:"rating,omitempty" example:"5"`
}
