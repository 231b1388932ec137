package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"agency-desk-backend/internal/models"
	"agency-desk-backend/internal/store"
	"github.com/google/uuid"
)

const unknownClient = "Unknown"

// AssistService runs the assist-request workflow: admin triage, client
// payment, admin confirmation and client feedback.
type AssistService struct {
	clock
	store store.AssistRequests
}

func NewAssistService(s store.AssistRequests) *AssistService {
	return &AssistService{clock: newClock(), store: s}
}

// Create files a Pending request. The owner is the body's userId when
// given, otherwise the caller.
func (s *AssistService) Create(ctx context.Context, in models.CreateAssistRequest, callerID uuid.UUID) (*models.AssistRequest, error) {
	name := strings.TrimSpace(in.ProjectName)
	projectType := models.ProjectType(strings.TrimSpace(in.ProjectType))
	if name == "" || projectType == "" {
		return nil, validationError("projectName and projectType are required")
	}
	if !projectType.Valid() {
		return nil, validationError("projectType must be one of: Mobile, Desktop, Web")
	}

	ownerID := callerID
	if strings.TrimSpace(in.UserID) != "" {
		id, err := parseID(in.UserID, "userId")
		if err != nil {
			return nil, err
		}
		ownerID = id
	}
	if ownerID == uuid.Nil {
		return nil, validationError("userId is required")
	}

	now := s.now()
	req := &models.AssistRequest{
		ID:                  uuid.New(),
		UserID:              ownerID,
		ProjectName:         name,
		ProjectType:         projectType,
		ProjectTechnologies: technologiesFrom(in.ProjectTechnologies),
		RequestStatus:       models.AssistRequestPending,
		AssistStatus:        models.AssistPending,
		PaymentStatus:       models.PaymentPending,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if err := s.store.CreateAssistRequest(ctx, req); err != nil {
		return nil, err
	}
	return req, nil
}

// technologiesFrom keeps the string entries of a JSON array; anything
// that is not an array becomes an empty list.
func technologiesFrom(raw json.RawMessage) []string {
	technologies := []string{}
	var values []any
	if len(raw) == 0 || json.Unmarshal(raw, &values) != nil {
		return technologies
	}
	for _, v := range values {
		if str, ok := v.(string); ok && strings.TrimSpace(str) != "" {
			technologies = append(technologies, strings.TrimSpace(str))
		}
	}
	return technologies
}

func (s *AssistService) ListByUser(ctx context.Context, userIDStr string) ([]models.AssistRequest, error) {
	userID, err := parseID(userIDStr, "userId")
	if err != nil {
		return nil, err
	}
	return s.store.ListAssistRequestsByUser(ctx, userID)
}

func (s *AssistService) ListAll(ctx context.Context) ([]models.AssistRequestWithClient, error) {
	requests, err := s.store.ListAssistRequests(ctx)
	if err != nil {
		return nil, err
	}
	for i := range requests {
		if requests[i].ClientName == "" {
			requests[i].ClientName = unknownClient
		}
	}
	return requests, nil
}

func (s *AssistService) Get(ctx context.Context, idStr string) (*models.AssistRequest, error) {
	id, err := parseID(idStr, "assist request id")
	if err != nil {
		return nil, err
	}
	req, err := s.store.GetAssistRequest(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Assist request not found")
	}
	return req, nil
}

// Update applies an admin's changes. Every provided field is validated
// before anything is written; status fields accept any enum value.
func (s *AssistService) Update(ctx context.Context, idStr string, in models.UpdateAssistRequest) (*models.AssistRequest, error) {
	id, err := parseID(idStr, "assist request id")
	if err != nil {
		return nil, err
	}

	var update store.AssistUpdate
	if in.RequestStatus != nil {
		status := models.AssistRequestStatus(*in.RequestStatus)
		if !status.Valid() {
			return nil, validationError("Invalid requestStatus. Must be one of: Pending, Reviewing, Approved, Declined")
		}
		update.RequestStatus = &status
	}
	if in.AssistStatus != nil {
		status := models.AssistStatus(*in.AssistStatus)
		if !status.Valid() {
			return nil, validationError("Invalid assistStatus. Must be one of: Pending, In Progress, Completed")
		}
		update.AssistStatus = &status
	}
	if in.Amount != nil {
		if *in.Amount < 0 {
			return nil, validationError("Amount must be a non-negative number")
		}
		update.Amount = in.Amount
	}
	if in.PaymentQRCode != nil {
		qr := strings.TrimSpace(*in.PaymentQRCode)
		if !isValidURL(qr) {
			return nil, validationError("paymentQrCode must be a valid URL")
		}
		update.PaymentQRCode = &qr
	}
	if in.DeveloperName != nil {
		name := strings.TrimSpace(*in.DeveloperName)
		if name == "" {
			return nil, validationError("developerName must be a non-empty string")
		}
		update.DeveloperName = &name
	}
	if in.DeveloperPhone != nil {
		phone := strings.TrimSpace(*in.DeveloperPhone)
		if !isValidPhone(phone) {
			return nil, validationError("developerPhone must be exactly 10 digits")
		}
		update.DeveloperPhone = &phone
	}
	if in.PaymentStatus != nil {
		status := models.PaymentStatus(*in.PaymentStatus)
		if !status.Valid() {
			return nil, validationError("Invalid paymentStatus. Must be one of: Pending, Paid")
		}
		update.PaymentStatus = &status
	}

	req, err := s.store.UpdateAssistRequest(ctx, id, update, s.now())
	if err != nil {
		return nil, notFoundOr(err, "Assist request not found")
	}
	return req, nil
}

// Pay records the owner's payment reference. It does not mark the
// request Paid; an admin confirms that separately.
func (s *AssistService) Pay(ctx context.Context, idStr string, callerID uuid.UUID, in models.PayAssistRequest) (*models.AssistRequest, error) {
	id, err := parseID(idStr, "assist request id")
	if err != nil {
		return nil, err
	}

	req, err := s.store.GetAssistRequest(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Assist request not found")
	}
	if req.UserID != callerID {
		return nil, forbiddenError("You can only pay for your own requests")
	}
	if err := paymentAllowed(req); err != nil {
		return nil, err
	}

	paymentType := models.PaymentType(in.PaymentType)
	if !paymentType.Valid() {
		return nil, validationError("Invalid payment type. Must be Google Pay or Razorpay")
	}
	transactionID := strings.TrimSpace(in.TransactionID)
	if transactionID == "" {
		return nil, validationError("Transaction ID is required")
	}

	paid, err := s.store.RecordAssistPayment(ctx, id, paymentType, transactionID, s.now())
	if errors.Is(err, store.ErrStateChanged) {
		// Lost a race: report whichever guard the current row fails.
		if current, getErr := s.store.GetAssistRequest(ctx, id); getErr == nil {
			if guardErr := paymentAllowed(current); guardErr != nil {
				return nil, guardErr
			}
		}
		return nil, validationError("Payment already completed")
	}
	if err != nil {
		return nil, notFoundOr(err, "Assist request not found")
	}
	return paid, nil
}

func paymentAllowed(req *models.AssistRequest) error {
	if req.RequestStatus != models.AssistRequestApproved {
		return validationError("Payment can only be made for approved requests")
	}
	if req.TransactionID != nil {
		return validationError("Payment already completed")
	}
	return nil
}

func feedbackAllowed(req *models.AssistRequest) error {
	if req.AssistStatus != models.AssistCompleted {
		return validationError("Feedback can only be submitted for completed requests")
	}
	if req.Feedback != nil || req.Rating != nil {
		return validationError("Feedback already submitted")
	}
	return nil
}

// SubmitFeedback lets the owner rate a completed request once. Only the
// supplied fields are written.
func (s *AssistService) SubmitFeedback(ctx context.Context, idStr string, callerID uuid.UUID, in models.FeedbackRequest) (*models.AssistRequest, error) {
	id, err := parseID(idStr, "assist request id")
	if err != nil {
		return nil, err
	}

	req, err := s.store.GetAssistRequest(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Assist request not found")
	}
	if req.UserID != callerID {
		return nil, forbiddenError("You can only submit feedback for your own requests")
	}
	if err := feedbackAllowed(req); err != nil {
		return nil, err
	}

	if in.Feedback == nil && in.Rating == nil {
		return nil, validationError("feedback or rating is required")
	}
	var feedback *string
	if in.Feedback != nil {
		text := strings.TrimSpace(*in.Feedback)
		feedback = &text
	}
	if in.Rating != nil && (*in.Rating < 1 || *in.Rating > 5) {
		return nil, validationError("Rating must be an integer between 1 and 5")
	}

	updated, err := s.store.SetAssistFeedback(ctx, id, feedback, in.Rating, s.now())
	if errors.Is(err, store.ErrStateChanged) {
		if current, getErr := s.store.GetAssistRequest(ctx, id); getErr == nil {
			if guardErr := feedbackAllowed(current); guardErr != nil {
				return nil, guardErr
			}
		}
		return nil, validationError("Feedback already submitted")
	}
	if err != nil {
		return nil, notFoundOr(err, "Assist request not found")
	}
	return updated, nil
}
