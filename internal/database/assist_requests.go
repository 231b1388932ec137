package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"agency-desk-backend/internal/models"
	"agency-desk-backend/internal/store"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

const assistColumns = `id, user_id, project_name, project_type, project_technologies, request_status,
	assist_status, amount, payment_qr_code, payment_type, payment_status, transaction_id, feedback,
	rating, developer_name, developer_phone, created_at, updated_at`

func assistScanDest(a *models.AssistRequest, technologies *pq.StringArray) []any {
	return []any{
		&a.ID, &a.UserID, &a.ProjectName, &a.ProjectType, technologies, &a.RequestStatus,
		&a.AssistStatus, &a.Amount, &a.PaymentQRCode, &a.PaymentType, &a.PaymentStatus,
		&a.TransactionID, &a.Feedback, &a.Rating, &a.DeveloperName, &a.DeveloperPhone,
		&a.CreatedAt, &a.UpdatedAt,
	}
}

func scanAssistRequest(s rowScanner) (*models.AssistRequest, error) {
	var a models.AssistRequest
	var technologies pq.StringArray
	if err := s.Scan(assistScanDest(&a, &technologies)...); err != nil {
		return nil, err
	}
	a.ProjectTechnologies = technologiesOrEmpty(technologies)
	return &a, nil
}

func technologiesOrEmpty(values []string) pq.StringArray {
	if values == nil {
		return pq.StringArray{}
	}
	return pq.StringArray(values)
}

func (d *DatabaseClient) CreateAssistRequest(ctx context.Context, req *models.AssistRequest) error {
	_, err := d.db.ExecContext(ctx, `
		INSERT INTO assist_requests (id, user_id, project_name, project_type, project_technologies,
			request_status, assist_status, payment_status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, req.ID, req.UserID, req.ProjectName, req.ProjectType, technologiesOrEmpty(req.ProjectTechnologies),
		req.RequestStatus, req.AssistStatus, req.PaymentStatus, req.CreatedAt, req.UpdatedAt)
	return mapErr("failed to create assist request", err)
}

func (d *DatabaseClient) GetAssistRequest(ctx context.Context, id uuid.UUID) (*models.AssistRequest, error) {
	req, err := scanAssistRequest(d.db.QueryRowContext(ctx,
		`SELECT `+assistColumns+` FROM assist_requests WHERE id = $1`, id))
	if err != nil {
		return nil, mapErr("failed to get assist request", err)
	}
	return req, nil
}

func (d *DatabaseClient) ListAssistRequests(ctx context.Context) ([]models.AssistRequestWithClient, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT `+assistColumns+`,
			COALESCE((SELECT u.name FROM users u WHERE u.id = assist_requests.user_id), '')
		FROM assist_requests
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list assist requests: %w", err)
	}
	defer rows.Close()

	requests := []models.AssistRequestWithClient{}
	for rows.Next() {
		var item models.AssistRequestWithClient
		var technologies pq.StringArray
		dest := append(assistScanDest(&item.AssistRequest, &technologies), &item.ClientName)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan assist request: %w", err)
		}
		item.ProjectTechnologies = technologiesOrEmpty(technologies)
		requests = append(requests, item)
	}
	return requests, rows.Err()
}

func (d *DatabaseClient) ListAssistRequestsByUser(ctx context.Context, userID uuid.UUID) ([]models.AssistRequest, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT `+assistColumns+`
		FROM assist_requests
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list assist requests: %w", err)
	}
	defer rows.Close()

	requests := []models.AssistRequest{}
	for rows.Next() {
		req, err := scanAssistRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan assist request: %w", err)
		}
		requests = append(requests, *req)
	}
	return requests, rows.Err()
}

func (d *DatabaseClient) UpdateAssistRequest(ctx context.Context, id uuid.UUID, update store.AssistUpdate, at time.Time) (*models.AssistRequest, error) {
	req, err := scanAssistRequest(d.db.QueryRowContext(ctx, `
		UPDATE assist_requests
		SET request_status = COALESCE($2, request_status),
			assist_status = COALESCE($3, assist_status),
			amount = COALESCE($4, amount),
			payment_qr_code = COALESCE($5, payment_qr_code),
			developer_name = COALESCE($6, developer_name),
			developer_phone = COALESCE($7, developer_phone),
			payment_status = COALESCE($8, payment_status),
			updated_at = $9
		WHERE id = $1
		RETURNING `+assistColumns,
		id, update.RequestStatus, update.AssistStatus, update.Amount, update.PaymentQRCode,
		update.DeveloperName, update.DeveloperPhone, update.PaymentStatus, at))
	if err != nil {
		return nil, mapErr("failed to update assist request", err)
	}
	return req, nil
}

func (d *DatabaseClient) RecordAssistPayment(ctx context.Context, id uuid.UUID, paymentType models.PaymentType, transactionID string, at time.Time) (*models.AssistRequest, error) {
	req, err := scanAssistRequest(d.db.QueryRowContext(ctx, `
		UPDATE assist_requests
		SET payment_type = $2, transaction_id = $3, updated_at = $4
		WHERE id = $1 AND request_status = $5 AND transaction_id IS NULL
		RETURNING `+assistColumns,
		id, paymentType, transactionID, at, models.AssistRequestApproved))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, d.guardFailed(ctx, "failed to record payment", "assist_requests", id)
	}
	if err != nil {
		return nil, mapErr("failed to record payment", err)
	}
	return req, nil
}

func (d *DatabaseClient) SetAssistFeedback(ctx context.Context, id uuid.UUID, feedback *string, rating *int, at time.Time) (*models.AssistRequest, error) {
	req, err := scanAssistRequest(d.db.QueryRowContext(ctx, `
		UPDATE assist_requests
		SET feedback = COALESCE($2, feedback), rating = COALESCE($3, rating), updated_at = $4
		WHERE id = $1 AND assist_status = $5 AND feedback IS NULL AND rating IS NULL
		RETURNING `+assistColumns,
		id, feedback, rating, at, models.AssistCompleted))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, d.guardFailed(ctx, "failed to set feedback", "assist_requests", id)
	}
	if err != nil {
		return nil, mapErr("failed to set feedback", err)
	}
	return req, nil
}
