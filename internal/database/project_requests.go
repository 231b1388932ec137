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

const projectRequestColumns = `id, client_id, client_name, client_email, client_phone, project_title,
	project_description, request_status, project_status_url, price, developers, registered_id,
	created_at, updated_at`

func scanProjectRequest(s rowScanner) (*models.ProjectRequest, error) {
	var r models.ProjectRequest
	var developers pq.StringArray
	if err := s.Scan(
		&r.ID, &r.ClientID, &r.ClientName, &r.ClientEmail, &r.ClientPhone, &r.ProjectTitle,
		&r.ProjectDescription, &r.RequestStatus, &r.ProjectStatusURL, &r.Price, &developers,
		&r.RegisteredID, &r.CreatedAt, &r.UpdatedAt,
	); err != nil {
		return nil, err
	}
	devs, err := parseUUIDs(developers)
	if err != nil {
		return nil, err
	}
	r.Developers = devs
	return &r, nil
}

func (d *DatabaseClient) CreateProjectRequest(ctx context.Context, req *models.ProjectRequest) error {
	_, err := d.db.ExecContext(ctx, `
		INSERT INTO project_requests (id, client_id, client_name, client_email, client_phone,
			project_title, project_description, request_status, project_status_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, req.ID, req.ClientID, req.ClientName, req.ClientEmail, req.ClientPhone,
		req.ProjectTitle, req.ProjectDescription, req.RequestStatus, req.ProjectStatusURL,
		req.CreatedAt, req.UpdatedAt)
	return mapErr("failed to create project request", err)
}

func (d *DatabaseClient) GetProjectRequest(ctx context.Context, id uuid.UUID) (*models.ProjectRequest, error) {
	req, err := scanProjectRequest(d.db.QueryRowContext(ctx,
		`SELECT `+projectRequestColumns+` FROM project_requests WHERE id = $1`, id))
	if err != nil {
		return nil, mapErr("failed to get project request", err)
	}
	return req, nil
}

func (d *DatabaseClient) GetProjectRequestByStatusURL(ctx context.Context, token string) (*models.ProjectRequest, error) {
	req, err := scanProjectRequest(d.db.QueryRowContext(ctx,
		`SELECT `+projectRequestColumns+` FROM project_requests WHERE project_status_url = $1`, token))
	if err != nil {
		return nil, mapErr("failed to get project request", err)
	}
	return req, nil
}

func (d *DatabaseClient) ListProjectRequests(ctx context.Context) ([]models.ProjectRequest, error) {
	return d.listProjectRequests(ctx, `
		SELECT `+projectRequestColumns+`
		FROM project_requests
		ORDER BY created_at DESC
	`)
}

func (d *DatabaseClient) ListProjectRequestsByClient(ctx context.Context, clientID uuid.UUID) ([]models.ProjectRequest, error) {
	return d.listProjectRequests(ctx, `
		SELECT `+projectRequestColumns+`
		FROM project_requests
		WHERE client_id = $1
		ORDER BY created_at DESC
	`, clientID)
}

func (d *DatabaseClient) listProjectRequests(ctx context.Context, query string, args ...any) ([]models.ProjectRequest, error) {
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list project requests: %w", err)
	}
	defer rows.Close()

	requests := []models.ProjectRequest{}
	for rows.Next() {
		req, err := scanProjectRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project request: %w", err)
		}
		requests = append(requests, *req)
	}
	return requests, rows.Err()
}

func (d *DatabaseClient) ApproveProjectRequest(ctx context.Context, params store.ApproveParams) (*models.ProjectRequest, error) {
	err := d.withTx(ctx, func(tx *sql.Tx) error {
		if err := lockPendingRequest(ctx, tx, params.RequestID); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `
			UPDATE project_requests
			SET request_status = $2, price = $3, developers = $4, registered_id = $5, updated_at = $6
			WHERE id = $1
		`, params.RequestID, models.RequestApproved, params.Price, uuidStrings(params.Developers),
			params.Project.ID, params.ApprovedAt); err != nil {
			return fmt.Errorf("failed to mark request approved: %w", err)
		}

		if err := insertProject(ctx, tx, params.Project); err != nil {
			return err
		}
		for i := range params.Assignments {
			if err := insertAssignment(ctx, tx, &params.Assignments[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return d.GetProjectRequest(ctx, params.RequestID)
}

func (d *DatabaseClient) RejectProjectRequest(ctx context.Context, id uuid.UUID, at time.Time) (*models.ProjectRequest, error) {
	err := d.withTx(ctx, func(tx *sql.Tx) error {
		if err := lockPendingRequest(ctx, tx, id); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `
			UPDATE project_requests SET request_status = $2, updated_at = $3 WHERE id = $1
		`, id, models.RequestRejected, at); err != nil {
			return fmt.Errorf("failed to mark request rejected: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return d.GetProjectRequest(ctx, id)
}

// lockPendingRequest takes the row lock that serializes concurrent
// decisions on the same request.
func lockPendingRequest(ctx context.Context, tx *sql.Tx, id uuid.UUID) error {
	var status models.RequestStatus
	err := tx.QueryRowContext(ctx,
		`SELECT request_status FROM project_requests WHERE id = $1 FOR UPDATE`, id,
	).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("failed to lock project request: %w", store.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to lock project request: %w", err)
	}
	if status != models.RequestPending {
		return fmt.Errorf("project request is %s: %w", status, store.ErrStateChanged)
	}
	return nil
}
