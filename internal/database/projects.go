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

const projectColumns = `id, client_id, client_name, project_title, project_description, project_status,
	project_source, price, payment_status, payment_transaction_id, developers, snapshots,
	created_at, updated_at`

func scanProject(s rowScanner) (*models.Project, error) {
	var p models.Project
	var developers pq.StringArray
	var snapshots pq.StringArray
	if err := s.Scan(
		&p.ID, &p.ClientID, &p.ClientName, &p.ProjectTitle, &p.ProjectDescription, &p.ProjectStatus,
		&p.ProjectSource, &p.Price, &p.PaymentStatus, &p.PaymentTransactionID, &developers, &snapshots,
		&p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	devs, err := parseUUIDs(developers)
	if err != nil {
		return nil, err
	}
	p.Developers = devs
	p.Snapshots = []string(snapshots)
	if p.Snapshots == nil {
		p.Snapshots = []string{}
	}
	return &p, nil
}

func insertProject(ctx context.Context, q querier, p *models.Project) error {
	snapshots := p.Snapshots
	if snapshots == nil {
		snapshots = []string{}
	}
	_, err := q.ExecContext(ctx, `
		INSERT INTO projects (`+projectColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`, p.ID, p.ClientID, p.ClientName, p.ProjectTitle, p.ProjectDescription, p.ProjectStatus,
		p.ProjectSource, p.Price, p.PaymentStatus, p.PaymentTransactionID,
		uuidStrings(p.Developers), pq.StringArray(snapshots), p.CreatedAt, p.UpdatedAt)
	return mapErr("failed to create project", err)
}

func (d *DatabaseClient) GetProject(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	project, err := scanProject(d.db.QueryRowContext(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE id = $1`, id))
	if err != nil {
		return nil, mapErr("failed to get project", err)
	}
	return project, nil
}

func (d *DatabaseClient) ListProjects(ctx context.Context) ([]models.Project, error) {
	return d.listProjects(ctx, `
		SELECT `+projectColumns+`
		FROM projects
		ORDER BY created_at DESC
	`)
}

func (d *DatabaseClient) ListProjectsByDeveloper(ctx context.Context, developerID uuid.UUID) ([]models.Project, error) {
	return d.listProjects(ctx, `
		SELECT `+projectColumns+`
		FROM projects
		WHERE $1 = ANY(developers)
		ORDER BY created_at DESC
	`, developerID)
}

func (d *DatabaseClient) listProjects(ctx context.Context, query string, args ...any) ([]models.Project, error) {
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	projects := []models.Project{}
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, *project)
	}
	return projects, rows.Err()
}

func (d *DatabaseClient) UpdateProject(ctx context.Context, id uuid.UUID, update store.ProjectUpdate, at time.Time) (*models.Project, error) {
	project, err := scanProject(d.db.QueryRowContext(ctx, `
		UPDATE projects
		SET project_status = COALESCE($2, project_status),
			project_source = COALESCE($3, project_source),
			payment_status = COALESCE($4, payment_status),
			payment_transaction_id = COALESCE($5, payment_transaction_id),
			updated_at = $6
		WHERE id = $1
		RETURNING `+projectColumns,
		id, update.ProjectStatus, update.ProjectSource, update.PaymentStatus,
		update.PaymentTransactionID, at))
	if err != nil {
		return nil, mapErr("failed to update project", err)
	}
	return project, nil
}

func (d *DatabaseClient) ReplaceAssignments(ctx context.Context, projectID uuid.UUID, assignments []models.Assignment, at time.Time) (*models.Project, error) {
	developers := make([]uuid.UUID, len(assignments))
	for i, a := range assignments {
		developers[i] = a.DeveloperID
	}

	err := d.withTx(ctx, func(tx *sql.Tx) error {
		var locked uuid.UUID
		err := tx.QueryRowContext(ctx,
			`SELECT id FROM projects WHERE id = $1 FOR UPDATE`, projectID).Scan(&locked)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("failed to lock project: %w", store.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("failed to lock project: %w", err)
		}

		if _, err := tx.ExecContext(ctx,
			`DELETE FROM assignments WHERE project_id = $1`, projectID); err != nil {
			return fmt.Errorf("failed to clear assignments: %w", err)
		}
		for i := range assignments {
			if err := insertAssignment(ctx, tx, &assignments[i]); err != nil {
				return err
			}
		}
		if _, err := tx.ExecContext(ctx, `
			UPDATE projects SET developers = $2, updated_at = $3 WHERE id = $1
		`, projectID, uuidStrings(developers), at); err != nil {
			return fmt.Errorf("failed to update project developers: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return d.GetProject(ctx, projectID)
}

func (d *DatabaseClient) AppendSnapshots(ctx context.Context, projectID uuid.UUID, urls []string, at time.Time) (*models.Project, error) {
	project, err := scanProject(d.db.QueryRowContext(ctx, `
		UPDATE projects
		SET snapshots = snapshots || $2::text[], updated_at = $3
		WHERE id = $1
		RETURNING `+projectColumns,
		projectID, pq.StringArray(urls), at))
	if err != nil {
		return nil, mapErr("failed to append snapshots", err)
	}
	return project, nil
}

func (d *DatabaseClient) CountProjects(ctx context.Context) (int, error) {
	var count int
	if err := d.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM projects`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count projects: %w", err)
	}
	return count, nil
}

func (d *DatabaseClient) CountUnpaidProjects(ctx context.Context) (int, error) {
	var count int
	if err := d.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM projects WHERE NOT payment_status`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count unpaid projects: %w", err)
	}
	return count, nil
}
