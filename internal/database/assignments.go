package database

import (
	"context"
	"fmt"

	"agency-desk-backend/internal/models"
	"github.com/google/uuid"
)

func insertAssignment(ctx context.Context, q querier, a *models.Assignment) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO assignments (id, project_id, developer_id, status, assigned_at)
		VALUES ($1, $2, $3, $4, $5)
	`, a.ID, a.ProjectID, a.DeveloperID, a.Status, a.AssignedAt)
	return mapErr("failed to create assignment", err)
}

func (d *DatabaseClient) ListAssignments(ctx context.Context, projectID uuid.UUID) ([]models.Assignment, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT id, project_id, developer_id, status, assigned_at
		FROM assignments
		WHERE project_id = $1
		ORDER BY assigned_at ASC
	`, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}
	defer rows.Close()

	assignments := []models.Assignment{}
	for rows.Next() {
		var a models.Assignment
		if err := rows.Scan(&a.ID, &a.ProjectID, &a.DeveloperID, &a.Status, &a.AssignedAt); err != nil {
			return nil, fmt.Errorf("failed to scan assignment: %w", err)
		}
		assignments = append(assignments, a)
	}
	return assignments, rows.Err()
}
