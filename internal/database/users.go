package database

import (
	"context"
	"fmt"

	"agency-desk-backend/internal/models"
	"github.com/google/uuid"
)

const userColumns = `id, name, email, password_hash, google_id, role, phone, occupation, how_heard, created_at`

func scanUser(s rowScanner) (*models.User, error) {
	var u models.User
	if err := s.Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.GoogleID, &u.Role,
		&u.Phone, &u.Occupation, &u.HowHeard, &u.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &u, nil
}

func (d *DatabaseClient) CreateUser(ctx context.Context, user *models.User) error {
	_, err := d.db.ExecContext(ctx, `
		INSERT INTO users (`+userColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, user.ID, user.Name, user.Email, user.PasswordHash, user.GoogleID, user.Role,
		user.Phone, user.Occupation, user.HowHeard, user.CreatedAt)
	return mapErr("failed to create user", err)
}

func (d *DatabaseClient) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := scanUser(d.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		return nil, mapErr("failed to get user", err)
	}
	return user, nil
}

func (d *DatabaseClient) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := scanUser(d.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`, email))
	if err != nil {
		return nil, mapErr("failed to get user by email", err)
	}
	return user, nil
}

func (d *DatabaseClient) ListUsersByRole(ctx context.Context, role models.Role) ([]models.User, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE role = $1
		ORDER BY created_at DESC
	`, role)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, *user)
	}
	return users, rows.Err()
}

func (d *DatabaseClient) CountUsersByRole(ctx context.Context, role models.Role) (int, error) {
	var count int
	if err := d.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE role = $1`, role).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}
