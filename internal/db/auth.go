package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/storeapi/backend/internal/model"
)

const userColumns = `id, username, email, password_hash, confirmed, created_at, updated_at`

// scanUser is the single place a users row becomes a model.User.
func scanUser(row interface{ Scan(...any) error }) (*model.User, error) {
	var user model.User
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.Confirmed,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if IsNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (db *Postgres) CreateUser(ctx context.Context, username, email, passwordHash string) (*model.User, error) {
	query := `
		INSERT INTO users (username, email, password_hash, confirmed, created_at, updated_at)
		VALUES ($1, $2, $3, FALSE, NOW(), NOW())
		RETURNING ` + userColumns

	user, err := scanUser(db.DB.QueryRowContext(ctx, query, username, email, passwordHash))
	if err != nil {
		if pgErr, ok := pgError(err); ok && pgErr.Code == codeUniqueViolation {
			if pgErr.ConstraintName == "users_username_key" {
				return nil, ErrDuplicateUsername
			}
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

func (db *Postgres) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	user, err := scanUser(db.DB.QueryRowContext(ctx, query, email))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return user, nil
}

// ConfirmUser marks the user confirmed. Confirming twice is not an error.
func (db *Postgres) ConfirmUser(ctx context.Context, email string) error {
	query := `
		UPDATE users
		SET confirmed = TRUE, updated_at = NOW()
		WHERE email = $1
	`
	res, err := db.DB.ExecContext(ctx, query, email)
	if err != nil {
		return fmt.Errorf("failed to confirm user: %w", err)
	}
	return requireAffected(res)
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
