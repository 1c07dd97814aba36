package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/identigo/backend/domain"
	"github.com/identigo/backend/repository"
)

// Postgres error code for unique constraint violations, and the index named
// in the users migration. The token index is also unique, so the constraint
// name decides which collision happened.
const (
	uniqueViolation = "23505"
	emailConstraint = "idx_users_email"
)

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository instantiates a Postgres-backed user repository.
func NewUserRepository(pool *pgxpool.Pool) repository.UserRepository {
	return &userRepository{pool: pool}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	if user == nil {
		return domain.ErrInvalidPayload
	}

	const query = `
	INSERT INTO users (id, username, email, password_hash, inactive, activation_token)
	VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''))
	RETURNING created_at, updated_at
	`

	err := r.pool.QueryRow(ctx, query,
		user.ID,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.Inactive,
		user.ActivationToken,
	).Scan(&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if isEmailViolation(err) {
			return domain.ErrEmailInUse
		}
		return err
	}
	return nil
}

// isEmailViolation reports whether err is a unique violation on the email
// index. An activation-token collision carries the same SQLSTATE but must
// not masquerade as a duplicate email.
func isEmailViolation(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolation {
		return false
	}
	return pgErr.ConstraintName == "" || pgErr.ConstraintName == emailConstraint
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.getBy(ctx, `WHERE id = $1`, id)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getBy(ctx, `WHERE email = $1`, email)
}

func (r *userRepository) GetByActivationToken(ctx context.Context, token string) (*domain.User, error) {
	return r.getBy(ctx, `WHERE activation_token = $1`, token)
}

func (r *userRepository) getBy(ctx context.Context, where, arg string) (*domain.User, error) {
	query := `
	SELECT id, username, email, password_hash, inactive, activation_token, created_at, updated_at
	FROM users ` + where

	row := r.pool.QueryRow(ctx, query, arg)

	var user domain.User
	var token *string
	if err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.Inactive,
		&token,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	if token != nil {
		user.ActivationToken = *token
	}
	return &user, nil
}

func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	if user == nil {
		return domain.ErrInvalidPayload
	}

	const query = `
	UPDATE users
	SET username = $2,
		inactive = $3,
		activation_token = NULLIF($4, ''),
		updated_at = NOW()
	WHERE id = $1
	RETURNING updated_at
	`

	err := r.pool.QueryRow(ctx, query,
		user.ID,
		user.Username,
		user.Inactive,
		user.ActivationToken,
	).Scan(&user.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrUserNotFound
	}
	return err
}

func (r *userRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *userRepository) List(ctx context.Context, filter repository.ListFilter) ([]domain.User, int, error) {
	const query = `
	SELECT id, username, email, password_hash, inactive, activation_token, created_at, updated_at
	FROM users
	WHERE inactive = FALSE
	  AND ($1 = '' OR id <> $1)
	ORDER BY created_at, id
	LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, query, filter.ExcludeID, filter.Size, filter.Page*filter.Size)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []domain.User
	for rows.Next() {
		var user domain.User
		var token *string
		if err := rows.Scan(
			&user.ID,
			&user.Username,
			&user.Email,
			&user.PasswordHash,
			&user.Inactive,
			&token,
			&user.CreatedAt,
			&user.UpdatedAt,
		); err != nil {
			return nil, 0, err
		}
		if token != nil {
			user.ActivationToken = *token
		}
		items = append(items, user)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	const countQuery = `
	SELECT COUNT(*) FROM users
	WHERE inactive = FALSE
	  AND ($1 = '' OR id <> $1)
	`

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, filter.ExcludeID).Scan(&total); err != nil {
		return nil, 0, err
	}

	return items, total, nil
}
