package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/userdesk/userdesk/internal/platform/db"
)

var (
	// ErrNotFound indicates the requested user row does not exist.
	ErrNotFound = errors.New("user not found")
	// ErrDuplicateEmail indicates a unique-constraint rejection on email.
	ErrDuplicateEmail = errors.New("email already in use")
)

// UpdateFields carries the columns an update may touch. A nil field is left
// untouched by the generated statement.
type UpdateFields struct {
	Name  *string
	Email *string
}

// IsEmpty reports whether no column would be touched.
func (f UpdateFields) IsEmpty() bool {
	return f.Name == nil && f.Email == nil
}

// Repository defines persistence operations for user rows.
type Repository interface {
	List(ctx context.Context) ([]Profile, error)
	Get(ctx context.Context, id int64) (*Profile, error)
	SearchByName(ctx context.Context, name string) ([]Profile, error)
	Create(ctx context.Context, name, email, passwordHash string) (int64, error)
	Update(ctx context.Context, id int64, fields UpdateFields) (bool, error)
	Delete(ctx context.Context, id int64) error
	FindByEmail(ctx context.Context, email string) (*User, error)
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// List returns all users projected to id, name and email, in id order.
func (r *PGRepository) List(ctx context.Context) ([]Profile, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, email FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("users: list: %w", err)
	}
	return scanProfiles(rows)
}

// Get fetches one user projection by id.
func (r *PGRepository) Get(ctx context.Context, id int64) (*Profile, error) {
	var p Profile
	err := r.pool.QueryRow(ctx, `SELECT id, name, email FROM users WHERE id = $1`, id).
		Scan(&p.ID, &p.Name, &p.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("users: get: %w", err)
	}
	return &p, nil
}

// SearchByName returns users whose name contains the given substring,
// case-insensitively. Zero matches is not an error.
func (r *PGRepository) SearchByName(ctx context.Context, name string) ([]Profile, error) {
	pattern := "%" + name + "%"
	rows, err := r.pool.Query(ctx, `SELECT id, name, email FROM users WHERE name ILIKE $1 ORDER BY id`, pattern)
	if err != nil {
		return nil, fmt.Errorf("users: search: %w", err)
	}
	return scanProfiles(rows)
}

// Create inserts a new row and returns the assigned id. A duplicate email
// surfaces as ErrDuplicateEmail.
func (r *PGRepository) Create(ctx context.Context, name, email, passwordHash string) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx,
		`INSERT INTO users (name, email, password_hash) VALUES ($1, $2, $3) RETURNING id`,
		name, email, passwordHash,
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, ErrDuplicateEmail
		}
		return 0, fmt.Errorf("users: create: %w", err)
	}
	return id, nil
}

// Update applies the supplied fields to one row inside a transaction. The
// existence check only produces a clean not-found result; a concurrent
// duplicate email still fails at the unique constraint. Returns whether any
// row changed.
func (r *PGRepository) Update(ctx context.Context, id int64, fields UpdateFields) (bool, error) {
	query, args := buildUpdate(id, fields)
	if query == "" {
		return false, nil
	}
	var changed bool
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, id).Scan(&exists); err != nil {
			return fmt.Errorf("users: check exists: %w", err)
		}
		if !exists {
			return ErrNotFound
		}
		tag, err := tx.Exec(ctx, query, args...)
		if err != nil {
			return err
		}
		changed = tag.RowsAffected() > 0
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, ErrNotFound
		}
		if isUniqueViolation(err) {
			return false, ErrDuplicateEmail
		}
		return false, fmt.Errorf("users: update: %w", err)
	}
	return changed, nil
}

// Delete removes one row by id.
func (r *PGRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("users: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// FindByEmail fetches a full user row by exact email, including the password
// hash, for credential verification.
func (r *PGRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, email, password_hash FROM users WHERE email = $1`, email,
	).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("users: find by email: %w", err)
	}
	return &u, nil
}

// buildUpdate renders a parameterized UPDATE for the supplied fields. Column
// names come from the fixed set below, never from request input. Returns an
// empty query when no field is set.
func buildUpdate(id int64, fields UpdateFields) (string, []any) {
	var set []string
	var args []any
	if fields.Name != nil {
		args = append(args, *fields.Name)
		set = append(set, fmt.Sprintf("name = $%d", len(args)))
	}
	if fields.Email != nil {
		args = append(args, *fields.Email)
		set = append(set, fmt.Sprintf("email = $%d", len(args)))
	}
	if len(set) == 0 {
		return "", nil
	}
	args = append(args, id)
	query := fmt.Sprintf("UPDATE users SET %s WHERE id = $%d", strings.Join(set, ", "), len(args))
	return query, args
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// scanProfiles drains rows into a non-nil slice so empty result sets encode
// as [] rather than null.
func scanProfiles(rows pgx.Rows) ([]Profile, error) {
	defer rows.Close()
	profiles := []Profile{}
	for rows.Next() {
		var p Profile
		if err := rows.Scan(&p.ID, &p.Name, &p.Email); err != nil {
			return nil, fmt.Errorf("users: scan row: %w", err)
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("users: rows: %w", err)
	}
	return profiles, nil
}

var _ Repository = (*PGRepository)(nil)
