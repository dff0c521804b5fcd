package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

type Repository interface {
	Create(ctx context.Context, u *User) (int64, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	UsernameOrEmailTaken(ctx context.Context, username, email string) (bool, error)
}

type sqliteRepository struct {
	db sqlx.ExtContext
}

func NewRepository(db sqlx.ExtContext) Repository {
	return &sqliteRepository{db: db}
}

func (r *sqliteRepository) Create(ctx context.Context, u *User) (int64, error) {
	createdAt := time.Now().UTC().Truncate(time.Second)
	query := `INSERT INTO users (username, email, password, role, created_at) VALUES (?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query, u.Username, u.Email, u.Password, string(u.Role), createdAt)
	if err != nil {
		return 0, fmt.Errorf("repository: failed to insert user: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("repository: failed to read inserted user id: %w", err)
	}
	u.ID = id
	u.CreatedAt = createdAt
	return id, nil
}

func (r *sqliteRepository) GetByUsername(ctx context.Context, username string) (*User, error) {
	var u User
	query := `SELECT id, username, email, password, role, created_at FROM users WHERE username = ? LIMIT 1`
	err := sqlx.GetContext(ctx, r.db, &u, query, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("repository: failed to select user by username %s: %w", username, err)
	}
	return &u, nil
}

func (r *sqliteRepository) GetByID(ctx context.Context, id int64) (*User, error) {
	var u User
	query := `SELECT id, username, email, password, role, created_at FROM users WHERE id = ?`
	err := sqlx.GetContext(ctx, r.db, &u, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("repository: failed to select user by id %d: %w", id, err)
	}
	return &u, nil
}

func (r *sqliteRepository) UsernameOrEmailTaken(ctx context.Context, username, email string) (bool, error) {
	var count int
	query := `SELECT COUNT(*) FROM users WHERE username = ? OR email = ?`
	err := sqlx.GetContext(ctx, r.db, &count, query, username, email)
	if err != nil {
		return false, fmt.Errorf("repository: failed to check username/email uniqueness: %w", err)
	}
	return count > 0, nil
}
