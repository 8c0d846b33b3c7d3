package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/shop-reservation/internal/model"
	"github.com/iliyamo/shop-reservation/internal/utils"
)

const userColumns = "id, user_name, email, password_hash, role, is_active, created_at, updated_at"

type UserRepo struct{ db *sqlx.DB }

func NewUserRepo(db *sqlx.DB) *UserRepo { return &UserRepo{db: db} }

// Create hashes password and inserts a user with the given role. Emails are
// stored lower-cased. A collision on email or user name is reported as
// ErrEmailExists or ErrUserNameExists.
func (r *UserRepo) Create(ctx context.Context, userName, email, password, role string, cost int) (*model.User, error) {
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return nil, err
	}
	u := &model.User{
		ID:           uuid.NewString(),
		UserName:     strings.TrimSpace(userName),
		Email:        normalizeEmail(email),
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
	}
	const q = `INSERT INTO users (id, user_name, email, password_hash, role, is_active)
		VALUES (:id, :user_name, :email, :password_hash, :role, :is_active)`
	if _, err := r.db.NamedExecContext(ctx, q, u); err != nil {
		return nil, translateUserDup(err)
	}
	return r.GetByID(ctx, u.ID)
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.getOne(ctx, "SELECT "+userColumns+" FROM users WHERE email = ? LIMIT 1", normalizeEmail(email))
}

// GetByLogin resolves the identifier typed on the login form, which is
// either an email address or a user name.
func (r *UserRepo) GetByLogin(ctx context.Context, identifier string) (*model.User, error) {
	identifier = strings.TrimSpace(identifier)
	if strings.Contains(identifier, "@") {
		return r.GetByEmail(ctx, identifier)
	}
	return r.getOne(ctx, "SELECT "+userColumns+" FROM users WHERE user_name = ? LIMIT 1", identifier)
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	return r.getOne(ctx, "SELECT "+userColumns+" FROM users WHERE id = ? LIMIT 1", id)
}

// UpdateProfile changes the user name and email of id.
func (r *UserRepo) UpdateProfile(ctx context.Context, id, userName, email string) (*model.User, error) {
	_, err := r.db.ExecContext(ctx,
		"UPDATE users SET user_name = ?, email = ? WHERE id = ?",
		strings.TrimSpace(userName), normalizeEmail(email), id)
	if err != nil {
		return nil, translateUserDup(err)
	}
	// MySQL reports 0 affected rows for an unchanged row, so existence is
	// decided by the re-read.
	return r.GetByID(ctx, id)
}

func (r *UserRepo) getOne(ctx context.Context, q string, args ...any) (*model.User, error) {
	var u model.User
	if err := r.db.GetContext(ctx, &u, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func translateUserDup(err error) error {
	switch {
	case duplicateKeyIs(err, "uq_users_email"):
		return ErrEmailExists
	case duplicateKeyIs(err, "uq_users_user_name"):
		return ErrUserNameExists
	}
	return err
}

func normalizeEmail(email string) string { return strings.ToLower(strings.TrimSpace(email)) }
