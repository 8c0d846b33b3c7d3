package model

import "time"

// Role names stored in users.role. They are also the values carried
// in the "role" claim of access tokens.
const (
	RoleUser        = "USER"
	RoleShopAdmin   = "SHOP_ADMIN"
	RoleSystemAdmin = "SYSTEM_ADMIN"
)

// User represents an application user record as stored in the
// `users` table. The db tags drive sqlx scanning; handlers build
// their own response maps so the password hash never leaves the
// repository layer.
//
// Fields:
//
//	ID: UUID primary key.
//	UserName: unique display/login name.
//	Email: unique, lower-cased email address.
//	PasswordHash: bcrypt hashed password.
//	Role: USER, SHOP_ADMIN or SYSTEM_ADMIN.
//	IsActive: whether the account may log in.
type User struct {
	ID           string    `db:"id"`
	UserName     string    `db:"user_name"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	Role         string    `db:"role"`
	IsActive     bool      `db:"is_active"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// RefreshToken models an entry in the `refresh_tokens` table. The
// plain token is never stored; only its SHA-256 hex digest.
type RefreshToken struct {
	ID        uint64     `db:"id"`
	UserID    string     `db:"user_id"`
	TokenHash string     `db:"token_hash"`
	ExpiresAt time.Time  `db:"expires_at"`
	RevokedAt *time.Time `db:"revoked_at"`
	CreatedAt time.Time  `db:"created_at"`
}
