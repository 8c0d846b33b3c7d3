// Package repository contains the MySQL data access layer. Sentinel errors
// defined here let handlers tell failure scenarios apart without looking
// at driver errors.
package repository

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
)

// ErrConflict is returned when a write would violate a one-per-owner rule,
// such as a shop admin registering a second shop. Handlers translate it
// into HTTP 409.
var ErrConflict = errors.New("conflict")

// ErrShopNotFound is returned when a shop lookup matches no row.
var ErrShopNotFound = errors.New("shop not found")

// ErrUserNotFound is returned when a user lookup matches no row.
var ErrUserNotFound = errors.New("user not found")

// ErrEmailExists and ErrUserNameExists report a collision on the users
// table's unique keys.
var (
	ErrEmailExists    = errors.New("email already exists")
	ErrUserNameExists = errors.New("user name already exists")
)

// mysqlDuplicateEntry is ER_DUP_ENTRY.
const mysqlDuplicateEntry = 1062

// isDuplicateKey reports whether err is a MySQL duplicate-key error.
func isDuplicateKey(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == mysqlDuplicateEntry
}

// duplicateKeyIs reports whether err is a duplicate-key error on the named
// index. MySQL names the key in the message, e.g. "for key 'users.uq_users_email'".
func duplicateKeyIs(err error, key string) bool {
	var me *mysql.MySQLError
	if !errors.As(err, &me) || me.Number != mysqlDuplicateEntry {
		return false
	}
	return strings.Contains(me.Message, key)
}

// likePattern escapes LIKE wildcards in s and wraps it for a partial match.
func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.ToLower(s)) + "%"
}
