package sqlite

import (
	"context"
	"database/sql"
)

// DBTX is the part of *sql.DB the queries need.
type DBTX interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
	QueryRowContext(context.Context, string, ...any) *sql.Row
}

// queries holds the hand-written SQL for the users table, one method per
// statement.
type queries struct {
	db DBTX
}

// userRow mirrors the users table column for column.
type userRow struct {
	ID                    string
	Username              string
	Email                 string
	FullName              string
	PasswordHash          string
	Avatar                string
	CoverImage            string
	RefreshToken          sql.NullString
	RefreshTokenExpiresAt sql.NullInt64
	CreatedAt             int64
	UpdatedAt             int64
}

const userColumns = `id, username, email, full_name, password_hash, avatar, cover_image,
	refresh_token, refresh_token_expires_at, created_at, updated_at`

func scanUser(row *sql.Row) (userRow, error) {
	var u userRow
	err := row.Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.FullName,
		&u.PasswordHash,
		&u.Avatar,
		&u.CoverImage,
		&u.RefreshToken,
		&u.RefreshTokenExpiresAt,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	return u, err
}

const getUserByID = `SELECT ` + userColumns + ` FROM users WHERE id = ?`

func (q *queries) GetUserByID(ctx context.Context, id string) (userRow, error) {
	return scanUser(q.db.QueryRowContext(ctx, getUserByID, id))
}

// The empty-string guards stop a blank identifier from matching anything.
const findUserByUsernameOrEmail = `SELECT ` + userColumns + ` FROM users
WHERE (? <> '' AND username = ?) OR (? <> '' AND email = ?)
ORDER BY created_at ASC
LIMIT 1`

func (q *queries) FindUserByUsernameOrEmail(ctx context.Context, username, email string) (userRow, error) {
	return scanUser(q.db.QueryRowContext(ctx, findUserByUsernameOrEmail, username, username, email, email))
}

const createUser = `INSERT INTO users (` + userColumns + `)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

func (q *queries) CreateUser(ctx context.Context, u userRow) error {
	_, err := q.db.ExecContext(ctx, createUser,
		u.ID,
		u.Username,
		u.Email,
		u.FullName,
		u.PasswordHash,
		u.Avatar,
		u.CoverImage,
		u.RefreshToken,
		u.RefreshTokenExpiresAt,
		u.CreatedAt,
		u.UpdatedAt,
	)
	return err
}

const setRefreshToken = `UPDATE users
SET refresh_token = ?, refresh_token_expires_at = ?, updated_at = ?
WHERE id = ?`

func (q *queries) SetRefreshToken(
	ctx context.Context,
	id string,
	token sql.NullString,
	expiresAt sql.NullInt64,
	now int64,
) (int64, error) {
	res, err := q.db.ExecContext(ctx, setRefreshToken, token, expiresAt, now, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const swapRefreshToken = `UPDATE users
SET refresh_token = ?, refresh_token_expires_at = ?, updated_at = ?
WHERE id = ? AND refresh_token = ?`

func (q *queries) SwapRefreshToken(
	ctx context.Context,
	id, oldToken, newToken string,
	expiresAt, now int64,
) (int64, error) {
	res, err := q.db.ExecContext(ctx, swapRefreshToken, newToken, expiresAt, now, id, oldToken)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const userExists = `SELECT EXISTS (SELECT 1 FROM users WHERE id = ?)`

func (q *queries) UserExists(ctx context.Context, id string) (bool, error) {
	var ok bool
	err := q.db.QueryRowContext(ctx, userExists, id).Scan(&ok)
	return ok, err
}

const clearExpiredRefreshTokens = `UPDATE users
SET refresh_token = NULL, refresh_token_expires_at = NULL, updated_at = ?
WHERE refresh_token IS NOT NULL AND refresh_token_expires_at <= ?`

func (q *queries) ClearExpiredRefreshTokens(ctx context.Context, cutoff, now int64) (int64, error) {
	res, err := q.db.ExecContext(ctx, clearExpiredRefreshTokens, now, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
