package cache

import (
	"context"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// ErrBadCredentials is returned by Authenticate when the username/password
// combination does not match a stored admin account.
var ErrBadCredentials = errors.New("the supplied username/password combination is incorrect")

// AdminUser is an account permitted to manage cached grammars through the
// HTTP front end's admin endpoints.
type AdminUser struct {
	ID             uuid.UUID
	Username       string
	Password       string // base64-encoded bcrypt hash
	LastLogoutTime time.Time
	Created        time.Time
}

func (s *Store) initAuth() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS admin_users (
		id TEXT NOT NULL PRIMARY KEY,
		username TEXT NOT NULL UNIQUE,
		password TEXT NOT NULL,
		last_logout INTEGER NOT NULL,
		created INTEGER NOT NULL
	);`)
	if err != nil {
		return wrapDBError(err)
	}
	return nil
}

// CreateAdmin hashes password with bcrypt and stores a new admin account.
func (s *Store) CreateAdmin(ctx context.Context, username, password string) (AdminUser, error) {
	if username == "" {
		return AdminUser{}, fmt.Errorf("username cannot be blank")
	}
	if password == "" {
		return AdminUser{}, fmt.Errorf("password cannot be blank")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), 14)
	if err != nil {
		if err == bcrypt.ErrPasswordTooLong {
			return AdminUser{}, fmt.Errorf("password is too long: %w", err)
		}
		return AdminUser{}, fmt.Errorf("password could not be encrypted: %w", err)
	}

	id, err := uuid.NewRandom()
	if err != nil {
		return AdminUser{}, fmt.Errorf("could not generate ID: %w", err)
	}

	now := time.Now()
	encoded := base64.StdEncoding.EncodeToString(hash)
	_, err = s.db.ExecContext(ctx, `INSERT INTO admin_users (id, username, password, last_logout, created) VALUES (?, ?, ?, ?, ?)`,
		id.String(), username, encoded, int64(0), now.Unix(),
	)
	if err != nil {
		return AdminUser{}, wrapDBError(err)
	}

	return AdminUser{ID: id, Username: username, Password: encoded, Created: now}, nil
}

// GetAdminByUsername fetches an admin account by username.
func (s *Store) GetAdminByUsername(ctx context.Context, username string) (AdminUser, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, username, password, last_logout, created FROM admin_users WHERE username = ?;`, username)
	return scanAdmin(row)
}

// GetAdminByID fetches an admin account by ID.
func (s *Store) GetAdminByID(ctx context.Context, id uuid.UUID) (AdminUser, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, username, password, last_logout, created FROM admin_users WHERE id = ?;`, id.String())
	return scanAdmin(row)
}

func scanAdmin(row *sql.Row) (AdminUser, error) {
	var u AdminUser
	var idStr string
	var lastLogout, created int64
	if err := row.Scan(&idStr, &u.Username, &u.Password, &lastLogout, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return AdminUser{}, ErrNotFound
		}
		return AdminUser{}, wrapDBError(err)
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return AdminUser{}, fmt.Errorf("stored admin ID %q is invalid: %w", idStr, err)
	}
	u.ID = id
	u.LastLogoutTime = time.Unix(lastLogout, 0)
	u.Created = time.Unix(created, 0)
	return u, nil
}

// Authenticate verifies username/password against the stored bcrypt hash.
func (s *Store) Authenticate(ctx context.Context, username, password string) (AdminUser, error) {
	u, err := s.GetAdminByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return AdminUser{}, ErrBadCredentials
		}
		return AdminUser{}, err
	}

	hash, err := base64.StdEncoding.DecodeString(u.Password)
	if err != nil {
		return AdminUser{}, err
	}
	if err := bcrypt.CompareHashAndPassword(hash, []byte(password)); err != nil {
		if err == bcrypt.ErrMismatchedHashAndPassword {
			return AdminUser{}, ErrBadCredentials
		}
		return AdminUser{}, err
	}
	return u, nil
}

// Logout invalidates any previously issued tokens by advancing the stored
// last-logout time, which is mixed into every JWT signing key.
func (s *Store) Logout(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `UPDATE admin_users SET last_logout = ? WHERE id = ?;`, time.Now().Unix(), id.String())
	if err != nil {
		return wrapDBError(err)
	}
	return nil
}
