package db

import (
	"context"

	"github.com/sehatguru/backend/internal/model"
)

const profileColumns = `uid, email, full_name, password_hash, auth_provider, photo_url, google_uid,
		email_verified, password_changed_at, last_login, created_at, updated_at`

func (db *Postgres) CreateProfile(ctx context.Context, p *model.Profile) (*model.Profile, error) {
	query := `
		INSERT INTO user_profiles (uid, email, full_name, password_hash, auth_provider, photo_url,
			google_uid, email_verified, password_changed_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW(), NOW())
		RETURNING ` + profileColumns
	return db.scanProfile(ctx, query,
		p.UID, p.Email, p.FullName, p.PasswordHash, p.AuthProvider, p.PhotoURL, p.GoogleUID, p.EmailVerified)
}

func (db *Postgres) GetProfileByEmail(ctx context.Context, email string) (*model.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM user_profiles WHERE email = $1`
	return db.scanProfile(ctx, query, email)
}

func (db *Postgres) GetProfileByUID(ctx context.Context, uid string) (*model.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM user_profiles WHERE uid = $1`
	return db.scanProfile(ctx, query, uid)
}

func (db *Postgres) UpdateLastLogin(ctx context.Context, uid string) error {
	query := `
		UPDATE user_profiles
		SET last_login = NOW(), updated_at = NOW()
		WHERE uid = $1
	`
	_, err := db.Pool.Exec(ctx, query, uid)
	return err
}

// UpdateProfilePassword stores the new verification hash and moves
// password_changed_at forward, which expires every previously issued token.
func (db *Postgres) UpdateProfilePassword(ctx context.Context, uid, passwordHash string) error {
	query := `
		UPDATE user_profiles
		SET password_hash = $2, password_changed_at = NOW(), updated_at = NOW()
		WHERE uid = $1
	`
	_, err := db.Pool.Exec(ctx, query, uid, passwordHash)
	return err
}

func (db *Postgres) SyncProfileEmailVerified(ctx context.Context, uid string, verified bool) error {
	query := `
		UPDATE user_profiles
		SET email_verified = $2, updated_at = NOW()
		WHERE uid = $1
	`
	_, err := db.Pool.Exec(ctx, query, uid, verified)
	return err
}

func (db *Postgres) DeleteProfile(ctx context.Context, uid string) error {
	_, err := db.Pool.Exec(ctx, `DELETE FROM user_profiles WHERE uid = $1`, uid)
	return err
}

func (db *Postgres) scanProfile(ctx context.Context, query string, args ...any) (*model.Profile, error) {
	var p model.Profile
	err := db.Pool.QueryRow(ctx, query, args...).Scan(
		&p.UID,
		&p.Email,
		&p.FullName,
		&p.PasswordHash,
		&p.AuthProvider,
		&p.PhotoURL,
		&p.GoogleUID,
		&p.EmailVerified,
		&p.PasswordChangedAt,
		&p.LastLogin,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
