package db

import (
	"context"

	"github.com/sehatguru/backend/internal/model"
)

func (db *Postgres) CreateCredential(ctx context.Context, uid, email, passwordHash string, emailVerified bool) (*model.Credential, error) {
	query := `
		INSERT INTO credentials (uid, email, password_hash, email_verified, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING uid, email, password_hash, email_verified, created_at, updated_at
	`
	var cred model.Credential
	err := db.Pool.QueryRow(ctx, query, uid, email, passwordHash, emailVerified).Scan(
		&cred.UID,
		&cred.Email,
		&cred.PasswordHash,
		&cred.EmailVerified,
		&cred.CreatedAt,
		&cred.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &cred, nil
}

func (db *Postgres) GetCredentialByEmail(ctx context.Context, email string) (*model.Credential, error) {
	query := `
		SELECT uid, email, password_hash, email_verified, created_at, updated_at
		FROM credentials
		WHERE email = $1
	`
	return db.scanCredential(ctx, query, email)
}

func (db *Postgres) GetCredentialByUID(ctx context.Context, uid string) (*model.Credential, error) {
	query := `
		SELECT uid, email, password_hash, email_verified, created_at, updated_at
		FROM credentials
		WHERE uid = $1
	`
	return db.scanCredential(ctx, query, uid)
}

func (db *Postgres) UpdateCredentialPassword(ctx context.Context, uid, passwordHash string) error {
	query := `
		UPDATE credentials
		SET password_hash = $2, updated_at = NOW()
		WHERE uid = $1
	`
	_, err := db.Pool.Exec(ctx, query, uid, passwordHash)
	return err
}

func (db *Postgres) SetEmailVerified(ctx context.Context, uid string, verified bool) error {
	query := `
		UPDATE credentials
		SET email_verified = $2, updated_at = NOW()
		WHERE uid = $1
	`
	_, err := db.Pool.Exec(ctx, query, uid, verified)
	return err
}

func (db *Postgres) DeleteCredential(ctx context.Context, uid string) error {
	_, err := db.Pool.Exec(ctx, `DELETE FROM credentials WHERE uid = $1`, uid)
	return err
}

func (db *Postgres) scanCredential(ctx context.Context, query string, arg any) (*model.Credential, error) {
	var cred model.Credential
	err := db.Pool.QueryRow(ctx, query, arg).Scan(
		&cred.UID,
		&cred.Email,
		&cred.PasswordHash,
		&cred.EmailVerified,
		&cred.CreatedAt,
		&cred.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &cred, nil
}
