package token

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository struct {
	db    *pgxpool.Pool
	codec *Codec
}

func NewRepository(db *pgxpool.Pool, codec *Codec) *Repository {
	return &Repository{db: db, codec: codec}
}

// UpsertTx stores the shop's current token pair, encrypting both halves.
// Refresh rotates the pair, so the previous ciphertexts are overwritten.
func (r *Repository) UpsertTx(ctx context.Context, tx pgx.Tx, rec Record) error {
	accessEnc, err := r.codec.Encrypt(rec.AccessToken)
	if err != nil {
		return fmt.Errorf("encrypt access token: %w", err)
	}
	refreshEnc, err := r.codec.Encrypt(rec.RefreshToken)
	if err != nil {
		return fmt.Errorf("encrypt refresh token: %w", err)
	}

	const q = `
INSERT INTO shop_tokens (shop_id, access_token_enc, refresh_token_enc, access_expires_at, refresh_expires_at)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (shop_id) DO UPDATE SET
  access_token_enc = EXCLUDED.access_token_enc,
  refresh_token_enc = EXCLUDED.refresh_token_enc,
  access_expires_at = EXCLUDED.access_expires_at,
  refresh_expires_at = EXCLUDED.refresh_expires_at,
  updated_at = now()
`
	_, err = tx.Exec(ctx, q, rec.ShopID, accessEnc, refreshEnc, rec.AccessExpiresAt, rec.RefreshExpiresAt)
	return err
}

func (r *Repository) FindByShopID(ctx context.Context, shopID string) (*Record, error) {
	const q = `
SELECT shop_id, access_token_enc, refresh_token_enc, access_expires_at, refresh_expires_at, created_at, updated_at
FROM shop_tokens
WHERE shop_id = $1
`
	var accessEnc, refreshEnc string
	rec := &Record{}
	if err := r.db.QueryRow(ctx, q, shopID).Scan(
		&rec.ShopID, &accessEnc, &refreshEnc, &rec.AccessExpiresAt, &rec.RefreshExpiresAt, &rec.CreatedAt, &rec.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var err error
	if rec.AccessToken, err = r.codec.Decrypt(accessEnc); err != nil {
		return nil, fmt.Errorf("decrypt access token: %w", err)
	}
	if rec.RefreshToken, err = r.codec.Decrypt(refreshEnc); err != nil {
		return nil, fmt.Errorf("decrypt refresh token: %w", err)
	}
	return rec, nil
}
