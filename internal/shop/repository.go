package shop

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("shop not found")

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

type UpsertParams struct {
	ShopID     string
	ShopName   string
	SellerName string
	OpenID     string
	Region     string
}

// UpsertTx registers or re-registers an authorized shop. Re-authorization
// always lands on status authorized regardless of the previous state.
func UpsertTx(ctx context.Context, tx pgx.Tx, p UpsertParams) (*Shop, error) {
	const q = `
INSERT INTO shops (shop_id, shop_name, seller_name, open_id, region, status, authorized_at)
VALUES ($1, $2, $3, $4, $5, 'authorized', now())
ON CONFLICT (shop_id) DO UPDATE SET
  shop_name = EXCLUDED.shop_name,
  seller_name = EXCLUDED.seller_name,
  open_id = EXCLUDED.open_id,
  region = EXCLUDED.region,
  status = 'authorized',
  authorized_at = now(),
  updated_at = now()
RETURNING id, shop_id, shop_name, seller_name, open_id, region, status, authorized_at, created_at, updated_at
`
	s := &Shop{}
	if err := tx.QueryRow(ctx, q, p.ShopID, p.ShopName, p.SellerName, p.OpenID, p.Region).Scan(
		&s.ID, &s.ShopID, &s.ShopName, &s.SellerName, &s.OpenID, &s.Region, &s.Status, &s.AuthorizedAt, &s.CreatedAt, &s.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return s, nil
}

// UpdateStatusTx moves a shop to status when the transition is allowed.
// Disallowed transitions are left untouched rather than erroring; callers
// that care compare the returned status.
func UpdateStatusTx(ctx context.Context, tx pgx.Tx, shopID string, to Status) (Status, error) {
	const q = `SELECT status FROM shops WHERE shop_id = $1 FOR UPDATE`
	var raw string
	if err := tx.QueryRow(ctx, q, shopID).Scan(&raw); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", err
	}
	from, err := ParseStatus(raw)
	if err != nil {
		return "", err
	}
	if from == to {
		return from, nil
	}
	if !CanTransition(from, to) {
		return from, nil
	}

	const upd = `UPDATE shops SET status = $2, updated_at = now() WHERE shop_id = $1`
	if _, err := tx.Exec(ctx, upd, shopID, string(to)); err != nil {
		return from, err
	}
	return to, nil
}

func (r *Repository) FindByShopID(ctx context.Context, shopID string) (*Shop, error) {
	const q = `
SELECT s.id, s.shop_id, s.shop_name, s.seller_name, s.open_id, s.region, s.status,
       t.access_expires_at,
       s.authorized_at, s.created_at, s.updated_at
FROM shops s
LEFT JOIN shop_tokens t ON t.shop_id = s.shop_id
WHERE s.shop_id = $1
`
	s := &Shop{}
	if err := r.db.QueryRow(ctx, q, shopID).Scan(
		&s.ID, &s.ShopID, &s.ShopName, &s.SellerName, &s.OpenID, &s.Region, &s.Status,
		&s.AccessExpiresAt,
		&s.AuthorizedAt, &s.CreatedAt, &s.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s, nil
}

// List returns every registered shop, newest authorization first. The result
// is never nil.
func (r *Repository) List(ctx context.Context) ([]Shop, error) {
	const q = `
SELECT s.id, s.shop_id, s.shop_name, s.seller_name, s.open_id, s.region, s.status,
       t.access_expires_at,
       s.authorized_at, s.created_at, s.updated_at
FROM shops s
LEFT JOIN shop_tokens t ON t.shop_id = s.shop_id
ORDER BY s.authorized_at DESC
`
	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Shop{}
	for rows.Next() {
		var s Shop
		if err := rows.Scan(
			&s.ID, &s.ShopID, &s.ShopName, &s.SellerName, &s.OpenID, &s.Region, &s.Status,
			&s.AccessExpiresAt,
			&s.AuthorizedAt, &s.CreatedAt, &s.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
