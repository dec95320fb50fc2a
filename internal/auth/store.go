package auth

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"shopauth/internal/events"
	"shopauth/internal/shop"
	"shopauth/internal/token"
	"shopauth/pkg/db"
	"shopauth/pkg/tiktok"
)

// PostgresStore persists authorization outcomes. Each mutation writes the
// shop row, the token record and the audit event in one transaction so a
// half-saved authorization can never be observed.
type PostgresStore struct {
	DB     *pgxpool.Pool
	Shops  *shop.Repository
	Tokens *token.Repository
}

func (s *PostgresStore) SaveAuthorization(ctx context.Context, g *tiktok.TokenGrant, as tiktok.AuthorizedShop) (*shop.Shop, error) {
	region := as.Region
	if region == "" {
		region = g.SellerBaseRegion
	}

	var saved *shop.Shop
	err := db.WithTx(ctx, s.DB, func(tx pgx.Tx) error {
		var err error
		saved, err = shop.UpsertTx(ctx, tx, shop.UpsertParams{
			ShopID:     as.ShopID,
			ShopName:   as.ShopName,
			SellerName: g.SellerName,
			OpenID:     g.OpenID,
			Region:     region,
		})
		if err != nil {
			return err
		}
		if err := s.Tokens.UpsertTx(ctx, tx, grantRecord(as.ShopID, g)); err != nil {
			return err
		}
		return events.Insert(ctx, tx, as.ShopID, events.TypeAuthorized, "authorization granted", map[string]any{
			"sellerName": g.SellerName,
			"region":     region,
		})
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

func (s *PostgresStore) SaveRefresh(ctx context.Context, shopID string, g *tiktok.TokenGrant) error {
	return db.WithTx(ctx, s.DB, func(tx pgx.Tx) error {
		if err := s.Tokens.UpsertTx(ctx, tx, grantRecord(shopID, g)); err != nil {
			return err
		}
		if _, err := shop.UpdateStatusTx(ctx, tx, shopID, shop.StatusAuthorized); err != nil {
			return err
		}
		return events.Insert(ctx, tx, shopID, events.TypeRefreshed, "token pair rotated", nil)
	})
}

func (s *PostgresStore) MarkRevoked(ctx context.Context, shopID, reason string) error {
	return db.WithTx(ctx, s.DB, func(tx pgx.Tx) error {
		if _, err := shop.UpdateStatusTx(ctx, tx, shopID, shop.StatusRevoked); err != nil {
			return err
		}
		return events.Insert(ctx, tx, shopID, events.TypeRevoked, "refresh rejected by platform", map[string]any{
			"reason": reason,
		})
	})
}

func (s *PostgresStore) RefreshTokenByShopID(ctx context.Context, shopID string) (string, error) {
	rec, err := s.Tokens.FindByShopID(ctx, shopID)
	if err != nil {
		return "", err
	}
	return rec.RefreshToken, nil
}

func (s *PostgresStore) ListShops(ctx context.Context) ([]shop.Shop, error) {
	return s.Shops.List(ctx)
}

func grantRecord(shopID string, g *tiktok.TokenGrant) token.Record {
	return token.Record{
		ShopID:           shopID,
		AccessToken:      g.AccessToken,
		RefreshToken:     g.RefreshToken,
		AccessExpiresAt:  time.Unix(g.AccessExpiresAt, 0).UTC(),
		RefreshExpiresAt: time.Unix(g.RefreshExpiresAt, 0).UTC(),
	}
}
