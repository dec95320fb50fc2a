package auth

import (
	"context"
	"errors"
	"fmt"

	"shopauth/internal/shop"
	"shopauth/pkg/tiktok"
)

// Platform is the slice of the open-API client the flow depends on.
type Platform interface {
	ExchangeAuthCode(ctx context.Context, authCode string) (*tiktok.TokenGrant, error)
	RefreshAccessToken(ctx context.Context, refreshToken string) (*tiktok.TokenGrant, error)
	GetAuthorizedShop(ctx context.Context, accessToken string) ([]tiktok.AuthorizedShop, error)
}

// Store persists authorization outcomes.
type Store interface {
	SaveAuthorization(ctx context.Context, g *tiktok.TokenGrant, as tiktok.AuthorizedShop) (*shop.Shop, error)
	SaveRefresh(ctx context.Context, shopID string, g *tiktok.TokenGrant) error
	MarkRevoked(ctx context.Context, shopID, reason string) error
	RefreshTokenByShopID(ctx context.Context, shopID string) (string, error)
	ListShops(ctx context.Context) ([]shop.Shop, error)
}

// ExchangeError reports an authorization code the platform rejected
// (expired, already used, malformed).
type ExchangeError struct {
	Err error
}

func (e *ExchangeError) Error() string {
	return fmt.Sprintf("auth code exchange rejected: %v", e.Err)
}

func (e *ExchangeError) Unwrap() error { return e.Err }

// RefreshError reports a refresh token the platform rejected. The shop has
// been marked revoked by the time callers see this error.
type RefreshError struct {
	ShopID string
	Err    error
}

func (e *RefreshError) Error() string {
	return fmt.Sprintf("token refresh rejected for shop %s: %v", e.ShopID, e.Err)
}

func (e *RefreshError) Unwrap() error { return e.Err }

// Flow drives the authorization lifecycle: consent URL, code exchange,
// token refresh and the authorized-shop listing. It does not retry; every
// failure is scoped to the single call.
type Flow struct {
	Platform Platform
	Store    Store

	AppKey      string
	AuthBaseURL string
}

// AuthorizationURL returns the platform consent URL binding redirect_uri and
// state. Both are embedded as given.
func (f *Flow) AuthorizationURL(redirectURI, state string) string {
	return tiktok.AuthorizeURL(f.AuthBaseURL, f.AppKey, redirectURI, state)
}

// ExchangeAuthCode trades the one-time code for a token grant, resolves the
// shop it belongs to and persists shop and tokens together.
func (f *Flow) ExchangeAuthCode(ctx context.Context, authCode string) (*shop.Shop, error) {
	grant, err := f.Platform.ExchangeAuthCode(ctx, authCode)
	if err != nil {
		var apiErr *tiktok.APIError
		if errors.As(err, &apiErr) {
			return nil, &ExchangeError{Err: err}
		}
		return nil, fmt.Errorf("exchange auth code: %w", err)
	}

	shops, err := f.Platform.GetAuthorizedShop(ctx, grant.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("fetch authorized shop: %w", err)
	}
	if len(shops) == 0 {
		return nil, fmt.Errorf("authorization carries no shop")
	}

	s, err := f.Store.SaveAuthorization(ctx, grant, shops[0])
	if err != nil {
		return nil, fmt.Errorf("save authorization: %w", err)
	}
	return s, nil
}

// RefreshShopToken rotates the shop's token pair. A shop without a stored
// record surfaces token.ErrNotFound through the wrap; a platform rejection
// marks the shop revoked and returns *RefreshError. Transport failures leave
// the stored state untouched.
func (f *Flow) RefreshShopToken(ctx context.Context, shopID string) (*tiktok.TokenGrant, error) {
	refreshToken, err := f.Store.RefreshTokenByShopID(ctx, shopID)
	if err != nil {
		return nil, fmt.Errorf("load refresh token: %w", err)
	}

	grant, err := f.Platform.RefreshAccessToken(ctx, refreshToken)
	if err != nil {
		var apiErr *tiktok.APIError
		if !errors.As(err, &apiErr) {
			return nil, fmt.Errorf("refresh access token: %w", err)
		}
		if mErr := f.Store.MarkRevoked(ctx, shopID, apiErr.Message); mErr != nil {
			return nil, fmt.Errorf("mark shop revoked: %w", mErr)
		}
		return nil, &RefreshError{ShopID: shopID, Err: err}
	}

	if err := f.Store.SaveRefresh(ctx, shopID, grant); err != nil {
		return nil, fmt.Errorf("save refreshed tokens: %w", err)
	}
	return grant, nil
}

// AllShops lists every shop holding an authorization record. The result is
// never nil.
func (f *Flow) AllShops(ctx context.Context) ([]shop.Shop, error) {
	shops, err := f.Store.ListShops(ctx)
	if err != nil {
		return nil, fmt.Errorf("list shops: %w", err)
	}
	if shops == nil {
		shops = []shop.Shop{}
	}
	return shops, nil
}
