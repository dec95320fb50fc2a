package tiktok

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// TokenGrant is the token payload returned by token exchange and refresh.
// Expiry fields are Unix seconds.
type TokenGrant struct {
	AccessToken      string `json:"access_token"`
	AccessExpiresAt  int64  `json:"access_token_expire_in"`
	RefreshToken     string `json:"refresh_token"`
	RefreshExpiresAt int64  `json:"refresh_token_expire_in"`
	OpenID           string `json:"open_id"`
	SellerName       string `json:"seller_name"`
	SellerBaseRegion string `json:"seller_base_region"`
}

// AuthorizeURL builds the seller consent URL. redirect_uri and state are
// embedded as given; validating them is the caller's responsibility.
func AuthorizeURL(authBaseURL, appKey, redirectURI, state string) string {
	q := url.Values{}
	q.Set("app_key", appKey)
	q.Set("redirect_uri", redirectURI)
	q.Set("state", state)
	return authBaseURL + "/oauth/authorize?" + q.Encode()
}

// ExchangeAuthCode trades a one-time authorization code for a token grant.
// The code is single-use; expired or replayed codes come back as *APIError.
func (c Client) ExchangeAuthCode(ctx context.Context, authCode string) (*TokenGrant, error) {
	var g TokenGrant
	err := c.call(ctx, http.MethodGet, "/api/v2/token/get", Params{
		"auth_code":  authCode,
		"grant_type": "authorized_code",
	}, "", "", nil, &g)
	if err != nil {
		return nil, err
	}
	if g.AccessToken == "" {
		return nil, fmt.Errorf("token exchange returned empty access_token")
	}
	return &g, nil
}

// RefreshAccessToken trades a refresh token for a fresh grant. The platform
// rotates the refresh token, so callers must persist the returned pair.
func (c Client) RefreshAccessToken(ctx context.Context, refreshToken string) (*TokenGrant, error) {
	var g TokenGrant
	err := c.call(ctx, http.MethodGet, "/api/v2/token/refresh", Params{
		"refresh_token": refreshToken,
		"grant_type":    "refresh_token",
	}, "", "", nil, &g)
	if err != nil {
		return nil, err
	}
	if g.AccessToken == "" {
		return nil, fmt.Errorf("token refresh returned empty access_token")
	}
	return &g, nil
}
