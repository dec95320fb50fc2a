package tiktok

import (
	"context"
	"net/http"
)

type AuthorizedShop struct {
	ShopID   string `json:"shop_id"`
	ShopName string `json:"shop_name"`
	Region   string `json:"region"`
	ShopType string `json:"shop_type"`
}

// GetAuthorizedShop lists the shops the access token is authorized for.
// A fresh grant normally carries exactly one.
func (c Client) GetAuthorizedShop(ctx context.Context, accessToken string) ([]AuthorizedShop, error) {
	var data struct {
		ShopList []AuthorizedShop `json:"shop_list"`
	}
	if err := c.call(ctx, http.MethodGet, "/api/shop/get_authorized_shop", nil, accessToken, "", nil, &data); err != nil {
		return nil, err
	}
	return data.ShopList, nil
}
