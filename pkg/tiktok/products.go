package tiktok

import (
	"context"
	"net/http"

	"github.com/shopspring/decimal"
)

type ProductQuery struct {
	PageSize      int      `json:"page_size"`
	PageNumber    int      `json:"page_number"`
	SearchStatus  int      `json:"search_status,omitempty"`
	SellerSKUList []string `json:"seller_sku_list,omitempty"`
}

type ProductPage struct {
	TotalCount int       `json:"total_count"`
	Products   []Product `json:"products"`
}

type Product struct {
	ID     string       `json:"id"`
	Name   string       `json:"name"`
	Status int          `json:"status"`
	SKUs   []ProductSKU `json:"skus"`
}

type ProductSKU struct {
	ID        string `json:"id"`
	SellerSKU string `json:"seller_sku"`
	// The platform sends prices as strings; decimal keeps them exact.
	Price decimal.Decimal `json:"price"`
	Stock int             `json:"stock"`
}

// SearchProducts runs a paged product search for the shop. The JSON body is
// part of the request signature.
func (c Client) SearchProducts(ctx context.Context, accessToken, shopID string, q ProductQuery) (*ProductPage, error) {
	if q.PageSize <= 0 {
		q.PageSize = 20
	}
	if q.PageNumber <= 0 {
		q.PageNumber = 1
	}

	var page ProductPage
	if err := c.call(ctx, http.MethodPost, "/api/products/search", nil, accessToken, shopID, q, &page); err != nil {
		return nil, err
	}
	return &page, nil
}
