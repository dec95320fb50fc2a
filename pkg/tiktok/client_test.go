package tiktok

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestClient_SignsEveryRequest(t *testing.T) {
	now := time.Unix(1700000000, 0)

	var gotPath string
	var gotQuery url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"code":0,"message":"success","request_id":"r1","data":{"shop_list":[{"shop_id":"7000001","shop_name":"Acme Outlet","region":"US"}]}}`)
	}))
	defer srv.Close()

	c := Client{
		HTTPClient: srv.Client(),
		BaseURL:    srv.URL,
		AppKey:     "ak",
		AppSecret:  "sek",
		Now:        func() time.Time { return now },
	}

	shops, err := c.GetAuthorizedShop(context.Background(), "tok")
	if err != nil {
		t.Fatalf("get authorized shop: %v", err)
	}
	if len(shops) != 1 || shops[0].ShopID != "7000001" || shops[0].ShopName != "Acme Outlet" {
		t.Fatalf("unexpected shops: %+v", shops)
	}

	if gotQuery.Get("app_key") != "ak" || gotQuery.Get("timestamp") != "1700000000" {
		t.Fatalf("missing signed params: %v", gotQuery)
	}
	if gotQuery.Get("access_token") != "tok" {
		t.Fatalf("access_token not sent: %v", gotQuery)
	}

	rest := Params{}
	for k := range gotQuery {
		if k == "sign" {
			continue
		}
		rest[k] = gotQuery.Get(k)
	}
	if want := Sign("sek", gotPath, rest, nil); gotQuery.Get("sign") != want {
		t.Fatalf("sign mismatch: got %s want %s", gotQuery.Get("sign"), want)
	}
}

func TestClient_SearchProductsSignsBody(t *testing.T) {
	now := time.Unix(1700000000, 0)

	var gotQuery url.Values
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		gotBody, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"code":0,"message":"success","data":{"total_count":1,"products":[{"id":"601","name":"Trail Shoe","status":1,"skus":[{"id":"901","seller_sku":"TS-01","price":"59.90","stock":4}]}]}}`)
	}))
	defer srv.Close()

	c := Client{
		HTTPClient: srv.Client(),
		BaseURL:    srv.URL,
		AppKey:     "ak",
		AppSecret:  "sek",
		Now:        func() time.Time { return now },
	}

	page, err := c.SearchProducts(context.Background(), "tok", "7000001", ProductQuery{PageSize: 10})
	if err != nil {
		t.Fatalf("search products: %v", err)
	}
	if page.TotalCount != 1 || len(page.Products) != 1 {
		t.Fatalf("unexpected page: %+v", page)
	}
	if !page.Products[0].SKUs[0].Price.Equal(decimal.RequireFromString("59.90")) {
		t.Fatalf("price mismatch: %s", page.Products[0].SKUs[0].Price)
	}

	if gotQuery.Get("shop_id") != "7000001" {
		t.Fatalf("shop_id not sent: %v", gotQuery)
	}

	// The signature must bind the exact body bytes that were sent.
	rest := Params{}
	for k := range gotQuery {
		if k == "sign" {
			continue
		}
		rest[k] = gotQuery.Get(k)
	}
	if want := Sign("sek", "/api/products/search", rest, gotBody); gotQuery.Get("sign") != want {
		t.Fatalf("body sign mismatch: got %s want %s", gotQuery.Get("sign"), want)
	}
}

func TestClient_ExchangeAuthCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("auth_code"); got != "c0de" {
			t.Errorf("auth_code mismatch: %q", got)
		}
		if got := r.URL.Query().Get("grant_type"); got != "authorized_code" {
			t.Errorf("grant_type mismatch: %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"code":0,"message":"success","data":{"access_token":"at-1","access_token_expire_in":1700086400,"refresh_token":"rt-1","refresh_token_expire_in":1715552000,"open_id":"op-1","seller_name":"Acme","seller_base_region":"US"}}`)
	}))
	defer srv.Close()

	c := Client{HTTPClient: srv.Client(), BaseURL: srv.URL, AppKey: "ak", AppSecret: "sek"}

	g, err := c.ExchangeAuthCode(context.Background(), "c0de")
	if err != nil {
		t.Fatalf("exchange: %v", err)
	}
	if g.AccessToken != "at-1" || g.RefreshToken != "rt-1" {
		t.Fatalf("unexpected grant: %+v", g)
	}
	if g.AccessExpiresAt != 1700086400 || g.SellerName != "Acme" {
		t.Fatalf("unexpected grant fields: %+v", g)
	}
}

func TestClient_PlatformRejectionIsAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"code":36004005,"message":"auth_code expired","request_id":"r2"}`)
	}))
	defer srv.Close()

	c := Client{HTTPClient: srv.Client(), BaseURL: srv.URL, AppKey: "ak", AppSecret: "sek"}

	_, err := c.ExchangeAuthCode(context.Background(), "stale")
	if err == nil {
		t.Fatalf("want error")
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("want *APIError, got %T %v", err, err)
	}
	if apiErr.Code != 36004005 || apiErr.HTTPStatus != http.StatusBadRequest {
		t.Fatalf("unexpected api error: %+v", apiErr)
	}
}

func TestAuthorizeURL(t *testing.T) {
	got := AuthorizeURL("https://auth.example.com", "ak", "https://app.example.com/v1/auth/callback", "st4te")

	u, err := url.Parse(got)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if u.Path != "/oauth/authorize" {
		t.Fatalf("path mismatch: %s", u.Path)
	}
	q := u.Query()
	if q.Get("app_key") != "ak" || q.Get("state") != "st4te" {
		t.Fatalf("missing params: %v", q)
	}
	if q.Get("redirect_uri") != "https://app.example.com/v1/auth/callback" {
		t.Fatalf("redirect_uri mismatch: %q", q.Get("redirect_uri"))
	}
}
