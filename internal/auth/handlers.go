package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"shopauth/internal/api"
	"shopauth/internal/cache"
	"shopauth/internal/events"
	"shopauth/internal/shop"
	"shopauth/internal/token"
	"shopauth/pkg/config"
	"shopauth/pkg/tiktok"
)

const (
	stateTTL    = 10 * time.Minute
	shopListTTL = 30 * time.Second
)

type Handlers struct {
	Cfg    config.Config
	DB     *pgxpool.Pool
	Flow   *Flow
	States *cache.Store
	Tokens *token.Repository
	Client tiktok.Client
}

// Install issues a one-time state token and redirects the seller to the
// platform's consent screen.
func (h Handlers) Install(w http.ResponseWriter, r *http.Request) {
	stateToken, nonce, err := IssueState(h.Cfg.TikTok.AppSecret, time.Now(), stateTTL)
	if err != nil {
		log.Printf("issue state failed err=%v", err)
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}
	if err := h.States.SaveStateNonce(r.Context(), nonce, stateTTL); err != nil {
		log.Printf("save state nonce failed err=%v", err)
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}

	redirectURI := strings.TrimRight(strings.TrimSpace(h.Cfg.PublicBaseURL), "/") + "/v1/auth/callback"
	http.Redirect(w, r, h.Flow.AuthorizationURL(redirectURI, stateToken), http.StatusFound)
}

// Callback receives the platform redirect: it verifies and consumes the
// state, exchanges the code and persists the authorized shop.
func (h Handlers) Callback(w http.ResponseWriter, r *http.Request) {
	qs := r.URL.Query()
	code := strings.TrimSpace(qs.Get("code"))
	state := strings.TrimSpace(qs.Get("state"))
	if code == "" || state == "" {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "missing code or state")
		return
	}

	nonce, err := VerifyState(state, h.Cfg.TikTok.AppSecret, time.Now())
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, "STATE_INVALID", "invalid oauth state")
		return
	}
	ok, err := h.States.ConsumeStateNonce(r.Context(), nonce)
	if err != nil {
		log.Printf("consume state nonce failed err=%v", err)
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}
	if !ok {
		api.WriteError(w, http.StatusBadRequest, "STATE_INVALID", "state already used or expired")
		return
	}

	s, err := h.Flow.ExchangeAuthCode(r.Context(), code)
	if err != nil {
		var exErr *ExchangeError
		if errors.As(err, &exErr) {
			api.WriteError(w, http.StatusBadGateway, "AUTH_EXCHANGE_FAILED", h.errDetail("platform rejected the authorization code", err))
			return
		}
		log.Printf("auth code exchange failed err=%v", err)
		api.WriteError(w, http.StatusBadGateway, "AUTH_EXCHANGE_FAILED", h.errDetail("authorization could not be completed", err))
		return
	}

	if err := h.States.InvalidateShopList(r.Context()); err != nil {
		log.Printf("invalidate shop list failed err=%v", err)
	}

	log.Printf("shop authorized shop_id=%s region=%s", s.ShopID, s.Region)
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"shop": s})
}

// Refresh rotates the token pair for the shop in context.
func (h Handlers) Refresh(w http.ResponseWriter, r *http.Request) {
	s := api.ShopFromContext(r.Context())
	if s == nil {
		api.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing shop identity")
		return
	}

	grant, err := h.Flow.RefreshShopToken(r.Context(), s.ShopID)
	if err != nil {
		if errors.Is(err, token.ErrNotFound) {
			api.WriteError(w, http.StatusNotFound, "SHOP_NOT_FOUND", "no stored authorization for shop")
			return
		}
		var rErr *RefreshError
		if errors.As(err, &rErr) {
			api.WriteError(w, http.StatusBadGateway, "TOKEN_REFRESH_FAILED", h.errDetail("platform rejected the refresh token", err))
			return
		}
		log.Printf("token refresh failed shop_id=%s err=%v", s.ShopID, err)
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}

	if err := h.States.InvalidateShopList(r.Context()); err != nil {
		log.Printf("invalidate shop list failed err=%v", err)
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"shopId":           s.ShopID,
		"accessExpiresAt":  time.Unix(grant.AccessExpiresAt, 0).UTC(),
		"refreshExpiresAt": time.Unix(grant.RefreshExpiresAt, 0).UTC(),
	})
}

// ListShops returns every registered shop with its effective status. Served
// from the redis cache when fresh.
func (h Handlers) ListShops(w http.ResponseWriter, r *http.Request) {
	shops, ok, err := h.States.ShopList(r.Context())
	if err != nil {
		log.Printf("shop list cache read failed err=%v", err)
	}
	if !ok {
		shops, err = h.Flow.AllShops(r.Context())
		if err != nil {
			log.Printf("list shops failed err=%v", err)
			api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
			return
		}
		now := time.Now()
		for i := range shops {
			shops[i].Status = shops[i].EffectiveStatus(now)
		}
		if err := h.States.SetShopList(r.Context(), shops, shopListTTL); err != nil {
			log.Printf("shop list cache write failed err=%v", err)
		}
	}
	if shops == nil {
		shops = []shop.Shop{}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"shops": shops})
}

type searchProductsRequest struct {
	PageSize     int      `json:"pageSize"`
	PageNumber   int      `json:"pageNumber"`
	SearchStatus int      `json:"searchStatus"`
	SellerSKUs   []string `json:"sellerSkus"`
}

// SearchProducts runs a signed product search on behalf of the shop in
// context using its stored access token.
func (h Handlers) SearchProducts(w http.ResponseWriter, r *http.Request) {
	s := api.ShopFromContext(r.Context())
	if s == nil {
		api.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing shop identity")
		return
	}

	var req searchProductsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid json")
		return
	}

	rec, err := h.Tokens.FindByShopID(r.Context(), s.ShopID)
	if err != nil {
		if errors.Is(err, token.ErrNotFound) {
			api.WriteError(w, http.StatusNotFound, "SHOP_NOT_FOUND", "no stored authorization for shop")
			return
		}
		log.Printf("load token failed shop_id=%s err=%v", s.ShopID, err)
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}

	page, err := h.Client.SearchProducts(r.Context(), rec.AccessToken, s.ShopID, tiktok.ProductQuery{
		PageSize:      req.PageSize,
		PageNumber:    req.PageNumber,
		SearchStatus:  req.SearchStatus,
		SellerSKUList: req.SellerSKUs,
	})
	if err != nil {
		log.Printf("product search failed shop_id=%s err=%v", s.ShopID, err)
		api.WriteError(w, http.StatusBadGateway, "PLATFORM_ERROR", h.errDetail("product search failed", err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"totalCount": page.TotalCount,
		"products":   page.Products,
	})
}

// Events returns the authorization history for the shop in context.
func (h Handlers) Events(w http.ResponseWriter, r *http.Request) {
	s := api.ShopFromContext(r.Context())
	if s == nil {
		api.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing shop identity")
		return
	}

	evts, err := events.ListByShop(r.Context(), h.DB, s.ShopID)
	if err != nil {
		log.Printf("list events failed shop_id=%s err=%v", s.ShopID, err)
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}
	if evts == nil {
		evts = []events.Event{}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"events": evts})
}

func (h Handlers) errDetail(msg string, err error) string {
	if h.Cfg.AppEnv != "prod" {
		return fmt.Sprintf("%s: %v", msg, err)
	}
	return msg
}
