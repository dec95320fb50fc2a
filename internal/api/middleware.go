package api

import (
	"crypto/hmac"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"shopauth/internal/shop"
)

// ServiceKeyAuth guards the service surface with a shared API key carried in
// the `X-Api-Key` header. An empty configured key disables the check, which
// keeps local development friction-free.
func ServiceKeyAuth(key string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if key == "" {
				next.ServeHTTP(w, r)
				return
			}
			got := strings.TrimSpace(r.Header.Get("X-Api-Key"))
			if got == "" || !hmac.Equal([]byte(got), []byte(key)) {
				WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing or invalid api key")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ShopCtx resolves the `{shopID}` route param to a registered shop and
// attaches it to the request context.
func ShopCtx(shops *shop.Repository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			shopID := strings.TrimSpace(chi.URLParam(r, "shopID"))
			if shopID == "" {
				WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "missing shop id")
				return
			}

			s, err := shops.FindByShopID(r.Context(), shopID)
			if err != nil {
				if errors.Is(err, shop.ErrNotFound) {
					WriteError(w, http.StatusNotFound, "SHOP_NOT_FOUND", "unknown shop")
					return
				}
				WriteError(w, http.StatusInternalServerError, "INTERNAL", "failed to load shop")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithShop(r.Context(), s)))
		})
	}
}
