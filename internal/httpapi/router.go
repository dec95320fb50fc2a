package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"shopauth/internal/api"
	"shopauth/internal/auth"
	"shopauth/internal/cache"
	"shopauth/internal/shop"
	"shopauth/internal/token"
	"shopauth/pkg/config"
	"shopauth/pkg/tiktok"
)

type Dependencies struct {
	Cfg   config.Config
	DB    *pgxpool.Pool
	Cache *cache.Store
	Codec *token.Codec
}

func NewRouter(deps Dependencies) http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	shopsRepo := shop.NewRepository(deps.DB)
	tokensRepo := token.NewRepository(deps.DB, deps.Codec)
	client := tiktok.Client{
		BaseURL:   deps.Cfg.TikTok.APIBaseURL,
		AppKey:    deps.Cfg.TikTok.AppKey,
		AppSecret: deps.Cfg.TikTok.AppSecret,
	}
	flow := &auth.Flow{
		Platform: client,
		Store: &auth.PostgresStore{
			DB:     deps.DB,
			Shops:  shopsRepo,
			Tokens: tokensRepo,
		},
		AppKey:      deps.Cfg.TikTok.AppKey,
		AuthBaseURL: deps.Cfg.TikTok.AuthBaseURL,
	}
	authHandlers := auth.Handlers{
		Cfg:    deps.Cfg,
		DB:     deps.DB,
		Flow:   flow,
		States: deps.Cache,
		Tokens: tokensRepo,
		Client: client,
	}

	// v1
	r.Route("/v1", func(r chi.Router) {
		// OAuth surface hit by the seller's browser and the platform redirect.
		r.Get("/auth/install", authHandlers.Install)
		r.Get("/auth/callback", authHandlers.Callback)

		// Service APIs consumed by other backends and the ops dashboard.
		r.Group(func(r chi.Router) {
			r.Use(api.CORSMiddleware(api.CORSOptions{
				AllowedOrigins: deps.Cfg.AllowedOrigins,
				AllowedMethods: []string{"GET", "POST", "OPTIONS"},
				AllowedHeaders: []string{"Content-Type", "X-Api-Key"},
				MaxAgeSeconds:  600,
			}))
			r.Use(api.ServiceKeyAuth(deps.Cfg.ServiceAPIKey))

			r.Get("/shops", authHandlers.ListShops)

			r.Route("/shops/{shopID}", func(r chi.Router) {
				r.Use(api.ShopCtx(shopsRepo))

				r.Post("/token/refresh", authHandlers.Refresh)
				r.Post("/products/search", authHandlers.SearchProducts)
				r.Get("/events", authHandlers.Events)
			})
		})
	})

	return r
}
