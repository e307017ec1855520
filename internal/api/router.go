package api

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/erazemk/izgubljeno/internal/imaging"
	"github.com/erazemk/izgubljeno/internal/match"
	"github.com/erazemk/izgubljeno/internal/store"
)

// Deps are the services the API is built on.
type Deps struct {
	// DB holds accounts, settings and revoked tokens.
	DB        *sql.DB
	Items     store.Items
	Finder    *match.Finder
	Images    *imaging.Service
	JWTSecret string
	Locations []string
}

// NewRouter creates the API router with all endpoints registered.
// Browsing is public; reporting and changing items needs a token.
func NewRouter(d Deps) http.Handler {
	mux := http.NewServeMux()

	authHandler := &AuthHandler{DB: d.DB, JWTSecret: d.JWTSecret}
	itemsHandler := &ItemsHandler{Items: d.Items, Finder: d.Finder}
	imagesHandler := &ImagesHandler{Images: d.Images}
	catalogHandler := &CatalogHandler{Places: d.Locations}

	authMW := AuthMiddleware(d.JWTSecret, d.DB)

	// Accounts.
	mux.HandleFunc("POST /api/auth/register", authHandler.Register)
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)
	mux.Handle("POST /api/auth/logout", authMW(http.HandlerFunc(authHandler.Logout)))

	// Items: read (public), write (authenticated).
	mux.HandleFunc("GET /api/items", itemsHandler.List)
	mux.Handle("POST /api/items", authMW(http.HandlerFunc(itemsHandler.Create)))
	mux.HandleFunc("GET /api/items/{id}", itemsHandler.Get)
	mux.HandleFunc("GET /api/items/{id}/matches", itemsHandler.Matches)
	mux.Handle("PATCH /api/items/{id}/status", authMW(http.HandlerFunc(itemsHandler.UpdateStatus)))
	mux.Handle("POST /api/items/{id}/claim", authMW(http.HandlerFunc(itemsHandler.Claim)))
	mux.Handle("DELETE /api/items/{id}", authMW(http.HandlerFunc(itemsHandler.Delete)))
	mux.Handle("GET /api/me/items", authMW(http.HandlerFunc(itemsHandler.Mine)))

	// Images.
	mux.Handle("POST /api/images", authMW(http.HandlerFunc(imagesHandler.Upload)))
	mux.HandleFunc("GET /api/images/{id}", imagesHandler.Get)

	// Form values.
	mux.HandleFunc("GET /api/categories", catalogHandler.Categories)
	mux.HandleFunc("GET /api/locations", catalogHandler.Locations)

	// Operations.
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := d.Items.Ping(r.Context()); err != nil {
			slog.Warn("health check failed", "error", err)
			jsonError(w, http.StatusServiceUnavailable, "store unavailable")
			return
		}
		jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	return MetricsMiddleware(mux)
}
