package router

import (
	"net/http"
	"path/filepath"
	"strings"

	"shop-admin/internal/config"
	"shop-admin/internal/handler"
	"shop-admin/internal/middleware"

	"github.com/rs/zerolog"
)

// New creates a new HTTP router with all routes and middleware configured.
// Uploaded images are served from the asset root, the admin theme from the
// web directory; both bypass the admin key.
func New(
	productHandler *handler.ProductHandler,
	assets config.AssetsConfig,
	adminKey string,
	logger zerolog.Logger,
) http.Handler {
	mux := http.NewServeMux()

	// Health check endpoint (no authentication required)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	// Static assets: /images/** maps into the asset root, /static/** into
	// the web directory.
	mux.Handle("/images/", http.FileServer(http.Dir(assets.Root)))
	mux.Handle("/static/", http.StripPrefix("/static/",
		http.FileServer(http.Dir(filepath.Join(assets.WebDir, "static")))))

	// Product handler function
	productRouteHandler := func(w http.ResponseWriter, r *http.Request) {
		path := strings.TrimSuffix(r.URL.Path, "/")

		switch {
		case path == "/api/products" && r.Method == http.MethodPost:
			productHandler.Upsert(w, r)

		case path == "/api/products":
			productHandler.List(w, r)

		case path == "/api/products/new" || strings.HasSuffix(path, "/edit"):
			productHandler.EditForm(w, r)

		case r.Method == http.MethodDelete:
			productHandler.Delete(w, r)

		default:
			http.Error(w, "not found", http.StatusNotFound)
		}
	}

	// Register product routes (both with and without trailing slash)
	mux.HandleFunc("/api/products", productRouteHandler)
	mux.HandleFunc("/api/products/", productRouteHandler)

	// Apply middleware in order: Recovery -> Logging -> CORS -> AdminKeyAuth
	var h http.Handler = mux
	h = middleware.AdminKeyAuth(adminKey, logger)(h)
	h = middleware.CORS(h)
	h = middleware.Logging(logger)(h)
	h = middleware.Recovery(logger)(h)

	return h
}
