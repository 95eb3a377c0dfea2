package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"listingforge/internal/http/handlers"
	"listingforge/internal/middleware"
)

// NewRouter assembles the API routes and middleware chain. The static route
// exposes the workspace tree read-only so generated artifacts are directly
// addressable.
func NewRouter(app *handlers.App, countries middleware.CountryLookup) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.Logger(app.Logger),
		middleware.CORS(nil),
		middleware.I18N(app.Cfg.DefaultLocale, countries),
	)

	r.Get("/v1/healthz", app.Health)

	r.Route("/v1/listings", func(r chi.Router) {
		r.Post("/", app.ListingsEnqueue)
		r.Get("/{job_id}", app.ListingStatus)
		r.Get("/{job_id}/assets", app.ListingAssets)
	})

	fileServer := http.StripPrefix("/static/", http.FileServer(http.Dir(app.Cfg.OutputDir)))
	r.Get("/static/*", func(w http.ResponseWriter, req *http.Request) {
		fileServer.ServeHTTP(w, req)
	})

	return r
}
