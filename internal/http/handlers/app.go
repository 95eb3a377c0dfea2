package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"listingforge/internal/infra"
)

// App bundles the dependencies shared by all HTTP handlers.
type App struct {
	Cfg    *infra.Config
	SQL    infra.SQLExecutor
	Logger zerolog.Logger
}

func NewApp(cfg *infra.Config, sql infra.SQLExecutor, logger zerolog.Logger) *App {
	return &App{Cfg: cfg, SQL: sql, Logger: logger}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, kind, message string) {
	a.json(w, code, map[string]string{"error": kind, "message": message})
}
