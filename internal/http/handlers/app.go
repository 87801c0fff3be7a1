package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"server/internal/domain"
	"server/internal/infra"
)

// Generator is the orchestrator contract the handlers depend on.
type Generator interface {
	Generate(ctx context.Context, prompt string) (*domain.GenerationResult, error)
}

type App struct {
	Logger       infra.Logger
	Songs        Generator
	SongDuration int

	indexOnce sync.Once
	indexHTML []byte
}

func NewApp(logger infra.Logger, songs Generator, songDuration int) *App {
	return &App{Logger: logger, Songs: songs, SongDuration: songDuration}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// error writes the boundary error shape: a single message string. Internal
// causes stay in the logs, never in the body.
func (a *App) error(w http.ResponseWriter, code int, msg string) {
	a.json(w, code, map[string]string{"error": msg})
}
