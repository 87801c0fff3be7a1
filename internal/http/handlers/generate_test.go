package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"server/internal/domain"
)

type stubGenerator struct {
	result     *domain.GenerationResult
	err        error
	calls      int
	lastPrompt string
}

func (s *stubGenerator) Generate(ctx context.Context, prompt string) (*domain.GenerationResult, error) {
	s.calls++
	s.lastPrompt = prompt
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func newTestApp(gen Generator) *App {
	return NewApp(zerolog.New(io.Discard), gen, 16)
}

func TestGenerateHandlerSuccess(t *testing.T) {
	gen := &stubGenerator{result: &domain.GenerationResult{Music: "https://cdn.example.com/song.mp3"}}
	app := newTestApp(gen)

	req := httptest.NewRequest(http.MethodPost, "/api/generate", strings.NewReader(`{"prompt":"a ska anthem"}`))
	rec := httptest.NewRecorder()
	app.Generate(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["music"] != "https://cdn.example.com/song.mp3" {
		t.Fatalf("music = %q", body["music"])
	}
	if gen.lastPrompt != "a ska anthem" {
		t.Fatalf("prompt = %q", gen.lastPrompt)
	}
}

func TestGenerateHandlerRemoteFailure(t *testing.T) {
	gen := &stubGenerator{err: errors.New("sonic: status 503: upstream exploded")}
	app := newTestApp(gen)

	req := httptest.NewRequest(http.MethodPost, "/api/generate", strings.NewReader(`{"prompt":"x"}`))
	rec := httptest.NewRecorder()
	app.Generate(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["error"] != "AI song generation failed" {
		t.Fatalf("error = %q, want the fixed message", body["error"])
	}
	if strings.Contains(rec.Body.String(), "exploded") {
		t.Fatalf("raw error leaked to the caller: %s", rec.Body.String())
	}
}

func TestGenerateHandlerEmptyPrompt(t *testing.T) {
	gen := &stubGenerator{result: &domain.GenerationResult{Music: "u"}}
	app := newTestApp(gen)

	req := httptest.NewRequest(http.MethodPost, "/api/generate", strings.NewReader(`{"prompt":""}`))
	rec := httptest.NewRecorder()
	app.Generate(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if gen.calls != 1 || gen.lastPrompt != "" {
		t.Fatalf("generator calls = %d, prompt = %q; empty prompts must still be submitted", gen.calls, gen.lastPrompt)
	}
}

func TestGenerateHandlerBadJSON(t *testing.T) {
	gen := &stubGenerator{}
	app := newTestApp(gen)

	req := httptest.NewRequest(http.MethodPost, "/api/generate", strings.NewReader(`{`))
	rec := httptest.NewRecorder()
	app.Generate(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if gen.calls != 0 {
		t.Fatalf("generator must not run for an undecodable body")
	}
}

// The browser-side concurrency guard lives in the served page; pin the
// markup and the disable/re-enable script so it cannot silently regress.
func TestIndexPageDisablesButtonDuringFlight(t *testing.T) {
	app := newTestApp(&stubGenerator{})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	app.Index(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	page := rec.Body.String()
	for _, want := range []string{
		"button.disabled = true",
		"button.disabled = false",
		"~16 second",
		`fetch('/api/generate'`,
	} {
		if !strings.Contains(page, want) {
			t.Fatalf("page missing %q", want)
		}
	}
}

func TestHealth(t *testing.T) {
	app := newTestApp(&stubGenerator{})

	rec := httptest.NewRecorder()
	app.Health(rec, httptest.NewRequest(http.MethodGet, "/v1/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Fatalf("body = %s", rec.Body.String())
	}
}
