package handlers

import (
	"encoding/json"
	"net/http"

	"server/internal/middleware"
)

// songFailureMessage is the only failure detail the boundary exposes.
const songFailureMessage = "AI song generation failed"

type generateRequest struct {
	Prompt string `json:"prompt"`
}

type generateResponse struct {
	Music string `json:"music,omitempty"`
}

// Generate runs the whole submit-and-poll workflow synchronously: the
// response is written only once the remote job is terminal, so the client
// waits for the full body. The prompt is forwarded as-is, empty included.
func (a *App) Generate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "invalid payload")
		return
	}

	result, err := a.Songs.Generate(r.Context(), req.Prompt)
	if err != nil {
		a.Logger.Error().
			Err(err).
			Str("request_id", middleware.RequestIDFromContext(r.Context())).
			Msg("song generation failed")
		a.error(w, http.StatusInternalServerError, songFailureMessage)
		return
	}
	a.json(w, http.StatusOK, generateResponse{Music: result.Music})
}
