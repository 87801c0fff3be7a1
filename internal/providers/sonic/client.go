package sonic

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"server/internal/domain"
	"server/internal/infra"
)

// ErrMissingAPIKey indicates that the client was configured without credentials.
var ErrMissingAPIKey = errors.New("sonic: api key is required")

// ModeMusic selects the music generation pipeline on the remote service.
const ModeMusic = "music"

// Options configures the Sonic music-generation client.
type Options struct {
	APIKey         string
	BaseURL        string
	HTTPClient     *http.Client
	Logger         *infra.Logger
	RequestTimeout time.Duration
}

// Client performs HTTP calls to the Sonic song-generation API.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *infra.Logger
}

// CreateRequest captures the inputs for a song submission. Duration and Mode
// are fixed by the caller; the service applies no further validation on the
// prompt, and neither does this client.
type CreateRequest struct {
	Prompt   string
	Duration int
	Mode     string
}

// CreateResponse is the normalized submission result. JobID is empty when
// the remote acknowledges the job without returning a handle.
type CreateResponse struct {
	JobID string
}

type createPayload struct {
	Prompt   string `json:"prompt"`
	Duration int    `json:"duration"`
	Mode     string `json:"mode"`
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type createEnvelope struct {
	Data struct {
		ID string `json:"id"`
	} `json:"data"`
	Error *apiError `json:"error"`
}

type songRecord struct {
	ID       string `json:"id"`
	State    string `json:"state"`
	MediaURI string `json:"media_uri"`
}

type listEnvelope struct {
	Data  []songRecord `json:"data"`
	Error *apiError    `json:"error"`
}

// NewClient constructs a client with sane defaults and injected dependencies.
func NewClient(opts Options) (*Client, error) {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.RequestTimeout
		if timeout <= 0 {
			timeout = 45 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.trysonic.ai/v1"
	}
	var logger *infra.Logger
	if opts.Logger != nil {
		logger = opts.Logger
	} else {
		discard := zerolog.New(io.Discard)
		l := infra.Logger(discard)
		logger = &l
	}
	return &Client{
		apiKey:     strings.TrimSpace(opts.APIKey),
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// HasCredentials reports whether the client can perform remote calls.
func (c *Client) HasCredentials() bool {
	return c.apiKey != ""
}

// CreateSong submits one generation job. The remote call is fire-and-forget:
// the returned id, when present, is the only correlation handle the service
// offers.
func (c *Client) CreateSong(ctx context.Context, req CreateRequest) (*CreateResponse, error) {
	if !c.HasCredentials() {
		return nil, ErrMissingAPIKey
	}
	payload := createPayload{
		Prompt:   req.Prompt,
		Duration: req.Duration,
		Mode:     req.Mode,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("sonic: encode request: %w", err)
	}
	raw, err := c.do(ctx, http.MethodPost, "/songs", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	var decoded createEnvelope
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("sonic: decode response: %w", err)
	}
	if decoded.Error != nil && decoded.Error.Message != "" {
		return nil, fmt.Errorf("sonic: %s (%s)", decoded.Error.Message, decoded.Error.Code)
	}
	c.logger.Debug().
		Str("job_id", decoded.Data.ID).
		Int("duration", req.Duration).
		Str("mode", req.Mode).
		Msg("sonic: submitted song job")
	return &CreateResponse{JobID: strings.TrimSpace(decoded.Data.ID)}, nil
}

// ListSongs fetches the account's job list. The service returns jobs
// append-ordered, most recent last.
func (c *Client) ListSongs(ctx context.Context) ([]domain.Job, error) {
	if !c.HasCredentials() {
		return nil, ErrMissingAPIKey
	}
	raw, err := c.do(ctx, http.MethodGet, "/songs", nil)
	if err != nil {
		return nil, err
	}
	var decoded listEnvelope
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("sonic: decode response: %w", err)
	}
	if decoded.Error != nil && decoded.Error.Message != "" {
		return nil, fmt.Errorf("sonic: %s (%s)", decoded.Error.Message, decoded.Error.Code)
	}
	jobs := make([]domain.Job, 0, len(decoded.Data))
	for _, rec := range decoded.Data {
		jobs = append(jobs, domain.Job{
			ID:       rec.ID,
			State:    domain.JobState(rec.State),
			MediaURI: rec.MediaURI,
		})
	}
	return jobs, nil
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader) ([]byte, error) {
	endpoint := c.baseURL + path
	httpReq, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("sonic: build request: %w", err)
	}
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("sonic: http request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("sonic: read response: %w", err)
	}
	if resp.StatusCode >= 300 {
		var detail apiError
		if err := json.Unmarshal(raw, &detail); err == nil && detail.Message != "" {
			return nil, fmt.Errorf("sonic: %s (%s)", detail.Message, detail.Code)
		}
		return nil, fmt.Errorf("sonic: status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	return raw, nil
}
