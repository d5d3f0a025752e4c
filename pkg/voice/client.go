package voice

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/kanavoice/kanavoice/pkg/logger"
)

const synthesisTimeout = 30 * time.Second

// APISynthesizer talks to a remote voice synthesis server exposing
// GET /voice?text=...&speaker_name=... and returning WAV audio.
type APISynthesizer struct {
	apiBase string
	model   string
	client  *resty.Client
}

// NewAPISynthesizer creates a client for the given API base URL and
// voice model identifier.
func NewAPISynthesizer(apiBase, model string) *APISynthesizer {
	client := resty.New().
		SetBaseURL(apiBase).
		SetTimeout(synthesisTimeout).
		SetHeader("accept", "audio/wav")

	logger.InfoCF("voice", "Creating voice API synthesizer", map[string]any{
		"api_base": apiBase,
		"model":    model,
	})

	return &APISynthesizer{
		apiBase: apiBase,
		model:   model,
		client:  client,
	}
}

// Model returns the configured voice model identifier.
func (s *APISynthesizer) Model() string {
	return s.model
}

// Synthesize requests audio for the given text. A single synchronous
// call; any failure is wrapped in ErrSynthesis.
func (s *APISynthesizer) Synthesize(ctx context.Context, text string) ([]byte, error) {
	logger.DebugCF("voice", "Synthesizing speech", map[string]any{
		"text_length": len(text),
		"model":       s.model,
	})

	res, err := s.client.R().
		SetContext(ctx).
		SetQueryParam("text", text).
		SetQueryParam("speaker_name", s.model).
		Get("/voice")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSynthesis, err)
	}
	if res.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d: %s",
			ErrSynthesis, res.StatusCode(), snippet(res.Body()))
	}

	audio := res.Body()
	logger.DebugCF("voice", "Speech synthesized", map[string]any{
		"size_bytes": len(audio),
		"model":      s.model,
	})
	return audio, nil
}

// IsAvailable probes the API base URL with a short timeout.
func (s *APISynthesizer) IsAvailable() bool {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	res, err := s.client.R().SetContext(ctx).Get("/")
	if err != nil {
		logger.DebugCF("voice", "Voice API health check failed", map[string]any{
			"error": err.Error(),
		})
		return false
	}
	return res.StatusCode() < http.StatusInternalServerError
}

func snippet(body []byte) string {
	const max = 200
	if len(body) > max {
		body = body[:max]
	}
	return string(body)
}
