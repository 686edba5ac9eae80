// Package elevenlabs provides a speech service adapter using the
// ElevenLabs text-to-speech API.
package elevenlabs

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tiagocrz/deNoise/internal/core/domain"
	"github.com/tiagocrz/deNoise/internal/core/ports/driven"
)

// Ensure SpeechService implements the interface.
var _ driven.SpeechService = (*SpeechService)(nil)

// Default configuration values.
const (
	DefaultBaseURL      = "https://api.elevenlabs.io/v1"
	DefaultVoiceID      = "q0IMILNRPxOgtBTS4taI"
	DefaultModelID      = "eleven_multilingual_v2"
	DefaultOutputFormat = "mp3_44100_128"
	DefaultTimeout      = 120 * time.Second
)

// Config holds configuration for the speech service.
type Config struct {
	// APIKey is the ElevenLabs API key (required).
	APIKey string

	// BaseURL is the API base URL.
	BaseURL string

	// VoiceID selects the voice.
	VoiceID string

	// ModelID selects the TTS model.
	ModelID string

	// OutputFormat selects the audio encoding.
	OutputFormat string

	// Timeout is the request timeout (default: 120s).
	Timeout time.Duration
}

// SpeechService converts scripts to audio through ElevenLabs.
type SpeechService struct {
	client       *http.Client
	baseURL      string
	apiKey       string
	voiceID      string
	modelID      string
	outputFormat string
}

// NewSpeechService creates a new speech service.
func NewSpeechService(cfg Config) (*SpeechService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("elevenlabs: API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.VoiceID == "" {
		cfg.VoiceID = DefaultVoiceID
	}
	if cfg.ModelID == "" {
		cfg.ModelID = DefaultModelID
	}
	if cfg.OutputFormat == "" {
		cfg.OutputFormat = DefaultOutputFormat
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &SpeechService{
		client:       &http.Client{Timeout: cfg.Timeout},
		baseURL:      cfg.BaseURL,
		apiKey:       cfg.APIKey,
		voiceID:      cfg.VoiceID,
		modelID:      cfg.ModelID,
		outputFormat: cfg.OutputFormat,
	}, nil
}

type speechRequest struct {
	Text    string `json:"text"`
	ModelID string `json:"model_id"`
}

// Synthesize converts a script to audio and returns it as a playable
// data URI.
func (s *SpeechService) Synthesize(ctx context.Context, script string) (string, error) {
	if strings.TrimSpace(script) == "" {
		return "", fmt.Errorf("elevenlabs: %w", domain.ErrEmptyInput)
	}

	jsonBody, err := json.Marshal(speechRequest{Text: script, ModelID: s.modelID})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/text-to-speech/%s?output_format=%s", s.baseURL, s.voiceID, s.outputFormat)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonBody))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("xi-api-key", s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("elevenlabs error (status %d): %s", resp.StatusCode, string(audio))
	}
	if len(audio) == 0 {
		return "", fmt.Errorf("elevenlabs: empty audio response")
	}

	return "data:audio/mpeg;base64," + base64.StdEncoding.EncodeToString(audio), nil
}

// Close releases resources.
func (s *SpeechService) Close() error {
	s.client.CloseIdleConnections()
	return nil
}
