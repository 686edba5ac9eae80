// Package gemini provides an LLM service adapter using the Gemini API.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/tiagocrz/deNoise/internal/core/ports/driven"
	"github.com/tiagocrz/deNoise/internal/logger"
)

// Ensure LLMService implements the interface.
var _ driven.LLMService = (*LLMService)(nil)

// Default configuration values.
const (
	DefaultBaseURL     = "https://generativelanguage.googleapis.com/v1beta"
	DefaultModel       = "gemini-2.5-flash"
	DefaultTemperature = 0.3
	DefaultTimeout     = 120 * time.Second

	// maxToolRounds caps the function-calling loop so a confused model
	// cannot spin forever.
	maxToolRounds = 5
)

// Config holds configuration for the Gemini LLM service.
type Config struct {
	// APIKey is the Gemini API key (required).
	APIKey string

	// BaseURL is the API base URL (default: the public Gemini endpoint).
	BaseURL string

	// Model is the generation model (default: gemini-2.5-flash).
	Model string

	// Temperature controls sampling (default: 0.3).
	Temperature float64

	// Timeout is the request timeout (default: 120s).
	Timeout time.Duration
}

// LLMService generates text with the Gemini API, resolving model tool
// calls locally before returning the final answer.
type LLMService struct {
	client      *http.Client
	baseURL     string
	apiKey      string
	model       string
	temperature float64
}

// NewLLMService creates a new Gemini LLM service.
func NewLLMService(cfg Config) (*LLMService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini: API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = DefaultTemperature
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &LLMService{
		client:      &http.Client{Timeout: cfg.Timeout},
		baseURL:     cfg.BaseURL,
		apiKey:      cfg.APIKey,
		model:       cfg.Model,
		temperature: cfg.Temperature,
	}, nil
}

// Wire format types for the generateContent endpoint.

type part struct {
	Text             string        `json:"text,omitempty"`
	FunctionCall     *functionCall `json:"functionCall,omitempty"`
	FunctionResponse *functionResp `json:"functionResponse,omitempty"`
}

type functionCall struct {
	Name string         `json:"name"`
	Args map[string]any `json:"args"`
}

// stringArgs flattens model-supplied arguments to strings, the shape
// the tool contract takes.
func stringArgs(args map[string]any) map[string]string {
	out := make(map[string]string, len(args))
	for k, v := range args {
		if s, ok := v.(string); ok {
			out[k] = s
			continue
		}
		out[k] = fmt.Sprint(v)
	}
	return out
}

type functionResp struct {
	Name     string            `json:"name"`
	Response map[string]string `json:"response"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type functionDeclaration struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type generateRequest struct {
	Contents          []content `json:"contents"`
	SystemInstruction *content  `json:"systemInstruction,omitempty"`
	Tools             []struct {
		FunctionDeclarations []functionDeclaration `json:"functionDeclarations"`
	} `json:"tools,omitempty"`
	GenerationConfig struct {
		Temperature float64 `json:"temperature"`
	} `json:"generationConfig"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error,omitempty"`
}

// Generate produces a completion for the conversation. When the model
// requests a tool, the tool runs locally and its result is fed back
// until the model produces text.
func (s *LLMService) Generate(ctx context.Context, system string, history []driven.Message, tools []driven.Tool) (string, error) {
	contents := make([]content, 0, len(history))
	for _, msg := range history {
		contents = append(contents, content{
			Role:  msg.Role,
			Parts: []part{{Text: msg.Text}},
		})
	}

	byName := make(map[string]driven.Tool, len(tools))
	for _, tool := range tools {
		byName[tool.Name] = tool
	}

	for round := 0; round <= maxToolRounds; round++ {
		resp, err := s.generate(ctx, system, contents, tools)
		if err != nil {
			return "", err
		}

		calls := functionCalls(resp)
		if len(calls) == 0 {
			return responseText(resp), nil
		}

		// Echo the model turn, then answer every requested call.
		contents = append(contents, resp.Candidates[0].Content)
		responses := content{Role: "user"}
		for _, call := range calls {
			tool, ok := byName[call.Name]
			result := ""
			if !ok {
				result = fmt.Sprintf("Error: unknown tool %q", call.Name)
			} else if result, err = tool.Call(ctx, stringArgs(call.Args)); err != nil {
				result = fmt.Sprintf("Error: %v", err)
			}
			logger.Debug("gemini: tool %s returned %d bytes", call.Name, len(result))
			responses.Parts = append(responses.Parts, part{
				FunctionResponse: &functionResp{
					Name:     call.Name,
					Response: map[string]string{"result": result},
				},
			})
		}
		contents = append(contents, responses)
	}

	return "", fmt.Errorf("gemini: tool loop exceeded %d rounds", maxToolRounds)
}

func (s *LLMService) generate(ctx context.Context, system string, contents []content, tools []driven.Tool) (*generateResponse, error) {
	reqBody := generateRequest{Contents: contents}
	reqBody.GenerationConfig.Temperature = s.temperature

	if system != "" {
		reqBody.SystemInstruction = &content{Parts: []part{{Text: system}}}
	}
	if len(tools) > 0 {
		declarations := make([]functionDeclaration, 0, len(tools))
		for _, tool := range tools {
			declarations = append(declarations, functionDeclaration{
				Name:        tool.Name,
				Description: tool.Description,
			})
		}
		reqBody.Tools = []struct {
			FunctionDeclarations []functionDeclaration `json:"functionDeclarations"`
		}{{FunctionDeclarations: declarations}}
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", s.baseURL, s.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var genResp generateResponse
	if err := json.Unmarshal(body, &genResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if genResp.Error != nil {
		return nil, fmt.Errorf("gemini error: %s", genResp.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gemini error (status %d): %s", resp.StatusCode, string(body))
	}
	if len(genResp.Candidates) == 0 {
		return nil, fmt.Errorf("gemini: no candidates returned")
	}

	return &genResp, nil
}

func functionCalls(resp *generateResponse) []*functionCall {
	var calls []*functionCall
	for _, p := range resp.Candidates[0].Content.Parts {
		if p.FunctionCall != nil {
			calls = append(calls, p.FunctionCall)
		}
	}
	return calls
}

func responseText(resp *generateResponse) string {
	text := ""
	for _, p := range resp.Candidates[0].Content.Parts {
		text += p.Text
	}
	return text
}

// ModelName returns the underlying model identifier.
func (s *LLMService) ModelName() string {
	return s.model
}

// Close releases resources.
func (s *LLMService) Close() error {
	s.client.CloseIdleConnections()
	return nil
}
