package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/tiagocrz/deNoise/internal/core/domain"
	"github.com/tiagocrz/deNoise/internal/core/ports/driven"
	"github.com/tiagocrz/deNoise/internal/core/ports/driving"
	"github.com/tiagocrz/deNoise/internal/logger"
)

// Ensure AgentService implements the interface.
var _ driving.AgentService = (*AgentService)(nil)

// Tool descriptions shown to the model. They carry the full usage
// contract because the model decides when to call.
const (
	ragTriggerDescription = `Searches the internal startup news database for relevant articles. ` +
		`Use this for questions about recent startup news, funding rounds, acquisitions or ecosystem trends. ` +
		`Arguments: query (the search keywords or topic), time_scope ('daily', 'weekly' or 'monthly'; ` +
		`pick 'daily' for today/yesterday/24 hours, 'weekly' for this week/recently, 'monthly' otherwise).`

	scrapeURLDescription = `Scrapes and summarises content from a specific external URL in real time. ` +
		`Use this ONLY when the user explicitly provides a URL. ` +
		`Arguments: url (the complete http:// or https:// address), prompt (the full, unmodified user question).`
)

// AgentService orchestrates the three generation flows: conversational
// chat with agentic retrieval, and report and podcast generation with
// a deterministic retrieval call.
type AgentService struct {
	llm       driven.LLMService
	speech    driven.SpeechService
	retrieval driving.RetrievalService
	search    driven.ArticleSearch
	profiles  driven.ProfileStore
	prompts   driven.PromptStore
	sessions  *SessionStore
}

// NewAgentService creates an agent service. The speech service and the
// article search may be nil; podcast audio and URL scraping are then
// unavailable.
func NewAgentService(
	llm driven.LLMService,
	speech driven.SpeechService,
	retrieval driving.RetrievalService,
	search driven.ArticleSearch,
	profiles driven.ProfileStore,
	prompts driven.PromptStore,
	sessions *SessionStore,
) *AgentService {
	return &AgentService{
		llm:       llm,
		speech:    speech,
		retrieval: retrieval,
		search:    search,
		profiles:  profiles,
		prompts:   prompts,
		sessions:  sessions,
	}
}

// Chat answers a prompt while maintaining the user's session history
// and applying their profile instructions. Retrieval and URL scraping
// are exposed to the model as tools; the model decides when to call
// them.
func (s *AgentService) Chat(ctx context.Context, userID, prompt string) (string, error) {
	if s.llm == nil {
		return "", domain.ErrLLMUnavailable
	}

	profile := s.lookupProfile(ctx, userID)

	system, err := s.systemPrompt(driven.PromptConversationalSystem, profile, nil)
	if err != nil {
		return "", err
	}
	if profile != nil && profile.DisplayName != "" {
		system += fmt.Sprintf("\n\nThe user's name is %s. Address them by name when appropriate.", profile.DisplayName)
	}

	s.sessions.Append(userID, domain.Turn{Role: domain.RoleUser, Text: prompt})

	answer, err := s.llm.Generate(ctx, system, toMessages(s.sessions.History(userID)), s.chatTools())
	if err != nil {
		return "", fmt.Errorf("generate chat answer: %w", err)
	}

	s.sessions.Append(userID, domain.Turn{Role: domain.RoleModel, Text: answer})
	return answer, nil
}

// ClearSession drops the conversation history for a user.
func (s *AgentService) ClearSession(userID string) {
	s.sessions.Clear(userID)
	logger.Debug("agents: cleared session for %s", userID)
}

// Report generates a structured report grounded in retrieved articles.
// Retrieval runs unconditionally before generation so the report is
// grounded in exactly the data requested, not in what the model feels
// like looking up.
func (s *AgentService) Report(ctx context.Context, userID, topics string, scope domain.TimeScope, structure string) (string, error) {
	if s.llm == nil {
		return "", domain.ErrLLMUnavailable
	}

	context, err := s.retrieval.RagTrigger(ctx, topics, scope)
	if err != nil {
		return "", fmt.Errorf("retrieve report context: %w", err)
	}

	system, err := s.systemPrompt(driven.PromptReportSystem, s.lookupProfile(ctx, userID), map[string]string{
		"structure": structure,
	})
	if err != nil {
		return "", err
	}

	report, err := s.llm.Generate(ctx, system, []driven.Message{{
		Role: "user",
		Text: fmt.Sprintf("Topic: %s\n\n--- NEWS (Source: Internal DB) ---\n%s", topics, context),
	}}, nil)
	if err != nil {
		return "", fmt.Errorf("generate report: %w", err)
	}
	return report, nil
}

// Podcast generates a podcast script grounded in retrieved articles
// and converts it to audio, returning a data URI.
func (s *AgentService) Podcast(ctx context.Context, userID, topics string, scope domain.TimeScope, structure string) (string, error) {
	if s.llm == nil {
		return "", domain.ErrLLMUnavailable
	}
	if s.speech == nil {
		return "", domain.ErrSpeechUnavailable
	}

	context, err := s.retrieval.RagTrigger(ctx, topics, scope)
	if err != nil {
		return "", fmt.Errorf("retrieve podcast context: %w", err)
	}

	system, err := s.systemPrompt(driven.PromptPodcastSystem, s.lookupProfile(ctx, userID), map[string]string{
		"structure": structure,
	})
	if err != nil {
		return "", err
	}

	script, err := s.llm.Generate(ctx, system, []driven.Message{{
		Role: "user",
		Text: fmt.Sprintf("Topic: %s\n\n--- PODCAST SOURCE MATERIAL ---\n%s", topics, context),
	}}, nil)
	if err != nil {
		return "", fmt.Errorf("generate podcast script: %w", err)
	}

	audio, err := s.speech.Synthesize(ctx, script)
	if err != nil {
		return "", fmt.Errorf("synthesize podcast audio: %w", err)
	}
	return audio, nil
}

// lookupProfile loads the user's profile. Anonymous and unknown users
// get no profile; the store is skipped entirely for anonymous.
func (s *AgentService) lookupProfile(ctx context.Context, userID string) *domain.UserProfile {
	if userID == "" || userID == domain.AnonymousUserID || s.profiles == nil {
		return nil
	}
	profile, err := s.profiles.Get(ctx, userID)
	if err != nil {
		if !errors.Is(err, domain.ErrProfileNotFound) {
			logger.Warn("agents: load profile %s: %v", userID, err)
		}
		return nil
	}
	return profile
}

// systemPrompt builds a system prompt from its template, with the
// profile's custom instructions substituted in.
func (s *AgentService) systemPrompt(name string, profile *domain.UserProfile, extra map[string]string) (string, error) {
	vars := map[string]string{"custom_instructions": ""}
	if profile != nil {
		vars["custom_instructions"] = profile.SystemInstructions
	}
	for k, v := range extra {
		vars[k] = v
	}

	system, err := s.prompts.Format(name, vars)
	if err != nil {
		return "", fmt.Errorf("load prompt %s: %w", name, err)
	}
	return system, nil
}

// chatTools is the toolkit the conversational agent exposes to the
// model.
func (s *AgentService) chatTools() []driven.Tool {
	tools := []driven.Tool{{
		Name:        "rag_trigger",
		Description: ragTriggerDescription,
		Call: func(ctx context.Context, args map[string]string) (string, error) {
			scope := domain.TimeScope(args["time_scope"])
			if scope == "" {
				scope = domain.ScopeMonthly
			}
			return s.retrieval.RagTrigger(ctx, args["query"], scope)
		},
	}}

	if s.search != nil {
		tools = append(tools, driven.Tool{
			Name:        "scrape_url_realtime",
			Description: scrapeURLDescription,
			Call: func(ctx context.Context, args map[string]string) (string, error) {
				return s.search.ScrapeURL(ctx, args["url"], args["prompt"])
			},
		})
	}
	return tools
}

func toMessages(turns []domain.Turn) []driven.Message {
	messages := make([]driven.Message, len(turns))
	for i, turn := range turns {
		messages[i] = driven.Message{Role: string(turn.Role), Text: turn.Text}
	}
	return messages
}
