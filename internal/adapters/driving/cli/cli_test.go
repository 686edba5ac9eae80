package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tiagocrz/deNoise/internal/core/domain"
	"github.com/tiagocrz/deNoise/internal/core/ports/driving"
)

// mockIngest implements driving.IngestOrchestrator for testing.
type mockIngest struct {
	reset bool
	stats driving.IngestStats
	err   error
}

func (m *mockIngest) Update(_ context.Context, reset bool) (*driving.IngestStats, error) {
	m.reset = reset
	if m.err != nil {
		return nil, m.err
	}
	return &m.stats, nil
}

// mockAgents implements driving.AgentService for testing.
type mockAgents struct {
	lastUser   string
	lastPrompt string
	lastScope  domain.TimeScope
	cleared    []string
}

func (m *mockAgents) Chat(_ context.Context, userID, prompt string) (string, error) {
	m.lastUser = userID
	m.lastPrompt = prompt
	return "chat answer", nil
}

func (m *mockAgents) ClearSession(userID string) {
	m.cleared = append(m.cleared, userID)
}

func (m *mockAgents) Report(_ context.Context, userID, topics string, scope domain.TimeScope, _ string) (string, error) {
	m.lastUser = userID
	m.lastPrompt = topics
	m.lastScope = scope
	return "the report", nil
}

func (m *mockAgents) Podcast(_ context.Context, userID, topics string, scope domain.TimeScope, _ string) (string, error) {
	m.lastUser = userID
	m.lastPrompt = topics
	m.lastScope = scope
	return "data:audio/mpeg;base64,QUJD", nil
}

// mockProfiles implements driving.ProfileService for testing.
type mockProfiles struct {
	saved map[string]domain.UserProfile
}

func (m *mockProfiles) Sync(_ context.Context, profile domain.UserProfile) error {
	if m.saved == nil {
		m.saved = make(map[string]domain.UserProfile)
	}
	m.saved[profile.UserID] = profile
	return nil
}

func (m *mockProfiles) Get(_ context.Context, userID string) (*domain.UserProfile, error) {
	profile, ok := m.saved[userID]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	return &profile, nil
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return buf.String(), err
}

func setupServices() (*mockIngest, *mockAgents, *mockProfiles, func()) {
	ingest := &mockIngest{}
	agents := &mockAgents{}
	profiles := &mockProfiles{}

	oldIngest, oldAgents, oldProfiles := ingestOrchestrator, agentService, profileService
	SetServices(Services{Ingest: ingest, Agents: agents, Profiles: profiles})
	return ingest, agents, profiles, func() {
		ingestOrchestrator, agentService, profileService = oldIngest, oldAgents, oldProfiles
	}
}

func TestVersionCmd_Executes(t *testing.T) {
	originalVersion := version
	version = "test-version-1.0.0"
	defer func() { version = originalVersion }()

	out, err := execute(t, "version")

	assert.NoError(t, err)
	assert.Contains(t, out, "denoise version test-version-1.0.0")
}

func TestUpdateCmd_Executes(t *testing.T) {
	ingest, _, _, cleanup := setupServices()
	defer cleanup()
	ingest.stats = driving.IngestStats{RunID: "run-42", NewslettersFetched: 3, ArticlesStored: 12, ArticlesIndexed: 11, Skipped: 1}

	out, err := execute(t, "update", "--reset")

	assert.NoError(t, err)
	assert.True(t, ingest.reset)
	assert.Contains(t, out, "Run run-42 complete.")
	assert.Contains(t, out, "Fetched 3 newsletters.")
	assert.Contains(t, out, "Stored 12 articles, indexed 11.")
	assert.Contains(t, out, "Skipped 1 items")
}

func TestUpdateCmd_NotConfigured(t *testing.T) {
	_, _, _, cleanup := setupServices()
	defer cleanup()
	ingestOrchestrator = nil

	_, err := execute(t, "update")

	assert.Error(t, err)
}

func TestAskCmd_Executes(t *testing.T) {
	_, agents, _, cleanup := setupServices()
	defer cleanup()

	out, err := execute(t, "ask", "--user", "u1", "what", "happened", "today?")

	assert.NoError(t, err)
	assert.Contains(t, out, "chat answer")
	assert.Equal(t, "u1", agents.lastUser)
	assert.Equal(t, "what happened today?", agents.lastPrompt)
}

func TestAskCmd_Clear(t *testing.T) {
	_, agents, _, cleanup := setupServices()
	defer cleanup()

	out, err := execute(t, "ask", "--user", "u1", "--clear")

	assert.NoError(t, err)
	assert.Contains(t, out, "Session cleared.")
	assert.Equal(t, []string{"u1"}, agents.cleared)
}

func TestReportCmd_Executes(t *testing.T) {
	_, agents, _, cleanup := setupServices()
	defer cleanup()

	out, err := execute(t, "report", "--scope", "daily", "funding", "rounds")

	assert.NoError(t, err)
	assert.Contains(t, out, "the report")
	assert.Equal(t, "funding rounds", agents.lastPrompt)
	assert.Equal(t, domain.ScopeDaily, agents.lastScope)
}

func TestReportCmd_InvalidScope(t *testing.T) {
	_, _, _, cleanup := setupServices()
	defer cleanup()

	_, err := execute(t, "report", "--scope", "yearly", "funding")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid scope")
}

func TestPodcastCmd_PrintsDataURI(t *testing.T) {
	_, _, _, cleanup := setupServices()
	defer cleanup()

	out, err := execute(t, "podcast", "weekly", "recap")

	assert.NoError(t, err)
	assert.Contains(t, out, "data:audio/mpeg;base64,QUJD")
}

func TestProfileCmd_SetAndShow(t *testing.T) {
	_, _, profiles, cleanup := setupServices()
	defer cleanup()

	out, err := execute(t, "profile", "set", "u1", "--name", "Tiago", "--email", "tiago@example.com")
	assert.NoError(t, err)
	assert.Contains(t, out, "Profile u1 saved.")
	assert.Equal(t, "Tiago", profiles.saved["u1"].DisplayName)

	out, err = execute(t, "profile", "show", "u1")
	assert.NoError(t, err)
	assert.Contains(t, out, "Display name: Tiago")
}

func TestProfileCmd_ShowMissing(t *testing.T) {
	_, _, _, cleanup := setupServices()
	defer cleanup()

	out, err := execute(t, "profile", "show", "nobody")

	assert.NoError(t, err)
	assert.Contains(t, out, "No profile for nobody.")
}

func TestDecodeAudioDataURI(t *testing.T) {
	data, err := decodeAudioDataURI("data:audio/mpeg;base64,QUJD")
	assert.NoError(t, err)
	assert.Equal(t, []byte("ABC"), data)

	_, err = decodeAudioDataURI("not a data uri")
	assert.Error(t, err)
}
