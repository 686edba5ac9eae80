package driven

// ConfigStore provides access to application configuration.
// Implementations handle persistence (e.g., TOML files) and type conversion.
type ConfigStore interface {
	// Get retrieves a configuration value by key.
	// Returns the value and a boolean indicating if the key exists.
	Get(key string) (any, bool)

	// GetString retrieves a string configuration value.
	// Returns empty string if key doesn't exist or isn't a string.
	GetString(key string) string

	// GetInt retrieves an integer configuration value.
	// Returns 0 if key doesn't exist or isn't an integer.
	GetInt(key string) int

	// GetBool retrieves a boolean configuration value.
	// Returns false if key doesn't exist or isn't a boolean.
	GetBool(key string) bool

	// GetStringSlice retrieves a string slice configuration value.
	// Returns nil if key doesn't exist or isn't a slice.
	GetStringSlice(key string) []string

	// Set stores a configuration value.
	// The value is persisted immediately.
	Set(key string, value any) error

	// Save persists the current configuration to storage.
	Save() error

	// Load reads configuration from storage.
	Load() error

	// Path returns the configuration file path.
	Path() string
}

// Well-known configuration keys.
const (
	// ConfigGeminiAPIKey authenticates embedding and generation calls.
	ConfigGeminiAPIKey = "gemini.api_key"

	// ConfigTavilyAPIKey authenticates web search calls.
	ConfigTavilyAPIKey = "tavily.api_key"

	// ConfigElevenLabsAPIKey authenticates text-to-speech calls.
	ConfigElevenLabsAPIKey = "elevenlabs.api_key"

	// ConfigGmailClientID, ConfigGmailClientSecret and
	// ConfigGmailRefreshToken authenticate the Gmail fetcher.
	ConfigGmailClientID     = "gmail.client_id"
	ConfigGmailClientSecret = "gmail.client_secret"
	ConfigGmailRefreshToken = "gmail.refresh_token"

	// ConfigGmailLabel is the mailbox label newsletters are filed under.
	ConfigGmailLabel = "gmail.label"

	// ConfigNewsletterSenders is the sender allowlist.
	ConfigNewsletterSenders = "ingest.newsletter_senders"

	// ConfigSearchDomains is the web search domain allowlist.
	ConfigSearchDomains = "ingest.search_domains"

	// ConfigFeedURLs is the RSS/Atom feed list.
	ConfigFeedURLs = "ingest.feed_urls"

	// ConfigLookbackDays is the ingest lookback window in days.
	ConfigLookbackDays = "ingest.lookback_days"

	// ConfigDataDir overrides the storage directory.
	ConfigDataDir = "storage.data_dir"

	// ConfigEmbeddingDimensions overrides the embedding vector size.
	ConfigEmbeddingDimensions = "embedding.dimensions"

	// ConfigSessionMaxTurns bounds per-user chat history length.
	ConfigSessionMaxTurns = "chat.session_max_turns"
)
