package driven

// PromptStore provides access to LLM prompt templates.
// Implementations may load prompts from files, embed them in the
// binary, or fetch them from a remote configuration service.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	// If the prompt is not found, implementations should return a
	// sensible default or an error, depending on whether the prompt is
	// required.
	Load(name string) (string, error)

	// Format loads a template and substitutes {name} placeholders with
	// the given values. Unknown placeholders are left in place.
	Format(name string, vars map[string]string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	// This is useful when prompts may have been edited on disk.
	Reload()
}

// Well-known prompt names used throughout the application.
// These constants define the contract between prompt consumers and providers.
const (
	// PromptConversationalSystem is the chat agent's system prompt.
	// Expects a {custom_instructions} placeholder.
	PromptConversationalSystem = "conversational_agent_system"

	// PromptReportSystem is the report generator's system prompt.
	// Expects {structure} and {custom_instructions} placeholders.
	PromptReportSystem = "report_generator_system"

	// PromptPodcastSystem is the podcast script generator's system
	// prompt. Expects {structure} and {custom_instructions} placeholders.
	PromptPodcastSystem = "podcast_generator_system"
)
