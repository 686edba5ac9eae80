package driven

import "context"

// Tool is a callable capability exposed to the LLM. The model decides
// when to invoke it; deNoise only documents the contract.
type Tool struct {
	// Name is the function name the model calls.
	Name string

	// Description tells the model when to use the tool.
	Description string

	// Call executes the tool with the model-supplied arguments.
	Call func(ctx context.Context, args map[string]string) (string, error)
}

// Message is one turn of LLM conversation input.
type Message struct {
	// Role is "user" or "model".
	Role string

	// Text is the message content.
	Text string
}

// LLMService generates text with a large language model.
// The model call itself is an opaque capability; deNoise only owns the
// prompt assembly and the tool contract.
type LLMService interface {
	// Generate produces a completion for the given conversation,
	// optionally letting the model invoke the provided tools.
	Generate(ctx context.Context, system string, history []Message, tools []Tool) (string, error)

	// ModelName returns the underlying model identifier.
	ModelName() string

	// Close releases resources.
	Close() error
}

// SpeechService converts text to audio.
// Text-to-speech is an opaque capability behind this port.
type SpeechService interface {
	// Synthesize converts a script to audio and returns a data URI
	// referencing the generated audio.
	Synthesize(ctx context.Context, script string) (string, error)

	// Close releases resources.
	Close() error
}
