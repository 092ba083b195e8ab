package driven

// PromptStore provides access to reading prompt templates.
// Implementations may load prompts from files or embed them in the binary.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	Reload()
}

// Well-known prompt names used throughout the application.
const (
	// PromptReadingSystem sets the interpreter's voice and ground rules.
	// This prompt has no format placeholders.
	PromptReadingSystem = "reading_system"

	// PromptReading asks for the interpretation of a spread.
	// The template expects %s (cards), %s (question) and %q (language)
	// placeholders, in that order.
	PromptReading = "reading"
)
