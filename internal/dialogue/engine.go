// Package dialogue connects the coach to an external chat model and wraps
// it with coach-flavored pre- and post-processing.
package dialogue

import (
	"context"
)

// FallbackReply is returned when no engine is configured or a request fails.
const FallbackReply = "Let's look at this from another angle... tell me more about what's on your mind."

// Engine is the external dialogue engine: it receives a query string with
// the user's identity and returns a response string. Everything behind it
// (session handling, model choice) belongs to the engine.
type Engine interface {
	// Reply generates a conversational response to a user message.
	Reply(ctx context.Context, userID, message string) (string, error)

	// Close releases engine resources.
	Close() error
}
