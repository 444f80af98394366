package dialogue

import (
	"context"
	"log/slog"
	"regexp"
	"strings"
)

// Bridge wraps an Engine with coach-flavored pre- and post-processing:
// empathy cues for negative emotion, normalization of self-defeating
// phrasing, and a consistent coach signature on replies.
type Bridge struct {
	engine Engine
}

// NewBridge wraps an engine.
func NewBridge(engine Engine) *Bridge {
	return &Bridge{engine: engine}
}

var negativePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(confused|lost|stuck|anxious|worried|afraid)`),
	regexp.MustCompile(`(?i)(failed|failure|mistake|setback|disappointed)`),
	regexp.MustCompile(`(?i)(too hard|can't do|give up|don't understand)`),
}

var empathyNotes = []string{
	"I can understand how you feel",
	"that does sound like a real challenge",
	"your thinking here has value",
	"I can sense your confusion",
}

// normalizations replace self-defeating phrasing with growth framing.
var normalizations = []struct {
	pattern     *regexp.Regexp
	replacement string
}{
	{regexp.MustCompile(`(?i)i can't learn this`), "I'm running into difficulty while learning this"},
	{regexp.MustCompile(`(?i)i'm too stupid`), "my learning approach needs adjusting"},
	{regexp.MustCompile(`(?i)i have no talent`), "I haven't found the learning path that fits me yet"},
}

const coachSignature = "\n\n💙 Your personal AI coach"

// DetectNegativeEmotion reports whether the text carries negative emotion.
func DetectNegativeEmotion(text string) bool {
	for _, pattern := range negativePatterns {
		if pattern.MatchString(text) {
			return true
		}
	}
	return false
}

// PreprocessQuery prepares a user message for the engine: an empathy cue is
// prepended when negative emotion is detected, and self-defeating phrasing
// is normalized. The cue is chosen deterministically from the text length.
func PreprocessQuery(query string) string {
	for _, n := range normalizations {
		query = n.pattern.ReplaceAllString(query, n.replacement)
	}

	if DetectNegativeEmotion(query) {
		note := empathyNotes[len(query)%len(empathyNotes)]
		return "[inner state: " + note + "] " + query
	}
	return query
}

// PostprocessReply appends the coach signature and, when the reply asks no
// question, a guiding prompt to keep the conversation moving.
func PostprocessReply(reply string) string {
	out := reply + coachSignature
	if !strings.Contains(reply, "?") {
		out += "\n\nWhat are your thoughts on this?"
	}
	return out
}

// Reply runs a message through preprocessing, the engine, and
// postprocessing. Engine failures degrade to the fallback reply; the
// conversation must never visibly break.
func (b *Bridge) Reply(ctx context.Context, userID, message string) string {
	if b.engine == nil {
		return FallbackReply
	}

	reply, err := b.engine.Reply(ctx, userID, PreprocessQuery(message))
	if err != nil {
		slog.Warn("dialogue engine failed", "user_id", userID, "error", err)
		return FallbackReply
	}
	return PostprocessReply(reply)
}
