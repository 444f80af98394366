package dialogue

import (
	"context"
	"errors"
	"strings"
	"testing"
)

// fakeEngine records the last query and returns a canned reply or error.
type fakeEngine struct {
	lastQuery string
	reply     string
	err       error
}

func (f *fakeEngine) Reply(ctx context.Context, userID, message string) (string, error) {
	f.lastQuery = message
	return f.reply, f.err
}

func (f *fakeEngine) Close() error { return nil }

func TestDetectNegativeEmotion(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"I'm so confused by goroutines", true},
		{"I feel STUCK on this exercise", true},
		{"this is too hard for me", true},
		{"I failed the quiz again", true},
		{"today went really well", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := DetectNegativeEmotion(tt.text); got != tt.want {
			t.Errorf("DetectNegativeEmotion(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestPreprocessQueryNormalizes(t *testing.T) {
	got := PreprocessQuery("Honestly, I CAN'T learn this at all")
	if strings.Contains(strings.ToLower(got), "can't learn this") {
		t.Errorf("Self-defeating phrasing survived: %q", got)
	}
	if !strings.Contains(got, "running into difficulty while learning this") {
		t.Errorf("Expected growth framing in %q", got)
	}
	// Untouched text around the match keeps its case.
	if !strings.HasPrefix(got, "Honestly,") {
		t.Errorf("Surrounding text altered: %q", got)
	}
}

func TestPreprocessQueryEmpathyCue(t *testing.T) {
	got := PreprocessQuery("I'm worried about my progress")
	if !strings.HasPrefix(got, "[inner state: ") {
		t.Errorf("Expected empathy cue prefix, got %q", got)
	}
	if !strings.Contains(got, "I'm worried about my progress") {
		t.Errorf("Original message lost: %q", got)
	}

	if got := PreprocessQuery("all is well"); got != "all is well" {
		t.Errorf("Neutral message altered: %q", got)
	}
}

func TestPostprocessReply(t *testing.T) {
	got := PostprocessReply("Keep iterating on small projects.")
	if !strings.Contains(got, coachSignature) {
		t.Errorf("Signature missing: %q", got)
	}
	if !strings.Contains(got, "What are your thoughts on this?") {
		t.Errorf("Expected guiding question appended: %q", got)
	}

	got = PostprocessReply("What will you try first?")
	if strings.Contains(got, "What are your thoughts on this?") {
		t.Errorf("Guiding question appended to a reply that already asks one: %q", got)
	}
}

func TestBridgeReply(t *testing.T) {
	engine := &fakeEngine{reply: "Try smaller steps."}
	b := NewBridge(engine)

	got := b.Reply(context.Background(), "user-1", "I'm stuck on recursion")
	if !strings.Contains(got, "Try smaller steps.") || !strings.Contains(got, coachSignature) {
		t.Errorf("Unexpected reply: %q", got)
	}
	if !strings.HasPrefix(engine.lastQuery, "[inner state: ") {
		t.Errorf("Engine did not receive the preprocessed query: %q", engine.lastQuery)
	}
}

func TestBridgeReplyDegrades(t *testing.T) {
	b := NewBridge(&fakeEngine{err: errors.New("quota exceeded")})
	if got := b.Reply(context.Background(), "user-1", "hello"); got != FallbackReply {
		t.Errorf("Expected fallback on engine failure, got %q", got)
	}

	b = NewBridge(nil)
	if got := b.Reply(context.Background(), "user-1", "hello"); got != FallbackReply {
		t.Errorf("Expected fallback with no engine, got %q", got)
	}
}
