package coach

import (
	"strings"
	"testing"
)

func TestClassifyDefaults(t *testing.T) {
	c := NewKeywordClassifier()

	tests := []struct {
		text string
		want Intent
	}{
		{"Hi, my name is Ada", IntentProfileSetup},
		{"I'm new here, where do I start?", IntentProfileSetup},
		{"Today I learned how channels work", IntentReflection},
		{"I realized I rush through exercises", IntentReflection},
		{"How am I doing so far?", IntentProgressCheck},
		{"Can you show my progress?", IntentProgressCheck},
		{"I want to read one paper a week", IntentGoalSetting},
		{"My goal is daily practice", IntentGoalSetting},
		{"The weather is nice today", IntentNone},
		{"", IntentNone},
	}

	for _, tt := range tests {
		if got := c.Classify(tt.text); got != tt.want {
			t.Errorf("Classify(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestClassifyEarlierRuleWins(t *testing.T) {
	c := NewKeywordClassifier()

	// Matches both the reflection and goal-setting keyword sets; the
	// reflection rule is registered first.
	if got := c.Classify("I learned a lot and I want to keep going"); got != IntentReflection {
		t.Errorf("Classify = %q, want reflection", got)
	}
}

func TestClassifyCaseInsensitive(t *testing.T) {
	c := NewKeywordClassifier()
	if got := c.Classify("MY NAME IS Grace"); got != IntentProfileSetup {
		t.Errorf("Classify = %q, want profile_setup", got)
	}
}

func TestRegisterCustomRule(t *testing.T) {
	c := &Classifier{}
	c.Register(IntentProgressCheck, func(text string) bool {
		return strings.Contains(text, "scoreboard")
	})

	if got := c.Classify("show me the SCOREBOARD"); got != IntentProgressCheck {
		t.Errorf("Classify = %q, want progress_check", got)
	}
	if got := c.Classify("nothing relevant"); got != IntentNone {
		t.Errorf("Classify = %q, want none", got)
	}
}

func TestKeywordMatcher(t *testing.T) {
	m := KeywordMatcher("alpha", "beta")
	if !m("contains alpha somewhere") {
		t.Error("Expected match on alpha")
	}
	if m("gamma only") {
		t.Error("Did not expect a match")
	}
}
