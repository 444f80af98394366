package coach

import (
	"strings"
	"sync"
)

// Intent tags a free-text message with a coach flow. IntentNone means no
// rule matched and the message should fall through to downstream handling.
type Intent string

// Known intents.
const (
	IntentNone          Intent = ""
	IntentProfileSetup  Intent = "profile_setup"
	IntentReflection    Intent = "learning_reflection"
	IntentProgressCheck Intent = "progress_check"
	IntentGoalSetting   Intent = "goal_setting"
)

// Matcher decides whether a (lowercased) message belongs to an intent.
type Matcher func(text string) bool

type intentRule struct {
	intent Intent
	match  Matcher
}

// Classifier maps free text to intents through an ordered list of rules.
// It is a pluggable strategy: rules can be replaced or extended at runtime
// without touching the store or the command grammar.
type Classifier struct {
	mu    sync.RWMutex
	rules []intentRule
}

// KeywordMatcher matches when the text contains any of the keywords.
func KeywordMatcher(keywords ...string) Matcher {
	return func(text string) bool {
		for _, kw := range keywords {
			if strings.Contains(text, kw) {
				return true
			}
		}
		return false
	}
}

// NewKeywordClassifier builds the default keyword rule set.
func NewKeywordClassifier() *Classifier {
	c := &Classifier{}
	c.Register(IntentProfileSetup, KeywordMatcher("my name is", "i'm new", "first time here", "introduce myself"))
	c.Register(IntentReflection, KeywordMatcher("i learned", "i realized", "reflecting on", "my takeaway"))
	c.Register(IntentProgressCheck, KeywordMatcher("progress", "how am i doing", "my growth", "what's changed"))
	c.Register(IntentGoalSetting, KeywordMatcher("goal", "i want to", "i plan to", "i hope to"))
	return c
}

// Register appends a rule. Earlier rules win.
func (c *Classifier) Register(intent Intent, match Matcher) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rules = append(c.rules, intentRule{intent: intent, match: match})
}

// Classify returns the first matching intent, or IntentNone.
func (c *Classifier) Classify(text string) Intent {
	lowered := strings.ToLower(text)

	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, rule := range c.rules {
		if rule.match(lowered) {
			return rule.intent
		}
	}
	return IntentNone
}
