// Package coach implements the AI coach toolkit: command parsing, goal and
// mood tracking, and derived progress reporting.
package coach

import (
	"strconv"
	"strings"
	"unicode"
)

// DefaultPrefix marks a line as a coach command.
const DefaultPrefix = "/"

// Op identifies a parsed command operation.
type Op int

// Command operations.
const (
	OpGoalSet Op = iota + 1
	OpGoalList
	OpGoalComplete
	OpGoalUpdate
	OpMoodRecord
	OpMoodCheck
	OpInsights
	OpCelebrate
	OpHelp
)

// Request is a validated, typed operation request produced by the parser.
type Request struct {
	Op     Op
	Text   string // goal description, mood note, or achievement text
	GoalID int64
	Score  int
}

// ParseResult is the three-way outcome of parsing a line.
// Handled=false means the line is not a coach command and the caller should
// fall through to other processing. A non-empty Guidance means the verb was
// recognized but the arguments were malformed; the conversation must never
// visibly break, so malformed input yields a usage string instead of an error.
type ParseResult struct {
	Handled  bool
	Request  *Request
	Guidance string
}

func notHandled() ParseResult {
	return ParseResult{}
}

func guidance(text string) ParseResult {
	return ParseResult{Handled: true, Guidance: text}
}

func request(req Request) ParseResult {
	return ParseResult{Handled: true, Request: &req}
}

// ParseCommand parses a single line of text beginning with the command
// prefix. An empty prefix selects DefaultPrefix.
func ParseCommand(line, prefix string) ParseResult {
	if prefix == "" {
		prefix = DefaultPrefix
	}

	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, prefix) {
		return notHandled()
	}

	body := strings.TrimSpace(strings.TrimPrefix(line, prefix))
	fields := strings.Fields(body)
	if len(fields) == 0 {
		return notHandled()
	}

	verb := strings.ToLower(fields[0])
	switch verb {
	case "goals":
		return parseGoals(body, fields)
	case "mood":
		return parseMood(body, fields)
	case "insights":
		return request(Request{Op: OpInsights})
	case "celebrate":
		text := unquote(rest(body, 1))
		if text == "" {
			return guidance(celebrateUsage)
		}
		return request(Request{Op: OpCelebrate, Text: text})
	case "help":
		return request(Request{Op: OpHelp})
	default:
		// Unknown verbs are not an error; downstream handlers may claim them.
		return notHandled()
	}
}

func parseGoals(body string, fields []string) ParseResult {
	if len(fields) < 2 {
		return guidance(goalsUsage)
	}

	switch strings.ToLower(fields[1]) {
	case "set":
		text := unquote(rest(body, 2))
		if text == "" {
			return guidance(goalSetPrompt)
		}
		return request(Request{Op: OpGoalSet, Text: text})
	case "list":
		return request(Request{Op: OpGoalList})
	case "complete":
		if len(fields) < 3 {
			return guidance(goalsUsage)
		}
		id, err := strconv.ParseInt(fields[2], 10, 64)
		if err != nil {
			return guidance(goalsUsage)
		}
		return request(Request{Op: OpGoalComplete, GoalID: id})
	case "update":
		if len(fields) < 4 {
			return guidance(goalsUsage)
		}
		id, err := strconv.ParseInt(fields[2], 10, 64)
		if err != nil {
			return guidance(goalsUsage)
		}
		text := unquote(rest(body, 3))
		if text == "" {
			return guidance(goalsUsage)
		}
		return request(Request{Op: OpGoalUpdate, GoalID: id, Text: text})
	default:
		return guidance(goalsUsage)
	}
}

func parseMood(body string, fields []string) ParseResult {
	if len(fields) < 2 {
		return guidance(moodUsage)
	}

	if strings.ToLower(fields[1]) == "check" {
		return request(Request{Op: OpMoodCheck})
	}

	score, err := strconv.Atoi(fields[1])
	if err != nil {
		return guidance(moodScorePrompt)
	}
	if score < 1 || score > 10 {
		return guidance(moodScorePrompt)
	}

	note := unquote(rest(body, 2))
	return request(Request{Op: OpMoodRecord, Score: score, Text: note})
}

// rest returns the raw remainder of s after skipping n whitespace-separated
// tokens.
func rest(s string, n int) string {
	s = strings.TrimSpace(s)
	for i := 0; i < n; i++ {
		idx := strings.IndexFunc(s, unicode.IsSpace)
		if idx < 0 {
			return ""
		}
		s = strings.TrimSpace(s[idx:])
	}
	return s
}

// unquote strips one layer of surrounding double quotes when both are
// present. Otherwise the remaining tokens are rejoined with single spaces,
// so unmatched quotes and embedded runs of whitespace stay deterministic.
func unquote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) {
		return s[1 : len(s)-1]
	}
	return strings.Join(strings.Fields(s), " ")
}
