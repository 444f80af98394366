package coach

import (
	"testing"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		name string
		line string
		want Request
	}{
		{
			name: "goal set quoted",
			line: `/goals set "Master Go in 30 days"`,
			want: Request{Op: OpGoalSet, Text: "Master Go in 30 days"},
		},
		{
			name: "goal set unquoted multiword",
			line: "/goals set learn   distributed    systems",
			want: Request{Op: OpGoalSet, Text: "learn distributed systems"},
		},
		{
			name: "goal set unmatched quote kept verbatim",
			line: `/goals set "learn Go`,
			want: Request{Op: OpGoalSet, Text: `"learn Go`},
		},
		{
			name: "goal list",
			line: "/goals list",
			want: Request{Op: OpGoalList},
		},
		{
			name: "goal complete",
			line: "/goals complete 5",
			want: Request{Op: OpGoalComplete, GoalID: 5},
		},
		{
			name: "goal update",
			line: `/goals update 3 "a sharper goal"`,
			want: Request{Op: OpGoalUpdate, GoalID: 3, Text: "a sharper goal"},
		},
		{
			name: "mood with note",
			line: `/mood 8 "picked up a new skill"`,
			want: Request{Op: OpMoodRecord, Score: 8, Text: "picked up a new skill"},
		},
		{
			name: "mood without note",
			line: "/mood 3",
			want: Request{Op: OpMoodRecord, Score: 3},
		},
		{
			name: "mood check",
			line: "/mood check",
			want: Request{Op: OpMoodCheck},
		},
		{
			name: "insights",
			line: "/insights",
			want: Request{Op: OpInsights},
		},
		{
			name: "celebrate",
			line: `/celebrate "shipped my first service"`,
			want: Request{Op: OpCelebrate, Text: "shipped my first service"},
		},
		{
			name: "help",
			line: "/help",
			want: Request{Op: OpHelp},
		},
		{
			name: "leading whitespace tolerated",
			line: "   /goals list",
			want: Request{Op: OpGoalList},
		},
		{
			name: "verb case insensitive",
			line: "/GOALS LIST",
			want: Request{Op: OpGoalList},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ParseCommand(tt.line, "")
			if !result.Handled {
				t.Fatalf("Expected line to be handled: %q", tt.line)
			}
			if result.Guidance != "" {
				t.Fatalf("Unexpected guidance: %q", result.Guidance)
			}
			if *result.Request != tt.want {
				t.Errorf("Parsed %+v, want %+v", *result.Request, tt.want)
			}
		})
	}
}

func TestParseCommandGuidance(t *testing.T) {
	tests := []struct {
		name string
		line string
		want string
	}{
		{"goals without subcommand", "/goals", goalsUsage},
		{"goals unknown subcommand", "/goals destroy 1", goalsUsage},
		{"goal set without text", "/goals set", goalSetPrompt},
		{"goal complete without id", "/goals complete", goalsUsage},
		{"goal complete non-numeric id", "/goals complete abc", goalsUsage},
		{"goal update without text", "/goals update 3", goalsUsage},
		{"goal update non-numeric id", "/goals update abc text", goalsUsage},
		{"mood without score", "/mood", moodUsage},
		{"mood score too low", "/mood 0", moodScorePrompt},
		{"mood score too high", "/mood 11", moodScorePrompt},
		{"mood score non-numeric", "/mood great", moodScorePrompt},
		{"celebrate without text", "/celebrate", celebrateUsage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ParseCommand(tt.line, "")
			if !result.Handled {
				t.Fatalf("Expected line to be handled: %q", tt.line)
			}
			if result.Request != nil {
				t.Fatalf("Expected guidance, got request %+v", *result.Request)
			}
			if result.Guidance != tt.want {
				t.Errorf("Got guidance %q, want %q", result.Guidance, tt.want)
			}
		})
	}
}

func TestParseCommandNotHandled(t *testing.T) {
	lines := []string{
		"hello there",
		"goals list",
		"/",
		"/   ",
		"/frobnicate now",
		"",
	}
	for _, line := range lines {
		if result := ParseCommand(line, ""); result.Handled {
			t.Errorf("Expected %q to fall through, got %+v", line, result)
		}
	}
}

func TestParseCommandCustomPrefix(t *testing.T) {
	result := ParseCommand("!goals list", "!")
	if !result.Handled || result.Request == nil || result.Request.Op != OpGoalList {
		t.Fatalf("Expected goal list with custom prefix, got %+v", result)
	}

	if result := ParseCommand("/goals list", "!"); result.Handled {
		t.Errorf("Default prefix must not match when a custom prefix is set: %+v", result)
	}
}
