package coach

import (
	"fmt"
	"strings"
	"time"

	"github.com/huang-jianhua/cow-coach/internal/domain"
)

// Rendering is stateless product copy; the structured data behind it comes
// from the store and the aggregation code, never from here.

const (
	timeLayout      = "2006-01-02 15:04"
	dateLayout      = "2006-01-02"
	shortDateLayout = "01-02"
)

const goalsUsage = `🎯 Goal commands:

/goals set "your goal description" - set a new goal
/goals list - review your goals
/goals update [goal ID] "new description" - update a goal
/goals complete [goal ID] - mark a goal complete

For example: /goals set "Master Python basics in 30 days"`

const goalSetPrompt = `Please describe your goal, for example: /goals set "Learn Python programming"`

const moodUsage = `😊 Mood commands:

/mood 8 "Picked up a new skill today, feeling accomplished"
/mood check - review your mood trend

Mood scores run from 1 to 10.
Tracking your emotions is a key step in self-awareness!`

const moodScorePrompt = `Please enter a valid mood score (1-10), for example: /mood 8 "Feeling great today"`

const celebrateUsage = `🎉 Celebrate an achievement:

/celebrate "I learned a new skill today"
Record and celebrate every moment of growth!`

const helpText = `🛠️ Coach toolkit commands:
📋 Goals:
/goals set "description" - set a new goal
/goals list - review your goals
/goals update [ID] "new description" - update a goal
/goals complete [ID] - mark a goal complete
😊 Mood tracking:
/mood 8 "note" - record your mood (1-10)
/mood check - review your mood trend
💡 Insights:
/insights - personal learning report
🎉 Celebrate:
/celebrate "achievement" - record a milestone
Built on transformative learning: focus on inner growth! ✨`

const noGoalsYet = `📋 You have not set any goals yet.

Use /goals set "your goal" to set your first one!

Remember: a clear goal is where transformation starts. ✨`

const noMoodRecords = `📊 No mood records yet.

Start tracking how you feel with:
/mood 8 "how today went"

Emotion tracking is a powerful tool for growth. ✨`

const onboardingReport = `📊 Let's start tracking your growth!

I don't have enough data to analyze your progress yet. A good way to begin:

1. Set one clear learning goal
2. Reflect deeply two or three times a week
3. Record what you learn and how you feel

Ready to start the journey? 🚀`

// retryLater is the generic reply for storage failures; the failure is
// logged, never silently swallowed.
const retryLater = "Sorry, something went wrong while handling that. Please try again later."

// moodEmoji is the ten-step emoji ladder indexed by score-1.
var moodEmoji = [10]string{"😢", "😔", "😟", "😐", "🙂", "😊", "😃", "😄", "😁", "🎉"}

func emojiForScore(score int) string {
	if score < domain.MoodScoreMin || score > domain.MoodScoreMax {
		return "😐"
	}
	return moodEmoji[score-1]
}

func emojiForBand(band MoodBand) string {
	switch band {
	case MoodHigh:
		return "😊"
	case MoodSteady:
		return "😐"
	default:
		return "😔"
	}
}

// FormatGoalCreated renders the confirmation for a newly created goal.
func FormatGoalCreated(goalID int64, text string, at time.Time) string {
	return fmt.Sprintf(`🎯 Goal set!

Goal ID: %d
Goal: %s
Created: %s

Remember: transformative learning is about who you become along the way. Let's get there step by step! ✨

Use /goals list to review all your goals`, goalID, text, at.Format(timeLayout))
}

// FormatGoalList renders goals partitioned by status, active first.
func FormatGoalList(goals []*domain.Goal) string {
	if len(goals) == 0 {
		return noGoalsYet
	}

	var active, completed []string
	for _, g := range goals {
		if g.IsActive() {
			active = append(active, fmt.Sprintf("🎯 [%d] %s\n   📝 %s\n   📅 %s",
				g.ID, g.Title, g.Description, g.CreatedAt.Format(shortDateLayout)))
			continue
		}
		completedDate := "unknown"
		if g.CompletedAt != nil {
			completedDate = g.CompletedAt.Format(shortDateLayout)
		}
		completed = append(completed, fmt.Sprintf("✅ [%d] %s (completed %s)", g.ID, g.Title, completedDate))
	}

	var b strings.Builder
	b.WriteString("📋 Your goals:\n\n")
	if len(active) > 0 {
		b.WriteString("🔥 In progress:\n" + strings.Join(active, "\n\n") + "\n\n")
	}
	if len(completed) > 0 {
		b.WriteString("🎉 Completed:\n" + strings.Join(completed, "\n"))
	}
	b.WriteString("\n\n💡 Use /goals complete [ID] to mark one done")
	return b.String()
}

// FormatGoalCompleted renders the celebration for a completed goal.
func FormatGoalCompleted(goal *domain.Goal) string {
	completedAt := time.Now()
	if goal.CompletedAt != nil {
		completedAt = *goal.CompletedAt
	}
	return fmt.Sprintf(`🎉 Congratulations, goal achieved!

✅ %s
📝 %s
🕐 Completed: %s

This is a real milestone! Transformative learning lives in breakthroughs like this one.

How does it feel to have finished this goal? That inner experience is the true mark of growth. ✨`,
		goal.Title, goal.Description, completedAt.Format(timeLayout))
}

// FormatGoalUpdated renders the confirmation for an updated goal.
func FormatGoalUpdated(goal *domain.Goal) string {
	return fmt.Sprintf(`✏️ Goal updated!

Goal ID: %d
Goal: %s

A goal that evolves with you is a goal you will actually reach. Use /goals list to review it. ✨`,
		goal.ID, goal.Description)
}

// FormatGoalNotFound renders the reply when no active goal matches the ID.
func FormatGoalNotFound(goalID int64) string {
	return fmt.Sprintf("No active goal with ID %d was found.", goalID)
}

// FormatMoodRecorded renders the confirmation for a recorded mood.
func FormatMoodRecorded(score int, note string, at time.Time) string {
	return fmt.Sprintf(`Mood recorded! %s

Score: %d/10
Time: %s
Note: %s

Remember, emotions are a key signal in learning. Keep up this self-awareness! ✨

Use /mood check to review your mood trend`,
		emojiForScore(score), score, at.Format(timeLayout), note)
}

// FormatMoodTrend renders the mood trend report.
func FormatMoodTrend(trend MoodTrend) string {
	if len(trend.Scores) == 0 {
		return noMoodRecords
	}

	trendLine := ""
	switch trend.Trend {
	case TrendRising:
		trendLine = "📈 Rising - wonderful!"
	case TrendFalling:
		trendLine = "📉 Falling - worth paying attention to"
	case TrendStable:
		trendLine = "📊 Holding steady"
	case TrendUnknown:
		trendLine = "Not enough records yet for a trend"
	}

	var b strings.Builder
	fmt.Fprintf(&b, `📊 Your mood trend:

%s Average mood: %.1f/10
📈 Trend: %s
📅 Records: %d

Recent entries:`,
		emojiForScore(int(trend.Average+0.5)), trend.Average, trendLine, len(trend.Scores))

	shown := trend.Records
	if len(shown) > 5 {
		shown = shown[:5]
	}
	for _, rec := range shown {
		note := rec.Insights
		if runes := []rune(note); len(runes) > 20 {
			note = string(runes[:20]) + "..."
		}
		fmt.Fprintf(&b, "\n%s %d/10 - %s %s",
			emojiForScore(*rec.MoodScore), *rec.MoodScore,
			rec.SessionDate.Format(dateLayout), note)
	}

	b.WriteString("\n\n💡 Steady emotional awareness is the foundation of inner growth. Keep recording!")
	return b.String()
}

// FormatInsights renders the personal learning report.
func FormatInsights(snap ProgressSnapshot) string {
	if snap.Tier == TierOnboarding {
		return onboardingReport
	}

	var lines []string
	switch snap.Tier {
	case TierHighFrequency:
		lines = append(lines, "🔥 Your learning frequency is high! That consistency is the key to transformation.")
	case TierBuildingHabit:
		lines = append(lines, "👍 You are building a solid learning habit. Keep going!")
	default:
		lines = append(lines, "💪 Try raising the frequency - two or three deep sessions a week works wonders.")
	}

	switch snap.Band {
	case MoodHigh:
		lines = append(lines, "😊 Your learning state is very positive! Mood is a strong indicator of learning quality.")
	case MoodSteady:
		lines = append(lines, "😐 Mood is middling - worth noticing what shapes how learning feels for you.")
	default:
		lines = append(lines, "😔 Watch your mood; the pace or approach may need adjusting.")
	}

	if snap.CompletedGoals > 0 {
		lines = append(lines, fmt.Sprintf("🎯 %d goal(s) completed - proof you follow through!", snap.CompletedGoals))
	}
	if snap.ActiveGoals > 0 {
		lines = append(lines, fmt.Sprintf("📋 %d active goal(s) - remember to review them regularly.", snap.ActiveGoals))
	}

	return fmt.Sprintf(`💡 Your personal learning insights:

📊 Overview:
• Sessions in the last 30 days: %d
• Average mood: %.1f/10
• Goals completed: %d
• Goals in progress: %d
• Milestones: %d

🎯 Personalized suggestions:

%s

🌟 Transformative learning reminder:
Real growth is not just accumulating knowledge - it is inner change. Keep up this depth of self-awareness and reflection!`,
		snap.Sessions, snap.AvgMood, snap.CompletedGoals, snap.ActiveGoals, snap.Milestones,
		strings.Join(lines, "\n"))
}

// FormatProgressReport renders the conversational progress check.
func FormatProgressReport(snap ProgressSnapshot) string {
	if snap.Tier == TierOnboarding {
		return onboardingReport
	}

	insight := ""
	switch snap.Tier {
	case TierHighFrequency:
		insight = "🎉 Your learning frequency is high - that consistency is the key to transformation!"
	case TierBuildingHabit:
		insight = "👍 You are building a solid learning habit. Keep it up!"
	default:
		insight = "💪 More frequent sessions make the transformation visible - try three deep conversations a week?"
	}

	return fmt.Sprintf(`📈 Your growth report:

✨ Sessions in the last 30 days: %d
%s Average mood: %.1f/10
🎯 Milestones reached: %d
📋 Active goals: %d

%s

Keep up this attitude! Every conversation plants a seed of growth. 🌟`,
		snap.Sessions, emojiForBand(snap.Band), snap.AvgMood, snap.Milestones, snap.ActiveGoals, insight)
}

// FormatCelebration renders the reply for a manually celebrated achievement.
func FormatCelebration(achievement string, at time.Time) string {
	return fmt.Sprintf(`🎉 Congratulations on your achievement!

✨ %s
🕐 Time: %s

Every bit of growth deserves to be seen and celebrated! Positive self-recognition fuels the next step.

Remember: transformative learning values every breakthrough, big or small. Keep noticing your growth! 🌟`,
		achievement, at.Format(timeLayout))
}

// reflectionQuestions guide the user deeper after a recorded reflection.
var reflectionQuestions = []string{
	"What does this realization mean to you?",
	"How did you arrive at this understanding?",
	"How will it change what you do next?",
	"Where do you want to apply this new understanding?",
}

// FormatReflectionSaved renders the reply to a recorded reflection. The
// follow-up question is chosen deterministically from the record ID.
func FormatReflectionSaved(recordID int64) string {
	question := reflectionQuestions[int(recordID)%len(reflectionQuestions)]
	return fmt.Sprintf(`💡 A great reflection - I can feel the growth in it.

%s

Deep self-awareness like this is the heart of transformative learning. Every reflection plants a seed for inner change. Keep sharing your thoughts. 🌱`,
		question)
}

// FormatWelcome renders the first-contact profile message.
func FormatWelcome() string {
	return `🌟 Welcome to your personal AI coach space!

I'm a coach built around transformative learning. I believe everyone holds real growth potential - the key is finding the way of learning that fits you.

To help you best, I'd love to know:

1. What should I call you?
2. Where do you most want a breakthrough right now?
3. How do you like to learn? (theory first, or hands-on?)

Share as much as you like, and we'll shape a growth plan around you. ✨`
}

// FormatWelcomeBack renders the returning-user profile message.
func FormatWelcomeBack() string {
	return `🎯 Great to see you again!

I remember our earlier conversations. If you'd like to update your profile or set a new growth goal, tell me what changed.

Or we can dive straight into today's topic. What would you like to explore?`
}

// FormatGoalHeard renders the coaching reply to a free-text goal intent.
func FormatGoalHeard() string {
	return `🎯 Good - I hear your goal.

Let's shape a path to it together:

1. How much time do you want to give this goal?
2. What do you expect the biggest challenge to be?
3. What foundations do you already have?

Remember, transformative learning is about the inner growth along the way, not just the finish line. Step by step! ✨`
}
