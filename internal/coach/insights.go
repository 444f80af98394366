package coach

import (
	"github.com/huang-jianhua/cow-coach/internal/domain"
)

// Aggregation design constants. The trend split compares the three newest
// scores against an older window that starts one record past the recent
// window, so a single transitional entry does not blur the comparison.
const (
	trendWindowDays  = 30
	trendMaxRecords  = 10
	trendMinRecords  = 6
	trendRecentSize  = 3
	trendOlderOffset = 4
	trendOlderSize   = 3
	trendDelta       = 0.5

	highFrequencySessions = 20
	buildingHabitSessions = 10

	moodHighBand   = 8.0
	moodSteadyBand = 6.0
)

// ProgressTier classifies 30-day session frequency.
type ProgressTier int

// Progress tiers, most engaged first.
const (
	TierOnboarding ProgressTier = iota
	TierHighFrequency
	TierBuildingHabit
	TierEncourage
)

// MoodBand classifies an average mood score.
type MoodBand int

// Mood bands.
const (
	MoodHigh MoodBand = iota
	MoodSteady
	MoodLow
)

// Trend is the three-bucket mood trend classification.
type Trend string

// Trend values. TrendUnknown means fewer than six scored records exist.
const (
	TrendRising  Trend = "rising"
	TrendFalling Trend = "falling"
	TrendStable  Trend = "stable"
	TrendUnknown Trend = ""
)

// ProgressSnapshot is the derived view behind the insights and
// progress-check reports.
type ProgressSnapshot struct {
	Sessions       int
	AvgMood        float64
	Milestones     int
	ActiveGoals    int
	CompletedGoals int
	Tier           ProgressTier
	Band           MoodBand
}

// BuildSnapshot classifies raw aggregate counts into report tiers.
func BuildSnapshot(sessions int, avgMood float64, milestones, activeGoals, completedGoals int) ProgressSnapshot {
	snap := ProgressSnapshot{
		Sessions:       sessions,
		AvgMood:        avgMood,
		Milestones:     milestones,
		ActiveGoals:    activeGoals,
		CompletedGoals: completedGoals,
	}

	switch {
	case sessions == 0:
		snap.Tier = TierOnboarding
	case sessions >= highFrequencySessions:
		snap.Tier = TierHighFrequency
	case sessions >= buildingHabitSessions:
		snap.Tier = TierBuildingHabit
	default:
		snap.Tier = TierEncourage
	}

	switch {
	case avgMood >= moodHighBand:
		snap.Band = MoodHigh
	case avgMood >= moodSteadyBand:
		snap.Band = MoodSteady
	default:
		snap.Band = MoodLow
	}

	return snap
}

// MoodTrend is the derived mood view computed from stored learning records.
type MoodTrend struct {
	Records   []*domain.LearningRecord // scored records, newest first, capped
	Scores    []int                    // scores of Records in the same order
	Average   float64
	RecentAvg float64
	OlderAvg  float64
	Trend     Trend
}

// AnalyzeMood computes the mood trend from learning records ordered newest
// first. Unscored records are ignored; at most the ten newest scored records
// participate. The trend is defined only once six scored records exist.
func AnalyzeMood(records []*domain.LearningRecord) MoodTrend {
	var trend MoodTrend
	for _, rec := range records {
		if !rec.HasMoodScore() {
			continue
		}
		trend.Records = append(trend.Records, rec)
		trend.Scores = append(trend.Scores, *rec.MoodScore)
		if len(trend.Scores) == trendMaxRecords {
			break
		}
	}

	n := len(trend.Scores)
	if n == 0 {
		return trend
	}

	trend.Average = mean(trend.Scores)
	trend.RecentAvg = mean(trend.Scores[:min(trendRecentSize, n)])
	trend.Trend = TrendUnknown

	if n >= trendMinRecords {
		older := trend.Scores[trendOlderOffset:min(trendOlderOffset+trendOlderSize, n)]
		trend.OlderAvg = mean(older)

		switch {
		case trend.RecentAvg > trend.OlderAvg+trendDelta:
			trend.Trend = TrendRising
		case trend.RecentAvg < trend.OlderAvg-trendDelta:
			trend.Trend = TrendFalling
		default:
			trend.Trend = TrendStable
		}
	}

	return trend
}

func mean(scores []int) float64 {
	if len(scores) == 0 {
		return 0
	}
	sum := 0
	for _, s := range scores {
		sum += s
	}
	return float64(sum) / float64(len(scores))
}
