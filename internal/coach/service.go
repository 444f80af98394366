package coach

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/huang-jianhua/cow-coach/internal/domain"
	"github.com/huang-jianhua/cow-coach/internal/store"
)

// Service executes coach commands and intent flows against the record
// store. It never lets a store failure escape as an error: every outcome is
// a user-facing string, per the recoverable error taxonomy.
type Service struct {
	repo       store.Repository
	classifier *Classifier
	prefix     string
}

// NewService creates a coach service. An empty prefix selects DefaultPrefix;
// a nil classifier selects the default keyword rules.
func NewService(repo store.Repository, classifier *Classifier, prefix string) *Service {
	if classifier == nil {
		classifier = NewKeywordClassifier()
	}
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Service{
		repo:       repo,
		classifier: classifier,
		prefix:     prefix,
	}
}

// Classifier exposes the intent strategy so callers can register rules.
func (s *Service) Classifier() *Classifier {
	return s.classifier
}

// Handle processes one inbound message for a user. handled=false means the
// message is neither a coach command nor a recognized intent, and the caller
// should pass it on to downstream processing (e.g. the dialogue engine).
func (s *Service) Handle(ctx context.Context, userID, text string) (reply string, handled bool) {
	result := ParseCommand(text, s.prefix)
	if result.Handled {
		if result.Guidance != "" {
			return result.Guidance, true
		}
		return s.Execute(ctx, userID, result.Request), true
	}

	switch s.classifier.Classify(text) {
	case IntentProfileSetup:
		return s.handleProfileSetup(ctx, userID), true
	case IntentReflection:
		return s.handleReflection(ctx, userID, text), true
	case IntentProgressCheck:
		return s.handleProgressCheck(ctx, userID), true
	case IntentGoalSetting:
		return s.handleGoalSetting(ctx, userID, text), true
	default:
		return "", false
	}
}

// Execute runs a parsed command request and renders the outcome.
func (s *Service) Execute(ctx context.Context, userID string, req *Request) string {
	switch req.Op {
	case OpGoalSet:
		id, err := s.repo.CreateGoal(ctx, userID, domain.GoalTitle(req.Text), req.Text)
		if err != nil {
			return s.errorReply(err, userID, "create goal")
		}
		return FormatGoalCreated(id, req.Text, time.Now())

	case OpGoalList:
		goals, err := s.repo.ListGoals(ctx, userID)
		if err != nil {
			return s.errorReply(err, userID, "list goals")
		}
		return FormatGoalList(goals)

	case OpGoalComplete:
		goal, err := s.repo.CompleteGoal(ctx, userID, req.GoalID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return FormatGoalNotFound(req.GoalID)
			}
			return s.errorReply(err, userID, "complete goal")
		}
		return FormatGoalCompleted(goal)

	case OpGoalUpdate:
		goal, err := s.repo.UpdateGoal(ctx, userID, req.GoalID, domain.GoalTitle(req.Text), req.Text)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return FormatGoalNotFound(req.GoalID)
			}
			return s.errorReply(err, userID, "update goal")
		}
		return FormatGoalUpdated(goal)

	case OpMoodRecord:
		if _, err := s.repo.RecordMood(ctx, userID, req.Score, req.Text); err != nil {
			if errors.Is(err, store.ErrValidation) {
				return moodScorePrompt
			}
			return s.errorReply(err, userID, "record mood")
		}
		return FormatMoodRecorded(req.Score, req.Text, time.Now())

	case OpMoodCheck:
		records, err := s.repo.QueryRecent(ctx, userID, trendWindowDays)
		if err != nil {
			return s.errorReply(err, userID, "mood trend")
		}
		return FormatMoodTrend(AnalyzeMood(records))

	case OpInsights:
		snap, err := s.snapshot(ctx, userID)
		if err != nil {
			return s.errorReply(err, userID, "insights")
		}
		return FormatInsights(snap)

	case OpCelebrate:
		if _, err := s.repo.Celebrate(ctx, userID, req.Text); err != nil {
			return s.errorReply(err, userID, "celebrate")
		}
		return FormatCelebration(req.Text, time.Now())

	case OpHelp:
		return helpText

	default:
		return helpText
	}
}

func (s *Service) snapshot(ctx context.Context, userID string) (ProgressSnapshot, error) {
	sessions, err := s.repo.CountRecentSessions(ctx, userID, trendWindowDays)
	if err != nil {
		return ProgressSnapshot{}, err
	}
	avgMood, err := s.repo.AverageMood(ctx, userID)
	if err != nil {
		return ProgressSnapshot{}, err
	}
	milestones, err := s.repo.CountMilestones(ctx, userID)
	if err != nil {
		return ProgressSnapshot{}, err
	}
	active, err := s.repo.CountActiveGoals(ctx, userID)
	if err != nil {
		return ProgressSnapshot{}, err
	}
	completed, err := s.repo.CountCompletedGoals(ctx, userID)
	if err != nil {
		return ProgressSnapshot{}, err
	}
	return BuildSnapshot(sessions, avgMood, milestones, active, completed), nil
}

func (s *Service) handleProfileSetup(ctx context.Context, userID string) string {
	profile, err := s.repo.EnsureProfile(ctx, userID)
	if err != nil {
		return s.errorReply(err, userID, "ensure profile")
	}
	// A profile created by this very call carries a just-now creation stamp.
	if time.Since(profile.CreatedAt) < time.Second {
		return FormatWelcome()
	}
	return FormatWelcomeBack()
}

func (s *Service) handleReflection(ctx context.Context, userID, text string) string {
	if _, err := s.repo.EnsureProfile(ctx, userID); err != nil {
		return s.errorReply(err, userID, "ensure profile")
	}
	id, err := s.repo.AppendLearningRecord(ctx, userID, domain.TopicReflection, text, nil)
	if err != nil {
		return s.errorReply(err, userID, "save reflection")
	}
	return FormatReflectionSaved(id)
}

func (s *Service) handleProgressCheck(ctx context.Context, userID string) string {
	snap, err := s.snapshot(ctx, userID)
	if err != nil {
		return s.errorReply(err, userID, "progress check")
	}
	return FormatProgressReport(snap)
}

func (s *Service) handleGoalSetting(ctx context.Context, userID, text string) string {
	if _, err := s.repo.CreateGoal(ctx, userID, domain.GoalTitle(text), text); err != nil {
		return s.errorReply(err, userID, "create goal from intent")
	}
	return FormatGoalHeard()
}

// errorReply converts a store failure into a user-facing string. Validation
// and not-found errors are handled at their call sites; anything reaching
// here is a storage-level failure.
func (s *Service) errorReply(err error, userID, op string) string {
	slog.Error("coach operation failed", "op", op, "user_id", userID, "error", err)
	return retryLater
}
