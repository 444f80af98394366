package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/huang-jianhua/cow-coach/internal/domain"
	_ "modernc.org/sqlite"
)

// defaultOpTimeout bounds every store call so a wedged database surfaces
// as ErrStorage instead of blocking the conversation.
const defaultOpTimeout = 5 * time.Second

const dateLayout = "2006-01-02"

// SQLiteStore implements Repository using SQLite.
type SQLiteStore struct {
	db        *sql.DB
	opTimeout time.Duration

	// Per-user mutexes serialize mutations for the same user ID so that
	// multi-step mutations (goal completion + milestone) never interleave.
	userMu sync.Mutex
	users  map[string]*sync.Mutex
}

// NewSQLite creates a new SQLite-backed repository. A non-positive opTimeout
// selects the default.
func NewSQLite(dbPath string, opTimeout time.Duration) (Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	// Open database with WAL mode for better concurrency.
	dsn := dbPath + "?_journal=WAL&_sync=NORMAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if opTimeout <= 0 {
		opTimeout = defaultOpTimeout
	}

	store := &SQLiteStore{
		db:        db,
		opTimeout: opTimeout,
		users:     make(map[string]*sync.Mutex),
	}
	if err := store.initSchema(); err != nil {
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	query := `
	PRAGMA busy_timeout = 5000;
	CREATE TABLE IF NOT EXISTS user_profiles (
		user_id TEXT PRIMARY KEY,
		display_name TEXT NOT NULL,
		goals_summary TEXT NOT NULL DEFAULT '',
		learning_style TEXT NOT NULL DEFAULT '',
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS learning_records (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id TEXT NOT NULL,
		session_date TEXT NOT NULL,
		topic TEXT NOT NULL,
		insights TEXT NOT NULL DEFAULT '',
		action_items TEXT NOT NULL DEFAULT '',
		mood_score INTEGER,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_records_user_date ON learning_records(user_id, session_date);

	CREATE TABLE IF NOT EXISTS goals (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id TEXT NOT NULL,
		title TEXT NOT NULL,
		description TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'active',
		created_at INTEGER NOT NULL,
		completed_at INTEGER
	);
	CREATE INDEX IF NOT EXISTS idx_goals_user ON goals(user_id, created_at);

	CREATE TABLE IF NOT EXISTS milestones (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id TEXT NOT NULL,
		title TEXT NOT NULL,
		description TEXT NOT NULL,
		achieved_at INTEGER NOT NULL,
		celebration_message TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_milestones_user ON milestones(user_id);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// lockUser acquires the mutation lock for a user ID and returns the unlock.
func (s *SQLiteStore) lockUser(userID string) func() {
	s.userMu.Lock()
	mu, ok := s.users[userID]
	if !ok {
		mu = &sync.Mutex{}
		s.users[userID] = mu
	}
	s.userMu.Unlock()

	mu.Lock()
	return mu.Unlock
}

// withTimeout bounds a store call unless the caller already set a deadline.
func (s *SQLiteStore) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.opTimeout)
}

// Ping verifies database connectivity.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	return nil
}

// EnsureProfile returns the existing profile or creates one with a default
// display name.
func (s *SQLiteStore) EnsureProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	unlock := s.lockUser(userID)
	defer unlock()

	profile, err := s.getProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile != nil {
		return profile, nil
	}

	// Truncate to the stored Unix-second precision so the creating call
	// returns the same timestamps later reads will see.
	now := time.Unix(time.Now().Unix(), 0)
	query := `
		INSERT INTO user_profiles (user_id, display_name, created_at, updated_at)
		VALUES (?, ?, ?, ?)`
	if _, err := s.db.ExecContext(ctx, query, userID, domain.DefaultDisplayName, now.Unix(), now.Unix()); err != nil {
		return nil, storageErr("insert profile", err)
	}

	return &domain.Profile{
		UserID:      userID,
		DisplayName: domain.DefaultDisplayName,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

func (s *SQLiteStore) getProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	query := `
		SELECT user_id, display_name, goals_summary, learning_style, created_at, updated_at
		FROM user_profiles WHERE user_id = ?`

	row := s.db.QueryRowContext(ctx, query, userID)

	var profile domain.Profile
	var createdAt, updatedAt int64

	err := row.Scan(
		&profile.UserID, &profile.DisplayName, &profile.GoalsSummary,
		&profile.LearningStyle, &createdAt, &updatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, storageErr("scan profile row", err)
	}

	profile.CreatedAt = time.Unix(createdAt, 0)
	profile.UpdatedAt = time.Unix(updatedAt, 0)
	return &profile, nil
}

// AppendLearningRecord appends an immutable learning record.
func (s *SQLiteStore) AppendLearningRecord(ctx context.Context, userID, topic, insights string, moodScore *int) (int64, error) {
	if moodScore != nil && !domain.ValidMoodScore(*moodScore) {
		return 0, validationErr(fmt.Sprintf("mood score %d outside range %d-%d",
			*moodScore, domain.MoodScoreMin, domain.MoodScoreMax))
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	unlock := s.lockUser(userID)
	defer unlock()

	now := time.Now()
	query := `
		INSERT INTO learning_records (user_id, session_date, topic, insights, mood_score, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`

	var score interface{}
	if moodScore != nil {
		score = *moodScore
	}

	result, err := s.db.ExecContext(ctx, query,
		userID, now.Format(dateLayout), topic, insights, score, now.Unix())
	if err != nil {
		return 0, storageErr("insert learning record", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, storageErr("learning record id", err)
	}
	return id, nil
}

// RecordMood appends a mood-tagged learning record.
func (s *SQLiteStore) RecordMood(ctx context.Context, userID string, score int, note string) (int64, error) {
	return s.AppendLearningRecord(ctx, userID, domain.TopicMood, note, &score)
}

// CreateGoal creates a new goal in active status.
func (s *SQLiteStore) CreateGoal(ctx context.Context, userID, title, description string) (int64, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	unlock := s.lockUser(userID)
	defer unlock()

	query := `
		INSERT INTO goals (user_id, title, description, status, created_at)
		VALUES (?, ?, ?, ?, ?)`

	result, err := s.db.ExecContext(ctx, query,
		userID, title, description, domain.GoalActive, time.Now().Unix())
	if err != nil {
		return 0, storageErr("insert goal", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, storageErr("goal id", err)
	}
	return id, nil
}

// CompleteGoal transitions an active goal to completed and appends the
// completion milestone within one transaction.
func (s *SQLiteStore) CompleteGoal(ctx context.Context, userID string, goalID int64) (*domain.Goal, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	unlock := s.lockUser(userID)
	defer unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, storageErr("begin complete goal", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	var goal domain.Goal
	var createdAt int64
	row := tx.QueryRowContext(ctx, `
		SELECT id, user_id, title, description, created_at
		FROM goals WHERE id = ? AND user_id = ? AND status = ?`,
		goalID, userID, domain.GoalActive)
	err = row.Scan(&goal.ID, &goal.UserID, &goal.Title, &goal.Description, &createdAt)
	if err == sql.ErrNoRows {
		return nil, notFoundErr("active goal", goalID)
	}
	if err != nil {
		return nil, storageErr("scan goal row", err)
	}

	now := time.Now()
	result, err := tx.ExecContext(ctx, `
		UPDATE goals SET status = ?, completed_at = ?
		WHERE id = ? AND user_id = ? AND status = ?`,
		domain.GoalCompleted, now.Unix(), goalID, userID, domain.GoalActive)
	if err != nil {
		return nil, storageErr("complete goal", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return nil, storageErr("complete goal rows affected", err)
	}
	if rows == 0 {
		return nil, notFoundErr("active goal", goalID)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO milestones (user_id, title, description, achieved_at, celebration_message)
		VALUES (?, ?, ?, ?, ?)`,
		userID, "Completed goal: "+goal.Title, goal.Description, now.Unix(), domain.GoalCelebration)
	if err != nil {
		return nil, storageErr("insert completion milestone", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, storageErr("commit complete goal", err)
	}

	goal.Status = domain.GoalCompleted
	goal.CreatedAt = time.Unix(createdAt, 0)
	goal.CompletedAt = &now
	return &goal, nil
}

// UpdateGoal replaces the title and description of an active goal.
func (s *SQLiteStore) UpdateGoal(ctx context.Context, userID string, goalID int64, title, description string) (*domain.Goal, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	unlock := s.lockUser(userID)
	defer unlock()

	result, err := s.db.ExecContext(ctx, `
		UPDATE goals SET title = ?, description = ?
		WHERE id = ? AND user_id = ? AND status = ?`,
		title, description, goalID, userID, domain.GoalActive)
	if err != nil {
		return nil, storageErr("update goal", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return nil, storageErr("update goal rows affected", err)
	}
	if rows == 0 {
		return nil, notFoundErr("active goal", goalID)
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, title, description, status, created_at, completed_at
		FROM goals WHERE id = ? AND user_id = ?`, goalID, userID)
	goal, err := scanGoal(row)
	if err != nil {
		return nil, err
	}
	if goal == nil {
		return nil, notFoundErr("goal", goalID)
	}
	return goal, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanGoal(row rowScanner) (*domain.Goal, error) {
	var goal domain.Goal
	var createdAt int64
	var completedAt sql.NullInt64

	err := row.Scan(
		&goal.ID, &goal.UserID, &goal.Title, &goal.Description,
		&goal.Status, &createdAt, &completedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, storageErr("scan goal row", err)
	}

	goal.CreatedAt = time.Unix(createdAt, 0)
	if completedAt.Valid {
		ts := time.Unix(completedAt.Int64, 0)
		goal.CompletedAt = &ts
	}
	return &goal, nil
}

// ListGoals returns all goals for a user, newest first.
func (s *SQLiteStore) ListGoals(ctx context.Context, userID string) ([]*domain.Goal, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	query := `
		SELECT id, user_id, title, description, status, created_at, completed_at
		FROM goals WHERE user_id = ?
		ORDER BY created_at DESC, id DESC`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, storageErr("query goals", err)
	}
	defer rows.Close() //nolint:errcheck // read-only cursor

	var goals []*domain.Goal
	for rows.Next() {
		goal, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		goals = append(goals, goal)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterate goals", err)
	}
	return goals, nil
}

// QueryRecent returns learning records within the trailing window,
// newest first.
func (s *SQLiteStore) QueryRecent(ctx context.Context, userID string, days int) ([]*domain.LearningRecord, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	threshold := time.Now().AddDate(0, 0, -days).Format(dateLayout)
	query := `
		SELECT id, user_id, session_date, topic, insights, action_items, mood_score, created_at
		FROM learning_records
		WHERE user_id = ? AND session_date >= ?
		ORDER BY session_date DESC, id DESC`

	rows, err := s.db.QueryContext(ctx, query, userID, threshold)
	if err != nil {
		return nil, storageErr("query recent records", err)
	}
	defer rows.Close() //nolint:errcheck // read-only cursor

	var records []*domain.LearningRecord
	for rows.Next() {
		var rec domain.LearningRecord
		var sessionDate string
		var moodScore sql.NullInt64
		var createdAt int64

		if err := rows.Scan(
			&rec.ID, &rec.UserID, &sessionDate, &rec.Topic,
			&rec.Insights, &rec.ActionItems, &moodScore, &createdAt,
		); err != nil {
			return nil, storageErr("scan record row", err)
		}

		if date, err := time.Parse(dateLayout, sessionDate); err == nil {
			rec.SessionDate = date
		}
		if moodScore.Valid {
			score := int(moodScore.Int64)
			rec.MoodScore = &score
		}
		rec.CreatedAt = time.Unix(createdAt, 0)
		records = append(records, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterate records", err)
	}
	return records, nil
}

// CountRecentSessions counts learning records within the trailing window.
func (s *SQLiteStore) CountRecentSessions(ctx context.Context, userID string, days int) (int, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	threshold := time.Now().AddDate(0, 0, -days).Format(dateLayout)
	return s.countQuery(ctx, `
		SELECT COUNT(*) FROM learning_records
		WHERE user_id = ? AND session_date >= ?`, userID, threshold)
}

// AverageMood returns the mean mood score across all records, 0 when none.
func (s *SQLiteStore) AverageMood(ctx context.Context, userID string) (float64, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	row := s.db.QueryRowContext(ctx, `
		SELECT COALESCE(AVG(mood_score), 0) FROM learning_records
		WHERE user_id = ? AND mood_score IS NOT NULL`, userID)

	var avg float64
	if err := row.Scan(&avg); err != nil {
		return 0, storageErr("average mood", err)
	}
	return avg, nil
}

// CountMilestones counts all milestones for a user.
func (s *SQLiteStore) CountMilestones(ctx context.Context, userID string) (int, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	return s.countQuery(ctx, `SELECT COUNT(*) FROM milestones WHERE user_id = ?`, userID)
}

// CountActiveGoals counts goals in active status.
func (s *SQLiteStore) CountActiveGoals(ctx context.Context, userID string) (int, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	return s.countQuery(ctx, `
		SELECT COUNT(*) FROM goals WHERE user_id = ? AND status = ?`,
		userID, domain.GoalActive)
}

// CountCompletedGoals counts goals in completed status.
func (s *SQLiteStore) CountCompletedGoals(ctx context.Context, userID string) (int, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	return s.countQuery(ctx, `
		SELECT COUNT(*) FROM goals WHERE user_id = ? AND status = ?`,
		userID, domain.GoalCompleted)
}

func (s *SQLiteStore) countQuery(ctx context.Context, query string, args ...interface{}) (int, error) {
	row := s.db.QueryRowContext(ctx, query, args...)
	var count int
	if err := row.Scan(&count); err != nil {
		return 0, storageErr("count query", err)
	}
	return count, nil
}

// Celebrate appends a milestone for a user-declared achievement.
func (s *SQLiteStore) Celebrate(ctx context.Context, userID, achievement string) (int64, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	unlock := s.lockUser(userID)
	defer unlock()

	query := `
		INSERT INTO milestones (user_id, title, description, achieved_at, celebration_message)
		VALUES (?, ?, ?, ?, ?)`

	result, err := s.db.ExecContext(ctx, query,
		userID, domain.PersonalMilestoneName, achievement,
		time.Now().Unix(), domain.PersonalCelebration)
	if err != nil {
		return 0, storageErr("insert milestone", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, storageErr("milestone id", err)
	}
	return id, nil
}
