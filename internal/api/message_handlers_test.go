package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/huang-jianhua/cow-coach/internal/dialogue"
	"github.com/huang-jianhua/cow-coach/internal/domain"
	"github.com/huang-jianhua/cow-coach/internal/identity"
)

// fakeRepo stubs store.Repository for handler tests. Only the methods the
// handlers touch carry behavior.
type fakeRepo struct {
	goals   []*domain.Goal
	pingErr error
	listErr error
}

func (f *fakeRepo) EnsureProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	return &domain.Profile{UserID: userID, DisplayName: domain.DefaultDisplayName, CreatedAt: time.Now()}, nil
}

func (f *fakeRepo) AppendLearningRecord(ctx context.Context, userID, topic, insights string, moodScore *int) (int64, error) {
	return 0, nil
}

func (f *fakeRepo) CreateGoal(ctx context.Context, userID, title, description string) (int64, error) {
	return 0, nil
}

func (f *fakeRepo) CompleteGoal(ctx context.Context, userID string, goalID int64) (*domain.Goal, error) {
	return nil, nil
}

func (f *fakeRepo) UpdateGoal(ctx context.Context, userID string, goalID int64, title, description string) (*domain.Goal, error) {
	return nil, nil
}

func (f *fakeRepo) ListGoals(ctx context.Context, userID string) ([]*domain.Goal, error) {
	return f.goals, f.listErr
}

func (f *fakeRepo) RecordMood(ctx context.Context, userID string, score int, note string) (int64, error) {
	return 0, nil
}

func (f *fakeRepo) QueryRecent(ctx context.Context, userID string, days int) ([]*domain.LearningRecord, error) {
	return nil, nil
}

func (f *fakeRepo) CountRecentSessions(ctx context.Context, userID string, days int) (int, error) {
	return 0, nil
}

func (f *fakeRepo) AverageMood(ctx context.Context, userID string) (float64, error) { return 0, nil }
func (f *fakeRepo) CountMilestones(ctx context.Context, userID string) (int, error) { return 0, nil }
func (f *fakeRepo) CountActiveGoals(ctx context.Context, userID string) (int, error) {
	return 0, nil
}
func (f *fakeRepo) CountCompletedGoals(ctx context.Context, userID string) (int, error) {
	return 0, nil
}
func (f *fakeRepo) Celebrate(ctx context.Context, userID, achievement string) (int64, error) {
	return 0, nil
}
func (f *fakeRepo) Ping(ctx context.Context) error { return f.pingErr }
func (f *fakeRepo) Close() error                   { return nil }

// fakeDispatcher claims messages beginning with "/".
type fakeDispatcher struct {
	lastUserID string
	lastText   string
}

func (f *fakeDispatcher) Handle(ctx context.Context, userID, text string) (string, bool) {
	f.lastUserID = userID
	f.lastText = text
	if strings.HasPrefix(text, "/") {
		return "toolkit reply", true
	}
	return "", false
}

type fakeResponder struct{ reply string }

func (f *fakeResponder) Reply(ctx context.Context, userID, message string) string {
	return f.reply
}

func identifiedRequest(method, target, body string) *http.Request {
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, target, nil)
	} else {
		r = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	return r.WithContext(identity.WithIdentity(r.Context(), "anon_user", "tab-1"))
}

func decodeMessage(t *testing.T, rec *httptest.ResponseRecorder) MessageResponse {
	t.Helper()
	var resp MessageResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	return resp
}

func TestHandleMessageCommand(t *testing.T) {
	dispatcher := &fakeDispatcher{}
	h := NewHandler(&fakeRepo{}, dispatcher, &fakeResponder{reply: "chat reply"})

	rec := httptest.NewRecorder()
	h.HandleMessage(rec, identifiedRequest(http.MethodPost, "/api/message", `{"text":"/goals list"}`))

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	resp := decodeMessage(t, rec)
	if !resp.Handled || resp.Reply != "toolkit reply" {
		t.Errorf("Unexpected response: %+v", resp)
	}
	if dispatcher.lastUserID != "anon_user" {
		t.Errorf("Dispatcher saw user %q", dispatcher.lastUserID)
	}
}

func TestHandleMessageFallsToResponder(t *testing.T) {
	h := NewHandler(&fakeRepo{}, &fakeDispatcher{}, &fakeResponder{reply: "chat reply"})

	rec := httptest.NewRecorder()
	h.HandleMessage(rec, identifiedRequest(http.MethodPost, "/api/message", `{"text":"tell me something"}`))

	resp := decodeMessage(t, rec)
	if resp.Handled {
		t.Error("Free text must not be reported as handled")
	}
	if resp.Reply != "chat reply" {
		t.Errorf("Expected responder reply, got %q", resp.Reply)
	}
}

func TestHandleMessageNoResponder(t *testing.T) {
	h := NewHandler(&fakeRepo{}, &fakeDispatcher{}, nil)

	rec := httptest.NewRecorder()
	h.HandleMessage(rec, identifiedRequest(http.MethodPost, "/api/message", `{"text":"tell me something"}`))

	resp := decodeMessage(t, rec)
	if resp.Handled || resp.Reply != dialogue.FallbackReply {
		t.Errorf("Expected fallback reply, got %+v", resp)
	}
}

func TestHandleMessageBadRequests(t *testing.T) {
	h := NewHandler(&fakeRepo{}, &fakeDispatcher{}, nil)

	tests := []struct {
		name string
		body string
	}{
		{"empty body", ""},
		{"invalid json", "{not json"},
		{"missing text", `{"text":""}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.HandleMessage(rec, identifiedRequest(http.MethodPost, "/api/message", tt.body))
			if rec.Code != http.StatusBadRequest {
				t.Errorf("Expected 400, got %d", rec.Code)
			}
		})
	}
}

func TestHandleMessageRequiresIdentity(t *testing.T) {
	h := NewHandler(&fakeRepo{}, &fakeDispatcher{}, nil)

	rec := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/message", strings.NewReader(`{"text":"hi"}`))
	h.HandleMessage(rec, r)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 without identity, got %d", rec.Code)
	}
}

func TestHandleListGoals(t *testing.T) {
	repo := &fakeRepo{goals: []*domain.Goal{
		{ID: 2, Title: "B", Status: domain.GoalActive},
		{ID: 1, Title: "A", Status: domain.GoalCompleted},
	}}
	h := NewHandler(repo, &fakeDispatcher{}, nil)

	rec := httptest.NewRecorder()
	h.HandleListGoals(rec, identifiedRequest(http.MethodGet, "/api/goals", ""))

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var resp struct {
		Goals []*domain.Goal `json:"goals"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(resp.Goals) != 2 || resp.Goals[0].ID != 2 {
		t.Errorf("Unexpected goals payload: %+v", resp.Goals)
	}
}

func TestHandleListGoalsStorageFailure(t *testing.T) {
	h := NewHandler(&fakeRepo{listErr: errors.New("db gone")}, &fakeDispatcher{}, nil)

	rec := httptest.NewRecorder()
	h.HandleListGoals(rec, identifiedRequest(http.MethodGet, "/api/goals", ""))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("Expected 500, got %d", rec.Code)
	}
}

func TestHandleHealth(t *testing.T) {
	h := NewHandler(&fakeRepo{}, &fakeDispatcher{}, nil)
	rec := httptest.NewRecorder()
	h.HandleHealth(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("Expected 200, got %d", rec.Code)
	}

	h = NewHandler(&fakeRepo{pingErr: errors.New("db gone")}, &fakeDispatcher{}, nil)
	rec = httptest.NewRecorder()
	h.HandleHealth(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected 503, got %d", rec.Code)
	}
}
