package quiz

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

func poolOfSize(n int) []Question {
	pool := make([]Question, 0, n)
	for idx := 0; idx < n; idx++ {
		pool = append(pool, Question{
			Text:    fmt.Sprintf("Question %d", idx),
			Options: []string{"One", "Two", "Three", "Four"},
			Answer:  idx % OptionCount,
		})
	}
	return pool
}

func sessionConfig() SessionConfig {
	return SessionConfig{
		Student:         Student{Name: "alice", Class: "10A"},
		TimePerQuestion: 10 * time.Second,
	}
}

func TestNewSessionValidation(t *testing.T) {
	pool := poolOfSize(3)

	cfg := sessionConfig()
	cfg.Student.Name = "  "
	if _, err := NewSession(cfg, pool); !errors.Is(err, ErrMissingStudentInfo) {
		t.Fatalf("expected ErrMissingStudentInfo for blank name, got %v", err)
	}

	cfg = sessionConfig()
	cfg.Student.Class = ""
	if _, err := NewSession(cfg, pool); !errors.Is(err, ErrMissingStudentInfo) {
		t.Fatalf("expected ErrMissingStudentInfo for blank class, got %v", err)
	}

	cfg = sessionConfig()
	cfg.TimePerQuestion = 0
	if _, err := NewSession(cfg, pool); !errors.Is(err, ErrInvalidTimeBudget) {
		t.Fatalf("expected ErrInvalidTimeBudget, got %v", err)
	}

	if _, err := NewSession(sessionConfig(), nil); !errors.Is(err, ErrNoQuestions) {
		t.Fatalf("expected ErrNoQuestions for empty pool, got %v", err)
	}
}

func TestSessionLengthAndNoDuplicates(t *testing.T) {
	// A large pool is capped, a small pool is used in full; either way no
	// question repeats within one session.
	for _, poolSize := range []int{3, 40, 60} {
		session, err := NewSession(sessionConfig(), poolOfSize(poolSize))
		if err != nil {
			t.Fatalf("NewSession(pool=%d) failed: %v", poolSize, err)
		}

		want := poolSize
		if want > MaxSessionQuestions {
			want = MaxSessionQuestions
		}
		if session.TotalQuestions() != want {
			t.Fatalf("pool=%d: session length = %d, want %d", poolSize, session.TotalQuestions(), want)
		}

		seen := make(map[string]bool)
		for session.State() == StateRunning {
			question, err := session.Current()
			if err != nil {
				t.Fatalf("Current failed mid-session: %v", err)
			}
			if seen[question.Text] {
				t.Fatalf("pool=%d: question %q asked twice", poolSize, question.Text)
			}
			seen[question.Text] = true
			if err := session.Expire(); err != nil {
				t.Fatalf("Expire failed: %v", err)
			}
		}
		if len(seen) != want {
			t.Fatalf("pool=%d: asked %d questions, want %d", poolSize, len(seen), want)
		}
	}
}

func TestSessionScoringScenario(t *testing.T) {
	// Three questions: first answered correctly, second incorrectly, third
	// times out without a selection. Final score must be exactly 1 of 3.
	session, err := NewSession(sessionConfig(), poolOfSize(3))
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}

	q1, _ := session.Current()
	if err := session.Select(q1.Answer); err != nil {
		t.Fatalf("Select correct failed: %v", err)
	}
	if err := session.Advance(); err != nil {
		t.Fatalf("Advance failed: %v", err)
	}
	if session.Score() != 1 {
		t.Fatalf("score after correct answer = %d, want 1", session.Score())
	}

	q2, _ := session.Current()
	if err := session.Select((q2.Answer + 1) % OptionCount); err != nil {
		t.Fatalf("Select incorrect failed: %v", err)
	}
	if err := session.Advance(); err != nil {
		t.Fatalf("Advance failed: %v", err)
	}
	if session.Score() != 1 {
		t.Fatalf("score after wrong answer = %d, want 1", session.Score())
	}

	if err := session.Expire(); err != nil {
		t.Fatalf("Expire failed: %v", err)
	}
	if session.State() != StateFinished {
		t.Fatalf("state = %v, want finished", session.State())
	}
	if session.Score() != 1 {
		t.Fatalf("final score = %d, want 1", session.Score())
	}
}

func TestSessionLastSelectionWins(t *testing.T) {
	session, err := NewSession(sessionConfig(), poolOfSize(2))
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}

	// Wrong first, then correct: the latest selection counts.
	q1, _ := session.Current()
	if err := session.Select((q1.Answer + 1) % OptionCount); err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	if err := session.Select(q1.Answer); err != nil {
		t.Fatalf("re-Select failed: %v", err)
	}
	if err := session.Advance(); err != nil {
		t.Fatalf("Advance failed: %v", err)
	}
	if session.Score() != 1 {
		t.Fatalf("score = %d, want 1 after switching to correct option", session.Score())
	}

	// Correct first, then wrong: the earlier correct choice must not count.
	q2, _ := session.Current()
	if err := session.Select(q2.Answer); err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	if err := session.Select((q2.Answer + 1) % OptionCount); err != nil {
		t.Fatalf("re-Select failed: %v", err)
	}
	if err := session.Advance(); err != nil {
		t.Fatalf("Advance failed: %v", err)
	}
	if session.Score() != 1 {
		t.Fatalf("score = %d, want 1 after switching to wrong option", session.Score())
	}
}

func TestSessionAdvanceRequiresSelection(t *testing.T) {
	session, err := NewSession(sessionConfig(), poolOfSize(2))
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}

	if err := session.Advance(); !errors.Is(err, ErrNoSelection) {
		t.Fatalf("expected ErrNoSelection, got %v", err)
	}
	if session.QuestionNumber() != 1 {
		t.Fatalf("question number changed on rejected advance: %d", session.QuestionNumber())
	}
	if session.HasSelection() {
		t.Fatalf("unexpected selection on fresh question")
	}
}

func TestSessionExpireWithSelectionScoresLatestChoice(t *testing.T) {
	session, err := NewSession(sessionConfig(), poolOfSize(1))
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}

	question, _ := session.Current()
	if err := session.Select(question.Answer); err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	if err := session.Expire(); err != nil {
		t.Fatalf("Expire failed: %v", err)
	}
	if session.Score() != 1 {
		t.Fatalf("score = %d, want 1 when timer expires after a correct selection", session.Score())
	}
}

func TestSessionAllTimeoutsScoreZero(t *testing.T) {
	session, err := NewSession(sessionConfig(), poolOfSize(5))
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}

	for session.State() == StateRunning {
		if err := session.Expire(); err != nil {
			t.Fatalf("Expire failed: %v", err)
		}
	}
	if session.Score() != 0 {
		t.Fatalf("score = %d, want 0 when every question times out", session.Score())
	}
	if session.State() != StateFinished {
		t.Fatalf("state = %v, want finished", session.State())
	}
}

func TestSessionRejectsInteractionAfterFinish(t *testing.T) {
	session, err := NewSession(sessionConfig(), poolOfSize(1))
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}
	if err := session.Expire(); err != nil {
		t.Fatalf("Expire failed: %v", err)
	}

	if _, err := session.Current(); !errors.Is(err, ErrSessionFinished) {
		t.Fatalf("Current after finish: got %v, want ErrSessionFinished", err)
	}
	if err := session.Select(0); !errors.Is(err, ErrSessionFinished) {
		t.Fatalf("Select after finish: got %v, want ErrSessionFinished", err)
	}
	if err := session.Advance(); !errors.Is(err, ErrSessionFinished) {
		t.Fatalf("Advance after finish: got %v, want ErrSessionFinished", err)
	}
	if err := session.Expire(); !errors.Is(err, ErrSessionFinished) {
		t.Fatalf("Expire after finish: got %v, want ErrSessionFinished", err)
	}
}

func TestSessionSelectValidatesRange(t *testing.T) {
	session, err := NewSession(sessionConfig(), poolOfSize(1))
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}

	if err := session.Select(-1); !errors.Is(err, ErrInvalidSelection) {
		t.Fatalf("Select(-1): got %v, want ErrInvalidSelection", err)
	}
	if err := session.Select(OptionCount); !errors.Is(err, ErrInvalidSelection) {
		t.Fatalf("Select(%d): got %v, want ErrInvalidSelection", OptionCount, err)
	}
	if session.HasSelection() {
		t.Fatalf("rejected selections must not stick")
	}
}

func TestSessionScoreWithinBounds(t *testing.T) {
	session, err := NewSession(sessionConfig(), poolOfSize(7))
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}

	// Answer every question with option 0; some are correct, some are not.
	for session.State() == StateRunning {
		if err := session.Select(0); err != nil {
			t.Fatalf("Select failed: %v", err)
		}
		if err := session.Advance(); err != nil {
			t.Fatalf("Advance failed: %v", err)
		}
	}
	if session.Score() < 0 || session.Score() > session.TotalQuestions() {
		t.Fatalf("score %d out of bounds [0, %d]", session.Score(), session.TotalQuestions())
	}
}
