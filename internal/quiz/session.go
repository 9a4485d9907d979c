package quiz

import (
	"errors"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MaxSessionQuestions caps how many questions one session asks; smaller pools
// are used in full.
const MaxSessionQuestions = 40

var (
	ErrSessionFinished    = errors.New("session is finished")
	ErrSessionNotFinished = errors.New("session is not finished")
	ErrNoSelection        = errors.New("no option selected")
	ErrInvalidSelection   = errors.New("selected option is out of range")
)

type SessionState int

const (
	StateAwaitingStudentInfo SessionState = iota
	StateRunning
	StateFinished
)

func (s SessionState) String() string {
	switch s {
	case StateAwaitingStudentInfo:
		return "awaiting_student_info"
	case StateRunning:
		return "running"
	case StateFinished:
		return "finished"
	default:
		return "unknown"
	}
}

const noSelection = -1

type SessionConfig struct {
	Student         Student
	TimePerQuestion time.Duration
}

// Session walks a shuffled question subset one question at a time and
// accumulates the score. It is not safe for concurrent use; all transitions
// are expected to come from a single event loop.
type Session struct {
	id        string
	student   Student
	budget    time.Duration
	questions []Question
	state     SessionState
	index     int
	score     int
	selected  int
}

func NewSession(cfg SessionConfig, pool []Question) (*Session, error) {
	if strings.TrimSpace(cfg.Student.Name) == "" || strings.TrimSpace(cfg.Student.Class) == "" {
		return nil, ErrMissingStudentInfo
	}
	if cfg.TimePerQuestion <= 0 {
		return nil, ErrInvalidTimeBudget
	}
	if len(pool) == 0 {
		return nil, ErrNoQuestions
	}

	shuffled := make([]Question, len(pool))
	copy(shuffled, pool)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	if len(shuffled) > MaxSessionQuestions {
		shuffled = shuffled[:MaxSessionQuestions]
	}

	return &Session{
		id:        uuid.NewString(),
		student:   cfg.Student,
		budget:    cfg.TimePerQuestion,
		questions: shuffled,
		state:     StateRunning,
		selected:  noSelection,
	}, nil
}

func (s *Session) ID() string                     { return s.id }
func (s *Session) Student() Student               { return s.student }
func (s *Session) State() SessionState            { return s.state }
func (s *Session) Score() int                     { return s.score }
func (s *Session) TotalQuestions() int            { return len(s.questions) }
func (s *Session) TimePerQuestion() time.Duration { return s.budget }

// QuestionNumber is 1-based for display.
func (s *Session) QuestionNumber() int {
	return s.index + 1
}

func (s *Session) Current() (Question, error) {
	if s.state != StateRunning {
		return Question{}, ErrSessionFinished
	}
	return s.questions[s.index], nil
}

// Select records the latest choice for the current question. Choosing again
// before advancing replaces the previous choice; only the selection held at
// the moment of advancing is scored.
func (s *Session) Select(option int) error {
	if s.state != StateRunning {
		return ErrSessionFinished
	}
	if option < 0 || option >= len(s.questions[s.index].Options) {
		return ErrInvalidSelection
	}
	s.selected = option
	return nil
}

func (s *Session) HasSelection() bool {
	return s.selected != noSelection
}

// Advance moves past the current question after an explicit choice was made.
func (s *Session) Advance() error {
	if s.state != StateRunning {
		return ErrSessionFinished
	}
	if s.selected == noSelection {
		return ErrNoSelection
	}
	s.advance()
	return nil
}

// Expire moves past the current question on timer expiry. A question without
// a selection contributes nothing to the score.
func (s *Session) Expire() error {
	if s.state != StateRunning {
		return ErrSessionFinished
	}
	s.advance()
	return nil
}

func (s *Session) advance() {
	if s.selected != noSelection && s.selected == s.questions[s.index].Answer {
		s.score++
	}
	s.selected = noSelection
	s.index++
	if s.index >= len(s.questions) {
		s.state = StateFinished
	}
}
