package quiz

import (
	"context"
	"errors"
	"strings"
	"time"
)

var (
	ErrQuestionNotFound   = errors.New("question not found")
	ErrInvalidQuestion    = errors.New("invalid question")
	ErrNoQuestions        = errors.New("no questions available")
	ErrMissingStudentInfo = errors.New("student name and class are required")
	ErrInvalidTimeBudget  = errors.New("time budget must be positive")
)

// OptionCount is fixed: every question carries exactly four answer options.
const OptionCount = 4

type Question struct {
	Text    string   `json:"question"`
	Options []string `json:"options"`
	Answer  int      `json:"answer"`
}

func (q Question) Validate() error {
	if strings.TrimSpace(q.Text) == "" {
		return ErrInvalidQuestion
	}
	if len(q.Options) != OptionCount {
		return ErrInvalidQuestion
	}
	if q.Answer < 0 || q.Answer >= OptionCount {
		return ErrInvalidQuestion
	}
	return nil
}

type Student struct {
	Name  string `json:"name"`
	Class string `json:"class"`
}

type ScoreRecord struct {
	ID    int64     `json:"id"`
	Name  string    `json:"name"`
	Class string    `json:"class"`
	Score int       `json:"score"`
	Date  time.Time `json:"date"`
}

type QuestionRepository interface {
	AddQuestion(ctx context.Context, question Question) error
	RemoveQuestionAt(ctx context.Context, position int) error
	ListQuestions(ctx context.Context) ([]Question, error)
	SearchQuestions(ctx context.Context, substring string) ([]Question, error)
}

type ScoreRepository interface {
	AddScore(ctx context.Context, student Student, score int) (ScoreRecord, error)
	ListScores(ctx context.Context) ([]ScoreRecord, error)
	DeleteScore(ctx context.Context, id int64) error
}
