package quiz

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
)

// Service ties the two stores together for the three page controllers:
// question authoring, the timed quiz session, and the scores viewer.
type Service struct {
	questions QuestionRepository
	scores    ScoreRepository
	logger    *zap.Logger
}

func NewService(questions QuestionRepository, scores ScoreRepository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		questions: questions,
		scores:    scores,
		logger:    logger,
	}
}

func (s *Service) AddQuestion(ctx context.Context, question Question) error {
	if err := question.Validate(); err != nil {
		return err
	}
	return s.questions.AddQuestion(ctx, question)
}

func (s *Service) RemoveQuestionAt(ctx context.Context, position int) error {
	return s.questions.RemoveQuestionAt(ctx, position)
}

func (s *Service) ListQuestions(ctx context.Context) ([]Question, error) {
	return s.questions.ListQuestions(ctx)
}

func (s *Service) SearchQuestions(ctx context.Context, substring string) ([]Question, error) {
	if strings.TrimSpace(substring) == "" {
		return s.questions.ListQuestions(ctx)
	}
	return s.questions.SearchQuestions(ctx, substring)
}

// ImportQuestionsFile bulk-loads a JSON array of questions. The whole file is
// validated before anything is stored, so a bad entry imports nothing.
func (s *Service) ImportQuestionsFile(ctx context.Context, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}

	var questions []Question
	if err := json.Unmarshal(data, &questions); err != nil {
		return 0, fmt.Errorf("parse %s: %w", path, err)
	}

	for idx, question := range questions {
		if err := question.Validate(); err != nil {
			return 0, fmt.Errorf("question %d in %s: %w", idx, path, err)
		}
	}

	for _, question := range questions {
		if err := s.questions.AddQuestion(ctx, question); err != nil {
			return 0, err
		}
	}

	s.logger.Info("questions imported",
		zap.String("file", path),
		zap.Int("count", len(questions)),
	)
	return len(questions), nil
}

// StartSession loads the question pool and begins a running session.
func (s *Service) StartSession(ctx context.Context, cfg SessionConfig) (*Session, error) {
	pool, err := s.questions.ListQuestions(ctx)
	if err != nil {
		return nil, err
	}

	session, err := NewSession(cfg, pool)
	if err != nil {
		return nil, err
	}

	s.logger.Info("session started",
		zap.String("session_id", session.ID()),
		zap.Int("questions", session.TotalQuestions()),
		zap.Duration("time_per_question", cfg.TimePerQuestion),
	)
	return session, nil
}

// FinishSession persists exactly one score record for a finished session.
// The caller decides whether a write failure blocks anything; the session
// result itself is already final.
func (s *Service) FinishSession(ctx context.Context, session *Session) (ScoreRecord, error) {
	if session.State() != StateFinished {
		return ScoreRecord{}, ErrSessionNotFinished
	}

	record, err := s.scores.AddScore(ctx, session.Student(), session.Score())
	if err != nil {
		s.logger.Error("failed to save score",
			zap.String("session_id", session.ID()),
			zap.Error(err),
		)
		return ScoreRecord{}, err
	}

	s.logger.Info("session finished",
		zap.String("session_id", session.ID()),
		zap.Int("score", record.Score),
		zap.Int("questions", session.TotalQuestions()),
	)
	return record, nil
}

func (s *Service) ListScores(ctx context.Context) ([]ScoreRecord, error) {
	return s.scores.ListScores(ctx)
}

func (s *Service) DeleteScore(ctx context.Context, id int64) error {
	return s.scores.DeleteScore(ctx, id)
}
