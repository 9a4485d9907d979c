package quiz

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// questionsSlot is the key of the single serialized question list. The whole
// list is rewritten on every mutation, so positions stay authoritative.
const questionsSlot = "questions"

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		path = "classquiz.db"
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`PRAGMA busy_timeout = 5000;`); err != nil {
		_ = db.Close()
		return nil, err
	}

	store := &SQLiteStore{db: db}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) initSchema(ctx context.Context) error {
	// Opening is idempotent: the first open creates the tables, later opens
	// reuse them with existing data intact.
	statements := []string{
		`CREATE TABLE IF NOT EXISTS slots (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS scores (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			class TEXT NOT NULL,
			score INTEGER NOT NULL,
			date TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_scores_date ON scores(date DESC);`,
	}

	for _, stmt := range statements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteStore) AddQuestion(ctx context.Context, question Question) error {
	if err := question.Validate(); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	questions, err := readQuestionSlot(ctx, tx)
	if err != nil {
		return err
	}

	questions = append(questions, question)
	if err := writeQuestionSlot(ctx, tx, questions); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *SQLiteStore) RemoveQuestionAt(ctx context.Context, position int) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	questions, err := readQuestionSlot(ctx, tx)
	if err != nil {
		return err
	}

	if position < 0 || position >= len(questions) {
		return ErrQuestionNotFound
	}

	questions = append(questions[:position], questions[position+1:]...)
	if err := writeQuestionSlot(ctx, tx, questions); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *SQLiteStore) ListQuestions(ctx context.Context) ([]Question, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	questions, err := readQuestionSlot(ctx, tx)
	if err != nil {
		return nil, err
	}
	return questions, tx.Commit()
}

func (s *SQLiteStore) SearchQuestions(ctx context.Context, substring string) ([]Question, error) {
	questions, err := s.ListQuestions(ctx)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(strings.TrimSpace(substring))
	if needle == "" {
		return questions, nil
	}

	matches := make([]Question, 0, len(questions))
	for _, question := range questions {
		if strings.Contains(strings.ToLower(question.Text), needle) {
			matches = append(matches, question)
		}
	}
	return matches, nil
}

func readQuestionSlot(ctx context.Context, tx *sql.Tx) ([]Question, error) {
	var value string
	err := tx.QueryRowContext(ctx, `SELECT value FROM slots WHERE key = ?`, questionsSlot).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Absent slot means no questions were ever authored.
			return []Question{}, nil
		}
		return nil, err
	}

	var questions []Question
	if err := json.Unmarshal([]byte(value), &questions); err != nil {
		return nil, err
	}
	if questions == nil {
		questions = []Question{}
	}
	return questions, nil
}

func writeQuestionSlot(ctx context.Context, tx *sql.Tx, questions []Question) error {
	value, err := json.Marshal(questions)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(
		ctx,
		`INSERT INTO slots (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		questionsSlot,
		string(value),
	)
	return err
}

func (s *SQLiteStore) AddScore(ctx context.Context, student Student, score int) (ScoreRecord, error) {
	record := ScoreRecord{
		Name:  student.Name,
		Class: student.Class,
		Score: score,
		Date:  time.Now().UTC(),
	}

	result, err := s.db.ExecContext(
		ctx,
		`INSERT INTO scores (name, class, score, date) VALUES (?, ?, ?, ?)`,
		record.Name,
		record.Class,
		record.Score,
		record.Date.Format(time.RFC3339Nano),
	)
	if err != nil {
		return ScoreRecord{}, err
	}

	record.ID, err = result.LastInsertId()
	if err != nil {
		return ScoreRecord{}, err
	}
	return record, nil
}

func (s *SQLiteStore) ListScores(ctx context.Context) ([]ScoreRecord, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, class, score, date FROM scores`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]ScoreRecord, 0)
	for rows.Next() {
		var (
			record ScoreRecord
			date   string
		)
		if err := rows.Scan(&record.ID, &record.Name, &record.Class, &record.Score, &date); err != nil {
			return nil, err
		}
		record.Date, err = time.Parse(time.RFC3339Nano, date)
		if err != nil {
			return nil, fmt.Errorf("score %d has malformed date %q: %w", record.ID, date, err)
		}
		records = append(records, record)
	}

	return records, rows.Err()
}

// DeleteScore removes the record with the given identifier. Deleting an
// identifier that is not present is not an error, matching the add/delete
// contract of the scores collection.
func (s *SQLiteStore) DeleteScore(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM scores WHERE id = ?`, id)
	return err
}

func (s *SQLiteStore) String() string {
	return fmt.Sprintf("sqlite_store(%T)", s.db)
}
