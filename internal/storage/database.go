package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/conorfennell/examprep/internal/domain"
	_ "modernc.org/sqlite" // Registers the sqlite driver
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("storage: not found")

// DB represents a wrapper around the SQL database connection.
type DB struct {
	conn *sql.DB
}

// Open creates a new database connection and ensures the schema is up to date.
func Open(dsn string) (*DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A single connection keeps ":memory:" databases coherent and serialises writers.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Execute the schema to create tables if they don't exist.
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &DB{conn: db}, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// InsertQuestion adds a question to the bank and returns its assigned index.
func (db *DB) InsertQuestion(ctx context.Context, q domain.Question) (int, error) {
	res, err := db.conn.ExecContext(ctx, `
		INSERT INTO questions (hash, question, answer, context, source)
		VALUES (?, ?, ?, ?, ?)
	`, q.Hash, q.Question, q.Answer, q.Context, q.Source)
	if err != nil {
		return 0, fmt.Errorf("failed to insert question %s: %w", q.Hash, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get index for question %s: %w", q.Hash, err)
	}
	return int(id), nil
}

const questionColumns = `idx, hash, question, answer, context, source`

type scanner interface {
	Scan(dest ...any) error
}

func scanQuestion(row scanner) (domain.Question, error) {
	var q domain.Question
	err := row.Scan(&q.Index, &q.Hash, &q.Question, &q.Answer, &q.Context, &q.Source)
	return q, err
}

// FindQuestionByHash retrieves a question by its content hash.
func (db *DB) FindQuestionByHash(ctx context.Context, hash string) (domain.Question, error) {
	row := db.conn.QueryRowContext(ctx, `SELECT `+questionColumns+` FROM questions WHERE hash = ?`, hash)
	q, err := scanQuestion(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Question{}, ErrNotFound
		}
		return domain.Question{}, fmt.Errorf("failed to find question by hash %s: %w", hash, err)
	}
	return q, nil
}

// FindQuestionByIndex retrieves a question by its index.
func (db *DB) FindQuestionByIndex(ctx context.Context, index int) (domain.Question, error) {
	row := db.conn.QueryRowContext(ctx, `SELECT `+questionColumns+` FROM questions WHERE idx = ?`, index)
	q, err := scanQuestion(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Question{}, ErrNotFound
		}
		return domain.Question{}, fmt.Errorf("failed to find question %d: %w", index, err)
	}
	return q, nil
}

// ListQuestions returns every question in the bank ordered by index.
func (db *DB) ListQuestions(ctx context.Context) ([]domain.Question, error) {
	rows, err := db.conn.QueryContext(ctx, `SELECT `+questionColumns+` FROM questions ORDER BY idx`)
	if err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}
	defer rows.Close()

	var questions []domain.Question
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan question row: %w", err)
		}
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}
	return questions, nil
}

// DeleteQuestionByHash removes a question from the bank by its hash.
func (db *DB) DeleteQuestionByHash(ctx context.Context, hash string) error {
	_, err := db.conn.ExecContext(ctx, `DELETE FROM questions WHERE hash = ?`, hash)
	if err != nil {
		return fmt.Errorf("failed to delete question with hash %s: %w", hash, err)
	}
	return nil
}

// Get returns the blob stored under key. The boolean is false when the slot
// is empty.
func (db *DB) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := db.conn.QueryRowContext(ctx, `SELECT value FROM blobs WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to read blob %s: %w", key, err)
	}
	return value, true, nil
}

// Set overwrites the blob stored under key.
func (db *DB) Set(ctx context.Context, key, value string) error {
	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO blobs (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, value, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to write blob %s: %w", key, err)
	}
	return nil
}

// Delete empties the slot stored under key. Deleting an empty slot is not an error.
func (db *DB) Delete(ctx context.Context, key string) error {
	if _, err := db.conn.ExecContext(ctx, `DELETE FROM blobs WHERE key = ?`, key); err != nil {
		return fmt.Errorf("failed to delete blob %s: %w", key, err)
	}
	return nil
}
