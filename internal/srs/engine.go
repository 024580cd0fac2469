package srs

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// DefaultKey is the blob slot the review state is stored under.
const DefaultKey = "examprep:spaced-repetition"

// BlobStore is a named slot holding a text blob. Get reports false when the
// slot is empty.
type BlobStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Engine loads, updates and saves the review state held in a BlobStore.
//
// Every write is a whole-blob load-modify-store cycle with no locking. Two
// writers sharing a store race, and the last one to save wins; callers that
// can issue concurrent answers must serialise them.
type Engine struct {
	store        BlobStore
	key          string
	historyLimit int
	now          func() time.Time
	logger       *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock replaces time.Now as the engine's source of the current time.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithKey sets the blob slot name.
func WithKey(key string) Option {
	return func(e *Engine) { e.key = key }
}

// WithHistoryLimit sets how many history entries are kept.
func WithHistoryLimit(n int) Option {
	return func(e *Engine) { e.historyLimit = n }
}

// WithLogger sets the logger storage failures are reported to.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// NewEngine creates an Engine over store.
func NewEngine(store BlobStore, opts ...Option) *Engine {
	e := &Engine{
		store:        store,
		key:          DefaultKey,
		historyLimit: DefaultHistoryLimit,
		now:          time.Now,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.historyLimit < 1 {
		e.historyLimit = DefaultHistoryLimit
	}
	return e
}

// Now returns the engine's current time.
func (e *Engine) Now() time.Time {
	return e.now()
}

// Load reads the review state. A missing, unreadable or malformed blob
// yields an empty aggregate.
func (e *Engine) Load(ctx context.Context) Data {
	blob, ok, err := e.store.Get(ctx, e.key)
	if err != nil {
		e.logger.Warn("failed to read review data, starting empty", "key", e.key, "error", err)
		return NewData()
	}
	if !ok {
		return NewData()
	}
	data, err := DecodeStrict([]byte(blob))
	if err != nil {
		e.logger.Warn("discarding malformed review data", "key", e.key, "error", err)
	}
	return data
}

// RecordAnswer records a right or wrong answer to the question at index.
func (e *Engine) RecordAnswer(ctx context.Context, index int, correct bool) Data {
	return e.RecordQuality(ctx, index, QualityFromCorrectness(correct, false))
}

// RecordQuality schedules the question at index from an answer of the given
// quality, appends it to the history and saves the result. A failed save is
// logged and the updated aggregate is still returned.
func (e *Engine) RecordQuality(ctx context.Context, index int, quality Quality) Data {
	data := e.Load(ctx)
	now := e.now()

	var existing *ReviewCard
	if c, ok := data.Cards[index]; ok {
		existing = &c
	}
	card := CalculateNextReview(existing, quality, now)
	card.QuestionIndex = index
	data.Cards[index] = card

	data.ReviewHistory = append(data.ReviewHistory, ReviewHistoryEntry{
		QuestionIndex: index,
		Timestamp:     TimestampOf(now),
		Correct:       quality.Passed(),
	})
	if n := len(data.ReviewHistory); n > e.historyLimit {
		data.ReviewHistory = append([]ReviewHistoryEntry(nil), data.ReviewHistory[n-e.historyLimit:]...)
	}

	if err := e.save(ctx, data); err != nil {
		e.logger.Warn("failed to save review data", "key", e.key, "question", index, "error", err)
	}
	return data
}

// ClearAll erases the stored review state.
func (e *Engine) ClearAll(ctx context.Context) error {
	if err := e.store.Delete(ctx, e.key); err != nil {
		e.logger.Error("failed to clear review data", "key", e.key, "error", err)
		return fmt.Errorf("clear review data: %w", err)
	}
	return nil
}

func (e *Engine) save(ctx context.Context, data Data) error {
	blob, err := Encode(data)
	if err != nil {
		return fmt.Errorf("encode review data: %w", err)
	}
	if err := e.store.Set(ctx, e.key, string(blob)); err != nil {
		return fmt.Errorf("store review data: %w", err)
	}
	return nil
}
