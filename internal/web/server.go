// Package web serves the JSON practice API over the review engine and the
// question bank.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/conorfennell/examprep/internal/domain"
	"github.com/conorfennell/examprep/internal/srs"
	"github.com/conorfennell/examprep/internal/storage"
)

// Questions is the read side of the question bank.
type Questions interface {
	FindQuestionByIndex(ctx context.Context, index int) (domain.Question, error)
	ListQuestions(ctx context.Context) ([]domain.Question, error)
}

// Server holds the dependencies for the HTTP server.
type Server struct {
	engine    *srs.Engine
	questions Questions
	router    *http.ServeMux
	validate  *validator.Validate
	logger    *slog.Logger

	// writeMu makes this server the single writer of the review data.
	writeMu sync.Mutex
}

// NewServer creates and configures a new server.
func NewServer(engine *srs.Engine, questions Questions, logger *slog.Logger) *Server {
	s := &Server{
		engine:    engine,
		questions: questions,
		router:    http.NewServeMux(),
		validate:  validator.New(validator.WithRequiredStructEnabled()),
		logger:    logger,
	}
	s.routes()
	return s
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.HandleFunc("GET /deck", s.handleGetDeck())
	s.router.HandleFunc("GET /stats", s.handleGetStats())
	s.router.HandleFunc("GET /questions/{index}", s.handleGetQuestion())

	s.router.HandleFunc("GET /review/next", s.handleGetNextReview())
	s.router.HandleFunc("GET /review/due", s.handleListCards(func(d srs.Data) []srs.ReviewCard {
		return srs.DueCards(d, s.engine.Now())
	}))
	s.router.HandleFunc("GET /review/failed", s.handleListCards(func(d srs.Data) []srs.ReviewCard {
		return srs.FailedCards(d)
	}))
	s.router.HandleFunc("GET /review/queue", s.handleListCards(func(d srs.Data) []srs.ReviewCard {
		return srs.CardsNeedingReview(d, s.engine.Now())
	}))
	s.router.HandleFunc("POST /review/{index}", s.handlePostReview())
	s.router.HandleFunc("DELETE /review", s.handleClearReview())
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("failed to write response", "error", err)
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, errorResponse{Error: msg})
}

// lookupQuestion resolves the {index} path value, writing the error
// response itself when it fails.
func (s *Server) lookupQuestion(w http.ResponseWriter, r *http.Request) (domain.Question, bool) {
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid question index")
		return domain.Question{}, false
	}
	q, err := s.questions.FindQuestionByIndex(r.Context(), index)
	if errors.Is(err, storage.ErrNotFound) {
		s.writeError(w, http.StatusNotFound, "question not found")
		return domain.Question{}, false
	}
	if err != nil {
		s.logger.Error("failed to find question", "index", index, "error", err)
		s.writeError(w, http.StatusInternalServerError, "internal server error")
		return domain.Question{}, false
	}
	return q, true
}

type deckResponse struct {
	Questions int       `json:"questions"`
	Stats     srs.Stats `json:"stats"`
}

func (s *Server) handleGetDeck() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		questions, err := s.questions.ListQuestions(r.Context())
		if err != nil {
			s.logger.Error("failed to list questions for deck view", "error", err)
			s.writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		data := s.engine.Load(r.Context())
		s.writeJSON(w, http.StatusOK, deckResponse{
			Questions: len(questions),
			Stats:     srs.ComputeStats(data, s.engine.Now()),
		})
	}
}

func (s *Server) handleGetStats() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data := s.engine.Load(r.Context())
		s.writeJSON(w, http.StatusOK, srs.ComputeStats(data, s.engine.Now()))
	}
}

func (s *Server) handleGetQuestion() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q, ok := s.lookupQuestion(w, r)
		if !ok {
			return
		}
		s.writeJSON(w, http.StatusOK, q)
	}
}

type nextResponse struct {
	Question domain.Question `json:"question"`
	Card     *srs.ReviewCard `json:"card,omitempty"`
}

// handleGetNextReview returns the question a practice session should ask
// next: the head of the review queue, otherwise the first question never
// answered. It responds 204 when there is nothing to practise.
func (s *Server) handleGetNextReview() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		data := s.engine.Load(ctx)

		for _, card := range srs.CardsNeedingReview(data, s.engine.Now()) {
			q, err := s.questions.FindQuestionByIndex(ctx, card.QuestionIndex)
			if errors.Is(err, storage.ErrNotFound) {
				continue
			}
			if err != nil {
				s.logger.Error("failed to find queued question", "index", card.QuestionIndex, "error", err)
				s.writeError(w, http.StatusInternalServerError, "internal server error")
				return
			}
			s.writeJSON(w, http.StatusOK, nextResponse{Question: q, Card: &card})
			return
		}

		questions, err := s.questions.ListQuestions(ctx)
		if err != nil {
			s.logger.Error("failed to list questions", "error", err)
			s.writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		for _, q := range questions {
			if _, seen := data.Cards[q.Index]; !seen {
				s.writeJSON(w, http.StatusOK, nextResponse{Question: q})
				return
			}
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) handleListCards(view func(srs.Data) []srs.ReviewCard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cards := view(s.engine.Load(r.Context()))
		if cards == nil {
			cards = []srs.ReviewCard{}
		}
		s.writeJSON(w, http.StatusOK, cards)
	}
}

type answerRequest struct {
	Correct   *bool `json:"correct" validate:"required"`
	Hesitated bool  `json:"hesitated"`
}

type answerResponse struct {
	Card  srs.ReviewCard `json:"card"`
	Stats srs.Stats      `json:"stats"`
}

func (s *Server) handlePostReview() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q, ok := s.lookupQuestion(w, r)
		if !ok {
			return
		}

		var req answerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if err := s.validate.Struct(req); err != nil {
			s.writeError(w, http.StatusBadRequest, "correct is required")
			return
		}

		s.writeMu.Lock()
		data := s.engine.RecordQuality(r.Context(), q.Index, srs.QualityFromCorrectness(*req.Correct, req.Hesitated))
		s.writeMu.Unlock()

		s.logger.Debug("answer recorded", "index", q.Index, "correct", *req.Correct, "hesitated", req.Hesitated)
		s.writeJSON(w, http.StatusOK, answerResponse{
			Card:  data.Cards[q.Index],
			Stats: srs.ComputeStats(data, s.engine.Now()),
		})
	}
}

func (s *Server) handleClearReview() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.writeMu.Lock()
		err := s.engine.ClearAll(r.Context())
		s.writeMu.Unlock()
		if err != nil {
			s.writeError(w, http.StatusInternalServerError, "failed to clear review data")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
