package http

import (
	"net/http"

	"vocab-quiz-service/internal/app"
	"vocab-quiz-service/internal/domain"
)

// ResultHandler records answer events and serves per-question statistics.
type ResultHandler struct {
	quiz  *app.QuizService
	stats *app.StatsService
}

func NewResultHandler(quiz *app.QuizService, stats *app.StatsService) *ResultHandler {
	return &ResultHandler{quiz: quiz, stats: stats}
}

type resultRequest struct {
	QuestionID string          `json:"questionId"`
	IsCorrect  bool            `json:"isCorrect"`
	QuizType   domain.Category `json:"quizType"`
}

func (h *ResultHandler) Record(w http.ResponseWriter, r *http.Request) {
	var req resultRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	stored, err := h.quiz.RecordResult(r.Context(), domain.ResultEvent{
		QuestionID: req.QuestionID,
		IsCorrect:  req.IsCorrect,
		QuizType:   req.QuizType,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, stored)
}

// Stats lists per-question statistics, worst first unless order=desc.
func (h *ResultHandler) Stats(w http.ResponseWriter, r *http.Request) {
	var quizType domain.Category
	if raw := r.URL.Query().Get("type"); raw != "" {
		c, err := domain.ParseCategory(raw)
		if err != nil {
			writeError(w, err)
			return
		}
		quizType = c
	}
	order, err := app.ParseSortOrder(r.URL.Query().Get("order"))
	if err != nil {
		writeError(w, err)
		return
	}
	stats, err := h.stats.Statistics(r.Context(), quizType, order)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
