package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"vocab-quiz-service/internal/app"
	"vocab-quiz-service/internal/domain"
)

// SessionHandler exposes quiz play over plain HTTP.
type SessionHandler struct {
	quiz *app.QuizService
}

func NewSessionHandler(quiz *app.QuizService) *SessionHandler {
	return &SessionHandler{quiz: quiz}
}

// playQuestion is what a player sees; the correct index stays server-side.
type playQuestion struct {
	ID      string                 `json:"id,omitempty"`
	Text    string                 `json:"text"`
	Choices []domain.DisplayChoice `json:"choices"`
}

type sessionView struct {
	ID       string          `json:"id"`
	State    string          `json:"state"`
	Category domain.Category `json:"category"`
	Position int             `json:"position"`
	Total    int             `json:"total"`
	Score    int             `json:"score"`
	Answered bool            `json:"answered"`
	Question *playQuestion   `json:"question,omitempty"`
}

func viewSession(s *app.Session) sessionView {
	p := s.Progress()
	view := sessionView{
		ID:       s.ID(),
		State:    p.State.String(),
		Category: s.Category(),
		Position: p.Position,
		Total:    p.Total,
		Score:    p.Score,
		Answered: p.Answered,
	}
	if q, ok := currentQuestion(s); ok {
		view.Question = &q
	}
	return view
}

func currentQuestion(s *app.Session) (playQuestion, bool) {
	q, err := s.CurrentQuestion()
	if err != nil {
		return playQuestion{}, false
	}
	choices, err := s.CurrentChoices()
	if err != nil {
		return playQuestion{}, false
	}
	return playQuestion{ID: q.ID, Text: q.Text, Choices: choices}, true
}

type startRequest struct {
	Category domain.Category `json:"category"`
}

type answerRequest struct {
	Choice *int `json:"choice"`
}

func (h *SessionHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req startRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	session, err := h.quiz.StartSession(r.Context(), req.Category)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, viewSession(session))
}

func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	session, err := h.quiz.Session(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewSession(session))
}

func (h *SessionHandler) Answer(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Choice == nil {
		writeError(w, &domain.ValidationError{Field: "choice", Reason: "is required"})
		return
	}
	outcome, err := h.quiz.SubmitAnswer(r.Context(), mux.Vars(r)["id"], *req.Choice)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, outcome)
}

func (h *SessionHandler) Next(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if _, err := h.quiz.Advance(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	h.Get(w, r)
}

func (h *SessionHandler) Quit(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := h.quiz.Quit(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	h.Result(w, r)
}

func (h *SessionHandler) Result(w http.ResponseWriter, r *http.Request) {
	summary, err := h.quiz.Result(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *SessionHandler) End(w http.ResponseWriter, r *http.Request) {
	h.quiz.EndSession(mux.Vars(r)["id"])
	w.WriteHeader(http.StatusNoContent)
}
