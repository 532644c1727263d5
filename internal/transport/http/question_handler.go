package http

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"vocab-quiz-service/internal/app"
	"vocab-quiz-service/internal/domain"
)

// QuestionHandler serves the question admin endpoints.
type QuestionHandler struct {
	repo *app.QuestionRepository
}

func NewQuestionHandler(repo *app.QuestionRepository) *QuestionHandler {
	return &QuestionHandler{repo: repo}
}

type questionView struct {
	Index     int  `json:"index"`
	IsDefault bool `json:"isDefault"`
	domain.Question
}

type questionRequest struct {
	Text         string          `json:"text"`
	Choices      []string        `json:"choices"`
	CorrectIndex int             `json:"correctIndex"`
	Category     domain.Category `json:"category"`
}

func (q questionRequest) question() domain.Question {
	return domain.Question{Text: q.Text, Choices: q.Choices, CorrectIndex: q.CorrectIndex}
}

// List returns the merged view of one category, or of every category when type is empty.
func (h *QuestionHandler) List(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("type")
	if raw == "" {
		all := make(map[domain.Category][]questionView, len(domain.Categories()))
		for _, c := range domain.Categories() {
			views, err := h.views(r, c)
			if err != nil {
				writeError(w, err)
				return
			}
			all[c] = views
		}
		writeJSON(w, http.StatusOK, all)
		return
	}

	category, err := domain.ParseCategory(raw)
	if err != nil {
		writeError(w, err)
		return
	}
	views, err := h.views(r, category)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, views)
}

func (h *QuestionHandler) views(r *http.Request, category domain.Category) ([]questionView, error) {
	questions, err := h.repo.Load(r.Context(), category)
	if err != nil {
		return nil, err
	}
	views := make([]questionView, len(questions))
	for i, q := range questions {
		views[i] = questionView{Index: i, IsDefault: q.Origin == domain.OriginBundled, Question: q}
	}
	return views, nil
}

func (h *QuestionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req questionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	category, err := domain.ParseCategory(string(req.Category))
	if err != nil {
		writeError(w, err)
		return
	}
	created, err := h.repo.Add(r.Context(), category, req.question())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *QuestionHandler) Update(w http.ResponseWriter, r *http.Request) {
	category, index, err := slot(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req questionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	updated, err := h.repo.Update(r.Context(), category, index, req.question())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// Delete removes a question. Bundled questions need ?force=true.
func (h *QuestionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	category, index, err := slot(r)
	if err != nil {
		writeError(w, err)
		return
	}
	force, _ := strconv.ParseBool(r.URL.Query().Get("force"))
	removed, err := h.repo.Delete(r.Context(), category, index, force)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, removed)
}

func (h *QuestionHandler) IsDefault(w http.ResponseWriter, r *http.Request) {
	category, index, err := slot(r)
	if err != nil {
		writeError(w, err)
		return
	}
	isDefault, err := h.repo.IsDefault(r.Context(), category, index)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"isDefault": isDefault})
}

// Import reads a CSV body and adds its questions to the category.
func (h *QuestionHandler) Import(w http.ResponseWriter, r *http.Request) {
	category, err := domain.ParseCategory(mux.Vars(r)["category"])
	if err != nil {
		writeError(w, err)
		return
	}
	questions, err := app.ParseCSV(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, err)
		return
	}
	report, err := h.repo.ImportBulk(r.Context(), category, questions)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// Reset clears the local question document.
func (h *QuestionHandler) Reset(w http.ResponseWriter, r *http.Request) {
	if err := h.repo.Reset(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func slot(r *http.Request) (domain.Category, int, error) {
	vars := mux.Vars(r)
	category, err := domain.ParseCategory(vars["category"])
	if err != nil {
		return "", 0, err
	}
	index, err := strconv.Atoi(vars["index"])
	if err != nil {
		return "", 0, domain.ErrIndexOutOfRange
	}
	return category, index, nil
}
