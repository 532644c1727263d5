package http

import (
	"bytes"
	"encoding/json"
	"io"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"vocab-quiz-service/internal/app"
	"vocab-quiz-service/internal/catalog"
	"vocab-quiz-service/internal/infra/memory"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	questions := memory.NewQuestionStore()
	repo := app.NewQuestionRepository(catalog.MustLoad(), memory.NewDocumentStore(), questions, nil)
	results := memory.NewResultStore(questions)
	quiz := app.NewQuizService(memory.NewSessionStore(0), repo, results, nil, app.QuizOptions{
		Rand: rand.New(rand.NewSource(5)),
	})
	router := NewRouter(Services{
		Questions: repo,
		Quiz:      quiz,
		Stats:     app.NewStatsService(results, repo, 0),
	}, nil)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server
}

func do(t *testing.T, server *httptest.Server, method, path, contentType, body string) (int, []byte) {
	t.Helper()
	req, err := http.NewRequest(method, server.URL+path, strings.NewReader(body))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	data, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, data
}

func decode[T any](t *testing.T, data []byte) T {
	t.Helper()
	var out T
	if err := json.NewDecoder(bytes.NewReader(data)).Decode(&out); err != nil {
		t.Fatalf("decode %s: %v", data, err)
	}
	return out
}

type listedQuestion struct {
	Index        int      `json:"index"`
	IsDefault    bool     `json:"isDefault"`
	ID           string   `json:"id"`
	Text         string   `json:"text"`
	Choices      []string `json:"choices"`
	CorrectIndex int      `json:"correctIndex"`
}

func TestHealthz(t *testing.T) {
	server := newTestServer(t)
	status, _ := do(t, server, "GET", "/healthz", "", "")
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
}

func TestQuestionAdminFlow(t *testing.T) {
	server := newTestServer(t)

	status, body := do(t, server, "GET", "/v1/questions?type=vocabulary", "", "")
	if status != http.StatusOK {
		t.Fatalf("list: %d %s", status, body)
	}
	listed := decode[[]listedQuestion](t, body)
	if len(listed) != 20 || !listed[0].IsDefault {
		t.Fatalf("expected 20 default questions, got %d", len(listed))
	}

	status, _ = do(t, server, "DELETE", "/v1/questions/vocabulary/0", "", "")
	if status != http.StatusConflict {
		t.Fatalf("expected bundled delete to be refused, got %d", status)
	}
	status, _ = do(t, server, "DELETE", "/v1/questions/vocabulary/0?force=true", "", "")
	if status != http.StatusOK {
		t.Fatalf("expected forced delete, got %d", status)
	}

	status, body = do(t, server, "POST", "/v1/questions", "application/json",
		`{"text":"bad","choices":["a","b"],"correctIndex":0,"category":"vocabulary"}`)
	if status != http.StatusBadRequest {
		t.Fatalf("expected 400 for two choices, got %d", status)
	}
	if errBody := decode[errorBody](t, body); errBody.Field != "choices" {
		t.Fatalf("expected choices field, got %+v", errBody)
	}

	status, body = do(t, server, "POST", "/v1/questions", "application/json",
		`{"text":"new [[word]]","choices":["a","b","c"],"correctIndex":2,"category":"vocabulary"}`)
	if status != http.StatusCreated {
		t.Fatalf("create: %d %s", status, body)
	}

	status, body = do(t, server, "GET", "/v1/questions/vocabulary/19/default", "", "")
	if status != http.StatusOK || !strings.Contains(string(body), `"isDefault":false`) {
		t.Fatalf("expected created slot not default, got %d %s", status, body)
	}
	status, body = do(t, server, "GET", "/v1/questions/vocabulary/0/default", "", "")
	if status != http.StatusOK || !strings.Contains(string(body), `"isDefault":true`) {
		t.Fatalf("expected bundled slot default, got %d %s", status, body)
	}

	status, body = do(t, server, "PUT", "/v1/questions/vocabulary/0", "application/json",
		`{"text":"rewritten","choices":["x","y","z","w"],"correctIndex":3}`)
	if status != http.StatusOK {
		t.Fatalf("update: %d %s", status, body)
	}
	status, _ = do(t, server, "DELETE", "/v1/questions/vocabulary/0", "", "")
	if status != http.StatusOK {
		t.Fatalf("edited question should delete without force, got %d", status)
	}

	status, _ = do(t, server, "PUT", "/v1/questions/vocabulary/99", "application/json",
		`{"text":"x","choices":["a","b","c"],"correctIndex":0}`)
	if status != http.StatusNotFound {
		t.Fatalf("expected 404 for missing index, got %d", status)
	}
	status, _ = do(t, server, "GET", "/v1/questions?type=kanji", "", "")
	if status != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown category, got %d", status)
	}

	status, body = do(t, server, "GET", "/v1/questions?type=vocabulary", "", "")
	listed = decode[[]listedQuestion](t, body)
	if status != http.StatusOK || len(listed) != 19 || listed[18].Text != "new [[word]]" {
		t.Fatalf("unexpected final list (%d items)", len(listed))
	}
}

func TestImportAndReset(t *testing.T) {
	server := newTestServer(t)

	csv := "imported one,a,b,c\nimported one,a,b,c\nimported two,a,b,c,d\n"
	status, body := do(t, server, "POST", "/v1/questions/wago/import", "text/csv", csv)
	if status != http.StatusOK {
		t.Fatalf("import: %d %s", status, body)
	}
	if !strings.Contains(string(body), `"imported":2`) || !strings.Contains(string(body), `"skippedDuplicate":1`) {
		t.Fatalf("unexpected report %s", body)
	}

	status, body = do(t, server, "POST", "/v1/questions/wago/import", "text/csv", "ok,a,b,c\nshort,a\n")
	if status != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed csv, got %d", status)
	}
	if errBody := decode[errorBody](t, body); errBody.Line != 2 {
		t.Fatalf("expected line 2, got %+v", errBody)
	}

	status, body = do(t, server, "POST", "/v1/questions/wago/import", "text/csv", "ok,a,b,c\n\nblank choice,a,,c\n")
	if status != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid row, got %d", status)
	}
	if errBody := decode[errorBody](t, body); errBody.Line != 3 || errBody.Field != "choices[1]" {
		t.Fatalf("expected line 3 and field choices[1], got %+v", errBody)
	}

	status, _ = do(t, server, "DELETE", "/v1/local-cache", "", "")
	if status != http.StatusNoContent {
		t.Fatalf("reset: %d", status)
	}
}

type sessionBody struct {
	ID       string `json:"id"`
	State    string `json:"state"`
	Position int    `json:"position"`
	Total    int    `json:"total"`
	Question *struct {
		Text    string `json:"text"`
		Choices []struct {
			Text  string `json:"text"`
			Index int    `json:"index"`
		} `json:"choices"`
	} `json:"question"`
}

func TestSessionFlow(t *testing.T) {
	server := newTestServer(t)

	status, _ := do(t, server, "POST", "/v1/sessions", "application/json", `{"category":"wago"}`)
	if status != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for empty category, got %d", status)
	}

	status, body := do(t, server, "POST", "/v1/sessions", "application/json", `{"category":"proverb"}`)
	if status != http.StatusCreated {
		t.Fatalf("start: %d %s", status, body)
	}
	if strings.Contains(string(body), "correctIndex") {
		t.Fatalf("session view leaks the answer: %s", body)
	}
	session := decode[sessionBody](t, body)
	if session.Total != 10 || session.State != "in_progress" || session.Question == nil {
		t.Fatalf("unexpected session %+v", session)
	}

	base := "/v1/sessions/" + session.ID
	status, _ = do(t, server, "POST", base+"/next", "application/json", "")
	if status != http.StatusConflict {
		t.Fatalf("expected 409 advancing unanswered, got %d", status)
	}
	status, _ = do(t, server, "POST", base+"/answer", "application/json", `{}`)
	if status != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing choice, got %d", status)
	}

	choice := session.Question.Choices[0].Index
	status, body = do(t, server, "POST", base+"/answer", "application/json", `{"choice":`+itoa(choice)+`}`)
	if status != http.StatusOK || !strings.Contains(string(body), `"correctIndex"`) {
		t.Fatalf("answer: %d %s", status, body)
	}
	status, _ = do(t, server, "POST", base+"/answer", "application/json", `{"choice":`+itoa(choice)+`}`)
	if status != http.StatusConflict {
		t.Fatalf("expected 409 for second answer, got %d", status)
	}

	status, body = do(t, server, "POST", base+"/next", "application/json", "")
	if next := decode[sessionBody](t, body); status != http.StatusOK || next.Position != 1 {
		t.Fatalf("next: %d %s", status, body)
	}

	status, _ = do(t, server, "GET", base+"/result", "", "")
	if status != http.StatusConflict {
		t.Fatalf("expected 409 for result in progress, got %d", status)
	}
	status, body = do(t, server, "POST", base+"/quit", "application/json", "")
	if status != http.StatusOK || !strings.Contains(string(body), `"total":10`) || !strings.Contains(string(body), `"grade"`) {
		t.Fatalf("quit: %d %s", status, body)
	}

	status, _ = do(t, server, "DELETE", base, "", "")
	if status != http.StatusNoContent {
		t.Fatalf("end: %d", status)
	}
	status, _ = do(t, server, "GET", base, "", "")
	if status != http.StatusNotFound {
		t.Fatalf("expected 404 after end, got %d", status)
	}
}

func TestQuizResults(t *testing.T) {
	server := newTestServer(t)

	for _, body := range []string{
		`{"questionId":"vocabulary-001","isCorrect":false,"quizType":"vocabulary"}`,
		`{"questionId":"vocabulary-001","isCorrect":true,"quizType":"vocabulary"}`,
		`{"questionId":"vocabulary-002","isCorrect":true,"quizType":"vocabulary"}`,
	} {
		status, resp := do(t, server, "POST", "/v1/quiz-results", "application/json", body)
		if status != http.StatusCreated {
			t.Fatalf("record: %d %s", status, resp)
		}
	}
	status, _ := do(t, server, "POST", "/v1/quiz-results", "application/json", `{"questionId":"","quizType":"vocabulary"}`)
	if status != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty question id, got %d", status)
	}

	status, body := do(t, server, "GET", "/v1/quiz-results?type=vocabulary", "", "")
	if status != http.StatusOK {
		t.Fatalf("stats: %d %s", status, body)
	}
	stats := decode[[]struct {
		QuestionID   string  `json:"questionId"`
		TotalAnswers int     `json:"totalAnswers"`
		CorrectRate  float64 `json:"correctRate"`
		Question     *struct {
			Text string `json:"text"`
		} `json:"question"`
	}](t, body)
	if len(stats) != 2 || stats[0].QuestionID != "vocabulary-001" || stats[0].CorrectRate != 50 {
		t.Fatalf("unexpected stats %+v", stats)
	}
	if stats[0].Question == nil || stats[0].Question.Text == "" {
		t.Fatalf("expected bundled question text in stats, got %+v", stats[0])
	}

	status, _ = do(t, server, "GET", "/v1/quiz-results?order=sideways", "", "")
	if status != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad order, got %d", status)
	}
}

func itoa(n int) string {
	b, _ := json.Marshal(n)
	return string(b)
}
