package http

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"vocab-quiz-service/internal/app"
)

// Services holds the use cases the router exposes.
type Services struct {
	Questions *app.QuestionRepository
	Quiz      *app.QuizService
	Stats     *app.StatsService
}

// NewRouter creates the API router with all endpoints.
func NewRouter(s Services, logger *zap.Logger) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := mux.NewRouter()
	r.Use(corsMiddleware)
	r.Use(requestLogger(logger))

	questions := NewQuestionHandler(s.Questions)
	results := NewResultHandler(s.Quiz, s.Stats)
	sessions := NewSessionHandler(s.Quiz)
	ws := NewWSHandler(s.Quiz, logger)

	r.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods("GET")
	r.HandleFunc("/ws", ws.ServeWS).Methods("GET")

	v1 := r.PathPrefix("/v1").Subrouter()

	v1.HandleFunc("/questions", questions.List).Methods("GET", "OPTIONS")
	v1.HandleFunc("/questions", questions.Create).Methods("POST", "OPTIONS")
	v1.HandleFunc("/questions/{category}/import", questions.Import).Methods("POST", "OPTIONS")
	v1.HandleFunc("/questions/{category}/{index:[0-9]+}", questions.Update).Methods("PUT", "OPTIONS")
	v1.HandleFunc("/questions/{category}/{index:[0-9]+}", questions.Delete).Methods("DELETE", "OPTIONS")
	v1.HandleFunc("/questions/{category}/{index:[0-9]+}/default", questions.IsDefault).Methods("GET", "OPTIONS")
	v1.HandleFunc("/local-cache", questions.Reset).Methods("DELETE", "OPTIONS")

	v1.HandleFunc("/quiz-results", results.Record).Methods("POST", "OPTIONS")
	v1.HandleFunc("/quiz-results", results.Stats).Methods("GET", "OPTIONS")

	v1.HandleFunc("/sessions", sessions.Start).Methods("POST", "OPTIONS")
	v1.HandleFunc("/sessions/{id}", sessions.Get).Methods("GET", "OPTIONS")
	v1.HandleFunc("/sessions/{id}", sessions.End).Methods("DELETE", "OPTIONS")
	v1.HandleFunc("/sessions/{id}/answer", sessions.Answer).Methods("POST", "OPTIONS")
	v1.HandleFunc("/sessions/{id}/next", sessions.Next).Methods("POST", "OPTIONS")
	v1.HandleFunc("/sessions/{id}/quit", sessions.Quit).Methods("POST", "OPTIONS")
	v1.HandleFunc("/sessions/{id}/result", sessions.Result).Methods("GET", "OPTIONS")

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func requestLogger(logger *zap.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// websocket upgrades need the raw writer for hijacking
			if r.URL.Path == "/ws" {
				next.ServeHTTP(w, r)
				return
			}
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			logger.Debug("http request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", rec.status),
				zap.Duration("duration", time.Since(start)))
		})
	}
}
