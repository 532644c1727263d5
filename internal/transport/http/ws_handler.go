package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"vocab-quiz-service/internal/app"
	"vocab-quiz-service/internal/domain"
)

// WSHandler plays one quiz session per websocket connection.
type WSHandler struct {
	service  *app.QuizService
	logger   *zap.Logger
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.QuizService, logger *zap.Logger) *WSHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WSHandler{
		service: service,
		logger:  logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type startPayload struct {
	Category domain.Category `json:"category"`
}

type answerPayload struct {
	Choice int `json:"choice"`
}

type questionPayload struct {
	SessionID string `json:"sessionId"`
	Position  int    `json:"position"`
	Total     int    `json:"total"`
	Score     int    `json:"score"`
	playQuestion
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

var errNoSession = errors.New("no quiz started on this connection")

// ServeWS upgrades HTTP requests to websockets and wires them into the quiz use cases.
// Closing the socket abandons the session.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("ws upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	send := make(chan outboundMessage[any], 16)
	writerDone := make(chan struct{})

	// single writer; gorilla connections allow one concurrent writer
	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				h.logger.Debug("ws write error", zap.Error(err))
				return
			}
		}
	}()

	var sessionID string
	defer func() {
		if sessionID != "" {
			h.service.EndSession(sessionID)
		}
	}()

	// push drops messages once the writer has stopped so the read loop never blocks on a dead peer
	push := func(msg outboundMessage[any]) {
		select {
		case send <- msg:
		case <-writerDone:
		}
	}
	sendError := func(err error) {
		push(outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}})
	}

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		ctx := r.Context()

		switch inbound.Type {
		case "start":
			var payload startPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				sendError(errors.New("invalid start payload"))
				continue
			}
			session, err := h.service.StartSession(ctx, payload.Category)
			if err != nil {
				sendError(err)
				continue
			}
			if sessionID != "" {
				h.service.EndSession(sessionID)
			}
			sessionID = session.ID()
			h.sendQuestion(push, session)

		case "answer":
			if sessionID == "" {
				sendError(errNoSession)
				continue
			}
			var payload answerPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				sendError(errors.New("invalid answer payload"))
				continue
			}
			outcome, err := h.service.SubmitAnswer(ctx, sessionID, payload.Choice)
			if err != nil {
				sendError(err)
				continue
			}
			push(outboundMessage[any]{Type: "answerResult", Payload: outcome})

		case "next":
			if sessionID == "" {
				sendError(errNoSession)
				continue
			}
			more, err := h.service.Advance(ctx, sessionID)
			if err != nil {
				sendError(err)
				continue
			}
			if more {
				session, err := h.service.Session(sessionID)
				if err != nil {
					sendError(err)
					continue
				}
				h.sendQuestion(push, session)
				continue
			}
			h.sendResult(ctx, push, sessionID, sendError)

		case "quit":
			if sessionID == "" {
				sendError(errNoSession)
				continue
			}
			if err := h.service.Quit(ctx, sessionID); err != nil {
				sendError(err)
				continue
			}
			h.sendResult(ctx, push, sessionID, sendError)

		default:
			sendError(errors.New("unsupported message type"))
		}
	}

	close(send)
	<-writerDone
}

func (h *WSHandler) sendQuestion(push func(outboundMessage[any]), session *app.Session) {
	q, ok := currentQuestion(session)
	if !ok {
		return
	}
	p := session.Progress()
	push(outboundMessage[any]{Type: "question", Payload: questionPayload{
		SessionID:    session.ID(),
		Position:     p.Position,
		Total:        p.Total,
		Score:        p.Score,
		playQuestion: q,
	}})
}

func (h *WSHandler) sendResult(ctx context.Context, push func(outboundMessage[any]), sessionID string, sendError func(error)) {
	summary, err := h.service.Result(ctx, sessionID)
	if err != nil {
		sendError(err)
		return
	}
	push(outboundMessage[any]{Type: "result", Payload: summary})
}
