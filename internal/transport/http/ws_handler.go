package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"lingua-study-service/internal/app"
	"lingua-study-service/internal/domain"
)

// RecallWSHandler runs the flashcard drill over a websocket. The client asks
// for the next card, answers it, and gets the graded review back on the same
// connection.
type RecallWSHandler struct {
	service  *app.RecallService
	upgrader websocket.Upgrader
}

func NewRecallWSHandler(service *app.RecallService) *RecallWSHandler {
	return &RecallWSHandler{
		service: service,
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

type answerPayload struct {
	CardID     uuid.UUID `json:"cardId"`
	AnswerText string    `json:"answerText"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS upgrades the request and serves the drill loop. Messages are
// strictly request/response, so a single goroutine owns the connection.
func (h *RecallWSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(r.URL.Query().Get("userId"))
	if err != nil {
		http.Error(w, "missing or invalid userId", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			return
		}
		switch inbound.Type {
		case "next":
			card, err := h.service.NextCard(r.Context(), userID)
			if errors.Is(err, domain.ErrRecallCardNotFound) {
				h.write(conn, "done", struct{}{})
				continue
			}
			if err != nil {
				h.writeError(conn, err)
				continue
			}
			h.write(conn, "card", card)
		case "answer":
			var payload answerPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				h.write(conn, "error", errorPayload{Message: "invalid answer payload"})
				continue
			}
			review, err := h.service.SubmitAnswer(r.Context(), userID, payload.CardID, payload.AnswerText)
			if err != nil {
				h.writeError(conn, err)
				continue
			}
			h.write(conn, "review", review)
		default:
			h.write(conn, "error", errorPayload{Message: "unsupported message type"})
		}
	}
}

func (h *RecallWSHandler) write(conn *websocket.Conn, msgType string, payload any) {
	if err := conn.WriteJSON(outboundMessage[any]{Type: msgType, Payload: payload}); err != nil {
		log.Printf("ws write error: %v", err)
	}
}

func (h *RecallWSHandler) writeError(conn *websocket.Conn, err error) {
	h.write(conn, "error", errorPayload{Message: err.Error()})
}
