// Package http exposes the study, practice, and recall use cases over JSON
// endpoints and one websocket drill.
package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/google/uuid"

	"lingua-study-service/internal/app"
	"lingua-study-service/internal/domain"
	"lingua-study-service/internal/selection"
)

// Handler bundles the JSON endpoints for the study and practice tracks.
type Handler struct {
	study    *app.StudyService
	practice *app.PracticeService
}

func NewHandler(study *app.StudyService, practice *app.PracticeService) *Handler {
	return &Handler{study: study, practice: practice}
}

// NewRouter mounts all routes, including the recall drill websocket.
func NewRouter(handler *Handler, recallWS *RecallWSHandler) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("GET /api/quiz-types", handler.QuizTypes)
	mux.HandleFunc("GET /api/quizzes/next", handler.NextQuiz)
	mux.HandleFunc("POST /api/quizzes/{quizId}/answers", handler.SubmitAnswer)
	mux.HandleFunc("GET /api/users/{userId}/stats", handler.Stats)
	mux.HandleFunc("POST /api/conversations", handler.RegisterConversation)
	mux.HandleFunc("GET /api/conversations", handler.Conversations)
	mux.HandleFunc("GET /api/conversations/{conversationId}", handler.Conversation)
	mux.HandleFunc("POST /api/conversations/{conversationId}/tests", handler.SubmitTest)
	mux.HandleFunc("/ws/recall", recallWS.ServeWS)
	return mux
}

func (h *Handler) QuizTypes(w http.ResponseWriter, r *http.Request) {
	types, err := h.study.QuizTypes(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types)
}

func (h *Handler) NextQuiz(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(r.URL.Query().Get("userId"))
	if err != nil {
		http.Error(w, "missing or invalid userId", http.StatusBadRequest)
		return
	}
	mode, err := selection.ParseMode(r.URL.Query().Get("mode"))
	if err != nil {
		writeError(w, err)
		return
	}
	var quizTypeID *uuid.UUID
	if raw := r.URL.Query().Get("quizTypeId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			http.Error(w, "invalid quizTypeId", http.StatusBadRequest)
			return
		}
		quizTypeID = &id
	}

	quiz, err := h.study.NextQuiz(r.Context(), userID, quizTypeID, mode)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, quiz)
}

type submitAnswerRequest struct {
	UserID     uuid.UUID `json:"userId"`
	AnswerText string    `json:"answerText"`
}

type submitAnswerResponse struct {
	Answer   domain.UserAnswer     `json:"answer"`
	Schedule domain.ReviewSchedule `json:"schedule"`
}

func (h *Handler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	quizID, err := uuid.Parse(r.PathValue("quizId"))
	if err != nil {
		http.Error(w, "invalid quiz id", http.StatusBadRequest)
		return
	}
	var req submitAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	answer, schedule, err := h.study.SubmitAnswer(r.Context(), req.UserID, quizID, req.AnswerText)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, submitAnswerResponse{Answer: answer, Schedule: schedule})
}

type statsResponse struct {
	AverageScore    int `json:"averageScore"`
	UnansweredCount int `json:"unansweredCount"`
	OverdueCount    int `json:"overdueCount"`
	UpcomingCount   int `json:"upcomingCount"`
}

func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(r.PathValue("userId"))
	if err != nil {
		http.Error(w, "invalid user id", http.StatusBadRequest)
		return
	}

	average, err := h.study.AverageScore(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	unanswered, err := h.study.UnansweredCount(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	overdue, upcoming, err := h.study.OverdueCounts(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, statsResponse{
		AverageScore:    average,
		UnansweredCount: unanswered,
		OverdueCount:    overdue,
		UpcomingCount:   upcoming,
	})
}

type registerConversationRequest struct {
	UserID uuid.UUID `json:"userId"`
	Phrase string    `json:"phrase"`
}

func (h *Handler) RegisterConversation(w http.ResponseWriter, r *http.Request) {
	var req registerConversationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Phrase == "" {
		http.Error(w, "missing phrase", http.StatusBadRequest)
		return
	}

	conversation, err := h.practice.RegisterConversation(r.Context(), req.UserID, req.Phrase)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, conversation)
}

func (h *Handler) Conversations(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(r.URL.Query().Get("userId"))
	if err != nil {
		http.Error(w, "missing or invalid userId", http.StatusBadRequest)
		return
	}
	conversations, err := h.practice.Conversations(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, conversations)
}

func (h *Handler) Conversation(w http.ResponseWriter, r *http.Request) {
	conversationID, err := uuid.Parse(r.PathValue("conversationId"))
	if err != nil {
		http.Error(w, "invalid conversation id", http.StatusBadRequest)
		return
	}
	userID, err := uuid.Parse(r.URL.Query().Get("userId"))
	if err != nil {
		http.Error(w, "missing or invalid userId", http.StatusBadRequest)
		return
	}

	conversation, err := h.practice.Conversation(r.Context(), conversationID, userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, conversation)
}

type submitTestRequest struct {
	UserID  uuid.UUID `json:"userId"`
	Answers []string  `json:"answers"`
}

func (h *Handler) SubmitTest(w http.ResponseWriter, r *http.Request) {
	conversationID, err := uuid.Parse(r.PathValue("conversationId"))
	if err != nil {
		http.Error(w, "invalid conversation id", http.StatusBadRequest)
		return
	}
	var req submitTestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	summary, err := h.practice.SubmitTest(r.Context(), req.UserID, conversationID, req.Answers)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrQuizNotFound),
		errors.Is(err, domain.ErrConversationNotFound),
		errors.Is(err, domain.ErrRecallCardNotFound),
		errors.Is(err, domain.ErrScheduleNotFound),
		errors.Is(err, domain.ErrNoEligibleQuiz):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, domain.ErrInvalidStudyMode),
		errors.Is(err, domain.ErrNoAnswers):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, domain.ErrAnswerCountMismatch):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		log.Printf("request failed: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
