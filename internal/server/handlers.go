package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"qabot/internal/domain"
)

type answerRequest struct {
	Query string `json:"query"`
}

type answerResponse struct {
	Answer   string  `json:"answer"`
	Index    int     `json:"index"`
	Score    float64 `json:"score"`
	Fallback bool    `json:"fallback,omitempty"`
}

type messageRequest struct {
	Text string `json:"text"`
}

type sessionResponse struct {
	ID      string        `json:"id"`
	History []domain.Turn `json:"history"`
}

type messageResponse struct {
	answerResponse
	History []domain.Turn `json:"history"`
}

func (s *Server) handleAnswer(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.respondJSON(w, http.StatusOK, s.answer(req.Query))
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	id := s.sessions.create()
	s.metrics.ActiveSessions.Set(float64(s.sessions.len()))
	s.logger.Debug("session created", zap.String("id", id))
	s.respondJSON(w, http.StatusCreated, sessionResponse{ID: id, History: []domain.Turn{}})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	log, ok := s.sessions.get(id)
	if !ok {
		s.respondError(w, http.StatusNotFound, "session not found")
		return
	}
	s.respondJSON(w, http.StatusOK, sessionResponse{ID: id, History: log.Snapshot()})
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !s.sessions.delete(id) {
		s.respondError(w, http.StatusNotFound, "session not found")
		return
	}
	s.metrics.ActiveSessions.Set(float64(s.sessions.len()))
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handlePostMessage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	log, ok := s.sessions.get(id)
	if !ok {
		s.respondError(w, http.StatusNotFound, "session not found")
		return
	}
	var req messageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		s.respondError(w, http.StatusBadRequest, "text must not be blank")
		return
	}
	ans := s.answer(req.Text)
	log.Exchange(req.Text, ans.Answer)
	s.respondJSON(w, http.StatusOK, messageResponse{answerResponse: ans, History: log.Snapshot()})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) answer(query string) answerResponse {
	m := s.bot.Match(query)
	s.metrics.observeAnswer(m.Score, m.Fallback)
	return answerResponse{Answer: m.Answer, Index: m.Index, Score: m.Score, Fallback: m.Fallback}
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode response", zap.Error(err))
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, msg string) {
	s.respondJSON(w, status, map[string]string{"error": msg})
}
