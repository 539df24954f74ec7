package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"postflow/internal/domain"
	"postflow/internal/scheduler"
)

type Server struct {
	r     *chi.Mux
	sched *scheduler.Service
}

func NewServer(sched *scheduler.Service) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)

	s := &Server{r: r, sched: sched}

	r.Get("/health", s.health)
	r.Get("/metrics", s.metrics)
	r.Post("/api/posts", s.schedulePost)
	r.Get("/api/posts", s.listPosts)
	r.Get("/api/posts/upcoming", s.upcomingPosts)
	r.Delete("/api/posts/{id}", s.cancelPost)
	r.Post("/api/posts/process", s.processDue)

	return r
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func (s *Server) metrics(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("content-type", "text/plain; version=0.0.4")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("postflow_up 1\n"))
}

type scheduleReq struct {
	GenerationID string   `json:"generationId"`
	Brand        string   `json:"brand"`
	Platforms    []string `json:"platforms"`
	ScheduledFor string   `json:"scheduledFor"`
}

type scheduleResp struct {
	Success    bool   `json:"success"`
	ScheduleID string `json:"scheduleId"`
}

func (s *Server) schedulePost(w http.ResponseWriter, r *http.Request) {
	var req scheduleReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	when, err := time.Parse(time.RFC3339, req.ScheduledFor)
	if err != nil {
		writeError(w, http.StatusBadRequest, "scheduledFor must be an RFC3339 timestamp")
		return
	}
	id, err := s.sched.Schedule(r.Context(), scheduler.ScheduleRequest{
		GenerationID: req.GenerationID,
		Brand:        req.Brand,
		Platforms:    req.Platforms,
		ScheduledFor: when,
	})
	if err != nil {
		writeSchedulerError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, scheduleResp{Success: true, ScheduleID: id})
}

func (s *Server) listPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := s.sched.Scheduled(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if posts == nil {
		posts = []domain.ScheduledPost{}
	}
	writeJSON(w, http.StatusOK, posts)
}

func (s *Server) upcomingPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := s.sched.Upcoming(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if posts == nil {
		posts = []domain.ScheduledPost{}
	}
	writeJSON(w, http.StatusOK, posts)
}

func (s *Server) cancelPost(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.sched.Cancel(r.Context(), id); err != nil {
		writeSchedulerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (s *Server) processDue(w http.ResponseWriter, r *http.Request) {
	sum, err := s.sched.ProcessDue(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

func writeSchedulerError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, scheduler.ErrInvalidRequest):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, scheduler.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, scheduler.ErrNotPending):
		writeError(w, http.StatusConflict, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]any{"success": false, "error": msg})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("content-type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
