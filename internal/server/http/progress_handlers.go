package http

import (
	"net/http"

	"github.com/dmitrijs2005/edutrack/internal/server/models"
	"github.com/go-chi/chi/v5"
)

type progressResponse struct {
	Progress []models.LessonStatus `json:"progress"`
}

type answerRequest struct {
	UserID     flexID   `json:"userId" validate:"required"`
	ExerciseID flexID   `json:"exerciseId" validate:"required"`
	Answer     flexText `json:"answer"`
}

func (s *Server) handleGetProgress(w http.ResponseWriter, r *http.Request) {
	userID, err := parseID(chi.URLParam(r, "userId"))
	if err != nil {
		s.fail(w, r, err, "Failed to fetch progress")
		return
	}
	courseID, err := parseID(chi.URLParam(r, "courseId"))
	if err != nil {
		s.fail(w, r, err, "Failed to fetch progress")
		return
	}

	progress, err := s.svc.Progress.GetProgress(r.Context(), userID, courseID)
	if err != nil {
		s.fail(w, r, err, "Failed to fetch progress")
		return
	}

	writeJSON(w, http.StatusOK, progressResponse{Progress: progress})
}

func (s *Server) handleMarkCompleted(w http.ResponseWriter, r *http.Request) {
	userID, err := parseID(chi.URLParam(r, "userId"))
	if err != nil {
		s.fail(w, r, err, "Failed to update progress")
		return
	}
	lessonID, err := parseID(chi.URLParam(r, "lessonId"))
	if err != nil {
		s.fail(w, r, err, "Failed to update progress")
		return
	}

	if err := s.svc.Progress.MarkCompleted(r.Context(), userID, lessonID); err != nil {
		s.fail(w, r, err, "Failed to update progress")
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) handleSubmitAnswer(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if err := decodeJSON(w, r, &req); err != nil || s.validate.Struct(req) != nil {
		writeError(w, http.StatusBadRequest, "userId and exerciseId are required")
		return
	}

	correct, err := s.svc.Grading.Submit(r.Context(), int64(req.UserID), int64(req.ExerciseID), string(req.Answer))
	if err != nil {
		s.fail(w, r, err, "Failed to submit answer")
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"correct": correct})
}
