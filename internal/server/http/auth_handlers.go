package http

import (
	"net/http"

	"github.com/dmitrijs2005/edutrack/internal/common"
	"github.com/dmitrijs2005/edutrack/internal/server/models"
	"github.com/dmitrijs2005/edutrack/internal/server/services"
	"github.com/go-chi/chi/v5"
)

type signupRequest struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type updateProfileRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

type sessionResponse struct {
	Token string            `json:"token"`
	User  models.PublicUser `json:"user"`
}

type userResponse struct {
	User models.PublicUser `json:"user"`
}

type statsResponse struct {
	LessonsCompleted   int      `json:"lessonsCompleted"`
	ExercisesAttempted int      `json:"exercisesAttempted"`
	CorrectAnswers     int      `json:"correctAnswers"`
	Accuracy           accuracy `json:"accuracy"`
	PointsEarned       int      `json:"pointsEarned"`
}

func newSessionResponse(s *services.Session) sessionResponse {
	return sessionResponse{Token: s.Token, User: s.User}
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := decodeJSON(w, r, &req); err != nil || s.validate.Struct(req) != nil {
		writeError(w, http.StatusBadRequest, "Email, username, and password are required")
		return
	}

	session, err := s.svc.Auth.Signup(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		s.fail(w, r, err, "Failed to sign up")
		return
	}

	writeJSON(w, http.StatusCreated, newSessionResponse(session))
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil || s.validate.Struct(req) != nil {
		writeError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	session, err := s.svc.Auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		s.fail(w, r, err, "Failed to log in")
		return
	}

	writeJSON(w, http.StatusOK, newSessionResponse(session))
}

func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	user, err := s.svc.Auth.VerifySession(r.Context(), bearerToken(r.Header.Get(common.AuthorizationHeaderName)))
	if err != nil {
		// every verification failure is reported as 401
		if statusFor(err) == http.StatusInternalServerError {
			s.logger.Error(r.Context(), "verify session", "error", err)
			writeError(w, http.StatusUnauthorized, "Invalid token")
			return
		}
		s.fail(w, r, err, "Invalid token")
		return
	}

	writeJSON(w, http.StatusOK, userResponse{User: user})
}

// An unreadable body is passed through as empty fields so the
// session is checked before the payload.
func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req updateProfileRequest
	_ = decodeJSON(w, r, &req)

	user, err := s.svc.Auth.UpdateProfile(r.Context(), bearerToken(r.Header.Get(common.AuthorizationHeaderName)), req.Username, req.Email)
	if err != nil {
		s.fail(w, r, err, "Failed to update profile")
		return
	}

	writeJSON(w, http.StatusOK, userResponse{User: user})
}

func (s *Server) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	var req changePasswordRequest
	_ = decodeJSON(w, r, &req)

	err := s.svc.Auth.ChangePassword(r.Context(), bearerToken(r.Header.Get(common.AuthorizationHeaderName)), req.CurrentPassword, req.NewPassword)
	if err != nil {
		s.fail(w, r, err, "Failed to change password")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Password changed successfully"})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	userID, err := parseID(chi.URLParam(r, "userId"))
	if err != nil {
		s.fail(w, r, err, "Failed to fetch stats")
		return
	}

	stats, err := s.svc.Stats.ComputeStats(r.Context(), userID)
	if err != nil {
		s.fail(w, r, err, "Failed to fetch stats")
		return
	}

	writeJSON(w, http.StatusOK, statsResponse{
		LessonsCompleted:   stats.LessonsCompleted,
		ExercisesAttempted: stats.ExercisesAttempted,
		CorrectAnswers:     stats.CorrectAnswers,
		Accuracy:           accuracy{value: stats.Accuracy, attempted: stats.ExercisesAttempted > 0},
		PointsEarned:       stats.PointsEarned,
	})
}
