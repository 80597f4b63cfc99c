// Package api exposes HTTP handlers for the exercise tracker.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"example.com/tracker/internal/domain"
)

// Handler coordinates HTTP requests with the domain service.
type Handler struct {
	service *domain.Service
}

// NewHandler builds a Handler.
func NewHandler(service *domain.Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes wires endpoints to the mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/users", h.users)
	mux.HandleFunc("/api/users/", h.userSubresource)
	mux.HandleFunc("/healthz", healthz)
}

// healthz reports a simple OK status for container health checks.
func healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (h *Handler) users(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.createUser(w, r)
	case http.MethodGet:
		h.listUsers(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "unsupported method")
	}
}

// userSubresource dispatches /api/users/{_id}/exercises and
// /api/users/{_id}/logs.
func (h *Handler) userSubresource(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/users/")
	parts := strings.SplitN(rest, "/", 2)
	if len(parts) != 2 || parts[0] == "" {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	userID, resource := parts[0], parts[1]
	switch {
	case resource == "exercises" && r.Method == http.MethodPost:
		h.addExercise(w, r, userID)
	case resource == "logs" && r.Method == http.MethodGet:
		h.getLog(w, r, userID)
	default:
		writeError(w, http.StatusNotFound, "not found")
	}
}

func (h *Handler) createUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "unable to parse body")
		return
	}

	user, err := h.service.CreateUser(r.Context(), string(req.Username))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Error creating new user")
		return
	}

	writeJSON(w, http.StatusOK, toUserView(*user))
}

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListUsers(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Error fetching users")
		return
	}

	views := make([]UserView, 0, len(users))
	for _, user := range users {
		views = append(views, toUserView(user))
	}
	writeJSON(w, http.StatusOK, views)
}

func (h *Handler) addExercise(w http.ResponseWriter, r *http.Request, userID string) {
	var req addExerciseRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "unable to parse body")
		return
	}

	input, err := req.validate()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	input.UserID = userID

	user, exercise, err := h.service.AddExercise(r.Context(), input)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Error adding exercise")
		return
	}

	writeJSON(w, http.StatusOK, ExerciseView{
		ID:          user.ID,
		Username:    user.Username,
		Description: exercise.Description,
		Duration:    exercise.DurationMin,
		Date:        formatDate(exercise.Date),
	})
}

func (h *Handler) getLog(w http.ResponseWriter, r *http.Request, userID string) {
	filter, err := logFilterFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	user, exercises, err := h.service.GetLog(r.Context(), userID, filter)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Error fetching exercise log")
		return
	}

	log := make([]LogEntryView, 0, len(exercises))
	for _, exercise := range exercises {
		log = append(log, LogEntryView{
			Description: exercise.Description,
			Duration:    exercise.DurationMin,
			Date:        formatDate(exercise.Date),
		})
	}

	writeJSON(w, http.StatusOK, LogView{
		ID:       user.ID,
		Username: user.Username,
		Count:    len(log),
		Log:      log,
	})
}

// logFilterFromQuery parses from/to/limit query parameters. The date bounds
// are strict; limit stays lenient to match the reference behavior where an
// unparseable or non-positive limit means unlimited.
func logFilterFromQuery(r *http.Request) (domain.LogFilter, error) {
	var filter domain.LogFilter
	query := r.URL.Query()

	if raw := query.Get("from"); raw != "" {
		from, err := parseDate(raw)
		if err != nil {
			return filter, errors.New("invalid from date")
		}
		filter.From = &from
	}
	if raw := query.Get("to"); raw != "" {
		to, err := parseDate(raw)
		if err != nil {
			return filter, errors.New("invalid to date")
		}
		filter.To = &to
	}
	if raw := query.Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			filter.Limit = parsed
		}
	}
	return filter, nil
}

// UserView exposes a user record as {username, _id}.
type UserView struct {
	Username string `json:"username"`
	ID       string `json:"_id"`
}

// ExerciseView merges user identity with the newly created exercise fields.
// The _id is the owning user's id, not the exercise's own.
type ExerciseView struct {
	ID          string `json:"_id"`
	Username    string `json:"username"`
	Description string `json:"description"`
	Duration    int    `json:"duration"`
	Date        string `json:"date"`
}

// LogEntryView is one entry of a log response.
type LogEntryView struct {
	Description string `json:"description"`
	Duration    int    `json:"duration"`
	Date        string `json:"date"`
}

// LogView packages a filtered exercise log with its entry count.
type LogView struct {
	ID       string         `json:"_id"`
	Username string         `json:"username"`
	Count    int            `json:"count"`
	Log      []LogEntryView `json:"log"`
}

func toUserView(user domain.User) UserView {
	return UserView{Username: user.Username, ID: user.ID}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
