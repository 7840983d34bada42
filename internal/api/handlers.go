// Package api exposes the HTTP handlers for the signup board.
package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/sograves/hpk14-padel/internal/auth"
	"github.com/sograves/hpk14-padel/internal/domain"
	"github.com/sograves/hpk14-padel/internal/observability"
)

// Error strings shared with the browser client; changing them breaks its
// message matching.
const (
	msgMissingActivityFields    = "Missing required fields: name, type, date, location"
	msgMissingSignupFields      = "Missing required fields: activityId, name"
	msgMissingSignupDelete      = "Missing required fields: activityId, signupId"
	msgMissingUnavailableDelete = "Missing required fields: activityId, unavailableId"
	msgActivityIDRequired       = "Activity ID is required"
	msgActivityNotFound         = "Activity not found"
	msgActivityFull             = "Activity is full"
	msgSignupNotFound           = "Signup not found"
	msgEntryNotFound            = "Entry not found"
	msgInvalidTeamCode          = "Invalid team code"
	msgInvalidDate              = "Invalid date format"
	msgInternalError            = "Internal server error"
)

// Handler coordinates HTTP requests with the domain service.
type Handler struct {
	service *domain.Service
	guard   auth.Guard
	logger  *log.Logger
}

// NewHandler builds a Handler.
func NewHandler(service *domain.Service, guard auth.Guard, logger *log.Logger) *Handler {
	if logger == nil {
		logger = log.New(os.Stderr, "", log.LstdFlags)
	}
	return &Handler{service: service, guard: guard, logger: logger}
}

// RegisterRoutes wires endpoints to the mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/activities", h.activities)
	mux.HandleFunc("/activity", h.activity)
	mux.HandleFunc("/signup", h.signup)
	mux.HandleFunc("/unavailable", h.unavailable)
	mux.HandleFunc("/healthz", healthz)
}

// healthz reports a simple OK status for container health checks.
func healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (h *Handler) activities(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.listActivities(w, r)
	case http.MethodPost:
		if !h.requireTeamCode(w, r) {
			return
		}
		h.createActivity(w, r)
	default:
		writeMethodNotAllowed(w)
	}
}

func (h *Handler) activity(w http.ResponseWriter, r *http.Request) {
	activityID := r.URL.Query().Get("id")
	if activityID == "" {
		writeError(w, http.StatusBadRequest, msgActivityIDRequired)
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.getActivity(w, r, activityID)
	case http.MethodPut:
		if !h.requireTeamCode(w, r) {
			return
		}
		h.updateActivity(w, r, activityID)
	case http.MethodDelete:
		if !h.requireTeamCode(w, r) {
			return
		}
		h.deleteActivity(w, r, activityID)
	default:
		writeMethodNotAllowed(w)
	}
}

func (h *Handler) signup(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.addSignup(w, r)
	case http.MethodDelete:
		h.removeSignup(w, r)
	default:
		writeMethodNotAllowed(w)
	}
}

func (h *Handler) unavailable(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.addUnavailable(w, r)
	case http.MethodDelete:
		h.removeUnavailable(w, r)
	default:
		writeMethodNotAllowed(w)
	}
}

func (h *Handler) listActivities(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.service.ListUpcoming(r.Context())
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	views := make([]activitySummaryView, 0, len(summaries))
	for _, summary := range summaries {
		views = append(views, toActivitySummaryView(summary))
	}
	writeJSON(w, http.StatusOK, views)
}

func (h *Handler) createActivity(w http.ResponseWriter, r *http.Request) {
	input, errMsg := decodeActivityRequest(r)
	if errMsg != "" {
		writeError(w, http.StatusBadRequest, errMsg)
		return
	}

	activity, err := h.service.CreateActivity(r.Context(), input)
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	observability.RecordActivityCreated()
	writeJSON(w, http.StatusCreated, toActivityView(*activity))
}

func (h *Handler) getActivity(w http.ResponseWriter, r *http.Request, activityID string) {
	detail, err := h.service.GetDetail(r.Context(), activityID)
	if err != nil {
		if errors.Is(err, domain.ErrActivityNotFound) {
			writeError(w, http.StatusNotFound, msgActivityNotFound)
			return
		}
		h.serverError(w, r, err)
		return
	}

	signups := make([]signupView, 0, len(detail.Signups))
	for _, signup := range detail.Signups {
		signups = append(signups, signupView{ID: signup.ID, Name: signup.Name, SignedUpAt: signup.SignedUpAt})
	}
	marks := make([]unavailableView, 0, len(detail.Unavailable))
	for _, mark := range detail.Unavailable {
		marks = append(marks, unavailableView{ID: mark.ID, Name: mark.Name, MarkedAt: mark.MarkedAt})
	}

	writeJSON(w, http.StatusOK, activityDetailResponse{
		Activity:    toActivityView(detail.Activity),
		Signups:     signups,
		Unavailable: marks,
	})
}

func (h *Handler) updateActivity(w http.ResponseWriter, r *http.Request, activityID string) {
	input, errMsg := decodeActivityRequest(r)
	if errMsg != "" {
		writeError(w, http.StatusBadRequest, errMsg)
		return
	}

	activity, err := h.service.UpdateActivity(r.Context(), activityID, input)
	if err != nil {
		if errors.Is(err, domain.ErrActivityNotFound) {
			writeError(w, http.StatusNotFound, msgActivityNotFound)
			return
		}
		h.serverError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toActivityView(*activity))
}

func (h *Handler) deleteActivity(w http.ResponseWriter, r *http.Request, activityID string) {
	err := h.service.DeleteActivity(r.Context(), activityID)
	if err != nil {
		if errors.Is(err, domain.ErrActivityNotFound) {
			writeError(w, http.StatusNotFound, msgActivityNotFound)
			return
		}
		h.serverError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

func (h *Handler) addSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	decodeBody(r, &req)
	if req.ActivityID == "" || strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, msgMissingSignupFields)
		return
	}

	signup, err := h.service.AddSignup(r.Context(), req.ActivityID, req.Name)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrActivityNotFound):
			writeError(w, http.StatusNotFound, msgActivityNotFound)
		case errors.Is(err, domain.ErrActivityFull):
			observability.RecordSignupRejectedFull()
			writeError(w, http.StatusBadRequest, msgActivityFull)
		default:
			h.serverError(w, r, err)
		}
		return
	}

	observability.RecordSignupCreated()
	writeJSON(w, http.StatusCreated, signupView{ID: signup.ID, Name: signup.Name, SignedUpAt: signup.SignedUpAt})
}

func (h *Handler) removeSignup(w http.ResponseWriter, r *http.Request) {
	var req signupDeleteRequest
	decodeBody(r, &req)
	if req.ActivityID == "" || req.SignupID == "" {
		writeError(w, http.StatusBadRequest, msgMissingSignupDelete)
		return
	}

	if err := h.service.RemoveSignup(r.Context(), req.ActivityID, req.SignupID); err != nil {
		if errors.Is(err, domain.ErrSignupNotFound) {
			writeError(w, http.StatusNotFound, msgSignupNotFound)
			return
		}
		h.serverError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

func (h *Handler) addUnavailable(w http.ResponseWriter, r *http.Request) {
	var req unavailableRequest
	decodeBody(r, &req)
	if req.ActivityID == "" || strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, msgMissingSignupFields)
		return
	}

	mark, err := h.service.AddUnavailable(r.Context(), req.ActivityID, req.Name)
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, unavailableView{ID: mark.ID, Name: mark.Name, MarkedAt: mark.MarkedAt})
}

func (h *Handler) removeUnavailable(w http.ResponseWriter, r *http.Request) {
	var req unavailableDeleteRequest
	decodeBody(r, &req)
	if req.ActivityID == "" || req.UnavailableID == "" {
		writeError(w, http.StatusBadRequest, msgMissingUnavailableDelete)
		return
	}

	if err := h.service.RemoveUnavailable(r.Context(), req.ActivityID, req.UnavailableID); err != nil {
		if errors.Is(err, domain.ErrMarkNotFound) {
			writeError(w, http.StatusNotFound, msgEntryNotFound)
			return
		}
		h.serverError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

// requireTeamCode short-circuits with 401 before any store access on mismatch.
func (h *Handler) requireTeamCode(w http.ResponseWriter, r *http.Request) bool {
	if h.guard.Allow(r) {
		return true
	}
	writeError(w, http.StatusUnauthorized, msgInvalidTeamCode)
	return false
}

// serverError logs the failure detail server-side and returns a generic body.
func (h *Handler) serverError(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.Printf("%s %s failed: %v", r.Method, r.URL.Path, err)
	writeError(w, http.StatusInternalServerError, msgInternalError)
}

// decodeActivityRequest parses and validates the create/update payload. The
// returned message is empty on success.
func decodeActivityRequest(r *http.Request) (domain.ActivityInput, string) {
	var req activityRequest
	decodeBody(r, &req)

	if req.Name == "" || req.Type == "" || req.Date == "" || req.Location == "" {
		return domain.ActivityInput{}, msgMissingActivityFields
	}

	date, err := time.Parse(time.RFC3339, req.Date)
	if err != nil {
		return domain.ActivityInput{}, msgInvalidDate
	}

	return domain.ActivityInput{
		Name:            req.Name,
		Type:            req.Type,
		Date:            date,
		Location:        req.Location,
		MaxParticipants: req.MaxParticipants,
		Description:     req.Description,
	}, ""
}

// decodeBody fills dst from the request body. A missing or malformed body
// leaves dst zero-valued so field validation produces the enumerated 400.
func decodeBody(r *http.Request, dst any) {
	if r.Body == nil {
		return
	}
	_ = json.NewDecoder(r.Body).Decode(dst)
}

// activityRequest is the payload for POST /activities and PUT /activity.
type activityRequest struct {
	Name            string  `json:"name"`
	Type            string  `json:"type"`
	Date            string  `json:"date"`
	Location        string  `json:"location"`
	MaxParticipants *int    `json:"maxParticipants"`
	Description     *string `json:"description"`
}

// activityView exposes one activity to the browser client.
type activityView struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Type            string    `json:"type"`
	Date            time.Time `json:"date"`
	Location        string    `json:"location"`
	MaxParticipants *int      `json:"maxParticipants"`
	Description     *string   `json:"description"`
	CreatedAt       time.Time `json:"createdAt"`
}

// activitySummaryView augments activityView with attendance counts.
type activitySummaryView struct {
	activityView
	SignupCount      int `json:"signupCount"`
	UnavailableCount int `json:"unavailableCount"`
}

// activityDetailResponse is the body of GET /activity.
type activityDetailResponse struct {
	Activity    activityView      `json:"activity"`
	Signups     []signupView      `json:"signups"`
	Unavailable []unavailableView `json:"unavailable"`
}

type signupRequest struct {
	ActivityID string `json:"activityId"`
	Name       string `json:"name"`
}

type signupDeleteRequest struct {
	ActivityID string `json:"activityId"`
	SignupID   string `json:"signupId"`
}

type unavailableRequest struct {
	ActivityID string `json:"activityId"`
	Name       string `json:"name"`
}

type unavailableDeleteRequest struct {
	ActivityID    string `json:"activityId"`
	UnavailableID string `json:"unavailableId"`
}

type signupView struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	SignedUpAt time.Time `json:"signedUpAt"`
}

type unavailableView struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	MarkedAt time.Time `json:"markedAt"`
}

type successResponse struct {
	Success bool `json:"success"`
}

func toActivityView(activity domain.Activity) activityView {
	return activityView{
		ID:              activity.ID,
		Name:            activity.Name,
		Type:            activity.Type,
		Date:            activity.Date,
		Location:        activity.Location,
		MaxParticipants: activity.MaxParticipants,
		Description:     activity.Description,
		CreatedAt:       activity.CreatedAt,
	}
}

func toActivitySummaryView(summary domain.ActivitySummary) activitySummaryView {
	return activitySummaryView{
		activityView:     toActivityView(summary.Activity),
		SignupCount:      summary.SignupCount,
		UnavailableCount: summary.UnavailableCount,
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func writeMethodNotAllowed(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusMethodNotAllowed)
	_, _ = w.Write([]byte("Method not allowed"))
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
