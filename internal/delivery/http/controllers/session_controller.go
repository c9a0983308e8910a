package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"studysync/internal/delivery/http/helpers"
	"studysync/internal/delivery/http/middleware"
	"studysync/internal/domain"
)

// SessionView is a session payload with the derived lifecycle status attached.
// Status is computed at read time and never stored.
type SessionView struct {
	*domain.Session
	Status domain.SessionStatus `json:"status"`
}

// NewSessionView wraps a session with its status as of now.
func NewSessionView(s *domain.Session, now time.Time) *SessionView {
	return &SessionView{Session: s, Status: s.Status(now)}
}

func newSessionViews(sessions []*domain.Session, now time.Time) []*SessionView {
	views := make([]*SessionView, 0, len(sessions))
	for _, s := range sessions {
		views = append(views, NewSessionView(s, now))
	}
	return views
}

// CreateSessionRequest is the request body for POST /api/sessions.
type CreateSessionRequest struct {
	Title             string   `json:"title"`
	Description       string   `json:"description"`
	Subject           string   `json:"subject"`
	ParticipantEmails []string `json:"participantEmails"`
}

// Validate implements Validator.
func (c CreateSessionRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(c.Title) == "" {
		errs = append(errs, "title is required")
	}
	for _, email := range c.ParticipantEmails {
		if !emailRegexp.MatchString(strings.TrimSpace(strings.ToLower(email))) {
			errs = append(errs, "participantEmails contains an invalid email: "+email)
		}
	}
	return errs
}

// ProposeTimeSlotRequest is the request body for POST /api/sessions/{sessionID}/timeslots.
type ProposeTimeSlotRequest struct {
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
	Location  string    `json:"location"`
}

// Validate implements Validator.
func (p ProposeTimeSlotRequest) Validate() []string {
	var errs []string
	if p.StartTime.IsZero() {
		errs = append(errs, "startTime is required")
	}
	if p.EndTime.IsZero() {
		errs = append(errs, "endTime is required")
	}
	return errs
}

// AddResourceRequest is the request body for POST /api/sessions/{sessionID}/resources.
type AddResourceRequest struct {
	Title       string `json:"title"`
	Type        string `json:"type"`
	URL         string `json:"url"`
	Description string `json:"description"`
}

// Validate implements Validator.
func (a AddResourceRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(a.Title) == "" {
		errs = append(errs, "title is required")
	}
	return errs
}

// SubmitFeedbackRequest is the request body for POST /api/sessions/{sessionID}/feedback.
type SubmitFeedbackRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// Validate implements Validator.
func (s SubmitFeedbackRequest) Validate() []string {
	var errs []string
	if s.Rating < 1 || s.Rating > 5 {
		errs = append(errs, "rating must be between 1 and 5")
	}
	return errs
}

// SessionSuccessResponse is the success response envelope for endpoints returning one session.
type SessionSuccessResponse struct {
	Data  *SessionView      `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// ListSessionsResponse is the data payload for GET /api/sessions (200).
type ListSessionsResponse struct {
	Items      []*SessionView         `json:"items"`
	Pagination helpers.PaginationMeta `json:"pagination"`
}

// ListSessionsSuccessResponse is the success response envelope for GET /api/sessions (200).
type ListSessionsSuccessResponse struct {
	Data  ListSessionsResponse `json:"data"`
	Error *helpers.APIError    `json:"error"`
}

// ListMySessionsSuccessResponse is the success response envelope for GET /api/sessions/user (200).
type ListMySessionsSuccessResponse struct {
	Data  []*SessionView    `json:"data"`
	Error *helpers.APIError `json:"error"`
}

type SessionController struct {
	Logger  *slog.Logger
	Service domain.SessionService

	now func() time.Time
}

func NewSessionController(logger *slog.Logger, svc domain.SessionService) *SessionController {
	return &SessionController{
		Logger:  logger,
		Service: svc,
		now:     time.Now,
	}
}

// writeError maps domain sentinel errors to HTTP status codes. Unknown errors
// are logged and reported as 500.
func (c *SessionController) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "session or slot not found")
	case errors.Is(err, domain.ErrForbidden):
		helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "forbidden")
	case errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrInvalidRange),
		errors.Is(err, domain.ErrInvalidRating):
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
	case errors.Is(err, domain.ErrAlreadyVoted),
		errors.Is(err, domain.ErrDuplicateFeedback),
		errors.Is(err, domain.ErrNoFinalizedSlot),
		errors.Is(err, domain.ErrSessionNotEnded):
		helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, err.Error())
	default:
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
	}
}

// ListSessions godoc
// @Summary List all sessions
// @Description Returns a paginated list of all study sessions with derived status. Use page and page_size query params. Requires authentication.
// @Tags sessions
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} controllers.ListSessionsSuccessResponse "data contains items and pagination"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/sessions [get]
func (c *SessionController) ListSessions(w http.ResponseWriter, r *http.Request) {
	_, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	params := helpers.ParsePagination(r)
	sessions, total, err := c.Service.ListAllSessions(r.Context(), params)
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	meta := helpers.NewPaginationMeta(params.Page, params.PageSize, total)
	helpers.WriteJSONSuccess(w, http.StatusOK, ListSessionsResponse{
		Items:      newSessionViews(sessions, c.now()),
		Pagination: meta,
	})
}

// ListMySessions godoc
// @Summary List sessions for the current user
// @Description Returns all sessions where the authenticated user is the host or a participant, with derived status.
// @Tags sessions
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.ListMySessionsSuccessResponse "data is an array of sessions"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/sessions/user [get]
func (c *SessionController) ListMySessions(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	sessions, err := c.Service.ListSessionsForUser(r.Context(), userID)
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, newSessionViews(sessions, c.now()))
}

// GetSession godoc
// @Summary Get a session by ID
// @Description Returns the full session aggregate with derived status. Requires authentication.
// @Tags sessions
// @Produce json
// @Security BearerAuth
// @Param sessionID path string true "Session ID (UUID)"
// @Success 200 {object} controllers.SessionSuccessResponse "data contains the session"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/sessions/{sessionID} [get]
func (c *SessionController) GetSession(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("sessionID")
	if sessionID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing sessionID")
		return
	}
	session, err := c.Service.GetSession(r.Context(), sessionID)
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, NewSessionView(session, c.now()))
}

// CreateSession godoc
// @Summary Create a study session
// @Description Create a new study session with the authenticated user as host. Participant emails that do not match an existing user get a placeholder account; all participants receive an invite email.
// @Tags sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateSessionRequest true "Session data"
// @Success 201 {object} controllers.SessionSuccessResponse "data contains the created session"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/sessions [post]
func (c *SessionController) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	session, err := c.Service.CreateSession(r.Context(), userID, strings.TrimSpace(req.Title), req.Description, req.Subject, req.ParticipantEmails)
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, NewSessionView(session, c.now()))
}

// ProposeTimeSlot godoc
// @Summary Propose a time slot
// @Description Propose a candidate meeting window for the session. endTime must be after startTime.
// @Tags sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param sessionID path string true "Session ID (UUID)"
// @Param body body ProposeTimeSlotRequest true "Slot data"
// @Success 201 {object} controllers.SessionSuccessResponse "data contains the updated session"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request (invalid range)"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/sessions/{sessionID}/timeslots [post]
func (c *SessionController) ProposeTimeSlot(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("sessionID")
	if sessionID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing sessionID")
		return
	}
	var req ProposeTimeSlotRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	session, err := c.Service.ProposeTimeSlot(r.Context(), sessionID, userID, req.StartTime, req.EndTime, req.Location)
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, NewSessionView(session, c.now()))
}

// VoteForTimeSlot godoc
// @Summary Vote for a time slot
// @Description Records the authenticated user's vote on the slot. Voting on a different slot moves the vote; voting on the same slot again is a conflict.
// @Tags sessions
// @Produce json
// @Security BearerAuth
// @Param sessionID path string true "Session ID (UUID)"
// @Param slotID path string true "Time slot ID (UUID)"
// @Success 200 {object} controllers.SessionSuccessResponse "data contains the updated session"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (already voted for this slot)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/sessions/{sessionID}/timeslots/{slotID}/vote [post]
func (c *SessionController) VoteForTimeSlot(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("sessionID")
	slotID := r.PathValue("slotID")
	if sessionID == "" || slotID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing sessionID or slotID")
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	session, err := c.Service.VoteForTimeSlot(r.Context(), sessionID, slotID, userID)
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, NewSessionView(session, c.now()))
}

// FinalizeTimeSlot godoc
// @Summary Finalize a time slot
// @Description Confirms the slot as the session's meeting time. Only the host can finalize; re-finalizing replaces the previous choice. The finalized slot is a frozen snapshot.
// @Tags sessions
// @Produce json
// @Security BearerAuth
// @Param sessionID path string true "Session ID (UUID)"
// @Param slotID path string true "Time slot ID (UUID)"
// @Success 200 {object} controllers.SessionSuccessResponse "data contains the updated session"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (not host)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/sessions/{sessionID}/timeslots/{slotID}/finalize [post]
func (c *SessionController) FinalizeTimeSlot(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("sessionID")
	slotID := r.PathValue("slotID")
	if sessionID == "" || slotID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing sessionID or slotID")
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	session, err := c.Service.FinalizeTimeSlot(r.Context(), sessionID, slotID, userID)
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, NewSessionView(session, c.now()))
}

// AddResource godoc
// @Summary Share a resource
// @Description Attach study material to the session. Type defaults to "link" when omitted; link resources require a url.
// @Tags sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param sessionID path string true "Session ID (UUID)"
// @Param body body AddResourceRequest true "Resource data"
// @Success 201 {object} controllers.SessionSuccessResponse "data contains the updated session"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/sessions/{sessionID}/resources [post]
func (c *SessionController) AddResource(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("sessionID")
	if sessionID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing sessionID")
		return
	}
	var req AddResourceRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	session, err := c.Service.AddResource(r.Context(), sessionID, userID, strings.TrimSpace(req.Title), req.Type, req.URL, req.Description)
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, NewSessionView(session, c.now()))
}

// SubmitFeedback godoc
// @Summary Submit post-session feedback
// @Description Leave a rating (1-5) and optional comment. Allowed only after the finalized slot has ended; one entry per user per session.
// @Tags sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param sessionID path string true "Session ID (UUID)"
// @Param body body SubmitFeedbackRequest true "Feedback data"
// @Success 201 {object} controllers.SessionSuccessResponse "data contains the updated session"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request (invalid rating)"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (no finalized slot, session not ended, or duplicate feedback)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/sessions/{sessionID}/feedback [post]
func (c *SessionController) SubmitFeedback(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("sessionID")
	if sessionID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing sessionID")
		return
	}
	var req SubmitFeedbackRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	session, err := c.Service.SubmitFeedback(r.Context(), sessionID, userID, req.Rating, req.Comment)
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, NewSessionView(session, c.now()))
}
