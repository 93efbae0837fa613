package httpapi

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"salesdesk/internal/activity"
	"salesdesk/internal/auth"
	"salesdesk/internal/calls"
	"salesdesk/internal/leaderboard"
	"salesdesk/internal/leads"

	"github.com/gin-gonic/gin"
)

// Handlers groups HTTP handlers for dependency injection.
// Keep these thin: parse/validate input, call internal services, return JSON.

type Handlers struct {
	Auth     *auth.Manager
	Users    auth.Directory
	Store    *leads.Store
	Calls    *calls.Orchestrator
	Activity *activity.Poller
	Board    *leaderboard.Poller
}

const defaultPageSize = 10

// --- Auth ---

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login validates credentials and issues a JWT token pair.
func (h Handlers) Login(c *gin.Context) {
	if h.Auth == nil || h.Users == nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "auth not configured"})
		return
	}
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if req.Email == "" || req.Password == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "email and password required"})
		return
	}

	u, err := auth.Authenticate(c.Request.Context(), h.Users, req.Email, req.Password)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}
	pair, err := h.Auth.IssuePair(time.Now(), u.ID, u.Name, u.Role)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "token issuance failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"user":          u,
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
	})
}

// --- Leads ---

// ListLeads serves the filtered, sorted, paginated collection view.
// Filtering is always computed against the full in-memory snapshot.
func (h Handlers) ListLeads(c *gin.Context) {
	f := leads.Filters{
		Text:   strings.TrimSpace(c.Query("q")),
		Job:    strings.TrimSpace(c.Query("job")),
		Status: strings.TrimSpace(c.Query("status")),
	}
	if raw := c.Query("min_score"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 || v > 1 {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "min_score must be in [0,1]"})
			return
		}
		f.MinScore = v
	}

	page := intQuery(c, "page", 1)
	pageSize := intQuery(c, "page_size", defaultPageSize)
	if page < 1 || pageSize < 1 || pageSize > 100 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid pagination params"})
		return
	}

	view := h.Store.Query(f)
	c.JSON(http.StatusOK, gin.H{
		"data":      leads.Paginate(view, page, pageSize),
		"total":     len(view),
		"page":      page,
		"page_size": pageSize,
	})
}

// GetLead returns a single lead with its WhatsApp deep link. Missing ids
// get a 404 with a notice the client can show before bouncing to the list.
func (h Handlers) GetLead(c *gin.Context) {
	id := c.Param("id")
	l, err := h.Store.Get(id)
	if err != nil {
		if errors.Is(err, leads.ErrNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "lead not found", "notice": "Data nasabah tidak ditemukan"})
			return
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": l, "whatsapp_link": leads.WhatsAppLink(l)})
}

func (h Handlers) ListJobs(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": h.Store.Jobs()})
}

func (h Handlers) LeadStats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"kpi":   h.Store.KPIs(),
		"stats": h.Store.Stats(),
	})
}

// ExportLeads streams the current filtered view as CSV.
func (h Handlers) ExportLeads(c *gin.Context) {
	f := leads.Filters{
		Text:   strings.TrimSpace(c.Query("q")),
		Job:    strings.TrimSpace(c.Query("job")),
		Status: strings.TrimSpace(c.Query("status")),
	}
	if raw := c.Query("min_score"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			f.MinScore = v
		}
	}
	view := h.Store.Query(f)

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="leads_export_`+time.Now().Format("2006-01-02")+`.csv"`)
	if err := leads.ExportCSV(c.Writer, view); err != nil {
		c.AbortWithStatus(http.StatusInternalServerError)
	}
}

// --- Calls ---

type startCallRequest struct {
	LeadID string `json:"lead_id"`
}

func (h Handlers) StartCall(c *gin.Context) {
	var req startCallRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.LeadID == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "lead_id required"})
		return
	}
	l, err := h.Store.Get(req.LeadID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "lead not found"})
		return
	}
	s := h.Calls.StartCall(l, auth.Name(c.Request.Context()))
	c.JSON(http.StatusOK, gin.H{"data": s.Snapshot()})
}

// activeSession resolves the current session or writes a 404.
func (h Handlers) activeSession(c *gin.Context) *calls.Session {
	s := h.Calls.Active()
	if s == nil {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "no active call"})
	}
	return s
}

func (h Handlers) ActiveCall(c *gin.Context) {
	s := h.activeSession(c)
	if s == nil {
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": s.Snapshot()})
}

// CancelCall discards the active session without persisting anything.
func (h Handlers) CancelCall(c *gin.Context) {
	if h.Calls.Active() == nil {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "no active call"})
		return
	}
	h.Calls.EndCall()
	c.Status(http.StatusNoContent)
}

type noteRequest struct {
	Text string `json:"text"`
}

func (h Handlers) SetCallNote(c *gin.Context) {
	s := h.activeSession(c)
	if s == nil {
		return
	}
	var req noteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	s.SetNote(req.Text)
	c.JSON(http.StatusOK, gin.H{"data": s.Snapshot()})
}

type minimizeRequest struct {
	Minimized bool `json:"minimized"`
}

func (h Handlers) SetCallMinimized(c *gin.Context) {
	s := h.activeSession(c)
	if s == nil {
		return
	}
	var req minimizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	s.SetMinimized(req.Minimized)
	c.JSON(http.StatusOK, gin.H{"data": s.Snapshot()})
}

type chooseRequest struct {
	Option int `json:"option"`
}

func (h Handlers) ChooseScriptOption(c *gin.Context) {
	s := h.activeSession(c)
	if s == nil {
		return
	}
	var req chooseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if err := s.Choose(req.Option); err != nil {
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": s.Snapshot()})
}

func (h Handlers) ScriptBack(c *gin.Context) {
	s := h.activeSession(c)
	if s == nil {
		return
	}
	if err := s.Back(); err != nil {
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": s.Snapshot()})
}

func (h Handlers) ScriptReset(c *gin.Context) {
	s := h.activeSession(c)
	if s == nil {
		return
	}
	s.ResetScript()
	c.JSON(http.StatusOK, gin.H{"data": s.Snapshot()})
}

type outcomeRequest struct {
	Outcome string `json:"outcome"`
}

func (h Handlers) SelectOutcome(c *gin.Context) {
	s := h.activeSession(c)
	if s == nil {
		return
	}
	var req outcomeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if err := s.SelectOutcome(calls.Outcome(req.Outcome)); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": s.Snapshot()})
}

type finalizeRequest struct {
	Outcome      string `json:"outcome,omitempty"`
	ReminderDate string `json:"reminder_date,omitempty"`
}

// FinalizeCall saves the call. Outcome may be supplied here as a shortcut
// for clients that skip the separate outcome step.
func (h Handlers) FinalizeCall(c *gin.Context) {
	s := h.activeSession(c)
	if s == nil {
		return
	}
	var req finalizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	if req.Outcome != "" {
		if err := s.SelectOutcome(calls.Outcome(req.Outcome)); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	var reminder time.Time
	if req.ReminderDate != "" {
		t, err := time.Parse("2006-01-02", req.ReminderDate)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "reminder_date must be YYYY-MM-DD"})
			return
		}
		reminder = t
	}

	if err := s.Finalize(c.Request.Context(), reminder); err != nil {
		switch {
		case errors.Is(err, calls.ErrMissingReminderDate),
			errors.Is(err, calls.ErrNoOutcome),
			errors.Is(err, calls.ErrInvalidOutcome):
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, calls.ErrSessionEnded):
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			// Persistence failed; the session stays live so the agent can retry.
			c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{"error": "save failed, call kept active"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": s.Snapshot()})
}

// --- Dashboard panels ---

func (h Handlers) Leaderboard(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": h.Board.Entries()})
}

func (h Handlers) ActivityFeed(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": h.Activity.Entries()})
}

// RefreshCounter exposes the monotonic refresh counter so dashboard panels
// can detect missed updates.
func (h Handlers) RefreshCounter(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"counter": h.Calls.Refresh().Counter()})
}

func intQuery(c *gin.Context, key string, def int) int {
	raw := c.Query(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return -1
	}
	return n
}
