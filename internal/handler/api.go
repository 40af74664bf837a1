package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jwlam-hk/interview-scheduler/internal/export"
	"github.com/jwlam-hk/interview-scheduler/internal/logger"
	"github.com/jwlam-hk/interview-scheduler/internal/models"
	"github.com/jwlam-hk/interview-scheduler/internal/service"
	"github.com/jwlam-hk/interview-scheduler/internal/session"
	"github.com/jwlam-hk/interview-scheduler/internal/store"
)

// SessionHeader carries the client's session identifier. The server issues
// one on first contact and echoes it on every response.
const SessionHeader = "X-Session-ID"

type APIHandler struct {
	sessions *session.Manager
	cfg      *service.SchedulerConfig
	logger   *logger.Logger
}

func NewAPIHandler(sessions *session.Manager, cfg *service.SchedulerConfig, log *logger.Logger) *APIHandler {
	return &APIHandler{
		sessions: sessions,
		cfg:      cfg,
		logger:   log,
	}
}

// Register mounts all scheduler routes on the mux.
func (h *APIHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/bookings", h.ListBookings)
	mux.HandleFunc("POST /api/bookings", h.AddBooking)
	mux.HandleFunc("PUT /api/bookings", h.SaveBookings)
	mux.HandleFunc("POST /api/bookings/refresh", h.RefreshBookings)
	mux.HandleFunc("GET /api/events", h.ListEvents)
	mux.HandleFunc("POST /api/import", h.ImportCSV)
	mux.HandleFunc("GET /api/export/pdf", h.ExportPDF)
	mux.HandleFunc("GET /api/export/excel", h.ExportExcel)
	mux.HandleFunc("GET /api/slots", h.ListSlots)
}

func (h *APIHandler) session(w http.ResponseWriter, r *http.Request) *session.Session {
	sess := h.sessions.Get(r.Context(), r.Header.Get(SessionHeader))
	w.Header().Set(SessionHeader, sess.ID())
	return sess
}

type bookingsResponse struct {
	SessionID   string          `json:"session_id"`
	LastUpdated time.Time       `json:"last_updated,omitzero"`
	Bookings    models.Snapshot `json:"bookings"`
}

// ListBookings handles GET /api/bookings
func (h *APIHandler) ListBookings(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	h.writeJSON(w, http.StatusOK, bookingsResponse{
		SessionID:   sess.ID(),
		LastUpdated: sess.Watermark(),
		Bookings:    sess.Snapshot(),
	})
}

// ListSlots handles GET /api/slots: the bookable time lattice and subject
// options for the add form.
func (h *APIHandler) ListSlots(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"time_slots":    models.TimeSlots(),
		"subjects":      h.cfg.Subjects,
		"slot_capacity": h.cfg.SlotCapacity,
	})
}

type calendarEvent struct {
	ID            string            `json:"id"`
	Title         string            `json:"title"`
	Start         string            `json:"start"`
	ExtendedProps map[string]string `json:"extendedProps"`
}

// ListEvents handles GET /api/events, feeding the calendar widget.
func (h *APIHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)

	events := []calendarEvent{}
	for i, b := range sess.Snapshot() {
		if b.Date == "" || b.Time == "" {
			continue
		}
		events = append(events, calendarEvent{
			ID:    fmt.Sprintf("%d", i),
			Title: b.Name,
			Start: b.Date + "T" + b.Time,
			ExtendedProps: map[string]string{
				"description": fmt.Sprintf("ID: %s | Notes: %s", b.ID, b.Notes),
			},
		})
	}
	h.writeJSON(w, http.StatusOK, events)
}

type addBookingRequest struct {
	Name  string `json:"name"`
	ID    string `json:"id"`
	Date  string `json:"date"`
	Time  string `json:"time"`
	Notes string `json:"notes"`
	Limit *int   `json:"limit,omitempty"` // overrides the configured slot capacity
}

// AddBooking handles POST /api/bookings
func (h *APIHandler) AddBooking(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)

	var req addBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	booking := models.Booking{
		Name:  req.Name,
		ID:    req.ID,
		Date:  req.Date,
		Time:  req.Time,
		Notes: req.Notes,
	}.Normalize()

	if booking.Name == "" {
		h.writeError(w, http.StatusBadRequest, "Name/Subject is required")
		return
	}
	if !h.cfg.HasSubject(booking.Name) {
		h.writeError(w, http.StatusBadRequest, fmt.Sprintf("Unknown subject %q", booking.Name))
		return
	}
	if booking.Date == "" {
		h.writeError(w, http.StatusBadRequest, "Date is invalid or missing")
		return
	}
	if !models.IsValidSlot(booking.Time) {
		h.writeError(w, http.StatusBadRequest, "Time must be a half-hour slot between 09:00 and 23:30")
		return
	}

	limit := h.cfg.SlotCapacity
	if req.Limit != nil {
		limit = *req.Limit
	}
	snap := sess.Snapshot()
	if limit > 0 {
		if n := snap.CountAt(booking.Date, booking.Time); n >= limit {
			h.logger.Warn("Slot capacity reached",
				logger.Action("add"),
				logger.Slot(booking.Date+" "+booking.Time),
				logger.Count(n))
			h.writeJSON(w, http.StatusConflict, map[string]interface{}{
				"error": fmt.Sprintf("Slot %s %s is full (%d/%d)", booking.Date, booking.Time, n, limit),
				"count": n,
				"limit": limit,
			})
			return
		}
	}

	outcome, err := sess.Save(r.Context(), append(snap, booking), session.ResolutionNone)
	if err != nil {
		h.storeError(w, err)
		return
	}
	h.writeOutcome(w, sess, outcome)
}

type saveBookingsRequest struct {
	Bookings   models.Snapshot `json:"bookings"`
	Resolution string          `json:"resolution"`
}

// SaveBookings handles PUT /api/bookings: the grid editor's whole-table save.
func (h *APIHandler) SaveBookings(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)

	var req saveBookingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	res, err := session.ParseResolution(req.Resolution)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	outcome, err := sess.Save(r.Context(), req.Bookings, res)
	if err != nil {
		h.storeError(w, err)
		return
	}
	h.writeOutcome(w, sess, outcome)
}

// RefreshBookings handles POST /api/bookings/refresh: force sync from the
// remote sheet, discarding unsaved edits.
func (h *APIHandler) RefreshBookings(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	if err := sess.Refresh(r.Context()); err != nil {
		h.storeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, bookingsResponse{
		SessionID:   sess.ID(),
		LastUpdated: sess.Watermark(),
		Bookings:    sess.Snapshot(),
	})
}

// ImportCSV handles POST /api/import. The rows are appended to the session
// snapshot and pushed through the full save protocol, never written
// directly.
func (h *APIHandler) ImportCSV(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)

	var body io.Reader = r.Body
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		file, _, err := r.FormFile("file")
		if err != nil {
			h.writeError(w, http.StatusBadRequest, "Missing CSV file upload")
			return
		}
		defer func() {
			_ = file.Close()
		}()
		body = file
	}

	imported, err := service.ImportCSV(body)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := session.ParseResolution(r.URL.Query().Get("resolution"))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	snap := append(sess.Snapshot(), imported...)
	outcome, err := sess.Save(r.Context(), snap, res)
	if err != nil {
		h.storeError(w, err)
		return
	}
	h.logger.Info("CSV imported", logger.Action("import"), logger.Rows(len(imported)))
	h.writeOutcome(w, sess, outcome)
}

// ExportPDF handles GET /api/export/pdf
func (h *APIHandler) ExportPDF(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)

	var buf bytes.Buffer
	if err := export.WritePDF(&buf, sess.Snapshot(), h.cfg.FontBase, h.logger); err != nil {
		h.logger.Error("PDF export failed", logger.Action("export_pdf"), logger.Error(err))
		h.writeError(w, http.StatusInternalServerError, "Failed to render PDF calendar")
		return
	}
	h.sendAttachment(w, "schedule-calendar.pdf", "application/pdf", buf.Bytes())
}

// ExportExcel handles GET /api/export/excel
func (h *APIHandler) ExportExcel(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)

	var buf bytes.Buffer
	if err := export.WriteExcel(&buf, sess.Snapshot()); err != nil {
		h.logger.Error("Excel export failed", logger.Action("export_excel"), logger.Error(err))
		h.writeError(w, http.StatusInternalServerError, "Failed to render Excel calendar")
		return
	}
	h.sendAttachment(w, "schedule-calendar.xlsx",
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

func (h *APIHandler) sendAttachment(w http.ResponseWriter, filename, contentType string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	if _, err := w.Write(data); err != nil {
		h.logger.Error("Failed to write download response", logger.Path(filename), logger.Error(err))
	}
}

// writeOutcome maps a save-protocol result onto the wire: 200 for a saved or
// reloaded table, 409 with both watermarks for an unresolved conflict.
func (h *APIHandler) writeOutcome(w http.ResponseWriter, sess *session.Session, outcome *session.SaveOutcome) {
	if outcome.Conflict != nil {
		h.writeJSON(w, http.StatusConflict, map[string]interface{}{
			"error":    "The cloud table was modified by someone else since your last sync",
			"conflict": outcome.Conflict,
			"choices":  []string{"reload", "force", "none"},
		})
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"saved":        outcome.Saved,
		"reloaded":     outcome.Reloaded,
		"last_updated": sess.Watermark(),
		"bookings":     outcome.Snapshot,
	})
}

// storeError maps a store failure: rate limiting gets its own status and a
// wait-and-retry message, anything else surfaces with detail.
func (h *APIHandler) storeError(w http.ResponseWriter, err error) {
	if store.IsRateLimited(err) {
		h.logger.Warn("Remote store rate limited", logger.Error(err))
		h.writeError(w, http.StatusTooManyRequests,
			"Too many requests to the scheduling sheet. Please wait a minute and try again.")
		return
	}
	h.logger.Error("Remote store failure", logger.Error(err))
	h.writeError(w, http.StatusBadGateway, fmt.Sprintf("Cloud database error: %v", err))
}

func (h *APIHandler) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("Failed to encode response", logger.Error(err))
	}
}

func (h *APIHandler) writeError(w http.ResponseWriter, status int, msg string) {
	h.writeJSON(w, status, map[string]string{"error": msg})
}
