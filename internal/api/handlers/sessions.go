// Package handlers implements the HTTP presentation boundary: session
// lifecycle, table upload and editing, budget entry, the categorize
// trigger, and result retrieval.
package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/dvloznov/expense-classifier/internal/api/middleware"
	"github.com/dvloznov/expense-classifier/internal/expense"
	"github.com/dvloznov/expense-classifier/internal/gcs"
	"github.com/dvloznov/expense-classifier/internal/jobs"
	"github.com/dvloznov/expense-classifier/internal/session"
)

// EmptyInputWarning is shown when the categorize action is triggered on
// an empty or all-blank table. It declines the run; it is not an error.
const EmptyInputWarning = "Please enter valid financial data to categorize."

// SessionsHandler handles session-related endpoints.
type SessionsHandler struct {
	sessions  *session.Store
	publisher jobs.Publisher
	fetcher   gcs.Fetcher
	log       zerolog.Logger
}

// NewSessionsHandler creates a new sessions handler. fetcher may be nil
// when GCS ingestion is not configured.
func NewSessionsHandler(sessions *session.Store, publisher jobs.Publisher, fetcher gcs.Fetcher, log zerolog.Logger) *SessionsHandler {
	return &SessionsHandler{
		sessions:  sessions,
		publisher: publisher,
		fetcher:   fetcher,
		log:       log,
	}
}

// CreateSession handles POST /api/sessions
func (h *SessionsHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	sess := h.sessions.Create()

	h.log.Info().Str("session_id", sess.ID).Msg("Session created")
	middleware.WriteJSON(w, http.StatusCreated, sess)
}

// GetSession handles GET /api/sessions/{id}
func (h *SessionsHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.lookup(w, r)
	if !ok {
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"id":         sess.ID,
		"budget":     sess.Budget,
		"rows":       sess.Table.Rows,
		"row_count":  sess.Table.Len(),
		"has_result": sess.LastRun != nil,
		"created_at": sess.CreatedAt,
		"updated_at": sess.UpdatedAt,
	})
}

// DiscardSession handles DELETE /api/sessions/{id}
func (h *SessionsHandler) DiscardSession(w http.ResponseWriter, r *http.Request) {
	h.sessions.Discard(r.PathValue("id"))
	w.WriteHeader(http.StatusNoContent)
}

// SetBudget handles PUT /api/sessions/{id}/budget
func (h *SessionsHandler) SetBudget(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.lookup(w, r)
	if !ok {
		return
	}

	var req struct {
		Budget float64 `json:"budget"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.sessions.SetBudget(sess.ID, req.Budget); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]float64{"budget": req.Budget})
}

// UploadTable handles POST /api/sessions/{id}/table. A text/csv body is
// parsed as an uploaded file; an application/json body carries manually
// edited rows. Either way the normalized table replaces the session's
// table wholesale. Malformed input leaves the prior table untouched.
func (h *SessionsHandler) UploadTable(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.lookup(w, r)
	if !ok {
		return
	}

	var (
		table *expense.Table
		err   error
	)
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var req struct {
			Rows []expense.RowInput `json:"rows"`
		}
		if decodeErr := json.NewDecoder(r.Body).Decode(&req); decodeErr != nil {
			middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		table = expense.FromInputs(req.Rows)
	} else {
		table, err = expense.ParseCSV(r.Body)
		if err != nil {
			h.log.Warn().Err(err).Str("session_id", sess.ID).Msg("Malformed upload rejected")
			middleware.WriteError(w, http.StatusBadRequest, "An error occurred while reading the file: "+err.Error())
			return
		}
	}

	if err := h.sessions.ReplaceTable(sess.ID, table); err != nil {
		middleware.WriteError(w, http.StatusNotFound, err.Error())
		return
	}

	h.log.Info().Str("session_id", sess.ID).Int("rows", table.Len()).Msg("Table replaced")
	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{"row_count": table.Len()})
}

// UploadTableFromGCS handles POST /api/sessions/{id}/table/gcs with a
// JSON body naming a gs:// URI of an uploaded CSV.
func (h *SessionsHandler) UploadTableFromGCS(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.lookup(w, r)
	if !ok {
		return
	}

	if h.fetcher == nil {
		middleware.WriteError(w, http.StatusNotImplemented, "GCS ingestion is not configured")
		return
	}

	var req struct {
		GCSURI string `json:"gcs_uri"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.GCSURI == "" {
		middleware.WriteError(w, http.StatusBadRequest, "gcs_uri is required")
		return
	}

	data, err := h.fetcher.Fetch(r.Context(), req.GCSURI)
	if err != nil {
		h.log.Error().Err(err).Str("gcs_uri", req.GCSURI).Msg("GCS fetch failed")
		middleware.WriteError(w, http.StatusBadGateway, "Failed to fetch file: "+err.Error())
		return
	}

	table, err := expense.ParseCSV(bytes.NewReader(data))
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "An error occurred while reading the file: "+err.Error())
		return
	}

	if err := h.sessions.ReplaceTable(sess.ID, table); err != nil {
		middleware.WriteError(w, http.StatusNotFound, err.Error())
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{"row_count": table.Len()})
}

// Categorize handles POST /api/sessions/{id}/categorize. It declines to
// run on an empty table with a user-visible warning; otherwise it
// publishes a categorize job and returns its ID for polling.
func (h *SessionsHandler) Categorize(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.lookup(w, r)
	if !ok {
		return
	}

	if sess.Table.Empty() {
		middleware.WriteWarning(w, http.StatusUnprocessableEntity, EmptyInputWarning)
		return
	}

	job := &jobs.CategorizeJob{SessionID: sess.ID}
	if err := h.publisher.PublishCategorize(r.Context(), job); err != nil {
		h.log.Error().Err(err).Str("session_id", sess.ID).Msg("Failed to publish categorize job")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to start categorization")
		return
	}

	h.log.Info().
		Str("session_id", sess.ID).
		Str("job_id", job.JobID).
		Int("rows", sess.Table.Len()).
		Msg("Categorize run queued")

	middleware.WriteJSON(w, http.StatusAccepted, map[string]string{"job_id": job.JobID})
}

// GetResult handles GET /api/sessions/{id}/result. The latest categorize
// result stays available even when only the advice call failed.
func (h *SessionsHandler) GetResult(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.lookup(w, r)
	if !ok {
		return
	}

	if sess.LastRun == nil {
		middleware.WriteError(w, http.StatusNotFound, "No categorize run for this session yet")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, sess.LastRun)
}

func (h *SessionsHandler) lookup(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess, err := h.sessions.Get(r.PathValue("id"))
	if err != nil {
		middleware.WriteError(w, http.StatusNotFound, err.Error())
		return nil, false
	}
	return sess, true
}
