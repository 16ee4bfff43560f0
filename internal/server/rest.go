package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/amityadav/stratreport/internal/apperr"
	"github.com/amityadav/stratreport/internal/core"
	"github.com/amityadav/stratreport/internal/history"
	"github.com/amityadav/stratreport/internal/logger"
	"github.com/amityadav/stratreport/internal/middleware"
	"github.com/amityadav/stratreport/internal/quota"
	"github.com/amityadav/stratreport/internal/search"
	"github.com/go-chi/chi/v5"
)

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

type reportRequest struct {
	Keyword    string `json:"keyword"`
	Country    string `json:"country"`
	TimeWindow string `json:"time_window"`
}

type reportResponse struct {
	Found       bool     `json:"found"`
	Message     string   `json:"message"`
	CountryCode string   `json:"country_code"`
	Sources     []string `json:"sources"`
	Summary     string   `json:"summary,omitempty"`
	URLBlock    string   `json:"url_block,omitempty"`
}

type historyEntry struct {
	Index     int       `json:"index"`
	Query     string    `json:"query"`
	Summary   string    `json:"summary"`
	CreatedAt time.Time `json:"created_at"`
}

type apiHandler struct {
	services Services
	quota    *quota.Interceptor
}

func (h *apiHandler) handleGenerate(w http.ResponseWriter, r *http.Request) {
	s, err := middleware.GetSession(r.Context())
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: err.Error()})
		return
	}

	var req reportRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}
	window, err := search.ParseTimeWindow(req.TimeWindow)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	keyword, err := core.NormalizeKeyword(req.Keyword)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: core.MsgEmptyKeyword})
		return
	}

	if !h.quota.Check(w, r, s.ID, quota.ResourceReport) {
		return
	}

	res, err := h.services.ReportCore.Generate(r.Context(), s.History, core.Request{
		SessionID: s.ID,
		Keyword:   keyword,
		Country:   req.Country,
		Window:    window,
	})
	if err != nil {
		writeJSON(w, apperr.HTTPStatus(err), errorResponse{Error: err.Error(), Kind: apperr.KindOf(err).String()})
		return
	}

	writeJSON(w, http.StatusOK, reportResponse{
		Found:       res.Found,
		Message:     res.Message,
		CountryCode: res.CountryCode,
		Sources:     res.Sources,
		Summary:     res.Summary,
		URLBlock:    res.URLBlock,
	})
}

func (h *apiHandler) handleHistory(w http.ResponseWriter, r *http.Request) {
	s, err := middleware.GetSession(r.Context())
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: err.Error()})
		return
	}

	entries := s.History.Entries()
	out := make([]historyEntry, len(entries))
	for i, e := range entries {
		out[i] = toHistoryEntry(i, e)
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *apiHandler) handleHistoryEntry(w http.ResponseWriter, r *http.Request) {
	s, err := middleware.GetSession(r.Context())
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: err.Error()})
		return
	}

	i, ok := parseIndex(chi.URLParam(r, "index"))
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "index must be a positive integer"})
		return
	}
	rep, ok := s.History.Get(i)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "report not found"})
		return
	}
	writeJSON(w, http.StatusOK, toHistoryEntry(i, rep))
}

func (h *apiHandler) handleCountries(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.services.ReportCore.Countries().Entries())
}

func (h *apiHandler) handleArchive(w http.ResponseWriter, r *http.Request) {
	if !h.services.ReportCore.HasArchive() {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "report archive is not configured"})
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	reports, err := h.services.ReportCore.RecentArchived(r.Context(), limit)
	if err != nil {
		logger.Log.Errorf("[REST] Failed to list archived reports: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to list archived reports"})
		return
	}
	writeJSON(w, http.StatusOK, reports)
}

func (h *apiHandler) handleEndSession(w http.ResponseWriter, r *http.Request) {
	s, err := middleware.GetSession(r.Context())
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: err.Error()})
		return
	}

	h.services.Sessions.End(s.ID)
	http.SetCookie(w, &http.Cookie{Name: middleware.CookieName, Value: "", Path: "/", MaxAge: -1, HttpOnly: true})
	w.WriteHeader(http.StatusNoContent)
}

func toHistoryEntry(i int, r history.Report) historyEntry {
	return historyEntry{Index: i + 1, Query: r.Query, Summary: r.Summary, CreatedAt: r.CreatedAt}
}

// parseIndex turns a 1-based index from a URL into a 0-based one.
func parseIndex(raw string) (int, bool) {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, false
	}
	return n - 1, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Log.Warnf("[REST] Failed to encode response: %v", err)
	}
}
