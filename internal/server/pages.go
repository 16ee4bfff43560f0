package server

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/amityadav/stratreport/internal/apperr"
	"github.com/amityadav/stratreport/internal/core"
	"github.com/amityadav/stratreport/internal/history"
	"github.com/amityadav/stratreport/internal/logger"
	"github.com/amityadav/stratreport/internal/middleware"
	"github.com/amityadav/stratreport/internal/quota"
	"github.com/amityadav/stratreport/internal/search"
	"github.com/amityadav/stratreport/internal/session"
	"github.com/go-chi/chi/v5"
)

//go:embed templates/*.html
var templateFS embed.FS

type option struct {
	Name     string
	Value    string
	Label    string
	Selected bool
}

type historyLink struct {
	Index int
	Query string
}

type pageData struct {
	Keyword   string
	Countries []option
	Windows   []option
	History   []historyLink
	Warning   string
	Error     string
	Result    *core.Result
	Previous  *history.Report
}

type pageHandler struct {
	services Services
	tmpl     *template.Template
}

func newPageHandler(services Services) (*pageHandler, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/index.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return &pageHandler{services: services, tmpl: tmpl}, nil
}

func (h *pageHandler) handleIndex(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	h.render(w, http.StatusOK, h.baseData(s, "", "", search.WindowNone))
}

func (h *pageHandler) handleGenerate(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	// Show the country that is actually searched.
	country := h.services.ReportCore.Countries().NameOrDefault(r.PostFormValue("country"))
	window, err := search.ParseTimeWindow(r.PostFormValue("time_window"))
	if err != nil {
		window = search.WindowNone
	}

	keyword, err := core.NormalizeKeyword(r.PostFormValue("keyword"))
	data := h.baseData(s, keyword, country, window)
	if err != nil {
		data.Warning = core.MsgEmptyKeyword
		h.render(w, http.StatusOK, data)
		return
	}

	status := http.StatusOK
	if !h.services.Quota.Allow(s.ID, quota.ClientAddr(r), quota.ResourceReport) {
		data.Error = h.services.Quota.ExceededMessage(quota.ResourceReport)
		h.render(w, http.StatusTooManyRequests, data)
		return
	}

	res, err := h.services.ReportCore.Generate(r.Context(), s.History, core.Request{
		SessionID: s.ID,
		Keyword:   keyword,
		Country:   country,
		Window:    window,
	})
	if err != nil {
		data.Error = fmt.Sprintf("Report generation failed: %v", err)
		status = apperr.HTTPStatus(err)
	} else {
		data.Result = res
	}

	// The sidebar must show the report just appended.
	data.History = historyLinks(s.History)
	h.render(w, status, data)
}

func (h *pageHandler) handleHistory(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	data := h.baseData(s, "", "", search.WindowNone)
	i, ok := parseIndex(chi.URLParam(r, "index"))
	if !ok {
		data.Warning = "Unknown report."
		h.render(w, http.StatusBadRequest, data)
		return
	}
	rep, ok := s.History.Get(i)
	if !ok {
		data.Warning = "Unknown report."
		h.render(w, http.StatusNotFound, data)
		return
	}
	data.Previous = &rep
	h.render(w, http.StatusOK, data)
}

func (h *pageHandler) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	s, err := middleware.GetSession(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return nil, false
	}
	return s, true
}

func (h *pageHandler) baseData(s *session.Session, keyword, country string, window search.TimeWindow) *pageData {
	table := h.services.ReportCore.Countries()
	names := table.Names()
	if _, known := table.Code(country); !known && len(names) > 0 {
		country = names[0]
	}

	data := &pageData{
		Keyword:   keyword,
		Countries: make([]option, len(names)),
		Windows:   make([]option, len(search.Windows)),
		History:   historyLinks(s.History),
	}
	for i, n := range names {
		data.Countries[i] = option{Name: n, Selected: n == country}
	}
	for i, tw := range search.Windows {
		data.Windows[i] = option{Value: string(tw), Label: tw.Label(), Selected: tw == window}
	}
	return data
}

func historyLinks(log *history.Log) []historyLink {
	entries := log.Entries()
	links := make([]historyLink, len(entries))
	for i, e := range entries {
		links[i] = historyLink{Index: i + 1, Query: e.Query}
	}
	return links
}

func (h *pageHandler) render(w http.ResponseWriter, status int, data *pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := h.tmpl.ExecuteTemplate(w, "index.html", data); err != nil {
		logger.Log.Errorf("[Pages] Failed to render page: %v", err)
	}
}
