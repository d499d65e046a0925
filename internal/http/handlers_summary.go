package http

import (
	"log/slog"
	"net/http"
	"strings"

	"fintrack/internal/core"
	applog "fintrack/internal/log"
)

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	window := core.Window(strings.ToLower(strings.TrimSpace(r.URL.Query().Get("window"))))
	if window == "" {
		window = core.WindowMonthly
	}
	if !window.Valid() {
		jsonMessage(w, http.StatusBadRequest, "Invalid summary window")
		return
	}

	if cached, ok := s.summaryCache.Get(string(window)); ok {
		writeJSON(w, http.StatusOK, cached)
		return
	}

	summary, err := s.ledger.Summarize(r.Context(), window)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed computing summary", applog.FieldError, err)
		jsonMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	s.summaryCache.Set(string(window), summary)
	writeJSON(w, http.StatusOK, summary)
}
