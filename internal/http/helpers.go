package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"fintrack/internal/core"
)

// writeJSON encodes v as the response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("Failed encoding response", "error", err)
	}
}

// jsonMessage writes a {"message": ...} body, the shape clients expect
// for every error response.
func jsonMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}

// parseID extracts the numeric id path segment. Non-numeric ids are
// reported as not found rather than bad requests, since no transaction
// can ever match them.
func parseID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// parseFilter builds a listing filter from query parameters. Unparsable
// numeric bounds are ignored so a sloppy client still gets results.
func parseFilter(r *http.Request) core.Filter {
	q := r.URL.Query()
	f := core.Filter{
		Search:    strings.TrimSpace(q.Get("search")),
		StartDate: strings.TrimSpace(q.Get("startDate")),
		EndDate:   strings.TrimSpace(q.Get("endDate")),
		Type:      strings.ToLower(strings.TrimSpace(q.Get("type"))),
	}
	if v := strings.TrimSpace(q.Get("minAmount")); v != "" {
		if n, err := strconv.ParseFloat(v, 64); err == nil {
			f.MinAmount = &n
		}
	}
	if v := strings.TrimSpace(q.Get("maxAmount")); v != "" {
		if n, err := strconv.ParseFloat(v, 64); err == nil {
			f.MaxAmount = &n
		}
	}
	return f
}
