package http

import (
	"log/slog"
	"net/http"

	applog "fintrack/internal/log"
)

func (s *Server) handleIncomeCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := s.ledger.IncomeCategories(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed listing income categories", applog.FieldError, err)
		jsonMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusOK, cats)
}

func (s *Server) handleExpenseCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := s.ledger.ExpenseCategories(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed listing expense categories", applog.FieldError, err)
		jsonMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusOK, cats)
}
