package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"fintrack/internal/core"
	"fintrack/internal/ledger"
	applog "fintrack/internal/log"
)

const msgNotFound = "Transaction not found"

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	txns, err := s.ledger.List(r.Context(), parseFilter(r))
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed listing transactions", applog.FieldError, err)
		jsonMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusOK, txns)
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		jsonMessage(w, http.StatusNotFound, msgNotFound)
		return
	}
	txn, err := s.ledger.Get(r.Context(), id)
	if errors.Is(err, ledger.ErrNotFound) {
		jsonMessage(w, http.StatusNotFound, msgNotFound)
		return
	}
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed fetching transaction",
			applog.FieldError, err, applog.FieldTransactionID, id)
		jsonMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusOK, txn)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var in core.TransactionInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		jsonMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	txn, err := s.ledger.Create(r.Context(), in)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed creating transaction", applog.FieldError, err)
		jsonMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	s.recordCreated()
	s.invalidateSummaries()
	writeJSON(w, http.StatusCreated, txn)
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		jsonMessage(w, http.StatusNotFound, msgNotFound)
		return
	}
	var in core.TransactionInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		jsonMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	txn, err := s.ledger.Update(r.Context(), id, in)
	if errors.Is(err, ledger.ErrNotFound) {
		jsonMessage(w, http.StatusNotFound, msgNotFound)
		return
	}
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed updating transaction",
			applog.FieldError, err, applog.FieldTransactionID, id)
		jsonMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	s.invalidateSummaries()
	writeJSON(w, http.StatusOK, txn)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		jsonMessage(w, http.StatusNotFound, msgNotFound)
		return
	}
	txn, err := s.ledger.Delete(r.Context(), id)
	if errors.Is(err, ledger.ErrNotFound) {
		jsonMessage(w, http.StatusNotFound, msgNotFound)
		return
	}
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed deleting transaction",
			applog.FieldError, err, applog.FieldTransactionID, id)
		jsonMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	s.invalidateSummaries()
	writeJSON(w, http.StatusOK, txn)
}
