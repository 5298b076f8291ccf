package expense

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/zombor/expense-tracker/internal/extraction"
)

// maxBodySize caps the parse request body
const maxBodySize = 64 << 10

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type parseRequest struct {
	Text string `json:"text"`
}

// setCORSHeaders sets CORS headers on a response
func setCORSHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	w.Header().Set("Access-Control-Max-Age", "3600")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{
		"error": message,
	})
}

// errorStatus maps a service error onto an HTTP status and client message
func errorStatus(err error) (int, string) {
	var upErr *extraction.UpstreamError
	var malformed *extraction.MalformedResponseError

	switch {
	case errors.Is(err, ErrEmptyInput):
		return http.StatusBadRequest, "text is required"
	case errors.Is(err, extraction.ErrNoValidExpense):
		return http.StatusBadRequest, "could not understand input"
	case errors.As(err, &upErr):
		return http.StatusBadGateway, "expense extraction is unavailable"
	case errors.As(err, &malformed):
		return http.StatusBadGateway, "could not read extraction response"
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound, "expense not found"
	}
	return http.StatusInternalServerError, "Internal server error"
}

// addFromRequest decodes the body and runs it through the service. It writes
// the error response itself and returns nil expenses when it does.
func (s *Server) addFromRequest(w http.ResponseWriter, r *http.Request) []*Expense {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)

	var req parseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Warn("Error decoding request", "error", err)
		writeError(w, http.StatusBadRequest, "invalid request body")
		return nil
	}

	expenses, err := s.service.AddFromText(r.Context(), req.Text)
	if err != nil {
		status, message := errorStatus(err)
		if status >= http.StatusInternalServerError {
			slog.Error("Error adding expenses", "error", err)
		}
		writeError(w, status, message)
		return nil
	}
	return expenses
}

// handleParse creates expenses from free text
func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	if expenses := s.addFromRequest(w, r); expenses != nil {
		writeJSON(w, http.StatusCreated, expenses)
	}
}

// handleLegacyAdd is handleParse answering 200 like the first version did
func (s *Server) handleLegacyAdd(w http.ResponseWriter, r *http.Request) {
	if expenses := s.addFromRequest(w, r); expenses != nil {
		writeJSON(w, http.StatusOK, expenses)
	}
}

// handleListExpenses returns all expenses, newest first
func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	expenses, err := s.service.ListExpenses(r.Context())
	if err != nil {
		slog.Error("Error listing expenses", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusOK, expenses)
}

// handleDeleteExpense deletes a single expense
func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.service.DeleteExpense(r.Context(), id); err != nil {
		status, message := errorStatus(err)
		if status == http.StatusInternalServerError {
			slog.Error("Error deleting expense", "id", id, "error", err)
		}
		writeError(w, status, message)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleLegacyDelete reports success whether or not the id existed
func (s *Server) handleLegacyDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.service.DeleteExpense(r.Context(), id); err != nil && !errors.Is(err, ErrNotFound) {
		slog.Error("Error deleting expense", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// handleDeleteAll removes every expense
func (s *Server) handleDeleteAll(w http.ResponseWriter, r *http.Request) {
	if err := s.service.DeleteAll(r.Context()); err != nil {
		slog.Error("Error deleting all expenses", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleSummary returns per-category totals
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	totals, err := s.service.Summary(r.Context())
	if err != nil {
		slog.Error("Error summarizing expenses", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusOK, totals)
}

// handleExport serves the XLSX workbook
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := s.service.Export(r.Context(), &buf); err != nil {
		slog.Error("Error exporting expenses", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="expenses.xlsx"`)
	if _, err := w.Write(buf.Bytes()); err != nil {
		slog.Error("Error writing export", "error", err)
	}
}
