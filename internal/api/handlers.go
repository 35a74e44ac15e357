package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"datalens/app"
	"datalens/internal/engine"
	"datalens/internal/errors"
	"datalens/internal/report"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListTables(w http.ResponseWriter, r *http.Request) {
	tables, err := s.service.Tables(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"tables": tables})
}

func (s *Server) handleColumns(w http.ResponseWriter, r *http.Request) {
	tableName := chi.URLParam(r, "table")
	columns, err := s.service.Columns(r.Context(), tableName)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"table": tableName, "columns": columns})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req app.PanelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, errors.InvalidSelection("malformed request body"))
		return
	}
	result, err := s.service.Analyze(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleSweep(w http.ResponseWriter, r *http.Request) {
	var requests []app.PanelRequest
	if err := json.NewDecoder(r.Body).Decode(&requests); err != nil {
		s.writeError(w, r, errors.InvalidSelection("malformed request body"))
		return
	}
	results, err := s.service.Sweep(r.Context(), requests)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	type sweepEntry struct {
		Panel  interface{} `json:"panel"`
		Result interface{} `json:"result,omitempty"`
		Error  string      `json:"error,omitempty"`
	}
	out := make([]sweepEntry, len(results))
	for i, res := range results {
		out[i] = sweepEntry{Panel: res.Panel, Result: res.Result}
		if res.Err != nil {
			out[i].Error = res.Err.Error()
		}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"results": out})
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	var req app.PanelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, errors.InvalidSelection("malformed request body"))
		return
	}
	result, err := s.service.Analyze(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if r.URL.Query().Get("format") == "html" {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write(report.ToHTML(result))
		return
	}
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(report.ToMarkdown(result)))
}

func (s *Server) handleAlgorithms(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"changepoint": engine.ChangePointAlgorithms()})
}

// writeError maps the error taxonomy onto HTTP status codes.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch errors.GetCode(err) {
	case errors.CodeInvalidSelection, errors.CodeUnsupportedColumnType:
		status = http.StatusBadRequest
	case errors.CodeEmptyInput, errors.CodeNumericInstability:
		status = http.StatusUnprocessableEntity
	case errors.CodeNotFound:
		status = http.StatusNotFound
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("%s %s: %v", r.Method, r.URL.Path, err)
	}
	writeJSON(w, status, map[string]string{
		"code":  errors.GetCode(err),
		"error": err.Error(),
	})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
