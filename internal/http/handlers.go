package http

import (
	"errors"
	"io"
	"net/http"

	"caja/internal/core"
	"caja/internal/services"
)

const maxBodySize = 1 << 20

type transactionRequest struct {
	Title  string  `json:"title"`
	Amount float64 `json:"amount"`
}

type openingRequest struct {
	ManualInitialAmount *float64 `json:"manualInitialAmount"`
	InitialBoxAmount    *float64 `json:"initialBoxAmount"`
}

type weekResponse struct {
	Week   core.WeekPeriod `json:"week"`
	Totals core.WeekTotals `json:"totals"`
}

func (s *Server) handleGetWeek(w http.ResponseWriter, r *http.Request) {
	week, totals, err := s.weeks.Week(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, weekResponse{Week: week, Totals: totals})
}

func (s *Server) handleAddTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if !readJSON(w, r, &req) {
		return
	}

	tx, err := s.weeks.AddTransaction(r.Context(),
		core.DayID(r.PathValue("day")), core.ListKind(r.PathValue("list")),
		sanitizeInput(req.Title), req.Amount)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, tx)
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if !readJSON(w, r, &req) {
		return
	}

	tx, err := s.weeks.UpdateTransaction(r.Context(),
		core.DayID(r.PathValue("day")), core.ListKind(r.PathValue("list")),
		r.PathValue("id"), sanitizeInput(req.Title), req.Amount)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tx)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	err := s.weeks.DeleteTransaction(r.Context(),
		core.DayID(r.PathValue("day")), core.ListKind(r.PathValue("list")),
		r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSetOpening(w http.ResponseWriter, r *http.Request) {
	var req openingRequest
	if !readJSON(w, r, &req) {
		return
	}

	err := s.weeks.SetOpening(r.Context(), core.DayID(r.PathValue("day")),
		req.ManualInitialAmount, req.InitialBoxAmount)
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleResetWeek(w http.ResponseWriter, r *http.Request) {
	if err := s.weeks.ResetWeek(r.Context()); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetHistory(w http.ResponseWriter, r *http.Request) {
	history, err := s.weeks.History(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if history == nil {
		history = []core.HistoryItem{}
	}
	writeJSON(w, http.StatusOK, history)
}

func (s *Server) handleRestore(w http.ResponseWriter, r *http.Request) {
	if err := s.weeks.RestoreTransaction(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetDeliveryDay(w http.ResponseWriter, r *http.Request) {
	zone, date := r.PathValue("zone"), r.PathValue("date")
	if !validDate(date) {
		writeJSONError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}

	rows, err := s.deliveries.Day(r.Context(), zone, date)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) handleSaveDeliveryDay(w http.ResponseWriter, r *http.Request) {
	zone, date := r.PathValue("zone"), r.PathValue("date")
	if !validDate(date) {
		writeJSONError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}

	var rows []core.DeliveryRow
	if !readJSON(w, r, &rows) {
		return
	}

	if err := s.deliveries.SaveDay(r.Context(), zone, date, rows); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	data, err := s.weeks.ExportCSV(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="caja-week.csv"`)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "read body: "+err.Error())
		return
	}
	if err := s.weeks.ImportCSV(r.Context(), data); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	// Ready when the store answers; the week itself may be empty.
	if _, _, err := s.weeks.Week(r.Context()); err != nil {
		writeJSONError(w, http.StatusServiceUnavailable, "store unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *Server) handleMetrics(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"http":     s.tracer.GetMetrics(),
		"security": s.detector.GetMetrics(),
		"ratelimit": map[string]int64{
			"active_clients": int64(s.limiter.ActiveClients()),
			"rejected_total": s.limiter.RejectedTotal(),
		},
	})
}

// writeError maps service errors onto HTTP status codes.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		writeJSONError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, core.ErrUnknownDay), errors.Is(err, core.ErrUnknownList):
		writeJSONError(w, http.StatusBadRequest, err.Error())
	default:
		logError(r, err)
		writeJSONError(w, http.StatusInternalServerError, "internal error")
	}
}
