package api

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/Capitan-Parrot/proctoring-demo/internal/database"
	"github.com/Capitan-Parrot/proctoring-demo/internal/s3"
)

// GetReportHandler обработчик для получения отчёта по ID сессии. Сначала
// читается отчёт из MinIO, если его нет, отчёт собирается из журнала.
func (h *Handlers) GetReportHandler(w http.ResponseWriter, r *http.Request) {
	if h.reports == nil && h.history == nil {
		http.Error(w, "Report storage is disabled", http.StatusNotImplemented)
		return
	}

	sessionID := mux.Vars(r)["session_id"]

	if h.reports != nil {
		report, err := h.reports.GetSessionReport(r.Context(), sessionID)
		switch {
		case err == nil:
			writeJSON(w, http.StatusOK, report)
			return
		case !errors.Is(err, s3.ErrNotFound):
			log.Printf("Error reading report %s: %v", sessionID, err)
			http.Error(w, "Storage error", http.StatusInternalServerError)
			return
		case h.history == nil:
			http.Error(w, "Report not found", http.StatusNotFound)
			return
		}
	}

	report, err := h.journalReport(r.Context(), sessionID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			http.Error(w, "Report not found", http.StatusNotFound)
			return
		}
		log.Printf("Error reading journal for %s: %v", sessionID, err)
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, report)
}

// journalReport собирает отчёт из журнала; сессия может быть ещё открыта
func (h *Handlers) journalReport(ctx context.Context, sessionID string) (*s3.Report, error) {
	session, err := h.history.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	events, err := h.history.ListEvents(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	return &s3.Report{Session: *session, Events: events}, nil
}
