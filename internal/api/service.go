package api

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/Capitan-Parrot/proctoring-demo/internal/display"
	"github.com/Capitan-Parrot/proctoring-demo/internal/models"
	"github.com/Capitan-Parrot/proctoring-demo/internal/runner"
	"github.com/Capitan-Parrot/proctoring-demo/internal/s3"
)

type Board interface {
	Snapshot() display.Snapshot
}

type SessionSource interface {
	Current() *models.Session
	Last() *models.Session
}

type ReportSource interface {
	GetSessionReport(ctx context.Context, sessionID string) (*s3.Report, error)
}

// SessionHistory читает журнал сессий из Postgres
type SessionHistory interface {
	GetSession(ctx context.Context, id string) (*models.Session, error)
	ListEvents(ctx context.Context, sessionID string) ([]models.ScenarioEvent, error)
}

type Handlers struct {
	ctrl     runner.Commander
	board    Board
	sessions SessionSource
	reports  ReportSource
	history  SessionHistory
}

// NewHandlers собирает HTTP-обработчики; reports и history могут быть nil
func NewHandlers(ctrl runner.Commander, board Board, sessions SessionSource, reports ReportSource, history SessionHistory) *Handlers {
	return &Handlers{ctrl: ctrl, board: board, sessions: sessions, reports: reports, history: history}
}

// Router регистрирует все маршруты; metrics может быть nil
func (h *Handlers) Router(metrics http.Handler) http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/monitoring/start", h.StartHandler).Methods("POST")
	r.HandleFunc("/monitoring/stop", h.StopHandler).Methods("POST")
	r.HandleFunc("/scenario/{scenario_id}", h.ApplyScenarioHandler).Methods("POST")
	r.HandleFunc("/autodemo", h.AutoDemoHandler).Methods("POST")
	r.HandleFunc("/status", h.GetStatusHandler).Methods("GET")
	r.HandleFunc("/scenarios", h.ListScenariosHandler).Methods("GET")
	r.HandleFunc("/sessions/{session_id}/report", h.GetReportHandler).Methods("GET")
	if metrics != nil {
		r.Handle("/metrics", metrics).Methods("GET")
	}

	return handlers.LoggingHandler(os.Stdout, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error writing response: %v", err)
	}
}
