package api

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/Capitan-Parrot/proctoring-demo/internal/controller"
	"github.com/Capitan-Parrot/proctoring-demo/internal/display"
	"github.com/Capitan-Parrot/proctoring-demo/internal/models"
	"github.com/Capitan-Parrot/proctoring-demo/internal/scenario"
)

type statusResponse struct {
	State   controller.SessionState `json:"state"`
	Board   display.Snapshot        `json:"board"`
	Session *models.Session         `json:"session,omitempty"`
	Last    *models.Session         `json:"last_session,omitempty"`
}

type scenarioResponse struct {
	ID      models.ScenarioID `json:"id"`
	Fixture models.Fixture    `json:"fixture"`
}

// StartHandler обработчик для запуска мониторинга; повторный запуск ничего не меняет
func (h *Handlers) StartHandler(w http.ResponseWriter, r *http.Request) {
	h.ctrl.Start()
	h.GetStatusHandler(w, r)
}

// StopHandler обработчик для остановки мониторинга и сброса доски
func (h *Handlers) StopHandler(w http.ResponseWriter, r *http.Request) {
	h.ctrl.Stop()
	h.GetStatusHandler(w, r)
}

// ApplyScenarioHandler обработчик для применения сценария по ID
func (h *Handlers) ApplyScenarioHandler(w http.ResponseWriter, r *http.Request) {
	id := models.ScenarioID(mux.Vars(r)["scenario_id"])

	if err := h.ctrl.ApplyScenario(id); err != nil {
		writeCommandError(w, err)
		return
	}
	h.GetStatusHandler(w, r)
}

// AutoDemoHandler обработчик для запуска автоматического перебора сценариев
func (h *Handlers) AutoDemoHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.ctrl.StartAutoDemo(); err != nil {
		writeCommandError(w, err)
		return
	}
	h.GetStatusHandler(w, r)
}

// GetStatusHandler обработчик для получения состояния контроллера и доски
func (h *Handlers) GetStatusHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, statusResponse{
		State:   h.ctrl.State(),
		Board:   h.board.Snapshot(),
		Session: h.sessions.Current(),
		Last:    h.sessions.Last(),
	})
}

func (h *Handlers) ListScenariosHandler(w http.ResponseWriter, r *http.Request) {
	ids := scenario.IDs()
	resp := make([]scenarioResponse, 0, len(ids))
	for _, id := range ids {
		fixture, _ := scenario.Lookup(id)
		resp = append(resp, scenarioResponse{ID: id, Fixture: fixture})
	}
	writeJSON(w, http.StatusOK, resp)
}

// writeCommandError переводит ошибки контроллера в HTTP-статусы
func writeCommandError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, controller.ErrPreconditionNotMet):
		http.Error(w, "Please start the proctoring demo first!", http.StatusConflict)
	case errors.Is(err, controller.ErrUnknownScenario):
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
