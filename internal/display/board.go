package display

import (
	"sync"

	"github.com/samber/lo"

	"github.com/Capitan-Parrot/proctoring-demo/internal/models"
	"github.com/Capitan-Parrot/proctoring-demo/internal/scenario"
)

// Snapshot is the board as last rendered
type Snapshot struct {
	Readings     map[models.Slot]models.SensorReading `json:"readings"`
	Caption      string                               `json:"caption"`
	AlertVisible bool                                 `json:"alert_visible"`
	AlertMessage string                               `json:"alert_message,omitempty"`
	ElapsedTime  string                               `json:"elapsed_time"`
}

// Board keeps the latest rendered state in memory.
type Board struct {
	mu    sync.RWMutex
	state Snapshot
}

// NewBoard returns a board in the neutral page-load state.
func NewBoard() *Board {
	readings := make(map[models.Slot]models.SensorReading, len(models.Slots))
	for _, slot := range models.Slots {
		readings[slot] = scenario.Neutral()
	}
	return &Board{state: Snapshot{
		Readings:    readings,
		Caption:     scenario.DefaultCaption,
		ElapsedTime: scenario.ResetTime,
	}}
}

func (b *Board) SetSensorReading(slot models.Slot, status string, severity models.Severity) {
	b.mu.Lock()
	b.state.Readings[slot] = models.SensorReading{Status: status, Severity: severity}
	b.mu.Unlock()
}

func (b *Board) SetCaption(text string) {
	b.mu.Lock()
	b.state.Caption = text
	b.mu.Unlock()
}

func (b *Board) SetAlertBanner(visible bool, message string) {
	b.mu.Lock()
	b.state.AlertVisible = visible
	b.state.AlertMessage = message
	b.mu.Unlock()
}

func (b *Board) SetElapsedTime(text string) {
	b.mu.Lock()
	b.state.ElapsedTime = text
	b.mu.Unlock()
}

func (b *Board) Snapshot() Snapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()

	s := b.state
	s.Readings = lo.Assign(b.state.Readings)
	return s
}
