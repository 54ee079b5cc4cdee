package display

import (
	"io"
	"log"

	"github.com/Capitan-Parrot/proctoring-demo/internal/models"
)

// Terminal writes every update as a log line.
type Terminal struct {
	logger *log.Logger
	// ticks are noisy, so they are only printed when enabled
	showTicks bool
}

func NewTerminal(w io.Writer, showTicks bool) *Terminal {
	return &Terminal{
		logger:    log.New(w, "display: ", log.LstdFlags),
		showTicks: showTicks,
	}
}

func (t *Terminal) SetSensorReading(slot models.Slot, status string, severity models.Severity) {
	t.logger.Printf("%-6s %-20s [%s]", slot, status, severity)
}

func (t *Terminal) SetCaption(text string) {
	t.logger.Printf("caption: %s", text)
}

func (t *Terminal) SetAlertBanner(visible bool, message string) {
	if visible {
		t.logger.Printf("ALERT: %s", message)
		return
	}
	t.logger.Println("alert cleared")
}

func (t *Terminal) SetElapsedTime(text string) {
	if t.showTicks {
		t.logger.Printf("time: %s", text)
	}
}
