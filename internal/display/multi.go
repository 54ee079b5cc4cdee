package display

import (
	"github.com/Capitan-Parrot/proctoring-demo/internal/controller"
	"github.com/Capitan-Parrot/proctoring-demo/internal/models"
)

// Multi fans every update out to all sinks in order.
type Multi []controller.Display

func (m Multi) SetSensorReading(slot models.Slot, status string, severity models.Severity) {
	for _, d := range m {
		d.SetSensorReading(slot, status, severity)
	}
}

func (m Multi) SetCaption(text string) {
	for _, d := range m {
		d.SetCaption(text)
	}
}

func (m Multi) SetAlertBanner(visible bool, message string) {
	for _, d := range m {
		d.SetAlertBanner(visible, message)
	}
}

func (m Multi) SetElapsedTime(text string) {
	for _, d := range m {
		d.SetElapsedTime(text)
	}
}
