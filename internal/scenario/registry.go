package scenario

import (
	"github.com/samber/lo"

	"github.com/Capitan-Parrot/proctoring-demo/internal/models"
)

const (
	ReadyStatus    = "Ready"
	DefaultCaption = `Click "Start Proctoring" to begin the demo`
	ResetTime      = "00:00:00"
)

// AlertMessages is the fixed pool the banner text is picked from
var AlertMessages = []string{
	"🚨 ALERT: Suspicious activity detected!",
	"⚠️ WARNING: Exam integrity violation!",
	"🔴 ATTENTION: Unauthorized behavior detected!",
	"📢 NOTICE: Please return to proper exam position!",
}

// order is also the auto-demo cycle order
var order = []models.ScenarioID{
	models.ScenarioNormal,
	models.ScenarioNoFace,
	models.ScenarioMultipleFaces,
	models.ScenarioSuspicious,
}

func normal(status string) models.SensorReading {
	return models.SensorReading{Status: status, Severity: models.SeverityNormal}
}

func alert(status string) models.SensorReading {
	return models.SensorReading{Status: status, Severity: models.SeverityAlert}
}

var registry = map[models.ScenarioID]models.Fixture{
	models.ScenarioNormal: {
		Readings: map[models.Slot]models.SensorReading{
			models.SlotFace:   normal("Normal"),
			models.SlotEye:    normal("Focused"),
			models.SlotHead:   normal("Proper Position"),
			models.SlotObject: normal("Clear"),
			models.SlotAudio:  normal("Quiet"),
		},
		Caption: "✅ Student properly positioned and focused",
		Alert:   false,
	},
	models.ScenarioNoFace: {
		Readings: map[models.Slot]models.SensorReading{
			models.SlotFace:   alert("No Face Detected!"),
			models.SlotEye:    alert("Not Detected"),
			models.SlotHead:   alert("Not Detected"),
			models.SlotObject: normal("Clear"),
			models.SlotAudio:  normal("Quiet"),
		},
		Caption: "❌ No student face detected in frame",
		Alert:   true,
	},
	models.ScenarioMultipleFaces: {
		Readings: map[models.Slot]models.SensorReading{
			models.SlotFace:   alert("Multiple Faces!"),
			models.SlotEye:    alert("Multiple Sources"),
			models.SlotHead:   alert("Multiple Positions"),
			models.SlotObject: normal("Clear"),
			models.SlotAudio:  alert("Voices Detected"),
		},
		Caption: "⚠️ Multiple people detected in exam area",
		Alert:   true,
	},
	models.ScenarioSuspicious: {
		Readings: map[models.Slot]models.SensorReading{
			models.SlotFace:   alert("Looking Away"),
			models.SlotEye:    alert("Not Focused"),
			models.SlotHead:   alert("Turned Away"),
			models.SlotObject: alert("Phone Detected!"),
			models.SlotAudio:  alert("Suspicious Sounds"),
		},
		Caption: "🚨 Suspicious activity: Phone detected, student looking away",
		Alert:   true,
	},
}

// Lookup returns a copy of the fixture so callers cannot mutate the registry.
func Lookup(id models.ScenarioID) (models.Fixture, bool) {
	f, ok := registry[id]
	if !ok {
		return models.Fixture{}, false
	}
	f.Readings = lo.Assign(f.Readings)
	return f, true
}

func Exists(id models.ScenarioID) bool {
	_, ok := registry[id]
	return ok
}

// IDs returns the scenario ids in cycle order.
func IDs() []models.ScenarioID {
	return append([]models.ScenarioID(nil), order...)
}

// Next returns the id following id in cycle order, wrapping around.
func Next(id models.ScenarioID) models.ScenarioID {
	_, idx, ok := lo.FindIndexOf(order, func(s models.ScenarioID) bool { return s == id })
	if !ok {
		return order[0]
	}
	return order[(idx+1)%len(order)]
}

// Neutral is the reading every slot is reset to on stop.
func Neutral() models.SensorReading {
	return normal(ReadyStatus)
}
