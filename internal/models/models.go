package models

import "time"

type ScenarioID string

const (
	ScenarioNormal        ScenarioID = "normal"
	ScenarioNoFace        ScenarioID = "no_face"
	ScenarioMultipleFaces ScenarioID = "multiple_faces"
	ScenarioSuspicious    ScenarioID = "suspicious"
)

type Severity string

const (
	SeverityNormal Severity = "NORMAL"
	SeverityAlert  Severity = "ALERT"
)

// Slot is one of the five monitored channels shown on the board
type Slot string

const (
	SlotFace   Slot = "face"
	SlotEye    Slot = "eye"
	SlotHead   Slot = "head"
	SlotObject Slot = "object"
	SlotAudio  Slot = "audio"
)

// Slots lists the channels in display order.
var Slots = []Slot{SlotFace, SlotEye, SlotHead, SlotObject, SlotAudio}

type SensorReading struct {
	Status   string   `json:"status" yaml:"status"`
	Severity Severity `json:"severity" yaml:"severity"`
}

// Fixture is one canned monitoring state. Alert is kept separately from
// the per-slot severities and is never derived from them.
type Fixture struct {
	Readings map[Slot]SensorReading `json:"readings"`
	Caption  string                 `json:"caption"`
	Alert    bool                   `json:"alert"`
}

type CommandAction string

const (
	CommandStart    CommandAction = "start"
	CommandStop     CommandAction = "stop"
	CommandApply    CommandAction = "apply"
	CommandAutoDemo CommandAction = "autodemo"
)

// ScenarioCommand is the payload accepted by the command listener
type ScenarioCommand struct {
	Action   CommandAction `json:"action"`
	Scenario ScenarioID    `json:"scenario,omitempty"`
}

type DisplayEventKind string

const (
	EventSensorReading DisplayEventKind = "sensor_reading"
	EventCaption       DisplayEventKind = "caption"
	EventAlertBanner   DisplayEventKind = "alert_banner"
	EventElapsedTime   DisplayEventKind = "elapsed_time"
)

// DisplayEvent is a single display update published to the event topic
type DisplayEvent struct {
	Kind      DisplayEventKind `json:"kind"`
	Slot      Slot             `json:"slot,omitempty"`
	Status    string           `json:"status,omitempty"`
	Severity  Severity         `json:"severity,omitempty"`
	Text      string           `json:"text,omitempty"`
	Visible   bool             `json:"visible,omitempty"`
	TimeStamp time.Time        `json:"timestamp"`
}

// Session is one monitoring run between start and stop
type Session struct {
	ID             string     `json:"id"`
	StartedAt      time.Time  `json:"started_at"`
	StoppedAt      *time.Time `json:"stopped_at,omitempty"`
	Applications   int        `json:"applications"`
	AlertsRaised   int        `json:"alerts_raised"`
	LastScenario   ScenarioID `json:"last_scenario"`
	ElapsedSeconds int64      `json:"elapsed_seconds"`
}

// ScenarioEvent is a journal row for one scenario application
type ScenarioEvent struct {
	SessionID    string     `json:"session_id"`
	Scenario     ScenarioID `json:"scenario"`
	Alert        bool       `json:"alert"`
	AlertMessage string     `json:"alert_message,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}
