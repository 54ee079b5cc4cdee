package scenario

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Capitan-Parrot/proctoring-demo/internal/models"
)

func TestRegistryFixtures(t *testing.T) {
	N, A := models.SeverityNormal, models.SeverityAlert
	type row struct {
		statuses   [5]string
		severities [5]models.Severity
		caption    string
		alert      bool
	}
	want := map[models.ScenarioID]row{
		models.ScenarioNormal: {
			statuses:   [5]string{"Normal", "Focused", "Proper Position", "Clear", "Quiet"},
			severities: [5]models.Severity{N, N, N, N, N},
			caption:    "✅ Student properly positioned and focused",
		},
		models.ScenarioNoFace: {
			statuses:   [5]string{"No Face Detected!", "Not Detected", "Not Detected", "Clear", "Quiet"},
			severities: [5]models.Severity{A, A, A, N, N},
			caption:    "❌ No student face detected in frame",
			alert:      true,
		},
		models.ScenarioMultipleFaces: {
			statuses:   [5]string{"Multiple Faces!", "Multiple Sources", "Multiple Positions", "Clear", "Voices Detected"},
			severities: [5]models.Severity{A, A, A, N, A},
			caption:    "⚠️ Multiple people detected in exam area",
			alert:      true,
		},
		models.ScenarioSuspicious: {
			statuses:   [5]string{"Looking Away", "Not Focused", "Turned Away", "Phone Detected!", "Suspicious Sounds"},
			severities: [5]models.Severity{A, A, A, A, A},
			caption:    "🚨 Suspicious activity: Phone detected, student looking away",
			alert:      true,
		},
	}

	require.Len(t, IDs(), len(want))
	for id, w := range want {
		f, ok := Lookup(id)
		require.True(t, ok, id)
		require.Len(t, f.Readings, 5, id)
		for i, slot := range models.Slots {
			assert.Equal(t, w.statuses[i], f.Readings[slot].Status, "%s/%s", id, slot)
			assert.Equal(t, w.severities[i], f.Readings[slot].Severity, "%s/%s", id, slot)
		}
		assert.Equal(t, w.caption, f.Caption, id)
		assert.Equal(t, w.alert, f.Alert, id)
	}
}

func TestLookupReturnsCopy(t *testing.T) {
	f, ok := Lookup(models.ScenarioNormal)
	require.True(t, ok)
	f.Readings[models.SlotFace] = models.SensorReading{Status: "changed", Severity: models.SeverityAlert}

	again, _ := Lookup(models.ScenarioNormal)
	assert.Equal(t, "Normal", again.Readings[models.SlotFace].Status)
}

func TestLookupUnknown(t *testing.T) {
	_, ok := Lookup("glasses")
	assert.False(t, ok)
	assert.False(t, Exists("glasses"))
	assert.True(t, Exists(models.ScenarioSuspicious))
}

func TestNextWrapsAround(t *testing.T) {
	assert.Equal(t, models.ScenarioNoFace, Next(models.ScenarioNormal))
	assert.Equal(t, models.ScenarioMultipleFaces, Next(models.ScenarioNoFace))
	assert.Equal(t, models.ScenarioSuspicious, Next(models.ScenarioMultipleFaces))
	assert.Equal(t, models.ScenarioNormal, Next(models.ScenarioSuspicious))
	assert.Equal(t, models.ScenarioNormal, Next("glasses"))
}

func TestAlertMessages(t *testing.T) {
	assert.Equal(t, []string{
		"🚨 ALERT: Suspicious activity detected!",
		"⚠️ WARNING: Exam integrity violation!",
		"🔴 ATTENTION: Unauthorized behavior detected!",
		"📢 NOTICE: Please return to proper exam position!",
	}, AlertMessages)
}
