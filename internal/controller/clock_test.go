package controller

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Capitan-Parrot/proctoring-demo/internal/scenario"
)

func TestFormatElapsed(t *testing.T) {
	cases := []struct {
		in   time.Duration
		want string
	}{
		{0, "00:00:00"},
		{999 * time.Millisecond, "00:00:00"},
		{time.Second, "00:00:01"},
		{59 * time.Second, "00:00:59"},
		{time.Minute, "00:01:00"},
		{time.Hour + 2*time.Minute + 3*time.Second, "01:02:03"},
		{23*time.Hour + 59*time.Minute + 59*time.Second, "23:59:59"},
		{100 * time.Hour, "100:00:00"},
		{-5 * time.Second, "00:00:00"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, FormatElapsed(tc.in), "FormatElapsed(%s)", tc.in)
	}
}

func TestSampleRandomPicksFromList(t *testing.T) {
	r := SampleRandom{}
	for i := 0; i < 50; i++ {
		assert.Contains(t, scenario.AlertMessages, r.PickOne(scenario.AlertMessages))
	}
	assert.Empty(t, r.PickOne(nil))
}
