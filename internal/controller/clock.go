package controller

import (
	"fmt"
	"time"

	"github.com/samber/lo"
)

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}

// SampleRandom picks uniformly with lo.Sample
type SampleRandom struct{}

func (SampleRandom) PickOne(list []string) string {
	return lo.Sample(list)
}

// FormatElapsed renders whole seconds as HH:MM:SS. Hours are not wrapped,
// so 100 hours renders as 100:00:00.
func FormatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64(d / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total%3600)/60, total%60)
}
