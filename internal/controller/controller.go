package controller

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/Capitan-Parrot/proctoring-demo/internal/models"
	"github.com/Capitan-Parrot/proctoring-demo/internal/scenario"
	"github.com/Capitan-Parrot/proctoring-demo/internal/scheduler"
)

const (
	TickInterval     = time.Second
	AutoDemoInterval = 5 * time.Second
)

var (
	ErrPreconditionNotMet = errors.New("must start monitoring first")
	ErrUnknownScenario    = errors.New("unknown scenario")
)

// Display is the write-only surface the controller renders onto
type Display interface {
	SetSensorReading(slot models.Slot, status string, severity models.Severity)
	SetCaption(text string)
	SetAlertBanner(visible bool, message string)
	SetElapsedTime(text string)
}

type Scheduler interface {
	ScheduleRepeating(interval time.Duration, fn func()) scheduler.Handle
	Cancel(h scheduler.Handle)
}

type Clock interface {
	Now() time.Time
}

type Random interface {
	PickOne(list []string) string
}

// Observer is notified after an operation has completed and the
// controller lock is released. Notifications arrive one at a time, in the
// order the operations took the lock. An Observer may call State but must
// not start or stop the controller.
type Observer interface {
	MonitoringStarted(at time.Time)
	MonitoringStopped(at time.Time, elapsed time.Duration)
	ScenarioApplied(id models.ScenarioID, fixture models.Fixture, alertMessage string)
	ScenarioRejected(id models.ScenarioID, err error)
}

// SessionState is a copy of the controller state.
// SessionStart is non-nil iff IsMonitoring.
type SessionState struct {
	IsMonitoring   bool              `json:"is_monitoring"`
	SessionStart   *time.Time        `json:"session_start,omitempty"`
	ActiveScenario models.ScenarioID `json:"active_scenario"`
	AutoDemo       bool              `json:"auto_demo"`
}

type Option func(*Controller)

func WithObserver(o Observer) Option {
	return func(c *Controller) {
		c.observer = o
	}
}

type Controller struct {
	display   Display
	scheduler Scheduler
	clock     Clock
	random    Random
	observer  Observer

	// notifyMu serializes delivery of pending notifications
	notifyMu sync.Mutex

	mu           sync.Mutex
	monitoring   bool
	sessionStart time.Time
	active       models.ScenarioID
	// generation changes on every start and stop so callbacks scheduled
	// for an earlier session become no-ops
	generation uint64

	tick     scheduler.Handle
	autoDemo bool
	autoTick scheduler.Handle
	autoNext models.ScenarioID

	pending []func(Observer)
}

func New(display Display, sched Scheduler, clock Clock, random Random, opts ...Option) *Controller {
	c := &Controller{
		display:   display,
		scheduler: sched,
		clock:     clock,
		random:    random,
		active:    models.ScenarioNormal,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start begins a monitoring session and renders the normal scenario.
// It does nothing when a session is already running.
func (c *Controller) Start() {
	c.mu.Lock()
	if c.monitoring {
		c.mu.Unlock()
		return
	}

	now := c.clock.Now()
	c.monitoring = true
	c.sessionStart = now
	c.generation++
	gen := c.generation
	c.tick = c.scheduler.ScheduleRepeating(TickInterval, func() { c.onTick(gen) })

	fixture, _ := scenario.Lookup(models.ScenarioNormal)
	msg := c.render(models.ScenarioNormal, fixture)
	c.notify(func(o Observer) {
		o.MonitoringStarted(now)
		o.ScenarioApplied(models.ScenarioNormal, fixture, msg)
	})
	c.mu.Unlock()

	log.Println("Controller: proctoring demo started")
	c.flush()
}

// Stop ends the session and resets the board. It always performs the
// reset, even when no session is running.
func (c *Controller) Stop() {
	c.mu.Lock()
	wasMonitoring := c.monitoring
	now := c.clock.Now()
	elapsed := now.Sub(c.sessionStart)

	c.monitoring = false
	c.sessionStart = time.Time{}
	c.generation++
	if c.tick != 0 {
		c.scheduler.Cancel(c.tick)
		c.tick = 0
	}
	if c.autoDemo {
		c.scheduler.Cancel(c.autoTick)
		c.autoTick = 0
		c.autoDemo = false
	}

	neutral := scenario.Neutral()
	for _, slot := range models.Slots {
		c.display.SetSensorReading(slot, neutral.Status, neutral.Severity)
	}
	c.display.SetElapsedTime(scenario.ResetTime)
	c.display.SetCaption(scenario.DefaultCaption)
	c.display.SetAlertBanner(false, "")
	if wasMonitoring {
		c.notify(func(o Observer) { o.MonitoringStopped(now, elapsed) })
	}
	c.mu.Unlock()

	log.Println("Controller: proctoring demo stopped")
	c.flush()
}

// ApplyScenario renders the fixture registered under id. Any scenario
// other than normal requires a running session.
func (c *Controller) ApplyScenario(id models.ScenarioID) error {
	c.mu.Lock()
	if !c.monitoring && id != models.ScenarioNormal {
		c.notify(func(o Observer) { o.ScenarioRejected(id, ErrPreconditionNotMet) })
		c.mu.Unlock()
		c.flush()
		return ErrPreconditionNotMet
	}

	fixture, ok := scenario.Lookup(id)
	if !ok {
		err := fmt.Errorf("%w: %q", ErrUnknownScenario, id)
		c.notify(func(o Observer) { o.ScenarioRejected(id, err) })
		c.mu.Unlock()
		c.flush()
		return err
	}

	msg := c.render(id, fixture)
	c.notify(func(o Observer) { o.ScenarioApplied(id, fixture, msg) })
	c.mu.Unlock()

	c.flush()
	return nil
}

// StartAutoDemo cycles through every scenario in registry order, one
// step per AutoDemoInterval, until the session stops.
func (c *Controller) StartAutoDemo() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.monitoring {
		return ErrPreconditionNotMet
	}
	if c.autoDemo {
		return nil
	}

	c.autoDemo = true
	c.autoNext = models.ScenarioNormal
	gen := c.generation
	c.autoTick = c.scheduler.ScheduleRepeating(AutoDemoInterval, func() { c.onAutoStep(gen) })
	log.Println("Controller: auto demo started")
	return nil
}

func (c *Controller) State() SessionState {
	c.mu.Lock()
	defer c.mu.Unlock()

	st := SessionState{
		IsMonitoring:   c.monitoring,
		ActiveScenario: c.active,
		AutoDemo:       c.autoDemo,
	}
	if c.monitoring {
		start := c.sessionStart
		st.SessionStart = &start
	}
	return st
}

// render must be called with c.mu held. It returns the alert message shown,
// or an empty string when the banner was hidden.
func (c *Controller) render(id models.ScenarioID, fixture models.Fixture) string {
	c.active = id

	for _, slot := range models.Slots {
		r := fixture.Readings[slot]
		c.display.SetSensorReading(slot, r.Status, r.Severity)
	}
	c.display.SetCaption(fixture.Caption)

	var msg string
	if fixture.Alert {
		msg = c.random.PickOne(scenario.AlertMessages)
		c.display.SetAlertBanner(true, msg)
	} else {
		c.display.SetAlertBanner(false, "")
	}

	log.Printf("Controller: scenario changed to: %s", id)
	return msg
}

func (c *Controller) onTick(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.monitoring || gen != c.generation {
		return
	}
	c.display.SetElapsedTime(FormatElapsed(c.clock.Now().Sub(c.sessionStart)))
}

func (c *Controller) onAutoStep(gen uint64) {
	c.mu.Lock()
	if !c.monitoring || !c.autoDemo || gen != c.generation {
		c.mu.Unlock()
		return
	}

	id := c.autoNext
	c.autoNext = scenario.Next(id)
	fixture, _ := scenario.Lookup(id)
	msg := c.render(id, fixture)
	c.notify(func(o Observer) { o.ScenarioApplied(id, fixture, msg) })
	c.mu.Unlock()

	c.flush()
}

// notify must be called with c.mu held, so the queue follows lock order.
func (c *Controller) notify(n func(Observer)) {
	if c.observer == nil {
		return
	}
	c.pending = append(c.pending, n)
}

// flush delivers every pending notification. When it returns, the
// notifications queued by the caller have been delivered, possibly by
// another goroutine's flush.
func (c *Controller) flush() {
	if c.observer == nil {
		return
	}
	c.notifyMu.Lock()
	defer c.notifyMu.Unlock()

	for {
		c.mu.Lock()
		batch := c.pending
		c.pending = nil
		c.mu.Unlock()

		if len(batch) == 0 {
			return
		}
		for _, n := range batch {
			n(c.observer)
		}
	}
}
