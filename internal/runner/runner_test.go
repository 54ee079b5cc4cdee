package runner

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Capitan-Parrot/proctoring-demo/internal/controller"
	"github.com/Capitan-Parrot/proctoring-demo/internal/display"
	"github.com/Capitan-Parrot/proctoring-demo/internal/kafka"
	"github.com/Capitan-Parrot/proctoring-demo/internal/models"
	"github.com/Capitan-Parrot/proctoring-demo/internal/s3"
	"github.com/Capitan-Parrot/proctoring-demo/internal/scheduler"
)

type fakeJournal struct {
	mu      sync.Mutex
	created []models.Session
	events  []models.ScenarioEvent
	closed  []models.Session
	err     error
}

func (j *fakeJournal) CreateSession(ctx context.Context, s *models.Session) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.created = append(j.created, *s)
	return j.err
}

func (j *fakeJournal) AddScenarioEvent(ctx context.Context, e models.ScenarioEvent) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.events = append(j.events, e)
	return j.err
}

func (j *fakeJournal) CloseSession(ctx context.Context, s *models.Session) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.closed = append(j.closed, *s)
	return j.err
}

type fakeReports struct {
	reports []s3.Report
}

func (r *fakeReports) SaveSessionReport(ctx context.Context, report s3.Report) error {
	r.reports = append(r.reports, report)
	return nil
}

type fakeRecorder struct {
	started, stopped int
	applied          map[models.ScenarioID]int
	alerts           int
	rejected         []string
}

func (r *fakeRecorder) SessionStarted()           { r.started++ }
func (r *fakeRecorder) SessionStopped(float64)    { r.stopped++ }
func (r *fakeRecorder) ScenarioRejected(s string) { r.rejected = append(r.rejected, s) }
func (r *fakeRecorder) ScenarioApplied(id models.ScenarioID, alert bool) {
	if r.applied == nil {
		r.applied = make(map[models.ScenarioID]int)
	}
	r.applied[id]++
	if alert {
		r.alerts++
	}
}

type lastRandom struct{}

func (lastRandom) PickOne(list []string) string { return list[len(list)-1] }

type env struct {
	journal  *fakeJournal
	reports  *fakeReports
	recorder *fakeRecorder
	sessions *Sessions
	sched    *scheduler.Manual
	board    *display.Board
	ctrl     *controller.Controller
	runner   *Runner
}

func setup(t *testing.T) *env {
	t.Helper()
	e := &env{
		journal:  &fakeJournal{},
		reports:  &fakeReports{},
		recorder: &fakeRecorder{},
		sched:    scheduler.NewManual(time.Date(2024, 5, 20, 9, 0, 0, 0, time.UTC)),
		board:    display.NewBoard(),
	}
	e.sessions = NewSessions(context.Background(), e.journal, e.reports, e.recorder)
	e.sessions.newID = func() string { return "session-1" }
	e.ctrl = controller.New(e.board, e.sched, e.sched, lastRandom{}, controller.WithObserver(e.sessions))
	e.runner = New(e.ctrl)
	return e
}

func TestDispatchCommands(t *testing.T) {
	e := setup(t)

	require.NoError(t, e.runner.Dispatch(models.ScenarioCommand{Action: models.CommandStart}))
	require.NoError(t, e.runner.Dispatch(models.ScenarioCommand{Action: models.CommandApply, Scenario: models.ScenarioSuspicious}))
	assert.Equal(t, models.ScenarioSuspicious, e.ctrl.State().ActiveScenario)
	require.NoError(t, e.runner.Dispatch(models.ScenarioCommand{Action: models.CommandAutoDemo}))
	assert.True(t, e.ctrl.State().AutoDemo)
	require.NoError(t, e.runner.Dispatch(models.ScenarioCommand{Action: models.CommandStop}))
	assert.False(t, e.ctrl.State().IsMonitoring)
}

func TestDispatchErrors(t *testing.T) {
	e := setup(t)

	err := e.runner.Dispatch(models.ScenarioCommand{Action: models.CommandApply, Scenario: models.ScenarioNoFace})
	require.ErrorIs(t, err, controller.ErrPreconditionNotMet)

	err = e.runner.Dispatch(models.ScenarioCommand{Action: models.CommandAutoDemo})
	require.ErrorIs(t, err, controller.ErrPreconditionNotMet)

	e.ctrl.Start()
	err = e.runner.Dispatch(models.ScenarioCommand{Action: models.CommandApply, Scenario: "glasses"})
	require.ErrorIs(t, err, controller.ErrUnknownScenario)

	err = e.runner.Dispatch(models.ScenarioCommand{Action: "pause"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown command")
}

func TestListenAndRun(t *testing.T) {
	e := setup(t)
	commands := make(chan kafka.Command)
	done := make(chan struct{})
	go func() {
		e.runner.ListenAndRun(context.Background(), commands)
		close(done)
	}()

	commands <- kafka.NewCommand(models.ScenarioCommand{Action: models.CommandStart})
	commands <- kafka.NewCommand(models.ScenarioCommand{Action: models.CommandApply, Scenario: "glasses"})
	commands <- kafka.NewCommand(models.ScenarioCommand{Action: models.CommandApply, Scenario: models.ScenarioMultipleFaces})
	close(commands)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("runner did not stop after the stream closed")
	}

	st := e.ctrl.State()
	assert.True(t, st.IsMonitoring)
	assert.Equal(t, models.ScenarioMultipleFaces, st.ActiveScenario)
	assert.Equal(t, "⚠️ Multiple people detected in exam area", e.board.Snapshot().Caption)
}

func TestListenAndRunStopsOnContext(t *testing.T) {
	e := setup(t)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		e.runner.ListenAndRun(ctx, make(chan kafka.Command))
		close(done)
	}()

	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("runner did not stop on cancel")
	}
}

func TestSessionBookkeeping(t *testing.T) {
	e := setup(t)

	require.ErrorIs(t, e.ctrl.ApplyScenario(models.ScenarioSuspicious), controller.ErrPreconditionNotMet)
	e.ctrl.Start()
	require.NoError(t, e.ctrl.ApplyScenario(models.ScenarioNoFace))
	require.NoError(t, e.ctrl.ApplyScenario(models.ScenarioSuspicious))

	current := e.sessions.Current()
	require.NotNil(t, current)
	assert.Equal(t, "session-1", current.ID)
	assert.Equal(t, 3, current.Applications)
	assert.Equal(t, 2, current.AlertsRaised)
	assert.Equal(t, models.ScenarioSuspicious, current.LastScenario)

	e.sched.Advance(42 * time.Second)
	e.ctrl.Stop()

	assert.Nil(t, e.sessions.Current())
	last := e.sessions.Last()
	require.NotNil(t, last)
	require.NotNil(t, last.StoppedAt)
	assert.Equal(t, int64(42), last.ElapsedSeconds)

	require.Len(t, e.journal.created, 1)
	require.Len(t, e.journal.events, 3)
	assert.Equal(t, "📢 NOTICE: Please return to proper exam position!", e.journal.events[2].AlertMessage)
	assert.Empty(t, e.journal.events[0].AlertMessage)
	require.Len(t, e.journal.closed, 1)

	require.Len(t, e.reports.reports, 1)
	report := e.reports.reports[0]
	assert.Equal(t, "session-1", report.Session.ID)
	assert.Len(t, report.Events, 3)

	assert.Equal(t, 1, e.recorder.started)
	assert.Equal(t, 1, e.recorder.stopped)
	assert.Equal(t, 2, e.recorder.alerts)
	assert.Equal(t, []string{"not_monitoring"}, e.recorder.rejected)
}

func TestNormalWhileStoppedIsNotJournaled(t *testing.T) {
	e := setup(t)

	require.NoError(t, e.ctrl.ApplyScenario(models.ScenarioNormal))

	assert.Empty(t, e.journal.events)
	assert.Equal(t, 1, e.recorder.applied[models.ScenarioNormal])
}

func TestJournalErrorsDoNotStopSessions(t *testing.T) {
	e := setup(t)
	e.journal.err = errors.New("connection refused")

	e.ctrl.Start()
	require.NoError(t, e.ctrl.ApplyScenario(models.ScenarioMultipleFaces))
	e.ctrl.Stop()

	assert.Len(t, e.reports.reports, 1)
	assert.False(t, e.ctrl.State().IsMonitoring)
}

func TestSessionsWithoutBackends(t *testing.T) {
	s := NewSessions(context.Background(), nil, nil, nil)
	sched := scheduler.NewManual(time.Now())
	ctrl := controller.New(display.NewBoard(), sched, sched, lastRandom{}, controller.WithObserver(s))

	ctrl.Start()
	require.NoError(t, ctrl.ApplyScenario(models.ScenarioNoFace))
	assert.Error(t, ctrl.ApplyScenario("glasses"))
	ctrl.Stop()

	require.NotNil(t, s.Last())
	assert.Equal(t, 2, s.Last().Applications)
}

// slowStart delays the first MonitoringStarted until release is closed.
type slowStart struct {
	*Sessions
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func (s *slowStart) MonitoringStarted(at time.Time) {
	s.once.Do(func() {
		close(s.entered)
		<-s.release
	})
	s.Sessions.MonitoringStarted(at)
}

func TestStopDuringSlowStartClosesSession(t *testing.T) {
	journal := &fakeJournal{}
	sessions := NewSessions(context.Background(), journal, nil, nil)
	obs := &slowStart{Sessions: sessions, entered: make(chan struct{}), release: make(chan struct{})}
	sched := scheduler.NewManual(time.Date(2024, 5, 20, 9, 0, 0, 0, time.UTC))
	ctrl := controller.New(display.NewBoard(), sched, sched, lastRandom{}, controller.WithObserver(obs))

	started := make(chan struct{})
	go func() {
		ctrl.Start()
		close(started)
	}()
	<-obs.entered

	stopped := make(chan struct{})
	go func() {
		ctrl.Stop()
		close(stopped)
	}()
	require.Eventually(t, func() bool { return !ctrl.State().IsMonitoring }, time.Second, time.Millisecond)

	close(obs.release)
	<-started
	<-stopped

	assert.Nil(t, sessions.Current())
	require.NotNil(t, sessions.Last())
	journal.mu.Lock()
	defer journal.mu.Unlock()
	assert.Len(t, journal.created, 1)
	assert.Len(t, journal.closed, 1)
}
