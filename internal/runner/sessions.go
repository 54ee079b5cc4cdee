package runner

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Capitan-Parrot/proctoring-demo/internal/controller"
	"github.com/Capitan-Parrot/proctoring-demo/internal/models"
	"github.com/Capitan-Parrot/proctoring-demo/internal/s3"
)

const (
	writeTimeout = 5 * time.Second
	// maxEvents bounds the in-memory journal kept for the session report
	maxEvents = 1000
)

type Journal interface {
	CreateSession(ctx context.Context, s *models.Session) error
	AddScenarioEvent(ctx context.Context, e models.ScenarioEvent) error
	CloseSession(ctx context.Context, s *models.Session) error
}

type ReportStore interface {
	SaveSessionReport(ctx context.Context, report s3.Report) error
}

type Recorder interface {
	SessionStarted()
	SessionStopped(seconds float64)
	ScenarioApplied(id models.ScenarioID, alert bool)
	ScenarioRejected(reason string)
}

// Sessions does the bookkeeping around controller sessions: journal rows,
// metrics and the report uploaded on stop. Journal, reports and recorder
// are optional.
type Sessions struct {
	ctx      context.Context
	journal  Journal
	reports  ReportStore
	recorder Recorder
	newID    func() string

	mu      sync.Mutex
	current *models.Session
	events  []models.ScenarioEvent
	last    *models.Session
}

func NewSessions(ctx context.Context, journal Journal, reports ReportStore, recorder Recorder) *Sessions {
	return &Sessions{
		ctx:      ctx,
		journal:  journal,
		reports:  reports,
		recorder: recorder,
		newID:    uuid.NewString,
	}
}

var _ controller.Observer = (*Sessions)(nil)

func (s *Sessions) MonitoringStarted(at time.Time) {
	session := &models.Session{
		ID:           s.newID(),
		StartedAt:    at.UTC(),
		LastScenario: models.ScenarioNormal,
	}

	s.mu.Lock()
	s.current = session
	s.events = nil
	snapshot := *session
	s.mu.Unlock()

	log.Printf("Sessions: session %s started", snapshot.ID)
	if s.recorder != nil {
		s.recorder.SessionStarted()
	}
	if s.journal != nil {
		ctx, cancel := context.WithTimeout(s.ctx, writeTimeout)
		defer cancel()
		if err := s.journal.CreateSession(ctx, &snapshot); err != nil {
			log.Printf("Sessions: session %s journal error: %v", snapshot.ID, err)
		}
	}
}

func (s *Sessions) MonitoringStopped(at time.Time, elapsed time.Duration) {
	s.mu.Lock()
	session := s.current
	if session == nil {
		s.mu.Unlock()
		return
	}
	stoppedAt := at.UTC()
	session.StoppedAt = &stoppedAt
	session.ElapsedSeconds = int64(elapsed / time.Second)
	report := s3.Report{Session: *session, Events: append([]models.ScenarioEvent(nil), s.events...)}
	s.last = session
	s.current = nil
	s.events = nil
	s.mu.Unlock()

	log.Printf("Sessions: session %s stopped after %ds", session.ID, session.ElapsedSeconds)
	if s.recorder != nil {
		s.recorder.SessionStopped(elapsed.Seconds())
	}

	ctx, cancel := context.WithTimeout(s.ctx, writeTimeout)
	defer cancel()
	if s.journal != nil {
		if err := s.journal.CloseSession(ctx, &report.Session); err != nil {
			log.Printf("Sessions: session %s journal error: %v", session.ID, err)
		}
	}
	if s.reports != nil {
		if err := s.reports.SaveSessionReport(ctx, report); err != nil {
			log.Printf("Sessions: session %s report error: %v", session.ID, err)
		}
	}
}

func (s *Sessions) ScenarioApplied(id models.ScenarioID, fixture models.Fixture, alertMessage string) {
	if s.recorder != nil {
		s.recorder.ScenarioApplied(id, fixture.Alert)
	}

	s.mu.Lock()
	session := s.current
	if session == nil {
		// normal may be rendered while stopped
		s.mu.Unlock()
		return
	}
	event := models.ScenarioEvent{
		SessionID:    session.ID,
		Scenario:     id,
		Alert:        fixture.Alert,
		AlertMessage: alertMessage,
		CreatedAt:    time.Now().UTC(),
	}
	session.Applications++
	if fixture.Alert {
		session.AlertsRaised++
	}
	session.LastScenario = id
	if len(s.events) < maxEvents {
		s.events = append(s.events, event)
	}
	s.mu.Unlock()

	if s.journal != nil {
		ctx, cancel := context.WithTimeout(s.ctx, writeTimeout)
		defer cancel()
		if err := s.journal.AddScenarioEvent(ctx, event); err != nil {
			log.Printf("Sessions: session %s journal error: %v", event.SessionID, err)
		}
	}
}

func (s *Sessions) ScenarioRejected(id models.ScenarioID, err error) {
	reason := "unknown_scenario"
	if errors.Is(err, controller.ErrPreconditionNotMet) {
		reason = "not_monitoring"
	}
	log.Printf("Sessions: scenario %q rejected: %v", id, err)
	if s.recorder != nil {
		s.recorder.ScenarioRejected(reason)
	}
}

// Current returns a copy of the running session, or nil.
func (s *Sessions) Current() *models.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return nil
	}
	cp := *s.current
	return &cp
}

// Last returns a copy of the most recently finished session, or nil.
func (s *Sessions) Last() *models.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last == nil {
		return nil
	}
	cp := *s.last
	return &cp
}
