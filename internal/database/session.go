package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Capitan-Parrot/proctoring-demo/internal/models"
)

var ErrNotFound = errors.New("session not found")

// CreateSession записывает новую сессию
func (d *Database) CreateSession(ctx context.Context, s *models.Session) error {
	_, err := d.querier(ctx).ExecContext(ctx,
		`INSERT INTO sessions (id, started_at, last_scenario) VALUES ($1, $2, $3)`,
		s.ID,
		s.StartedAt,
		s.LastScenario,
	)
	if err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}
	return nil
}

// AddScenarioEvent добавляет событие и обновляет счётчики сессии в одной транзакции
func (d *Database) AddScenarioEvent(ctx context.Context, e models.ScenarioEvent) error {
	return d.InTx(ctx, func(ctx context.Context) error {
		q := d.querier(ctx)

		if _, err := q.ExecContext(ctx,
			`INSERT INTO scenario_events (session_id, scenario, alert, alert_message, created_at)
				VALUES ($1, $2, $3, $4, $5)`,
			e.SessionID,
			e.Scenario,
			e.Alert,
			e.AlertMessage,
			e.CreatedAt,
		); err != nil {
			return fmt.Errorf("failed to insert scenario event: %w", err)
		}

		alerts := 0
		if e.Alert {
			alerts = 1
		}
		if _, err := q.ExecContext(ctx,
			`UPDATE sessions SET applications = applications + 1, alerts_raised = alerts_raised + $1,
				last_scenario = $2 WHERE id = $3`,
			alerts,
			e.Scenario,
			e.SessionID,
		); err != nil {
			return fmt.Errorf("failed to update session counters: %w", err)
		}
		return nil
	})
}

// CloseSession фиксирует время остановки и длительность сессии
func (d *Database) CloseSession(ctx context.Context, s *models.Session) error {
	_, err := d.querier(ctx).ExecContext(ctx,
		"UPDATE sessions SET stopped_at = $1, elapsed_seconds = $2 WHERE id = $3",
		s.StoppedAt,
		s.ElapsedSeconds,
		s.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to close session: %w", err)
	}
	return nil
}

// GetSession читает сессию из журнала; для неизвестного id возвращает ErrNotFound
func (d *Database) GetSession(ctx context.Context, id string) (*models.Session, error) {
	row := d.querier(ctx).QueryRowContext(ctx, `
		SELECT id, started_at, stopped_at, applications, alerts_raised, last_scenario, elapsed_seconds
		FROM sessions
		WHERE id = $1
	`, id)

	var s models.Session
	var stoppedAt sql.NullTime
	err := row.Scan(
		&s.ID,
		&s.StartedAt,
		&stoppedAt,
		&s.Applications,
		&s.AlertsRaised,
		&s.LastScenario,
		&s.ElapsedSeconds,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if stoppedAt.Valid {
		s.StoppedAt = &stoppedAt.Time
	}
	return &s, nil
}

// ListEvents возвращает события сессии в порядке записи
func (d *Database) ListEvents(ctx context.Context, sessionID string) ([]models.ScenarioEvent, error) {
	rows, err := d.querier(ctx).QueryContext(ctx, `
		SELECT session_id, scenario, alert, alert_message, created_at
		FROM scenario_events
		WHERE session_id = $1
		ORDER BY id
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list scenario events: %w", err)
	}
	defer rows.Close()

	var events []models.ScenarioEvent
	for rows.Next() {
		var e models.ScenarioEvent
		if err := rows.Scan(&e.SessionID, &e.Scenario, &e.Alert, &e.AlertMessage, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan scenario event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
