package eventlog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/obsarray/hookup/pkg/parts"
)

// PGLog stores the event history in PostgreSQL. The table is insert-only;
// sequence numbers come from a bigserial so append order survives restarts
// and concurrent writers.
type PGLog struct {
	pool *pgxpool.Pool
}

// NewPGLog connects to the database and runs the schema migration.
func NewPGLog(ctx context.Context, databaseURL string) (*PGLog, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnLifetime = 5 * time.Minute
	config.MaxConnIdleTime = 1 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database unreachable: %w", err)
	}

	l := &PGLog{pool: pool}
	if err := l.migrate(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}
	return l, nil
}

func (l *PGLog) migrate(ctx context.Context) error {
	_, err := l.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS connection_events (
			seq         BIGSERIAL PRIMARY KEY,
			event_id    UUID NOT NULL UNIQUE,
			source_id   TEXT NOT NULL,
			source_kind SMALLINT NOT NULL,
			source_pol  SMALLINT NOT NULL,
			source_time TIMESTAMPTZ NOT NULL,
			target_id   TEXT NOT NULL,
			target_kind SMALLINT NOT NULL,
			target_pol  SMALLINT NOT NULL,
			target_time TIMESTAMPTZ NOT NULL,
			status      SMALLINT NOT NULL,
			recorded_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);
		CREATE INDEX IF NOT EXISTS connection_events_pair_idx
			ON connection_events (source_id, target_id, seq DESC);
		CREATE INDEX IF NOT EXISTS connection_events_source_idx
			ON connection_events (source_id);
		CREATE INDEX IF NOT EXISTS connection_events_target_idx
			ON connection_events (target_id);
	`)
	return err
}

func (l *PGLog) Append(ctx context.Context, event *Event) error {
	if event.EventID == uuid.Nil {
		event.EventID = uuid.New()
	}
	if event.RecordedAt.IsZero() {
		event.RecordedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO connection_events
			(event_id, source_id, source_kind, source_pol, source_time,
			 target_id, target_kind, target_pol, target_time, status, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING seq
	`

	err := l.pool.QueryRow(ctx, query,
		event.EventID,
		event.SourceID,
		int16(event.SourceKind),
		int16(event.SourcePol),
		event.SourceTime,
		event.TargetID,
		int16(event.TargetKind),
		int16(event.TargetPol),
		event.TargetTime,
		int16(event.Status),
		event.RecordedAt,
	).Scan(&event.Seq)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrAppendFailed, err)
	}
	return nil
}

const eventColumns = `
	seq, event_id, source_id, source_kind, source_pol, source_time,
	target_id, target_kind, target_pol, target_time, status, recorded_at
`

func scanEvent(row pgx.Row) (*Event, error) {
	var e Event
	var sourceKind, sourcePol, targetKind, targetPol, status int16
	err := row.Scan(
		&e.Seq, &e.EventID, &e.SourceID, &sourceKind, &sourcePol, &e.SourceTime,
		&e.TargetID, &targetKind, &targetPol, &e.TargetTime, &status, &e.RecordedAt,
	)
	if err != nil {
		return nil, err
	}
	e.SourceKind = kindFromInt16(sourceKind)
	e.SourcePol = polFromInt16(sourcePol)
	e.TargetKind = kindFromInt16(targetKind)
	e.TargetPol = polFromInt16(targetPol)
	e.Status = Status(status)
	return &e, nil
}

func (l *PGLog) queryEvents(ctx context.Context, query string, args ...any) ([]Event, error) {
	rows, err := l.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

func (l *PGLog) EventsInvolving(ctx context.Context, partID string) ([]Event, error) {
	return l.queryEvents(ctx, `
		SELECT `+eventColumns+`
		FROM connection_events
		WHERE source_id = $1 OR target_id = $1
		ORDER BY seq
	`, partID)
}

func (l *PGLog) LatestEventForPair(ctx context.Context, sourceID, targetID string) (*Event, error) {
	row := l.pool.QueryRow(ctx, `
		SELECT `+eventColumns+`
		FROM connection_events
		WHERE source_id = $1 AND target_id = $2
		ORDER BY seq DESC
		LIMIT 1
	`, sourceID, targetID)

	event, err := scanEvent(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("latest event for pair: %w", err)
	}
	return event, nil
}

func (l *PGLog) Snapshot(ctx context.Context) ([]Event, error) {
	return l.queryEvents(ctx, `
		SELECT `+eventColumns+`
		FROM connection_events
		ORDER BY seq
	`)
}

func kindFromInt16(v int16) parts.Kind {
	return parts.Kind(v)
}

func polFromInt16(v int16) parts.Polarization {
	return parts.Polarization(v)
}

// Ping checks database connectivity.
func (l *PGLog) Ping(ctx context.Context) error {
	return l.pool.Ping(ctx)
}

func (l *PGLog) Close() error {
	l.pool.Close()
	return nil
}
