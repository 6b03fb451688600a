package calendar

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

type Repository interface {
	WithTransaction(ctx context.Context, fn func(repo Repository) error) error
	StoreEvent(ctx context.Context, event Event) (uuid.UUID, error)
	// GetEvents returns events overlapping [from, to). A non-empty attendees list
	// keeps only events shared with at least one of them.
	GetEvents(ctx context.Context, from, to time.Time, attendees []string) ([]Event, error)
	DeleteEvent(ctx context.Context, eventUid uuid.UUID) error
}

type queryer interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

type RepositoryImpl struct {
	db *pgxpool.Pool
	tx pgx.Tx
}

func NewRepository(db *pgxpool.Pool) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

// getQueryer returns the transaction when one is open, the pool otherwise
func (r *RepositoryImpl) getQueryer() queryer {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

func (r *RepositoryImpl) WithTransaction(ctx context.Context, fn func(repo Repository) error) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		// no-op once the transaction is committed
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			log.Errorf("rollback error: %v", rbErr)
		}
	}()

	if err := fn(&RepositoryImpl{db: r.db, tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func (r *RepositoryImpl) StoreEvent(ctx context.Context, event Event) (uuid.UUID, error) {
	query := `INSERT INTO calendar_event (uid, summary, start_time, end_time, attendees)
              VALUES ($1, $2, $3, $4, $5)
              ON CONFLICT (uid) DO UPDATE
                  SET summary    = EXCLUDED.summary,
                      start_time = EXCLUDED.start_time,
                      end_time   = EXCLUDED.end_time,
                      attendees  = EXCLUDED.attendees`

	uid := event.UID
	if uid == uuid.Nil {
		uid = uuid.New()
	}
	attendees := event.Attendees
	if attendees == nil {
		attendees = []string{}
	}

	_, err := r.getQueryer().Exec(ctx, query, uid, event.Summary, event.StartTime, event.EndTime, attendees)
	if err != nil {
		err := fmt.Errorf("could not store calendar event: %w", err)
		log.Error(err)
		return uuid.Nil, err
	}
	return uid, nil
}

func (r *RepositoryImpl) GetEvents(ctx context.Context, from, to time.Time, attendees []string) ([]Event, error) {
	query := `SELECT uid, summary, start_time, end_time, attendees
              FROM calendar_event
              WHERE start_time < $1
                AND end_time > $2
                AND ($3::text[] IS NULL OR attendees && $3::text[])
              ORDER BY start_time, end_time`

	var attendeeFilter []string
	if len(attendees) > 0 {
		attendeeFilter = attendees
	}

	rows, err := r.getQueryer().Query(ctx, query, to, from, attendeeFilter)
	if err != nil {
		err := fmt.Errorf("could not query calendar events: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	events := make([]Event, 0, 10)
	for rows.Next() {
		var event Event
		err := rows.Scan(&event.UID, &event.Summary, &event.StartTime, &event.EndTime, &event.Attendees)
		if err != nil {
			err := fmt.Errorf("could not scan row: %w", err)
			log.Error(err)
			return nil, err
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		err := fmt.Errorf("could not read calendar events: %w", err)
		log.Error(err)
		return nil, err
	}
	return events, nil
}

func (r *RepositoryImpl) DeleteEvent(ctx context.Context, eventUid uuid.UUID) error {
	tag, err := r.getQueryer().Exec(ctx, `DELETE FROM calendar_event WHERE uid = $1`, eventUid)
	if err != nil {
		err := fmt.Errorf("could not delete calendar event: %w", err)
		log.Error(err)
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrEventNotFound
	}
	return nil
}
