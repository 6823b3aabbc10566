package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"todohub/internal/models"

	"github.com/google/uuid"
)

type ActivityRepository struct {
	db *sql.DB
}

func NewActivityRepository(db *sql.DB) *ActivityRepository { return &ActivityRepository{db: db} }

var _ Activity = (*ActivityRepository)(nil)

const (
	insertActivitySQL = `INSERT INTO activity_events (id, owner_id, occurred_at, type, message, meta)
		VALUES (?, ?, ?, ?, ?, ?)`

	activityColumns = `seq, id, owner_id, occurred_at, type, message, meta`

	selectActivitySQL = `SELECT ` + activityColumns + ` FROM activity_events WHERE owner_id = ?`

	selectActivityAfterSQL = `SELECT ` + activityColumns + ` FROM activity_events
		WHERE owner_id = ? AND seq > ? ORDER BY seq ASC`

	selectLatestSeqSQL = `SELECT COALESCE(MAX(seq), 0) FROM activity_events WHERE owner_id = ?`
)

// Append inserts a new event. If EventID or OccurredAt are empty, they're set.
func (r *ActivityRepository) Append(ctx context.Context, e models.ActivityEvent) error {
	if e.EventID == "" {
		e.EventID = uuid.NewString()
	}
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now().UTC()
	} else {
		e.OccurredAt = e.OccurredAt.UTC()
	}

	// marshal metadata if present
	var metaPtr *string
	if e.Metadata != nil {
		if b, err := json.Marshal(e.Metadata); err == nil {
			s := string(b)
			metaPtr = &s
		}
	}

	_, err := r.db.ExecContext(ctx, insertActivitySQL,
		e.EventID,
		e.OwnerID,
		e.OccurredAt,
		strings.ToUpper(strings.TrimSpace(e.Type)),
		e.Message,
		metaPtr,
	)
	return err
}

// List returns the owner's events filtered by [from, to] (inclusive) and/or
// type, ordered ascending by insertion.
func (r *ActivityRepository) List(ctx context.Context, ownerID int, from, to time.Time, typ string) ([]models.ActivityEvent, error) {
	q := selectActivitySQL
	args := []any{ownerID}

	if !from.IsZero() {
		q += " AND occurred_at >= ?"
		args = append(args, from.UTC())
	}
	if !to.IsZero() {
		q += " AND occurred_at <= ?"
		args = append(args, to.UTC())
	}
	if typ = strings.ToUpper(strings.TrimSpace(typ)); typ != "" {
		q += " AND type = ?"
		args = append(args, typ)
	}
	q += " ORDER BY seq ASC"

	return r.query(ctx, q, args...)
}

// ListAfter returns the owner's events with seq strictly greater than
// afterSeq, in seq order. Used as the streaming cursor.
func (r *ActivityRepository) ListAfter(ctx context.Context, ownerID int, afterSeq int64) ([]models.ActivityEvent, error) {
	return r.query(ctx, selectActivityAfterSQL, ownerID, afterSeq)
}

// LatestSeq returns the highest seq recorded for the owner, 0 when none.
func (r *ActivityRepository) LatestSeq(ctx context.Context, ownerID int) (int64, error) {
	var seq int64
	err := r.db.QueryRowContext(ctx, selectLatestSeqSQL, ownerID).Scan(&seq)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("latest activity seq for owner %d: %w", ownerID, err)
	}
	return seq, nil
}

func (r *ActivityRepository) query(ctx context.Context, q string, args ...any) ([]models.ActivityEvent, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.ActivityEvent, 0, 64)
	for rows.Next() {
		var ev models.ActivityEvent
		var metaStr sql.NullString
		if err := rows.Scan(&ev.Seq, &ev.EventID, &ev.OwnerID, &ev.OccurredAt, &ev.Type, &ev.Message, &metaStr); err != nil {
			return nil, err
		}
		ev.OccurredAt = ev.OccurredAt.UTC()

		if metaStr.Valid && metaStr.String != "" {
			var v any
			if err := json.Unmarshal([]byte(metaStr.String), &v); err == nil {
				ev.Metadata = v
			} else {
				ev.Metadata = metaStr.String // keep raw if malformed
			}
		}
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
