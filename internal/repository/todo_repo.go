package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"todohub/internal/models"
)

type TodoRepository struct {
	db *sql.DB
}

func NewTodoRepository(db *sql.DB) *TodoRepository {
	return &TodoRepository{db: db}
}

var _ Todos = (*TodoRepository)(nil)

const (
	insertTodoSQL = `INSERT INTO todos (owner_id, title, description, completed, priority, due_date, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	todoColumns = `id, owner_id, title, description, completed, priority, due_date, reminded, created_at, updated_at`

	// Ownership is part of the WHERE clause on every lookup, so a foreign
	// todo and a missing one are indistinguishable to callers.
	selectTodoByIDSQL = `SELECT ` + todoColumns + ` FROM todos WHERE owner_id = ? AND id = ?`

	selectTodosByOwnerSQL = `SELECT ` + todoColumns + ` FROM todos WHERE owner_id = ?`

	updateTodoSQL = `UPDATE todos SET title = ?, description = ?, completed = ?, priority = ?, due_date = ?, reminded = ?, updated_at = ?
		WHERE owner_id = ? AND id = ?`

	deleteTodoSQL = `DELETE FROM todos WHERE owner_id = ? AND id = ?`

	selectTodoStatsSQL = `SELECT completed, priority, COUNT(*) FROM todos WHERE owner_id = ? GROUP BY completed, priority`

	selectDueSoonSQL = `SELECT ` + todoColumns + ` FROM todos
		WHERE due_date IS NOT NULL AND due_date <= ? AND completed = 0 AND reminded = 0 ORDER BY id ASC`

	markRemindedSQL = `UPDATE todos SET reminded = 1 WHERE id = ?`
)

// Create inserts a new todo and returns its store-assigned ID.
func (r *TodoRepository) Create(ctx context.Context, t models.Todo) (int, error) {
	res, err := r.db.ExecContext(ctx, insertTodoSQL,
		t.OwnerID,
		t.Title,
		t.Description,
		t.Completed,
		t.Priority,
		nullableTime(t.DueDate),
		t.CreatedAt.UTC(),
		t.UpdatedAt.UTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("insert todo for owner %d: %w", t.OwnerID, err)
	}
	lastID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("get last insert id for todo: %w", err)
	}
	return int(lastID), nil
}

// ListByOwner returns the owner's todos in creation order, narrowed by the
// optional filters. Filters compose with AND; absent filters impose nothing.
func (r *TodoRepository) ListByOwner(ctx context.Context, ownerID int, completed *bool, priority, search string) ([]models.Todo, error) {
	q := selectTodosByOwnerSQL
	args := []any{ownerID}

	if completed != nil {
		q += " AND completed = ?"
		args = append(args, *completed)
	}
	if priority != "" {
		q += " AND priority = ?"
		args = append(args, priority)
	}
	q += " ORDER BY id ASC"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list todos for owner %d: %w", ownerID, err)
	}
	defer rows.Close()

	// SQLite's lower() folds ASCII only, so the case-insensitive title match
	// happens here where Unicode folding works.
	needle := strings.ToLower(search)

	out := make([]models.Todo, 0, 16)
	for rows.Next() {
		t, err := scanTodo(rows)
		if err != nil {
			return nil, err
		}
		if needle != "" && !strings.Contains(strings.ToLower(t.Title), needle) {
			continue
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID fetches one of the owner's todos. Returns (nil, nil) when the id
// does not exist or belongs to someone else.
func (r *TodoRepository) GetByID(ctx context.Context, ownerID, id int) (*models.Todo, error) {
	row := r.db.QueryRowContext(ctx, selectTodoByIDSQL, ownerID, id)
	t, err := scanTodo(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select todo %d: %w", id, err)
	}
	return &t, nil
}

// Mutate loads an owned todo, applies fn to it and stores the result, all
// inside one transaction. The transaction pins the store's single connection
// for the whole load-apply-store sequence, so concurrent mutations of the
// same todo serialize instead of clobbering each other's reads. Returns
// (nil, nil) when the id does not exist or belongs to someone else.
func (r *TodoRepository) Mutate(ctx context.Context, ownerID, id int, fn func(*models.Todo) error) (*models.Todo, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin mutation of todo %d: %w", id, err)
	}
	defer func() { _ = tx.Rollback() }()

	row := tx.QueryRowContext(ctx, selectTodoByIDSQL, ownerID, id)
	t, err := scanTodo(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select todo %d: %w", id, err)
	}

	if err := fn(&t); err != nil {
		return nil, err
	}

	_, err = tx.ExecContext(ctx, updateTodoSQL,
		t.Title,
		t.Description,
		t.Completed,
		t.Priority,
		nullableTime(t.DueDate),
		t.Reminded,
		t.UpdatedAt.UTC(),
		t.OwnerID,
		t.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("update todo %d: %w", id, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit mutation of todo %d: %w", id, err)
	}
	return &t, nil
}

// Delete removes an owned todo and reports whether a row was removed.
// The freed id is never reassigned (AUTOINCREMENT).
func (r *TodoRepository) Delete(ctx context.Context, ownerID, id int) (bool, error) {
	res, err := r.db.ExecContext(ctx, deleteTodoSQL, ownerID, id)
	if err != nil {
		return false, fmt.Errorf("delete todo %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected for todo %d: %w", id, err)
	}
	return n > 0, nil
}

// Stats aggregates the owner's todo counters in one grouped query.
func (r *TodoRepository) Stats(ctx context.Context, ownerID int) (models.TodoStats, error) {
	rows, err := r.db.QueryContext(ctx, selectTodoStatsSQL, ownerID)
	if err != nil {
		return models.TodoStats{}, fmt.Errorf("stats for owner %d: %w", ownerID, err)
	}
	defer rows.Close()

	stats := models.TodoStats{ByPriority: map[string]int{}}
	for rows.Next() {
		var (
			completed bool
			priority  string
			count     int
		)
		if err := rows.Scan(&completed, &priority, &count); err != nil {
			return models.TodoStats{}, err
		}
		stats.Total += count
		if completed {
			stats.Completed += count
		} else {
			stats.Pending += count
		}
		stats.ByPriority[priority] += count
	}
	if err := rows.Err(); err != nil {
		return models.TodoStats{}, err
	}
	return stats, nil
}

// DueSoon returns unfinished todos whose due date falls at or before until
// and that have not had a reminder emitted yet.
func (r *TodoRepository) DueSoon(ctx context.Context, until time.Time) ([]models.Todo, error) {
	rows, err := r.db.QueryContext(ctx, selectDueSoonSQL, until.UTC())
	if err != nil {
		return nil, fmt.Errorf("list due todos: %w", err)
	}
	defer rows.Close()

	var out []models.Todo
	for rows.Next() {
		t, err := scanTodo(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// MarkReminded flags a todo so the sweeper emits at most one reminder for it.
func (r *TodoRepository) MarkReminded(ctx context.Context, id int) error {
	if _, err := r.db.ExecContext(ctx, markRemindedSQL, id); err != nil {
		return fmt.Errorf("mark todo %d reminded: %w", id, err)
	}
	return nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanTodo(s scanner) (models.Todo, error) {
	var (
		t   models.Todo
		due sql.NullTime
	)
	if err := s.Scan(
		&t.ID,
		&t.OwnerID,
		&t.Title,
		&t.Description,
		&t.Completed,
		&t.Priority,
		&due,
		&t.Reminded,
		&t.CreatedAt,
		&t.UpdatedAt,
	); err != nil {
		return models.Todo{}, err
	}
	if due.Valid {
		d := due.Time.UTC()
		t.DueDate = &d
	}
	t.CreatedAt = t.CreatedAt.UTC()
	t.UpdatedAt = t.UpdatedAt.UTC()
	return t, nil
}

func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC()
}
