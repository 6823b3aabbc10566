package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"todohub/internal/models"
	"todohub/internal/repository/db"
)

// ErrDuplicateEmail is returned by Users.Create when the email column's
// UNIQUE constraint rejects the insert.
var ErrDuplicateEmail = errors.New("duplicate email")

type Users interface {
	Create(ctx context.Context, username, email, passwordHash string, createdAt time.Time) (int, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id int) (*models.User, error)
}

type Todos interface {
	Create(ctx context.Context, t models.Todo) (int, error)
	ListByOwner(ctx context.Context, ownerID int, completed *bool, priority, search string) ([]models.Todo, error)
	GetByID(ctx context.Context, ownerID, id int) (*models.Todo, error)
	Mutate(ctx context.Context, ownerID, id int, fn func(*models.Todo) error) (*models.Todo, error)
	Delete(ctx context.Context, ownerID, id int) (bool, error)
	Stats(ctx context.Context, ownerID int) (models.TodoStats, error)
	DueSoon(ctx context.Context, until time.Time) ([]models.Todo, error)
	MarkReminded(ctx context.Context, id int) error
}

type Activity interface {
	Append(ctx context.Context, e models.ActivityEvent) error
	List(ctx context.Context, ownerID int, from, to time.Time, typ string) ([]models.ActivityEvent, error)
	ListAfter(ctx context.Context, ownerID int, afterSeq int64) ([]models.ActivityEvent, error)
	LatestSeq(ctx context.Context, ownerID int) (int64, error)
}

type Repository struct {
	Users    Users
	Todos    Todos
	Activity Activity
}

func NewRepository(sqlDB *sql.DB) *Repository {
	return &Repository{
		Users:    NewUserRepository(sqlDB),
		Todos:    NewTodoRepository(sqlDB),
		Activity: NewActivityRepository(sqlDB),
	}
}

// InitDB opens the backing SQLite store (in-memory by default).
func InitDB(dsn string) (*sql.DB, error) {
	if dsn == "" {
		dsn = db.DefaultDSN
	}
	return db.InitDB(dsn)
}
