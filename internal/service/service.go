package service

import (
	"context"
	"time"

	"todohub/internal/logger"
	"todohub/internal/models"
	"todohub/internal/repository"
)

// Identity is the {id, username} pair resolved from a verified token. Every
// todo operation is scoped to it.
type Identity struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// AuthResult pairs the created/authenticated user with a fresh token.
type AuthResult struct {
	User  models.User
	Token string
}

type CreateTodoInput struct {
	Title       string
	Description string
	Priority    string // empty means medium
	DueDate     *time.Time
}

// UpdateTodoInput carries one pointer per mutable field so an explicitly
// provided zero value (e.g. completed=false) is distinguishable from an
// omitted field.
type UpdateTodoInput struct {
	Title       *string
	Description *string
	Completed   *bool
	Priority    *string
	DueDate     *time.Time
}

// TodoFilter narrows list results; nil/empty fields impose no constraint.
type TodoFilter struct {
	Completed *bool
	Priority  string
	Search    string // case-insensitive substring on title
}

// ActivityFilter supports history filtering by time range and type.
type ActivityFilter struct {
	From time.Time // inclusive; zero means no lower bound
	To   time.Time // inclusive; zero means no upper bound
	Type string
}

type Authorization interface {
	Register(ctx context.Context, in RegisterInput) (AuthResult, error)
	Login(ctx context.Context, email, password string) (AuthResult, error)
	ParseToken(accessToken string) (Identity, error)
	GetProfile(ctx context.Context, userID int) (models.User, error)
}

type Todos interface {
	Create(ctx context.Context, ownerID int, in CreateTodoInput) (models.Todo, error)
	List(ctx context.Context, ownerID int, f TodoFilter) ([]models.Todo, error)
	Get(ctx context.Context, ownerID, id int) (models.Todo, error)
	Update(ctx context.Context, ownerID, id int, in UpdateTodoInput) (models.Todo, error)
	Toggle(ctx context.Context, ownerID, id int) (models.Todo, error)
	Delete(ctx context.Context, ownerID, id int) (models.Todo, error)
}

type Activity interface {
	List(ctx context.Context, ownerID int, f ActivityFilter) ([]models.ActivityEvent, error)
	ListAfter(ctx context.Context, ownerID int, afterSeq int64) ([]models.ActivityEvent, error)
	LatestSeq(ctx context.Context, ownerID int) (int64, error)
}

type Stats interface {
	TodoStats(ctx context.Context, ownerID int) (models.TodoStats, error)
}

// Reminder runs the background loop that emits due-soon activity events.
// Stop via context cancellation in main() for graceful shutdown.
type Reminder interface {
	Run(ctx context.Context, tick time.Duration)
}

//
// Root Service aggregates all sub-services.
//

type Service struct {
	Authorization
	Todos
	Activity
	Stats
	Reminder
}

// Config carries the injected knobs the services need beyond their repos.
type Config struct {
	SigningKey     string        // JWT HMAC secret, process-wide
	TokenTTL       time.Duration // 0 means 24h
	BcryptCost     int           // 0 means bcrypt default (10)
	ReminderWindow time.Duration // 0 means 24h
}

// NewService wires the repository layer into concrete services.
func NewService(repos *repository.Repository, cfg Config, log *logger.Logger) *Service {
	return &Service{
		Authorization: NewAuthService(repos.Users, repos.Activity, cfg, log),
		Todos:         NewTodoService(repos.Todos, repos.Activity, log),
		Activity:      NewActivityService(repos.Activity),
		Stats:         NewStatsService(repos.Todos),
		Reminder:      NewReminderService(repos.Todos, repos.Activity, cfg.ReminderWindow, log),
	}
}
