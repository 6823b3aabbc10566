package service

import (
	"context"
	"sync"
	"time"

	"todohub/internal/models"
	"todohub/internal/repository"
)

// Hand-rolled repository mocks. Each method delegates to an Fn field when
// set and falls back to a zero-value response otherwise.

type mockUsers struct {
	CreateFn     func(ctx context.Context, username, email, passwordHash string, createdAt time.Time) (int, error)
	GetByEmailFn func(ctx context.Context, email string) (*models.User, error)
	GetByIDFn    func(ctx context.Context, id int) (*models.User, error)

	CreatedHashes []string
}

var _ repository.Users = (*mockUsers)(nil)

func (m *mockUsers) Create(ctx context.Context, username, email, passwordHash string, createdAt time.Time) (int, error) {
	m.CreatedHashes = append(m.CreatedHashes, passwordHash)
	if m.CreateFn != nil {
		return m.CreateFn(ctx, username, email, passwordHash, createdAt)
	}
	return 1, nil
}

func (m *mockUsers) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.GetByEmailFn != nil {
		return m.GetByEmailFn(ctx, email)
	}
	return nil, nil
}

func (m *mockUsers) GetByID(ctx context.Context, id int) (*models.User, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, nil
}

type mockTodos struct {
	CreateFn       func(ctx context.Context, t models.Todo) (int, error)
	ListByOwnerFn  func(ctx context.Context, ownerID int, completed *bool, priority, search string) ([]models.Todo, error)
	GetByIDFn      func(ctx context.Context, ownerID, id int) (*models.Todo, error)
	MutateFn       func(ctx context.Context, ownerID, id int, fn func(*models.Todo) error) (*models.Todo, error)
	DeleteFn       func(ctx context.Context, ownerID, id int) (bool, error)
	StatsFn        func(ctx context.Context, ownerID int) (models.TodoStats, error)
	DueSoonFn      func(ctx context.Context, until time.Time) ([]models.Todo, error)
	MarkRemindedFn func(ctx context.Context, id int) error

	Updated  []models.Todo
	Reminded []int
}

var _ repository.Todos = (*mockTodos)(nil)

func (m *mockTodos) Create(ctx context.Context, t models.Todo) (int, error) {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, t)
	}
	return 1, nil
}

func (m *mockTodos) ListByOwner(ctx context.Context, ownerID int, completed *bool, priority, search string) ([]models.Todo, error) {
	if m.ListByOwnerFn != nil {
		return m.ListByOwnerFn(ctx, ownerID, completed, priority, search)
	}
	return nil, nil
}

func (m *mockTodos) GetByID(ctx context.Context, ownerID, id int) (*models.Todo, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, ownerID, id)
	}
	return nil, nil
}

// Mutate falls back to GetByID + fn, recording the stored result.
func (m *mockTodos) Mutate(ctx context.Context, ownerID, id int, fn func(*models.Todo) error) (*models.Todo, error) {
	if m.MutateFn != nil {
		return m.MutateFn(ctx, ownerID, id, fn)
	}
	t, err := m.GetByID(ctx, ownerID, id)
	if err != nil || t == nil {
		return t, err
	}
	cp := *t
	if err := fn(&cp); err != nil {
		return nil, err
	}
	m.Updated = append(m.Updated, cp)
	return &cp, nil
}

func (m *mockTodos) Delete(ctx context.Context, ownerID, id int) (bool, error) {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, ownerID, id)
	}
	return true, nil
}

func (m *mockTodos) Stats(ctx context.Context, ownerID int) (models.TodoStats, error) {
	if m.StatsFn != nil {
		return m.StatsFn(ctx, ownerID)
	}
	return models.TodoStats{}, nil
}

func (m *mockTodos) DueSoon(ctx context.Context, until time.Time) ([]models.Todo, error) {
	if m.DueSoonFn != nil {
		return m.DueSoonFn(ctx, until)
	}
	return nil, nil
}

func (m *mockTodos) MarkReminded(ctx context.Context, id int) error {
	m.Reminded = append(m.Reminded, id)
	if m.MarkRemindedFn != nil {
		return m.MarkRemindedFn(ctx, id)
	}
	return nil
}

type mockActivity struct {
	mu sync.Mutex

	AppendFn    func(ctx context.Context, e models.ActivityEvent) error
	ListFn      func(ctx context.Context, ownerID int, from, to time.Time, typ string) ([]models.ActivityEvent, error)
	ListAfterFn func(ctx context.Context, ownerID int, afterSeq int64) ([]models.ActivityEvent, error)
	LatestSeqFn func(ctx context.Context, ownerID int) (int64, error)

	Appended []models.ActivityEvent
}

var _ repository.Activity = (*mockActivity)(nil)

func (m *mockActivity) Append(ctx context.Context, e models.ActivityEvent) error {
	m.mu.Lock()
	m.Appended = append(m.Appended, e)
	m.mu.Unlock()
	if m.AppendFn != nil {
		return m.AppendFn(ctx, e)
	}
	return nil
}

func (m *mockActivity) AppendedEvents() []models.ActivityEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.ActivityEvent, len(m.Appended))
	copy(out, m.Appended)
	return out
}

func (m *mockActivity) List(ctx context.Context, ownerID int, from, to time.Time, typ string) ([]models.ActivityEvent, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, ownerID, from, to, typ)
	}
	return nil, nil
}

func (m *mockActivity) ListAfter(ctx context.Context, ownerID int, afterSeq int64) ([]models.ActivityEvent, error) {
	if m.ListAfterFn != nil {
		return m.ListAfterFn(ctx, ownerID, afterSeq)
	}
	return nil, nil
}

func (m *mockActivity) LatestSeq(ctx context.Context, ownerID int) (int64, error) {
	if m.LatestSeqFn != nil {
		return m.LatestSeqFn(ctx, ownerID)
	}
	return 0, nil
}
