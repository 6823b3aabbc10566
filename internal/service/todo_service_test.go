package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"todohub/internal/models"
)

func TestTodoService_Create(t *testing.T) {
	todos := &mockTodos{
		CreateFn: func(_ context.Context, todo models.Todo) (int, error) {
			if todo.OwnerID != 5 {
				t.Fatalf("unexpected owner: %d", todo.OwnerID)
			}
			return 11, nil
		},
	}
	activity := &mockActivity{}
	s := NewTodoService(todos, activity, nil)

	todo, err := s.Create(context.Background(), 5, CreateTodoInput{Title: "buy milk"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if todo.ID != 11 {
		t.Fatalf("unexpected id: %d", todo.ID)
	}
	if todo.Priority != models.PriorityMedium {
		t.Fatalf("expected default priority medium, got %q", todo.Priority)
	}
	if todo.Completed {
		t.Fatalf("new todo must start incomplete")
	}
	if todo.CreatedAt.IsZero() || !todo.CreatedAt.Equal(todo.UpdatedAt) {
		t.Fatalf("unexpected timestamps: created=%v updated=%v", todo.CreatedAt, todo.UpdatedAt)
	}

	events := activity.AppendedEvents()
	if len(events) != 1 || events[0].Type != models.EventTodoCreated {
		t.Fatalf("unexpected activity events: %+v", events)
	}
}

func TestTodoService_CreateValidation(t *testing.T) {
	tests := []struct {
		name     string
		in       CreateTodoInput
		wantMsgs []string
	}{
		{
			name:     "blank title",
			in:       CreateTodoInput{Title: "   "},
			wantMsgs: []string{"title is required"},
		},
		{
			name:     "bad priority",
			in:       CreateTodoInput{Title: "x", Priority: "urgent"},
			wantMsgs: []string{"priority must be low, medium, or high"},
		},
		{
			name: "both rules aggregated",
			in:   CreateTodoInput{Priority: "urgent"},
			wantMsgs: []string{
				"title is required",
				"priority must be low, medium, or high",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			todos := &mockTodos{
				CreateFn: func(context.Context, models.Todo) (int, error) {
					t.Fatalf("store must not be touched on validation failure")
					return 0, nil
				},
			}
			s := NewTodoService(todos, &mockActivity{}, nil)

			_, err := s.Create(context.Background(), 5, tt.in)

			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if len(verr.Messages) != len(tt.wantMsgs) {
				t.Fatalf("unexpected messages: want %v, got %v", tt.wantMsgs, verr.Messages)
			}
			for i, msg := range tt.wantMsgs {
				if verr.Messages[i] != msg {
					t.Fatalf("message %d: want %q, got %q", i, msg, verr.Messages[i])
				}
			}
		})
	}
}

func TestTodoService_Get(t *testing.T) {
	todos := &mockTodos{
		GetByIDFn: func(_ context.Context, ownerID, id int) (*models.Todo, error) {
			if ownerID == 5 && id == 4 {
				return &models.Todo{ID: 4, OwnerID: 5, Title: "buy milk"}, nil
			}
			return nil, nil
		},
	}
	s := NewTodoService(todos, &mockActivity{}, nil)

	todo, err := s.Get(context.Background(), 5, 4)
	if err != nil || todo.ID != 4 {
		t.Fatalf("unexpected result: %+v, %v", todo, err)
	}

	// absent id and foreign owner produce the identical error
	if _, err := s.Get(context.Background(), 5, 99); !errors.Is(err, ErrTodoNotFound) {
		t.Fatalf("expected ErrTodoNotFound for absent id, got %v", err)
	}
	if _, err := s.Get(context.Background(), 6, 4); !errors.Is(err, ErrTodoNotFound) {
		t.Fatalf("expected ErrTodoNotFound for foreign owner, got %v", err)
	}
}

func TestTodoService_UpdatePartial(t *testing.T) {
	before := time.Date(2026, 8, 10, 9, 0, 0, 0, time.UTC)
	stored := models.Todo{
		ID: 4, OwnerID: 5, Title: "buy milk", Description: "two liters",
		Completed: true, Priority: models.PriorityHigh,
		CreatedAt: before, UpdatedAt: before,
	}

	todos := &mockTodos{
		GetByIDFn: func(context.Context, int, int) (*models.Todo, error) {
			cp := stored
			return &cp, nil
		},
	}
	s := NewTodoService(todos, &mockActivity{}, nil)

	// a provided false is an overwrite, not an omission
	completed := false
	todo, err := s.Update(context.Background(), 5, 4, UpdateTodoInput{Completed: &completed})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if todo.Completed {
		t.Fatalf("completed=false was not applied")
	}
	if todo.Title != "buy milk" || todo.Description != "two liters" || todo.Priority != models.PriorityHigh {
		t.Fatalf("omitted fields must stay untouched: %+v", todo)
	}
	if !todo.UpdatedAt.After(before) {
		t.Fatalf("updated_at must refresh: %v", todo.UpdatedAt)
	}
	if todo.CreatedAt != before {
		t.Fatalf("created_at must not change: %v", todo.CreatedAt)
	}
	if len(todos.Updated) != 1 || todos.Updated[0].Completed {
		t.Fatalf("unexpected persisted update: %+v", todos.Updated)
	}
}

func TestTodoService_UpdateValidation(t *testing.T) {
	s := NewTodoService(&mockTodos{}, &mockActivity{}, nil)

	bad := "urgent"
	_, err := s.Update(context.Background(), 5, 4, UpdateTodoInput{Priority: &bad})

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(verr.Messages) != 1 || verr.Messages[0] != "priority must be low, medium, or high" {
		t.Fatalf("unexpected messages: %v", verr.Messages)
	}
}

func TestTodoService_UpdateNotFound(t *testing.T) {
	s := NewTodoService(&mockTodos{}, &mockActivity{}, nil)

	title := "new title"
	if _, err := s.Update(context.Background(), 5, 99, UpdateTodoInput{Title: &title}); !errors.Is(err, ErrTodoNotFound) {
		t.Fatalf("expected ErrTodoNotFound, got %v", err)
	}
}

func TestTodoService_Toggle(t *testing.T) {
	before := time.Date(2026, 8, 10, 9, 0, 0, 0, time.UTC)
	current := models.Todo{
		ID: 4, OwnerID: 5, Title: "buy milk",
		CreatedAt: before, UpdatedAt: before,
	}

	todos := &mockTodos{
		MutateFn: func(_ context.Context, _, _ int, fn func(*models.Todo) error) (*models.Todo, error) {
			cp := current
			if err := fn(&cp); err != nil {
				return nil, err
			}
			current = cp
			return &cp, nil
		},
	}
	activity := &mockActivity{}
	s := NewTodoService(todos, activity, nil)

	first, err := s.Toggle(context.Background(), 5, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !first.Completed {
		t.Fatalf("first toggle must complete the todo")
	}
	if !first.UpdatedAt.After(before) {
		t.Fatalf("updated_at must refresh on toggle")
	}

	second, err := s.Toggle(context.Background(), 5, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second.Completed {
		t.Fatalf("two toggles must restore the original state")
	}

	events := activity.AppendedEvents()
	if len(events) != 2 || events[0].Type != models.EventTodoToggled || events[1].Type != models.EventTodoToggled {
		t.Fatalf("unexpected activity events: %+v", events)
	}
}

// Toggle hands the whole flip to the store as one mutation, so no
// interleaving of concurrent toggles can lose a flip.
func TestTodoService_ConcurrentTogglesSerialize(t *testing.T) {
	var mu sync.Mutex
	current := models.Todo{ID: 4, OwnerID: 5, Title: "buy milk"}

	todos := &mockTodos{
		MutateFn: func(_ context.Context, _, _ int, fn func(*models.Todo) error) (*models.Todo, error) {
			mu.Lock()
			defer mu.Unlock()
			cp := current
			if err := fn(&cp); err != nil {
				return nil, err
			}
			current = cp
			return &cp, nil
		},
	}
	s := NewTodoService(todos, &mockActivity{}, nil)

	const flips = 8 // even, so the original state must come back
	var wg sync.WaitGroup
	errs := make(chan error, flips)
	for i := 0; i < flips; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Toggle(context.Background(), 5, 4)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Fatalf("toggle failed: %v", err)
		}
	}
	if current.Completed {
		t.Fatalf("an even number of toggles must restore completed=false; a flip was lost")
	}
}

func TestTodoService_Delete(t *testing.T) {
	todos := &mockTodos{
		GetByIDFn: func(_ context.Context, ownerID, id int) (*models.Todo, error) {
			if ownerID == 5 && id == 4 {
				return &models.Todo{ID: 4, OwnerID: 5, Title: "buy milk"}, nil
			}
			return nil, nil
		},
	}
	activity := &mockActivity{}
	s := NewTodoService(todos, activity, nil)

	removed, err := s.Delete(context.Background(), 5, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if removed.ID != 4 || removed.Title != "buy milk" {
		t.Fatalf("delete must return the removed record: %+v", removed)
	}

	if _, err := s.Delete(context.Background(), 5, 99); !errors.Is(err, ErrTodoNotFound) {
		t.Fatalf("expected ErrTodoNotFound, got %v", err)
	}

	events := activity.AppendedEvents()
	if len(events) != 1 || events[0].Type != models.EventTodoDeleted {
		t.Fatalf("unexpected activity events: %+v", events)
	}
}

func TestTodoService_ListPassesFilter(t *testing.T) {
	completed := true
	var got struct {
		ownerID   int
		completed *bool
		priority  string
		search    string
	}
	todos := &mockTodos{
		ListByOwnerFn: func(_ context.Context, ownerID int, c *bool, priority, search string) ([]models.Todo, error) {
			got.ownerID, got.completed, got.priority, got.search = ownerID, c, priority, search
			return []models.Todo{{ID: 1}}, nil
		},
	}
	s := NewTodoService(todos, &mockActivity{}, nil)

	out, err := s.List(context.Background(), 5, TodoFilter{
		Completed: &completed, Priority: models.PriorityLow, Search: "milk",
	})
	if err != nil || len(out) != 1 {
		t.Fatalf("unexpected result: %+v, %v", out, err)
	}
	if got.ownerID != 5 || got.completed == nil || !*got.completed ||
		got.priority != models.PriorityLow || got.search != "milk" {
		t.Fatalf("filter not forwarded: %+v", got)
	}
}

func TestTodoService_ActivityFailureDoesNotSurface(t *testing.T) {
	todos := &mockTodos{}
	activity := &mockActivity{
		AppendFn: func(context.Context, models.ActivityEvent) error {
			return errors.New("event store down")
		},
	}
	s := NewTodoService(todos, activity, nil)

	if _, err := s.Create(context.Background(), 5, CreateTodoInput{Title: "buy milk"}); err != nil {
		t.Fatalf("activity failure must not surface: %v", err)
	}
}
