package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"todohub/internal/logger"
	"todohub/internal/models"
	"todohub/internal/repository"
)

// TodoService owns validation and ownership-scoped mutation of todos.
type TodoService struct {
	todos    repository.Todos
	activity repository.Activity
	log      *logger.Logger
}

func NewTodoService(todos repository.Todos, activity repository.Activity, log *logger.Logger) *TodoService {
	return &TodoService{todos: todos, activity: activity, log: log}
}

// validateCreate collects every violated rule into one error.
func validateCreate(title, priority string) error {
	var msgs []string
	if strings.TrimSpace(title) == "" {
		msgs = append(msgs, "title is required")
	}
	if priority != "" && !models.ValidPriority(priority) {
		msgs = append(msgs, "priority must be low, medium, or high")
	}
	return newValidationError(msgs)
}

// Create validates input and stores a new todo owned by ownerID.
func (s *TodoService) Create(ctx context.Context, ownerID int, in CreateTodoInput) (models.Todo, error) {
	if err := validateCreate(in.Title, in.Priority); err != nil {
		return models.Todo{}, err
	}

	priority := in.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}

	now := time.Now().UTC()
	t := models.Todo{
		OwnerID:     ownerID,
		Title:       in.Title,
		Description: in.Description,
		Completed:   false,
		Priority:    priority,
		DueDate:     in.DueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	id, err := s.todos.Create(ctx, t)
	if err != nil {
		return models.Todo{}, err
	}
	t.ID = id

	s.appendActivity(ctx, ownerID, models.EventTodoCreated, "todo created: "+t.Title, map[string]any{"todo_id": id})
	return t, nil
}

// List returns the owner's todos narrowed by the filter, in creation order.
func (s *TodoService) List(ctx context.Context, ownerID int, f TodoFilter) ([]models.Todo, error) {
	return s.todos.ListByOwner(ctx, ownerID, f.Completed, f.Priority, f.Search)
}

// Get returns one owned todo. An id owned by someone else and a nonexistent
// id produce the same ErrTodoNotFound.
func (s *TodoService) Get(ctx context.Context, ownerID, id int) (models.Todo, error) {
	t, err := s.todos.GetByID(ctx, ownerID, id)
	if err != nil {
		return models.Todo{}, err
	}
	if t == nil {
		return models.Todo{}, ErrTodoNotFound
	}
	return *t, nil
}

// Update applies a partial update: only provided fields overwrite, so a
// provided completed=false is an overwrite, not a no-op. Priority is
// revalidated when provided; updated_at always refreshes. The load and the
// store run as one repository mutation, so concurrent updates of the same
// todo cannot drop each other's fields.
func (s *TodoService) Update(ctx context.Context, ownerID, id int, in UpdateTodoInput) (models.Todo, error) {
	if in.Priority != nil && !models.ValidPriority(*in.Priority) {
		return models.Todo{}, newValidationError([]string{"priority must be low, medium, or high"})
	}

	t, err := s.todos.Mutate(ctx, ownerID, id, func(t *models.Todo) error {
		if in.Title != nil {
			t.Title = *in.Title
		}
		if in.Description != nil {
			t.Description = *in.Description
		}
		if in.Completed != nil {
			t.Completed = *in.Completed
		}
		if in.Priority != nil {
			t.Priority = *in.Priority
		}
		if in.DueDate != nil {
			t.DueDate = in.DueDate
		}
		t.UpdatedAt = time.Now().UTC()
		return nil
	})
	if err != nil {
		return models.Todo{}, err
	}
	if t == nil {
		return models.Todo{}, ErrTodoNotFound
	}

	s.appendActivity(ctx, ownerID, models.EventTodoUpdated, "todo updated: "+t.Title, map[string]any{"todo_id": id})
	return *t, nil
}

// Toggle flips completed and refreshes updated_at. Two toggles restore the
// original completion state even when they race: the flip runs inside one
// repository mutation.
func (s *TodoService) Toggle(ctx context.Context, ownerID, id int) (models.Todo, error) {
	t, err := s.todos.Mutate(ctx, ownerID, id, func(t *models.Todo) error {
		t.Completed = !t.Completed
		t.UpdatedAt = time.Now().UTC()
		return nil
	})
	if err != nil {
		return models.Todo{}, err
	}
	if t == nil {
		return models.Todo{}, ErrTodoNotFound
	}

	s.appendActivity(ctx, ownerID, models.EventTodoToggled,
		fmt.Sprintf("todo %q completed=%t", t.Title, t.Completed),
		map[string]any{"todo_id": id, "completed": t.Completed})
	return *t, nil
}

// Delete removes the owned todo and returns the removed record. The freed id
// is never reassigned.
func (s *TodoService) Delete(ctx context.Context, ownerID, id int) (models.Todo, error) {
	t, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return models.Todo{}, err
	}

	removed, err := s.todos.Delete(ctx, ownerID, id)
	if err != nil {
		return models.Todo{}, err
	}
	if !removed {
		return models.Todo{}, ErrTodoNotFound
	}

	s.appendActivity(ctx, ownerID, models.EventTodoDeleted, "todo deleted: "+t.Title, map[string]any{"todo_id": id})
	return t, nil
}

func (s *TodoService) appendActivity(ctx context.Context, ownerID int, typ, msg string, meta map[string]any) {
	if s.activity == nil {
		return
	}
	err := s.activity.Append(ctx, models.ActivityEvent{
		OwnerID:  ownerID,
		Type:     typ,
		Message:  msg,
		Metadata: meta,
	})
	if err != nil && s.log != nil {
		s.log.Errorw("activity_append_failed", "err", err, "type", typ, "owner", ownerID)
	}
}
