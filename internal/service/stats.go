package service

import (
	"context"

	"todohub/internal/models"
	"todohub/internal/repository"
)

// StatsService exposes read-only per-owner counters over the todo store.
type StatsService struct {
	todos repository.Todos
}

func NewStatsService(todos repository.Todos) *StatsService {
	return &StatsService{todos: todos}
}

// TodoStats returns the owner's snapshot. An owner with no todos gets an
// all-zero snapshot with an empty priority breakdown, not an error.
func (s *StatsService) TodoStats(ctx context.Context, ownerID int) (models.TodoStats, error) {
	stats, err := s.todos.Stats(ctx, ownerID)
	if err != nil {
		return models.TodoStats{}, err
	}
	if stats.ByPriority == nil {
		stats.ByPriority = map[string]int{}
	}
	return stats, nil
}
