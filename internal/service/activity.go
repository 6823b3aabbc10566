package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"todohub/internal/models"
	"todohub/internal/repository"
)

// ActivityService exposes the owner-scoped event feed.
type ActivityService struct {
	activity repository.Activity
}

func NewActivityService(activity repository.Activity) *ActivityService {
	return &ActivityService{activity: activity}
}

var errInvalidTimeRange = errors.New("invalid time range: From must be <= To")

// normalizeToUTC returns t in UTC, preserving zero time values.
func normalizeToUTC(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}

// normalizeEventType trims spaces and uppercases the event type filter.
func normalizeEventType(s string) string {
	return strings.TrimSpace(strings.ToUpper(s))
}

// normalizeAndValidateFilter prepares query parameters and validates the time range.
func normalizeAndValidateFilter(f ActivityFilter) (time.Time, time.Time, string, error) {
	from := normalizeToUTC(f.From)
	to := normalizeToUTC(f.To)

	if !from.IsZero() && !to.IsZero() && from.After(to) {
		return time.Time{}, time.Time{}, "", errInvalidTimeRange
	}

	return from, to, normalizeEventType(f.Type), nil
}

func (s *ActivityService) List(ctx context.Context, ownerID int, f ActivityFilter) ([]models.ActivityEvent, error) {
	from, to, typ, err := normalizeAndValidateFilter(f)
	if err != nil {
		return nil, err
	}
	return s.activity.List(ctx, ownerID, from, to, typ)
}

func (s *ActivityService) ListAfter(ctx context.Context, ownerID int, afterSeq int64) ([]models.ActivityEvent, error) {
	return s.activity.ListAfter(ctx, ownerID, afterSeq)
}

func (s *ActivityService) LatestSeq(ctx context.Context, ownerID int) (int64, error) {
	return s.activity.LatestSeq(ctx, ownerID)
}
