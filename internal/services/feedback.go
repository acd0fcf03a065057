package services

import (
	"context"
	"fmt"

	"github.com/tourkita/admin-backend/internal/model"
	"github.com/tourkita/admin-backend/internal/store"
)

// FeedbackStats is the aggregate consumed by the analytics views.
type FeedbackStats struct {
	Count         int            `json:"count"`
	AverageRating float64        `json:"averageRating"`
	ByRating      map[int]int    `json:"byRating"`
	ByLocation    map[string]int `json:"byLocation"`
}

// FeedbackService records user ratings and aggregates them for reporting.
type FeedbackService struct {
	store store.Store
}

func NewFeedbackService(s store.Store) *FeedbackService { return &FeedbackService{store: s} }

func (s *FeedbackService) CreateFeedback(ctx context.Context, f *model.Feedback) (*model.Feedback, error) {
	if f.UserID == "" {
		return nil, fmt.Errorf("%w: userId is required", model.ErrInvalid)
	}
	if f.Rating < 1 || f.Rating > 5 {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5", model.ErrInvalid)
	}
	return s.store.Feedback().Create(ctx, f)
}

func (s *FeedbackService) ListFeedback(ctx context.Context) ([]*model.Feedback, error) {
	return s.store.Feedback().List(ctx)
}

// Stats computes rating aggregates over all feedback.
func (s *FeedbackService) Stats(ctx context.Context) (*FeedbackStats, error) {
	all, err := s.store.Feedback().List(ctx)
	if err != nil {
		return nil, err
	}
	stats := &FeedbackStats{
		ByRating:   make(map[int]int),
		ByLocation: make(map[string]int),
	}
	sum := 0
	for _, f := range all {
		stats.Count++
		sum += f.Rating
		stats.ByRating[f.Rating]++
		if f.LocationID != nil {
			stats.ByLocation[*f.LocationID]++
		}
	}
	if stats.Count > 0 {
		stats.AverageRating = float64(sum) / float64(stats.Count)
	}
	return stats, nil
}
