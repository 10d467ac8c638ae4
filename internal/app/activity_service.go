package app

import (
	"context"

	"postboard/internal/model"
	"postboard/internal/repository"
)

// ActivityPublisher hands committed mutations to the activity trail.
type ActivityPublisher interface {
	Publish(ctx context.Context, activity model.Activity) error
}

// publish is best-effort: the mutation it describes has already been committed.
func publish(ctx context.Context, p ActivityPublisher, activity model.Activity) {
	if p == nil {
		return
	}
	_ = p.Publish(ctx, activity)
}

type ActivityService struct {
	activityRepo *repository.ActivityRepository
}

func NewActivityService(activityRepo *repository.ActivityRepository) *ActivityService {
	return &ActivityService{activityRepo: activityRepo}
}

func (s *ActivityService) ListForUser(ctx context.Context, userID uint, limit int) ([]model.Activity, error) {
	if userID == 0 {
		return nil, ErrInvalidInput
	}
	return s.activityRepo.ListByUserID(ctx, userID, limit)
}
