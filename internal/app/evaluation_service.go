package app

import (
	"context"
	"errors"

	"postboard/internal/model"
	"postboard/internal/repository"
)

var (
	ErrSelfEvaluation     = errors.New("you can't evaluate your own post")
	ErrEvaluationNotFound = errors.New("evaluation not found")
)

// EvaluationResult is the stored evaluation plus the post's tally after the write.
type EvaluationResult struct {
	model.Evaluation
	Created  bool  `json:"created"`
	Likes    int64 `json:"likes"`
	Dislikes int64 `json:"dislikes"`
}

type EvaluationService struct {
	store     *repository.Store
	publisher ActivityPublisher
}

func NewEvaluationService(store *repository.Store, publisher ActivityPublisher) *EvaluationService {
	return &EvaluationService{store: store, publisher: publisher}
}

// Upsert records callerID's like (true) or dislike (false) of postID. A repeated call
// overwrites the existing judgment instead of adding a row.
func (s *EvaluationService) Upsert(ctx context.Context, callerID, postID uint, like bool) (*EvaluationResult, error) {
	if callerID == 0 {
		return nil, ErrInvalidInput
	}

	var result *EvaluationResult
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		post, err := tx.Posts.GetByID(ctx, postID)
		if err != nil {
			return err
		}
		if post == nil {
			return ErrPostNotFound
		}
		if post.OwnerID == callerID {
			return ErrSelfEvaluation
		}

		existing, err := tx.Evaluations.Get(ctx, callerID, postID)
		if err != nil {
			return err
		}

		evaluation := model.Evaluation{UserID: callerID, PostID: postID, Like: like}
		if existing != nil {
			evaluation.CreatedAt = existing.CreatedAt
		}
		if err := tx.Evaluations.Upsert(ctx, &evaluation); err != nil {
			return err
		}

		counts, err := tx.Evaluations.Count(ctx, postID)
		if err != nil {
			return err
		}
		result = &EvaluationResult{
			Evaluation: evaluation,
			Created:    existing == nil,
			Likes:      counts.Likes,
			Dislikes:   counts.Dislikes,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	detail := "dislike"
	if like {
		detail = "like"
	}
	publish(ctx, s.publisher, model.Activity{UserID: callerID, Kind: model.ActivityEvaluationSet, PostID: postID, Detail: detail})
	return result, nil
}

// Delete removes callerID's own evaluation of postID.
func (s *EvaluationService) Delete(ctx context.Context, callerID, postID uint) error {
	if callerID == 0 {
		return ErrInvalidInput
	}

	removed, err := s.store.Evaluations.Delete(ctx, callerID, postID)
	if err != nil {
		return err
	}
	if !removed {
		return ErrEvaluationNotFound
	}

	publish(ctx, s.publisher, model.Activity{UserID: callerID, Kind: model.ActivityEvaluationRemoved, PostID: postID})
	return nil
}

func (s *EvaluationService) Counts(ctx context.Context, postID uint) (model.PostCounts, error) {
	post, err := s.store.Posts.GetByID(ctx, postID)
	if err != nil {
		return model.PostCounts{}, err
	}
	if post == nil {
		return model.PostCounts{}, ErrPostNotFound
	}
	return s.store.Evaluations.Count(ctx, postID)
}
