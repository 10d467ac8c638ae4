package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"postboard/internal/model"
)

type EvaluationRepository struct {
	db *gorm.DB
}

func NewEvaluationRepository(db *gorm.DB) *EvaluationRepository {
	return &EvaluationRepository{db: db}
}

func (r *EvaluationRepository) Get(ctx context.Context, userID, postID uint) (*model.Evaluation, error) {
	var evaluation model.Evaluation
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		First(&evaluation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query evaluation failed: %w", err)
	}
	return &evaluation, nil
}

// Upsert inserts the evaluation or, when the (user_id, post_id) key already exists,
// overwrites its judgment in the same statement.
func (r *EvaluationRepository) Upsert(ctx context.Context, evaluation *model.Evaluation) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "post_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"is_like", "updated_at"}),
		}).
		Create(evaluation).Error
	if err != nil {
		return fmt.Errorf("upsert evaluation failed: %w", err)
	}
	return nil
}

// Delete removes one evaluation and reports whether a row existed.
func (r *EvaluationRepository) Delete(ctx context.Context, userID, postID uint) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&model.Evaluation{})
	if result.Error != nil {
		return false, fmt.Errorf("delete evaluation failed: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *EvaluationRepository) DeleteByPostID(ctx context.Context, postID uint) (int64, error) {
	result := r.db.WithContext(ctx).Where("post_id = ?", postID).Delete(&model.Evaluation{})
	if result.Error != nil {
		return 0, fmt.Errorf("delete evaluations of post failed: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func (r *EvaluationRepository) Count(ctx context.Context, postID uint) (model.PostCounts, error) {
	counts, err := r.CountByPostIDs(ctx, []uint{postID})
	if err != nil {
		return model.PostCounts{}, err
	}
	return counts[postID], nil
}

// CountByPostIDs tallies likes and dislikes for every id in one grouped query.
// Posts without evaluations are absent from the map.
func (r *EvaluationRepository) CountByPostIDs(ctx context.Context, postIDs []uint) (map[uint]model.PostCounts, error) {
	counts := make(map[uint]model.PostCounts, len(postIDs))
	if len(postIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		PostID uint
		IsLike bool
		Total  int64
	}
	err := r.db.WithContext(ctx).
		Model(&model.Evaluation{}).
		Select("post_id, is_like, COUNT(*) AS total").
		Where("post_id IN ?", postIDs).
		Group("post_id, is_like").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("count evaluations failed: %w", err)
	}

	for _, row := range rows {
		c := counts[row.PostID]
		if row.IsLike {
			c.Likes += row.Total
		} else {
			c.Dislikes += row.Total
		}
		counts[row.PostID] = c
	}
	return counts, nil
}
