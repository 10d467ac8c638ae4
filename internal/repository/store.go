package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"postboard/internal/model"
)

// Store groups the repositories over one *gorm.DB so a request can run them in a single transaction.
type Store struct {
	db *gorm.DB

	Users       *UserRepository
	Posts       *PostRepository
	Evaluations *EvaluationRepository
	Activities  *ActivityRepository
}

func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:          db,
		Users:       NewUserRepository(db),
		Posts:       NewPostRepository(db),
		Evaluations: NewEvaluationRepository(db),
		Activities:  NewActivityRepository(db),
	}
}

func (s *Store) DB() *gorm.DB {
	return s.db
}

// Transaction runs fn against a Store bound to one database transaction.
// The transaction commits when fn returns nil and rolls back otherwise.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}

func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&model.User{}, &model.Post{}, &model.Evaluation{}, &model.Activity{}); err != nil {
		return fmt.Errorf("auto migrate tables failed: %w", err)
	}
	return nil
}
