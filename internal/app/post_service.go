package app

import (
	"context"
	"errors"
	"strings"
	"time"

	"postboard/internal/model"
	"postboard/internal/repository"
)

var (
	ErrPostNotFound = errors.New("post not found")
	ErrForbidden    = errors.New("only the owner can modify this post")
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// PostView is a post enriched for responses. Counts are computed per request.
type PostView struct {
	model.Post
	AuthorUsername string `json:"author_username"`
	Likes          int64  `json:"likes"`
	Dislikes       int64  `json:"dislikes"`
}

type PostServiceConfig struct {
	DefaultLimit int
	MaxLimit     int
	Now          func() time.Time
}

type PostService struct {
	store        *repository.Store
	publisher    ActivityPublisher
	defaultLimit int
	maxLimit     int
	now          func() time.Time
}

func NewPostService(store *repository.Store, publisher ActivityPublisher, cfg PostServiceConfig) *PostService {
	if cfg.MaxLimit <= 0 {
		cfg.MaxLimit = maxPageLimit
	}
	if cfg.DefaultLimit <= 0 {
		cfg.DefaultLimit = defaultPageLimit
	}
	if cfg.DefaultLimit > cfg.MaxLimit {
		cfg.DefaultLimit = cfg.MaxLimit
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &PostService{
		store:        store,
		publisher:    publisher,
		defaultLimit: cfg.DefaultLimit,
		maxLimit:     cfg.MaxLimit,
		now:          cfg.Now,
	}
}

func (s *PostService) Create(ctx context.Context, callerID uint, description string) (*PostView, error) {
	description = strings.TrimSpace(description)
	if callerID == 0 || description == "" {
		return nil, ErrInvalidInput
	}

	post := &model.Post{OwnerID: callerID, Description: description}
	if err := s.store.Posts.Create(ctx, post); err != nil {
		return nil, err
	}

	created, err := s.store.Posts.GetByID(ctx, post.ID)
	if err != nil {
		return nil, err
	}
	if created == nil {
		return nil, ErrPostNotFound
	}

	publish(ctx, s.publisher, model.Activity{UserID: callerID, Kind: model.ActivityPostCreated, PostID: post.ID})
	return &PostView{Post: *created, AuthorUsername: ownerName(created)}, nil
}

// Edit replaces the description of a post owned by callerID and stamps last_update_date.
func (s *PostService) Edit(ctx context.Context, callerID, postID uint, description string) (*PostView, error) {
	description = strings.TrimSpace(description)
	if callerID == 0 || postID == 0 || description == "" {
		return nil, ErrInvalidInput
	}

	var view *PostView
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		post, err := ownedPost(ctx, tx, callerID, postID)
		if err != nil {
			return err
		}
		if err := tx.Posts.UpdateDescription(ctx, post.ID, description, s.now()); err != nil {
			return err
		}

		updated, err := tx.Posts.GetByID(ctx, post.ID)
		if err != nil {
			return err
		}
		view, err = enrich(ctx, tx, updated)
		return err
	})
	if err != nil {
		return nil, err
	}

	publish(ctx, s.publisher, model.Activity{UserID: callerID, Kind: model.ActivityPostEdited, PostID: postID})
	return view, nil
}

// Delete removes a post owned by callerID together with every evaluation of it.
func (s *PostService) Delete(ctx context.Context, callerID, postID uint) error {
	if callerID == 0 || postID == 0 {
		return ErrInvalidInput
	}

	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		post, err := ownedPost(ctx, tx, callerID, postID)
		if err != nil {
			return err
		}
		if _, err := tx.Evaluations.DeleteByPostID(ctx, post.ID); err != nil {
			return err
		}
		return tx.Posts.Delete(ctx, post.ID)
	})
	if err != nil {
		return err
	}

	publish(ctx, s.publisher, model.Activity{UserID: callerID, Kind: model.ActivityPostDeleted, PostID: postID})
	return nil
}

func (s *PostService) Get(ctx context.Context, postID uint) (*PostView, error) {
	if postID == 0 {
		return nil, ErrPostNotFound
	}
	post, err := s.store.Posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}
	return enrich(ctx, s.store, post)
}

func (s *PostService) ListByOwner(ctx context.Context, username string, offset, limit int) ([]PostView, error) {
	username = strings.TrimSpace(username)
	owner, err := s.store.Users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if owner == nil {
		return nil, ErrUserNotFound
	}

	offset, limit = s.Page(offset, limit)
	posts, err := s.store.Posts.ListByOwnerUsername(ctx, username, offset, limit)
	if err != nil {
		return nil, err
	}
	return enrichAll(ctx, s.store, posts)
}

// ListFeed returns the newest posts of all users.
func (s *PostService) ListFeed(ctx context.Context, offset, limit int) ([]PostView, error) {
	offset, limit = s.Page(offset, limit)
	posts, err := s.store.Posts.List(ctx, offset, limit)
	if err != nil {
		return nil, err
	}
	return enrichAll(ctx, s.store, posts)
}

// Page clamps offset to >= 0 and limit to [1, max], using the default for a non-positive limit.
func (s *PostService) Page(offset, limit int) (int, int) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = s.defaultLimit
	}
	if limit > s.maxLimit {
		limit = s.maxLimit
	}
	return offset, limit
}

func ownedPost(ctx context.Context, store *repository.Store, callerID, postID uint) (*model.Post, error) {
	post, err := store.Posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}
	if post.OwnerID != callerID {
		return nil, ErrForbidden
	}
	return post, nil
}

func enrich(ctx context.Context, store *repository.Store, post *model.Post) (*PostView, error) {
	if post == nil {
		return nil, ErrPostNotFound
	}
	counts, err := store.Evaluations.Count(ctx, post.ID)
	if err != nil {
		return nil, err
	}
	return &PostView{
		Post:           *post,
		AuthorUsername: ownerName(post),
		Likes:          counts.Likes,
		Dislikes:       counts.Dislikes,
	}, nil
}

func enrichAll(ctx context.Context, store *repository.Store, posts []model.Post) ([]PostView, error) {
	ids := make([]uint, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.ID)
	}
	counts, err := store.Evaluations.CountByPostIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	views := make([]PostView, 0, len(posts))
	for _, p := range posts {
		c := counts[p.ID]
		views = append(views, PostView{
			Post:           p,
			AuthorUsername: ownerName(&p),
			Likes:          c.Likes,
			Dislikes:       c.Dislikes,
		})
	}
	return views, nil
}

func ownerName(post *model.Post) string {
	if post.Owner == nil {
		return ""
	}
	return post.Owner.Username
}
