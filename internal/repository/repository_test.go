package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"postboard/internal/model"
	"postboard/internal/testutil"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db := testutil.OpenSQLite(t)
	require.NoError(t, AutoMigrate(db))
	return NewStore(db)
}

func seedUser(t *testing.T, store *Store, username string) *model.User {
	t.Helper()
	user := &model.User{Username: username, FullName: username, PasswordHash: "x", IsActive: true}
	require.NoError(t, store.Users.Create(context.Background(), user))
	return user
}

func seedPost(t *testing.T, store *Store, owner *model.User, description string) *model.Post {
	t.Helper()
	post := &model.Post{OwnerID: owner.ID, Description: description}
	require.NoError(t, store.Posts.Create(context.Background(), post))
	return post
}

func TestUserRepository_CreateAndLookup(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	alice := seedUser(t, store, "alice")
	assert.NotZero(t, alice.ID)

	found, err := store.Users.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, alice.ID, found.ID)
	assert.True(t, found.IsActive)

	byID, err := store.Users.GetByID(ctx, alice.ID)
	require.NoError(t, err)
	require.NotNil(t, byID)
	assert.Equal(t, "alice", byID.Username)

	missing, err := store.Users.GetByUsername(ctx, "nobody")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestUserRepository_DuplicateUsername(t *testing.T) {
	store := newTestStore(t)
	seedUser(t, store, "alice")

	err := store.Users.Create(context.Background(), &model.User{Username: "alice", PasswordHash: "y"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, gorm.ErrDuplicatedKey), "got %v", err)
}

func TestUserRepository_SetActive(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	alice := seedUser(t, store, "alice")

	require.NoError(t, store.Users.SetActive(ctx, alice.ID, false))

	found, err := store.Users.GetByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.False(t, found.IsActive)
}

func TestPostRepository_CRUD(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	alice := seedUser(t, store, "alice")

	post := seedPost(t, store, alice, "hello")

	found, err := store.Posts.GetByID(ctx, post.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "hello", found.Description)
	require.NotNil(t, found.Owner)
	assert.Equal(t, "alice", found.Owner.Username)
	assert.Nil(t, found.LastUpdateDate)

	updatedAt := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, store.Posts.UpdateDescription(ctx, post.ID, "hello again", updatedAt))

	found, err = store.Posts.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "hello again", found.Description)
	require.NotNil(t, found.LastUpdateDate)
	assert.True(t, updatedAt.Equal(*found.LastUpdateDate))

	require.NoError(t, store.Posts.Delete(ctx, post.ID))
	found, err = store.Posts.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestPostRepository_Listing(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	alice := seedUser(t, store, "alice")
	bob := seedUser(t, store, "bob")

	for _, d := range []string{"a1", "a2", "a3"} {
		seedPost(t, store, alice, d)
	}
	seedPost(t, store, bob, "b1")

	posts, err := store.Posts.ListByOwnerUsername(ctx, "alice", 0, 10)
	require.NoError(t, err)
	require.Len(t, posts, 3)
	for _, p := range posts {
		assert.Equal(t, alice.ID, p.OwnerID)
		require.NotNil(t, p.Owner)
		assert.Equal(t, "alice", p.Owner.Username)
	}

	page, err := store.Posts.ListByOwnerUsername(ctx, "alice", 1, 1)
	require.NoError(t, err)
	assert.Len(t, page, 1)

	none, err := store.Posts.ListByOwnerUsername(ctx, "nobody", 0, 10)
	require.NoError(t, err)
	assert.Empty(t, none)

	all, err := store.Posts.List(ctx, 0, 10)
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestEvaluationRepository_UpsertKeepsOneRow(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	alice := seedUser(t, store, "alice")
	bob := seedUser(t, store, "bob")
	post := seedPost(t, store, alice, "hello")

	require.NoError(t, store.Evaluations.Upsert(ctx, &model.Evaluation{UserID: bob.ID, PostID: post.ID, Like: true}))
	require.NoError(t, store.Evaluations.Upsert(ctx, &model.Evaluation{UserID: bob.ID, PostID: post.ID, Like: true}))

	var rows int64
	require.NoError(t, store.DB().Model(&model.Evaluation{}).Count(&rows).Error)
	assert.Equal(t, int64(1), rows)

	require.NoError(t, store.Evaluations.Upsert(ctx, &model.Evaluation{UserID: bob.ID, PostID: post.ID, Like: false}))
	require.NoError(t, store.DB().Model(&model.Evaluation{}).Count(&rows).Error)
	assert.Equal(t, int64(1), rows)

	found, err := store.Evaluations.Get(ctx, bob.ID, post.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.False(t, found.Like)
}

func TestEvaluationRepository_Counts(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	alice := seedUser(t, store, "alice")
	bob := seedUser(t, store, "bob")
	carol := seedUser(t, store, "carol")
	dave := seedUser(t, store, "dave")
	first := seedPost(t, store, alice, "first")
	second := seedPost(t, store, alice, "second")
	quiet := seedPost(t, store, alice, "quiet")

	require.NoError(t, store.Evaluations.Upsert(ctx, &model.Evaluation{UserID: bob.ID, PostID: first.ID, Like: true}))
	require.NoError(t, store.Evaluations.Upsert(ctx, &model.Evaluation{UserID: carol.ID, PostID: first.ID, Like: true}))
	require.NoError(t, store.Evaluations.Upsert(ctx, &model.Evaluation{UserID: dave.ID, PostID: first.ID, Like: false}))
	require.NoError(t, store.Evaluations.Upsert(ctx, &model.Evaluation{UserID: bob.ID, PostID: second.ID, Like: false}))

	counts, err := store.Evaluations.CountByPostIDs(ctx, []uint{first.ID, second.ID, quiet.ID})
	require.NoError(t, err)
	assert.Equal(t, model.PostCounts{Likes: 2, Dislikes: 1}, counts[first.ID])
	assert.Equal(t, model.PostCounts{Likes: 0, Dislikes: 1}, counts[second.ID])
	assert.Equal(t, model.PostCounts{}, counts[quiet.ID])

	single, err := store.Evaluations.Count(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, model.PostCounts{Likes: 2, Dislikes: 1}, single)

	empty, err := store.Evaluations.CountByPostIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestEvaluationRepository_Delete(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	alice := seedUser(t, store, "alice")
	bob := seedUser(t, store, "bob")
	carol := seedUser(t, store, "carol")
	post := seedPost(t, store, alice, "hello")

	require.NoError(t, store.Evaluations.Upsert(ctx, &model.Evaluation{UserID: bob.ID, PostID: post.ID, Like: true}))
	require.NoError(t, store.Evaluations.Upsert(ctx, &model.Evaluation{UserID: carol.ID, PostID: post.ID, Like: false}))

	removed, err := store.Evaluations.Delete(ctx, bob.ID, post.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = store.Evaluations.Delete(ctx, bob.ID, post.ID)
	require.NoError(t, err)
	assert.False(t, removed)

	n, err := store.Evaluations.DeleteByPostID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	found, err := store.Evaluations.Get(ctx, carol.ID, post.ID)
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestStore_TransactionRollsBack(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	alice := seedUser(t, store, "alice")
	post := seedPost(t, store, alice, "hello")

	boom := errors.New("boom")
	err := store.Transaction(ctx, func(tx *Store) error {
		if err := tx.Posts.Delete(ctx, post.ID); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	found, err := store.Posts.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.NotNil(t, found)
}

func TestActivityRepository_ListByUserID(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, store.Activities.Create(ctx, &model.Activity{UserID: 1, Kind: model.ActivityPostCreated, PostID: uint(i + 1)}))
	}
	require.NoError(t, store.Activities.Create(ctx, &model.Activity{UserID: 2, Kind: model.ActivityUserRegistered}))

	activities, err := store.Activities.ListByUserID(ctx, 1, 2)
	require.NoError(t, err)
	require.Len(t, activities, 2)
	assert.Equal(t, uint(3), activities[0].PostID)
}
