package app

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"postboard/internal/model"
	"postboard/internal/pkg/jwtutil"
	"postboard/internal/pkg/password"
	"postboard/internal/repository"
	"postboard/internal/testutil"
)

type recordingPublisher struct {
	mu         sync.Mutex
	activities []model.Activity
}

func (p *recordingPublisher) Publish(_ context.Context, activity model.Activity) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.activities = append(p.activities, activity)
	return nil
}

func (p *recordingPublisher) kinds() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	kinds := make([]string, 0, len(p.activities))
	for _, a := range p.activities {
		kinds = append(kinds, a.Kind)
	}
	return kinds
}

type memoryProfileCache struct {
	profiles map[string]model.User
	hits     int
}

func newMemoryProfileCache() *memoryProfileCache {
	return &memoryProfileCache{profiles: map[string]model.User{}}
}

func (c *memoryProfileCache) GetProfile(_ context.Context, username string) (*model.User, bool, error) {
	user, ok := c.profiles[username]
	if !ok {
		return nil, false, nil
	}
	c.hits++
	return &user, true, nil
}

func (c *memoryProfileCache) SetProfile(_ context.Context, user *model.User) error {
	c.profiles[user.Username] = *user
	return nil
}

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type fixture struct {
	store       *repository.Store
	clock       *testClock
	tokens      *jwtutil.Issuer
	publisher   *recordingPublisher
	profiles    *memoryProfileCache
	auth        *AuthService
	posts       *PostService
	evaluations *EvaluationService
	activity    *ActivityService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.OpenSQLite(t)
	require.NoError(t, repository.AutoMigrate(db))

	store := repository.NewStore(db)
	clock := &testClock{now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	tokens := jwtutil.NewIssuer("test-secret", 30*time.Minute, jwtutil.WithClock(clock.Now))
	publisher := &recordingPublisher{}
	profiles := newMemoryProfileCache()

	return &fixture{
		store:     store,
		clock:     clock,
		tokens:    tokens,
		publisher: publisher,
		profiles:  profiles,
		auth:      NewAuthService(store, password.NewHasher(bcrypt.MinCost), tokens, profiles, publisher),
		posts: NewPostService(store, publisher, PostServiceConfig{
			DefaultLimit: 5,
			MaxLimit:     10,
			Now:          clock.Now,
		}),
		evaluations: NewEvaluationService(store, publisher),
		activity:    NewActivityService(store.Activities),
	}
}

func (f *fixture) register(t *testing.T, username, pw string) *model.User {
	t.Helper()
	user, err := f.auth.Register(context.Background(), RegisterInput{Username: username, FullName: username + " full", Password: pw})
	require.NoError(t, err)
	return user
}

func (f *fixture) createPost(t *testing.T, owner *model.User, description string) *PostView {
	t.Helper()
	view, err := f.posts.Create(context.Background(), owner.ID, description)
	require.NoError(t, err)
	return view
}
