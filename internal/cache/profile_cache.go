package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redisv9 "github.com/redis/go-redis/v9"

	"postboard/internal/model"
)

// ProfileCache keeps public user profiles in Redis. Password hashes never reach it
// because model.User does not serialize them.
type ProfileCache struct {
	client *redisv9.Client
	ttl    time.Duration
}

func NewProfileCache(client *redisv9.Client, ttl time.Duration) *ProfileCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &ProfileCache{
		client: client,
		ttl:    ttl,
	}
}

func (c *ProfileCache) GetProfile(ctx context.Context, username string) (*model.User, bool, error) {
	raw, err := c.client.Get(ctx, c.profileKey(username)).Result()
	if err == redisv9.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get profile failed: %w", err)
	}

	var user model.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return nil, false, fmt.Errorf("unmarshal cached profile failed: %w", err)
	}
	return &user, true, nil
}

func (c *ProfileCache) SetProfile(ctx context.Context, user *model.User) error {
	payload, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("marshal profile cache failed: %w", err)
	}
	if err := c.client.Set(ctx, c.profileKey(user.Username), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set profile failed: %w", err)
	}
	return nil
}

func (c *ProfileCache) profileKey(username string) string {
	return fmt.Sprintf("user:profile:%s", username)
}
