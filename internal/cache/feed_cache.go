package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ayberk/groupora/internal/models"
	"github.com/redis/go-redis/v9"
)

const feedKey = "feed:messages"

// FeedCache keeps the default message listing in Redis so the common
// unfiltered GET /api/messages does not hit the database on every request.
// Any write that can change the listing (new message, reaction) invalidates it.
type FeedCache struct {
	client *redis.Client
	ttl    time.Duration
	ctx    context.Context
}

func NewFeedCache(client *redis.Client, ttl time.Duration) *FeedCache {
	return &FeedCache{
		client: client,
		ttl:    ttl,
		ctx:    context.Background(),
	}
}

// GetFeed returns the cached listing and whether it was present.
func (c *FeedCache) GetFeed() ([]models.Message, bool) {
	data, err := c.client.Get(c.ctx, feedKey).Bytes()
	if err != nil {
		return nil, false
	}

	var messages []models.Message
	if err := json.Unmarshal(data, &messages); err != nil {
		return nil, false
	}

	return messages, true
}

// SetFeed stores the listing with the configured TTL.
func (c *FeedCache) SetFeed(messages []models.Message) error {
	data, err := json.Marshal(messages)
	if err != nil {
		return err
	}

	return c.client.Set(c.ctx, feedKey, data, c.ttl).Err()
}

// Invalidate drops the cached listing.
func (c *FeedCache) Invalidate() error {
	return c.client.Del(c.ctx, feedKey).Err()
}
