package cache

import (
	"context"
	"encoding/json"
	"errors"
	"formstudio/internal/model"
	"time"

	"github.com/redis/go-redis/v9"
)

// Respondent sessions expire after half an hour of inactivity.
const respondentTTL = 30 * time.Minute

type RespondentCache interface {
	Set(ctx context.Context, session *model.RespondentSession) error
	Get(ctx context.Context, id string) (*model.RespondentSession, error)
	Delete(ctx context.Context, id string) error
}

type respondentCache struct {
	client *redis.Client
}

func NewRespondentCache(client *redis.Client) RespondentCache {
	return &respondentCache{
		client: client,
	}
}

func (c *respondentCache) Set(ctx context.Context, session *model.RespondentSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, "respondent:"+session.ID, data, respondentTTL).Err()
}

func (c *respondentCache) Get(ctx context.Context, id string) (*model.RespondentSession, error) {
	data, err := c.client.Get(ctx, "respondent:"+id).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	var session model.RespondentSession
	err = json.Unmarshal([]byte(data), &session)
	return &session, err
}

func (c *respondentCache) Delete(ctx context.Context, id string) error {
	return c.client.Del(ctx, "respondent:"+id).Err()
}
