package tokenstore

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// Provider текущий refresh токен пользователя. Хранится один токен на пользователя
type Provider interface {
	Save(ctx context.Context, userID, token string, ttl time.Duration) error
	IsCurrent(ctx context.Context, userID, token string) (bool, error)
	Delete(ctx context.Context, userID string) error
}

func NewInstance(client *redis.Client) Provider {
	return &impl{
		client: client,
	}
}

type impl struct {
	client *redis.Client
}

func key(userID string) string {
	return fmt.Sprintf("refresh_token:%v", userID)
}

func (i impl) Save(ctx context.Context, userID, token string, ttl time.Duration) error {
	return i.client.Set(ctx, key(userID), token, ttl).Err()
}

func (i impl) IsCurrent(ctx context.Context, userID, token string) (bool, error) {
	stored, err := i.client.Get(ctx, key(userID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}
	return stored == token, nil
}

func (i impl) Delete(ctx context.Context, userID string) error {
	return i.client.Del(ctx, key(userID)).Err()
}
