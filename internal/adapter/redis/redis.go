package redis

import (
	"context"
	"time"

	redisClient "github.com/redis/go-redis/v9"
)

type RedisAdapter struct {
	client *redisClient.Client
}

func NewRedisAdapter(client *redisClient.Client) *RedisAdapter {
	return &RedisAdapter{client: client}
}

func (r *RedisAdapter) Get(key string) ([]byte, error) {
	return r.client.Get(context.Background(), key).Bytes()
}

func (r *RedisAdapter) Set(key string, value []byte, ttl time.Duration) error {
	return r.client.Set(context.Background(), key, value, ttl).Err()
}

func (r *RedisAdapter) Delete(key string) error {
	return r.client.Del(context.Background(), key).Err()
}
