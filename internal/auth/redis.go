package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "session:"

// RedisSessions stores sessions in redis with a sliding TTL, for deployments
// running more than one server process.
type RedisSessions struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisSessions(rdb *redis.Client, ttl time.Duration) *RedisSessions {
	return &RedisSessions{rdb: rdb, ttl: ttl}
}

func (s *RedisSessions) Create(username string) (string, error) {
	token := uuid.NewString()
	if err := s.rdb.Set(context.Background(), sessionKeyPrefix+token, username, s.ttl).Err(); err != nil {
		return "", err
	}
	return token, nil
}

func (s *RedisSessions) Lookup(token string) (string, bool) {
	ctx := context.Background()
	username, err := s.rdb.Get(ctx, sessionKeyPrefix+token).Result()
	if err != nil {
		return "", false
	}
	s.rdb.Expire(ctx, sessionKeyPrefix+token, s.ttl)
	return username, true
}

func (s *RedisSessions) Destroy(token string) {
	s.rdb.Del(context.Background(), sessionKeyPrefix+token)
}
