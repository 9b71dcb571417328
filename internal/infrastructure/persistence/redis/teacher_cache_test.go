package redis

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/school-journal/journal/internal/domain/teacher"
	"github.com/school-journal/journal/pkg/circuitbreaker"
)

func TestTeacherKey(t *testing.T) {
	assert.Equal(t, "teacher:email:t@school.kz", teacherKey("t@school.kz"))
}

func TestCachedTeacher_OmitsPasswordHash(t *testing.T) {
	created := time.Date(2024, 9, 1, 8, 0, 0, 0, time.UTC)
	src := &teacher.Teacher{
		ID:           7,
		Email:        "t@school.kz",
		FullName:     "Aigerim",
		PasswordHash: "$2a$10$secret",
		IsActive:     true,
		CreatedAt:    created,
	}

	data, err := json.Marshal(toCached(src))
	require.NoError(t, err)
	assert.NotContains(t, string(data), "secret")
	assert.NotContains(t, string(data), "password")

	var back cachedTeacher
	require.NoError(t, json.Unmarshal(data, &back))
	got := back.toDomain()
	assert.Equal(t, src.Profile(), got)
}

func TestConfig_Options(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Password = "pw"
	cfg.DB = 2

	opts, err := cfg.Options()
	require.NoError(t, err)
	assert.Equal(t, "localhost:6379", opts.Addr)
	assert.Equal(t, 2, opts.DB)
	assert.Equal(t, 10, opts.PoolSize)

	cfg.URL = "redis://:secret@cache:6380/1"
	opts, err = cfg.Options()
	require.NoError(t, err)
	assert.Equal(t, "cache:6380", opts.Addr)
	assert.Equal(t, "secret", opts.Password)
	assert.Equal(t, 1, opts.DB)

	cfg.URL = "http://nope"
	_, err = cfg.Options()
	assert.Error(t, err)
}

func TestNewTeacherCache_DefaultTTL(t *testing.T) {
	assert.Equal(t, TTLTeacherCache, NewTeacherCache(nil, 0, nil).ttl)
	assert.Equal(t, time.Minute, NewTeacherCache(nil, time.Minute, nil).ttl)
}

func TestTeacherCache_BreakerOpensOnUnreachableServer(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 200 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })

	breaker := circuitbreaker.New("redis", circuitbreaker.WithFailureThreshold(2), circuitbreaker.WithCooldown(time.Hour))
	cache := NewTeacherCache(NewCacheWithClient(client), time.Minute, breaker)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, found, err := cache.Get(ctx, "t@school.kz")
		require.Error(t, err)
		assert.False(t, found)
	}
	assert.Equal(t, circuitbreaker.StateOpen, breaker.State())

	_, _, err := cache.Get(ctx, "t@school.kz")
	assert.ErrorIs(t, err, circuitbreaker.ErrOpen)
	assert.ErrorIs(t, cache.Set(ctx, &teacher.Teacher{Email: "t@school.kz"}), circuitbreaker.ErrOpen)
}
