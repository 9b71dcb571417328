package redis

import (
	"context"
	"errors"
	"time"

	"github.com/school-journal/journal/internal/domain/shared"
	"github.com/school-journal/journal/internal/domain/teacher"
	"github.com/school-journal/journal/pkg/circuitbreaker"
)

// TeacherCache caches teacher profiles by email. Password hashes are never stored.
type TeacherCache struct {
	cache   *Cache
	ttl     time.Duration
	breaker *circuitbreaker.CircuitBreaker
}

// NewTeacherCache creates a teacher cache. ttl <= 0 uses TTLTeacherCache.
// breaker may be nil.
func NewTeacherCache(cache *Cache, ttl time.Duration, breaker *circuitbreaker.CircuitBreaker) *TeacherCache {
	if ttl <= 0 {
		ttl = TTLTeacherCache
	}
	return &TeacherCache{cache: cache, ttl: ttl, breaker: breaker}
}

func (c *TeacherCache) call(ctx context.Context, fn func(context.Context) error) error {
	if c.breaker == nil {
		return fn(ctx)
	}
	return c.breaker.Execute(ctx, fn)
}

// cachedTeacher is the JSON form of a cached profile.
type cachedTeacher struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

func toCached(t *teacher.Teacher) cachedTeacher {
	return cachedTeacher{
		ID:        t.ID.Int64(),
		Email:     t.Email.String(),
		FullName:  t.FullName,
		IsActive:  t.IsActive,
		CreatedAt: t.CreatedAt,
	}
}

func (c cachedTeacher) toDomain() *teacher.Teacher {
	return &teacher.Teacher{
		ID:        shared.ID(c.ID),
		Email:     teacher.Email(c.Email),
		FullName:  c.FullName,
		IsActive:  c.IsActive,
		CreatedAt: c.CreatedAt,
	}
}

func teacherKey(email teacher.Email) string {
	return PrefixTeacherEmail + email.String()
}

// Get returns the cached profile. found is false on a cache miss.
// While the breaker is open Get fails fast with circuitbreaker.ErrOpen.
func (c *TeacherCache) Get(ctx context.Context, email teacher.Email) (*teacher.Teacher, bool, error) {
	var (
		entry cachedTeacher
		found bool
	)
	err := c.call(ctx, func(ctx context.Context) error {
		err := c.cache.Get(ctx, teacherKey(email), &entry)
		if errors.Is(err, ErrCacheMiss) {
			return nil
		}
		found = err == nil
		return err
	})
	if err != nil || !found {
		return nil, false, err
	}
	return entry.toDomain(), true, nil
}

// Set stores the teacher's profile.
func (c *TeacherCache) Set(ctx context.Context, t *teacher.Teacher) error {
	return c.call(ctx, func(ctx context.Context) error {
		return c.cache.Set(ctx, teacherKey(t.Email), toCached(t), c.ttl)
	})
}
