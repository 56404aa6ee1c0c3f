package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/lcampanari/gamebook-api/internal/cache"
	"github.com/lcampanari/gamebook-api/internal/errors"
	"github.com/lcampanari/gamebook-api/internal/pkg/clock"
	"github.com/lcampanari/gamebook-api/internal/testutils"
)

type RedisCacheSuite struct {
	suite.Suite
	cache   cache.Cache
	clock   *clock.Fixed
	cleanup func()
	ctx     context.Context
}

func (s *RedisCacheSuite) SetupTest() {
	client, cleanup := testutils.CreateTestRedisClient(s.T())
	s.cleanup = cleanup
	s.clock = clock.NewFixed(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	s.ctx = context.Background()

	var err error
	s.cache, err = cache.NewRedisCache(&cache.Config{
		Client: client,
		Clock:  s.clock,
		TTL:    time.Hour,
	})
	s.Require().NoError(err)
}

func (s *RedisCacheSuite) TearDownTest() {
	s.cleanup()
}

func (s *RedisCacheSuite) TestSetAndGet() {
	key := cache.Key("warrior-of-blood", 5)
	s.Require().NoError(s.cache.Set(s.ctx, key, []byte(`{"number":5}`)))

	value, err := s.cache.Get(s.ctx, key)
	s.Require().NoError(err)
	s.JSONEq(`{"number":5}`, string(value))
}

func (s *RedisCacheSuite) TestGetMiss() {
	_, err := s.cache.Get(s.ctx, cache.Key("warrior-of-blood", 404))
	s.True(errors.IsNotFound(err))
}

func (s *RedisCacheSuite) TestGetIgnoresExpiredEntry() {
	key := cache.Key("warrior-of-blood", 5)
	s.Require().NoError(s.cache.Set(s.ctx, key, []byte(`{"number":5}`)))

	s.clock.Advance(2 * time.Hour)

	_, err := s.cache.Get(s.ctx, key)
	s.True(errors.IsNotFound(err))
}

func (s *RedisCacheSuite) TestSetUpserts() {
	key := cache.Key("warrior-of-blood", 5)
	s.Require().NoError(s.cache.Set(s.ctx, key, []byte(`"old"`)))
	s.Require().NoError(s.cache.Set(s.ctx, key, []byte(`"new"`)))

	value, err := s.cache.Get(s.ctx, key)
	s.Require().NoError(err)
	s.Equal(`"new"`, string(value))
}

func (s *RedisCacheSuite) TestClear() {
	for i := 1; i <= 3; i++ {
		s.Require().NoError(s.cache.Set(s.ctx, cache.Key("warrior-of-blood", i), []byte(`{}`)))
	}

	removed, err := s.cache.Clear(s.ctx)
	s.Require().NoError(err)
	s.Equal(3, removed)

	_, err = s.cache.Get(s.ctx, cache.Key("warrior-of-blood", 1))
	s.True(errors.IsNotFound(err))
}

func (s *RedisCacheSuite) TestEvictExpired() {
	s.Require().NoError(s.cache.Set(s.ctx, cache.Key("warrior-of-blood", 1), []byte(`{}`)))

	s.clock.Advance(30 * time.Minute)
	s.Require().NoError(s.cache.Set(s.ctx, cache.Key("warrior-of-blood", 2), []byte(`{}`)))

	s.clock.Advance(45 * time.Minute)

	// First entry is 75 minutes old, second only 45
	removed, err := s.cache.EvictExpired(s.ctx)
	s.Require().NoError(err)
	s.Equal(1, removed)

	_, err = s.cache.Get(s.ctx, cache.Key("warrior-of-blood", 2))
	s.NoError(err)
}

func (s *RedisCacheSuite) TestConcurrentAccess() {
	done := make(chan struct{})
	for g := 0; g < 4; g++ {
		go func(g int) {
			defer func() { done <- struct{}{} }()
			for i := 0; i < 20; i++ {
				key := cache.Key("warrior-of-blood", g*100+i)
				_ = s.cache.Set(s.ctx, key, []byte(`{}`))
				_, _ = s.cache.Get(s.ctx, key)
			}
		}(g)
	}
	for g := 0; g < 4; g++ {
		<-done
	}
}

func TestRedisCacheSuite(t *testing.T) {
	suite.Run(t, new(RedisCacheSuite))
}
