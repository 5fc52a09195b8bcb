package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
)

type StorageSuite struct {
	suite.Suite
	mini    *miniredis.Miniredis
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())

	client := redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})

	cfg := DefaultConfig()
	cfg.Namespace = "test"
	cfg.SessionTTL = time.Hour

	s.storage = NewWithClient(client, cfg)
	s.ctx = context.Background()
}

func (s *StorageSuite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
	}
	if s.mini != nil {
		s.mini.Close()
	}
}

func (s *StorageSuite) TestSetAndGetItems() {
	err := s.storage.SetItems(s.ctx, map[string]string{
		"access_token": "tok123",
		"username":     "alice",
		"isLoggedIn":   "true",
	})
	s.Require().NoError(err)

	value, ok, err := s.storage.GetItem(s.ctx, "access_token")
	s.Require().NoError(err)
	s.True(ok)
	s.Equal("tok123", value)

	s.Equal("alice", s.mini.HGet("cricket:session:test", "username"))
}

func (s *StorageSuite) TestGetMissingItem() {
	_, ok, err := s.storage.GetItem(s.ctx, "access_token")
	s.Require().NoError(err)
	s.False(ok)
}

func (s *StorageSuite) TestSetAppliesTTL() {
	_ = s.storage.SetItems(s.ctx, map[string]string{"username": "alice"})

	s.Equal(time.Hour, s.mini.TTL("cricket:session:test"))

	s.mini.FastForward(2 * time.Hour)

	_, ok, err := s.storage.GetItem(s.ctx, "username")
	s.Require().NoError(err)
	s.False(ok)
}

func (s *StorageSuite) TestNoTTLWhenDisabled() {
	s.storage.cfg.SessionTTL = 0
	_ = s.storage.SetItems(s.ctx, map[string]string{"username": "alice"})

	s.Equal(time.Duration(0), s.mini.TTL("cricket:session:test"))
}

func (s *StorageSuite) TestRemoveItems() {
	_ = s.storage.SetItems(s.ctx, map[string]string{"a": "1", "b": "2", "c": "3"})

	err := s.storage.RemoveItems(s.ctx, "a", "b")
	s.Require().NoError(err)

	_, ok, _ := s.storage.GetItem(s.ctx, "a")
	s.False(ok)
	value, ok, _ := s.storage.GetItem(s.ctx, "c")
	s.True(ok)
	s.Equal("3", value)
}

func (s *StorageSuite) TestRemoveAllItemsDeletesHash() {
	_ = s.storage.SetItems(s.ctx, map[string]string{"a": "1"})
	_ = s.storage.RemoveItems(s.ctx, "a")

	s.False(s.mini.Exists("cricket:session:test"))
}

func (s *StorageSuite) TestNamespacesAreIsolated() {
	other := NewWithClient(redis.NewClient(&redis.Options{Addr: s.mini.Addr()}), Config{Namespace: "other"})
	defer func() { _ = other.Close() }()

	_ = s.storage.SetItems(s.ctx, map[string]string{"username": "alice"})

	_, ok, err := other.GetItem(s.ctx, "username")
	s.Require().NoError(err)
	s.False(ok)
}

func (s *StorageSuite) TestNewRejectsBadURL() {
	_, err := New(Config{URL: "not a url"})
	s.Error(err)
}

func (s *StorageSuite) TestNewConnects() {
	cfg := DefaultConfig()
	cfg.URL = "redis://" + s.mini.Addr()

	store, err := New(cfg)
	s.Require().NoError(err)
	defer func() { _ = store.Close() }()

	s.Require().NoError(store.SetItems(s.ctx, map[string]string{"k": "v"}))
	s.Equal("v", s.mini.HGet("cricket:session:default", "k"))
}
