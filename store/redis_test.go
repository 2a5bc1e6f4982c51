package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
	tContainer "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	dbredis "github.com/octabyte/bm-session/db/redis"
)

type RedisStoreTestSuite struct {
	suite.Suite
	ctx       context.Context
	container tContainer.Container
	client    *redis.Client
}

func (s *RedisStoreTestSuite) SetupSuite() {
	if testing.Short() {
		s.T().Skip("skipping redis integration test in short mode")
	}
	s.ctx = context.Background()

	container, err := tContainer.GenericContainer(s.ctx, tContainer.GenericContainerRequest{
		ContainerRequest: tContainer.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections"),
		},
		Started: true,
	})
	s.Require().NoError(err)
	s.container = container

	host, err := container.Host(s.ctx)
	s.Require().NoError(err)
	port, err := container.MappedPort(s.ctx, "6379")
	s.Require().NoError(err)

	client, err := dbredis.NewRedisClient(s.ctx, dbredis.Config{Addr: fmt.Sprintf("%s:%s", host, port.Port())})
	s.Require().NoError(err)
	s.client = client
}

func (s *RedisStoreTestSuite) TearDownSuite() {
	if s.client != nil {
		_ = s.client.Close()
	}
	if s.container != nil {
		s.Require().NoError(s.container.Terminate(s.ctx))
	}
}

func (s *RedisStoreTestSuite) TestContract() {
	n := 0
	runStoreContract(s.T(), func(t *testing.T) Store {
		n++
		return NewRedis(s.client, fmt.Sprintf("contract-%d", n))
	})
}

func (s *RedisStoreTestSuite) TestKeysArePrefixedPerProfile() {
	st := NewRedis(s.client, "alice", WithPrefix("portal:"))
	s.Require().NoError(st.Save(s.ctx, testSession))

	token, err := s.client.Get(s.ctx, "portal:alice:authToken").Result()
	s.Require().NoError(err)
	s.Equal("t1", token)

	other := NewRedis(s.client, "bob", WithPrefix("portal:"))
	snap, err := other.Load(s.ctx)
	s.Require().NoError(err)
	s.True(snap.IsEmpty())
}

func (s *RedisStoreTestSuite) TestDanglingTokenIsCorrupt() {
	st := NewRedis(s.client, "dangling")
	s.Require().NoError(s.client.Set(s.ctx, "bm-session:dangling:authToken", "t1", 0).Err())

	snap, err := st.Load(s.ctx)
	s.Require().NoError(err)
	_, _, err = snap.Session()
	s.ErrorIs(err, ErrCorrupt)
}

func (s *RedisStoreTestSuite) TestTTLAppliesToBothKeys() {
	st := NewRedis(s.client, "ttl", WithTTL(time.Minute))
	s.Require().NoError(st.Save(s.ctx, testSession))

	for _, key := range []string{"bm-session:ttl:authToken", "bm-session:ttl:userData"} {
		ttl, err := s.client.TTL(s.ctx, key).Result()
		s.Require().NoError(err)
		s.Greater(ttl, time.Duration(0), key)
	}
}

func TestRedisStoreSuite(t *testing.T) {
	suite.Run(t, new(RedisStoreTestSuite))
}
