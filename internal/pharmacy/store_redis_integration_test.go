//go:build integration

package pharmacy_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"apotheca/internal/pharmacy"
	"apotheca/pkg/platform/sentinel"
	"apotheca/pkg/testutil/containers"
)

type RedisStoreSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	store *pharmacy.RedisStore
}

func TestRedisStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisStoreSuite))
}

func (s *RedisStoreSuite) SetupSuite() {
	s.redis = containers.NewRedisContainer(s.T())
	s.store = pharmacy.NewRedisStore(s.redis.Client)
}

func (s *RedisStoreSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *RedisStoreSuite) TestSaveGetList() {
	ctx := context.Background()

	p := pharmacy.Pharmacy{ID: "ph1", Name: "Central", Address: "1 Main St", CreatedAt: time.Now().UTC()}
	s.Require().NoError(s.store.Save(ctx, p))

	got, err := s.store.Get(ctx, "ph1")
	s.Require().NoError(err)
	s.Equal("Central", got.Name)

	exists, err := s.store.Exists(ctx, "ph1")
	s.Require().NoError(err)
	s.True(exists)

	list, err := s.store.List(ctx)
	s.Require().NoError(err)
	s.Len(list, 1)

	_, err = s.store.Get(ctx, "unknown")
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *RedisStoreSuite) TestCommentLifecycle() {
	ctx := context.Background()
	s.Require().NoError(s.store.Save(ctx, pharmacy.Pharmacy{ID: "ph1", Name: "Central", CreatedAt: time.Now().UTC()}))

	created, err := s.store.AddComment(ctx, "ph1", pharmacy.Comment{
		UserID: "u1", Comment: "open late", Stars: 5, CreatedAt: time.Now().UTC(),
	})
	s.Require().NoError(err)
	s.NotEmpty(created.ID)

	got, err := s.store.GetComment(ctx, "ph1", created.ID)
	s.Require().NoError(err)
	s.Equal("u1", got.UserID)
	s.Equal(5, got.Stars)

	list, err := s.store.ListComments(ctx, "ph1")
	s.Require().NoError(err)
	s.Len(list, 1)

	s.Require().NoError(s.store.DeleteComment(ctx, "ph1", created.ID))
	_, err = s.store.GetComment(ctx, "ph1", created.ID)
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *RedisStoreSuite) TestCommentRequiresParent() {
	ctx := context.Background()

	_, err := s.store.AddComment(ctx, "absent", pharmacy.Comment{UserID: "u1", Comment: "x", Stars: 3})
	s.Require().ErrorIs(err, sentinel.ErrNotFound)

	_, err = s.store.ListComments(ctx, "absent")
	s.Require().ErrorIs(err, sentinel.ErrNotFound)

	s.Require().ErrorIs(s.store.DeleteComment(ctx, "absent", "c1"), sentinel.ErrNotFound)
}
