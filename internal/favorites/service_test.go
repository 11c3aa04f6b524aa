package favorites

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"apotheca/internal/profile"
	dErrors "apotheca/pkg/domain-errors"
)

type ServiceSuite struct {
	suite.Suite
	ctx     context.Context
	store   *profile.MemoryStore
	service *Service
	uid     string
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = profile.NewMemoryStore()
	s.service = New(s.store, slog.New(slog.DiscardHandler))
	s.uid = "uid-1"
	s.Require().NoError(s.store.Set(s.ctx, profile.Profile{
		UID:       s.uid,
		Email:     "ana@example.com",
		Role:      profile.RoleUser,
		Favorites: []string{},
		CreatedAt: time.Now().UTC(),
	}))
}

func (s *ServiceSuite) Test_Add_ThenGet() {
	got, err := s.service.Add(s.ctx, s.uid, []string{"pharmacy-1"})
	s.Require().NoError(err)
	s.Equal([]string{"pharmacy-1"}, got)

	got, err = s.service.Add(s.ctx, s.uid, []string{"pharmacy-2", "pharmacy-3"})
	s.Require().NoError(err)
	s.Equal([]string{"pharmacy-1", "pharmacy-2", "pharmacy-3"}, got)

	got, err = s.service.Get(s.ctx, s.uid)
	s.Require().NoError(err)
	s.Equal([]string{"pharmacy-1", "pharmacy-2", "pharmacy-3"}, got)
}

func (s *ServiceSuite) Test_Add_DuplicateRejectsBatch() {
	_, err := s.service.Add(s.ctx, s.uid, []string{"pharmacy-1"})
	s.Require().NoError(err)

	_, err = s.service.Add(s.ctx, s.uid, []string{"pharmacy-2", "pharmacy-1"})
	s.Require().ErrorIs(err, dErrors.New(dErrors.CodeInvalidInput, "Item already in favorites"))

	// The whole batch was rejected; pharmacy-2 did not land.
	got, err := s.service.Get(s.ctx, s.uid)
	s.Require().NoError(err)
	s.Equal([]string{"pharmacy-1"}, got)
}

func (s *ServiceSuite) Test_Add_ExactlyOneInstance() {
	_, err := s.service.Add(s.ctx, s.uid, []string{"pharmacy-1"})
	s.Require().NoError(err)
	_, err = s.service.Add(s.ctx, s.uid, []string{"pharmacy-1"})
	s.Require().Error(err)

	got, err := s.service.Get(s.ctx, s.uid)
	s.Require().NoError(err)
	s.Equal([]string{"pharmacy-1"}, got)
}

func (s *ServiceSuite) Test_Remove() {
	_, err := s.service.Add(s.ctx, s.uid, []string{"a", "b", "c"})
	s.Require().NoError(err)

	got, err := s.service.Remove(s.ctx, s.uid, []string{"b"})
	s.Require().NoError(err)
	s.Equal([]string{"a", "c"}, got)
}

func (s *ServiceSuite) Test_Remove_AbsentRejectsBatch() {
	_, err := s.service.Add(s.ctx, s.uid, []string{"a"})
	s.Require().NoError(err)

	_, err = s.service.Remove(s.ctx, s.uid, []string{"a", "never-added"})
	s.Require().ErrorIs(err, dErrors.New(dErrors.CodeInvalidInput, "Item not in favorites"))

	got, err := s.service.Get(s.ctx, s.uid)
	s.Require().NoError(err)
	s.Equal([]string{"a"}, got)
}

func (s *ServiceSuite) Test_Remove_FromEmpty() {
	_, err := s.service.Remove(s.ctx, s.uid, []string{"a"})
	s.Require().ErrorIs(err, dErrors.New(dErrors.CodeInvalidInput, "Item not in favorites"))

	got, err := s.service.Get(s.ctx, s.uid)
	s.Require().NoError(err)
	s.Empty(got)
}

func (s *ServiceSuite) Test_EmptyBatch() {
	_, err := s.service.Add(s.ctx, s.uid, nil)
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))

	_, err = s.service.Remove(s.ctx, s.uid, []string{})
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

func (s *ServiceSuite) Test_MissingProfile() {
	_, err := s.service.Get(s.ctx, "no-such-uid")
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))

	_, err = s.service.Add(s.ctx, "no-such-uid", []string{"pharmacy-1"})
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))

	_, err = s.service.Remove(s.ctx, "no-such-uid", []string{"pharmacy-1"})
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *ServiceSuite) Test_Get_EmptyList() {
	got, err := s.service.Get(s.ctx, s.uid)
	s.Require().NoError(err)
	s.NotNil(got)
	s.Empty(got)
}

// Concurrent adds of distinct items must all land; the read-modify-write
// runs inside the store's atomic mutate.
func (s *ServiceSuite) Test_ConcurrentAdds_NoLostUpdates() {
	const n = 32
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := s.service.Add(s.ctx, s.uid, []string{fmt.Sprintf("pharmacy-%d", i)})
			s.NoError(err)
		}(i)
	}
	wg.Wait()

	got, err := s.service.Get(s.ctx, s.uid)
	s.Require().NoError(err)
	s.Len(got, n)
}
