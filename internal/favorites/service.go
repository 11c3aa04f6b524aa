// Package favorites owns the favorites list on a user's profile document.
// All mutations run through the profile store's atomic mutate hook so two
// concurrent requests for the same user cannot lose each other's writes.
package favorites

import (
	"context"
	"errors"
	"log/slog"
	"slices"

	"apotheca/internal/profile"
	dErrors "apotheca/pkg/domain-errors"
	"apotheca/pkg/platform/sentinel"
)

type Service struct {
	profiles profile.Store
	logger   *slog.Logger
}

func New(profiles profile.Store, logger *slog.Logger) *Service {
	return &Service{profiles: profiles, logger: logger}
}

// Add unions ids into the user's favorites and returns the updated list. Any
// id already present rejects the whole batch so clients learn their view was
// stale.
func (s *Service) Add(ctx context.Context, uid string, ids []string) ([]string, error) {
	if len(ids) == 0 {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "No items provided")
	}
	updated, err := s.profiles.MutateFavorites(ctx, uid, func(current []string) ([]string, error) {
		next := slices.Clone(current)
		for _, id := range ids {
			if slices.Contains(next, id) {
				return nil, dErrors.New(dErrors.CodeInvalidInput, "Item already in favorites")
			}
			next = append(next, id)
		}
		return next, nil
	})
	if err != nil {
		return nil, s.translate(err, uid)
	}
	return updated, nil
}

// Remove deletes ids from the user's favorites and returns the updated list.
// Any absent id rejects the whole batch.
func (s *Service) Remove(ctx context.Context, uid string, ids []string) ([]string, error) {
	if len(ids) == 0 {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "No items provided")
	}
	updated, err := s.profiles.MutateFavorites(ctx, uid, func(current []string) ([]string, error) {
		next := slices.Clone(current)
		for _, id := range ids {
			i := slices.Index(next, id)
			if i < 0 {
				return nil, dErrors.New(dErrors.CodeInvalidInput, "Item not in favorites")
			}
			next = slices.Delete(next, i, i+1)
		}
		return next, nil
	})
	if err != nil {
		return nil, s.translate(err, uid)
	}
	return updated, nil
}

// Get returns the user's favorites list.
func (s *Service) Get(ctx context.Context, uid string) ([]string, error) {
	p, err := s.profiles.Get(ctx, uid)
	if err != nil {
		return nil, s.translate(err, uid)
	}
	if p.Favorites == nil {
		return []string{}, nil
	}
	return p.Favorites, nil
}

// translate maps store failures onto client-visible errors. A missing
// profile document for an authenticated uid means registration was
// interrupted; callers see it as not found.
func (s *Service) translate(err error, uid string) error {
	var de dErrors.Error
	if errors.As(err, &de) {
		return err
	}
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "User profile not found")
	}
	s.logger.Error("favorites store failure", "uid", uid, "error", err)
	return dErrors.Wrap(err, dErrors.CodeInternal, "favorites operation failed")
}
