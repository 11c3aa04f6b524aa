package pharmacy

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"apotheca/internal/profile"
	dErrors "apotheca/pkg/domain-errors"
	"apotheca/pkg/platform/sentinel"
)

// Service serves the pharmacy directory. Reads are public; writes require
// the ADMIN role from the caller's verified identity.
type Service struct {
	store  Store
	logger *slog.Logger
}

func NewService(store Store, logger *slog.Logger) *Service {
	return &Service{store: store, logger: logger}
}

func (s *Service) List(ctx context.Context) ([]Pharmacy, error) {
	list, err := s.store.List(ctx)
	if err != nil {
		s.logger.Error("pharmacy list failed", "error", err)
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "pharmacy listing failed")
	}
	if list == nil {
		list = []Pharmacy{}
	}
	return list, nil
}

func (s *Service) Get(ctx context.Context, id string) (Pharmacy, error) {
	p, err := s.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return Pharmacy{}, dErrors.New(dErrors.CodeNotFound, "Pharmacy not found")
		}
		s.logger.Error("pharmacy get failed", "id", id, "error", err)
		return Pharmacy{}, dErrors.Wrap(err, dErrors.CodeInternal, "pharmacy lookup failed")
	}
	return p, nil
}

// Create registers a new pharmacy document. Only admins may call it.
func (s *Service) Create(ctx context.Context, role string, p Pharmacy) (Pharmacy, error) {
	if role != profile.RoleAdmin {
		return Pharmacy{}, dErrors.New(dErrors.CodeForbidden, "Admin role required")
	}
	if p.Name == "" {
		return Pharmacy{}, dErrors.New(dErrors.CodeInvalidInput, "Pharmacy name is required")
	}

	p.ID = uuid.NewString()
	p.CreatedAt = time.Now().UTC()
	if err := s.store.Save(ctx, p); err != nil {
		s.logger.Error("pharmacy create failed", "error", err)
		return Pharmacy{}, dErrors.Wrap(err, dErrors.CodeInternal, "pharmacy create failed")
	}
	return p, nil
}
