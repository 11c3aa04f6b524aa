// Package comments implements the comment subcollection under each pharmacy
// document. Creation requires the parent to exist; deletion requires the
// caller to be the comment's author.
package comments

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"apotheca/internal/pharmacy"
	"apotheca/internal/platform/metrics"
	dErrors "apotheca/pkg/domain-errors"
	"apotheca/pkg/platform/sentinel"
)

const (
	minStars = 1
	maxStars = 5
)

type Service struct {
	pharmacies pharmacy.Store
	logger     *slog.Logger
	metrics    *metrics.Metrics
}

func New(pharmacies pharmacy.Store, logger *slog.Logger, m *metrics.Metrics) *Service {
	return &Service{pharmacies: pharmacies, logger: logger, metrics: m}
}

// Create attaches a comment to a pharmacy on behalf of uid. The author is
// taken from the verified identity, never the request body.
func (s *Service) Create(ctx context.Context, pharmacyID, uid, text string, stars int) (pharmacy.Comment, error) {
	if text == "" {
		return pharmacy.Comment{}, dErrors.New(dErrors.CodeInvalidInput, "Comment text is required")
	}
	if stars < minStars || stars > maxStars {
		return pharmacy.Comment{}, dErrors.New(dErrors.CodeInvalidInput, "Stars must be between 1 and 5")
	}

	exists, err := s.pharmacies.Exists(ctx, pharmacyID)
	if err != nil {
		return pharmacy.Comment{}, s.internal(err, "existence check failed")
	}
	if !exists {
		return pharmacy.Comment{}, dErrors.New(dErrors.CodeNotFound, "Pharmacy not found")
	}

	created, err := s.pharmacies.AddComment(ctx, pharmacyID, pharmacy.Comment{
		UserID:    uid,
		Comment:   text,
		Stars:     stars,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return pharmacy.Comment{}, dErrors.New(dErrors.CodeNotFound, "Pharmacy not found")
		}
		return pharmacy.Comment{}, s.internal(err, "add comment failed")
	}

	s.metrics.IncCommentsCreated()
	return created, nil
}

// List returns all comments under a pharmacy. The parent must exist so a
// wrong id reads as 404, not an empty list.
func (s *Service) List(ctx context.Context, pharmacyID string) ([]pharmacy.Comment, error) {
	exists, err := s.pharmacies.Exists(ctx, pharmacyID)
	if err != nil {
		return nil, s.internal(err, "existence check failed")
	}
	if !exists {
		return nil, dErrors.New(dErrors.CodeNotFound, "Pharmacy not found")
	}

	list, err := s.pharmacies.ListComments(ctx, pharmacyID)
	if err != nil {
		return nil, s.internal(err, "list comments failed")
	}
	if list == nil {
		list = []pharmacy.Comment{}
	}
	return list, nil
}

// Delete removes a comment if and only if uid authored it.
func (s *Service) Delete(ctx context.Context, pharmacyID, commentID, uid string) error {
	c, err := s.pharmacies.GetComment(ctx, pharmacyID, commentID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "Comment not found")
		}
		return s.internal(err, "get comment failed")
	}
	if c.UserID != uid {
		return dErrors.New(dErrors.CodeForbidden, "You can only delete your own comments")
	}

	if err := s.pharmacies.DeleteComment(ctx, pharmacyID, commentID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "Comment not found")
		}
		return s.internal(err, "delete comment failed")
	}
	return nil
}

func (s *Service) internal(err error, msg string) error {
	s.logger.Error(msg, "error", err)
	return dErrors.Wrap(err, dErrors.CodeInternal, "comment operation failed")
}
