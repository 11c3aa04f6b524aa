package service

import (
	"context"

	authmw "apotheca/pkg/platform/middleware/auth"
)

// MiddlewareAdapter exposes the gateway's token resolution under the
// middleware's IdentityResolver interface.
type MiddlewareAdapter struct {
	service *Service
}

func NewMiddlewareAdapter(s *Service) *MiddlewareAdapter {
	return &MiddlewareAdapter{service: s}
}

func (a *MiddlewareAdapter) ResolveIdentity(ctx context.Context, bearerHeaderValue string) (authmw.Identity, error) {
	ident, err := a.service.ResolveIdentity(ctx, bearerHeaderValue)
	if err != nil {
		return authmw.Identity{}, err
	}
	return authmw.Identity{UID: ident.UID, Email: ident.Email, Role: ident.Role}, nil
}
