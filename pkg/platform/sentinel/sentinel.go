package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Document stores and the identity
// provider return these (optionally wrapped) so services can translate them
// into domain errors.
//
// These represent factual states about resources, not validation failures:
// - ErrNotFound: document or account does not exist
// - ErrConflict: document or account already exists
//
// For validation errors (bad input, missing fields), use pkg/domain-errors
// directly.
var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
)
