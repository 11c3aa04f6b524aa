package pharmacy

import "context"

// Store persists pharmacy documents and their comment subcollections.
// Implementations return sentinel.ErrNotFound for absent documents; comment
// operations require the parent pharmacy to exist. Comment IDs are assigned
// by the store on add.
type Store interface {
	Save(ctx context.Context, p Pharmacy) error
	Get(ctx context.Context, id string) (Pharmacy, error)
	List(ctx context.Context) ([]Pharmacy, error)
	Exists(ctx context.Context, id string) (bool, error)

	AddComment(ctx context.Context, pharmacyID string, c Comment) (Comment, error)
	GetComment(ctx context.Context, pharmacyID, commentID string) (Comment, error)
	ListComments(ctx context.Context, pharmacyID string) ([]Comment, error)
	DeleteComment(ctx context.Context, pharmacyID, commentID string) error
}
