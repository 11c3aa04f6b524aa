package pharmacy

import "time"

// Pharmacy is a directory entry and the parent document for a comment
// subcollection.
type Pharmacy struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Comment lives in the pharmacies/<id>/comments subcollection. UserID is a
// non-owning back-reference used only for authorization; it is immutable
// after creation.
type Comment struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Comment   string    `json:"comment"`
	Stars     int       `json:"stars"`
	CreatedAt time.Time `json:"createdAt"`
}
