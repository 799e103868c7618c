package model

import "time"

// Category is a top-level catalog grouping owned by a single user.
//
// Name uniqueness is global across all categories, not per owner. UserID is
// set at creation and never changes. Timestamps are bookkeeping only and are
// not part of the wire format, which is why they carry the "-" tag.
type Category struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}
