package model

import "time"

// Item is a catalog entry nested under a category. Its CategoryID is fixed
// at creation: items never move between categories. Like category names,
// item names are unique globally.
type Item struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CategoryID  string    `json:"category_id"`
	CreatedAt   time.Time `json:"-"`
	UpdatedAt   time.Time `json:"-"`
}
