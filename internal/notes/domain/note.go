package domain

import "time"

// Note is a plain text note owned by a single user.
type Note struct {
	ID         string
	OwnerID    string
	Title      string
	Content    string
	CreatedAt  time.Time
	LastEdited time.Time
}
