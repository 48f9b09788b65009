package models

import "time"

// Group is a study group that carries its own message channel.
type Group struct {
	ID          int64
	Name        string
	Description string
	Category    string
	CreatedBy   string
	MemberCount int
	CreatedAt   time.Time
}
