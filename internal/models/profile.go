package models

import "time"

// Profile is the owner-keyed record the finance frontend maintains. This
// service only reads it, to tailor advisor output to the user's level.
type Profile struct {
	UserID         string
	FullName       string
	KnowledgeLevel string // beginner, intermediate, advanced
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
