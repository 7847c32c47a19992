package domain

import "time"

// Gender enumerates accepted user genders.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// Valid reports whether g is one of the accepted gender values.
func (g Gender) Valid() bool {
	return g == GenderMale || g == GenderFemale
}

// User represents a registered account of the system.
type User struct {
	ID              int64
	Username        string
	HashedPassword  string
	Age             int
	Gender          Gender
	ProfileImageURL string
	LastLogin       *time.Time
	CreatedAt       time.Time
}
