package domain

import (
	"time"

	"github.com/google/uuid"
)

// DefaultLanguage is applied to students and questions created without one.
const DefaultLanguage = "en"

// Student is a registered learner profile. A user owns at most one profile;
// the profile is immutable once created.
type Student struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	FirstName   string
	LastName    string
	Email       string
	DateOfBirth *string
	School      string
	Address     *string
	City        *string
	State       *string
	ZipCode     *string
	Country     string
	Grade       string
	ParentName  *string
	ParentEmail *string
	ParentPhone *string
	Language    string
	Timezone    *string
	CreatedAt   time.Time
}

// NewStudentParams carries caller-supplied fields for profile creation.
// ID and CreatedAt are generated by the store.
type NewStudentParams struct {
	UserID      uuid.UUID
	FirstName   string
	LastName    string
	Email       string
	DateOfBirth *string
	School      string
	Address     *string
	City        *string
	State       *string
	ZipCode     *string
	Country     string
	Grade       string
	ParentName  *string
	ParentEmail *string
	ParentPhone *string
	Language    string
	Timezone    *string
}
