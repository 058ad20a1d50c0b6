package models

import (
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PreferredContact is how the submitter wants to be reached.
type PreferredContact string

const (
	PreferredContactEmail PreferredContact = "email"
	PreferredContactPhone PreferredContact = "phone"
)

// Valid reports whether p is one of the accepted values.
func (p PreferredContact) Valid() bool {
	return p == PreferredContactEmail || p == PreferredContactPhone
}

// ContactSubmission represents one contact-form entry
type ContactSubmission struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	FullName         string             `bson:"fullName" json:"fullName"`
	Email            string             `bson:"email" json:"email"`
	Phone            string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Subject          string             `bson:"subject" json:"subject"`
	Message          string             `bson:"message" json:"message"`
	PreferredContact PreferredContact   `bson:"preferredContact" json:"preferredContact"`
	CreatedAt        time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// ValidationError identifies the first field that breaks the record schema.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Reason)
}

// Validate checks required fields and the preferredContact enum.
func (c *ContactSubmission) Validate() error {
	required := []struct {
		field string
		value string
	}{
		{"fullName", c.FullName},
		{"email", c.Email},
		{"subject", c.Subject},
		{"message", c.Message},
		{"preferredContact", string(c.PreferredContact)},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return &ValidationError{Field: r.field, Reason: "is required"}
		}
	}

	if !c.PreferredContact.Valid() {
		return &ValidationError{
			Field:  "preferredContact",
			Reason: fmt.Sprintf("%q is not one of [email phone]", c.PreferredContact),
		}
	}
	return nil
}

// Stamp sets both timestamps to now. Mongo stores dates with millisecond
// precision so the value is truncated to match what a read returns.
func (c *ContactSubmission) Stamp(now time.Time) {
	now = now.UTC().Truncate(time.Millisecond)
	c.CreatedAt = now
	c.UpdatedAt = now
}
