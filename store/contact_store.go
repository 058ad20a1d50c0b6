package store

import (
	"context"
	"fmt"
	"time"

	"github.com/raushankrgupta/contact-form-service/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// CollectionName is where contact submissions are stored.
const CollectionName = "Form"

const saveTimeout = 10 * time.Second

// ContactStore persists submissions to MongoDB. It only ever inserts.
type ContactStore struct {
	collection *mongo.Collection
	now        func() time.Time
}

// NewContactStore returns a store writing to the Form collection of db.
func NewContactStore(db *mongo.Database) *ContactStore {
	return NewContactStoreWithCollection(db.Collection(CollectionName))
}

// NewContactStoreWithCollection wraps an existing collection handle.
func NewContactStoreWithCollection(coll *mongo.Collection) *ContactStore {
	return &ContactStore{collection: coll, now: time.Now}
}

// Save validates sub, stamps it and inserts it as a new document.
// A schema violation is returned as *models.ValidationError without touching
// the database.
func (s *ContactStore) Save(ctx context.Context, sub *models.ContactSubmission) (string, error) {
	if err := sub.Validate(); err != nil {
		return "", err
	}

	sub.ID = primitive.NewObjectID()
	sub.Stamp(s.now())

	ctx, cancel := context.WithTimeout(ctx, saveTimeout)
	defer cancel()

	if _, err := s.collection.InsertOne(ctx, sub); err != nil {
		return "", fmt.Errorf("failed to insert contact submission: %w", err)
	}
	return sub.ID.Hex(), nil
}
