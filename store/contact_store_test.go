package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/raushankrgupta/contact-form-service/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func janeDoe() *models.ContactSubmission {
	return &models.ContactSubmission{
		FullName:         "Jane Doe",
		Email:            "jane@example.com",
		Phone:            "555-1234",
		Subject:          "Pricing",
		Message:          "How much?",
		PreferredContact: models.PreferredContactEmail,
	}
}

func TestContactStore_Save(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("inserts document", func(mt *mtest.T) {
		fixed := time.Date(2026, 10, 15, 9, 30, 0, 0, time.UTC)
		s := NewContactStoreWithCollection(mt.Coll)
		s.now = func() time.Time { return fixed }

		mt.AddMockResponses(mtest.CreateSuccessResponse())

		sub := janeDoe()
		id, err := s.Save(context.Background(), sub)
		require.NoError(mt, err)
		assert.Len(mt, id, 24)
		assert.Equal(mt, sub.ID.Hex(), id)
		assert.Equal(mt, fixed, sub.CreatedAt)
		assert.Equal(mt, sub.CreatedAt, sub.UpdatedAt)

		started := mt.GetStartedEvent()
		require.NotNil(mt, started)
		assert.Equal(mt, "insert", started.CommandName)

		docs, ok := started.Command.Lookup("documents").ArrayOK()
		require.True(mt, ok)
		values, err := docs.Values()
		require.NoError(mt, err)
		require.Len(mt, values, 1)

		var stored models.ContactSubmission
		require.NoError(mt, bson.Unmarshal(values[0].Document(), &stored))
		assert.Equal(mt, sub.ID, stored.ID)
		assert.Equal(mt, "Jane Doe", stored.FullName)
		assert.Equal(mt, "jane@example.com", stored.Email)
		assert.Equal(mt, "555-1234", stored.Phone)
		assert.Equal(mt, "Pricing", stored.Subject)
		assert.Equal(mt, "How much?", stored.Message)
		assert.Equal(mt, models.PreferredContactEmail, stored.PreferredContact)
		assert.True(mt, stored.CreatedAt.Equal(fixed))
		assert.True(mt, stored.UpdatedAt.Equal(stored.CreatedAt))
	})

	mt.Run("same payload twice makes two documents", func(mt *mtest.T) {
		s := NewContactStoreWithCollection(mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse(), mtest.CreateSuccessResponse())

		first, err := s.Save(context.Background(), janeDoe())
		require.NoError(mt, err)
		second, err := s.Save(context.Background(), janeDoe())
		require.NoError(mt, err)
		assert.NotEqual(mt, first, second)
	})

	mt.Run("validation error skips database", func(mt *mtest.T) {
		s := NewContactStoreWithCollection(mt.Coll)

		sub := janeDoe()
		sub.Subject = ""
		_, err := s.Save(context.Background(), sub)

		var vErr *models.ValidationError
		require.True(mt, errors.As(err, &vErr))
		assert.Equal(mt, "subject", vErr.Field)
		assert.Nil(mt, mt.GetStartedEvent())
	})

	mt.Run("write error", func(mt *mtest.T) {
		s := NewContactStoreWithCollection(mt.Coll)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    121,
			Message: "Document failed validation",
		}))

		_, err := s.Save(context.Background(), janeDoe())
		require.Error(mt, err)
		assert.Contains(mt, err.Error(), "failed to insert contact submission")
	})
}
