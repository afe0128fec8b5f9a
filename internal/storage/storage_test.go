package storage

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	"hrportal-backend/internal/models"
)

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(&pq.Error{Code: "23505"}))
	assert.True(t, isUniqueViolation(fmt.Errorf("insert: %w", &pq.Error{Code: "23505"})))
	assert.False(t, isUniqueViolation(&pq.Error{Code: "23503"}))
	assert.False(t, isUniqueViolation(errors.New("boom")))
}

func TestAccountDocument_ToModel(t *testing.T) {
	id := bson.NewObjectID()
	site := "https://acme.com"
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	doc := accountDocument{
		ID:              id,
		Name:            "Alice",
		Email:           "alice@acme.com",
		PasswordHash:    "$2a$10$hash",
		CompanyName:     "Acme",
		JobTitle:        "Recruiter",
		CompanyWebsite:  &site,
		VerificationDoc: "aliceacme.com_id.pdf",
		CreatedAt:       created,
	}

	got := doc.toModel()
	assert.Equal(t, id.Hex(), got.ID)
	assert.Equal(t, "alice@acme.com", got.Email)
	assert.Equal(t, "$2a$10$hash", got.PasswordHash)
	assert.Equal(t, "https://acme.com", got.Website())
	assert.False(t, got.Verified)
	assert.Equal(t, created, got.CreatedAt)
}

func TestMemoryStorage(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStorage()

	_, err := s.GetByEmail(ctx, "alice@acme.com")
	assert.ErrorIs(t, err, ErrAccountNotFound)

	alice := &models.HRAccount{Email: "alice@acme.com", Name: "Alice"}
	require.NoError(t, s.Create(ctx, alice))
	require.NotEmpty(t, alice.ID)

	err = s.Create(ctx, &models.HRAccount{Email: "alice@acme.com"})
	assert.ErrorIs(t, err, ErrEmailTaken)

	bob := &models.HRAccount{Email: "bob@corp.io", Name: "Bob"}
	require.NoError(t, s.Create(ctx, bob))

	pending, err := s.ListPending(ctx)
	require.NoError(t, err)
	assert.Len(t, pending, 2)

	require.NoError(t, s.Approve(ctx, alice.ID))
	assert.ErrorIs(t, s.Approve(ctx, "nope"), ErrAccountNotFound)

	got, err := s.GetByEmail(ctx, "alice@acme.com")
	require.NoError(t, err)
	assert.True(t, got.Verified)

	pending, err = s.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "bob@corp.io", pending[0].Email)
}
