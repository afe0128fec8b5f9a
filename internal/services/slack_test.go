package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hrportal-backend/internal/events"
)

func TestSlackClient_PublishRegistered(t *testing.T) {
	var got SlackMessage
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewSlackClient(srv.URL, "https://hr.example.com/")
	ev := events.NewAccountRegistered(1, "id-1", "alice@acme.com", "Acme", "aliceacme.com_id.pdf")
	require.NoError(t, c.Publish(context.Background(), events.SubjectAccountRegistered, ev))

	assert.Contains(t, got.Text, "alice@acme.com")
	require.Len(t, got.Blocks, 3)
	assert.Contains(t, got.Blocks[2].Text.Text, "https://hr.example.com/admin/pending_hr")
}

func TestSlackClient_PublishError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte("invalid_token"))
	}))
	defer srv.Close()

	c := NewSlackClient(srv.URL, "")
	err := c.Publish(context.Background(), events.SubjectAccountApproved, events.NewAccountApproved(1, "id-1"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid_token")
}

func TestSlackClient_IgnoresUnknownEvents(t *testing.T) {
	c := NewSlackClient("http://127.0.0.1:0", "")
	assert.NoError(t, c.Publish(context.Background(), "other", struct{}{}))
}
