package store

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"questengine/domain"
)

func TestRemoteClientLoad(t *testing.T) {
	records := []*domain.PersistenceRecord{
		{SessionID: "sess_1", OwnerID: "owner_1", Phase: domain.PhaseWaiting},
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/v1/owners/owner_1/sessions", r.URL.Path)
		json.NewEncoder(w).Encode(records)
	}))
	defer srv.Close()

	c := NewRemoteClient(srv.URL, 5*time.Second)
	got, err := c.Load(context.Background(), "owner_1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "sess_1", got[0].SessionID)
}

func TestRemoteClientSave(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var rec domain.PersistenceRecord
		require.NoError(t, json.NewDecoder(r.Body).Decode(&rec))
		assert.Equal(t, "sess_1", rec.SessionID)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := NewRemoteClient(srv.URL, 5*time.Second)
	err := c.Save(context.Background(), &domain.PersistenceRecord{SessionID: "sess_1", OwnerID: "owner_1"})
	require.NoError(t, err)
	assert.Equal(t, "/v1/sessions/sess_1", gotPath)
}

func TestRemoteClientSaveRejectsErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewRemoteClient(srv.URL, 5*time.Second)
	err := c.Save(context.Background(), &domain.PersistenceRecord{SessionID: "sess_1"})
	assert.Error(t, err)
}

func TestRemoteClientDeleteToleratesNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewRemoteClient(srv.URL, 5*time.Second)
	assert.NoError(t, c.Delete(context.Background(), "sess_gone"))
}
