package completion

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientComplete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test-model", req.Model)
		require.Len(t, req.Messages, 1)
		assert.Equal(t, "say hi", req.Messages[0].Content)

		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": "  hi there  "}},
			},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-key", "test-model", 5*time.Second)
	text, err := c.Complete(context.Background(), "say hi")
	require.NoError(t, err)
	assert.Equal(t, "hi there", text)
}

func TestClientCompleteErrors(t *testing.T) {
	cases := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"http error status", func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "overloaded", http.StatusServiceUnavailable)
		}},
		{"gateway error payload", func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]interface{}{
				"error": map[string]string{"message": "rate limited", "type": "rate_limit"},
			})
		}},
		{"no choices", func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]interface{}{"choices": []interface{}{}})
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(tc.handler)
			defer srv.Close()

			c := NewClient(srv.URL, "", "test-model", 5*time.Second)
			_, err := c.Complete(context.Background(), "hello")
			assert.Error(t, err)
		})
	}
}

func TestMockServiceDeterministic(t *testing.T) {
	m := NewMockService()

	text, err := m.Complete(context.Background(), "persona block\nRespond to the party.")
	require.NoError(t, err)
	assert.Equal(t, "[MOCK] Respond to the party.", text)

	again, err := m.Complete(context.Background(), "persona block\nRespond to the party.")
	require.NoError(t, err)
	assert.Equal(t, text, again)
}

func TestMockServiceHonorsContext(t *testing.T) {
	m := NewMockService()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := m.Complete(ctx, "hello")
	assert.Error(t, err)
}

func TestNewServiceMockMode(t *testing.T) {
	t.Setenv(EnvMode, ModeMock)
	svc := NewService("http://unused", "", "m", time.Second)
	_, ok := svc.(*MockService)
	assert.True(t, ok)

	t.Setenv(EnvMode, "")
	svc = NewService("http://unused", "", "m", time.Second)
	_, ok = svc.(*Client)
	assert.True(t, ok)
}
