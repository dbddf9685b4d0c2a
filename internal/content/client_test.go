package content

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeneratePostsTopicAndStyle(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/generate-content", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "req-1", r.Header.Get("X-Request-ID"))

		var payload map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, map[string]string{"topic": "photosynthesis", "learning_style": "visual"}, payload)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"explanation":"E","image_path":"/img/1.png"}`))
	}))
	t.Cleanup(server.Close)

	client, err := New(Config{BaseURL: server.URL + "/", HTTPClient: server.Client()})
	require.NoError(t, err)

	got, err := client.Generate(context.Background(), Request{
		Topic:         "photosynthesis",
		LearningStyle: StyleVisual,
		RequestID:     "req-1",
	})
	require.NoError(t, err)
	assert.Equal(t, LearningContent{Explanation: "E", ImagePath: "/img/1.png"}, got)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
	assert.Equal(t, server.URL+"/img/1.png", ImageURL(client.BaseURL(), got.ImagePath))
}

func TestGenerateRejectsEmptyTopicWithoutNetwork(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
	}))
	t.Cleanup(server.Close)

	client, err := New(Config{BaseURL: server.URL, HTTPClient: server.Client()})
	require.NoError(t, err)

	_, err = client.Generate(context.Background(), Request{LearningStyle: StyleStandard})
	assert.ErrorIs(t, err, ErrEmptyTopic)
	assert.Zero(t, atomic.LoadInt32(&hits))
}

func TestGenerateNon2xxIsRequestFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"flux quota exceeded"}`, http.StatusInternalServerError)
	}))
	t.Cleanup(server.Close)

	client, err := New(Config{BaseURL: server.URL, HTTPClient: server.Client()})
	require.NoError(t, err)

	_, err = client.Generate(context.Background(), Request{Topic: "gravity", LearningStyle: StyleStandard})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRequestFailed)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusInternalServerError, statusErr.StatusCode)
	assert.Contains(t, statusErr.Body, "flux quota exceeded")
}

func TestGenerateMalformedBodyIsRequestFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	t.Cleanup(server.Close)

	client, err := New(Config{BaseURL: server.URL, HTTPClient: server.Client()})
	require.NoError(t, err)

	_, err = client.Generate(context.Background(), Request{Topic: "gravity", LearningStyle: StyleAuditory})
	assert.ErrorIs(t, err, ErrRequestFailed)
}

func TestGenerateTransportErrorIsRequestFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client, err := New(Config{BaseURL: url, Timeout: time.Second})
	require.NoError(t, err)

	_, err = client.Generate(context.Background(), Request{Topic: "gravity", LearningStyle: StyleKinesthetic})
	assert.ErrorIs(t, err, ErrRequestFailed)
}

func TestNewRequiresBaseURL(t *testing.T) {
	_, err := New(Config{BaseURL: "   "})
	assert.Error(t, err)
}

func TestRequestValidateRejectsUnknownStyle(t *testing.T) {
	err := Request{Topic: "gravity", LearningStyle: "musical"}.Validate()
	assert.ErrorIs(t, err, ErrInvalidStyle)
}

func TestPickHTTPClientHonorsCustomClient(t *testing.T) {
	custom := &http.Client{Timeout: 42 * time.Second}
	assert.Same(t, custom, pickHTTPClient(custom, time.Second))
	assert.Equal(t, defaultHTTPTimeout, pickHTTPClient(nil, 0).Timeout)
	assert.Equal(t, 5*time.Second, pickHTTPClient(nil, 5*time.Second).Timeout)
}

func TestImageURL(t *testing.T) {
	cases := []struct {
		name string
		base string
		path string
		want string
	}{
		{"rooted", "http://localhost:8000", "/images/a.png", "http://localhost:8000/images/a.png"},
		{"trailing slash base", "http://localhost:8000/", "/images/a.png", "http://localhost:8000/images/a.png"},
		{"relative path", "http://localhost:8000", "images/a.png", "http://localhost:8000/images/a.png"},
		{"absolute url", "http://localhost:8000", "https://cdn.example.com/a.png", "https://cdn.example.com/a.png"},
		{"empty", "http://localhost:8000", "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ImageURL(tc.base, tc.path))
		})
	}
}
