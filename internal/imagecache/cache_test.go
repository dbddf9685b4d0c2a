package imagecache

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheReusesFreshFile(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Header().Set("Etag", `"v1"`)
		_, _ = w.Write([]byte("\x89PNG fake"))
	}))
	t.Cleanup(server.Close)

	cache, err := New(t.TempDir(), server.Client())
	require.NoError(t, err)
	ctx := context.Background()

	first, err := cache.Fetch(ctx, server.URL+"/images/cell.png")
	require.NoError(t, err)
	assert.Equal(t, ".png", filepath.Ext(first))
	second, err := cache.Fetch(ctx, server.URL+"/images/cell.png")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestCacheRevalidatesStaleFile(t *testing.T) {
	var conditional int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("If-None-Match") == `"v2"` {
			atomic.AddInt32(&conditional, 1)
			w.WriteHeader(http.StatusNotModified)
			return
		}
		w.Header().Set("Etag", `"v2"`)
		_, _ = w.Write([]byte("image-bytes"))
	}))
	t.Cleanup(server.Close)

	cache, err := New(t.TempDir(), server.Client())
	require.NoError(t, err)
	ctx := context.Background()

	p, err := cache.Fetch(ctx, server.URL+"/images/atom.png")
	require.NoError(t, err)

	old := time.Now().Add(-(cacheTTL + time.Hour))
	require.NoError(t, os.Chtimes(p, old, old))

	again, err := cache.Fetch(ctx, server.URL+"/images/atom.png")
	require.NoError(t, err)
	assert.Equal(t, p, again)
	assert.Equal(t, int32(1), atomic.LoadInt32(&conditional))

	data, err := os.ReadFile(again)
	require.NoError(t, err)
	assert.Equal(t, "image-bytes", string(data))
}

func TestCacheServesStaleCopyWhenServerFails(t *testing.T) {
	var fail atomic.Bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			http.Error(w, "gone", http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte("image-bytes"))
	}))
	t.Cleanup(server.Close)

	cache, err := New(t.TempDir(), server.Client())
	require.NoError(t, err)
	ctx := context.Background()

	p, err := cache.Fetch(ctx, server.URL+"/images/wave.jpg")
	require.NoError(t, err)
	old := time.Now().Add(-(cacheTTL + time.Hour))
	require.NoError(t, os.Chtimes(p, old, old))

	fail.Store(true)
	again, err := cache.Fetch(ctx, server.URL+"/images/wave.jpg")
	require.NoError(t, err)
	assert.Equal(t, p, again)
}

func TestCacheReportsDownloadFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "missing", http.StatusNotFound)
	}))
	t.Cleanup(server.Close)

	cache, err := New(t.TempDir(), server.Client())
	require.NoError(t, err)

	_, err = cache.Fetch(context.Background(), server.URL+"/images/none.png")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestCacheFailsOnUnsolicitedNotModified(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusNotModified)
	}))
	t.Cleanup(server.Close)

	dir := t.TempDir()
	cache, err := New(dir, server.Client())
	require.NoError(t, err)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err = cache.Fetch(ctx, server.URL+"/images/ghost.png")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected 304")
	assert.NotErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRevalidationReportsMetaWriteFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotModified)
	}))
	t.Cleanup(server.Close)

	cache, err := New(t.TempDir(), server.Client())
	require.NoError(t, err)
	imageURL := server.URL + "/images/leaf.png"
	imagePath, metaPath, partialPath := cache.pathsFor(cacheKey(imageURL), imageURL)
	require.NoError(t, os.WriteFile(imagePath, []byte("cached"), 0o644))
	// A directory in place of the metadata file makes the write fail.
	require.NoError(t, os.MkdirAll(metaPath, 0o755))
	info, err := os.Stat(imagePath)
	require.NoError(t, err)

	_, err = cache.download(context.Background(), imageURL, imagePath, metaPath, partialPath, cacheMeta{ETag: `"v1"`}, info)
	require.Error(t, err)

	// Fetch still falls back to the stale copy.
	stale := time.Now().Add(-2 * cacheTTL)
	require.NoError(t, os.Chtimes(imagePath, stale, stale))
	got, err := cache.Fetch(context.Background(), imageURL)
	require.NoError(t, err)
	assert.Equal(t, imagePath, got)
}

func TestCacheRejectsEmptyURL(t *testing.T) {
	cache, err := New(t.TempDir(), nil)
	require.NoError(t, err)
	_, err = cache.Fetch(context.Background(), " ")
	assert.Error(t, err)
}

func TestNewHonorsEnvDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "env-cache")
	t.Setenv(cacheEnvVar, dir)
	cache, err := New("", nil)
	require.NoError(t, err)
	assert.Equal(t, dir, cache.Dir())
}

func TestCacheKeyIsPathSafe(t *testing.T) {
	key := cacheKey("http://localhost:8000/images/a b/c.png")
	assert.NotEmpty(t, key)
	assert.False(t, strings.ContainsAny(key, "/: "))
	assert.Equal(t, ".img", imageExt("http://localhost:8000/images/raw"))
}
