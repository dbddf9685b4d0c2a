// Package imagecache downloads generated illustrations into a local cache
// and renders them as terminal previews.
package imagecache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

const (
	cacheEnvVar        = "EDUASSIST_CACHE_DIR"
	cacheSubdir        = "eduassist/images"
	cacheTTL           = 24 * time.Hour
	partialSuffix      = ".part"
	metaSuffix         = ".meta"
	defaultHTTPTimeout = 60 * time.Second
	maxImageBytes      = 20 << 20
)

// Cache stores fetched images on disk keyed by URL.
type Cache struct {
	dir    string
	client *http.Client
}

type cacheMeta struct {
	URL          string    `json:"url"`
	ETag         string    `json:"etag"`
	LastModified string    `json:"lastModified"`
	ContentType  string    `json:"contentType"`
	CachedAt     time.Time `json:"cachedAt"`
	Size         int64     `json:"size"`
}

// New opens (and creates) the cache directory. An empty dir falls back to
// $EDUASSIST_CACHE_DIR, then the user cache directory.
func New(dir string, client *http.Client) (*Cache, error) {
	if dir == "" {
		dir = os.Getenv(cacheEnvVar)
	}
	if dir == "" {
		base, err := os.UserCacheDir()
		if err != nil {
			base = filepath.Join(os.TempDir(), "eduassist-cache")
		}
		dir = filepath.Join(base, cacheSubdir)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	if client == nil {
		client = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &Cache{dir: dir, client: client}, nil
}

// Dir reports where images are stored.
func (c *Cache) Dir() string {
	return c.dir
}

// Fetch returns a local path for imageURL, downloading or revalidating as
// needed. A stale copy is served when revalidation fails.
func (c *Cache) Fetch(ctx context.Context, imageURL string) (string, error) {
	if strings.TrimSpace(imageURL) == "" {
		return "", fmt.Errorf("image url is empty")
	}
	key := cacheKey(imageURL)
	imagePath, metaPath, partialPath := c.pathsFor(key, imageURL)

	if info, err := os.Stat(imagePath); err == nil && time.Since(info.ModTime()) < cacheTTL && info.Size() > 0 {
		return imagePath, nil
	}

	meta, _ := readMeta(metaPath)
	info, _ := os.Stat(imagePath)
	p, err := c.download(ctx, imageURL, imagePath, metaPath, partialPath, meta, info)
	if err == nil {
		return p, nil
	}
	if info != nil && info.Size() > 0 {
		return imagePath, nil
	}
	return "", err
}

func (c *Cache) download(ctx context.Context, imageURL, imagePath, metaPath, partialPath string, meta cacheMeta, current os.FileInfo) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return "", err
	}
	if current != nil && current.Size() > 0 {
		if meta.ETag != "" {
			req.Header.Set("If-None-Match", meta.ETag)
		}
		if meta.LastModified != "" {
			req.Header.Set("If-Modified-Since", meta.LastModified)
		}
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusNotModified:
		// Only a conditional request may be answered with 304.
		if current == nil || current.Size() == 0 {
			return "", fmt.Errorf("image download failed: unexpected %s", resp.Status)
		}
		now := time.Now()
		if err := os.Chtimes(imagePath, now, now); err != nil {
			return "", fmt.Errorf("touch cached image: %w", err)
		}
		meta.CachedAt = now.UTC()
		if err := writeMeta(metaPath, meta); err != nil {
			return "", err
		}
		return imagePath, nil
	case http.StatusOK:
		return c.saveBody(resp, imagePath, metaPath, partialPath)
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("image download failed: %s (%s)", resp.Status, strings.TrimSpace(string(body)))
	}
}

func (c *Cache) saveBody(resp *http.Response, imagePath, metaPath, partialPath string) (string, error) {
	file, err := os.OpenFile(partialPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return "", err
	}
	written, err := io.Copy(file, io.LimitReader(resp.Body, maxImageBytes+1))
	if err != nil {
		file.Close()
		os.Remove(partialPath)
		return "", err
	}
	if err := file.Close(); err != nil {
		return "", err
	}
	if written > maxImageBytes {
		os.Remove(partialPath)
		return "", fmt.Errorf("image exceeds %d bytes", maxImageBytes)
	}
	if written == 0 {
		os.Remove(partialPath)
		return "", fmt.Errorf("image download returned an empty body")
	}
	if err := os.Rename(partialPath, imagePath); err != nil {
		return "", err
	}

	meta := cacheMeta{
		URL:          resp.Request.URL.String(),
		ETag:         resp.Header.Get("Etag"),
		LastModified: resp.Header.Get("Last-Modified"),
		ContentType:  resp.Header.Get("Content-Type"),
		CachedAt:     time.Now().UTC(),
		Size:         written,
	}
	if err := writeMeta(metaPath, meta); err != nil {
		return "", err
	}
	return imagePath, nil
}

func (c *Cache) pathsFor(key, imageURL string) (string, string, string) {
	base := filepath.Join(c.dir, key+imageExt(imageURL))
	return base, filepath.Join(c.dir, key+metaSuffix), filepath.Join(c.dir, key+partialSuffix)
}

func cacheKey(imageURL string) string {
	sum := sha1.Sum([]byte(imageURL))
	return hex.EncodeToString(sum[:])
}

func imageExt(imageURL string) string {
	parsed, err := url.Parse(imageURL)
	if err != nil {
		return ".img"
	}
	ext := strings.ToLower(path.Ext(parsed.Path))
	switch ext {
	case ".png", ".jpg", ".jpeg", ".gif", ".webp":
		return ext
	default:
		return ".img"
	}
}

func readMeta(p string) (cacheMeta, error) {
	data, err := os.ReadFile(p)
	if err != nil {
		return cacheMeta{}, err
	}
	var meta cacheMeta
	if err := json.Unmarshal(data, &meta); err != nil {
		return cacheMeta{}, err
	}
	return meta, nil
}

func writeMeta(p string, meta cacheMeta) error {
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(p, data, 0o644)
}
