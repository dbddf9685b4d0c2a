// Package content talks to the remote content-generation API.
package content

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	generatePath          = "/generate-content"
	requestIDHeader       = "X-Request-ID"
	errorBodyPreviewBytes = 512
	defaultHTTPTimeout    = 2 * time.Minute
)

// Request is the JSON body posted to /generate-content.
type Request struct {
	Topic         string        `json:"topic" validate:"required"`
	LearningStyle LearningStyle `json:"learning_style" validate:"required,oneof=standard visual auditory kinesthetic"`
	// RequestID is sent as X-Request-ID when set; it never enters the body.
	RequestID string `json:"-"`
}

// LearningContent is the explanation/image pair returned for a topic.
type LearningContent struct {
	Explanation string `json:"explanation"`
	ImagePath   string `json:"image_path"`
}

var validate = validator.New()

// Validate checks the request before it leaves the process.
func (r Request) Validate() error {
	err := validate.Struct(r)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		for _, fe := range fieldErrs {
			switch fe.StructField() {
			case "Topic":
				return ErrEmptyTopic
			case "LearningStyle":
				return fmt.Errorf("%w: %q", ErrInvalidStyle, r.LearningStyle)
			}
		}
	}
	return err
}

// Config describes how to reach the content service.
type Config struct {
	BaseURL    string
	HTTPClient *http.Client
	Timeout    time.Duration
}

// Client generates learning content.
type Client interface {
	Generate(ctx context.Context, req Request) (LearningContent, error)
	BaseURL() string
}

// New returns an HTTP-backed Client.
func New(cfg Config) (Client, error) {
	base := NormalizeBaseURL(cfg.BaseURL)
	if base == "" {
		return nil, fmt.Errorf("content API base URL is required")
	}
	return &httpClient{
		base:   base,
		client: pickHTTPClient(cfg.HTTPClient, cfg.Timeout),
	}, nil
}

func pickHTTPClient(custom *http.Client, timeout time.Duration) *http.Client {
	if custom != nil {
		return custom
	}
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}
	// Text plus image generation routinely takes longer than a minute.
	return &http.Client{Timeout: timeout}
}

type httpClient struct {
	base   string
	client *http.Client
}

func (c *httpClient) BaseURL() string {
	return c.base
}

func (c *httpClient) Generate(ctx context.Context, in Request) (LearningContent, error) {
	if err := in.Validate(); err != nil {
		return LearningContent{}, err
	}
	buf, err := json.Marshal(in)
	if err != nil {
		return LearningContent{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+generatePath, bytes.NewReader(buf))
	if err != nil {
		return LearningContent{}, fmt.Errorf("%w: build request: %w", ErrRequestFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if in.RequestID != "" {
		req.Header.Set(requestIDHeader, in.RequestID)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return LearningContent{}, fmt.Errorf("%w: %w", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyPreviewBytes))
		return LearningContent{}, &StatusError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       strings.TrimSpace(string(body)),
		}
	}

	var parsed LearningContent
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return LearningContent{}, fmt.Errorf("%w: decode response: %w", ErrRequestFailed, err)
	}
	return parsed, nil
}

// NormalizeBaseURL trims whitespace and trailing slashes.
func NormalizeBaseURL(base string) string {
	return strings.TrimRight(strings.TrimSpace(base), "/")
}

// ImageURL joins the API base with a server-relative image path.
func ImageURL(base, imagePath string) string {
	imagePath = strings.TrimSpace(imagePath)
	if imagePath == "" {
		return ""
	}
	if strings.HasPrefix(imagePath, "http://") || strings.HasPrefix(imagePath, "https://") {
		return imagePath
	}
	if !strings.HasPrefix(imagePath, "/") {
		imagePath = "/" + imagePath
	}
	return NormalizeBaseURL(base) + imagePath
}
