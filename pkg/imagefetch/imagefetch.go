// Package imagefetch retrieves remote images over HTTP with bounded
// fetch time and payload size, for forwarding to vision models.
package imagefetch

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

var (
	// ErrFetchFailed indicates the remote server could not be reached or returned a non-200 status.
	ErrFetchFailed = errors.New("image fetch failed")
	// ErrTooLarge indicates the image exceeds the configured size ceiling.
	ErrTooLarge = errors.New("image exceeds maximum size")
	// ErrNotImage indicates the response is not an image content type.
	ErrNotImage = errors.New("response is not an image")
)

// Image holds fetched image bytes with their content type.
type Image struct {
	Data        []byte
	ContentType string
}

// DataURI encodes the image as a base64 data URI suitable for vision requests.
func (i *Image) DataURI() string {
	return fmt.Sprintf("data:%s;base64,%s", i.ContentType, base64.StdEncoding.EncodeToString(i.Data))
}

// Fetcher retrieves remote images within configured bounds.
type Fetcher struct {
	client  *http.Client
	maxSize int64
}

// New creates a Fetcher from the given configuration.
func New(cfg *Config) *Fetcher {
	return &Fetcher{
		client:  &http.Client{Timeout: cfg.TimeoutDuration()},
		maxSize: cfg.MaxImageSizeBytes(),
	}
}

// Fetch downloads the image at url. The read is capped at the configured
// maximum size; responses that exceed it return ErrTooLarge.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d from %s", ErrFetchFailed, resp.StatusCode, url)
	}

	contentType := resp.Header.Get("Content-Type")
	if idx := strings.Index(contentType, ";"); idx >= 0 {
		contentType = strings.TrimSpace(contentType[:idx])
	}
	if !strings.HasPrefix(contentType, "image/") {
		return nil, fmt.Errorf("%w: content type %q", ErrNotImage, contentType)
	}

	if resp.ContentLength > f.maxSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrTooLarge, resp.ContentLength)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, f.maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %w", ErrFetchFailed, err)
	}
	if int64(len(data)) > f.maxSize {
		return nil, fmt.Errorf("%w: over %d bytes", ErrTooLarge, f.maxSize)
	}

	return &Image{Data: data, ContentType: contentType}, nil
}
