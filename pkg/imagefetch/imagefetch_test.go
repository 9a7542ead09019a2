package imagefetch_test

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/JaimeStill/muse/pkg/imagefetch"
)

func newFetcher(maxSize string) *imagefetch.Fetcher {
	cfg := imagefetch.Config{Timeout: "5s", MaxImageSize: maxSize}
	return imagefetch.New(&cfg)
}

func TestFetch(t *testing.T) {
	payload := bytes.Repeat([]byte{0xAB}, 256)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/image.png":
			w.Header().Set("Content-Type", "image/png")
			w.Write(payload)
		case "/charset.jpg":
			w.Header().Set("Content-Type", "image/jpeg; charset=binary")
			w.Write(payload)
		case "/page.html":
			w.Header().Set("Content-Type", "text/html")
			w.Write([]byte("<html></html>"))
		case "/huge.png":
			w.Header().Set("Content-Type", "image/png")
			w.Write(bytes.Repeat([]byte{0xCD}, 2048))
		case "/missing":
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	t.Run("success", func(t *testing.T) {
		img, err := newFetcher("1KB").Fetch(context.Background(), server.URL+"/image.png")
		if err != nil {
			t.Fatalf("fetch failed: %v", err)
		}
		if img.ContentType != "image/png" {
			t.Errorf("ContentType = %q, want image/png", img.ContentType)
		}
		if !bytes.Equal(img.Data, payload) {
			t.Errorf("data mismatch: got %d bytes", len(img.Data))
		}
	})

	t.Run("strips content type parameters", func(t *testing.T) {
		img, err := newFetcher("1KB").Fetch(context.Background(), server.URL+"/charset.jpg")
		if err != nil {
			t.Fatalf("fetch failed: %v", err)
		}
		if img.ContentType != "image/jpeg" {
			t.Errorf("ContentType = %q, want image/jpeg", img.ContentType)
		}
	})

	t.Run("rejects non-image", func(t *testing.T) {
		_, err := newFetcher("1KB").Fetch(context.Background(), server.URL+"/page.html")
		if !errors.Is(err, imagefetch.ErrNotImage) {
			t.Errorf("error = %v, want ErrNotImage", err)
		}
	})

	t.Run("rejects oversized body", func(t *testing.T) {
		_, err := newFetcher("1KB").Fetch(context.Background(), server.URL+"/huge.png")
		if !errors.Is(err, imagefetch.ErrTooLarge) {
			t.Errorf("error = %v, want ErrTooLarge", err)
		}
	})

	t.Run("non-200 status", func(t *testing.T) {
		_, err := newFetcher("1KB").Fetch(context.Background(), server.URL+"/missing")
		if !errors.Is(err, imagefetch.ErrFetchFailed) {
			t.Errorf("error = %v, want ErrFetchFailed", err)
		}
	})

	t.Run("unreachable host", func(t *testing.T) {
		_, err := newFetcher("1KB").Fetch(context.Background(), "http://127.0.0.1:1/nope.png")
		if !errors.Is(err, imagefetch.ErrFetchFailed) {
			t.Errorf("error = %v, want ErrFetchFailed", err)
		}
	})
}

func TestImageDataURI(t *testing.T) {
	img := imagefetch.Image{Data: []byte("abc"), ContentType: "image/png"}

	uri := img.DataURI()
	if !strings.HasPrefix(uri, "data:image/png;base64,") {
		t.Errorf("DataURI = %q, want data URI prefix", uri)
	}
	if !strings.HasSuffix(uri, "YWJj") {
		t.Errorf("DataURI = %q, want base64 payload YWJj", uri)
	}
}

func TestConfigFinalize(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg := imagefetch.Config{}
		if err := cfg.Finalize(nil); err != nil {
			t.Fatalf("finalize failed: %v", err)
		}
		if cfg.Timeout != "15s" {
			t.Errorf("Timeout = %q, want 15s", cfg.Timeout)
		}
		if cfg.MaxImageSize != "10MB" {
			t.Errorf("MaxImageSize = %q, want 10MB", cfg.MaxImageSize)
		}
	})

	t.Run("env overrides", func(t *testing.T) {
		t.Setenv("TEST_FETCH_TIMEOUT", "30s")
		t.Setenv("TEST_FETCH_MAX", "2MB")

		cfg := imagefetch.Config{}
		env := &imagefetch.Env{Timeout: "TEST_FETCH_TIMEOUT", MaxImageSize: "TEST_FETCH_MAX"}
		if err := cfg.Finalize(env); err != nil {
			t.Fatalf("finalize failed: %v", err)
		}
		if cfg.Timeout != "30s" {
			t.Errorf("Timeout = %q, want 30s", cfg.Timeout)
		}
		if cfg.MaxImageSize != "2MB" {
			t.Errorf("MaxImageSize = %q, want 2MB", cfg.MaxImageSize)
		}
	})

	t.Run("invalid timeout", func(t *testing.T) {
		cfg := imagefetch.Config{Timeout: "soon"}
		if err := cfg.Finalize(nil); err == nil {
			t.Fatal("expected validation error")
		}
	})

	t.Run("invalid size", func(t *testing.T) {
		cfg := imagefetch.Config{MaxImageSize: "plenty"}
		if err := cfg.Finalize(nil); err == nil {
			t.Fatal("expected validation error")
		}
	})
}
