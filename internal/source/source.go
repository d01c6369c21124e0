// Package source fetches configuration text from files or HTTP and turns it
// into a model.Configuration.
package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
)

// Source is one place a configuration may be read from.
type Source interface {
	// Name identifies the source in logs and errors.
	Name() string
	// Open fetches the source. Any error means the source is unavailable.
	Open(ctx context.Context) (io.ReadCloser, error)
}

// FileSource reads a local file.
type FileSource struct {
	Path string
}

func (s *FileSource) Name() string {
	return s.Path
}

func (s *FileSource) Open(ctx context.Context) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(expandTilde(s.Path))
	if err != nil {
		return nil, err
	}
	return f, nil
}

// HTTPSource fetches a URL. Any non-2xx response counts as unavailable.
type HTTPSource struct {
	URL    string
	Client *http.Client // nil uses http.DefaultClient
}

func (s *HTTPSource) Name() string {
	return s.URL
}

func (s *HTTPSource) Open(ctx context.Context) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, err
	}
	// Always revalidate, the catalog may be edited between loads
	req.Header.Set("Cache-Control", "no-store")

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, &StatusError{URL: s.URL, Code: resp.StatusCode, Status: resp.Status}
	}
	return resp.Body, nil
}

// StatusError is a non-2xx HTTP response.
type StatusError struct {
	URL    string
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: %s", e.URL, e.Status)
}

// Detect picks an HTTPSource for http(s) URLs and a FileSource otherwise.
// An empty location returns nil, which Load treats as unavailable.
func Detect(location string) Source {
	location = strings.TrimSpace(location)
	switch {
	case location == "":
		return nil
	case strings.HasPrefix(location, "http://"), strings.HasPrefix(location, "https://"):
		return &HTTPSource{URL: location}
	default:
		return &FileSource{Path: location}
	}
}

// LocalPath returns the file path behind src, if it is a FileSource.
func LocalPath(src Source) (string, bool) {
	fs, ok := src.(*FileSource)
	if !ok || fs == nil {
		return "", false
	}
	return expandTilde(fs.Path), true
}

// expandTilde expands a leading ~ to the user's home directory
func expandTilde(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return home + strings.TrimPrefix(path, "~")
		}
	}
	return path
}
