package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"IsraBot/pkg/s3"
)

type IReader interface {
	Read(ctx context.Context, location string) ([]byte, error)
}

type reader struct {
	httpClient *http.Client
	s3Client   s3.ItfS3
}

// New returns a reader for local paths, http(s) URLs and s3://bucket/key
// objects. s3Client may be nil when no bucket is used.
func New(s3Client s3.ItfS3) IReader {
	return &reader{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		s3Client:   s3Client,
	}
}

func (r *reader) Read(ctx context.Context, location string) ([]byte, error) {
	switch {
	case location == "":
		return nil, fmt.Errorf("empty source location")
	case strings.HasPrefix(location, "s3://"):
		if r.s3Client == nil {
			return nil, fmt.Errorf("s3 source %s requested but s3 is not configured", location)
		}
		return r.s3Client.ReadObject(ctx, location)
	case strings.HasPrefix(location, "http://"), strings.HasPrefix(location, "https://"):
		return r.readHTTP(ctx, location)
	default:
		return os.ReadFile(location)
	}
}

func (r *reader) readHTTP(ctx context.Context, location string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, err
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", location, err)
	}
	defer func(Body io.ReadCloser) {
		_ = Body.Close()
	}(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch %s: status %d", location, resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}
