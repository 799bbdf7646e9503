// Package gcs reads uploaded CSV files from Google Cloud Storage. It
// assumes Application Default Credentials are configured (gcloud auth
// application-default login).
package gcs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
)

// Fetcher provides an interface for storage reads. It enables mocking in
// tests and keeps the CLI independent of the concrete client.
type Fetcher interface {
	// Fetch downloads the object bytes from the given gs:// URI.
	Fetch(ctx context.Context, gcsURI string) ([]byte, error)

	// List returns the object names under a bucket prefix.
	List(ctx context.Context, bucket, prefix string) ([]string, error)
}

// Client is the Fetcher implementation backed by Cloud Storage.
type Client struct{}

// NewClient creates a storage client wrapper.
func NewClient() *Client {
	return &Client{}
}

// ParseURI splits a gs://bucket/object URI into bucket and object path.
func ParseURI(gcsURI string) (bucket, object string, err error) {
	if !strings.HasPrefix(gcsURI, "gs://") {
		return "", "", fmt.Errorf("invalid GCS URI: %s", gcsURI)
	}
	trimmed := strings.TrimPrefix(gcsURI, "gs://")
	parts := strings.SplitN(trimmed, "/", 2)
	if len(parts) != 2 || parts[1] == "" {
		return "", "", fmt.Errorf("invalid GCS URI (no object path): %s", gcsURI)
	}
	return parts[0], parts[1], nil
}

// Fetch implements Fetcher.
func (c *Client) Fetch(ctx context.Context, gcsURI string) ([]byte, error) {
	bucket, object, err := ParseURI(gcsURI)
	if err != nil {
		return nil, err
	}

	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}
	defer client.Close()

	r, err := client.Bucket(bucket).Object(object).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("open GCS object reader: %w", err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read GCS object: %w", err)
	}

	return data, nil
}

// List implements Fetcher. It walks the bucket under prefix and returns
// object names in iteration order.
func (c *Client) List(ctx context.Context, bucket, prefix string) ([]string, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}
	defer client.Close()

	var names []string
	it := client.Bucket(bucket).Objects(ctx, &storage.Query{Prefix: prefix})
	for {
		attrs, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list bucket %q: %w", bucket, err)
		}
		names = append(names, attrs.Name)
	}

	return names, nil
}

var _ Fetcher = (*Client)(nil)
