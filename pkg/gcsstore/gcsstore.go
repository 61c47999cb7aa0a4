package gcsstore

import (
	"context"
	"fmt"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/wcm-project/simfetch/pkg/logging"
)

// ObjectSummary identifies one object returned by a listing call. Name is
// the full object path within the bucket, including the store's root prefix.
type ObjectSummary struct {
	Name string
	Size int64
}

// GCSDataStore is a Google Cloud Storage-backed object store scoped to a
// fixed root prefix within one bucket. All relative paths given to its
// methods are resolved under that prefix.
type GCSDataStore struct {
	bucket *storage.BucketHandle
	config *Config
	logger logging.Interface
}

// NewGCSDataStore initializes a data store from the given configuration.
func NewGCSDataStore(ctx context.Context, config *Config) (*GCSDataStore, error) {
	if config == nil {
		return nil, fmt.Errorf("nil gcsstore config")
	}

	var clientOpts []option.ClientOption
	if config.CredentialsFile != "" {
		clientOpts = append(clientOpts, option.WithCredentialsFile(config.CredentialsFile))
	}

	client, err := storage.NewClient(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client: %w", err)
	}

	logger := config.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	return &GCSDataStore{
		bucket: client.Bucket(config.Bucket),
		config: config,
		logger: logger,
	}, nil
}

// RootPrefix returns the fixed storage path under which all relative paths
// are resolved.
func (s *GCSDataStore) RootPrefix() string {
	return s.config.Prefix
}

// ListObjects returns every object whose name starts with the root prefix
// joined with relPrefix. The result may be empty; that is not an error.
func (s *GCSDataStore) ListObjects(ctx context.Context, relPrefix string) ([]ObjectSummary, error) {
	query := &storage.Query{Prefix: s.config.Prefix + relPrefix}

	var objects []ObjectSummary
	it := s.bucket.Objects(ctx, query)
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list objects under %q: %w", query.Prefix, err)
		}
		objects = append(objects, ObjectSummary{Name: attrs.Name, Size: attrs.Size})
	}
	return objects, nil
}

// ListChildren returns the immediate children of the root prefix joined with
// relPrefix, one path segment deep. Synthetic directory entries come back
// with a trailing slash in Name, matching how the flat namespace spells
// directories.
func (s *GCSDataStore) ListChildren(ctx context.Context, relPrefix string) ([]ObjectSummary, error) {
	query := &storage.Query{
		Prefix:    s.config.Prefix + relPrefix,
		Delimiter: "/",
	}

	var children []ObjectSummary
	it := s.bucket.Objects(ctx, query)
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list children under %q: %w", query.Prefix, err)
		}
		// With a delimiter set, directory groupings arrive as Prefix-only
		// entries and leaf objects as Name entries.
		if attrs.Prefix != "" {
			children = append(children, ObjectSummary{Name: attrs.Prefix})
		} else {
			children = append(children, ObjectSummary{Name: attrs.Name, Size: attrs.Size})
		}
	}
	return children, nil
}

// Download fetches the object at relPath (resolved under the root prefix)
// into localPath, creating parent directories as needed.
func (s *GCSDataStore) Download(ctx context.Context, relPath string, localPath string) error {
	objectName := s.config.Prefix + strings.TrimPrefix(relPath, "/")

	reader, err := s.bucket.Object(objectName).NewReader(ctx)
	if err != nil {
		return fmt.Errorf("failed to open object %s: %w", objectName, err)
	}
	defer func() {
		if cerr := reader.Close(); cerr != nil {
			s.logger.Errorf("Failed to close reader for %s: %+v", objectName, cerr)
		}
	}()

	if err := CopyReaderToFilePath(reader, localPath); err != nil {
		return fmt.Errorf("failed to download object %s to %s: %w", objectName, localPath, err)
	}
	return nil
}
