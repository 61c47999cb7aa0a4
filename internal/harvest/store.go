package harvest

import (
	"context"

	"github.com/wcm-project/simfetch/pkg/gcsstore"
)

// ObjectStore is the capability this package requires from a blob store.
// Object names returned by the listing calls are full paths including the
// store's root prefix; paths passed in are relative to that prefix.
//
// *gcsstore.GCSDataStore satisfies it.
type ObjectStore interface {
	// RootPrefix returns the fixed storage path under which all relative
	// paths are resolved.
	RootPrefix() string

	// ListObjects returns every object whose name starts with the root
	// prefix joined with relPrefix. May be empty.
	ListObjects(ctx context.Context, relPrefix string) ([]gcsstore.ObjectSummary, error)

	// ListChildren returns the immediate children one path segment below
	// the root prefix joined with relPrefix.
	ListChildren(ctx context.Context, relPrefix string) ([]gcsstore.ObjectSummary, error)

	// Download fetches one object to a local file, creating parent
	// directories as needed.
	Download(ctx context.Context, relPath string, localPath string) error
}
