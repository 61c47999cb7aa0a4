package harvest

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// RunMetadata holds the fields read from the workflow's metadata.json. The
// generation count drives discovery and queue expansion; a run cannot
// proceed without it.
type RunMetadata struct {
	Generations int `json:"generations"`
	InitSims    int `json:"init_sims"`
	Seed        int `json:"seed"`
}

// DownloadRunMetadata fetches the metadata object to its mirrored location
// under localDir and parses it. Any failure here is fatal for the campaign:
// without a generation count the rest of the run cannot be sized.
func DownloadRunMetadata(ctx context.Context, store ObjectStore, metadataPath, localDir string) (*RunMetadata, error) {
	localPath := filepath.Join(localDir, filepath.FromSlash(metadataPath))
	if err := store.Download(ctx, metadataPath, localPath); err != nil {
		return nil, fmt.Errorf("failed to download metadata %s: %w", metadataPath, err)
	}

	data, err := os.ReadFile(localPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read metadata %s: %w", localPath, err)
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("failed to parse metadata %s: %w", metadataPath, err)
	}
	if meta.Generations <= 0 {
		return nil, fmt.Errorf("metadata %s reports %d generations, nothing to fetch", metadataPath, meta.Generations)
	}
	return &meta, nil
}
