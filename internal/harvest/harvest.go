package harvest

import (
	"context"
	"errors"

	"github.com/wcm-project/simfetch/pkg/logging"
)

// HarvestAgent materializes the analysis subset of one campaign's output
// onto local disk: it reads the run metadata, discovers which seed lines
// completed through the final generation, and fetches the fixed manifest of
// per-generation files for those seed lines, skipping everything else.
type HarvestAgent struct {
	logger logging.Interface
	config Config
	store  ObjectStore
}

// NewHarvestAgent constructs a harvest agent from the given configuration
// and object store.
func NewHarvestAgent(config *Config, store ObjectStore) (*HarvestAgent, error) {
	if config == nil {
		return nil, errors.New("nil harvest config")
	}
	if store == nil {
		return nil, errors.New("nil object store")
	}
	logger := config.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	return &HarvestAgent{
		logger: logger,
		config: *config,
		store:  store,
	}, nil
}

// Start runs the campaign fetch. Per-file transfer failures never abort the
// run; they surface in the Result. Structural failures (metadata missing or
// malformed, listing errors) return an error because the rest of the run
// cannot be sized without them.
func (a *HarvestAgent) Start(ctx context.Context) (Result, error) {
	a.logger.Infof("Harvesting %s under prefix %s into %s",
		a.config.Variant, a.store.RootPrefix(), a.config.LocalPath)

	meta, err := DownloadRunMetadata(ctx, a.store, a.config.MetadataPath, a.config.LocalPath)
	if err != nil {
		return Result{}, err
	}
	a.logger.Infof("Run metadata: generations=%d init_sims=%d seed=%d",
		meta.Generations, meta.InitSims, meta.Seed)

	seedDirs, err := FindCompletedSeedDirs(
		ctx, a.store, a.logger, a.config.Variant, a.config.MarkerFile, meta.Generations-1)
	if err != nil {
		return Result{}, err
	}

	queue := a.buildQueue(meta, seedDirs)
	a.logger.Infof("Queued %d files for download", queue.Len())

	downloader := NewDownloader(a.store, a.logger, a.config.LocalPath, a.config.NumConnections)
	result := downloader.Run(ctx, queue)

	a.logger.Infof("Downloaded %d files in %.1fs", result.Transferred, result.Duration.Seconds())
	for _, relPath := range result.Failed {
		a.logger.Errorf("Never transferred: %s", relPath)
	}
	return result, nil
}

// buildQueue expands metadata, the per-variant simulation-data blob, and
// seed directories x generations x manifest into the download set. The
// queue deduplicates, so overlapping expansions cannot double-fetch.
func (a *HarvestAgent) buildQueue(meta *RunMetadata, seedDirs []string) *DownloadQueue {
	queue := NewDownloadQueue()
	queue.Add(a.config.MetadataPath)
	queue.Add(SimDataPath(a.config.Variant))

	for _, seedDir := range seedDirs {
		for gen := 0; gen < meta.Generations; gen++ {
			queue.Queue(GenerationDir(seedDir, gen), a.config.SimFiles...)
		}
	}
	return queue
}
