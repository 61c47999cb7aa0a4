package harvest

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/hashicorp/go-multierror"

	"github.com/wcm-project/simfetch/pkg/logging"
)

// DefaultDownloadWorkers bounds phase-1 concurrency when the config does not
// say otherwise.
const DefaultDownloadWorkers = 10

// Result summarizes one orchestrator invocation. It is constructed fresh per
// run; there is no process-wide state.
type Result struct {
	// Transferred counts files fetched successfully across both phases.
	Transferred int
	// Failed lists the paths never successfully transferred. A non-empty
	// list is a partial-failure outcome.
	Failed []string
	// Err aggregates the final per-path errors, nil when Failed is empty.
	Err error
	// Duration covers both phases.
	Duration time.Duration
}

// fileResult reports the outcome of one fetch task. Failures are data, not
// panics: the orchestrator inspects results instead of unwinding.
type fileResult struct {
	relPath string
	err     error
}

// Downloader drains a DownloadQueue against an ObjectStore: a parallel pass
// over every entry, then one serial retry pass over whatever failed. Serial
// retries keep a burst of transient errors (rate limiting, flaky links) from
// compounding. Paths that fail both passes are permanent failures for the
// run.
type Downloader struct {
	store    ObjectStore
	logger   logging.Interface
	localDir string
	workers  int
}

// NewDownloader constructs a Downloader writing under localDir with the
// given phase-1 worker count.
func NewDownloader(store ObjectStore, logger logging.Interface, localDir string, workers int) *Downloader {
	if workers < 1 {
		workers = DefaultDownloadWorkers
	}
	return &Downloader{
		store:    store,
		logger:   logger,
		localDir: localDir,
		workers:  workers,
	}
}

// Run executes both phases over a snapshot of the queue. Entries fetched
// successfully are removed from the live queue; entries still present
// afterwards are reported in the Result. Context cancellation stops
// dispatching and surfaces in Result.Err; no additional deadline is imposed.
func (d *Downloader) Run(ctx context.Context, queue *DownloadQueue) Result {
	start := time.Now()
	snapshot := queue.Snapshot()

	transferred := d.parallelDrain(ctx, queue, snapshot)
	retried, lastErrs := d.serialRetry(ctx, queue, snapshot)
	transferred += retried

	result := Result{
		Transferred: transferred,
		Duration:    time.Since(start),
	}

	var errs *multierror.Error
	if err := ctx.Err(); err != nil {
		errs = multierror.Append(errs, err)
	}
	for _, relPath := range snapshot {
		if queue.Contains(relPath) {
			result.Failed = append(result.Failed, relPath)
			cause := lastErrs[relPath]
			if cause == nil {
				// The retry pass never reached this entry; cancellation is
				// the only way that happens.
				cause = ctx.Err()
			}
			errs = multierror.Append(errs, &TransferError{RelPath: relPath, Err: cause})
		}
	}
	result.Err = errs.ErrorOrNil()
	return result
}

// parallelDrain is phase 1: one fetch task per snapshot entry, executed by a
// bounded worker pool. Tasks are independent; each mutates only its own
// entry's residency in the queue.
func (d *Downloader) parallelDrain(ctx context.Context, queue *DownloadQueue, snapshot []string) int {
	if len(snapshot) == 0 {
		return 0
	}
	d.logger.Infof("Downloading %d files with %d workers", len(snapshot), d.workers)

	jobs := make(chan string, len(snapshot))
	for _, relPath := range snapshot {
		jobs <- relPath
	}
	close(jobs)

	results := make(chan fileResult, len(snapshot))
	var wg sync.WaitGroup
	for i := 0; i < d.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for relPath := range jobs {
				if ctx.Err() != nil {
					return
				}
				results <- fileResult{relPath: relPath, err: d.download(ctx, relPath)}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	transferred := 0
	for res := range results {
		if res.err != nil {
			d.logger.WithError(res.err).Warnf("Download failed, will retry: %s", res.relPath)
			continue
		}
		queue.Remove(res.relPath)
		transferred++
	}
	return transferred
}

// serialRetry is phase 2: one more attempt for each entry phase 1 left in
// the queue, strictly one at a time. It returns the success count and the
// final error per path that failed again.
func (d *Downloader) serialRetry(ctx context.Context, queue *DownloadQueue, snapshot []string) (int, map[string]error) {
	transferred := 0
	lastErrs := make(map[string]error)
	for _, relPath := range snapshot {
		if !queue.Contains(relPath) {
			continue
		}
		if ctx.Err() != nil {
			break
		}

		d.logger.Infof("Retrying %s", relPath)
		if err := d.download(ctx, relPath); err != nil {
			d.logger.WithError(err).Errorf("Retry failed, giving up on %s", relPath)
			lastErrs[relPath] = err
			continue
		}
		queue.Remove(relPath)
		transferred++
	}
	return transferred, lastErrs
}

func (d *Downloader) download(ctx context.Context, relPath string) error {
	localPath := filepath.Join(d.localDir, filepath.FromSlash(relPath))
	return d.store.Download(ctx, relPath, localPath)
}
