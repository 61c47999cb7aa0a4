package harvest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wcm-project/simfetch/pkg/logging"
)

// populateCampaign fills the store with a campaign: metadata, the variant
// sim-data blob, and complete output for the given seeds through all
// generations.
func populateCampaign(store *fakeStore, generations int, seeds ...string) {
	store.put(DefaultMetadataPath,
		fmt.Sprintf(`{"generations": %d, "init_sims": 1, "seed": 0}`, generations))
	store.put(SimDataPath(testVariant), "simdata")

	for _, seed := range seeds {
		seedDir := testVariant + "/" + seed + "/"
		for gen := 0; gen < generations; gen++ {
			for _, f := range DefaultSimFiles {
				store.put(GenerationDir(seedDir, gen)+"/"+f, "content")
			}
			store.put(markerPath(seedDir, gen), "marker")
		}
	}
}

func testConfig(t *testing.T) *Config {
	t.Helper()
	return &Config{
		Logger:         logging.Discard(),
		LocalPath:      t.TempDir(),
		Variant:        testVariant,
		NumConnections: 4,
		SimFiles:       DefaultSimFiles,
		MarkerFile:     DefaultMarkerFile,
		MetadataPath:   DefaultMetadataPath,
	}
}

func TestHarvestAgentStart(t *testing.T) {
	ctx := context.Background()

	t.Run("fetches the full analysis subset", func(t *testing.T) {
		store := newFakeStore(testRoot)
		populateCampaign(store, 2, "000000", "000001")

		config := testConfig(t)
		agent, err := NewHarvestAgent(config, store)
		require.NoError(t, err)

		result, err := agent.Start(ctx)
		require.NoError(t, err)

		// 1 metadata + 1 sim-data + 2 seeds x 2 generations x 7 files.
		assert.Equal(t, 30, result.Transferred)
		assert.Empty(t, result.Failed)
		assert.NoError(t, result.Err)

		local := filepath.Join(config.LocalPath,
			testVariant, "000001", "generation_000001", "000000", "simOut", "MonomerCounts", "monomerCounts")
		_, statErr := os.Stat(local)
		assert.NoError(t, statErr)

		// The incomplete-seed files of other campaigns are not fetched; only
		// the queued universe ever hits the store.
		assert.Equal(t, 1, store.attemptCount(SimDataPath(testVariant)))
	})

	t.Run("queue size matches the expansion arithmetic", func(t *testing.T) {
		store := newFakeStore(testRoot)
		agent, err := NewHarvestAgent(testConfig(t), store)
		require.NoError(t, err)

		meta := &RunMetadata{Generations: 2}
		q := agent.buildQueue(meta, []string{
			testVariant + "/000000/",
			testVariant + "/000001/",
		})
		assert.Equal(t, 30, q.Len())
	})

	t.Run("incomplete seed lines are skipped", func(t *testing.T) {
		store := newFakeStore(testRoot)
		populateCampaign(store, 2, "000000")
		// Seed 000001 stalled: only generation 0 exists.
		stalled := testVariant + "/000001/"
		store.put(markerPath(stalled, 0), "marker")
		for _, f := range DefaultSimFiles {
			store.put(GenerationDir(stalled, 0)+"/"+f, "content")
		}

		agent, err := NewHarvestAgent(testConfig(t), store)
		require.NoError(t, err)

		result, err := agent.Start(ctx)
		require.NoError(t, err)

		// 2 + 1 seed x 2 generations x 7 files.
		assert.Equal(t, 16, result.Transferred)
		assert.Zero(t, store.attemptCount(GenerationDir(stalled, 0)+"/Main/time"))
	})

	t.Run("zero qualifying seeds yields metadata and sim-data only", func(t *testing.T) {
		store := newFakeStore(testRoot)
		store.put(DefaultMetadataPath, `{"generations": 2, "init_sims": 1, "seed": 0}`)
		store.put(SimDataPath(testVariant), "simdata")

		agent, err := NewHarvestAgent(testConfig(t), store)
		require.NoError(t, err)

		result, err := agent.Start(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, result.Transferred)
		assert.Empty(t, result.Failed)
	})

	t.Run("one permanent failure out of thirty", func(t *testing.T) {
		store := newFakeStore(testRoot)
		populateCampaign(store, 2, "000000", "000001")

		victim := GenerationDir(testVariant+"/000000/", 1) + "/Mass/dryMass"
		store.failTimes(victim, 2)

		agent, err := NewHarvestAgent(testConfig(t), store)
		require.NoError(t, err)

		result, err := agent.Start(ctx)
		require.NoError(t, err)
		assert.Equal(t, 29, result.Transferred)
		assert.Equal(t, []string{victim}, result.Failed)
		assert.Error(t, result.Err)
	})

	t.Run("missing metadata aborts the run", func(t *testing.T) {
		store := newFakeStore(testRoot)

		agent, err := NewHarvestAgent(testConfig(t), store)
		require.NoError(t, err)

		_, err = agent.Start(ctx)
		assert.Error(t, err)
	})

	t.Run("malformed metadata aborts the run", func(t *testing.T) {
		store := newFakeStore(testRoot)
		store.put(DefaultMetadataPath, "not json")

		agent, err := NewHarvestAgent(testConfig(t), store)
		require.NoError(t, err)

		_, err = agent.Start(ctx)
		assert.Error(t, err)
	})

	t.Run("zero generations aborts the run", func(t *testing.T) {
		store := newFakeStore(testRoot)
		store.put(DefaultMetadataPath, `{"generations": 0, "init_sims": 1, "seed": 0}`)

		agent, err := NewHarvestAgent(testConfig(t), store)
		require.NoError(t, err)

		_, err = agent.Start(ctx)
		assert.Error(t, err)
	})
}

func TestNewHarvestAgent(t *testing.T) {
	t.Run("nil config", func(t *testing.T) {
		_, err := NewHarvestAgent(nil, newFakeStore(testRoot))
		assert.Error(t, err)
	})

	t.Run("nil store", func(t *testing.T) {
		_, err := NewHarvestAgent(testConfig(t), nil)
		assert.Error(t, err)
	})
}

func TestDownloadRunMetadata(t *testing.T) {
	ctx := context.Background()

	t.Run("parses fields", func(t *testing.T) {
		store := newFakeStore(testRoot)
		store.put(DefaultMetadataPath, `{"generations": 32, "init_sims": 1, "seed": 7}`)

		meta, err := DownloadRunMetadata(ctx, store, DefaultMetadataPath, t.TempDir())
		require.NoError(t, err)
		assert.Equal(t, 32, meta.Generations)
		assert.Equal(t, 1, meta.InitSims)
		assert.Equal(t, 7, meta.Seed)
	})

	t.Run("mirrors the file locally", func(t *testing.T) {
		store := newFakeStore(testRoot)
		store.put(DefaultMetadataPath, `{"generations": 2, "init_sims": 1, "seed": 0}`)

		dir := t.TempDir()
		_, err := DownloadRunMetadata(ctx, store, DefaultMetadataPath, dir)
		require.NoError(t, err)

		_, statErr := os.Stat(filepath.Join(dir, "metadata", "metadata.json"))
		assert.NoError(t, statErr)
	})

	t.Run("negative generations rejected", func(t *testing.T) {
		store := newFakeStore(testRoot)
		store.put(DefaultMetadataPath, `{"generations": -3, "init_sims": 1, "seed": 0}`)

		_, err := DownloadRunMetadata(ctx, store, DefaultMetadataPath, t.TempDir())
		assert.Error(t, err)
	})
}
