package harvest

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/wcm-project/simfetch/pkg/gcsstore"
	"github.com/wcm-project/simfetch/pkg/logging"
)

// seedDirRE recovers the variant/seed/ prefix leading up to the generation
// directory component of a root-relative object name.
var seedDirRE = regexp.MustCompile(`^(.*)generation_\d{6}`)

// FindCompletedSeedDirs returns every variant/seed/ subpath (e.g.
// "wildtype_000000/000001/") whose simulation succeeded through generation
// maxGen. Success is defined as the completion marker object existing at
// exactly that generation; a seed line that stalled earlier never writes it.
//
// Zero qualifying seeds is a legitimate outcome, not an error.
func FindCompletedSeedDirs(ctx context.Context, store ObjectStore, logger logging.Interface, variant, markerFile string, maxGen int) ([]string, error) {
	// Listing "variant/0" catches six-digit zero-padded seed directories up
	// to 099999 while skipping non-seed children such as kb/, whose names
	// don't start with a digit.
	children, err := store.ListChildren(ctx, variant+"/0")
	if err != nil {
		return nil, fmt.Errorf("failed to list seed candidates under %s: %w", variant, err)
	}

	root := store.RootPrefix()
	seedPaths := collectSeedPaths(children, root)

	// The marker sits deep below the seed directory; recover the
	// variant/seed/ prefix from whatever object the probe matched rather
	// than assuming a fixed depth.
	var dirs []string
	for _, seed := range seedPaths {
		marker := fmt.Sprintf("%sgeneration_%06d/000000/simOut/%s", seed, maxGen, markerFile)
		objects, err := store.ListObjects(ctx, marker)
		if err != nil {
			return nil, fmt.Errorf("failed to probe marker for seed %s: %w", seed, err)
		}
		for _, obj := range objects {
			m := seedDirRE.FindStringSubmatch(gcsstore.TrimObjectPrefix(obj.Name, root))
			if m == nil {
				logger.Warnf("Marker object %s does not match the expected layout, skipping", obj.Name)
				continue
			}
			dirs = append(dirs, m[1])
		}
	}

	logger.Infof("Found %d of %d seed directories completed through generation %d", len(dirs), len(seedPaths), maxGen)
	return dirs, nil
}

// collectSeedPaths reduces listed children to unique "variant/seed/" subpaths
// in enumeration order. Children may arrive as directory groupings (trailing
// slash) or as leaf objects when the store has no delimiter support.
func collectSeedPaths(children []gcsstore.ObjectSummary, root string) []string {
	seen := make(map[string]struct{})
	var paths []string
	for _, child := range children {
		rel := gcsstore.TrimObjectPrefix(child.Name, root)
		parts := strings.SplitN(rel, "/", 3)
		if len(parts) < 2 || parts[1] == "" {
			continue
		}
		seed := parts[0] + "/" + parts[1] + "/"
		if _, ok := seen[seed]; ok {
			continue
		}
		seen[seed] = struct{}{}
		paths = append(paths, seed)
	}
	return paths
}
