package harvest

import (
	"fmt"
	"path"
)

// DefaultMetadataPath is the well-known relative path of the workflow
// metadata object.
const DefaultMetadataPath = "metadata/metadata.json"

// DefaultMarkerFile is the completion marker object a simulation writes at
// the end of a generation. Its presence at the target generation is the sole
// signal that a seed line succeeded through that generation.
const DefaultMarkerFile = "Daughter1_inherited_state.cPickle"

// simDataFile is the per-variant serialized model parameter blob, fetched
// once per campaign.
const simDataFile = "simData_Modified.cPickle"

// DefaultSimFiles is the fixed manifest of per-generation output files the
// analysis needs: selected table columns and their attribute sidecars.
var DefaultSimFiles = []string{
	"Mass/attributes.json",
	"Mass/cellMass",
	"Mass/dryMass",
	"Main/attributes.json",
	"Main/time",
	"MonomerCounts/attributes.json",
	"MonomerCounts/monomerCounts",
}

// SimDataPath returns the relative path of the variant's simulation-data
// blob, e.g. "wildtype_000000/kb/simData_Modified.cPickle".
func SimDataPath(variant string) string {
	return path.Join(variant, "kb", simDataFile)
}

// GenerationDir returns the simOut directory of one generation under a seed
// directory, e.g. "wildtype_000000/000001/generation_000003/000000/simOut".
// Generations hold a single cell lineage here, hence the fixed 000000 cell
// segment.
func GenerationDir(seedDir string, gen int) string {
	return path.Join(seedDir, fmt.Sprintf("generation_%06d", gen), "000000", "simOut")
}
