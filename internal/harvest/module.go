package harvest

import (
	"fmt"

	"github.com/spf13/viper"
	"go.uber.org/fx"

	"github.com/wcm-project/simfetch/pkg/gcsstore"
	"github.com/wcm-project/simfetch/pkg/logging"
)

// Module provides a configured HarvestAgent backed by the GCS data store.
var Module = fx.Provide(
	func(v *viper.Viper, logger logging.Interface, store *gcsstore.GCSDataStore) (*HarvestAgent, error) {
		config, err := NewConfig(
			WithViper(v),
			WithLogger(logger),
		)
		if err != nil {
			return nil, fmt.Errorf("error creating harvest config: %w", err)
		}
		if err := config.Validate(); err != nil {
			return nil, fmt.Errorf("error validating harvest config: %w", err)
		}
		return NewHarvestAgent(config, store)
	})
