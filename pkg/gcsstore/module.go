package gcsstore

import (
	"context"
	"fmt"

	"github.com/spf13/viper"
	"go.uber.org/fx"

	"github.com/wcm-project/simfetch/pkg/logging"
)

// ProvideGCSDataStore initializes a GCSDataStore from viper configuration.
// Intended to be used as an fx provider.
func ProvideGCSDataStore(v *viper.Viper, logger logging.Interface) (*GCSDataStore, error) {
	config, err := NewConfig(WithViper(v), WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("error reading storage config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("error validating storage config: %w", err)
	}
	return NewGCSDataStore(context.Background(), config)
}

// Module is an fx module that provides a singleton GCSDataStore.
var Module = fx.Provide(
	ProvideGCSDataStore,
)
