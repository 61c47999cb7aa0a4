package harvest

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/wcm-project/simfetch/pkg/configutils"
	"github.com/wcm-project/simfetch/pkg/logging"
)

// Config holds the harvest agent parameters. Fields are populated from
// viper, the environment, or explicitly through Options.
type Config struct {
	Logger logging.Interface

	// LocalPath is the local directory the storage hierarchy is mirrored
	// into.
	LocalPath string `mapstructure:"local_path" validate:"required"`

	// Variant names the parameter configuration whose seed lines to fetch,
	// e.g. "wildtype_000000".
	Variant string `mapstructure:"variant" validate:"required"`

	// NumConnections bounds the phase-1 download worker pool.
	NumConnections int `mapstructure:"num_connections" validate:"gte=1"`

	// SimFiles is the per-generation file manifest. Defaults to the fixed
	// analysis manifest.
	SimFiles []string `mapstructure:"sim_files" validate:"min=1"`

	// MarkerFile is the completion marker object name probed during seed
	// discovery.
	MarkerFile string `mapstructure:"marker_file" validate:"required"`

	// MetadataPath is the relative path of the workflow metadata object.
	MetadataPath string `mapstructure:"metadata_path" validate:"required"`
}

// Option defines a functional configuration override for building a Config.
type Option func(*Config) error

// Apply applies the given options to the configuration.
func (c *Config) Apply(opts ...Option) error {
	for _, o := range opts {
		if o == nil {
			continue
		}
		if err := o(c); err != nil {
			return err
		}
	}
	return nil
}

func defaultConfig() *Config {
	return &Config{
		NumConnections: DefaultDownloadWorkers,
		SimFiles:       DefaultSimFiles,
		MarkerFile:     DefaultMarkerFile,
		MetadataPath:   DefaultMetadataPath,
	}
}

// NewConfig builds and returns a new configuration from the given options.
func NewConfig(opts ...Option) (*Config, error) {
	c := &Config{}
	if err := c.Apply(opts...); err != nil {
		return nil, err
	}
	return c, nil
}

// WithViper populates the configuration from the top-level viper keys,
// starting from defaults.
func WithViper(v *viper.Viper) Option {
	return func(c *Config) error {
		*c = *defaultConfig()
		if err := configutils.BindEnvsRecursive(v, c, ""); err != nil {
			return fmt.Errorf("error binding environment variables: %w", err)
		}
		if err := v.Unmarshal(c); err != nil {
			return fmt.Errorf("error unmarshalling config: %w", err)
		}
		return nil
	}
}

// WithLogger sets the logger for the configuration.
func WithLogger(logger logging.Interface) Option {
	return func(c *Config) error {
		if logger == nil {
			return errors.New("nil logger")
		}
		c.Logger = logger
		return nil
	}
}

// Validate performs struct validation on the Config.
func (c *Config) Validate() error {
	return validator.New().Struct(c)
}
