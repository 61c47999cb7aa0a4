package gcsstore

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/wcm-project/simfetch/pkg/logging"
)

// ConfigKey is the root configuration key (in Viper) for this module.
var ConfigKey = "storage"

// Config holds the parameters required to initialize a GCSDataStore.
// Fields are populated from viper, the environment, or explicitly through
// Options.
type Config struct {
	Logger logging.Interface

	// Bucket is the GCS bucket holding the campaign output.
	Bucket string `mapstructure:"bucket" validate:"required"`

	// Prefix is the fixed storage path under which all relative paths are
	// resolved, e.g. "WCM/20210228.075124__100_Seeds_32_gens/". Always
	// normalized to end with a slash when non-empty.
	Prefix string `mapstructure:"prefix"`

	// CredentialsFile optionally points at a service account key file.
	// When empty, application default credentials are used.
	CredentialsFile string `mapstructure:"credentials_file"`
}

// Option defines a functional configuration override for building a Config.
type Option func(*Config) error

// Apply applies a sequence of options to the Config instance.
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

// NewConfig constructs a new Config by applying the given options.
func NewConfig(opts ...Option) (*Config, error) {
	c := &Config{}
	if err := c.Apply(opts...); err != nil {
		return nil, err
	}
	return c, nil
}

// WithViper populates the Config from the "storage" viper key.
func WithViper(v *viper.Viper) Option {
	return func(c *Config) error {
		if err := v.UnmarshalKey(ConfigKey, c); err != nil {
			return fmt.Errorf("error unmarshalling %s config: %w", ConfigKey, err)
		}
		if c.Prefix != "" && !strings.HasSuffix(c.Prefix, "/") {
			c.Prefix += "/"
		}
		return nil
	}
}

// WithLogger sets the logger used by the data store.
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
