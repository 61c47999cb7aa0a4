package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"github.com/wcm-project/simfetch/pkg/configutils"
)

const envPrefix = "SIMFETCH"

func configProvider(cli *cobra.Command) fx.Option {
	return configutils.ProvideViperFromFile(envPrefix, cli.Flags(), configFilePath)
}
