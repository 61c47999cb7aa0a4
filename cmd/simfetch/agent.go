package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var configFilePath string
var debug bool

// AgentModule represents a module that can be run by the agent framework.
type AgentModule interface {
	Name() string
	ShortDescription() string
	LongDescription() string
	FxModules() []fx.Option

	// ConfigureCommand lets agents configure their commands (subcommands,
	// custom flags, default action).
	ConfigureCommand(*cobra.Command)

	// Start is the default action when no subcommand is specified.
	Start(ctx context.Context) error
}

// CreateAgentCommand creates a cobra command for an agent module.
func CreateAgentCommand(module AgentModule) *cobra.Command {
	cmd := &cobra.Command{
		Use:   module.Name(),
		Short: module.ShortDescription(),
		Long:  module.LongDescription(),
	}

	cmd.PersistentFlags().StringVarP(&configFilePath, "config", "c", "", "path to config file")
	cmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug mode")

	module.ConfigureCommand(cmd)

	return cmd
}

// runAgentCommand builds the agent's fx graph and runs the given action
// inside its lifecycle.
func runAgentCommand(cmd *cobra.Command, module AgentModule, action func(context.Context) error) {
	options := []fx.Option{
		configProvider(cmd),
	}
	options = append(options, module.FxModules()...)

	options = append(options, fx.Invoke(func(lc fx.Lifecycle, l *zap.Logger, sh fx.Shutdowner) {
		lc.Append(fx.Hook{
			OnStart: func(context.Context) error {
				go func() {
					if err := action(context.Background()); err != nil {
						l.Error(module.Name()+" encountered an error during execution", zap.Error(err))
						os.Exit(1)
					}
					if err := sh.Shutdown(); err != nil {
						l.Error("Failed to shutdown "+module.Name(), zap.Error(err))
					}
				}()
				return nil
			},
			OnStop: func(context.Context) error {
				return nil
			},
		})
	}))

	app := fx.New(fx.Options(options...))
	app.Run()
	if err := app.Stop(context.Background()); err != nil {
		return
	}
}
