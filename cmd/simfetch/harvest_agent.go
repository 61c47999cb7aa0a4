package main

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"github.com/wcm-project/simfetch/internal/harvest"
	"github.com/wcm-project/simfetch/pkg/gcsstore"
	"github.com/wcm-project/simfetch/pkg/logging"
)

// HarvestAgentCommand implements the AgentModule interface for the campaign
// harvest agent.
type HarvestAgentCommand struct {
	agent *harvest.HarvestAgent
}

// NewHarvestAgentCommand creates a new harvest agent command.
func NewHarvestAgentCommand() *HarvestAgentCommand {
	return &HarvestAgentCommand{}
}

// Name returns the name of the agent.
func (h *HarvestAgentCommand) Name() string {
	return "harvest"
}

// ShortDescription returns a short description of the agent.
func (h *HarvestAgentCommand) ShortDescription() string {
	return "Download the analysis subset of one campaign's output"
}

// LongDescription returns a detailed description of the agent.
func (h *HarvestAgentCommand) LongDescription() string {
	return "The harvest agent discovers which seed lines of a simulation campaign completed " +
		"through the final generation and downloads the fixed manifest of per-generation " +
		"output files for those seed lines, skipping everything else."
}

// ConfigureCommand configures the agent command.
func (h *HarvestAgentCommand) ConfigureCommand(cmd *cobra.Command) {
	cmd.Run = func(cmd *cobra.Command, args []string) {
		runAgentCommand(cmd, h, h.Start)
	}
}

// FxModules returns the fx modules needed by this agent.
func (h *HarvestAgentCommand) FxModules() []fx.Option {
	return []fx.Option{
		logging.Module,
		gcsstore.Module,
		harvest.Module,
		fx.Populate(&h.agent),
	}
}

// Start runs the harvest. A partial-failure outcome (some files never
// transferred) is returned as an error so the process exit code reflects it.
func (h *HarvestAgentCommand) Start(ctx context.Context) error {
	result, err := h.agent.Start(ctx)
	if err != nil {
		return err
	}
	return result.Err
}
