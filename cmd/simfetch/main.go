package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wcm-project/simfetch/pkg/version"
)

var rootCmd = &cobra.Command{
	Use:     "simfetch",
	Short:   "Selectively download simulation campaign output",
	Long:    "simfetch materializes the analysis subset of a whole-cell simulation campaign's object store output onto local disk.",
	Version: fmt.Sprintf("gitVersion=%s, gitCommit=%s", version.GitVersion, version.GitCommit),
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(CreateAgentCommand(NewHarvestAgentCommand()))
}
