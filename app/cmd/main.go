// PipelineAI generates CI/CD pipeline configuration from a short description.
//
//	pipelineai serve                                  Start the HTTP API
//	pipelineai generate "node api" --platform gitlab-ci  Print a pipeline to stdout
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Use:           "pipelineai",
	Short:         "Generate CI/CD pipeline configuration with an LLM",
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
