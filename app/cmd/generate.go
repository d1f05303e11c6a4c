package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"

	"pipelineai/app/config"
	"pipelineai/app/usecase"
	"pipelineai/internal/domain/entity"
)

var (
	genLanguage string
	genPlatform string
	genDeploy   string
	genFeatures []string
	genAPIKey   string
	genJSON     bool
)

var generateCmd = &cobra.Command{
	Use:   "generate <description>",
	Short: "Generate a pipeline and print it to stdout",
	Long: `Generate a pipeline and print it to stdout.

The suggested file path is printed to stderr; nothing is written to disk.`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVarP(&genLanguage, "language", "l", "", "project language (default nodejs)")
	generateCmd.Flags().StringVarP(&genPlatform, "platform", "p", "", "CI platform (default github-actions)")
	generateCmd.Flags().StringVarP(&genDeploy, "deploy", "d", "", "deployment target")
	generateCmd.Flags().StringSliceVar(&genFeatures, "feature", nil, "requested pipeline feature (repeatable)")
	generateCmd.Flags().StringVar(&genAPIKey, "api-key", "", "LLM API key (overrides OPENAI_API_KEY)")
	generateCmd.Flags().BoolVar(&genJSON, "json", false, "print the full result as JSON")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	// stdout carries only the pipeline
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))

	req := entity.PipelineRequest{
		Description:      args[0],
		Language:         entity.Language(genLanguage),
		Platform:         entity.Platform(genPlatform),
		DeploymentTarget: entity.DeploymentTarget(genDeploy),
		Features:         genFeatures,
	}
	if err := validator.New().Struct(req); err != nil {
		return fmt.Errorf("invalid request: %w", err)
	}

	llmCfg, err := config.LoadLLM(genAPIKey)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	generator := usecase.NewPipelineGeneratorFromConfig(llmCfg, logger)
	res := generator.Generate(cmd.Context(), req)

	out := cmd.OutOrStdout()
	if genJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "# %s (%s)\n", res.FilePath, res.Source)
	_, err = fmt.Fprintln(out, res.Content)
	return err
}
