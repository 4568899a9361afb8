package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/sanjeevkumarraob/adaptive-summarizer/internal/config"
	"github.com/sanjeevkumarraob/adaptive-summarizer/internal/logger"
)

var version = "0.1.0-dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "summarizer",
		Short: "Adaptive PDF summarizer",
		Long: `summarizer extracts text from PDF documents, produces extractive
summaries with a tunable sentence-scoring heuristic, scores them along
five quality dimensions and periodically adjusts the scoring weights.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().String("config", config.DefaultConfigPath, "Path to the YAML config file")
	rootCmd.PersistentFlags().Bool("json", false, "Output as JSON")

	rootCmd.AddCommand(
		newVersionCmd(),
		newServeCmd(),
		newSummarizeCmd(),
		newLearnCmd(),
		newTokenCmd(),
	)
	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				return writeJSON(cmd.OutOrStdout(), map[string]string{"version": version})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "summarizer version %s\n", version)
			return nil
		},
	}
}

// loadConfig reads the --config file and builds the logger for its env
func loadConfig(cmd *cobra.Command) (*config.Config, *logger.Logger, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	log, err := logger.New(cfg.Env)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return cfg, log, nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
