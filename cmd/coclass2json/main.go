// Command coclass2json converts the semicolon separated CoClass table into
// the nested JSON code tree read by the classification front end.
package main

import (
	"fmt"
	"os"

	"coclass/internal/config"
	"coclass/internal/engine"
	"coclass/internal/logging"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	configPath string
	inputPath  string
	outputPath string
	verbose    bool

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "coclass2json",
	Short: "Convert the CoClass CSV table into a JSON code tree",
	Long: `coclass2json reads the classification table (dimension;code;term;description;synonyms),
builds one trie per dimension keyed by the characters of each code and writes
the whole tree as a single JSON document.

Paths come from the config file, COCLASS_* environment variables or flags.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runConvert,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.Flags().StringVar(&configPath, "config", config.DefaultPath, "path to the YAML config file")
	rootCmd.Flags().StringVar(&inputPath, "input", "", "CSV source (overrides config)")
	rootCmd.Flags().StringVar(&outputPath, "output", "", "JSON destination (overrides config)")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

func runConvert(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if inputPath != "" {
		cfg.Input = inputPath
	}
	if outputPath != "" {
		cfg.Output = outputPath
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger, err = logging.New(cfg.Logging)
	if err != nil {
		return err
	}

	sum, err := engine.Run(engine.RunOptions{
		Input:              cfg.Input,
		Output:             cfg.Output,
		SyntheticDimension: cfg.SyntheticDimension,
		EnsureASCII:        cfg.EnsureASCII,
	}, logger)
	if err != nil {
		logger.Error("conversion failed", zap.Error(err))
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Converted %s to %s (%d rows, %d entries)\n",
		cfg.Input, cfg.Output, sum.Rows, sum.Entries)
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		if logger != nil {
			_ = logger.Sync()
		}
		os.Exit(1)
	}
}
