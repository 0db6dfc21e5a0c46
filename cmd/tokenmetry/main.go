// tokenmetry walks source repositories, counts tokens per file under a fixed
// subword tokenizer, classifies and scores files, and emits a meta-index plus
// per-repository detail artifacts for context-budget decisions.
//
// Usage:
//
//	tokenmetry run   [--config tokenmetry.yaml] [--output DIR]
//	tokenmetry run   --repos repos.txt --checkouts DIR [--output DIR]
//	tokenmetry scan  DIR [--name N] [--url U] [-o FILE] [--verbose]
//	tokenmetry count [FILE | --text STRING]
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/celestiaorg/tokenmetry/internal/logging"
)

// version is set at build time via -ldflags.
var version = "dev"

var rootFlags struct {
	logLevel  string
	logFormat string
}

var rootCmd = &cobra.Command{
	Use:   "tokenmetry",
	Short: "Token telemetry across source repositories",
	Long: "Tokenmetry analyzes source trees with a fixed subword tokenizer and\n" +
		"aggregates per-file token counts into JSON artifacts for automated\nagents making context-budget decisions.",
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Init(parseLevel(rootFlags.logLevel), rootFlags.logFormat)
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&rootFlags.logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	pf.StringVar(&rootFlags.logFormat, "log-format", "text", "Log format: text or json")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(countCmd)
	rootCmd.Version = version
}

func parseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
