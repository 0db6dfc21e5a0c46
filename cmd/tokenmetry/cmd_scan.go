package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/celestiaorg/tokenmetry/internal/aggregate"
	"github.com/celestiaorg/tokenmetry/internal/artifact"
	"github.com/celestiaorg/tokenmetry/internal/config"
	"github.com/celestiaorg/tokenmetry/internal/discover"
	"github.com/celestiaorg/tokenmetry/internal/model"
	"github.com/celestiaorg/tokenmetry/internal/tokenizer"
)

var scanFlags struct {
	name       string
	url        string
	outputPath string
	encoding   string
	verbose    bool
}

var scanCmd = &cobra.Command{
	Use:   "scan DIR",
	Short: "Analyze a single directory",
	Long: `Analyze one source tree and print its token totals. With -o, the full
detail artifact (including the per-file breakdown) is written as JSON.`,
	Args: cobra.ExactArgs(1),
	RunE: runScan,
}

func init() {
	f := scanCmd.Flags()
	f.StringVar(&scanFlags.name, "name", "", "Repository name (default: directory basename)")
	f.StringVar(&scanFlags.url, "url", "", "Repository URL recorded in the artifact")
	f.StringVarP(&scanFlags.outputPath, "output", "o", "", "Write the detail artifact to this file")
	f.StringVar(&scanFlags.encoding, "encoding", "", "Tiktoken encoding name (default cl100k_base)")
	f.BoolVarP(&scanFlags.verbose, "verbose", "v", false, "List per-file token counts")
}

func runScan(cmd *cobra.Command, args []string) error {
	root, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("resolving root: %w", err)
	}

	tok, err := tokenizer.New(scanFlags.encoding)
	if err != nil {
		return fmt.Errorf("initializing tokenizer: %w", err)
	}

	name := scanFlags.name
	if name == "" {
		name = filepath.Base(root)
	}

	defaults := config.Default()
	summary := aggregate.Repository(cmd.Context(), tok,
		model.Repository{Name: name, URL: scanFlags.url}, root,
		aggregate.RepoOptions{
			Discover: discover.Options{
				Extensions:  defaults.Extensions,
				MaxFileSize: defaults.MaxFileSize,
			},
		})
	if summary.Failed() {
		return fmt.Errorf("analyzing %s: %s", root, summary.Error)
	}

	printScanSummary(&summary)

	if scanFlags.outputPath != "" {
		if err := writeDetail(&summary, scanFlags.outputPath); err != nil {
			return err
		}
		fmt.Printf("\nDetailed results saved to: %s\n", scanFlags.outputPath)
	}
	return nil
}

func printScanSummary(s *model.RepositorySummary) {
	fmt.Printf("Directory: %s\n", s.Directory)
	fmt.Printf("Total files: %d\n", s.TotalFiles)
	fmt.Printf("Total tokens: %d\n", s.TotalTokens)
	for _, ext := range sortedExtensions(s.ByExtension) {
		bucket := s.ByExtension[ext]
		fmt.Printf("%-6s %6d files, %12d tokens\n", ext, bucket.Files, bucket.Tokens)
	}
	if g := s.Guidance; g != nil {
		fmt.Printf("Fits in context: %v (%s, %d chunk(s))\n",
			g.FitsInContext, g.ChunkStrategy, g.RecommendedChunks)
	}

	if scanFlags.verbose {
		fmt.Println("\nFile details:")
		for i := range s.Files {
			f := &s.Files[i]
			fmt.Printf("  %s: %d tokens (%s, importance %.1f)\n", f.Path, f.Tokens, f.Category, f.Importance)
		}
	}
}

func writeDetail(s *model.RepositorySummary, path string) error {
	data, err := artifact.MarshalDetail(s)
	if err != nil {
		return fmt.Errorf("encoding detail artifact: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
