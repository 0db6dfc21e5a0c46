package main

import (
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/celestiaorg/tokenmetry/internal/config"
	"github.com/celestiaorg/tokenmetry/internal/discover"
	"github.com/celestiaorg/tokenmetry/internal/model"
	"github.com/celestiaorg/tokenmetry/internal/pipeline"
	"github.com/celestiaorg/tokenmetry/internal/source"
)

var runFlags struct {
	configPath string
	reposFile  string
	checkouts  string
	outputDir  string
	verbose    bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Analyze all configured repositories and emit the artifacts",
	Long: `Analyze every configured repository and write meta_index.json plus one
detail artifact per repository under <output>/repository_data/.

Repositories come either from the YAML config (each with a local checkout
path) or from a plain repos list file combined with --checkouts, a directory
holding one checkout per repository name. Repositories whose checkout is
missing are reported in the meta-index with an error and excluded from
global totals.`,
	Args: cobra.NoArgs,
	RunE: runRun,
}

func init() {
	f := runCmd.Flags()
	f.StringVarP(&runFlags.configPath, "config", "c", "tokenmetry.yaml", "Path to YAML run configuration")
	f.StringVar(&runFlags.reposFile, "repos", "", "Path to repos list file (one URL per line, # comments)")
	f.StringVar(&runFlags.checkouts, "checkouts", "", "Directory containing one checkout per repository name (with --repos)")
	f.StringVarP(&runFlags.outputDir, "output", "o", "", "Output directory (overrides config output_dir)")
	f.BoolVarP(&runFlags.verbose, "verbose", "v", false, "List per-repository status lines")
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(runFlags.configPath)
	if err != nil {
		if runFlags.reposFile == "" {
			return err
		}
		// A repos-file run does not need a config file on disk.
		cfg = config.Default()
	}
	if runFlags.outputDir != "" {
		cfg.OutputDir = runFlags.outputDir
	}

	var provider source.Provider
	switch {
	case runFlags.reposFile != "":
		if runFlags.checkouts == "" {
			return fmt.Errorf("--repos requires --checkouts")
		}
		repos, err := config.LoadReposFile(runFlags.reposFile)
		if err != nil {
			return err
		}
		provider = source.FromList(repos, runFlags.checkouts)
	case len(cfg.Repositories) > 0:
		entries := make([]source.Entry, len(cfg.Repositories))
		for i, rc := range cfg.Repositories {
			entries[i] = source.Entry{
				Repo: model.Repository{Name: rc.Name, URL: rc.URL},
				Path: rc.Path,
			}
		}
		provider = source.NewLocal(entries)
	default:
		return fmt.Errorf("no repositories configured in %s", runFlags.configPath)
	}

	result, err := pipeline.Run(cmd.Context(), provider, pipeline.Options{
		Tokenizer: cfg.Tokenizer,
		OutputDir: cfg.OutputDir,
		Discover: discover.Options{
			Extensions:  cfg.Extensions,
			MaxFileSize: cfg.MaxFileSize,
		},
		FileWorkers: cfg.Workers,
		Parallel:    cfg.Parallel,
		RepoTimeout: time.Duration(cfg.RepoTimeout),
	})
	if err != nil {
		return err
	}

	printRunSummary(result)
	return nil
}

func printRunSummary(result *pipeline.Result) {
	summary := result.Meta.Summary

	fmt.Println("============================================================")
	fmt.Println("TOKEN TELEMETRY SUMMARY")
	fmt.Println("============================================================")
	fmt.Printf("Repositories configured: %d\n", summary.TotalRepositories)
	fmt.Printf("Repositories processed:  %d\n", summary.SuccessfulRepositories)
	fmt.Printf("Total files:             %d\n", summary.TotalFiles)
	fmt.Printf("Total tokens:            %d\n", summary.TotalTokens)

	for _, ext := range sortedExtensions(summary.ByExtension) {
		bucket := summary.ByExtension[ext]
		fmt.Printf("%-6s %6d files, %12d tokens\n", ext, bucket.Files, bucket.Tokens)
	}

	if runFlags.verbose {
		fmt.Println()
		for i := range result.Summaries {
			s := &result.Summaries[i]
			if s.Failed() {
				fmt.Printf("  ✗ %s: %s\n", s.Repository.Name, s.Error)
			} else {
				fmt.Printf("  ✓ %s: %d files, %d tokens\n", s.Repository.Name, s.TotalFiles, s.TotalTokens)
			}
		}
	}

	if result.MetaPath != "" {
		fmt.Printf("\nMeta-index saved to: %s\n", result.MetaPath)
	}
}

func sortedExtensions(buckets map[string]model.ExtensionBucket) []string {
	exts := make([]string, 0, len(buckets))
	for ext := range buckets {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}
