// Package pipeline runs the end-to-end analysis: provider, concurrent
// per-repository aggregation, global aggregation, artifact emission.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/celestiaorg/tokenmetry/internal/aggregate"
	"github.com/celestiaorg/tokenmetry/internal/analyze"
	"github.com/celestiaorg/tokenmetry/internal/artifact"
	"github.com/celestiaorg/tokenmetry/internal/discover"
	"github.com/celestiaorg/tokenmetry/internal/logging"
	"github.com/celestiaorg/tokenmetry/internal/model"
	"github.com/celestiaorg/tokenmetry/internal/publish"
	"github.com/celestiaorg/tokenmetry/internal/source"
	"github.com/celestiaorg/tokenmetry/internal/tokenizer"
)

// Options configures one pipeline run.
type Options struct {
	// Tokenizer is the tiktoken encoding name. Empty selects the default.
	Tokenizer string

	// OutputDir receives the artifacts. Empty skips publishing.
	OutputDir string

	Discover discover.Options

	// FileWorkers bounds the per-file pool within one repository.
	FileWorkers int

	// Parallel bounds how many repositories are analyzed concurrently.
	// Zero or negative means no limit beyond the scheduler.
	Parallel int

	// RepoTimeout converts a stuck repository into a repository-level error.
	RepoTimeout time.Duration
}

// Result is the outcome of one run.
type Result struct {
	Meta      *artifact.MetaIndex
	Summaries []model.RepositorySummary

	// MetaPath is set when the run published to OutputDir.
	MetaPath string
}

// Run analyzes every repository the provider supplies and builds the
// artifacts. Repository-level failures are folded into the result; only
// setup failures (tokenizer, provider, publishing) and reconciliation bugs
// return an error.
func Run(ctx context.Context, provider source.Provider, opts Options) (*Result, error) {
	tok, err := tokenizer.New(opts.Tokenizer)
	if err != nil {
		return nil, fmt.Errorf("initializing tokenizer: %w", err)
	}
	return RunWithCounter(ctx, provider, tok, tok.Name(), opts)
}

// RunWithCounter runs the pipeline with an already-initialized token counter.
// tokenizerName is recorded as the run's tokenizer identity.
func RunWithCounter(ctx context.Context, provider source.Provider, tok analyze.TokenCounter, tokenizerName string, opts Options) (*Result, error) {
	logger := logging.New("pipeline")

	repos, err := provider.Repositories(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolving repositories: %w", err)
	}

	repoOpts := aggregate.RepoOptions{
		Discover: opts.Discover,
		Workers:  opts.FileWorkers,
		Timeout:  opts.RepoTimeout,
	}

	// Each repository is independent; analyze them concurrently and write
	// each result into its own slot so provider order is preserved.
	summaries := make([]model.RepositorySummary, len(repos))
	g, gctx := errgroup.WithContext(ctx)
	if opts.Parallel > 0 {
		g.SetLimit(opts.Parallel)
	}
	for i, m := range repos {
		i, m := i, m
		g.Go(func() error {
			if m.Err != nil {
				summaries[i] = model.RepositorySummary{
					Repository: m.Repo,
					Directory:  m.Repo.Name,
					Error:      m.Err.Error(),
				}
			} else {
				summaries[i] = aggregate.Repository(gctx, tok, m.Repo, m.Root, repoOpts)
			}
			s := &summaries[i]
			if s.Failed() {
				logger.Warn("repository failed", "name", m.Repo.Name, "error", s.Error)
			} else {
				logger.Info("repository analyzed", "name", m.Repo.Name,
					"files", s.TotalFiles, "tokens", s.TotalTokens)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	meta, err := artifact.Build(summaries, tokenizerName, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	result := &Result{Meta: meta, Summaries: summaries}

	if opts.OutputDir != "" {
		w := publish.Writer{BaseDir: opts.OutputDir}
		for i := range summaries {
			if summaries[i].Failed() {
				continue
			}
			if _, err := w.WriteDetail(&summaries[i]); err != nil {
				return nil, err
			}
		}
		path, err := w.WriteMetaIndex(meta)
		if err != nil {
			return nil, err
		}
		result.MetaPath = path
	}

	return result, nil
}
