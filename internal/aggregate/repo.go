// Package aggregate rolls per-file analysis into repository and global
// summaries.
package aggregate

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/celestiaorg/tokenmetry/internal/analyze"
	"github.com/celestiaorg/tokenmetry/internal/discover"
	"github.com/celestiaorg/tokenmetry/internal/logging"
	"github.com/celestiaorg/tokenmetry/internal/model"
)

const (
	contextBudget = 100000
	chunkSize     = 50000
)

// RepoOptions controls one repository's analysis.
type RepoOptions struct {
	Discover discover.Options

	// Workers bounds the per-file worker pool. Zero means GOMAXPROCS.
	Workers int

	// Timeout bounds the whole repository's analysis. On expiry the
	// repository is reported as errored rather than aborting the run.
	Timeout time.Duration
}

// Repository analyzes all files under root and assembles the per-repository
// summary. A repository-level failure (missing root, timeout) returns a
// summary with Error set and zero numerics; it never panics or aborts sibling
// repositories.
func Repository(ctx context.Context, tok analyze.TokenCounter, repo model.Repository, root string, opts RepoOptions) model.RepositorySummary {
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	directory := repo.Name
	if directory == "" {
		directory = filepath.Base(root)
	}

	info, err := os.Stat(root)
	if err != nil {
		return errorSummary(repo, directory, fmt.Errorf("root path: %w", err))
	}
	if !info.IsDir() {
		return errorSummary(repo, directory, fmt.Errorf("%s: not a directory", root))
	}

	entries, err := discover.Files(root, opts.Discover)
	if err != nil {
		return errorSummary(repo, directory, fmt.Errorf("discovering files: %w", err))
	}

	files, err := analyzeConcurrent(ctx, tok, root, entries, opts.Workers)
	if err != nil {
		return errorSummary(repo, directory, err)
	}

	summary := model.RepositorySummary{
		Repository:  repo,
		Directory:   directory,
		ByExtension: make(map[string]model.ExtensionBucket),
		Files:       files,
	}
	logger := logging.New("aggregate")
	for i := range files {
		f := &files[i]
		if f.Note != "" {
			logger.Warn("file recorded without tokens",
				"repository", directory, "path", f.Path, "note", f.Note)
		}
		summary.TotalFiles++
		summary.TotalTokens += f.Tokens
		bucket := summary.ByExtension[f.Extension]
		bucket.Files++
		bucket.Tokens += f.Tokens
		summary.ByExtension[f.Extension] = bucket
	}
	summary.Guidance = guidance(summary.TotalTokens)
	return summary
}

// analyzeConcurrent fans the discovered entries over a bounded worker pool
// sharing the read-only tokenizer, then reassembles results in discovery
// order. The reduction never depends on completion order: entries arrive
// sorted and results are placed back by index.
func analyzeConcurrent(ctx context.Context, tok analyze.TokenCounter, root string, entries []discover.FileEntry, workers int) ([]model.SourceFile, error) {
	if len(entries) == 0 {
		return nil, nil
	}

	type result struct {
		index int
		rec   model.SourceFile
		skip  bool
	}

	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > len(entries) {
		workers = len(entries)
	}

	work := make(chan int, len(entries))
	results := make(chan result, len(entries))

	var wg sync.WaitGroup
	for n := 0; n < workers; n++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range work {
				if ctx.Err() != nil {
					return
				}
				rec, skip := analyze.File(tok, root, entries[idx])
				results <- result{index: idx, rec: rec, skip: skip}
			}
		}()
	}

	for i := range entries {
		work <- i
	}
	close(work)

	go func() {
		wg.Wait()
		close(results)
	}()

	indexed := make([]model.SourceFile, len(entries))
	done := make([]bool, len(entries))
	for r := range results {
		if r.skip {
			continue
		}
		indexed[r.index] = r.rec
		done[r.index] = true
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("analysis interrupted: %w", err)
	}

	var files []model.SourceFile
	for i, ok := range done {
		if ok {
			files = append(files, indexed[i])
		}
	}
	return files, nil
}

func guidance(totalTokens int) *model.ContextGuidance {
	g := &model.ContextGuidance{
		FitsInContext:     totalTokens < contextBudget,
		RecommendedChunks: max(1, totalTokens/chunkSize),
	}
	if g.FitsInContext {
		g.ChunkStrategy = "single_pass"
	} else {
		g.ChunkStrategy = "by_module"
	}
	return g
}

func errorSummary(repo model.Repository, directory string, err error) model.RepositorySummary {
	return model.RepositorySummary{
		Repository: repo,
		Directory:  directory,
		Error:      err.Error(),
	}
}
