// Package source supplies materialized repository roots to the pipeline.
//
// The pipeline does not clone; whatever put the trees on local storage
// (a clone step, a bind mount, a plain directory) sits behind Provider.
package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/celestiaorg/tokenmetry/internal/model"
)

// Materialized pairs a repository identity with its local root directory.
// Repositories that failed to materialize carry Err instead of Root.
type Materialized struct {
	Repo model.Repository
	Root string
	Err  error
}

// Provider supplies the ordered sequence of repositories for one run.
type Provider interface {
	Repositories(ctx context.Context) ([]Materialized, error)
}

// Entry is one configured repository with a local checkout path.
type Entry struct {
	Repo model.Repository
	Path string
}

// Local serves pre-materialized checkouts from configured paths.
type Local struct {
	entries []Entry
}

// NewLocal builds a Local provider from configured entries.
func NewLocal(entries []Entry) *Local {
	return &Local{entries: entries}
}

// FromList maps each repository to <baseDir>/<name>, for runs driven by a
// plain repository list plus a directory of checkouts.
func FromList(repos []model.Repository, baseDir string) *Local {
	entries := make([]Entry, len(repos))
	for i, r := range repos {
		entries[i] = Entry{Repo: r, Path: filepath.Join(baseDir, r.Name)}
	}
	return NewLocal(entries)
}

// Repositories validates each configured path. A missing or non-directory
// path becomes a Materialized with Err set; it never fails the whole run.
func (l *Local) Repositories(ctx context.Context) ([]Materialized, error) {
	results := make([]Materialized, 0, len(l.entries))
	for _, e := range l.entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		m := Materialized{Repo: e.Repo}
		info, err := os.Stat(e.Path)
		switch {
		case err != nil:
			m.Err = fmt.Errorf("repository root: %w", err)
		case !info.IsDir():
			m.Err = fmt.Errorf("%s: not a directory", e.Path)
		default:
			m.Root = e.Path
		}
		results = append(results, m)
	}
	return results, nil
}
