// Package artifact assembles the two-tier JSON output: the meta-index and
// the per-repository detail objects.
package artifact

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/celestiaorg/tokenmetry/internal/aggregate"
	"github.com/celestiaorg/tokenmetry/internal/model"
)

// FormatVersion identifies the two-tier artifact layout.
const FormatVersion = "2"

// Metadata describes one run.
type Metadata struct {
	GeneratedAt   time.Time `json:"generated_at"`
	Tokenizer     string    `json:"tokenizer"`
	FormatVersion string    `json:"format_version"`
}

// RepositoryEntry is the lightweight meta-index row for one repository.
type RepositoryEntry struct {
	Name        string                           `json:"name"`
	URL         string                           `json:"url"`
	TotalFiles  int                              `json:"total_files"`
	TotalTokens int                              `json:"total_tokens"`
	ByExtension map[string]model.ExtensionBucket `json:"by_extension"`
	DataFile    string                           `json:"data_file"`
	Error       *string                          `json:"error"`
}

// MetaIndex is the top-level artifact linking to the detail artifacts.
type MetaIndex struct {
	Metadata     Metadata            `json:"metadata"`
	Summary      model.GlobalSummary `json:"summary"`
	Insights     model.Insights      `json:"insights"`
	Repositories []RepositoryEntry   `json:"repositories"`
}

// DataFilePath returns the relative location a repository's detail artifact
// is published at, as embedded in its meta-index entry.
func DataFilePath(name string) string {
	return "repository_data/" + name + ".json"
}

// Build assembles the meta-index from repository summaries and verifies the
// cross-tier invariants. A reconciliation failure means an aggregation bug,
// so it is returned as an error rather than emitting a drifted artifact.
func Build(summaries []model.RepositorySummary, tokenizerName string, generatedAt time.Time) (*MetaIndex, error) {
	idx := &MetaIndex{
		Metadata: Metadata{
			GeneratedAt:   generatedAt,
			Tokenizer:     tokenizerName,
			FormatVersion: FormatVersion,
		},
		Summary:  aggregate.Global(summaries),
		Insights: aggregate.Insights(summaries),
	}

	for i := range summaries {
		s := &summaries[i]
		entry := RepositoryEntry{
			Name:        s.Repository.Name,
			URL:         s.Repository.URL,
			TotalFiles:  s.TotalFiles,
			TotalTokens: s.TotalTokens,
			ByExtension: s.ByExtension,
			DataFile:    DataFilePath(s.Repository.Name),
		}
		if s.Failed() {
			msg := s.Error
			entry.Error = &msg
		}
		idx.Repositories = append(idx.Repositories, entry)
	}

	if err := reconcile(idx, summaries); err != nil {
		return nil, fmt.Errorf("artifact reconciliation: %w", err)
	}
	return idx, nil
}

// reconcile checks that every numeric field in the meta-index agrees with the
// detail artifacts and that each detail artifact is internally consistent.
func reconcile(idx *MetaIndex, summaries []model.RepositorySummary) error {
	if len(idx.Repositories) != len(summaries) {
		return fmt.Errorf("entry count %d != summary count %d", len(idx.Repositories), len(summaries))
	}

	var files, tokens int
	for i := range summaries {
		s := &summaries[i]
		entry := &idx.Repositories[i]

		if err := checkSummary(s); err != nil {
			return fmt.Errorf("repository %s: %w", s.Repository.Name, err)
		}
		if entry.TotalFiles != s.TotalFiles || entry.TotalTokens != s.TotalTokens {
			return fmt.Errorf("repository %s: entry totals (%d files, %d tokens) != detail totals (%d files, %d tokens)",
				s.Repository.Name, entry.TotalFiles, entry.TotalTokens, s.TotalFiles, s.TotalTokens)
		}
		if !bucketsEqual(entry.ByExtension, s.ByExtension) {
			return fmt.Errorf("repository %s: entry by_extension differs from detail", s.Repository.Name)
		}
		if !s.Failed() {
			files += s.TotalFiles
			tokens += s.TotalTokens
		}
	}

	if idx.Summary.TotalFiles != files || idx.Summary.TotalTokens != tokens {
		return fmt.Errorf("global totals (%d files, %d tokens) != sum of successful repositories (%d files, %d tokens)",
			idx.Summary.TotalFiles, idx.Summary.TotalTokens, files, tokens)
	}
	return nil
}

// checkSummary verifies a detail artifact's internal invariants.
func checkSummary(s *model.RepositorySummary) error {
	if s.Failed() {
		if s.TotalFiles != 0 || s.TotalTokens != 0 || len(s.Files) != 0 {
			return fmt.Errorf("errored summary carries numerics")
		}
		return nil
	}
	if s.TotalFiles != len(s.Files) {
		return fmt.Errorf("total_files %d != len(files) %d", s.TotalFiles, len(s.Files))
	}
	byExt := make(map[string]model.ExtensionBucket)
	tokens := 0
	for i := range s.Files {
		f := &s.Files[i]
		tokens += f.Tokens
		bucket := byExt[f.Extension]
		bucket.Files++
		bucket.Tokens += f.Tokens
		byExt[f.Extension] = bucket
	}
	if tokens != s.TotalTokens {
		return fmt.Errorf("total_tokens %d != sum of file tokens %d", s.TotalTokens, tokens)
	}
	if !bucketsEqual(byExt, s.ByExtension) {
		return fmt.Errorf("by_extension does not reconcile with files")
	}
	return nil
}

func bucketsEqual(a, b map[string]model.ExtensionBucket) bool {
	if len(a) != len(b) {
		return false
	}
	for ext, bucket := range a {
		if b[ext] != bucket {
			return false
		}
	}
	return true
}

// MarshalDetail encodes a detail artifact as indented JSON.
func MarshalDetail(s *model.RepositorySummary) ([]byte, error) {
	return marshalIndent(s)
}

// MarshalMetaIndex encodes the meta-index as indented JSON.
func MarshalMetaIndex(idx *MetaIndex) ([]byte, error) {
	return marshalIndent(idx)
}

func marshalIndent(v any) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
