// Package publish writes artifacts to their stable output locations.
package publish

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/celestiaorg/tokenmetry/internal/artifact"
	"github.com/celestiaorg/tokenmetry/internal/model"
)

// MetaIndexName is the meta-index filename under the output directory.
const MetaIndexName = "meta_index.json"

// Writer publishes artifacts under one base directory.
type Writer struct {
	BaseDir string
}

// WriteMetaIndex writes the meta-index and returns its path.
func (w Writer) WriteMetaIndex(idx *artifact.MetaIndex) (string, error) {
	data, err := artifact.MarshalMetaIndex(idx)
	if err != nil {
		return "", fmt.Errorf("encoding meta-index: %w", err)
	}
	path := filepath.Join(w.BaseDir, MetaIndexName)
	if err := writeFile(path, data); err != nil {
		return "", err
	}
	return path, nil
}

// WriteDetail writes one repository's detail artifact at the same relative
// location its meta-index entry links to, and returns the path.
func (w Writer) WriteDetail(s *model.RepositorySummary) (string, error) {
	data, err := artifact.MarshalDetail(s)
	if err != nil {
		return "", fmt.Errorf("encoding detail for %s: %w", s.Repository.Name, err)
	}
	path := filepath.Join(w.BaseDir, filepath.FromSlash(artifact.DataFilePath(s.Repository.Name)))
	if err := writeFile(path, data); err != nil {
		return "", err
	}
	return path, nil
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
