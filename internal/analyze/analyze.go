// Package analyze produces a SourceFile record for a single file.
package analyze

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/celestiaorg/tokenmetry/internal/classify"
	"github.com/celestiaorg/tokenmetry/internal/discover"
	"github.com/celestiaorg/tokenmetry/internal/model"
	"github.com/celestiaorg/tokenmetry/internal/scoring"
)

const chunkingThreshold = 5000

// TokenCounter counts tokens in raw file content. ok is false when the
// content cannot be decoded as text. Implementations must be safe for
// concurrent use; one shared instance serves all workers.
type TokenCounter interface {
	CountBytes(content []byte) (tokens int, ok bool)
}

// File analyzes one discovered file under root. The returned skip flag is
// true when the file turned out to be binary and must be excluded from the
// record set entirely.
//
// Unreadable or undecodable text files are not skipped: they yield a
// zero-token record with a note so repository processing continues.
func File(tok TokenCounter, root string, entry discover.FileEntry) (rec model.SourceFile, skip bool) {
	rec = model.SourceFile{
		Path:      entry.Path,
		Extension: entry.Extension,
	}

	content, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(entry.Path)))
	if err != nil {
		rec.Category = model.Other
		rec.SizeClass = model.Small
		rec.Importance = scoring.Importance(model.Other, 0, entry.Path)
		rec.Complexity = scoring.Complexity(0, model.Other)
		rec.Note = "unreadable: " + err.Error()
		return rec, false
	}

	if bytes.IndexByte(content, 0) >= 0 {
		return model.SourceFile{}, true // binary, excluded before analysis
	}

	tokens, ok := tok.CountBytes(content)
	if !ok {
		rec.Category = model.Other
		rec.SizeClass = model.Small
		rec.Importance = scoring.Importance(model.Other, 0, entry.Path)
		rec.Complexity = scoring.Complexity(0, model.Other)
		rec.Note = "undecodable: not valid UTF-8"
		return rec, false
	}

	category := classify.File(entry.Path, entry.Extension)
	isTest, isGenerated := classify.Flags(entry.Path, entry.Extension)

	rec.Tokens = tokens
	rec.Category = category
	rec.SizeClass = sizeClass(tokens)
	rec.Importance = scoring.Importance(category, tokens, entry.Path)
	rec.Complexity = scoring.Complexity(tokens, category)
	rec.IsTest = isTest
	rec.IsGenerated = isGenerated
	rec.ChunkingRecommended = tokens > chunkingThreshold
	return rec, false
}

func sizeClass(tokens int) model.SizeClass {
	switch {
	case tokens < 1000:
		return model.Small
	case tokens < 5000:
		return model.Medium
	default:
		return model.Large
	}
}
