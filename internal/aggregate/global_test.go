package aggregate

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/celestiaorg/tokenmetry/internal/model"
)

func sampleSummaries() []model.RepositorySummary {
	return []model.RepositorySummary{
		{
			Repository:  model.Repository{Name: "celestia-app", URL: "u1"},
			TotalFiles:  2,
			TotalTokens: 1500,
			ByExtension: map[string]model.ExtensionBucket{
				".go": {Files: 1, Tokens: 1200},
				".md": {Files: 1, Tokens: 300},
			},
			Files: []model.SourceFile{
				{Path: "cmd/main.go", Extension: ".go", Tokens: 1200, Category: model.MainEntry},
				{Path: "README.md", Extension: ".md", Tokens: 300, Category: model.Documentation},
			},
		},
		{
			Repository:  model.Repository{Name: "celestia-node", URL: "u2"},
			TotalFiles:  1,
			TotalTokens: 700,
			ByExtension: map[string]model.ExtensionBucket{
				".go": {Files: 1, Tokens: 700},
			},
			Files: []model.SourceFile{
				{Path: "app.go", Extension: ".go", Tokens: 700, Category: model.CoreLogic},
			},
		},
		{
			Repository: model.Repository{Name: "broken", URL: "u3"},
			Error:      "root path: no such file or directory",
		},
	}
}

func TestGlobalTotals(t *testing.T) {
	t.Parallel()

	got := Global(sampleSummaries())

	if got.TotalRepositories != 3 {
		t.Errorf("total_repositories = %d, want 3", got.TotalRepositories)
	}
	if got.SuccessfulRepositories != 2 {
		t.Errorf("successful_repositories = %d, want 2", got.SuccessfulRepositories)
	}
	if got.TotalFiles != 3 {
		t.Errorf("total_files = %d, want 3", got.TotalFiles)
	}
	if got.TotalTokens != 2200 {
		t.Errorf("total_tokens = %d, want 2200", got.TotalTokens)
	}

	want := map[string]model.ExtensionBucket{
		".go": {Files: 2, Tokens: 1900},
		".md": {Files: 1, Tokens: 300},
	}
	if diff := cmp.Diff(want, got.ByExtension); diff != "" {
		t.Errorf("by_extension mismatch (-want +got):\n%s", diff)
	}
}

func TestGlobalOrderIndependent(t *testing.T) {
	t.Parallel()

	summaries := sampleSummaries()
	reversed := []model.RepositorySummary{summaries[2], summaries[1], summaries[0]}

	forward := Global(summaries)
	backward := Global(reversed)

	if diff := cmp.Diff(forward, backward); diff != "" {
		t.Errorf("merge depends on order (-forward +backward):\n%s", diff)
	}
}

func TestInsightsTopFiles(t *testing.T) {
	t.Parallel()

	got := Insights(sampleSummaries())

	want := []model.TopFile{
		{Repository: "celestia-app", Path: "cmd/main.go", Tokens: 1200},
		{Repository: "celestia-node", Path: "app.go", Tokens: 700},
		{Repository: "celestia-app", Path: "README.md", Tokens: 300},
	}
	if diff := cmp.Diff(want, got.TopFiles); diff != "" {
		t.Errorf("top files mismatch (-want +got):\n%s", diff)
	}

	wantCats := map[model.Category]int{
		model.MainEntry:     1200,
		model.CoreLogic:     700,
		model.Documentation: 300,
	}
	if diff := cmp.Diff(wantCats, got.TokensByCategory); diff != "" {
		t.Errorf("category totals mismatch (-want +got):\n%s", diff)
	}
}

func TestInsightsCapped(t *testing.T) {
	t.Parallel()

	var files []model.SourceFile
	for i := 0; i < 25; i++ {
		files = append(files, model.SourceFile{
			Path:      "f" + string(rune('a'+i)) + ".go",
			Extension: ".go",
			Tokens:    100 + i,
			Category:  model.Other,
		})
	}
	s := model.RepositorySummary{
		Repository: model.Repository{Name: "many"},
		TotalFiles: len(files),
		Files:      files,
	}
	for _, f := range files {
		s.TotalTokens += f.Tokens
	}

	got := Insights([]model.RepositorySummary{s})
	if len(got.TopFiles) != TopFileCount {
		t.Fatalf("top files = %d, want %d", len(got.TopFiles), TopFileCount)
	}
	// Highest token counts first.
	if got.TopFiles[0].Tokens != 124 {
		t.Errorf("top file tokens = %d, want 124", got.TopFiles[0].Tokens)
	}
}
