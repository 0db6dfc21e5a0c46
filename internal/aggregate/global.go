package aggregate

import (
	"sort"

	"github.com/celestiaorg/tokenmetry/internal/model"
)

// TopFileCount is the number of entries in the global largest-files insight.
const TopFileCount = 10

// Global merges repository summaries into the cross-repository summary.
// Errored repositories count toward TotalRepositories but contribute nothing
// else. The merge is commutative and associative, so repository processing
// order never affects the result.
func Global(summaries []model.RepositorySummary) model.GlobalSummary {
	global := model.GlobalSummary{
		TotalRepositories: len(summaries),
		ByExtension:       make(map[string]model.ExtensionBucket),
	}

	for i := range summaries {
		s := &summaries[i]
		if s.Failed() {
			continue
		}
		global.SuccessfulRepositories++
		global.TotalFiles += s.TotalFiles
		global.TotalTokens += s.TotalTokens
		for ext, bucket := range s.ByExtension {
			merged := global.ByExtension[ext]
			merged.Files += bucket.Files
			merged.Tokens += bucket.Tokens
			global.ByExtension[ext] = merged
		}
	}

	return global
}

// Insights derives the cross-repository insight set from successful
// summaries: the top files by token count and category-wise token totals.
func Insights(summaries []model.RepositorySummary) model.Insights {
	insights := model.Insights{
		TokensByCategory: make(map[model.Category]int),
	}

	var all []model.TopFile
	for i := range summaries {
		s := &summaries[i]
		if s.Failed() {
			continue
		}
		for j := range s.Files {
			f := &s.Files[j]
			insights.TokensByCategory[f.Category] += f.Tokens
			all = append(all, model.TopFile{
				Repository: s.Repository.Name,
				Path:       f.Path,
				Tokens:     f.Tokens,
			})
		}
	}

	// Deterministic regardless of input order: tokens descending, then
	// repository and path ascending.
	sort.Slice(all, func(i, j int) bool {
		if all[i].Tokens != all[j].Tokens {
			return all[i].Tokens > all[j].Tokens
		}
		if all[i].Repository != all[j].Repository {
			return all[i].Repository < all[j].Repository
		}
		return all[i].Path < all[j].Path
	})

	if len(all) > TopFileCount {
		all = all[:TopFileCount]
	}
	insights.TopFiles = all
	return insights
}
