// Package model defines core data structures for tokenmetry.
package model

// Category is the mutually exclusive classification bucket assigned to a file.
type Category string

const (
	Test           Category = "test"
	MainEntry      Category = "main_entry"
	APIDefinitions Category = "api_definitions"
	CoreLogic      Category = "core_logic"
	Configuration  Category = "configuration"
	Utilities      Category = "utilities"
	Documentation  Category = "documentation"
	Generated      Category = "generated"
	Other          Category = "other"
)

// SizeClass groups files by token count.
type SizeClass string

const (
	Small  SizeClass = "small"  // < 1000 tokens
	Medium SizeClass = "medium" // < 5000 tokens
	Large  SizeClass = "large"  // >= 5000 tokens
)

// Repository identifies one configured repository.
type Repository struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// SourceFile is the analysis record for a single file.
type SourceFile struct {
	Path                string    `json:"path"`
	Extension           string    `json:"extension"`
	Tokens              int       `json:"tokens"`
	Category            Category  `json:"category"`
	SizeClass           SizeClass `json:"size_class"`
	Importance          float64   `json:"importance"`
	Complexity          float64   `json:"complexity"`
	IsTest              bool      `json:"is_test"`
	IsGenerated         bool      `json:"is_generated"`
	ChunkingRecommended bool      `json:"chunking_recommended"`

	// Note records a per-file problem (unreadable, undecodable) that produced
	// a zero-token record without aborting the repository.
	Note string `json:"note,omitempty"`
}

// ExtensionBucket aggregates file and token counts for one extension.
type ExtensionBucket struct {
	Files  int `json:"files"`
	Tokens int `json:"tokens"`
}

// ContextGuidance holds derived hints for downstream context-budget decisions.
type ContextGuidance struct {
	FitsInContext     bool   `json:"fits_in_context"`
	RecommendedChunks int    `json:"recommended_chunks"`
	ChunkStrategy     string `json:"chunk_strategy"`
}

// RepositorySummary is the full analysis result for one repository and the
// shape of its detail artifact.
type RepositorySummary struct {
	Repository  Repository                 `json:"repository"`
	Directory   string                     `json:"directory"`
	TotalFiles  int                        `json:"total_files"`
	TotalTokens int                        `json:"total_tokens"`
	ByExtension map[string]ExtensionBucket `json:"by_extension"`
	Files       []SourceFile               `json:"files"`
	Guidance    *ContextGuidance           `json:"context_guidance,omitempty"`
	Error       string                     `json:"error,omitempty"`
}

// Failed reports whether the repository could not be analyzed.
func (s *RepositorySummary) Failed() bool {
	return s.Error != ""
}

// GlobalSummary aggregates totals across all successful repositories.
type GlobalSummary struct {
	TotalRepositories      int                        `json:"total_repositories"`
	SuccessfulRepositories int                        `json:"successful_repositories"`
	TotalFiles             int                        `json:"total_files_across_all_repos"`
	TotalTokens            int                        `json:"total_tokens_across_all_repos"`
	ByExtension            map[string]ExtensionBucket `json:"by_extension_across_all_repos"`
}

// TopFile is one entry in the cross-repository largest-files list.
type TopFile struct {
	Repository string `json:"repository"`
	Path       string `json:"path"`
	Tokens     int    `json:"tokens"`
}

// Insights holds derived cross-repository views.
type Insights struct {
	TopFiles         []TopFile        `json:"top_files_by_tokens"`
	TokensByCategory map[Category]int `json:"tokens_by_category"`
}
