// Package classify maps file paths to analysis categories.
//
// Classification is a pure function of the path string and extension; file
// content is never inspected. Rules live in an ordered table evaluated in
// fixed priority order, first match wins, so the priority between overlapping
// path patterns is explicit and testable in isolation.
package classify

import (
	"path"
	"strings"

	"github.com/celestiaorg/tokenmetry/internal/model"
)

// generatedSuffixes mark generated code by filename.
var generatedSuffixes = []string{".pb.go", ".pb.gw.go", "_gen.go"}

type rule struct {
	name     string
	match    func(path, ext string) bool
	category model.Category
}

// rules is evaluated top to bottom; the first matching rule decides the
// category. Categories are mutually exclusive, path substrings are not, so
// this order is load-bearing.
var rules = []rule{
	{"test", isTestPath, model.Test},
	{"main_entry", isMainEntry, model.MainEntry},
	{"api_definitions", isAPIDefinition, model.APIDefinitions},
	{"core_logic", isCoreLogic, model.CoreLogic},
	{"documentation", isDocumentation, model.Documentation},
	{"configuration", isConfiguration, model.Configuration},
	{"utilities", isUtility, model.Utilities},
	{"generated", isGeneratedPath, model.Generated},
}

// File returns the category for a slash-normalized repo-relative path.
func File(p, ext string) model.Category {
	for _, r := range rules {
		if r.match(p, ext) {
			return r.category
		}
	}
	return model.Other
}

// Flags returns the is_test and is_generated markers. Unlike the category,
// flags are computed independently of rule priority: a generated test fixture
// carries both even though the category cascade stops at the test rule.
func Flags(p, ext string) (isTest, isGenerated bool) {
	return isTestPath(p, ext), isGeneratedPath(p, ext)
}

func isTestPath(p, _ string) bool {
	if strings.Contains(p, "_test.") {
		return true
	}
	return hasSegment(p, "test") || hasSegment(p, "tests")
}

func isMainEntry(p, _ string) bool {
	return stem(p) == "main" || hasSegment(p, "cmd")
}

func isAPIDefinition(p, ext string) bool {
	return hasSegment(p, "api") || hasSegment(p, "types") || ext == ".proto"
}

func isCoreLogic(p, _ string) bool {
	return stem(p) == "app" || hasSegment(p, "keeper")
}

func isDocumentation(_, ext string) bool {
	return ext == ".md"
}

func isConfiguration(p, _ string) bool {
	lower := strings.ToLower(p)
	return strings.Contains(lower, "config") || strings.Contains(lower, "const")
}

func isUtility(p, _ string) bool {
	lower := "/" + strings.ToLower(p)
	return strings.Contains(lower, "/util") || strings.Contains(lower, "/helper")
}

func isGeneratedPath(p, _ string) bool {
	base := path.Base(p)
	for _, suffix := range generatedSuffixes {
		if strings.HasSuffix(base, suffix) {
			return true
		}
	}
	return false
}

// stem returns the filename without its final extension ("cmd/main.go" -> "main").
func stem(p string) string {
	base := path.Base(p)
	return strings.TrimSuffix(base, path.Ext(base))
}

// hasSegment reports whether any directory component of p equals seg.
func hasSegment(p, seg string) bool {
	for _, part := range strings.Split(path.Dir(p), "/") {
		if part == seg {
			return true
		}
	}
	return false
}
