// Package content expands content patterns against a file tree. It answers
// which files a configuration would scan and which patterns match nothing.
// It does not read the files or extract class names.
package content

import (
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/vango-dev/tailcfg/internal/config"
)

// PatternResult is the outcome of one pattern.
type PatternResult struct {
	// Pattern is the pattern as declared.
	Pattern string

	// Negated is set for "!" patterns.
	Negated bool

	// Outside is set when the pattern points outside the matched tree
	// (absolute or climbing with ".."). Such patterns are not expanded.
	Outside bool

	// Matches counts the files the pattern matched. For negated patterns
	// it counts the files it removed from the union.
	Matches int
}

// Result is the outcome of matching a pattern list.
type Result struct {
	Patterns []PatternResult

	// Files is the sorted union of positive matches minus negated ones.
	Files []string
}

// Unmatched returns the positive patterns that matched no files.
func (r *Result) Unmatched() []string {
	var out []string
	for _, p := range r.Patterns {
		if !p.Negated && !p.Outside && p.Matches == 0 {
			out = append(out, p.Pattern)
		}
	}
	return out
}

// Match expands patterns against fsys. Patterns are slash-separated and
// relative to the root of fsys; a leading "./" is ignored.
func Match(fsys fs.FS, patterns []string) (*Result, error) {
	res := &Result{Patterns: make([]PatternResult, len(patterns))}
	union := make(map[string]struct{})

	type negation struct {
		index int
		glob  string
	}
	var negations []negation

	for i, p := range patterns {
		glob, negated := config.SplitPattern(p)
		pr := PatternResult{Pattern: p, Negated: negated}

		glob, ok := clean(glob)
		if !ok {
			pr.Outside = true
			res.Patterns[i] = pr
			continue
		}
		if !doublestar.ValidatePattern(glob) {
			return nil, fmt.Errorf("pattern %d %q: %w", i, p, doublestar.ErrBadPattern)
		}

		if negated {
			negations = append(negations, negation{index: i, glob: glob})
			res.Patterns[i] = pr
			continue
		}

		matches, err := doublestar.Glob(fsys, glob, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("pattern %d %q: %w", i, p, err)
		}
		pr.Matches = len(matches)
		for _, m := range matches {
			union[m] = struct{}{}
		}
		res.Patterns[i] = pr
	}

	for name := range union {
		for _, n := range negations {
			if ok, _ := doublestar.Match(n.glob, name); ok {
				res.Patterns[n.index].Matches++
				delete(union, name)
				break
			}
		}
	}

	res.Files = make([]string, 0, len(union))
	for name := range union {
		res.Files = append(res.Files, name)
	}
	sort.Strings(res.Files)
	return res, nil
}

// clean strips "./" prefixes and reports whether the glob stays inside the
// root.
func clean(glob string) (string, bool) {
	for strings.HasPrefix(glob, "./") {
		glob = strings.TrimLeft(glob[2:], "/")
	}
	if glob == "" || glob == "." {
		return "", false
	}
	if path.IsAbs(glob) {
		return "", false
	}
	glob = path.Clean(glob)
	if glob == ".." || strings.HasPrefix(glob, "../") {
		return "", false
	}
	return glob, true
}
