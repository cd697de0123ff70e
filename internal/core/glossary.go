// ABOUTME: GlossaryIndex selects the glossary entries that occur in a chunk
// ABOUTME: One compiled alternation, longest terms first, so one scan per chunk
package core

import (
	"regexp"
	"sort"
	"strings"

	"github.com/harper/translate-standalone/internal/models"
)

// GlossaryIndex is built once per translation session and is read-only
// afterwards.
type GlossaryIndex struct {
	byTerm  map[string]models.GlossaryEntry
	pattern *regexp.Regexp
}

// NewGlossaryIndex compiles a case-insensitive alternation over all entry
// terms, sorted by descending length so multi-word terms are matched before
// their single-word prefixes ("Elder Council" before "Elder").
func NewGlossaryIndex(entries []models.GlossaryEntry) *GlossaryIndex {
	idx := &GlossaryIndex{byTerm: make(map[string]models.GlossaryEntry, len(entries))}

	terms := make([]string, 0, len(entries))
	for _, e := range entries {
		term := strings.TrimSpace(e.Original)
		if term == "" {
			continue
		}
		key := strings.ToLower(term)
		if _, dup := idx.byTerm[key]; dup {
			continue
		}
		idx.byTerm[key] = e
		terms = append(terms, term)
	}
	if len(terms) == 0 {
		return idx
	}

	sort.Slice(terms, func(i, j int) bool {
		if len(terms[i]) != len(terms[j]) {
			return len(terms[i]) > len(terms[j])
		}
		return terms[i] < terms[j]
	})
	quoted := make([]string, len(terms))
	for i, t := range terms {
		quoted[i] = regexp.QuoteMeta(t)
	}
	idx.pattern = regexp.MustCompile("(?i)(?:" + strings.Join(quoted, "|") + ")")
	return idx
}

// Len returns the number of indexed terms.
func (idx *GlossaryIndex) Len() int {
	return len(idx.byTerm)
}

// Has reports whether term is already indexed (case-insensitive).
func (idx *GlossaryIndex) Has(term string) bool {
	_, ok := idx.byTerm[strings.ToLower(strings.TrimSpace(term))]
	return ok
}

// Relevant returns the distinct entries whose term occurs in chunk, in a
// stable (alphabetical by lowercased term) order. A single pattern scan
// bounds the cost to O(terms + len(chunk)).
func (idx *GlossaryIndex) Relevant(chunk string) []models.GlossaryEntry {
	if idx.pattern == nil || chunk == "" {
		return nil
	}
	seen := make(map[string]bool)
	for _, match := range idx.pattern.FindAllString(chunk, -1) {
		seen[strings.ToLower(match)] = true
	}
	if len(seen) == 0 {
		return nil
	}

	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	entries := make([]models.GlossaryEntry, 0, len(keys))
	for _, k := range keys {
		if e, ok := idx.byTerm[k]; ok {
			entries = append(entries, e)
		}
	}
	return entries
}

// PromptBlock renders matched entries as original=translated lines for
// prompt injection. It returns "" when nothing matched so the glossary
// block can be omitted entirely.
func PromptBlock(entries []models.GlossaryEntry) string {
	if len(entries) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("Glossary (use these translations exactly):\n")
	for _, e := range entries {
		b.WriteString(e.Original)
		b.WriteString("=")
		b.WriteString(e.Translated)
		b.WriteString("\n")
	}
	return b.String()
}
