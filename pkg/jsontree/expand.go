package jsontree

import (
	"strconv"

	"github.com/cespare/xxhash/v2"
)

type expandMode int

const (
	expandNone expandMode = iota
	expandAll
	expandToLevel
	expandSearch
	expandSearchOrAll
)

// DefaultExpand is the policy deciding which nodes start open absent prior
// interaction. The zero value collapses everything.
type DefaultExpand struct {
	mode  expandMode
	level int
	term  string
}

// ExpandNone collapses all arrays and objects by default.
func ExpandNone() DefaultExpand { return DefaultExpand{mode: expandNone} }

// ExpandAll expands all arrays and objects by default.
func ExpandAll() DefaultExpand { return DefaultExpand{mode: expandAll} }

// ExpandToLevel expands arrays and objects nested up to n levels deep: 0
// expands a top-level array/object only, 1 additionally expands its direct
// array/object children, and so on.
func ExpandToLevel(n int) DefaultExpand {
	return DefaultExpand{mode: expandToLevel, level: n}
}

// ExpandSearchResults expands exactly the nodes needed to reveal every value
// or object key containing term (case-insensitive). An empty term expands
// nothing.
func ExpandSearchResults(term string) DefaultExpand {
	return DefaultExpand{mode: expandSearch, term: term}
}

// ExpandSearchResultsOrAll behaves like ExpandSearchResults, except an empty
// term expands everything.
func ExpandSearchResultsOrAll(term string) DefaultExpand {
	return DefaultExpand{mode: expandSearchOrAll, term: term}
}

// SearchTerm returns the search term for the search-driven policies, and ""
// otherwise.
func (d DefaultExpand) SearchTerm() string { return d.term }

// hash fingerprints the policy for the reset protocol: when the stored hash
// for a tree differs from the current one, the tree re-applies its defaults.
func (d DefaultExpand) hash() uint64 {
	var dig xxhash.Digest
	_, _ = dig.WriteString(strconv.Itoa(int(d.mode)))
	_, _ = dig.WriteString("/")
	_, _ = dig.WriteString(strconv.Itoa(d.level))
	_, _ = dig.WriteString("/")
	_, _ = dig.WriteString(d.term)
	return dig.Sum64()
}

// resolvedExpand is the per-render-pass form of DefaultExpand: search-driven
// policies collapse to an explicit ID set, computed once per pass.
type resolvedExpand struct {
	mode  expandMode // expandNone, expandAll or expandToLevel
	level int
	paths map[ID]bool
}

// defaultOpen decides the default collapse state for the node at the given
// path. depth(root) = 0.
func (r resolvedExpand) defaultOpen(path Path, id ID) bool {
	switch r.mode {
	case expandAll:
		return true
	case expandToLevel:
		return len(path) <= r.level
	case expandSearch:
		return r.paths[id]
	default:
		return false
	}
}

// resolve lowers the policy for one render pass. Search-driven policies with
// an empty term degrade to None (SearchResults) or All (SearchResultsOrAll)
// without a document walk; otherwise the match set is computed here.
func (d DefaultExpand) resolve(value Valuer, tree ID, abbreviateRoot bool) (resolvedExpand, searchTerm) {
	switch d.mode {
	case expandAll:
		return resolvedExpand{mode: expandAll}, ""
	case expandNone:
		return resolvedExpand{mode: expandNone}, ""
	case expandToLevel:
		return resolvedExpand{mode: expandToLevel, level: d.level}, ""
	case expandSearch, expandSearchOrAll:
		if d.term == "" {
			if d.mode == expandSearchOrAll {
				return resolvedExpand{mode: expandAll}, ""
			}
			return resolvedExpand{mode: expandNone}, ""
		}
		term := newSearchTerm(d.term)
		matches := findMatchIDs(value, term, tree, abbreviateRoot)
		return resolvedExpand{mode: expandSearch, paths: matches}, term
	default:
		return resolvedExpand{mode: expandNone}, ""
	}
}
