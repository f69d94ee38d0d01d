package jsontree

import "strings"

// searchTerm is a case-folded substring query. The empty term matches
// nothing. Folding is ASCII-only: unlike strings.ToLower it never changes
// byte lengths, so offsets into the folded text are valid offsets into the
// original, which highlight rendering relies on.
type searchTerm string

func newSearchTerm(s string) searchTerm {
	return searchTerm(asciiLower(s))
}

func asciiLower(s string) string {
	i := 0
	for ; i < len(s); i++ {
		if s[i] >= 'A' && s[i] <= 'Z' {
			break
		}
	}
	if i == len(s) {
		return s
	}
	b := []byte(s)
	for ; i < len(b); i++ {
		if b[i] >= 'A' && b[i] <= 'Z' {
			b[i] += 'a' - 'A'
		}
	}
	return string(b)
}

// matches reports whether text contains the term, ignoring ASCII case.
func (t searchTerm) matches(text string) bool {
	if t == "" {
		return false
	}
	return strings.Contains(asciiLower(text), string(t))
}

// matchRanges returns the [start, end) byte ranges of every occurrence of the
// term in text, for highlight rendering. Ranges are non-overlapping and in
// order.
func (t searchTerm) matchRanges(text string) [][2]int {
	if t == "" {
		return nil
	}
	lower := asciiLower(text)
	var ranges [][2]int
	for start := 0; ; {
		idx := strings.Index(lower[start:], string(t))
		if idx < 0 {
			break
		}
		from := start + idx
		to := from + len(t)
		ranges = append(ranges, [2]int{from, to})
		start = to
	}
	return ranges
}

// findMatchIDs walks the whole view once and returns the identities of every
// node that must be open to reveal each match: for a match at some path, all
// strict ancestors of that path (including the root) are added.
//
// Matching covers base-value display strings and object keys. Array indices
// never match; an index hit would be meaningless to a user.
//
// When the root is not abbreviated and exactly one identity was collected,
// the set is cleared: the single match was a top-level key or value that is
// already visible without expanding anything. With an abbreviated root the
// set is kept, since the root itself could still be collapsed to "{...}".
func findMatchIDs(value Valuer, term searchTerm, tree ID, abbreviateRoot bool) map[ID]bool {
	matches := make(map[ID]bool)
	var path Path
	searchValue(value, term, tree, &path, matches)

	if !abbreviateRoot && len(matches) == 1 {
		clear(matches)
	}
	return matches
}

func searchValue(value Valuer, term searchTerm, tree ID, path *Path, matches map[ID]bool) {
	tv := value.TreeValue()
	if !tv.Expandable() {
		if term.matches(tv.Display) {
			markAncestors(tree, *path, matches)
		}
		return
	}
	for _, entry := range tv.Entries {
		*path = append(*path, entry.Segment)

		if tv.Kind == KindObject && term.matches(entry.Segment.Key()) {
			markAncestors(tree, *path, matches)
		}
		searchValue(entry.Value, term, tree, path, matches)

		*path = (*path)[:len(*path)-1]
	}
}

// markAncestors records every identity from the root down to, but excluding,
// the matched path itself: the match is revealed by opening its ancestors,
// not by opening the matched node.
func markAncestors(tree ID, path Path, matches map[ID]bool) {
	for i := range path {
		matches[nodeID(tree, path[:i])] = true
	}
}
