package jsontree

import "testing"

// monotonicityDoc is the fixture for the term-extension tests.
const monotonicityDoc = `{"bar":{"grep":21, "thud":{"a/b":[4,5,{"m~n":"Greetings!"}]}}}`

func mustParse(t *testing.T, src string) *Value {
	t.Helper()
	v, err := ParseString(src)
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}
	return v
}

func TestSearchEmptyTermMatchesNothing(t *testing.T) {
	doc := mustParse(t, monotonicityDoc)
	matches := findMatchIDs(doc, newSearchTerm(""), TreeID("t"), false)
	if len(matches) != 0 {
		t.Errorf("empty term produced %d matches, want 0", len(matches))
	}
}

func TestSearchTermExtensionNeverGrowsMatchSet(t *testing.T) {
	doc := mustParse(t, monotonicityDoc)
	tree := TreeID("t")

	prev := -1
	for _, term := range []string{"g", "gr", "gre", "gree"} {
		matches := findMatchIDs(doc, newSearchTerm(term), tree, false)
		if prev >= 0 && len(matches) > prev {
			t.Errorf("term %q produced %d matches, more than the shorter term's %d", term, len(matches), prev)
		}
		prev = len(matches)
	}
}

func TestSearchMatchesKeysAndValuesCaseInsensitive(t *testing.T) {
	doc := mustParse(t, monotonicityDoc)
	tree := TreeID("t")

	// "greetings" only matches the deep string value; every ancestor of
	// /bar/thud/a~1b/2/m~0n must be in the set.
	matches := findMatchIDs(doc, newSearchTerm("greetings"), tree, false)
	wantOpen := []Path{
		nil,
		{Key("bar")},
		{Key("bar"), Key("thud")},
		{Key("bar"), Key("thud"), Key("a/b")},
		{Key("bar"), Key("thud"), Key("a/b"), Index(2)},
	}
	for _, p := range wantOpen {
		if !matches[nodeID(tree, p)] {
			t.Errorf("ancestor %q missing from match set", p.Pointer())
		}
	}
	if len(matches) != len(wantOpen) {
		t.Errorf("match set has %d ids, want %d", len(matches), len(wantOpen))
	}
}

func TestSearchIgnoresArrayIndices(t *testing.T) {
	doc := mustParse(t, `{"a":[10,20,30]}`)
	// "1" appears as index 1 and in the values "10" — only value matches count
	// for indices; the index segment itself never matches.
	matches := findMatchIDs(doc, newSearchTerm("2"), TreeID("t"), false)
	tree := TreeID("t")
	// "2" matches the value "20" at /a/1; ancestors are root and /a.
	if !matches[nodeID(tree, nil)] || !matches[nodeID(tree, Path{Key("a")})] {
		t.Error("expected root and /a to be expanded for the value match")
	}
	if len(matches) != 2 {
		t.Errorf("match set has %d ids, want 2", len(matches))
	}
}

func TestSearchSingleTopLevelMatchSuppression(t *testing.T) {
	doc := mustParse(t, `{"solo":1,"other":2}`)

	// One top-level key matches and the root is not abbreviated: the value is
	// already visible unexpanded, so nothing is pre-expanded.
	got := findMatchIDs(doc, newSearchTerm("solo"), TreeID("t"), false)
	if len(got) != 0 {
		t.Errorf("abbreviate-root disabled: match set has %d ids, want 0 (suppressed)", len(got))
	}

	// With an abbreviated root, the root could still be collapsed to {...},
	// so the match set is kept.
	got = findMatchIDs(doc, newSearchTerm("solo"), TreeID("t"), true)
	if len(got) != 1 {
		t.Errorf("abbreviate-root enabled: match set has %d ids, want 1", len(got))
	}
}

func TestSearchDeepSingleMatchNotSuppressed(t *testing.T) {
	doc := mustParse(t, `{"a":{"needle":1}}`)
	// The single match is one level down; revealing it requires two
	// expansions, so the suppression rule must not fire.
	got := findMatchIDs(doc, newSearchTerm("needle"), TreeID("t"), false)
	if len(got) != 2 {
		t.Errorf("match set has %d ids, want 2", len(got))
	}
}

func TestMatchRanges(t *testing.T) {
	term := newSearchTerm("AB")
	ranges := term.matchRanges("xaByAbz")
	want := [][2]int{{1, 3}, {4, 6}}
	if len(ranges) != len(want) {
		t.Fatalf("got %d ranges, want %d", len(ranges), len(want))
	}
	for i := range want {
		if ranges[i] != want[i] {
			t.Errorf("range %d = %v, want %v", i, ranges[i], want[i])
		}
	}
	if got := newSearchTerm("").matchRanges("anything"); got != nil {
		t.Errorf("empty term ranges = %v, want nil", got)
	}
}

func TestMatchRangesIndexOriginalText(t *testing.T) {
	// "Ⱥ" is 2 bytes but lowercases to a 3-byte rune, so ranges computed on a
	// full-Unicode lowering would be shifted against the original text.
	text := "Ⱥ PLUS a"
	ranges := newSearchTerm("plus").matchRanges(text)
	if len(ranges) != 1 {
		t.Fatalf("got %d ranges, want 1", len(ranges))
	}
	if got := text[ranges[0][0]:ranges[0][1]]; got != "PLUS" {
		t.Errorf("text[%d:%d] = %q, want %q", ranges[0][0], ranges[0][1], got, "PLUS")
	}
}

func TestCaseFoldIsASCIIOnly(t *testing.T) {
	if !newSearchTerm("GREP").matches("grep") {
		t.Error("ASCII case must be ignored")
	}
	// U+212A KELVIN SIGN lowercases to ASCII 'k' under full Unicode rules;
	// the ASCII-only fold leaves it alone.
	if newSearchTerm("k").matches("K") {
		t.Error("non-ASCII case folding must not apply")
	}
}
