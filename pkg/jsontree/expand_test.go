package jsontree

import "testing"

func TestDefaultOpenToLevel(t *testing.T) {
	tree := TreeID("t")
	paths := []Path{
		nil,                        // depth 0
		{Key("a")},                 // depth 1
		{Key("a"), Index(0)},       // depth 2
		{Key("a"), Index(0), Key("b")}, // depth 3
	}

	for level := 0; level <= 3; level++ {
		resolved, _ := ExpandToLevel(level).resolve(Null(), tree, false)
		for depth, p := range paths {
			want := depth <= level
			if got := resolved.defaultOpen(p, nodeID(tree, p)); got != want {
				t.Errorf("ToLevel(%d) at depth %d: open = %v, want %v", level, depth, got, want)
			}
		}
	}
}

func TestDefaultOpenAllAndNone(t *testing.T) {
	tree := TreeID("t")
	deep := Path{Key("a"), Key("b"), Key("c")}

	all, _ := ExpandAll().resolve(Null(), tree, false)
	if !all.defaultOpen(nil, nodeID(tree, nil)) || !all.defaultOpen(deep, nodeID(tree, deep)) {
		t.Error("All must open every node")
	}

	none, _ := ExpandNone().resolve(Null(), tree, false)
	if none.defaultOpen(nil, nodeID(tree, nil)) || none.defaultOpen(deep, nodeID(tree, deep)) {
		t.Error("None must open no node")
	}
}

func TestSearchPoliciesEmptyTermFallbacks(t *testing.T) {
	tree := TreeID("t")
	doc := mustParse(t, `{"a":1}`)

	// SearchResults("") behaves as None.
	resolved, term := ExpandSearchResults("").resolve(doc, tree, false)
	if term != "" {
		t.Errorf("empty term should not survive resolution, got %q", term)
	}
	if resolved.defaultOpen(nil, nodeID(tree, nil)) {
		t.Error("SearchResults(\"\") must behave as None")
	}

	// SearchResultsOrAll("") behaves as All.
	resolved, _ = ExpandSearchResultsOrAll("").resolve(doc, tree, false)
	if !resolved.defaultOpen(nil, nodeID(tree, nil)) {
		t.Error("SearchResultsOrAll(\"\") must behave as All")
	}
}

func TestSearchPolicyResolvesMatchSet(t *testing.T) {
	tree := TreeID("t")
	doc := mustParse(t, `{"a":{"needle":1},"b":{"c":2}}`)

	resolved, term := ExpandSearchResults("needle").resolve(doc, tree, false)
	if term != "needle" {
		t.Errorf("term = %q, want %q", term, "needle")
	}
	if !resolved.defaultOpen(nil, nodeID(tree, nil)) {
		t.Error("root must default open to reveal the match")
	}
	aPath := Path{Key("a")}
	if !resolved.defaultOpen(aPath, nodeID(tree, aPath)) {
		t.Error("/a must default open to reveal the match")
	}
	bPath := Path{Key("b")}
	if resolved.defaultOpen(bPath, nodeID(tree, bPath)) {
		t.Error("/b holds no match and must default closed")
	}
}

func TestPolicyHashDistinguishesPolicies(t *testing.T) {
	policies := []DefaultExpand{
		ExpandNone(),
		ExpandAll(),
		ExpandToLevel(0),
		ExpandToLevel(1),
		ExpandSearchResults("x"),
		ExpandSearchResults("y"),
		ExpandSearchResultsOrAll("x"),
	}
	seen := make(map[uint64]int)
	for i, p := range policies {
		h := p.hash()
		if j, dup := seen[h]; dup {
			t.Errorf("policies %d and %d share hash %d", i, j, h)
		}
		seen[h] = i
	}

	if ExpandToLevel(2).hash() != ExpandToLevel(2).hash() {
		t.Error("hash must be deterministic")
	}
}
