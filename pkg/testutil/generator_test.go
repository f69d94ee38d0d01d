package testutil

import (
	"bytes"
	"testing"

	"github.com/vanderheijden86/jsontree/pkg/jsontree"
)

func TestGeneratorDeterminism(t *testing.T) {
	a := New(DefaultConfig()).Mixed(20)
	b := New(DefaultConfig()).Mixed(20)

	if !bytes.Equal(a.JSON(), b.JSON()) {
		t.Error("same seed must produce identical documents")
	}
}

func TestGeneratorSeedsDiffer(t *testing.T) {
	cfg := DefaultConfig()
	a := New(cfg).Mixed(20)
	cfg.Seed = 7
	b := New(cfg).Mixed(20)

	if bytes.Equal(a.JSON(), b.JSON()) {
		t.Error("different seeds should produce different documents")
	}
}

func TestFlat(t *testing.T) {
	doc := New(DefaultConfig()).Flat(10)

	if doc.Kind() != jsontree.KindObject {
		t.Fatalf("expected object, got %v", doc.Kind())
	}
	if doc.Len() != 10 {
		t.Errorf("expected 10 members, got %d", doc.Len())
	}
	AssertPointerExists(t, doc, "/key_0")
	AssertPointerExists(t, doc, "/key_9")
}

func TestChain(t *testing.T) {
	doc := New(DefaultConfig()).Chain(4)

	cur, depth := doc, 0
	for cur.Kind() == jsontree.KindObject {
		if cur.Len() != 1 {
			t.Fatalf("chain level %d has %d members, want 1", depth, cur.Len())
		}
		tv := cur.TreeValue()
		cur = tv.Entries[0].Value.(*jsontree.Value)
		depth++
	}
	if depth != 4 {
		t.Errorf("expected depth 4, got %d", depth)
	}
}

func TestBalanced(t *testing.T) {
	doc := New(DefaultConfig()).Balanced(3, 2)

	if doc.Len() != 3 {
		t.Fatalf("expected fanout 3, got %d", doc.Len())
	}
	for _, entry := range doc.TreeValue().Entries {
		child := entry.Value.(*jsontree.Value)
		if child.Kind() != jsontree.KindObject || child.Len() != 3 {
			t.Errorf("child %s: expected object with 3 members", entry.Segment)
		}
	}
}

func TestGeneratedDocumentsRender(t *testing.T) {
	doc := New(DefaultConfig()).Mixed(15)
	store := jsontree.NewStore()
	tree := jsontree.New("gen", doc, jsontree.WithDefaultExpand(jsontree.ExpandAll()))

	f := jsontree.NewFrame()
	tree.Show(f, store)

	AssertRowPointers(t, doc, f)
	AssertUniqueRowIDs(t, f)
}
