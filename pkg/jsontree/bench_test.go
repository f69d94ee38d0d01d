package jsontree_test

import (
	"testing"

	"github.com/vanderheijden86/jsontree/pkg/jsontree"
	"github.com/vanderheijden86/jsontree/pkg/testutil"
)

func benchShow(b *testing.B, doc *jsontree.Value, opts ...jsontree.Option) {
	store := jsontree.NewStore()
	tree := jsontree.New("bench", doc, opts...)
	f := jsontree.NewFrame()

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		tree.Show(f, store)
	}
}

func BenchmarkShowFlat1000(b *testing.B) {
	doc := testutil.New(testutil.DefaultConfig()).Flat(1000)
	benchShow(b, doc, jsontree.WithDefaultExpand(jsontree.ExpandAll()))
}

func BenchmarkShowBalanced(b *testing.B) {
	doc := testutil.New(testutil.DefaultConfig()).Balanced(5, 4)
	benchShow(b, doc, jsontree.WithDefaultExpand(jsontree.ExpandAll()))
}

func BenchmarkShowMixed200(b *testing.B) {
	doc := testutil.New(testutil.DefaultConfig()).Mixed(200)
	benchShow(b, doc, jsontree.WithDefaultExpand(jsontree.ExpandAll()))
}

func BenchmarkShowCollapsedRoot(b *testing.B) {
	doc := testutil.New(testutil.DefaultConfig()).Mixed(200)
	benchShow(b, doc,
		jsontree.WithDefaultExpand(jsontree.ExpandNone()),
		jsontree.WithAbbreviateRoot(true),
	)
}

func BenchmarkShowSearch(b *testing.B) {
	doc := testutil.New(testutil.DefaultConfig()).Mixed(200)
	benchShow(b, doc, jsontree.WithDefaultExpand(jsontree.ExpandSearchResults("alpha")))
}
