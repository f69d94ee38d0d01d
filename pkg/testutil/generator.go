// Package testutil provides deterministic JSON document generators for tests
// and benchmarks. All generators produce identical output for a given seed so
// failures reproduce.
package testutil

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/vanderheijden86/jsontree/pkg/jsontree"
)

// GeneratorConfig controls document generation.
type GeneratorConfig struct {
	Seed      int64    // Random seed for determinism (0 = use current time)
	KeyPrefix string   // Prefix for generated object keys (default: "key")
	Strings   []string // Pool of string values to draw from
}

// DefaultConfig returns a config suitable for most tests.
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		Seed:      42, // Deterministic
		KeyPrefix: "key",
		Strings:   []string{"alpha", "bravo", "charlie", "delta", "echo"},
	}
}

// Generator creates JSON documents with various shapes.
type Generator struct {
	cfg GeneratorConfig
	rng *rand.Rand
}

// New creates a Generator with the given config.
func New(cfg GeneratorConfig) *Generator {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = "key"
	}
	if len(cfg.Strings) == 0 {
		cfg.Strings = DefaultConfig().Strings
	}
	return &Generator{cfg: cfg, rng: rand.New(rand.NewSource(seed))}
}

// Flat generates an object with n scalar members.
func (g *Generator) Flat(n int) *jsontree.Value {
	obj := jsontree.Object()
	for i := 0; i < n; i++ {
		obj.With(g.key(i), g.scalar())
	}
	return obj
}

// Chain generates an object nested depth levels deep with a single member at
// each level and a scalar at the bottom.
func (g *Generator) Chain(depth int) *jsontree.Value {
	if depth <= 0 {
		return g.scalar()
	}
	return jsontree.Object().With(g.key(depth), g.Chain(depth-1))
}

// Balanced generates a tree where every object has fanout members down to the
// given depth. Node count grows as fanout^depth; keep the arguments small.
func (g *Generator) Balanced(fanout, depth int) *jsontree.Value {
	if depth <= 0 {
		return g.scalar()
	}
	obj := jsontree.Object()
	for i := 0; i < fanout; i++ {
		obj.With(g.key(i), g.Balanced(fanout, depth-1))
	}
	return obj
}

// Mixed generates a document with n top-level members mixing scalars, arrays
// and shallow objects, the shape a config or API payload tends to have.
func (g *Generator) Mixed(n int) *jsontree.Value {
	obj := jsontree.Object()
	for i := 0; i < n; i++ {
		switch g.rng.Intn(4) {
		case 0:
			obj.With(g.key(i), g.scalar())
		case 1:
			elems := make([]*jsontree.Value, g.rng.Intn(5))
			for j := range elems {
				elems[j] = g.scalar()
			}
			obj.With(g.key(i), jsontree.Array(elems...))
		case 2:
			inner := jsontree.Object()
			for j := 0; j < g.rng.Intn(4); j++ {
				inner.With(fmt.Sprintf("%s_%d_%d", g.cfg.KeyPrefix, i, j), g.scalar())
			}
			obj.With(g.key(i), inner)
		default:
			obj.With(g.key(i), jsontree.Null())
		}
	}
	return obj
}

func (g *Generator) key(i int) string {
	return fmt.Sprintf("%s_%d", g.cfg.KeyPrefix, i)
}

func (g *Generator) scalar() *jsontree.Value {
	switch g.rng.Intn(4) {
	case 0:
		return jsontree.Bool(g.rng.Intn(2) == 0)
	case 1:
		return jsontree.Number(fmt.Sprintf("%d", g.rng.Intn(10000)))
	case 2:
		return jsontree.String(g.cfg.Strings[g.rng.Intn(len(g.cfg.Strings))])
	default:
		return jsontree.Null()
	}
}
