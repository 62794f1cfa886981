package ast

import (
	"math/rand"
	"time"

	"github.com/sambeau/tansy/pkg/tansy/resolve"
	"github.com/sambeau/tansy/pkg/tansy/runtime"
)

// RandomNode declares a named random generator. Afterwards
// <name_random> draws an int from [min, max] and <name_float> a float
// from [min, max). Each declaration owns its own source, so seeding
// one generator never disturbs another.
type RandomNode struct {
	Base
	Name string
	Min  string
	Max  string
	Seed string
}

// NewRandom creates a generator declaration. Min, max and seed keep
// their attribute text; they resolve when the node executes.
func NewRandom(name, min, max, seed string) *RandomNode {
	return &RandomNode{Base: base("random"), Name: name, Min: min, Max: max, Seed: seed}
}

func (n *RandomNode) Execute(env *runtime.Env) {
	defer n.done()

	name := resolve.AsString(n.Name, env)
	if name == "" {
		return
	}
	min := resolve.AsInt(n.Min, env, 0)
	max := resolve.AsInt(n.Max, env, 100)

	gen := newGenerator(min, max, n.seed(env))
	env.SetGenerator(name, gen)
	env.Bind(name+"_random", func() any { return gen.Int() })
	env.Bind(name+"_float", func() any { return gen.Float() })
}

// seed picks the generator seed: the declaration's own seed attribute,
// then the run-wide seed, then the clock.
func (n *RandomNode) seed(env *runtime.Env) int64 {
	if n.Seed != "" {
		return int64(resolve.AsInt(n.Seed, env, 0))
	}
	if env.Seed != 0 {
		return env.Seed
	}
	return time.Now().UnixNano()
}

type generator struct {
	min, max int
	rng      *rand.Rand
}

func newGenerator(min, max int, seed int64) *generator {
	return &generator{min: min, max: max, rng: rand.New(rand.NewSource(seed))}
}

// Int draws from the inclusive range [min, max].
func (g *generator) Int() int {
	span := g.max - g.min + 1
	if span <= 0 {
		return g.min
	}
	return g.min + g.rng.Intn(span)
}

// Float draws from the half-open range [min, max).
func (g *generator) Float() float64 {
	return float64(g.min) + g.rng.Float64()*float64(g.max-g.min)
}

// Invoke implements runtime.Generator for template references that go
// through the generator table instead of a direct binding.
func (g *generator) Invoke(op string) (any, bool) {
	switch op {
	case "random":
		return g.Int(), true
	case "float":
		return g.Float(), true
	}
	return nil, false
}
