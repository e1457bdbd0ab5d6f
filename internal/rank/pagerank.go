// Package rank scores the nodes of a directed link graph by damped power
// iteration (PageRank).
package rank

import "math"

// Defaults used when no parameters are configured.
const (
	DefaultDamping       = 0.85
	DefaultTolerance     = 1e-6
	DefaultMaxIterations = 1000
)

// Params controls the power iteration.
type Params struct {
	Damping       float64
	Tolerance     float64
	MaxIterations int
}

// DefaultParams returns the standard damping 0.85 and tolerance 1e-6.
func DefaultParams() Params {
	return Params{
		Damping:       DefaultDamping,
		Tolerance:     DefaultTolerance,
		MaxIterations: DefaultMaxIterations,
	}
}

// Scores maps a node name to its stationary score.
type Scores map[string]float64

type edge struct {
	from, to int
	weight   float64
}

// Graph is a directed multigraph. Parallel edges add up; self-loops are kept.
type Graph struct {
	index map[string]int
	names []string
	edges []edge
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{index: make(map[string]int)}
}

// AddNode adds name if missing and returns its index.
func (g *Graph) AddNode(name string) int {
	if i, ok := g.index[name]; ok {
		return i
	}
	i := len(g.names)
	g.index[name] = i
	g.names = append(g.names, name)
	return i
}

// Link adds an edge from → to. Non-positive weights are ignored.
func (g *Graph) Link(from, to string, weight float64) {
	f, t := g.AddNode(from), g.AddNode(to)
	if weight <= 0 {
		return
	}
	g.edges = append(g.edges, edge{from: f, to: t, weight: weight})
}

// Len returns the number of nodes.
func (g *Graph) Len() int { return len(g.names) }

// Rank runs power iteration until the L1 change between iterations drops
// below p.Tolerance or p.MaxIterations is reached, and returns the scores
// along with the number of iterations run. Scores sum to 1.
//
// Rank held by nodes without outbound edges is spread evenly over all
// nodes, and every node receives the (1-damping)/N teleport share, so
// isolated nodes still score.
func (g *Graph) Rank(p Params) (Scores, int) {
	n := len(g.names)
	if n == 0 {
		return Scores{}, 0
	}
	if p.MaxIterations <= 0 {
		p.MaxIterations = DefaultMaxIterations
	}

	outWeight := make([]float64, n)
	for _, e := range g.edges {
		outWeight[e.from] += e.weight
	}

	size := float64(n)
	cur := make([]float64, n)
	next := make([]float64, n)
	for i := range cur {
		cur[i] = 1 / size
	}

	iterations := 0
	for iterations < p.MaxIterations {
		iterations++

		var dangling float64
		for i, w := range outWeight {
			if w == 0 {
				dangling += cur[i]
			}
		}
		base := (1-p.Damping)/size + p.Damping*dangling/size
		for i := range next {
			next[i] = base
		}
		for _, e := range g.edges {
			next[e.to] += p.Damping * cur[e.from] * e.weight / outWeight[e.from]
		}

		var delta float64
		for i := range cur {
			delta += math.Abs(next[i] - cur[i])
		}
		cur, next = next, cur
		if delta < p.Tolerance {
			break
		}
	}

	out := make(Scores, n)
	for i, name := range g.names {
		out[name] = cur[i]
	}
	return out, iterations
}
