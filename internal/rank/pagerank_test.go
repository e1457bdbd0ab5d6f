package rank

import (
	"math"
	"testing"
)

func sum(s Scores) float64 {
	var total float64
	for _, v := range s {
		total += v
	}
	return total
}

func TestRank_Empty(t *testing.T) {
	scores, iter := NewGraph().Rank(DefaultParams())
	if len(scores) != 0 || iter != 0 {
		t.Errorf("scores = %v, iterations = %d", scores, iter)
	}
}

func TestRank_ExtraInboundEdgeRanksHigher(t *testing.T) {
	g := NewGraph()
	g.Link("B", "A", 1)
	g.Link("C", "A", 1)
	g.Link("D", "B", 1)

	scores, _ := g.Rank(DefaultParams())
	if !(scores["B"] > scores["C"]) {
		t.Errorf("B = %v, C = %v; want B > C", scores["B"], scores["C"])
	}
	if !(scores["A"] > scores["B"]) {
		t.Errorf("A = %v, B = %v; want A > B", scores["A"], scores["B"])
	}
	if math.Abs(sum(scores)-1) > 1e-6 {
		t.Errorf("scores sum to %v, want 1", sum(scores))
	}
}

func TestRank_CycleIsUniform(t *testing.T) {
	g := NewGraph()
	g.Link("A", "B", 1)
	g.Link("B", "C", 1)
	g.Link("C", "A", 1)

	scores, _ := g.Rank(DefaultParams())
	for _, name := range []string{"A", "B", "C"} {
		if math.Abs(scores[name]-1.0/3) > 1e-6 {
			t.Errorf("%s = %v, want 1/3", name, scores[name])
		}
	}
}

func TestRank_IsolatedNodeScores(t *testing.T) {
	g := NewGraph()
	g.AddNode("Lonely")
	g.Link("A", "B", 1)

	scores, _ := g.Rank(DefaultParams())
	if scores["Lonely"] <= 0 {
		t.Errorf("isolated node score = %v, want > 0", scores["Lonely"])
	}
	if g.Len() != 3 {
		t.Errorf("Len = %d, want 3", g.Len())
	}
}

func TestRank_SelfLoopAndDanglingTarget(t *testing.T) {
	g := NewGraph()
	g.Link("A", "A", 1)
	g.Link("A", "Missing", 1)

	scores, _ := g.Rank(DefaultParams())
	for name, v := range scores {
		if math.IsNaN(v) || v <= 0 {
			t.Errorf("%s = %v", name, v)
		}
	}
	if math.Abs(sum(scores)-1) > 1e-6 {
		t.Errorf("scores sum to %v, want 1", sum(scores))
	}
}

func TestRank_ParallelEdgesAddWeight(t *testing.T) {
	g := NewGraph()
	g.Link("X", "Y", 1)
	g.Link("X", "Y", 1)
	g.Link("X", "Z", 1)

	scores, _ := g.Rank(DefaultParams())
	if !(scores["Y"] > scores["Z"]) {
		t.Errorf("Y = %v, Z = %v; want Y > Z", scores["Y"], scores["Z"])
	}
}

func TestRank_MaxIterationsCaps(t *testing.T) {
	g := NewGraph()
	g.Link("A", "B", 1)
	g.Link("B", "A", 1)
	g.Link("B", "C", 1)

	_, iter := g.Rank(Params{Damping: 0.85, Tolerance: 0, MaxIterations: 5})
	if iter != 5 {
		t.Errorf("iterations = %d, want 5", iter)
	}
}
