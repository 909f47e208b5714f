// schedule.go turns detected conflicts into a parallel execution plan: a
// dependency graph where every conflict forces the later transaction to
// wait for the earlier one, and a wave assignment derived from it. The
// output is data for a scheduler, not goroutines.

package bal

import "sort"

// DependencyGraph maps each transaction index to the set of predecessor
// transactions that must complete before it can start.
type DependencyGraph struct {
	deps map[uint64][]uint64
}

// NewDependencyGraph creates an empty dependency graph.
func NewDependencyGraph() *DependencyGraph {
	return &DependencyGraph{deps: make(map[uint64][]uint64)}
}

// AddNode ensures a transaction exists in the graph, even with no deps.
func (g *DependencyGraph) AddNode(tx uint64) {
	if _, ok := g.deps[tx]; !ok {
		g.deps[tx] = nil
	}
}

// AddEdge records that tx depends on dep (dep must finish first).
func (g *DependencyGraph) AddEdge(tx, dep uint64) {
	g.AddNode(dep)
	g.deps[tx] = append(g.deps[tx], dep)
}

// Dependencies returns the direct predecessors of a transaction.
func (g *DependencyGraph) Dependencies(tx uint64) []uint64 {
	return g.deps[tx]
}

// Nodes returns all transaction indices in ascending order.
func (g *DependencyGraph) Nodes() []uint64 {
	nodes := make([]uint64, 0, len(g.deps))
	for n := range g.deps {
		nodes = append(nodes, n)
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i] < nodes[j] })
	return nodes
}

// IndependentNodes returns transactions with zero dependencies.
func (g *DependencyGraph) IndependentNodes() []uint64 {
	var result []uint64
	for n, deps := range g.deps {
		if len(deps) == 0 {
			result = append(result, n)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i] < result[j] })
	return result
}

// BuildDependencyGraph constructs a graph from conflicts over numTx
// transactions. Each conflict adds one edge: the later transaction depends
// on the earlier. Duplicate pairs collapse to a single edge.
func BuildDependencyGraph(conflicts []Conflict, numTx uint64) *DependencyGraph {
	g := NewDependencyGraph()
	for i := uint64(0); i < numTx; i++ {
		g.AddNode(i)
	}

	seen := make(map[[2]uint64]struct{})
	for _, c := range conflicts {
		edge := [2]uint64{c.TxA, c.TxB}
		if _, ok := seen[edge]; ok {
			continue
		}
		seen[edge] = struct{}{}
		g.AddEdge(c.TxB, c.TxA)
	}
	return g
}

// ScheduleSlot assigns one transaction to an execution wave. All
// transactions in a wave can run concurrently; waves run in order.
type ScheduleSlot struct {
	TxIndex uint64
	WaveID  int
}

// ScheduleFromGraph produces a wave assignment from a dependency graph:
// each transaction's wave is one past the deepest wave among its
// dependencies. Returns nil for a nil or empty graph.
//
// Conflict edges always point from a higher transaction index to a lower
// one, so the graph is acyclic and the recursion terminates.
func ScheduleFromGraph(g *DependencyGraph) []ScheduleSlot {
	if g == nil || len(g.deps) == 0 {
		return nil
	}

	level := make(map[uint64]int)
	nodes := g.Nodes()
	for _, n := range nodes {
		computeLevel(n, g, level)
	}

	slots := make([]ScheduleSlot, 0, len(nodes))
	for _, n := range nodes {
		slots = append(slots, ScheduleSlot{TxIndex: n, WaveID: level[n]})
	}
	return slots
}

func computeLevel(n uint64, g *DependencyGraph, level map[uint64]int) int {
	if l, ok := level[n]; ok {
		return l
	}
	maxDep := -1
	for _, dep := range g.Dependencies(n) {
		if l := computeLevel(dep, g, level); l > maxDep {
			maxDep = l
		}
	}
	level[n] = maxDep + 1
	return level[n]
}

// WaveCount returns the number of execution waves in a schedule.
func WaveCount(slots []ScheduleSlot) int {
	if len(slots) == 0 {
		return 0
	}
	max := 0
	for _, s := range slots {
		if s.WaveID > max {
			max = s.WaveID
		}
	}
	return max + 1
}

// Waves groups a schedule into per-wave transaction batches, each batch
// sorted ascending.
func Waves(slots []ScheduleSlot) [][]uint64 {
	n := WaveCount(slots)
	if n == 0 {
		return nil
	}
	waves := make([][]uint64, n)
	for _, s := range slots {
		waves[s.WaveID] = append(waves[s.WaveID], s.TxIndex)
	}
	for _, w := range waves {
		sort.Slice(w, func(i, j int) bool { return w[i] < w[j] })
	}
	return waves
}
