// Package hierarchy rebuilds the parent/child nesting of notes from the Nest
// adjacency relation and decides the order in which notes are displayed.
package hierarchy

import (
	"slices"

	"github.com/starford/jot/internal/models"
)

// Node is one expanded position in the forest. A note with several parents
// appears once per parent path.
type Node struct {
	ID         int64
	Generation int
	Children   []*Node
}

// Forest is the expansion of the edge set from every true root.
type Forest struct {
	Roots []*Node
	// Linked holds notes that are both a parent and a child somewhere.
	Linked map[int64]struct{}
}

// Build expands edges from the true roots: notes that are a parent at least
// once and never a child. Roots are taken in ascending id order and children
// in ascending child id order. An edge pointing back to a note already on the
// current path is skipped, so cycles terminate.
func Build(edges []models.Edge) *Forest {
	adj := make(map[int64][]int64)
	parents := make(map[int64]struct{})
	children := make(map[int64]struct{})
	seen := make(map[models.Edge]struct{}, len(edges))

	for _, e := range edges {
		if _, dup := seen[e]; dup {
			continue
		}
		seen[e] = struct{}{}
		adj[e.Parent] = append(adj[e.Parent], e.Child)
		parents[e.Parent] = struct{}{}
		children[e.Child] = struct{}{}
	}
	for p := range adj {
		slices.Sort(adj[p])
	}

	linked := make(map[int64]struct{})
	var roots []int64
	for p := range parents {
		if _, ok := children[p]; ok {
			linked[p] = struct{}{}
			continue
		}
		roots = append(roots, p)
	}
	slices.Sort(roots)

	f := &Forest{Linked: linked}
	onPath := make(map[int64]bool)
	for _, r := range roots {
		f.Roots = append(f.Roots, expand(r, 1, adj, onPath))
	}
	return f
}

func expand(id int64, gen int, adj map[int64][]int64, onPath map[int64]bool) *Node {
	n := &Node{ID: id, Generation: gen}
	onPath[id] = true
	for _, c := range adj[id] {
		if onPath[c] {
			continue
		}
		n.Children = append(n.Children, expand(c, gen+1, adj, onPath))
	}
	delete(onPath, id)
	return n
}

// Flatten lists the forest depth-first as (id, generation) pairs.
func (f *Forest) Flatten() []models.DisplayNode {
	var out []models.DisplayNode
	var walk func(n *Node)
	walk = func(n *Node) {
		out = append(out, models.DisplayNode{ID: n.ID, Generation: n.Generation, Position: len(out)})
		for _, c := range n.Children {
			walk(c)
		}
	}
	for _, r := range f.Roots {
		walk(r)
	}
	return out
}
