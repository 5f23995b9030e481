// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package presegment splits a recording into independent stroke clusters
// before exhaustive segmentation. It builds a Euclidean minimum spanning
// tree over stroke centers and breaks it at strokes the classifier
// confidently recognizes as complete standalone symbols; the resulting
// forest bounds the per-cluster partition enumeration to tractable sizes.
package presegment

import (
	"errors"
	"math"
	"sort"

	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
	"gonum.org/v1/gonum/mat"

	"github.com/pdiddy/ink-engine/internal/geometry"
	"github.com/pdiddy/ink-engine/pkg/types"
)

// ErrNoStrokes is returned when a recording contains no strokes.
var ErrNoStrokes = errors.New("presegment: recording has no strokes")

// Tree is one tree of the MST forest: a symmetric adjacency matrix over
// local node positions plus the mapping from local positions back to global
// stroke indices.
type Tree struct {
	// Adj is the symmetric adjacency matrix; a positive entry is an edge
	// weighted by the distance between the stroke centers.
	Adj *mat.SymDense

	// Strokes maps local node positions to global stroke indices.
	Strokes []int
}

// Wood is the forest produced by splitting the spanning tree.
type Wood []Tree

// Centers returns the bounding-box center of every stroke.
func Centers(rec types.Recording) []types.Point {
	centers := make([]types.Point, len(rec))
	for i, s := range rec {
		centers[i] = geometry.Bounds(s).Center()
	}
	return centers
}

// BuildMST computes the minimum spanning tree of the complete Euclidean
// graph over the given points and returns it as a symmetric adjacency
// matrix with exactly n-1 positive entries above the diagonal. Ties between
// equal distances are broken by input order.
func BuildMST(points []types.Point) (*mat.SymDense, error) {
	n := len(points)
	if n == 0 {
		return nil, ErrNoStrokes
	}
	adj := mat.NewSymDense(n, nil)
	if n == 1 {
		return adj, nil
	}

	g := simple.NewWeightedUndirectedGraph(0, math.Inf(1))
	for i := 0; i < n; i++ {
		g.AddNode(simple.Node(i))
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			g.SetWeightedEdge(simple.WeightedEdge{
				F: simple.Node(i),
				T: simple.Node(j),
				W: geometry.Dist(points[i], points[j]),
			})
		}
	}

	dst := simple.NewWeightedUndirectedGraph(0, math.Inf(1))
	path.Kruskal(dst, g)

	it := dst.WeightedEdges()
	for it.Next() {
		e := it.WeightedEdge()
		w := e.Weight()
		if w == 0 {
			// Coincident centers: keep the edge visible in the matrix.
			w = math.SmallestNonzeroFloat64
		}
		adj.SetSym(int(e.From().ID()), int(e.To().ID()), w)
	}
	return adj, nil
}

// Break splits the tree by removing the given local node: its adjacency row
// and column are zeroed in place, and one new tree per remaining connected
// component is returned (the removed node forms its own component). The
// returned trees carry the correct global stroke-index subsets and are
// ordered by their smallest global index.
func Break(t Tree, node int) []Tree {
	n := len(t.Strokes)
	for j := 0; j < n; j++ {
		t.Adj.SetSym(node, j, 0)
	}

	g := simple.NewUndirectedGraph()
	for i := 0; i < n; i++ {
		g.AddNode(simple.Node(i))
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if t.Adj.At(i, j) > 0 {
				g.SetEdge(simple.Edge{F: simple.Node(i), T: simple.Node(j)})
			}
		}
	}

	components := topo.ConnectedComponents(g)
	wood := make([]Tree, 0, len(components))
	for _, comp := range components {
		locals := make([]int, len(comp))
		for i, node := range comp {
			locals[i] = int(node.ID())
		}
		sort.Ints(locals)

		sub := Tree{
			Adj:     mat.NewSymDense(len(locals), nil),
			Strokes: make([]int, len(locals)),
		}
		for i, li := range locals {
			sub.Strokes[i] = t.Strokes[li]
			for j := i + 1; j < len(locals); j++ {
				sub.Adj.SetSym(i, j, t.Adj.At(li, locals[j]))
			}
		}
		wood = append(wood, sub)
	}
	sort.Slice(wood, func(i, j int) bool {
		return wood[i].Strokes[0] < wood[j].Strokes[0]
	})
	return wood
}
