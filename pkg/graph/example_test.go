package graph_test

import (
	"fmt"

	"github.com/matzehuels/coastlines/pkg/geom"
	"github.com/matzehuels/coastlines/pkg/graph"
	"github.com/matzehuels/coastlines/pkg/subdivision"
)

func ExampleNew() {
	g := graph.New(subdivision.Grid(2, 1, 1))

	fmt.Println("nodes:", len(g.Nodes()))
	fmt.Println("vertices:", len(g.Vertices()))
	mid := g.ID(geom.Pt(1, 0))
	for _, n := range g.Neighbors(mid) {
		fmt.Println(g.Position(n))
	}
	// Output:
	// nodes: 2
	// vertices: 6
	// {0 0}
	// {1 1}
	// {2 0}
}
