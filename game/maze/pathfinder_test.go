package maze

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// distances walks the carved graph depth-first and records the depth of every
// cell. In a tree the depth equals the shortest distance.
func distances(g *Grid, src Position) map[Position]int {
	dist := map[Position]int{src: 0}
	var walk func(p Position)
	walk = func(p Position) {
		for _, d := range Directions {
			q := p.Step(d)
			if _, seen := dist[q]; seen || !g.CanStep(p, d) {
				continue
			}
			dist[q] = dist[p] + 1
			walk(q)
		}
	}
	walk(src)
	return dist
}

func assertValidPath(t *testing.T, g *Grid, path []Position, src, dst Position) {
	t.Helper()
	require.NotEmpty(t, path)
	assert.Equal(t, src, path[0])
	assert.Equal(t, dst, path[len(path)-1])
	for i := 1; i < len(path); i++ {
		assert.True(t, path[i-1].Adjacent(path[i]), "%v -> %v not adjacent", path[i-1], path[i])
		assert.True(t, g.Connected(path[i-1], path[i]), "%v -> %v crosses a wall", path[i-1], path[i])
	}
}

func TestFindShortestPathScenario(t *testing.T) {
	g := generate(t, 5, 2024)
	assert.Equal(t, 24, g.EdgeCount())

	start, goal := Position{0, 0}, Position{4, 4}
	path := FindShortestPath(g, start, goal)
	assertValidPath(t, g, path, start, goal)
}

func TestFindShortestPathMatchesIndependentTraversal(t *testing.T) {
	for _, seed := range []uint64{1, 2, 3} {
		g := generate(t, 5, seed)
		for i := range g.cells {
			src := g.cells[i].pos
			dist := distances(g, src)
			require.Len(t, dist, 25)
			for j := range g.cells {
				dst := g.cells[j].pos
				path := FindShortestPath(g, src, dst)
				assertValidPath(t, g, path, src, dst)
				assert.Equal(t, dist[dst], len(path)-1, "seed=%d %v->%v", seed, src, dst)
			}
		}
	}
}

func TestFindShortestPathDeterministic(t *testing.T) {
	g := generate(t, 10, 8)
	first := FindShortestPath(g, Position{0, 0}, Position{9, 9})
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, FindShortestPath(g, Position{0, 0}, Position{9, 9}))
	}
}

func TestFindShortestPathEdgeCases(t *testing.T) {
	g := generate(t, 3, 4)

	t.Run("same cell", func(t *testing.T) {
		assert.Equal(t, []Position{{1, 1}}, FindShortestPath(g, Position{1, 1}, Position{1, 1}))
	})

	t.Run("out of range endpoints", func(t *testing.T) {
		assert.Nil(t, FindShortestPath(g, Position{-1, 0}, Position{2, 2}))
		assert.Nil(t, FindShortestPath(g, Position{0, 0}, Position{3, 2}))
		assert.Nil(t, FindShortestPath(nil, Position{}, Position{}))
	})

	t.Run("unreachable before generation", func(t *testing.T) {
		fresh, err := NewGrid(3, 1)
		require.NoError(t, err)
		assert.Nil(t, FindShortestPath(fresh, Position{0, 0}, Position{2, 2}))
	})

	t.Run("terminates on cyclic grid", func(t *testing.T) {
		open, err := NewGrid(3, 1)
		require.NoError(t, err)
		for i := range open.cells {
			p := open.cells[i].pos
			_ = open.Carve(p, Right)
			_ = open.Carve(p, Down)
		}
		path := FindShortestPath(open, Position{0, 0}, Position{2, 2})
		assert.Len(t, path, 5)
	})
}

func TestDeadEnds(t *testing.T) {
	g, err := NewGrid(2, 1)
	require.NoError(t, err)
	require.NoError(t, g.Carve(Position{0, 0}, Right))
	require.NoError(t, g.Carve(Position{0, 1}, Down))
	require.NoError(t, g.Carve(Position{1, 1}, Left))
	assert.Equal(t, 2, DeadEnds(g))
}
