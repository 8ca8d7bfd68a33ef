package sketch

import "sort"

// Adjacency is a point-sharing index over a sketch's primitives: for
// every point id it records which primitives reference it. Point
// primitives reference themselves, so a line is adjacent to its own
// endpoints as well as to anything else built on them. The index is
// rebuilt per query; sketches are small and the build is linear.
type Adjacency struct {
	owners map[int][]int // point id -> primitive ids referencing it
	refs   map[int][]int // primitive id -> point ids it references
}

// Adjacency builds the point-sharing index for the sketch's current
// primitives.
func (s *Sketch) Adjacency() *Adjacency {
	adj := &Adjacency{
		owners: make(map[int][]int),
		refs:   make(map[int][]int),
	}
	for _, p := range s.Primitives {
		refs := adjacencyRefs(p)
		adj.refs[p.PrimID()] = refs
		for _, pid := range refs {
			adj.owners[pid] = append(adj.owners[pid], p.PrimID())
		}
	}
	return adj
}

// adjacencyRefs returns the point ids a primitive is attached to; a
// point primitive is attached to itself.
func adjacencyRefs(p Primitive) []int {
	if pt, ok := p.(Point); ok {
		return []int{pt.ID}
	}
	return pointRefs(p)
}

// ConnectedComponent returns the ids of every primitive transitively
// connected to start through shared points, using a breadth-first walk.
// The result is sorted by id for consistent ordering.
func (a *Adjacency) ConnectedComponent(start int) []int {
	if _, ok := a.refs[start]; !ok {
		return nil
	}

	visited := map[int]bool{start: true}
	component := []int{}
	queue := []int{start}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		component = append(component, current)

		for _, pid := range a.refs[current] {
			for _, neighbor := range a.owners[pid] {
				if !visited[neighbor] {
					visited[neighbor] = true
					queue = append(queue, neighbor)
				}
			}
		}
	}

	sort.Ints(component)
	return component
}

// PointsOf returns the sorted point ids referenced by the given
// primitives, including the point primitives themselves.
func (a *Adjacency) PointsOf(primIDs []int) []int {
	seen := make(map[int]bool)
	var pts []int
	for _, id := range primIDs {
		for _, pid := range a.refs[id] {
			if !seen[pid] {
				seen[pid] = true
				pts = append(pts, pid)
			}
		}
	}
	sort.Ints(pts)
	return pts
}

// ConstraintAttachedPoints returns the point ids that constraints tie
// to the given moving set but that lie outside it. During a drag these
// are temporarily fixed so the solver adjusts the moving geometry
// rather than dragging the rest of the sketch along.
func (s *Sketch) ConstraintAttachedPoints(movingPrims []int) []int {
	moving := make(map[int]bool)
	for _, id := range movingPrims {
		moving[id] = true
	}
	adj := s.Adjacency()
	movingPts := make(map[int]bool)
	for _, pid := range adj.PointsOf(movingPrims) {
		movingPts[pid] = true
	}

	seen := make(map[int]bool)
	var outside []int
	for _, c := range s.Constraints {
		touches := false
		for _, t := range c.Targets {
			if moving[t] {
				touches = true
				break
			}
		}
		if !touches {
			continue
		}
		for _, t := range c.Targets {
			p, ok := s.Primitive(t)
			if !ok {
				continue
			}
			for _, pid := range adjacencyRefs(p) {
				if !movingPts[pid] && !seen[pid] {
					seen[pid] = true
					outside = append(outside, pid)
				}
			}
		}
	}
	sort.Ints(outside)
	return outside
}
