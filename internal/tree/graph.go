package tree

import (
	"sort"

	"github.com/tasktree/tasktree/internal/domain"
)

type idSet map[domain.TaskID]struct{}

func (s idSet) sorted() []domain.TaskID {
	ids := make([]domain.TaskID, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sortIDs(ids)
	return ids
}

func sortIDs(ids []domain.TaskID) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}

// Graph holds the dependency edges of one project as two mirrored adjacency
// views: children[p] contains c exactly when parents[c] contains p.
// An edge parent -> child means the parent depends on the child.
type Graph struct {
	children map[domain.TaskID]idSet
	parents  map[domain.TaskID]idSet
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{
		children: make(map[domain.TaskID]idSet),
		parents:  make(map[domain.TaskID]idSet),
	}
}

// HasNode reports whether id is a node of the graph.
func (g *Graph) HasNode(id domain.TaskID) bool {
	_, ok := g.children[id]
	return ok
}

func (g *Graph) addNode(id domain.TaskID) {
	if g.HasNode(id) {
		return
	}
	g.children[id] = make(idSet)
	g.parents[id] = make(idSet)
}

// removeNode drops every edge incident to id in both views, then the node.
func (g *Graph) removeNode(id domain.TaskID) {
	for parent := range g.parents[id] {
		delete(g.children[parent], id)
	}
	for child := range g.children[id] {
		delete(g.parents[child], id)
	}
	delete(g.children, id)
	delete(g.parents, id)
}

// HasEdge reports whether parent depends directly on child.
func (g *Graph) HasEdge(parent, child domain.TaskID) bool {
	_, ok := g.children[parent][child]
	return ok
}

func (g *Graph) link(parent, child domain.TaskID) {
	g.children[parent][child] = struct{}{}
	g.parents[child][parent] = struct{}{}
}

func (g *Graph) unlink(parent, child domain.TaskID) {
	delete(g.children[parent], child)
	delete(g.parents[child], parent)
}

func (g *Graph) requireNode(id domain.TaskID) error {
	if !g.HasNode(id) {
		return domain.NewTaskNotFoundError(id)
	}
	return nil
}

// AddEdge records that parent depends on child. The edge is rejected when it
// is a self edge, references an unknown task, already exists, or when child
// already reaches parent (the edge would close a cycle). A rejected edge
// leaves the graph unchanged.
func (g *Graph) AddEdge(parent, child domain.TaskID) error {
	if parent == child {
		return domain.NewSelfDependencyError(parent)
	}
	if err := g.requireNode(parent); err != nil {
		return err
	}
	if err := g.requireNode(child); err != nil {
		return err
	}
	if g.HasEdge(parent, child) {
		return domain.NewDuplicateDependencyError(parent, child)
	}
	if path := g.path(child, parent); path != nil {
		return domain.NewCycleDetectedError(parent, child, append([]domain.TaskID{parent}, path...))
	}

	g.link(parent, child)
	return nil
}

// RemoveEdge deletes the edge parent -> child.
func (g *Graph) RemoveEdge(parent, child domain.TaskID) error {
	if !g.HasEdge(parent, child) {
		return domain.NewDependencyNotFoundError(parent, child)
	}
	g.unlink(parent, child)
	return nil
}

// InsertBetween replaces the edge parent -> child with parent -> between and
// between -> child. The replacement is all or nothing: on any error the graph
// is exactly as it was before the call.
func (g *Graph) InsertBetween(parent, between, child domain.TaskID) error {
	for _, id := range []domain.TaskID{parent, between, child} {
		if err := g.requireNode(id); err != nil {
			return err
		}
	}
	if !g.HasEdge(parent, child) {
		return domain.NewDependencyNotFoundError(parent, child)
	}
	if between == parent || between == child {
		return domain.NewSelfDependencyError(between)
	}

	g.unlink(parent, child)
	if err := g.AddEdge(parent, between); err != nil {
		g.link(parent, child)
		return err
	}
	if err := g.AddEdge(between, child); err != nil {
		g.unlink(parent, between)
		g.link(parent, child)
		return err
	}
	return nil
}

// Reachable reports whether to can be reached from from by following
// child edges. A node reaches itself.
func (g *Graph) Reachable(from, to domain.TaskID) (bool, error) {
	if err := g.requireNode(from); err != nil {
		return false, err
	}
	if err := g.requireNode(to); err != nil {
		return false, err
	}
	return g.path(from, to) != nil, nil
}

// path returns a shortest path from -> ... -> to over child edges, or nil
// when to is unreachable. The traversal is breadth first and stops as soon
// as to is dequeued.
func (g *Graph) path(from, to domain.TaskID) []domain.TaskID {
	visited := map[domain.TaskID]bool{from: true}
	cameFrom := make(map[domain.TaskID]domain.TaskID)
	queue := []domain.TaskID{from}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if current == to {
			path := []domain.TaskID{current}
			for current != from {
				current = cameFrom[current]
				path = append(path, current)
			}
			for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
				path[i], path[j] = path[j], path[i]
			}
			return path
		}

		for _, next := range g.children[current].sorted() {
			if !visited[next] {
				visited[next] = true
				cameFrom[next] = current
				queue = append(queue, next)
			}
		}
	}
	return nil
}

// Children returns the direct dependencies of id, ascending.
func (g *Graph) Children(id domain.TaskID) ([]domain.TaskID, error) {
	if err := g.requireNode(id); err != nil {
		return nil, err
	}
	return g.children[id].sorted(), nil
}

// Parents returns the tasks that depend directly on id, ascending.
func (g *Graph) Parents(id domain.TaskID) ([]domain.TaskID, error) {
	if err := g.requireNode(id); err != nil {
		return nil, err
	}
	return g.parents[id].sorted(), nil
}

// Descendants returns every task id reachable from id, excluding id itself,
// ascending.
func (g *Graph) Descendants(id domain.TaskID) ([]domain.TaskID, error) {
	if err := g.requireNode(id); err != nil {
		return nil, err
	}
	seen := make(idSet)
	stack := []domain.TaskID{id}
	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for child := range g.children[current] {
			if _, ok := seen[child]; !ok {
				seen[child] = struct{}{}
				stack = append(stack, child)
			}
		}
	}
	return seen.sorted(), nil
}

// Edges returns every edge ordered by parent, then child.
func (g *Graph) Edges() []domain.Dependency {
	parents := make([]domain.TaskID, 0, len(g.children))
	for id := range g.children {
		parents = append(parents, id)
	}
	sortIDs(parents)

	var edges []domain.Dependency
	for _, parent := range parents {
		for _, child := range g.children[parent].sorted() {
			edges = append(edges, domain.NewDependency(parent, child))
		}
	}
	return edges
}

// Check verifies that both adjacency views agree and that the graph is
// acyclic.
func (g *Graph) Check() error {
	var details []string
	for parent, children := range g.children {
		for child := range children {
			if _, ok := g.parents[child][parent]; !ok {
				details = append(details, "edge "+parent.String()+"->"+child.String()+" missing from parents view")
			}
		}
	}
	for child, parents := range g.parents {
		for parent := range parents {
			if _, ok := g.children[parent][child]; !ok {
				details = append(details, "edge "+parent.String()+"->"+child.String()+" missing from children view")
			}
		}
	}
	if len(details) > 0 {
		return domain.NewValidationError(details)
	}
	if cycle := g.findCycle(); cycle != nil {
		return domain.NewCycleDetectedError(cycle[0], cycle[1], cycle)
	}
	return nil
}

// findCycle returns one cycle as a closed path, or nil. Iterative three-colour
// depth-first search over every node.
func (g *Graph) findCycle() []domain.TaskID {
	const (
		white = iota
		grey
		black
	)
	colour := make(map[domain.TaskID]int, len(g.children))
	nodes := make([]domain.TaskID, 0, len(g.children))
	for id := range g.children {
		nodes = append(nodes, id)
	}
	sortIDs(nodes)

	type frame struct {
		id       domain.TaskID
		children []domain.TaskID
		next     int
	}

	for _, root := range nodes {
		if colour[root] != white {
			continue
		}
		stack := []*frame{{id: root, children: g.children[root].sorted()}}
		colour[root] = grey
		for len(stack) > 0 {
			top := stack[len(stack)-1]
			if top.next == len(top.children) {
				colour[top.id] = black
				stack = stack[:len(stack)-1]
				continue
			}
			child := top.children[top.next]
			top.next++
			switch colour[child] {
			case grey:
				var cycle []domain.TaskID
				for i := len(stack) - 1; i >= 0; i-- {
					cycle = append([]domain.TaskID{stack[i].id}, cycle...)
					if stack[i].id == child {
						break
					}
				}
				return append(cycle, child)
			case white:
				colour[child] = grey
				stack = append(stack, &frame{id: child, children: g.children[child].sorted()})
			}
		}
	}
	return nil
}
