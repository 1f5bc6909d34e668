// Package depgraph resolves the order entities must be generated and
// imported in, so that every many-to-one parent exists before its
// dependents. Cycles are tolerated: members are reported as warnings and
// the resolver still terminates with every entity placed exactly once.
package depgraph

import (
	"strings"

	"github.com/fatih/color"

	"github.com/AliSafari-IT/setup-data/internal/schema"
)

// Graph maps each entity to the entities it many-to-one-depends on. Built
// once per generation batch; immutable after construction.
type Graph struct {
	dependsOn map[string][]string
	seed      []string

	cycleMembers map[string]bool
	order        []string
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{
		dependsOn: make(map[string][]string),
	}
}

// FromBatch builds the graph from a parse batch, one node per entity in
// file encounter order.
func FromBatch(batch *schema.Batch) *Graph {
	g := New()
	for _, name := range batch.Order {
		g.AddEntity(name, batch.Entities[name].DependsOn())
	}
	return g
}

// AddEntity registers an entity and its many-to-one targets. Re-adding a
// name replaces its dependency list without changing its seed position.
func (g *Graph) AddEntity(name string, dependsOn []string) {
	if _, exists := g.dependsOn[name]; !exists {
		g.seed = append(g.seed, name)
	}
	g.dependsOn[name] = dependsOn
}

// DependsOn returns the registered dependency targets for an entity.
func (g *Graph) DependsOn(name string) []string {
	return g.dependsOn[name]
}

// CycleMembers lists the entities marked during the detection pass, in
// seed order. Empty until ResolveOrder has run.
func (g *Graph) CycleMembers() []string {
	var members []string
	for _, name := range g.seed {
		if g.cycleMembers[name] {
			members = append(members, name)
		}
	}
	return members
}

// Order returns the cached resolution result, resolving on first use.
func (g *Graph) Order() []string {
	if g.order == nil {
		g.ResolveOrder()
	}
	return g.order
}

// sortContext carries the traversal state for one resolution call, so no
// state leaks across invocations.
type sortContext struct {
	visited map[string]bool
	onPath  map[string]bool
	path    []string
	cycles  map[string]bool
	order   []string
}

// ResolveOrder produces the generation order in two passes.
//
// The first pass walks depth-first from every entity, keeping the current
// recursion path; reaching an entity already on the path marks it as a
// cycle member, logs the cycle, and stops descending through it. A marked
// entity's remaining outgoing edges are not explored in this pass.
//
// The second pass walks again with fresh visited state, skipping any edge
// whose target was marked in the first pass, and appends each entity
// post-order. Dependencies therefore precede their dependents except where
// the skipped edge waived that guarantee, every entity appears exactly
// once, and ties keep first-encountered order.
func (g *Graph) ResolveOrder() []string {
	detect := &sortContext{
		visited: make(map[string]bool),
		onPath:  make(map[string]bool),
		cycles:  make(map[string]bool),
	}
	for _, name := range g.seed {
		if !detect.visited[name] {
			g.detectCycles(name, detect)
		}
	}
	g.cycleMembers = detect.cycles

	resolve := &sortContext{
		visited: make(map[string]bool),
		cycles:  detect.cycles,
	}
	for _, name := range g.seed {
		if !resolve.visited[name] {
			g.appendResolved(name, resolve)
		}
	}

	g.order = resolve.order
	return g.order
}

func (g *Graph) detectCycles(name string, ctx *sortContext) {
	if ctx.onPath[name] {
		ctx.cycles[name] = true
		color.Yellow("⚠️  Circular dependency detected: %s", formatCyclePath(ctx.path, name))
		return
	}
	if ctx.visited[name] {
		return
	}
	ctx.visited[name] = true
	ctx.onPath[name] = true
	ctx.path = append(ctx.path, name)

	for _, dep := range g.dependsOn[name] {
		if ctx.cycles[name] {
			break
		}
		if _, known := g.dependsOn[dep]; !known {
			continue
		}
		g.detectCycles(dep, ctx)
	}

	ctx.path = ctx.path[:len(ctx.path)-1]
	ctx.onPath[name] = false
	ctx.order = append(ctx.order, name)
}

func (g *Graph) appendResolved(name string, ctx *sortContext) {
	if ctx.visited[name] {
		return
	}
	ctx.visited[name] = true

	for _, dep := range g.dependsOn[name] {
		if ctx.cycles[dep] {
			continue
		}
		if _, known := g.dependsOn[dep]; !known {
			continue
		}
		g.appendResolved(dep, ctx)
	}

	ctx.order = append(ctx.order, name)
}

// formatCyclePath renders the closed loop starting at the re-entered
// entity, e.g. "X -> Y -> X".
func formatCyclePath(path []string, reentered string) string {
	start := 0
	for i, name := range path {
		if name == reentered {
			start = i
			break
		}
	}
	loop := append(append([]string(nil), path[start:]...), reentered)
	return strings.Join(loop, " -> ")
}
