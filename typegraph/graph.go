// Package typegraph assembles the MIME subclass DAG from one or more providers: it merges their
// supported types, subclass edges and aliases, anchors every orphan type somewhere sensible, and
// answers ancestor queries over the result using precomputed roaring-bitmap ancestor sets so that
// "is X a kind of Y" stays cheap even for large graphs. Descendants are only exposed one level at
// a time, through Children.
package typegraph

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/RoaringBitmap/roaring"
	"golang.org/x/sync/errgroup"

	"github.com/freedesktop-go/sharedmime/provider"
)

// priorityOrder breaks ties when more than one rule matches a file: types earlier in this list
// are preferred over types later in it or absent from it entirely. It lists a few commonly seen
// formats, which are tried ahead of their siblings whenever they share a parent.
var priorityOrder = []string{
	"image/png",
	"image/jpeg",
	"image/gif",
	"application/zip",
	"application/x-msdos-executable",
	"application/pdf",
}

var priorityRank = func() map[string]int {
	m := make(map[string]int, len(priorityOrder))
	for i, mime := range priorityOrder {
		m[mime] = i
	}
	return m
}()

// Graph is an immutable, built subclass DAG. Once returned from Build it is safe for concurrent
// use by any number of readers.
type Graph struct {
	nodes     []string
	index     map[string]int32
	children  [][]int32
	parents   [][]int32
	ancestors []*roaring.Bitmap
	aliases   map[string]string
}

// Build merges the Supported/SubclassEdges/Aliases output of every provider, collected
// concurrently via an errgroup since each provider's data is independent of the others, then
// assembles the DAG: canonicalizing edges through the alias map, anchoring any type that ends up
// with no parent, and precomputing each node's ancestor set.
func Build(ctx context.Context, providers []provider.Provider) (*Graph, error) {
	type collected struct {
		supported []string
		edges     [][2]string
		aliases   map[string]string
	}
	results := make([]collected, len(providers))

	g, _ := errgroup.WithContext(ctx)
	for i, p := range providers {
		i, p := i, p
		g.Go(func() error {
			results[i] = collected{
				supported: p.Supported(),
				edges:     p.SubclassEdges(),
				aliases:   p.Aliases(),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("typegraph: collecting provider data: %w", err)
	}

	aliases := make(map[string]string)
	typeSet := make(map[string]struct{})
	var rawEdges [][2]string
	for _, c := range results {
		for _, t := range c.supported {
			typeSet[t] = struct{}{}
		}
		for k, v := range c.aliases {
			if _, ok := aliases[k]; !ok {
				aliases[k] = v
			}
		}
		rawEdges = append(rawEdges, c.edges...)
	}

	canon := func(mime string) string {
		if c, ok := aliases[mime]; ok {
			return c
		}
		return mime
	}

	childSet := make(map[string]map[string]struct{})
	parentSet := make(map[string]map[string]struct{})
	addEdge := func(child, parent string) {
		child, parent = canon(child), canon(parent)
		if child == parent {
			return
		}
		// A child->...->parent path already existing means parent is already a descendant of
		// child; adding parent's new edge to child here would close that into a cycle, so the
		// edge is dropped per §4.8 step 5 instead of inserted.
		if reachableViaChildren(childSet, child, parent) {
			return
		}
		typeSet[child] = struct{}{}
		typeSet[parent] = struct{}{}
		if childSet[parent] == nil {
			childSet[parent] = make(map[string]struct{})
		}
		childSet[parent][child] = struct{}{}
		if parentSet[child] == nil {
			parentSet[child] = make(map[string]struct{})
		}
		parentSet[child][parent] = struct{}{}
	}
	for _, e := range rawEdges {
		addEdge(e[0], e[1])
	}

	for _, anchor := range []string{
		provider.MimeAll, provider.MimeAllFiles, provider.MimeOctetStream, provider.MimeTextPlain,
	} {
		typeSet[anchor] = struct{}{}
	}

	// Anchor every type that has no parent yet and is not itself the DAG root.
	for mime := range typeSet {
		if mime == provider.MimeAll {
			continue
		}
		if len(parentSet[mime]) > 0 {
			continue
		}
		switch {
		case mime == provider.MimeAllFiles:
			addEdge(provider.MimeAllFiles, provider.MimeAll)
		case strings.HasPrefix(mime, "inode/"):
			addEdge(mime, provider.MimeAll)
		case mime == provider.MimeOctetStream:
			addEdge(provider.MimeOctetStream, provider.MimeAllFiles)
		case mime == provider.MimeTextPlain:
			addEdge(provider.MimeTextPlain, provider.MimeOctetStream)
		case strings.HasPrefix(mime, "text/"):
			addEdge(mime, provider.MimeTextPlain)
		default:
			addEdge(mime, provider.MimeOctetStream)
		}
	}

	names := make([]string, 0, len(typeSet))
	for mime := range typeSet {
		names = append(names, mime)
	}
	sort.Strings(names)

	graph := &Graph{
		nodes:   names,
		index:   make(map[string]int32, len(names)),
		aliases: aliases,
	}
	for i, mime := range names {
		graph.index[mime] = int32(i)
	}

	graph.children = make([][]int32, len(names))
	graph.parents = make([][]int32, len(names))
	for i, mime := range names {
		children := sortedWithPriority(childSet[mime])
		for _, c := range children {
			graph.children[i] = append(graph.children[i], graph.index[c])
		}
		parents := make([]string, 0, len(parentSet[mime]))
		for p := range parentSet[mime] {
			parents = append(parents, p)
		}
		sort.Strings(parents)
		for _, p := range parents {
			graph.parents[i] = append(graph.parents[i], graph.index[p])
		}
	}

	graph.ancestors = make([]*roaring.Bitmap, len(names))
	for i := range names {
		graph.ancestors[i] = graph.computeAncestors(int32(i))
	}

	return graph, nil
}

// reachableViaChildren reports whether target is reachable from start by following the
// already-inserted child edges (start -> ... -> target). Used to veto an edge that would close a
// cycle before it is ever inserted, rather than merely guarding traversals against one.
func reachableViaChildren(childSet map[string]map[string]struct{}, start, target string) bool {
	visited := make(map[string]bool)
	var dfs func(string) bool
	dfs = func(n string) bool {
		if n == target {
			return true
		}
		if visited[n] {
			return false
		}
		visited[n] = true
		for c := range childSet[n] {
			if dfs(c) {
				return true
			}
		}
		return false
	}
	return dfs(start)
}

// sortedWithPriority orders a set of children so that any member of priorityOrder appears first,
// in priorityOrder's own order, followed by the remaining children alphabetically. This is what
// lets a walk that hoists matched priority types surface them ahead of equally-specific matches.
func sortedWithPriority(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for mime := range set {
		out = append(out, mime)
	}
	sort.Slice(out, func(i, j int) bool {
		ri, iok := priorityRank[out[i]]
		rj, jok := priorityRank[out[j]]
		switch {
		case iok && jok:
			return ri < rj
		case iok:
			return true
		case jok:
			return false
		default:
			return out[i] < out[j]
		}
	})
	return out
}

func (g *Graph) computeAncestors(id int32) *roaring.Bitmap {
	bm := roaring.New()
	var visit func(int32)
	seen := make(map[int32]bool)
	visit = func(n int32) {
		for _, p := range g.parents[n] {
			if seen[p] {
				continue
			}
			seen[p] = true
			bm.Add(uint32(p))
			visit(p)
		}
	}
	visit(id)
	return bm
}

// NodeID returns the DAG node index for a MIME type (after alias canonicalization), or false if
// the type is unknown to this graph.
func (g *Graph) NodeID(mime string) (int32, bool) {
	id, ok := g.index[g.Canonical(mime)]
	return id, ok
}

// Canonical resolves mime through the alias table, returning mime unchanged if it is not a known
// alias.
func (g *Graph) Canonical(mime string) string {
	if c, ok := g.aliases[mime]; ok {
		return c
	}
	return mime
}

// IsA reports whether mime is ancestor or is itself a subclass of ancestor (e.g. IsA("text/x-c",
// "text/plain")). Unknown types are never related to anything.
func (g *Graph) IsA(mime, ancestor string) bool {
	mime, ancestor = g.Canonical(mime), g.Canonical(ancestor)
	if mime == ancestor {
		return true
	}
	id, ok := g.NodeID(mime)
	if !ok {
		return false
	}
	ancestorID, ok := g.NodeID(ancestor)
	if !ok {
		return false
	}
	return g.ancestors[id].Contains(uint32(ancestorID))
}

// Ancestors returns every type mime is a subclass of, nearest parents first is not guaranteed;
// the set is returned in node-id order.
func (g *Graph) Ancestors(mime string) []string {
	id, ok := g.NodeID(mime)
	if !ok {
		return nil
	}
	it := g.ancestors[id].Iterator()
	var out []string
	for it.HasNext() {
		out = append(out, g.nodes[it.Next()])
	}
	return out
}

// Children returns the direct subclasses of mime, in the order a guided traversal (§4.9) should
// try them: members of the priority list first (in priority order), then the rest alphabetically.
// This is the order [sharedmime.Engine] walks when descending the graph one level at a time.
func (g *Graph) Children(mime string) []string {
	id, ok := g.NodeID(mime)
	if !ok {
		return nil
	}
	out := make([]string, len(g.children[id]))
	for i, c := range g.children[id] {
		out[i] = g.nodes[c]
	}
	return out
}

// Len returns the number of distinct MIME types known to the graph.
func (g *Graph) Len() int { return len(g.nodes) }
