// Package sharedmime identifies the MIME type of file content and paths using the
// freedesktop.org shared-mime-info data model: a tree of byte-pattern magic rules per type, a
// subclass DAG relating types to one another, and an alias table collapsing old or vendor-
// specific names onto their canonical spelling.
package sharedmime

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"

	"github.com/freedesktop-go/sharedmime/basedir"
	"github.com/freedesktop-go/sharedmime/internal/embedded"
	"github.com/freedesktop-go/sharedmime/magic"
	"github.com/freedesktop-go/sharedmime/provider"
	"github.com/freedesktop-go/sharedmime/sharedmimeinfo"
	"github.com/freedesktop-go/sharedmime/typegraph"
)

// Engine is an immutable, fully-built snapshot of MIME knowledge: a type graph plus, for every
// MIME type known to it, the single provider responsible for answering content/path checks about
// that type. Once returned by [New] or [LoadFromOS] it is safe for concurrent use by any number
// of goroutines; to pick up changed system data, build a new Engine (see [Watcher] for a way to
// do that automatically).
type Engine struct {
	graph      *typegraph.Graph
	providerOf map[string]provider.Provider
	maxExtent  uint64
}

// New builds an Engine from the small built-in magic database, without touching the
// filesystem. It always succeeds barring a bug in the embedded data itself.
func New() (*Engine, error) {
	trees, err := embedded.Magic()
	if err != nil {
		return nil, fmt.Errorf("sharedmime: built-in magic data: %w", err)
	}
	subclass, err := sharedmimeinfo.LoadFromReaders([]io.Reader{bytes.NewReader(embedded.Subclasses())})
	if err != nil {
		return nil, fmt.Errorf("sharedmime: built-in subclasses data: %w", err)
	}
	aliases, err := sharedmimeinfo.AliasesFromReaders([]io.Reader{bytes.NewReader(embedded.Aliases())})
	if err != nil {
		return nil, fmt.Errorf("sharedmime: built-in aliases data: %w", err)
	}

	return build([]provider.Provider{
		provider.BaseType{},
		provider.NewMagicProvider(trees, subclass, aliases),
	})
}

// LoadFromOS builds an Engine from the system and user shared-mime-info databases, located per
// the XDG base directory spec (XDG_DATA_HOME and XDG_DATA_DIRS). Missing files are tolerated;
// a database directory that exists but is corrupt is not.
func LoadFromOS() (*Engine, error) {
	subclass, err := sharedmimeinfo.LoadFromOs()
	if err != nil {
		return nil, fmt.Errorf("sharedmime: loading subclasses: %w", err)
	}
	aliases, err := sharedmimeinfo.AliasesFromOs()
	if err != nil {
		return nil, fmt.Errorf("sharedmime: loading aliases: %w", err)
	}
	trees, err := loadMagicFromOS()
	if err != nil {
		return nil, fmt.Errorf("sharedmime: loading magic: %w", err)
	}

	return build([]provider.Provider{
		provider.BaseType{},
		provider.NewMagicProvider(trees, subclass, aliases),
	})
}

// loadMagicFromOS reads every mime/magic file under XDG_DATA_HOME and XDG_DATA_DIRS, earliest
// directory winning on conflicts, mirroring the precedence sharedmimeinfo.LoadFromOs already
// applies to the subclasses file.
func loadMagicFromOS() (map[string]*magic.Tree, error) {
	var dirs []string
	dirs = append(dirs, basedir.DataHome)
	dirs = append(dirs, basedir.DataDirs...)

	merged := make(map[string]*magic.Tree)
	for _, dir := range dirs {
		fPath := path.Join(dir, "mime/magic")
		data, err := os.ReadFile(fPath)
		switch {
		case errors.Is(err, os.ErrNotExist):
			continue
		case err != nil:
			return nil, fmt.Errorf("reading %s: %w", fPath, err)
		}

		trees, err := magic.Parse(data)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", fPath, err)
		}
		for mime, tree := range trees {
			if _, ok := merged[mime]; !ok {
				merged[mime] = tree
			}
		}
	}
	return merged, nil
}

func build(providers []provider.Provider) (*Engine, error) {
	graph, err := typegraph.Build(context.Background(), providers)
	if err != nil {
		return nil, fmt.Errorf("sharedmime: building type graph: %w", err)
	}

	// Every MIME type is dispatched to whichever provider declared it first: BaseType is always
	// registered ahead of any MagicProvider, so its synthetic anchor types are never shadowed.
	providerOf := make(map[string]provider.Provider)
	var maxExtent uint64
	for _, p := range providers {
		for _, mime := range p.Supported() {
			canon := graph.Canonical(mime)
			if _, ok := providerOf[canon]; !ok {
				providerOf[canon] = p
			}
		}
		if e := p.MaxExtent(); e > maxExtent {
			maxExtent = e
		}
	}

	return &Engine{graph: graph, providerOf: providerOf, maxExtent: maxExtent}, nil
}

// MaxExtent is the number of leading bytes of a file this Engine needs in order for
// IdentifyBytes to be fully accurate. Callers reading from disk can use this to bound how much
// of a large file they read before calling IdentifyBytes.
func (e *Engine) MaxExtent() uint64 { return e.maxExtent }

// IsAlias reports whether mime is a known alias of some other, canonical MIME type.
func (e *Engine) IsAlias(mime string) bool { return e.graph.Canonical(mime) != mime }

// Canonical resolves mime through the alias table.
func (e *Engine) Canonical(mime string) string { return e.graph.Canonical(mime) }

// IsA reports whether mime is, or is a subclass of, ancestor.
func (e *Engine) IsA(mime, ancestor string) bool { return e.graph.IsA(mime, ancestor) }

// IdentifyBytes returns the most specific MIME type whose rules match buf, guided-descending the
// type graph from all/all (§4.9) rather than scanning every known signature. It falls back to
// application/octet-stream only if somehow nothing under it matches, which the base provider
// guarantees never happens for a real Engine.
func (e *Engine) IdentifyBytes(buf []byte) string {
	return e.identifyBytesFrom(provider.MimeAll, buf, provider.MimeOctetStream)
}

// IdentifyPath returns the most specific MIME type for the path, combining filesystem metadata
// checks (is it a directory, a socket, ...) with a bounded read of its content. It does not
// inspect the file's name or extension: this package only ever classifies by content and
// filesystem metadata, matching the magic-only scope of the underlying rule format. A missing or
// otherwise unreadable path yields ("", nil): no exception crosses this boundary (§6, §7, §8).
func (e *Engine) IdentifyPath(path string) (string, error) {
	return e.identifyPathFrom(provider.MimeAll, path, provider.MimeOctetStream)
}

// IdentifyBytesAt is IdentifyBytes restricted to root and its subclasses: the guided descent
// starts at root instead of all/all, and the result defaults to root itself rather than
// application/octet-stream when nothing more specific matches. This lets a caller who has already
// confirmed a broad type (e.g. that a file is a zip) cheaply narrow further within that subgraph
// without re-running every unrelated rule.
func (e *Engine) IdentifyBytesAt(buf []byte, root string) string {
	return e.identifyBytesFrom(root, buf, root)
}

// IdentifyPathAt is IdentifyPath restricted the same way IdentifyBytesAt restricts IdentifyBytes.
func (e *Engine) IdentifyPathAt(path string, root string) (string, error) {
	return e.identifyPathFrom(root, path, root)
}

// MatchesBytes reports whether buf's identified type is mime or a subclass of mime.
func (e *Engine) MatchesBytes(buf []byte, mime string) bool {
	return e.IsA(e.IdentifyBytes(buf), mime)
}

// MatchesPath reports whether path's identified type is mime or a subclass of mime. A missing or
// unreadable path yields (false, nil), not an error: see IdentifyPath.
func (e *Engine) MatchesPath(path string, mime string) (bool, error) {
	got, err := e.IdentifyPath(path)
	if err != nil {
		return false, err
	}
	if got == "" {
		return false, nil
	}
	return e.IsA(got, mime), nil
}

// checkBytes dispatches to the one provider that declared mime, per §4.9 "dispatch to the
// provider that declares C". A mime no provider declares never matches.
func (e *Engine) checkBytes(mime string, buf []byte) bool {
	p, ok := e.providerOf[mime]
	if !ok {
		return false
	}
	return p.CheckBytes(mime, buf)
}

func (e *Engine) checkPath(mime string, path string) bool {
	p, ok := e.providerOf[mime]
	if !ok {
		return false
	}
	return p.CheckPath(mime, path)
}

// identifyDescend is the guided top-down walk of §4.9: for each child of node, in the type
// graph's already priority-hoisted order, call check; the first child it accepts is recursively
// descended into, and the deepest match along that one path wins. Siblings of a matched child,
// and every descendant of an unmatched one, are never visited at all — this is the pruning the
// core exists to do, as opposed to testing every known signature against every file.
func (e *Engine) identifyDescend(node string, check func(string) bool) string {
	for _, child := range e.graph.Children(node) {
		if !check(child) {
			continue
		}
		if deeper := e.identifyDescend(child, check); deeper != "" {
			return deeper
		}
		return child
	}
	return ""
}

func (e *Engine) identifyBytesFrom(start string, buf []byte, fallback string) string {
	if got := e.identifyDescend(start, func(m string) bool { return e.checkBytes(m, buf) }); got != "" {
		return got
	}
	return fallback
}

// identifyPathFrom implements §4.9's identify(path): confirm the path is a regular file, then
// read a bounded prefix and delegate to the byte-based walk; otherwise walk the graph directly
// with check_path at each node, so a directory can still resolve to inode/directory. Any I/O
// failure (the path does not exist, can't be opened, or can't be read) collapses to ("", nil)
// rather than surfacing an error, per §6/§7/§8.
func (e *Engine) identifyPathFrom(start string, path string, fallback string) (string, error) {
	if _, err := os.Lstat(path); err != nil {
		return "", nil
	}

	if e.checkPath(provider.MimeOctetStream, path) {
		buf, err := provider.ReadPrefix(path, e.maxExtent)
		if err != nil {
			return "", nil
		}
		return e.identifyBytesFrom(start, buf, fallback), nil
	}

	if got := e.identifyDescend(start, func(m string) bool { return e.checkPath(m, path) }); got != "" {
		return got, nil
	}
	return fallback, nil
}
