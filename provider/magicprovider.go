package provider

import (
	"fmt"
	"os"

	mmap "github.com/edsrzf/mmap-go"

	"github.com/freedesktop-go/sharedmime/magic"
	"github.com/freedesktop-go/sharedmime/sharedmimeinfo"
)

// MagicProvider wraps one compiled magic database together with the subclass and alias tables
// that were loaded alongside it (shared-mime-info ships all three as a matched set: magic,
// subclasses, aliases). A second MagicProvider backed by $XDG_DATA_HOME's copies of the same
// three files can be layered on top of the system-wide one.
type MagicProvider struct {
	trees     map[string]*magic.Tree
	subclass  *sharedmimeinfo.Subclass
	aliases   *sharedmimeinfo.Aliases
	maxExtent uint64
}

// NewMagicProvider builds a provider from already-parsed magic trees and optional subclass and
// alias tables (either may be nil).
func NewMagicProvider(
	trees map[string]*magic.Tree,
	subclass *sharedmimeinfo.Subclass,
	aliases *sharedmimeinfo.Aliases,
) *MagicProvider {
	var max uint64
	for _, t := range trees {
		if e := t.MaxExtent(); e > max {
			max = e
		}
	}
	return &MagicProvider{
		trees:     trees,
		subclass:  subclass,
		aliases:   aliases,
		maxExtent: max,
	}
}

func (p *MagicProvider) Supported() []string {
	set := make(map[string]struct{}, len(p.trees))
	for mime := range p.trees {
		set[mime] = struct{}{}
	}
	if p.subclass != nil {
		for _, edge := range p.subclass.Edges() {
			set[edge[0]] = struct{}{}
			set[edge[1]] = struct{}{}
		}
	}
	return sortedKeys(set)
}

func (p *MagicProvider) SubclassEdges() [][2]string {
	if p.subclass == nil {
		return nil
	}
	return p.subclass.Edges()
}

func (p *MagicProvider) Aliases() map[string]string {
	if p.aliases == nil {
		return nil
	}
	return p.aliases.Map()
}

func (p *MagicProvider) MaxExtent() uint64 { return p.maxExtent }

// CheckBytes looks up mime's rule tree and tests it against buf. A mime this provider has no
// tree for never matches; it is the query engine's job to only ask about mime's it has already
// confirmed are worth testing (the children of an already-matched type), not this provider's.
func (p *MagicProvider) CheckBytes(mime string, buf []byte) bool {
	tree, ok := p.trees[mime]
	if !ok {
		return false
	}
	return tree.Match(buf)
}

// CheckPath reads exactly as much of the file as mime's own rule tree could need (not the
// provider-wide maximum) and delegates to CheckBytes, so a cheap rule never pays for an
// unrelated expensive one's extent. Any I/O failure is reported as no match, never an error.
func (p *MagicProvider) CheckPath(mime string, path string) bool {
	tree, ok := p.trees[mime]
	if !ok {
		return false
	}
	buf, err := ReadPrefix(path, tree.MaxExtent())
	if err != nil {
		return false
	}
	return tree.Match(buf)
}

// ReadPrefix memory-maps the leading n bytes of the file at path (or the whole file if it is
// shorter), for use as the buf argument to CheckBytes. Mapping rather than reading avoids a full
// read + copy for files much larger than any rule's extent.
func ReadPrefix(path string, n uint64) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("provider: open %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("provider: stat %s: %w", path, err)
	}
	size := uint64(info.Size())
	if size == 0 {
		return nil, nil
	}
	if n > size {
		n = size
	}

	region, err := mmap.MapRegion(f, int(n), mmap.RDONLY, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("provider: mmap %s: %w", path, err)
	}
	defer region.Unmap()

	out := make([]byte, len(region))
	copy(out, region)
	return out, nil
}
