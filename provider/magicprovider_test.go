package provider_test

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/freedesktop-go/sharedmime/magic"
	"github.com/freedesktop-go/sharedmime/provider"
	"github.com/freedesktop-go/sharedmime/sharedmimeinfo"
	"github.com/google/go-cmp/cmp"
)

func TestMagicProvider_CheckBytes(t *testing.T) {
	blob := magic.Encode([]magic.Entry{
		{Priority: 50, Mime: "image/png", Rules: []magic.Rule{
			{IndentLevel: 0, StartOff: 0, Val: []byte("\x89PNG"), ValLen: 4},
		}},
		{Priority: 50, Mime: "image/gif", Rules: []magic.Rule{
			{IndentLevel: 0, StartOff: 0, Val: []byte("GIF8"), ValLen: 4},
		}},
	})
	trees, err := magic.Parse(blob)
	if err != nil {
		t.Fatal(err)
	}

	subclass, err := sharedmimeinfo.LoadFromReaders([]io.Reader{
		strings.NewReader("image/png application/octet-stream"),
	})
	if err != nil {
		t.Fatal(err)
	}
	aliases, err := sharedmimeinfo.AliasesFromReaders([]io.Reader{
		strings.NewReader("image/x-png image/png"),
	})
	if err != nil {
		t.Fatal(err)
	}

	p := provider.NewMagicProvider(trees, subclass, aliases)

	if !p.CheckBytes("image/png", []byte("\x89PNGrest-of-file")) {
		t.Errorf("expected image/png to match its own signature")
	}
	if p.CheckBytes("image/gif", []byte("\x89PNGrest-of-file")) {
		t.Errorf("expected image/gif not to match a png signature")
	}
	if p.CheckBytes("image/png", []byte("not a known signature")) {
		t.Errorf("expected image/png not to match unrelated content")
	}
	if p.CheckBytes("application/x-unknown", []byte("\x89PNGrest-of-file")) {
		t.Errorf("a mime with no tree must never match")
	}

	if diff := cmp.Diff("image/png", p.Aliases()["image/x-png"]); diff != "" {
		t.Errorf("Aliases() mismatch (-want +got):\n%s", diff)
	}

	edges := p.SubclassEdges()
	if diff := cmp.Diff([][2]string{{"image/png", "application/octet-stream"}}, edges); diff != "" {
		t.Errorf("SubclassEdges() mismatch (-want +got):\n%s", diff)
	}
}

func TestMagicProvider_CheckPath(t *testing.T) {
	blob := magic.Encode([]magic.Entry{
		{Priority: 50, Mime: "image/png", Rules: []magic.Rule{
			{IndentLevel: 0, StartOff: 0, Val: []byte("\x89PNG"), ValLen: 4},
		}},
	})
	trees, err := magic.Parse(blob)
	if err != nil {
		t.Fatal(err)
	}
	p := provider.NewMagicProvider(trees, nil, nil)

	dir := t.TempDir()
	file := filepath.Join(dir, "image.bin")
	if err := os.WriteFile(file, []byte("\x89PNGrest-of-file"), 0o644); err != nil {
		t.Fatal(err)
	}

	if !p.CheckPath("image/png", file) {
		t.Errorf("expected %s to match image/png by content", file)
	}
	if p.CheckPath("image/png", filepath.Join(dir, "missing")) {
		t.Errorf("a missing file must never match, not error")
	}
	if p.CheckPath("application/x-unknown", file) {
		t.Errorf("a mime with no tree must never match")
	}
}

func TestMagicProvider_unknownMimeNeverMatches(t *testing.T) {
	p := provider.NewMagicProvider(nil, nil, nil)
	if p.CheckBytes("image/png", []byte("\x89PNG")) {
		t.Errorf("provider with no trees should match nothing")
	}
	if p.CheckPath("image/png", "/anything") {
		t.Errorf("provider with no trees should match nothing")
	}
}
