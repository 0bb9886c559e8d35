package magic_test

import "testing"

import "github.com/freedesktop-go/sharedmime/magic"

func TestTree_childMustMatchWhenPresent(t *testing.T) {
	entries := []magic.Entry{
		{
			Priority: 50,
			Mime:     "application/x-nested",
			Rules: []magic.Rule{
				{IndentLevel: 0, StartOff: 0, Val: []byte("ROOT"), ValLen: 4},
				{IndentLevel: 1, StartOff: 4, Val: []byte("CHILD"), ValLen: 5},
			},
		},
	}
	tree := parseOne(t, entries, "application/x-nested")

	if !tree.Match([]byte("ROOTCHILD")) {
		t.Errorf("expected match when root and child both match")
	}
	if tree.Match([]byte("ROOTNOPE!")) {
		t.Errorf("expected no match when root matches but its only child does not")
	}
	if tree.Match([]byte("xxxxCHILD")) {
		t.Errorf("expected no match when root itself does not match")
	}
}

func TestTree_siblingRootsAreIndependent(t *testing.T) {
	entries := []magic.Entry{
		{
			Priority: 50,
			Mime:     "application/x-either",
			Rules: []magic.Rule{
				{IndentLevel: 0, StartOff: 0, Val: []byte("AAAA"), ValLen: 4},
				{IndentLevel: 0, StartOff: 0, Val: []byte("BBBB"), ValLen: 4},
			},
		},
	}
	tree := parseOne(t, entries, "application/x-either")

	if !tree.Match([]byte("AAAA")) {
		t.Errorf("expected first root to match")
	}
	if !tree.Match([]byte("BBBB")) {
		t.Errorf("expected second root to match")
	}
	if tree.Match([]byte("CCCC")) {
		t.Errorf("expected neither root to match")
	}
}

func TestTree_maxExtent(t *testing.T) {
	entries := []magic.Entry{
		{
			Priority: 50,
			Mime:     "application/x-extent",
			Rules: []magic.Rule{
				{IndentLevel: 0, StartOff: 10, Val: []byte("AB"), ValLen: 2},
				{IndentLevel: 1, StartOff: 20, Val: []byte("CDE"), ValLen: 3, RegionLen: 100},
			},
		},
	}
	tree := parseOne(t, entries, "application/x-extent")

	want := uint64(20 + 3 + 100)
	if got := tree.MaxExtent(); got != want {
		t.Errorf("MaxExtent() = %d, want %d", got, want)
	}
}
