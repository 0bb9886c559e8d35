package sharedmimeinfo_test

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"testing"

	"github.com/freedesktop-go/sharedmime/sharedmimeinfo"
	"github.com/google/go-cmp/cmp"
)

func sortedEdges(edges [][2]string) []string {
	out := make([]string, len(edges))
	for i, e := range edges {
		out[i] = e[0] + " " + e[1]
	}
	sort.Strings(out)
	return out
}

func ExampleLoadFromReaders() {
	s, err := sharedmimeinfo.LoadFromReaders([]io.Reader{
		strings.NewReader(`image/svg+xml application/xml`),
		strings.NewReader("image/svg+xml text/plain"),
	})
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(strings.Join(sortedEdges(s.Edges()), ", "))
	// Output: image/svg+xml application/xml, image/svg+xml text/plain
}

func TestSubclass_Edges(t *testing.T) {
	s, err := sharedmimeinfo.LoadFromReaders([]io.Reader{
		strings.NewReader(`image/svg+xml application/xml
application/xml application/xml2
application/xml2 text/xml`),
		strings.NewReader("image/svg+xml application/svg"),
	})
	if err != nil {
		t.Fatal(err)
	}

	want := []string{
		"application/xml application/xml2",
		"application/xml2 text/xml",
		"image/svg+xml application/svg",
		"image/svg+xml application/xml",
	}
	if diff := cmp.Diff(want, sortedEdges(s.Edges())); diff != "" {
		t.Errorf("Edges() mismatch (-want +got):\n%s", diff)
	}
}

func TestSubclass_Edges_dedupesIdenticalPairAcrossFiles(t *testing.T) {
	s, err := sharedmimeinfo.LoadFromReaders([]io.Reader{
		strings.NewReader(`image/svg+xml application/xml`),
		strings.NewReader(`image/svg+xml application/xml`),
	})
	if err != nil {
		t.Fatal(err)
	}

	want := []string{"image/svg+xml application/xml"}
	if diff := cmp.Diff(want, sortedEdges(s.Edges())); diff != "" {
		t.Errorf("Edges() mismatch (-want +got):\n%s", diff)
	}
}

func TestSubclass_Edges_accumulatesDistinctParentsAcrossFiles(t *testing.T) {
	s, err := sharedmimeinfo.LoadFromReaders([]io.Reader{
		strings.NewReader(`image/svg+xml application/xml`),
		strings.NewReader(`image/svg+xml text/plain`),
	})
	if err != nil {
		t.Fatal(err)
	}

	want := []string{
		"image/svg+xml application/xml",
		"image/svg+xml text/plain",
	}
	if diff := cmp.Diff(want, sortedEdges(s.Edges())); diff != "" {
		t.Errorf("Edges() mismatch (-want +got):\n%s", diff)
	}
}

func TestSubclass_Edges_empty(t *testing.T) {
	s, err := sharedmimeinfo.LoadFromReaders([]io.Reader{strings.NewReader("")})
	if err != nil {
		t.Fatal(err)
	}
	if got := s.Edges(); len(got) != 0 {
		t.Errorf("Edges() = %v, want empty", got)
	}
}

func TestLoadFromReaders_malformedLineReportsFileAndLine(t *testing.T) {
	_, err := sharedmimeinfo.LoadFromReaders([]io.Reader{
		strings.NewReader("image/svg+xml application/xml"),
		strings.NewReader("valid/one application/xml\nno-space-here"),
	})
	var malformed sharedmimeinfo.MalformedSubclassError
	if !asMalformed(err, &malformed) {
		t.Fatalf("LoadFromReaders() error = %v, want MalformedSubclassError", err)
	}
	if malformed.FileIndex != 1 || malformed.LineIndex != 1 {
		t.Errorf("malformed = %+v, want FileIndex=1 LineIndex=1", malformed)
	}
}

func asMalformed(err error, target *sharedmimeinfo.MalformedSubclassError) bool {
	m, ok := err.(sharedmimeinfo.MalformedSubclassError)
	if !ok {
		return false
	}
	*target = m
	return true
}
