package embedded_test

import (
	"testing"

	"github.com/freedesktop-go/sharedmime/internal/embedded"
)

func TestMagic_roundTrips(t *testing.T) {
	trees, err := embedded.Magic()
	if err != nil {
		t.Fatalf("Magic() error = %v", err)
	}

	for _, mime := range []string{
		"image/png", "image/jpeg", "image/gif", "audio/flac",
		"application/x-msdos-executable", "application/pdf", "application/zip",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		"font/sfnt", "application/x-tagged-template",
	} {
		if _, ok := trees[mime]; !ok {
			t.Errorf("missing built-in entry for %s", mime)
		}
	}
}

func TestMagic_docxOnlyMatchesWithWordPart(t *testing.T) {
	trees, err := embedded.Magic()
	if err != nil {
		t.Fatal(err)
	}
	docx := trees["application/vnd.openxmlformats-officedocument.wordprocessingml.document"]
	zip := trees["application/zip"]

	// Both buffers are longer than the docx rule's region (StartOff+ValLen+RegionLen = 2053
	// bytes); a shorter buffer never matches that rule at all.
	plainZip := append([]byte("PK\x03\x04"), make([]byte, 2100)...)
	if !zip.Match(plainZip) {
		t.Errorf("expected plain zip signature to match application/zip")
	}
	if docx.Match(plainZip) {
		t.Errorf("expected plain zip to not match docx without a word/ part")
	}

	asDocx := append([]byte("PK\x03\x04"), make([]byte, 50)...)
	asDocx = append(asDocx, []byte("word/document.xml")...)
	asDocx = append(asDocx, make([]byte, 2048)...)
	if !docx.Match(asDocx) {
		t.Errorf("expected zip containing word/ to match docx")
	}
}

func TestMagic_maskedCaseInsensitiveTag(t *testing.T) {
	trees, err := embedded.Magic()
	if err != nil {
		t.Fatal(err)
	}
	tagged := trees["application/x-tagged-template"]

	if !tagged.Match([]byte("TMPLrest")) {
		t.Errorf("expected uppercase tag to match")
	}
	if !tagged.Match([]byte("tmplrest")) {
		t.Errorf("expected lowercase tag to match under the case-insensitive mask")
	}
	if tagged.Match([]byte("XMPLrest")) {
		t.Errorf("expected a genuinely different tag to not match")
	}
}
