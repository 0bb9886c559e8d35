// Package embedded carries the small built-in MIME database that New builds its Engine from.
// LoadFromOS does not use it, even when no system mime database is present. It is deliberately
// tiny: a handful of common formats, not a replacement for a real shared-mime-info install.
package embedded

import (
	_ "embed"

	"github.com/freedesktop-go/sharedmime/magic"
)

//go:embed subclasses.txt
var subclassesText []byte

//go:embed aliases.txt
var aliasesText []byte

// Subclasses returns the default subclasses file content, in the same format
// [sharedmimeinfo.LoadFromReaders] reads.
func Subclasses() []byte { return subclassesText }

// Aliases returns the default aliases file content, in the same format
// [sharedmimeinfo.AliasesFromReaders] reads.
func Aliases() []byte { return aliasesText }

// magicEntries is the built-in rule set, expressed as Go literals rather than a raw byte blob so
// it can be authored and reviewed like any other piece of code. It is converted to and then back
// from the real wire format by [Magic], so the engine always exercises the same parser path a
// loaded system database does.
var magicEntries = []magic.Entry{
	{
		Priority: 50,
		Mime:     "image/png",
		Rules: []magic.Rule{
			{IndentLevel: 0, StartOff: 0, Val: []byte("\x89PNG\r\n\x1a\n"), ValLen: 8},
		},
	},
	{
		Priority: 50,
		Mime:     "image/jpeg",
		Rules: []magic.Rule{
			{IndentLevel: 0, StartOff: 0, Val: []byte{0xFF, 0xD8, 0xFF}, ValLen: 3},
		},
	},
	{
		Priority: 50,
		Mime:     "image/gif",
		Rules: []magic.Rule{
			{IndentLevel: 0, StartOff: 0, Val: []byte("GIF87a"), ValLen: 6},
			{IndentLevel: 0, StartOff: 0, Val: []byte("GIF89a"), ValLen: 6},
		},
	},
	{
		Priority: 50,
		Mime:     "audio/flac",
		Rules: []magic.Rule{
			{IndentLevel: 0, StartOff: 0, Val: []byte("fLaC"), ValLen: 4},
		},
	},
	{
		Priority: 50,
		Mime:     "application/x-msdos-executable",
		Rules: []magic.Rule{
			{IndentLevel: 0, StartOff: 0, Val: []byte("MZ"), ValLen: 2},
		},
	},
	{
		// PDF allows a short amount of leading garbage before the %PDF- marker; real
		// shared-mime-info data encodes this as a small region search rather than a fixed
		// offset.
		Priority: 50,
		Mime:     "application/pdf",
		Rules: []magic.Rule{
			{IndentLevel: 0, StartOff: 0, Val: []byte("%PDF-"), ValLen: 5, RegionLen: 1024},
		},
	},
	{
		Priority: 50,
		Mime:     "application/zip",
		Rules: []magic.Rule{
			{IndentLevel: 0, StartOff: 0, Val: []byte("PK\x03\x04"), ValLen: 4},
			{IndentLevel: 0, StartOff: 0, Val: []byte("PK\x05\x06"), ValLen: 4},
		},
	},
	{
		// An OOXML document is a zip whose central directory mentions the word-processing
		// part; checking for that only after the zip signature matches is what keeps a docx
		// from ever being mistaken for a plain zip, and vice versa.
		Priority: 60,
		Mime:     "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		Rules: []magic.Rule{
			{IndentLevel: 0, StartOff: 0, Val: []byte("PK\x03\x04"), ValLen: 4},
			{IndentLevel: 1, StartOff: 0, Val: []byte("word/"), ValLen: 5, RegionLen: 2048},
		},
	},
	{
		Priority: 50,
		Mime:     "font/sfnt",
		Rules: []magic.Rule{
			{IndentLevel: 0, StartOff: 0, Val: []byte{0x00, 0x01, 0x00, 0x00}, ValLen: 4},
		},
	},
	{
		// Demonstrates a masked rule: the ASCII-case bit (0x20) of each tag byte is masked off,
		// so "TMPL", "tmpl" and any mixed-case spelling all match the same value.
		Priority: 50,
		Mime:     "application/x-tagged-template",
		Rules: []magic.Rule{
			{
				IndentLevel: 0,
				StartOff:    0,
				Val:         []byte("TMPL"),
				ValLen:      4,
				Mask:        []byte{0xDF, 0xDF, 0xDF, 0xDF},
			},
		},
	},
}

// Magic parses the built-in rule set through the real magic.Parse codec, so any bug in the
// fixture table surfaces the same way a corrupt on-disk database would.
func Magic() (map[string]*magic.Tree, error) {
	blob := magic.Encode(magicEntries)
	return magic.Parse(blob)
}
