// Package magic implements the compiled freedesktop.org "magic" file format: a per-MIME tree
// of byte-pattern rules, and the evaluator that tests those rules against a byte buffer.
//
// The wire format and matching semantics are specified by the shared-mime-info project; this
// package parses it without attempting to read or write the original C tool's (update-mime-
// database) XML sources, only its compiled binary output.
package magic

// Rule is one line of a compiled magic file: a byte pattern to test at a given offset, with an
// optional mask and an optional sliding search region. A MIME's full test is a tree of these
// (see [Tree]), where indentation in the source file encodes parent/child nesting.
type Rule struct {
	// IndentLevel is this rule's depth in its MIME's tree. 0 is a root rule.
	IndentLevel uint32

	// StartOff is the byte offset at which the comparison (or, if RegionLen is nonzero, the
	// search) begins.
	StartOff uint32

	// Val is the literal byte pattern to compare against.
	Val []byte

	// ValLen is len(Val), kept as a separate field because it is encoded explicitly in the wire
	// format and used to size the Mask and the search window before Val itself is read.
	ValLen uint16

	// Mask, if non-nil, is bitwise-ANDed with both the candidate bytes and Val before comparison.
	// len(Mask) == int(ValLen) whenever Mask is non-nil.
	Mask []byte

	// WordLen is reserved for byte-swapping multi-byte words. It is parsed and preserved but,
	// per the format's specification, never consulted by the evaluator.
	WordLen uint32

	// RegionLen, if nonzero, turns a fixed comparison at StartOff into a sliding search over a
	// window of RegionLen+ValLen bytes starting at StartOff.
	RegionLen uint32
}

// extent is the highest byte offset a rule could need to read.
func (r *Rule) extent() uint64 {
	return uint64(r.StartOff) + uint64(r.ValLen) + uint64(r.RegionLen)
}
