// Package format renders file content for display to a consumer with a
// bounded context window: length truncation, tab expansion, and cat -n style
// line numbering.
package format

import (
	"fmt"
	"strings"
)

const (
	// MaxResponseLen bounds any single block of content returned to the
	// caller. Content beyond it is cut and marked.
	MaxResponseLen = 16000

	// TabStop is the column width used when expanding tabs, both before
	// substring matching and for display.
	TabStop = 8
)

// TruncatedNotice marks output clipped at MaxResponseLen.
const TruncatedNotice = "<response clipped><NOTE>To save on context only part of this file has been shown to you. You should retry this tool after you have searched inside the file with `grep -n` in order to find the line numbers of what you are looking for.</NOTE>"

// MaybeTruncate cuts content exceeding MaxResponseLen and appends the
// clipped marker.
func MaybeTruncate(content string) string {
	if len(content) <= MaxResponseLen {
		return content
	}
	return content[:MaxResponseLen] + TruncatedNotice
}

// ExpandTabs replaces each tab with enough spaces to reach the next multiple
// of TabStop. The column counter resets on every line break, so the
// expansion of a tab depends only on its position within its own line.
func ExpandTabs(s string) string {
	if !strings.ContainsRune(s, '\t') {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	col := 0
	for _, r := range s {
		switch r {
		case '\t':
			pad := TabStop - col%TabStop
			for i := 0; i < pad; i++ {
				b.WriteByte(' ')
			}
			col += pad
		case '\n', '\r':
			b.WriteRune(r)
			col = 0
		default:
			b.WriteRune(r)
			col++
		}
	}
	return b.String()
}

// MakeOutput renders content as a numbered listing headed by descriptor.
// Each line is prefixed with a right-aligned line number starting at
// initLine. Truncation applies before numbering, so a clipped file still
// yields a well-formed listing.
func MakeOutput(content, descriptor string, initLine int) string {
	content = ExpandTabs(MaybeTruncate(content))
	var b strings.Builder
	fmt.Fprintf(&b, "Here's the result of running `cat -n` on %s:\n", descriptor)
	for i, line := range strings.Split(content, "\n") {
		fmt.Fprintf(&b, "%6d\t%s\n", i+initLine, line)
	}
	return b.String()
}
