// Package textutil provides text utilities for line-oriented rewriting:
// binary detection, line terminator detection, and line split/join helpers.
package textutil

import (
	"bytes"
	"strings"
)

// BinarySniffLength is the maximum number of bytes scanned for null-byte
// detection. Matches the heuristic used by Git and most editors.
const BinarySniffLength = 8000

// LineEnding is the terminator used to split and re-join a file's lines.
type LineEnding string

// Supported line endings.
const (
	LF   LineEnding = "\n"
	CRLF LineEnding = "\r\n"
)

// String returns a printable name for the line ending.
func (le LineEnding) String() string {
	if le == CRLF {
		return "crlf"
	}

	return "lf"
}

// IsBinary returns true if data contains a null byte within the first
// BinarySniffLength bytes. Empty data is not binary.
func IsBinary(data []byte) bool {
	if len(data) == 0 {
		return false
	}

	sniff := data
	if len(sniff) > BinarySniffLength {
		sniff = sniff[:BinarySniffLength]
	}

	return bytes.IndexByte(sniff, 0) >= 0
}

// DetectLineEnding returns CRLF when text contains at least one newline and
// every newline is preceded by a carriage return. Anything else, including
// mixed files, is LF.
func DetectLineEnding(text string) LineEnding {
	lf := strings.Count(text, "\n")
	if lf == 0 {
		return LF
	}

	if strings.Count(text, "\r\n") == lf {
		return CRLF
	}

	return LF
}

// SplitLines splits text on the given terminator. A trailing terminator
// produces a final empty line, so JoinLines(SplitLines(s, le), le) == s.
func SplitLines(text string, le LineEnding) []string {
	return strings.Split(text, string(le))
}

// JoinLines is the inverse of SplitLines.
func JoinLines(lines []string, le LineEnding) string {
	return strings.Join(lines, string(le))
}

// IsBlank reports whether line is empty or whitespace only.
func IsBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}
