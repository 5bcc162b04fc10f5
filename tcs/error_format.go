package tcs

import (
	"fmt"
	"strings"
)

const (
	ansiRed       = "\x1b[31m"
	ansiYellow    = "\x1b[33m"
	ansiRedBG     = "\x1b[41m"
	ansiReset     = "\x1b[0m"
	errorLineHead = "An " + ansiRed + "error" + ansiReset + " occurred on line %d:\n"
)

// BuildMessage renders the error against the source it was produced from: the
// line number, the enclosing source lines with the offending range
// highlighted, and the error description.
func (e *Error) BuildMessage(source string) string {
	start, end := clampSpan(e.Span, len(source))
	if end > start && source[end-1] == '\n' {
		end--
	}

	lineStart := strings.LastIndexByte(source[:start], '\n') + 1
	lineEnd := len(source)
	if idx := strings.IndexByte(source[end:], '\n'); idx >= 0 {
		lineEnd = end + idx
	}
	line := strings.Count(source[:start], "\n") + 1

	var sb strings.Builder
	fmt.Fprintf(&sb, errorLineHead, line)
	sb.WriteString(source[lineStart:start])
	sb.WriteString(ansiRedBG)
	if start == end {
		sb.WriteByte(' ')
	} else {
		sb.WriteString(source[start:end])
	}
	sb.WriteString(ansiReset)
	sb.WriteString(source[end:lineEnd])
	sb.WriteByte('\n')
	sb.WriteString(ansiYellow)
	sb.WriteString(e.Error())
	sb.WriteString(ansiReset)
	return sb.String()
}

func clampSpan(span Span, size int) (int, int) {
	start, end := span.Start, span.End
	if start < 0 {
		start = 0
	}
	if start > size {
		start = size
	}
	if end < start {
		end = start
	}
	if end > size {
		end = size
	}
	return start, end
}

// BuildMessages renders several errors against the same source, one block per
// error.
func BuildMessages(errs []*Error, source string) string {
	parts := make([]string, 0, len(errs))
	for _, err := range errs {
		parts = append(parts, err.BuildMessage(source))
	}
	return strings.Join(parts, "\n")
}
