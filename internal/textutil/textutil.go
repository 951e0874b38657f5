// Package textutil provides small text-formatting helpers for diagnostic
// output: fixed-width dedent/indent and boxed headers.
package textutil

import (
	"strings"
)

// DedentBy removes up to n leading space characters from every line. This
// is a fixed-width dedent, not a common-margin computation: lines indented
// deeper than n keep their remaining indentation, shorter lines lose only
// what they have.
func DedentBy(s string, n int) string {
	if n <= 0 || s == "" {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		strip := 0
		for strip < n && strip < len(line) && line[strip] == ' ' {
			strip++
		}
		lines[i] = line[strip:]
	}
	return strings.Join(lines, "\n")
}

// IndentBy prepends n spaces to every non-empty line
func IndentBy(s string, n int) string {
	if n <= 0 || s == "" {
		return s
	}
	pad := strings.Repeat(" ", n)
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = pad + line
		}
	}
	return strings.Join(lines, "\n")
}

// Header renders a title between rule lines:
//
//	----------
//	title
//	----------
func Header(title string, width int) string {
	if width <= 0 {
		width = len(title)
	}
	rule := strings.Repeat("-", width)
	return rule + "\n" + title + "\n" + rule
}
