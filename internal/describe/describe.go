// Package describe renders a sliced function's structure for diagnostic
// printing: decorators, signature, docstring and body, each selectable.
package describe

import (
	"fmt"
	"strings"

	"github.com/brenoschmidt/pyslice/internal/slicer"
	"github.com/brenoschmidt/pyslice/internal/textutil"
)

// Options selects which parts of the function are printed
type Options struct {
	ShowSig   bool
	ShowDoc   bool
	ShowDecor bool
	ShowBody  bool

	// Quiet suppresses all output and overrides the other options
	Quiet bool

	// Header wraps the output in a boxed header with the function name
	Header bool

	// HeaderWidth is the rule width used when Header is set
	HeaderWidth int
}

// DefaultOptions prints signature and docstring under a header
func DefaultOptions() Options {
	return Options{
		ShowSig:     true,
		ShowDoc:     true,
		ShowDecor:   false,
		ShowBody:    false,
		Header:      true,
		HeaderWidth: 60,
	}
}

// Render builds the description text for a sliced function. Fragments are
// always dedented. Quiet yields an empty string.
func Render(s *slicer.Slicer, opts Options) (string, error) {
	if opts.Quiet {
		return "", nil
	}

	view, err := s.View(true, false)
	if err != nil {
		return "", err
	}

	var sections []string
	if opts.ShowDecor && view.Decor != "" {
		sections = append(sections, strings.TrimRight(view.Decor, "\n"))
	}
	if opts.ShowSig {
		sections = append(sections, strings.TrimRight(view.Sig, "\n"))
	} else {
		sections = append(sections, fmt.Sprintf("def %s(...)", s.Name()))
	}
	if opts.ShowDoc && view.Doc != "" {
		sections = append(sections, strings.TrimRight(view.Doc, "\n"))
	}
	if opts.ShowBody && view.Body != "" {
		sections = append(sections, strings.TrimRight(view.Body, "\n"))
	}

	out := strings.Join(sections, "\n")
	if opts.Header {
		out = textutil.Header("describe: "+s.Name(), opts.HeaderWidth) + "\n" + out
	}
	return out, nil
}
