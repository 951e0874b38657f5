package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/brenoschmidt/pyslice/internal/cst"
	"github.com/brenoschmidt/pyslice/internal/indexer"
	"github.com/brenoschmidt/pyslice/internal/slicer"
)

// sliceRequest asks for one function's structure
type sliceRequest struct {
	Name           string `json:"name"`
	Source         string `json:"source"`
	Dedent         *bool  `json:"dedent,omitempty"`
	UseDeclaredDoc bool   `json:"use_declared_doc,omitempty"`
}

// sliceResponse is the rendered fragment view
type sliceResponse struct {
	Name       string `json:"name"`
	Decor      string `json:"decor"`
	Sig        string `json:"sig"`
	Doc        string `json:"doc"`
	Body       string `json:"body"`
	IndentSize int    `json:"indent_size"`
}

func (s *Server) sliceFunction(w http.ResponseWriter, r *http.Request) {
	var req sliceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sl, err := slicer.New(slicer.Options{Name: req.Name, Source: req.Source})
	if err != nil {
		writeError(w, sliceStatus(err), err.Error())
		return
	}

	dedent := true
	if req.Dedent != nil {
		dedent = *req.Dedent
	}

	view, err := sl.View(dedent, req.UseDeclaredDoc)
	if err != nil {
		writeError(w, sliceStatus(err), err.Error())
		return
	}
	indent, err := sl.IndentSize()
	if err != nil {
		writeError(w, sliceStatus(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, sliceResponse{
		Name:       sl.Name(),
		Decor:      view.Decor,
		Sig:        view.Sig,
		Doc:        view.Doc,
		Body:       view.Body,
		IndentSize: indent,
	})
}

// sliceStatus maps slicer error kinds to HTTP statuses
func sliceStatus(err error) int {
	switch {
	case errors.Is(err, slicer.ErrFunctionNotFound):
		return http.StatusNotFound
	case errors.Is(err, cst.ErrSyntax),
		errors.Is(err, slicer.ErrConstruction),
		errors.Is(err, slicer.ErrUnsupportedShape):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// indexRequest asks for a module's definition index
type indexRequest struct {
	Name           string `json:"name"`
	Source         string `json:"source"`
	PrefixTopLevel bool   `json:"prefix_top_level,omitempty"`
}

// indexEntry is one qualified name in the union view
type indexEntry struct {
	Name      string `json:"name"`
	Kind      string `json:"kind"`
	StartLine int    `json:"start_line"`
	EndLine   int    `json:"end_line"`
}

type indexResponse struct {
	Module  string       `json:"module"`
	Entries []indexEntry `json:"entries"`
}

func (s *Server) indexModule(w http.ResponseWriter, r *http.Request) {
	var req indexRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "module name is required")
		return
	}

	mod := indexer.New(indexer.Options{
		Name:           req.Name,
		Source:         req.Source,
		PrefixTopLevel: req.PrefixTopLevel,
	})

	defs, err := mod.Defs()
	if err != nil {
		if errors.Is(err, cst.ErrSyntax) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	resp := indexResponse{Module: req.Name}
	for _, name := range defs.Names() {
		entry := defs[name]
		resp.Entries = append(resp.Entries, indexEntry{
			Name:      entry.Name,
			Kind:      string(entry.Kind),
			StartLine: int(entry.Node.StartPoint().Row) + 1,
			EndLine:   int(entry.Node.EndPoint().Row) + 1,
		})
	}

	writeJSON(w, http.StatusOK, resp)
}
