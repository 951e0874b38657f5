package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/brenoschmidt/pyslice/internal/cst"
	"github.com/brenoschmidt/pyslice/internal/indexer"
	"github.com/brenoschmidt/pyslice/internal/store"
)

// createModuleRequest indexes a module source and persists the result
type createModuleRequest struct {
	Name           string `json:"name"`
	Path           string `json:"path,omitempty"`
	Source         string `json:"source"`
	PrefixTopLevel bool   `json:"prefix_top_level,omitempty"`
}

func (s *Server) createModule(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusServiceUnavailable, "persistence not configured")
		return
	}

	var req createModuleRequest
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
	tree, err := mod.Tree()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	rec, err := s.store.SaveModule(r.Context(), req.Name, req.Path, store.RecordsFromIndex(tree, defs))
	if err != nil {
		log.Error().Err(err).Str("module", req.Name).Msg("failed to save module index")
		writeError(w, http.StatusInternalServerError, "failed to save module index")
		return
	}

	writeJSON(w, http.StatusCreated, rec)
}

func (s *Server) listModules(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusServiceUnavailable, "persistence not configured")
		return
	}

	mods, err := s.store.ListModules(r.Context(), 100)
	if err != nil {
		log.Error().Err(err).Msg("failed to list modules")
		writeError(w, http.StatusInternalServerError, "failed to list modules")
		return
	}
	writeJSON(w, http.StatusOK, mods)
}

func (s *Server) getModuleDefinitions(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusServiceUnavailable, "persistence not configured")
		return
	}

	moduleID, err := uuid.Parse(chi.URLParam(r, "moduleID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid module ID")
		return
	}

	defs, err := s.store.ListDefinitions(r.Context(), moduleID)
	if err != nil {
		log.Error().Err(err).Str("module_id", moduleID.String()).Msg("failed to list definitions")
		writeError(w, http.StatusInternalServerError, "failed to list definitions")
		return
	}
	writeJSON(w, http.StatusOK, defs)
}
