// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/pdiddy/translation-engine/internal/library"
	"github.com/pdiddy/translation-engine/internal/provider"
	"github.com/pdiddy/translation-engine/internal/translator"
	"github.com/pdiddy/translation-engine/pkg/types"
)

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ProviderInfo describes one backend on GET /providers.
type ProviderInfo struct {
	Name      types.ProviderName               `json:"name"`
	Available bool                             `json:"available"`
	Defaults  provider.ModelPair               `json:"defaults"`
	Models    map[string]provider.Capabilities `json:"models"`
}

func (s *Server) handleProviders(w http.ResponseWriter, _ *http.Request) {
	available := map[types.ProviderName]bool{}
	if s.registry != nil {
		for _, name := range s.registry.ListAvailable() {
			available[name] = true
		}
	}

	out := make([]ProviderInfo, 0, len(types.AllProviders))
	for _, name := range types.AllProviders {
		info := ProviderInfo{
			Name:      name,
			Available: available[name],
			Defaults:  provider.DefaultModels(name),
			Models:    map[string]provider.Capabilities{},
		}
		for _, model := range provider.KnownModels(name) {
			if caps, ok := provider.ModelCapabilities(name, model); ok {
				info.Models[model] = caps
			}
		}
		out = append(out, info)
	}
	writeJSON(w, http.StatusOK, out)
}

// TranslateResponse is the body of POST /translate. Key and Version are set
// when the result was saved to the library.
type TranslateResponse struct {
	*types.TranslationResult
	Key     string `json:"key,omitempty"`
	Version int    `json:"version,omitempty"`
}

func (s *Server) handleTranslate(w http.ResponseWriter, r *http.Request) {
	var in translator.Input
	dec := json.NewDecoder(io.LimitReader(r.Body, s.cfg.MaxBodyBytes))
	if err := dec.Decode(&in); err != nil {
		s.writeError(w, r, types.NewConfigurationError("invalid request body: %v", err))
		return
	}

	save, err := boolParam(r, "save")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if save && s.library == nil {
		s.writeError(w, r, types.NewConfigurationError("library is not enabled"))
		return
	}

	res, err := s.translator.Translate(r.Context(), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	resp := TranslateResponse{TranslationResult: res}
	if save {
		rec, err := s.library.Save(r.Context(), res)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		resp.Key, resp.Version = rec.Key, rec.Version
		w.Header().Set(HeaderItemKey, rec.Key)
		w.Header().Set(HeaderItemVersion, strconv.Itoa(rec.Version))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListItems(w http.ResponseWriter, r *http.Request) {
	if !s.requireLibrary(w, r) {
		return
	}
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.writeError(w, r, types.NewConfigurationError("limit must be a non-negative integer"))
			return
		}
		limit = n
	}
	recs, err := s.library.List(r.Context(), types.ItemType(r.URL.Query().Get("itemType")), limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, recs)
}

func (s *Server) handleGetItem(w http.ResponseWriter, r *http.Request) {
	if !s.requireLibrary(w, r) {
		return
	}
	rec, err := s.library.Get(r.Context(), chi.URLParam(r, "key"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set(HeaderItemVersion, strconv.Itoa(rec.Version))
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	if !s.requireLibrary(w, r) {
		return
	}
	expected, err := expectedVersion(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var item types.Item
	if err := json.NewDecoder(io.LimitReader(r.Body, s.cfg.MaxBodyBytes)).Decode(&item); err != nil {
		s.writeError(w, r, types.NewConfigurationError("invalid item: %v", err))
		return
	}
	rec, err := s.library.Update(r.Context(), chi.URLParam(r, "key"), expected, item)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set(HeaderItemVersion, strconv.Itoa(rec.Version))
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	if !s.requireLibrary(w, r) {
		return
	}
	expected, err := expectedVersion(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.library.Delete(r.Context(), chi.URLParam(r, "key"), expected); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

var errNoLibrary = fmt.Errorf("library is not enabled: %w", library.ErrNotFound)

func (s *Server) requireLibrary(w http.ResponseWriter, r *http.Request) bool {
	if s.library != nil {
		return true
	}
	s.writeError(w, r, errNoLibrary)
	return false
}

// expectedVersion reads the version a write is conditional on.
func expectedVersion(r *http.Request) (int, error) {
	v := r.Header.Get(HeaderIfUnmodifiedVersion)
	if v == "" {
		return 0, types.NewConfigurationError("%s header is required", HeaderIfUnmodifiedVersion)
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return 0, types.NewConfigurationError("%s must be a positive integer", HeaderIfUnmodifiedVersion)
	}
	return n, nil
}

func boolParam(r *http.Request, name string) (bool, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, types.NewConfigurationError("%s must be a boolean", name)
	}
	return b, nil
}
