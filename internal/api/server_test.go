package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brenoschmidt/pyslice/internal/config"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	s, err := NewServer(&config.Config{Env: "test"}, nil)
	require.NoError(t, err)
	return s
}

func doJSON(t *testing.T, s *Server, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func TestHealthCheck(t *testing.T) {
	s := newTestServer(t)
	rec := doJSON(t, s, "GET", "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ok"`)
}

func TestReadyCheck_NoStore(t *testing.T) {
	s := newTestServer(t)
	rec := doJSON(t, s, "GET", "/ready", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSliceFunction(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, "POST", "/api/v1/slice", sliceRequest{
		Name:   "square",
		Source: "def square(x):\n    \"\"\"Sq.\"\"\"\n    return x*x\n",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp sliceResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "square", resp.Name)
	assert.Equal(t, "def square(x):\n", resp.Sig)
	assert.Equal(t, "    \"\"\"Sq.\"\"\"\n", resp.Doc)
	assert.Equal(t, "    return x*x\n", resp.Body)
	assert.Equal(t, "", resp.Decor)
	assert.Equal(t, 0, resp.IndentSize)
}

func TestSliceFunction_NotFound(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, "POST", "/api/v1/slice", sliceRequest{
		Name:   "missing",
		Source: "def other():\n    pass\n",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSliceFunction_SyntaxError(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, "POST", "/api/v1/slice", sliceRequest{
		Name:   "f",
		Source: "def f(:\n",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestSliceFunction_BadConstruction(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, "POST", "/api/v1/slice", sliceRequest{
		Name: "f",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestSliceFunction_BadBody(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest("POST", "/api/v1/slice", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestIndexModule(t *testing.T) {
	s := newTestServer(t)

	src := "import sys\n\nX = 1\n\ndef f():\n    pass\n"
	rec := doJSON(t, s, "POST", "/api/v1/index", indexRequest{
		Name:   "mod",
		Source: src,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp indexResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "mod", resp.Module)

	var names []string
	for _, e := range resp.Entries {
		names = append(names, e.Name)
	}
	assert.Equal(t, []string{"X", "f", "sys"}, names)

	byName := map[string]indexEntry{}
	for _, e := range resp.Entries {
		byName[e.Name] = e
	}
	assert.Equal(t, "definition", byName["f"].Kind)
	assert.Equal(t, "import", byName["sys"].Kind)
	assert.Equal(t, "variable", byName["X"].Kind)
	assert.Equal(t, 5, byName["f"].StartLine)
}

func TestIndexModule_MissingName(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, "POST", "/api/v1/index", indexRequest{Source: "x = 1\n"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestIndexModule_SyntaxError(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, "POST", "/api/v1/index", indexRequest{
		Name:   "mod",
		Source: "def f(:\n",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestModules_NoStore(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, "POST", "/api/v1/modules/", createModuleRequest{Name: "mod", Source: "x = 1\n"})
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = doJSON(t, s, "GET", "/api/v1/modules/", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = doJSON(t, s, "GET", "/api/v1/modules/00000000-0000-0000-0000-000000000000/definitions", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
