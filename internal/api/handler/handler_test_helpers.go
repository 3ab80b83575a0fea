package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/edvin/statusboard/internal/core"
	"github.com/edvin/statusboard/internal/model"
)

// newRequest creates a new HTTP request with an optional JSON body.
func newRequest(method, target string, body any) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	r := httptest.NewRequest(method, target, &buf)
	r.Header.Set("Content-Type", "application/json")
	return r
}

// newRequestRaw creates a new HTTP request with a raw string body.
func newRequestRaw(method, target, body string) *http.Request {
	r := httptest.NewRequest(method, target, bytes.NewBufferString(body))
	r.Header.Set("Content-Type", "application/json")
	return r
}

// withChiURLParam adds a chi URL parameter to the request context.
func withChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// withChiURLParams adds multiple chi URL parameters to the request context.
func withChiURLParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for key, value := range params {
		rctx.URLParams.Add(key, value)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// decodeErrorResponse parses the JSON error response body into a map.
func decodeErrorResponse(rec *httptest.ResponseRecorder) map[string]string {
	var body map[string]string
	json.Unmarshal(rec.Body.Bytes(), &body)
	return body
}

// newTestServices builds a service bundle around a small fixture tree:
// a root group holding one group "backend" with monitors "api" and
// "db", plus a top-level monitor "edge".
func newTestServices(t *testing.T) (*core.Services, map[string]string) {
	t.Helper()
	svcs := core.NewServices(nil, zerolog.Nop())
	tree := svcs.Tree

	backend := model.NewGroup("backend")
	if err := tree.Add(tree.RootID(), backend); err != nil {
		t.Fatal(err)
	}
	api := model.NewMonitor("api", model.KindHTTP, "http://api.internal/health")
	if err := tree.Add(backend.ID, api); err != nil {
		t.Fatal(err)
	}
	db := model.NewMonitor("db", model.KindTCP, "db.internal:5432")
	if err := tree.Add(backend.ID, db); err != nil {
		t.Fatal(err)
	}
	edge := model.NewMonitor("edge", model.KindExternal, "")
	if err := tree.Add(tree.RootID(), edge); err != nil {
		t.Fatal(err)
	}

	ids := map[string]string{
		"root":    tree.RootID(),
		"backend": backend.ID,
		"api":     api.ID,
		"db":      db.ID,
		"edge":    edge.ID,
	}
	return svcs, ids
}
