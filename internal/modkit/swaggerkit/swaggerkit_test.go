package swaggerkit

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/swaggo/swag/v2"

	phttp "steakfeed/internal/platform/net/http"
)

const testInstance = "swaggerkit-test"

const testTemplate = `{
  "openapi": "3.1.0",
  "info": {"title": "{{.Title}}", "version": "{{.Version}}"},
  "paths": {
    "/things/{id}": {
      "get": {"responses": {"200": {"description": "ok"}, "400": {"description": "custom"}}}
    }
  }
}`

func init() {
	spec := &swag.Spec{
		Version:          "9.9.9",
		Title:            "Things",
		InfoInstanceName: testInstance,
		SwaggerTemplate:  testTemplate,
		LeftDelim:        "{{",
		RightDelim:       "}}",
	}
	swag.Register(spec.InstanceName(), spec)
}

func serve(t *testing.T, o Options, path string) *httptest.ResponseRecorder {
	t.Helper()
	mux := chi.NewRouter()
	Mount(phttp.AdaptChi(mux), o)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestMount_Disabled(t *testing.T) {
	t.Parallel()

	rec := serve(t, Options{Instance: testInstance}, "/api/docs/doc.json")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestMount_Redirect(t *testing.T) {
	t.Parallel()

	rec := serve(t, Options{Enabled: true, Instance: testInstance}, "/api/docs")
	if rec.Code != http.StatusPermanentRedirect || rec.Header().Get("Location") != "/api/docs/" {
		t.Fatalf("redirect = %d %q", rec.Code, rec.Header().Get("Location"))
	}
}

func TestDocJSON_Normalized(t *testing.T) {
	t.Parallel()

	rec := serve(t, Options{Enabled: true, Instance: testInstance, TitleSuffix: "(dev)"}, "/api/docs/doc.json")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", rec.Code, rec.Body)
	}
	if got := rec.Header().Get("Cache-Control"); got != "no-store" {
		t.Fatalf("Cache-Control = %q", got)
	}

	var spec map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &spec); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if spec["openapi"] != "3.0.3" {
		t.Fatalf("openapi = %v", spec["openapi"])
	}
	info := spec["info"].(map[string]any)
	if info["title"] != "Things (dev)" || info["version"] != "9.9.9" {
		t.Fatalf("info = %v", info)
	}
	servers := spec["servers"].([]any)
	if servers[0].(map[string]any)["url"] != "/api/v1" {
		t.Fatalf("servers = %v", servers)
	}
	schemas := spec["components"].(map[string]any)["schemas"].(map[string]any)
	if _, ok := schemas["ErrorResponse"]; !ok {
		t.Fatalf("ErrorResponse schema missing")
	}

	resps := spec["paths"].(map[string]any)["/things/{id}"].(map[string]any)["get"].(map[string]any)["responses"].(map[string]any)
	if resps["400"].(map[string]any)["description"] != "custom" {
		t.Fatalf("declared 400 was overwritten: %v", resps["400"])
	}
	if resps["500"].(map[string]any)["description"] != "Internal Server Error" {
		t.Fatalf("default 500 missing: %v", resps["500"])
	}
}

func TestDocJSON_UnknownInstance(t *testing.T) {
	t.Parallel()

	rec := serve(t, Options{Enabled: true, Instance: "nope"}, "/api/docs/doc.json")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestDocJSON_CustomPathAndMutator(t *testing.T) {
	t.Parallel()

	Register(func(spec map[string]any) { spec["x-mutated"] = true })
	Register(nil)

	rec := serve(t, Options{Enabled: true, Instance: testInstance, Path: "docs/", ServerURL: "/v2"}, "/docs/doc.json")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var spec map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &spec); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if spec["x-mutated"] != true {
		t.Fatalf("mutator not applied")
	}
	if spec["servers"].([]any)[0].(map[string]any)["url"] != "/v2" {
		t.Fatalf("servers = %v", spec["servers"])
	}
}

func TestEnsureServers_Swagger2(t *testing.T) {
	t.Parallel()

	spec := map[string]any{"swagger": "2.0", "servers": []any{"keep"}}
	ensureServers(spec, "/x")
	if _, ok := spec["swagger"]; ok || spec["openapi"] != "3.0.3" {
		t.Fatalf("spec = %v", spec)
	}
	if spec["servers"].([]any)[0] != "keep" {
		t.Fatalf("existing servers replaced")
	}
}
