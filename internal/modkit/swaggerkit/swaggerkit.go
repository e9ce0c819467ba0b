// Package swaggerkit serves the OpenAPI document and Swagger UI for the HTTP API
package swaggerkit

import (
	"net/http"
	"strings"
	"sync"

	jsoniter "github.com/json-iterator/go"
	httpSwagger "github.com/swaggo/http-swagger"
	"github.com/swaggo/swag/v2"

	phttp "steakfeed/internal/platform/net/http"
)

var codec = jsoniter.ConfigCompatibleWithStandardLibrary

// SpecMutator adjusts the parsed document before it is served
type SpecMutator func(map[string]any)

var (
	mu       sync.RWMutex
	mutators []SpecMutator
)

// Register adds a spec mutator applied to every doc.json response
func Register(m SpecMutator) {
	if m == nil {
		return
	}
	mu.Lock()
	mutators = append(mutators, m)
	mu.Unlock()
}

// Options control where and what is served
type Options struct {
	Enabled bool
	// Instance is the swag registry name of the document
	Instance string
	// Path is where the UI lives, default /api/docs
	Path string
	// ServerURL is the OAS3 server base, default /api/v1
	ServerURL string
	// TitleSuffix is appended to info.title when set
	TitleSuffix string
}

func (o Options) withDefaults() Options {
	if o.Instance == "" {
		o.Instance = swag.Name
	}
	if o.Path == "" {
		o.Path = "/api/docs"
	}
	o.Path = "/" + strings.Trim(o.Path, "/")
	if o.ServerURL == "" {
		o.ServerURL = "/api/v1"
	}
	return o
}

// Mount serves the UI under o.Path and the document at o.Path/doc.json
func Mount(r phttp.Router, o Options) {
	if !o.Enabled {
		return
	}
	o = o.withDefaults()
	docURL := o.Path + "/doc.json"

	r.Get(o.Path, func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, o.Path+"/", http.StatusPermanentRedirect)
	})
	r.Get(docURL, serveDocJSON(o))
	r.Handle(o.Path+"/*", httpSwagger.Handler(
		httpSwagger.InstanceName(o.Instance),
		httpSwagger.URL(docURL),
	))
}

func serveDocJSON(o Options) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		raw, err := swag.ReadDoc(o.Instance)
		if err != nil {
			http.Error(w, "spec not registered", http.StatusNotFound)
			return
		}
		var spec map[string]any
		if err := codec.UnmarshalFromString(raw, &spec); err != nil {
			http.Error(w, "spec parse error", http.StatusInternalServerError)
			return
		}

		ensureServers(spec, o.ServerURL)
		if o.TitleSuffix != "" {
			if info, ok := spec["info"].(map[string]any); ok {
				if title, ok := info["title"].(string); ok {
					info["title"] = title + " " + o.TitleSuffix
				}
			}
		}
		ensureErrorResponse(spec)
		addDefaultResponse(spec, "400", badRequest)
		addDefaultResponse(spec, "500", serverError)

		mu.RLock()
		for _, m := range mutators {
			m(spec)
		}
		mu.RUnlock()

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		_ = codec.NewEncoder(w).Encode(spec)
	}
}

// ensureServers lifts swagger 2 and 3.1 documents to 3.0.3, which the UI renders
func ensureServers(spec map[string]any, url string) {
	if _, ok := spec["swagger"]; ok {
		delete(spec, "swagger")
		spec["openapi"] = "3.0.3"
	}
	if v, ok := spec["openapi"].(string); !ok || strings.HasPrefix(v, "3.1") {
		spec["openapi"] = "3.0.3"
	}
	if _, ok := spec["servers"]; !ok {
		spec["servers"] = []any{map[string]any{"url": url}}
	}
}

func ensureErrorResponse(spec map[string]any) {
	comps, ok := spec["components"].(map[string]any)
	if !ok {
		comps = map[string]any{}
		spec["components"] = comps
	}
	schemas, ok := comps["schemas"].(map[string]any)
	if !ok {
		schemas = map[string]any{}
		comps["schemas"] = schemas
	}
	if _, ok := schemas["ErrorResponse"]; ok {
		return
	}
	schemas["ErrorResponse"] = map[string]any{
		"type":        "object",
		"description": "Error envelope",
		"properties": map[string]any{
			"status_code": map[string]any{"type": "integer", "format": "int32"},
			"status":      map[string]any{"type": "string"},
			"code":        map[string]any{"type": "integer", "format": "int32"},
			"error":       map[string]any{"type": "string"},
			"field":       map[string]any{"type": "string"},
			"request_id":  map[string]any{"type": "string"},
		},
		"required": []any{"status_code", "status"},
	}
}

func errorExample(desc string, status, code int, msg string) map[string]any {
	return map[string]any{
		"description": desc,
		"content": map[string]any{
			"application/json": map[string]any{
				"schema": map[string]any{"$ref": "#/components/schemas/ErrorResponse"},
				"example": map[string]any{
					"status_code": status,
					"status":      http.StatusText(status),
					"code":        code,
					"error":       msg,
					"request_id":  "steakfeed/abc-000001",
				},
			},
		},
	}
}

var (
	badRequest  = errorExample("Bad Request", http.StatusBadRequest, 5, "limit must be at least 1")
	serverError = errorExample("Internal Server Error", http.StatusInternalServerError, 1, "panic recovered")
)

// addDefaultResponse gives every operation a response for status unless it declares one
func addDefaultResponse(spec map[string]any, status string, resp map[string]any) {
	paths, ok := spec["paths"].(map[string]any)
	if !ok {
		return
	}
	for _, p := range paths {
		node, ok := p.(map[string]any)
		if !ok {
			continue
		}
		for _, opAny := range node {
			op, ok := opAny.(map[string]any)
			if !ok {
				continue
			}
			resps, ok := op["responses"].(map[string]any)
			if !ok {
				resps = map[string]any{}
				op["responses"] = resps
			}
			if _, exists := resps[status]; !exists {
				resps[status] = resp
			}
		}
	}
}
