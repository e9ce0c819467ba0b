// Package docs registers the OpenAPI document of the lookup API with swag.
// Keep it in step with the annotations in services/lookup/http
package docs

import (
	"github.com/swaggo/swag/v2"

	"steakfeed/internal/core/version"
	"steakfeed/internal/modkit/swaggerkit"
)

// InstanceName is the swag registry name the API serves at /api/docs
const InstanceName = "steakfeed"

const docTemplate = `{
  "openapi": "3.0.3",
  "info": {
    "title": "{{.Title}}",
    "description": "{{escape .Description}}",
    "version": "{{.Version}}"
  },
  "paths": {
    "/updates/current": {
      "get": {
        "tags": ["Updates"],
        "summary": "Current state",
        "description": "Sentinel copy of the oldest update of the most recently ingested game",
        "responses": {
          "200": {"description": "ok", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/ItemEnvelope"}}}},
          "404": {"description": "not ingested yet", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/ErrorResponse"}}}}
        }
      }
    },
    "/updates/{hash}": {
      "get": {
        "tags": ["Updates"],
        "summary": "Update by hash",
        "parameters": [
          {"name": "hash", "in": "path", "required": true, "schema": {"type": "string"}}
        ],
        "responses": {
          "200": {"description": "ok", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/ItemEnvelope"}}}},
          "404": {"description": "unknown hash", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/ErrorResponse"}}}}
        }
      }
    },
    "/updates/{hash}/ring": {
      "get": {
        "tags": ["Updates"],
        "summary": "Walk the ring from a hash",
        "description": "Follows next_id until the walk returns to its start, reaches a missing link or returns limit items. page.cursor holds the next hash when the walk stopped early.",
        "parameters": [
          {"name": "hash", "in": "path", "required": true, "schema": {"type": "string"}},
          {"name": "limit", "in": "query", "required": false, "schema": {"type": "integer", "minimum": 1, "maximum": 500, "default": 50}}
        ],
        "responses": {
          "200": {"description": "ok", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/RingEnvelope"}}}},
          "404": {"description": "unknown start hash", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/ErrorResponse"}}}}
        }
      }
    }
  },
  "components": {
    "schemas": {
      "Item": {
        "type": "object",
        "description": "Flattened game update keyed by hash",
        "additionalProperties": true,
        "properties": {
          "hash": {"type": "string"},
          "next_id": {"type": "string"},
          "gameId": {"type": "string"},
          "timestamp": {"type": "string"}
        }
      },
      "Page": {
        "type": "object",
        "properties": {
          "count": {"type": "integer"},
          "limit": {"type": "integer"},
          "cursor": {"type": "string"}
        }
      },
      "ItemEnvelope": {
        "type": "object",
        "properties": {
          "status_code": {"type": "integer"},
          "status": {"type": "string"},
          "request_id": {"type": "string"},
          "data": {"$ref": "#/components/schemas/Item"}
        }
      },
      "RingEnvelope": {
        "type": "object",
        "properties": {
          "status_code": {"type": "integer"},
          "status": {"type": "string"},
          "request_id": {"type": "string"},
          "data": {
            "type": "object",
            "properties": {
              "start": {"type": "string"},
              "stop": {"type": "string", "enum": ["closed", "missing", "revisit", "limit"]},
              "next": {"type": "string"},
              "items": {"type": "array", "items": {"$ref": "#/components/schemas/Item"}}
            }
          },
          "page": {"$ref": "#/components/schemas/Page"}
        }
      }
    }
  }
}`

// SwaggerInfo holds exported document metadata
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Title:            "steakfeed lookup API",
	Description:      "Read-only access to ingested game updates and their rings.",
	InfoInstanceName: InstanceName,
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
	swaggerkit.Register(stampBuild)
}

// stampBuild reports the running build in info.version
func stampBuild(spec map[string]any) {
	info, ok := spec["info"].(map[string]any)
	if !ok {
		return
	}
	if v := version.Info("steakfeed-api").Version; v != "" {
		info["version"] = v
	}
}
