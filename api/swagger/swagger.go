package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Edu Agent API",
        "description": "Educational assistant: chat dispatch of action descriptors over a JSON record store",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Agent", "description": "Conversational dispatch"},
        {"name": "Records", "description": "Collection CRUD for structured clients"},
        {"name": "Stats", "description": "Aggregate statistics"},
        {"name": "Exports", "description": "CSV and PDF downloads"},
        {"name": "Health", "description": "Probes and metrics"}
    ],
    "parameters": {
        "collection": {
            "name": "collection",
            "in": "path",
            "required": true,
            "type": "string",
            "enum": ["professeurs", "etudiants", "cours", "evaluations", "notes", "reviews"]
        },
        "id": {"name": "id", "in": "path", "required": true, "type": "integer"}
    },
    "paths": {
        "/health": {
            "get": {
                "tags": ["Health"],
                "summary": "Liveness probe",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/ready": {
            "get": {
                "tags": ["Health"],
                "summary": "Readiness probe",
                "responses": {
                    "200": {"description": "Every dependency answered"},
                    "503": {"description": "A dependency is unavailable"}
                }
            }
        },
        "/metrics": {
            "get": {
                "tags": ["Health"],
                "summary": "Prometheus metrics",
                "produces": ["text/plain"],
                "responses": {"200": {"description": "Exposition format"}}
            }
        },
        "/api/v1/agent/chat": {
            "post": {
                "tags": ["Agent"],
                "summary": "Chat with the assistant",
                "description": "Sends the message to the language model when enabled, then dispatches any action found in the reply.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ChatRequest"}}
                ],
                "responses": {
                    "200": {"description": "Dispatch result", "schema": {"$ref": "#/definitions/DispatchEnvelope"}},
                    "400": {"description": "Missing message", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "429": {"description": "Rate limited", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/agent/dispatch": {
            "post": {
                "tags": ["Agent"],
                "summary": "Dispatch text without the language model",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/DispatchRequest"}}
                ],
                "responses": {
                    "200": {"description": "Dispatch result", "schema": {"$ref": "#/definitions/DispatchEnvelope"}}
                }
            }
        },
        "/api/v1/agent/actions": {
            "get": {
                "tags": ["Agent"],
                "summary": "List registered actions",
                "produces": ["application/json"],
                "responses": {"200": {"description": "Actions in registry order", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/api/v1/{collection}": {
            "get": {
                "tags": ["Records"],
                "summary": "List records of a collection",
                "parameters": [{"$ref": "#/parameters/collection"}],
                "responses": {"200": {"description": "Records", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "post": {
                "tags": ["Records"],
                "summary": "Create a record",
                "description": "Missing required fields are rejected; optional fields get their defaults.",
                "consumes": ["application/json"],
                "parameters": [
                    {"$ref": "#/parameters/collection"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation failed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/{collection}/{id}": {
            "get": {
                "tags": ["Records"],
                "summary": "Get one record",
                "parameters": [{"$ref": "#/parameters/collection"}, {"$ref": "#/parameters/id"}],
                "responses": {
                    "200": {"description": "Record", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Records"],
                "summary": "Merge fields into a record",
                "description": "id and date_creation are never overwritten.",
                "consumes": ["application/json"],
                "parameters": [
                    {"$ref": "#/parameters/collection"},
                    {"$ref": "#/parameters/id"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {
                    "200": {"description": "Updated record", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Patch does not match record fields", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Records"],
                "summary": "Delete a record",
                "parameters": [{"$ref": "#/parameters/collection"}, {"$ref": "#/parameters/id"}],
                "responses": {
                    "204": {"description": "Deleted"},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/stats": {
            "get": {
                "tags": ["Stats"],
                "summary": "Collection counts and overall grade average",
                "responses": {"200": {"description": "Summary", "schema": {"$ref": "#/definitions/StatsEnvelope"}}}
            }
        },
        "/api/v1/exports/{collection}": {
            "get": {
                "tags": ["Exports"],
                "summary": "Download a collection",
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"$ref": "#/parameters/collection"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"], "default": "csv"}
                ],
                "responses": {
                    "200": {"description": "File attachment", "schema": {"type": "file"}},
                    "400": {"description": "Unsupported format", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Unknown collection", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "ChatRequest": {
            "type": "object",
            "required": ["message"],
            "properties": {"message": {"type": "string"}}
        },
        "DispatchRequest": {
            "type": "object",
            "required": ["text"],
            "properties": {"text": {"type": "string"}}
        },
        "DispatchResult": {
            "type": "object",
            "properties": {
                "reply": {"type": "string"},
                "action": {"type": "string"},
                "outcome": {"type": "string", "enum": ["executed", "passthrough", "parse_error", "handler_error", "llm_error"]}
            }
        },
        "StatsSummary": {
            "type": "object",
            "properties": {
                "nb_professeurs": {"type": "integer"},
                "nb_etudiants": {"type": "integer"},
                "nb_cours": {"type": "integer"},
                "nb_evaluations": {"type": "integer"},
                "nb_notes": {"type": "integer"},
                "nb_reviews": {"type": "integer"},
                "moyenne_generale": {"type": "number"},
                "generated_at": {"type": "string", "format": "date-time"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "meta": {"type": "object"}
            }
        },
        "DispatchEnvelope": {
            "type": "object",
            "properties": {
                "data": {"$ref": "#/definitions/DispatchResult"},
                "meta": {"type": "object"}
            }
        },
        "StatsEnvelope": {
            "type": "object",
            "properties": {
                "data": {"$ref": "#/definitions/StatsSummary"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
