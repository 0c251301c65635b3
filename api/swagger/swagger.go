package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Wellbeing API",
        "description": "Student wellbeing check-ins with risk classification and privacy-preserving cohort analytics.",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": ["http", "https"],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "security": [{"BearerAuth": []}],
    "tags": [
        {"name": "Checkins", "description": "Student self-reports"},
        {"name": "Cohort", "description": "Aggregate views gated by the minimum cohort size"},
        {"name": "Operations", "description": "Instrumentation"}
    ],
    "paths": {
        "/checkins": {
            "post": {
                "tags": ["Checkins"],
                "summary": "Submit a wellbeing check-in",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CheckinRequest"}}
                ],
                "responses": {
                    "201": {"description": "Stored and classified", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid payload", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Not a student", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "503": {"description": "Store unavailable, retry", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/metrics/summary": {
            "get": {
                "tags": ["Operations"],
                "summary": "Instrumentation summary (ADMIN)",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/cohort/snapshot": {
            "get": {
                "tags": ["Cohort"],
                "summary": "Current cohort snapshot",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "Snapshot, possibly suppressed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "503": {"description": "Store unavailable, retry", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/cohort/trends": {
            "get": {
                "tags": ["Cohort"],
                "summary": "Cohort trends",
                "description": "window=rolling compares the last two rolling windows. weeks=N returns the last N academic weeks.",
                "produces": ["application/json"],
                "parameters": [
                    {"name": "window", "in": "query", "type": "string", "enum": ["rolling", "academic"]},
                    {"name": "weeks", "in": "query", "type": "integer", "minimum": 1, "maximum": 12}
                ],
                "responses": {
                    "200": {"description": "Trend metrics, each independently suppressed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid window", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/cohort/export": {
            "get": {
                "tags": ["Cohort"],
                "summary": "Export the cohort view",
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"], "default": "csv"}
                ],
                "responses": {
                    "200": {"description": "Attachment", "schema": {"type": "file"}},
                    "400": {"description": "Unknown format", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "CheckinRequest": {
            "type": "object",
            "required": ["primaryDomain", "intensity"],
            "properties": {
                "primaryDomain": {"type": "string", "enum": ["academic", "social", "family", "financial", "health", "future", "belonging"]},
                "secondaryDomain": {"type": "string", "enum": ["academic", "social", "family", "financial", "health", "future", "belonging"]},
                "intensity": {"type": "integer", "minimum": 1, "maximum": 5},
                "reflection": {"type": "string", "maxLength": 4000},
                "selfHarm": {"type": "string", "enum": ["none", "sometimes", "often"]},
                "weekNumber": {"type": "integer", "minimum": 1, "maximum": 53},
                "academicYear": {"type": "integer"}
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
