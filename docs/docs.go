// Package docs serves the OpenAPI description of the HTTP API.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/healthz": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Liveness and dependency check",
                "responses": {
                    "200": {"description": "OK"},
                    "503": {"description": "A dependency is unavailable"}
                }
            }
        },
        "/tournaments": {
            "get": {
                "produces": ["application/json"],
                "tags": ["tournaments"],
                "summary": "List tournaments",
                "parameters": [
                    {"type": "string", "name": "status", "in": "query"},
                    {"type": "string", "name": "format", "in": "query"},
                    {"type": "string", "name": "organizer_id", "in": "query"},
                    {"type": "boolean", "name": "upcoming", "in": "query"},
                    {"type": "boolean", "name": "registration_open", "in": "query"},
                    {"type": "integer", "name": "limit", "in": "query"},
                    {"type": "integer", "name": "offset", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Bad Request"}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["tournaments"],
                "summary": "Create a tournament",
                "parameters": [
                    {"name": "input", "in": "body", "required": true, "schema": {"$ref": "#/definitions/services.CreateTournamentInput"}}
                ],
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "Bad Request"},
                    "401": {"description": "Unauthorized"}
                }
            }
        },
        "/tournaments/{tournamentID}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["tournaments"],
                "summary": "Get a tournament",
                "parameters": [{"type": "string", "name": "tournamentID", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        },
        "/tournaments/{tournamentID}/bracket": {
            "get": {
                "produces": ["application/json"],
                "tags": ["tournaments"],
                "summary": "Get the bracket",
                "parameters": [{"type": "string", "name": "tournamentID", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        },
        "/tournaments/{tournamentID}/leaderboard": {
            "get": {
                "produces": ["application/json"],
                "tags": ["tournaments"],
                "summary": "Get the leaderboard",
                "parameters": [{"type": "string", "name": "tournamentID", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        },
        "/tournaments/{tournamentID}/start": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["tournaments"],
                "summary": "Start a tournament",
                "parameters": [{"type": "string", "name": "tournamentID", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK"},
                    "403": {"description": "Forbidden"},
                    "409": {"description": "Conflict"},
                    "422": {"description": "Fewer than two participants"}
                }
            }
        },
        "/tournaments/{tournamentID}/cancel": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["tournaments"],
                "summary": "Cancel a tournament",
                "parameters": [{"type": "string", "name": "tournamentID", "in": "path", "required": true}],
                "responses": {"204": {"description": "No Content"}, "403": {"description": "Forbidden"}, "409": {"description": "Conflict"}}
            }
        },
        "/tournaments/{tournamentID}/registrations": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["participants"],
                "summary": "Register for a tournament",
                "parameters": [{"type": "string", "name": "tournamentID", "in": "path", "required": true}],
                "responses": {"201": {"description": "Created"}, "404": {"description": "Not Found"}, "409": {"description": "Conflict"}}
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["participants"],
                "summary": "Withdraw from a tournament",
                "parameters": [{"type": "string", "name": "tournamentID", "in": "path", "required": true}],
                "responses": {"204": {"description": "No Content"}, "409": {"description": "Conflict"}}
            }
        },
        "/tournaments/{tournamentID}/matches/{matchID}/start": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["matches"],
                "summary": "Mark a match as in progress",
                "parameters": [
                    {"type": "string", "name": "tournamentID", "in": "path", "required": true},
                    {"type": "string", "name": "matchID", "in": "path", "required": true}
                ],
                "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}, "409": {"description": "Conflict"}}
            }
        },
        "/tournaments/{tournamentID}/matches/{matchID}/result": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["matches"],
                "summary": "Submit the result of a match",
                "parameters": [
                    {"type": "string", "name": "tournamentID", "in": "path", "required": true},
                    {"type": "string", "name": "matchID", "in": "path", "required": true},
                    {"name": "input", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.submitResultInput"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/services.MatchResultOutcome"}},
                    "403": {"description": "Forbidden"},
                    "404": {"description": "Not Found"},
                    "409": {"description": "Conflict"},
                    "422": {"description": "Invalid or undecidable result"}
                }
            }
        }
    },
    "definitions": {
        "models.GameResult": {
            "type": "object",
            "properties": {
                "participant_id": {"type": "string"},
                "score": {"type": "integer"},
                "time_elapsed": {"type": "number"},
                "completed": {"type": "boolean"}
            }
        },
        "handlers.submitResultInput": {
            "type": "object",
            "properties": {
                "results": {"type": "array", "items": {"$ref": "#/definitions/models.GameResult"}}
            }
        },
        "services.CreateTournamentInput": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "description": {"type": "string"},
                "format": {"type": "string"},
                "max_participants": {"type": "integer"},
                "schedule": {"type": "object"}
            }
        },
        "services.MatchResultOutcome": {
            "type": "object",
            "properties": {
                "tournament": {"type": "object"},
                "winner": {"type": "string"},
                "tournament_complete": {"type": "boolean"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Tournament Engine API",
	Description:      "Single-elimination tournament orchestration.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
