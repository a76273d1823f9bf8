// Package docs holds the OpenAPI description of the HTTP API served at /swagger.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/sessions": {
            "post": {
                "produces": ["application/json"],
                "tags": ["sessions"],
                "summary": "Open a map session",
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.SessionResponse"}}
                }
            }
        },
        "/api/sessions/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["sessions"],
                "summary": "Get the state of a map session",
                "parameters": [
                    {"type": "string", "description": "Session ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.SessionResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            }
        },
        "/api/sessions/{id}/clicks": {
            "post": {
                "description": "Moves the marker and starts an asynchronous reverse geocode of the point.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["sessions"],
                "summary": "Click a point on the map",
                "parameters": [
                    {"type": "string", "description": "Session ID", "name": "id", "in": "path", "required": true},
                    {"description": "Clicked point", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.ClickRequest"}}
                ],
                "responses": {
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/handler.ClickResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            }
        },
        "/api/sessions/{id}/events": {
            "get": {
                "description": "Server-sent events named \"view\", one per state change, starting with the current state.",
                "produces": ["text/event-stream"],
                "tags": ["sessions"],
                "summary": "Stream view state changes",
                "parameters": [
                    {"type": "string", "description": "Session ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.ViewEvent"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            }
        },
        "/api/sessions/{id}/panel": {
            "get": {
                "produces": ["text/html"],
                "tags": ["sessions"],
                "summary": "Render the address panel",
                "parameters": [
                    {"type": "string", "description": "Session ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "string"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            }
        },
        "/reverse-geocode": {
            "get": {
                "description": "Returns the first candidate the configured provider knows at the given coordinates.",
                "produces": ["application/json"],
                "tags": ["geocode"],
                "summary": "Reverse geocode a point",
                "parameters": [
                    {"type": "number", "description": "Latitude", "name": "lat", "in": "query", "required": true},
                    {"type": "number", "description": "Longitude", "name": "lon", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Candidate"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "handler.ClickRequest": {
            "type": "object",
            "required": ["lat", "lon"],
            "properties": {
                "lat": {"type": "number", "example": 59.9},
                "lon": {"type": "number", "example": 30.3}
            }
        },
        "handler.ClickResponse": {
            "type": "object",
            "properties": {
                "seq": {"type": "integer"},
                "id": {"type": "string"},
                "map": {"$ref": "#/definitions/models.MapState"},
                "view": {"$ref": "#/definitions/models.ViewState"},
                "panel": {"$ref": "#/definitions/models.Panel"}
            }
        },
        "handler.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string", "example": "session not found"}
            }
        },
        "handler.SessionResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "map": {"$ref": "#/definitions/models.MapState"},
                "view": {"$ref": "#/definitions/models.ViewState"},
                "panel": {"$ref": "#/definitions/models.Panel"}
            }
        },
        "handler.ViewEvent": {
            "type": "object",
            "properties": {
                "map": {"$ref": "#/definitions/models.MapState"},
                "view": {"$ref": "#/definitions/models.ViewState"},
                "panel": {"$ref": "#/definitions/models.Panel"}
            }
        },
        "models.Address": {
            "type": "object",
            "properties": {
                "location": {"type": "string"},
                "route": {"type": "string"}
            }
        },
        "models.Candidate": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "description": {"type": "string"},
                "kind": {"type": "string"},
                "point": {"$ref": "#/definitions/models.Coordinate"}
            }
        },
        "models.Coordinate": {
            "type": "object",
            "properties": {
                "lat": {"type": "number"},
                "lon": {"type": "number"}
            }
        },
        "models.MapState": {
            "type": "object",
            "properties": {
                "center": {"$ref": "#/definitions/models.Coordinate"},
                "zoom": {"type": "integer"},
                "marker": {"$ref": "#/definitions/models.Coordinate"}
            }
        },
        "models.Panel": {
            "type": "object",
            "properties": {
                "empty": {"type": "boolean"},
                "placeholder": {"type": "string"},
                "location": {"type": "string"},
                "route": {"type": "string"},
                "coordinates": {"type": "string"}
            }
        },
        "models.ViewState": {
            "type": "object",
            "properties": {
                "coordinates": {"$ref": "#/definitions/models.Coordinate"},
                "address": {"$ref": "#/definitions/models.Address"},
                "seq": {"type": "integer"},
                "pending": {"type": "boolean"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "geocode-map API",
	Description:      "Click a point on the map and read its address.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
