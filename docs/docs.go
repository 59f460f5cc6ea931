// Package docs registers the OpenAPI description served under /swagger/.
// Keep it in step with the @ annotations on the handlers in pkg/api.
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
        "/lessons": {
            "get": {
                "produces": ["application/json"],
                "summary": "List lessons",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/lesson.Lesson"}}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/api.errorResponse"}}
                }
            }
        },
        "/lessons/{id}": {
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "summary": "Set lesson spaces",
                "parameters": [
                    {"type": "string", "description": "Lesson ID", "name": "id", "in": "path", "required": true},
                    {"description": "New seat count", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/api.spacesRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/lesson.Lesson"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/api.errorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/api.errorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/api.errorResponse"}}
                }
            }
        },
        "/orders": {
            "get": {
                "produces": ["application/json"],
                "summary": "List orders",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/order.Order"}}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/api.errorResponse"}}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "summary": "Create order",
                "parameters": [
                    {"type": "string", "description": "Client retry key", "name": "Idempotency-Key", "in": "header"},
                    {"description": "Order", "name": "order", "in": "body", "required": true, "schema": {"$ref": "#/definitions/order.Order"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/api.createdResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/api.errorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/api.errorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/api.errorResponse"}}
                }
            }
        },
        "/search": {
            "get": {
                "produces": ["application/json"],
                "summary": "Search lessons",
                "parameters": [
                    {"type": "string", "description": "Search text", "name": "query", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/lesson.Lesson"}}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/api.errorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/api.errorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "api.createdResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "orderId": {"type": "string"}
            }
        },
        "api.errorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"}
            }
        },
        "api.spacesRequest": {
            "type": "object",
            "properties": {
                "spaces": {"type": "number"}
            }
        },
        "lesson.Lesson": {
            "type": "object",
            "additionalProperties": true,
            "properties": {
                "_id": {"type": "string"},
                "image": {"type": "string"},
                "location": {"type": "string"},
                "price": {"type": "number"},
                "spaces": {"type": "integer"},
                "subject": {"type": "string"}
            }
        },
        "order.CartItem": {
            "type": "object",
            "properties": {
                "item": {"type": "string"},
                "lessonId": {"type": "string"},
                "price": {"type": "number"},
                "quantity": {"type": "integer"},
                "subject": {"type": "string"}
            }
        },
        "order.Order": {
            "type": "object",
            "properties": {
                "_id": {"type": "string"},
                "address": {"type": "string"},
                "cart": {"type": "array", "items": {"$ref": "#/definitions/order.CartItem"}},
                "city": {"type": "string"},
                "createdAt": {"type": "string"},
                "deliveryMethod": {"type": "string"},
                "firstName": {"type": "string"},
                "giftPhone": {"type": "string"},
                "lastName": {"type": "string"},
                "phone": {"type": "string"},
                "sendGift": {"type": "boolean"},
                "state": {"type": "string"},
                "totalPrice": {"type": "number"},
                "zip": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:3000",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Lessonshop API",
	Description:      "Lessons catalogue and order intake",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
