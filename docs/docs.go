// Package docs holds the OpenAPI document served at /openapi.json.
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
        "/api/cars": {
            "get": {
                "produces": ["application/json"],
                "tags": ["car"],
                "summary": "List cars",
                "parameters": [
                    {"type": "string", "description": "Exact size", "name": "size", "in": "query"},
                    {"type": "integer", "description": "Minimum number of doors", "name": "doors", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/model.Car"}}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/model.ErrorResponse"}}
                }
            }
        },
        "/api/cars/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["car"],
                "summary": "Get a car",
                "parameters": [{"type": "integer", "description": "Car ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.Car"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/model.ErrorResponse"}}
                }
            }
        },
        "/api/cars/{id}/trips": {
            "get": {
                "produces": ["application/json"],
                "tags": ["car"],
                "summary": "List trips of a car",
                "parameters": [{"type": "integer", "description": "Car ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/model.Trip"}}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/model.ErrorResponse"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["car"],
                "summary": "Record a trip",
                "parameters": [
                    {"type": "integer", "description": "Car ID", "name": "id", "in": "path", "required": true},
                    {"description": "Trip", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/model.TripInput"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/model.Trip"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/model.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/model.ErrorResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/model.ErrorResponse"}}
                }
            }
        },
        "/api/car": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["car"],
                "summary": "Add a car",
                "parameters": [
                    {"description": "Car", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/model.CarInput"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/model.Car"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/model.ErrorResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/model.ErrorResponse"}}
                }
            }
        },
        "/api/car/{id}": {
            "put": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["car"],
                "summary": "Replace a car",
                "parameters": [
                    {"type": "integer", "description": "Car ID", "name": "id", "in": "path", "required": true},
                    {"description": "Car", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/model.CarInput"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.Car"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/model.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/model.ErrorResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/model.ErrorResponse"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["car"],
                "summary": "Delete a car and its trips",
                "parameters": [{"type": "integer", "description": "Car ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "204": {"description": "No Content"},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/model.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/model.ErrorResponse"}}
                }
            }
        },
        "/": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Welcome message",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.MessageResponse"}}
                }
            }
        },
        "/ping": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.MessageResponse"}}
                }
            }
        },
        "/ready": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Readiness check",
                "description": "Pings the database.",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.MessageResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/model.ErrorResponse"}}
                }
            }
        },
        "/register": {
            "post": {
                "description": "Creates an unconfirmed account and returns its confirmation link.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Register a new user",
                "parameters": [
                    {
                        "description": "Username, email and password",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/model.RegisterRequest"}
                    }
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/model.RegisterResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/model.ErrorResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/model.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/model.ErrorResponse"}}
                }
            }
        },
        "/token": {
            "post": {
                "description": "OAuth2 password form; username carries the email.",
                "consumes": ["application/x-www-form-urlencoded"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Issue an access token",
                "parameters": [
                    {"type": "string", "description": "Email", "name": "username", "in": "formData", "required": true},
                    {"type": "string", "description": "Password", "name": "password", "in": "formData", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.TokenResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/model.ErrorResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/model.ErrorResponse"}}
                }
            }
        },
        "/confirm/{token}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Confirm an email address",
                "parameters": [
                    {"type": "string", "description": "Confirmation token", "name": "token", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.DetailResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/model.ErrorResponse"}}
                }
            }
        },
        "/me": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Get current user",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.UserResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/model.ErrorResponse"}}
                }
            }
        },
        "/post": {
            "get": {
                "produces": ["application/json"],
                "tags": ["post"],
                "summary": "List posts with like counts",
                "parameters": [
                    {"type": "string", "default": "new", "description": "new, old or most_likes", "name": "sorting", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/model.PostWithLikes"}}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/model.ErrorResponse"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["post"],
                "summary": "Create a post",
                "parameters": [
                    {
                        "description": "Post body",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/model.PostRequest"}
                    }
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/model.Post"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/model.ErrorResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/model.ErrorResponse"}}
                }
            }
        },
        "/post/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["post"],
                "summary": "Get a post with its comments",
                "parameters": [
                    {"type": "integer", "description": "Post ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.PostWithComments"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/model.ErrorResponse"}}
                }
            }
        },
        "/post/{id}/comment": {
            "get": {
                "produces": ["application/json"],
                "tags": ["post"],
                "summary": "List comments on a post",
                "parameters": [
                    {"type": "integer", "description": "Post ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/model.Comment"}}}
                }
            }
        },
        "/comment": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["post"],
                "summary": "Comment on a post",
                "parameters": [
                    {
                        "description": "Comment",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/model.CommentRequest"}
                    }
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/model.Comment"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/model.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/model.ErrorResponse"}}
                }
            }
        },
        "/like": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["post"],
                "summary": "Like a post",
                "parameters": [
                    {
                        "description": "Post to like",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/model.LikeRequest"}
                    }
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/model.Like"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/model.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/model.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "model.Car": {
            "type": "object",
            "properties": {
                "doors": {"type": "integer"},
                "fuel": {"type": "string"},
                "id": {"type": "integer"},
                "size": {"type": "string"},
                "transmission": {"type": "string"}
            }
        },
        "model.CarInput": {
            "type": "object",
            "required": ["doors", "size"],
            "properties": {
                "doors": {"type": "integer", "minimum": 1},
                "fuel": {"type": "string", "default": "electric"},
                "size": {"type": "string"},
                "transmission": {"type": "string", "default": "auto"}
            }
        },
        "model.Comment": {
            "type": "object",
            "properties": {
                "body": {"type": "string"},
                "id": {"type": "integer"},
                "post_id": {"type": "integer"},
                "user_id": {"type": "integer"}
            }
        },
        "model.CommentRequest": {
            "type": "object",
            "required": ["body", "post_id"],
            "properties": {
                "body": {"type": "string"},
                "post_id": {"type": "integer"}
            }
        },
        "model.DetailResponse": {
            "type": "object",
            "properties": {"detail": {"type": "string"}}
        },
        "model.ErrorResponse": {
            "type": "object",
            "properties": {"detail": {"type": "string"}}
        },
        "model.Like": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "post_id": {"type": "integer"},
                "user_id": {"type": "integer"}
            }
        },
        "model.LikeRequest": {
            "type": "object",
            "required": ["post_id"],
            "properties": {"post_id": {"type": "integer"}}
        },
        "model.MessageResponse": {
            "type": "object",
            "properties": {"message": {"type": "string"}}
        },
        "model.Post": {
            "type": "object",
            "properties": {
                "body": {"type": "string"},
                "id": {"type": "integer"},
                "user_id": {"type": "integer"}
            }
        },
        "model.PostRequest": {
            "type": "object",
            "required": ["body"],
            "properties": {"body": {"type": "string"}}
        },
        "model.PostWithComments": {
            "type": "object",
            "properties": {
                "comments": {"type": "array", "items": {"$ref": "#/definitions/model.Comment"}},
                "post": {"$ref": "#/definitions/model.PostWithLikes"}
            }
        },
        "model.PostWithLikes": {
            "type": "object",
            "properties": {
                "body": {"type": "string"},
                "id": {"type": "integer"},
                "likes": {"type": "integer"},
                "user_id": {"type": "integer"}
            }
        },
        "model.RegisterRequest": {
            "type": "object",
            "required": ["email", "password", "username"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"},
                "username": {"type": "string"}
            }
        },
        "model.RegisterResponse": {
            "type": "object",
            "properties": {
                "confirmation_url": {"type": "string"},
                "detail": {"type": "string"}
            }
        },
        "model.TokenResponse": {
            "type": "object",
            "properties": {
                "access_token": {"type": "string"},
                "token_type": {"type": "string"}
            }
        },
        "model.Trip": {
            "type": "object",
            "properties": {
                "car_id": {"type": "integer"},
                "description": {"type": "string"},
                "end": {"type": "integer"},
                "id": {"type": "integer"},
                "start": {"type": "integer"}
            }
        },
        "model.TripInput": {
            "type": "object",
            "required": ["description"],
            "properties": {
                "description": {"type": "string"},
                "end": {"type": "integer"},
                "start": {"type": "integer"}
            }
        },
        "model.UserResponse": {
            "type": "object",
            "properties": {
                "confirmed": {"type": "boolean"},
                "email": {"type": "string"},
                "id": {"type": "integer"},
                "username": {"type": "string"}
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
	Title:            "Store API",
	Description:      "Account registration, email confirmation, token login and posts.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
