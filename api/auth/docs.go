// Package auth holds the Swagger documentation for the account service.
// Regenerate with: swag init -g internal/auth/http/router.go -o api/auth
package auth

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "AussieBroadWAN Team",
            "url": "https://github.com/aussiebroadwan/tubetab"
        },
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/v1/users/register": {
            "post": {
                "description": "Creates an account. The avatar image is required, the cover image is optional.",
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["Users"],
                "summary": "Register a user",
                "parameters": [
                    {"type": "string", "description": "Full name", "name": "fullName", "in": "formData", "required": true},
                    {"type": "string", "description": "Email address", "name": "email", "in": "formData", "required": true},
                    {"type": "string", "description": "Username", "name": "username", "in": "formData", "required": true},
                    {"type": "string", "description": "Password", "name": "password", "in": "formData", "required": true},
                    {"type": "file", "description": "Avatar image", "name": "avatar", "in": "formData", "required": true},
                    {"type": "file", "description": "Cover image", "name": "coverImage", "in": "formData"}
                ],
                "responses": {
                    "201": {"description": "created user", "schema": {"$ref": "#/definitions/authsdk.Response-authsdk_User"}},
                    "400": {"description": "missing fields or avatar", "schema": {"$ref": "#/definitions/authsdk.Response-authsdk_Empty"}},
                    "409": {"description": "username or email taken", "schema": {"$ref": "#/definitions/authsdk.Response-authsdk_Empty"}},
                    "413": {"description": "upload too large", "schema": {"$ref": "#/definitions/authsdk.Response-authsdk_Empty"}}
                }
            }
        },
        "/api/v1/users/login": {
            "post": {
                "description": "Verifies the password and starts a session. Any earlier session for the user is replaced.\nThe tokens are returned in the body and as HttpOnly cookies.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Users"],
                "summary": "Log in",
                "parameters": [
                    {"description": "username or email, and password", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/authsdk.LoginRequest"}}
                ],
                "responses": {
                    "200": {
                        "description": "user and token pair",
                        "schema": {"$ref": "#/definitions/authsdk.Response-authsdk_LoginData"},
                        "headers": {"Set-Cookie": {"type": "string", "description": "accessToken, refreshToken"}}
                    },
                    "400": {"description": "no identifier", "schema": {"$ref": "#/definitions/authsdk.Response-authsdk_Empty"}},
                    "401": {"description": "wrong password", "schema": {"$ref": "#/definitions/authsdk.Response-authsdk_Empty"}},
                    "404": {"description": "no such user", "schema": {"$ref": "#/definitions/authsdk.Response-authsdk_Empty"}}
                }
            }
        },
        "/api/v1/users/logout": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Ends the caller's session and clears the cookies. Calling it twice is fine.",
                "produces": ["application/json"],
                "tags": ["Users"],
                "summary": "Log out",
                "responses": {
                    "200": {"description": "logged out", "schema": {"$ref": "#/definitions/authsdk.Response-authsdk_Empty"}},
                    "401": {"description": "missing or invalid access token", "schema": {"$ref": "#/definitions/authsdk.Response-authsdk_Empty"}}
                }
            }
        },
        "/api/v1/users/refresh-token": {
            "post": {
                "description": "Exchanges the current refresh token for a new pair. The cookie wins over the body.\nA refresh token works once, presenting it again fails.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Users"],
                "summary": "Refresh the token pair",
                "parameters": [
                    {"description": "used when there is no refreshToken cookie", "name": "request", "in": "body", "schema": {"$ref": "#/definitions/authsdk.RefreshRequest"}}
                ],
                "responses": {
                    "200": {
                        "description": "new token pair",
                        "schema": {"$ref": "#/definitions/authsdk.Response-authsdk_TokenData"},
                        "headers": {"Set-Cookie": {"type": "string", "description": "accessToken, refreshToken"}}
                    },
                    "401": {"description": "missing, invalid or used refresh token", "schema": {"$ref": "#/definitions/authsdk.Response-authsdk_Empty"}}
                }
            }
        },
        "/livez": {
            "get": {
                "description": "Liveness probe endpoint returning basic service health status, uptime, and version information\nThis endpoint always returns 200 OK if the service is running",
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Health Check Endpoint",
                "responses": {
                    "200": {"description": "status, uptime, version", "schema": {"$ref": "#/definitions/authsdk.HealthResponse"}}
                }
            }
        },
        "/readyz": {
            "get": {
                "description": "Readiness probe endpoint returning service health status and the credential store check",
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Readiness Check Endpoint",
                "responses": {
                    "200": {"description": "status, uptime, version, checks", "schema": {"$ref": "#/definitions/authsdk.HealthResponse"}},
                    "503": {"description": "status, uptime, version, checks - service not ready", "schema": {"$ref": "#/definitions/authsdk.HealthResponse"}}
                }
            }
        }
    },
    "definitions": {
        "authsdk.Empty": {"type": "object"},
        "authsdk.HealthChecks": {
            "type": "object",
            "properties": {"database": {"type": "string"}}
        },
        "authsdk.HealthResponse": {
            "type": "object",
            "properties": {
                "checks": {"$ref": "#/definitions/authsdk.HealthChecks"},
                "status": {"type": "string"},
                "uptime": {"type": "string"},
                "version": {"type": "string"}
            }
        },
        "authsdk.LoginData": {
            "type": "object",
            "properties": {
                "accessToken": {"type": "string"},
                "refreshToken": {"type": "string"},
                "user": {"$ref": "#/definitions/authsdk.User"}
            }
        },
        "authsdk.LoginRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string", "example": "alice@example.com"},
                "password": {"type": "string", "example": "correct horse battery staple"},
                "username": {"type": "string", "example": "alice"}
            }
        },
        "authsdk.RefreshRequest": {
            "type": "object",
            "properties": {"refreshToken": {"type": "string"}}
        },
        "authsdk.TokenData": {
            "type": "object",
            "properties": {
                "accessToken": {"type": "string"},
                "refreshToken": {"type": "string"}
            }
        },
        "authsdk.User": {
            "type": "object",
            "properties": {
                "_id": {"type": "string"},
                "avatar": {"type": "string"},
                "coverImage": {"type": "string"},
                "createdAt": {"type": "string"},
                "email": {"type": "string"},
                "fullName": {"type": "string"},
                "updatedAt": {"type": "string"},
                "username": {"type": "string"}
            }
        },
        "authsdk.Response-authsdk_Empty": {
            "type": "object",
            "properties": {
                "data": {"$ref": "#/definitions/authsdk.Empty"},
                "message": {"type": "string"},
                "statusCode": {"type": "integer"},
                "success": {"type": "boolean"}
            }
        },
        "authsdk.Response-authsdk_LoginData": {
            "type": "object",
            "properties": {
                "data": {"$ref": "#/definitions/authsdk.LoginData"},
                "message": {"type": "string"},
                "statusCode": {"type": "integer"},
                "success": {"type": "boolean"}
            }
        },
        "authsdk.Response-authsdk_TokenData": {
            "type": "object",
            "properties": {
                "data": {"$ref": "#/definitions/authsdk.TokenData"},
                "message": {"type": "string"},
                "statusCode": {"type": "integer"},
                "success": {"type": "boolean"}
            }
        },
        "authsdk.Response-authsdk_User": {
            "type": "object",
            "properties": {
                "data": {"$ref": "#/definitions/authsdk.User"},
                "message": {"type": "string"},
                "statusCode": {"type": "integer"},
                "success": {"type": "boolean"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "JWT access token. Format: \"Bearer {token}\".",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "0.1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{"http", "https"},
	Title:            "tubetab Account Service API",
	Description:      "Registration, login, logout and token refresh for tubetab users.\n\nAccess and refresh tokens are HS256 JWTs signed with separate secrets.\nThey are returned in the response body and as HttpOnly cookies.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
