package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Katwanyaa School API",
        "description": "Backend for the Katwanyaa High School website and admin dashboard",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http",
        "https"
    ],
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "tags": [
        {"name": "Student Portal", "description": "Name + admission number session flow"},
        {"name": "Files", "description": "Downloadable school documents and media"},
        {"name": "School", "description": "School profile"},
        {"name": "Students", "description": "Admin roster management"},
        {"name": "Admin Auth", "description": "Dashboard authentication"},
        {"name": "Dashboard", "description": "Admin overview counters"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "Ready"},
                    "503": {"description": "Database unreachable"}
                }
            }
        },
        "/api/students/login": {
            "post": {
                "tags": ["Student Portal"],
                "summary": "Student portal login",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/StudentLoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "Session issued; cookie set"},
                    "400": {"description": "Missing or malformed fields"},
                    "404": {"description": "Record not found, contact staff"}
                }
            }
        },
        "/api/students/verify": {
            "get": {
                "tags": ["Student Portal"],
                "summary": "Verify the current session",
                "responses": {
                    "200": {"description": "Authenticated"},
                    "401": {"description": "Missing, invalid or expired token"}
                }
            }
        },
        "/api/students/logout": {
            "delete": {
                "tags": ["Student Portal"],
                "summary": "End the current session",
                "responses": {
                    "200": {"description": "Cookie cleared"}
                }
            }
        },
        "/api/school": {
            "get": {
                "tags": ["School"],
                "summary": "Get the school profile",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Profile not configured"}
                }
            }
        },
        "/api/files": {
            "get": {
                "tags": ["Files"],
                "summary": "List downloadable files",
                "parameters": [
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "category", "in": "query", "type": "string"},
                    {"name": "sort", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/files/{id}/download": {
            "get": {
                "tags": ["Files"],
                "summary": "Download one file",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Binary stream"},
                    "302": {"description": "Redirect for video embeds"},
                    "404": {"description": "Unknown descriptor"}
                }
            }
        },
        "/api/files/download-all": {
            "post": {
                "tags": ["Files"],
                "summary": "Download every matching file",
                "parameters": [
                    {"name": "category", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Per-file outcome summary"}
                }
            }
        },
        "/api/admin/auth/login": {
            "post": {
                "tags": ["Admin Auth"],
                "summary": "Dashboard login",
                "responses": {
                    "200": {"description": "Access token issued"},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/api/admin/dashboard": {
            "get": {
                "tags": ["Dashboard"],
                "summary": "Aggregate counters",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/admin/students": {
            "get": {
                "tags": ["Students"],
                "summary": "List students",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "form", "in": "query", "type": "string"},
                    {"name": "stream", "in": "query", "type": "string"},
                    {"name": "status", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "page_size", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Students"],
                "summary": "Register a student",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "201": {"description": "Created"},
                    "409": {"description": "Admission number taken"}
                }
            }
        }
    },
    "definitions": {
        "StudentLoginRequest": {
            "type": "object",
            "required": ["fullName", "admissionNumber"],
            "properties": {
                "fullName": {"type": "string"},
                "admissionNumber": {"type": "string"}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_items": {"type": "integer"},
                "total_pages": {"type": "integer"}
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
                "pagination": {"$ref": "#/definitions/Pagination"},
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
