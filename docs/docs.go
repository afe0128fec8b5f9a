// Package docs registers the OpenAPI description served at /swagger/doc.json.
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
        "/hr_signup": {
            "post": {
                "description": "Validates the form, stores the verification document and creates an unverified account",
                "consumes": ["multipart/form-data"],
                "produces": ["text/html"],
                "tags": ["hr"],
                "summary": "HR signup",
                "parameters": [
                    {"type": "string", "description": "Display name", "name": "name", "in": "formData", "required": true},
                    {"type": "string", "description": "Company email", "name": "email", "in": "formData", "required": true},
                    {"type": "string", "description": "Password", "name": "password", "in": "formData", "required": true},
                    {"type": "string", "description": "Password confirmation", "name": "confirmPassword", "in": "formData", "required": true},
                    {"type": "string", "description": "Company name", "name": "companyName", "in": "formData", "required": true},
                    {"type": "string", "description": "Job title", "name": "jobTitle", "in": "formData", "required": true},
                    {"type": "string", "description": "Company website", "name": "companyWebsite", "in": "formData"},
                    {"type": "file", "description": "Verification document (PDF, JPG, PNG)", "name": "verification", "in": "formData", "required": true}
                ],
                "responses": {
                    "200": {"description": "Signup form with a validation message", "schema": {"type": "string"}},
                    "303": {"description": "Redirect to /login"},
                    "500": {"description": "Internal server error", "schema": {"type": "string"}}
                }
            }
        },
        "/login": {
            "post": {
                "description": "Verified accounts with a matching password see the dashboard. Nothing is persisted.",
                "consumes": ["application/x-www-form-urlencoded"],
                "produces": ["text/html"],
                "tags": ["hr"],
                "summary": "HR login",
                "parameters": [
                    {"type": "string", "description": "Email", "name": "email", "in": "formData", "required": true},
                    {"type": "string", "description": "Password", "name": "password", "in": "formData", "required": true}
                ],
                "responses": {
                    "200": {"description": "Dashboard or login form with a message", "schema": {"type": "string"}}
                }
            }
        },
        "/admin/pending_hr": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["text/html"],
                "tags": ["admin"],
                "summary": "Pending HR accounts",
                "responses": {
                    "200": {"description": "Pending list", "schema": {"type": "string"}},
                    "401": {"description": "Unauthorized", "schema": {"type": "string"}}
                }
            }
        },
        "/admin/approve_hr/{hr_id}": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["admin"],
                "summary": "Approve HR account",
                "parameters": [
                    {"type": "string", "description": "Account ID", "name": "hr_id", "in": "path", "required": true}
                ],
                "responses": {
                    "303": {"description": "Redirect to /admin/pending_hr"},
                    "401": {"description": "Unauthorized", "schema": {"type": "string"}},
                    "404": {"description": "Account not found", "schema": {"type": "string"}}
                }
            }
        },
        "/uploads/hr_verifications/{filename}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/octet-stream"],
                "tags": ["admin"],
                "summary": "Verification document",
                "parameters": [
                    {"type": "string", "description": "Stored filename", "name": "filename", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "file"}},
                    "404": {"description": "Not found", "schema": {"type": "string"}}
                }
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "HR Portal API",
	Description:      "HR self-registration with admin review.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
