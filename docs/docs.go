// Package docs holds the OpenAPI document for the site content API. It is written by
// hand to match the routes in internal/http/handler and registered with swag for
// the /swagger/* UI.
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
        "/api/auth/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Open an editor session",
                "parameters": [
                    {
                        "description": "Admin password",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/handler.loginRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.sessionResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorPayload"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/api/auth/logout": {
            "post": {
                "tags": ["auth"],
                "summary": "Close an editor session",
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/api/auth/session": {
            "get": {
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Check the editor session",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.sessionResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/api/data": {
            "get": {
                "produces": ["application/json"],
                "tags": ["content"],
                "summary": "Read site content",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.SiteContent"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["content"],
                "summary": "Save site content or log a lead event",
                "parameters": [
                    {
                        "description": "Full site document, or a lead event with action_type=lead_event",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/model.SiteContent"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.statusResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorPayload"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorPayload"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            },
            "options": {
                "tags": ["content"],
                "summary": "CORS preflight",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Readiness probe",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.statusResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        }
    },
    "definitions": {
        "handler.errorEnvelope": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "handler.errorPayload": {
            "type": "object",
            "properties": {
                "error": {"$ref": "#/definitions/handler.errorEnvelope"},
                "message": {"type": "string"},
                "request_id": {"type": "string"}
            }
        },
        "handler.loginRequest": {
            "type": "object",
            "properties": {
                "password": {"type": "string"}
            }
        },
        "handler.sessionResponse": {
            "type": "object",
            "properties": {
                "expires_at": {"type": "string"},
                "token": {"type": "string"}
            }
        },
        "handler.statusResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "status": {"type": "string"}
            }
        },
        "model.About": {
            "type": "object",
            "properties": {
                "description": {"type": "string"},
                "engagementStat": {"type": "string"},
                "imageMain": {"type": "string"},
                "imageSecondary": {"type": "string"},
                "point1": {"type": "string"},
                "point2": {"type": "string"},
                "title": {"type": "string"}
            }
        },
        "model.BlogPost": {
            "type": "object",
            "properties": {
                "category": {"type": "string"},
                "date": {"type": "string"},
                "id": {"type": "string"},
                "image": {"type": "string"},
                "time": {"type": "string"},
                "title": {"type": "string"}
            }
        },
        "model.Experience": {
            "type": "object",
            "properties": {
                "company": {"type": "string"},
                "date": {"type": "string"},
                "highlight": {"type": "boolean"},
                "id": {"type": "string"},
                "role": {"type": "string"},
                "tags": {"type": "array", "items": {"type": "string"}}
            }
        },
        "model.Hero": {
            "type": "object",
            "properties": {
                "headline": {"type": "string"},
                "image": {"type": "string"},
                "projectsCompleted": {"type": "integer"},
                "startupsRaised": {"type": "integer"},
                "subheadline": {"type": "string"}
            }
        },
        "model.Niche": {
            "type": "object",
            "properties": {
                "description": {"type": "string"},
                "id": {"type": "string"},
                "title": {"type": "string"}
            }
        },
        "model.Project": {
            "type": "object",
            "properties": {
                "category": {"type": "string"},
                "description": {"type": "string"},
                "id": {"type": "string"},
                "image": {"type": "string"},
                "liveLink": {"type": "string"},
                "techStack": {"type": "array", "items": {"type": "string"}},
                "title": {"type": "string"}
            }
        },
        "model.Service": {
            "type": "object",
            "properties": {
                "description": {"type": "string"},
                "features": {"type": "array", "items": {"type": "string"}},
                "icon": {"type": "string"},
                "id": {"type": "string"},
                "title": {"type": "string"}
            }
        },
        "model.SiteContent": {
            "type": "object",
            "properties": {
                "about": {"$ref": "#/definitions/model.About"},
                "blogs": {"type": "array", "items": {"$ref": "#/definitions/model.BlogPost"}},
                "categories": {"type": "array", "items": {"type": "string"}},
                "experiences": {"type": "array", "items": {"$ref": "#/definitions/model.Experience"}},
                "hero": {"$ref": "#/definitions/model.Hero"},
                "niches": {"type": "array", "items": {"$ref": "#/definitions/model.Niche"}},
                "projects": {"type": "array", "items": {"$ref": "#/definitions/model.Project"}},
                "services": {"type": "array", "items": {"$ref": "#/definitions/model.Service"}},
                "technicalSkills": {"type": "array", "items": {"$ref": "#/definitions/model.SkillCategory"}},
                "testimonials": {"type": "array", "items": {"$ref": "#/definitions/model.Testimonial"}},
                "tracking": {"$ref": "#/definitions/model.Tracking"}
            }
        },
        "model.SkillCategory": {
            "type": "object",
            "properties": {
                "category": {"type": "string"},
                "icon": {"type": "string"},
                "skills": {"type": "array", "items": {"type": "string"}}
            }
        },
        "model.Testimonial": {
            "type": "object",
            "properties": {
                "avatar": {"type": "string"},
                "content": {"type": "string"},
                "id": {"type": "string"},
                "name": {"type": "string"},
                "role": {"type": "string"}
            }
        },
        "model.Tracking": {
            "type": "object",
            "properties": {
                "capiToken": {"type": "string"},
                "pixelId": {"type": "string"},
                "testEventCode": {"type": "string"}
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
	Title:            "Site Content API",
	Description:      "Persistence endpoint for the portfolio site document.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
