// Package docs holds the Swagger 2.0 document served under /swagger. It
// mirrors the handler annotations; regenerate it with
// swag init -g cmd/server/main.go -o docs after changing a route.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "API Support"
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
        "/admins": {
            "get": {
                "security": [
                    {
                        "Bearer": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "users"
                ],
                "summary": "List admins",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/models.User"
                            }
                        }
                    },
                    "403": {
                        "description": "Forbidden",
                        "schema": {
                            "$ref": "#/definitions/models.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/admins/{id}": {
            "get": {
                "security": [
                    {
                        "Bearer": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "users"
                ],
                "summary": "Get one admin",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Admin ID (UUID)",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/models.User"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/models.ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/models.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/assist-request": {
            "post": {
                "security": [
                    {
                        "Bearer": []
                    }
                ],
                "description": "userId defaults to the authenticated user.",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "assist-requests"
                ],
                "summary": "File an assist request",
                "parameters": [
                    {
                        "description": "Assist request",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/models.CreateAssistRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/models.AssistRequest"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/models.ErrorResponse"
                        }
                    },
                    "500": {
                        "description": "Internal Server Error",
                        "schema": {
                            "$ref": "#/definitions/models.ErrorResponse"
                        }
                    }
                }
            },
            "get": {
                "security": [
                    {
                        "Bearer": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "assist-requests"
                ],
                "summary": "List every assist request with its client's name",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/models.AssistRequestWithClient"
                            }
                        }
                    },
                    "403": {
                        "description": "Forbidden",
                        "schema": {
                            "$ref": "#/definitions/models.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/assist-request/pay/{id}": {
            "post": {
                "security": [
                    {
                        "Bearer": []
                    }
                ],
                "description": "Owner only. Stores the payment type and transaction id. paymentStatus stays Pending until an admin confirms.",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "assist-requests"
                ],
                "summary": "Submit a payment reference",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Assist request ID (UUID)",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Payment",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/models.PayAssistRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/models.AssistRequest"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/models.ErrorResponse"
                        }
                    },
                    "403": {
                        "description": "Forbidden",
                        "schema": {
                            "$ref": "#/definitions/models.ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/models.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/assist-request/user/{userId}": {
            "get": {
                "security": [
                    {
                        "Bearer": []
                    }
                ],
                "description": "Only the user themselves or an admin.",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "assist-requests"
                ],
                "summary": "List a user's assist requests",
                "parameters": [
                    {
                        "type": "string",
                        "description": "User ID (UUID)",
                        "name": "userId",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/models.AssistRequest"
                            }
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/models.ErrorResponse"
                        }
                    },
                    "403": {
                        "description": "Forbidden",
                        "schema": {
                            "$ref": "#/definitions/models.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/assist-request/{id}": {
            "put": {
                "security": [
                    {
                        "Bearer": []
                    }
                ],
                "description": "Every provided field is validated before any change is applied.",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "assist-requests"
                ],
                "summary": "Update an assist request",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Assist request ID (UUID)",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Fields to change",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/models.UpdateAssistRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/models.AssistRequest"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/models.ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/models.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/assist-request/{id}/feedback": {
            "put": {
                "security": [
                    {
                        "Bearer": []
                    }
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "assist-requests"
                ],
                "summary": "Rate a completed assist request",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Assist request ID (UUID)",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Feedback and rating",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/models.FeedbackRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/models.AssistRequest"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/models.ErrorResponse"
                        }
                    },
                    "403": {
                        "description": "Forbidden",
                        "schema": {
                            "$ref": "#/definitions/models.ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/models.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/auth/google-login": {
            "post": {
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "auth"
                ],
                "summary": "Log in with a Google access token",
                "parameters": [
                    {
                        "description": "Access token",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/models.GoogleAuthRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/models.AuthResponse"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/models.ErrorResponse"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/models.ErrorResponse"
                        }
                    },
                    "503": {
                        "description": "Service Unavailable",
                        "schema": {
                            "$ref": "#/definitions/models.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/auth/google-signup": {
            "post": {
                "description": "The token is a Supabase session token from the Google provider.",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "auth"
                ],
                "summary": "Register a client with a Google access token",
                "parameters": [
                    {
                        "description": "Access token and profile",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/models.GoogleAuthRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/models.AuthResponse"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/models.ErrorResponse"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/models.ErrorResponse"
                        }
                    },
                    "503": {
                        "description": "Service Unavailable",
                        "schema": {
                            "$ref": "#/definitions/models.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/auth/login": {
            "post": {
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "auth"
                ],
                "summary": "Log in with email and password",
                "parameters": [
                    {
                        "description": "Credentials",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/models.LoginRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/models.AuthResponse"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/models.ErrorResponse"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/models.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/auth/signup": {
            "post": {
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "auth"
                ],
                "summary": "Register a client",
                "parameters": [
                    {
                        "description": "Account details",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/models.SignupRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/models.AuthResponse"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/models.ErrorResponse"
                        }
                    },
                    "500": {
                        "description": "Internal Server Error",
                        "schema": {
                            "$ref": "#/definitions/models.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/dashboard": {
            "get": {
                "security": [
                    {
                        "Bearer": []
                    }
                ],
                "description": "Total projects, projects awaiting payment and total clients.",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "dashboard"
                ],
                "summary": "Dashboard counts",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/models.DashboardStats"
                        }
                    },
                    "500": {
                        "description": "Internal Server Error",
                        "schema": {
                            "$ref": "#/definitions/models.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/health": {
            "get": {
                "description": "Returns the health status of the API and its database",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "health"
                ],
                "summary": "Health check",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/models.HealthResponse"
                        }
                    },
                    "503": {
                        "description": "Service Unavailable",
                        "schema": {
                            "$ref": "#/definitions/models.HealthResponse"
                        }
                    }
                }
            }
        },
        "/project/all": {
            "get": {
                "security": [
                    {
                        "Bearer": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "projects"
                ],
                "summary": "List all projects",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/models.ProjectSummary"
                            }
                        }
                    },
                    "500": {
                        "description": "Internal Server Error",
                        "schema": {
                            "$ref": "#/definitions/models.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/project/assigned/{userId}": {
            "get": {
                "security": [
                    {
                        "Bearer": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "projects"
                ],
                "summary": "List projects a developer is assigned to",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Developer user ID (UUID)",
                        "name": "userId",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/models.Project"
                            }
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/models.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/project/{id}": {
            "get": {
                "security": [
                    {
                        "Bearer": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "projects"
                ],
                "summary": "Get a project",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Project ID (UUID)",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/models.Project"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/models.ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/models.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/project/{id}/assignments": {
            "get": {
                "security": [
                    {
                        "Bearer": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "projects"
                ],
                "summary": "List a project's assignment rows",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Project ID (UUID)",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/models.AssignmentsResponse"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/models.ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/models.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/project/{id}/developers": {
            "put": {
                "security": [
                    {
                        "Bearer": []
                    }
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "projects"
                ],
                "summary": "Replace a project's developers",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Project ID (UUID)",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Developer IDs",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/models.AssignDevelopersRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/models.ProjectResponse"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/models.ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/models.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/project/{id}/snapshots": {
            "post": {
                "security": [
                    {
                        "Bearer": []
                    }
                ],
                "description": "Stores each image in object storage and appends its public URL to the project.",
                "consumes": [
                    "multipart/form-data"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "projects"
                ],
                "summary": "Upload project snapshots",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Project ID (UUID)",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "type": "file",
                        "description": "Images (multiple files allowed)",
                        "name": "images",
                        "in": "formData",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/models.SnapshotsResponse"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/models.ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/models.ErrorResponse"
                        }
                    },
                    "503": {
                        "description": "Service Unavailable",
                        "schema": {
                            "$ref": "#/definitions/models.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/project/{id}/status": {
            "put": {
                "security": [
                    {
                        "Bearer": []
                    }
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "projects"
                ],
                "summary": "Update a project's status, source or payment",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Project ID (UUID)",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Fields to change",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/models.UpdateProjectRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/models.ProjectResponse"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/models.ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/models.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/request": {
            "post": {
                "security": [
                    {
                        "Bearer": []
                    }
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "project-requests"
                ],
                "summary": "Submit a project request",
                "parameters": [
                    {
                        "description": "Project request",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/models.SubmitProjectRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/models.SubmitProjectResponse"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/models.ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/models.ErrorResponse"
                        }
                    },
                    "500": {
                        "description": "Internal Server Error",
                        "schema": {
                            "$ref": "#/definitions/models.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/request/requests/admin": {
            "get": {
                "security": [
                    {
                        "Bearer": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "project-requests"
                ],
                "summary": "List every project request",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/models.ProjectRequest"
                            }
                        }
                    },
                    "403": {
                        "description": "Forbidden",
                        "schema": {
                            "$ref": "#/definitions/models.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/request/status/{token}": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "project-requests"
                ],
                "summary": "Look up a project request by its status token",
                "parameters": [
                    {
                        "type": "string",
                        "description": "projectStatusUrl token",
                        "name": "token",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/models.ProjectRequest"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/models.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/request/{id}": {
            "get": {
                "security": [
                    {
                        "Bearer": []
                    }
                ],
                "description": "Newest first. Only the client themselves or an admin.",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "project-requests"
                ],
                "summary": "List a client's project requests",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Client ID (UUID)",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/models.ProjectRequest"
                            }
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/models.ErrorResponse"
                        }
                    },
                    "403": {
                        "description": "Forbidden",
                        "schema": {
                            "$ref": "#/definitions/models.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/request/{id}/approve": {
            "put": {
                "security": [
                    {
                        "Bearer": []
                    }
                ],
                "description": "Prices the request, assigns developers and creates the project.",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "project-requests"
                ],
                "summary": "Approve a project request",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Project request ID (UUID)",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Developers and price",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/models.ApproveProjectRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/models.ApproveProjectResponse"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/models.ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/models.ErrorResponse"
                        }
                    },
                    "500": {
                        "description": "Internal Server Error",
                        "schema": {
                            "$ref": "#/definitions/models.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/request/{id}/reject": {
            "put": {
                "security": [
                    {
                        "Bearer": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "project-requests"
                ],
                "summary": "Reject a pending project request",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Project request ID (UUID)",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/models.ProjectRequestResponse"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/models.ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/models.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/user/all": {
            "get": {
                "security": [
                    {
                        "Bearer": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "users"
                ],
                "summary": "List clients",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/models.User"
                            }
                        }
                    },
                    "403": {
                        "description": "Forbidden",
                        "schema": {
                            "$ref": "#/definitions/models.ErrorResponse"
                        }
                    }
                }
            }
        }
    },
    "definitions": {
        "models.ApproveProjectRequest": {
            "type": "object",
            "properties": {
                "developers": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                },
                "price": {
                    "type": "number",
                    "example": 1500
                }
            }
        },
        "models.ApproveProjectResponse": {
            "type": "object",
            "properties": {
                "message": {
                    "type": "string"
                },
                "project": {
                    "$ref": "#/definitions/models.Project"
                },
                "request": {
                    "$ref": "#/definitions/models.ProjectRequest"
                }
            }
        },
        "models.AssignDevelopersRequest": {
            "type": "object",
            "properties": {
                "developers": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                }
            }
        },
        "models.Assignment": {
            "type": "object",
            "properties": {
                "_id": {
                    "type": "string"
                },
                "assignedAt": {
                    "type": "string"
                },
                "developerId": {
                    "type": "string"
                },
                "projectId": {
                    "type": "string"
                },
                "status": {
                    "$ref": "#/definitions/models.AssignmentStatus"
                }
            }
        },
        "models.AssignmentStatus": {
            "type": "string",
            "enum": [
                "active",
                "completed",
                "on_hold"
            ],
            "x-enum-varnames": [
                "AssignmentActive",
                "AssignmentCompleted",
                "AssignmentOnHold"
            ]
        },
        "models.AssignmentsResponse": {
            "type": "object",
            "properties": {
                "assignments": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/models.Assignment"
                    }
                },
                "projectId": {
                    "type": "string"
                }
            }
        },
        "models.AssistRequest": {
            "type": "object",
            "properties": {
                "_id": {
                    "type": "string"
                },
                "amount": {
                    "type": "number"
                },
                "assistStatus": {
                    "$ref": "#/definitions/models.AssistStatus"
                },
                "createdAt": {
                    "type": "string"
                },
                "developerName": {
                    "type": "string"
                },
                "developerPhone": {
                    "type": "string"
                },
                "feedback": {
                    "type": "string"
                },
                "paymentQrCode": {
                    "type": "string"
                },
                "paymentStatus": {
                    "$ref": "#/definitions/models.PaymentStatus"
                },
                "paymentType": {
                    "$ref": "#/definitions/models.PaymentType"
                },
                "projectName": {
                    "type": "string"
                },
                "projectTechnologies": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                },
                "projectType": {
                    "$ref": "#/definitions/models.ProjectType"
                },
                "rating": {
                    "type": "integer"
                },
                "requestStatus": {
                    "$ref": "#/definitions/models.AssistRequestStatus"
                },
                "transactionId": {
                    "type": "string"
                },
                "updatedAt": {
                    "type": "string"
                },
                "userId": {
                    "type": "string"
                }
            }
        },
        "models.AssistRequestStatus": {
            "type": "string",
            "enum": [
                "Pending",
                "Reviewing",
                "Approved",
                "Declined"
            ],
            "x-enum-varnames": [
                "AssistRequestPending",
                "AssistRequestReviewing",
                "AssistRequestApproved",
                "AssistRequestDeclined"
            ]
        },
        "models.AssistRequestWithClient": {
            "type": "object",
            "properties": {
                "_id": {
                    "type": "string"
                },
                "amount": {
                    "type": "number"
                },
                "assistStatus": {
                    "$ref": "#/definitions/models.AssistStatus"
                },
                "clientName": {
                    "type": "string"
                },
                "createdAt": {
                    "type": "string"
                },
                "developerName": {
                    "type": "string"
                },
                "developerPhone": {
                    "type": "string"
                },
                "feedback": {
                    "type": "string"
                },
                "paymentQrCode": {
                    "type": "string"
                },
                "paymentStatus": {
                    "$ref": "#/definitions/models.PaymentStatus"
                },
                "paymentType": {
                    "$ref": "#/definitions/models.PaymentType"
                },
                "projectName": {
                    "type": "string"
                },
                "projectTechnologies": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                },
                "projectType": {
                    "$ref": "#/definitions/models.ProjectType"
                },
                "rating": {
                    "type": "integer"
                },
                "requestStatus": {
                    "$ref": "#/definitions/models.AssistRequestStatus"
                },
                "transactionId": {
                    "type": "string"
                },
                "updatedAt": {
                    "type": "string"
                },
                "userId": {
                    "type": "string"
                }
            }
        },
        "models.AssistStatus": {
            "type": "string",
            "enum": [
                "Pending",
                "In Progress",
                "Completed"
            ],
            "x-enum-varnames": [
                "AssistPending",
                "AssistInProgress",
                "AssistCompleted"
            ]
        },
        "models.AuthResponse": {
            "type": "object",
            "properties": {
                "token": {
                    "type": "string"
                },
                "user": {
                    "$ref": "#/definitions/models.User"
                }
            }
        },
        "models.CreateAssistRequest": {
            "type": "object",
            "properties": {
                "projectName": {
                    "type": "string",
                    "example": "Shop"
                },
                "projectTechnologies": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                },
                "projectType": {
                    "type": "string",
                    "example": "Web"
                },
                "userId": {
                    "type": "string"
                }
            }
        },
        "models.DashboardStats": {
            "type": "object",
            "properties": {
                "pendingPayments": {
                    "type": "integer"
                },
                "totalClients": {
                    "type": "integer"
                },
                "totalProjects": {
                    "type": "integer"
                }
            }
        },
        "models.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {
                    "type": "string"
                },
                "message": {
                    "type": "string"
                }
            }
        },
        "models.FeedbackRequest": {
            "type": "object",
            "properties": {
                "feedback": {
                    "type": "string"
                },
                "rating": {
                    "type": "integer",
                    "example": 5
                }
            }
        },
        "models.GoogleAuthRequest": {
            "type": "object",
            "required": [
                "accessToken"
            ],
            "properties": {
                "accessToken": {
                    "type": "string"
                },
                "howHeard": {
                    "type": "string"
                },
                "occupation": {
                    "type": "string"
                },
                "phone": {
                    "type": "string"
                }
            }
        },
        "models.HealthResponse": {
            "type": "object",
            "properties": {
                "status": {
                    "type": "string"
                }
            }
        },
        "models.LoginRequest": {
            "type": "object",
            "required": [
                "email",
                "password"
            ],
            "properties": {
                "email": {
                    "type": "string"
                },
                "password": {
                    "type": "string"
                }
            }
        },
        "models.PayAssistRequest": {
            "type": "object",
            "properties": {
                "paymentType": {
                    "type": "string",
                    "example": "Google Pay"
                },
                "transactionId": {
                    "type": "string",
                    "example": "tx123"
                }
            }
        },
        "models.PaymentStatus": {
            "type": "string",
            "enum": [
                "Pending",
                "Paid"
            ],
            "x-enum-varnames": [
                "PaymentPending",
                "PaymentPaid"
            ]
        },
        "models.PaymentType": {
            "type": "string",
            "enum": [
                "Google Pay",
                "Razorpay"
            ],
            "x-enum-varnames": [
                "PaymentGooglePay",
                "PaymentRazorpay"
            ]
        },
        "models.Project": {
            "type": "object",
            "properties": {
                "_id": {
                    "type": "string"
                },
                "clientId": {
                    "type": "string"
                },
                "clientName": {
                    "type": "string"
                },
                "createdAt": {
                    "type": "string"
                },
                "developers": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                },
                "paymentStatus": {
                    "type": "boolean"
                },
                "paymentTransactionId": {
                    "type": "string"
                },
                "price": {
                    "type": "number"
                },
                "projectDescription": {
                    "type": "string"
                },
                "projectSource": {
                    "type": "string"
                },
                "projectStatus": {
                    "$ref": "#/definitions/models.ProjectStatus"
                },
                "projectTitle": {
                    "type": "string"
                },
                "snapshots": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                },
                "updatedAt": {
                    "type": "string"
                }
            }
        },
        "models.ProjectRequest": {
            "type": "object",
            "properties": {
                "_id": {
                    "type": "string"
                },
                "clientEmail": {
                    "type": "string"
                },
                "clientId": {
                    "type": "string"
                },
                "clientName": {
                    "type": "string"
                },
                "clientPhone": {
                    "type": "string"
                },
                "createdAt": {
                    "type": "string"
                },
                "developers": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                },
                "price": {
                    "type": "number"
                },
                "projectDescription": {
                    "type": "string"
                },
                "projectStatusUrl": {
                    "type": "string"
                },
                "projectTitle": {
                    "type": "string"
                },
                "registeredId": {
                    "type": "string"
                },
                "requestStatus": {
                    "$ref": "#/definitions/models.RequestStatus"
                },
                "updatedAt": {
                    "type": "string"
                }
            }
        },
        "models.ProjectRequestResponse": {
            "type": "object",
            "properties": {
                "message": {
                    "type": "string"
                },
                "request": {
                    "$ref": "#/definitions/models.ProjectRequest"
                }
            }
        },
        "models.ProjectResponse": {
            "type": "object",
            "properties": {
                "message": {
                    "type": "string"
                },
                "project": {
                    "$ref": "#/definitions/models.Project"
                }
            }
        },
        "models.ProjectStatus": {
            "type": "string",
            "enum": [
                "Pending",
                "In Progress",
                "Completed",
                "On Hold",
                "Cancelled"
            ],
            "x-enum-varnames": [
                "ProjectPending",
                "ProjectInProgress",
                "ProjectCompleted",
                "ProjectOnHold",
                "ProjectCancelled"
            ]
        },
        "models.ProjectSummary": {
            "type": "object",
            "properties": {
                "clientName": {
                    "type": "string"
                },
                "createdAt": {
                    "type": "string"
                },
                "developers": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                },
                "paymentStatus": {
                    "type": "boolean"
                },
                "price": {
                    "type": "number"
                },
                "projectId": {
                    "type": "string"
                },
                "projectTitle": {
                    "type": "string"
                },
                "status": {
                    "$ref": "#/definitions/models.ProjectStatus"
                }
            }
        },
        "models.ProjectType": {
            "type": "string",
            "enum": [
                "Mobile",
                "Desktop",
                "Web"
            ],
            "x-enum-varnames": [
                "ProjectTypeMobile",
                "ProjectTypeDesktop",
                "ProjectTypeWeb"
            ]
        },
        "models.RequestStatus": {
            "type": "string",
            "enum": [
                "Pending",
                "Approved",
                "Rejected"
            ],
            "x-enum-varnames": [
                "RequestPending",
                "RequestApproved",
                "RequestRejected"
            ]
        },
        "models.Role": {
            "type": "string",
            "enum": [
                "client",
                "admin"
            ],
            "x-enum-varnames": [
                "RoleClient",
                "RoleAdmin"
            ]
        },
        "models.SignupRequest": {
            "type": "object",
            "required": [
                "name",
                "email",
                "password"
            ],
            "properties": {
                "email": {
                    "type": "string",
                    "example": "jane@example.com"
                },
                "howHeard": {
                    "type": "string"
                },
                "name": {
                    "type": "string",
                    "example": "Jane Doe"
                },
                "occupation": {
                    "type": "string"
                },
                "password": {
                    "type": "string"
                },
                "phone": {
                    "type": "string"
                }
            }
        },
        "models.SnapshotsResponse": {
            "type": "object",
            "properties": {
                "errors": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                },
                "projectId": {
                    "type": "string"
                },
                "snapshots": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                }
            }
        },
        "models.SubmitProjectRequest": {
            "type": "object",
            "properties": {
                "clientId": {
                    "type": "string",
                    "example": "6f1c2d3e-0000-0000-0000-000000000000"
                },
                "projectDescription": {
                    "type": "string"
                },
                "projectTitle": {
                    "type": "string",
                    "example": "Inventory app"
                }
            }
        },
        "models.SubmitProjectResponse": {
            "type": "object",
            "properties": {
                "message": {
                    "type": "string"
                },
                "projectStatusUrl": {
                    "type": "string"
                },
                "requestId": {
                    "type": "string"
                }
            }
        },
        "models.UpdateAssistRequest": {
            "type": "object",
            "properties": {
                "amount": {
                    "type": "number",
                    "example": 500
                },
                "assistStatus": {
                    "type": "string"
                },
                "developerName": {
                    "type": "string"
                },
                "developerPhone": {
                    "type": "string",
                    "example": "9876543210"
                },
                "paymentQrCode": {
                    "type": "string"
                },
                "paymentStatus": {
                    "type": "string"
                },
                "requestStatus": {
                    "type": "string",
                    "example": "Approved"
                }
            }
        },
        "models.UpdateProjectRequest": {
            "type": "object",
            "properties": {
                "paymentStatus": {
                    "type": "boolean"
                },
                "paymentTransactionId": {
                    "type": "string"
                },
                "projectSource": {
                    "type": "string"
                },
                "projectStatus": {
                    "type": "string",
                    "example": "In Progress"
                }
            }
        },
        "models.User": {
            "type": "object",
            "properties": {
                "_id": {
                    "type": "string"
                },
                "createdAt": {
                    "type": "string"
                },
                "email": {
                    "type": "string"
                },
                "googleId": {
                    "type": "string"
                },
                "howHeard": {
                    "type": "string"
                },
                "name": {
                    "type": "string"
                },
                "occupation": {
                    "type": "string"
                },
                "phone": {
                    "type": "string"
                },
                "role": {
                    "$ref": "#/definitions/models.Role"
                }
            }
        }
    },
    "securityDefinitions": {
        "Bearer": {
            "description": "Type \"Bearer\" followed by a space and JWT token.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0.0",
	Host:             "localhost:5000",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "Agency Desk API",
	Description:      "Backend API for a software-services agency. Clients submit project and assist requests; admins approve, price and staff them and track payment.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
