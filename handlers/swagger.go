package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger registers minimal Swagger/OpenAPI endpoints for the API.
// - GET /swagger/index.html  -> a small HTML page that loads the OpenAPI JSON
// - GET /swagger/doc.json    -> machine-readable OpenAPI JSON
func RegisterSwagger(rg *gin.Engine) {
	rg.GET("/swagger/index.html", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, swaggerHTML)
	})

	rg.GET("/swagger/doc.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(swaggerJSON))
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>tasklists-api Swagger UI</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@4/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@4/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/swagger/doc.json',
        dom_id: '#swagger-ui',
      })
    </script>
  </body>
</html>`

const swaggerJSON = `{
  "openapi": "3.0.0",
  "info": { "title": "tasklists-api", "version": "v1.0.0" },
  "components": {
    "securitySchemes": {
      "accessToken": { "type": "apiKey", "in": "header", "name": "x-access-token" },
      "refreshToken": { "type": "apiKey", "in": "header", "name": "x-refresh-token" },
      "userId": { "type": "apiKey", "in": "header", "name": "_id" }
    },
    "schemas": {
      "Credentials": { "type": "object", "required": ["email","password"], "properties": { "email": {"type":"string","format":"email"}, "password": {"type":"string","minLength":8,"maxLength":72} } },
      "User": { "type": "object", "properties": { "_id": {"type":"string"}, "email": {"type":"string"}, "createdAt": {"type":"string"}, "updatedAt": {"type":"string"} } },
      "List": { "type": "object", "properties": { "_id": {"type":"string"}, "title": {"type":"string"}, "_userId": {"type":"string"} } },
      "Task": { "type": "object", "properties": { "_id": {"type":"string"}, "title": {"type":"string"}, "_listId": {"type":"string"}, "completed": {"type":"boolean"} } }
    }
  },
  "paths": {
    "/users": {
      "post": { "summary": "Sign up", "requestBody": { "content": { "application/json": { "schema": {"$ref":"#/components/schemas/Credentials"} } } }, "responses": { "200": { "description": "user; tokens in x-access-token and x-refresh-token headers" }, "400": { "description": "validation failure" } } }
    },
    "/users/login": {
      "post": { "summary": "Log in", "requestBody": { "content": { "application/json": { "schema": {"$ref":"#/components/schemas/Credentials"} } } }, "responses": { "200": { "description": "user; tokens in headers" }, "400": { "description": "bad credentials" } } }
    },
    "/users/me/access-token": {
      "get": { "summary": "Issue a new access token from a refresh session", "security": [{"refreshToken":[],"userId":[]}], "responses": { "200": { "description": "{accessToken}" }, "401": { "description": "session not found or expired" } } }
    },
    "/users/me/logout": {
      "post": { "summary": "Revoke the refresh session", "security": [{"refreshToken":[],"userId":[]}], "responses": { "200": { "description": "logged out" }, "401": { "description": "session not found or expired" } } }
    },
    "/lists": {
      "get": { "summary": "Lists of the caller", "security": [{"accessToken":[]}], "responses": { "200": { "description": "array of List" }, "401": { "description": "invalid access token" } } },
      "post": { "summary": "Create a list", "security": [{"accessToken":[]}], "responses": { "200": { "description": "created List" } } }
    },
    "/lists/{id}": {
      "patch": { "summary": "Update a list title", "security": [{"accessToken":[]}], "responses": { "200": { "description": "{message}" } } },
      "delete": { "summary": "Delete a list and schedule removal of its tasks", "security": [{"accessToken":[]}], "responses": { "200": { "description": "deleted List or null" } } }
    },
    "/lists/{id}/tasks": {
      "get": { "summary": "Tasks of an owned list", "security": [{"accessToken":[]}], "responses": { "200": { "description": "array of Task" }, "404": { "description": "list not owned" } } },
      "post": { "summary": "Create a task", "security": [{"accessToken":[]}], "responses": { "200": { "description": "created Task" }, "404": { "description": "list not owned" } } }
    },
    "/lists/{id}/tasks/{taskId}": {
      "patch": { "summary": "Update title or completed", "security": [{"accessToken":[]}], "responses": { "200": { "description": "{message}" }, "404": { "description": "list not owned" } } },
      "delete": { "summary": "Delete a task", "security": [{"accessToken":[]}], "responses": { "200": { "description": "deleted Task or null" }, "404": { "description": "list not owned" } } }
    }
  }
}`
