package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger serves the API description.
// - GET /swagger/index.html  -> Swagger UI loading doc.json
// - GET /swagger/doc.json    -> OpenAPI document
func RegisterSwagger(r gin.IRouter) {
	r.GET("/swagger/index.html", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, swaggerHTML)
	})

	r.GET("/swagger/doc.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(swaggerJSON))
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>DevCamper API - Swagger</title>
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
  "info": { "title": "DevCamper API", "version": "v1" },
  "paths": {
    "/api/v1/bootcamps": {
      "get": { "summary": "List bootcamps (filter with field[gt|gte|lt|lte|in|ne], select, sort, page, limit)", "responses": { "200": { "description": "page of bootcamps" }, "400": { "description": "invalid filter value" } } },
      "post": { "summary": "Create a bootcamp", "responses": { "201": { "description": "created" }, "400": { "description": "validation failed or duplicate name" } } }
    },
    "/api/v1/bootcamps/{id}": {
      "get": { "summary": "Get a bootcamp", "responses": { "200": { "description": "bootcamp" }, "404": { "description": "not found" } } },
      "put": { "summary": "Update a bootcamp (merge)", "responses": { "200": { "description": "updated" }, "404": { "description": "not found" } } },
      "delete": { "summary": "Delete a bootcamp", "responses": { "200": { "description": "deleted" }, "404": { "description": "not found" } } }
    },
    "/api/v1/bootcamps/radius/{zipcode}/{distance}": {
      "get": { "summary": "Bootcamps within distance (unit=mi|km) of a zipcode", "responses": { "200": { "description": "bootcamps" }, "400": { "description": "bad distance or zipcode" } } }
    },
    "/api/v1/bootcamps/{id}/photo": {
      "put": { "summary": "Upload a bootcamp photo (multipart field file)", "responses": { "200": { "description": "object key" }, "400": { "description": "not an image or too large" }, "503": { "description": "storage not configured" } } },
      "get": { "summary": "Redirect to the bootcamp photo", "responses": { "307": { "description": "presigned URL" }, "404": { "description": "no photo" } } }
    },
    "/api/v1/bootcamps/{id}/courses": {
      "get": { "summary": "List a bootcamp's courses", "responses": { "200": { "description": "page of courses" } } },
      "post": { "summary": "Create a course for the bootcamp", "responses": { "201": { "description": "created" }, "404": { "description": "bootcamp not found" } } }
    },
    "/api/v1/courses": {
      "get": { "summary": "List courses with bootcamp summaries", "responses": { "200": { "description": "page of courses" } } },
      "post": { "summary": "Create a course (bootcamp id in body)", "responses": { "201": { "description": "created" }, "404": { "description": "bootcamp not found" } } }
    },
    "/api/v1/courses/{id}": {
      "get": { "summary": "Get a course", "responses": { "200": { "description": "course" }, "404": { "description": "not found" } } },
      "put": { "summary": "Update a course (bootcamp cannot change)", "responses": { "200": { "description": "updated" } } },
      "delete": { "summary": "Delete a course", "responses": { "200": { "description": "deleted" } } }
    },
    "/health": { "get": { "summary": "Liveness check", "responses": { "200": { "description": "healthy" } } } },
    "/ready": { "get": { "summary": "Readiness check", "responses": { "200": { "description": "ready" }, "503": { "description": "not ready" } } } }
  }
}`
