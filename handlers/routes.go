package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/devcamper/devcamper/backend/go-services/internal/bootcamps"
	"github.com/devcamper/devcamper/backend/go-services/internal/courses"
)

// APIPrefix is the mount point of the versioned API.
const APIPrefix = "/api/v1"

// RegisterRoutes mounts the bootcamp and course endpoints under APIPrefix.
func RegisterRoutes(r gin.IRouter, bs *bootcamps.Service, cs *courses.Service) {
	b := NewBootcampHandler(bs)
	c := NewCourseHandler(cs)
	api := r.Group(APIPrefix)

	camps := api.Group("/bootcamps")
	camps.GET("", b.List)
	camps.POST("", b.Create)
	camps.GET("/radius/:zipcode/:distance", b.Radius)
	camps.GET("/:id", b.Get)
	camps.PUT("/:id", b.Update)
	camps.DELETE("/:id", b.Delete)
	camps.PUT("/:id/photo", b.UploadPhoto)
	camps.GET("/:id/photo", b.Photo)
	camps.GET("/:id/courses", c.List)
	camps.POST("/:id/courses", c.Create)

	crs := api.Group("/courses")
	crs.GET("", c.List)
	crs.POST("", c.Create)
	crs.GET("/:id", c.Get)
	crs.PUT("/:id", c.Update)
	crs.DELETE("/:id", c.Delete)
}
