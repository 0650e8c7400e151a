package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/devcamper/devcamper/backend/go-services/internal/apperrors"
	"github.com/devcamper/devcamper/backend/go-services/internal/courses"
	"github.com/devcamper/devcamper/backend/go-services/internal/models"
)

type CourseHandler struct {
	svc *courses.Service
}

func NewCourseHandler(svc *courses.Service) *CourseHandler {
	return &CourseHandler{svc: svc}
}

// List serves both GET /courses and GET /bootcamps/:id/courses.
func (h *CourseHandler) List(c *gin.Context) {
	page, err := h.svc.List(c.Request.Context(), c.Param("id"), c.Request.URL.Query())
	if err != nil {
		fail(c, err)
		return
	}
	respondPage(c, http.StatusOK, page)
}

func (h *CourseHandler) Get(c *gin.Context) {
	course, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, course)
}

// Create serves POST /bootcamps/:id/courses, where the path names the
// bootcamp, and POST /courses, where the body does.
func (h *CourseHandler) Create(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		fail(c, apperrors.BadRequest("invalid JSON body"))
		return
	}
	course, err := decodeCourse(body, c.Param("id") != "")
	if err != nil {
		fail(c, err)
		return
	}
	created, err := h.svc.Create(c.Request.Context(), c.Param("id"), course)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusCreated, created)
}

func (h *CourseHandler) Update(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		fail(c, apperrors.BadRequest("invalid JSON body"))
		return
	}
	course, err := h.svc.Update(c.Request.Context(), c.Param("id"), body)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, course)
}

func (h *CourseHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{})
}

// decodeCourse decodes a create body. Under /bootcamps/:id the path names the
// bootcamp and any body value for it is dropped unread.
func decodeCourse(body []byte, nested bool) (*models.Course, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(body, &obj); err != nil || obj == nil {
		return nil, apperrors.BadRequest("invalid JSON body")
	}
	if nested {
		delete(obj, "bootcamp")
		var err error
		if body, err = json.Marshal(obj); err != nil {
			return nil, err
		}
	}
	var course models.Course
	if err := json.Unmarshal(body, &course); err != nil {
		return nil, apperrors.BadRequest("invalid JSON body")
	}
	return &course, nil
}
