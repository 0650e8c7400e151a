package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/devcamper/devcamper/backend/go-services/internal/apperrors"
	"github.com/devcamper/devcamper/backend/go-services/internal/bootcamps"
	"github.com/devcamper/devcamper/backend/go-services/internal/models"
)

type BootcampHandler struct {
	svc *bootcamps.Service
}

func NewBootcampHandler(svc *bootcamps.Service) *BootcampHandler {
	return &BootcampHandler{svc: svc}
}

// List handles GET /bootcamps with filter, select, sort and page parameters.
func (h *BootcampHandler) List(c *gin.Context) {
	page, err := h.svc.List(c.Request.Context(), c.Request.URL.Query())
	if err != nil {
		fail(c, err)
		return
	}
	respondPage(c, http.StatusOK, page)
}

func (h *BootcampHandler) Get(c *gin.Context) {
	b, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, b)
}

func (h *BootcampHandler) Create(c *gin.Context) {
	var b models.Bootcamp
	if !bindJSON(c, &b) {
		return
	}
	created, err := h.svc.Create(c.Request.Context(), &b)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusCreated, created)
}

func (h *BootcampHandler) Update(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		fail(c, apperrors.BadRequest("invalid JSON body"))
		return
	}
	b, err := h.svc.Update(c.Request.Context(), c.Param("id"), body)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, b)
}

func (h *BootcampHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{})
}

// Radius handles GET /bootcamps/radius/:zipcode/:distance?unit=mi|km.
func (h *BootcampHandler) Radius(c *gin.Context) {
	list, err := h.svc.Radius(c.Request.Context(), c.Param("zipcode"), c.Param("distance"), c.Query("unit"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(list), "data": list})
}

// UploadPhoto handles the multipart "file" field of PUT /bootcamps/:id/photo.
func (h *BootcampHandler) UploadPhoto(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		fail(c, apperrors.BadRequest("Please upload a file"))
		return
	}
	f, err := fh.Open()
	if err != nil {
		fail(c, err)
		return
	}
	defer f.Close()

	key, err := h.svc.UploadPhoto(c.Request.Context(), c.Param("id"), bootcamps.Photo{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Body:        f,
	})
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, key)
}

// Photo redirects to a short lived download link.
func (h *BootcampHandler) Photo(c *gin.Context) {
	u, err := h.svc.PhotoURL(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.Redirect(http.StatusTemporaryRedirect, u)
}
