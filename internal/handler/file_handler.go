package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Emmanuel10701/katwanyaa-api/internal/models"
	"github.com/Emmanuel10701/katwanyaa-api/internal/service"
	appErrors "github.com/Emmanuel10701/katwanyaa-api/pkg/errors"
	"github.com/Emmanuel10701/katwanyaa-api/pkg/response"
)

// FileHandler exposes the school's downloadable files. Descriptors are built
// from the profile on every request; nothing here is persisted.
type FileHandler struct {
	files  *service.FileService
	school *service.SchoolService
}

// NewFileHandler creates a new handler.
func NewFileHandler(files *service.FileService, school *service.SchoolService) *FileHandler {
	return &FileHandler{files: files, school: school}
}

// List godoc
// @Summary List school files
// @Description List downloadable files with optional search, category and sort
// @Tags Files
// @Produce json
// @Param search query string false "Substring match on name or description"
// @Param category query string false "curriculum|fees|admission|video|exam|additional"
// @Param sort query string false "name|year|size|category"
// @Success 200 {object} response.Envelope
// @Router /files [get]
func (h *FileHandler) List(c *gin.Context) {
	files, err := h.aggregate(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	query := models.FileQuery{
		Search:   c.Query("search"),
		Category: models.FileCategory(c.Query("category")),
		SortBy:   c.Query("sort"),
	}
	filtered := h.files.Query(files, query)
	response.JSON(c, http.StatusOK, filtered, nil, map[string]interface{}{"total": len(filtered)})
}

// Download godoc
// @Summary Download one file
// @Description Stream a single file by descriptor ID; video tours redirect
// @Tags Files
// @Produce octet-stream
// @Param id path string true "Descriptor ID"
// @Success 200 {file} binary
// @Failure 404 {object} response.Envelope
// @Router /files/{id}/download [get]
func (h *FileHandler) Download(c *gin.Context) {
	files, err := h.aggregate(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	id := c.Param("id")
	fd, ok := findFile(files, id)
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("file %q not found", id)))
		return
	}

	payload, err := h.files.Download(c.Request.Context(), fd)
	if err != nil {
		response.Error(c, err)
		return
	}

	if payload.Direct {
		c.Redirect(http.StatusFound, payload.URL)
		return
	}

	contentType := payload.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fd.Name))
	c.Data(http.StatusOK, contentType, payload.Data)
}

// DownloadAll godoc
// @Summary Download all files
// @Description Fetch every matching file in sequence and report per-file outcomes
// @Tags Files
// @Produce json
// @Param category query string false "Restrict to one category"
// @Success 200 {object} response.Envelope
// @Router /files/download-all [post]
func (h *FileHandler) DownloadAll(c *gin.Context) {
	files, err := h.aggregate(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	if category := c.Query("category"); category != "" {
		files = h.files.Query(files, models.FileQuery{Category: models.FileCategory(category)})
	}

	summary := h.files.DownloadAll(c.Request.Context(), files)
	response.JSON(c, http.StatusOK, summary, nil)
}

func (h *FileHandler) aggregate(c *gin.Context) ([]models.FileDescriptor, error) {
	profile, err := h.school.Get(c.Request.Context())
	if err != nil {
		return nil, err
	}
	return h.files.Aggregate(c.Request.Context(), profile), nil
}

func findFile(files []models.FileDescriptor, id string) (models.FileDescriptor, bool) {
	for _, fd := range files {
		if fd.ID == id {
			return fd, true
		}
	}
	return models.FileDescriptor{}, false
}
