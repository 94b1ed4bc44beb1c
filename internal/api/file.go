package api

import (
	"net/http"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"

	"github.com/tilevision/segserve/internal/config"
)

// GetFile serves a stored prediction image. Local storage answers with the
// file on disk; other backends stream the bytes with a detected mime type.
func GetFile(c *gin.Context) {
	filename := c.Param("filename")
	app := appFrom(c)

	storage := app.Storage()
	if storage == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "file storage is not configured"})
		return
	}

	if app.Config().FilesystemType == config.FilesystemLocal {
		path, err := storage.ResolveFile(filename)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "file not found"})
			return
		}

		c.File(path)
		return
	}

	file, err := storage.GetFile(filename)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "file not found"})
		return
	}

	c.Data(http.StatusOK, mimetype.Detect(file.Content).String(), file.Content)
}
