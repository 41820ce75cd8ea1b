package handler

import (
	"net/http"
	"path"
	"path/filepath"
	"strings"
	"time"

	"stockdesk/internal/apierror"
	"stockdesk/internal/dto"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const maxImageBytes = 5 << 20

var allowedImageExt = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".webp": true,
}

// UploadsHandler stores product images under dir. Stored files are served
// from /uploads by the router.
type UploadsHandler struct {
	dir string
	now func() time.Time
}

func NewUploadsHandler(dir string) *UploadsHandler {
	return &UploadsHandler{dir: dir, now: time.Now}
}

// Image accepts a multipart "file" field.
func (h *UploadsHandler) Image(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(`multipart field "file" is required`))
		return
	}
	if fh.Size > maxImageBytes {
		c.JSON(http.StatusRequestEntityTooLarge, apierror.New("image exceeds 5 MB"))
		return
	}

	original := filepath.Base(strings.ReplaceAll(fh.Filename, `\`, "/"))
	ext := strings.ToLower(filepath.Ext(original))
	if !allowedImageExt[ext] {
		c.JSON(http.StatusBadRequest, apierror.New("unsupported image type "+ext))
		return
	}

	name := h.now().Format("20060102_150405") + "_" + original
	if err := c.SaveUploadedFile(fh, filepath.Join(h.dir, name)); err != nil {
		_ = c.Error(err)
		return
	}
	log.Info().Str("file", name).Int64("bytes", fh.Size).Msg("image uploaded")

	c.JSON(http.StatusCreated, dto.UploadResponse{
		Path:     path.Join("/uploads", name),
		Filename: name,
	})
}
