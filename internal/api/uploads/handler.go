package uploads

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"cleaninghq-app/config"
	"cleaninghq-app/internal/domain/sites"
	"cleaninghq-app/internal/store"
)

// 10 MB is plenty for logos, hero shots and reference screenshots.
const maxUploadBytes = 10 << 20

var allowedExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".webp": true,
	".gif":  true,
	".svg":  true,
	".pdf":  true,
}

// Handler stores uploaded files under UPLOAD_DIR and records them as
// website assets. Nothing downstream reads the bytes; the pipeline only
// ever passes the URL around.
type Handler struct {
	Store store.SiteStore
}

func NewHandler(s store.SiteStore) *Handler {
	return &Handler{Store: s}
}

// Upload handles POST /uploads (multipart field "file", optional
// "site_request_id" form value to associate the asset).
func (h *Handler) Upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes)

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedExtensions[ext] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported file type"})
		return
	}

	name := uuid.NewString() + ext
	dst := filepath.Join(config.UPLOAD_DIR, name)
	if err := c.SaveUploadedFile(file, dst); err != nil {
		log.WithError(err).Error("Failed to store uploaded file")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store file"})
		return
	}

	fileURL := "/uploads/" + name

	asset := sites.WebsiteAsset{
		FileURL:  fileURL,
		FileType: strings.TrimPrefix(ext, "."),
	}
	if siteID := c.PostForm("site_request_id"); siteID != "" {
		asset.SiteRequestID = &siteID
	}
	if userID := c.GetUint("user_id"); userID != 0 {
		asset.UserID = &userID
	}
	if err := h.Store.CreateAsset(c.Request.Context(), &asset); err != nil {
		log.WithError(err).Warn("Failed to record website asset")
	}

	c.JSON(http.StatusCreated, gin.H{"file_url": fileURL})
}
