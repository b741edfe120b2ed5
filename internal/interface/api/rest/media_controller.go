package rest

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"socialmedia-api/internal/application/ports"
	domain "socialmedia-api/internal/domain/media"
	"socialmedia-api/internal/interface/api/rest/dto/media"
	"socialmedia-api/internal/interface/api/rest/middleware"
	"socialmedia-api/internal/interface/api/rest/validator"
)

type MediaController struct {
	mediaService ports.MediaService
	logger       *zap.Logger
}

func NewMediaController(
	r *gin.Engine,
	mediaService ports.MediaService,
	logger *zap.Logger,
	auth ports.Authenticator,
) *MediaController {
	mc := &MediaController{
		mediaService: mediaService,
		logger:       logger,
	}

	r.POST(RouteMedia, middleware.AuthMiddleware(auth), mc.UploadHandler)
	r.GET(RouteMediaItem, middleware.OptionalAuth(auth), mc.GetMediaHandler)

	return mc
}

func (mc *MediaController) UploadHandler(c *gin.Context) {
	uploader, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	f, err := fh.Open()
	if err != nil {
		respondError(c, mc.logger, "FormFile.Open", "failed to read the file", err)
		return
	}
	defer f.Close()

	m, ttl, err := mc.mediaService.Upload(c.Request.Context(), uploader, ports.Upload{
		FileName: fh.Filename,
		Size:     fh.Size,
		Body:     f,
	})
	if err != nil {
		respondError(c, mc.logger, "Upload", "failed to upload a file", err)
		return
	}

	c.JSON(http.StatusCreated, media.ToResponseUpload(*m, ttl))
}

func (mc *MediaController) GetMediaHandler(c *gin.Context) {
	ok, id := validator.IsUUID(c.Param("media_id"))
	if !ok {
		c.JSON(
			http.StatusBadRequest,
			gin.H{"error": "media_id must be a valid UUID"},
		)
		return
	}

	var viewer *domain.ID
	if uid, ok := middleware.UserID(c); ok {
		viewer = &uid
	}

	m, rc, err := mc.mediaService.Get(c.Request.Context(), id, viewer)
	if err != nil {
		respondError(c, mc.logger, "Get", "failed to get media", err)
		return
	}
	defer rc.Close()

	cache := "private, max-age=300"
	if m.Visibility == domain.VisibilityPublic {
		cache = "public, max-age=86400"
	}
	c.DataFromReader(http.StatusOK, m.SizeBytes, m.MimeType, rc, map[string]string{
		"Content-Disposition": fmt.Sprintf("inline; filename=%q", m.FileName),
		"Cache-Control":       cache,
	})
}
