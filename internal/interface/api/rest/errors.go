package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"socialmedia-api/internal/domain/media"
	"socialmedia-api/internal/domain/post"
	"socialmedia-api/internal/domain/user"
)

var errForbidden = errors.New("forbidden")

// statusOf lists domain errors a client may see as-is. Order matters only
// where one error wraps another.
var statusOf = []struct {
	err    error
	status int
}{
	{media.ErrMediaNotFound, http.StatusNotFound},
	{post.ErrPostNotFound, http.StatusNotFound},
	{user.ErrUserNotFound, http.StatusNotFound},
	{media.ErrMediaExpired, http.StatusBadRequest},
	{media.ErrMediaUnavailable, http.StatusBadRequest},
	{media.ErrUnsupportedFormat, http.StatusBadRequest},
	{media.ErrMediaTooLarge, http.StatusBadRequest},
	{post.ErrInvalidPost, http.StatusBadRequest},
	{user.ErrEmailAlreadyExists, http.StatusConflict},
	{user.ErrInvalidCredentials, http.StatusUnauthorized},
	{media.ErrMediaForbidden, http.StatusForbidden},
	{errForbidden, http.StatusForbidden},
}

// respondError writes the client facing form of err. Anything unknown is
// logged and hidden behind fallback.
func respondError(c *gin.Context, logger *zap.Logger, op, fallback string, err error) {
	for _, s := range statusOf {
		if errors.Is(err, s.err) {
			c.JSON(s.status, gin.H{"error": s.err.Error()})
			return
		}
	}

	logger.Error(op+"() error", zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
}

func badRequest(c *gin.Context, details any) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":   "invalid request body",
		"details": details,
	})
}
