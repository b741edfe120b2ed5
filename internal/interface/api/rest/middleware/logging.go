package middleware

import (
	"bytes"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"socialmedia-api/internal/infrastructure/metrics"
)

const maxLogBodySize = 1 << 12 // 4 KB

func RequestLogGin(logger *zap.Logger, mCounter *prometheus.CounterVec) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions ||
			c.Request.URL.Path == "/favicon.ico" ||
			strings.HasSuffix(c.Request.URL.Path, "/metrics") {
			c.Next()
			return
		}

		start := time.Now()

		var body string
		if c.Request != nil && c.Request.Body != nil {
			ct := c.GetHeader("Content-Type")
			switch {
			case strings.HasPrefix(ct, "multipart/form-data"):
				body = "<multipart/form-data omitted>"
			case carriesPassword(c.Request):
				body = "<credentials omitted>"
			default:
				var buf bytes.Buffer
				limited := io.LimitReader(c.Request.Body, maxLogBodySize)
				_, _ = io.Copy(&buf, limited)
				body = buf.String()
				c.Request.Body = readCloser{io.MultiReader(bytes.NewReader(buf.Bytes()), c.Request.Body), c.Request.Body}
			}
		}

		c.Next()

		if mCounter != nil {
			mCounter.WithLabelValues(metrics.AppRequests).Inc()
		}

		logger.Info("HTTP request",
			zap.String("method", c.Request.Method),
			zap.String("url", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("body", body),
			zap.String("client_ip", c.ClientIP()),
			zap.String("user_agent", c.Request.UserAgent()),
		)
	}
}

// readCloser replays the logged prefix ahead of the unread body.
type readCloser struct {
	io.Reader
	io.Closer
}

// carriesPassword reports requests whose body holds a plain text password.
func carriesPassword(r *http.Request) bool {
	if r.Method != http.MethodPost {
		return false
	}
	p := strings.TrimSuffix(r.URL.Path, "/")
	return strings.HasSuffix(p, "/auth/login") || strings.HasSuffix(p, "/users")
}
