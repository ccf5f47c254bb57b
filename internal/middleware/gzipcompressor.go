package middleware

import (
	"net/http"
	"strings"

	"github.com/MrPunder/grouppicker/internal/gzipcomp"
	"github.com/MrPunder/grouppicker/internal/logger"
)

// GzipCompressor is middleware compressor
type GzipCompressor struct {
	log logger.Logger
}

func NewGzipCompressor(log logger.Logger) *GzipCompressor {
	return &GzipCompressor{
		log: log,
	}
}

func (c *GzipCompressor) CompressHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.Header.Get("Content-Encoding"), "gzip") {
			c.log.Debug("Detected gzip request body")

			body, err := gzipcomp.NewGzipCompressReader(r.Body)
			if err != nil {
				c.log.Errorf("Error creating gzip reader: %v", err)
				http.Error(w, "malformed gzip body", http.StatusBadRequest)
				return
			}
			defer body.Close()

			r.Body = body
			r.Header.Del("Content-Encoding")
		}

		supportGzip := false
		for _, value := range r.Header.Values("Accept-Encoding") {
			if strings.Contains(value, "gzip") {
				supportGzip = true
				break
			}
		}

		// QR-коды и прочие бинарные ответы идут как есть
		if !supportGzip {
			next.ServeHTTP(w, r)
			return
		}

		rw := gzipcomp.NewGzipResponseWriter(w)
		next.ServeHTTP(rw, r)

		if err := rw.Flush(rw.Compressible()); err != nil {
			c.log.Errorf("Error writing compressed response: %v", err)
		}
	})
}
