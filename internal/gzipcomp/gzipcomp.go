package gzipcomp

import (
	"bytes"
	"compress/gzip"
	"io"
	"net/http"
	"strings"
)

// compressibleTypes типы ответов, которые имеет смысл сжимать
var compressibleTypes = []string{"application/json", "text/html", "text/plain"}

// GzipResponseWriter копит ответ до решения о сжатии
type GzipResponseWriter struct {
	w      http.ResponseWriter
	buffer *bytes.Buffer
	status int
}

func NewGzipResponseWriter(w http.ResponseWriter) *GzipResponseWriter {
	return &GzipResponseWriter{
		w:      w,
		buffer: bytes.NewBuffer(nil),
	}
}

func (rw *GzipResponseWriter) Header() http.Header {
	return rw.w.Header()
}

func (rw *GzipResponseWriter) Write(data []byte) (int, error) {
	if rw.status == 0 {
		rw.status = http.StatusOK
	}
	return rw.buffer.Write(data)
}

func (rw *GzipResponseWriter) WriteHeader(statusCode int) {
	if rw.status == 0 {
		rw.status = statusCode
	}
}

// Compressible можно ли сжать накопленный ответ
func (rw *GzipResponseWriter) Compressible() bool {
	if rw.buffer.Len() == 0 {
		return false
	}
	contentType := rw.w.Header().Get("Content-Type")
	for _, t := range compressibleTypes {
		if strings.HasPrefix(contentType, t) {
			return true
		}
	}
	return false
}

// Flush отправляет накопленный ответ, сжимая его при gzip=true
func (rw *GzipResponseWriter) Flush(gzipped bool) error {
	status := rw.status
	if status == 0 {
		status = http.StatusOK
	}

	if !gzipped {
		rw.w.WriteHeader(status)
		_, err := rw.buffer.WriteTo(rw.w)
		return err
	}

	rw.w.Header().Set("Content-Encoding", "gzip")
	rw.w.Header().Del("Content-Length")
	rw.w.Header().Add("Vary", "Accept-Encoding")
	rw.w.WriteHeader(status)

	zw := gzip.NewWriter(rw.w)
	if _, err := rw.buffer.WriteTo(zw); err != nil {
		return err
	}
	return zw.Close()
}

// GzipCompressReader is Readcloser with gzip decompression
type GzipCompressReader struct {
	io.ReadCloser
	zr *gzip.Reader
}

func NewGzipCompressReader(r io.ReadCloser) (*GzipCompressReader, error) {
	zr, err := gzip.NewReader(r)
	if err != nil {
		return nil, err
	}

	return &GzipCompressReader{
		ReadCloser: r,
		zr:         zr,
	}, nil
}

func (gr *GzipCompressReader) Read(b []byte) (int, error) {
	return gr.zr.Read(b)
}

func (gr *GzipCompressReader) Close() error {
	if err := gr.ReadCloser.Close(); err != nil {
		return err
	}
	return gr.zr.Close()
}
