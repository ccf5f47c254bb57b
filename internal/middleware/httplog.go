package middleware

import (
	"net/http"
	"time"

	"github.com/MrPunder/grouppicker/internal/logger"
	"github.com/google/uuid"
)

// RequestIDHeader заголовок с id запроса; берётся из запроса или генерируется
const RequestIDHeader = "X-Request-ID"

// httpLogger is logger interface for middleware logger
type httpLogger interface {
	logger.Logger
	RequestLog(requestID string, method string, path string)
	ResponseLog(requestID string, status int, size int, duration time.Duration)
}

type responseData struct {
	status int
	size   int
}

type HTTPLogger struct {
	log httpLogger
}

func NewHTTPLoger(logger httpLogger) *HTTPLogger {
	return &HTTPLogger{logger}
}

// loggingResponseWriter allows use ResponnseWriter and stores information to log
type loggingResponseWriter struct {
	http.ResponseWriter
	responseData *responseData
}

func (r *loggingResponseWriter) Write(b []byte) (int, error) {
	size, err := r.ResponseWriter.Write(b)
	r.responseData.size += size
	if r.responseData.status == 0 {
		r.responseData.status = http.StatusOK
	}
	return size, err
}

func (r *loggingResponseWriter) WriteHeader(statusCode int) {
	r.responseData.status = statusCode
	r.ResponseWriter.WriteHeader(statusCode)
}

func (l *HTTPLogger) HTTPLogHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(RequestIDHeader)
		if _, err := uuid.Parse(requestID); err != nil {
			requestID = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, requestID)

		l.log.RequestLog(requestID, r.Method, r.RequestURI)

		start := time.Now()
		resD := &responseData{}
		lw := &loggingResponseWriter{
			ResponseWriter: w,
			responseData:   resD,
		}

		next.ServeHTTP(lw, r)

		l.log.ResponseLog(requestID, resD.status, resD.size, time.Since(start))
	})
}
