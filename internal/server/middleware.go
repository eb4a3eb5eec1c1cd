package server

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

type contextKey string

const requestIDKey contextKey = "request_id"

const requestIDHeader = "X-Request-ID"

// Middlewares functions works like interceptors for every http request.
// Methods provides ability to stop or propagate request to the chain.
type middleware struct {
	logger *logrus.Logger
}

type MiddlewareDispatcher interface {
	populate() []mux.MiddlewareFunc
}

// Reuses the caller's X-Request-ID or assigns a new one.
func (m *middleware) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))
	})
}

// This method used to check preflight requests
func (m *middleware) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Used for loggin request method, url and execution time.
// Bodies are only logged at debug level.
func (m *middleware) logRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !m.logger.IsLevelEnabled(logrus.InfoLevel) {
			next.ServeHTTP(w, r)
			return
		}
		entry := m.logger.WithField("request_id", requestIDFrom(r.Context()))
		start := time.Now()
		entry.Infof("-> %s %s", r.Method, r.URL)
		if m.logger.IsLevelEnabled(logrus.DebugLevel) && (r.Method == http.MethodPost || r.Method == http.MethodPut) {
			body, _ := io.ReadAll(r.Body)
			entry.Debug("Body: ", string(body))
			r.Body = io.NopCloser(bytes.NewBuffer(body))
		}
		next.ServeHTTP(w, r)
		entry.Infof("<-  %s %s %s", time.Since(start), r.Method, r.URL)
	})
}

func requestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// Method used for providing all middlewares at one place
// Declare all midlwares and add them to return array
func (m *middleware) populate() []mux.MiddlewareFunc {
	return []mux.MiddlewareFunc{
		m.requestID,
		m.logRequest,
		m.cors,
		handlers.CORS(
			handlers.AllowedOrigins([]string{"*"}),
			handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
			handlers.AllowedHeaders([]string{"Content-Type", requestIDHeader}),
		),
	}
}
