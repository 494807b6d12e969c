package infra_s3mock

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
)

// Server speaks the path-style subset of the S3 API the replay archive
// needs, keeping buckets and objects in memory.
type Server struct {
	mu      sync.RWMutex
	buckets map[string]bool
	objects map[string][]byte
	logger  *slog.Logger
}

func NewServer(logger *slog.Logger) *Server {
	return &Server{
		buckets: make(map[string]bool),
		objects: make(map[string][]byte),
		logger:  logger,
	}
}

func (m *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	bucket, key := extractBucketAndKey(r.URL.Path)
	if bucket == "" {
		http.Error(w, "Bucket name required", http.StatusBadRequest)
		return
	}

	if key == "" {
		switch r.Method {
		case http.MethodHead:
			m.headBucket(w, bucket)
		case http.MethodPut:
			m.createBucket(w, bucket)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
		return
	}

	switch r.Method {
	case http.MethodHead:
		m.headObject(w, bucket, key)
	case http.MethodGet:
		m.getObject(w, bucket, key)
	case http.MethodPut:
		m.putObject(w, r, bucket, key)
	case http.MethodDelete:
		m.deleteObject(w, bucket, key)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// Object returns a stored object.
func (m *Server) Object(bucket, key string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.objects[objectKey(bucket, key)]
	return data, ok
}

func (m *Server) HasBucket(bucket string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.buckets[bucket]
}

func extractBucketAndKey(path string) (string, string) {
	parts := strings.SplitN(strings.TrimPrefix(path, "/"), "/", 2)
	if len(parts) == 1 {
		return parts[0], ""
	}
	return parts[0], parts[1]
}

func objectKey(bucket, key string) string {
	return fmt.Sprintf("%s/%s", bucket, key)
}

func (m *Server) headBucket(w http.ResponseWriter, bucket string) {
	if !m.HasBucket(bucket) {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (m *Server) createBucket(w http.ResponseWriter, bucket string) {
	m.mu.Lock()
	m.buckets[bucket] = true
	m.mu.Unlock()

	m.logger.Info("bucket created", "bucket", bucket)
	w.WriteHeader(http.StatusOK)
}

func (m *Server) headObject(w http.ResponseWriter, bucket, key string) {
	if _, ok := m.Object(bucket, key); !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (m *Server) getObject(w http.ResponseWriter, bucket, key string) {
	data, ok := m.Object(bucket, key)
	if !ok {
		writeError(w, http.StatusNotFound, "NoSuchKey", "The specified key does not exist.")
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (m *Server) putObject(w http.ResponseWriter, r *http.Request, bucket, key string) {
	if !m.HasBucket(bucket) {
		writeError(w, http.StatusNotFound, "NoSuchBucket", "The specified bucket does not exist.")
		return
	}

	data, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "IncompleteBody", err.Error())
		return
	}

	m.mu.Lock()
	m.objects[objectKey(bucket, key)] = data
	m.mu.Unlock()

	m.logger.Debug("object stored", "bucket", bucket, "key", key, "bytes", len(data))
	w.Header().Set("ETag", `"mock"`)
	w.WriteHeader(http.StatusOK)
}

func (m *Server) deleteObject(w http.ResponseWriter, bucket, key string) {
	m.mu.Lock()
	delete(m.objects, objectKey(bucket, key))
	m.mu.Unlock()

	w.WriteHeader(http.StatusNoContent)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/xml")
	w.WriteHeader(status)
	fmt.Fprintf(w, `<?xml version="1.0" encoding="UTF-8"?><Error><Code>%s</Code><Message>%s</Message></Error>`, code, message)
}
