package infra_s3mock

import (
	"context"
	"errors"
	"path"
	"sync"
)

var ErrObjectNotFound = errors.New("object not found")

// Storage is an in-memory archive used when S3 is not configured or unreachable.
type Storage struct {
	prefix string
	data   sync.Map
}

func New(prefix string) *Storage {
	return &Storage{prefix: prefix}
}

func (s *Storage) Save(ctx context.Context, name string, data []byte) (string, error) {
	key := path.Join(s.prefix, path.Base(name))
	buf := make([]byte, len(data))
	copy(buf, data)
	s.data.Store(key, buf)
	return key, nil
}

func (s *Storage) Load(ctx context.Context, key string) ([]byte, error) {
	v, ok := s.data.Load(key)
	if !ok {
		return nil, ErrObjectNotFound
	}
	return v.([]byte), nil
}
