package testsupport

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/url"
	"strings"
	"sync"
	"time"

	"portfolio/pkg/s3"
)

const storageBase = "https://storage.test"

type Object struct {
	ContentType string
	Body        []byte
}

type call struct {
	Op     string
	Bucket string
	Key    string
}

// Storage is an in-memory s3.ItfS3.
type Storage struct {
	mu      sync.Mutex
	objects map[string]Object
	calls   []call

	UploadErr error
	DeleteErr error
}

var _ s3.ItfS3 = (*Storage)(nil)

func NewStorage() *Storage {
	return &Storage{objects: make(map[string]Object)}
}

func objectID(bucket, key string) string {
	return bucket + "/" + key
}

func (s *Storage) record(op, bucket, key string) {
	s.calls = append(s.calls, call{Op: op, Bucket: bucket, Key: key})
}

func (s *Storage) Upload(_ context.Context, bucket, key, contentType string, body io.Reader) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.record("upload", bucket, key)
	if s.UploadErr != nil {
		return s.UploadErr
	}

	b, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	s.objects[objectID(bucket, key)] = Object{ContentType: contentType, Body: b}
	return nil
}

func (s *Storage) Download(_ context.Context, bucket, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.record("download", bucket, key)
	obj, ok := s.objects[objectID(bucket, key)]
	if !ok {
		return nil, s3.ErrObjectNotFound
	}
	return bytes.Clone(obj.Body), nil
}

func (s *Storage) Delete(_ context.Context, bucket, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.record("delete", bucket, key)
	if s.DeleteErr != nil {
		return s.DeleteErr
	}
	if _, ok := s.objects[objectID(bucket, key)]; !ok {
		return s3.ErrObjectNotFound
	}
	delete(s.objects, objectID(bucket, key))
	return nil
}

func (s *Storage) PresignURL(_ context.Context, bucket, key string, ttl time.Duration) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.record("presign", bucket, key)
	if _, ok := s.objects[objectID(bucket, key)]; !ok {
		return "", s3.ErrObjectNotFound
	}
	return s.PublicURL(bucket, key) + "?expires=" + ttl.String(), nil
}

func (s *Storage) PublicURL(bucket, key string) string {
	return storageBase + "/" + bucket + "/" + url.PathEscape(key)
}

func (s *Storage) KeyFromURL(bucket, publicURL string) (string, bool) {
	prefix := storageBase + "/" + bucket + "/"
	if !strings.HasPrefix(publicURL, prefix) {
		return "", false
	}
	key, err := url.PathUnescape(strings.TrimPrefix(publicURL, prefix))
	if err != nil || key == "" {
		return "", false
	}
	return key, true
}

// Put seeds an object directly.
func (s *Storage) Put(bucket, key string, body []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[objectID(bucket, key)] = Object{ContentType: "application/octet-stream", Body: body}
}

func (s *Storage) Has(bucket, key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.objects[objectID(bucket, key)]
	return ok
}

func (s *Storage) Get(bucket, key string) (Object, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	obj, ok := s.objects[objectID(bucket, key)]
	return obj, ok
}

func (s *Storage) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects)
}

// Calls counts recorded operations of the given kind ("upload", "download", "delete").
func (s *Storage) Calls(op string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, c := range s.calls {
		if c.Op == op {
			n++
		}
	}
	return n
}

var ErrStorageDown = errors.New("storage unavailable")
