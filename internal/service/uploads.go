package service

import (
	"context"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"portfolio/internal/storage"
)

// Upload kinds, used as the object key prefix.
const (
	KindProject = "projects"
	KindAvatar  = "avatars"
)

// PresignExpiry is the lifetime of links returned by Presign.
const PresignExpiry = 24 * time.Hour

// MediaPath is the public route prefix that serves uploaded objects.
const MediaPath = "/api/media/"

var uploadKinds = []string{KindProject, KindAvatar}

// Upload describes a stored image.
type Upload struct {
	Key         string `json:"key"`
	URL         string `json:"url"`
	Size        int64  `json:"size"`
	ContentType string `json:"contentType"`
}

// UploadService stores project images and the profile avatar in object storage.
type UploadService interface {
	// Upload streams r to object storage under kind/<uuid><ext>.
	Upload(ctx context.Context, kind string, r io.Reader, originalFilename, contentType string, size int64) (*Upload, error)
	// Open returns the content of key.
	Open(ctx context.Context, key string) (io.ReadCloser, storage.ObjectInfo, error)
	// Delete removes key.
	Delete(ctx context.Context, key string) error
	// Presign returns a time-limited direct link to key.
	Presign(ctx context.Context, key string) (string, error)
}

type uploadService struct {
	store storage.Storage
}

// NewUploadService constructs an UploadService.
func NewUploadService(store storage.Storage) UploadService {
	return &uploadService{store: store}
}

func (s *uploadService) Upload(ctx context.Context, kind string, r io.Reader, originalFilename, contentType string, size int64) (*Upload, error) {
	if r == nil {
		return nil, ErrReaderNil
	}
	if !slices.Contains(uploadKinds, kind) {
		return nil, fmt.Errorf("%w %q", ErrInvalidKind, kind)
	}
	if !strings.HasPrefix(contentType, "image/") {
		return nil, fmt.Errorf("%w %q", ErrUnsupported, contentType)
	}

	ext := strings.ToLower(filepath.Ext(originalFilename))
	key := path.Join(kind, uuid.NewString()+ext)

	info, err := s.store.Put(ctx, key, r, storage.PutObjectOptions{
		Size:        size,
		ContentType: contentType,
		Metadata: map[string]string{
			"original-filename": originalFilename,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("upload to storage: %w", err)
	}
	return &Upload{
		Key:         info.Key,
		URL:         MediaPath + info.Key,
		Size:        info.Size,
		ContentType: info.ContentType,
	}, nil
}

func (s *uploadService) Open(ctx context.Context, key string) (io.ReadCloser, storage.ObjectInfo, error) {
	if err := checkKey(key); err != nil {
		return nil, storage.ObjectInfo{}, err
	}
	rc, info, err := s.store.Get(ctx, key)
	if err != nil {
		return nil, storage.ObjectInfo{}, fmt.Errorf("get %s: %w", key, err)
	}
	return rc, info, nil
}

func (s *uploadService) Delete(ctx context.Context, key string) error {
	if err := checkKey(key); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, key); err != nil {
		return fmt.Errorf("delete storage: %w", err)
	}
	return nil
}

func (s *uploadService) Presign(ctx context.Context, key string) (string, error) {
	if err := checkKey(key); err != nil {
		return "", err
	}
	u, err := s.store.PresignGet(ctx, key, PresignExpiry)
	if err != nil {
		return "", fmt.Errorf("presign %s: %w", key, err)
	}
	return u, nil
}

// checkKey accepts only keys produced by Upload.
func checkKey(key string) error {
	if key == "" {
		return ErrIDRequired
	}
	kind, name, found := strings.Cut(key, "/")
	if !found || name == "" || strings.Contains(name, "/") || strings.Contains(key, "..") || !slices.Contains(uploadKinds, kind) {
		return ErrNotFound
	}
	return nil
}
