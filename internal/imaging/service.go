package imaging

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/erazemk/izgubljeno/internal/store"
)

// URLPrefix is the path under which stored images are served.
const URLPrefix = "/api/images/"

// ErrInvalidImage is returned by Store when the upload is not a usable photo.
var ErrInvalidImage = errors.New("invalid image")

// Service stores processed images and returns opaque URLs for them.
// Stored images never change, so reads are cached.
type Service struct {
	blobs store.Images
	cache *expirable.LRU[string, *Processed]
}

// NewService returns a Service backed by blobs with a read cache of
// cacheSize entries kept for ttl.
func NewService(blobs store.Images, cacheSize int, ttl time.Duration) *Service {
	return &Service{
		blobs: blobs,
		cache: expirable.NewLRU[string, *Processed](cacheSize, nil, ttl),
	}
}

// Store processes an upload and returns the URL it can be fetched from.
func (s *Service) Store(ctx context.Context, r io.Reader) (string, error) {
	img, err := Process(r)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidImage, err)
	}

	id := uuid.NewString()
	if err := s.blobs.PutImage(ctx, id, img.Data, img.MIME); err != nil {
		return "", fmt.Errorf("saving image: %w", err)
	}
	s.cache.Add(id, img)
	return URLPrefix + id, nil
}

// Load returns the image with the given id, or nil if there is none.
// It also accepts the full URL returned by Store.
func (s *Service) Load(ctx context.Context, id string) (*Processed, error) {
	id = strings.TrimPrefix(id, URLPrefix)
	if img, ok := s.cache.Get(id); ok {
		return img, nil
	}

	data, mime, err := s.blobs.GetImage(ctx, id)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil
	}

	img := &Processed{Data: data, MIME: mime}
	s.cache.Add(id, img)
	return img, nil
}
