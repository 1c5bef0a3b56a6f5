package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/sharein/backend/internal/storage"
)

const thumbnailMaxSide = 200

type ThumbnailService struct {
	Storage storage.ObjectStore
}

func NewThumbnailService(storageClient storage.ObjectStore) *ThumbnailService {
	return &ThumbnailService{Storage: storageClient}
}

// Supports reports whether a preview can be derived from the payload.
func (t *ThumbnailService) Supports(mimeType string) bool {
	return strings.HasPrefix(strings.ToLower(mimeType), "image/")
}

// Generate derives a bounded PNG preview (longest side capped, aspect
// preserved) and uploads it under a sibling key scoped to the owner.
// Returns the object name and its public URL.
func (t *ThumbnailService) Generate(ctx context.Context, data []byte, ownerID uuid.UUID) (string, string, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return "", "", fmt.Errorf("decoding image: %w", err)
	}

	thumb := imaging.Fit(img, thumbnailMaxSide, thumbnailMaxSide, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumb, imaging.PNG); err != nil {
		return "", "", fmt.Errorf("encoding thumbnail: %w", err)
	}

	objectName := fmt.Sprintf("%s/thumbnails/thumb-%s.png", ownerID.String(), uuid.New().String())
	url, err := t.Storage.Upload(ctx, objectName, &buf, int64(buf.Len()), "image/png")
	if err != nil {
		return "", "", err
	}

	return objectName, url, nil
}
