/**
 * @description
 * Google Cloud Storage uploads for progress photos. Objects are written
 * under a per-user prefix with a random name and served from the bucket's
 * public URL; the caller persists only the returned URL.
 */
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	gcs "cloud.google.com/go/storage"
	"github.com/google/uuid"
)

var ErrUnsupportedImage = errors.New("unsupported image content type")

// extensions maps accepted image content types to object-name extensions.
var extensions = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/webp": "webp",
}

// Uploader stores an image and returns its public URL.
type Uploader interface {
	UploadImage(ctx context.Context, userID string, data []byte, contentType string) (string, error)
}

// GCSUploader implements Uploader on a Cloud Storage bucket.
type GCSUploader struct {
	client *gcs.Client
	bucket string
}

// NewGCSUploader creates an uploader writing to the named bucket.
func NewGCSUploader(client *gcs.Client, bucket string) *GCSUploader {
	return &GCSUploader{client: client, bucket: bucket}
}

// UploadImage writes the image under progress/<userID>/ and returns the
// object's public URL.
func (u *GCSUploader) UploadImage(ctx context.Context, userID string, data []byte, contentType string) (string, error) {
	ext, ok := extensions[contentType]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedImage, contentType)
	}

	object := fmt.Sprintf("progress/%s/%s.%s", userID, uuid.NewString(), ext)
	w := u.client.Bucket(u.bucket).Object(object).NewWriter(ctx)
	w.ContentType = contentType
	w.CacheControl = "public, max-age=86400"

	if _, err := io.Copy(w, bytes.NewReader(data)); err != nil {
		w.Close()
		return "", fmt.Errorf("writing object %s: %w", object, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("finalizing object %s: %w", object, err)
	}

	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", u.bucket, object), nil
}
