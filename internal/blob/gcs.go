package blob

import (
	"context"
	"fmt"
	"net/url"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
)

const chunkSize = 256 * 1024

// GCSStore writes objects to a Cloud Storage bucket and hands out Firebase
// style download URLs backed by a download token in the object metadata.
type GCSStore struct {
	bucket     *storage.BucketHandle
	bucketName string
}

func NewGCSStore(bucket *storage.BucketHandle, bucketName string) *GCSStore {
	return &GCSStore{bucket: bucket, bucketName: bucketName}
}

func (s *GCSStore) Upload(ctx context.Context, path, contentType string, data []byte) *Upload {
	up := newUpload()
	total := int64(len(data))

	go func() {
		ctx, span := otel.Tracer("officehub/blob").Start(ctx, "GCSStore.Upload")
		defer span.End()

		token := uuid.NewString()
		w := s.bucket.Object(path).NewWriter(ctx)
		w.ContentType = contentType
		w.ChunkSize = chunkSize
		w.Metadata = map[string]string{"firebaseStorageDownloadTokens": token}
		w.ProgressFunc = func(n int64) { up.report(n, total) }

		up.report(0, total)
		if _, err := w.Write(data); err != nil {
			_ = w.Close()
			up.finish("", fmt.Errorf("while writing %s: %w", path, err))
			return
		}
		if err := w.Close(); err != nil {
			up.finish("", fmt.Errorf("while closing writer for %s: %w", path, err))
			return
		}
		up.report(total, total)
		up.finish(s.downloadURL(path, token), nil)
	}()

	return up
}

func (s *GCSStore) Delete(ctx context.Context, path string) error {
	ctx, span := otel.Tracer("officehub/blob").Start(ctx, "GCSStore.Delete")
	defer span.End()

	err := s.bucket.Object(path).Delete(ctx)
	if err == storage.ErrObjectNotExist {
		return nil
	}
	if err != nil {
		return fmt.Errorf("while deleting %s: %w", path, err)
	}
	return nil
}

func (s *GCSStore) downloadURL(path, token string) string {
	return fmt.Sprintf("https://firebasestorage.googleapis.com/v0/b/%s/o/%s?alt=media&token=%s",
		s.bucketName, url.PathEscape(path), token)
}
