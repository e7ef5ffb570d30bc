package storage

import "context"

// ObjectInfo represents metadata for a remote file/object.
type ObjectInfo struct {
	Key  string `json:"key"`
	Size int64  `json:"size"`
}

// ObjectStorage captures the minimal S3-compatible operations the ingestion
// path needs for raw-file archival.
type ObjectStorage interface {
	UploadObject(ctx context.Context, key string, data []byte, contentType string) error
	ListObjects(ctx context.Context, prefix string) ([]ObjectInfo, error)
}

// NoopStorage discards everything; used when archival is not configured.
type NoopStorage struct{}

func (NoopStorage) UploadObject(context.Context, string, []byte, string) error {
	return nil
}

func (NoopStorage) ListObjects(context.Context, string) ([]ObjectInfo, error) {
	return nil, nil
}
