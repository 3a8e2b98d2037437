package storage

import "context"

// StorageService is the image hosting collaborator boundary. Only the returned
// public URL is persisted by the rest of the system.
type StorageService interface {
	UploadImage(ctx context.Context, localFilePath, destFolder string) (string, error)
	DeleteImage(ctx context.Context, publicID string) error
}
