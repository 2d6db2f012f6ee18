package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"
)

const (
	archivePrefix      = "archives/"
	archiveContentType = "application/zip"
)

// ArchiveKey is the object key of a generation's archive.
func ArchiveKey(generationID string) string {
	return archivePrefix + generationID + ".zip"
}

// Archives stores generation archives under archives/<id>.zip.
type Archives struct {
	store  Storage
	expiry time.Duration
}

// NewArchives wraps store. Presigned URLs live for expiry.
func NewArchives(store Storage, expiry time.Duration) *Archives {
	if expiry <= 0 {
		expiry = 15 * time.Minute
	}
	return &Archives{store: store, expiry: expiry}
}

// Publish uploads the archive and returns its key and a presigned URL.
func (a *Archives) Publish(ctx context.Context, generationID string, data []byte) (key, url string, err error) {
	key = ArchiveKey(generationID)
	_, err = a.store.Put(ctx, key, bytes.NewReader(data), PutObjectOptions{
		Size:        int64(len(data)),
		ContentType: archiveContentType,
		Metadata:    map[string]string{"generation-id": generationID},
	})
	if err != nil {
		return "", "", fmt.Errorf("put archive: %w", err)
	}
	url, err = a.store.PresignGet(ctx, key, a.expiry)
	if err != nil {
		return key, "", fmt.Errorf("presign archive: %w", err)
	}
	return key, url, nil
}

// URL presigns an already stored archive.
func (a *Archives) URL(ctx context.Context, key string) (string, error) {
	return a.store.PresignGet(ctx, key, a.expiry)
}

// Open streams a stored archive.
func (a *Archives) Open(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error) {
	return a.store.Get(ctx, key)
}
