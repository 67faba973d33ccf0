package repository

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"

	"federation_video_service/pkg/database"

	"github.com/minio/minio-go/v7"
)

// ThumbnailStore 保存通過驗證的 ADD_VIDEO 縮圖（base64 payload -> object storage）
type ThumbnailStore interface {
	Save(ctx context.Context, videoUUID, thumbnailData string) (string, error)
	Remove(ctx context.Context, videoUUID string) error
}

type thumbnailStore struct {
	client *database.MinIOClient
}

// NewThumbnailStore create a ThumbnailStore
func NewThumbnailStore(client *database.MinIOClient) ThumbnailStore {
	return &thumbnailStore{client: client}
}

// Save decode 縮圖資料並寫入 "thumbnails/{uuid}.jpg"，回傳 object key
func (s *thumbnailStore) Save(ctx context.Context, videoUUID, thumbnailData string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(thumbnailData)
	if err != nil {
		return "", fmt.Errorf("decode thumbnail data: %w", err)
	}

	objectName := fmt.Sprintf("thumbnails/%s.jpg", videoUUID)
	_, err = s.client.Client.PutObject(ctx, s.client.BucketName, objectName,
		bytes.NewReader(raw), int64(len(raw)),
		minio.PutObjectOptions{ContentType: "image/jpeg"})
	if err != nil {
		return "", err
	}
	return objectName, nil
}

func (s *thumbnailStore) Remove(ctx context.Context, videoUUID string) error {
	objectName := fmt.Sprintf("thumbnails/%s.jpg", videoUUID)
	return s.client.Client.RemoveObject(ctx, s.client.BucketName, objectName, minio.RemoveObjectOptions{})
}
