// Package staging stores intermediate pipeline payloads (Arrow IPC streams)
// in the object store so large extracts never sit inside the task broker.
package staging

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/leonemendes/dw-mini/internal/domain/tasks"
	"github.com/leonemendes/dw-mini/internal/pkg/config"
	"github.com/leonemendes/dw-mini/internal/pkg/logger"
)

const stageContentType = "application/vnd.apache.arrow.stream"

type minioStageStore struct {
	client *minio.Client
	bucket string
	logger logger.Logger
}

// NewMinioStageStore connects to the object store and ensures the staging
// bucket exists.
func NewMinioStageStore(ctx context.Context, settings *config.StagingSettings, log logger.Logger) (tasks.StageStore, error) {
	client, err := minio.New(settings.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(settings.AccessKey, settings.SecretKey, ""),
		Secure: settings.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create object store client: %w", err)
	}

	exists, err := client.BucketExists(ctx, settings.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check staging bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, settings.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create staging bucket %s: %w", settings.Bucket, err)
		}
		log.Info("Created staging bucket ", settings.Bucket)
	}

	return &minioStageStore{
		client: client,
		bucket: settings.Bucket,
		logger: log,
	}, nil
}

func stageObjectKey(taskID string) string {
	return fmt.Sprintf("stages/%s.arrow", taskID)
}

func (s *minioStageStore) Put(ctx context.Context, taskID string, data []byte) (string, error) {
	key := stageObjectKey(taskID)

	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: stageContentType})
	if err != nil {
		return "", fmt.Errorf("failed to stage payload for task %s: %w", taskID, err)
	}

	s.logger.Info("Staged ", len(data), " bytes at ", key)
	return key, nil
}

func (s *minioStageStore) Get(ctx context.Context, key string) ([]byte, error) {
	object, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch stage payload %s: %w", key, err)
	}
	defer func() {
		_ = object.Close()
	}()

	data, err := io.ReadAll(object)
	if err != nil {
		return nil, fmt.Errorf("failed to read stage payload %s: %w", key, err)
	}

	return data, nil
}

func (s *minioStageStore) Delete(ctx context.Context, key string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to delete stage payload %s: %w", key, err)
	}
	return nil
}
