package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"iflytek-asr/internal/config"
)

// MinioStore archives artifacts in a MinIO bucket under transcripts/<stem>.*
// so several workers can share one output location.
type MinioStore struct {
	client *minio.Client
	bucket string
}

func NewMinioStore(cfg config.NetworkConfig) (*MinioStore, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	store := &MinioStore{
		client: client,
		bucket: cfg.MinioBucket,
	}

	ctx := context.Background()
	exists, err := client.BucketExists(ctx, cfg.MinioBucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.MinioBucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return store, nil
}

func (s *MinioStore) SaveArtifacts(ctx context.Context, baseName string, raw json.RawMessage, transcript string) (*Artifacts, error) {
	stem := fmt.Sprintf("transcripts/%s_%s", baseName, time.Now().Format(timestampLayout))

	jsonKey := stem + ".json"
	if err := s.put(ctx, jsonKey, prettyJSON(raw), "application/json"); err != nil {
		return nil, fmt.Errorf("upload raw result: %w", err)
	}

	txtKey := stem + ".txt"
	if err := s.put(ctx, txtKey, []byte(transcript), "text/plain; charset=utf-8"); err != nil {
		return nil, fmt.Errorf("upload transcript: %w", err)
	}

	return &Artifacts{RawJSONPath: jsonKey, TranscriptPath: txtKey}, nil
}

func (s *MinioStore) put(ctx context.Context, key string, data []byte, contentType string) error {
	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{
			ContentType: contentType,
			UserMetadata: map[string]string{
				"uploaded-at": time.Now().Format(time.RFC3339),
			},
		})
	return err
}
