package uploads

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/FieldTrace/FT-Backend/internal/config"
)

var ErrStorageDisabled = errors.New("file storage is not configured")

var (
	client  *minio.Client
	storage config.StorageConfig
)

// Init connects the object-storage client and makes sure the staging bucket
// exists. An empty endpoint leaves uploads disabled so local dev does not need
// MinIO running.
func Init(cfg config.Config) {
	storage = cfg.Storage
	maxUploadBytes = cfg.Uploads.MaxBytes
	ratePerMinute = cfg.Uploads.RatePerMin

	if storage.Endpoint == "" {
		log.Println("Uploads module disabled (no storage endpoint configured)")
		return
	}

	c, err := minio.New(storage.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(storage.AccessKey, storage.SecretKey, ""),
		Secure: storage.UseSSL,
	})
	if err != nil {
		log.Fatal("Failed to connect to object storage: ", err)
	}

	ctx := context.Background()
	exists, err := c.BucketExists(ctx, storage.Bucket)
	if err != nil {
		log.Fatal("Failed to check storage bucket: ", err)
	}
	if !exists {
		if err := c.MakeBucket(ctx, storage.Bucket, minio.MakeBucketOptions{}); err != nil {
			log.Fatal("Failed to create storage bucket: ", err)
		}
	}

	client = c
	log.Println("Uploads module initialized")
}

// Enabled reports whether object storage is configured.
func Enabled() bool {
	return client != nil
}

// RatePerMinute reports the configured per-IP cap shared by the upload and
// import routes.
func RatePerMinute() int {
	return ratePerMinute
}

// Put stages one uploaded file and returns its storage URL.
func Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error) {
	if client == nil {
		return "", ErrStorageDisabled
	}

	_, err := client.PutObject(ctx, storage.Bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("store %s: %w", key, err)
	}

	return URLFor(key), nil
}

// Fetch reads a staged object back, for the layer import pipeline.
func Fetch(ctx context.Context, key string) ([]byte, error) {
	if client == nil {
		return nil, ErrStorageDisabled
	}

	obj, err := client.GetObject(ctx, storage.Bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", key, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	return data, nil
}

// URLFor builds the public URL for a staged object.
func URLFor(key string) string {
	if storage.PublicURL != "" {
		return strings.TrimRight(storage.PublicURL, "/") + "/" + key
	}

	scheme := "http"
	if storage.UseSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, storage.Endpoint, storage.Bucket, key)
}
