// Package storage archives backup artifacts in an S3-compatible object
// store so exports survive the host the service runs on.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"sort"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/abacreative/admin-services/internal/config"
)

// ArtifactStore is a thin wrapper around the minio client used to keep
// backup exports.
type ArtifactStore struct {
	client *minio.Client
	bucket string
}

// NewArtifactStore creates the object store client and ensures the backup
// bucket exists.
func NewArtifactStore(cfg config.BackupConfig) (*ArtifactStore, error) {
	if cfg.MinIOEndpoint == "" {
		return nil, fmt.Errorf("minio endpoint missing")
	}
	mc, err := minio.New(cfg.MinIOEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinIOAccessKey, cfg.MinIOSecretKey, ""),
		Secure: cfg.MinIOUseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio new: %w", err)
	}
	s := &ArtifactStore{client: mc, bucket: cfg.MinIOBucket}
	// ensure bucket exists (idempotent)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := mc.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		exist, xerr := mc.BucketExists(ctx, s.bucket)
		if xerr != nil || !exist {
			return nil, fmt.Errorf("minio bucket ensure: %w", err)
		}
	}
	return s, nil
}

// Upload stores a backup artifact under the given name.
func (s *ArtifactStore) Upload(ctx context.Context, name string, data []byte, contentType string) error {
	_, err := s.client.PutObject(ctx, s.bucket, name, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	return err
}

// Download returns a ReadCloser for a stored artifact.
func (s *ArtifactStore) Download(ctx context.Context, name string) (io.ReadCloser, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, name, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	// stat to surface "not found" now rather than on first read
	if _, err := obj.Stat(); err != nil {
		obj.Close()
		return nil, err
	}
	return obj, nil
}

// Artifact describes a stored backup export.
type Artifact struct {
	Name         string    `json:"name"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"lastModified"`
}

// List returns the stored artifacts, newest first.
func (s *ArtifactStore) List(ctx context.Context) ([]Artifact, error) {
	var out []Artifact
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{}) {
		if obj.Err != nil {
			return nil, obj.Err
		}
		out = append(out, Artifact{Name: obj.Key, Size: obj.Size, LastModified: obj.LastModified})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LastModified.After(out[j].LastModified) })
	return out, nil
}

// PresignedURL returns a presigned GET URL valid for the given duration.
func (s *ArtifactStore) PresignedURL(ctx context.Context, name string, expires time.Duration) (string, error) {
	presigned, err := s.client.PresignedGetObject(ctx, s.bucket, name, expires, url.Values{})
	if err != nil {
		return "", err
	}
	return presigned.String(), nil
}
