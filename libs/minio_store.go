package libs

import (
	"context"
	"path"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"product-catalog/config"
	"product-catalog/models"
	"product-catalog/utils"
)

const minioKeyPrefix = "products/"

type MinioStore struct {
	client *minio.Client
	bucket string
	// urlPrefix is "<public base>/<bucket>/"; stored refs start with it.
	urlPrefix string
}

func NewMinioStore(ctx context.Context, cfg *config.Config) (*MinioStore, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
	})
	if err != nil {
		return nil, errors.Wrap(err, "minio client")
	}

	exists, err := client.BucketExists(ctx, cfg.MinioBucket)
	if err != nil {
		return nil, errors.Wrap(err, "check minio bucket")
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.MinioBucket, minio.MakeBucketOptions{}); err != nil {
			return nil, errors.Wrap(err, "create minio bucket")
		}
		zap.L().Info("MinIO bucket created", zap.String("bucket", cfg.MinioBucket))
	}

	zap.L().Info("MinIO connected", zap.String("endpoint", cfg.MinioEndpoint))
	return &MinioStore{
		client:    client,
		bucket:    cfg.MinioBucket,
		urlPrefix: cfg.MinioPublicBase() + "/" + cfg.MinioBucket + "/",
	}, nil
}

func (s *MinioStore) Save(ctx context.Context, file models.UploadedFile) (string, error) {
	key := minioKeyPrefix + utils.GenerateFilename(file.Filename, extensionFor(file.ContentType))

	size := file.Size
	if size <= 0 {
		size = -1
	}
	_, err := s.client.PutObject(ctx, s.bucket, key, file.Content, size,
		minio.PutObjectOptions{ContentType: file.ContentType})
	if err != nil {
		return "", errors.Wrap(err, "put object")
	}
	return s.urlPrefix + key, nil
}

func (s *MinioStore) Delete(ctx context.Context, ref string) error {
	key := s.keyOf(ref)
	if key == "" {
		return errors.Errorf("%q is not an object of bucket %s", ref, s.bucket)
	}

	if _, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{}); err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return errors.Wrap(ErrAssetNotFound, key)
		}
		return errors.Wrapf(err, "stat %s", key)
	}
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return errors.Wrapf(err, "remove %s", key)
	}
	return nil
}

func (s *MinioStore) Owns(ref string) bool {
	return s.keyOf(ref) != ""
}

func (s *MinioStore) keyOf(ref string) string {
	if !hasPrefixFold(ref, s.urlPrefix) {
		return ""
	}
	key := path.Clean(ref[len(s.urlPrefix):])
	if key == "." || strings.HasPrefix(key, "../") {
		return ""
	}
	return key
}
