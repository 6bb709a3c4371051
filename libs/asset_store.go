package libs

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"product-catalog/config"
	"product-catalog/models"
)

var ErrAssetNotFound = errors.New("asset not found")

// AssetStore persists uploaded image bytes and removes them again. Save
// returns the reference that is stored on the product.
type AssetStore interface {
	Save(ctx context.Context, file models.UploadedFile) (string, error)
	Delete(ctx context.Context, ref string) error
	Owns(ref string) bool
}

// AssetStores groups every configured store. Primary receives new uploads;
// the others are kept so references written under a previous configuration
// can still be cleaned up.
type AssetStores struct {
	Primary AssetStore
	Local   AssetStore
	Cloud   []AssetStore
}

// For returns the store responsible for deleting ref, or nil.
func (s AssetStores) For(kind models.ImageKind, ref string) AssetStore {
	switch kind {
	case models.ImageLocal:
		return s.Local
	case models.ImageCloud:
		for _, store := range s.Cloud {
			if store.Owns(ref) {
				return store
			}
		}
	}
	return nil
}

func NewAssetStores(ctx context.Context, cfg *config.Config) (AssetStores, error) {
	local, err := NewLocalStore(cfg.UploadDir, cfg.StaticPrefix)
	if err != nil {
		return AssetStores{}, err
	}
	stores := AssetStores{Primary: local, Local: local}

	if cfg.CloudinaryURL != "" || cfg.CloudinaryCloudName != "" {
		cld, err := NewCloudinaryStore(cfg)
		if err != nil {
			if cfg.StorageDriver == config.StorageCloudinary {
				return AssetStores{}, err
			}
			zap.L().Warn("Cloudinary not available", zap.Error(err))
		} else {
			stores.Cloud = append(stores.Cloud, cld)
			if cfg.StorageDriver == config.StorageCloudinary {
				stores.Primary = cld
			}
		}
	}

	if cfg.MinioEndpoint != "" {
		mio, err := NewMinioStore(ctx, cfg)
		if err != nil {
			if cfg.StorageDriver == config.StorageMinio {
				return AssetStores{}, err
			}
			zap.L().Warn("MinIO not available", zap.Error(err))
		} else {
			stores.Cloud = append(stores.Cloud, mio)
			if cfg.StorageDriver == config.StorageMinio {
				stores.Primary = mio
			}
		}
	}

	switch cfg.StorageDriver {
	case config.StorageLocal, "":
	case config.StorageCloudinary, config.StorageMinio:
		if stores.Primary == AssetStore(local) {
			return AssetStores{}, errors.Errorf("storage driver %q is not configured", cfg.StorageDriver)
		}
	default:
		return AssetStores{}, errors.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}

	zap.L().Info("Asset storage ready",
		zap.String("driver", cfg.StorageDriver),
		zap.Int("cloud_stores", len(stores.Cloud)),
	)
	return stores, nil
}
