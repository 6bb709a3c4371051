package libs

import (
	"context"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"product-catalog/config"
	"product-catalog/models"
	"product-catalog/utils"
)

type CloudinaryStore struct {
	cld       *cloudinary.Cloudinary
	cloudName string
	folder    string
}

// NewCloudinaryStore prefers the separate credential variables and falls
// back to CLOUDINARY_URL.
func NewCloudinaryStore(cfg *config.Config) (*CloudinaryStore, error) {
	var (
		cld *cloudinary.Cloudinary
		err error
	)
	if cfg.CloudinaryCloudName != "" && cfg.CloudinaryAPIKey != "" && cfg.CloudinaryAPISecret != "" {
		cld, err = cloudinary.NewFromParams(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
		if err != nil {
			return nil, errors.Wrap(err, "cloudinary init from params")
		}
	} else if cfg.CloudinaryURL != "" {
		cld, err = cloudinary.NewFromURL(cfg.CloudinaryURL)
		if err != nil {
			return nil, errors.Wrap(err, "cloudinary init from URL")
		}
	} else {
		return nil, errors.New("cloudinary credentials not configured")
	}

	return &CloudinaryStore{
		cld:       cld,
		cloudName: cld.Config.Cloud.CloudName,
		folder:    strings.Trim(cfg.CloudinaryFolder, "/"),
	}, nil
}

func (s *CloudinaryStore) Save(ctx context.Context, file models.UploadedFile) (string, error) {
	name := utils.GenerateFilename(file.Filename, "")
	publicID := strings.TrimSuffix(name, filepath.Ext(name))

	resp, err := s.cld.Upload.Upload(ctx, file.Content, uploader.UploadParams{
		PublicID:     publicID,
		Folder:       s.folder,
		ResourceType: "image",
	})
	if err != nil {
		return "", errors.Wrap(err, "upload to cloudinary")
	}
	if resp == nil {
		return "", errors.New("cloudinary response is nil")
	}
	if resp.Error.Message != "" {
		return "", errors.Errorf("upload to cloudinary: %s", resp.Error.Message)
	}

	if resp.SecureURL != "" {
		return resp.SecureURL, nil
	}
	if resp.URL != "" {
		return resp.URL, nil
	}
	return "", errors.New("both SecureURL and URL are empty")
}

func (s *CloudinaryStore) Delete(ctx context.Context, ref string) error {
	publicID := CloudinaryPublicID(ref)
	if publicID == "" {
		return errors.Errorf("no cloudinary public id in %q", ref)
	}

	result, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID:     publicID,
		ResourceType: "image",
	})
	if err != nil {
		return errors.Wrapf(err, "delete %s from cloudinary", publicID)
	}

	switch result.Result {
	case "ok":
		zap.L().Debug("Cloudinary asset deleted", zap.String("public_id", publicID))
		return nil
	case "not found":
		return errors.Wrap(ErrAssetNotFound, publicID)
	default:
		return errors.Errorf("cloudinary deletion of %s failed: %s", publicID, result.Result)
	}
}

// Owns matches delivery URLs of this account only.
func (s *CloudinaryStore) Owns(ref string) bool {
	u, err := url.Parse(ref)
	if err != nil {
		return false
	}
	if !strings.EqualFold(u.Hostname(), CloudinaryHost) {
		return false
	}
	return s.cloudName == "" || strings.HasPrefix(u.Path, "/"+s.cloudName+"/")
}
