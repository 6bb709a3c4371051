package libs

import (
	"context"
	"io"
	"os"

	"github.com/pkg/errors"

	"product-catalog/models"
	"product-catalog/utils"
)

// LocalStore keeps uploads on the local disk below root, which is served
// under the static prefix.
type LocalStore struct {
	root         string
	staticPrefix string
}

func NewLocalStore(root, staticPrefix string) (*LocalStore, error) {
	if err := os.MkdirAll(root, os.ModePerm); err != nil {
		return nil, errors.Wrap(err, "create upload dir")
	}
	return &LocalStore{root: root, staticPrefix: staticPrefix}, nil
}

func (s *LocalStore) Root() string {
	return s.root
}

func (s *LocalStore) Save(ctx context.Context, file models.UploadedFile) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	name := utils.GenerateFilename(file.Filename, extensionFor(file.ContentType))
	full, err := utils.SafeJoin(s.root, name)
	if err != nil {
		return "", err
	}

	dst, err := os.OpenFile(full, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", errors.Wrap(err, "create upload file")
	}
	if _, err := io.Copy(dst, file.Content); err != nil {
		dst.Close()
		os.Remove(full)
		return "", errors.Wrap(err, "write upload file")
	}
	if err := dst.Close(); err != nil {
		os.Remove(full)
		return "", errors.Wrap(err, "close upload file")
	}
	return name, nil
}

func (s *LocalStore) Delete(ctx context.Context, ref string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	full, err := utils.SafeJoin(s.root, utils.TrimStaticPrefix(ref, s.staticPrefix))
	if err != nil {
		return errors.Wrapf(err, "delete %q", ref)
	}
	if err := os.Remove(full); err != nil {
		if os.IsNotExist(err) {
			return errors.Wrapf(ErrAssetNotFound, "delete %q", ref)
		}
		return errors.Wrapf(err, "delete %q", ref)
	}
	return nil
}

func (s *LocalStore) Owns(ref string) bool {
	return ref != "" && !isAbsolute(ref) && !isInline(ref)
}
