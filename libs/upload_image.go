package libs

import (
	"bytes"
	"io"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/pkg/errors"

	"product-catalog/models"
)

var (
	ErrTooManyFiles = errors.New("too many files")
	ErrFileTooLarge = errors.New("file too large")
	ErrNotAnImage   = errors.New("only image files are allowed")
	ErrEmptyUpload  = errors.New("uploaded file is empty")
)

const sniffLen = 3072

// UploadLimits bounds what a single request may upload.
type UploadLimits struct {
	MaxSize  int64
	MaxFiles int
}

// ValidateUpload checks one file against the size limit and sniffs its
// content. The returned file carries the detected content type and a reader
// that still yields every byte.
func ValidateUpload(file models.UploadedFile, limits UploadLimits) (models.UploadedFile, error) {
	if limits.MaxSize > 0 && file.Size > limits.MaxSize {
		return file, errors.Wrapf(ErrFileTooLarge, "%s exceeds %d bytes", file.Filename, limits.MaxSize)
	}
	if file.Content == nil {
		return file, errors.Wrap(ErrEmptyUpload, file.Filename)
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(file.Content, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return file, errors.Wrap(err, "read upload")
	}
	if n == 0 {
		return file, errors.Wrap(ErrEmptyUpload, file.Filename)
	}
	head = head[:n]

	mime := mimetype.Detect(head)
	if !strings.HasPrefix(mime.String(), "image/") {
		return file, errors.Wrapf(ErrNotAnImage, "%s is %s", file.Filename, mime.String())
	}

	file.ContentType = mime.String()
	file.Content = io.MultiReader(bytes.NewReader(head), file.Content)
	return file, nil
}

// ValidateUploads applies ValidateUpload to every file and the per-request
// file count.
func ValidateUploads(files []models.UploadedFile, limits UploadLimits) ([]models.UploadedFile, error) {
	if limits.MaxFiles > 0 && len(files) > limits.MaxFiles {
		return nil, errors.Wrapf(ErrTooManyFiles, "at most %d files per request", limits.MaxFiles)
	}
	out := make([]models.UploadedFile, 0, len(files))
	for _, f := range files {
		checked, err := ValidateUpload(f, limits)
		if err != nil {
			return nil, err
		}
		out = append(out, checked)
	}
	return out, nil
}

// IsUploadError reports whether err was caused by the client's upload.
func IsUploadError(err error) bool {
	return errors.Is(err, ErrTooManyFiles) ||
		errors.Is(err, ErrFileTooLarge) ||
		errors.Is(err, ErrNotAnImage) ||
		errors.Is(err, ErrEmptyUpload)
}

func extensionFor(contentType string) string {
	if contentType == "" {
		return ""
	}
	if m := mimetype.Lookup(contentType); m != nil {
		return m.Extension()
	}
	return ""
}
