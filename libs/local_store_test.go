package libs

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"product-catalog/models"
)

// 1x1 transparent PNG.
var pngBytes = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d,
	0x49, 0x48, 0x44, 0x52, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4, 0x89, 0x00, 0x00, 0x00,
	0x0d, 0x49, 0x44, 0x41, 0x54, 0x78, 0x9c, 0x63, 0x00, 0x01, 0x00, 0x00,
	0x05, 0x00, 0x01, 0x0d, 0x0a, 0x2d, 0xb4, 0x00, 0x00, 0x00, 0x00, 0x49,
	0x45, 0x4e, 0x44, 0xae, 0x42, 0x60, 0x82,
}

func pngUpload(name string) models.UploadedFile {
	return models.UploadedFile{
		Filename: name,
		Size:     int64(len(pngBytes)),
		Content:  bytes.NewReader(pngBytes),
	}
}

func TestLocalStoreSaveAndDelete(t *testing.T) {
	root := t.TempDir()
	store, err := NewLocalStore(root, "/uploads")
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}
	ctx := context.Background()

	ref, err := store.Save(ctx, pngUpload("Photo.PNG"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !regexp.MustCompile(`^image-\d+-[0-9a-f]{8}\.png$`).MatchString(ref) {
		t.Errorf("unexpected ref %q", ref)
	}

	data, err := os.ReadFile(filepath.Join(root, ref))
	if err != nil {
		t.Fatalf("stored file missing: %v", err)
	}
	if !bytes.Equal(data, pngBytes) {
		t.Error("stored bytes differ")
	}

	if !store.Owns(ref) {
		t.Errorf("store should own %q", ref)
	}

	if err := store.Delete(ctx, "/uploads/"+ref); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, ref)); !os.IsNotExist(err) {
		t.Errorf("file still present after delete: %v", err)
	}

	err = store.Delete(ctx, ref)
	if !errors.Is(err, ErrAssetNotFound) {
		t.Errorf("second delete: got %v, want ErrAssetNotFound", err)
	}
}

func TestLocalStoreRejectsTraversal(t *testing.T) {
	parent := t.TempDir()
	root := filepath.Join(parent, "uploads")
	store, err := NewLocalStore(root, "/uploads")
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}

	victim := filepath.Join(parent, "secret.txt")
	if err := os.WriteFile(victim, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	for _, ref := range []string{"../secret.txt", "/uploads/../secret.txt", "", "/"} {
		if err := store.Delete(context.Background(), ref); err == nil {
			t.Errorf("Delete(%q) succeeded", ref)
		}
	}
	if _, err := os.Stat(victim); err != nil {
		t.Errorf("file outside root was touched: %v", err)
	}
}

func TestLocalStoreOwns(t *testing.T) {
	store := &LocalStore{root: t.TempDir(), staticPrefix: "/uploads"}
	if store.Owns("https://x.test/a.jpg") || store.Owns("data:image/png;base64,AA") || store.Owns("") {
		t.Error("local store claims foreign refs")
	}
}

func TestValidateUpload(t *testing.T) {
	limits := UploadLimits{MaxSize: 1024, MaxFiles: 2}

	checked, err := ValidateUpload(pngUpload("a.png"), limits)
	if err != nil {
		t.Fatalf("valid png rejected: %v", err)
	}
	if checked.ContentType != "image/png" {
		t.Errorf("ContentType = %q", checked.ContentType)
	}
	data, _ := io.ReadAll(checked.Content)
	if !bytes.Equal(data, pngBytes) {
		t.Error("validated reader lost bytes")
	}

	text := models.UploadedFile{Filename: "a.png", Size: 5, Content: strings.NewReader("hello")}
	if _, err := ValidateUpload(text, limits); !errors.Is(err, ErrNotAnImage) {
		t.Errorf("text upload: got %v, want ErrNotAnImage", err)
	}

	big := pngUpload("big.png")
	big.Size = 4096
	if _, err := ValidateUpload(big, limits); !errors.Is(err, ErrFileTooLarge) {
		t.Errorf("big upload: got %v, want ErrFileTooLarge", err)
	}

	empty := models.UploadedFile{Filename: "e.png", Content: strings.NewReader("")}
	if _, err := ValidateUpload(empty, limits); !errors.Is(err, ErrEmptyUpload) {
		t.Errorf("empty upload: got %v, want ErrEmptyUpload", err)
	}

	files := []models.UploadedFile{pngUpload("1.png"), pngUpload("2.png"), pngUpload("3.png")}
	_, err = ValidateUploads(files, limits)
	if !errors.Is(err, ErrTooManyFiles) {
		t.Errorf("three files: got %v, want ErrTooManyFiles", err)
	}
	if !IsUploadError(err) {
		t.Errorf("IsUploadError(%v) = false", err)
	}
}
