package services

import (
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/talash/backend/internal/models"
	"gorm.io/datatypes"
)

// allowedImageTypes maps accepted upload content types to the extension the
// stored file gets.
var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// StorageService stores validated item images on local disk and serves them
// under /uploads.
type StorageService struct {
	uploadDir string
	maxBytes  int64
}

func NewStorageService(uploadDir string, maxBytes int64) (*StorageService, error) {
	if err := os.MkdirAll(uploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &StorageService{uploadDir: uploadDir, maxBytes: maxBytes}, nil
}

// StoredImage is the result of a successful upload.
type StoredImage struct {
	URL  string
	Meta datatypes.JSON
}

// Save validates the upload's content type and size, then writes it under a
// fresh uuid filename. Validation failures happen before anything touches
// disk, so a rejected upload leaves no trace.
func (s *StorageService) Save(fh *multipart.FileHeader) (*StoredImage, error) {
	if fh == nil || fh.Filename == "" {
		return nil, invalidField("file", "an image file is required")
	}

	contentType := strings.ToLower(strings.TrimSpace(fh.Header.Get("Content-Type")))
	if i := strings.Index(contentType, ";"); i >= 0 {
		contentType = strings.TrimSpace(contentType[:i])
	}
	ext, ok := allowedImageTypes[contentType]
	if !ok {
		return nil, invalidField("file", "only JPG, PNG, GIF and WebP images are allowed")
	}
	if fh.Size > s.maxBytes {
		return nil, fmt.Errorf("%w (%d bytes, limit %d)", ErrImageTooLarge, fh.Size, s.maxBytes)
	}

	src, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	filename := uuid.New().String() + ext
	path := filepath.Join(s.uploadDir, filename)

	dst, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	// The declared size is re-checked while copying; a lying Content-Length
	// must not get a larger file onto disk.
	written, err := io.Copy(dst, io.LimitReader(src, s.maxBytes+1))
	if err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("failed to save file: %w", err)
	}
	if written > s.maxBytes {
		os.Remove(path)
		return nil, fmt.Errorf("%w (limit %d)", ErrImageTooLarge, s.maxBytes)
	}

	meta, err := json.Marshal(models.ImageMeta{
		ContentType:  contentType,
		SizeBytes:    written,
		OriginalName: filepath.Base(fh.Filename),
	})
	if err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("failed to encode image metadata: %w", err)
	}

	return &StoredImage{
		URL:  "/uploads/" + filename,
		Meta: datatypes.JSON(meta),
	}, nil
}

// Remove deletes a stored image by its public URL. Used to roll back when the
// record insert fails after the file was written.
func (s *StorageService) Remove(url string) error {
	name := filepath.Base(strings.TrimPrefix(url, "/uploads/"))
	if name == "" || name == "." || name == string(filepath.Separator) {
		return nil
	}
	if err := os.Remove(filepath.Join(s.uploadDir, name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}
