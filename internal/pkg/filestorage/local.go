package filestorage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/benhmida/formatech/internal/pkg/logger"
)

// LocalStorage saves uploaded files on the local filesystem.
type LocalStorage struct {
	basePath string // root directory for stored files
	baseURL  string // optional base URL prepended to returned paths
}

// NewLocalStorage creates a LocalStorage rooted at basePath, creating the
// directory if needed.
func NewLocalStorage(basePath, baseURL string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, os.ModePerm); err != nil {
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	logger.Info().Str("path", basePath).Msg("Local storage directory ensured")

	return &LocalStorage{
		basePath: basePath,
		baseURL:  baseURL,
	}, nil
}

// SaveFileWithPath saves a file into the given subdirectory under the root.
// Files are renamed to a UUID to avoid collisions.
func (ls *LocalStorage) SaveFileWithPath(fileHeader *multipart.FileHeader, subPath string) (string, error) {
	if fileHeader == nil {
		return "", nil
	}

	file, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	fullDirPath := ls.basePath
	if subPath != "" {
		fullDirPath = filepath.Join(ls.basePath, subPath)
		if err := os.MkdirAll(fullDirPath, os.ModePerm); err != nil {
			return "", fmt.Errorf("failed to create subdirectory: %w", err)
		}
	}

	ext := filepath.Ext(fileHeader.Filename)
	uniqueFilename := uuid.New().String() + ext
	dstPath := filepath.Join(fullDirPath, uniqueFilename)

	dst, err := os.Create(dstPath)
	if err != nil {
		return "", fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	if _, err = io.Copy(dst, file); err != nil {
		_ = os.Remove(dstPath)
		return "", fmt.Errorf("failed to save file content: %w", err)
	}

	relativePath := uniqueFilename
	if subPath != "" {
		relativePath = filepath.ToSlash(filepath.Join(subPath, uniqueFilename))
	}

	accessiblePath := filepath.ToSlash(filepath.Join("uploads", relativePath))
	if ls.baseURL != "" {
		accessiblePath = strings.TrimRight(ls.baseURL, "/") + "/" + relativePath
	}

	logger.Info().Str("filename", fileHeader.Filename).Str("saved_as", relativePath).Msg("File saved")
	return accessiblePath, nil
}

// SaveFile saves a file directly under the storage root
func (ls *LocalStorage) SaveFile(fileHeader *multipart.FileHeader) (string, error) {
	return ls.SaveFileWithPath(fileHeader, "")
}

// DeleteFile removes a stored file given its accessible path. Missing files
// are treated as already deleted.
func (ls *LocalStorage) DeleteFile(filePath string) error {
	if filePath == "" {
		return nil
	}

	physicalPath := ls.GetFullPath(filePath)
	if physicalPath == "" {
		return fmt.Errorf("invalid file path: %s", filePath)
	}

	if _, err := os.Stat(physicalPath); os.IsNotExist(err) {
		logger.Warn().Str("path", physicalPath).Msg("File to delete does not exist")
		return nil
	}

	if err := os.Remove(physicalPath); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}

	logger.Info().Str("path", physicalPath).Msg("File deleted")
	return nil
}

// GetFullPath maps a stored file URL back to its filesystem path. The
// subdirectory segment (course-images, module-files, ...) is preserved so
// files saved under a subPath resolve correctly.
func (ls *LocalStorage) GetFullPath(fileURL string) string {
	rel := fileURL
	if ls.baseURL != "" && strings.HasPrefix(fileURL, ls.baseURL) {
		rel = strings.TrimPrefix(fileURL, strings.TrimRight(ls.baseURL, "/")+"/")
	}
	rel = strings.TrimPrefix(strings.TrimPrefix(rel, "uploads/"), "/")

	rel = filepath.Clean(rel)
	if rel == "" || rel == "." || strings.HasPrefix(rel, "..") {
		return ""
	}

	return filepath.Join(ls.basePath, rel)
}
