package filestorage

import (
	"mime/multipart"
)

// Subdirectories for the upload kinds the platform accepts.
const (
	CourseImageDir = "course-images"
	ModuleFileDir  = "module-files"
	CertificateDir = "certificates"
)

// FileStorage defines the interface for file storage operations
type FileStorage interface {
	// SaveFile saves a file under the storage root and returns its accessible path
	SaveFile(fileHeader *multipart.FileHeader) (string, error)

	// SaveFileWithPath saves the file into the given subdirectory
	SaveFileWithPath(fileHeader *multipart.FileHeader, path string) (string, error)

	// DeleteFile removes a previously stored file; deleting a missing file is not an error
	DeleteFile(filePath string) error

	// GetFullPath returns the filesystem path for a stored file URL
	GetFullPath(fileURL string) string
}
