package models

import "time"

// ResourceType identifies what kind of entity a file is attached to
type ResourceType string

const (
	ResourceTypeCourseImage ResourceType = "COURSE_IMAGE"
	ResourceTypeModulePDF   ResourceType = "MODULE_PDF"
	ResourceTypeModuleVideo ResourceType = "MODULE_VIDEO"
)

// File defines the file metadata model based on the 'files' table.
// The bytes themselves live on disk under the storage root; the row keeps
// the path, public URL and attachment target.
type File struct {
	ID           int64        `json:"id" db:"id"`
	FileName     string       `json:"fileName" db:"file_name" example:"module-1.pdf"`
	FilePath     string       `json:"-" db:"file_path"`
	FileURL      string       `json:"fileUrl" db:"file_url" example:"http://localhost:8080/uploads/abc.pdf"`
	FileSize     int64        `json:"fileSize" db:"file_size" example:"482133"`
	FileType     string       `json:"fileType" db:"file_type" example:"application/pdf"`
	ResourceType ResourceType `json:"resourceType" db:"resource_type" example:"MODULE_PDF"`
	ResourceID   int64        `json:"resourceId" db:"resource_id" example:"201"`
	UploadedBy   int64        `json:"uploadedBy" db:"uploaded_by" example:"5"`
	CreatedAt    time.Time    `json:"createdAt" db:"created_at"`
}
