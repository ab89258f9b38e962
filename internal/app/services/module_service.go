package services

import (
	"context"
	"mime/multipart"
	"strings"

	"github.com/rs/zerolog"

	"github.com/benhmida/formatech/internal/app/auth"
	"github.com/benhmida/formatech/internal/app/models"
	"github.com/benhmida/formatech/internal/app/models/dto"
	"github.com/benhmida/formatech/internal/app/repositories"
	"github.com/benhmida/formatech/internal/pkg/apperrors"
	"github.com/benhmida/formatech/internal/pkg/filestorage"
)

// ModuleService defines the interface for course module operations.
// Authority over a module derives from its parent course.
type ModuleService interface {
	GetModulesByCourse(ctx context.Context, courseID int64) ([]dto.ModuleResponse, error)
	GetModuleByID(ctx context.Context, id int64) (*dto.ModuleResponse, error)
	CreateModule(ctx context.Context, p *auth.Principal, courseID int64, req *dto.CreateModuleRequest) (*dto.ModuleResponse, error)
	UpdateModule(ctx context.Context, p *auth.Principal, id int64, req *dto.UpdateModuleRequest) (*dto.ModuleResponse, error)
	DeleteModule(ctx context.Context, p *auth.Principal, id int64) error

	AttachFile(ctx context.Context, p *auth.Principal, moduleID int64, fileHeader *multipart.FileHeader) (*dto.ModuleResponse, error)
	DetachFile(ctx context.Context, p *auth.Principal, moduleID int64) error
}

// moduleServiceImpl implements ModuleService
type moduleServiceImpl struct {
	moduleRepo  repositories.IModuleRepository
	courseRepo  repositories.ICourseRepository
	fileRepo    repositories.IFileRepository
	fileStorage filestorage.FileStorage
	guard       *auth.MutationGuard
	logger      zerolog.Logger
}

// NewModuleService creates a new ModuleService
func NewModuleService(
	moduleRepo repositories.IModuleRepository,
	courseRepo repositories.ICourseRepository,
	fileRepo repositories.IFileRepository,
	fileStorage filestorage.FileStorage,
	guard *auth.MutationGuard,
	logger zerolog.Logger,
) ModuleService {
	return &moduleServiceImpl{
		moduleRepo:  moduleRepo,
		courseRepo:  courseRepo,
		fileRepo:    fileRepo,
		fileStorage: fileStorage,
		guard:       guard,
		logger:      logger,
	}
}

// GetModulesByCourse returns a course's modules ordered by position
func (s *moduleServiceImpl) GetModulesByCourse(ctx context.Context, courseID int64) ([]dto.ModuleResponse, error) {
	if _, err := s.courseRepo.GetByID(ctx, courseID); err != nil {
		return nil, err
	}

	modules, err := s.moduleRepo.GetByCourseID(ctx, courseID)
	if err != nil {
		return nil, err
	}

	resp := make([]dto.ModuleResponse, 0, len(modules))
	for _, m := range modules {
		resp = append(resp, dto.NewModuleResponse(m))
	}
	return resp, nil
}

// GetModuleByID returns a single module
func (s *moduleServiceImpl) GetModuleByID(ctx context.Context, id int64) (*dto.ModuleResponse, error) {
	module, err := s.moduleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := dto.NewModuleResponse(module)
	return &resp, nil
}

// CreateModule adds a content module to a course
func (s *moduleServiceImpl) CreateModule(ctx context.Context, p *auth.Principal, courseID int64, req *dto.CreateModuleRequest) (*dto.ModuleResponse, error) {
	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if err := s.guard.AuthorizeCourse(ctx, p, course, auth.ActionUpdate); err != nil {
		return nil, err
	}

	module := &models.Module{
		CourseID:    courseID,
		Title:       req.Title,
		Description: req.Description,
		Position:    req.Position,
	}

	id, err := s.moduleRepo.Create(ctx, module)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("moduleId", id).Int64("courseId", courseID).Msg("Module created")
	return s.GetModuleByID(ctx, id)
}

// UpdateModule partially updates a module
func (s *moduleServiceImpl) UpdateModule(ctx context.Context, p *auth.Principal, id int64, req *dto.UpdateModuleRequest) (*dto.ModuleResponse, error) {
	module, err := s.authorizeModule(ctx, p, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		module.Title = *req.Title
	}
	if req.Description != nil {
		module.Description = req.Description
	}
	if req.Position != nil {
		module.Position = *req.Position
	}

	if err := s.moduleRepo.Update(ctx, module); err != nil {
		return nil, err
	}
	return s.GetModuleByID(ctx, id)
}

// DeleteModule removes a module and its attachment, if any
func (s *moduleServiceImpl) DeleteModule(ctx context.Context, p *auth.Principal, id int64) error {
	module, err := s.authorizeModule(ctx, p, id)
	if err != nil {
		return err
	}

	if module.FileID != nil {
		if err := s.removeFile(ctx, *module.FileID); err != nil {
			s.logger.Warn().Err(err).Int64("moduleId", id).Msg("Failed to remove module attachment")
		}
	}

	if err := s.moduleRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Int64("moduleId", id).Msg("Module deleted")
	return nil
}

// AttachFile stores an uploaded PDF or video and attaches it to the
// module, replacing any previous attachment
func (s *moduleServiceImpl) AttachFile(ctx context.Context, p *auth.Principal, moduleID int64, fileHeader *multipart.FileHeader) (*dto.ModuleResponse, error) {
	module, err := s.authorizeModule(ctx, p, moduleID)
	if err != nil {
		return nil, err
	}

	resourceType, err := moduleResourceType(fileHeader)
	if err != nil {
		return nil, err
	}

	accessiblePath, err := s.fileStorage.SaveFileWithPath(fileHeader, filestorage.ModuleFileDir)
	if err != nil {
		s.logger.Error().Err(err).Int64("moduleId", moduleID).Msg("Failed to store module file")
		return nil, err
	}

	file := &models.File{
		FileName:     fileHeader.Filename,
		FilePath:     accessiblePath,
		FileURL:      accessiblePath,
		FileSize:     fileHeader.Size,
		FileType:     fileHeader.Header.Get("Content-Type"),
		ResourceType: resourceType,
		ResourceID:   moduleID,
		UploadedBy:   p.UserID,
	}

	fileID, err := s.fileRepo.Create(ctx, file)
	if err != nil {
		return nil, err
	}

	if module.FileID != nil {
		if err := s.removeFile(ctx, *module.FileID); err != nil {
			s.logger.Warn().Err(err).Int64("moduleId", moduleID).Msg("Failed to remove replaced attachment")
		}
	}

	if err := s.moduleRepo.SetFile(ctx, moduleID, &fileID); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("moduleId", moduleID).Int64("fileId", fileID).Msg("Module attachment stored")
	return s.GetModuleByID(ctx, moduleID)
}

// DetachFile removes the module's attachment
func (s *moduleServiceImpl) DetachFile(ctx context.Context, p *auth.Principal, moduleID int64) error {
	module, err := s.authorizeModule(ctx, p, moduleID)
	if err != nil {
		return err
	}
	if module.FileID == nil {
		return apperrors.NotFound(apperrors.ErrFileNotFound)
	}

	if err := s.moduleRepo.SetFile(ctx, moduleID, nil); err != nil {
		return err
	}
	return s.removeFile(ctx, *module.FileID)
}

// authorizeModule loads the module and checks authority over its course
func (s *moduleServiceImpl) authorizeModule(ctx context.Context, p *auth.Principal, moduleID int64) (*models.Module, error) {
	module, err := s.moduleRepo.GetByID(ctx, moduleID)
	if err != nil {
		return nil, err
	}
	course, err := s.courseRepo.GetByID(ctx, module.CourseID)
	if err != nil {
		return nil, err
	}
	if err := s.guard.AuthorizeCourse(ctx, p, course, auth.ActionUpdate); err != nil {
		return nil, err
	}
	return module, nil
}

// removeFile deletes the file row and its bytes on disk
func (s *moduleServiceImpl) removeFile(ctx context.Context, fileID int64) error {
	file, err := s.fileRepo.GetByID(ctx, fileID)
	if err != nil {
		return err
	}
	if err := s.fileRepo.Delete(ctx, fileID); err != nil {
		return err
	}
	return s.fileStorage.DeleteFile(file.FilePath)
}

// moduleResourceType maps an upload's content type to the module resource
// kinds the system accepts
func moduleResourceType(fileHeader *multipart.FileHeader) (models.ResourceType, error) {
	contentType := fileHeader.Header.Get("Content-Type")
	switch {
	case contentType == "application/pdf":
		return models.ResourceTypeModulePDF, nil
	case strings.HasPrefix(contentType, "video/"):
		return models.ResourceTypeModuleVideo, nil
	}
	return "", apperrors.NewCustomError(apperrors.ErrValidationFailed, "module attachments must be PDF or video files")
}
