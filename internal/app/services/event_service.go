package services

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/benhmida/formatech/internal/app/auth"
	"github.com/benhmida/formatech/internal/app/models"
	"github.com/benhmida/formatech/internal/app/models/dto"
	"github.com/benhmida/formatech/internal/app/repositories"
	"github.com/benhmida/formatech/internal/db"
	"github.com/benhmida/formatech/internal/pkg/apperrors"
	"github.com/benhmida/formatech/internal/pkg/helpers"
)

// EventService defines the interface for company event operations,
// including participant registration with capacity enforcement.
type EventService interface {
	GetAllEvents(ctx context.Context, companyID *int64, upcomingOnly bool, page, pageSize int) (*dto.EventListResponse, error)
	GetEventByID(ctx context.Context, id int64) (*dto.EventResponse, error)
	CreateEvent(ctx context.Context, p *auth.Principal, req *dto.CreateEventRequest) (*dto.EventResponse, error)
	UpdateEvent(ctx context.Context, p *auth.Principal, id int64, req *dto.UpdateEventRequest) (*dto.EventResponse, error)
	DeleteEvent(ctx context.Context, p *auth.Principal, id int64) error

	RegisterForEvent(ctx context.Context, p *auth.Principal, eventID int64) (*dto.EventRegistrationResponse, error)
	CancelRegistration(ctx context.Context, p *auth.Principal, eventID int64) error
	GetEventRegistrations(ctx context.Context, p *auth.Principal, eventID int64) ([]dto.EventRegistrationResponse, error)
}

// eventServiceImpl implements EventService
type eventServiceImpl struct {
	eventRepo   repositories.IEventRepository
	companyRepo repositories.ICompanyRepository
	txRunner    db.TxRunner
	guard       *auth.MutationGuard
	logger      zerolog.Logger
	now         func() time.Time
}

// NewEventService creates a new EventService
func NewEventService(
	eventRepo repositories.IEventRepository,
	companyRepo repositories.ICompanyRepository,
	txRunner db.TxRunner,
	guard *auth.MutationGuard,
	logger zerolog.Logger,
) EventService {
	return &eventServiceImpl{
		eventRepo:   eventRepo,
		companyRepo: companyRepo,
		txRunner:    txRunner,
		guard:       guard,
		logger:      logger,
		now:         time.Now,
	}
}

// GetAllEvents lists events, optionally scoped to a company or to upcoming
// dates only
func (s *eventServiceImpl) GetAllEvents(ctx context.Context, companyID *int64, upcomingOnly bool, page, pageSize int) (*dto.EventListResponse, error) {
	page, pageSize = helpers.NormalizePagination(page, pageSize)

	events, total, err := s.eventRepo.GetAll(ctx, companyID, upcomingOnly, page, pageSize)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to list events")
		return nil, err
	}

	resp := &dto.EventListResponse{
		Events:         make([]dto.EventResponse, 0, len(events)),
		PaginationInfo: helpers.NewPaginationInfo(total, page, pageSize),
	}
	for _, e := range events {
		resp.Events = append(resp.Events, dto.NewEventResponse(e))
	}
	return resp, nil
}

// GetEventByID returns a single event
func (s *eventServiceImpl) GetEventByID(ctx context.Context, id int64) (*dto.EventResponse, error) {
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := dto.NewEventResponse(event)
	return &resp, nil
}

// CreateEvent creates an event under a company. Only the company's
// representative or an admin may create events for it.
func (s *eventServiceImpl) CreateEvent(ctx context.Context, p *auth.Principal, req *dto.CreateEventRequest) (*dto.EventResponse, error) {
	company, err := s.companyRepo.GetByID(ctx, req.CompanyID)
	if err != nil {
		return nil, err
	}
	if err := s.guard.AuthorizeEventCreate(p, company); err != nil {
		return nil, err
	}

	event := &models.Event{
		CompanyID:            req.CompanyID,
		Title:                req.Title,
		Description:          req.Description,
		Location:             req.Location,
		EventDate:            req.EventDate,
		RegistrationDeadline: req.RegistrationDeadline,
		Price:                req.Price,
		MaxParticipants:      req.MaxParticipants,
	}

	id, err := s.eventRepo.Create(ctx, event)
	if err != nil {
		s.logger.Error().Err(err).Int64("companyId", req.CompanyID).Msg("Failed to create event")
		return nil, err
	}

	s.logger.Info().Int64("eventId", id).Int64("companyId", req.CompanyID).Msg("Event created")
	return s.GetEventByID(ctx, id)
}

// UpdateEvent partially updates an event. Lowering the participant limit
// below the current registration count is a structural conflict.
func (s *eventServiceImpl) UpdateEvent(ctx context.Context, p *auth.Principal, id int64, req *dto.UpdateEventRequest) (*dto.EventResponse, error) {
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.guard.AuthorizeEvent(p, event, auth.ActionUpdate); err != nil {
		return nil, err
	}

	if req.MaxParticipants != nil && *req.MaxParticipants < event.CurrentParticipants {
		return nil, apperrors.NewCustomError(apperrors.ErrStructuralConflict, "participant limit below current registration count")
	}

	if req.Title != nil {
		event.Title = *req.Title
	}
	if req.Description != nil {
		event.Description = req.Description
	}
	if req.Location != nil {
		event.Location = req.Location
	}
	if req.EventDate != nil {
		event.EventDate = *req.EventDate
	}
	if req.RegistrationDeadline != nil {
		event.RegistrationDeadline = req.RegistrationDeadline
	}
	if req.Price != nil {
		event.Price = *req.Price
	}
	if req.MaxParticipants != nil {
		event.MaxParticipants = req.MaxParticipants
	}

	if err := s.eventRepo.Update(ctx, event); err != nil {
		return nil, err
	}
	return s.GetEventByID(ctx, id)
}

// DeleteEvent removes an event and its registrations
func (s *eventServiceImpl) DeleteEvent(ctx context.Context, p *auth.Principal, id int64) error {
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.guard.AuthorizeEvent(p, event, auth.ActionDelete); err != nil {
		return err
	}

	if err := s.eventRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Int64("eventId", id).Int64("userId", p.UserID).Msg("Event deleted")
	return nil
}

// RegisterForEvent registers the authenticated user for an event. The
// participant counter and the registration row move in one transaction;
// the counter update re-checks capacity so concurrent registrations cannot
// oversell the event.
func (s *eventServiceImpl) RegisterForEvent(ctx context.Context, p *auth.Principal, eventID int64) (*dto.EventRegistrationResponse, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.RegistrationClosed(s.now()) {
		return nil, apperrors.Structural(apperrors.ErrRegistrationClosed)
	}
	if event.IsFull() {
		return nil, apperrors.Structural(apperrors.ErrEventFull)
	}

	reg := &models.EventRegistration{
		EventID: eventID,
		UserID:  p.UserID,
	}

	err = s.txRunner.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if err := s.eventRepo.IncrementParticipants(ctx, tx, eventID); err != nil {
			return err
		}
		id, err := s.eventRepo.CreateRegistration(ctx, tx, reg)
		if err != nil {
			return err
		}
		reg.ID = id
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("eventId", eventID).Int64("userId", p.UserID).Msg("Event registration created")
	resp := dto.NewEventRegistrationResponse(reg)
	return &resp, nil
}

// CancelRegistration removes the authenticated user's registration and
// frees its seat in the same transaction
func (s *eventServiceImpl) CancelRegistration(ctx context.Context, p *auth.Principal, eventID int64) error {
	if _, err := s.eventRepo.GetRegistration(ctx, eventID, p.UserID); err != nil {
		return err
	}

	err := s.txRunner.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if err := s.eventRepo.DeleteRegistration(ctx, tx, eventID, p.UserID); err != nil {
			return err
		}
		return s.eventRepo.DecrementParticipants(ctx, tx, eventID)
	})
	if err != nil {
		return err
	}

	s.logger.Info().Int64("eventId", eventID).Int64("userId", p.UserID).Msg("Event registration cancelled")
	return nil
}

// GetEventRegistrations lists an event's registrations. Restricted to the
// owning company's representative and admins.
func (s *eventServiceImpl) GetEventRegistrations(ctx context.Context, p *auth.Principal, eventID int64) ([]dto.EventRegistrationResponse, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if err := s.guard.AuthorizeEvent(p, event, auth.ActionUpdate); err != nil {
		return nil, err
	}

	regs, err := s.eventRepo.GetRegistrations(ctx, eventID)
	if err != nil {
		return nil, err
	}

	resp := make([]dto.EventRegistrationResponse, 0, len(regs))
	for _, r := range regs {
		resp = append(resp, dto.NewEventRegistrationResponse(r))
	}
	return resp, nil
}
