package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/benhmida/formatech/internal/app/models"
	"github.com/benhmida/formatech/internal/pkg/apperrors"
	"github.com/benhmida/formatech/internal/pkg/dberrors"
)

// IEventRepository defines the interface for event database operations
type IEventRepository interface {
	Create(ctx context.Context, event *models.Event) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Event, error)
	GetAll(ctx context.Context, companyID *int64, upcomingOnly bool, page, pageSize int) ([]*models.Event, int64, error)
	Update(ctx context.Context, event *models.Event) error
	Delete(ctx context.Context, id int64) error

	CreateRegistration(ctx context.Context, tx pgx.Tx, reg *models.EventRegistration) (int64, error)
	GetRegistration(ctx context.Context, eventID, userID int64) (*models.EventRegistration, error)
	GetRegistrations(ctx context.Context, eventID int64) ([]*models.EventRegistration, error)
	DeleteRegistration(ctx context.Context, tx pgx.Tx, eventID, userID int64) error
	IncrementParticipants(ctx context.Context, tx pgx.Tx, eventID int64) error
	DecrementParticipants(ctx context.Context, tx pgx.Tx, eventID int64) error
}

// EventRepository handles event database operations
type EventRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewEventRepository creates a new EventRepository
func NewEventRepository(db *pgxpool.Pool) *EventRepository {
	return &EventRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

const eventColumns = "id, company_id, title, description, location, event_date, registration_deadline, price, max_participants, current_participants, created_at"

// Create inserts a new event and returns its ID
func (r *EventRepository) Create(ctx context.Context, event *models.Event) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO events (company_id, title, description, location, event_date, registration_deadline, price, max_participants)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`,
		event.CompanyID, event.Title, event.Description, event.Location,
		event.EventDate, event.RegistrationDeadline, event.Price, event.MaxParticipants).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("error creating event: %w", err)
	}
	return id, nil
}

// GetByID retrieves an event with its owning company populated
func (r *EventRepository) GetByID(ctx context.Context, id int64) (*models.Event, error) {
	event := &models.Event{Company: &models.Company{}}
	err := r.db.QueryRow(ctx, `
		SELECT e.id, e.company_id, e.title, e.description, e.location, e.event_date,
		       e.registration_deadline, e.price, e.max_participants, e.current_participants, e.created_at,
		       c.id, c.name, c.representative_user_id, c.created_at
		FROM events e
		JOIN companies c ON c.id = e.company_id
		WHERE e.id = $1`, id).Scan(
		&event.ID, &event.CompanyID, &event.Title, &event.Description, &event.Location,
		&event.EventDate, &event.RegistrationDeadline, &event.Price, &event.MaxParticipants,
		&event.CurrentParticipants, &event.CreatedAt,
		&event.Company.ID, &event.Company.Name, &event.Company.RepresentativeID, &event.Company.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound(apperrors.ErrEventNotFound)
		}
		return nil, fmt.Errorf("error retrieving event: %w", err)
	}
	return event, nil
}

// GetAll retrieves events with optional company filter, optionally limited
// to events that have not yet taken place
func (r *EventRepository) GetAll(ctx context.Context, companyID *int64, upcomingOnly bool, page, pageSize int) ([]*models.Event, int64, error) {
	query := r.sb.Select(eventColumns, "COUNT(*) OVER() AS total_count").From("events")

	if companyID != nil {
		query = query.Where(squirrel.Eq{"company_id": *companyID})
	}
	if upcomingOnly {
		query = query.Where(squirrel.Gt{"event_date": time.Now()})
	}

	offset := uint64((page - 1) * pageSize)
	sql, args, err := query.OrderBy("event_date").Limit(uint64(pageSize)).Offset(offset).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build event list query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing events: %w", err)
	}
	defer rows.Close()

	events := []*models.Event{}
	var total int64
	for rows.Next() {
		event := &models.Event{}
		err := rows.Scan(
			&event.ID, &event.CompanyID, &event.Title, &event.Description, &event.Location,
			&event.EventDate, &event.RegistrationDeadline, &event.Price, &event.MaxParticipants,
			&event.CurrentParticipants, &event.CreatedAt, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning event row: %w", err)
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating event rows: %w", err)
	}

	return events, total, nil
}

// Update updates an event's fields
func (r *EventRepository) Update(ctx context.Context, event *models.Event) error {
	cmdTag, err := r.db.Exec(ctx, `
		UPDATE events
		SET title = $1, description = $2, location = $3, event_date = $4,
		    registration_deadline = $5, price = $6, max_participants = $7
		WHERE id = $8`,
		event.Title, event.Description, event.Location, event.EventDate,
		event.RegistrationDeadline, event.Price, event.MaxParticipants, event.ID)
	if err != nil {
		return fmt.Errorf("error updating event: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NotFound(apperrors.ErrEventNotFound)
	}
	return nil
}

// Delete removes an event; registrations cascade
func (r *EventRepository) Delete(ctx context.Context, id int64) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting event: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NotFound(apperrors.ErrEventNotFound)
	}
	return nil
}

// CreateRegistration records a user's registration for an event
func (r *EventRepository) CreateRegistration(ctx context.Context, tx pgx.Tx, reg *models.EventRegistration) (int64, error) {
	q := querier(r.db, tx)
	var id int64
	err := q.QueryRow(ctx, `
		INSERT INTO event_registrations (event_id, user_id, payment_id)
		VALUES ($1, $2, $3)
		RETURNING id`,
		reg.EventID, reg.UserID, reg.PaymentID).Scan(&id)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return 0, apperrors.Structural(apperrors.ErrAlreadyRegistered)
		}
		return 0, fmt.Errorf("error creating event registration: %w", err)
	}
	return id, nil
}

// GetRegistration retrieves a user's registration for an event
func (r *EventRepository) GetRegistration(ctx context.Context, eventID, userID int64) (*models.EventRegistration, error) {
	reg := &models.EventRegistration{}
	err := r.db.QueryRow(ctx, `
		SELECT id, event_id, user_id, payment_id, registered_at
		FROM event_registrations
		WHERE event_id = $1 AND user_id = $2`, eventID, userID).Scan(
		&reg.ID, &reg.EventID, &reg.UserID, &reg.PaymentID, &reg.RegisteredAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound(apperrors.ErrEventNotFound)
		}
		return nil, fmt.Errorf("error retrieving event registration: %w", err)
	}
	return reg, nil
}

// GetRegistrations retrieves all registrations for an event
func (r *EventRepository) GetRegistrations(ctx context.Context, eventID int64) ([]*models.EventRegistration, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, event_id, user_id, payment_id, registered_at
		FROM event_registrations
		WHERE event_id = $1
		ORDER BY registered_at`, eventID)
	if err != nil {
		return nil, fmt.Errorf("error listing event registrations: %w", err)
	}
	defer rows.Close()

	regs := []*models.EventRegistration{}
	for rows.Next() {
		reg := &models.EventRegistration{}
		if err := rows.Scan(&reg.ID, &reg.EventID, &reg.UserID, &reg.PaymentID, &reg.RegisteredAt); err != nil {
			return nil, fmt.Errorf("error scanning event registration row: %w", err)
		}
		regs = append(regs, reg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating event registration rows: %w", err)
	}

	return regs, nil
}

// DeleteRegistration removes a user's registration for an event
func (r *EventRepository) DeleteRegistration(ctx context.Context, tx pgx.Tx, eventID, userID int64) error {
	q := querier(r.db, tx)
	cmdTag, err := q.Exec(ctx, `
		DELETE FROM event_registrations WHERE event_id = $1 AND user_id = $2`,
		eventID, userID)
	if err != nil {
		return fmt.Errorf("error deleting event registration: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NotFound(apperrors.ErrEventNotFound)
	}
	return nil
}

// IncrementParticipants bumps the participant counter. The guard clause
// rejects the update when the event is already full so two concurrent
// registrations cannot overshoot the limit.
func (r *EventRepository) IncrementParticipants(ctx context.Context, tx pgx.Tx, eventID int64) error {
	q := querier(r.db, tx)
	cmdTag, err := q.Exec(ctx, `
		UPDATE events
		SET current_participants = current_participants + 1
		WHERE id = $1
		  AND (max_participants IS NULL OR current_participants < max_participants)`,
		eventID)
	if err != nil {
		return fmt.Errorf("error incrementing event participants: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.Structural(apperrors.ErrEventFull)
	}
	return nil
}

// DecrementParticipants lowers the participant counter, never below zero
func (r *EventRepository) DecrementParticipants(ctx context.Context, tx pgx.Tx, eventID int64) error {
	q := querier(r.db, tx)
	cmdTag, err := q.Exec(ctx, `
		UPDATE events
		SET current_participants = current_participants - 1
		WHERE id = $1 AND current_participants > 0`,
		eventID)
	if err != nil {
		return fmt.Errorf("error decrementing event participants: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NotFound(apperrors.ErrEventNotFound)
	}
	return nil
}
