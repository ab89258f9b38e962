package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/benhmida/formatech/internal/app/models"
	"github.com/benhmida/formatech/internal/pkg/apperrors"
)

// IServiceRepository defines the interface for service database operations
type IServiceRepository interface {
	Create(ctx context.Context, service *models.Service) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Service, error)
	GetAll(ctx context.Context, companyID *int64, category *string, page, pageSize int) ([]*models.Service, int64, error)
	Update(ctx context.Context, service *models.Service) error
	Delete(ctx context.Context, id int64) error
}

// ServiceRepository handles service database operations
type ServiceRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewServiceRepository creates a new ServiceRepository
func NewServiceRepository(db *pgxpool.Pool) *ServiceRepository {
	return &ServiceRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new service and returns its ID
func (r *ServiceRepository) Create(ctx context.Context, service *models.Service) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO services (company_id, name, description, category, price_range)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		service.CompanyID, service.Name, service.Description, service.Category, service.PriceRange).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("error creating service: %w", err)
	}
	return id, nil
}

// GetByID retrieves a service with its owning company populated. Ownership
// checks walk service -> company -> representative, so the company relation
// must be present on the mutation path.
func (r *ServiceRepository) GetByID(ctx context.Context, id int64) (*models.Service, error) {
	service := &models.Service{Company: &models.Company{}}
	err := r.db.QueryRow(ctx, `
		SELECT s.id, s.company_id, s.name, s.description, s.category, s.price_range, s.created_at,
		       c.id, c.name, c.representative_user_id, c.created_at
		FROM services s
		JOIN companies c ON c.id = s.company_id
		WHERE s.id = $1`, id).Scan(
		&service.ID, &service.CompanyID, &service.Name, &service.Description,
		&service.Category, &service.PriceRange, &service.CreatedAt,
		&service.Company.ID, &service.Company.Name, &service.Company.RepresentativeID, &service.Company.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound(apperrors.ErrServiceNotFound)
		}
		return nil, fmt.Errorf("error retrieving service: %w", err)
	}
	return service, nil
}

// GetAll retrieves services with optional company and category filters
func (r *ServiceRepository) GetAll(ctx context.Context, companyID *int64, category *string, page, pageSize int) ([]*models.Service, int64, error) {
	query := r.sb.Select(
		"id", "company_id", "name", "description", "category", "price_range", "created_at",
		"COUNT(*) OVER() AS total_count",
	).From("services")

	if companyID != nil {
		query = query.Where(squirrel.Eq{"company_id": *companyID})
	}
	if category != nil && *category != "" {
		query = query.Where(squirrel.Eq{"category": *category})
	}

	offset := uint64((page - 1) * pageSize)
	sql, args, err := query.OrderBy("id").Limit(uint64(pageSize)).Offset(offset).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build service list query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing services: %w", err)
	}
	defer rows.Close()

	services := []*models.Service{}
	var total int64
	for rows.Next() {
		service := &models.Service{}
		err := rows.Scan(
			&service.ID, &service.CompanyID, &service.Name, &service.Description,
			&service.Category, &service.PriceRange, &service.CreatedAt, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning service row: %w", err)
		}
		services = append(services, service)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating service rows: %w", err)
	}

	return services, total, nil
}

// Update updates a service's fields
func (r *ServiceRepository) Update(ctx context.Context, service *models.Service) error {
	cmdTag, err := r.db.Exec(ctx, `
		UPDATE services
		SET name = $1, description = $2, category = $3, price_range = $4
		WHERE id = $5`,
		service.Name, service.Description, service.Category, service.PriceRange, service.ID)
	if err != nil {
		return fmt.Errorf("error updating service: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NotFound(apperrors.ErrServiceNotFound)
	}
	return nil
}

// Delete removes a service
func (r *ServiceRepository) Delete(ctx context.Context, id int64) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM services WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting service: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NotFound(apperrors.ErrServiceNotFound)
	}
	return nil
}
