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

// ICompanyRepository defines the interface for company database operations
type ICompanyRepository interface {
	Create(ctx context.Context, company *models.Company) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Company, error)
	GetByRepresentativeID(ctx context.Context, userID int64) (*models.Company, error)
	GetAll(ctx context.Context, city, search *string, page, pageSize int) ([]*models.Company, int64, error)
	Update(ctx context.Context, company *models.Company) error
	Delete(ctx context.Context, id int64) error
}

// CompanyRepository handles company database operations
type CompanyRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewCompanyRepository creates a new CompanyRepository
func NewCompanyRepository(db *pgxpool.Pool) *CompanyRepository {
	return &CompanyRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

const companyColumns = "id, name, description, address, city, phone, email, website, representative_user_id, created_at"

// Create inserts a new company and returns its ID
func (r *CompanyRepository) Create(ctx context.Context, company *models.Company) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO companies (name, description, address, city, phone, email, website, representative_user_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`,
		company.Name, company.Description, company.Address, company.City,
		company.Phone, company.Email, company.Website, company.RepresentativeID).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("error creating company: %w", err)
	}
	return id, nil
}

// GetByID retrieves a company with its representative populated
func (r *CompanyRepository) GetByID(ctx context.Context, id int64) (*models.Company, error) {
	return r.getOne(ctx, "c.id = $1", id)
}

// GetByRepresentativeID retrieves the company a user represents
func (r *CompanyRepository) GetByRepresentativeID(ctx context.Context, userID int64) (*models.Company, error) {
	return r.getOne(ctx, "c.representative_user_id = $1", userID)
}

func (r *CompanyRepository) getOne(ctx context.Context, where string, arg any) (*models.Company, error) {
	company := &models.Company{Representative: &models.User{}}
	err := r.db.QueryRow(ctx, `
		SELECT c.id, c.name, c.description, c.address, c.city, c.phone, c.email, c.website,
		       c.representative_user_id, c.created_at,
		       u.id, u.email, u.first_name, u.last_name, u.phone, u.role, u.is_active, u.created_at, u.updated_at
		FROM companies c
		JOIN users u ON u.id = c.representative_user_id
		WHERE `+where, arg).Scan(
		&company.ID, &company.Name, &company.Description, &company.Address, &company.City,
		&company.Phone, &company.Email, &company.Website, &company.RepresentativeID, &company.CreatedAt,
		&company.Representative.ID, &company.Representative.Email, &company.Representative.FirstName,
		&company.Representative.LastName, &company.Representative.Phone, &company.Representative.Role,
		&company.Representative.IsActive, &company.Representative.CreatedAt, &company.Representative.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound(apperrors.ErrCompanyNotFound)
		}
		return nil, fmt.Errorf("error retrieving company: %w", err)
	}
	return company, nil
}

// GetAll retrieves companies with optional city filter and name search
func (r *CompanyRepository) GetAll(ctx context.Context, city, search *string, page, pageSize int) ([]*models.Company, int64, error) {
	query := r.sb.Select(companyColumns, "COUNT(*) OVER() AS total_count").From("companies")

	if city != nil && *city != "" {
		query = query.Where(squirrel.Eq{"city": *city})
	}
	if search != nil && *search != "" {
		query = query.Where(squirrel.ILike{"name": "%" + *search + "%"})
	}

	offset := uint64((page - 1) * pageSize)
	sql, args, err := query.OrderBy("id").Limit(uint64(pageSize)).Offset(offset).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build company list query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing companies: %w", err)
	}
	defer rows.Close()

	companies := []*models.Company{}
	var total int64
	for rows.Next() {
		company := &models.Company{}
		err := rows.Scan(
			&company.ID, &company.Name, &company.Description, &company.Address, &company.City,
			&company.Phone, &company.Email, &company.Website, &company.RepresentativeID,
			&company.CreatedAt, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning company row: %w", err)
		}
		companies = append(companies, company)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating company rows: %w", err)
	}

	return companies, total, nil
}

// Update updates a company's fields. The representative link is immutable
// outside of admin-level tooling.
func (r *CompanyRepository) Update(ctx context.Context, company *models.Company) error {
	cmdTag, err := r.db.Exec(ctx, `
		UPDATE companies
		SET name = $1, description = $2, address = $3, city = $4, phone = $5, email = $6, website = $7
		WHERE id = $8`,
		company.Name, company.Description, company.Address, company.City,
		company.Phone, company.Email, company.Website, company.ID)
	if err != nil {
		return fmt.Errorf("error updating company: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NotFound(apperrors.ErrCompanyNotFound)
	}
	return nil
}

// Delete removes a company; its services and events cascade
func (r *CompanyRepository) Delete(ctx context.Context, id int64) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM companies WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting company: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NotFound(apperrors.ErrCompanyNotFound)
	}
	return nil
}
