package repositories

import (
	"context"
)

// LinkResolver resolves role linking entities for authorization: the
// instructor profile behind an INSTRUCTOR user and the represented company
// behind a COMPANY_REP user. It satisfies auth.LinkResolver.
type LinkResolver struct {
	instructorRepo IInstructorRepository
	companyRepo    ICompanyRepository
}

// NewLinkResolver creates a LinkResolver over the given repositories
func NewLinkResolver(instructorRepo IInstructorRepository, companyRepo ICompanyRepository) *LinkResolver {
	return &LinkResolver{
		instructorRepo: instructorRepo,
		companyRepo:    companyRepo,
	}
}

// InstructorIDByUser returns the id of the instructor profile linked to the
// user, or apperrors.ErrInstructorNotFound when the user has none
func (r *LinkResolver) InstructorIDByUser(ctx context.Context, userID int64) (int64, error) {
	instructor, err := r.instructorRepo.GetByUserID(ctx, userID)
	if err != nil {
		return 0, err
	}
	return instructor.ID, nil
}

// CompanyIDByRepresentative returns the id of the company the user
// represents, or apperrors.ErrCompanyNotFound when the user represents none
func (r *LinkResolver) CompanyIDByRepresentative(ctx context.Context, userID int64) (int64, error) {
	company, err := r.companyRepo.GetByRepresentativeID(ctx, userID)
	if err != nil {
		return 0, err
	}
	return company.ID, nil
}
