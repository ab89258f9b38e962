package auth

import (
	"context"

	"github.com/benhmida/formatech/internal/app/models"
)

// OwnershipRegistry answers "does this principal have authority over this
// entity". It is read-only: every method works on entity graphs the caller
// has already loaded, performs no I/O of its own beyond the principal's
// cached link resolution, and has no side effects.
//
// When a principal claims a role but the linking entity behind it is
// missing (an instructor user with no instructor row, a company rep with no
// company), the checks fail closed and return false.
type OwnershipRegistry struct{}

// NewOwnershipRegistry creates an OwnershipRegistry
func NewOwnershipRegistry() *OwnershipRegistry {
	return &OwnershipRegistry{}
}

// IsAdmin reports whether the principal is an administrator
func (r *OwnershipRegistry) IsAdmin(p *Principal) bool {
	return p.IsAdmin()
}

// IsCourseAuthority reports whether the principal may mutate the course:
// admins always, instructors when their profile is in the course's
// instructor set. The course must carry its instructor set (load contract).
func (r *OwnershipRegistry) IsCourseAuthority(ctx context.Context, p *Principal, course *models.Course) (bool, error) {
	if p.IsAdmin() {
		return true, nil
	}

	instructorID, linked, err := p.InstructorID(ctx)
	if err != nil {
		return false, err
	}
	if !linked {
		return false, nil
	}
	return course.HasInstructor(instructorID), nil
}

// IsCompanyAuthority reports whether the principal may mutate the company:
// admins always, otherwise only its representative.
func (r *OwnershipRegistry) IsCompanyAuthority(p *Principal, company *models.Company) bool {
	if p.IsAdmin() {
		return true
	}
	return company.RepresentativeID == p.UserID
}

// IsEventAuthority reports whether the principal may mutate the event.
// Authority is transitive through the owning company, which must be
// populated on the event (load contract); a missing relation fails closed.
func (r *OwnershipRegistry) IsEventAuthority(p *Principal, event *models.Event) bool {
	if p.IsAdmin() {
		return true
	}
	if event.Company == nil {
		return false
	}
	return r.IsCompanyAuthority(p, event.Company)
}

// IsServiceAuthority reports whether the principal may mutate the service.
// Like events, authority derives from the owning company.
func (r *OwnershipRegistry) IsServiceAuthority(p *Principal, service *models.Service) bool {
	if p.IsAdmin() {
		return true
	}
	if service.Company == nil {
		return false
	}
	return r.IsCompanyAuthority(p, service.Company)
}

// IsReviewAuthority reports whether the principal may mutate the review:
// admins always, otherwise only its author.
func (r *OwnershipRegistry) IsReviewAuthority(p *Principal, review *models.Review) bool {
	if p.IsAdmin() {
		return true
	}
	return review.UserID == p.UserID
}
