package auth

import (
	"context"
	"errors"

	"github.com/benhmida/formatech/internal/app/models"
	"github.com/benhmida/formatech/internal/pkg/apperrors"
)

// LinkResolver looks up the linking entities that tie a user to authority:
// the instructor profile for INSTRUCTOR users and the represented company
// for COMPANY_REP users. Implemented by the repository layer.
type LinkResolver interface {
	InstructorIDByUser(ctx context.Context, userID int64) (int64, error)
	CompanyIDByRepresentative(ctx context.Context, userID int64) (int64, error)
}

// Principal is the authenticated identity performing a request. It is built
// once per request from the JWT claims and is immutable for the request's
// lifetime; role changes only take effect on the next authentication.
//
// Linking-entity ids are resolved lazily on first use and cached on the
// principal, so repeated authorization checks within one request cost a
// single lookup.
type Principal struct {
	UserID int64
	Role   models.Role

	resolver LinkResolver

	instructorID       int64
	instructorResolved bool
	instructorLinked   bool

	companyID       int64
	companyResolved bool
	companyLinked   bool
}

// NewPrincipal builds a principal for one request
func NewPrincipal(userID int64, role models.Role, resolver LinkResolver) *Principal {
	return &Principal{UserID: userID, Role: role, resolver: resolver}
}

// HasRole reports whether the principal holds the given role
func (p *Principal) HasRole(role models.Role) bool {
	return p.Role == role
}

// IsAdmin reports whether the principal is an administrator
func (p *Principal) IsAdmin() bool {
	return p.Role == models.RoleAdmin
}

// InstructorID resolves the principal's instructor profile id. The second
// return value is false when the principal is not an instructor or has no
// linked profile; a missing profile is not an error here because ownership
// checks fail closed on it.
func (p *Principal) InstructorID(ctx context.Context) (int64, bool, error) {
	if p.Role != models.RoleInstructor {
		return 0, false, nil
	}
	if p.instructorResolved {
		return p.instructorID, p.instructorLinked, nil
	}

	id, err := p.resolver.InstructorIDByUser(ctx, p.UserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrInstructorNotFound) {
			p.instructorResolved = true
			p.instructorLinked = false
			return 0, false, nil
		}
		return 0, false, err
	}

	p.instructorResolved = true
	p.instructorLinked = true
	p.instructorID = id
	return id, true, nil
}

// CompanyID resolves the id of the company the principal represents. The
// second return value is false when the principal is not a company
// representative or represents no company.
func (p *Principal) CompanyID(ctx context.Context) (int64, bool, error) {
	if p.Role != models.RoleCompanyRep {
		return 0, false, nil
	}
	if p.companyResolved {
		return p.companyID, p.companyLinked, nil
	}

	id, err := p.resolver.CompanyIDByRepresentative(ctx, p.UserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrCompanyNotFound) {
			p.companyResolved = true
			p.companyLinked = false
			return 0, false, nil
		}
		return 0, false, err
	}

	p.companyResolved = true
	p.companyLinked = true
	p.companyID = id
	return id, true, nil
}
