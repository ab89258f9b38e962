package auth

import (
	"context"

	"github.com/benhmida/formatech/internal/app/models"
	"github.com/benhmida/formatech/internal/pkg/apperrors"
	"github.com/benhmida/formatech/internal/pkg/logger"
	"github.com/benhmida/formatech/internal/pkg/metrics"
)

// Action identifies the kind of mutation being guarded
type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// MutationGuard is the single choke point every guarded write passes
// through. Services call it after loading the target entity and before
// applying any field change, so the check always sees current ownership
// state and a denial never leaves a partial write behind.
//
// A denial is terminal: it surfaces as apperrors.ErrPermissionDenied and is
// never retried or downgraded. Denials are logged at warning level.
type MutationGuard struct {
	registry *OwnershipRegistry
	metrics  *metrics.Metrics
}

// NewMutationGuard creates a MutationGuard over the given registry.
// A nil metrics container disables denial counting.
func NewMutationGuard(registry *OwnershipRegistry, m *metrics.Metrics) *MutationGuard {
	return &MutationGuard{registry: registry, metrics: m}
}

// deny logs and counts the denial and returns the canonical permission error
func (g *MutationGuard) deny(p *Principal, entity string, entityID int64, action Action) error {
	logger.Warn().
		Int64("userId", p.UserID).
		Str("role", string(p.Role)).
		Str("entity", entity).
		Int64("entityId", entityID).
		Str("action", string(action)).
		Msg("Mutation denied")
	if g.metrics != nil {
		g.metrics.AuthorizationDenials.WithLabelValues(entity, string(action)).Inc()
	}
	return apperrors.ErrPermissionDenied
}

// AuthorizeCourseCreate allows admins and instructors to create courses.
// The creating instructor is self-assigned to the new course by the course
// service.
func (g *MutationGuard) AuthorizeCourseCreate(ctx context.Context, p *Principal) error {
	if p.IsAdmin() {
		return nil
	}
	if p.Role == models.RoleInstructor {
		// A claimed instructor role without a linked profile fails closed.
		if _, linked, err := p.InstructorID(ctx); err != nil {
			return err
		} else if linked {
			return nil
		}
	}
	return g.deny(p, "course", 0, ActionCreate)
}

// AuthorizeCourse allows admins and the course's assigned instructors to
// update or delete it
func (g *MutationGuard) AuthorizeCourse(ctx context.Context, p *Principal, course *models.Course, action Action) error {
	ok, err := g.registry.IsCourseAuthority(ctx, p, course)
	if err != nil {
		return err
	}
	if !ok {
		return g.deny(p, "course", course.ID, action)
	}
	return nil
}

// AuthorizeCompanyCreate allows admins and company representatives to
// create companies
func (g *MutationGuard) AuthorizeCompanyCreate(p *Principal) error {
	if p.IsAdmin() || p.Role == models.RoleCompanyRep {
		return nil
	}
	return g.deny(p, "company", 0, ActionCreate)
}

// AuthorizeCompany allows admins and the company's representative to
// update or delete it
func (g *MutationGuard) AuthorizeCompany(p *Principal, company *models.Company, action Action) error {
	if !g.registry.IsCompanyAuthority(p, company) {
		return g.deny(p, "company", company.ID, action)
	}
	return nil
}

// AuthorizeEventCreate allows admins and the owning company's
// representative to create events under it
func (g *MutationGuard) AuthorizeEventCreate(p *Principal, company *models.Company) error {
	if !g.registry.IsCompanyAuthority(p, company) {
		return g.deny(p, "event", 0, ActionCreate)
	}
	return nil
}

// AuthorizeEvent allows admins and the owning company's representative to
// update or delete the event
func (g *MutationGuard) AuthorizeEvent(p *Principal, event *models.Event, action Action) error {
	if !g.registry.IsEventAuthority(p, event) {
		return g.deny(p, "event", event.ID, action)
	}
	return nil
}

// AuthorizeServiceCreate allows admins and the owning company's
// representative to create service entries under it
func (g *MutationGuard) AuthorizeServiceCreate(p *Principal, company *models.Company) error {
	if !g.registry.IsCompanyAuthority(p, company) {
		return g.deny(p, "service", 0, ActionCreate)
	}
	return nil
}

// AuthorizeService allows admins and the owning company's representative
// to update or delete the service entry
func (g *MutationGuard) AuthorizeService(p *Principal, service *models.Service, action Action) error {
	if !g.registry.IsServiceAuthority(p, service) {
		return g.deny(p, "service", service.ID, action)
	}
	return nil
}

// AuthorizeReviewCreate allows learners, company representatives and
// admins to write reviews; instructors do not review courses
func (g *MutationGuard) AuthorizeReviewCreate(p *Principal) error {
	switch p.Role {
	case models.RoleLearner, models.RoleCompanyRep, models.RoleAdmin:
		return nil
	}
	return g.deny(p, "review", 0, ActionCreate)
}

// AuthorizeReview allows admins and the review's author to update or
// delete it
func (g *MutationGuard) AuthorizeReview(p *Principal, review *models.Review, action Action) error {
	if !g.registry.IsReviewAuthority(p, review) {
		return g.deny(p, "review", review.ID, action)
	}
	return nil
}
