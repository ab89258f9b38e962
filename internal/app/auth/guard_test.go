package auth

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benhmida/formatech/internal/app/models"
	"github.com/benhmida/formatech/internal/pkg/apperrors"
	"github.com/benhmida/formatech/internal/pkg/metrics"
)

// mapResolver resolves links from fixed maps; a missing key behaves like a
// missing row in the repository layer.
type mapResolver struct {
	instructors map[int64]int64 // userID -> instructorID
	companies   map[int64]int64 // userID -> companyID
}

func (r *mapResolver) InstructorIDByUser(_ context.Context, userID int64) (int64, error) {
	if id, ok := r.instructors[userID]; ok {
		return id, nil
	}
	return 0, apperrors.NotFound(apperrors.ErrInstructorNotFound)
}

func (r *mapResolver) CompanyIDByRepresentative(_ context.Context, userID int64) (int64, error) {
	if id, ok := r.companies[userID]; ok {
		return id, nil
	}
	return 0, apperrors.NotFound(apperrors.ErrCompanyNotFound)
}

func testResolver() *mapResolver {
	return &mapResolver{
		instructors: map[int64]int64{12: 5, 13: 6},
		companies:   map[int64]int64{7: 10},
	}
}

func newTestGuard() *MutationGuard {
	return NewMutationGuard(NewOwnershipRegistry(), nil)
}

func TestAuthorizeCourseCreate(t *testing.T) {
	guard := newTestGuard()
	ctx := context.Background()

	assert.NoError(t, guard.AuthorizeCourseCreate(ctx, NewPrincipal(1, models.RoleAdmin, testResolver())))
	assert.NoError(t, guard.AuthorizeCourseCreate(ctx, NewPrincipal(12, models.RoleInstructor, testResolver())))

	err := guard.AuthorizeCourseCreate(ctx, NewPrincipal(20, models.RoleLearner, testResolver()))
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}

func TestAuthorizeCourseCreateFailsClosedOnMissingProfile(t *testing.T) {
	guard := newTestGuard()

	// User 99 claims the instructor role but has no instructor row.
	p := NewPrincipal(99, models.RoleInstructor, testResolver())
	err := guard.AuthorizeCourseCreate(context.Background(), p)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}

func TestAuthorizeCourse(t *testing.T) {
	guard := newTestGuard()
	ctx := context.Background()
	course := &models.Course{
		ID:          101,
		Instructors: []*models.Instructor{{ID: 5, UserID: 12}},
	}

	assert.NoError(t, guard.AuthorizeCourse(ctx, NewPrincipal(1, models.RoleAdmin, testResolver()), course, ActionUpdate))
	assert.NoError(t, guard.AuthorizeCourse(ctx, NewPrincipal(12, models.RoleInstructor, testResolver()), course, ActionUpdate))

	// Instructor 6 is not assigned to the course.
	err := guard.AuthorizeCourse(ctx, NewPrincipal(13, models.RoleInstructor, testResolver()), course, ActionUpdate)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	err = guard.AuthorizeCourse(ctx, NewPrincipal(20, models.RoleLearner, testResolver()), course, ActionDelete)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}

func TestAuthorizeCompany(t *testing.T) {
	guard := newTestGuard()
	company := &models.Company{ID: 10, RepresentativeID: 7}

	assert.NoError(t, guard.AuthorizeCompany(NewPrincipal(1, models.RoleAdmin, testResolver()), company, ActionUpdate))
	assert.NoError(t, guard.AuthorizeCompany(NewPrincipal(7, models.RoleCompanyRep, testResolver()), company, ActionUpdate))

	err := guard.AuthorizeCompany(NewPrincipal(8, models.RoleCompanyRep, testResolver()), company, ActionUpdate)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}

func TestEventAuthorityIsTransitiveThroughCompany(t *testing.T) {
	guard := newTestGuard()
	event := &models.Event{
		ID:        31,
		CompanyID: 10,
		Company:   &models.Company{ID: 10, RepresentativeID: 7},
	}

	assert.NoError(t, guard.AuthorizeEvent(NewPrincipal(7, models.RoleCompanyRep, testResolver()), event, ActionUpdate))

	err := guard.AuthorizeEvent(NewPrincipal(8, models.RoleCompanyRep, testResolver()), event, ActionUpdate)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}

func TestEventAuthorityFailsClosedWithoutCompany(t *testing.T) {
	guard := newTestGuard()
	event := &models.Event{ID: 31, CompanyID: 10}

	// Representative of company 10, but the relation is not populated.
	err := guard.AuthorizeEvent(NewPrincipal(7, models.RoleCompanyRep, testResolver()), event, ActionUpdate)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	// Admins pass regardless.
	assert.NoError(t, guard.AuthorizeEvent(NewPrincipal(1, models.RoleAdmin, testResolver()), event, ActionDelete))
}

func TestServiceAuthorityFailsClosedWithoutCompany(t *testing.T) {
	guard := newTestGuard()

	owned := &models.Service{ID: 41, CompanyID: 10, Company: &models.Company{ID: 10, RepresentativeID: 7}}
	assert.NoError(t, guard.AuthorizeService(NewPrincipal(7, models.RoleCompanyRep, testResolver()), owned, ActionUpdate))

	bare := &models.Service{ID: 41, CompanyID: 10}
	err := guard.AuthorizeService(NewPrincipal(7, models.RoleCompanyRep, testResolver()), bare, ActionUpdate)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}

func TestAuthorizeReviewCreateExcludesInstructors(t *testing.T) {
	guard := newTestGuard()

	assert.NoError(t, guard.AuthorizeReviewCreate(NewPrincipal(20, models.RoleLearner, testResolver())))
	assert.NoError(t, guard.AuthorizeReviewCreate(NewPrincipal(7, models.RoleCompanyRep, testResolver())))
	assert.NoError(t, guard.AuthorizeReviewCreate(NewPrincipal(1, models.RoleAdmin, testResolver())))

	err := guard.AuthorizeReviewCreate(NewPrincipal(12, models.RoleInstructor, testResolver()))
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}

func TestAuthorizeReviewAuthorOnly(t *testing.T) {
	guard := newTestGuard()
	review := &models.Review{ID: 51, UserID: 20, CourseID: 101}

	assert.NoError(t, guard.AuthorizeReview(NewPrincipal(20, models.RoleLearner, testResolver()), review, ActionUpdate))
	assert.NoError(t, guard.AuthorizeReview(NewPrincipal(1, models.RoleAdmin, testResolver()), review, ActionDelete))

	err := guard.AuthorizeReview(NewPrincipal(21, models.RoleLearner, testResolver()), review, ActionUpdate)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}

func TestDeniedMutationsAreCounted(t *testing.T) {
	m := metrics.New()
	guard := NewMutationGuard(NewOwnershipRegistry(), m)
	ctx := context.Background()

	err := guard.AuthorizeCourseCreate(ctx, NewPrincipal(20, models.RoleLearner, testResolver()))
	require.ErrorIs(t, err, apperrors.ErrPermissionDenied)
	assert.Equal(t, float64(1),
		testutil.ToFloat64(m.AuthorizationDenials.WithLabelValues("course", string(ActionCreate))))

	company := &models.Company{ID: 10, RepresentativeID: 7}
	err = guard.AuthorizeCompany(NewPrincipal(8, models.RoleCompanyRep, testResolver()), company, ActionUpdate)
	require.ErrorIs(t, err, apperrors.ErrPermissionDenied)
	assert.Equal(t, float64(1),
		testutil.ToFloat64(m.AuthorizationDenials.WithLabelValues("company", string(ActionUpdate))))

	// A granted mutation leaves the counters untouched.
	require.NoError(t, guard.AuthorizeCompany(NewPrincipal(7, models.RoleCompanyRep, testResolver()), company, ActionUpdate))
	assert.Equal(t, float64(1),
		testutil.ToFloat64(m.AuthorizationDenials.WithLabelValues("company", string(ActionUpdate))))
}

func TestPrincipalLinkResolutionIsCached(t *testing.T) {
	calls := 0
	resolver := &countingResolver{inner: testResolver(), calls: &calls}
	p := NewPrincipal(12, models.RoleInstructor, resolver)
	ctx := context.Background()

	id, linked, err := p.InstructorID(ctx)
	require.NoError(t, err)
	assert.True(t, linked)
	assert.Equal(t, int64(5), id)

	_, _, err = p.InstructorID(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, calls, "second resolution must hit the cache")
}

func TestPrincipalMissingLinkIsCachedToo(t *testing.T) {
	calls := 0
	resolver := &countingResolver{inner: testResolver(), calls: &calls}
	p := NewPrincipal(99, models.RoleCompanyRep, resolver)
	ctx := context.Background()

	_, linked, err := p.CompanyID(ctx)
	require.NoError(t, err)
	assert.False(t, linked)

	_, linked, err = p.CompanyID(ctx)
	require.NoError(t, err)
	assert.False(t, linked)
	assert.Equal(t, 1, calls)
}

func TestPrincipalRoleMismatchShortCircuits(t *testing.T) {
	calls := 0
	resolver := &countingResolver{inner: testResolver(), calls: &calls}

	p := NewPrincipal(20, models.RoleLearner, resolver)
	_, linked, err := p.InstructorID(context.Background())
	require.NoError(t, err)
	assert.False(t, linked)
	_, linked, err = p.CompanyID(context.Background())
	require.NoError(t, err)
	assert.False(t, linked)
	assert.Zero(t, calls)
}

type countingResolver struct {
	inner *mapResolver
	calls *int
}

func (r *countingResolver) InstructorIDByUser(ctx context.Context, userID int64) (int64, error) {
	*r.calls++
	return r.inner.InstructorIDByUser(ctx, userID)
}

func (r *countingResolver) CompanyIDByRepresentative(ctx context.Context, userID int64) (int64, error) {
	*r.calls++
	return r.inner.CompanyIDByRepresentative(ctx, userID)
}
