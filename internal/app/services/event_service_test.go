package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benhmida/formatech/internal/app/models"
	"github.com/benhmida/formatech/internal/app/models/dto"
	"github.com/benhmida/formatech/internal/pkg/apperrors"
)

func newEventServiceForTest(events ...*models.Event) (EventService, *fakeEventRepo, *fakeCompanyRepo) {
	companyRepo := newFakeCompanyRepo(
		&models.Company{ID: 10, Name: "PlastiTech", RepresentativeID: 7},
		&models.Company{ID: 11, Name: "PolyForm", RepresentativeID: 8},
	)
	eventRepo := newFakeEventRepo(events...)
	svc := NewEventService(eventRepo, companyRepo, fakeTxRunner{}, newGuard(), testLogger())
	return svc, eventRepo, companyRepo
}

func upcomingEvent(id, companyID int64, maxParticipants *int) *models.Event {
	e := &models.Event{
		ID:              id,
		CompanyID:       companyID,
		Title:           "Open factory day",
		EventDate:       time.Now().Add(48 * time.Hour),
		MaxParticipants: maxParticipants,
	}
	e.Company = &models.Company{ID: companyID, RepresentativeID: 7}
	return e
}

func TestCreateEventDeniedForOtherCompanyRep(t *testing.T) {
	svc, _, _ := newEventServiceForTest()

	// User 8 represents company 11, not company 10.
	_, err := svc.CreateEvent(context.Background(), companyRepPrincipal(8, 11), &dto.CreateEventRequest{
		CompanyID: 10,
		Title:     "Open factory day",
		EventDate: time.Now().Add(48 * time.Hour),
	})
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}

func TestCreateEventAllowedForOwningRep(t *testing.T) {
	svc, _, _ := newEventServiceForTest()

	resp, err := svc.CreateEvent(context.Background(), companyRepPrincipal(7, 10), &dto.CreateEventRequest{
		CompanyID: 10,
		Title:     "Open factory day",
		EventDate: time.Now().Add(48 * time.Hour),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(10), resp.CompanyID)
}

func TestUpdateEventDeniedForNonRepresentative(t *testing.T) {
	svc, _, _ := newEventServiceForTest(upcomingEvent(31, 10, nil))

	title := "Renamed"
	_, err := svc.UpdateEvent(context.Background(), companyRepPrincipal(8, 11), 31, &dto.UpdateEventRequest{Title: &title})
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	_, err = svc.UpdateEvent(context.Background(), learnerPrincipal(20), 31, &dto.UpdateEventRequest{Title: &title})
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}

func TestUpdateEventLimitBelowRegistrationsConflicts(t *testing.T) {
	max := 50
	event := upcomingEvent(31, 10, &max)
	event.CurrentParticipants = 12
	svc, _, _ := newEventServiceForTest(event)

	lower := 10
	_, err := svc.UpdateEvent(context.Background(), adminPrincipal(1), 31, &dto.UpdateEventRequest{MaxParticipants: &lower})
	assert.ErrorIs(t, err, apperrors.ErrStructuralConflict)
}

func TestRegisterForEvent(t *testing.T) {
	max := 2
	svc, eventRepo, _ := newEventServiceForTest(upcomingEvent(31, 10, &max))

	resp, err := svc.RegisterForEvent(context.Background(), learnerPrincipal(20), 31)
	require.NoError(t, err)
	assert.Equal(t, int64(31), resp.EventID)
	assert.Equal(t, 1, eventRepo.byID[31].CurrentParticipants)
}

func TestRegisterForFullEventConflicts(t *testing.T) {
	max := 1
	event := upcomingEvent(31, 10, &max)
	event.CurrentParticipants = 1
	svc, _, _ := newEventServiceForTest(event)

	_, err := svc.RegisterForEvent(context.Background(), learnerPrincipal(20), 31)
	assert.ErrorIs(t, err, apperrors.ErrEventFull)
	assert.ErrorIs(t, err, apperrors.ErrStructuralConflict)
}

func TestRegisterAfterDeadlineConflicts(t *testing.T) {
	event := upcomingEvent(31, 10, nil)
	past := time.Now().Add(-time.Hour)
	event.RegistrationDeadline = &past
	svc, _, _ := newEventServiceForTest(event)

	_, err := svc.RegisterForEvent(context.Background(), learnerPrincipal(20), 31)
	assert.ErrorIs(t, err, apperrors.ErrRegistrationClosed)
}

func TestDuplicateRegistrationConflicts(t *testing.T) {
	svc, _, _ := newEventServiceForTest(upcomingEvent(31, 10, nil))

	_, err := svc.RegisterForEvent(context.Background(), learnerPrincipal(20), 31)
	require.NoError(t, err)

	_, err = svc.RegisterForEvent(context.Background(), learnerPrincipal(20), 31)
	assert.ErrorIs(t, err, apperrors.ErrAlreadyRegistered)
}

func TestCancelRegistrationFreesSeat(t *testing.T) {
	max := 1
	svc, eventRepo, _ := newEventServiceForTest(upcomingEvent(31, 10, &max))

	_, err := svc.RegisterForEvent(context.Background(), learnerPrincipal(20), 31)
	require.NoError(t, err)

	err = svc.CancelRegistration(context.Background(), learnerPrincipal(20), 31)
	require.NoError(t, err)
	assert.Equal(t, 0, eventRepo.byID[31].CurrentParticipants)

	// The freed seat can be taken again.
	_, err = svc.RegisterForEvent(context.Background(), learnerPrincipal(21), 31)
	assert.NoError(t, err)
}

func TestGetEventRegistrationsRestricted(t *testing.T) {
	svc, _, _ := newEventServiceForTest(upcomingEvent(31, 10, nil))

	_, err := svc.GetEventRegistrations(context.Background(), learnerPrincipal(20), 31)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	_, err = svc.GetEventRegistrations(context.Background(), companyRepPrincipal(7, 10), 31)
	assert.NoError(t, err)
}

func TestCompanyMutationDeniedForNonRepresentative(t *testing.T) {
	companyRepo := newFakeCompanyRepo(&models.Company{ID: 10, Name: "PlastiTech", RepresentativeID: 7})
	svc := NewCompanyService(companyRepo, newGuard(), testLogger())

	name := "Renamed"
	_, err := svc.UpdateCompany(context.Background(), companyRepPrincipal(8, 11), 10, &dto.UpdateCompanyRequest{Name: &name})
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	err = svc.DeleteCompany(context.Background(), learnerPrincipal(20), 10)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	// The representative itself may update.
	updated, err := svc.UpdateCompany(context.Background(), companyRepPrincipal(7, 10), 10, &dto.UpdateCompanyRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
}

func TestCompanyRepBecomesRepresentativeOnCreate(t *testing.T) {
	companyRepo := newFakeCompanyRepo()
	svc := NewCompanyService(companyRepo, newGuard(), testLogger())

	other := int64(99)
	resp, err := svc.CreateCompany(context.Background(), companyRepPrincipal(7, 0), &dto.CreateCompanyRequest{
		Name:             "PlastiTech",
		RepresentativeID: &other, // ignored for non-admins
	})
	require.NoError(t, err)
	assert.Equal(t, int64(7), companyRepo.byID[resp.ID].RepresentativeID)
}

func TestServiceMutationDeniedForNonRepresentative(t *testing.T) {
	companyRepo := newFakeCompanyRepo(&models.Company{ID: 10, Name: "PlastiTech", RepresentativeID: 7})
	serviceRepo := newFakeServiceRepo(&models.Service{
		ID: 21, CompanyID: 10, Name: "Mold maintenance",
		Company: &models.Company{ID: 10, RepresentativeID: 7},
	})
	svc := NewServiceCatalogService(serviceRepo, companyRepo, newGuard(), testLogger())

	name := "Renamed"
	_, err := svc.UpdateService(context.Background(), companyRepPrincipal(8, 11), 21, &dto.UpdateServiceRequest{Name: &name})
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	_, err = svc.CreateService(context.Background(), learnerPrincipal(20), &dto.CreateServiceRequest{CompanyID: 10, Name: "Training"})
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	_, err = svc.UpdateService(context.Background(), companyRepPrincipal(7, 10), 21, &dto.UpdateServiceRequest{Name: &name})
	assert.NoError(t, err)
}
