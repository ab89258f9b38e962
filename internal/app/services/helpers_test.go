package services

import (
	"context"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/benhmida/formatech/internal/app/auth"
	"github.com/benhmida/formatech/internal/app/models"
	"github.com/benhmida/formatech/internal/app/models/dto"
	"github.com/benhmida/formatech/internal/db"
	"github.com/benhmida/formatech/internal/pkg/apperrors"
	"github.com/benhmida/formatech/internal/pkg/clictopay"
	"github.com/benhmida/formatech/internal/pkg/logger"
)

// fakeTxRunner executes the transaction function directly; repositories
// fall back to their pool when tx is nil, and the in-memory fakes ignore
// it entirely.
type fakeTxRunner struct{}

func (fakeTxRunner) WithTransaction(ctx context.Context, fn db.TransactionFn) error {
	return fn(ctx, nil)
}

var _ db.TxRunner = fakeTxRunner{}

// stubResolver resolves principal links from fixed maps
type stubResolver struct {
	instructorIDs map[int64]int64 // userID -> instructorID
	companyIDs    map[int64]int64 // userID -> companyID
}

func (r stubResolver) InstructorIDByUser(_ context.Context, userID int64) (int64, error) {
	if id, ok := r.instructorIDs[userID]; ok {
		return id, nil
	}
	return 0, apperrors.NotFound(apperrors.ErrInstructorNotFound)
}

func (r stubResolver) CompanyIDByRepresentative(_ context.Context, userID int64) (int64, error) {
	if id, ok := r.companyIDs[userID]; ok {
		return id, nil
	}
	return 0, apperrors.NotFound(apperrors.ErrCompanyNotFound)
}

func adminPrincipal(userID int64) *auth.Principal {
	return auth.NewPrincipal(userID, models.RoleAdmin, stubResolver{})
}

func learnerPrincipal(userID int64) *auth.Principal {
	return auth.NewPrincipal(userID, models.RoleLearner, stubResolver{})
}

func instructorPrincipal(userID, instructorID int64) *auth.Principal {
	return auth.NewPrincipal(userID, models.RoleInstructor, stubResolver{
		instructorIDs: map[int64]int64{userID: instructorID},
	})
}

func companyRepPrincipal(userID, companyID int64) *auth.Principal {
	return auth.NewPrincipal(userID, models.RoleCompanyRep, stubResolver{
		companyIDs: map[int64]int64{userID: companyID},
	})
}

func newGuard() *auth.MutationGuard {
	return auth.NewMutationGuard(auth.NewOwnershipRegistry(), nil)
}

func testLogger() zerolog.Logger {
	return logger.WithFields(map[string]interface{}{"component": "test"})
}

// fakeCourseRepo keeps courses and their instructor memberships in memory
type fakeCourseRepo struct {
	courses     map[int64]*models.Course
	members     map[int64][]int64 // courseID -> instructor ids, insertion ordered
	instructors *fakeInstructorRepo
	nextID      int64

	// beforeGuardedRemove runs at the start of RemoveInstructorKeepingOne,
	// standing in for writes another transaction commits between the
	// service's read and its delete.
	beforeGuardedRemove func()
}

func newFakeCourseRepo(instructors *fakeInstructorRepo) *fakeCourseRepo {
	return &fakeCourseRepo{
		courses:     make(map[int64]*models.Course),
		members:     make(map[int64][]int64),
		instructors: instructors,
		nextID:      100,
	}
}

func (r *fakeCourseRepo) addCourse(course *models.Course, instructorIDs ...int64) *models.Course {
	if course.ID == 0 {
		r.nextID++
		course.ID = r.nextID
	}
	r.courses[course.ID] = course
	r.members[course.ID] = append([]int64{}, instructorIDs...)
	return course
}

func (r *fakeCourseRepo) Create(_ context.Context, _ pgx.Tx, course *models.Course) (int64, error) {
	r.nextID++
	course.ID = r.nextID
	r.courses[course.ID] = course
	return course.ID, nil
}

func (r *fakeCourseRepo) GetByID(_ context.Context, id int64) (*models.Course, error) {
	course, ok := r.courses[id]
	if !ok {
		return nil, apperrors.NotFound(apperrors.ErrCourseNotFound)
	}
	copied := *course
	copied.Instructors = nil
	for _, insID := range r.members[id] {
		if ins, ok := r.instructors.byID[insID]; ok {
			copied.Instructors = append(copied.Instructors, ins)
		} else {
			copied.Instructors = append(copied.Instructors, &models.Instructor{ID: insID})
		}
	}
	return &copied, nil
}

func (r *fakeCourseRepo) GetAll(_ context.Context, _ dto.CourseFilterRequest, _, _ int) ([]*models.Course, int64, error) {
	out := make([]*models.Course, 0, len(r.courses))
	for _, c := range r.courses {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

func (r *fakeCourseRepo) Update(_ context.Context, _ pgx.Tx, course *models.Course) error {
	if _, ok := r.courses[course.ID]; !ok {
		return apperrors.NotFound(apperrors.ErrCourseNotFound)
	}
	r.courses[course.ID] = course
	return nil
}

func (r *fakeCourseRepo) UpdateImage(_ context.Context, courseID int64, fileID *int64) error {
	course, ok := r.courses[courseID]
	if !ok {
		return apperrors.NotFound(apperrors.ErrCourseNotFound)
	}
	course.ImageFileID = fileID
	return nil
}

func (r *fakeCourseRepo) Delete(_ context.Context, _ pgx.Tx, id int64) error {
	if _, ok := r.courses[id]; !ok {
		return apperrors.NotFound(apperrors.ErrCourseNotFound)
	}
	delete(r.courses, id)
	delete(r.members, id)
	return nil
}

func (r *fakeCourseRepo) AddInstructor(_ context.Context, _ pgx.Tx, courseID, instructorID int64) error {
	for _, id := range r.members[courseID] {
		if id == instructorID {
			return nil
		}
	}
	r.members[courseID] = append(r.members[courseID], instructorID)
	return nil
}

func (r *fakeCourseRepo) RemoveInstructor(_ context.Context, _ pgx.Tx, courseID, instructorID int64) error {
	ids := r.members[courseID]
	for i, id := range ids {
		if id == instructorID {
			r.members[courseID] = append(ids[:i:i], ids[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *fakeCourseRepo) RemoveInstructorKeepingOne(_ context.Context, _ pgx.Tx, courseID, instructorID int64) error {
	if r.beforeGuardedRemove != nil {
		r.beforeGuardedRemove()
	}
	ids := r.members[courseID]
	assigned := false
	for _, id := range ids {
		if id == instructorID {
			assigned = true
			break
		}
	}
	if !assigned {
		return apperrors.NotFound(apperrors.ErrInstructorNotFound)
	}
	if len(ids) <= 1 {
		return apperrors.Structural(apperrors.ErrLastInstructor)
	}
	for i, id := range ids {
		if id == instructorID {
			r.members[courseID] = append(ids[:i:i], ids[i+1:]...)
			break
		}
	}
	return nil
}

func (r *fakeCourseRepo) ReplaceInstructors(_ context.Context, _ pgx.Tx, courseID int64, instructorIDs []int64) error {
	r.members[courseID] = append([]int64{}, instructorIDs...)
	return nil
}

func (r *fakeCourseRepo) DetachInstructorFromAll(_ context.Context, _ pgx.Tx, instructorID int64) error {
	for courseID, ids := range r.members {
		kept := ids[:0]
		for _, id := range ids {
			if id != instructorID {
				kept = append(kept, id)
			}
		}
		r.members[courseID] = kept
	}
	return nil
}

func (r *fakeCourseRepo) GetCoursesByInstructorID(_ context.Context, instructorID int64) ([]*models.Course, error) {
	var out []*models.Course
	for courseID, ids := range r.members {
		for _, id := range ids {
			if id == instructorID {
				out = append(out, r.courses[courseID])
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// fakePracticalSessionRepo keeps practical sessions in memory
type fakePracticalSessionRepo struct {
	byID   map[int64]*models.PracticalSession
	nextID int64
}

func newFakePracticalSessionRepo() *fakePracticalSessionRepo {
	return &fakePracticalSessionRepo{byID: make(map[int64]*models.PracticalSession), nextID: 700}
}

func (r *fakePracticalSessionRepo) Create(_ context.Context, session *models.PracticalSession) (int64, error) {
	r.nextID++
	session.ID = r.nextID
	r.byID[session.ID] = session
	return session.ID, nil
}

func (r *fakePracticalSessionRepo) GetByID(_ context.Context, id int64) (*models.PracticalSession, error) {
	session, ok := r.byID[id]
	if !ok {
		return nil, apperrors.NotFound(apperrors.ErrPracticalSessionNotFound)
	}
	return session, nil
}

func (r *fakePracticalSessionRepo) GetByCourseID(_ context.Context, courseID int64) ([]*models.PracticalSession, error) {
	var out []*models.PracticalSession
	for _, s := range r.byID {
		if s.CourseID == courseID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakePracticalSessionRepo) Update(_ context.Context, session *models.PracticalSession) error {
	if _, ok := r.byID[session.ID]; !ok {
		return apperrors.NotFound(apperrors.ErrPracticalSessionNotFound)
	}
	r.byID[session.ID] = session
	return nil
}

func (r *fakePracticalSessionRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.byID[id]; !ok {
		return apperrors.NotFound(apperrors.ErrPracticalSessionNotFound)
	}
	delete(r.byID, id)
	return nil
}

// fakeInstructorRepo keeps instructor profiles in memory
type fakeInstructorRepo struct {
	byID    map[int64]*models.Instructor
	ratings map[int64]*float64
	nextID  int64
}

func newFakeInstructorRepo(instructors ...*models.Instructor) *fakeInstructorRepo {
	r := &fakeInstructorRepo{
		byID:    make(map[int64]*models.Instructor),
		ratings: make(map[int64]*float64),
		nextID:  1,
	}
	for _, ins := range instructors {
		r.byID[ins.ID] = ins
		if ins.ID > r.nextID {
			r.nextID = ins.ID
		}
	}
	return r
}

func (r *fakeInstructorRepo) Create(_ context.Context, instructor *models.Instructor) (int64, error) {
	for _, ins := range r.byID {
		if ins.UserID == instructor.UserID {
			return 0, apperrors.Structural(apperrors.ErrAlreadyInstructor)
		}
	}
	r.nextID++
	instructor.ID = r.nextID
	r.byID[instructor.ID] = instructor
	return instructor.ID, nil
}

func (r *fakeInstructorRepo) GetByID(_ context.Context, id int64) (*models.Instructor, error) {
	ins, ok := r.byID[id]
	if !ok {
		return nil, apperrors.NotFound(apperrors.ErrInstructorNotFound)
	}
	return ins, nil
}

func (r *fakeInstructorRepo) GetByUserID(_ context.Context, userID int64) (*models.Instructor, error) {
	for _, ins := range r.byID {
		if ins.UserID == userID {
			return ins, nil
		}
	}
	return nil, apperrors.NotFound(apperrors.ErrInstructorNotFound)
}

func (r *fakeInstructorRepo) GetAll(_ context.Context, _ *string, _, _ int) ([]*models.Instructor, int64, error) {
	out := make([]*models.Instructor, 0, len(r.byID))
	for _, ins := range r.byID {
		out = append(out, ins)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

func (r *fakeInstructorRepo) ExistingIDs(_ context.Context, ids []int64) (map[int64]bool, error) {
	existing := make(map[int64]bool, len(ids))
	for _, id := range ids {
		if _, ok := r.byID[id]; ok {
			existing[id] = true
		}
	}
	return existing, nil
}

func (r *fakeInstructorRepo) Update(_ context.Context, instructor *models.Instructor) error {
	if _, ok := r.byID[instructor.ID]; !ok {
		return apperrors.NotFound(apperrors.ErrInstructorNotFound)
	}
	r.byID[instructor.ID] = instructor
	return nil
}

func (r *fakeInstructorRepo) UpdateRating(_ context.Context, _ pgx.Tx, instructorID int64, rating *float64) error {
	r.ratings[instructorID] = rating
	if ins, ok := r.byID[instructorID]; ok {
		ins.Rating = rating
	}
	return nil
}

func (r *fakeInstructorRepo) Delete(_ context.Context, _ pgx.Tx, id int64) error {
	if _, ok := r.byID[id]; !ok {
		return apperrors.NotFound(apperrors.ErrInstructorNotFound)
	}
	delete(r.byID, id)
	return nil
}

// fakeModuleRepo keeps course modules in memory
type fakeModuleRepo struct {
	byID   map[int64]*models.Module
	nextID int64
}

func newFakeModuleRepo() *fakeModuleRepo {
	return &fakeModuleRepo{byID: make(map[int64]*models.Module), nextID: 200}
}

func (r *fakeModuleRepo) Create(_ context.Context, module *models.Module) (int64, error) {
	r.nextID++
	module.ID = r.nextID
	r.byID[module.ID] = module
	return module.ID, nil
}

func (r *fakeModuleRepo) GetByID(_ context.Context, id int64) (*models.Module, error) {
	m, ok := r.byID[id]
	if !ok {
		return nil, apperrors.NotFound(apperrors.ErrModuleNotFound)
	}
	return m, nil
}

func (r *fakeModuleRepo) GetByCourseID(_ context.Context, courseID int64) ([]*models.Module, error) {
	var out []*models.Module
	for _, m := range r.byID {
		if m.CourseID == courseID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (r *fakeModuleRepo) Update(_ context.Context, module *models.Module) error {
	if _, ok := r.byID[module.ID]; !ok {
		return apperrors.NotFound(apperrors.ErrModuleNotFound)
	}
	r.byID[module.ID] = module
	return nil
}

func (r *fakeModuleRepo) SetFile(_ context.Context, moduleID int64, fileID *int64) error {
	m, ok := r.byID[moduleID]
	if !ok {
		return apperrors.NotFound(apperrors.ErrModuleNotFound)
	}
	m.FileID = fileID
	return nil
}

func (r *fakeModuleRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.byID[id]; !ok {
		return apperrors.NotFound(apperrors.ErrModuleNotFound)
	}
	delete(r.byID, id)
	return nil
}

// fakeCompanyRepo keeps companies in memory
type fakeCompanyRepo struct {
	byID   map[int64]*models.Company
	nextID int64
}

func newFakeCompanyRepo(companies ...*models.Company) *fakeCompanyRepo {
	r := &fakeCompanyRepo{byID: make(map[int64]*models.Company), nextID: 10}
	for _, c := range companies {
		r.byID[c.ID] = c
		if c.ID > r.nextID {
			r.nextID = c.ID
		}
	}
	return r
}

func (r *fakeCompanyRepo) Create(_ context.Context, company *models.Company) (int64, error) {
	r.nextID++
	company.ID = r.nextID
	r.byID[company.ID] = company
	return company.ID, nil
}

func (r *fakeCompanyRepo) GetByID(_ context.Context, id int64) (*models.Company, error) {
	c, ok := r.byID[id]
	if !ok {
		return nil, apperrors.NotFound(apperrors.ErrCompanyNotFound)
	}
	return c, nil
}

func (r *fakeCompanyRepo) GetByRepresentativeID(_ context.Context, userID int64) (*models.Company, error) {
	for _, c := range r.byID {
		if c.RepresentativeID == userID {
			return c, nil
		}
	}
	return nil, apperrors.NotFound(apperrors.ErrCompanyNotFound)
}

func (r *fakeCompanyRepo) GetAll(_ context.Context, _, _ *string, _, _ int) ([]*models.Company, int64, error) {
	out := make([]*models.Company, 0, len(r.byID))
	for _, c := range r.byID {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

func (r *fakeCompanyRepo) Update(_ context.Context, company *models.Company) error {
	if _, ok := r.byID[company.ID]; !ok {
		return apperrors.NotFound(apperrors.ErrCompanyNotFound)
	}
	r.byID[company.ID] = company
	return nil
}

func (r *fakeCompanyRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.byID[id]; !ok {
		return apperrors.NotFound(apperrors.ErrCompanyNotFound)
	}
	delete(r.byID, id)
	return nil
}

// fakeServiceRepo keeps service catalog entries in memory
type fakeServiceRepo struct {
	byID   map[int64]*models.Service
	nextID int64
}

func newFakeServiceRepo(services ...*models.Service) *fakeServiceRepo {
	r := &fakeServiceRepo{byID: make(map[int64]*models.Service), nextID: 20}
	for _, s := range services {
		r.byID[s.ID] = s
		if s.ID > r.nextID {
			r.nextID = s.ID
		}
	}
	return r
}

func (r *fakeServiceRepo) Create(_ context.Context, service *models.Service) (int64, error) {
	r.nextID++
	service.ID = r.nextID
	r.byID[service.ID] = service
	return service.ID, nil
}

func (r *fakeServiceRepo) GetByID(_ context.Context, id int64) (*models.Service, error) {
	s, ok := r.byID[id]
	if !ok {
		return nil, apperrors.NotFound(apperrors.ErrServiceNotFound)
	}
	return s, nil
}

func (r *fakeServiceRepo) GetAll(_ context.Context, _ *int64, _ *string, _, _ int) ([]*models.Service, int64, error) {
	out := make([]*models.Service, 0, len(r.byID))
	for _, s := range r.byID {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

func (r *fakeServiceRepo) Update(_ context.Context, service *models.Service) error {
	if _, ok := r.byID[service.ID]; !ok {
		return apperrors.NotFound(apperrors.ErrServiceNotFound)
	}
	r.byID[service.ID] = service
	return nil
}

func (r *fakeServiceRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.byID[id]; !ok {
		return apperrors.NotFound(apperrors.ErrServiceNotFound)
	}
	delete(r.byID, id)
	return nil
}

// fakeEventRepo keeps events and registrations in memory
type fakeEventRepo struct {
	byID   map[int64]*models.Event
	regs   map[int64]map[int64]*models.EventRegistration // eventID -> userID -> reg
	nextID int64
}

func newFakeEventRepo(events ...*models.Event) *fakeEventRepo {
	r := &fakeEventRepo{
		byID:   make(map[int64]*models.Event),
		regs:   make(map[int64]map[int64]*models.EventRegistration),
		nextID: 30,
	}
	for _, e := range events {
		r.byID[e.ID] = e
		r.regs[e.ID] = make(map[int64]*models.EventRegistration)
		if e.ID > r.nextID {
			r.nextID = e.ID
		}
	}
	return r
}

func (r *fakeEventRepo) Create(_ context.Context, event *models.Event) (int64, error) {
	r.nextID++
	event.ID = r.nextID
	r.byID[event.ID] = event
	r.regs[event.ID] = make(map[int64]*models.EventRegistration)
	return event.ID, nil
}

func (r *fakeEventRepo) GetByID(_ context.Context, id int64) (*models.Event, error) {
	e, ok := r.byID[id]
	if !ok {
		return nil, apperrors.NotFound(apperrors.ErrEventNotFound)
	}
	return e, nil
}

func (r *fakeEventRepo) GetAll(_ context.Context, _ *int64, _ bool, _, _ int) ([]*models.Event, int64, error) {
	out := make([]*models.Event, 0, len(r.byID))
	for _, e := range r.byID {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

func (r *fakeEventRepo) Update(_ context.Context, event *models.Event) error {
	if _, ok := r.byID[event.ID]; !ok {
		return apperrors.NotFound(apperrors.ErrEventNotFound)
	}
	r.byID[event.ID] = event
	return nil
}

func (r *fakeEventRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.byID[id]; !ok {
		return apperrors.NotFound(apperrors.ErrEventNotFound)
	}
	delete(r.byID, id)
	delete(r.regs, id)
	return nil
}

func (r *fakeEventRepo) CreateRegistration(_ context.Context, _ pgx.Tx, reg *models.EventRegistration) (int64, error) {
	byUser := r.regs[reg.EventID]
	if _, exists := byUser[reg.UserID]; exists {
		return 0, apperrors.Structural(apperrors.ErrAlreadyRegistered)
	}
	r.nextID++
	reg.ID = r.nextID
	reg.RegisteredAt = time.Now()
	byUser[reg.UserID] = reg
	return reg.ID, nil
}

func (r *fakeEventRepo) GetRegistration(_ context.Context, eventID, userID int64) (*models.EventRegistration, error) {
	if reg, ok := r.regs[eventID][userID]; ok {
		return reg, nil
	}
	return nil, apperrors.NotFound(apperrors.ErrEventNotFound)
}

func (r *fakeEventRepo) GetRegistrations(_ context.Context, eventID int64) ([]*models.EventRegistration, error) {
	var out []*models.EventRegistration
	for _, reg := range r.regs[eventID] {
		out = append(out, reg)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeEventRepo) DeleteRegistration(_ context.Context, _ pgx.Tx, eventID, userID int64) error {
	delete(r.regs[eventID], userID)
	return nil
}

func (r *fakeEventRepo) IncrementParticipants(_ context.Context, _ pgx.Tx, eventID int64) error {
	e, ok := r.byID[eventID]
	if !ok {
		return apperrors.NotFound(apperrors.ErrEventNotFound)
	}
	if e.IsFull() {
		return apperrors.Structural(apperrors.ErrEventFull)
	}
	e.CurrentParticipants++
	return nil
}

func (r *fakeEventRepo) DecrementParticipants(_ context.Context, _ pgx.Tx, eventID int64) error {
	if e, ok := r.byID[eventID]; ok && e.CurrentParticipants > 0 {
		e.CurrentParticipants--
	}
	return nil
}

// fakeEnrollmentRepo keeps enrollments in memory
type fakeEnrollmentRepo struct {
	byID   map[int64]*models.Enrollment
	nextID int64
}

func newFakeEnrollmentRepo(enrollments ...*models.Enrollment) *fakeEnrollmentRepo {
	r := &fakeEnrollmentRepo{byID: make(map[int64]*models.Enrollment), nextID: 300}
	for _, e := range enrollments {
		r.byID[e.ID] = e
		if e.ID > r.nextID {
			r.nextID = e.ID
		}
	}
	return r
}

func (r *fakeEnrollmentRepo) Create(_ context.Context, _ pgx.Tx, enrollment *models.Enrollment) (int64, error) {
	for _, e := range r.byID {
		if e.UserID == enrollment.UserID && e.CourseID == enrollment.CourseID {
			return 0, apperrors.Structural(apperrors.ErrAlreadyEnrolled)
		}
	}
	r.nextID++
	enrollment.ID = r.nextID
	enrollment.EnrollmentDate = time.Now()
	r.byID[enrollment.ID] = enrollment
	return enrollment.ID, nil
}

func (r *fakeEnrollmentRepo) GetByID(_ context.Context, id int64) (*models.Enrollment, error) {
	e, ok := r.byID[id]
	if !ok {
		return nil, apperrors.NotFound(apperrors.ErrEnrollmentNotFound)
	}
	return e, nil
}

func (r *fakeEnrollmentRepo) GetByUserAndCourse(_ context.Context, userID, courseID int64) (*models.Enrollment, error) {
	for _, e := range r.byID {
		if e.UserID == userID && e.CourseID == courseID {
			return e, nil
		}
	}
	return nil, apperrors.NotFound(apperrors.ErrEnrollmentNotFound)
}

func (r *fakeEnrollmentRepo) GetByUserID(_ context.Context, userID int64, _, _ int) ([]*models.Enrollment, int64, error) {
	var out []*models.Enrollment
	for _, e := range r.byID {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

func (r *fakeEnrollmentRepo) GetByCourseID(_ context.Context, courseID int64, _, _ int) ([]*models.Enrollment, int64, error) {
	var out []*models.Enrollment
	for _, e := range r.byID {
		if e.CourseID == courseID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

func (r *fakeEnrollmentRepo) UpdateStatus(_ context.Context, _ pgx.Tx, id int64, status models.EnrollmentStatus, completionDate *time.Time) error {
	e, ok := r.byID[id]
	if !ok {
		return apperrors.NotFound(apperrors.ErrEnrollmentNotFound)
	}
	e.Status = status
	if completionDate != nil {
		e.CompletionDate = completionDate
	}
	return nil
}

func (r *fakeEnrollmentRepo) SetPayment(_ context.Context, _ pgx.Tx, id, paymentID int64) error {
	e, ok := r.byID[id]
	if !ok {
		return apperrors.NotFound(apperrors.ErrEnrollmentNotFound)
	}
	e.PaymentID = &paymentID
	return nil
}

func (r *fakeEnrollmentRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.byID[id]; !ok {
		return apperrors.NotFound(apperrors.ErrEnrollmentNotFound)
	}
	delete(r.byID, id)
	return nil
}

// fakeUserRepo keeps user accounts in memory
type fakeUserRepo struct {
	byID   map[int64]*models.User
	nextID int64
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	r := &fakeUserRepo{byID: make(map[int64]*models.User), nextID: 1}
	for _, u := range users {
		r.byID[u.ID] = u
		if u.ID > r.nextID {
			r.nextID = u.ID
		}
	}
	return r
}

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) (int64, error) {
	for _, u := range r.byID {
		if u.Email == user.Email {
			return 0, apperrors.Structural(apperrors.ErrEmailAlreadyExists)
		}
	}
	r.nextID++
	user.ID = r.nextID
	r.byID[user.ID] = user
	return user.ID, nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int64) (*models.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, apperrors.NotFound(apperrors.ErrUserNotFound)
	}
	return u, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range r.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, apperrors.NotFound(apperrors.ErrUserNotFound)
}

func (r *fakeUserRepo) GetAll(_ context.Context, role *models.Role, _ *string, _, _ int) ([]*models.User, int64, error) {
	var out []*models.User
	for _, u := range r.byID {
		if role != nil && u.Role != *role {
			continue
		}
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

func (r *fakeUserRepo) EmailExists(_ context.Context, email string) (bool, error) {
	for _, u := range r.byID {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *models.User) error {
	if _, ok := r.byID[user.ID]; !ok {
		return apperrors.NotFound(apperrors.ErrUserNotFound)
	}
	r.byID[user.ID] = user
	return nil
}

func (r *fakeUserRepo) UpdateRole(_ context.Context, userID int64, role models.Role) error {
	u, ok := r.byID[userID]
	if !ok {
		return apperrors.NotFound(apperrors.ErrUserNotFound)
	}
	u.Role = role
	return nil
}

func (r *fakeUserRepo) SetActive(_ context.Context, userID int64, active bool) error {
	u, ok := r.byID[userID]
	if !ok {
		return apperrors.NotFound(apperrors.ErrUserNotFound)
	}
	u.IsActive = active
	return nil
}

func (r *fakeUserRepo) UpdateLastLogin(_ context.Context, _ int64) error { return nil }

func (r *fakeUserRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.byID[id]; !ok {
		return apperrors.NotFound(apperrors.ErrUserNotFound)
	}
	delete(r.byID, id)
	return nil
}

// fakeTokenRepo keeps refresh tokens in memory
type fakeTokenRepo struct {
	tokens  map[string]int64
	revoked map[string]bool
}

func newFakeTokenRepo() *fakeTokenRepo {
	return &fakeTokenRepo{tokens: make(map[string]int64), revoked: make(map[string]bool)}
}

func (r *fakeTokenRepo) CreateToken(_ context.Context, token string, userID int64, _ time.Time) error {
	r.tokens[token] = userID
	return nil
}

func (r *fakeTokenRepo) GetTokenUser(_ context.Context, token string) (int64, error) {
	userID, ok := r.tokens[token]
	if !ok {
		return 0, apperrors.ErrTokenNotFound
	}
	if r.revoked[token] {
		return 0, apperrors.ErrTokenRevoked
	}
	return userID, nil
}

func (r *fakeTokenRepo) RevokeToken(_ context.Context, token string) error {
	if _, ok := r.tokens[token]; !ok {
		return apperrors.ErrTokenNotFound
	}
	r.revoked[token] = true
	return nil
}

func (r *fakeTokenRepo) RevokeAllUserTokens(_ context.Context, userID int64) error {
	for token, id := range r.tokens {
		if id == userID {
			r.revoked[token] = true
		}
	}
	return nil
}

func (r *fakeTokenRepo) CleanupExpiredTokens(_ context.Context) (int64, error) { return 0, nil }

// fakePaymentRepo keeps payments in memory
type fakePaymentRepo struct {
	byID   map[int64]*models.Payment
	nextID int64
}

func newFakePaymentRepo(payments ...*models.Payment) *fakePaymentRepo {
	r := &fakePaymentRepo{byID: make(map[int64]*models.Payment), nextID: 400}
	for _, p := range payments {
		r.byID[p.ID] = p
		if p.ID > r.nextID {
			r.nextID = p.ID
		}
	}
	return r
}

func (r *fakePaymentRepo) Create(_ context.Context, payment *models.Payment) (int64, error) {
	r.nextID++
	payment.ID = r.nextID
	payment.CreatedAt = time.Now()
	r.byID[payment.ID] = payment
	return payment.ID, nil
}

func (r *fakePaymentRepo) GetByID(_ context.Context, id int64) (*models.Payment, error) {
	p, ok := r.byID[id]
	if !ok {
		return nil, apperrors.NotFound(apperrors.ErrPaymentNotFound)
	}
	return p, nil
}

func (r *fakePaymentRepo) GetByTransactionReference(_ context.Context, reference string) (*models.Payment, error) {
	for _, p := range r.byID {
		if p.TransactionReference == reference {
			return p, nil
		}
	}
	return nil, apperrors.NotFound(apperrors.ErrPaymentNotFound)
}

func (r *fakePaymentRepo) GetByUserID(_ context.Context, userID int64, _, _ int) ([]*models.Payment, int64, error) {
	var out []*models.Payment
	for _, p := range r.byID {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

func (r *fakePaymentRepo) UpdateStatus(_ context.Context, _ pgx.Tx, id int64, status models.PaymentStatus, paymentDate *time.Time) error {
	p, ok := r.byID[id]
	if !ok {
		return apperrors.NotFound(apperrors.ErrPaymentNotFound)
	}
	p.Status = status
	if paymentDate != nil {
		p.PaymentDate = paymentDate
	}
	return nil
}

// fakeReviewRepo keeps reviews in memory and derives instructor averages
// from course memberships held by the paired course repo
type fakeReviewRepo struct {
	byID    map[int64]*models.Review
	courses *fakeCourseRepo
	nextID  int64
}

func newFakeReviewRepo(courses *fakeCourseRepo) *fakeReviewRepo {
	return &fakeReviewRepo{byID: make(map[int64]*models.Review), courses: courses, nextID: 500}
}

func (r *fakeReviewRepo) Create(_ context.Context, _ pgx.Tx, review *models.Review) (int64, error) {
	for _, rv := range r.byID {
		if rv.UserID == review.UserID && rv.CourseID == review.CourseID {
			return 0, apperrors.Structural(apperrors.ErrAlreadyReviewed)
		}
	}
	r.nextID++
	review.ID = r.nextID
	r.byID[review.ID] = review
	return review.ID, nil
}

func (r *fakeReviewRepo) GetByID(_ context.Context, id int64) (*models.Review, error) {
	rv, ok := r.byID[id]
	if !ok {
		return nil, apperrors.NotFound(apperrors.ErrReviewNotFound)
	}
	return rv, nil
}

func (r *fakeReviewRepo) GetByCourseID(_ context.Context, courseID int64, _, _ int) ([]*models.Review, int64, error) {
	var out []*models.Review
	for _, rv := range r.byID {
		if rv.CourseID == courseID {
			out = append(out, rv)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

func (r *fakeReviewRepo) Update(_ context.Context, _ pgx.Tx, review *models.Review) error {
	if _, ok := r.byID[review.ID]; !ok {
		return apperrors.NotFound(apperrors.ErrReviewNotFound)
	}
	r.byID[review.ID] = review
	return nil
}

func (r *fakeReviewRepo) Delete(_ context.Context, _ pgx.Tx, id int64) error {
	if _, ok := r.byID[id]; !ok {
		return apperrors.NotFound(apperrors.ErrReviewNotFound)
	}
	delete(r.byID, id)
	return nil
}

func (r *fakeReviewRepo) AvgRatingForInstructor(_ context.Context, _ pgx.Tx, instructorID int64) (*float64, error) {
	var sum, count float64
	for courseID, members := range r.courses.members {
		assigned := false
		for _, id := range members {
			if id == instructorID {
				assigned = true
			}
		}
		if !assigned {
			continue
		}
		for _, rv := range r.byID {
			if rv.CourseID == courseID {
				sum += float64(rv.Rating)
				count++
			}
		}
	}
	if count == 0 {
		return nil, nil
	}
	avg := sum / count
	return &avg, nil
}

// fakeCertificationRepo keeps certifications in memory
type fakeCertificationRepo struct {
	byID   map[int64]*models.Certification
	nextID int64
}

func newFakeCertificationRepo(certs ...*models.Certification) *fakeCertificationRepo {
	r := &fakeCertificationRepo{byID: make(map[int64]*models.Certification), nextID: 600}
	for _, c := range certs {
		r.byID[c.ID] = c
		if c.ID > r.nextID {
			r.nextID = c.ID
		}
	}
	return r
}

func (r *fakeCertificationRepo) Create(_ context.Context, cert *models.Certification) (int64, error) {
	for _, c := range r.byID {
		if c.UserID == cert.UserID && c.CourseID == cert.CourseID {
			return 0, apperrors.Structural(apperrors.ErrAlreadyCertified)
		}
	}
	r.nextID++
	cert.ID = r.nextID
	r.byID[cert.ID] = cert
	return cert.ID, nil
}

func (r *fakeCertificationRepo) GetByID(_ context.Context, id int64) (*models.Certification, error) {
	c, ok := r.byID[id]
	if !ok {
		return nil, apperrors.NotFound(apperrors.ErrCertificationNotFound)
	}
	return c, nil
}

func (r *fakeCertificationRepo) GetByCode(_ context.Context, code string) (*models.Certification, error) {
	for _, c := range r.byID {
		if c.Code == code {
			return c, nil
		}
	}
	return nil, apperrors.NotFound(apperrors.ErrCertificationNotFound)
}

func (r *fakeCertificationRepo) GetByUserAndCourse(_ context.Context, userID, courseID int64) (*models.Certification, error) {
	for _, c := range r.byID {
		if c.UserID == userID && c.CourseID == courseID {
			return c, nil
		}
	}
	return nil, apperrors.NotFound(apperrors.ErrCertificationNotFound)
}

func (r *fakeCertificationRepo) GetByUserID(_ context.Context, userID int64) ([]*models.Certification, error) {
	var out []*models.Certification
	for _, c := range r.byID {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeCertificationRepo) UpdateStatus(_ context.Context, id int64, status models.CertificationStatus) error {
	c, ok := r.byID[id]
	if !ok {
		return apperrors.NotFound(apperrors.ErrCertificationNotFound)
	}
	c.Status = status
	return nil
}

func (r *fakeCertificationRepo) Renew(_ context.Context, id int64, expiryDate time.Time) error {
	c, ok := r.byID[id]
	if !ok {
		return apperrors.NotFound(apperrors.ErrCertificationNotFound)
	}
	c.ExpiryDate = &expiryDate
	c.Status = models.CertificationActive
	return nil
}

func (r *fakeCertificationRepo) ExpireOverdue(_ context.Context, now time.Time) (int64, error) {
	var count int64
	for _, c := range r.byID {
		if c.Status == models.CertificationActive && c.ExpiryDate != nil && c.ExpiryDate.Before(now) {
			c.Status = models.CertificationExpired
			count++
		}
	}
	return count, nil
}

// fakeGateway records gateway calls and returns scripted outcomes
type fakeGateway struct {
	verifyStatus  clictopay.Status
	initiateErr   error
	refundErr     error
	initiateCalls int
	refundCalls   int
	lastReference string
	lastAmount    float64
}

func (g *fakeGateway) InitiatePayment(_ context.Context, amount float64, _ string, transactionReference string) (string, error) {
	g.initiateCalls++
	g.lastReference = transactionReference
	g.lastAmount = amount
	if g.initiateErr != nil {
		return "", g.initiateErr
	}
	return "tok-" + transactionReference, nil
}

func (g *fakeGateway) VerifyPayment(_ context.Context, _ string) (clictopay.Status, error) {
	return g.verifyStatus, nil
}

func (g *fakeGateway) RefundPayment(_ context.Context, transactionReference string, amount float64) error {
	g.refundCalls++
	g.lastReference = transactionReference
	g.lastAmount = amount
	return g.refundErr
}
