package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Querier is the query surface shared by *pgxpool.Pool and pgx.Tx. Repository
// methods that must join a caller's transaction take a pgx.Tx and fall back
// to the pool when it is nil.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func querier(db *pgxpool.Pool, tx pgx.Tx) Querier {
	if tx != nil {
		return tx
	}
	return db
}

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository             *UserRepository
	InstructorRepository       *InstructorRepository
	CourseRepository           *CourseRepository
	ModuleRepository           *ModuleRepository
	CompanyRepository          *CompanyRepository
	ServiceRepository          *ServiceRepository
	EventRepository            *EventRepository
	EnrollmentRepository       *EnrollmentRepository
	PaymentRepository          *PaymentRepository
	ReviewRepository           *ReviewRepository
	CertificationRepository    *CertificationRepository
	PracticalSessionRepository *PracticalSessionRepository
	FileRepository             *FileRepository
	TokenRepository            *TokenRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepository:             NewUserRepository(db),
		InstructorRepository:       NewInstructorRepository(db),
		CourseRepository:           NewCourseRepository(db),
		ModuleRepository:           NewModuleRepository(db),
		CompanyRepository:          NewCompanyRepository(db),
		ServiceRepository:          NewServiceRepository(db),
		EventRepository:            NewEventRepository(db),
		EnrollmentRepository:       NewEnrollmentRepository(db),
		PaymentRepository:          NewPaymentRepository(db),
		ReviewRepository:           NewReviewRepository(db),
		CertificationRepository:    NewCertificationRepository(db),
		PracticalSessionRepository: NewPracticalSessionRepository(db),
		FileRepository:             NewFileRepository(db),
		TokenRepository:            NewTokenRepository(db),
	}
}
