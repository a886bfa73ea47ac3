package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Desktoo/WorkEzy-demo/internal/repository"
	"github.com/Desktoo/WorkEzy-demo/pkg/db"
)

// AccountService handles employer account removal. Deletion first copies the
// employer row into an archive table, then cascades over the employer's
// applications, jobs, and payments, all inside one transaction.
type AccountService interface {
	DeleteEmployerAccount(ctx context.Context, employerID string) error
}

type accountService struct {
	sqlDB           *sql.DB
	employerRepo    repository.EmployerRepository
	jobRepo         repository.JobRepository
	paymentRepo     repository.PaymentRepository
	applicationRepo repository.ApplicationRepository
}

func NewAccountService(
	sqlDB *sql.DB,
	employerRepo repository.EmployerRepository,
	jobRepo repository.JobRepository,
	paymentRepo repository.PaymentRepository,
	applicationRepo repository.ApplicationRepository,
) AccountService {
	return &accountService{
		sqlDB:           sqlDB,
		employerRepo:    employerRepo,
		jobRepo:         jobRepo,
		paymentRepo:     paymentRepo,
		applicationRepo: applicationRepo,
	}
}

func (s *accountService) DeleteEmployerAccount(ctx context.Context, employerID string) error {
	employer, err := s.employerRepo.FindByID(ctx, employerID)
	if err != nil {
		return fmt.Errorf("failed to find employer: %w", err)
	}
	if employer == nil {
		return ErrEmployerNotFound
	}

	return db.WithinTransaction(ctx, s.sqlDB, func(tx *sql.Tx) error {
		if err := s.employerRepo.ArchiveTx(ctx, tx, employerID); err != nil {
			return err
		}

		// Children first, then jobs, then the rest of the employer's rows.
		if err := s.applicationRepo.DeleteByEmployerTx(ctx, tx, employerID); err != nil {
			return err
		}
		if err := s.jobRepo.DeleteByEmployerTx(ctx, tx, employerID); err != nil {
			return err
		}
		if err := s.paymentRepo.DeleteByEmployerTx(ctx, tx, employerID); err != nil {
			return err
		}

		return s.employerRepo.DeleteTx(ctx, tx, employerID)
	})
}
