package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Desktoo/WorkEzy-demo/internal/models"
	"github.com/Desktoo/WorkEzy-demo/internal/repository"
	"github.com/Desktoo/WorkEzy-demo/pkg/db"
	"github.com/Desktoo/WorkEzy-demo/pkg/helpers"
)

var (
	ErrNoActivePlan    = errors.New("no active plan available to post a job")
	ErrPaymentConsumed = errors.New("payment already consumed by another job")
	ErrJobNotFound     = errors.New("job not found or access denied")
)

// jobExpiryWindow is how long a posting stays live.
const jobExpiryWindow = 15 * 24 * time.Hour

// FilteringQuestionInput is one employer-defined screening question supplied
// at job creation.
type FilteringQuestionInput struct {
	Question       string
	ExpectedAnswer string
}

// CreateJobInput is the validated job posting payload.
type CreateJobInput struct {
	JobTitle           string
	Description        string
	City               string
	State              string
	LocationType       string
	JobType            string
	MinExperience      int32
	MinEducation       string
	MinSalary          int64
	MaxSalary          int64
	FilteringQuestions []FilteringQuestionInput
}

// JobService owns the job half of the posting workflow: payment-gated
// creation with the credit snapshot, plus employer job CRUD.
type JobService interface {
	CanPostJob(ctx context.Context, employerID string) (bool, error)
	// CreateJob creates the job and consumes the funding payment in one
	// transaction; at most one job is ever created per payment.
	CreateJob(ctx context.Context, employerID string, input CreateJobInput) (*models.Job, error)
	GetJob(ctx context.Context, jobID, employerID string) (*models.Job, error)
	// GetPublicJob resolves a job for the candidate apply flow, with its
	// filtering questions.
	GetPublicJob(ctx context.Context, jobID string) (*models.Job, []models.FilteringQuestion, error)
	ListJobs(ctx context.Context, employerID string) ([]repository.JobSummary, error)
	UpdateJob(ctx context.Context, employerID, jobID string, input CreateJobInput) (*models.Job, error)
	CloseJob(ctx context.Context, employerID, jobID string) error
}

type jobService struct {
	sqlDB         *sql.DB
	jobRepo       repository.JobRepository
	paymentRepo   repository.PaymentRepository
	planRepo      repository.PlanRepository
	screeningRepo repository.ScreeningRepository
	idGen         *helpers.IDGenerator
}

func NewJobService(
	sqlDB *sql.DB,
	jobRepo repository.JobRepository,
	paymentRepo repository.PaymentRepository,
	planRepo repository.PlanRepository,
	screeningRepo repository.ScreeningRepository,
) JobService {
	return &jobService{
		sqlDB:         sqlDB,
		jobRepo:       jobRepo,
		paymentRepo:   paymentRepo,
		planRepo:      planRepo,
		screeningRepo: screeningRepo,
		idGen:         helpers.NewIDGenerator(),
	}
}

func (s *jobService) CanPostJob(ctx context.Context, employerID string) (bool, error) {
	payment, err := s.paymentRepo.FindActiveByEmployer(ctx, employerID)
	if err != nil {
		return false, fmt.Errorf("failed to find active payment: %w", err)
	}

	return payment != nil, nil
}

func (s *jobService) CreateJob(ctx context.Context, employerID string, input CreateJobInput) (*models.Job, error) {
	payment, err := s.paymentRepo.FindActiveByEmployer(ctx, employerID)
	if err != nil {
		return nil, fmt.Errorf("failed to find active payment: %w", err)
	}
	if payment == nil {
		return nil, ErrNoActivePlan
	}

	plan, err := s.planRepo.FindByID(ctx, payment.PlanID)
	if err != nil {
		return nil, fmt.Errorf("failed to find plan: %w", err)
	}
	if plan == nil {
		return nil, ErrPlanNotFound
	}

	job := &models.Job{
		ID:            s.idGen.GenerateUUID(),
		EmployerID:    employerID,
		PlanID:        plan.ID,
		JobTitle:      input.JobTitle,
		Description:   input.Description,
		City:          input.City,
		State:         input.State,
		LocationType:  input.LocationType,
		JobType:       input.JobType,
		MinExperience: input.MinExperience,
		MinEducation:  input.MinEducation,
		MinSalary:     input.MinSalary,
		MaxSalary:     input.MaxSalary,
		// Credits are a snapshot of the plan at creation time, not a
		// live reference.
		TotalCredits: plan.CreditsPerJob,
		CreditsUsed:  0,
		Status:       models.JobActive,
		ExpiresAt:    time.Now().Add(jobExpiryWindow),
	}

	questions := make([]models.FilteringQuestion, 0, len(input.FilteringQuestions))
	for _, q := range input.FilteringQuestions {
		questions = append(questions, models.FilteringQuestion{
			ID:             s.idGen.GenerateUUID(),
			JobID:          job.ID,
			Question:       strings.TrimSpace(q.Question),
			ExpectedAnswer: strings.TrimSpace(q.ExpectedAnswer),
		})
	}

	err = db.WithinTransaction(ctx, s.sqlDB, func(tx *sql.Tx) error {
		consumed, err := s.paymentRepo.ConsumeTx(ctx, tx, payment.ID)
		if err != nil {
			return err
		}
		if !consumed {
			// A concurrent job creation won the race on this payment.
			return ErrPaymentConsumed
		}

		if err := s.jobRepo.CreateTx(ctx, tx, job); err != nil {
			return err
		}

		if len(questions) > 0 {
			if err := s.screeningRepo.CreateFilteringQuestionsTx(ctx, tx, questions); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return job, nil
}

func (s *jobService) GetJob(ctx context.Context, jobID, employerID string) (*models.Job, error) {
	job, err := s.jobRepo.FindByIDForEmployer(ctx, jobID, employerID)
	if err != nil {
		return nil, fmt.Errorf("failed to find job: %w", err)
	}
	if job == nil {
		return nil, ErrJobNotFound
	}

	return job, nil
}

func (s *jobService) GetPublicJob(ctx context.Context, jobID string) (*models.Job, []models.FilteringQuestion, error) {
	job, err := s.jobRepo.FindByID(ctx, jobID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to find job: %w", err)
	}
	if job == nil {
		return nil, nil, ErrJobNotFound
	}

	questions, err := s.screeningRepo.ListFilteringQuestions(ctx, jobID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list filtering questions: %w", err)
	}

	return job, questions, nil
}

func (s *jobService) ListJobs(ctx context.Context, employerID string) ([]repository.JobSummary, error) {
	summaries, err := s.jobRepo.ListByEmployer(ctx, employerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}

	return summaries, nil
}

func (s *jobService) UpdateJob(ctx context.Context, employerID, jobID string, input CreateJobInput) (*models.Job, error) {
	job, err := s.jobRepo.FindByIDForEmployer(ctx, jobID, employerID)
	if err != nil {
		return nil, fmt.Errorf("failed to find job: %w", err)
	}
	if job == nil {
		return nil, ErrJobNotFound
	}

	job.JobTitle = input.JobTitle
	job.Description = input.Description
	job.City = input.City
	job.State = input.State
	job.LocationType = input.LocationType
	job.JobType = input.JobType
	job.MinExperience = input.MinExperience
	job.MinEducation = input.MinEducation
	job.MinSalary = input.MinSalary
	job.MaxSalary = input.MaxSalary

	if err := s.jobRepo.Update(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to update job: %w", err)
	}

	return job, nil
}

func (s *jobService) CloseJob(ctx context.Context, employerID, jobID string) error {
	job, err := s.jobRepo.FindByIDForEmployer(ctx, jobID, employerID)
	if err != nil {
		return fmt.Errorf("failed to find job: %w", err)
	}
	if job == nil {
		return ErrJobNotFound
	}

	if err := s.jobRepo.UpdateStatus(ctx, jobID, models.JobClosed); err != nil {
		return fmt.Errorf("failed to close job: %w", err)
	}

	return nil
}
