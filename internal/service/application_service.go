package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Desktoo/WorkEzy-demo/internal/models"
	"github.com/Desktoo/WorkEzy-demo/internal/repository"
	"github.com/Desktoo/WorkEzy-demo/internal/screening"
	"github.com/Desktoo/WorkEzy-demo/pkg/db"
	"github.com/Desktoo/WorkEzy-demo/pkg/helpers"
)

var (
	ErrJobClosed           = errors.New("job is closed for applications")
	ErrAlreadyApplied      = errors.New("candidate has already applied to this job")
	ErrApplicationNotFound = errors.New("application not found or access denied")
)

// FilteringAnswerInput is a candidate's answer to one filtering question.
type FilteringAnswerInput struct {
	QuestionID      string
	CandidateAnswer string
}

// ApplicationService owns the candidate apply flow and the employer's view
// over applications.
type ApplicationService interface {
	// Apply creates the application and scores the filtering answers in one
	// transaction. The filtering verdict is persisted on the application.
	Apply(ctx context.Context, jobID, candidateID string, answers []FilteringAnswerInput) (*models.Application, error)
	GetApplication(ctx context.Context, applicationID, employerID string) (*models.Application, error)
	ListByJob(ctx context.Context, jobID, employerID, status string) ([]models.Application, error)
	// MarkInterested shortlists an APPLIED application.
	MarkInterested(ctx context.Context, applicationID, employerID string) error
}

type applicationService struct {
	sqlDB           *sql.DB
	applicationRepo repository.ApplicationRepository
	jobRepo         repository.JobRepository
	screeningRepo   repository.ScreeningRepository
	idGen           *helpers.IDGenerator
}

func NewApplicationService(
	sqlDB *sql.DB,
	applicationRepo repository.ApplicationRepository,
	jobRepo repository.JobRepository,
	screeningRepo repository.ScreeningRepository,
) ApplicationService {
	return &applicationService{
		sqlDB:           sqlDB,
		applicationRepo: applicationRepo,
		jobRepo:         jobRepo,
		screeningRepo:   screeningRepo,
		idGen:           helpers.NewIDGenerator(),
	}
}

func (s *applicationService) Apply(ctx context.Context, jobID, candidateID string, answers []FilteringAnswerInput) (*models.Application, error) {
	job, err := s.jobRepo.FindByID(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to find job: %w", err)
	}
	if job == nil {
		return nil, ErrJobNotFound
	}
	if job.Status != models.JobActive {
		return nil, ErrJobClosed
	}

	existing, err := s.applicationRepo.FindByJobAndCandidate(ctx, jobID, candidateID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing application: %w", err)
	}
	if existing != nil {
		return nil, ErrAlreadyApplied
	}

	questions, err := s.screeningRepo.ListFilteringQuestions(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to list filtering questions: %w", err)
	}

	expected := make([]screening.FilteringQuestion, 0, len(questions))
	for _, q := range questions {
		expected = append(expected, screening.FilteringQuestion{
			ID:             q.ID,
			ExpectedAnswer: q.ExpectedAnswer,
		})
	}

	given := make([]screening.FilteringAnswer, 0, len(answers))
	for _, a := range answers {
		given = append(given, screening.FilteringAnswer{
			QuestionID:      a.QuestionID,
			CandidateAnswer: a.CandidateAnswer,
		})
	}

	result := screening.EvaluateFiltering(expected, given)

	application := &models.Application{
		ID:             s.idGen.GenerateUUID(),
		JobID:          jobID,
		CandidateID:    candidateID,
		Status:         models.ApplicationApplied,
		FilteringRight: int32(result.Right),
		FilteringWrong: int32(result.Wrong),
		IsFiltered:     result.IsFiltered,
	}

	rows := make([]models.FilteringAnswer, 0, len(answers))
	for _, a := range answers {
		rows = append(rows, models.FilteringAnswer{
			ID:              s.idGen.GenerateUUID(),
			ApplicationID:   application.ID,
			QuestionID:      a.QuestionID,
			CandidateAnswer: strings.TrimSpace(a.CandidateAnswer),
		})
	}

	err = db.WithinTransaction(ctx, s.sqlDB, func(tx *sql.Tx) error {
		if err := s.applicationRepo.CreateTx(ctx, tx, application); err != nil {
			return err
		}
		if len(rows) > 0 {
			if err := s.screeningRepo.CreateFilteringAnswersTx(ctx, tx, rows); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return application, nil
}

func (s *applicationService) GetApplication(ctx context.Context, applicationID, employerID string) (*models.Application, error) {
	application, err := s.applicationRepo.FindByIDForEmployer(ctx, applicationID, employerID)
	if err != nil {
		return nil, fmt.Errorf("failed to find application: %w", err)
	}
	if application == nil {
		return nil, ErrApplicationNotFound
	}

	return application, nil
}

func (s *applicationService) ListByJob(ctx context.Context, jobID, employerID, status string) ([]models.Application, error) {
	job, err := s.jobRepo.FindByIDForEmployer(ctx, jobID, employerID)
	if err != nil {
		return nil, fmt.Errorf("failed to find job: %w", err)
	}
	if job == nil {
		return nil, ErrJobNotFound
	}

	applications, err := s.applicationRepo.ListByJob(ctx, jobID, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}

	return applications, nil
}

func (s *applicationService) MarkInterested(ctx context.Context, applicationID, employerID string) error {
	application, err := s.applicationRepo.FindByIDForEmployer(ctx, applicationID, employerID)
	if err != nil {
		return fmt.Errorf("failed to find application: %w", err)
	}
	if application == nil {
		return ErrApplicationNotFound
	}

	if err := s.applicationRepo.UpdateStatus(ctx, applicationID, models.ApplicationInterested); err != nil {
		return fmt.Errorf("failed to update application status: %w", err)
	}

	return nil
}
