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
	ErrInsufficientCredits = errors.New("insufficient credits on job")
	ErrAttemptLimitReached = errors.New("ai screening attempt limit reached")
	ErrScreeningIncomplete = errors.New("ai screening has no answers yet")
	ErrAnswerNotFound      = errors.New("ai answer not found for application")
)

// AiQuestionInput is one AI-screening question supplied by the employer when
// a screening batch starts.
type AiQuestionInput struct {
	Question       string
	ExpectedAnswer string
}

// AiAnswerInput is a candidate's response to one pending AI answer row.
type AiAnswerInput struct {
	AnswerID        string
	CandidateAnswer string
}

// ScreeningVerdict is the outcome of evaluating a completed AI screening.
type ScreeningVerdict struct {
	ApplicationID string
	Fit           int
	NotFit        int
	IsFit         bool
	Status        string
}

// ScreeningService drives the AI-screening half of the credit workflow:
// batch start (credit debit), candidate answer collection, and the final
// fit verdict.
type ScreeningService interface {
	// StartAiScreening debits one credit per application and creates the
	// question and pending answer rows in a single transaction. One
	// ineligible application rejects the whole batch before any write.
	StartAiScreening(ctx context.Context, employerID, jobID string, applicationIDs []string, questions []AiQuestionInput) error
	// SubmitAiAnswers fills pending answer rows for an application.
	SubmitAiAnswers(ctx context.Context, applicationID string, answers []AiAnswerInput) error
	// EvaluateAiScreening renders the final verdict and moves the
	// application to AI_FIT or AI_NOT_FIT. Rejects when no answers exist.
	EvaluateAiScreening(ctx context.Context, applicationID, employerID string) (*ScreeningVerdict, error)
}

type screeningService struct {
	sqlDB           *sql.DB
	jobRepo         repository.JobRepository
	applicationRepo repository.ApplicationRepository
	screeningRepo   repository.ScreeningRepository
	idGen           *helpers.IDGenerator
}

func NewScreeningService(
	sqlDB *sql.DB,
	jobRepo repository.JobRepository,
	applicationRepo repository.ApplicationRepository,
	screeningRepo repository.ScreeningRepository,
) ScreeningService {
	return &screeningService{
		sqlDB:           sqlDB,
		jobRepo:         jobRepo,
		applicationRepo: applicationRepo,
		screeningRepo:   screeningRepo,
		idGen:           helpers.NewIDGenerator(),
	}
}

func (s *screeningService) StartAiScreening(ctx context.Context, employerID, jobID string, applicationIDs []string, questions []AiQuestionInput) error {
	job, err := s.jobRepo.FindByIDForEmployer(ctx, jobID, employerID)
	if err != nil {
		return fmt.Errorf("failed to find job: %w", err)
	}
	if job == nil {
		return ErrJobNotFound
	}

	if int(job.CreditsUsed)+len(applicationIDs) > int(job.TotalCredits) {
		return ErrInsufficientCredits
	}

	applications, err := s.applicationRepo.FindByIDsForJob(ctx, jobID, applicationIDs)
	if err != nil {
		return fmt.Errorf("failed to find applications: %w", err)
	}
	if len(applications) != len(applicationIDs) {
		return ErrApplicationNotFound
	}
	for _, app := range applications {
		if app.AiAttempts >= models.MaxAiAttempts {
			return ErrAttemptLimitReached
		}
	}

	aiQuestions := make([]models.AiQuestion, 0, len(questions))
	for _, q := range questions {
		aiQuestions = append(aiQuestions, models.AiQuestion{
			ID:             s.idGen.GenerateUUID(),
			JobID:          jobID,
			Question:       strings.TrimSpace(q.Question),
			ExpectedAnswer: strings.TrimSpace(q.ExpectedAnswer),
		})
	}

	pending := make([]models.AiAnswer, 0, len(applications)*len(aiQuestions))
	for _, app := range applications {
		for _, q := range aiQuestions {
			pending = append(pending, models.AiAnswer{
				ID:            s.idGen.GenerateUUID(),
				ApplicationID: app.ID,
				QuestionID:    q.ID,
			})
		}
	}

	return db.WithinTransaction(ctx, s.sqlDB, func(tx *sql.Tx) error {
		// Credits are debited per application screened, not per question.
		// The conditional update re-checks the ceiling so concurrent
		// batches cannot overdraw together.
		debited, err := s.jobRepo.ConsumeCreditsTx(ctx, tx, jobID, len(applications))
		if err != nil {
			return err
		}
		if !debited {
			return ErrInsufficientCredits
		}

		if err := s.screeningRepo.CreateAiQuestionsTx(ctx, tx, aiQuestions); err != nil {
			return err
		}
		if err := s.screeningRepo.CreatePendingAiAnswersTx(ctx, tx, pending); err != nil {
			return err
		}

		for _, app := range applications {
			if err := s.applicationRepo.MarkAiScreenedTx(ctx, tx, app.ID); err != nil {
				return err
			}
		}

		return nil
	})
}

func (s *screeningService) SubmitAiAnswers(ctx context.Context, applicationID string, answers []AiAnswerInput) error {
	for _, a := range answers {
		updated, err := s.screeningRepo.UpdateAiAnswer(ctx, a.AnswerID, applicationID, strings.TrimSpace(a.CandidateAnswer))
		if err != nil {
			return fmt.Errorf("failed to update ai answer: %w", err)
		}
		if !updated {
			return ErrAnswerNotFound
		}
	}

	return nil
}

func (s *screeningService) EvaluateAiScreening(ctx context.Context, applicationID, employerID string) (*ScreeningVerdict, error) {
	application, err := s.applicationRepo.FindByIDForEmployer(ctx, applicationID, employerID)
	if err != nil {
		return nil, fmt.Errorf("failed to find application: %w", err)
	}
	if application == nil {
		return nil, ErrApplicationNotFound
	}

	rows, err := s.screeningRepo.ListAiAnswersWithExpected(ctx, applicationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list ai answers: %w", err)
	}

	flags := make([]screening.AiAnswer, 0, len(rows))
	for _, row := range rows {
		flags = append(flags, screening.AiAnswer{
			IsFit: screening.AnswerIsFit(row.CandidateAnswer, row.ExpectedAnswer),
		})
	}

	result := screening.EvaluateAiFit(flags)
	if !result.IsFinal {
		return nil, ErrScreeningIncomplete
	}

	status := models.ApplicationAiNotFit
	if result.IsFit {
		status = models.ApplicationAiFit
	}

	if err := s.applicationRepo.UpdateStatus(ctx, applicationID, status); err != nil {
		return nil, fmt.Errorf("failed to update application status: %w", err)
	}

	return &ScreeningVerdict{
		ApplicationID: applicationID,
		Fit:           result.Fit,
		NotFit:        result.NotFit,
		IsFit:         result.IsFit,
		Status:        status,
	}, nil
}
