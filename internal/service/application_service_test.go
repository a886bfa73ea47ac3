package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Desktoo/WorkEzy-demo/internal/models"
	"github.com/Desktoo/WorkEzy-demo/internal/repository"
)

func newApplicationServiceForTest(db *sql.DB) ApplicationService {
	return NewApplicationService(
		db,
		repository.NewApplicationRepository(db),
		repository.NewJobRepository(db),
		repository.NewScreeningRepository(db),
	)
}

func filteringQuestionRows(jobID string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "job_id", "question", "expected_answer", "created_at"}).
		AddRow("q-1", jobID, "Do you own a two-wheeler?", "Yes", time.Now()).
		AddRow("q-2", jobID, "Can you start within a week?", "Yes", time.Now())
}

func TestApplicationService_Apply(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	service := newApplicationServiceForTest(db)

	ctx := context.Background()
	jobID := "job-1"
	candidateID := "cand-1"

	t.Run("PassesOnTie", func(t *testing.T) {
		mock.ExpectQuery("SELECT id, employer_id, plan_id, job_title").
			WithArgs(jobID).
			WillReturnRows(jobRowsForTest(jobID, "emp-1", 10, 0, models.JobActive))

		mock.ExpectQuery("SELECT id, job_id, candidate_id, status").
			WithArgs(jobID, candidateID).
			WillReturnError(sql.ErrNoRows)

		mock.ExpectQuery("SELECT id, job_id, question, expected_answer").
			WithArgs(jobID).
			WillReturnRows(filteringQuestionRows(jobID))

		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO applications").
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectExec("INSERT INTO filtering_answers").WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectExec("INSERT INTO filtering_answers").WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()

		application, err := service.Apply(ctx, jobID, candidateID, []FilteringAnswerInput{
			{QuestionID: "q-1", CandidateAnswer: "  YES "},
			{QuestionID: "q-2", CandidateAnswer: "no"},
		})
		require.NoError(t, err)
		assert.Equal(t, int32(1), application.FilteringRight)
		assert.Equal(t, int32(1), application.FilteringWrong)
		assert.True(t, application.IsFiltered)
		assert.Equal(t, models.ApplicationApplied, application.Status)
	})

	t.Run("JobClosed", func(t *testing.T) {
		mock.ExpectQuery("SELECT id, employer_id, plan_id, job_title").
			WithArgs(jobID).
			WillReturnRows(jobRowsForTest(jobID, "emp-1", 10, 0, models.JobClosed))

		application, err := service.Apply(ctx, jobID, candidateID, nil)
		assert.ErrorIs(t, err, ErrJobClosed)
		assert.Nil(t, application)
	})

	t.Run("DuplicateApplication", func(t *testing.T) {
		mock.ExpectQuery("SELECT id, employer_id, plan_id, job_title").
			WithArgs(jobID).
			WillReturnRows(jobRowsForTest(jobID, "emp-1", 10, 0, models.JobActive))

		mock.ExpectQuery("SELECT id, job_id, candidate_id, status").
			WithArgs(jobID, candidateID).
			WillReturnRows(applicationRowsForTest([][3]interface{}{
				{"app-1", jobID, 0},
			}))

		application, err := service.Apply(ctx, jobID, candidateID, nil)
		assert.ErrorIs(t, err, ErrAlreadyApplied)
		assert.Nil(t, application)
	})

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestApplicationService_MarkInterested(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	service := newApplicationServiceForTest(db)

	ctx := context.Background()
	applicationID := "app-1"
	employerID := "emp-1"

	t.Run("Success", func(t *testing.T) {
		mock.ExpectQuery("SELECT a.id, a.job_id, a.candidate_id").
			WithArgs(applicationID, employerID).
			WillReturnRows(applicationRowsForTest([][3]interface{}{
				{applicationID, "job-1", 0},
			}))

		mock.ExpectExec("UPDATE applications SET status").
			WithArgs(models.ApplicationInterested, sqlmock.AnyArg(), applicationID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := service.MarkInterested(ctx, applicationID, employerID)
		require.NoError(t, err)
	})

	t.Run("NotOwned", func(t *testing.T) {
		mock.ExpectQuery("SELECT a.id, a.job_id, a.candidate_id").
			WithArgs(applicationID, "other-employer").
			WillReturnError(sql.ErrNoRows)

		err := service.MarkInterested(ctx, applicationID, "other-employer")
		assert.ErrorIs(t, err, ErrApplicationNotFound)
	})

	require.NoError(t, mock.ExpectationsWereMet())
}
