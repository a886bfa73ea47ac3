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

func newScreeningServiceForTest(db *sql.DB) ScreeningService {
	return NewScreeningService(
		db,
		repository.NewJobRepository(db),
		repository.NewApplicationRepository(db),
		repository.NewScreeningRepository(db),
	)
}

func applicationRowsForTest(rows [][3]interface{}) *sqlmock.Rows {
	out := sqlmock.NewRows([]string{"id", "job_id", "candidate_id", "status", "ai_attempts", "filtering_right", "filtering_wrong", "is_filtered", "created_at", "updated_at"})
	for _, r := range rows {
		out.AddRow(r[0], r[1], "cand-1", models.ApplicationApplied, r[2], 1, 0, true, time.Now(), time.Now())
	}
	return out
}

func TestScreeningService_StartAiScreening(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	service := newScreeningServiceForTest(db)

	ctx := context.Background()
	employerID := "emp-1"
	jobID := "job-1"
	questions := []AiQuestionInput{
		{Question: "Can you work night shifts?", ExpectedAnswer: "Yes"},
		{Question: "Do you have a driving licence?", ExpectedAnswer: "Yes"},
	}

	t.Run("Success", func(t *testing.T) {
		mock.ExpectQuery("SELECT id, employer_id, plan_id, job_title").
			WithArgs(jobID, employerID).
			WillReturnRows(jobRowsForTest(jobID, employerID, 10, 3, models.JobActive))

		mock.ExpectQuery("SELECT id, job_id, candidate_id, status").
			WithArgs(jobID, "app-1", "app-2").
			WillReturnRows(applicationRowsForTest([][3]interface{}{
				{"app-1", jobID, 0},
				{"app-2", jobID, 1},
			}))

		mock.ExpectBegin()
		mock.ExpectExec("UPDATE jobs").
			WithArgs(2, sqlmock.AnyArg(), jobID, 2).
			WillReturnResult(sqlmock.NewResult(0, 1))
		// Two questions, then one pending answer per application x question.
		mock.ExpectExec("INSERT INTO ai_questions").WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectExec("INSERT INTO ai_questions").WillReturnResult(sqlmock.NewResult(1, 1))
		for i := 0; i < 4; i++ {
			mock.ExpectExec("INSERT INTO ai_answers").WillReturnResult(sqlmock.NewResult(1, 1))
		}
		mock.ExpectExec("UPDATE applications").
			WithArgs(models.ApplicationAiScreened, sqlmock.AnyArg(), "app-1").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("UPDATE applications").
			WithArgs(models.ApplicationAiScreened, sqlmock.AnyArg(), "app-2").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := service.StartAiScreening(ctx, employerID, jobID, []string{"app-1", "app-2"}, questions)
		require.NoError(t, err)
	})

	t.Run("InsufficientCredits", func(t *testing.T) {
		// 9 of 10 credits used; a batch of two would overdraw. No
		// transaction is ever opened.
		mock.ExpectQuery("SELECT id, employer_id, plan_id, job_title").
			WithArgs(jobID, employerID).
			WillReturnRows(jobRowsForTest(jobID, employerID, 10, 9, models.JobActive))

		err := service.StartAiScreening(ctx, employerID, jobID, []string{"app-1", "app-2"}, questions)
		assert.ErrorIs(t, err, ErrInsufficientCredits)
	})

	t.Run("ConcurrentBatchLosesCreditRace", func(t *testing.T) {
		mock.ExpectQuery("SELECT id, employer_id, plan_id, job_title").
			WithArgs(jobID, employerID).
			WillReturnRows(jobRowsForTest(jobID, employerID, 10, 9, models.JobActive))

		mock.ExpectQuery("SELECT id, job_id, candidate_id, status").
			WithArgs(jobID, "app-1").
			WillReturnRows(applicationRowsForTest([][3]interface{}{
				{"app-1", jobID, 0},
			}))

		mock.ExpectBegin()
		// The conditional update matches nothing once another batch has
		// taken the last credit; everything rolls back.
		mock.ExpectExec("UPDATE jobs").
			WithArgs(1, sqlmock.AnyArg(), jobID, 1).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		err := service.StartAiScreening(ctx, employerID, jobID, []string{"app-1"}, questions)
		assert.ErrorIs(t, err, ErrInsufficientCredits)
	})

	t.Run("AttemptLimitBlocksWholeBatch", func(t *testing.T) {
		mock.ExpectQuery("SELECT id, employer_id, plan_id, job_title").
			WithArgs(jobID, employerID).
			WillReturnRows(jobRowsForTest(jobID, employerID, 10, 0, models.JobActive))

		mock.ExpectQuery("SELECT id, job_id, candidate_id, status").
			WithArgs(jobID, "app-1", "app-2").
			WillReturnRows(applicationRowsForTest([][3]interface{}{
				{"app-1", jobID, 0},
				{"app-2", jobID, models.MaxAiAttempts},
			}))

		err := service.StartAiScreening(ctx, employerID, jobID, []string{"app-1", "app-2"}, questions)
		assert.ErrorIs(t, err, ErrAttemptLimitReached)
	})

	t.Run("UnknownApplicationInBatch", func(t *testing.T) {
		mock.ExpectQuery("SELECT id, employer_id, plan_id, job_title").
			WithArgs(jobID, employerID).
			WillReturnRows(jobRowsForTest(jobID, employerID, 10, 0, models.JobActive))

		mock.ExpectQuery("SELECT id, job_id, candidate_id, status").
			WithArgs(jobID, "app-1", "app-missing").
			WillReturnRows(applicationRowsForTest([][3]interface{}{
				{"app-1", jobID, 0},
			}))

		err := service.StartAiScreening(ctx, employerID, jobID, []string{"app-1", "app-missing"}, questions)
		assert.ErrorIs(t, err, ErrApplicationNotFound)
	})

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestScreeningService_EvaluateAiScreening(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	service := newScreeningServiceForTest(db)

	ctx := context.Background()
	employerID := "emp-1"
	applicationID := "app-1"

	t.Run("FitVerdict", func(t *testing.T) {
		mock.ExpectQuery("SELECT a.id, a.job_id, a.candidate_id").
			WithArgs(applicationID, employerID).
			WillReturnRows(applicationRowsForTest([][3]interface{}{
				{applicationID, "job-1", 1},
			}))

		mock.ExpectQuery("SELECT a.id, a.question_id, a.candidate_answer").
			WithArgs(applicationID).
			WillReturnRows(sqlmock.NewRows([]string{"id", "question_id", "candidate_answer", "expected_answer"}).
				AddRow("ans-1", "q-1", "  YES ", "Yes").
				AddRow("ans-2", "q-2", "no", "Yes").
				AddRow("ans-3", "q-3", "yes", "yes"))

		mock.ExpectExec("UPDATE applications SET status").
			WithArgs(models.ApplicationAiFit, sqlmock.AnyArg(), applicationID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		verdict, err := service.EvaluateAiScreening(ctx, applicationID, employerID)
		require.NoError(t, err)
		assert.Equal(t, 2, verdict.Fit)
		assert.Equal(t, 1, verdict.NotFit)
		assert.True(t, verdict.IsFit)
		assert.Equal(t, models.ApplicationAiFit, verdict.Status)
	})

	t.Run("UnansweredCountsAgainst", func(t *testing.T) {
		mock.ExpectQuery("SELECT a.id, a.job_id, a.candidate_id").
			WithArgs(applicationID, employerID).
			WillReturnRows(applicationRowsForTest([][3]interface{}{
				{applicationID, "job-1", 1},
			}))

		mock.ExpectQuery("SELECT a.id, a.question_id, a.candidate_answer").
			WithArgs(applicationID).
			WillReturnRows(sqlmock.NewRows([]string{"id", "question_id", "candidate_answer", "expected_answer"}).
				AddRow("ans-1", "q-1", nil, "Yes").
				AddRow("ans-2", "q-2", nil, "Yes").
				AddRow("ans-3", "q-3", "yes", "Yes"))

		mock.ExpectExec("UPDATE applications SET status").
			WithArgs(models.ApplicationAiNotFit, sqlmock.AnyArg(), applicationID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		verdict, err := service.EvaluateAiScreening(ctx, applicationID, employerID)
		require.NoError(t, err)
		assert.False(t, verdict.IsFit)
		assert.Equal(t, models.ApplicationAiNotFit, verdict.Status)
	})

	t.Run("NoAnswersIsPremature", func(t *testing.T) {
		mock.ExpectQuery("SELECT a.id, a.job_id, a.candidate_id").
			WithArgs(applicationID, employerID).
			WillReturnRows(applicationRowsForTest([][3]interface{}{
				{applicationID, "job-1", 1},
			}))

		mock.ExpectQuery("SELECT a.id, a.question_id, a.candidate_answer").
			WithArgs(applicationID).
			WillReturnRows(sqlmock.NewRows([]string{"id", "question_id", "candidate_answer", "expected_answer"}))

		verdict, err := service.EvaluateAiScreening(ctx, applicationID, employerID)
		assert.ErrorIs(t, err, ErrScreeningIncomplete)
		assert.Nil(t, verdict)
	})

	require.NoError(t, mock.ExpectationsWereMet())
}
