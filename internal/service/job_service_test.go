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

func activePaymentRows(paymentID, employerID, planID string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "employer_id", "plan_id", "transaction_id", "provider", "amount", "currency", "status", "is_consumed", "created_at", "updated_at"}).
		AddRow(paymentID, employerID, planID, "pay_abc123", "razorpay", "499.00", "INR", models.PaymentSuccess, false, time.Now(), time.Now())
}

func planRows(planID string, creditsPerJob int32) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "name", "credits_per_job", "price", "created_at"}).
		AddRow(planID, "Starter", creditsPerJob, "499.00", time.Now())
}

func newJobServiceForTest(db *sql.DB) JobService {
	return NewJobService(
		db,
		repository.NewJobRepository(db),
		repository.NewPaymentRepository(db),
		repository.NewPlanRepository(db),
		repository.NewScreeningRepository(db),
	)
}

func TestJobService_CreateJob(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	service := newJobServiceForTest(db)

	ctx := context.Background()
	employerID := "emp-1"
	planID := "plan-1"
	paymentID := "payment-1"

	input := CreateJobInput{
		JobTitle:     "Delivery Executive",
		Description:  "Two-wheeler delivery in south Mumbai",
		City:         "Mumbai",
		State:        "Maharashtra",
		LocationType: "ONSITE",
		JobType:      "FULL_TIME",
		MinSalary:    15000,
		MaxSalary:    22000,
		FilteringQuestions: []FilteringQuestionInput{
			{Question: "Do you own a two-wheeler?", ExpectedAnswer: "Yes"},
		},
	}

	t.Run("Success", func(t *testing.T) {
		mock.ExpectQuery("SELECT id, employer_id, plan_id, transaction_id").
			WithArgs(employerID, models.PaymentSuccess).
			WillReturnRows(activePaymentRows(paymentID, employerID, planID))

		mock.ExpectQuery("SELECT id, name, credits_per_job, price").
			WithArgs(planID).
			WillReturnRows(planRows(planID, 10))

		mock.ExpectBegin()
		mock.ExpectExec("UPDATE payments").
			WithArgs(sqlmock.AnyArg(), paymentID).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO jobs").
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectExec("INSERT INTO filtering_questions").
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()

		job, err := service.CreateJob(ctx, employerID, input)
		require.NoError(t, err)
		require.NotNil(t, job)
		assert.Equal(t, int32(10), job.TotalCredits)
		assert.Equal(t, int32(0), job.CreditsUsed)
		assert.Equal(t, models.JobActive, job.Status)
		assert.WithinDuration(t, time.Now().Add(15*24*time.Hour), job.ExpiresAt, time.Minute)
	})

	t.Run("NoActivePayment", func(t *testing.T) {
		mock.ExpectQuery("SELECT id, employer_id, plan_id, transaction_id").
			WithArgs(employerID, models.PaymentSuccess).
			WillReturnError(sql.ErrNoRows)

		job, err := service.CreateJob(ctx, employerID, input)
		assert.ErrorIs(t, err, ErrNoActivePlan)
		assert.Nil(t, job)
	})

	t.Run("PaymentConsumedByRacingCreate", func(t *testing.T) {
		mock.ExpectQuery("SELECT id, employer_id, plan_id, transaction_id").
			WithArgs(employerID, models.PaymentSuccess).
			WillReturnRows(activePaymentRows(paymentID, employerID, planID))

		mock.ExpectQuery("SELECT id, name, credits_per_job, price").
			WithArgs(planID).
			WillReturnRows(planRows(planID, 10))

		mock.ExpectBegin()
		// Another creator flipped is_consumed first: zero rows match.
		mock.ExpectExec("UPDATE payments").
			WithArgs(sqlmock.AnyArg(), paymentID).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		job, err := service.CreateJob(ctx, employerID, input)
		assert.ErrorIs(t, err, ErrPaymentConsumed)
		assert.Nil(t, job)
	})

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestJobService_CanPostJob(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	service := newJobServiceForTest(db)

	ctx := context.Background()
	employerID := "emp-1"

	t.Run("ActivePaymentExists", func(t *testing.T) {
		mock.ExpectQuery("SELECT id, employer_id, plan_id, transaction_id").
			WithArgs(employerID, models.PaymentSuccess).
			WillReturnRows(activePaymentRows("payment-1", employerID, "plan-1"))

		ok, err := service.CanPostJob(ctx, employerID)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("NoPayment", func(t *testing.T) {
		mock.ExpectQuery("SELECT id, employer_id, plan_id, transaction_id").
			WithArgs(employerID, models.PaymentSuccess).
			WillReturnError(sql.ErrNoRows)

		ok, err := service.CanPostJob(ctx, employerID)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestJobService_CloseJob(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	service := newJobServiceForTest(db)

	ctx := context.Background()
	employerID := "emp-1"
	jobID := "job-1"

	t.Run("Success", func(t *testing.T) {
		mock.ExpectQuery("SELECT id, employer_id, plan_id, job_title").
			WithArgs(jobID, employerID).
			WillReturnRows(jobRowsForTest(jobID, employerID, 10, 0, models.JobActive))

		mock.ExpectExec("UPDATE jobs SET status").
			WithArgs(models.JobClosed, sqlmock.AnyArg(), jobID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := service.CloseJob(ctx, employerID, jobID)
		require.NoError(t, err)
	})

	t.Run("NotOwned", func(t *testing.T) {
		mock.ExpectQuery("SELECT id, employer_id, plan_id, job_title").
			WithArgs(jobID, "other-employer").
			WillReturnError(sql.ErrNoRows)

		err := service.CloseJob(ctx, "other-employer", jobID)
		assert.ErrorIs(t, err, ErrJobNotFound)
	})

	require.NoError(t, mock.ExpectationsWereMet())
}

func jobRowsForTest(jobID, employerID string, totalCredits, creditsUsed int32, status string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "employer_id", "plan_id", "job_title", "description", "city", "state", "location_type", "job_type", "min_experience", "min_education", "min_salary", "max_salary", "total_credits", "credits_used", "status", "expires_at", "created_at", "updated_at"}).
		AddRow(jobID, employerID, "plan-1", "Delivery Executive", "desc", "Mumbai", "Maharashtra", "ONSITE", "FULL_TIME", 0, "10TH", 15000, 22000, totalCredits, creditsUsed, status, time.Now().Add(24*time.Hour), time.Now(), time.Now())
}
