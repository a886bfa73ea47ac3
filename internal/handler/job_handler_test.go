package handler

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Desktoo/WorkEzy-demo/internal/middleware"
	"github.com/Desktoo/WorkEzy-demo/internal/models"
	"github.com/Desktoo/WorkEzy-demo/internal/repository"
	"github.com/Desktoo/WorkEzy-demo/internal/service"
	"github.com/Desktoo/WorkEzy-demo/pkg/helpers"
	"github.com/Desktoo/WorkEzy-demo/pkg/logger"
)

const jobColumnsForTest = "id, employer_id, plan_id, job_title, description, city, state, location_type, job_type, min_experience, min_education, min_salary, max_salary, total_credits, credits_used, status, expires_at, created_at, updated_at"

func jobRowForTest(jobID, employerID string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(strings.Split(jobColumnsForTest, ", ")).
		AddRow(jobID, employerID, "plan-1", "Delivery Executive", "Two-wheeler delivery in south Mumbai",
			"Mumbai", "Maharashtra", "ONSITE", "FULL_TIME",
			0, "10TH", 15000, 22000,
			10, 0, models.JobActive, now.Add(15*24*time.Hour), now, now)
}

func newJobHandlerForTest(db *sql.DB) (*JobHandler, service.TokenService) {
	jobService := service.NewJobService(
		db,
		repository.NewJobRepository(db),
		repository.NewPaymentRepository(db),
		repository.NewPlanRepository(db),
		repository.NewScreeningRepository(db),
	)
	tokenService := service.NewTokenService("test-secret", time.Hour)
	h := NewJobHandler(jobService, helpers.NewCustomValidator(), logger.NewLogger("test"))
	return h, tokenService
}

func TestJobHandler_CreateJob(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	handler, tokenService := newJobHandlerForTest(db)
	protected := middleware.RequireEmployer(tokenService)(http.HandlerFunc(handler.CreateJob))

	employerToken, err := tokenService.Issue("emp-1", service.RoleEmployer)
	require.NoError(t, err)

	body := `{
		"job_title": "Delivery Executive",
		"description": "Two-wheeler delivery in south Mumbai",
		"city": "Mumbai",
		"state": "Maharashtra",
		"location_type": "ONSITE",
		"job_type": "FULL_TIME",
		"min_education": "10TH",
		"min_salary": 15000,
		"max_salary": 22000,
		"filtering_questions": [
			{"question": "Do you own a two-wheeler?", "expected_answer": "Yes"}
		]
	}`

	t.Run("Success", func(t *testing.T) {
		mock.ExpectQuery("SELECT id, employer_id, plan_id, transaction_id").
			WithArgs("emp-1", models.PaymentSuccess).
			WillReturnRows(sqlmock.NewRows([]string{"id", "employer_id", "plan_id", "transaction_id", "provider", "amount", "currency", "status", "is_consumed", "created_at", "updated_at"}).
				AddRow("payment-1", "emp-1", "plan-1", "pay_abc123", "razorpay", "499.00", "INR", models.PaymentSuccess, false, time.Now(), time.Now()))
		mock.ExpectQuery("SELECT id, name, credits_per_job, price").
			WithArgs("plan-1").
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "credits_per_job", "price", "created_at"}).
				AddRow("plan-1", "Starter", 10, "499.00", time.Now()))
		mock.ExpectBegin()
		mock.ExpectExec("UPDATE payments").
			WithArgs(sqlmock.AnyArg(), "payment-1").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO jobs").
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectExec("INSERT INTO filtering_questions").
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()

		req := httptest.NewRequest(http.MethodPost, "/api/jobs", strings.NewReader(body))
		req.Header.Set("Authorization", "Bearer "+employerToken)
		w := httptest.NewRecorder()

		protected.ServeHTTP(w, req)

		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		assert.Contains(t, w.Body.String(), "Delivery Executive")
	})

	t.Run("ValidationError", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/jobs", strings.NewReader(`{"job_title": "x"}`))
		req.Header.Set("Authorization", "Bearer "+employerToken)
		w := httptest.NewRecorder()

		protected.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, w.Body.String(), "errors")
	})

	t.Run("MaxSalaryBelowMinSalary", func(t *testing.T) {
		inverted := strings.Replace(body, `"max_salary": 22000`, `"max_salary": 1000`, 1)
		req := httptest.NewRequest(http.MethodPost, "/api/jobs", strings.NewReader(inverted))
		req.Header.Set("Authorization", "Bearer "+employerToken)
		w := httptest.NewRecorder()

		protected.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, w.Body.String(), "max_salary")
	})

	t.Run("NoActivePayment", func(t *testing.T) {
		mock.ExpectQuery("SELECT id, employer_id, plan_id, transaction_id").
			WithArgs("emp-1", models.PaymentSuccess).
			WillReturnError(sql.ErrNoRows)

		req := httptest.NewRequest(http.MethodPost, "/api/jobs", strings.NewReader(body))
		req.Header.Set("Authorization", "Bearer "+employerToken)
		w := httptest.NewRecorder()

		protected.ServeHTTP(w, req)

		assert.Equal(t, http.StatusPaymentRequired, w.Code)
	})

	t.Run("Unauthenticated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/jobs", strings.NewReader(body))
		w := httptest.NewRecorder()

		protected.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("CandidateTokenRejected", func(t *testing.T) {
		candidateToken, err := tokenService.Issue("cand-1", service.RoleCandidate)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodPost, "/api/jobs", strings.NewReader(body))
		req.Header.Set("Authorization", "Bearer "+candidateToken)
		w := httptest.NewRecorder()

		protected.ServeHTTP(w, req)

		// Wrong role reads as absence, not as forbidden.
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestJobHandler_GetPublicJob(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	handler, _ := newJobHandlerForTest(db)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/public/jobs/{id}", handler.GetPublicJob)

	t.Run("WithholdsExpectedAnswers", func(t *testing.T) {
		mock.ExpectQuery("SELECT id, employer_id, plan_id, job_title").
			WithArgs("job-1").
			WillReturnRows(jobRowForTest("job-1", "emp-1"))
		mock.ExpectQuery("SELECT id, job_id, question, expected_answer").
			WithArgs("job-1").
			WillReturnRows(sqlmock.NewRows([]string{"id", "job_id", "question", "expected_answer", "created_at"}).
				AddRow("fq-1", "job-1", "Do you own a two-wheeler?", "Yes", time.Now()))

		req := httptest.NewRequest(http.MethodGet, "/api/public/jobs/job-1", nil)
		w := httptest.NewRecorder()

		mux.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Contains(t, w.Body.String(), "Do you own a two-wheeler?")
		assert.NotContains(t, w.Body.String(), "expected_answer")
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectQuery("SELECT id, employer_id, plan_id, job_title").
			WithArgs("job-missing").
			WillReturnError(sql.ErrNoRows)

		req := httptest.NewRequest(http.MethodGet, "/api/public/jobs/job-missing", nil)
		w := httptest.NewRecorder()

		mux.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	require.NoError(t, mock.ExpectationsWereMet())
}
