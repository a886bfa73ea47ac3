package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Desktoo/WorkEzy-demo/internal/models"
)

// JobSummary is a listing row with its application count.
type JobSummary struct {
	Job               models.Job
	ApplicationsCount int
}

type JobRepository interface {
	CreateTx(ctx context.Context, tx *sql.Tx, job *models.Job) error
	FindByID(ctx context.Context, id string) (*models.Job, error)
	// FindByIDForEmployer scopes the lookup to the owning employer; a job
	// owned by someone else reads as absent.
	FindByIDForEmployer(ctx context.Context, id, employerID string) (*models.Job, error)
	ListByEmployer(ctx context.Context, employerID string) ([]JobSummary, error)
	Update(ctx context.Context, job *models.Job) error
	UpdateStatus(ctx context.Context, id, status string) error
	// ConsumeCreditsTx performs the atomic check-and-increment: the UPDATE
	// only matches while the job still has n credits available, so
	// concurrent screenings cannot together exceed total_credits.
	ConsumeCreditsTx(ctx context.Context, tx *sql.Tx, jobID string, n int) (bool, error)
	DeleteByEmployerTx(ctx context.Context, tx *sql.Tx, employerID string) error
}

type jobRepository struct {
	db *sql.DB
}

func NewJobRepository(db *sql.DB) JobRepository {
	return &jobRepository{db: db}
}

const jobColumns = `id, employer_id, plan_id, job_title, description, city, state, location_type, job_type, min_experience, min_education, min_salary, max_salary, total_credits, credits_used, status, expires_at, created_at, updated_at`

func (r *jobRepository) CreateTx(ctx context.Context, tx *sql.Tx, job *models.Job) error {
	query := `
		INSERT INTO jobs (id, employer_id, plan_id, job_title, description, city, state, location_type, job_type, min_experience, min_education, min_salary, max_salary, total_credits, credits_used, status, expires_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	now := time.Now()
	_, err := tx.ExecContext(ctx, query,
		job.ID, job.EmployerID, job.PlanID, job.JobTitle, job.Description,
		job.City, job.State, job.LocationType, job.JobType,
		job.MinExperience, job.MinEducation, job.MinSalary, job.MaxSalary,
		job.TotalCredits, job.CreditsUsed, job.Status, job.ExpiresAt, now, now)
	if err != nil {
		return fmt.Errorf("failed to create job: %w", err)
	}

	return nil
}

func (r *jobRepository) FindByID(ctx context.Context, id string) (*models.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE id = ?`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *jobRepository) FindByIDForEmployer(ctx context.Context, id, employerID string) (*models.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE id = ? AND employer_id = ?`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id, employerID))
}

func (r *jobRepository) scanOne(row *sql.Row) (*models.Job, error) {
	job := &models.Job{}
	err := row.Scan(
		&job.ID, &job.EmployerID, &job.PlanID, &job.JobTitle, &job.Description,
		&job.City, &job.State, &job.LocationType, &job.JobType,
		&job.MinExperience, &job.MinEducation, &job.MinSalary, &job.MaxSalary,
		&job.TotalCredits, &job.CreditsUsed, &job.Status, &job.ExpiresAt,
		&job.CreatedAt, &job.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find job: %w", err)
	}
	return job, nil
}

func (r *jobRepository) ListByEmployer(ctx context.Context, employerID string) ([]JobSummary, error) {
	query := `
		SELECT j.id, j.employer_id, j.plan_id, j.job_title, j.description, j.city, j.state, j.location_type, j.job_type, j.min_experience, j.min_education, j.min_salary, j.max_salary, j.total_credits, j.credits_used, j.status, j.expires_at, j.created_at, j.updated_at, COUNT(a.id)
		FROM jobs j
		LEFT JOIN applications a ON a.job_id = j.id
		WHERE j.employer_id = ?
		GROUP BY j.id
		ORDER BY j.created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, employerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	defer rows.Close()

	var summaries []JobSummary
	for rows.Next() {
		var s JobSummary
		if err := rows.Scan(
			&s.Job.ID, &s.Job.EmployerID, &s.Job.PlanID, &s.Job.JobTitle, &s.Job.Description,
			&s.Job.City, &s.Job.State, &s.Job.LocationType, &s.Job.JobType,
			&s.Job.MinExperience, &s.Job.MinEducation, &s.Job.MinSalary, &s.Job.MaxSalary,
			&s.Job.TotalCredits, &s.Job.CreditsUsed, &s.Job.Status, &s.Job.ExpiresAt,
			&s.Job.CreatedAt, &s.Job.UpdatedAt, &s.ApplicationsCount,
		); err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate jobs: %w", err)
	}

	return summaries, nil
}

func (r *jobRepository) Update(ctx context.Context, job *models.Job) error {
	query := `
		UPDATE jobs
		SET job_title = ?, description = ?, city = ?, state = ?, location_type = ?, job_type = ?, min_experience = ?, min_education = ?, min_salary = ?, max_salary = ?, updated_at = ?
		WHERE id = ?
	`
	_, err := r.db.ExecContext(ctx, query,
		job.JobTitle, job.Description, job.City, job.State, job.LocationType,
		job.JobType, job.MinExperience, job.MinEducation, job.MinSalary, job.MaxSalary,
		time.Now(), job.ID)
	if err != nil {
		return fmt.Errorf("failed to update job: %w", err)
	}

	return nil
}

func (r *jobRepository) UpdateStatus(ctx context.Context, id, status string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE jobs SET status = ?, updated_at = ? WHERE id = ?`,
		status, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update job status: %w", err)
	}

	return nil
}

func (r *jobRepository) ConsumeCreditsTx(ctx context.Context, tx *sql.Tx, jobID string, n int) (bool, error) {
	query := `
		UPDATE jobs
		SET credits_used = credits_used + ?, updated_at = ?
		WHERE id = ? AND credits_used + ? <= total_credits
	`
	result, err := tx.ExecContext(ctx, query, n, time.Now(), jobID, n)
	if err != nil {
		return false, fmt.Errorf("failed to consume credits: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}

	return affected == 1, nil
}

func (r *jobRepository) DeleteByEmployerTx(ctx context.Context, tx *sql.Tx, employerID string) error {
	_, err := tx.ExecContext(ctx, `DELETE FROM jobs WHERE employer_id = ?`, employerID)
	if err != nil {
		return fmt.Errorf("failed to delete jobs: %w", err)
	}

	return nil
}
