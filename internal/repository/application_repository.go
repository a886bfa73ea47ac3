package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/Desktoo/WorkEzy-demo/internal/models"
)

type ApplicationRepository interface {
	CreateTx(ctx context.Context, tx *sql.Tx, application *models.Application) error
	FindByID(ctx context.Context, id string) (*models.Application, error)
	// FindByIDForEmployer resolves an application only when the caller owns
	// the parent job.
	FindByIDForEmployer(ctx context.Context, id, employerID string) (*models.Application, error)
	FindByJobAndCandidate(ctx context.Context, jobID, candidateID string) (*models.Application, error)
	// FindByIDsForJob loads a batch of applications that belong to the job.
	FindByIDsForJob(ctx context.Context, jobID string, ids []string) ([]models.Application, error)
	ListByJob(ctx context.Context, jobID string, status string) ([]models.Application, error)
	UpdateStatus(ctx context.Context, id, status string) error
	UpdateStatusTx(ctx context.Context, tx *sql.Tx, id, status string) error
	// MarkAiScreenedTx sets the status and bumps the attempt counter in one
	// statement, inside the screening transaction.
	MarkAiScreenedTx(ctx context.Context, tx *sql.Tx, id string) error
	DeleteByEmployerTx(ctx context.Context, tx *sql.Tx, employerID string) error
}

type applicationRepository struct {
	db *sql.DB
}

func NewApplicationRepository(db *sql.DB) ApplicationRepository {
	return &applicationRepository{db: db}
}

const applicationColumns = `id, job_id, candidate_id, status, ai_attempts, filtering_right, filtering_wrong, is_filtered, created_at, updated_at`

func (r *applicationRepository) CreateTx(ctx context.Context, tx *sql.Tx, application *models.Application) error {
	query := `
		INSERT INTO applications (id, job_id, candidate_id, status, ai_attempts, filtering_right, filtering_wrong, is_filtered, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	now := time.Now()
	_, err := tx.ExecContext(ctx, query,
		application.ID, application.JobID, application.CandidateID, application.Status,
		application.AiAttempts, application.FilteringRight, application.FilteringWrong,
		application.IsFiltered, now, now)
	if err != nil {
		return fmt.Errorf("failed to create application: %w", err)
	}

	return nil
}

func (r *applicationRepository) FindByID(ctx context.Context, id string) (*models.Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications WHERE id = ?`
	return scanApplication(r.db.QueryRowContext(ctx, query, id))
}

func (r *applicationRepository) FindByIDForEmployer(ctx context.Context, id, employerID string) (*models.Application, error) {
	query := `
		SELECT a.id, a.job_id, a.candidate_id, a.status, a.ai_attempts, a.filtering_right, a.filtering_wrong, a.is_filtered, a.created_at, a.updated_at
		FROM applications a
		JOIN jobs j ON j.id = a.job_id
		WHERE a.id = ? AND j.employer_id = ?
	`
	return scanApplication(r.db.QueryRowContext(ctx, query, id, employerID))
}

func (r *applicationRepository) FindByJobAndCandidate(ctx context.Context, jobID, candidateID string) (*models.Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications WHERE job_id = ? AND candidate_id = ?`
	return scanApplication(r.db.QueryRowContext(ctx, query, jobID, candidateID))
}

func scanApplication(row *sql.Row) (*models.Application, error) {
	application := &models.Application{}
	err := row.Scan(
		&application.ID, &application.JobID, &application.CandidateID, &application.Status,
		&application.AiAttempts, &application.FilteringRight, &application.FilteringWrong,
		&application.IsFiltered, &application.CreatedAt, &application.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find application: %w", err)
	}
	return application, nil
}

func (r *applicationRepository) FindByIDsForJob(ctx context.Context, jobID string, ids []string) ([]models.Application, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	query := `SELECT ` + applicationColumns + ` FROM applications WHERE job_id = ? AND id IN (` + placeholders + `)`

	args := make([]interface{}, 0, len(ids)+1)
	args = append(args, jobID)
	for _, id := range ids {
		args = append(args, id)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to find applications: %w", err)
	}
	defer rows.Close()

	return collectApplications(rows)
}

func (r *applicationRepository) ListByJob(ctx context.Context, jobID string, status string) ([]models.Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications WHERE job_id = ?`
	args := []interface{}{jobID}
	if status != "" {
		query += ` AND status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	defer rows.Close()

	return collectApplications(rows)
}

func collectApplications(rows *sql.Rows) ([]models.Application, error) {
	var applications []models.Application
	for rows.Next() {
		var a models.Application
		if err := rows.Scan(
			&a.ID, &a.JobID, &a.CandidateID, &a.Status,
			&a.AiAttempts, &a.FilteringRight, &a.FilteringWrong,
			&a.IsFiltered, &a.CreatedAt, &a.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan application: %w", err)
		}
		applications = append(applications, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate applications: %w", err)
	}
	return applications, nil
}

func (r *applicationRepository) UpdateStatus(ctx context.Context, id, status string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE applications SET status = ?, updated_at = ? WHERE id = ?`,
		status, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update application status: %w", err)
	}

	return nil
}

func (r *applicationRepository) UpdateStatusTx(ctx context.Context, tx *sql.Tx, id, status string) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE applications SET status = ?, updated_at = ? WHERE id = ?`,
		status, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update application status: %w", err)
	}

	return nil
}

func (r *applicationRepository) MarkAiScreenedTx(ctx context.Context, tx *sql.Tx, id string) error {
	query := `
		UPDATE applications
		SET status = ?, ai_attempts = ai_attempts + 1, updated_at = ?
		WHERE id = ?
	`
	_, err := tx.ExecContext(ctx, query, models.ApplicationAiScreened, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to mark application screened: %w", err)
	}

	return nil
}

func (r *applicationRepository) DeleteByEmployerTx(ctx context.Context, tx *sql.Tx, employerID string) error {
	query := `
		DELETE a FROM applications a
		JOIN jobs j ON j.id = a.job_id
		WHERE j.employer_id = ?
	`
	_, err := tx.ExecContext(ctx, query, employerID)
	if err != nil {
		return fmt.Errorf("failed to delete applications: %w", err)
	}

	return nil
}
