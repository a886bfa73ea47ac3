package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Desktoo/WorkEzy-demo/internal/models"
)

type CandidateRepository interface {
	Create(ctx context.Context, candidate *models.Candidate) error
	FindByID(ctx context.Context, id string) (*models.Candidate, error)
	FindByMobile(ctx context.Context, mobile string) (*models.Candidate, error)
	Update(ctx context.Context, candidate *models.Candidate) error
}

type candidateRepository struct {
	db *sql.DB
}

func NewCandidateRepository(db *sql.DB) CandidateRepository {
	return &candidateRepository{db: db}
}

const candidateColumns = `id, full_name, mobile, email, city, state, experience_yrs, education, resume_url, created_at, updated_at`

func (r *candidateRepository) Create(ctx context.Context, candidate *models.Candidate) error {
	query := `
		INSERT INTO candidates (id, full_name, mobile, email, city, state, experience_yrs, education, resume_url, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	now := time.Now()
	_, err := r.db.ExecContext(ctx, query,
		candidate.ID, candidate.FullName, candidate.Mobile, candidate.Email,
		candidate.City, candidate.State, candidate.ExperienceYrs, candidate.Education,
		candidate.ResumeURL, now, now)
	if err != nil {
		return fmt.Errorf("failed to create candidate: %w", err)
	}

	return nil
}

func (r *candidateRepository) FindByID(ctx context.Context, id string) (*models.Candidate, error) {
	query := `SELECT ` + candidateColumns + ` FROM candidates WHERE id = ?`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *candidateRepository) FindByMobile(ctx context.Context, mobile string) (*models.Candidate, error) {
	query := `SELECT ` + candidateColumns + ` FROM candidates WHERE mobile = ?`
	return r.scanOne(r.db.QueryRowContext(ctx, query, mobile))
}

func (r *candidateRepository) scanOne(row *sql.Row) (*models.Candidate, error) {
	candidate := &models.Candidate{}
	err := row.Scan(
		&candidate.ID, &candidate.FullName, &candidate.Mobile, &candidate.Email,
		&candidate.City, &candidate.State, &candidate.ExperienceYrs, &candidate.Education,
		&candidate.ResumeURL, &candidate.CreatedAt, &candidate.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find candidate: %w", err)
	}
	return candidate, nil
}

func (r *candidateRepository) Update(ctx context.Context, candidate *models.Candidate) error {
	query := `
		UPDATE candidates
		SET full_name = ?, email = ?, city = ?, state = ?, experience_yrs = ?, education = ?, resume_url = ?, updated_at = ?
		WHERE id = ?
	`
	_, err := r.db.ExecContext(ctx, query,
		candidate.FullName, candidate.Email, candidate.City, candidate.State,
		candidate.ExperienceYrs, candidate.Education, candidate.ResumeURL,
		time.Now(), candidate.ID)
	if err != nil {
		return fmt.Errorf("failed to update candidate: %w", err)
	}

	return nil
}
