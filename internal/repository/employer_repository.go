package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Desktoo/WorkEzy-demo/internal/models"
)

type EmployerRepository interface {
	Create(ctx context.Context, employer *models.Employer) error
	FindByID(ctx context.Context, id string) (*models.Employer, error)
	FindByMobile(ctx context.Context, mobile string) (*models.Employer, error)
	Update(ctx context.Context, employer *models.Employer) error
	ArchiveTx(ctx context.Context, tx *sql.Tx, id string) error
	DeleteTx(ctx context.Context, tx *sql.Tx, id string) error
}

type employerRepository struct {
	db *sql.DB
}

func NewEmployerRepository(db *sql.DB) EmployerRepository {
	return &employerRepository{db: db}
}

const employerColumns = `id, name, email, mobile, company_name, company_url, city, state, docs_url, verified, created_at, updated_at`

func (r *employerRepository) Create(ctx context.Context, employer *models.Employer) error {
	query := `
		INSERT INTO employers (id, name, email, mobile, company_name, company_url, city, state, docs_url, verified, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	now := time.Now()
	_, err := r.db.ExecContext(ctx, query,
		employer.ID, employer.Name, employer.Email, employer.Mobile,
		employer.CompanyName, employer.CompanyURL, employer.City, employer.State,
		employer.DocsURL, employer.Verified, now, now)
	if err != nil {
		return fmt.Errorf("failed to create employer: %w", err)
	}

	return nil
}

func (r *employerRepository) FindByID(ctx context.Context, id string) (*models.Employer, error) {
	query := `SELECT ` + employerColumns + ` FROM employers WHERE id = ?`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *employerRepository) FindByMobile(ctx context.Context, mobile string) (*models.Employer, error) {
	query := `SELECT ` + employerColumns + ` FROM employers WHERE mobile = ?`
	return r.scanOne(r.db.QueryRowContext(ctx, query, mobile))
}

func (r *employerRepository) scanOne(row *sql.Row) (*models.Employer, error) {
	employer := &models.Employer{}
	err := row.Scan(
		&employer.ID, &employer.Name, &employer.Email, &employer.Mobile,
		&employer.CompanyName, &employer.CompanyURL, &employer.City, &employer.State,
		&employer.DocsURL, &employer.Verified, &employer.CreatedAt, &employer.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find employer: %w", err)
	}
	return employer, nil
}

func (r *employerRepository) Update(ctx context.Context, employer *models.Employer) error {
	query := `
		UPDATE employers
		SET name = ?, email = ?, company_name = ?, company_url = ?, city = ?, state = ?, docs_url = ?, verified = ?, updated_at = ?
		WHERE id = ?
	`
	_, err := r.db.ExecContext(ctx, query,
		employer.Name, employer.Email, employer.CompanyName, employer.CompanyURL,
		employer.City, employer.State, employer.DocsURL, employer.Verified,
		time.Now(), employer.ID)
	if err != nil {
		return fmt.Errorf("failed to update employer: %w", err)
	}

	return nil
}

// ArchiveTx copies the employer row into employers_archive before deletion.
func (r *employerRepository) ArchiveTx(ctx context.Context, tx *sql.Tx, id string) error {
	query := `
		INSERT INTO employers_archive (id, name, email, mobile, company_name, company_url, city, state, docs_url, verified, created_at, updated_at, archived_at)
		SELECT id, name, email, mobile, company_name, company_url, city, state, docs_url, verified, created_at, updated_at, ?
		FROM employers
		WHERE id = ?
	`
	_, err := tx.ExecContext(ctx, query, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to archive employer: %w", err)
	}

	return nil
}

func (r *employerRepository) DeleteTx(ctx context.Context, tx *sql.Tx, id string) error {
	_, err := tx.ExecContext(ctx, `DELETE FROM employers WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete employer: %w", err)
	}

	return nil
}
