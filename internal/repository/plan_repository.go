package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Desktoo/WorkEzy-demo/internal/models"
)

type PlanRepository interface {
	FindByID(ctx context.Context, id string) (*models.Plan, error)
	List(ctx context.Context) ([]models.Plan, error)
}

type planRepository struct {
	db *sql.DB
}

func NewPlanRepository(db *sql.DB) PlanRepository {
	return &planRepository{db: db}
}

func (r *planRepository) FindByID(ctx context.Context, id string) (*models.Plan, error) {
	query := `
		SELECT id, name, credits_per_job, price, created_at
		FROM plans
		WHERE id = ?
	`
	plan := &models.Plan{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&plan.ID, &plan.Name, &plan.CreditsPerJob, &plan.Price, &plan.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find plan: %w", err)
	}
	return plan, nil
}

func (r *planRepository) List(ctx context.Context) ([]models.Plan, error) {
	query := `
		SELECT id, name, credits_per_job, price, created_at
		FROM plans
		ORDER BY price ASC
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}
	defer rows.Close()

	var plans []models.Plan
	for rows.Next() {
		var plan models.Plan
		if err := rows.Scan(&plan.ID, &plan.Name, &plan.CreditsPerJob, &plan.Price, &plan.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan plan: %w", err)
		}
		plans = append(plans, plan)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate plans: %w", err)
	}

	return plans, nil
}
