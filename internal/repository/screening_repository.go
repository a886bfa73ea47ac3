package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Desktoo/WorkEzy-demo/internal/models"
)

// ScreeningRepository persists filtering questions/answers (job-owned) and
// AI screening questions/answers (created per screening invocation).
type ScreeningRepository interface {
	CreateFilteringQuestionsTx(ctx context.Context, tx *sql.Tx, questions []models.FilteringQuestion) error
	ListFilteringQuestions(ctx context.Context, jobID string) ([]models.FilteringQuestion, error)
	CreateFilteringAnswersTx(ctx context.Context, tx *sql.Tx, answers []models.FilteringAnswer) error

	CreateAiQuestionsTx(ctx context.Context, tx *sql.Tx, questions []models.AiQuestion) error
	CreatePendingAiAnswersTx(ctx context.Context, tx *sql.Tx, answers []models.AiAnswer) error
	// ListAiAnswersWithExpected joins each of the application's AI answers
	// with its question's expected answer for fit evaluation.
	ListAiAnswersWithExpected(ctx context.Context, applicationID string) ([]models.AiAnswerWithExpected, error)
	UpdateAiAnswer(ctx context.Context, answerID, applicationID, candidateAnswer string) (bool, error)
}

type screeningRepository struct {
	db *sql.DB
}

func NewScreeningRepository(db *sql.DB) ScreeningRepository {
	return &screeningRepository{db: db}
}

func (r *screeningRepository) CreateFilteringQuestionsTx(ctx context.Context, tx *sql.Tx, questions []models.FilteringQuestion) error {
	query := `
		INSERT INTO filtering_questions (id, job_id, question, expected_answer, created_at)
		VALUES (?, ?, ?, ?, ?)
	`
	now := time.Now()
	for i := range questions {
		q := &questions[i]
		if _, err := tx.ExecContext(ctx, query, q.ID, q.JobID, q.Question, q.ExpectedAnswer, now); err != nil {
			return fmt.Errorf("failed to create filtering question: %w", err)
		}
	}

	return nil
}

func (r *screeningRepository) ListFilteringQuestions(ctx context.Context, jobID string) ([]models.FilteringQuestion, error) {
	query := `
		SELECT id, job_id, question, expected_answer, created_at
		FROM filtering_questions
		WHERE job_id = ?
		ORDER BY created_at ASC
	`
	rows, err := r.db.QueryContext(ctx, query, jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to list filtering questions: %w", err)
	}
	defer rows.Close()

	var questions []models.FilteringQuestion
	for rows.Next() {
		var q models.FilteringQuestion
		if err := rows.Scan(&q.ID, &q.JobID, &q.Question, &q.ExpectedAnswer, &q.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan filtering question: %w", err)
		}
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate filtering questions: %w", err)
	}

	return questions, nil
}

func (r *screeningRepository) CreateFilteringAnswersTx(ctx context.Context, tx *sql.Tx, answers []models.FilteringAnswer) error {
	query := `
		INSERT INTO filtering_answers (id, application_id, question_id, candidate_answer, created_at)
		VALUES (?, ?, ?, ?, ?)
	`
	now := time.Now()
	for i := range answers {
		a := &answers[i]
		if _, err := tx.ExecContext(ctx, query, a.ID, a.ApplicationID, a.QuestionID, a.CandidateAnswer, now); err != nil {
			return fmt.Errorf("failed to create filtering answer: %w", err)
		}
	}

	return nil
}

func (r *screeningRepository) CreateAiQuestionsTx(ctx context.Context, tx *sql.Tx, questions []models.AiQuestion) error {
	query := `
		INSERT INTO ai_questions (id, job_id, question, expected_answer, created_at)
		VALUES (?, ?, ?, ?, ?)
	`
	now := time.Now()
	for i := range questions {
		q := &questions[i]
		if _, err := tx.ExecContext(ctx, query, q.ID, q.JobID, q.Question, q.ExpectedAnswer, now); err != nil {
			return fmt.Errorf("failed to create ai question: %w", err)
		}
	}

	return nil
}

func (r *screeningRepository) CreatePendingAiAnswersTx(ctx context.Context, tx *sql.Tx, answers []models.AiAnswer) error {
	query := `
		INSERT INTO ai_answers (id, application_id, question_id, candidate_answer, created_at, updated_at)
		VALUES (?, ?, ?, NULL, ?, ?)
	`
	now := time.Now()
	for i := range answers {
		a := &answers[i]
		if _, err := tx.ExecContext(ctx, query, a.ID, a.ApplicationID, a.QuestionID, now, now); err != nil {
			return fmt.Errorf("failed to create pending ai answer: %w", err)
		}
	}

	return nil
}

func (r *screeningRepository) ListAiAnswersWithExpected(ctx context.Context, applicationID string) ([]models.AiAnswerWithExpected, error) {
	query := `
		SELECT a.id, a.question_id, a.candidate_answer, q.expected_answer
		FROM ai_answers a
		JOIN ai_questions q ON q.id = a.question_id
		WHERE a.application_id = ?
		ORDER BY a.created_at ASC
	`
	rows, err := r.db.QueryContext(ctx, query, applicationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list ai answers: %w", err)
	}
	defer rows.Close()

	var answers []models.AiAnswerWithExpected
	for rows.Next() {
		var a models.AiAnswerWithExpected
		if err := rows.Scan(&a.AnswerID, &a.QuestionID, &a.CandidateAnswer, &a.ExpectedAnswer); err != nil {
			return nil, fmt.Errorf("failed to scan ai answer: %w", err)
		}
		answers = append(answers, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate ai answers: %w", err)
	}

	return answers, nil
}

func (r *screeningRepository) UpdateAiAnswer(ctx context.Context, answerID, applicationID, candidateAnswer string) (bool, error) {
	query := `
		UPDATE ai_answers
		SET candidate_answer = ?, updated_at = ?
		WHERE id = ? AND application_id = ?
	`
	result, err := r.db.ExecContext(ctx, query, candidateAnswer, time.Now(), answerID, applicationID)
	if err != nil {
		return false, fmt.Errorf("failed to update ai answer: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}

	return affected == 1, nil
}
