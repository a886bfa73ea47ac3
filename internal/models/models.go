package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Application lifecycle statuses
const (
	ApplicationApplied    = "APPLIED"
	ApplicationInterested = "INTERESTED"
	ApplicationAiScreened = "AI_SCREENED"
	ApplicationAiFit      = "AI_FIT"
	ApplicationAiNotFit   = "AI_NOT_FIT"
)

// Payment statuses
const (
	PaymentSuccess = "SUCCESS"
	PaymentFailed  = "FAILED"
)

// Job statuses
const (
	JobActive = "ACTIVE"
	JobClosed = "CLOSED"
)

// MaxAiAttempts bounds how many times a single application may be put
// through AI screening.
const MaxAiAttempts = 2

type Employer struct {
	ID          string    `db:"id"`
	Name        string    `db:"name"`
	Email       string    `db:"email"`
	Mobile      string    `db:"mobile"`
	CompanyName string    `db:"company_name"`
	CompanyURL  *string   `db:"company_url"`
	City        string    `db:"city"`
	State       string    `db:"state"`
	DocsURL     *string   `db:"docs_url"`
	Verified    bool      `db:"verified"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

type Candidate struct {
	ID            string    `db:"id"`
	FullName      string    `db:"full_name"`
	Mobile        string    `db:"mobile"`
	Email         *string   `db:"email"`
	City          string    `db:"city"`
	State         string    `db:"state"`
	ExperienceYrs int32     `db:"experience_yrs"`
	Education     string    `db:"education"`
	ResumeURL     *string   `db:"resume_url"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

type Plan struct {
	ID            string          `db:"id"`
	Name          string          `db:"name"`
	CreditsPerJob int32           `db:"credits_per_job"`
	Price         decimal.Decimal `db:"price"` // INR
	CreatedAt     time.Time       `db:"created_at"`
}

type Payment struct {
	ID            string          `db:"id"`
	EmployerID    string          `db:"employer_id"`
	PlanID        string          `db:"plan_id"`
	TransactionID string          `db:"transaction_id"` // gateway payment id, unique
	Provider      string          `db:"provider"`
	Amount        decimal.Decimal `db:"amount"`
	Currency      string          `db:"currency"`
	Status        string          `db:"status"`
	IsConsumed    bool            `db:"is_consumed"`
	CreatedAt     time.Time       `db:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at"`
}

type Job struct {
	ID           string    `db:"id"`
	EmployerID   string    `db:"employer_id"`
	PlanID       string    `db:"plan_id"`
	JobTitle     string    `db:"job_title"`
	Description  string    `db:"description"`
	City         string    `db:"city"`
	State        string    `db:"state"`
	LocationType string    `db:"location_type"`
	JobType      string    `db:"job_type"`
	MinExperience int32    `db:"min_experience"`
	MinEducation string    `db:"min_education"`
	MinSalary    int64     `db:"min_salary"`
	MaxSalary    int64     `db:"max_salary"`
	TotalCredits int32     `db:"total_credits"`
	CreditsUsed  int32     `db:"credits_used"`
	Status       string    `db:"status"`
	ExpiresAt    time.Time `db:"expires_at"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

type Application struct {
	ID             string    `db:"id"`
	JobID          string    `db:"job_id"`
	CandidateID    string    `db:"candidate_id"`
	Status         string    `db:"status"`
	AiAttempts     int32     `db:"ai_attempts"`
	FilteringRight int32     `db:"filtering_right"`
	FilteringWrong int32     `db:"filtering_wrong"`
	IsFiltered     bool      `db:"is_filtered"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

// FilteringQuestion is an employer-defined yes/no screening question attached
// to a job at creation time. Immutable once answered against.
type FilteringQuestion struct {
	ID             string    `db:"id"`
	JobID          string    `db:"job_id"`
	Question       string    `db:"question"`
	ExpectedAnswer string    `db:"expected_answer"` // Yes | No
	CreatedAt      time.Time `db:"created_at"`
}

type FilteringAnswer struct {
	ID              string    `db:"id"`
	ApplicationID   string    `db:"application_id"`
	QuestionID      string    `db:"question_id"`
	CandidateAnswer string    `db:"candidate_answer"`
	CreatedAt       time.Time `db:"created_at"`
}

// AiQuestion is created per AI-screening invocation, not at job creation.
type AiQuestion struct {
	ID             string    `db:"id"`
	JobID          string    `db:"job_id"`
	Question       string    `db:"question"`
	ExpectedAnswer string    `db:"expected_answer"`
	CreatedAt      time.Time `db:"created_at"`
}

// AiAnswer rows are created empty when screening starts and filled in as the
// candidate responds. A nil CandidateAnswer counts against the candidate at
// evaluation time.
type AiAnswer struct {
	ID              string    `db:"id"`
	ApplicationID   string    `db:"application_id"`
	QuestionID      string    `db:"question_id"`
	CandidateAnswer *string   `db:"candidate_answer"`
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
}

// AiAnswerWithExpected joins an answer with its question's expected answer
// for fit evaluation.
type AiAnswerWithExpected struct {
	AnswerID        string
	QuestionID      string
	CandidateAnswer *string
	ExpectedAnswer  string
}
