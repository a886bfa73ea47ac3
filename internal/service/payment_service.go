package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Desktoo/WorkEzy-demo/internal/models"
	"github.com/Desktoo/WorkEzy-demo/internal/razorpay"
	"github.com/Desktoo/WorkEzy-demo/internal/repository"
	"github.com/Desktoo/WorkEzy-demo/pkg/helpers"
)

var (
	ErrPlanNotFound     = errors.New("plan not found")
	ErrInvalidSignature = errors.New("invalid payment signature")
	ErrDuplicatePayment = errors.New("payment already recorded")
)

// GatewayOrder is the order handed back to the client for checkout.
type GatewayOrder struct {
	OrderID  string
	Amount   int64
	Currency string
	Plan     models.Plan
}

// VerifyPaymentInput is the signed gateway callback payload.
type VerifyPaymentInput struct {
	OrderID   string
	PaymentID string
	Signature string
	PlanID    string
}

// PaymentService owns the payment half of the job-posting workflow: gateway
// order creation and callback verification. A verified payment only unlocks
// the ability to post one job; credits are snapshotted at job creation.
type PaymentService interface {
	CreateOrder(ctx context.Context, employerID, planID string) (*GatewayOrder, error)
	VerifyPayment(ctx context.Context, employerID string, input VerifyPaymentInput) (*models.Payment, error)
	ListPayments(ctx context.Context, employerID string) ([]models.Payment, error)
}

type paymentService struct {
	paymentRepo    repository.PaymentRepository
	planRepo       repository.PlanRepository
	employerRepo   repository.EmployerRepository
	razorpayClient RazorpayClient
	idGen          *helpers.IDGenerator
}

func NewPaymentService(
	paymentRepo repository.PaymentRepository,
	planRepo repository.PlanRepository,
	employerRepo repository.EmployerRepository,
	razorpayClient RazorpayClient,
) PaymentService {
	return &paymentService{
		paymentRepo:    paymentRepo,
		planRepo:       planRepo,
		employerRepo:   employerRepo,
		razorpayClient: razorpayClient,
		idGen:          helpers.NewIDGenerator(),
	}
}

func (s *paymentService) CreateOrder(ctx context.Context, employerID, planID string) (*GatewayOrder, error) {
	employer, err := s.employerRepo.FindByID(ctx, employerID)
	if err != nil {
		return nil, fmt.Errorf("failed to find employer: %w", err)
	}
	if employer == nil {
		return nil, ErrEmployerNotFound
	}

	plan, err := s.planRepo.FindByID(ctx, planID)
	if err != nil {
		return nil, fmt.Errorf("failed to find plan: %w", err)
	}
	if plan == nil {
		return nil, ErrPlanNotFound
	}

	// Gateway amounts are in paise
	amount := plan.Price.Mul(decimal.NewFromInt(100)).IntPart()

	order, err := s.razorpayClient.CreateOrder(razorpay.OrderParams{
		Amount:   amount,
		Currency: "INR",
		Receipt:  s.idGen.GenerateReceiptID(),
		PlanID:   plan.ID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gateway order: %w", err)
	}

	return &GatewayOrder{
		OrderID:  order.ID,
		Amount:   order.Amount,
		Currency: order.Currency,
		Plan:     *plan,
	}, nil
}

func (s *paymentService) VerifyPayment(ctx context.Context, employerID string, input VerifyPaymentInput) (*models.Payment, error) {
	employer, err := s.employerRepo.FindByID(ctx, employerID)
	if err != nil {
		return nil, fmt.Errorf("failed to find employer: %w", err)
	}
	if employer == nil {
		return nil, ErrEmployerNotFound
	}

	if !s.razorpayClient.VerifySignature(input.OrderID, input.PaymentID, input.Signature) {
		return nil, ErrInvalidSignature
	}

	plan, err := s.planRepo.FindByID(ctx, input.PlanID)
	if err != nil {
		return nil, fmt.Errorf("failed to find plan: %w", err)
	}
	if plan == nil {
		return nil, ErrPlanNotFound
	}

	// Idempotency guard against duplicate gateway callbacks
	existing, err := s.paymentRepo.FindByTransactionID(ctx, input.PaymentID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing payment: %w", err)
	}
	if existing != nil {
		return nil, ErrDuplicatePayment
	}

	payment := &models.Payment{
		ID:            s.idGen.GenerateUUID(),
		EmployerID:    employer.ID,
		PlanID:        plan.ID,
		TransactionID: input.PaymentID,
		Provider:      "razorpay",
		Amount:        plan.Price,
		Currency:      "INR",
		Status:        models.PaymentSuccess,
		IsConsumed:    false,
	}

	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		return nil, fmt.Errorf("failed to create payment: %w", err)
	}

	return payment, nil
}

func (s *paymentService) ListPayments(ctx context.Context, employerID string) ([]models.Payment, error) {
	payments, err := s.paymentRepo.ListByEmployer(ctx, employerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}

	return payments, nil
}
