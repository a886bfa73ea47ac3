package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Desktoo/WorkEzy-demo/internal/models"
	"github.com/Desktoo/WorkEzy-demo/internal/repository"
	"github.com/Desktoo/WorkEzy-demo/pkg/helpers"
)

var (
	ErrEmployerExists   = errors.New("employer already registered for this mobile")
	ErrEmployerNotFound = errors.New("employer not found")
)

// RegisterEmployerInput is the validated employer signup payload.
type RegisterEmployerInput struct {
	Name        string
	Email       string
	Mobile      string
	CompanyName string
	CompanyURL  *string
	City        string
	State       string
	DocsURL     *string
}

// UpdateEmployerInput carries the mutable profile fields. Mobile is the
// login identity and is not updatable here.
type UpdateEmployerInput struct {
	Name        string
	Email       string
	CompanyName string
	CompanyURL  *string
	City        string
	State       string
	DocsURL     *string
}

type EmployerService interface {
	Register(ctx context.Context, input RegisterEmployerInput) (*models.Employer, error)
	GetProfile(ctx context.Context, employerID string) (*models.Employer, error)
	UpdateProfile(ctx context.Context, employerID string, input UpdateEmployerInput) (*models.Employer, error)
}

type employerService struct {
	employerRepo repository.EmployerRepository
	idGen        *helpers.IDGenerator
}

func NewEmployerService(employerRepo repository.EmployerRepository) EmployerService {
	return &employerService{
		employerRepo: employerRepo,
		idGen:        helpers.NewIDGenerator(),
	}
}

func (s *employerService) Register(ctx context.Context, input RegisterEmployerInput) (*models.Employer, error) {
	mobile := normalizeMobile(input.Mobile)

	existing, err := s.employerRepo.FindByMobile(ctx, mobile)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing employer: %w", err)
	}
	if existing != nil {
		return nil, ErrEmployerExists
	}

	employer := &models.Employer{
		ID:          s.idGen.GenerateUUID(),
		Name:        strings.TrimSpace(input.Name),
		Email:       strings.TrimSpace(input.Email),
		Mobile:      mobile,
		CompanyName: strings.TrimSpace(input.CompanyName),
		CompanyURL:  input.CompanyURL,
		City:        input.City,
		State:       input.State,
		DocsURL:     input.DocsURL,
		Verified:    false,
	}

	if err := s.employerRepo.Create(ctx, employer); err != nil {
		return nil, fmt.Errorf("failed to create employer: %w", err)
	}

	return employer, nil
}

func (s *employerService) GetProfile(ctx context.Context, employerID string) (*models.Employer, error) {
	employer, err := s.employerRepo.FindByID(ctx, employerID)
	if err != nil {
		return nil, fmt.Errorf("failed to find employer: %w", err)
	}
	if employer == nil {
		return nil, ErrEmployerNotFound
	}

	return employer, nil
}

func (s *employerService) UpdateProfile(ctx context.Context, employerID string, input UpdateEmployerInput) (*models.Employer, error) {
	employer, err := s.employerRepo.FindByID(ctx, employerID)
	if err != nil {
		return nil, fmt.Errorf("failed to find employer: %w", err)
	}
	if employer == nil {
		return nil, ErrEmployerNotFound
	}

	employer.Name = strings.TrimSpace(input.Name)
	employer.Email = strings.TrimSpace(input.Email)
	employer.CompanyName = strings.TrimSpace(input.CompanyName)
	employer.CompanyURL = input.CompanyURL
	employer.City = input.City
	employer.State = input.State
	employer.DocsURL = input.DocsURL

	if err := s.employerRepo.Update(ctx, employer); err != nil {
		return nil, fmt.Errorf("failed to update employer: %w", err)
	}

	return employer, nil
}

// normalizeMobile strips a +91 country prefix so storage and OTP lookups
// agree on one canonical form.
func normalizeMobile(mobile string) string {
	mobile = strings.TrimSpace(mobile)
	return strings.TrimPrefix(mobile, "+91")
}
