package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/Desktoo/WorkEzy-demo/internal/models"
	"github.com/Desktoo/WorkEzy-demo/internal/repository"
	"github.com/Desktoo/WorkEzy-demo/pkg/helpers"
)

var (
	ErrCandidateExists   = errors.New("candidate already registered for this mobile")
	ErrCandidateNotFound = errors.New("candidate not found")
)

// RegisterCandidateInput is the validated candidate signup payload.
type RegisterCandidateInput struct {
	FullName      string
	Mobile        string
	Email         *string
	City          string
	State         string
	ExperienceYrs int32
	Education     string
	ResumeURL     *string
}

type UpdateCandidateInput struct {
	FullName      string
	Email         *string
	City          string
	State         string
	ExperienceYrs int32
	Education     string
	ResumeURL     *string
}

type CandidateService interface {
	Register(ctx context.Context, input RegisterCandidateInput) (*models.Candidate, error)
	GetProfile(ctx context.Context, candidateID string) (*models.Candidate, error)
	UpdateProfile(ctx context.Context, candidateID string, input UpdateCandidateInput) (*models.Candidate, error)
	UploadResume(ctx context.Context, candidateID, filename, contentType string, body io.Reader) (*models.Candidate, error)
}

type candidateService struct {
	candidateRepo repository.CandidateRepository
	store         ObjectStore
	idGen         *helpers.IDGenerator
}

func NewCandidateService(candidateRepo repository.CandidateRepository, store ObjectStore) CandidateService {
	return &candidateService{
		candidateRepo: candidateRepo,
		store:         store,
		idGen:         helpers.NewIDGenerator(),
	}
}

func (s *candidateService) Register(ctx context.Context, input RegisterCandidateInput) (*models.Candidate, error) {
	mobile := normalizeMobile(input.Mobile)

	existing, err := s.candidateRepo.FindByMobile(ctx, mobile)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing candidate: %w", err)
	}
	if existing != nil {
		return nil, ErrCandidateExists
	}

	candidate := &models.Candidate{
		ID:            s.idGen.GenerateUUID(),
		FullName:      strings.TrimSpace(input.FullName),
		Mobile:        mobile,
		Email:         input.Email,
		City:          input.City,
		State:         input.State,
		ExperienceYrs: input.ExperienceYrs,
		Education:     input.Education,
		ResumeURL:     input.ResumeURL,
	}

	if err := s.candidateRepo.Create(ctx, candidate); err != nil {
		return nil, fmt.Errorf("failed to create candidate: %w", err)
	}

	return candidate, nil
}

func (s *candidateService) GetProfile(ctx context.Context, candidateID string) (*models.Candidate, error) {
	candidate, err := s.candidateRepo.FindByID(ctx, candidateID)
	if err != nil {
		return nil, fmt.Errorf("failed to find candidate: %w", err)
	}
	if candidate == nil {
		return nil, ErrCandidateNotFound
	}

	return candidate, nil
}

func (s *candidateService) UpdateProfile(ctx context.Context, candidateID string, input UpdateCandidateInput) (*models.Candidate, error) {
	candidate, err := s.candidateRepo.FindByID(ctx, candidateID)
	if err != nil {
		return nil, fmt.Errorf("failed to find candidate: %w", err)
	}
	if candidate == nil {
		return nil, ErrCandidateNotFound
	}

	candidate.FullName = strings.TrimSpace(input.FullName)
	candidate.Email = input.Email
	candidate.City = input.City
	candidate.State = input.State
	candidate.ExperienceYrs = input.ExperienceYrs
	candidate.Education = input.Education
	candidate.ResumeURL = input.ResumeURL

	if err := s.candidateRepo.Update(ctx, candidate); err != nil {
		return nil, fmt.Errorf("failed to update candidate: %w", err)
	}

	return candidate, nil
}

func (s *candidateService) UploadResume(ctx context.Context, candidateID, filename, contentType string, body io.Reader) (*models.Candidate, error) {
	candidate, err := s.candidateRepo.FindByID(ctx, candidateID)
	if err != nil {
		return nil, fmt.Errorf("failed to find candidate: %w", err)
	}
	if candidate == nil {
		return nil, ErrCandidateNotFound
	}

	// One resume per candidate. Re-uploads replace the stored object.
	objectPath := fmt.Sprintf("resumes/%s/%s", candidateID, sanitizeFilename(filename))
	url, err := s.store.Upload(ctx, objectPath, contentType, body)
	if err != nil {
		return nil, fmt.Errorf("failed to upload resume: %w", err)
	}

	candidate.ResumeURL = &url
	if err := s.candidateRepo.Update(ctx, candidate); err != nil {
		return nil, fmt.Errorf("failed to update candidate: %w", err)
	}

	return candidate, nil
}

func sanitizeFilename(filename string) string {
	name := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.' || r == '-' || r == '_':
			return r
		default:
			return '_'
		}
	}, name)
	if name == "" || name == "." {
		return "resume.pdf"
	}
	return name
}
