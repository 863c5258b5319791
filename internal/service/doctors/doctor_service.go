package doctors

import (
	"context"

	"github.com/mkravets/docbooking/internal/domain"
	"github.com/mkravets/docbooking/internal/repository"
)

type DoctorUseCase interface {
	List(ctx context.Context) ([]domain.Doctor, error)
	GetByID(ctx context.Context, id int64) (*domain.Doctor, error)
}

type Cache interface {
	GetDoctors(ctx context.Context) ([]domain.Doctor, error)
	SetDoctors(ctx context.Context, doctors []domain.Doctor) error
}

type DoctorService struct {
	repo  repository.DoctorRepository
	cache Cache
}

func NewDoctorService(repo repository.DoctorRepository, cache Cache) *DoctorService {
	return &DoctorService{repo: repo, cache: cache}
}

func (s *DoctorService) List(ctx context.Context) ([]domain.Doctor, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetDoctors(ctx); err == nil && cached != nil {
			return cached, nil
		}
	}

	doctors, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.SetDoctors(ctx, doctors)
	}
	return doctors, nil
}

func (s *DoctorService) GetByID(ctx context.Context, id int64) (*domain.Doctor, error) {
	return s.repo.GetByID(ctx, id)
}

var _ DoctorUseCase = (*DoctorService)(nil)
