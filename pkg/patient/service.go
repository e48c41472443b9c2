package patient

import (
	"context"

	"github.com/clinscribe/platform/pkg/common/models"
)

type Service struct {
	repo *Repository
}

func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, req models.CreatePatientRequest) (models.Patient, error) {
	return s.repo.Create(ctx, req)
}

func (s *Service) Get(ctx context.Context, uid string) (models.Patient, error) {
	return s.repo.Get(ctx, uid)
}

func (s *Service) Update(ctx context.Context, uid string, req models.UpdatePatientRequest) (models.Patient, error) {
	return s.repo.Update(ctx, uid, req)
}

func (s *Service) List(ctx context.Context, skip, limit int) ([]models.Patient, error) {
	return s.repo.List(ctx, skip, limit)
}

func (s *Service) Delete(ctx context.Context, uid string) error {
	return s.repo.Delete(ctx, uid)
}
