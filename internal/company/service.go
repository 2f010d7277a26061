package company

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=company
type Repository interface {
	CreateCompany(ctx context.Context, c *Company) error
	GetCompany(ctx context.Context, id uuid.UUID) (*Company, error)
	ListCompanies(ctx context.Context) ([]*Company, error)
	UpdateGSTIN(ctx context.Context, id uuid.UUID, gstin, stateCode string) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateParams struct {
	Name  string
	GSTIN string
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Company, error) {
	name := strings.TrimSpace(params.Name)
	if name == "" {
		return nil, ErrInvalidName
	}

	gstin, err := NormalizeGSTIN(params.GSTIN)
	if err != nil {
		return nil, err
	}

	c := &Company{
		Name:      name,
		GSTIN:     gstin,
		StateCode: stateCode(gstin),
	}
	if err := s.repo.CreateCompany(ctx, c); err != nil {
		return nil, err
	}

	return c, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Company, error) {
	return s.repo.GetCompany(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]*Company, error) {
	return s.repo.ListCompanies(ctx)
}

// UpdateGSTIN registers or clears the company's GSTIN. Clearing it disables
// tax on every transaction saved afterwards.
func (s *Service) UpdateGSTIN(ctx context.Context, id uuid.UUID, raw string) error {
	gstin, err := NormalizeGSTIN(raw)
	if err != nil {
		return err
	}

	return s.repo.UpdateGSTIN(ctx, id, gstin, stateCode(gstin))
}

// TaxEnabled reports whether tax applies to the company's transactions.
func (s *Service) TaxEnabled(ctx context.Context, id uuid.UUID) (bool, error) {
	c, err := s.repo.GetCompany(ctx, id)
	if err != nil {
		return false, fmt.Errorf("loading company: %w", err)
	}

	return c.TaxRegistered(), nil
}

func stateCode(gstin string) string {
	if len(gstin) < 2 {
		return ""
	}

	return gstin[:2]
}
